package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glowmart/shopcore/internal/handlers"
	"github.com/glowmart/shopcore/internal/service/token"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	OrderHandler    *handlers.OrderHandler
	AdminHandler    *handlers.AdminHandler
	SearchHandler   *handlers.SearchHandler
	Tokens          *token.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.POST("/password-reset/request", d.AuthHandler.RequestPasswordReset)
	v1.POST("/password-reset", d.AuthHandler.ResetPassword)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/categories", d.CategoryHandler.GetCategories)
	v1.GET("/search", d.SearchHandler.Search)

	user := v1.Group("", d.Tokens.RequireUser)
	user.GET("/me", d.AuthHandler.Me)
	user.POST("/orders", d.OrderHandler.CreateOrder)
	user.GET("/orders", d.OrderHandler.GetMyOrders)
	user.GET("/orders/:id", d.OrderHandler.GetOrder)

	admin := v1.Group("/admin", d.Tokens.RequireAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)
	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateOrderStatus)
	admin.GET("/stats", d.AdminHandler.GetStats)
}
