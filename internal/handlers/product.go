package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glowmart/shopcore/internal/es"
	"github.com/glowmart/shopcore/internal/models"
	"github.com/glowmart/shopcore/internal/mykafka"
	"github.com/glowmart/shopcore/internal/store"
)

type ProductHandler struct {
	Catalog  *store.Catalog
	Producer *mykafka.Producer
	Indexer  *es.Indexer
}

// productRequest binds admin create/patch bodies. Pointer fields
// distinguish "not sent" from zero values.
type productRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	SubCategory *string   `json:"subCategory"`
	Image       *string   `json:"image"`
	Images      *[]string `json:"images"`
	Stock       *int      `json:"stock"`
	IsFeatured  *bool     `json:"isFeatured"`
}

func (r productRequest) update() store.ProductUpdate {
	return store.ProductUpdate{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		SubCategory: r.SubCategory,
		Image:       r.Image,
		Images:      r.Images,
		Stock:       r.Stock,
		IsFeatured:  r.IsFeatured,
	}
}

func (h *ProductHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *ProductHandler) index(c echo.Context, p models.Product) {
	if err := h.Indexer.IndexProduct(c.Request().Context(), p); err != nil {
		c.Logger().Errorf("search index error: %v", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	products, err := h.Catalog.ListProducts(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.Catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}

	product, err := h.Catalog.CreateProduct(c.Request().Context(), req.update())
	if err != nil {
		return errorResponse(c, err)
	}

	h.index(c, *product)
	h.publish(c, product.ID, map[string]any{
		"type":      "product_created",
		"productId": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}

	product, err := h.Catalog.UpdateProduct(c.Request().Context(), c.Param("id"), req.update())
	if err != nil {
		return errorResponse(c, err)
	}

	h.index(c, *product)
	h.publish(c, product.ID, map[string]any{
		"type":      "product_updated",
		"productId": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := h.Catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return errorResponse(c, err)
	}

	if err := h.Indexer.DeleteProduct(c.Request().Context(), id); err != nil {
		c.Logger().Errorf("search index error: %v", err)
	}
	h.publish(c, id, map[string]any{
		"type":      "product_deleted",
		"productId": id,
	})

	return c.NoContent(http.StatusNoContent)
}
