package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glowmart/shopcore/internal/models"
	"github.com/glowmart/shopcore/internal/mykafka"
	"github.com/glowmart/shopcore/internal/service/token"
	"github.com/glowmart/shopcore/internal/store"
)

type AuthHandler struct {
	Identity *store.Identity
	Tokens   *token.Service
	Producer *mykafka.Producer
}

func CreateCookie(name, value, path string, expTime time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicUserEvents, key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *AuthHandler) issueSession(c echo.Context, user *models.User) (string, error) {
	access, err := h.Tokens.SignAccessToken(user)
	if err != nil {
		return "", err
	}
	c.SetCookie(CreateCookie("accessToken", access, "/", time.Now().Add(token.AccessTTL)))
	return access, nil
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}

	user, err := h.Identity.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	access, err := h.issueSession(c, user)
	if err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "user_registered",
		"userId": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"user":         user,
		"access_token": access,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}

	user, err := h.Identity.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	access, err := h.issueSession(c, user)
	if err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userId": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"user":         user,
		"access_token": access,
		"is_admin":     user.Role == models.RoleAdmin,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Identity.Logout(c.Request().Context()); err != nil {
		return errorResponse(c, err)
	}
	c.SetCookie(CreateCookie("accessToken", "", "/", time.Now().Add(-time.Hour)))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.Identity.GetUser(c.Request().Context(), token.UserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// RequestPasswordReset answers whether an account exists; the storefront
// shows the result as "reset link sent".
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}
	ok, err := h.Identity.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": ok})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}
	ok, err := h.Identity.ResetPassword(c.Request().Context(), req.Email, req.NewPassword)
	if err != nil {
		return errorResponse(c, err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no account for email")
	}
	return c.JSON(http.StatusOK, echo.Map{"reset": true})
}
