package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glowmart/shopcore/internal/store"
)

type AdminHandler struct {
	Reporting *store.Reporting
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.Reporting.Stats(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
