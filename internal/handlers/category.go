package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glowmart/shopcore/internal/store"
)

type CategoryHandler struct {
	Catalog *store.Catalog
}

type categoryRequest struct {
	Name     *string `json:"name"`
	Image    *string `json:"image"`
	ParentID *string `json:"parentId"`
}

func (r categoryRequest) update() store.CategoryUpdate {
	return store.CategoryUpdate{Name: r.Name, Image: r.Image, ParentID: r.ParentID}
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.Catalog.ListCategories(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}
	category, err := h.Catalog.CreateCategory(c.Request().Context(), req.update())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) PatchCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}
	category, err := h.Catalog.UpdateCategory(c.Request().Context(), c.Param("id"), req.update())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if err := h.Catalog.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
