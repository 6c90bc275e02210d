package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glowmart/shopcore/internal/storage"
	"github.com/glowmart/shopcore/internal/store"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// errorResponse maps store sentinels onto HTTP statuses so every handler
// reports failures the same way.
func errorResponse(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, store.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, storage.ErrRevisionConflict):
		code = http.StatusConflict
	}
	return c.JSON(code, Response{Status: "error", Message: err.Error()})
}
