package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

// ErrorDetail is the machine-readable error shape clients parse.
type ErrorDetail struct {
	Message string `json:"message"`
	Slug    string `json:"slug"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Details []ErrorDetail `json:"details"`
}

// respondError translates domain errors into transport responses. Anything
// not in the domain taxonomy is an internal error, so clients can tell "your
// request is wrong" from "we failed".
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Details: []ErrorDetail{{
			Message: "stock not found",
			Slug:    "stock_not_found",
		}}})
	case errors.Is(err, domain.ErrStockAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Details: []ErrorDetail{{
			Message: "stock already registered for this sku",
			Slug:    "stock_already_exists",
			Field:   "sku",
		}}})
	case errors.Is(err, domain.ErrNonPositiveQuantity):
		c.JSON(http.StatusBadRequest, errorResponse{Details: []ErrorDetail{{
			Message: "quantity must be greater than zero",
			Slug:    "quantity_not_positive",
			Field:   "quantity",
		}}})
	case errors.Is(err, domain.ErrNothingDeleted):
		c.JSON(http.StatusBadRequest, errorResponse{Details: []ErrorDetail{{
			Message: "stock delete affected no rows",
			Slug:    "stock_delete_failed",
		}}})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Details: []ErrorDetail{{
			Message: "internal error",
			Slug:    "internal_error",
		}}})
	}
}

func respondBadRequest(c *gin.Context, message, field string) {
	c.JSON(http.StatusBadRequest, errorResponse{Details: []ErrorDetail{{
		Message: message,
		Slug:    "validation_error",
		Field:   field,
	}}})
}
