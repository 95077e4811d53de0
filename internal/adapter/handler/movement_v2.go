package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

// MovementV2Handler serves the movement-log reports. An empty window is a
// 404, not an empty list.
type MovementV2Handler struct {
	movements MovementService
}

func NewMovementV2Handler(movements MovementService) *MovementV2Handler {
	return &MovementV2Handler{movements: movements}
}

// Weekly handles GET /seller/v2/stock-movements/weekly.
func (h *MovementV2Handler) Weekly(c *gin.Context) {
	sellerID, ok := requireSellerID(c)
	if !ok {
		return
	}

	report, err := h.movements.WeeklyReport(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respond(c, report)
}

// Daily handles GET /seller/v2/stock-movements/daily.
func (h *MovementV2Handler) Daily(c *gin.Context) {
	sellerID, ok := requireSellerID(c)
	if !ok {
		return
	}

	report, err := h.movements.DailyReport(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respond(c, report)
}

func (h *MovementV2Handler) respond(c *gin.Context, report []domain.StockMovement) {
	if len(report) == 0 {
		c.JSON(http.StatusNotFound, errorResponse{Details: []ErrorDetail{{
			Message: "no stock movements in period",
			Slug:    "movements_not_found",
		}}})
		return
	}

	c.JSON(http.StatusOK, listResponse[domain.StockMovement]{Results: report, Total: len(report)})
}
