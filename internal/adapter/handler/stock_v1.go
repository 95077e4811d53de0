package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// StockV1Handler is the open CRUD API: the seller travels in the path or the
// body, no header scoping.
type StockV1Handler struct {
	stocks StockService
}

func NewStockV1Handler(stocks StockService) *StockV1Handler {
	return &StockV1Handler{stocks: stocks}
}

type createStockRequest struct {
	SellerID string `json:"seller_id" binding:"required"`
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

type updateStockRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

type listResponse[T any] struct {
	Results []T `json:"results"`
	Total   int `json:"total"`
}

// List handles GET /api/v1/stock with optional seller_id and sku equality
// filters plus page/page_size pagination.
func (h *StockV1Handler) List(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	var filter domain.StockFilter
	if sellerID := c.Query("seller_id"); sellerID != "" {
		filter.SellerID = &sellerID
	}
	if sku := c.Query("sku"); sku != "" {
		filter.SKU = &sku
	}
	if raw := c.Query("quantity"); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, "quantity must be an integer", "quantity")
			return
		}
		filter.Quantity = &quantity
	}

	stocks, err := h.stocks.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse[domain.Stock]{Results: stocks, Total: len(stocks)})
}

// Get handles GET /api/v1/stock/:seller_id/:sku.
func (h *StockV1Handler) Get(c *gin.Context) {
	stock, err := h.stocks.Get(c.Request.Context(), c.Param("seller_id"), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stock)
}

// Create handles POST /api/v1/stock.
func (h *StockV1Handler) Create(c *gin.Context) {
	var req createStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", "")
		return
	}

	created, err := h.stocks.Create(c.Request.Context(), domain.Stock{
		SellerID: req.SellerID,
		SKU:      req.SKU,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/v1/stock/:seller_id/:sku.
func (h *StockV1Handler) Update(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", "")
		return
	}

	updated, err := h.stocks.Update(c.Request.Context(), c.Param("seller_id"), c.Param("sku"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/stock/:seller_id/:sku.
func (h *StockV1Handler) Delete(c *gin.Context) {
	if err := h.stocks.Delete(c.Request.Context(), c.Param("seller_id"), c.Param("sku")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// parsePagination maps page/page_size query params to limit/offset.
func parsePagination(c *gin.Context) (limit, offset int, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		respondBadRequest(c, "page must be a positive integer", "page")
		return 0, 0, false
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		respondBadRequest(c, "page_size must be between 1 and 100", "page_size")
		return 0, 0, false
	}

	return pageSize, (page - 1) * pageSize, true
}
