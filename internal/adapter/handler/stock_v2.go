package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

// SellerIDHeader scopes every v2 call to one seller. The auth middleware has
// already established that the caller may act for that seller.
const SellerIDHeader = "x-seller-id"

// StockV2Handler is the seller-scoped API: the seller never appears in the
// path or body, only in the header.
type StockV2Handler struct {
	stocks StockService
}

func NewStockV2Handler(stocks StockService) *StockV2Handler {
	return &StockV2Handler{stocks: stocks}
}

type createStockV2Request struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

func requireSellerID(c *gin.Context) (string, bool) {
	sellerID := c.GetHeader(SellerIDHeader)
	if sellerID == "" {
		respondBadRequest(c, "x-seller-id header is required", "x-seller-id")
		return "", false
	}
	return sellerID, true
}

// List handles GET /seller/v2/stock for the header seller.
func (h *StockV2Handler) List(c *gin.Context) {
	sellerID, ok := requireSellerID(c)
	if !ok {
		return
	}

	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	stocks, err := h.stocks.List(c.Request.Context(), domain.StockFilter{SellerID: &sellerID}, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse[domain.Stock]{Results: stocks, Total: len(stocks)})
}

// Get handles GET /seller/v2/stock/:sku.
func (h *StockV2Handler) Get(c *gin.Context) {
	sellerID, ok := requireSellerID(c)
	if !ok {
		return
	}

	stock, err := h.stocks.Get(c.Request.Context(), sellerID, c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stock)
}

// Create handles POST /seller/v2/stock. The header seller always wins over
// anything in the body.
func (h *StockV2Handler) Create(c *gin.Context) {
	sellerID, ok := requireSellerID(c)
	if !ok {
		return
	}

	var req createStockV2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", "")
		return
	}

	created, err := h.stocks.Create(c.Request.Context(), domain.Stock{
		SellerID: sellerID,
		SKU:      req.SKU,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update handles PATCH /seller/v2/stock/:sku.
func (h *StockV2Handler) Update(c *gin.Context) {
	sellerID, ok := requireSellerID(c)
	if !ok {
		return
	}

	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", "")
		return
	}

	updated, err := h.stocks.Update(c.Request.Context(), sellerID, c.Param("sku"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /seller/v2/stock/:sku.
func (h *StockV2Handler) Delete(c *gin.Context) {
	sellerID, ok := requireSellerID(c)
	if !ok {
		return
	}

	if err := h.stocks.Delete(c.Request.Context(), sellerID, c.Param("sku")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
