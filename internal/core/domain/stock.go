package domain

import "time"

// Stock is one seller's quantity for a single SKU. The (SellerID, SKU) pair
// is unique: at most one live row exists per pair.
type Stock struct {
	ID        int64     `json:"id,omitempty"`
	SellerID  string    `json:"seller_id"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockFilter restricts List results by equality match. Nil fields are
// ignored.
type StockFilter struct {
	SellerID *string
	SKU      *string
	Quantity *int
}
