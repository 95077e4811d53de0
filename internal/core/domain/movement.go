package domain

import "time"

type MovementType string

const (
	MovementCreation MovementType = "CREATION"
	MovementUpdate   MovementType = "UPDATE"
	MovementDeletion MovementType = "DELETION"
)

// StockMovement is one entry of the append-only stock audit log. Entries are
// written once per successful mutation and never updated or deleted; they
// survive deletion of the stock row they describe.
type StockMovement struct {
	ID               int64        `json:"id,omitempty"`
	SellerID         string       `json:"seller_id"`
	SKU              string       `json:"sku"`
	PreviousQuantity int          `json:"previous_quantity"`
	NewQuantity      int          `json:"new_quantity"`
	MovementType     MovementType `json:"movement_type"`
	MovedAt          time.Time    `json:"moved_at"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
