package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

// MySQLMovementRepository persists the append-only stock movement log. Only
// insert and range read exist; there is deliberately no update or delete.
type MySQLMovementRepository struct {
	db *sql.DB
}

func NewMySQLMovementRepository(db *sql.DB) *MySQLMovementRepository {
	return &MySQLMovementRepository{db: db}
}

func (r *MySQLMovementRepository) Create(ctx context.Context, movement domain.StockMovement) error {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stock_movements
			(seller_id, sku, previous_quantity, new_quantity, movement_type, moved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.SellerID, movement.SKU, movement.PreviousQuantity, movement.NewQuantity,
		string(movement.MovementType), movement.MovedAt, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}

	return nil
}

func (r *MySQLMovementRepository) FindByPeriod(ctx context.Context, start, end time.Time, sellerID string) ([]domain.StockMovement, error) {
	query := `
		SELECT id, seller_id, sku, previous_quantity, new_quantity, movement_type, moved_at, created_at, updated_at
		FROM stock_movements WHERE moved_at BETWEEN ? AND ?`
	args := []any{start, end}

	if sellerID != "" {
		query += " AND seller_id = ?"
		args = append(args, sellerID)
	}

	// Most recent first; reporting consumers depend on this ordering.
	query += " ORDER BY moved_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		var movementType string
		if err := rows.Scan(&m.ID, &m.SellerID, &m.SKU, &m.PreviousQuantity, &m.NewQuantity,
			&movementType, &m.MovedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.MovementType = domain.MovementType(movementType)
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock movements: %w", err)
	}

	return movements, nil
}
