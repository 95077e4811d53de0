package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

// MySQL error 1062: duplicate entry for a unique index.
const duplicateEntryErrNo = 1062

type MySQLStockRepository struct {
	db *sql.DB
}

func NewMySQLStockRepository(db *sql.DB) *MySQLStockRepository {
	return &MySQLStockRepository{db: db}
}

func (r *MySQLStockRepository) Create(ctx context.Context, stock domain.Stock) (*domain.Stock, error) {
	now := time.Now().UTC()
	stock.CreatedAt = now
	stock.UpdatedAt = now

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO stocks (seller_id, sku, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		stock.SellerID, stock.SKU, stock.Quantity, stock.CreatedAt, stock.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryErrNo {
			return nil, domain.ErrStockAlreadyExists
		}
		return nil, fmt.Errorf("insert stock: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		stock.ID = id
	}

	return &stock, nil
}

func (r *MySQLStockRepository) FindBySellerIDAndSKU(ctx context.Context, sellerID, sku string) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.QueryRowContext(ctx, `
		SELECT id, seller_id, sku, quantity, created_at, updated_at
		FROM stocks WHERE seller_id = ? AND sku = ?`,
		sellerID, sku,
	).Scan(&stock.ID, &stock.SellerID, &stock.SKU, &stock.Quantity, &stock.CreatedAt, &stock.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query stock: %w", err)
	}

	return &stock, nil
}

func (r *MySQLStockRepository) UpdateBySellerIDAndSKU(ctx context.Context, sellerID, sku string, quantity int) (*domain.Stock, error) {
	var updated *domain.Stock

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var stock domain.Stock
		err := tx.QueryRowContext(ctx, `
			SELECT id, seller_id, sku, quantity, created_at, updated_at
			FROM stocks WHERE seller_id = ? AND sku = ? FOR UPDATE`,
			sellerID, sku,
		).Scan(&stock.ID, &stock.SellerID, &stock.SKU, &stock.Quantity, &stock.CreatedAt, &stock.UpdatedAt)

		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("query stock for update: %w", err)
		}

		stock.Quantity = quantity
		stock.UpdatedAt = time.Now().UTC()

		if _, err := tx.ExecContext(ctx, `
			UPDATE stocks SET quantity = ?, updated_at = ?
			WHERE seller_id = ? AND sku = ?`,
			stock.Quantity, stock.UpdatedAt, sellerID, sku,
		); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}

		updated = &stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *MySQLStockRepository) DeleteBySellerIDAndSKU(ctx context.Context, sellerID, sku string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM stocks WHERE seller_id = ? AND sku = ?`,
		sellerID, sku,
	)
	if err != nil {
		return false, fmt.Errorf("delete stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete stock rows affected: %w", err)
	}

	return rows > 0, nil
}

func (r *MySQLStockRepository) Find(ctx context.Context, filter domain.StockFilter, limit, offset int) ([]domain.Stock, error) {
	query := `SELECT id, seller_id, sku, quantity, created_at, updated_at FROM stocks`

	var conditions []string
	var args []any
	if filter.SellerID != nil {
		conditions = append(conditions, "seller_id = ?")
		args = append(args, *filter.SellerID)
	}
	if filter.SKU != nil {
		conditions = append(conditions, "sku = ?")
		args = append(args, *filter.SKU)
	}
	if filter.Quantity != nil {
		conditions = append(conditions, "quantity = ?")
		args = append(args, *filter.Quantity)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stocks: %w", err)
	}
	defer rows.Close()

	return scanStocks(rows)
}

func (r *MySQLStockRepository) FindBelowThreshold(ctx context.Context, threshold int) ([]domain.Stock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, seller_id, sku, quantity, created_at, updated_at
		FROM stocks WHERE quantity <= ?`,
		threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("query low stocks: %w", err)
	}
	defer rows.Close()

	return scanStocks(rows)
}

func scanStocks(rows *sql.Rows) ([]domain.Stock, error) {
	var stocks []domain.Stock
	for rows.Next() {
		var stock domain.Stock
		if err := rows.Scan(&stock.ID, &stock.SellerID, &stock.SKU, &stock.Quantity, &stock.CreatedAt, &stock.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		stocks = append(stocks, stock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stocks: %w", err)
	}
	return stocks, nil
}
