package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

// StockLister is the slice of the core the checker needs.
type StockLister interface {
	ListBelowThreshold(ctx context.Context, threshold int) ([]domain.Stock, error)
}

// Notifier delivers one alert message.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// LowStockChecker scans for rows at or below the threshold and sends one
// notification per low item.
type LowStockChecker struct {
	stocks    StockLister
	notifier  Notifier
	chatID    int64
	threshold int
	logger    *zap.Logger
}

func NewLowStockChecker(stocks StockLister, notifier Notifier, chatID int64, threshold int, logger *zap.Logger) *LowStockChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockChecker{
		stocks:    stocks,
		notifier:  notifier,
		chatID:    chatID,
		threshold: threshold,
		logger:    logger,
	}
}

func (c *LowStockChecker) Run(ctx context.Context) error {
	c.logger.Info("running low stock check", zap.Int("threshold", c.threshold))

	stocks, err := c.stocks.ListBelowThreshold(ctx, c.threshold)
	if err != nil {
		return fmt.Errorf("list low stock: %w", err)
	}

	if len(stocks) == 0 {
		c.logger.Info("no low stock items")
		return nil
	}

	for _, stock := range stocks {
		text := fmt.Sprintf("Low stock: seller %s sku %s has %d left (threshold %d).",
			stock.SellerID, stock.SKU, stock.Quantity, c.threshold)
		if err := c.notifier.SendMessage(ctx, c.chatID, text); err != nil {
			c.logger.Error("low stock notification failed",
				zap.String("seller_id", stock.SellerID),
				zap.String("sku", stock.SKU),
				zap.Error(err))
		}
	}

	c.logger.Info("low stock check finished", zap.Int("low_items", len(stocks)))
	return nil
}
