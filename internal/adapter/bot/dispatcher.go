package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

const helpText = `Available commands:
/start - start the bot
/help - show this help
/estoque <seller_id> <sku> - look up a stock entry
/adicionar <seller_id> <sku> <quantity> - register stock
/atualizar <seller_id> <sku> <quantity> - change a quantity
/remover <seller_id> <sku> - remove a stock entry`

// StockService is the slice of the core the bot needs.
type StockService interface {
	Get(ctx context.Context, sellerID, sku string) (*domain.Stock, error)
	Create(ctx context.Context, stock domain.Stock) (*domain.Stock, error)
	Update(ctx context.Context, sellerID, sku string, quantity int) (*domain.Stock, error)
	Delete(ctx context.Context, sellerID, sku string) error
}

// Dispatcher long-polls Telegram and maps chat commands onto the stock
// service.
type Dispatcher struct {
	client Client
	stocks StockService
	logger *zap.Logger
}

func NewDispatcher(client Client, stocks StockService, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{client: client, stocks: stocks, logger: logger}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("telegram dispatcher started")

	var offset int64
	for {
		updates, err := d.client.GetUpdates(ctx, offset, 30)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.logger.Warn("get updates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil {
				continue
			}
			d.handle(ctx, update.Message.Chat.ID, update.Message.Text)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, chatID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return
	}

	var reply string
	switch fields[0] {
	case "/start":
		reply = "Stock bot is up. Send /help for the command list."
	case "/help":
		reply = helpText
	case "/estoque":
		reply = d.lookup(ctx, fields[1:])
	case "/adicionar":
		reply = d.add(ctx, fields[1:])
	case "/atualizar":
		reply = d.change(ctx, fields[1:])
	case "/remover":
		reply = d.remove(ctx, fields[1:])
	default:
		reply = "Unknown command. Send /help for the command list."
	}

	if err := d.client.SendMessage(ctx, chatID, reply); err != nil {
		d.logger.Error("send reply failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (d *Dispatcher) lookup(ctx context.Context, args []string) string {
	if len(args) != 2 {
		return "Usage: /estoque <seller_id> <sku>"
	}

	stock, err := d.stocks.Get(ctx, args[0], args[1])
	if err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Seller %s has %d of %s.", stock.SellerID, stock.Quantity, stock.SKU)
}

func (d *Dispatcher) add(ctx context.Context, args []string) string {
	sellerID, sku, quantity, ok := parseQuantityArgs(args)
	if !ok {
		return "Usage: /adicionar <seller_id> <sku> <quantity>"
	}

	created, err := d.stocks.Create(ctx, domain.Stock{SellerID: sellerID, SKU: sku, Quantity: quantity})
	if err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Registered %s for seller %s with quantity %d.", created.SKU, created.SellerID, created.Quantity)
}

func (d *Dispatcher) change(ctx context.Context, args []string) string {
	sellerID, sku, quantity, ok := parseQuantityArgs(args)
	if !ok {
		return "Usage: /atualizar <seller_id> <sku> <quantity>"
	}

	updated, err := d.stocks.Update(ctx, sellerID, sku, quantity)
	if err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Updated %s for seller %s to quantity %d.", updated.SKU, updated.SellerID, updated.Quantity)
}

func (d *Dispatcher) remove(ctx context.Context, args []string) string {
	if len(args) != 2 {
		return "Usage: /remover <seller_id> <sku>"
	}

	if err := d.stocks.Delete(ctx, args[0], args[1]); err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Removed %s for seller %s.", args[1], args[0])
}

func parseQuantityArgs(args []string) (sellerID, sku string, quantity int, ok bool) {
	if len(args) != 3 {
		return "", "", 0, false
	}
	quantity, err := strconv.Atoi(args[2])
	if err != nil {
		return "", "", 0, false
	}
	return args[0], args[1], quantity, true
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		return "Stock not found."
	case errors.Is(err, domain.ErrStockAlreadyExists):
		return "That SKU is already registered for this seller."
	case errors.Is(err, domain.ErrNonPositiveQuantity):
		return "Quantity must be greater than zero."
	default:
		return "Something went wrong, try again later."
	}
}
