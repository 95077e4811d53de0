package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client exposes the slice of the Telegram Bot API the application uses.
type Client interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error)
}

// Update mirrors one entry of the getUpdates result.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type updatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []Update `json:"result"`
	Description string   `json:"description"`
}

type sendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a Telegram Bot API client for the given bot token.
// The timeout leaves room for long polling.
func NewClient(token string) *APIClient {
	restyClient := resty.New().
		SetBaseURL("https://api.telegram.org/bot" + token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(40 * time.Second)

	return &APIClient{httpClient: restyClient}
}

func (c *APIClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	result := new(sendResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"chat_id": chatID, "text": text}).
		SetResult(result).
		SetError(result).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	if resp.IsError() || !result.OK {
		return fmt.Errorf("telegram sendMessage: %s", result.Description)
	}
	return nil
}

func (c *APIClient) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error) {
	result := new(updatesResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":  fmt.Sprintf("%d", offset),
			"timeout": fmt.Sprintf("%d", timeoutSeconds),
		}).
		SetResult(result).
		SetError(result).
		Get("/getUpdates")
	if err != nil {
		return nil, fmt.Errorf("telegram getUpdates: %w", err)
	}
	if resp.IsError() || !result.OK {
		return nil, fmt.Errorf("telegram getUpdates: %s", result.Description)
	}
	return result.Result, nil
}
