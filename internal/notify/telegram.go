// Package notify delivers alert digests to a Telegram chat.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTelegramURL = "https://api.telegram.org"

// TelegramNotifier posts Markdown messages through the Bot API sendMessage method.
type TelegramNotifier struct {
	client   *resty.Client
	botToken string
	chatID   string
}

func NewTelegramNotifier(baseURL, botToken, chatID string) *TelegramNotifier {
	if baseURL == "" {
		baseURL = defaultTelegramURL
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	client.SetTimeout(10 * time.Second)

	return &TelegramNotifier{
		client:   client,
		botToken: botToken,
		chatID:   chatID,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Configured reports whether both the bot token and the recipient are set.
func (n *TelegramNotifier) Configured() bool {
	return n.botToken != "" && n.chatID != ""
}

func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	if !n.Configured() {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sendMessageRequest{ChatID: n.chatID, Text: text, ParseMode: "Markdown"}).
		Post("/bot" + n.botToken + "/sendMessage")
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	var out sendMessageResponse
	_ = json.Unmarshal(resp.Body(), &out)
	if resp.IsError() || !out.OK {
		if out.Description != "" {
			return fmt.Errorf("telegram error %d: %s", resp.StatusCode(), out.Description)
		}
		return fmt.Errorf("telegram error: %s", resp.Status())
	}
	return nil
}
