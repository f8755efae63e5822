package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const telegramAPI = "https://api.telegram.org/bot%s/sendMessage"

// TelegramConfig identifies the bot and the operator chat that
// receives trade notifications.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// TelegramAlerter delivers alerts to a Telegram chat. Intended for the
// severities an operator must see away from the logs: exit
// escalations and phantom closes.
type TelegramAlerter struct {
	cfg    TelegramConfig
	client *http.Client
}

// NewTelegramAlerter creates a Telegram channel.
func NewTelegramAlerter(cfg TelegramConfig) *TelegramAlerter {
	return &TelegramAlerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramAlerter) Name() string { return "telegram" }

// Alert posts the formatted message to the configured chat.
func (t *TelegramAlerter) Alert(ctx context.Context, severity Severity, message string, fields ...any) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.cfg.ChatID,
		"text":       t.render(severity, message, fields...),
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf(telegramAPI, t.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}

// render shapes the chat text: severity headline, the transition
// message, then the trade fields as a bulleted block.
func (t *TelegramAlerter) render(severity Severity, message string, fields ...any) string {
	text := fmt.Sprintf("<b>%s</b> %s", severity.String(), message)
	if details := FormatFields(fields...); details != "" {
		text += "\n" + details
	}
	return text
}
