// internal/services/telegram.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lebem/lebem-backend/internal/config"
)

const defaultTelegramTimeout = 10 * time.Second

var ErrTelegramDisabled = errors.New("telegram bot token or chat id not configured")

// MessageSender delivers one rendered message to the shop's chat.
type MessageSender interface {
	Send(ctx context.Context, text string) error
}

// TelegramSender posts to the Bot API sendMessage method.
type TelegramSender struct {
	cfg    config.TelegramConfig
	client *http.Client
}

func NewTelegramSender(cfg config.TelegramConfig) *TelegramSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTelegramTimeout
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.telegram.org"
	}

	return &TelegramSender{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type telegramReply struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (s *TelegramSender) Send(ctx context.Context, text string) error {
	if !s.cfg.Enabled() {
		return ErrTelegramDisabled
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(s.cfg.APIURL, "/"), s.cfg.BotToken)
	form := url.Values{
		"chat_id":    {s.cfg.ChatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		// The URL embeds the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var reply telegramReply
		if json.Unmarshal(body, &reply) == nil && reply.Description != "" {
			return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, reply.Description)
		}
		return fmt.Errorf("telegram returned %d", resp.StatusCode)
	}

	return nil
}
