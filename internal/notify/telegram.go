// Package notify dispatches chat messages. The shop's channel is a
// Telegram group with one forum topic per report category.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danghoang/kvboard/internal/common"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	defaultTimeout = 30 * time.Second
)

// TelegramConfig holds the bot credentials.
type TelegramConfig struct {
	BotToken string
	APIBase  string
	Timeout  time.Duration
}

// Validate checks if the configuration is valid.
func (c TelegramConfig) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("%w: telegram bot token", common.ErrMissingConfig)
	}
	return nil
}

// Telegram sends messages through the Bot API. A topic is either a chat ID
// ("-1001234") or a chat ID and forum-topic thread ID ("-1001234:7").
type Telegram struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiBase    string
	botToken   string
}

// NewTelegram creates a Telegram notifier.
func NewTelegram(cfg TelegramConfig, logger *slog.Logger) (*Telegram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Telegram{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		apiBase:    apiBase,
		botToken:   cfg.BotToken,
	}, nil
}

// Send implements service.Notifier. Fire-and-forget: errors propagate to
// the caller and nothing retries.
func (t *Telegram) Send(ctx context.Context, topic, text string) error {
	chatID, threadID, err := splitTopic(topic)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("chat_id", chatID)
	params.Set("text", text)
	if threadID != "" {
		params.Set("message_thread_id", threadID)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNotify, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNotify, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: telegram returned %d: %s", common.ErrNotify, resp.StatusCode, body)
	}

	var apiResp struct {
		Ok          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("%w: decoding telegram response: %v", common.ErrNotify, err)
	}
	if !apiResp.Ok {
		return fmt.Errorf("%w: telegram rejected message: %s", common.ErrNotify, apiResp.Description)
	}

	t.logger.Debug("notification sent", "topic", topic, "chars", len(text))
	return nil
}

func splitTopic(topic string) (chatID, threadID string, err error) {
	if topic == "" {
		return "", "", fmt.Errorf("%w: empty destination topic", common.ErrNotify)
	}

	parts := strings.SplitN(topic, ":", 2)
	chatID = parts[0]
	if len(parts) == 2 {
		threadID = parts[1]
	}
	return chatID, threadID, nil
}
