// Package notify delivers rendered messages to a chat destination.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "telegram-alerts/internal/errors"
	"telegram-alerts/internal/logging"
)

// Notifier sends one block of text. A nil error means the message was delivered.
type Notifier interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// ParseModeHTML lets messages use <b>, <i> and <a> tags.
const ParseModeHTML = "HTML"

// DefaultTelegramAPI is the Bot API base URL.
const DefaultTelegramAPI = "https://api.telegram.org"

// TelegramConfig holds Telegram notifier settings.
type TelegramConfig struct {
	APIURL                string
	BotToken              string
	ChatID                string
	Timeout               time.Duration
	DisableWebPagePreview bool
}

// TelegramNotifier sends notifications via the Telegram Bot API.
type TelegramNotifier struct {
	cfg    TelegramConfig
	client *http.Client
	logger zerolog.Logger
}

// NewTelegramNotifier creates a new TelegramNotifier. A nil httpClient gets a
// client with the configured timeout.
func NewTelegramNotifier(cfg TelegramConfig, httpClient *http.Client, logger zerolog.Logger) *TelegramNotifier {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultTelegramAPI
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &TelegramNotifier{cfg: cfg, client: httpClient, logger: logger}
}

// Name returns the name of the notifier.
func (t *TelegramNotifier) Name() string {
	return "telegram"
}

// HasCredentials reports whether both the bot token and chat id are set.
func (t *TelegramNotifier) HasCredentials() bool {
	return strings.TrimSpace(t.cfg.BotToken) != "" && strings.TrimSpace(t.cfg.ChatID) != ""
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts text to the configured chat. Missing credentials fail before any
// network call. Text over MaxMessageLength is truncated. There is no retry.
func (t *TelegramNotifier) Send(ctx context.Context, text string) (err error) {
	defer func() { logging.LogNotification(t.logger, t.Name(), len(text), err) }()

	if !t.HasCredentials() {
		return apperrors.ErrMissingCredentials
	}
	if strings.TrimSpace(text) == "" {
		return apperrors.ErrEmptyMessage
	}
	if short, truncated := Truncate(text, MaxMessageLength); truncated {
		t.logger.Warn().Int("length", textLength(text)).Int("limit", MaxMessageLength).Msg("Message too long, truncated")
		text = short
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:                t.cfg.ChatID,
		Text:                  text,
		ParseMode:             ParseModeHTML,
		DisableWebPagePreview: t.cfg.DisableWebPagePreview,
	})
	if err != nil {
		return fmt.Errorf("marshaling telegram payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.cfg.APIURL, t.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: creating telegram request: %v", apperrors.ErrSendFailed, redact(err, t.cfg.BotToken))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSendFailed, redact(err, t.cfg.BotToken))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		var r sendMessageResponse
		_ = json.Unmarshal(raw, &r)
		return fmt.Errorf("%w: telegram API returned status %d: %s", apperrors.ErrSendFailed, resp.StatusCode, r.Description)
	}

	t.logger.Debug().Str("chat_id", t.cfg.ChatID).Msg("Message sent")
	return nil
}

// redact keeps the bot token out of logged transport errors, which embed the URL.
func redact(err error, token string) string {
	if token == "" {
		return err.Error()
	}
	return strings.ReplaceAll(err.Error(), token, "<redacted>")
}
