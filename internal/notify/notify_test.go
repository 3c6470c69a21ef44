package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "telegram-alerts/internal/errors"
)

// countingTransport records every request that reaches the network layer.
type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls++
	return nil, errors.New("network disabled in test")
}

func TestTelegramNotifier_MissingCredentialsMakesNoCall(t *testing.T) {
	tests := []struct {
		name string
		cfg  TelegramConfig
	}{
		{"no token", TelegramConfig{ChatID: "123"}},
		{"no chat", TelegramConfig{BotToken: "abc"}},
		{"blank both", TelegramConfig{BotToken: "  ", ChatID: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &countingTransport{}
			n := NewTelegramNotifier(tt.cfg, &http.Client{Transport: transport}, zerolog.Nop())

			err := n.Send(context.Background(), "hello")
			if !errors.Is(err, apperrors.ErrMissingCredentials) {
				t.Errorf("Send() error = %v, want ErrMissingCredentials", err)
			}
			if transport.calls != 0 {
				t.Errorf("transport called %d times, want 0", transport.calls)
			}
		})
	}
}

func TestTelegramNotifier_Send(t *testing.T) {
	var gotPath string
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier(TelegramConfig{
		APIURL:   srv.URL,
		BotToken: "123:secret",
		ChatID:   "676465574",
		Timeout:  2 * time.Second,
	}, srv.Client(), zerolog.Nop())

	if err := n.Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotPath != "/bot123:secret/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if got.ChatID != "676465574" || got.Text != "<b>hi</b>" || got.ParseMode != "HTML" {
		t.Errorf("payload = %+v", got)
	}
}

func TestTelegramNotifier_Non200(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok": false, "description": "Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier(TelegramConfig{APIURL: srv.URL, BotToken: "t", ChatID: "c"}, srv.Client(), zerolog.Nop())
	err := n.Send(context.Background(), "hello")

	if !errors.Is(err, apperrors.ErrSendFailed) {
		t.Errorf("Send() error = %v, want ErrSendFailed", err)
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error should carry API description: %v", err)
	}
	if calls != 1 {
		t.Errorf("server called %d times, want exactly 1 (no retry)", calls)
	}
}

func TestTelegramNotifier_TransportErrorRedactsToken(t *testing.T) {
	n := NewTelegramNotifier(TelegramConfig{APIURL: "http://127.0.0.1:1", BotToken: "supersecret", ChatID: "c", Timeout: time.Second}, nil, zerolog.Nop())
	err := n.Send(context.Background(), "hello")
	if !errors.Is(err, apperrors.ErrSendFailed) {
		t.Fatalf("Send() error = %v, want ErrSendFailed", err)
	}
	if strings.Contains(err.Error(), "supersecret") {
		t.Errorf("token leaked into error: %v", err)
	}
}

func TestTelegramNotifier_EmptyText(t *testing.T) {
	transport := &countingTransport{}
	n := NewTelegramNotifier(TelegramConfig{BotToken: "t", ChatID: "c"}, &http.Client{Transport: transport}, zerolog.Nop())
	if err := n.Send(context.Background(), "  "); !errors.Is(err, apperrors.ErrEmptyMessage) {
		t.Errorf("Send() error = %v, want ErrEmptyMessage", err)
	}
	if transport.calls != 0 {
		t.Errorf("transport called %d times", transport.calls)
	}
}

func TestTerminalNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminalNotifier(&buf)
	if err := n.Send(context.Background(), "body text"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !strings.Contains(buf.String(), "body text") || !strings.Contains(buf.String(), "Message preview") {
		t.Errorf("output = %q", buf.String())
	}
}
