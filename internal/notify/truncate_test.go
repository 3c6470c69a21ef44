package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const rule = "─────────────"

func TestTruncate_ShortTextUnchanged(t *testing.T) {
	text := "<b>🚗 Spinny Car Price Update</b>\n\n💰 <b>Price: ₹15,74,658</b>"
	got, truncated := Truncate(text, MaxMessageLength)
	if truncated || got != text {
		t.Errorf("Truncate() = %q, %v", got, truncated)
	}
}

func TestTruncate_DropsWholeParagraphs(t *testing.T) {
	text := strings.Join([]string{"Title", "Alpha", "─", "Bravo", "─", "Charlie"}, "\n\n")

	got, truncated := Truncate(text, 30)
	if !truncated {
		t.Fatal("expected truncation")
	}
	if got != "Title\n\nAlpha\n\n…and 2 more" {
		t.Errorf("Truncate() = %q", got)
	}
}

func TestTruncate_OversizedFirstParagraph(t *testing.T) {
	text := strings.Repeat("🚗 Tiguan\n", 1000) + "\n\nfooter"

	got, truncated := Truncate(text, 100)
	if !truncated {
		t.Fatal("expected truncation")
	}
	if n := textLength(got); n > 100 {
		t.Errorf("length = %d, want <= 100", n)
	}
	if !strings.HasPrefix(got, "🚗 Tiguan\n") || !strings.HasSuffix(got, "\n\n…and 1 more") {
		t.Errorf("Truncate() = %q", got)
	}
}

func TestTelegramNotifier_SendTruncatesLongMessages(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	parts := []string{"<b>🔍 Tiguan Search (200 found)</b>"}
	for i := 0; i < 200; i++ {
		if i > 0 {
			parts = append(parts, rule)
		}
		parts = append(parts, fmt.Sprintf("<b>🚗 2021 Volkswagen Tiguan #%d</b>\n📍 Pune | Petrol | 45,210 km\n💰 <b>₹15,74,658</b>", i))
	}
	parts = append(parts, "<i>Updated: 19 Oct 2026, 02:04 PM</i>")
	text := strings.Join(parts, "\n\n")
	if textLength(text) <= MaxMessageLength {
		t.Fatalf("fixture too short: %d", textLength(text))
	}

	n := NewTelegramNotifier(TelegramConfig{APIURL: srv.URL, BotToken: "t", ChatID: "1"}, srv.Client(), zerolog.Nop())
	if err := n.Send(context.Background(), text); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if l := textLength(got.Text); l > MaxMessageLength {
		t.Errorf("sent %d code units, limit is %d", l, MaxMessageLength)
	}
	if !strings.HasPrefix(got.Text, parts[0]) {
		t.Errorf("title missing: %q", got.Text[:80])
	}
	body, suffix, ok := strings.Cut(got.Text, "\n\n…and ")
	if !ok || !strings.HasSuffix(suffix, " more") {
		t.Fatalf("missing truncation note: %q", got.Text[len(got.Text)-80:])
	}
	if strings.HasSuffix(body, rule) {
		t.Error("truncated text should not end on a separator")
	}
	if strings.Count(body, "<b>") != strings.Count(body, "</b>") {
		t.Error("unbalanced tags after truncation")
	}

	shown := strings.Count(body, "🚗")
	var dropped int
	if _, err := fmt.Sscanf(suffix, "%d more", &dropped); err != nil {
		t.Fatal(err)
	}
	// 200 cars plus the footer
	if shown+dropped != 201 {
		t.Errorf("shown %d + dropped %d, want 201", shown, dropped)
	}
}
