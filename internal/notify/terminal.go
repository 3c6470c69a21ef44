package notify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	apperrors "telegram-alerts/internal/errors"
)

// TerminalNotifier prints messages instead of sending them. Used for dry runs.
type TerminalNotifier struct {
	w       io.Writer
	heading *color.Color
}

// NewTerminalNotifier creates a notifier writing to w.
func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w, heading: color.New(color.FgCyan, color.Bold)}
}

// Name returns the name of the notifier.
func (t *TerminalNotifier) Name() string {
	return "terminal"
}

// Send writes text with a heading.
func (t *TerminalNotifier) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return apperrors.ErrEmptyMessage
	}
	if _, err := t.heading.Fprintln(t.w, "📨 Message preview (not sent)"); err != nil {
		return err
	}
	_, err := fmt.Fprintf(t.w, "%s\n%s\n", strings.Repeat("─", 40), text)
	return err
}
