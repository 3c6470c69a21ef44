package format

import (
	"fmt"
	"strings"
	"time"
)

// Separator joins messages from different trackers in the combined notification.
const Separator = "\n\n─────────────────\n\n"

// TimestampLayout is used for the footer line, e.g. "19 Oct 2026, 02:04 PM".
const TimestampLayout = "02 Jan 2006, 03:04 PM"

// IST is the fixed UTC+05:30 zone used for every rendered time.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Message is one tracker's rendered output.
type Message struct {
	Title       string
	Summary     []string // lines between the title and the blocks
	Blocks      []Block
	Separator   string
	FooterLabel string
	GeneratedAt time.Time
}

// Footer renders the timestamp line.
func (m Message) Footer() string {
	label := m.FooterLabel
	if label == "" {
		label = "Last checked"
	}
	return fmt.Sprintf("<i>%s: %s</i>", label, m.GeneratedAt.In(IST).Format(TimestampLayout))
}

// String renders the whole message.
func (m Message) String() string {
	sep := m.Separator
	if sep == "" {
		sep = CarSeparator
	}

	lines := []string{fmt.Sprintf("<b>%s</b>", m.Title)}
	if len(m.Summary) > 0 {
		lines = append(lines, "")
		lines = append(lines, m.Summary...)
	}
	if len(m.Blocks) > 0 {
		parts := make([]string, len(m.Blocks))
		for i, b := range m.Blocks {
			parts[i] = string(b)
		}
		lines = append(lines, "", strings.Join(parts, sep))
	}
	lines = append(lines, "", m.Footer())
	return strings.Join(lines, "\n")
}

// Combine joins tracker messages with the fixed separator. Empty entries are dropped.
func Combine(messages ...string) string {
	var kept []string
	for _, m := range messages {
		if strings.TrimSpace(m) != "" {
			kept = append(kept, m)
		}
	}
	return strings.Join(kept, Separator)
}
