package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	apperrors "telegram-alerts/internal/errors"
)

// Schedule evaluates slot definitions against wall-clock time.
type Schedule struct {
	defs  []SlotDef
	times map[Slot]cron.Schedule
}

// New parses every slot's cron spec.
func New(defs []SlotDef) (*Schedule, error) {
	s := &Schedule{defs: defs, times: make(map[Slot]cron.Schedule, len(defs))}
	for _, d := range defs {
		sched, err := cron.ParseStandard(d.Cron)
		if err != nil {
			return nil, fmt.Errorf("slot %s: parsing %q: %w", d.Slot, d.Cron, err)
		}
		s.times[d.Slot] = sched
	}
	return s, nil
}

// Default returns the schedule built from DefaultSlots.
func Default() *Schedule {
	s, err := New(DefaultSlots())
	if err != nil {
		panic(err)
	}
	return s
}

// WithOverrides returns a schedule whose slot times are replaced by the given
// cron specs. Unknown slot names are rejected.
func WithOverrides(overrides map[string]string) (*Schedule, error) {
	defs := DefaultSlots()
	for name, spec := range overrides {
		slot, ok := ParseSlot(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownSlot, name)
		}
		for i := range defs {
			if defs[i].Slot == slot && strings.TrimSpace(spec) != "" {
				defs[i].Cron = spec
			}
		}
	}
	return New(defs)
}

func (s *Schedule) def(slot Slot) (SlotDef, bool) {
	for _, d := range s.defs {
		if d.Slot == slot {
			return d, true
		}
	}
	return SlotDef{}, false
}

// firstOn returns the first fire time of slot on the IST calendar day of t.
func (s *Schedule) firstOn(slot Slot, t time.Time) time.Time {
	t = t.In(IST)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, IST)
	return s.times[slot].Next(midnight.Add(-time.Second))
}

// TimeLabel renders the slot's time of day on t's date, e.g. "8 AM" or "2:30 PM".
func (s *Schedule) TimeLabel(slot Slot, t time.Time) string {
	at := s.firstOn(slot, t)
	if at.Minute() == 0 {
		return at.Format("3 PM")
	}
	return at.Format("3:04 PM")
}

// Reminder returns the reminder text for slot at now. An empty string with a
// nil error means the slot does not apply today.
func (s *Schedule) Reminder(slot Slot, now time.Time) (string, error) {
	d, ok := s.def(slot)
	if !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownSlot, slot)
	}

	day := FromTime(now)
	items := d.ItemsFor(day)
	if len(items) == 0 {
		return "", nil
	}

	lines := []string{fmt.Sprintf("%s Hair schedule – %s %s (%s)", d.Emoji, d.Heading, s.TimeLabel(slot, now), day)}
	for _, item := range items {
		lines = append(lines, "• "+item)
	}
	return strings.Join(lines, "\n"), nil
}

// Reminder evaluates the default schedule.
func Reminder(slot Slot, now time.Time) (string, error) {
	return Default().Reminder(slot, now)
}

// TodaysPlan renders every applicable slot of now's IST day as a table.
func (s *Schedule) TodaysPlan(now time.Time) string {
	day := FromTime(now)

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>📋 Today's plan – %s</b>\n\n<pre>", day)
	sb.WriteString("Time     | Slot    | Medicine / Action\n")
	sb.WriteString("---------|---------|----------------------------------------\n")
	for _, d := range s.defs {
		for _, item := range d.ItemsFor(day) {
			fmt.Fprintf(&sb, " %-8s| %-8s| %s\n", s.TimeLabel(d.Slot, now), d.PlanLabel, item)
		}
	}
	sb.WriteString("</pre>")
	return sb.String()
}

// Upcoming is the next applicable slot.
type Upcoming struct {
	Slot  Slot
	At    time.Time
	Day   Weekday
	Label string
	Items []string
}

// NextSlot finds the earliest applicable slot at or after now's minute.
func (s *Schedule) NextSlot(now time.Time) (Upcoming, bool) {
	from := now.In(IST).Truncate(time.Minute).Add(-time.Second)

	var best Upcoming
	found := false
	for _, d := range s.defs {
		at := s.times[d.Slot].Next(from)
		// a slot can be inapplicable for several consecutive days
		for i := 0; i < 8 && !at.IsZero() && !d.AppliesOn(FromTime(at)); i++ {
			at = s.times[d.Slot].Next(at)
		}
		if at.IsZero() || !d.AppliesOn(FromTime(at)) {
			continue
		}
		if !found || at.Before(best.At) {
			day := FromTime(at)
			best = Upcoming{Slot: d.Slot, At: at, Day: day, Label: d.PlanLabel, Items: d.ItemsFor(day)}
			found = true
		}
	}
	return best, found
}

// NextSlotText renders NextSlot for chat.
func (s *Schedule) NextSlotText(now time.Time) string {
	next, ok := s.NextSlot(now)
	if !ok {
		return "<b>⏭ Nothing scheduled</b>"
	}
	return fmt.Sprintf("<b>⏭ Next: %s %s – %s</b>\n\n<b>%s</b>",
		next.Day, s.TimeLabel(next.Slot, next.At), next.Label, strings.Join(next.Items, ", "))
}
