package schedule

import "strings"

// Slot names a reminder time of day.
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotBath    Slot = "bath"
	SlotLunch   Slot = "lunch"
	SlotEvening Slot = "evening"
	SlotNight   Slot = "night"
)

// SlotDef describes one reminder slot. It is pure data.
type SlotDef struct {
	Slot      Slot
	Cron      string // standard 5-field spec evaluated in IST
	Emoji     string
	Heading   string               // reminder heading, e.g. "After lunch"
	PlanLabel string               // short label for the day plan, e.g. "Lunch"
	Days      []Weekday            // nil means every day
	Items     []string             // default items
	ByDay     map[Weekday][]string // replaces Items on the given day
	Extra     map[Weekday][]string // appended to Items on the given day
}

// AppliesOn reports whether the slot runs on day.
func (d SlotDef) AppliesOn(day Weekday) bool {
	if d.Days == nil {
		return true
	}
	for _, x := range d.Days {
		if x == day {
			return true
		}
	}
	return false
}

// ItemsFor returns the items for day, or nil when the slot does not apply.
func (d SlotDef) ItemsFor(day Weekday) []string {
	if !d.AppliesOn(day) {
		return nil
	}
	if items, ok := d.ByDay[day]; ok {
		return items
	}
	items := append([]string(nil), d.Items...)
	return append(items, d.Extra[day]...)
}

const (
	nidcort      = "Nidcort-CS (2) overnight → shampoo next day"
	ketoconazole = "Ketoconazole 2% (1) overnight → wash next day"
	skipAGAPro   = "Skip AGA Pro tonight (overnight treatment later)"
)

// DefaultSlots is the treatment plan in slot order.
func DefaultSlots() []SlotDef {
	return []SlotDef{
		{
			Slot:      SlotMorning,
			Cron:      "0 8 * * *",
			Emoji:     "🌅",
			Heading:   "Morning",
			PlanLabel: "Morning",
			Items:     []string{"Trichogain 1 cap (after breakfast)", "AGA Pro 6 sprays"},
		},
		{
			Slot:      SlotBath,
			Cron:      "0 10 * * *",
			Emoji:     "🚿",
			Heading:   "Bath",
			PlanLabel: "Bath",
			Days:      []Weekday{Tuesday, Thursday, Saturday},
			Items:     []string{"Ketoclenz CT (3) – 5 min on scalp", "Then wash with regular shampoo"},
		},
		{
			Slot:      SlotLunch,
			Cron:      "0 14 * * *",
			Emoji:     "💊",
			Heading:   "After lunch",
			PlanLabel: "Lunch",
			Items:     []string{"Meganeuron OD+"},
			Extra:     map[Weekday][]string{Friday: {"Uprise D3"}},
		},
		{
			Slot:      SlotEvening,
			Cron:      "0 19 * * *",
			Emoji:     "🌇",
			Heading:   "Evening",
			PlanLabel: "Evening",
			Items:     []string{"AGA Pro 6 sprays"},
			ByDay: map[Weekday][]string{
				Monday:    {skipAGAPro},
				Wednesday: {skipAGAPro},
				Friday:    {skipAGAPro},
				Sunday:    {skipAGAPro},
			},
		},
		{
			Slot:      SlotNight,
			Cron:      "0 21 * * *",
			Emoji:     "🌙",
			Heading:   "Night",
			PlanLabel: "Night",
			Days:      []Weekday{Monday, Wednesday, Friday, Sunday},
			ByDay: map[Weekday][]string{
				Monday:    {nidcort},
				Wednesday: {nidcort},
				Friday:    {nidcort},
				Sunday:    {ketoconazole},
			},
		},
	}
}

// ParseSlot accepts a slot name in any case.
func ParseSlot(s string) (Slot, bool) {
	slot := Slot(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range DefaultSlots() {
		if d.Slot == slot {
			return slot, true
		}
	}
	return "", false
}
