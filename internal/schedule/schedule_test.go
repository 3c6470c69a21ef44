package schedule

import (
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "telegram-alerts/internal/errors"
)

// ist returns a time on the week of 19 Oct 2026 (a Monday) in IST.
func ist(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, IST)
}

func TestFromTime(t *testing.T) {
	want := []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
	for i, w := range want {
		if got := FromTime(ist(19+i, 12, 0)); got != w {
			t.Errorf("FromTime(Oct %d) = %s, want %s", 19+i, got, w)
		}
	}
}

func TestFromTime_UsesIST(t *testing.T) {
	// 20:00 UTC on Sunday is 01:30 Monday in IST.
	utc := time.Date(2026, 10, 25, 20, 0, 0, 0, time.UTC)
	if got := FromTime(utc); got != Monday {
		t.Errorf("FromTime() = %s, want Mon", got)
	}
}

func TestWeekdayString(t *testing.T) {
	if got := FromTime(ist(23, 9, 0)).String(); got != "Fri" {
		t.Errorf("String() = %q, want Fri", got)
	}
	if got := Weekday(7).String(); got != "Weekday(7)" {
		t.Errorf("String() = %q for an out-of-range day", got)
	}
}

func TestReminder_LunchSupplementOnlyOnFriday(t *testing.T) {
	for day := 19; day <= 25; day++ {
		text, err := Reminder(SlotLunch, ist(day, 14, 0))
		if err != nil {
			t.Fatalf("Reminder() error = %v", err)
		}
		hasExtra := strings.Contains(text, "• Uprise D3")
		isFriday := FromTime(ist(day, 14, 0)) == Friday
		if hasExtra != isFriday {
			t.Errorf("Oct %d: supplement present = %v, want %v\n%s", day, hasExtra, isFriday, text)
		}
		if !strings.Contains(text, "• Meganeuron OD+") {
			t.Errorf("Oct %d: base item missing:\n%s", day, text)
		}
	}
}

func TestReminder_Lunch(t *testing.T) {
	got, err := Reminder(SlotLunch, ist(23, 14, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := "💊 Hair schedule – After lunch 2 PM (Fri)\n• Meganeuron OD+\n• Uprise D3"
	if got != want {
		t.Errorf("Reminder() =\n%q\nwant\n%q", got, want)
	}
}

func TestReminder_BathOnlyOnWashDays(t *testing.T) {
	washDays := map[Weekday]bool{Tuesday: true, Thursday: true, Saturday: true}
	for day := 19; day <= 25; day++ {
		now := ist(day, 10, 0)
		text, err := Reminder(SlotBath, now)
		if err != nil {
			t.Fatal(err)
		}
		if washDays[FromTime(now)] != (text != "") {
			t.Errorf("Oct %d (%s): got %q", day, FromTime(now), text)
		}
	}
}

func TestReminder_Night(t *testing.T) {
	tests := []struct {
		day  int
		want string
	}{
		{19, "Nidcort-CS"},
		{20, ""},
		{21, "Nidcort-CS"},
		{22, ""},
		{23, "Nidcort-CS"},
		{24, ""},
		{25, "Ketoconazole 2%"},
	}
	for _, tt := range tests {
		text, err := Reminder(SlotNight, ist(tt.day, 21, 0))
		if err != nil {
			t.Fatal(err)
		}
		if tt.want == "" {
			if text != "" {
				t.Errorf("Oct %d: expected no reminder, got %q", tt.day, text)
			}
			continue
		}
		if !strings.HasPrefix(text, "🌙 Hair schedule – Night 9 PM") || !strings.Contains(text, tt.want) {
			t.Errorf("Oct %d: got %q, want it to mention %q", tt.day, text, tt.want)
		}
	}
}

func TestReminder_EveningSkipsOnOvernightNights(t *testing.T) {
	mon, _ := Reminder(SlotEvening, ist(19, 19, 0))
	tue, _ := Reminder(SlotEvening, ist(20, 19, 0))
	if !strings.Contains(mon, "Skip AGA Pro") {
		t.Errorf("Monday evening = %q", mon)
	}
	if !strings.Contains(tue, "• AGA Pro 6 sprays") {
		t.Errorf("Tuesday evening = %q", tue)
	}
}

func TestReminder_UnknownSlot(t *testing.T) {
	_, err := Reminder(Slot("brunch"), ist(19, 11, 0))
	if !errors.Is(err, apperrors.ErrUnknownSlot) {
		t.Errorf("error = %v, want ErrUnknownSlot", err)
	}
}

func TestTodaysPlan(t *testing.T) {
	s := Default()

	tue := s.TodaysPlan(ist(20, 9, 0))
	if !strings.HasPrefix(tue, "<b>📋 Today's plan – Tue</b>") {
		t.Errorf("header: %q", tue)
	}
	if !strings.Contains(tue, "Ketoclenz CT") {
		t.Errorf("Tuesday plan should include the bath slot:\n%s", tue)
	}
	if strings.Contains(tue, "| Night") {
		t.Errorf("Tuesday plan should have no night slot:\n%s", tue)
	}

	sun := s.TodaysPlan(ist(25, 9, 0))
	if strings.Contains(sun, "Ketoclenz CT") || !strings.Contains(sun, "Ketoconazole 2%") {
		t.Errorf("Sunday plan:\n%s", sun)
	}
}

func TestNextSlot(t *testing.T) {
	s := Default()

	tests := []struct {
		name     string
		now      time.Time
		wantSlot Slot
		wantDay  Weekday
		wantHour int
	}{
		{"early monday", ist(19, 6, 0), SlotMorning, Monday, 8},
		{"exactly on slot counts", ist(19, 8, 0), SlotMorning, Monday, 8},
		{"monday skips bath", ist(19, 9, 0), SlotLunch, Monday, 14},
		{"tuesday has bath", ist(20, 9, 0), SlotBath, Tuesday, 10},
		{"tuesday after evening rolls to wednesday", ist(20, 20, 0), SlotMorning, Wednesday, 8},
		{"monday evening has night", ist(19, 20, 0), SlotNight, Monday, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := s.NextSlot(tt.now)
			if !ok {
				t.Fatal("no next slot")
			}
			if next.Slot != tt.wantSlot || next.Day != tt.wantDay || next.At.Hour() != tt.wantHour {
				t.Errorf("NextSlot() = %s %s %d:00, want %s %s %d:00",
					next.Slot, next.Day, next.At.Hour(), tt.wantSlot, tt.wantDay, tt.wantHour)
			}
		})
	}
}

func TestNextSlotText(t *testing.T) {
	got := Default().NextSlotText(ist(19, 6, 0))
	want := "<b>⏭ Next: Mon 8 AM – Morning</b>\n\n<b>Trichogain 1 cap (after breakfast), AGA Pro 6 sprays</b>"
	if got != want {
		t.Errorf("NextSlotText() =\n%q\nwant\n%q", got, want)
	}
}

func TestWithOverrides(t *testing.T) {
	s, err := WithOverrides(map[string]string{"lunch": "30 13 * * *"})
	if err != nil {
		t.Fatal(err)
	}
	text, _ := s.Reminder(SlotLunch, ist(19, 13, 30))
	if !strings.Contains(text, "After lunch 1:30 PM") {
		t.Errorf("Reminder() = %q", text)
	}

	if _, err := WithOverrides(map[string]string{"brunch": "0 11 * * *"}); !errors.Is(err, apperrors.ErrUnknownSlot) {
		t.Errorf("error = %v, want ErrUnknownSlot", err)
	}
	if _, err := WithOverrides(map[string]string{"lunch": "not a cron"}); err == nil {
		t.Error("expected parse error")
	}
}
