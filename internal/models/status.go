package models

// Status represents the availability of a listing.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusBooked      Status = "BOOKED"
	StatusSold        Status = "SOLD"
	StatusOnHold      Status = "ON_HOLD"
	StatusUnavailable Status = "UNAVAILABLE"
	StatusUpcoming    Status = "UPCOMING"
)

type statusDisplay struct {
	emoji string
	label string
}

var statusTable = map[Status]statusDisplay{
	StatusAvailable:   {"🟢", "AVAILABLE"},
	StatusBooked:      {"🟡", "BOOKED"},
	StatusSold:        {"🔴", "SOLD"},
	StatusOnHold:      {"🟠", "ON HOLD"},
	StatusUnavailable: {"⚫", "UNAVAILABLE"},
	StatusUpcoming:    {"🔵", "UPCOMING"},
}

// statusRules is evaluated in order; the first match wins.
var statusRules = []struct {
	status Status
	match  func(Car) bool
}{
	{StatusSold, func(c Car) bool { return bool(c.Sold) }},
	{StatusBooked, func(c Car) bool { return bool(c.Booked) }},
	{StatusOnHold, func(c Car) bool { return bool(c.OnHold) }},
	{StatusUnavailable, func(c Car) bool { return bool(c.Unpublished || c.SoftUnpublish) }},
	{StatusUpcoming, func(c Car) bool { return bool(c.Upcoming) }},
}

// ResolveStatus derives the availability status of a car.
func ResolveStatus(c Car) Status {
	for _, rule := range statusRules {
		if rule.match(c) {
			return rule.status
		}
	}
	return StatusAvailable
}

// Emoji returns the display emoji.
func (s Status) Emoji() string {
	if d, ok := statusTable[s]; ok {
		return d.emoji
	}
	return "❔"
}

// Label returns the display label.
func (s Status) Label() string {
	if d, ok := statusTable[s]; ok {
		return d.label
	}
	return string(s)
}
