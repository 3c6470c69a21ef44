// Package schedule produces the fixed hair-care reminder texts for a slot and
// the current IST weekday. It never touches the network.
package schedule

import (
	"fmt"
	"time"
)

// IST is the fixed UTC+05:30 zone every slot is evaluated in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Weekday numbers days Monday=0 .. Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// FromTime is the only conversion from time.Weekday (Sunday=0) to Weekday.
// The instant is read in IST.
func FromTime(t time.Time) Weekday {
	return Weekday((int(t.In(IST).Weekday()) + 6) % 7)
}

// String returns the short day name.
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}
