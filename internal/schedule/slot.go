package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Slot is one weekly pickup time.
type Slot struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// clockLayouts are the accepted time-of-day spellings, e.g. "7:00 AM" or "19:30".
var clockLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

func ParseWeekday(day string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday: %q", day)
	}
	return wd, nil
}

// ParseSlot parses a day name and a clock time such as "Monday", "7:00 AM".
func ParseSlot(day, clock string) (Slot, error) {
	wd, err := ParseWeekday(day)
	if err != nil {
		return Slot{}, err
	}

	clock = strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return Slot{Weekday: wd, Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}

	return Slot{}, fmt.Errorf("invalid pickup time: %q", clock)
}

// Spec is the 5-field cron expression firing at this slot.
func (s Slot) Spec() string {
	return fmt.Sprintf("%d %d * * %d", s.Minute, s.Hour, int(s.Weekday))
}

// Before returns the slot lead earlier in the week, wrapping across days.
func (s Slot) Before(lead time.Duration) Slot {
	const week = 7 * 24 * 60

	minutes := int(s.Weekday)*24*60 + s.Hour*60 + s.Minute
	minutes -= int(lead / time.Minute)
	minutes = ((minutes % week) + week) % week

	return Slot{
		Weekday: time.Weekday(minutes / (24 * 60)),
		Hour:    (minutes / 60) % 24,
		Minute:  minutes % 60,
	}
}

// Clock formats the time of day as "7:00 AM".
func (s Slot) Clock() string {
	return time.Date(2000, 1, 1, s.Hour, s.Minute, 0, 0, time.UTC).Format("3:04 PM")
}

func (s Slot) String() string {
	return s.Weekday.String() + " " + s.Clock()
}
