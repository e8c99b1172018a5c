// Package schedule turns the weekly collection timetable into cron schedules,
// answers "when is the next pickup" and sends opt-in reminders.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bowerhall/regen/internal/catalog"
)

// cronParser is configured for standard 5-field cron expressions
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

type entry struct {
	slot  Slot
	sched cron.Schedule
}

type Schedule struct {
	entries []entry
	loc     *time.Location
}

func New(days []catalog.Day, loc *time.Location) (*Schedule, error) {
	if loc == nil {
		loc = time.UTC
	}

	s := &Schedule{loc: loc}

	var errs []error
	for _, d := range days {
		for _, clock := range d.Times {
			slot, err := ParseSlot(d.Day, clock)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			sched, err := cronParser.Parse(slot.Spec())
			if err != nil {
				errs = append(errs, fmt.Errorf("slot %s: %w", slot, err))
				continue
			}

			s.entries = append(s.entries, entry{slot: slot, sched: sched})
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	sort.SliceStable(s.entries, func(i, j int) bool {
		a, b := s.entries[i].slot, s.entries[j].slot
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		return a.Hour*60+a.Minute < b.Hour*60+b.Minute
	})

	return s, nil
}

func (s *Schedule) Location() *time.Location {
	return s.loc
}

func (s *Schedule) Slots() []Slot {
	slots := make([]Slot, len(s.entries))
	for i, e := range s.entries {
		slots[i] = e.slot
	}
	return slots
}

// Next returns the first pickup strictly after now.
func (s *Schedule) Next(now time.Time) (Slot, time.Time, bool) {
	now = now.In(s.loc)

	var (
		best     Slot
		bestTime time.Time
		found    bool
	)

	for _, e := range s.entries {
		t := e.sched.Next(now)
		if !found || t.Before(bestTime) {
			best, bestTime, found = e.slot, t, true
		}
	}

	return best, bestTime, found
}

// Upcoming returns the next n pickups after now, in order.
func (s *Schedule) Upcoming(now time.Time, n int) []time.Time {
	var out []time.Time
	cursor := now
	for len(out) < n {
		_, t, ok := s.Next(cursor)
		if !ok {
			break
		}
		out = append(out, t)
		cursor = t
	}
	return out
}
