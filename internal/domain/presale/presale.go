// Package presale manages the lock periods of presale rounds.
package presale

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of every lock period date.
const DateLayout = "2006-01-02"

// Sentinel errors for lock period operations.
var (
	ErrNotFound    = errors.New("presale event not found")
	ErrInvalidDate = errors.New("invalid date")
)

// Event is one lock period: when bought TBC and rewards are locked.
type Event struct {
	ID               int    `json:"id"`
	LockedTBCFrom    string `json:"lockedTbcFrom"`
	LockedTBCTo      string `json:"lockedTbcTo"`
	LockedRewardFrom string `json:"lockedRewardFrom"`
	LockedRewardTo   string `json:"lockedRewardTo"`
}

// Patch carries the fields of an update; empty fields are left unchanged.
type Patch struct {
	LockedTBCFrom    string `json:"lockedTbcFrom,omitempty"`
	LockedTBCTo      string `json:"lockedTbcTo,omitempty"`
	LockedRewardFrom string `json:"lockedRewardFrom,omitempty"`
	LockedRewardTo   string `json:"lockedRewardTo,omitempty"`
}

// Defaults returns the five seed lock periods.
func Defaults() []Event {
	const d = "2024-01-15"
	out := make([]Event, 5)
	for i := range out {
		out[i] = Event{ID: i, LockedTBCFrom: d, LockedTBCTo: d, LockedRewardFrom: d, LockedRewardTo: d}
	}
	return out
}

// Schedule is an ordered list of lock periods. It is not safe for
// concurrent use.
type Schedule struct {
	events []Event
}

// NewSchedule creates a schedule holding a copy of events.
func NewSchedule(events []Event) *Schedule {
	return &Schedule{events: append([]Event{}, events...)}
}

// List returns a copy of the lock periods.
func (s *Schedule) List() []Event {
	return append([]Event{}, s.events...)
}

// Replace swaps the whole schedule content.
func (s *Schedule) Replace(events []Event) {
	s.events = append([]Event{}, events...)
}

// Add appends a lock period whose four dates are now's date.
func (s *Schedule) Add(now time.Time) Event {
	next := 0
	for _, e := range s.events {
		next = max(next, e.ID+1)
	}
	d := now.Format(DateLayout)
	e := Event{ID: next, LockedTBCFrom: d, LockedTBCTo: d, LockedRewardFrom: d, LockedRewardTo: d}
	s.events = append(s.events, e)
	return e
}

// Update applies p to the lock period with id and returns the result.
// Nothing changes unless every provided date is valid.
func (s *Schedule) Update(id int, p Patch) (Event, error) {
	idx := s.index(id)
	if idx < 0 {
		return Event{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	e := s.events[idx]
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&e.LockedTBCFrom, p.LockedTBCFrom},
		{&e.LockedTBCTo, p.LockedTBCTo},
		{&e.LockedRewardFrom, p.LockedRewardFrom},
		{&e.LockedRewardTo, p.LockedRewardTo},
	} {
		v := strings.TrimSpace(f.src)
		if v == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, v); err != nil {
			return Event{}, fmt.Errorf("%w: %q", ErrInvalidDate, v)
		}
		*f.dst = v
	}
	s.events[idx] = e
	return e, nil
}

// Delete removes the lock period with id.
func (s *Schedule) Delete(id int) error {
	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	s.events = append(s.events[:idx:idx], s.events[idx+1:]...)
	return nil
}

func (s *Schedule) index(id int) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}
