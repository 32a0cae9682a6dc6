// Package bonus keeps the promotional event bonus of each category.
package bonus

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/presale/internal/domain/types"
)

// ErrNotFound is returned when no entry carries the requested id.
var ErrNotFound = errors.New("bonus event not found")

// Entry is one named event bonus.
type Entry struct {
	ID      int            `json:"id"`
	Name    string         `json:"name"`
	Type    types.Category `json:"type"`
	Percent float64        `json:"percent"`
}

// Defaults returns the seed registry content: one zero bonus per category.
func Defaults() []Entry {
	return []Entry{
		{ID: 1, Name: "Event Buyer Commission", Type: types.BuyerCommission},
		{ID: 2, Name: "Event Buyer Voucher", Type: types.BuyerVoucher},
		{ID: 3, Name: "Event Agency Voucher", Type: types.AgencyVoucher},
	}
}

// Registry holds bonus entries in insertion order. It is not safe for
// concurrent use.
type Registry struct {
	entries []Entry
}

// NewRegistry creates a registry holding a copy of entries.
func NewRegistry(entries []Entry) *Registry {
	return &Registry{entries: append([]Entry{}, entries...)}
}

// Entries returns a copy of all entries.
func (r *Registry) Entries() []Entry {
	return append([]Entry{}, r.entries...)
}

// Replace swaps the whole registry content, e.g. after rehydration.
func (r *Registry) Replace(entries []Entry) {
	r.entries = append([]Entry{}, entries...)
}

// Bonus returns the percent of the first entry of category c, 0 if none.
func (r *Registry) Bonus(c types.Category) float64 {
	for _, e := range r.entries {
		if e.Type == c {
			return e.Percent
		}
	}
	return 0
}

// SetPercent updates the percent of the entry with id. A non-finite
// percent is stored as 0.
func (r *Registry) SetPercent(id int, percent float64) error {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries[i].Percent = finite(percent)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Add appends a new entry with the next free id and returns it.
func (r *Registry) Add(name string, c types.Category, percent float64) Entry {
	next := 1
	for _, e := range r.entries {
		next = max(next, e.ID+1)
	}
	e := Entry{ID: next, Name: name, Type: c, Percent: finite(percent)}
	r.entries = append(r.entries, e)
	return e
}

// Delete removes the entry with id.
func (r *Registry) Delete(id int) error {
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// finite maps NaN and the infinities to 0 so entries stay JSON-encodable.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
