// Package ledger holds the editable base inputs of one category as a set of
// index-aligned columns.
//
// Every mutation keeps all columns the same length; tier numbers are
// positional and shift when a tier is removed.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnknownField is returned when a cell edit names a field the ledger
// does not carry.
var ErrUnknownField = errors.New("unknown ledger field")

// Snapshot is the JSON-friendly form of a ledger: field name to column.
type Snapshot map[string][]float64

// Option applies a configuration option to a Ledger.
type Option func(*Ledger)

// WithColumn seeds the values of a field. Unknown fields are ignored.
func WithColumn(field string, values ...float64) Option {
	return func(l *Ledger) {
		if _, ok := l.cols[field]; ok {
			l.cols[field] = append([]float64(nil), values...)
		}
	}
}

// WithGrowth sets the policy used by AddPackage for a field.
func WithGrowth(field string, g Growth) Option {
	return func(l *Ledger) {
		if _, ok := l.cols[field]; ok && g != nil {
			l.growth[field] = g
		}
	}
}

// Ledger is a set of parallel columns. It is not safe for concurrent use.
type Ledger struct {
	fields []string
	cols   map[string][]float64
	growth map[string]Growth
}

// New creates a ledger with the given ordered fields. Seeded columns of
// unequal length are padded with 0.
func New(fields []string, opts ...Option) *Ledger {
	l := &Ledger{
		fields: append([]string(nil), fields...),
		cols:   make(map[string][]float64, len(fields)),
		growth: make(map[string]Growth, len(fields)),
	}
	for _, f := range fields {
		l.cols[f] = []float64{}
		l.growth[f] = Fixed(0)
	}
	for _, opt := range opts {
		opt(l)
	}
	l.pad()
	return l
}

// Fields returns the ordered field names.
func (l *Ledger) Fields() []string {
	return append([]string(nil), l.fields...)
}

// Len returns the number of tiers.
func (l *Ledger) Len() int {
	if len(l.fields) == 0 {
		return 0
	}
	return len(l.cols[l.fields[0]])
}

// Column returns a copy of a field's values, or nil for unknown fields.
func (l *Ledger) Column(field string) []float64 {
	col, ok := l.cols[field]
	if !ok {
		return nil
	}
	return append(make([]float64, 0, len(col)), col...)
}

// Snapshot returns a deep copy of all columns.
func (l *Ledger) Snapshot() Snapshot {
	s := make(Snapshot, len(l.fields))
	for _, f := range l.fields {
		s[f] = l.Column(f)
	}
	return s
}

// Restore replaces the columns present in s. Fields the ledger does not
// carry are ignored and ragged columns are padded with 0.
func (l *Ledger) Restore(s Snapshot) {
	for f, col := range s {
		if _, ok := l.cols[f]; ok {
			l.cols[f] = append([]float64{}, col...)
		}
	}
	l.pad()
}

// UpdateCell parses raw and stores it at index of field. Unparseable input
// is stored as 0. An index outside the ledger leaves it unchanged.
func (l *Ledger) UpdateCell(field string, index int, raw string) error {
	return l.Set(field, index, ParseValue(raw))
}

// Set stores v at index of field. An index outside the ledger is a no-op;
// NaN and the infinities are stored as 0.
func (l *Ledger) Set(field string, index int, v float64) error {
	col, ok := l.cols[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if index < 0 || index >= len(col) {
		return nil
	}
	col[index] = finite(v)
	return nil
}

// AddPackage appends one tier, each field's value chosen by its growth policy.
func (l *Ledger) AddPackage() {
	next := make(map[string]float64, len(l.fields))
	for _, f := range l.fields {
		next[f] = finite(l.growth[f].Next(l.cols[f]))
	}
	for _, f := range l.fields {
		l.cols[f] = append(l.cols[f], next[f])
	}
}

// RemovePackage removes the tier at index from every column. A negative
// index removes the last tier. It reports whether a tier was removed.
func (l *Ledger) RemovePackage(index int) bool {
	n := l.Len()
	if n == 0 || index >= n {
		return false
	}
	if index < 0 {
		index = n - 1
	}
	for _, f := range l.fields {
		col := l.cols[f]
		l.cols[f] = append(col[:index:index], col[index+1:]...)
	}
	return true
}

// Resize adds or removes trailing tiers until the ledger holds count tiers.
func (l *Ledger) Resize(count int) {
	if count < 0 {
		count = 0
	}
	for l.Len() < count {
		l.AddPackage()
	}
	for l.Len() > count {
		l.RemovePackage(-1)
	}
}

func (l *Ledger) pad() {
	width := 0
	for _, f := range l.fields {
		width = max(width, len(l.cols[f]))
	}
	for _, f := range l.fields {
		for len(l.cols[f]) < width {
			l.cols[f] = append(l.cols[f], 0)
		}
	}
}

// ParseValue parses a cell edit. Anything that is not a finite number is 0.
func ParseValue(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
