package model

import (
	"fmt"
	"sort"
	"time"
)

// Frame is a dated matrix of per-asset values (returns, turnover, ...).
// Dates are strictly ascending; Values is row-major with one row per date
// and one entry per column.
type Frame struct {
	Dates   []time.Time
	Columns []string
	Values  [][]float64
}

// NewFrame validates the shape and returns a Frame.
// Dates must be strictly ascending, rows must match len(Columns),
// and column names must be unique.
func NewFrame(dates []time.Time, columns []string, values [][]float64) (*Frame, error) {
	if len(dates) != len(values) {
		return nil, fmt.Errorf("frame: %d dates but %d rows", len(dates), len(values))
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("frame: no columns")
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("frame: duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}
	for i, row := range values {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("frame: row %d has %d values, want %d", i, len(row), len(columns))
		}
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("frame: dates not strictly ascending at row %d (%s)", i, dates[i].Format("2006-01-02"))
		}
	}
	return &Frame{Dates: dates, Columns: columns, Values: values}, nil
}

func (f *Frame) Rows() int { return len(f.Dates) }

// Start returns the first date, or the zero time for an empty frame.
func (f *Frame) Start() time.Time {
	if len(f.Dates) == 0 {
		return time.Time{}
	}
	return f.Dates[0]
}

// End returns the last date, or the zero time for an empty frame.
func (f *Frame) End() time.Time {
	if len(f.Dates) == 0 {
		return time.Time{}
	}
	return f.Dates[len(f.Dates)-1]
}

// Slice returns the rows with start <= date <= end. Both endpoints are
// inclusive. The result shares backing storage with the receiver.
func (f *Frame) Slice(start, end time.Time) *Frame {
	lo := sort.Search(len(f.Dates), func(i int) bool { return !f.Dates[i].Before(start) })
	hi := sort.Search(len(f.Dates), func(i int) bool { return f.Dates[i].After(end) })
	if lo > hi {
		lo = hi
	}
	return &Frame{
		Dates:   f.Dates[lo:hi],
		Columns: f.Columns,
		Values:  f.Values[lo:hi],
	}
}

// ColumnIndex returns the position of a named column, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Select returns a frame restricted to the named columns, in the given order.
func (f *Frame) Select(columns []string) (*Frame, error) {
	idx := make([]int, len(columns))
	for i, name := range columns {
		j := f.ColumnIndex(name)
		if j < 0 {
			return nil, fmt.Errorf("frame: unknown column %q", name)
		}
		idx[i] = j
	}
	values := make([][]float64, len(f.Values))
	for r, row := range f.Values {
		out := make([]float64, len(idx))
		for i, j := range idx {
			out[i] = row[j]
		}
		values[r] = out
	}
	return &Frame{Dates: f.Dates, Columns: columns, Values: values}, nil
}

// Column returns a single column as a Series.
func (f *Frame) Column(name string) (Series, error) {
	j := f.ColumnIndex(name)
	if j < 0 {
		return Series{}, fmt.Errorf("frame: unknown column %q", name)
	}
	vals := make([]float64, len(f.Values))
	for r, row := range f.Values {
		vals[r] = row[j]
	}
	return Series{Dates: f.Dates, Values: vals}, nil
}

// SameShape reports whether two frames have identical dates and columns,
// which is required for returns/turnover alignment.
func SameShape(a, b *Frame) error {
	if len(a.Dates) != len(b.Dates) {
		return fmt.Errorf("frames have %d vs %d rows", len(a.Dates), len(b.Dates))
	}
	if len(a.Columns) != len(b.Columns) {
		return fmt.Errorf("frames have %d vs %d columns", len(a.Columns), len(b.Columns))
	}
	for i := range a.Dates {
		if !a.Dates[i].Equal(b.Dates[i]) {
			return fmt.Errorf("frame dates differ at row %d: %s vs %s",
				i, a.Dates[i].Format("2006-01-02"), b.Dates[i].Format("2006-01-02"))
		}
	}
	for i := range a.Columns {
		if a.Columns[i] != b.Columns[i] {
			return fmt.Errorf("frame columns differ at %d: %q vs %q", i, a.Columns[i], b.Columns[i])
		}
	}
	return nil
}
