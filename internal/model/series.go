package model

import (
	"sort"
	"time"
)

// Series is a dated vector of values, typically a portfolio return or
// turnover path.
type Series struct {
	Dates  []time.Time
	Values []float64
}

func (s Series) Len() int { return len(s.Dates) }

func (s Series) Empty() bool { return len(s.Dates) == 0 }

// ConcatSeries joins several series and sorts the result by date.
// Inputs are expected to be disjoint in time (out-of-sample windows are),
// so ties keep their relative order.
func ConcatSeries(parts []Series) Series {
	total := 0
	for _, p := range parts {
		total += p.Len()
	}
	out := Series{
		Dates:  make([]time.Time, 0, total),
		Values: make([]float64, 0, total),
	}
	for _, p := range parts {
		out.Dates = append(out.Dates, p.Dates...)
		out.Values = append(out.Values, p.Values...)
	}
	idx := make([]int, out.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return out.Dates[idx[i]].Before(out.Dates[idx[j]]) })
	dates := make([]time.Time, out.Len())
	values := make([]float64, out.Len())
	for i, j := range idx {
		dates[i] = out.Dates[j]
		values[i] = out.Values[j]
	}
	return Series{Dates: dates, Values: values}
}
