package backtest

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"time"
)

// WriteAggregateCSV writes the stitched out-of-sample path as a ledger:
// one row per date with the portfolio return, compounded equity, and
// turnover when available.
func WriteAggregateCSV(path string, agg *Aggregate) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "portfolio_return", "equity", "turnover"}
	if err := w.Write(header); err != nil {
		return err
	}

	hasTurnover := !agg.Turnover.Empty()
	equity := 1.0
	for i, d := range agg.Series.Dates {
		equity *= 1 + agg.Series.Values[i]
		turnover := ""
		if hasTurnover && i < agg.Turnover.Len() {
			turnover = fmtFloat(agg.Turnover.Values[i])
		}
		row := []string{
			fmtDate(d),
			fmtFloat(agg.Series.Values[i]),
			fmtFloat(equity),
			turnover,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtFloat(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}
