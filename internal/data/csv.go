package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"walkforward-ensemble/internal/model"
)

const dateLayout = "2006-01-02"

// LoadFrameCSV reads a wide CSV: header "date,<asset>,<asset>,...",
// then one row per date with a value for every asset.
func LoadFrameCSV(path string) (*model.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("%s: need a date column plus at least one asset", path)
	}
	columns := header[1:]

	dates := make([]time.Time, 0, len(records)-1)
	values := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		d, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad date %q: %w", path, line, rec[0], err)
		}
		row := make([]float64, len(columns))
		for j, cell := range rec[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %q: %w", path, line, columns[j], err)
			}
			row[j] = v
		}
		dates = append(dates, d.UTC())
		values = append(values, row)
	}

	frame, err := model.NewFrame(dates, columns, values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// LoadAligned loads a returns CSV and, when turnoverPath is non-empty, a
// turnover CSV that must share its exact dates and columns.
func LoadAligned(returnsPath, turnoverPath string) (returns, turnover *model.Frame, err error) {
	returns, err = LoadFrameCSV(returnsPath)
	if err != nil {
		return nil, nil, err
	}
	if turnoverPath == "" {
		return returns, nil, nil
	}
	turnover, err = LoadFrameCSV(turnoverPath)
	if err != nil {
		return nil, nil, err
	}
	if err := model.SameShape(returns, turnover); err != nil {
		return nil, nil, fmt.Errorf("turnover %s not aligned with returns %s: %w", turnoverPath, returnsPath, err)
	}
	return returns, turnover, nil
}

// WriteFrameCSV writes a frame in the same wide layout LoadFrameCSV reads.
func WriteFrameCSV(path string, frame *model.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"date"}, frame.Columns...)
	if err := w.Write(header); err != nil {
		return err
	}
	for r, d := range frame.Dates {
		row := make([]string, 0, len(frame.Columns)+1)
		row = append(row, d.Format(dateLayout))
		for _, v := range frame.Values[r] {
			row = append(row, strconv.FormatFloat(v, 'f', 8, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
