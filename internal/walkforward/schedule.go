package walkforward

import (
	"fmt"
	"time"

	"walkforward-ensemble/internal/model"
)

// Window is one in-sample span. Both endpoints are inclusive when
// slicing the frame.
type Window struct {
	Start time.Time
	End   time.Time
}

// Key renders the span the way results are labelled everywhere else.
func (w Window) Key() string {
	return fmt.Sprintf("%s to %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// Schedule is the sequence of in-sample windows for a walk-forward run.
//
// The first window spans (firstOS - windowMonths) to firstOS.
// Anchored schedules keep that fixed start and grow the end by stepMonths;
// rolling schedules move a fixed-length window forward by stepMonths.
// Windows stop once their end would pass (last data date - stepMonths),
// so every in-sample window leaves room for a full out-of-sample step.
type Schedule struct {
	FirstOS      time.Time
	WindowMonths int
	StepMonths   int
	Anchored     bool

	windows []Window
}

// NewSchedule builds the window sequence against a data frame.
func NewSchedule(f *model.Frame, firstOS time.Time, windowMonths int, anchored bool, stepMonths int) (*Schedule, error) {
	if windowMonths < 1 {
		return nil, fmt.Errorf("schedule: window_months must be >= 1, got %d", windowMonths)
	}
	if stepMonths < 1 {
		return nil, fmt.Errorf("schedule: step_months must be >= 1, got %d", stepMonths)
	}
	if f.Rows() == 0 {
		return nil, fmt.Errorf("schedule: empty frame")
	}

	s := &Schedule{
		FirstOS:      firstOS,
		WindowMonths: windowMonths,
		StepMonths:   stepMonths,
		Anchored:     anchored,
	}

	analysisStart := model.AddMonths(firstOS, -windowMonths)
	maxAllowedEnd := model.AddMonths(f.End(), -stepMonths)

	if anchored {
		s.windows = append(s.windows, Window{Start: analysisStart, End: firstOS})
		end := model.AddMonths(firstOS, stepMonths)
		for !end.After(maxAllowedEnd) {
			s.windows = append(s.windows, Window{Start: analysisStart, End: end})
			end = model.AddMonths(end, stepMonths)
		}
	} else {
		start := analysisStart
		end := model.AddMonths(start, windowMonths)
		for !end.After(maxAllowedEnd) {
			s.windows = append(s.windows, Window{Start: start, End: end})
			start = model.AddMonths(start, stepMonths)
			end = model.AddMonths(start, windowMonths)
		}
	}

	return s, nil
}

// Windows returns the in-sample spans in chronological order.
func (s *Schedule) Windows() []Window { return s.windows }
