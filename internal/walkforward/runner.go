package walkforward

import (
	"fmt"

	"walkforward-ensemble/internal/metrics"
	"walkforward-ensemble/internal/model"
	"walkforward-ensemble/internal/selection"
)

// PeriodResult pairs an in-sample window with its selection outcome.
type PeriodResult struct {
	Window    Window
	Selection selection.Result
}

// Runner executes in-sample selection over every window of a schedule.
type Runner struct {
	Returns  *model.Frame
	Turnover *model.Frame // optional, aligned with Returns
	Metric   metrics.Func
	Params   selection.Params
}

// Run selects assets on each in-sample window, in schedule order.
func (r *Runner) Run(schedule *Schedule) ([]PeriodResult, error) {
	windows := schedule.Windows()
	out := make([]PeriodResult, 0, len(windows))
	for _, w := range windows {
		retSlice := r.Returns.Slice(w.Start, w.End)
		var toSlice *model.Frame
		if r.Turnover != nil {
			toSlice = r.Turnover.Slice(w.Start, w.End)
		}
		sel, err := selection.Perform(retSlice, toSlice, r.Metric, r.Params)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", w.Key(), err)
		}
		out = append(out, PeriodResult{Window: w, Selection: sel})
	}
	return out, nil
}
