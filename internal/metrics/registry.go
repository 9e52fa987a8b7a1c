package metrics

import (
	"fmt"
	"sort"
)

// Registry maps metric names to scoring functions. Note max_drawdown is
// the only ascending metric: a smaller drawdown ranks first.
var registry = map[string]Func{
	"sharpe":         {Name: "sharpe", Score: Sharpe},
	"highest_return": {Name: "highest_return", Score: TotalReturn},
	"max_drawdown":   {Name: "max_drawdown", Ascending: true, Score: MaxDrawdown},
	"volatility":     {Name: "volatility", Score: Volatility},
	"momentum":       {Name: "momentum", Score: Momentum(12)},
	"avg_trade":      {Name: "avg_trade", Score: AvgTradeRatio},
	"composite":      {Name: "composite", Score: Composite},
}

// Lookup returns the named metric.
func Lookup(name string) (Func, error) {
	m, ok := registry[name]
	if !ok {
		return Func{}, fmt.Errorf("metric %q is not registered", name)
	}
	return m, nil
}

// Names lists the registered metric names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
