package collector

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/flicker/internal/assertion"
)

// MetricsPrefix prefixes every assertion metric key.
const MetricsPrefix = "FAAS"

// missingErrorMessage stands in for failures that carry no message.
const missingErrorMessage = "FAILURE WITHOUT ERROR MESSAGE..."

// ErrStabilityMismatch is returned when results of one assertion family
// disagree on their stability.
var ErrStabilityMismatch = errors.New("unexpected assertion stability mismatch")

// AggregatedResult collects the results of one assertion family.
type AggregatedResult struct {
	Results   []assertion.Result
	Passes    int
	Failures  int
	Errors    []string
	Stability assertion.Stability
}

// Add appends r. All results of a family must share one stability.
func (a *AggregatedResult) Add(r assertion.Result) error {
	if a.Stability == "" {
		a.Stability = r.Stability
	}
	if a.Stability != r.Stability {
		return fmt.Errorf("%s: %s vs %s: %w", r.Name, a.Stability, r.Stability, ErrStabilityMismatch)
	}

	a.Results = append(a.Results, r)
	if r.Passed {
		a.Passes++
		return nil
	}
	a.Failures++
	for _, e := range r.Errors {
		msg := e.Message
		if msg == "" {
			msg = missingErrorMessage
		}
		a.Errors = append(a.Errors, msg)
	}
	return nil
}

// KeyFor returns the aggregation key of a result.
func KeyFor(r assertion.Result) string {
	return MetricsPrefix + "::" + r.Name
}

// ProcessResults groups results by KeyFor.
func ProcessResults(results []assertion.Result) (map[string]*AggregatedResult, error) {
	out := make(map[string]*AggregatedResult)
	for _, r := range results {
		key := KeyFor(r)
		agg, ok := out[key]
		if !ok {
			agg = &AggregatedResult{}
			out[key] = agg
		}
		if err := agg.Add(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// resultMetrics returns one "<key>_<index>" metric per result, 0 for pass
// and 1 for fail, ordered by key then index.
func resultMetrics(aggregated map[string]*AggregatedResult) [][2]string {
	keys := make([]string, 0, len(aggregated))
	for k := range aggregated {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out [][2]string
	for _, k := range keys {
		for i, r := range aggregated[k].Results {
			status := "0"
			if !r.Passed {
				status = "1"
			}
			out = append(out, [2]string{fmt.Sprintf("%s_%d", k, i), status})
		}
	}
	return out
}
