package montecarlo

import (
	"math"
)

// Result is the immutable outcome of one simulation run.
type Result struct {
	Values     []float64  `json:"values,omitempty"`
	Filtered   int        `json:"filtered"`
	Statistics Statistics `json:"statistics"`
	Seed       int64      `json:"seed"`
	Iterations int        `json:"iterations"`
}

// NewResult drops NaN and Inf outcomes, keeping their count in Filtered, and
// summarises the rest.
func NewResult(outcomes []float64, seed int64) (*Result, error) {
	finite := make([]float64, 0, len(outcomes))
	for _, v := range outcomes {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	summary, err := Summarize(finite)
	if err != nil {
		return nil, err
	}
	return &Result{
		Values:     finite,
		Filtered:   len(outcomes) - len(finite),
		Statistics: summary,
		Seed:       seed,
		Iterations: len(outcomes),
	}, nil
}

// Mean is shorthand for Statistics.Mean.
func (r *Result) Mean() float64 {
	return r.Statistics.Mean
}

// Percentile is shorthand for Statistics.Percentile.
func (r *Result) Percentile(p int) float64 {
	return r.Statistics.Percentile(p)
}
