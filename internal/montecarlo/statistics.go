package montecarlo

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"goqmra/domain/core"
)

// ReportedPercentiles is the fixed percentile set of every result.
var ReportedPercentiles = []int{5, 10, 25, 50, 75, 90, 95, 99}

// Statistics summarises an ensemble of finite outcomes.
type Statistics struct {
	Count       int             `json:"count"`
	Mean        float64         `json:"mean"`
	Median      float64         `json:"median"`
	StdDev      float64         `json:"std"`
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	Percentiles map[int]float64 `json:"percentiles"`
}

// Percentile returns a reported percentile, or NaN when p is not in
// ReportedPercentiles.
func (s Statistics) Percentile(p int) float64 {
	if v, ok := s.Percentiles[p]; ok {
		return v
	}
	return math.NaN()
}

// Summarize computes the summary of finite values. StdDev is the population
// standard deviation.
func Summarize(values []float64) (Statistics, error) {
	if len(values) == 0 {
		return Statistics{}, core.NewValidationError("outcomes", "no finite values to summarise")
	}
	data := stats.Float64Data(values)

	mean, err := stats.Mean(data)
	if err != nil {
		return Statistics{}, fmt.Errorf("mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return Statistics{}, fmt.Errorf("median: %w", err)
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return Statistics{}, fmt.Errorf("standard deviation: %w", err)
	}
	min, err := stats.Min(data)
	if err != nil {
		return Statistics{}, fmt.Errorf("min: %w", err)
	}
	max, err := stats.Max(data)
	if err != nil {
		return Statistics{}, fmt.Errorf("max: %w", err)
	}

	percentiles := make(map[int]float64, len(ReportedPercentiles))
	for _, p := range ReportedPercentiles {
		v, err := percentile(data, float64(p))
		if err != nil {
			return Statistics{}, fmt.Errorf("percentile %d: %w", p, err)
		}
		percentiles[p] = v
	}

	return Statistics{
		Count:       len(values),
		Mean:        mean,
		Median:      median,
		StdDev:      stdDev,
		Min:         min,
		Max:         max,
		Percentiles: percentiles,
	}, nil
}

// percentile falls back to nearest rank for small ensembles where the
// interpolating estimator has no defined index.
func percentile(data stats.Float64Data, p float64) (float64, error) {
	v, err := stats.Percentile(data, p)
	if err == nil {
		return v, nil
	}
	return stats.PercentileNearestRank(data, p)
}
