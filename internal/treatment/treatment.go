// Package treatment composes treatment barriers, flow dilution and natural
// die-off into a concentration transform. Stages always apply in the order
// treatment, dilution, die-off.
package treatment

import (
	"fmt"
	"math"
	"math/rand/v2"

	"goqmra/domain/core"
)

// Barrier is one log-reduction step. Variability is the standard deviation of
// the per-draw LRV; zero means the LRV is fixed.
type Barrier struct {
	Name        string  `json:"name" db:"name"`
	LRV         float64 `json:"log_reduction_value" db:"log_reduction_value"`
	Variability float64 `json:"variability,omitempty" db:"variability"`
}

// Train is an ordered list of barriers.
type Train []Barrier

// Validate reports every invalid barrier at once.
func (t Train) Validate() error {
	var report core.ValidationReport
	for i, b := range t {
		field := fmt.Sprintf("barriers[%d]", i)
		report.Check(b.Name != "", field+".name", "is required")
		report.Check(finiteNonNegative(b.LRV), field+".log_reduction_value", "must be a finite value >= 0")
		report.Check(finiteNonNegative(b.Variability), field+".variability", "must be a finite value >= 0")
	}
	return report.Err()
}

// CumulativeLRV returns the summed mean LRV and the standard deviation of the
// sum, with barrier variances added in quadrature.
func (t Train) CumulativeLRV() (mean, sd float64) {
	variance := 0.0
	for _, b := range t {
		mean += b.LRV
		variance += b.Variability * b.Variability
	}
	return mean, math.Sqrt(variance)
}

// SampleLRV draws one cumulative LRV: each barrier contributes
// Normal(LRV, Variability) floored at zero. Barriers without variability
// consume no random numbers.
func (t Train) SampleLRV(rng *rand.Rand) float64 {
	total := 0.0
	for _, b := range t {
		lrv := b.LRV
		if b.Variability > 0 {
			lrv = math.Max(0, b.LRV+b.Variability*rng.NormFloat64())
		}
		total += lrv
	}
	return total
}

// HasVariability reports whether any barrier declares variability.
func (t Train) HasVariability() bool {
	for _, b := range t {
		if b.Variability > 0 {
			return true
		}
	}
	return false
}

// Reduce applies lrv log10 units of reduction to a concentration.
func Reduce(concentration, lrv float64) float64 {
	return concentration * math.Pow(10, -lrv)
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
