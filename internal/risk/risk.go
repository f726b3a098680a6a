// Package risk turns per-event infection probabilities into illness, annual
// and burden metrics and classifies them against guideline thresholds.
package risk

import (
	"math"

	"goqmra/domain/core"
)

// IllnessProbability returns P_infection * illnessRatio * susceptibility per
// draw. Both factors must lie in [0,1].
func IllnessProbability(infection []float64, illnessRatio, susceptibility float64) ([]float64, error) {
	var report core.ValidationReport
	report.Check(unitInterval(illnessRatio), "illness_ratio", "must be in [0,1]")
	report.Check(unitInterval(susceptibility), "population_susceptibility", "must be in [0,1]")
	if err := report.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(infection))
	factor := illnessRatio * susceptibility
	for i, p := range infection {
		out[i] = p * factor
	}
	return out, nil
}

// AnnualRisk aggregates a per-event probability over frequency independent
// exposures per year: 1 - (1 - p)^frequency.
func AnnualRisk(p, frequency float64) (float64, error) {
	if err := validateFrequency(frequency); err != nil {
		return 0, err
	}
	if !unitInterval(p) {
		return 0, core.NewValidationError("probability", "must be in [0,1]")
	}
	return annual(p, frequency), nil
}

// AnnualRisks applies AnnualRisk per draw. Non-finite draws pass through so
// the Monte Carlo summary can filter and count them.
func AnnualRisks(perEvent []float64, frequency float64) ([]float64, error) {
	if err := validateFrequency(frequency); err != nil {
		return nil, err
	}
	out := make([]float64, len(perEvent))
	for i, p := range perEvent {
		if math.IsNaN(p) {
			out[i] = p
			continue
		}
		out[i] = annual(math.Min(math.Max(p, 0), 1), frequency)
	}
	return out, nil
}

// annual computes 1-(1-p)^f as -expm1(f*log1p(-p)) to keep precision for
// small p.
func annual(p, frequency float64) float64 {
	switch frequency {
	case 0:
		return 0
	case 1:
		return p
	}
	return -math.Expm1(frequency * math.Log1p(-p))
}

// DALYs converts annual illness probabilities into disability-adjusted life
// years per person per year.
func DALYs(annualIllness []float64, dalysPerCase float64) ([]float64, error) {
	if !(dalysPerCase >= 0) || math.IsInf(dalysPerCase, 1) {
		return nil, core.NewValidationError("dalys_per_case", "must be a finite value >= 0")
	}
	out := make([]float64, len(annualIllness))
	for i, p := range annualIllness {
		out[i] = p * dalysPerCase
	}
	return out, nil
}

func validateFrequency(frequency float64) error {
	if !(frequency >= 0) || math.IsInf(frequency, 1) {
		return core.NewValidationError("frequency", "must be a finite value >= 0")
	}
	return nil
}

func unitInterval(v float64) bool {
	return v >= 0 && v <= 1
}
