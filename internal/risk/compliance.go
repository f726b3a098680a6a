package risk

import (
	"slices"

	"goqmra/domain/core"
)

// Classification is the outcome of comparing a risk against a threshold.
type Classification string

const (
	Compliant    Classification = "COMPLIANT"
	NonCompliant Classification = "NON_COMPLIANT"
)

// Classify returns Compliant when risk <= threshold.
func Classify(risk, threshold float64) Classification {
	if risk <= threshold {
		return Compliant
	}
	return NonCompliant
}

// Thresholds are the configurable guideline cutoffs.
type Thresholds struct {
	AnnualInfection float64 `json:"annual_infection" validate:"gt=0,lte=1"`
	AnnualIllness   float64 `json:"annual_illness" validate:"gt=0,lte=1"`
	DrinkingWater   float64 `json:"drinking_water" validate:"gt=0,lte=1"`
	PerEvent        float64 `json:"per_event" validate:"gt=0,lte=1"`
	DALY            float64 `json:"daly" validate:"gt=0"`
}

// DefaultThresholds returns the WHO-style defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AnnualInfection: 1e-4,
		AnnualIllness:   1e-4,
		DrinkingWater:   1e-6,
		PerEvent:        1e-3,
		DALY:            1e-6,
	}
}

// Guideline is one named threshold on one metric. An empty Routes list
// applies the guideline to every exposure route.
type Guideline struct {
	Name      string   `json:"name"`
	Metric    Metric   `json:"metric"`
	Threshold float64  `json:"threshold"`
	Routes    []string `json:"routes,omitempty"`
}

// AppliesTo reports whether the guideline covers route.
func (g Guideline) AppliesTo(route string) bool {
	return len(g.Routes) == 0 || slices.Contains(g.Routes, route)
}

// Guidelines is the set of guidelines an assessment is checked against.
type Guidelines []Guideline

// NewGuidelines builds the standard guideline set from thresholds.
func NewGuidelines(t Thresholds) Guidelines {
	return Guidelines{
		{Name: "annual_infection", Metric: MetricAnnualInfection, Threshold: t.AnnualInfection},
		{Name: "annual_illness", Metric: MetricAnnualIllness, Threshold: t.AnnualIllness},
		{Name: "drinking_water", Metric: MetricAnnualInfection, Threshold: t.DrinkingWater, Routes: []string{"drinking_water"}},
		{Name: "recreational_per_event", Metric: MetricIllness, Threshold: t.PerEvent, Routes: []string{"primary_contact"}},
		{Name: "daly", Metric: MetricDALYs, Threshold: t.DALY},
	}
}

// Validate checks every threshold is a usable cutoff.
func (gs Guidelines) Validate() error {
	var report core.ValidationReport
	for _, g := range gs {
		report.Check(g.Name != "", "guideline.name", "is required")
		report.Check(g.Threshold > 0, "guideline."+g.Name+".threshold", "must be > 0")
	}
	return report.Err()
}

// Verdict records one guideline check. Ratio is value/threshold; values above
// 1 exceed the guideline.
type Verdict struct {
	Guideline      string         `json:"guideline"`
	Metric         Metric         `json:"metric"`
	Threshold      float64        `json:"threshold"`
	Value          float64        `json:"value"`
	Ratio          float64        `json:"ratio"`
	Classification Classification `json:"classification"`
}

// Evaluate checks the mean of each metric result against every guideline that
// applies to route. Guidelines on metrics without a result are skipped.
func (gs Guidelines) Evaluate(route string, results map[Metric]*Result) []Verdict {
	verdicts := make([]Verdict, 0, len(gs))
	for _, g := range gs {
		if !g.AppliesTo(route) {
			continue
		}
		res, ok := results[g.Metric]
		if !ok || res == nil {
			continue
		}
		value := res.Statistics.Mean
		verdicts = append(verdicts, Verdict{
			Guideline:      g.Name,
			Metric:         g.Metric,
			Threshold:      g.Threshold,
			Value:          value,
			Ratio:          value / g.Threshold,
			Classification: Classify(value, g.Threshold),
		})
	}
	return verdicts
}
