package risk

import (
	"gonum.org/v1/gonum/floats"

	"goqmra/domain/core"
	"goqmra/internal/montecarlo"
)

// Metric tags what a risk result measures.
type Metric string

const (
	MetricInfection       Metric = "infection_probability"
	MetricIllness         Metric = "illness_probability"
	MetricAnnualInfection Metric = "annual_infection_risk"
	MetricAnnualIllness   Metric = "annual_illness_risk"
	MetricDALYs           Metric = "dalys"
)

// Metrics lists every metric in reporting order.
func Metrics() []Metric {
	return []Metric{MetricInfection, MetricIllness, MetricAnnualInfection, MetricAnnualIllness, MetricDALYs}
}

// PopulationImpact scales individual risk to a population. Bands apply the
// same multiply to each percentile of the individual distribution; case
// counts are not re-simulated per person.
type PopulationImpact struct {
	Population    int             `json:"population"`
	ExpectedCases float64         `json:"expected_cases"`
	Bands         map[int]float64 `json:"bands"`
}

// NewPopulationImpact computes expected cases and percentile bands.
func NewPopulationImpact(s montecarlo.Statistics, population int) (*PopulationImpact, error) {
	if population <= 0 {
		return nil, core.NewValidationError("population", "must be > 0")
	}
	ps := montecarlo.ReportedPercentiles
	bands := make([]float64, len(ps))
	for i, p := range ps {
		bands[i] = s.Percentile(p)
	}
	floats.Scale(float64(population), bands)

	impact := &PopulationImpact{
		Population:    population,
		ExpectedCases: s.Mean * float64(population),
		Bands:         make(map[int]float64, len(ps)),
	}
	for i, p := range ps {
		impact.Bands[p] = bands[i]
	}
	return impact, nil
}

// Result is one risk metric for one pathogen: the individual outcomes, their
// summary and, when a population was given, the population aggregate.
type Result struct {
	Pathogen   string                `json:"pathogen"`
	Metric     Metric                `json:"metric"`
	Values     []float64             `json:"values,omitempty"`
	Filtered   int                   `json:"filtered"`
	Statistics montecarlo.Statistics `json:"statistics"`
	Population *PopulationImpact     `json:"population,omitempty"`
}

// NewResult summarises values. population <= 0 omits the population
// aggregate.
func NewResult(pathogen string, metric Metric, values []float64, seed int64, population int) (*Result, error) {
	mc, err := montecarlo.NewResult(values, seed)
	if err != nil {
		return nil, err
	}
	return FromMonteCarlo(pathogen, metric, mc, population)
}

// FromMonteCarlo wraps an existing simulation result.
func FromMonteCarlo(pathogen string, metric Metric, mc *montecarlo.Result, population int) (*Result, error) {
	res := &Result{
		Pathogen:   pathogen,
		Metric:     metric,
		Values:     mc.Values,
		Filtered:   mc.Filtered,
		Statistics: mc.Statistics,
	}
	if population > 0 {
		impact, err := NewPopulationImpact(mc.Statistics, population)
		if err != nil {
			return nil, err
		}
		res.Population = impact
	}
	return res, nil
}
