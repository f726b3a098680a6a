package exposure

import (
	"math"
	"math/rand/v2"

	"goqmra/domain/core"
	"goqmra/internal/dose"
)

// Assessment is a route-tagged exposure calculation. The pathogen
// concentration (organisms/L) is set externally and must be present before
// CalculateDose is called.
type Assessment struct {
	calculator     VolumeCalculator
	doseCalculator dose.Calculator
	concentrations []float64
}

// NewAssessment builds an assessment for route with a continuous dose
// calculator.
func NewAssessment(route Route, params Params) (*Assessment, error) {
	calc, err := NewVolumeCalculator(route, params)
	if err != nil {
		return nil, err
	}
	return &Assessment{calculator: calc, doseCalculator: dose.Default()}, nil
}

// Route returns the exposure route.
func (a *Assessment) Route() Route { return a.calculator.Route() }

// Calculator returns the volume calculator.
func (a *Assessment) Calculator() VolumeCalculator { return a.calculator }

// WithDoseCalculator replaces the dose calculator, e.g. to enable discretization.
func (a *Assessment) WithDoseCalculator(c dose.Calculator) error {
	if err := c.Validate(); err != nil {
		return err
	}
	a.doseCalculator = c
	return nil
}

// SetConcentration sets a single concentration applied to every draw.
func (a *Assessment) SetConcentration(c float64) error {
	return a.SetConcentrations([]float64{c})
}

// SetConcentrations sets one concentration per draw, e.g. post-treatment
// values from a Monte Carlo run.
func (a *Assessment) SetConcentrations(cs []float64) error {
	if len(cs) == 0 {
		return core.NewValidationError("concentration", "at least one value is required")
	}
	for _, c := range cs {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return core.NewValidationError("concentration", "must be a finite value >= 0")
		}
	}
	a.concentrations = append([]float64(nil), cs...)
	return nil
}

// HasConcentration reports whether a concentration was set.
func (a *Assessment) HasConcentration() bool {
	return len(a.concentrations) > 0
}

// CalculateDose draws n exposure volumes and converts them to doses.
func (a *Assessment) CalculateDose(n int, rng *rand.Rand, diag *core.Diagnostics) ([]float64, error) {
	if !a.HasConcentration() {
		return nil, core.NewPreconditionError("calculate_dose", "pathogen concentration has not been set")
	}
	if n <= 0 {
		return nil, core.NewValidationError("n_samples", "must be > 0")
	}
	if rng == nil {
		return nil, core.NewPreconditionError("calculate_dose", "a random generator is required")
	}
	volumes := a.calculator.Volumes(n, rng)
	return a.doseCalculator.Doses(a.concentrations, volumes, rng, diag)
}
