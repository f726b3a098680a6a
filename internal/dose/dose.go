// Package dose turns a pathogen concentration and an exposure volume into a
// dose in organisms.
package dose

import (
	"math"
	"math/rand/v2"

	"goqmra/domain/core"
)

// MillilitresPerLitre converts concentrations per litre against volumes in mL.
const MillilitresPerLitre = 1000.0

// Calculator computes dose = concentration * volume / UnitConversion.
//
// Discretize is opt-in: it replaces a fractional dose d by
// floor(d) + Bernoulli(frac(d)) to model whole organisms, reproducing the
// stochastic rounding of the reference spreadsheet calculation. It is off by
// default for continuous-dose models.
type Calculator struct {
	UnitConversion float64 `json:"unit_conversion"`
	Discretize     bool    `json:"discretize"`
}

// Default returns a continuous calculator for organisms/L against mL volumes.
func Default() Calculator {
	return Calculator{UnitConversion: MillilitresPerLitre}
}

// Validate checks the unit conversion factor.
func (c Calculator) Validate() error {
	if !(c.UnitConversion > 0) || math.IsInf(c.UnitConversion, 1) {
		return core.NewConfigurationError("dose.unit_conversion", "must be a finite value > 0")
	}
	return nil
}

// Dose returns the continuous dose for one concentration/volume pair.
func (c Calculator) Dose(concentration, volume float64) float64 {
	return concentration * volume / c.UnitConversion
}

// Doses computes one dose per volume. concentrations holds either a single
// value applied to every volume or one value per volume. Negative
// concentrations are floored at zero and reported. rng is consulted only
// when Discretize is set.
func (c Calculator) Doses(concentrations, volumes []float64, rng *rand.Rand, diag *core.Diagnostics) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(concentrations) != 1 && len(concentrations) != len(volumes) {
		return nil, core.NewValidationError("concentrations", "must hold one value or one value per volume")
	}
	if c.Discretize && rng == nil {
		return nil, core.NewPreconditionError("dose.discretize", "a random generator is required")
	}

	out := make([]float64, len(volumes))
	floored := 0
	for i, v := range volumes {
		conc := concentrations[0]
		if len(concentrations) > 1 {
			conc = concentrations[i]
		}
		if conc < 0 {
			conc = 0
			floored++
		}
		d := c.Dose(conc, v)
		if c.Discretize {
			d = Discretize(d, rng.Float64())
		}
		out[i] = d
	}
	diag.WarnN(core.WarningConcentrationFloored, floored, "negative concentration floored at 0")
	return out, nil
}

// Discretize splits a dose into floor(dose) + Bernoulli(frac(dose)) using the
// uniform variate u in [0,1). Non-finite and negative doses pass through.
func Discretize(dose, u float64) float64 {
	if math.IsNaN(dose) || math.IsInf(dose, 0) || dose < 0 {
		return dose
	}
	whole, frac := math.Modf(dose)
	if u < frac {
		return whole + 1
	}
	return whole
}
