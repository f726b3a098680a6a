package distribution

import (
	"math"

	"goqmra/domain/core"
)

// Spec is the boundary record for a distribution read from external
// configuration. Only the fields relevant to Kind are consulted; FromSpec
// turns it into a validated Distribution before any sampling happens.
type Spec struct {
	Kind Kind `json:"kind"`

	Value float64 `json:"value,omitempty"` // constant

	Mean float64 `json:"mean,omitempty"` // truncated_normal; lognormal when Mu is nil
	SD   float64 `json:"sd,omitempty"`

	Mu    *float64 `json:"mu,omitempty"` // lognormal log-space
	Sigma float64  `json:"sigma,omitempty"`

	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Mode   float64  `json:"mode,omitempty"`   // triangular
	Median float64  `json:"median,omitempty"` // hockey_stick
	P95    float64  `json:"p95,omitempty"`    // hockey_stick, optional

	Alpha float64 `json:"alpha,omitempty"` // log-logistic
	Beta  float64 `json:"beta,omitempty"`
	Gamma float64 `json:"gamma,omitempty"`
	Log10 bool    `json:"log10,omitempty"`

	Points []Point   `json:"points,omitempty"` // empirical_cdf knots
	Data   []float64 `json:"data,omitempty"`   // empirical_cdf observations
}

// Float returns a pointer to v, for filling optional Spec bounds.
func Float(v float64) *float64 {
	return &v
}

// FromSpec validates spec and returns the matching distribution.
func FromSpec(spec Spec) (Distribution, error) {
	kind, err := ParseKind(string(spec.Kind))
	if err != nil {
		return nil, err
	}

	lower, upper := math.Inf(-1), math.Inf(1)
	if spec.Min != nil {
		lower = *spec.Min
	}
	if spec.Max != nil {
		upper = *spec.Max
	}

	switch kind {
	case KindConstant:
		return NewConstant(spec.Value)
	case KindUniform:
		if err := requireBounds(kind, spec); err != nil {
			return nil, err
		}
		return NewUniform(lower, upper)
	case KindTriangular:
		if err := requireBounds(kind, spec); err != nil {
			return nil, err
		}
		return NewTriangular(lower, spec.Mode, upper)
	case KindTruncatedNormal:
		return NewTruncatedNormal(spec.Mean, spec.SD, lower, upper)
	case KindLognormal:
		if spec.Min == nil {
			lower = 0
		}
		if spec.Mu != nil {
			return NewLognormal(*spec.Mu, spec.Sigma, lower, upper)
		}
		return NewLognormalFromMoments(spec.Mean, spec.SD, lower, upper)
	case KindTruncatedLogLogistic:
		if err := requireBounds(kind, spec); err != nil {
			return nil, err
		}
		return NewTruncatedLogLogistic(spec.Alpha, spec.Beta, spec.Gamma, lower, upper, spec.Log10)
	case KindEmpiricalCDF:
		if len(spec.Data) > 0 {
			return NewEmpiricalFromData(spec.Data)
		}
		return NewEmpiricalCDF(spec.Points)
	case KindHockeyStick:
		if err := requireBounds(kind, spec); err != nil {
			return nil, err
		}
		return NewHockeyStick(lower, spec.Median, upper, spec.P95)
	}
	return nil, core.NewConfigurationError("distribution.kind", "unsupported distribution "+quote(string(kind)))
}

// SampleSpec validates spec and draws n seeded samples from it.
func SampleSpec(spec Spec, n int, seed int64) ([]float64, error) {
	d, err := FromSpec(spec)
	if err != nil {
		return nil, err
	}
	return SampleSeeded(d, n, seed), nil
}

func requireBounds(kind Kind, spec Spec) error {
	if spec.Min == nil || spec.Max == nil {
		return core.NewConfigurationError(string(kind), "min and max are required")
	}
	return nil
}
