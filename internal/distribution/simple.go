package distribution

import (
	"math"
	"math/rand/v2"

	"goqmra/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// Constant always returns Value. Used for fixed exposure volumes.
type Constant struct {
	Value float64
}

// NewConstant validates a constant distribution
func NewConstant(value float64) (Constant, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Constant{}, core.NewConfigurationError("constant.value", "must be finite")
	}
	return Constant{Value: value}, nil
}

func (c Constant) Kind() Kind                     { return KindConstant }
func (c Constant) Rand(_ *rand.Rand) float64      { return c.Value }
func (c Constant) Bounds() (lower, upper float64) { return c.Value, c.Value }

// Uniform samples evenly on [Min, Max].
type Uniform struct {
	dist distuv.Uniform
}

// NewUniform validates a uniform distribution
func NewUniform(min, max float64) (Uniform, error) {
	if err := validBounds("uniform", min, max); err != nil {
		return Uniform{}, err
	}
	return Uniform{dist: distuv.Uniform{Min: min, Max: max}}, nil
}

func (u Uniform) Kind() Kind { return KindUniform }

func (u Uniform) Rand(rng *rand.Rand) float64 {
	return u.dist.Quantile(rng.Float64())
}

func (u Uniform) Bounds() (lower, upper float64) { return u.dist.Min, u.dist.Max }

// Triangular samples a triangle distribution on [Min, Max] peaking at Mode.
type Triangular struct {
	Min, Mode, Max float64
	dist           distuv.Triangle
}

// NewTriangular validates a triangular distribution
func NewTriangular(min, mode, max float64) (Triangular, error) {
	if err := validBounds("triangular", min, max); err != nil {
		return Triangular{}, err
	}
	if mode < min || mode > max {
		return Triangular{}, core.NewConfigurationError("triangular.mode", "must lie within [min, max]")
	}
	return Triangular{
		Min:  min,
		Mode: mode,
		Max:  max,
		dist: distuv.NewTriangle(min, max, mode, nil),
	}, nil
}

func (t Triangular) Kind() Kind { return KindTriangular }

func (t Triangular) Rand(rng *rand.Rand) float64 {
	return clip(t.dist.Quantile(rng.Float64()), t.Min, t.Max)
}

func (t Triangular) Bounds() (lower, upper float64) { return t.Min, t.Max }
