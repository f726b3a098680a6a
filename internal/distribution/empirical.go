package distribution

import (
	"math"
	"math/rand/v2"
	"sort"

	"goqmra/domain/core"
)

// Point is one knot of a piecewise-linear CDF.
type Point struct {
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
}

// EmpiricalCDF samples by inverting a piecewise-linear CDF through its knots.
type EmpiricalCDF struct {
	kind   Kind
	values []float64
	probs  []float64
}

// NewEmpiricalCDF validates the knots: at least two, probabilities rising from
// 0 to 1, values non-decreasing.
func NewEmpiricalCDF(points []Point) (EmpiricalCDF, error) {
	return newEmpirical(KindEmpiricalCDF, points)
}

func newEmpirical(kind Kind, points []Point) (EmpiricalCDF, error) {
	if len(points) < 2 {
		return EmpiricalCDF{}, core.NewConfigurationError(string(kind), "needs at least two knots")
	}
	e := EmpiricalCDF{
		kind:   kind,
		values: make([]float64, len(points)),
		probs:  make([]float64, len(points)),
	}
	for i, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return EmpiricalCDF{}, core.NewConfigurationError(string(kind), "knot values must be finite")
		}
		if i > 0 {
			if p.Probability <= points[i-1].Probability {
				return EmpiricalCDF{}, core.NewConfigurationError(string(kind), "knot probabilities must strictly increase")
			}
			if p.Value < points[i-1].Value {
				return EmpiricalCDF{}, core.NewConfigurationError(string(kind), "knot values must not decrease")
			}
		}
		e.values[i] = p.Value
		e.probs[i] = p.Probability
	}
	if e.probs[0] != 0 || e.probs[len(e.probs)-1] != 1 {
		return EmpiricalCDF{}, core.NewConfigurationError(string(kind), "knot probabilities must start at 0 and end at 1")
	}
	if e.values[0] >= e.values[len(e.values)-1] {
		return EmpiricalCDF{}, core.NewConfigurationError(string(kind), "lower bound must be below upper bound")
	}
	return e, nil
}

// NewEmpiricalFromData builds the CDF of observed values, spacing the sorted
// observations evenly in probability.
func NewEmpiricalFromData(data []float64) (EmpiricalCDF, error) {
	if len(data) < 2 {
		return EmpiricalCDF{}, core.NewConfigurationError("empirical_cdf.data", "needs at least two observations")
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	points := make([]Point, len(sorted))
	last := float64(len(sorted) - 1)
	for i, v := range sorted {
		points[i] = Point{Value: v, Probability: float64(i) / last}
	}
	return newEmpirical(KindEmpiricalCDF, points)
}

// NewHockeyStick builds the two-segment CDF used for strongly right-skewed
// environmental concentrations from (min, median, max) alone: F rises linearly
// to 0.5 at the median, then more slowly to 1 at the max. A p95 > 0 adds a
// third breakpoint at F = 0.95.
func NewHockeyStick(min, median, max, p95 float64) (EmpiricalCDF, error) {
	if err := validBounds(string(KindHockeyStick), min, max); err != nil {
		return EmpiricalCDF{}, err
	}
	if median <= min || median >= max {
		return EmpiricalCDF{}, core.NewConfigurationError("hockey_stick.median", "must lie strictly between min and max")
	}
	points := []Point{{Value: min, Probability: 0}, {Value: median, Probability: 0.5}}
	if p95 > 0 {
		if p95 <= median || p95 >= max {
			return EmpiricalCDF{}, core.NewConfigurationError("hockey_stick.p95", "must lie strictly between median and max")
		}
		points = append(points, Point{Value: p95, Probability: 0.95})
	}
	points = append(points, Point{Value: max, Probability: 1})
	return newEmpirical(KindHockeyStick, points)
}

// Quantile inverts the piecewise-linear CDF at p.
func (e EmpiricalCDF) Quantile(p float64) float64 {
	if p <= 0 {
		return e.values[0]
	}
	if p >= 1 {
		return e.values[len(e.values)-1]
	}
	i := sort.SearchFloat64s(e.probs, p)
	lo, hi := i-1, i
	frac := (p - e.probs[lo]) / (e.probs[hi] - e.probs[lo])
	return e.values[lo] + frac*(e.values[hi]-e.values[lo])
}

func (e EmpiricalCDF) Kind() Kind { return e.kind }

func (e EmpiricalCDF) Rand(rng *rand.Rand) float64 {
	return e.Quantile(rng.Float64())
}

func (e EmpiricalCDF) Bounds() (lower, upper float64) {
	return e.values[0], e.values[len(e.values)-1]
}
