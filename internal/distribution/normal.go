package distribution

import (
	"math"
	"math/rand/v2"

	"goqmra/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// TruncatedNormal is a normal distribution restricted to [Lower, Upper].
// Infinite bounds are allowed.
type TruncatedNormal struct {
	Mean, SD     float64
	Lower, Upper float64

	// sampling window in CDF space; reflected when the window sits in the
	// upper tail so both ends keep full precision
	cdfLo, cdfHi float64
	reflected    bool
}

// NewTruncatedNormal standardizes the bounds to z-space once so sampling is a
// single quantile evaluation per draw.
func NewTruncatedNormal(mean, sd, lower, upper float64) (TruncatedNormal, error) {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return TruncatedNormal{}, core.NewConfigurationError("truncated_normal.mean", "must be finite")
	}
	if sd < 0 || math.IsNaN(sd) {
		return TruncatedNormal{}, core.NewConfigurationError("truncated_normal.sd", "must be >= 0")
	}
	if err := validBounds("truncated_normal", lower, upper); err != nil {
		return TruncatedNormal{}, err
	}

	tn := TruncatedNormal{Mean: mean, SD: sd, Lower: lower, Upper: upper}
	if sd == 0 {
		return tn, nil
	}

	zLo := (lower - mean) / sd
	zHi := (upper - mean) / sd
	if zLo > 0 {
		tn.reflected = true
		zLo, zHi = -zHi, -zLo
	}
	tn.cdfLo = distuv.UnitNormal.CDF(zLo)
	tn.cdfHi = distuv.UnitNormal.CDF(zHi)
	if tn.cdfHi <= tn.cdfLo {
		return TruncatedNormal{}, core.NewConfigurationError("truncated_normal", "bounds carry no probability mass")
	}
	return tn, nil
}

func (t TruncatedNormal) Kind() Kind { return KindTruncatedNormal }

func (t TruncatedNormal) Rand(rng *rand.Rand) float64 {
	if t.SD == 0 {
		return clip(t.Mean, t.Lower, t.Upper)
	}
	u := t.cdfLo + (t.cdfHi-t.cdfLo)*openUnit(rng)
	z := distuv.UnitNormal.Quantile(u)
	if t.reflected {
		z = -z
	}
	return clip(t.Mean+t.SD*z, t.Lower, t.Upper)
}

func (t TruncatedNormal) Bounds() (lower, upper float64) { return t.Lower, t.Upper }

// Lognormal is a lognormal distribution with log-space parameters Mu and
// Sigma, optionally truncated to [Lower, Upper] with Lower >= 0.
type Lognormal struct {
	Mu, Sigma    float64
	Lower, Upper float64
	inner        TruncatedNormal
}

// NewLognormal builds a (truncated) lognormal from log-space parameters.
func NewLognormal(mu, sigma, lower, upper float64) (Lognormal, error) {
	if lower < 0 {
		return Lognormal{}, core.NewConfigurationError("lognormal.min", "must be >= 0")
	}
	if err := validBounds("lognormal", lower, upper); err != nil {
		return Lognormal{}, err
	}
	inner, err := NewTruncatedNormal(mu, sigma, math.Log(lower), math.Log(upper))
	if err != nil {
		return Lognormal{}, err
	}
	return Lognormal{Mu: mu, Sigma: sigma, Lower: lower, Upper: upper, inner: inner}, nil
}

// NewLognormalFromMoments converts an arithmetic mean and standard deviation
// to log-space parameters by the method of moments:
// sigma^2 = ln(1 + sd^2/mean^2), mu = ln(mean) - sigma^2/2.
func NewLognormalFromMoments(mean, sd, lower, upper float64) (Lognormal, error) {
	if mean <= 0 || math.IsNaN(mean) {
		return Lognormal{}, core.NewConfigurationError("lognormal.mean", "must be > 0")
	}
	if sd < 0 || math.IsNaN(sd) {
		return Lognormal{}, core.NewConfigurationError("lognormal.sd", "must be >= 0")
	}
	mu, sigma := LognormalParameters(mean, sd)
	return NewLognormal(mu, sigma, lower, upper)
}

// LognormalParameters returns the log-space (mu, sigma) matching an
// arithmetic mean and standard deviation.
func LognormalParameters(mean, sd float64) (mu, sigma float64) {
	variance := math.Log1p((sd * sd) / (mean * mean))
	return math.Log(mean) - variance/2, math.Sqrt(variance)
}

func (l Lognormal) Kind() Kind { return KindLognormal }

func (l Lognormal) Rand(rng *rand.Rand) float64 {
	return clip(math.Exp(l.inner.Rand(rng)), l.Lower, l.Upper)
}

func (l Lognormal) Bounds() (lower, upper float64) { return l.Lower, l.Upper }
