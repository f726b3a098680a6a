// Package distribution generates Monte Carlo samples from the parametric and
// empirical distributions used for exposure and concentration inputs.
//
// Every distribution draws from an explicitly supplied *rand.Rand and consumes
// exactly one uniform variate per sample, so a stream drawn one value at a time
// and the same stream drawn n values at once produce identical samples.
package distribution

import (
	"math"
	"math/rand/v2"
	"strings"

	"goqmra/domain/core"
)

// Kind identifies a distribution family.
type Kind string

const (
	KindConstant             Kind = "constant"
	KindUniform              Kind = "uniform"
	KindTriangular           Kind = "triangular"
	KindTruncatedNormal      Kind = "truncated_normal"
	KindLognormal            Kind = "lognormal"
	KindTruncatedLogLogistic Kind = "truncated_log_logistic"
	KindEmpiricalCDF         Kind = "empirical_cdf"
	KindHockeyStick          Kind = "hockey_stick"

	// KindProduct is a derived variate, the product of independent factors.
	// It has no Spec form; exposure calculators build it in code.
	KindProduct Kind = "product"
)

var kindSynonyms = map[string]Kind{
	"constant":               KindConstant,
	"fixed":                  KindConstant,
	"uniform":                KindUniform,
	"triangular":             KindTriangular,
	"pert":                   KindTriangular,
	"normal":                 KindTruncatedNormal,
	"truncated_normal":       KindTruncatedNormal,
	"lognormal":              KindLognormal,
	"log_normal":             KindLognormal,
	"truncated_lognormal":    KindLognormal,
	"log_logistic":           KindTruncatedLogLogistic,
	"loglogistic":            KindTruncatedLogLogistic,
	"truncated_log_logistic": KindTruncatedLogLogistic,
	"empirical":              KindEmpiricalCDF,
	"empirical_cdf":          KindEmpiricalCDF,
	"hockey_stick":           KindHockeyStick,
	"hockeystick":            KindHockeyStick,
}

// ParseKind maps a user-facing name onto a Kind. Matching ignores case and
// treats spaces and hyphens as underscores.
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if k, ok := kindSynonyms[key]; ok {
		return k, nil
	}
	return "", core.NewConfigurationError("distribution.kind", "unknown distribution "+quote(name)+" (accepted: "+strings.Join(KindNames(), ", ")+")")
}

// KindNames lists the canonical kind names.
func KindNames() []string {
	return []string{
		string(KindConstant), string(KindUniform), string(KindTriangular),
		string(KindTruncatedNormal), string(KindLognormal), string(KindTruncatedLogLogistic),
		string(KindEmpiricalCDF), string(KindHockeyStick),
	}
}

// Distribution is a named sampling contract. Rand returns one value within
// Bounds.
type Distribution interface {
	Kind() Kind
	Rand(rng *rand.Rand) float64
	Bounds() (lower, upper float64)
}

// Sample draws n values from d.
func Sample(d Distribution, n int, rng *rand.Rand) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Rand(rng)
	}
	return out
}

// SampleSeeded draws n values from d using a fresh generator seeded with seed.
func SampleSeeded(d Distribution, n int, seed int64) []float64 {
	return Sample(d, n, NewRand(seed))
}

// NewRand returns a PCG generator for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// openUnit returns a uniform variate in (0, 1).
func openUnit(rng *rand.Rand) float64 {
	for {
		if u := rng.Float64(); u > 0 {
			return u
		}
	}
}

func clip(x, lower, upper float64) float64 {
	if x < lower {
		return lower
	}
	if x > upper {
		return upper
	}
	return x
}

func validBounds(field string, lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) {
		return core.NewConfigurationError(field, "bounds must be numbers")
	}
	if lower >= upper {
		return core.NewConfigurationError(field, "lower bound must be below upper bound")
	}
	return nil
}

func quote(s string) string {
	return "\"" + s + "\""
}
