package distribution

import (
	"math/rand/v2"

	"goqmra/domain/core"
)

// Product draws each factor once and multiplies the draws, e.g. meal size
// times bioaccumulation factor. Factors are drawn in order from the same
// generator.
type Product struct {
	factors []Distribution
}

// NewProduct requires at least one factor. All factors must have
// non-negative support.
func NewProduct(factors ...Distribution) (Product, error) {
	if len(factors) == 0 {
		return Product{}, core.NewConfigurationError("product", "needs at least one factor")
	}
	for _, f := range factors {
		if lo, _ := f.Bounds(); lo < 0 {
			return Product{}, core.NewConfigurationError("product", "factors must be non-negative")
		}
	}
	return Product{factors: append([]Distribution(nil), factors...)}, nil
}

func (p Product) Kind() Kind { return KindProduct }

func (p Product) Rand(rng *rand.Rand) float64 {
	v := 1.0
	for _, f := range p.factors {
		v *= f.Rand(rng)
	}
	return v
}

func (p Product) Bounds() (lower, upper float64) {
	lower, upper = 1, 1
	for _, f := range p.factors {
		lo, hi := f.Bounds()
		lower *= lo
		upper *= hi
	}
	return lower, upper
}
