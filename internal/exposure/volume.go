package exposure

import (
	"math/rand/v2"

	"goqmra/domain/core"
	"goqmra/internal/distribution"
)

// ShellfishParams describe water-equivalent exposure from one shellfish meal:
// meal size (grams, truncated log-logistic on the log10 scale) times the
// bioaccumulation factor (truncated normal).
type ShellfishParams struct {
	MealAlpha float64 `json:"meal_alpha"`
	MealBeta  float64 `json:"meal_beta"`
	MealGamma float64 `json:"meal_gamma"`
	MealMin   float64 `json:"meal_min_g"`
	MealMax   float64 `json:"meal_max_g"`
	MealLog10 bool    `json:"meal_log10"`

	BAFMean float64 `json:"baf_mean"`
	BAFSD   float64 `json:"baf_sd"`
	BAFMin  float64 `json:"baf_min"`
	BAFMax  float64 `json:"baf_max"`
}

// DefaultShellfishParams returns the literature-derived defaults.
func DefaultShellfishParams() ShellfishParams {
	return ShellfishParams{
		// meal size log-logistic fit, grams (McBride 2017)
		MealAlpha: 2.2046,
		MealBeta:  75.072,
		MealGamma: -0.9032,
		MealMin:   5,
		MealMax:   800,
		MealLog10: true,
		// oyster bioaccumulation factor
		BAFMean: 44.9,
		BAFSD:   20.93,
		BAFMin:  1,
		BAFMax:  100,
	}
}

// SwimmingParams describe volume ingested during primary contact: ingestion
// rate (mL/h, lognormal by method of moments) times duration (h, triangular).
type SwimmingParams struct {
	IngestionMean float64 `json:"ingestion_mean_ml_h"`
	IngestionSD   float64 `json:"ingestion_sd_ml_h"`
	IngestionMin  float64 `json:"ingestion_min_ml_h"`
	IngestionMax  float64 `json:"ingestion_max_ml_h"`

	DurationMin  float64 `json:"duration_min_h"`
	DurationMode float64 `json:"duration_mode_h"`
	DurationMax  float64 `json:"duration_max_h"`
}

// DefaultSwimmingParams returns the literature-derived defaults.
func DefaultSwimmingParams() SwimmingParams {
	return SwimmingParams{
		// Dufour et al. swimmer ingestion rates
		IngestionMean: 53,
		IngestionSD:   75,
		IngestionMin:  5,
		IngestionMax:  200,
		DurationMin:   0.2,
		DurationMode:  1.0,
		DurationMax:   4.0,
	}
}

// FixedVolumeParams is a constant volume per exposure event, in mL.
type FixedVolumeParams struct {
	VolumeML float64 `json:"volume_ml"`
}

// DefaultDrinkingWaterParams assumes 1 L of unboiled tap water per day (WHO).
func DefaultDrinkingWaterParams() FixedVolumeParams {
	return FixedVolumeParams{VolumeML: 1000}
}

// DefaultAerosolParams assumes 0.01 mL of water inhaled or swallowed from
// spray per event.
func DefaultAerosolParams() FixedVolumeParams {
	return FixedVolumeParams{VolumeML: 0.01}
}

// Params carries the parameter record for exactly one route. A nil record
// means the route's defaults.
type Params struct {
	Shellfish *ShellfishParams   `json:"shellfish,omitempty"`
	Swimming  *SwimmingParams    `json:"swimming,omitempty"`
	Fixed     *FixedVolumeParams `json:"fixed,omitempty"`
}

// VolumeCalculator draws per-person exposure volumes (mL, or mL-equivalent
// for shellfish). It is a distribution so the Monte Carlo engine can draw it
// like any other named input.
type VolumeCalculator interface {
	distribution.Distribution
	Route() Route
	Volumes(n int, rng *rand.Rand) []float64
}

type volumeCalculator struct {
	distribution.Distribution
	route Route
}

func (c volumeCalculator) Route() Route { return c.route }

func (c volumeCalculator) Volumes(n int, rng *rand.Rand) []float64 {
	return distribution.Sample(c.Distribution, n, rng)
}

// NewVolumeCalculator validates the parameters for route and returns its
// calculator. Supplying a parameter record for a different route is a
// configuration error.
func NewVolumeCalculator(route Route, params Params) (VolumeCalculator, error) {
	switch route {
	case RouteShellfish:
		if params.Swimming != nil || params.Fixed != nil {
			return nil, mismatched(route)
		}
		p := DefaultShellfishParams()
		if params.Shellfish != nil {
			p = *params.Shellfish
		}
		return newShellfish(p)
	case RoutePrimaryContact:
		if params.Shellfish != nil || params.Fixed != nil {
			return nil, mismatched(route)
		}
		p := DefaultSwimmingParams()
		if params.Swimming != nil {
			p = *params.Swimming
		}
		return newSwimming(p)
	case RouteDrinkingWater, RouteAerosol:
		if params.Shellfish != nil || params.Swimming != nil {
			return nil, mismatched(route)
		}
		p := DefaultDrinkingWaterParams()
		if route == RouteAerosol {
			p = DefaultAerosolParams()
		}
		if params.Fixed != nil {
			p = *params.Fixed
		}
		return newFixed(route, p)
	}
	return nil, core.NewConfigurationError("exposure.route", "unsupported route \""+string(route)+"\"")
}

// NewVolumeCalculatorForName parses a route name first.
func NewVolumeCalculatorForName(name string, params Params) (VolumeCalculator, error) {
	route, err := ParseRoute(name)
	if err != nil {
		return nil, err
	}
	return NewVolumeCalculator(route, params)
}

func newShellfish(p ShellfishParams) (VolumeCalculator, error) {
	meal, err := distribution.NewTruncatedLogLogistic(p.MealAlpha, p.MealBeta, p.MealGamma, p.MealMin, p.MealMax, p.MealLog10)
	if err != nil {
		return nil, err
	}
	baf, err := distribution.NewTruncatedNormal(p.BAFMean, p.BAFSD, p.BAFMin, p.BAFMax)
	if err != nil {
		return nil, err
	}
	product, err := distribution.NewProduct(meal, baf)
	if err != nil {
		return nil, err
	}
	return volumeCalculator{Distribution: product, route: RouteShellfish}, nil
}

func newSwimming(p SwimmingParams) (VolumeCalculator, error) {
	rate, err := distribution.NewLognormalFromMoments(p.IngestionMean, p.IngestionSD, p.IngestionMin, p.IngestionMax)
	if err != nil {
		return nil, err
	}
	duration, err := distribution.NewTriangular(p.DurationMin, p.DurationMode, p.DurationMax)
	if err != nil {
		return nil, err
	}
	product, err := distribution.NewProduct(rate, duration)
	if err != nil {
		return nil, err
	}
	return volumeCalculator{Distribution: product, route: RoutePrimaryContact}, nil
}

func newFixed(route Route, p FixedVolumeParams) (VolumeCalculator, error) {
	if !(p.VolumeML >= 0) {
		return nil, core.NewConfigurationError("exposure.volume_ml", "must be >= 0")
	}
	c, err := distribution.NewConstant(p.VolumeML)
	if err != nil {
		return nil, err
	}
	return volumeCalculator{Distribution: c, route: route}, nil
}

func mismatched(route Route) error {
	return core.NewConfigurationError("exposure.params", "parameters supplied for a route other than "+string(route))
}
