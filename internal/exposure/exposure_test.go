package exposure

import (
	"testing"

	"goqmra/domain/core"
	"goqmra/internal/distribution"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRouteSynonyms(t *testing.T) {
	cases := map[string]Route{
		"swim":            RoutePrimaryContact,
		"Swimming":        RoutePrimaryContact,
		"primary-contact": RoutePrimaryContact,
		"oysters":         RouteShellfish,
		"drinking water":  RouteDrinkingWater,
		"inhalation":      RouteAerosol,
	}
	for name, want := range cases {
		got, err := ParseRoute(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestParseRouteUnknownListsAccepted(t *testing.T) {
	_, err := ParseRoute("skydiving")
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "primary_contact")
	assert.Contains(t, err.Error(), "shellfish")
}

func TestSwimmingVolumesWithinBounds(t *testing.T) {
	calc, err := NewVolumeCalculator(RoutePrimaryContact, Params{})
	require.NoError(t, err)
	assert.Equal(t, RoutePrimaryContact, calc.Route())

	// ingestion [5,200] mL/h times duration [0.2,4] h
	volumes := calc.Volumes(20000, distribution.NewRand(42))
	for _, v := range volumes {
		assert.GreaterOrEqual(t, v, 1.0-1e-9)
		assert.LessOrEqual(t, v, 800.0+1e-9)
	}
}

func TestShellfishVolumesWithinBounds(t *testing.T) {
	calc, err := NewVolumeCalculator(RouteShellfish, Params{})
	require.NoError(t, err)

	lower, upper := calc.Bounds()
	assert.InDelta(t, 5.0, lower, 1e-9)
	assert.InDelta(t, 80000.0, upper, 1e-9)

	volumes := calc.Volumes(20000, distribution.NewRand(7))
	for _, v := range volumes {
		assert.GreaterOrEqual(t, v, lower-1e-9)
		assert.LessOrEqual(t, v, upper+1e-9)
	}
}

func TestFixedVolumeRoutes(t *testing.T) {
	drinking, err := NewVolumeCalculator(RouteDrinkingWater, Params{})
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 1000}, drinking.Volumes(2, distribution.NewRand(1)))

	aerosol, err := NewVolumeCalculator(RouteAerosol, Params{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.01}, aerosol.Volumes(1, distribution.NewRand(1)))

	custom, err := NewVolumeCalculator(RouteDrinkingWater, Params{Fixed: &FixedVolumeParams{VolumeML: 2000}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2000}, custom.Volumes(1, distribution.NewRand(1)))
}

func TestMismatchedParamsRejected(t *testing.T) {
	swim := DefaultSwimmingParams()
	_, err := NewVolumeCalculator(RouteShellfish, Params{Swimming: &swim})
	assert.True(t, core.IsConfigurationError(err))

	shell := DefaultShellfishParams()
	_, err = NewVolumeCalculator(RouteDrinkingWater, Params{Shellfish: &shell})
	assert.True(t, core.IsConfigurationError(err))
}

func TestInvalidSwimmingParams(t *testing.T) {
	p := DefaultSwimmingParams()
	p.DurationMode = 10
	_, err := NewVolumeCalculator(RoutePrimaryContact, Params{Swimming: &p})
	assert.True(t, core.IsConfigurationError(err))
}

func TestCalculateDoseRequiresConcentration(t *testing.T) {
	a, err := NewAssessment(RouteDrinkingWater, Params{})
	require.NoError(t, err)

	_, err = a.CalculateDose(10, distribution.NewRand(1), nil)
	require.Error(t, err)
	assert.True(t, core.IsPreconditionError(err))
}

func TestCalculateDose(t *testing.T) {
	a, err := NewAssessment(RouteDrinkingWater, Params{})
	require.NoError(t, err)
	require.NoError(t, a.SetConcentration(10))

	// 10 organisms/L in 1 L
	doses, err := a.CalculateDose(3, distribution.NewRand(1), nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 10, 10}, doses, 1e-12)
}

func TestCalculateDosePerDrawConcentrations(t *testing.T) {
	a, err := NewAssessment(RouteAerosol, Params{})
	require.NoError(t, err)
	require.NoError(t, a.SetConcentrations([]float64{1e5, 2e5}))

	doses, err := a.CalculateDose(2, distribution.NewRand(1), nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, doses, 1e-9)
}

func TestSetConcentrationRejectsNegative(t *testing.T) {
	a, err := NewAssessment(RouteAerosol, Params{})
	require.NoError(t, err)
	assert.True(t, core.IsValidationError(a.SetConcentration(-1)))
	assert.False(t, a.HasConcentration())
}

func TestCalculateDoseIsReproducible(t *testing.T) {
	a, err := NewAssessment(RoutePrimaryContact, Params{})
	require.NoError(t, err)
	require.NoError(t, a.SetConcentration(500))

	first, err := a.CalculateDose(100, distribution.NewRand(99), nil)
	require.NoError(t, err)
	second, err := a.CalculateDose(100, distribution.NewRand(99), nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
