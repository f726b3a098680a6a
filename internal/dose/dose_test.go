package dose

import (
	"math"
	"math/rand/v2"
	"testing"

	"goqmra/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoseUnitConversion(t *testing.T) {
	c := Default()
	// 500 organisms/L in 100 mL
	assert.InDelta(t, 50, c.Dose(500, 100), 1e-12)
}

func TestDosesBroadcastsSingleConcentration(t *testing.T) {
	c := Default()
	doses, err := c.Doses([]float64{2000}, []float64{10, 20, 30}, nil, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{20, 40, 60}, doses, 1e-12)
}

func TestDosesPairwise(t *testing.T) {
	c := Default()
	doses, err := c.Doses([]float64{1000, 2000}, []float64{1, 2}, nil, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 4}, doses, 1e-12)

	_, err = c.Doses([]float64{1, 2}, []float64{1, 2, 3}, nil, nil)
	assert.True(t, core.IsValidationError(err))
}

func TestNegativeConcentrationFloored(t *testing.T) {
	diag := core.NewDiagnostics()
	doses, err := Default().Doses([]float64{-5, 1000}, []float64{1, 1}, nil, diag)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, doses)
	assert.Equal(t, 1, diag.Count(core.WarningConcentrationFloored))
}

func TestInvalidUnitConversion(t *testing.T) {
	_, err := Calculator{UnitConversion: 0}.Doses([]float64{1}, []float64{1}, nil, nil)
	assert.True(t, core.IsConfigurationError(err))
}

func TestDiscretize(t *testing.T) {
	assert.Equal(t, 3.0, Discretize(2.25, 0.1))
	assert.Equal(t, 2.0, Discretize(2.25, 0.5))
	assert.Equal(t, 4.0, Discretize(4, 0))
	assert.True(t, math.IsNaN(Discretize(math.NaN(), 0.1)))
}

func TestDiscretizedDosesAreWholeAndUnbiased(t *testing.T) {
	c := Calculator{UnitConversion: MillilitresPerLitre, Discretize: true}
	volumes := make([]float64, 50000)
	for i := range volumes {
		volumes[i] = 1
	}
	rng := rand.New(rand.NewPCG(1, 2))
	doses, err := c.Doses([]float64{1300}, volumes, rng, nil)
	require.NoError(t, err)

	var sum float64
	for _, d := range doses {
		require.True(t, d == 1 || d == 2, "dose %g", d)
		sum += d
	}
	assert.InDelta(t, 1.3, sum/float64(len(doses)), 0.01)

	_, err = c.Doses([]float64{1}, []float64{1}, nil, nil)
	assert.True(t, core.IsPreconditionError(err))
}
