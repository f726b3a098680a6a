package doseresponse

import (
	"math"
	"testing"

	"goqmra/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allModels(t *testing.T) map[string]Model {
	t.Helper()
	bp, err := NewBetaPoisson(0.145, 7.59)
	require.NoError(t, err)
	ex, err := NewExponential(0.0042)
	require.NoError(t, err)
	bb, err := NewBetaBinomial(0.04, 0.055)
	require.NoError(t, err)
	hg, err := NewHypergeometric(0.253, 0.426)
	require.NoError(t, err)
	return map[string]Model{
		"beta_poisson":   bp,
		"exponential":    ex,
		"beta_binomial":  bb,
		"hypergeometric": hg,
	}
}

func doseGrid() []float64 {
	doses := []float64{0, 1e-6, 1e-3, 0.1, 0.5, 1}
	for d := 2.0; d <= 1e6; d *= 1.7 {
		doses = append(doses, d)
	}
	return append(doses, 1e6)
}

func TestMonotonicAndBounded(t *testing.T) {
	for name, m := range allModels(t) {
		t.Run(name, func(t *testing.T) {
			prev := -1.0
			for _, d := range doseGrid() {
				p := m.InfectionProbability(d, nil)
				require.GreaterOrEqual(t, p, 0.0, "dose %g", d)
				require.LessOrEqual(t, p, 1.0, "dose %g", d)
				require.GreaterOrEqual(t, p, prev, "dose %g", d)
				prev = p
			}
			assert.Equal(t, 0.0, m.InfectionProbability(0, nil))
			assert.Equal(t, 1.0, m.InfectionProbability(math.Inf(1), nil))
		})
	}
}

func TestBetaBinomialNorovirusReference(t *testing.T) {
	m, err := NewBetaBinomial(0.04, 0.055)
	require.NoError(t, err)
	// At dose 1 the exact model reduces to alpha/(alpha+beta).
	assert.InDelta(t, 0.421, m.InfectionProbability(1, nil), 1e-3)
	assert.InDelta(t, 0.04/0.095, m.InfectionProbability(1, nil), 1e-12)
}

func TestBetaPoissonDivergesFromExactAtLowBeta(t *testing.T) {
	bp, err := NewBetaPoisson(0.04, 0.055)
	require.NoError(t, err)
	bb, err := NewBetaBinomial(0.04, 0.055)
	require.NoError(t, err)

	pApprox := bp.InfectionProbability(1, nil)
	pExact := bb.InfectionProbability(1, nil)
	assert.InDelta(t, 0.111, pApprox, 1e-3)
	ratio := pExact / pApprox
	assert.True(t, ratio > 3 && ratio < 4, "ratio %g", ratio)
}

func TestBetaBinomialLargeDoseStaysFinite(t *testing.T) {
	m, err := NewBetaBinomial(0.04, 0.055)
	require.NoError(t, err)
	for _, d := range []float64{1e3, 1e6, 1e9, 1e12} {
		p := m.InfectionProbability(d, nil)
		assert.False(t, math.IsNaN(p))
		assert.True(t, p > 0.5 && p <= 1, "dose %g gave %g", d, p)
	}
}

func TestRoundTripClosedForm(t *testing.T) {
	bp, _ := NewBetaPoisson(0.145, 7.59)
	ex, _ := NewExponential(0.0042)
	hg, _ := NewHypergeometric(0.253, 0.426)

	for _, m := range []Model{bp, ex, hg} {
		for _, d := range []float64{0.01, 1, 10, 250, 5000} {
			got, err := m.DoseForRisk(m.InfectionProbability(d, nil))
			require.NoError(t, err)
			assert.InDelta(t, d, got, 1e-6*math.Max(1, d), "%s dose %g", m.Kind(), d)
		}
	}
}

func TestBetaBinomialInverseByBisection(t *testing.T) {
	m, _ := NewBetaBinomial(0.04, 0.055)
	for _, d := range []float64{0.5, 1, 10, 1000} {
		got, err := m.DoseForRisk(m.InfectionProbability(d, nil))
		require.NoError(t, err)
		assert.InDelta(t, d, got, 1e-6*math.Max(1, d))
	}

	zero, err := m.DoseForRisk(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)

	_, err = m.DoseForRisk(0.9999)
	assert.True(t, core.IsValidationError(err))
}

func TestDoseForRiskRejectsInvalidTargets(t *testing.T) {
	for name, m := range allModels(t) {
		for _, target := range []float64{-0.1, 1, 1.5, math.NaN()} {
			_, err := m.DoseForRisk(target)
			assert.True(t, core.IsValidationError(err), "%s target %g", name, target)
		}
	}
}

func TestNegativeDoseClampedWithWarning(t *testing.T) {
	for name, m := range allModels(t) {
		diag := core.NewDiagnostics()
		p := m.InfectionProbability(-5, diag)
		assert.Equal(t, 0.0, p, name)
		assert.Equal(t, 1, diag.Count(core.WarningNegativeDoseClamped), name)
	}
}

func TestNaNDosePropagatesForFiltering(t *testing.T) {
	ex, _ := NewExponential(0.5)
	assert.True(t, math.IsNaN(ex.InfectionProbability(math.NaN(), nil)))
}

func TestConstructionRejectsNonPositiveParameters(t *testing.T) {
	tests := []Parameters{
		{Kind: KindBetaPoisson, Alpha: 0, Beta: 1},
		{Kind: KindBetaPoisson, Alpha: 1, Beta: -1},
		{Kind: KindExponential, R: 0},
		{Kind: KindBetaBinomial, Alpha: math.NaN(), Beta: 1},
		{Kind: KindHypergeometric, Alpha: 1, Beta: math.Inf(1)},
		{Kind: "probit", Alpha: 1, Beta: 1},
	}
	for _, params := range tests {
		_, err := New(params, nil)
		assert.True(t, core.IsConfigurationError(err), "%+v", params)
	}
}

func TestBetaPoissonLowBetaWarnsButBuilds(t *testing.T) {
	diag := core.NewDiagnostics()
	m, err := New(Parameters{Kind: "beta-poisson", Alpha: 0.04, Beta: 0.055}, diag)
	require.NoError(t, err)
	assert.Equal(t, KindBetaPoisson, m.Kind())
	assert.Equal(t, 1, diag.Count(core.WarningApproximationInvalid))

	diag = core.NewDiagnostics()
	_, err = New(Parameters{Kind: KindBetaPoisson, Alpha: 0.145, Beta: 7.59}, diag)
	require.NoError(t, err)
	assert.True(t, diag.Empty())
}

func TestEvaluateAndID50(t *testing.T) {
	ex, _ := NewExponential(math.Ln2)
	probs := Evaluate(ex, []float64{0, 1, 2}, nil)
	assert.InDeltaSlice(t, []float64{0, 0.5, 0.75}, probs, 1e-12)

	id50, err := ID50(ex)
	require.NoError(t, err)
	assert.InDelta(t, 1, id50, 1e-12)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Exact Conditional")
	require.NoError(t, err)
	assert.Equal(t, KindBetaBinomial, k)

	_, err = ParseKind("weibull")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beta_binomial")
}
