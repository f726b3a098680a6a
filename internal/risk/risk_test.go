package risk

import (
	"math"
	"testing"

	"goqmra/domain/core"
	"goqmra/internal/montecarlo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualRiskAggregationLaw(t *testing.T) {
	single, err := AnnualRisk(0.01, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.01, single)

	none, err := AnnualRisk(0.01, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, none)

	twice, err := AnnualRisk(0.5, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, twice, 1e-12)

	prev := 0.0
	for _, f := range []float64{10, 100, 1000, 10000} {
		r, err := AnnualRisk(0.01, f)
		require.NoError(t, err)
		assert.Greater(t, r, prev)
		assert.LessOrEqual(t, r, 1.0)
		prev = r
	}
	assert.InDelta(t, 1.0, prev, 1e-12)

	certain, err := AnnualRisk(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, certain)
}

func TestAnnualRiskIsNotLinear(t *testing.T) {
	r, err := AnnualRisk(0.1, 20)
	require.NoError(t, err)
	assert.Less(t, r, 1.0)
	assert.InDelta(t, 1-math.Pow(0.9, 20), r, 1e-12)
}

func TestAnnualRiskValidation(t *testing.T) {
	_, err := AnnualRisk(1.5, 1)
	assert.True(t, core.IsValidationError(err))
	_, err = AnnualRisk(0.1, -1)
	assert.True(t, core.IsValidationError(err))
	_, err = AnnualRisks([]float64{0.1}, math.NaN())
	assert.True(t, core.IsValidationError(err))
}

func TestAnnualRisksPassNaNThrough(t *testing.T) {
	out, err := AnnualRisks([]float64{0.01, math.NaN()}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.01, out[0])
	assert.True(t, math.IsNaN(out[1]))
}

func TestIllnessProbability(t *testing.T) {
	out, err := IllnessProbability([]float64{0.5, 0.1}, 0.6, 0.5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.15, 0.03}, out, 1e-12)
}

func TestIllnessProbabilityAggregatesIssues(t *testing.T) {
	_, err := IllnessProbability([]float64{0.5}, 1.2, -0.1)
	require.Error(t, err)

	var failure *core.ValidationFailure
	require.ErrorAs(t, err, &failure)
	assert.Len(t, failure.Report.Issues, 2)
}

func TestDALYs(t *testing.T) {
	out, err := DALYs([]float64{1e-3, 0}, 9e-4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{9e-7, 0}, out, 1e-18)

	_, err = DALYs([]float64{1}, -1)
	assert.True(t, core.IsValidationError(err))
}

func TestClassifyCompliance(t *testing.T) {
	assert.Equal(t, Compliant, Classify(5e-5, 1e-4))
	assert.Equal(t, NonCompliant, Classify(2e-4, 1e-4))
	assert.Equal(t, Compliant, Classify(1e-4, 1e-4))
}

func TestGuidelinesEvaluate(t *testing.T) {
	gs := NewGuidelines(DefaultThresholds())
	require.NoError(t, gs.Validate())

	annual, err := NewResult("norovirus", MetricAnnualInfection, []float64{5e-5, 5e-5}, 1, 0)
	require.NoError(t, err)
	results := map[Metric]*Result{MetricAnnualInfection: annual}

	verdicts := gs.Evaluate("drinking_water", results)
	require.Len(t, verdicts, 2)
	assert.Equal(t, "annual_infection", verdicts[0].Guideline)
	assert.Equal(t, Compliant, verdicts[0].Classification)
	assert.InDelta(t, 0.5, verdicts[0].Ratio, 1e-12)
	assert.Equal(t, "drinking_water", verdicts[1].Guideline)
	assert.Equal(t, NonCompliant, verdicts[1].Classification)

	// the strict drinking-water guideline does not apply to bathing
	verdicts = gs.Evaluate("primary_contact", results)
	require.Len(t, verdicts, 1)
	assert.Equal(t, "annual_infection", verdicts[0].Guideline)
}

func TestCustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.AnnualInfection = 1e-3
	annual, err := NewResult("rotavirus", MetricAnnualInfection, []float64{2e-4}, 1, 0)
	require.NoError(t, err)

	verdicts := NewGuidelines(th).Evaluate("shellfish", map[Metric]*Result{MetricAnnualInfection: annual})
	require.Len(t, verdicts, 1)
	assert.Equal(t, Compliant, verdicts[0].Classification)
}

func TestPopulationImpact(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i+1) / 1000
	}
	mc, err := montecarlo.NewResult(values, 1)
	require.NoError(t, err)

	impact, err := NewPopulationImpact(mc.Statistics, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 505, impact.ExpectedCases, 1e-9)
	assert.InDelta(t, 500, impact.Bands[50], 1e-9)
	assert.InDelta(t, 950, impact.Bands[95], 1e-9)

	_, err = NewPopulationImpact(mc.Statistics, 0)
	assert.True(t, core.IsValidationError(err))
}

func TestResultCarriesPopulation(t *testing.T) {
	res, err := NewResult("campylobacter", MetricAnnualIllness, []float64{0.01, 0.02, math.Inf(1)}, 9, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Filtered)
	require.NotNil(t, res.Population)
	assert.InDelta(t, 15, res.Population.ExpectedCases, 1e-9)
}
