package pathogen

import (
	"context"
	"testing"

	"goqmra/domain/core"
	"goqmra/internal/doseresponse"
	"goqmra/internal/exposure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTableIsValid(t *testing.T) {
	db := Default()
	assert.Equal(t, []string{
		"adenovirus", "campylobacter", "cryptosporidium", "e_coli_o157",
		"norovirus", "rotavirus", "salmonella",
	}, db.Names())
	for _, r := range db.Records() {
		assert.NoError(t, r.Validate(), r.Name)
	}
}

func TestGetIsCaseInsensitiveAndAcceptsAliases(t *testing.T) {
	db := Default()
	for _, name := range []string{"Norovirus", "NOROVIRUS", "noro", "Norwalk"} {
		r, err := db.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, "norovirus", r.Name)
	}
	r, err := db.Get("E. coli O157:H7")
	require.NoError(t, err)
	assert.Equal(t, "e_coli_o157", r.Name)
}

func TestUnknownPathogenListsAvailable(t *testing.T) {
	_, err := Default().Get("ebola")
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
	assert.ErrorIs(t, err, core.ErrPathogenNotFound)
	assert.Contains(t, err.Error(), "norovirus")
	assert.Contains(t, err.Error(), "cryptosporidium")
}

func TestParameters(t *testing.T) {
	db := Default()

	params, err := db.Parameters("norovirus", "")
	require.NoError(t, err)
	assert.Equal(t, doseresponse.Parameters{Kind: doseresponse.KindBetaBinomial, Alpha: 0.04, Beta: 0.055}, params)

	params, err = db.Parameters("norovirus", "beta-poisson")
	require.NoError(t, err)
	assert.Equal(t, doseresponse.KindBetaPoisson, params.Kind)

	params, err = db.Parameters("cryptosporidium", "exponential")
	require.NoError(t, err)
	assert.Equal(t, 0.0042, params.R)
}

func TestUnknownModelForPathogen(t *testing.T) {
	_, err := Default().Parameters("cryptosporidium", "beta_binomial")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrModelNotFound)
	assert.Contains(t, err.Error(), "exponential")

	_, err = Default().Parameters("cryptosporidium", "weibull")
	assert.True(t, core.IsConfigurationError(err))
}

func TestModelReproducesNorovirusReference(t *testing.T) {
	m, err := Default().Model("norovirus", "", nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.421, m.InfectionProbability(1, nil), 1e-3)
}

func TestLowBetaPoissonIsReported(t *testing.T) {
	diag := core.NewDiagnostics()
	_, err := Default().Model("norovirus", "beta_poisson", diag)
	require.NoError(t, err)
	assert.Equal(t, 1, diag.Count(core.WarningApproximationInvalid))
}

func TestSupportsRoute(t *testing.T) {
	adeno, err := Default().Get("adenovirus")
	require.NoError(t, err)
	assert.True(t, adeno.SupportsRoute(exposure.RouteAerosol))
	assert.False(t, adeno.SupportsRoute(exposure.RouteShellfish))

	assert.True(t, Record{}.SupportsRoute(exposure.RouteShellfish))
}

func TestNewDatabaseAggregatesInvalidRecords(t *testing.T) {
	_, err := NewDatabase([]Record{
		{
			Name:         "bad",
			Models:       map[doseresponse.Kind]doseresponse.Parameters{doseresponse.KindExponential: {Kind: doseresponse.KindExponential, R: -1}},
			DefaultModel: doseresponse.KindExponential,
			IllnessRatio: 2,
		},
		{Name: "empty"},
	})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))

	var failure *core.ValidationFailure
	require.ErrorAs(t, err, &failure)
	assert.GreaterOrEqual(t, len(failure.Report.Issues), 4)
}

func TestNewDatabaseRejectsDuplicates(t *testing.T) {
	r := builtinRecords()[0]
	_, err := NewDatabase([]Record{r, r})
	assert.True(t, core.IsValidationError(err))
}

func TestRepositoryMethods(t *testing.T) {
	db := Default()
	records, err := db.ListPathogens(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 7)

	r, err := db.GetPathogen(context.Background(), "crypto")
	require.NoError(t, err)
	assert.Equal(t, "cryptosporidium", r.Name)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.GetPathogen(ctx, "crypto")
	assert.ErrorIs(t, err, context.Canceled)
}
