package postgres

import (
	"testing"

	"goqmra/internal/doseresponse"
	"goqmra/internal/exposure"
	"goqmra/internal/pathogen"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleJoinsModelsOntoPathogens(t *testing.T) {
	rows := []pathogenRow{
		{
			Name:         "norovirus",
			DisplayName:  "Norovirus",
			Group:        "virus",
			DefaultModel: "beta_binomial",
			IllnessRatio: 0.6,
			DALYsPerCase: 9e-4,
			Aliases:      pq.StringArray{"noro"},
			Routes:       pq.StringArray{"primary_contact", "shellfish"},
		},
		{
			Name:         "cryptosporidium",
			DisplayName:  "Cryptosporidium",
			DefaultModel: "exponential",
			IllnessRatio: 0.7,
		},
	}
	models := []modelRow{
		{Pathogen: "norovirus", Model: "beta_binomial", Alpha: 0.04, Beta: 0.055},
		{Pathogen: "norovirus", Model: "beta_poisson", Alpha: 0.04, Beta: 0.055},
		{Pathogen: "cryptosporidium", Model: "exponential", R: 0.0042},
		{Pathogen: "orphan", Model: "exponential", R: 1},
	}

	records := assemble(rows, models)
	require.Len(t, records, 2)

	noro := records[0]
	assert.Equal(t, []string{"noro"}, noro.Aliases)
	assert.Equal(t, []exposure.Route{exposure.RoutePrimaryContact, exposure.RouteShellfish}, noro.Routes)
	assert.Equal(t, []string{"beta_binomial", "beta_poisson"}, noro.ModelKinds())
	require.NoError(t, noro.Validate())

	crypto := records[1]
	assert.Equal(t, 0.0042, crypto.Models[doseresponse.KindExponential].R)
	assert.Empty(t, crypto.Routes)

	db, err := pathogen.NewDatabase(records)
	require.NoError(t, err)
	got, err := db.Get("NORO")
	require.NoError(t, err)
	assert.Equal(t, "norovirus", got.Name)
}

func TestModelRowsRoundTripThroughAssemble(t *testing.T) {
	for _, record := range pathogen.Default().Records() {
		rows := modelRows(record)
		require.Len(t, rows, len(record.Models))
		for i := 1; i < len(rows); i++ {
			assert.Less(t, rows[i-1].Model, rows[i].Model)
		}

		routes := make(pq.StringArray, len(record.Routes))
		for i, route := range record.Routes {
			routes[i] = string(route)
		}
		row := pathogenRow{
			Name:         record.Name,
			DisplayName:  record.DisplayName,
			Group:        record.Group,
			DefaultModel: string(record.DefaultModel),
			IllnessRatio: record.IllnessRatio,
			DALYsPerCase: record.DALYsPerCase,
			Reference:    record.Reference,
			Aliases:      pq.StringArray(record.Aliases),
			Routes:       routes,
		}

		rebuilt := assemble([]pathogenRow{row}, rows)
		require.Len(t, rebuilt, 1)
		assert.Equal(t, record.Models, rebuilt[0].Models, record.Name)
		assert.Equal(t, record.DefaultModel, rebuilt[0].DefaultModel, record.Name)
		assert.Equal(t, record.Routes, rebuilt[0].Routes, record.Name)
	}
}
