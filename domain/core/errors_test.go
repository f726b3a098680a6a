package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"configuration", NewConfigurationError("alpha", "must be > 0"), IsConfigurationError},
		{"precondition", NewPreconditionError("calculate_dose", "concentration not set"), IsPreconditionError},
		{"validation", NewValidationError("ratio", "must be in [0,1]"), IsValidationError},
		{"not found", NewPathogenNotFoundError("ebola", []string{"norovirus", "rotavirus"}), IsNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}
}

func TestPathogenNotFoundListsAvailable(t *testing.T) {
	err := NewPathogenNotFoundError("ebola", []string{"rotavirus", "norovirus"})
	assert.True(t, errors.Is(err, ErrPathogenNotFound))
	assert.Contains(t, err.Error(), "norovirus, rotavirus")
}

func TestUnknownNamesAreConfigurationErrors(t *testing.T) {
	pathogenErr := NewPathogenNotFoundError("ebola", []string{"norovirus"})
	assert.True(t, IsConfigurationError(pathogenErr))
	assert.True(t, IsNotFoundError(pathogenErr))

	modelErr := NewModelNotFoundError("cryptosporidium", "beta_poisson", []string{"exponential"})
	assert.True(t, IsConfigurationError(modelErr))
	assert.True(t, IsNotFoundError(modelErr))
	assert.ErrorIs(t, modelErr, ErrModelNotFound)
}

func TestValidationReportAggregates(t *testing.T) {
	var report ValidationReport
	require.NoError(t, report.Err())

	report.Check(false, "ratio", "must be in [0,1]")
	report.Check(true, "ignored", "never recorded")
	report.Add("population", "must be positive")

	err := report.Err()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Len(t, report.Issues, 2)
	assert.True(t, strings.Contains(err.Error(), "ratio") && strings.Contains(err.Error(), "population"))

	var failure *ValidationFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "population", failure.Report.Issues[1].Field)
}

func TestValidationReportMerge(t *testing.T) {
	var inner ValidationReport
	inner.Add("lrv", "must be >= 0")

	var outer ValidationReport
	outer.Merge("treatment[0]", &inner)
	outer.Merge("ignored", nil)

	require.Len(t, outer.Issues, 1)
	assert.Equal(t, "treatment[0].lrv", outer.Issues[0].Field)
}

func TestDiagnosticsCollapsesByCode(t *testing.T) {
	d := NewDiagnostics()
	d.Warn(WarningNegativeDoseClamped, "dose %g clamped", -1.0)
	d.WarnN(WarningNegativeDoseClamped, 3, "ignored message")
	d.Warn(WarningProbabilityClamped, "clamped")

	assert.Equal(t, 4, d.Count(WarningNegativeDoseClamped))
	assert.Equal(t, 1, d.Count(WarningProbabilityClamped))
	warnings := d.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "dose -1 clamped", warnings[0].Message)

	var nilDiag *Diagnostics
	nilDiag.Warn(WarningNonFiniteFiltered, "no-op")
	assert.True(t, nilDiag.Empty())
	assert.Equal(t, 0, nilDiag.Count(WarningNonFiniteFiltered))
}
