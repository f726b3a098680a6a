package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"goqmra/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomainMapsTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"configuration", core.NewConfigurationError("alpha", "must be > 0"), CodeConfigInvalid, http.StatusBadRequest},
		{"validation", core.NewValidationError("ratio", "must be in [0,1]"), CodeValidationError, http.StatusBadRequest},
		{"not found", core.NewPathogenNotFoundError("ebola", []string{"norovirus"}), CodeNotFound, http.StatusNotFound},
		{"unknown model", core.NewModelNotFoundError("cryptosporidium", "beta_poisson", []string{"exponential"}), CodeNotFound, http.StatusNotFound},
		{"precondition", core.NewPreconditionError("dose", "no concentration"), CodePreconditionFailed, http.StatusConflict},
		{"timeout", fmt.Errorf("run: %w", context.DeadlineExceeded), CodeTimeout, http.StatusGatewayTimeout},
		{"other", fmt.Errorf("boom"), CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomain(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatus())
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromDomainCarriesValidationIssues(t *testing.T) {
	var report core.ValidationReport
	report.Add("frequency", "must be >= 0")
	report.Add("population", "must be > 0")

	appErr := FromDomain(fmt.Errorf("scenario: %w", report.Err()))
	assert.Equal(t, CodeValidationError, appErr.Code)
	assert.Len(t, appErr.Issues, 2)
}

func TestFromDomainNil(t *testing.T) {
	assert.Nil(t, FromDomain(nil))
}

func TestWrapKeepsCode(t *testing.T) {
	err := Wrap(NotFound("pathogen norovirus"), "lookup failed")
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Contains(t, err.Error(), "lookup failed")

	assert.Equal(t, CodeInternalError, GetCode(Wrapf(fmt.Errorf("x"), "step %d", 2)))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}
