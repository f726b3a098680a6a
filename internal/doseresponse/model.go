// Package doseresponse maps an ingested or inhaled dose (organisms) to the
// probability of infection.
//
// Models are immutable after construction and hold no mutable state, so one
// instance is safely shared by every Monte Carlo iteration and every worker.
package doseresponse

import (
	"math"
	"strings"

	"goqmra/domain/core"
)

// Kind identifies a dose-response model variant.
type Kind string

const (
	KindBetaPoisson    Kind = "beta_poisson"
	KindExponential    Kind = "exponential"
	KindBetaBinomial   Kind = "beta_binomial"
	KindHypergeometric Kind = "hypergeometric"
)

var kindSynonyms = map[string]Kind{
	"beta_poisson":      KindBetaPoisson,
	"betapoisson":       KindBetaPoisson,
	"approximate":       KindBetaPoisson,
	"exponential":       KindExponential,
	"exp":               KindExponential,
	"beta_binomial":     KindBetaBinomial,
	"betabinomial":      KindBetaBinomial,
	"exact":             KindBetaBinomial,
	"exact_beta":        KindBetaBinomial,
	"exact_conditional": KindBetaBinomial,
	"hypergeometric":    KindHypergeometric,
}

// ParseKind maps a user-facing model name onto a Kind.
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if k, ok := kindSynonyms[key]; ok {
		return k, nil
	}
	return "", core.NewConfigurationError("dose_response.model",
		"unknown model \""+name+"\" (accepted: "+strings.Join(KindNames(), ", ")+")")
}

// KindNames lists the canonical model names.
func KindNames() []string {
	return []string{string(KindBetaPoisson), string(KindExponential), string(KindBetaBinomial), string(KindHypergeometric)}
}

// Parameters is the per-model parameter record as stored in the pathogen
// database. Alpha and Beta apply to the beta-family models, R to Exponential.
type Parameters struct {
	Kind  Kind    `json:"model" db:"model"`
	Alpha float64 `json:"alpha,omitempty" db:"alpha"`
	Beta  float64 `json:"beta,omitempty" db:"beta"`
	R     float64 `json:"r,omitempty" db:"r"`
}

// Model is a dose-response relationship.
type Model interface {
	Kind() Kind
	Parameters() Parameters

	// InfectionProbability returns P(infection | dose) in [0,1]. Negative
	// doses are treated as zero and reported to diag.
	InfectionProbability(dose float64, diag *core.Diagnostics) float64

	// DoseForRisk returns the dose whose infection probability equals target.
	DoseForRisk(target float64) (float64, error)
}

// New builds the model named by params.Kind. A Beta-Poisson request with
// beta < 1 is honoured but reported to diag: the approximation is invalid in
// that regime and the exact Beta-Binomial model should be used instead.
func New(params Parameters, diag *core.Diagnostics) (Model, error) {
	kind, err := ParseKind(string(params.Kind))
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindBetaPoisson:
		m, err := NewBetaPoisson(params.Alpha, params.Beta)
		if err != nil {
			return nil, err
		}
		if !m.ApproximationValid() {
			diag.Warn(core.WarningApproximationInvalid,
				"beta-Poisson requested with beta=%g < 1; the approximation is invalid here, use beta_binomial", params.Beta)
		}
		return m, nil
	case KindExponential:
		return NewExponential(params.R)
	case KindBetaBinomial:
		return NewBetaBinomial(params.Alpha, params.Beta)
	case KindHypergeometric:
		return NewHypergeometric(params.Alpha, params.Beta)
	}
	return nil, core.NewConfigurationError("dose_response.model", "unsupported model \""+string(kind)+"\"")
}

// Evaluate applies m to every dose.
func Evaluate(m Model, doses []float64, diag *core.Diagnostics) []float64 {
	out := make([]float64, len(doses))
	for i, d := range doses {
		out[i] = m.InfectionProbability(d, diag)
	}
	return out
}

// ID50 returns the median infectious dose.
func ID50(m Model) (float64, error) {
	return m.DoseForRisk(0.5)
}

func positive(field string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return core.NewConfigurationError(field, "must be a finite value > 0")
	}
	return nil
}

// sanitizeDose clamps negative doses to zero. ok is false when the dose is NaN
// and the caller should return NaN for later filtering.
func sanitizeDose(dose float64, diag *core.Diagnostics) (float64, bool) {
	if math.IsNaN(dose) {
		return dose, false
	}
	if dose < 0 {
		diag.Warn(core.WarningNegativeDoseClamped, "negative dose %g clamped to 0", dose)
		return 0, true
	}
	return dose, true
}

func clampProbability(p float64, diag *core.Diagnostics) float64 {
	if p < 0 {
		diag.Warn(core.WarningProbabilityClamped, "probability %g clamped to 0", p)
		return 0
	}
	if p > 1 {
		diag.Warn(core.WarningProbabilityClamped, "probability %g clamped to 1", p)
		return 1
	}
	return p
}

func validTarget(target float64) error {
	if math.IsNaN(target) || target < 0 || target >= 1 {
		return core.NewValidationError("target_probability", "must be in [0, 1)")
	}
	return nil
}
