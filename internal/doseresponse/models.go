package doseresponse

import (
	"math"

	"goqmra/domain/core"

	"gonum.org/v1/gonum/mathext"
)

// BetaPoisson is the approximate beta-Poisson model
// P = 1 - (1 + dose/beta)^(-alpha), valid only when beta >> 1.
type BetaPoisson struct {
	alpha, beta float64
}

// NewBetaPoisson validates alpha, beta > 0
func NewBetaPoisson(alpha, beta float64) (*BetaPoisson, error) {
	if err := positive("beta_poisson.alpha", alpha); err != nil {
		return nil, err
	}
	if err := positive("beta_poisson.beta", beta); err != nil {
		return nil, err
	}
	return &BetaPoisson{alpha: alpha, beta: beta}, nil
}

// ApproximationValid reports whether beta is large enough for the closed form.
func (m *BetaPoisson) ApproximationValid() bool {
	return m.beta >= 1
}

func (m *BetaPoisson) Kind() Kind { return KindBetaPoisson }

func (m *BetaPoisson) Parameters() Parameters {
	return Parameters{Kind: KindBetaPoisson, Alpha: m.alpha, Beta: m.beta}
}

func (m *BetaPoisson) InfectionProbability(dose float64, diag *core.Diagnostics) float64 {
	return betaPoissonProbability(m.alpha, m.beta, dose, diag)
}

func (m *BetaPoisson) DoseForRisk(target float64) (float64, error) {
	return betaPoissonDose(m.alpha, m.beta, target)
}

func betaPoissonProbability(alpha, beta, dose float64, diag *core.Diagnostics) float64 {
	dose, ok := sanitizeDose(dose, diag)
	if !ok {
		return math.NaN()
	}
	if math.IsInf(dose, 1) {
		return 1
	}
	// 1 - (1+d/beta)^-alpha, written to keep precision at tiny doses
	return clampProbability(-math.Expm1(-alpha*math.Log1p(dose/beta)), diag)
}

func betaPoissonDose(alpha, beta, target float64) (float64, error) {
	if err := validTarget(target); err != nil {
		return 0, err
	}
	// beta * ((1-p)^(-1/alpha) - 1)
	return beta * math.Expm1(-math.Log1p(-target)/alpha), nil
}

// Exponential is the single-hit model P = 1 - exp(-r*dose).
type Exponential struct {
	r float64
}

// NewExponential validates r > 0
func NewExponential(r float64) (*Exponential, error) {
	if err := positive("exponential.r", r); err != nil {
		return nil, err
	}
	return &Exponential{r: r}, nil
}

func (m *Exponential) Kind() Kind { return KindExponential }

func (m *Exponential) Parameters() Parameters {
	return Parameters{Kind: KindExponential, R: m.r}
}

func (m *Exponential) InfectionProbability(dose float64, diag *core.Diagnostics) float64 {
	dose, ok := sanitizeDose(dose, diag)
	if !ok {
		return math.NaN()
	}
	if math.IsInf(dose, 1) {
		return 1
	}
	return clampProbability(-math.Expm1(-m.r*dose), diag)
}

func (m *Exponential) DoseForRisk(target float64) (float64, error) {
	if err := validTarget(target); err != nil {
		return 0, err
	}
	return -math.Log1p(-target) / m.r, nil
}

// MaxSearchDose bounds the numerical inversion of the Beta-Binomial model.
const MaxSearchDose = 1e6

// BetaBinomial is the exact conditional (hypergeometric-limit) model
//
//	P = 1 - B(alpha, beta+dose) / B(alpha, beta)
//	  = 1 - exp(lnΓ(β+d) + lnΓ(α+β) - lnΓ(α+β+d) - lnΓ(β))
//
// evaluated through log-beta so large doses neither overflow nor underflow.
// It is the correct model when beta is small (norovirus: α≈0.04, β≈0.055),
// where the beta-Poisson closed form underestimates low-dose risk several-fold.
type BetaBinomial struct {
	alpha, beta float64
	lnBeta0     float64
}

// NewBetaBinomial validates alpha, beta > 0
func NewBetaBinomial(alpha, beta float64) (*BetaBinomial, error) {
	if err := positive("beta_binomial.alpha", alpha); err != nil {
		return nil, err
	}
	if err := positive("beta_binomial.beta", beta); err != nil {
		return nil, err
	}
	return &BetaBinomial{alpha: alpha, beta: beta, lnBeta0: mathext.Lbeta(beta, alpha)}, nil
}

func (m *BetaBinomial) Kind() Kind { return KindBetaBinomial }

func (m *BetaBinomial) Parameters() Parameters {
	return Parameters{Kind: KindBetaBinomial, Alpha: m.alpha, Beta: m.beta}
}

func (m *BetaBinomial) InfectionProbability(dose float64, diag *core.Diagnostics) float64 {
	dose, ok := sanitizeDose(dose, diag)
	if !ok {
		return math.NaN()
	}
	if math.IsInf(dose, 1) {
		return 1
	}
	if dose == 0 {
		return 0
	}
	return clampProbability(-math.Expm1(mathext.Lbeta(m.beta+dose, m.alpha)-m.lnBeta0), diag)
}

// DoseForRisk has no closed form here; it bisects over [0, MaxSearchDose].
func (m *BetaBinomial) DoseForRisk(target float64) (float64, error) {
	if err := validTarget(target); err != nil {
		return 0, err
	}
	if target == 0 {
		return 0, nil
	}
	f := func(d float64) float64 { return m.InfectionProbability(d, nil) }
	if f(MaxSearchDose) < target {
		return 0, core.NewValidationError("target_probability",
			"not reachable below the maximum search dose of 1e6 organisms")
	}
	return bisect(f, target, 0, MaxSearchDose), nil
}

// bisect finds x in [lo, hi] with f(x) = target for non-decreasing f.
func bisect(f func(float64) float64, target, lo, hi float64) float64 {
	for i := 0; i < 200; i++ {
		mid := lo + (hi-lo)/2
		if f(mid) < target {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= 1e-12*math.Max(1, hi) {
			break
		}
	}
	return lo + (hi-lo)/2
}

// Hypergeometric is kept as a simplified fallback that reuses the
// beta-Poisson formula. It is an approximation only.
type Hypergeometric struct {
	alpha, beta float64
}

// NewHypergeometric validates alpha, beta > 0
func NewHypergeometric(alpha, beta float64) (*Hypergeometric, error) {
	if err := positive("hypergeometric.alpha", alpha); err != nil {
		return nil, err
	}
	if err := positive("hypergeometric.beta", beta); err != nil {
		return nil, err
	}
	return &Hypergeometric{alpha: alpha, beta: beta}, nil
}

func (m *Hypergeometric) Kind() Kind { return KindHypergeometric }

func (m *Hypergeometric) Parameters() Parameters {
	return Parameters{Kind: KindHypergeometric, Alpha: m.alpha, Beta: m.beta}
}

func (m *Hypergeometric) InfectionProbability(dose float64, diag *core.Diagnostics) float64 {
	return betaPoissonProbability(m.alpha, m.beta, dose, diag)
}

func (m *Hypergeometric) DoseForRisk(target float64) (float64, error) {
	return betaPoissonDose(m.alpha, m.beta, target)
}
