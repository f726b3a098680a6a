package app

import (
	"context"
	"fmt"
	"time"

	"goqmra/domain/core"
	"goqmra/internal"
	"goqmra/internal/config"
	"goqmra/internal/distribution"
	"goqmra/internal/dose"
	"goqmra/internal/doseresponse"
	"goqmra/internal/exposure"
	"goqmra/internal/montecarlo"
	"goqmra/internal/pathogen"
	"goqmra/internal/risk"
	"goqmra/internal/treatment"
	"goqmra/ports"
)

// Assessment is the outcome of one scenario: every risk metric, the guideline
// verdicts and the diagnostics raised on the way.
type Assessment struct {
	ID           core.AssessmentID            `json:"id"`
	Scenario     Scenario                     `json:"scenario"`
	Pathogen     string                       `json:"pathogen"`
	Model        doseresponse.Parameters      `json:"model"`
	Route        exposure.Route               `json:"route"`
	LogReduction float64                      `json:"log_reduction"`
	Results      map[risk.Metric]*risk.Result `json:"results"`
	Verdicts     []risk.Verdict               `json:"verdicts"`
	Compliant    bool                         `json:"compliant"`
	Warnings     []core.Warning               `json:"warnings,omitempty"`
	Fingerprint  core.Hash                    `json:"fingerprint"`
	Seed         int64                        `json:"seed"`
	Iterations   int                          `json:"iterations"`
	RuntimeMs    int64                        `json:"runtime_ms"`
}

// DoseForRiskResult answers "which dose gives this infection risk".
type DoseForRiskResult struct {
	Pathogen string                  `json:"pathogen"`
	Model    doseresponse.Parameters `json:"model"`
	Target   float64                 `json:"target"`
	Dose     float64                 `json:"dose"`
	ID50     float64                 `json:"id50"`
	Warnings []core.Warning          `json:"warnings,omitempty"`
}

// AssessmentService runs the exposure, dose, dose-response and risk pipeline
// for single scenarios.
type AssessmentService struct {
	pathogens  ports.PathogenRepository
	rngPort    ports.RNGPort
	guidelines risk.Guidelines
	defaults   config.SimulationConfig
	logger     *internal.Logger
}

// NewAssessmentService creates an assessment service
func NewAssessmentService(pathogens ports.PathogenRepository, rngPort ports.RNGPort, guidelines risk.Guidelines, defaults config.SimulationConfig, logger *internal.Logger) *AssessmentService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AssessmentService{
		pathogens:  pathogens,
		rngPort:    rngPort,
		guidelines: guidelines,
		defaults:   defaults,
		logger:     logger,
	}
}

// Pathogens lists the records of the configured repository.
func (s *AssessmentService) Pathogens(ctx context.Context) ([]pathogen.Record, error) {
	return s.pathogens.ListPathogens(ctx)
}

// Pathogen resolves one record by name or alias.
func (s *AssessmentService) Pathogen(ctx context.Context, name string) (*pathogen.Record, error) {
	return s.pathogens.GetPathogen(ctx, name)
}

// Assess runs one scenario. Configuration, precondition and validation errors
// are returned unchanged so callers can classify them.
func (s *AssessmentService) Assess(ctx context.Context, sc Scenario) (*Assessment, error) {
	start := time.Now()
	sc = s.withDefaults(sc)
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	seed := *sc.Seed

	if s.defaults.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.defaults.Timeout)
		defer cancel()
	}

	diag := core.NewDiagnostics()
	p, err := s.build(ctx, sc, diag)
	if err != nil {
		return nil, err
	}

	perEvent, err := s.simulate(ctx, p, sc, seed, diag)
	if err != nil {
		return nil, err
	}
	diag.WarnN(core.WarningNonFiniteFiltered, perEvent.Filtered, "non-finite infection probabilities removed before statistics")

	results, err := s.characterize(p, sc, perEvent)
	if err != nil {
		return nil, err
	}

	verdicts := s.guidelines.Evaluate(string(p.route), results)
	fingerprint, err := core.Fingerprint(sc, seed)
	if err != nil {
		return nil, err
	}

	if !sc.IncludeSamples {
		for _, r := range results {
			r.Values = nil
		}
	}

	assessment := &Assessment{
		ID:           core.NewAssessmentID(),
		Scenario:     sc,
		Pathogen:     p.record.Name,
		Model:        p.model.Parameters(),
		Route:        p.route,
		LogReduction: p.treatment.LogReduction(),
		Results:      results,
		Verdicts:     verdicts,
		Compliant:    allCompliant(verdicts),
		Warnings:     diag.Warnings(),
		Fingerprint:  fingerprint,
		Seed:         seed,
		Iterations:   sc.Iterations,
		RuntimeMs:    time.Since(start).Milliseconds(),
	}

	s.logger.Zerolog().Info().
		Str("assessment_id", assessment.ID.String()).
		Str("pathogen", assessment.Pathogen).
		Str("route", string(assessment.Route)).
		Str("fingerprint", fingerprint.Short()).
		Float64("annual_infection_mean", results[risk.MetricAnnualInfection].Statistics.Mean).
		Bool("compliant", assessment.Compliant).
		Int("warnings", len(assessment.Warnings)).
		Int64("runtime_ms", assessment.RuntimeMs).
		Msg("assessment completed")

	return assessment, nil
}

// DoseForRisk inverts a pathogen's dose-response model at target.
func (s *AssessmentService) DoseForRisk(ctx context.Context, pathogenName, model string, target float64) (*DoseForRiskResult, error) {
	record, err := s.pathogens.GetPathogen(ctx, pathogenName)
	if err != nil {
		return nil, err
	}
	diag := core.NewDiagnostics()
	m, err := record.Model(model, diag)
	if err != nil {
		return nil, err
	}
	d, err := m.DoseForRisk(target)
	if err != nil {
		return nil, err
	}
	id50, err := doseresponse.ID50(m)
	if err != nil {
		return nil, err
	}
	return &DoseForRiskResult{
		Pathogen: record.Name,
		Model:    m.Parameters(),
		Target:   target,
		Dose:     d,
		ID50:     id50,
		Warnings: diag.Warnings(),
	}, nil
}

func (s *AssessmentService) withDefaults(sc Scenario) Scenario {
	if sc.Iterations == 0 {
		sc.Iterations = s.defaults.Iterations
	}
	if sc.Seed == nil {
		seed := s.defaults.Seed
		sc.Seed = &seed
	}
	return sc
}

// pipeline holds the resolved stages of one scenario.
type pipeline struct {
	record        pathogen.Record
	model         doseresponse.Model
	route         exposure.Route
	concentration distribution.Distribution
	treatment     *treatment.Model
	exposure      *exposure.Assessment
	illnessRatio  float64
}

// build resolves every name in the scenario and constructs the stages. All
// configuration errors surface here, before any sampling.
func (s *AssessmentService) build(ctx context.Context, sc Scenario, diag *core.Diagnostics) (*pipeline, error) {
	record, err := s.pathogens.GetPathogen(ctx, sc.Pathogen)
	if err != nil {
		return nil, err
	}
	model, err := record.Model(sc.Model, diag)
	if err != nil {
		return nil, err
	}
	route, err := exposure.ParseRoute(sc.Route)
	if err != nil {
		return nil, err
	}
	if !record.SupportsRoute(route) {
		diag.Warn(core.WarningRouteNotApplicable, "%s is not listed for route %s", record.Name, route)
	}
	concentration, err := distribution.FromSpec(sc.Concentration)
	if err != nil {
		return nil, fmt.Errorf("concentration: %w", err)
	}
	tm, err := treatment.NewModel(sc.Treatment, sc.Dilution)
	if err != nil {
		return nil, err
	}
	ea, err := exposure.NewAssessment(route, sc.Exposure)
	if err != nil {
		return nil, err
	}
	if err := ea.WithDoseCalculator(dose.Calculator{UnitConversion: dose.MillilitresPerLitre, Discretize: sc.Discretize}); err != nil {
		return nil, err
	}

	illnessRatio := record.IllnessRatio
	if sc.IllnessRatio != nil {
		illnessRatio = *sc.IllnessRatio
	}
	return &pipeline{
		record:        *record,
		model:         model,
		route:         route,
		concentration: concentration,
		treatment:     tm,
		exposure:      ea,
		illnessRatio:  illnessRatio,
	}, nil
}

// simulate draws source concentrations through the Monte Carlo engine and
// maps each draw through treatment, exposure and dose-response into a
// per-event infection probability.
func (s *AssessmentService) simulate(ctx context.Context, p *pipeline, sc Scenario, seed int64, diag *core.Diagnostics) (*montecarlo.Result, error) {
	engine := montecarlo.NewEngine(s.rngPort, montecarlo.WithBatchSize(s.defaults.BatchSize))
	if err := engine.AddInput("concentration", p.concentration); err != nil {
		return nil, err
	}
	treatmentRng, err := s.rngPort.SeededStream(ctx, "treatment", seed)
	if err != nil {
		return nil, err
	}
	exposureRng, err := s.rngPort.SeededStream(ctx, "exposure", seed)
	if err != nil {
		return nil, err
	}

	var stageErr error
	result, err := engine.RunVectorized(ctx, func(samples map[string][]float64) []float64 {
		source := floorConcentrations(samples["concentration"], diag)
		treated, err := p.treatment.ApplySamples(source, treatmentRng)
		if err != nil {
			stageErr = err
			return nil
		}
		if err := p.exposure.SetConcentrations(treated); err != nil {
			stageErr = err
			return nil
		}
		doses, err := p.exposure.CalculateDose(len(treated), exposureRng, diag)
		if err != nil {
			stageErr = err
			return nil
		}
		return doseresponse.Evaluate(p.model, doses, diag)
	}, sc.Iterations, seed)
	if stageErr != nil {
		return nil, stageErr
	}
	return result, err
}

// floorConcentrations replaces negative draws from distributions with
// negative support by 0.
func floorConcentrations(values []float64, diag *core.Diagnostics) []float64 {
	out := make([]float64, len(values))
	floored := 0
	for i, c := range values {
		if c < 0 {
			c = 0
			floored++
		}
		out[i] = c
	}
	diag.WarnN(core.WarningConcentrationFloored, floored, "negative concentration floored at 0")
	return out
}

// characterize derives every risk metric from the per-event infection
// probabilities.
func (s *AssessmentService) characterize(p *pipeline, sc Scenario, perEvent *montecarlo.Result) (map[risk.Metric]*risk.Result, error) {
	name := p.record.Name
	susceptibility := 1.0
	if sc.Susceptibility != nil {
		susceptibility = *sc.Susceptibility
	}

	infection, err := risk.FromMonteCarlo(name, risk.MetricInfection, perEvent, 0)
	if err != nil {
		return nil, err
	}
	illnessValues, err := risk.IllnessProbability(perEvent.Values, p.illnessRatio, susceptibility)
	if err != nil {
		return nil, err
	}
	annualInfectionValues, err := risk.AnnualRisks(perEvent.Values, sc.Frequency)
	if err != nil {
		return nil, err
	}
	annualIllnessValues, err := risk.AnnualRisks(illnessValues, sc.Frequency)
	if err != nil {
		return nil, err
	}
	dalyValues, err := risk.DALYs(annualIllnessValues, p.record.DALYsPerCase)
	if err != nil {
		return nil, err
	}

	results := map[risk.Metric]*risk.Result{risk.MetricInfection: infection}
	derived := []struct {
		metric     risk.Metric
		values     []float64
		population int
	}{
		{risk.MetricIllness, illnessValues, 0},
		{risk.MetricAnnualInfection, annualInfectionValues, sc.Population},
		{risk.MetricAnnualIllness, annualIllnessValues, sc.Population},
		{risk.MetricDALYs, dalyValues, 0},
	}
	for _, d := range derived {
		r, err := risk.NewResult(name, d.metric, d.values, perEvent.Seed, d.population)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.metric, err)
		}
		results[d.metric] = r
	}
	return results, nil
}

func allCompliant(verdicts []risk.Verdict) bool {
	for _, v := range verdicts {
		if v.Classification != risk.Compliant {
			return false
		}
	}
	return true
}
