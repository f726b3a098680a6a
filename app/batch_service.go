package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"goqmra/domain/core"
	"goqmra/internal"
	apperrors "goqmra/internal/errors"
)

// BatchFailure records why one scenario of a batch did not complete.
type BatchFailure struct {
	Index   int                    `json:"index"`
	Name    string                 `json:"name,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Issues  []core.ValidationIssue `json:"issues,omitempty"`
}

// BatchResult holds one slot per submitted scenario. Assessments[i] is nil
// when scenario i failed; its failure is listed in Failures.
type BatchResult struct {
	ID          core.BatchID   `json:"id"`
	Assessments []*Assessment  `json:"assessments"`
	Failures    []BatchFailure `json:"failures,omitempty"`
	Succeeded   int            `json:"succeeded"`
	Failed      int            `json:"failed"`
	RuntimeMs   int64          `json:"runtime_ms"`
}

// BatchService runs independent scenarios concurrently. Each scenario gets
// its own seed and owns its own generators, so results do not depend on
// scheduling.
type BatchService struct {
	assessments *AssessmentService
	workers     int64
	baseSeed    int64
	logger      *internal.Logger
}

// NewBatchService creates a batch runner with at most workers scenarios in
// flight.
func NewBatchService(assessments *AssessmentService, workers int, baseSeed int64, logger *internal.Logger) *BatchService {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &BatchService{
		assessments: assessments,
		workers:     int64(workers),
		baseSeed:    baseSeed,
		logger:      logger,
	}
}

// Validate checks every scenario and returns a single report naming all
// failing fields, prefixed by scenario index.
func (b *BatchService) Validate(scenarios []Scenario) error {
	var report core.ValidationReport
	if len(scenarios) == 0 {
		report.Add("scenarios", "at least one scenario is required")
	}
	for i, sc := range scenarios {
		report.MergeErr(fmt.Sprintf("scenarios[%d]", i), sc.Validate())
	}
	return report.Err()
}

// Run assesses every scenario. A failing scenario never aborts the others;
// only cancellation of ctx stops the batch early, and scenarios that never
// started are reported as cancelled.
func (b *BatchService) Run(ctx context.Context, scenarios []Scenario) (*BatchResult, error) {
	start := time.Now()
	if len(scenarios) == 0 {
		return nil, core.NewValidationError("scenarios", "at least one scenario is required")
	}

	result := &BatchResult{
		ID:          core.NewBatchID(),
		Assessments: make([]*Assessment, len(scenarios)),
	}
	errs := make([]error, len(scenarios))
	sem := semaphore.NewWeighted(b.workers)
	g, gCtx := errgroup.WithContext(ctx)

	for i := range scenarios {
		sc := b.seeded(scenarios[i], i)
		if err := sem.Acquire(gCtx, 1); err != nil {
			for j := i; j < len(scenarios); j++ {
				errs[j] = err
			}
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			assessment, err := b.assessments.Assess(gCtx, sc)
			if err != nil {
				errs[i] = err
				return nil
			}
			result.Assessments[i] = assessment
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err == nil {
			result.Succeeded++
			continue
		}
		appErr := apperrors.FromDomain(err)
		result.Failures = append(result.Failures, BatchFailure{
			Index:   i,
			Name:    scenarios[i].Name,
			Code:    appErr.Code,
			Message: err.Error(),
			Issues:  appErr.Issues,
		})
	}
	result.Failed = len(result.Failures)
	result.RuntimeMs = time.Since(start).Milliseconds()

	b.logger.Info("batch %s finished: %d succeeded, %d failed in %dms",
		result.ID, result.Succeeded, result.Failed, result.RuntimeMs)
	return result, ctx.Err()
}

// seeded pins the scenario seed so a batch is reproducible: an explicit seed
// wins, otherwise base seed plus index.
func (b *BatchService) seeded(sc Scenario, index int) Scenario {
	if sc.Seed == nil {
		seed := b.baseSeed + int64(index)
		sc.Seed = &seed
	}
	return sc
}
