// Package montecarlo draws named input distributions, evaluates a model per
// iteration and summarises the ensemble.
package montecarlo

import (
	"context"
	"math/rand/v2"
	"sort"

	"goqmra/domain/core"
	"goqmra/internal/distribution"
	"goqmra/ports"
)

// DefaultBatchSize is the number of iterations between cancellation checks.
const DefaultBatchSize = 1000

// ScalarModel evaluates one iteration from one sample per named input.
type ScalarModel func(samples map[string]float64) float64

// VectorModel evaluates all iterations at once from one array per named
// input. It must be element-wise to be equivalent to its ScalarModel.
type VectorModel func(samples map[string][]float64) []float64

type input struct {
	name string
	dist distribution.Distribution
}

// Engine holds the named inputs of a simulation. Each input draws from its own
// stream, derived from the run seed and the input name, so scalar and
// vectorized runs consume identical sequences.
type Engine struct {
	rng       ports.RNGPort
	inputs    []input
	batchSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithBatchSize sets the number of iterations between cancellation checks.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// NewEngine creates an engine drawing its streams from rng.
func NewEngine(rng ports.RNGPort, opts ...Option) *Engine {
	e := &Engine{rng: rng, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddInput registers a named input. Names must be unique.
func (e *Engine) AddInput(name string, d distribution.Distribution) error {
	if name == "" {
		return core.NewConfigurationError("montecarlo.input", "name is required")
	}
	if d == nil {
		return core.NewConfigurationError("montecarlo.input."+name, "distribution is required")
	}
	for _, in := range e.inputs {
		if in.name == name {
			return core.NewConfigurationError("montecarlo.input."+name, "already registered")
		}
	}
	e.inputs = append(e.inputs, input{name: name, dist: d})
	sort.Slice(e.inputs, func(i, j int) bool { return e.inputs[i].name < e.inputs[j].name })
	return nil
}

// Inputs lists the registered input names in sorted order.
func (e *Engine) Inputs() []string {
	names := make([]string, len(e.inputs))
	for i, in := range e.inputs {
		names[i] = in.name
	}
	return names
}

// Run evaluates model once per iteration.
func (e *Engine) Run(ctx context.Context, model ScalarModel, n int, seed int64) (*Result, error) {
	if model == nil {
		return nil, core.NewConfigurationError("montecarlo.model", "is required")
	}
	streams, err := e.streams(ctx, n, seed)
	if err != nil {
		return nil, err
	}

	outcomes := make([]float64, n)
	samples := make(map[string]float64, len(e.inputs))
	for start := 0; start < n; start += e.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+e.batchSize, n)
		for i := start; i < end; i++ {
			for k, in := range e.inputs {
				samples[in.name] = in.dist.Rand(streams[k])
			}
			outcomes[i] = model(samples)
		}
	}
	return NewResult(outcomes, seed)
}

// RunVectorized draws every input up front and evaluates model once.
func (e *Engine) RunVectorized(ctx context.Context, model VectorModel, n int, seed int64) (*Result, error) {
	if model == nil {
		return nil, core.NewConfigurationError("montecarlo.model", "is required")
	}
	samples, err := e.Draw(ctx, n, seed)
	if err != nil {
		return nil, err
	}
	outcomes := model(samples)
	if len(outcomes) != n {
		return nil, core.NewPreconditionError("montecarlo.run", "vector model must return one outcome per iteration")
	}
	return NewResult(outcomes, seed)
}

// Draw returns n samples per input, checking ctx between batches.
func (e *Engine) Draw(ctx context.Context, n int, seed int64) (map[string][]float64, error) {
	streams, err := e.streams(ctx, n, seed)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float64, len(e.inputs))
	for k, in := range e.inputs {
		values := make([]float64, n)
		for start := 0; start < n; start += e.batchSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			end := min(start+e.batchSize, n)
			for i := start; i < end; i++ {
				values[i] = in.dist.Rand(streams[k])
			}
		}
		out[in.name] = values
	}
	return out, nil
}

func (e *Engine) streams(ctx context.Context, n int, seed int64) ([]*rand.Rand, error) {
	if n <= 0 {
		return nil, core.NewValidationError("n_iterations", "must be > 0")
	}
	if e.rng == nil {
		return nil, core.NewPreconditionError("montecarlo.run", "no random stream provider")
	}
	streams := make([]*rand.Rand, len(e.inputs))
	for k, in := range e.inputs {
		s, err := e.rng.SeededStream(ctx, in.name, seed)
		if err != nil {
			return nil, err
		}
		streams[k] = s
	}
	return streams, nil
}
