package ports

import (
	"context"
	"math/rand/v2"
)

// RNGPort provides seeded random number generation for deterministic simulation.
// Every sampling call receives an explicit generator obtained here; nothing in
// the engine touches a process-wide random state.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named input
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for a named input inside a scope
	// (for example one scenario of a batch). Equal (scope, name, baseSeed)
	// triples always yield identical sequences.
	Stream(ctx context.Context, scope, name string, baseSeed int64) (*rand.Rand, error)
}
