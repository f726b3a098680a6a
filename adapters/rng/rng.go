package rng

import (
	"context"
	"hash/fnv"
	"math/rand/v2"

	"goqmra/ports"
)

// Adapter implements ports.RNGPort with PCG generators whose two seed words are
// the caller's seed and a hash of the stream name.
type Adapter struct{}

var _ ports.RNGPort = (*Adapter)(nil)

// New returns the deterministic RNG adapter
func New() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named input
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewPCG(uint64(seed), hashString(name))), nil
}

// Stream creates a deterministic RNG stream for a named input inside a scope
func (a *Adapter) Stream(ctx context.Context, scope, name string, baseSeed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := uint64(baseSeed)
	if scope != "" {
		seed ^= hashString(scope)
	}
	return rand.New(rand.NewPCG(seed, hashString(name))), nil
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
