// SPDX-License-Identifier: MIT
// Package: wayfind/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • rng    = nil        (no jitter unless seeded)
//   • jitter = 0          (weights equal the spacing)
//   • floor  = core.DefaultFloor
//   • prefix = ""         (grid IDs are "r,c")

package builder

import (
	"math/rand"

	"github.com/katalvlaran/wayfind/core"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by value to constructors.
type builderConfig struct {
	rng    *rand.Rand
	jitter float64 // weight = spacing * (1 + jitter*U[0,1)) when rng != nil
	floor  int
	prefix string
}

// newBuilderConfig applies opts in order over the defaults (last wins).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{floor: core.DefaultFloor}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// weight returns the base weight for a hop of length d.
func (c builderConfig) weight(d float64) float64 {
	if c.rng == nil || c.jitter == 0 {
		return d
	}

	return d * (1 + c.jitter*c.rng.Float64())
}
