// SPDX-License-Identifier: MIT
// Package: wayfind/builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   • Option constructors validate and panic on meaningless inputs.
//     Constructors themselves never panic.
//   • Determinism is explicit: randomness only via WithSeed.

package builder

import (
	"math"
	"math/rand"
)

// BuilderOption customizes constructors by mutating builderConfig before they run.
type BuilderOption func(*builderConfig)

// WithSeed enables a deterministic RNG for weight jitter.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithWeightJitter stretches each grid weight by up to frac of its length.
// Requires WithSeed to take effect. Panics on negative or NaN frac.
func WithWeightJitter(frac float64) BuilderOption {
	if frac < 0 || math.IsNaN(frac) {
		panic("builder: WithWeightJitter(frac < 0)")
	}

	return func(c *builderConfig) { c.jitter = frac }
}

// WithFloor sets the floor index stamped on generated grid records.
func WithFloor(floor int) BuilderOption {
	return func(c *builderConfig) { c.floor = floor }
}

// WithIDPrefix prefixes generated grid IDs, e.g. "F2:" → "F2:0,0".
func WithIDPrefix(prefix string) BuilderOption {
	return func(c *builderConfig) { c.prefix = prefix }
}
