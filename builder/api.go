// SPDX-License-Identifier: MIT
// Package: wayfind/builder
//
// api.go - public entry-points for the builder package.
//
// Design contract:
//   - One orchestrator: Build(bopts, cons...). Resolves cfg, runs cons in order on one Plan.
//   - Constructors only append records; validation happens once, in core.NewGraph.
//   - Determinism: same options, seed and constructor order ⇒ identical plans.

package builder

import (
	"fmt"

	"github.com/katalvlaran/wayfind/core"
)

// Plan is the record set a building is seeded from: what a repository
// stores and what core.NewGraph consumes.
type Plan struct {
	Locations   []core.Location
	Connections []core.Connection
}

// Graph validates the plan into an immutable snapshot.
func (p *Plan) Graph(opts ...core.GraphOption) (*core.Graph, error) {
	return core.NewGraph(p.Locations, p.Connections, opts...)
}

// Constructor appends locations and/or connections to a Plan using the
// resolved builderConfig. Constructors validate their parameters and
// return sentinel errors; they never panic.
type Constructor func(p *Plan, cfg builderConfig) error

// Build resolves the builder configuration from bopts and applies every
// constructor in order to an empty Plan. Constructor errors are wrapped
// with "Build: %w" and returned immediately.
func Build(bopts []BuilderOption, cons ...Constructor) (*Plan, error) {
	cfg := newBuilderConfig(bopts...)
	p := &Plan{}
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("Build: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(p, cfg); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}

	return p, nil
}

// Layout parses a seed layout name: "demo" or "grid:RxC" (e.g. "grid:4x6").
// Grid layouts use DefaultSpacing.
func Layout(name string, bopts ...BuilderOption) (*Plan, error) {
	if name == "" || name == "demo" {
		return Build(bopts, Demo())
	}
	var rows, cols int
	if _, err := fmt.Sscanf(name, "grid:%dx%d", &rows, &cols); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}

	return Build(bopts, Grid(rows, cols, DefaultSpacing))
}
