// SPDX-License-Identifier: MIT

// Package astar finds a cheapest route between two locations with heuristic
// best-first search over a core.Network.
//
// The frontier is ordered by f = g + h, where g is the cost paid so far and
// h is the heuristic estimate to the goal. Ties go to the smaller location
// ID. The search stops the moment the goal is popped.
//
// Heuristic:
//
//	Euclidean (default) - straight-line (x, y) distance to the goal, floors
//	                      ignored. Admissible while every connection costs at
//	                      least the planar distance it spans.
//	Zero                - h = 0; the search degrades to uniform-cost.
//
// Locations may be re-queued after expansion when a cheaper route to them
// turns up later, so an optimistic estimate across floors still yields a
// cheapest route.
//
// Complexity: O((V + E) log V) with a consistent heuristic.
//
// Errors (sentinel):
//
//	ErrStartNotFound - start is not a known location (wraps core.ErrLocationNotFound).
//	ErrGoalNotFound  - goal is not a known location (wraps core.ErrLocationNotFound).
//	ErrNoPath        - the frontier emptied before the goal was reached.
//
// Context cancellation is checked once per expansion and returned as is.
package astar

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/wayfind/core"
)

var (
	// ErrStartNotFound indicates an unknown start location.
	ErrStartNotFound = fmt.Errorf("astar: start: %w", core.ErrLocationNotFound)

	// ErrGoalNotFound indicates an unknown goal location.
	ErrGoalNotFound = fmt.Errorf("astar: goal: %w", core.ErrLocationNotFound)

	// ErrNoPath indicates the goal is unreachable from the start.
	ErrNoPath = errors.New("astar: no path")
)

// Heuristic estimates the remaining cost from a location to the goal.
type Heuristic func(from, goal core.Location) float64

// Euclidean is the straight-line planar distance heuristic.
func Euclidean(from, goal core.Location) float64 { return core.Distance(from, goal) }

// Zero is the null heuristic.
func Zero(core.Location, core.Location) float64 { return 0 }

// Options configures a search.
type Options struct {
	Ctx       context.Context
	Heuristic Heuristic
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns a background context and the Euclidean heuristic.
func DefaultOptions() Options {
	return Options{Ctx: context.Background(), Heuristic: Euclidean}
}

// WithContext sets the cancellation context. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithHeuristic replaces the heuristic. A nil h is ignored.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) {
		if h != nil {
			o.Heuristic = h
		}
	}
}

// Result is a found route.
type Result struct {
	// Path lists location IDs from start to goal inclusive.
	Path []string
	// Cost is the summed weight along Path as read during the search.
	Cost float64
	// Expanded counts popped locations, re-expansions included.
	Expanded int
}
