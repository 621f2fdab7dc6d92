// SPDX-License-Identifier: MIT

// Package dijkstra defines the types and options of the uniform-cost
// nearest-target search.
//
// Nearest expands locations in order of increasing cumulative cost from the
// start and stops at the first finalized location that satisfies the target
// predicate. A finalized location is never reprocessed.
//
// Complexity:
//
//	– Time:  O((V + E) log V)
//	   • Each location is finalized at most once.
//	   • Each relaxation re-keys at most one frontier entry in O(log V).
//	– Space: O(V) for the cost and predecessor maps and the frontier.
//
// Options:
//
//	– Ctx:         cancellation checked once per finalized location.
//	– Target:      predicate selecting goal locations. Default: IsExit.
//	– MaxDistance: locations farther than this are never finalized. Default: +Inf.
//
// Errors (sentinel):
//
//	– ErrStartNotFound  if the start ID is unknown (wraps core.ErrLocationNotFound).
//	– ErrNoTarget       if the frontier empties before any target is finalized.
//	– ErrBadMaxDistance if MaxDistance < 0 or NaN (panics from WithMaxDistance).
//
// Example usage:
//
//	res, err := dijkstra.Nearest(view, "hallway1")
//	if errors.Is(err, dijkstra.ErrNoTarget) {
//	    // no reachable exit
//	}
//	fmt.Println(res.Path, res.Cost)
package dijkstra

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/wayfind/core"
)

// Sentinel errors returned by Nearest.
var (
	// ErrStartNotFound indicates that the start location does not exist.
	ErrStartNotFound = fmt.Errorf("dijkstra: start: %w", core.ErrLocationNotFound)

	// ErrNoTarget indicates that no location matching the target predicate is reachable.
	ErrNoTarget = errors.New("dijkstra: no reachable target")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative value or NaN.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")
)

// Target reports whether a finalized location ends the search.
type Target func(core.Location) bool

// IsExit is the default Target.
func IsExit(l core.Location) bool { return l.IsExit }

// IsEntrance matches designated entrances.
func IsEntrance(l core.Location) bool { return l.IsEntrance }

// Options configures Nearest.
type Options struct {
	Ctx         context.Context
	Target      Target
	MaxDistance float64
}

// Option represents a functional option for configuring Nearest.
type Option func(*Options)

// DefaultOptions returns a background context, the IsExit target and no distance cap.
func DefaultOptions() Options {
	return Options{
		Ctx:         context.Background(),
		Target:      IsExit,
		MaxDistance: math.Inf(1),
	}
}

// WithContext sets the cancellation context. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithTarget replaces the target predicate. A nil t is ignored.
func WithTarget(t Target) Option {
	return func(o *Options) {
		if t != nil {
			o.Target = t
		}
	}
}

// WithMaxDistance caps the explored cost.
// Must pass a non-negative value; negative or NaN values panic with ErrBadMaxDistance.
func WithMaxDistance(max float64) Option {
	return func(o *Options) {
		if max < 0 || math.IsNaN(max) {
			panic(ErrBadMaxDistance.Error())
		}
		o.MaxDistance = max
	}
}

// Result is the route to the nearest target.
type Result struct {
	Path     []string // start … target inclusive
	Cost     float64  // summed weight as read during the search
	Expanded int      // finalized locations, target excluded
}
