// SPDX-License-Identifier: MIT

// Package navigator is the routing engine the request layer talks to.
//
// It owns no state of its own beyond a graphstore.Store and a Recorder:
// every query initializes the store lazily, takes one View, and runs a
// search against it. Three query modes exist:
//
//	normal            - start and destination known: astar.Find.
//	emergency         - start known, go to the cheapest exit: dijkstra.Nearest.
//	optimal-entrance  - start unknown: try every entrance, keep the cheapest
//	                    realized route.
//
// Congestion reports update the live penalty first and are then persisted
// through the Recorder.
package navigator

import (
	"context"
	"log"
	"time"

	"github.com/katalvlaran/wayfind/astar"
	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
)

// Mode names the query mode that produced a Route.
type Mode string

const (
	ModeNormal          Mode = "normal"
	ModeEmergency       Mode = "emergency"
	ModeOptimalEntrance Mode = "optimal-entrance"
)

// Route is a complete answer: locations from start to goal inclusive.
type Route struct {
	Mode      Mode            `json:"mode"`
	Locations []core.Location `json:"path"`

	// Cost is the summed live weight along Locations when the route was computed.
	Cost float64 `json:"cost"`

	// Expanded counts search expansions, summed over entrances in optimal-entrance mode.
	Expanded int `json:"-"`
}

// IDs returns the location IDs of the route in travel order.
func (r *Route) IDs() []string {
	out := make([]string, len(r.Locations))
	for i, l := range r.Locations {
		out[i] = l.ID
	}

	return out
}

// Request is one navigation query.
type Request struct {
	StartID   string
	EndID     string
	QRID      string
	Emergency bool
}

// Recorder persists congestion observations. Durability is its concern.
type Recorder interface {
	PersistObservation(ctx context.Context, o congestion.Observation) error
	LoadObservations(ctx context.Context) ([]congestion.Observation, error)
}

// Audit lists evacuation problems of the current snapshot.
type Audit struct {
	// Stranded holds locations with no route to any exit, sorted.
	Stranded []string `json:"stranded"`

	// EntrancesWithoutExit holds entrances among Stranded.
	EntrancesWithoutExit []string `json:"entrancesWithoutExit"`

	// Crowded lists locations currently above Low.
	Crowded   []congestion.Entry `json:"crowded"`
	ExitCount int                `json:"exitCount"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithHeuristic sets the single-target heuristic. Default astar.Euclidean.
func WithHeuristic(h astar.Heuristic) Option {
	return func(e *Engine) {
		if h != nil {
			e.heuristic = h
		}
	}
}

// WithLogger sets the logger. Default log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides time.Now for observation timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
