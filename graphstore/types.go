// SPDX-License-Identifier: MIT

// Package graphstore holds the shared building graph: an immutable core.Graph
// snapshot swapped atomically on reload, and a congestion.Board consulted on
// every neighbor query.
//
// Concurrency model:
//
//   - Readers call View() and search against the returned View. A reload
//     stores a new snapshot; views taken earlier keep the old one.
//   - The first EnsureInitialized and every Initialize share one in-flight
//     load through singleflight, so racing callers never rebuild twice and
//     never see a half-built graph.
//   - UpdateCongestion writes a single board entry; searches read penalties
//     live, per expanded connection.
//
// Errors:
//
//	ErrStoreUnavailable - loading from the Source failed or produced an invalid graph.
//	ErrNotInitialized   - View was called before any successful load.
package graphstore

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
)

var (
	// ErrStoreUnavailable wraps every failure of the load path.
	ErrStoreUnavailable = errors.New("graphstore: store unavailable")

	// ErrNotInitialized indicates no snapshot has been loaded yet.
	ErrNotInitialized = errors.New("graphstore: not initialized")
)

// DefaultLoadTimeout bounds a single load from the Source.
const DefaultLoadTimeout = 10 * time.Second

// Source is the persistent collaborator the store is rebuilt from.
type Source interface {
	LoadLocations(ctx context.Context) ([]core.Location, error)
	LoadConnections(ctx context.Context) ([]core.Connection, error)
	LoadObservations(ctx context.Context) ([]congestion.Observation, error)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load reports. Default: log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGraphOptions forwards options to core.NewGraph on every load.
func WithGraphOptions(opts ...core.GraphOption) Option {
	return func(s *Store) { s.graphOpts = append(s.graphOpts, opts...) }
}

// WithLoadTimeout bounds each load. Non-positive values keep the default.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// WithReloadHook registers fn to run after every successful load.
func WithReloadHook(fn func(core.Stats)) Option {
	return func(s *Store) { s.onReload = fn }
}
