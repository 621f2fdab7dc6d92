// SPDX-License-Identifier: MIT

// Package memory is an in-process repository. It backs the "memory" database
// type and the tests of every package that needs a graphstore.Source.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
)

// Repository keeps locations, connections and the latest observation per
// location in maps guarded by one RWMutex.
type Repository struct {
	mu           sync.RWMutex
	locations    []core.Location
	connections  []core.Connection
	observations map[string]congestion.Observation

	// FailLoad, when non-nil, is returned by every Load* call.
	FailLoad error
	// FailPersist, when non-nil, is returned by PersistObservation.
	FailPersist error
}

// New returns a Repository holding locs and conns.
func New(locs []core.Location, conns []core.Connection) *Repository {
	r := &Repository{observations: make(map[string]congestion.Observation)}
	r.locations = append(r.locations, locs...)
	r.connections = append(r.connections, conns...)

	return r
}

// Seed replaces all locations and connections and drops every observation.
func (r *Repository) Seed(_ context.Context, locs []core.Location, conns []core.Connection) error {
	r.mu.Lock()
	r.locations = append([]core.Location(nil), locs...)
	r.connections = append([]core.Connection(nil), conns...)
	r.observations = make(map[string]congestion.Observation)
	r.mu.Unlock()

	return nil
}

// LoadLocations returns a copy of the stored locations.
func (r *Repository) LoadLocations(_ context.Context) ([]core.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.FailLoad != nil {
		return nil, r.FailLoad
	}

	return append([]core.Location(nil), r.locations...), nil
}

// LoadConnections returns a copy of the stored connections.
func (r *Repository) LoadConnections(_ context.Context) ([]core.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.FailLoad != nil {
		return nil, r.FailLoad
	}

	return append([]core.Connection(nil), r.connections...), nil
}

// LoadObservations returns the latest observation per location sorted by ID.
func (r *Repository) LoadObservations(_ context.Context) ([]congestion.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.FailLoad != nil {
		return nil, r.FailLoad
	}
	out := make([]congestion.Observation, 0, len(r.observations))
	for _, o := range r.observations {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })

	return out, nil
}

// PersistObservation upserts o by location ID.
func (r *Repository) PersistObservation(_ context.Context, o congestion.Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailPersist != nil {
		return r.FailPersist
	}
	if r.observations == nil {
		r.observations = make(map[string]congestion.Observation)
	}
	r.observations[o.LocationID] = o

	return nil
}

// Close is a no-op.
func (r *Repository) Close() error { return nil }
