// SPDX-License-Identifier: MIT

// File: methods.go
// Role: snapshot construction and read-only queries.
//
// Everything in this file operates on an already-built Graph or builds a new
// one. No method mutates a Graph after NewGraph returns, so none of them lock.

package core

import (
	"fmt"
	"math"
	"sort"
)

// NewGraph validates locations and connections and builds an immutable snapshot.
//
// Validation order:
//  1. Every location has a non-empty, unique ID (ErrEmptyLocationID, ErrDuplicateLocation).
//  2. Non-empty QR IDs are unique (ErrDuplicateQR).
//  3. Every connection has non-empty endpoints and a non-negative weight
//     (ErrEmptyLocationID, ErrNegativeWeight).
//  4. A (source, target) pair appears at most once (ErrDuplicateConnection).
//  5. Connections with an unknown endpoint are dropped, or rejected with
//     ErrDanglingConnection under WithStrictConnections.
//
// Complexity: O(V log V + E log E).
func NewGraph(locations []Location, connections []Connection, opts ...GraphOption) (*Graph, error) {
	var cfg graphConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Graph{
		locations: make(map[string]Location, len(locations)),
		adjacency: make(map[string][]Arc, len(locations)),
		qrIndex:   make(map[string]string),
		ids:       make([]string, 0, len(locations)),
	}

	floorSet := make(map[int]struct{})
	for _, loc := range locations {
		if loc.ID == "" {
			return nil, ErrEmptyLocationID
		}
		if _, dup := g.locations[loc.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLocation, loc.ID)
		}
		if loc.QRID != "" {
			if owner, dup := g.qrIndex[loc.QRID]; dup {
				return nil, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateQR, loc.QRID, owner, loc.ID)
			}
			g.qrIndex[loc.QRID] = loc.ID
		}
		if loc.Floor == 0 {
			loc.Floor = DefaultFloor
		}
		g.locations[loc.ID] = loc
		g.ids = append(g.ids, loc.ID)
		if loc.IsEntrance {
			g.entrances = append(g.entrances, loc.ID)
		}
		if loc.IsExit {
			g.exits = append(g.exits, loc.ID)
		}
		floorSet[loc.Floor] = struct{}{}
	}

	seen := make(map[[2]string]struct{}, len(connections))
	for _, c := range connections {
		if c.SourceID == "" || c.TargetID == "" {
			return nil, fmt.Errorf("%w: connection %q→%q", ErrEmptyLocationID, c.SourceID, c.TargetID)
		}
		if c.Weight < 0 || math.IsNaN(c.Weight) {
			return nil, fmt.Errorf("%w: %s→%s weight=%g", ErrNegativeWeight, c.SourceID, c.TargetID, c.Weight)
		}
		key := [2]string{c.SourceID, c.TargetID}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s→%s", ErrDuplicateConnection, c.SourceID, c.TargetID)
		}
		seen[key] = struct{}{}

		_, srcOK := g.locations[c.SourceID]
		_, dstOK := g.locations[c.TargetID]
		if !srcOK || !dstOK {
			if cfg.strict {
				return nil, fmt.Errorf("%w: %s→%s", ErrDanglingConnection, c.SourceID, c.TargetID)
			}
			g.dangling++
			continue
		}
		if c.Floor == 0 {
			c.Floor = DefaultFloor
		}
		g.adjacency[c.SourceID] = append(g.adjacency[c.SourceID], Arc{TargetID: c.TargetID, BaseWeight: c.Weight, Floor: c.Floor})
		g.connections++
	}

	for _, arcs := range g.adjacency {
		sort.Slice(arcs, func(i, j int) bool { return arcs[i].TargetID < arcs[j].TargetID })
	}
	sort.Strings(g.ids)
	sort.Strings(g.entrances)
	sort.Strings(g.exits)
	g.floors = make([]int, 0, len(floorSet))
	for f := range floorSet {
		g.floors = append(g.floors, f)
	}
	sort.Ints(g.floors)

	return g, nil
}

// Location returns the location with the given ID.
// Complexity: O(1).
func (g *Graph) Location(id string) (Location, bool) {
	loc, ok := g.locations[id]

	return loc, ok
}

// HasLocation reports whether id is a known location.
func (g *Graph) HasLocation(id string) bool {
	_, ok := g.locations[id]

	return ok
}

// Arcs returns a copy of the outgoing arcs of id sorted by target ID.
// Unknown IDs and locations without outgoing connections yield nil.
// Complexity: O(d).
func (g *Graph) Arcs(id string) []Arc {
	arcs := g.adjacency[id]
	if len(arcs) == 0 {
		return nil
	}
	out := make([]Arc, len(arcs))
	copy(out, arcs)

	return out
}

// Neighbors implements Network with base weights only.
func (g *Graph) Neighbors(id string) []Neighbor {
	arcs := g.adjacency[id]
	out := make([]Neighbor, 0, len(arcs))
	for _, a := range arcs {
		out = append(out, Neighbor{ID: a.TargetID, Weight: a.BaseWeight})
	}

	return out
}

// LocationByQR resolves a QR code ID to its location.
func (g *Graph) LocationByQR(qrID string) (Location, bool) {
	id, ok := g.qrIndex[qrID]
	if !ok {
		return Location{}, false
	}

	return g.locations[id], true
}

// Locations returns every location sorted by ID.
// Complexity: O(V).
func (g *Graph) Locations() []Location {
	return g.collect(g.ids)
}

// Entrances returns the designated entrances sorted by ID.
func (g *Graph) Entrances() []Location {
	return g.collect(g.entrances)
}

// Exits returns the designated exits sorted by ID.
func (g *Graph) Exits() []Location {
	return g.collect(g.exits)
}

func (g *Graph) collect(ids []string) []Location {
	out := make([]Location, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.locations[id])
	}

	return out
}

// Distance is the straight-line planar distance between a and b. Floors are ignored.
func Distance(a, b Location) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
