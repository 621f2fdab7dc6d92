// SPDX-License-Identifier: MIT

package dijkstra

import (
	"github.com/katalvlaran/wayfind/core"
	"github.com/katalvlaran/wayfind/frontier"
)

// Nearest returns the cheapest route from start to any location accepted by
// the target predicate (an exit unless WithTarget says otherwise).
//
// Preconditions and validation (in order):
//  1. start must exist in g (ErrStartNotFound).
//
// A start that is itself a target yields a single-location route with cost 0.
// Weights are polled from g.Neighbors at each expansion, so a live-weight
// network makes a far but empty exit win over a near but crowded one.
func Nearest(g core.Network, start string, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, ok := g.Location(start); !ok {
		return nil, ErrStartNotFound
	}

	r := &runner{
		g:       g,
		options: cfg,
		dist:    map[string]float64{start: 0},
		prev:    make(map[string]string),
		visited: make(map[string]bool),
		pq:      frontier.New(16),
	}
	r.pq.Push(start, 0)

	return r.process()
}

// runner holds the mutable state for a single search.
type runner struct {
	g        core.Network
	options  Options
	dist     map[string]float64 // best known cost from start
	prev     map[string]string  // predecessor on the best known route
	visited  map[string]bool    // finalized locations
	pq       *frontier.Frontier
	expanded int
}

// process pops the closest unfinalized location until a target is finalized,
// the frontier empties, or the closest remaining cost exceeds MaxDistance.
func (r *runner) process() (*Result, error) {
	for {
		u, d, ok := r.pq.Pop()
		if !ok || d > r.options.MaxDistance {
			return nil, ErrNoTarget
		}
		if err := r.options.Ctx.Err(); err != nil {
			return nil, err
		}
		r.visited[u] = true

		if loc, ok := r.g.Location(u); ok && r.options.Target(loc) {
			return &Result{Path: r.path(u), Cost: d, Expanded: r.expanded}, nil
		}
		r.expanded++
		r.relax(u)
	}
}

// relax improves the cost of every unfinalized neighbor reachable through u.
func (r *runner) relax(u string) {
	for _, nb := range r.g.Neighbors(u) {
		if r.visited[nb.ID] {
			continue
		}
		next := r.dist[u] + nb.Weight
		if cur, seen := r.dist[nb.ID]; seen && next >= cur {
			continue
		}
		r.dist[nb.ID] = next
		r.prev[nb.ID] = u
		r.pq.Push(nb.ID, next)
	}
}

// path rebuilds start … id from the predecessor map.
func (r *runner) path(id string) []string {
	var rev []string
	for cur, ok := id, true; ok; cur, ok = r.prev[cur] {
		rev = append(rev, cur)
	}
	out := make([]string, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}

	return out
}
