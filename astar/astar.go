// SPDX-License-Identifier: MIT

package astar

import (
	"github.com/katalvlaran/wayfind/core"
	"github.com/katalvlaran/wayfind/frontier"
)

// Find returns a cheapest route from start to goal over g.
//
// Weights are read from g.Neighbors at the moment each location is expanded,
// so a live-weight network contributes the penalties current at that instant.
func Find(g core.Network, start, goal string, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	startLoc, ok := g.Location(start)
	if !ok {
		return nil, ErrStartNotFound
	}
	goalLoc, ok := g.Location(goal)
	if !ok {
		return nil, ErrGoalNotFound
	}

	r := &runner{
		g:       g,
		cfg:     cfg,
		goal:    goal,
		goalLoc: goalLoc,
		cost:    map[string]float64{start: 0},
		prev:    make(map[string]string),
		open:    frontier.New(16),
	}
	r.open.Push(start, cfg.Heuristic(startLoc, goalLoc))

	return r.process()
}

// runner holds the state of one search.
type runner struct {
	g        core.Network
	cfg      Options
	goal     string
	goalLoc  core.Location
	cost     map[string]float64 // best known g per location
	prev     map[string]string  // predecessor on the best known route
	open     *frontier.Frontier
	expanded int
}

func (r *runner) process() (*Result, error) {
	for {
		u, _, ok := r.open.Pop()
		if !ok {
			return nil, ErrNoPath
		}
		if err := r.cfg.Ctx.Err(); err != nil {
			return nil, err
		}
		if u == r.goal {
			return &Result{Path: r.path(u), Cost: r.cost[u], Expanded: r.expanded}, nil
		}
		r.expanded++
		r.relax(u)
	}
}

// relax offers every neighbor of u a route through u.
func (r *runner) relax(u string) {
	base := r.cost[u]
	for _, nb := range r.g.Neighbors(u) {
		next := base + nb.Weight
		if cur, seen := r.cost[nb.ID]; seen && next >= cur {
			continue
		}
		r.cost[nb.ID] = next
		r.prev[nb.ID] = u

		h := 0.0
		if loc, ok := r.g.Location(nb.ID); ok {
			h = r.cfg.Heuristic(loc, r.goalLoc)
		}
		r.open.Push(nb.ID, next+h)
	}
}

// path walks predecessors back from id and reverses.
func (r *runner) path(id string) []string {
	out := []string{id}
	for {
		p, ok := r.prev[id]
		if !ok {
			break
		}
		out = append(out, p)
		id = p
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}
