// SPDX-License-Identifier: MIT

// Package reach answers "which locations can be reached from this set of
// sources" with breadth-first search, ignoring weights.
//
// The evacuation audit runs it from every exit over core.Reverse(g): a
// location that is not reached has no route to any exit.
package reach

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/wayfind/core"
)

type queueItem struct {
	id    string
	depth int
}

// walker encapsulates mutable state of one run.
type walker struct {
	net     core.Network
	opts    Options
	ctx     context.Context
	queue   []queueItem
	visited map[string]bool
	res     *Result
}

// From runs breadth-first search on g from every ID in sources at depth 0.
// Sources are deduplicated and seeded in ID order, so the result is
// deterministic.
func From(g core.Network, sources []string, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrNetworkNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	seeds := append([]string(nil), sources...)
	sort.Strings(seeds)
	for _, id := range seeds {
		if _, ok := g.Location(id); !ok {
			return nil, fmt.Errorf("%w: %q", ErrSourceNotFound, id)
		}
	}

	w := &walker{
		net:     g,
		opts:    o,
		ctx:     o.Ctx,
		visited: make(map[string]bool),
		res: &Result{
			Depth:  make(map[string]int),
			Parent: make(map[string]string),
		},
	}
	for _, id := range seeds {
		if !w.visited[id] {
			w.enqueue(id, 0, "")
		}
	}

	return w.res, w.loop()
}

func (w *walker) enqueue(id string, d int, parent string) {
	w.visited[id] = true
	w.res.Depth[id] = d
	if parent != "" {
		w.res.Parent[id] = parent
	}
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.OnVisit(item.id, item.depth); err != nil {
			return fmt.Errorf("reach: OnVisit error at %q: %w", item.id, err)
		}

		next := item.depth + 1
		if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
			continue
		}
		for _, nb := range w.net.Neighbors(item.id) {
			if w.visited[nb.ID] || !w.opts.FilterNeighbor(item.id, nb.ID) {
				continue
			}
			w.enqueue(nb.ID, next, item.id)
		}
	}

	return nil
}
