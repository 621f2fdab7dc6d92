// SPDX-License-Identifier: MIT

package graphstore

import (
	"fmt"

	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
)

// View is one snapshot read through the live penalty board.
// It implements core.Network with live weights.
type View struct {
	g     *core.Graph
	board *congestion.Board
}

// NewView pairs g with board. A nil board means no congestion.
func NewView(g *core.Graph, board *congestion.Board) View {
	if board == nil {
		board = congestion.NewBoard()
	}

	return View{g: g, board: board}
}

// Graph returns the underlying snapshot.
func (v View) Graph() *core.Graph { return v.g }

// Location returns the location with the given ID.
func (v View) Location(id string) (core.Location, bool) {
	return v.g.Location(id)
}

// Neighbors returns the outgoing targets of id weighted base + penalty(target).
// Penalties are read at call time. Unknown IDs yield an empty list.
func (v View) Neighbors(id string) []core.Neighbor {
	arcs := v.g.Arcs(id)
	out := make([]core.Neighbor, 0, len(arcs))
	for _, a := range arcs {
		out = append(out, core.Neighbor{ID: a.TargetID, Weight: a.BaseWeight + v.board.Penalty(a.TargetID)})
	}

	return out
}

// LiveWeight returns the current weight of the connection src→dst.
func (v View) LiveWeight(src, dst string) (float64, bool) {
	for _, a := range v.g.Arcs(src) {
		if a.TargetID == dst {
			return a.BaseWeight + v.board.Penalty(dst), true
		}
	}

	return 0, false
}

// PathCost sums live weights along ids. A single-location path costs 0.
func (v View) PathCost(ids []string) (float64, error) {
	var total float64
	for i := 1; i < len(ids); i++ {
		w, ok := v.LiveWeight(ids[i-1], ids[i])
		if !ok {
			return 0, fmt.Errorf("graphstore: no connection %s→%s", ids[i-1], ids[i])
		}
		total += w
	}

	return total, nil
}
