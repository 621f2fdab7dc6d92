// SPDX-License-Identifier: MIT
//
// File: view.go
// Role: non-mutating views derived from a snapshot.

package core

// Reverse returns a new Graph with the same locations and every accepted
// connection flipped (target→source, same weight and floor). The input is
// not modified. Dropped dangling connections stay dropped.
//
// Used by reverse reachability: "who can reach an exit" is forward
// reachability from the exits over Reverse(g).
//
// Complexity: O(V log V + E log E).
func Reverse(g *Graph) *Graph {
	out := &Graph{
		locations:   make(map[string]Location, len(g.locations)),
		adjacency:   make(map[string][]Arc, len(g.adjacency)),
		qrIndex:     make(map[string]string, len(g.qrIndex)),
		ids:         append([]string(nil), g.ids...),
		entrances:   append([]string(nil), g.entrances...),
		exits:       append([]string(nil), g.exits...),
		floors:      append([]int(nil), g.floors...),
		connections: g.connections,
		dangling:    g.dangling,
	}
	for id, loc := range g.locations {
		out.locations[id] = loc
	}
	for qr, id := range g.qrIndex {
		out.qrIndex[qr] = id
	}
	// Walking sources in ID order appends reversed arcs already sorted by target.
	for _, src := range g.ids {
		for _, a := range g.adjacency[src] {
			out.adjacency[a.TargetID] = append(out.adjacency[a.TargetID], Arc{
				TargetID:   src,
				BaseWeight: a.BaseWeight,
				Floor:      a.Floor,
			})
		}
	}

	return out
}
