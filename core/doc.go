// SPDX-License-Identifier: MIT

// Package core defines the building graph that every other wayfind package
// reads: locations, directed connections, and the immutable Graph snapshot
// built from them.
//
// A Graph G = (V, E) is assembled once by NewGraph from the full set of
// records loaded out of a repository:
//
//   - V: Location values keyed by a unique string ID, carrying planar (x, y)
//     coordinates, a floor index, entrance/exit flags, an optional display
//     name and an optional unique QR code ID.
//   - E: directed Connection values with a non-negative base weight.
//     Walking both ways between two locations needs two connections.
//
// Snapshot rules:
//
//   - A Graph is never mutated after NewGraph returns. Readers share it
//     freely without locks. A reload builds a new Graph.
//   - Adjacency lists are sorted by target ID and Locations(), Entrances()
//     and Exits() are sorted by ID, so iteration order is deterministic.
//   - Connections with an unknown endpoint are dropped and counted
//     (Stats().DanglingConnections) unless WithStrictConnections is set.
//
// Congestion is not stored here. Searches consume the Network interface;
// *Graph implements it with base weights, and graphstore.View implements it
// with live weights (base weight plus the congestion penalty of the target).
//
// Example:
//
//	g, err := core.NewGraph(
//		[]core.Location{{ID: "A"}, {ID: "B", X: 10, IsExit: true}},
//		[]core.Connection{{SourceID: "A", TargetID: "B", Weight: 10}},
//	)
//	if err != nil {
//		return err
//	}
//	for _, nb := range g.Neighbors("A") {
//		fmt.Println(nb.ID, nb.Weight) // B 10
//	}
package core
