// SPDX-License-Identifier: MIT
//
// File: api.go
// Role: read-only diagnostics over a snapshot.

package core

// Stats summarizes a snapshot for admission checks and the stats endpoint.
type Stats struct {
	LocationCount       int   `json:"locationCount"`
	ConnectionCount     int   `json:"connectionCount"`
	DanglingConnections int   `json:"danglingConnections"`
	EntranceCount       int   `json:"entranceCount"`
	ExitCount           int   `json:"exitCount"`
	QRCount             int   `json:"qrCount"`
	Floors              []int `json:"floors"`
}

// Stats returns counts gathered at construction time.
//
// Complexity: O(F) for copying the floor list.
func (g *Graph) Stats() Stats {
	floors := make([]int, len(g.floors))
	copy(floors, g.floors)

	return Stats{
		LocationCount:       len(g.ids),
		ConnectionCount:     g.connections,
		DanglingConnections: g.dangling,
		EntranceCount:       len(g.entrances),
		ExitCount:           len(g.exits),
		QRCount:             len(g.qrIndex),
		Floors:              floors,
	}
}

// Connections returns every accepted connection ordered by source then target.
// Dropped dangling connections are not included.
//
// Complexity: O(V + E).
func (g *Graph) Connections() []Connection {
	out := make([]Connection, 0, g.connections)
	for _, src := range g.ids {
		for _, a := range g.adjacency[src] {
			out = append(out, Connection{SourceID: src, TargetID: a.TargetID, Weight: a.BaseWeight, Floor: a.Floor})
		}
	}

	return out
}
