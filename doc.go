// Package wayfind is a crowd-aware indoor navigation engine: it routes people
// through a building whose corridors get costlier as they fill up.
//
// 🚀 What is wayfind?
//
//	A routing service built from small, testable packages:
//		• Building model: locations, directed connections, entrances, exits, QR codes
//		• Live congestion: occupancy → Low/Medium/High → +0/+5/+20 on entering edges
//		• Single-target search: A* with a Euclidean heuristic
//		• Evacuation search: uniform-cost search to the cheapest exit
//		• Entrance selection: the cheapest route from any public entrance
//		• Evacuation audit: locations that cannot reach any exit
//
// ✨ Why wayfind?
//
//   - Deterministic - equal-cost ties break by location ID
//   - Concurrent - immutable snapshots, one shared load, live per-key penalties
//   - Pluggable storage - memory, SQLite, Genji, DuckDB or PostgreSQL
//
// Package layout:
//
//	core/        - Location, Connection and the immutable Graph snapshot
//	congestion/  - tiers, penalties and the live penalty Board
//	frontier/    - indexed min-heap with decrease-key
//	astar/       - single-target search
//	dijkstra/    - nearest-target search (exits by default)
//	reach/       - multi-source reachability
//	graphstore/  - snapshot lifecycle and the live-weight View
//	navigator/   - request dispatch, entrance selection, congestion reports
//	builder/     - demo building and grid fixtures
//	repository/  - memory, sqlstore and postgres backends
//	server/      - HTTP surface
//	cmd/wayfind/ - the binary
//
// Quick ASCII example (weights in meters):
//
//	entry1 ──10── hallway1 ──10── hallway2 ──10── exit1
//
//	Eight people reported in hallway2 make every route through it 20 dearer.
//
//	go install github.com/katalvlaran/wayfind/cmd/wayfind@latest
package wayfind
