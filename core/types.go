// SPDX-License-Identifier: MIT

// File: types.go
// Role: Location, Connection and Graph types, construction options and sentinel errors.
//
// Errors:
//
//	ErrEmptyLocationID     - location or connection endpoint ID is empty.
//	ErrLocationNotFound    - requested location does not exist.
//	ErrDuplicateLocation   - two locations share one ID.
//	ErrDuplicateQR         - two locations share one QR code ID.
//	ErrDuplicateConnection - two connections share one (source, target) pair.
//	ErrNegativeWeight      - a connection carries a negative base weight.
//	ErrDanglingConnection  - an endpoint is unknown (strict mode only).

package core

import (
	"errors"
)

// Sentinel errors for core graph construction and lookup.
var (
	// ErrEmptyLocationID indicates that a location or connection endpoint has an empty ID.
	ErrEmptyLocationID = errors.New("core: location ID is empty")

	// ErrLocationNotFound indicates an operation referenced a non-existent location.
	ErrLocationNotFound = errors.New("core: location not found")

	// ErrDuplicateLocation indicates two locations with the same ID.
	ErrDuplicateLocation = errors.New("core: duplicate location ID")

	// ErrDuplicateQR indicates two locations carrying the same QR code ID.
	ErrDuplicateQR = errors.New("core: duplicate QR code ID")

	// ErrDuplicateConnection indicates two connections with the same direction and endpoints.
	ErrDuplicateConnection = errors.New("core: duplicate connection")

	// ErrNegativeWeight indicates a connection with a negative base weight.
	ErrNegativeWeight = errors.New("core: negative connection weight")

	// ErrDanglingConnection indicates a connection whose endpoint is not a known location.
	ErrDanglingConnection = errors.New("core: connection endpoint not found")
)

// DefaultFloor is the floor index assumed when a record does not carry one.
// NewGraph stores it in place of a zero Floor; floor 0 cannot be modelled.
const DefaultFloor = 1

// Location is a navigable point inside the building.
//
// ID uniquely identifies the location. X and Y are planar coordinates in the
// same unit as connection weights (meters in practice). Floor is carried as
// metadata only; it does not participate in distance estimates.
type Location struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Floor      int     `json:"floor"`
	IsEntrance bool    `json:"isEntrance"`
	IsExit     bool    `json:"isExit"`
	Name       string  `json:"name,omitempty"`
	QRID       string  `json:"qrId,omitempty"`
}

// DisplayName returns Name, or "Location <id>" when the location is unnamed.
func (l Location) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}

	return "Location " + l.ID
}

// Connection is a directed, weighted traversal link between two locations.
// Walking both ways between A and B needs two connections.
type Connection struct {
	SourceID string  `json:"sourceId"`
	TargetID string  `json:"targetId"`
	Weight   float64 `json:"weight"`
	Floor    int     `json:"floor"`
}

// Arc is one outgoing adjacency entry: the target, the stored base weight and
// the floor recorded on the connection.
type Arc struct {
	TargetID   string
	BaseWeight float64
	Floor      int
}

// Neighbor is a reachable target together with the weight a search should
// pay to enter it. For a bare Graph that is the base weight; congestion-aware
// views add the target's current penalty.
type Neighbor struct {
	ID     string
	Weight float64
}

// Network is the read-only contract the search packages consume.
//
// Location reports a location by ID. Neighbors lists outgoing targets with
// their weights; an unknown ID yields an empty list rather than an error.
type Network interface {
	Location(id string) (Location, bool)
	Neighbors(id string) []Neighbor
}

// GraphOption configures snapshot construction.
type GraphOption func(cfg *graphConfig)

type graphConfig struct {
	strict bool
}

// WithStrictConnections rejects connections whose source or target is unknown
// with ErrDanglingConnection. By default such connections are dropped and
// counted in Stats().DanglingConnections.
func WithStrictConnections() GraphOption {
	return func(cfg *graphConfig) { cfg.strict = true }
}

// Graph is an immutable building graph snapshot.
//
// adjacency[source] holds outgoing arcs sorted by target ID, which keeps
// neighbor iteration order (and therefore search tie-breaks) deterministic.
type Graph struct {
	locations map[string]Location // location ID → Location
	adjacency map[string][]Arc    // source ID → outgoing arcs
	qrIndex   map[string]string   // QR code ID → location ID

	ids       []string // all location IDs, sorted
	entrances []string // entrance IDs, sorted
	exits     []string // exit IDs, sorted
	floors    []int    // distinct floors, ascending

	connections int // accepted connections
	dangling    int // dropped connections with an unknown endpoint
}
