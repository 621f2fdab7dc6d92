// SPDX-License-Identifier: MIT

// Package builder produces deterministic building fixtures: record sets of
// locations and connections ready to seed a repository or to feed
// core.NewGraph directly.
//
// Constructors:
//
//   - Demo()                   - the six-location demo building with one
//     entrance, one exit and a QR-labelled coffee shop.
//   - Grid(rows, cols, spacing) - an orthogonal floor plan with the entrance
//     in one corner and the exit in the opposite one.
//   - Link(from, to, w, floor)  - one extra directed connection.
//   - Bidirectional()          - mirrors every connection appended so far.
//
// Options: WithSeed, WithWeightJitter, WithFloor, WithIDPrefix.
//
// Example:
//
//	plan, err := builder.Build(
//		[]builder.BuilderOption{builder.WithIDPrefix("F1:")},
//		builder.Grid(3, 4, builder.DefaultSpacing),
//	)
//	g, err := plan.Graph()
package builder
