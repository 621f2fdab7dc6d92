// SPDX-License-Identifier: MIT
// Package: wayfind/builder
//
// impl_grid.go - Grid(rows, cols, spacing) constructor.
//
// Model:
//   • Orthogonal floor plan, 4-neighborhood, every corridor both ways.
//   • IDs "<prefix>r,c" in row-major order; coordinates (c*spacing, r*spacing).
//   • Cell (0,0) is the entrance, cell (rows-1,cols-1) is the exit.
//   • Weight = spacing, stretched by WithWeightJitter when seeded, so the
//     Euclidean heuristic stays admissible.
//
// Complexity: O(rows*cols) time and output.

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/wayfind/core"
)

const (
	methodGrid = "Grid"
	minGridDim = 1
	gridIDFmt  = "%s%d,%d"

	// DefaultSpacing is the corridor length between neighboring grid cells.
	DefaultSpacing = 10.0
)

// GridID returns the ID Grid assigns to cell (r, c) under prefix.
func GridID(prefix string, r, c int) string {
	return fmt.Sprintf(gridIDFmt, prefix, r, c)
}

// Grid returns a Constructor that appends a rows×cols floor plan.
func Grid(rows, cols int, spacing float64) Constructor {
	return func(p *Plan, cfg builderConfig) error {
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: rows=%d, cols=%d (each must be ≥ %d): %w",
				methodGrid, rows, cols, minGridDim, ErrTooFewLocations)
		}
		if !(spacing > 0) || math.IsInf(spacing, 0) {
			return fmt.Errorf("%s: spacing=%g: %w", methodGrid, spacing, ErrInvalidSpacing)
		}

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				p.Locations = append(p.Locations, core.Location{
					ID:         GridID(cfg.prefix, r, c),
					X:          float64(c) * spacing,
					Y:          float64(r) * spacing,
					Floor:      cfg.floor,
					IsEntrance: r == 0 && c == 0,
					IsExit:     r == rows-1 && c == cols-1,
				})
			}
		}

		var forward []core.Connection
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				from := GridID(cfg.prefix, r, c)
				if c+1 < cols {
					forward = append(forward, core.Connection{
						SourceID: from, TargetID: GridID(cfg.prefix, r, c+1), Weight: cfg.weight(spacing), Floor: cfg.floor,
					})
				}
				if r+1 < rows {
					forward = append(forward, core.Connection{
						SourceID: from, TargetID: GridID(cfg.prefix, r+1, c), Weight: cfg.weight(spacing), Floor: cfg.floor,
					})
				}
			}
		}
		p.Connections = append(p.Connections, Mirror(forward)...)

		return nil
	}
}
