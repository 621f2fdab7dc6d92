// SPDX-License-Identifier: MIT
// Package: wayfind/builder
//
// impl_demo.go - the demo building.
//
// Layout (floor 1, meters):
//
//	                 shopA (20,5)
//	                   │5
//	entry1 ──10── hallway1 ──10── hallway2 ──10── exit1
//	(0,0)         (10,0)          (20,0)          (30,0)
//	                   │5
//	                 stairs (20,-5)
//
// Every corridor is walkable both ways.

package builder

import "github.com/katalvlaran/wayfind/core"

// Demo returns a Constructor that appends the demo building.
func Demo() Constructor {
	return func(p *Plan, _ builderConfig) error {
		locs := []core.Location{
			{ID: "entry1", X: 0, Y: 0, Floor: 1, IsEntrance: true, Name: "Main Entrance"},
			{ID: "hallway1", X: 10, Y: 0, Floor: 1, Name: "Hallway Start"},
			{ID: "hallway2", X: 20, Y: 0, Floor: 1, Name: "Hallway Mid"},
			{ID: "shopA", X: 20, Y: 5, Floor: 1, Name: "Coffee Shop", QRID: "qr-coffee"},
			{ID: "exit1", X: 30, Y: 0, Floor: 1, IsExit: true, Name: "Emergency Exit"},
			{ID: "stairs", X: 20, Y: -5, Floor: 1, Name: "Stairs to F2"},
		}
		forward := []core.Connection{
			{SourceID: "entry1", TargetID: "hallway1", Weight: 10, Floor: 1},
			{SourceID: "hallway1", TargetID: "hallway2", Weight: 10, Floor: 1},
			{SourceID: "hallway2", TargetID: "shopA", Weight: 5, Floor: 1},
			{SourceID: "hallway2", TargetID: "exit1", Weight: 10, Floor: 1},
			{SourceID: "hallway2", TargetID: "stairs", Weight: 5, Floor: 1},
		}
		p.Locations = append(p.Locations, locs...)
		p.Connections = append(p.Connections, Mirror(forward)...)

		return nil
	}
}
