// SPDX-License-Identifier: MIT
// Package: wayfind/builder
//
// impl_bidirectional.go - reverse-connection generation.

package builder

import "github.com/katalvlaran/wayfind/core"

// Mirror returns conns followed by the reverse of every connection whose
// reverse is not already in conns. Reverses keep the weight and floor.
func Mirror(conns []core.Connection) []core.Connection {
	have := make(map[[2]string]struct{}, len(conns))
	for _, c := range conns {
		have[[2]string{c.SourceID, c.TargetID}] = struct{}{}
	}
	out := make([]core.Connection, 0, 2*len(conns))
	out = append(out, conns...)
	for _, c := range conns {
		key := [2]string{c.TargetID, c.SourceID}
		if _, ok := have[key]; ok {
			continue
		}
		have[key] = struct{}{}
		out = append(out, core.Connection{SourceID: c.TargetID, TargetID: c.SourceID, Weight: c.Weight, Floor: c.Floor})
	}

	return out
}

// Bidirectional returns a Constructor that mirrors every connection
// appended so far. Put it after the constructors it should cover.
func Bidirectional() Constructor {
	return func(p *Plan, _ builderConfig) error {
		p.Connections = Mirror(p.Connections)

		return nil
	}
}

// Link returns a Constructor that appends one directed connection,
// e.g. a stairwell joining two grid floors.
func Link(from, to string, weight float64, floor int) Constructor {
	return func(p *Plan, _ builderConfig) error {
		p.Connections = append(p.Connections, core.Connection{SourceID: from, TargetID: to, Weight: weight, Floor: floor})

		return nil
	}
}
