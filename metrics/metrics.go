// SPDX-License-Identifier: MIT

// Package metrics publishes expvar counters for navigation, congestion and
// graph reloads. They are served at /debug/vars.
package metrics

import (
	"expvar"
)

// Keyed counters.
var (
	navigateTotal    = expvar.NewMap("wayfind_navigate_total")
	navigateFailures = expvar.NewMap("wayfind_navigate_failures_total")
	congestionTotal  = expvar.NewMap("wayfind_congestion_updates_total")
)

// Plain counters and gauges.
var (
	reloadsTotal       = new(expvar.Int)
	reloadFailures     = new(expvar.Int)
	expansionsTotal    = new(expvar.Int)
	graphLocations     = new(expvar.Int)
	graphConnections   = new(expvar.Int)
	persistFailedTotal = new(expvar.Int)
)

func init() {
	expvar.Publish("wayfind_graph_reloads_total", reloadsTotal)
	expvar.Publish("wayfind_graph_reload_failures_total", reloadFailures)
	expvar.Publish("wayfind_search_expansions_total", expansionsTotal)
	expvar.Publish("wayfind_graph_locations", graphLocations)
	expvar.Publish("wayfind_graph_connections", graphConnections)
	expvar.Publish("wayfind_congestion_persist_failures_total", persistFailedTotal)
}

// Navigation helpers
func Navigated(mode string) { navigateTotal.Add(mode, 1) }
func NavigateFailed(reason string) { navigateFailures.Add(reason, 1) }
func AddExpansions(n int) { expansionsTotal.Add(int64(n)) }

// Congestion helpers
func CongestionUpdated(tier string) { congestionTotal.Add(tier, 1) }
func PersistFailed() { persistFailedTotal.Add(1) }

// Graph helpers
func Reloaded(locations, connections int) {
	reloadsTotal.Add(1)
	graphLocations.Set(int64(locations))
	graphConnections.Set(int64(connections))
}
func ReloadFailed() { reloadFailures.Add(1) }

// Value returns the current value of a published counter, or of key within
// a published map when key is non-empty. Unknown names yield 0.
func Value(name, key string) int64 {
	v := expvar.Get(name)
	if v == nil {
		return 0
	}
	switch x := v.(type) {
	case *expvar.Int:
		return x.Value()
	case *expvar.Map:
		if i, ok := x.Get(key).(*expvar.Int); ok {
			return i.Value()
		}
	}

	return 0
}
