// SPDX-License-Identifier: MIT

// Package drivers registers the database/sql drivers sqlstore speaks to.
// Only binaries import it, so library tests stay free of the heavier engines.
package drivers

// Ready is a no-op that makes the import explicit at the call site.
func Ready() {}
