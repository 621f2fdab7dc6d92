// SPDX-License-Identifier: MIT

package sqlstore

import (
	"fmt"
	"strings"
)

// Dialect is a database/sql driver name this package knows how to speak to.
type Dialect string

const (
	SQLite Dialect = "sqlite"
	Genji  Dialect = "genji"
	DuckDB Dialect = "duckdb"
)

// ParseDialect accepts a driver name case-insensitively.
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case SQLite, Genji, DuckDB:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, s)
	}
}

func (d Dialect) floatType() string {
	if d == SQLite {
		return "REAL"
	}

	return "DOUBLE"
}

// schema returns the CREATE statements, one per Exec.
// Flags are stored as INTEGER 0/1 and timestamps as unix milliseconds so the
// same scan code works on every engine.
func (d Dialect) schema() []string {
	f := d.floatType()

	return []string{
		`CREATE TABLE IF NOT EXISTS locations (
			id TEXT PRIMARY KEY,
			x ` + f + ` NOT NULL,
			y ` + f + ` NOT NULL,
			floor_index INTEGER NOT NULL,
			is_entrance INTEGER NOT NULL,
			is_exit INTEGER NOT NULL,
			name TEXT NOT NULL,
			qr_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS connections (
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			weight ` + f + ` NOT NULL,
			floor_index INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS observations (
			location_id TEXT PRIMARY KEY,
			occupancy INTEGER NOT NULL,
			tier TEXT NOT NULL,
			observed_at INTEGER NOT NULL
		)`,
	}
}

func (d Dialect) upsertObservation() string {
	const insert = `INSERT INTO observations (location_id, occupancy, tier, observed_at) VALUES (?, ?, ?, ?)`
	if d == Genji {
		return insert + ` ON CONFLICT DO REPLACE`
	}

	return insert + ` ON CONFLICT (location_id) DO UPDATE SET
		occupancy = excluded.occupancy,
		tier = excluded.tier,
		observed_at = excluded.observed_at`
}

