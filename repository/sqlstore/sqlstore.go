// SPDX-License-Identifier: MIT

// Package sqlstore keeps the building and its congestion observations in an
// embedded SQL engine reached through database/sql: SQLite (modernc, no CGO),
// Genji, or DuckDB (CGO, build tag duckdb).
//
// Drivers are not registered here; binaries import repository/drivers.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
)

var (
	ErrUnsupportedDialect = errors.New("sqlstore: unsupported dialect")
	ErrNilDB              = errors.New("sqlstore: nil *sql.DB")
)

const pingTimeout = 2 * time.Second

// Store is a repository over one *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to dsn with the driver named by d, tunes the connection and
// creates missing tables.
func Open(ctx context.Context, d Dialect, dsn string) (*Store, error) {
	if _, err := ParseDialect(string(d)); err != nil {
		return nil, err
	}
	db, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", d, err)
	}
	// Embedded engines serialize writers; an in-memory SQLite database also
	// lives only as long as its one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if d == SQLite {
		tuneSQLite(ctx, db)
	}

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("sqlstore: ping %s: %w", d, err)
	}

	s, err := New(db, d)
	if err != nil {
		_ = db.Close()

		return nil, err
	}
	if err := s.CreateTables(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	return s, nil
}

// New wraps an already opened database. Tables are not created.
func New(db *sql.DB, d Dialect) (*Store, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if _, err := ParseDialect(string(d)); err != nil {
		return nil, err
	}

	return &Store{db: db, dialect: d}, nil
}

// tuneSQLite applies WAL and busy-timeout pragmas. Failures are logged only.
func tuneSQLite(ctx context.Context, db *sql.DB) {
	var mode string
	if err := db.QueryRowContext(ctx, `PRAGMA journal_mode=WAL`).Scan(&mode); err != nil {
		log.Printf("[sqlstore] journal_mode skipped: %v", err)
	}
	for _, p := range []string{`PRAGMA synchronous=NORMAL`, `PRAGMA busy_timeout=5000`} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			log.Printf("[sqlstore] %s skipped: %v", p, err)
		}
	}
}

// Dialect reports the engine in use.
func (s *Store) Dialect() Dialect { return s.dialect }

// CreateTables creates the locations, connections and observations tables
// when missing.
func (s *Store) CreateTables(ctx context.Context) error {
	for _, q := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("sqlstore: create tables: %w", err)
		}
	}

	return nil
}

// Seed replaces every location and connection in one transaction and
// clears all observations.
func (s *Store) Seed(ctx context.Context, locs []core.Location, conns []core.Connection) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: seed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, q := range []string{`DELETE FROM observations`, `DELETE FROM connections`, `DELETE FROM locations`} {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("sqlstore: seed: %w", err)
		}
	}
	for _, l := range locs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO locations (id, x, y, floor_index, is_entrance, is_exit, name, qr_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.X, l.Y, l.Floor, flag(l.IsEntrance), flag(l.IsExit), l.Name, l.QRID)
		if err != nil {
			return fmt.Errorf("sqlstore: seed location %q: %w", l.ID, err)
		}
	}
	for _, c := range conns {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO connections (source_id, target_id, weight, floor_index) VALUES (?, ?, ?, ?)`,
			c.SourceID, c.TargetID, c.Weight, c.Floor)
		if err != nil {
			return fmt.Errorf("sqlstore: seed connection %s→%s: %w", c.SourceID, c.TargetID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: seed commit: %w", err)
	}

	return nil
}

// LoadLocations returns every location ordered by ID.
func (s *Store) LoadLocations(ctx context.Context) ([]core.Location, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, x, y, floor_index, is_entrance, is_exit, name, qr_id FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: load locations: %w", err)
	}
	defer rows.Close()

	var out []core.Location
	for rows.Next() {
		var (
			l             core.Location
			floor         int64
			entrance, ext int64
		)
		if err := rows.Scan(&l.ID, &l.X, &l.Y, &floor, &entrance, &ext, &l.Name, &l.QRID); err != nil {
			return nil, fmt.Errorf("sqlstore: scan location: %w", err)
		}
		l.Floor = int(floor)
		l.IsEntrance = entrance != 0
		l.IsExit = ext != 0
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: load locations: %w", err)
	}

	return out, nil
}

// LoadConnections returns every connection ordered by source then target.
func (s *Store) LoadConnections(ctx context.Context) ([]core.Connection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_id, target_id, weight, floor_index FROM connections`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: load connections: %w", err)
	}
	defer rows.Close()

	var out []core.Connection
	for rows.Next() {
		var (
			c     core.Connection
			floor int64
		)
		if err := rows.Scan(&c.SourceID, &c.TargetID, &c.Weight, &floor); err != nil {
			return nil, fmt.Errorf("sqlstore: scan connection: %w", err)
		}
		c.Floor = int(floor)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: load connections: %w", err)
	}
	// Genji orders by one column only, so sort here.
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}

		return out[i].TargetID < out[j].TargetID
	})

	return out, nil
}

// LoadObservations returns the latest observation per location ordered by ID.
func (s *Store) LoadObservations(ctx context.Context) ([]congestion.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT location_id, occupancy, tier, observed_at FROM observations ORDER BY location_id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: load observations: %w", err)
	}
	defer rows.Close()

	var out []congestion.Observation
	for rows.Next() {
		var (
			o         congestion.Observation
			count, ms int64
			tier      string
		)
		if err := rows.Scan(&o.LocationID, &count, &tier, &ms); err != nil {
			return nil, fmt.Errorf("sqlstore: scan observation: %w", err)
		}
		if o.Tier, err = congestion.ParseTier(tier); err != nil {
			return nil, fmt.Errorf("sqlstore: observation %q: %w", o.LocationID, err)
		}
		o.Count = int(count)
		o.ObservedAt = time.UnixMilli(ms).UTC()
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: load observations: %w", err)
	}

	return out, nil
}

// PersistObservation upserts o by location ID.
func (s *Store) PersistObservation(ctx context.Context, o congestion.Observation) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsertObservation(),
		o.LocationID, o.Count, o.Tier.String(), o.ObservedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlstore: persist observation %q: %w", o.LocationID, err)
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func flag(b bool) int {
	if b {
		return 1
	}

	return 0
}
