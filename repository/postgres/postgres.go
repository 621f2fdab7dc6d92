// SPDX-License-Identifier: MIT

// Package postgres keeps the building and its congestion observations in
// PostgreSQL through a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
)

// PoolConfig bounds the pgx pool.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// DefaultPoolConfig suits a single navigation service instance.
var DefaultPoolConfig = PoolConfig{MaxConns: 8, MinConns: 1}

// Repository stores locations, connections and observations in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// Open parses dsn, builds a pool, pings it and creates missing tables.
func Open(ctx context.Context, dsn string, pc PoolConfig) (*Repository, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	if pc.MaxConns > 0 {
		config.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		config.MinConns = pc.MinConns
	}
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	r := New(pool)
	if err := r.CreateTables(ctx); err != nil {
		pool.Close()

		return nil, err
	}

	return r, nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateTables creates the schema when missing.
func (r *Repository) CreateTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS locations (
			id TEXT PRIMARY KEY,
			x DOUBLE PRECISION NOT NULL,
			y DOUBLE PRECISION NOT NULL,
			floor_index INTEGER NOT NULL,
			is_entrance BOOLEAN NOT NULL DEFAULT FALSE,
			is_exit BOOLEAN NOT NULL DEFAULT FALSE,
			name TEXT NOT NULL DEFAULT '',
			qr_id TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS connections (
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			weight DOUBLE PRECISION NOT NULL,
			floor_index INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_connections_source ON connections (source_id);

		CREATE TABLE IF NOT EXISTS observations (
			location_id TEXT PRIMARY KEY,
			occupancy INTEGER NOT NULL,
			tier TEXT NOT NULL,
			observed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: create tables: %w", err)
	}

	return nil
}

// Seed replaces every location and connection in one transaction.
func (r *Repository) Seed(ctx context.Context, locs []core.Location, conns []core.Connection) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM observations`)
		batch.Queue(`DELETE FROM connections`)
		batch.Queue(`DELETE FROM locations`)
		for _, l := range locs {
			batch.Queue(`INSERT INTO locations (id, x, y, floor_index, is_entrance, is_exit, name, qr_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				l.ID, l.X, l.Y, l.Floor, l.IsEntrance, l.IsExit, l.Name, l.QRID)
		}
		for _, c := range conns {
			batch.Queue(`INSERT INTO connections (source_id, target_id, weight, floor_index)
				VALUES ($1, $2, $3, $4)`,
				c.SourceID, c.TargetID, c.Weight, c.Floor)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("postgres: seed: %w", err)
		}

		return nil
	})
}

// LoadLocations returns every location ordered by ID.
func (r *Repository) LoadLocations(ctx context.Context) ([]core.Location, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, x, y, floor_index, is_entrance, is_exit, name, qr_id FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load locations: %w", err)
	}
	locs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Location, error) {
		var l core.Location
		err := row.Scan(&l.ID, &l.X, &l.Y, &l.Floor, &l.IsEntrance, &l.IsExit, &l.Name, &l.QRID)

		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: load locations: %w", err)
	}

	return locs, nil
}

// LoadConnections returns every connection ordered by source then target.
func (r *Repository) LoadConnections(ctx context.Context) ([]core.Connection, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT source_id, target_id, weight, floor_index FROM connections ORDER BY source_id, target_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load connections: %w", err)
	}
	conns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Connection, error) {
		var c core.Connection
		err := row.Scan(&c.SourceID, &c.TargetID, &c.Weight, &c.Floor)

		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: load connections: %w", err)
	}

	return conns, nil
}

// LoadObservations returns the latest observation per location ordered by ID.
func (r *Repository) LoadObservations(ctx context.Context) ([]congestion.Observation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT location_id, occupancy, tier, observed_at FROM observations ORDER BY location_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load observations: %w", err)
	}
	obs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (congestion.Observation, error) {
		var (
			o    congestion.Observation
			tier string
		)
		if err := row.Scan(&o.LocationID, &o.Count, &tier, &o.ObservedAt); err != nil {
			return o, err
		}
		t, err := congestion.ParseTier(tier)
		o.Tier = t
		o.ObservedAt = o.ObservedAt.UTC()

		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: load observations: %w", err)
	}

	return obs, nil
}

// PersistObservation upserts o by location ID.
func (r *Repository) PersistObservation(ctx context.Context, o congestion.Observation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO observations (location_id, occupancy, tier, observed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (location_id) DO UPDATE SET
			occupancy = EXCLUDED.occupancy,
			tier = EXCLUDED.tier,
			observed_at = EXCLUDED.observed_at`,
		o.LocationID, o.Count, o.Tier.String(), o.ObservedAt)
	if err != nil {
		return fmt.Errorf("postgres: persist observation %q: %w", o.LocationID, err)
	}

	return nil
}

// Close releases the pool.
func (r *Repository) Close() error {
	r.pool.Close()

	return nil
}
