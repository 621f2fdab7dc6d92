// SPDX-License-Identifier: MIT

// Package repository opens the configured backing store for the navigation
// service. Every backend satisfies both graphstore.Source and
// navigator.Recorder.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/wayfind/builder"
	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
	"github.com/katalvlaran/wayfind/repository/memory"
	"github.com/katalvlaran/wayfind/repository/postgres"
	"github.com/katalvlaran/wayfind/repository/sqlstore"
)

// ErrUnknownType is returned by Open for an unrecognized database type.
var ErrUnknownType = errors.New("repository: unknown database type")

// Repository is the full backend contract.
type Repository interface {
	LoadLocations(ctx context.Context) ([]core.Location, error)
	LoadConnections(ctx context.Context) ([]core.Connection, error)
	LoadObservations(ctx context.Context) ([]congestion.Observation, error)
	PersistObservation(ctx context.Context, o congestion.Observation) error
	Seed(ctx context.Context, locs []core.Location, conns []core.Connection) error
	Close() error
}

// Types lists accepted database types.
var Types = []string{"memory", "sqlite", "genji", "duckdb", "pgx"}

// Open returns the backend named by dbType. dsn is a file path for the
// embedded engines and a connection string for pgx; memory ignores it and
// starts with the demo building.
func Open(ctx context.Context, dbType, dsn string) (Repository, error) {
	switch t := strings.ToLower(strings.TrimSpace(dbType)); t {
	case "memory":
		plan, err := builder.Build(nil, builder.Demo())
		if err != nil {
			return nil, err
		}

		return memory.New(plan.Locations, plan.Connections), nil
	case "pgx", "postgres":
		r, err := postgres.Open(ctx, dsn, postgres.DefaultPoolConfig)
		if err != nil {
			return nil, err
		}

		return r, nil
	default:
		d, err := sqlstore.ParseDialect(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownType, dbType, strings.Join(Types, ", "))
		}

		s, err := sqlstore.Open(ctx, d, dsn)
		if err != nil {
			return nil, err
		}

		return s, nil
	}
}
