// SPDX-License-Identifier: MIT

package graphstore

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
)

const loadKey = "load"

// Store is the shared graph plus live congestion penalties.
type Store struct {
	src   Source
	board *congestion.Board
	snap  atomic.Pointer[core.Graph]
	group singleflight.Group

	logger      *log.Logger
	graphOpts   []core.GraphOption
	loadTimeout time.Duration
	onReload    func(core.Stats)
}

// New returns an uninitialized Store reading from src.
func New(src Source, opts ...Option) *Store {
	s := &Store{
		src:         src,
		board:       congestion.NewBoard(),
		logger:      log.Default(),
		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize reloads everything from the Source and swaps the snapshot in.
// Calls that overlap an in-flight load wait for it and share its result.
// On failure the previous snapshot, if any, stays in place.
func (s *Store) Initialize(ctx context.Context) error {
	ch := s.group.DoChan(loadKey, func() (any, error) {
		// The load outlives a caller that gives up; it only obeys loadTimeout.
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		return nil, s.load(lctx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, ctx.Err())
	}
}

// EnsureInitialized loads once if no snapshot exists yet, else returns nil.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	if s.snap.Load() != nil {
		return nil
	}

	return s.Initialize(ctx)
}

// Initialized reports whether a snapshot has been loaded.
func (s *Store) Initialized() bool {
	return s.snap.Load() != nil
}

func (s *Store) load(ctx context.Context) error {
	started := time.Now()
	// Updates that land while the source is read must outlive the swap.
	gen := s.board.Generation()

	locs, err := s.src.LoadLocations(ctx)
	if err != nil {
		return fmt.Errorf("%w: load locations: %w", ErrStoreUnavailable, err)
	}
	conns, err := s.src.LoadConnections(ctx)
	if err != nil {
		return fmt.Errorf("%w: load connections: %w", ErrStoreUnavailable, err)
	}
	obs, err := s.src.LoadObservations(ctx)
	if err != nil {
		return fmt.Errorf("%w: load observations: %w", ErrStoreUnavailable, err)
	}

	g, err := core.NewGraph(locs, conns, s.graphOpts...)
	if err != nil {
		return fmt.Errorf("%w: build graph: %w", ErrStoreUnavailable, err)
	}

	s.board.Replace(obs, gen)
	s.snap.Store(g)

	st := g.Stats()
	s.logger.Printf("[graph] loaded %d locations, %d connections (%d dangling dropped), %d observations in %s",
		st.LocationCount, st.ConnectionCount, st.DanglingConnections, len(obs), time.Since(started).Round(time.Millisecond))
	if s.onReload != nil {
		s.onReload(st)
	}

	return nil
}

// View returns the current snapshot paired with the live board.
func (s *Store) View() (View, error) {
	g := s.snap.Load()
	if g == nil {
		return View{}, ErrNotInitialized
	}

	return View{g: g, board: s.board}, nil
}

// UpdateCongestion sets the tier of id. Topology is untouched; the new
// penalty applies to every later neighbor query that targets id.
func (s *Store) UpdateCongestion(id string, t congestion.Tier) {
	s.board.Set(id, t)
}

// Board exposes the live penalty table.
func (s *Store) Board() *congestion.Board {
	return s.board
}
