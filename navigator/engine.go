// SPDX-License-Identifier: MIT

package navigator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/katalvlaran/wayfind/astar"
	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
	"github.com/katalvlaran/wayfind/dijkstra"
	"github.com/katalvlaran/wayfind/graphstore"
	"github.com/katalvlaran/wayfind/metrics"
	"github.com/katalvlaran/wayfind/reach"
)

// Engine answers navigation queries against a graphstore.Store.
// It is safe for concurrent use.
type Engine struct {
	store     *graphstore.Store
	rec       Recorder
	heuristic astar.Heuristic
	logger    *log.Logger
	now       func() time.Time
}

// New returns an Engine over store that persists congestion through rec.
func New(store *graphstore.Store, rec Recorder, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		rec:       rec,
		heuristic: astar.Euclidean,
		logger:    log.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// EnsureInitialized loads the graph on first use. Concurrent callers share one load.
func (e *Engine) EnsureInitialized(ctx context.Context) error {
	return e.store.EnsureInitialized(ctx)
}

// view initializes lazily and returns the current snapshot.
func (e *Engine) view(ctx context.Context) (graphstore.View, error) {
	if err := e.store.EnsureInitialized(ctx); err != nil {
		return graphstore.View{}, err
	}

	return e.store.View()
}

// FindPath returns the cheapest route from start to end.
func (e *Engine) FindPath(ctx context.Context, start, end string) (*Route, error) {
	v, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	return e.findPath(ctx, v, start, end)
}

func (e *Engine) findPath(ctx context.Context, v graphstore.View, start, end string) (*Route, error) {
	res, err := astar.Find(v, start, end, astar.WithContext(ctx), astar.WithHeuristic(e.heuristic))
	switch {
	case errors.Is(err, astar.ErrStartNotFound):
		return nil, fmt.Errorf("%w: start %q", ErrNotFound, start)
	case errors.Is(err, astar.ErrGoalNotFound):
		return nil, fmt.Errorf("%w: destination %q", ErrNotFound, end)
	case errors.Is(err, astar.ErrNoPath):
		return nil, fmt.Errorf("%w: %s→%s", ErrNoPath, start, end)
	case err != nil:
		return nil, err
	}
	metrics.AddExpansions(res.Expanded)

	return e.route(v, ModeNormal, res.Path, res.Cost, res.Expanded), nil
}

// FindNearestExit returns the cheapest route from start to any exit under
// the congestion current at query time.
func (e *Engine) FindNearestExit(ctx context.Context, start string) (*Route, error) {
	v, err := e.view(ctx)
	if err != nil {
		return nil, err
	}
	res, err := dijkstra.Nearest(v, start, dijkstra.WithContext(ctx))
	switch {
	case errors.Is(err, dijkstra.ErrStartNotFound):
		return nil, fmt.Errorf("%w: start %q", ErrNotFound, start)
	case errors.Is(err, dijkstra.ErrNoTarget):
		return nil, fmt.Errorf("%w: from %q", ErrNoExit, start)
	case err != nil:
		return nil, err
	}
	metrics.AddExpansions(res.Expanded)

	return e.route(v, ModeEmergency, res.Path, res.Cost, res.Expanded), nil
}

// FindBestEntranceRoute runs single-target search from every entrance to end
// and keeps the route with the lowest realized live-weight cost. Every
// entrance is evaluated; equal costs keep the first entrance in ID order.
func (e *Engine) FindBestEntranceRoute(ctx context.Context, end string) (*Route, error) {
	v, err := e.view(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := v.Location(end); !ok {
		return nil, fmt.Errorf("%w: destination %q", ErrNotFound, end)
	}
	entrances := v.Graph().Entrances()
	if len(entrances) == 0 {
		return nil, ErrNoEntranceConfigured
	}

	var (
		best     []string
		bestCost float64
		expanded int
	)
	for _, ent := range entrances {
		res, err := astar.Find(v, ent.ID, end, astar.WithContext(ctx), astar.WithHeuristic(e.heuristic))
		if errors.Is(err, astar.ErrNoPath) {
			continue
		}
		if err != nil {
			return nil, err
		}
		expanded += res.Expanded

		cost, err := v.PathCost(res.Path)
		if err != nil {
			return nil, err
		}
		if best == nil || cost < bestCost {
			best, bestCost = res.Path, cost
		}
	}
	metrics.AddExpansions(expanded)
	if best == nil {
		return nil, fmt.Errorf("%w: %q (%d entrances tried)", ErrNoPathFromAnyEntrance, end, len(entrances))
	}

	return e.route(v, ModeOptimalEntrance, best, bestCost, expanded), nil
}

// Navigate dispatches a request:
//  1. an empty StartID is filled from QRID when the QR code is known;
//  2. Emergency requires a start and routes to the nearest exit;
//  3. otherwise EndID is required;
//  4. with no start the best entrance is chosen;
//  5. else a single-target route is returned.
func (e *Engine) Navigate(ctx context.Context, req Request) (*Route, error) {
	started := time.Now()
	route, err := e.navigate(ctx, req)
	if err != nil {
		code := Code(err)
		metrics.NavigateFailed(code)
		e.logger.Printf("[navigate] start=%q end=%q qr=%q emergency=%t failed (%s): %v",
			req.StartID, req.EndID, req.QRID, req.Emergency, code, err)

		return nil, err
	}
	metrics.Navigated(string(route.Mode))
	e.logger.Printf("[navigate] mode=%s %s→%s steps=%d cost=%.1f expanded=%d in %s",
		route.Mode, route.Locations[0].ID, route.Locations[len(route.Locations)-1].ID,
		len(route.Locations), route.Cost, route.Expanded, time.Since(started).Round(time.Microsecond))

	return route, nil
}

func (e *Engine) navigate(ctx context.Context, req Request) (*Route, error) {
	start := req.StartID
	if start == "" && req.QRID != "" {
		if loc, err := e.ResolveQR(ctx, req.QRID); err == nil {
			start = loc.ID
		} else if !errors.Is(err, ErrQRNotFound) {
			return nil, err
		}
	}

	if req.Emergency {
		if start == "" {
			return nil, ErrStartRequired
		}

		return e.FindNearestExit(ctx, start)
	}
	if req.EndID == "" {
		return nil, ErrDestinationRequired
	}
	if start == "" {
		return e.FindBestEntranceRoute(ctx, req.EndID)
	}

	return e.FindPath(ctx, start, req.EndID)
}

// route resolves IDs to locations against v.
func (e *Engine) route(v graphstore.View, mode Mode, ids []string, cost float64, expanded int) *Route {
	locs := make([]core.Location, 0, len(ids))
	for _, id := range ids {
		loc, _ := v.Location(id)
		locs = append(locs, loc)
	}

	return &Route{Mode: mode, Locations: locs, Cost: cost, Expanded: expanded}
}

// RecordCongestion classifies count, applies the penalty to locationID and
// persists the observation. The penalty stays applied when persisting fails;
// the failure is reported as ErrPersistFailed together with the observation.
func (e *Engine) RecordCongestion(ctx context.Context, locationID string, count int) (congestion.Observation, error) {
	if locationID == "" {
		return congestion.Observation{}, fmt.Errorf("%w: empty location ID", ErrNotFound)
	}
	if count < 0 {
		return congestion.Observation{}, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	obs := congestion.Observe(locationID, count, e.now().UTC())
	e.store.UpdateCongestion(locationID, obs.Tier)
	metrics.CongestionUpdated(obs.Tier.String())

	if e.rec == nil {
		return obs, nil
	}
	if err := e.rec.PersistObservation(ctx, obs); err != nil {
		metrics.PersistFailed()
		e.logger.Printf("[crowd] persist %s count=%d failed: %v", locationID, count, err)

		return obs, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	e.logger.Printf("[crowd] %s count=%d tier=%s", locationID, count, obs.Tier)

	return obs, nil
}

// CrowdStatus returns the persisted observations.
func (e *Engine) CrowdStatus(ctx context.Context) ([]congestion.Observation, error) {
	if e.rec == nil {
		return nil, nil
	}
	obs, err := e.rec.LoadObservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return obs, nil
}

// ResolveQR maps a QR code ID to its location.
func (e *Engine) ResolveQR(ctx context.Context, qrID string) (core.Location, error) {
	v, err := e.view(ctx)
	if err != nil {
		return core.Location{}, err
	}
	loc, ok := v.Graph().LocationByQR(qrID)
	if !ok {
		return core.Location{}, fmt.Errorf("%w: %q", ErrQRNotFound, qrID)
	}

	return loc, nil
}

// Reload forces a full reload and returns the new snapshot's stats.
func (e *Engine) Reload(ctx context.Context) (core.Stats, error) {
	if err := e.store.Initialize(ctx); err != nil {
		metrics.ReloadFailed()
		e.logger.Printf("[graph] reload failed: %v", err)

		return core.Stats{}, err
	}
	v, err := e.store.View()
	if err != nil {
		return core.Stats{}, err
	}

	return v.Graph().Stats(), nil
}

// Stats returns the current snapshot's stats.
func (e *Engine) Stats(ctx context.Context) (core.Stats, error) {
	v, err := e.view(ctx)
	if err != nil {
		return core.Stats{}, err
	}

	return v.Graph().Stats(), nil
}

// Locations lists every location sorted by ID.
func (e *Engine) Locations(ctx context.Context) ([]core.Location, error) {
	v, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	return v.Graph().Locations(), nil
}

// Audit finds locations that cannot reach any exit, by searching from all
// exits over the reversed graph.
func (e *Engine) Audit(ctx context.Context) (*Audit, error) {
	v, err := e.view(ctx)
	if err != nil {
		return nil, err
	}
	g := v.Graph()
	a := &Audit{
		Stranded:             []string{},
		EntrancesWithoutExit: []string{},
		Crowded:              e.store.Board().Snapshot(),
	}

	exits := g.Exits()
	a.ExitCount = len(exits)
	reached := &reach.Result{}
	if len(exits) > 0 {
		ids := make([]string, len(exits))
		for i, x := range exits {
			ids[i] = x.ID
		}
		reached, err = reach.From(core.Reverse(g), ids, reach.WithContext(ctx))
		if err != nil {
			return nil, err
		}
	}
	for _, loc := range g.Locations() {
		if reached.Reached(loc.ID) {
			continue
		}
		a.Stranded = append(a.Stranded, loc.ID)
		if loc.IsEntrance {
			a.EntrancesWithoutExit = append(a.EntrancesWithoutExit, loc.ID)
		}
	}

	return a, nil
}
