// SPDX-License-Identifier: MIT

package navigator_test

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wayfind/astar"
	"github.com/katalvlaran/wayfind/builder"
	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
	"github.com/katalvlaran/wayfind/graphstore"
	"github.com/katalvlaran/wayfind/metrics"
	"github.com/katalvlaran/wayfind/navigator"
	"github.com/katalvlaran/wayfind/repository/memory"
)

var quiet = log.New(io.Discard, "", 0)

func engineFor(t *testing.T, repo *memory.Repository, opts ...navigator.Option) *navigator.Engine {
	t.Helper()
	store := graphstore.New(repo, graphstore.WithLogger(quiet))
	opts = append([]navigator.Option{navigator.WithLogger(quiet)}, opts...)

	return navigator.New(store, repo, opts...)
}

func demoEngine(t *testing.T, opts ...navigator.Option) (*navigator.Engine, *memory.Repository) {
	t.Helper()
	plan, err := builder.Build(nil, builder.Demo())
	require.NoError(t, err)
	repo := memory.New(plan.Locations, plan.Connections)

	return engineFor(t, repo, opts...), repo
}

// twoEntrances: E1 reaches D through M1 at 25+25, E2 through M2 at 15+15.
// L is an entrance-free dead end; X is the only exit, reachable from D.
func twoEntrances() *memory.Repository {
	return memory.New(
		[]core.Location{
			{ID: "E1", X: 0, Y: 0, IsEntrance: true},
			{ID: "E2", X: 0, Y: 40, IsEntrance: true},
			{ID: "M1", X: 10, Y: 0},
			{ID: "M2", X: 10, Y: 30},
			{ID: "D", X: 20, Y: 20},
			{ID: "X", X: 30, Y: 20, IsExit: true},
			{ID: "L", X: 50, Y: 50},
		},
		[]core.Connection{
			{SourceID: "E1", TargetID: "M1", Weight: 25},
			{SourceID: "M1", TargetID: "D", Weight: 25},
			{SourceID: "E2", TargetID: "M2", Weight: 15},
			{SourceID: "M2", TargetID: "D", Weight: 15},
			{SourceID: "D", TargetID: "X", Weight: 5},
			{SourceID: "X", TargetID: "L", Weight: 5},
		},
	)
}

func TestFindPath_Demo(t *testing.T) {
	e, _ := demoEngine(t)
	r, err := e.FindPath(context.Background(), "entry1", "exit1")
	require.NoError(t, err)
	assert.Equal(t, navigator.ModeNormal, r.Mode)
	assert.Equal(t, []string{"entry1", "hallway1", "hallway2", "exit1"}, r.IDs())
	assert.Equal(t, 30.0, r.Cost)
	assert.Equal(t, "Main Entrance", r.Locations[0].Name)
}

func TestFindPath_StartEqualsGoal(t *testing.T) {
	e, _ := demoEngine(t)
	r, err := e.FindPath(context.Background(), "shopA", "shopA")
	require.NoError(t, err)
	assert.Equal(t, []string{"shopA"}, r.IDs())
	assert.Zero(t, r.Cost)
}

func TestFindPath_Errors(t *testing.T) {
	e := engineFor(t, twoEntrances())
	ctx := context.Background()

	_, err := e.FindPath(ctx, "nope", "D")
	assert.ErrorIs(t, err, navigator.ErrNotFound)
	assert.Equal(t, "not_found", navigator.Code(err))

	_, err = e.FindPath(ctx, "E1", "nope")
	assert.ErrorIs(t, err, navigator.ErrNotFound)

	_, err = e.FindPath(ctx, "D", "E1")
	assert.ErrorIs(t, err, navigator.ErrNoPath)
	assert.Equal(t, "no_path", navigator.Code(err))
}

func TestFindPath_AvoidsCrowd(t *testing.T) {
	e, _ := demoEngine(t)
	ctx := context.Background()
	_, err := e.RecordCongestion(ctx, "hallway2", 9)
	require.NoError(t, err)

	// Every route into exit1 passes hallway2, so the penalty is paid.
	r, err := e.FindPath(ctx, "entry1", "exit1")
	require.NoError(t, err)
	assert.Equal(t, 50.0, r.Cost)
}

func TestFindPath_ZeroHeuristicSameCost(t *testing.T) {
	e, _ := demoEngine(t, navigator.WithHeuristic(astar.Zero))
	r, err := e.FindPath(context.Background(), "entry1", "stairs")
	require.NoError(t, err)
	assert.Equal(t, []string{"entry1", "hallway1", "hallway2", "stairs"}, r.IDs())
	assert.Equal(t, 25.0, r.Cost)
}

func TestFindNearestExit(t *testing.T) {
	e := engineFor(t, twoEntrances())
	ctx := context.Background()

	r, err := e.FindNearestExit(ctx, "E2")
	require.NoError(t, err)
	assert.Equal(t, navigator.ModeEmergency, r.Mode)
	assert.Equal(t, []string{"E2", "M2", "D", "X"}, r.IDs())
	assert.Equal(t, 35.0, r.Cost)

	// Start on an exit: zero-length route.
	r, err = e.FindNearestExit(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, r.IDs())

	_, err = e.FindNearestExit(ctx, "L")
	assert.ErrorIs(t, err, navigator.ErrNoExit)
	assert.Equal(t, "no_exit", navigator.Code(err))

	_, err = e.FindNearestExit(ctx, "nope")
	assert.ErrorIs(t, err, navigator.ErrNotFound)
}

func TestFindBestEntranceRoute(t *testing.T) {
	e := engineFor(t, twoEntrances())
	ctx := context.Background()

	r, err := e.FindBestEntranceRoute(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, navigator.ModeOptimalEntrance, r.Mode)
	assert.Equal(t, []string{"E2", "M2", "D"}, r.IDs())
	assert.Equal(t, 30.0, r.Cost)

	// Crowding M2 ties both entrances at 50; E1 wins by ID.
	_, err = e.RecordCongestion(ctx, "M2", 8)
	require.NoError(t, err)
	r, err = e.FindBestEntranceRoute(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "M1", "D"}, r.IDs())
	assert.Equal(t, 50.0, r.Cost)

	// Medium on M1 tips it back.
	_, err = e.RecordCongestion(ctx, "M1", 5)
	require.NoError(t, err)
	r, err = e.FindBestEntranceRoute(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, "E2", r.IDs()[0])
}

func TestFindBestEntranceRoute_Errors(t *testing.T) {
	ctx := context.Background()
	e := engineFor(t, twoEntrances())

	_, err := e.FindBestEntranceRoute(ctx, "nope")
	assert.ErrorIs(t, err, navigator.ErrNotFound)

	// No inbound connections: unreachable from every entrance.
	e2 := engineFor(t, memory.New(
		[]core.Location{{ID: "E", IsEntrance: true}, {ID: "island"}},
		nil,
	))
	_, err = e2.FindBestEntranceRoute(ctx, "island")
	assert.ErrorIs(t, err, navigator.ErrNoPathFromAnyEntrance)
	assert.Equal(t, "no_path_from_any_entrance", navigator.Code(err))

	e3 := engineFor(t, memory.New([]core.Location{{ID: "A"}, {ID: "B"}}, nil))
	_, err = e3.FindBestEntranceRoute(ctx, "B")
	assert.ErrorIs(t, err, navigator.ErrNoEntranceConfigured)
}

func TestNavigate_Dispatch(t *testing.T) {
	e, _ := demoEngine(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   navigator.Request
		mode  navigator.Mode
		first string
		last  string
		err   error
	}{
		{"normal", navigator.Request{StartID: "entry1", EndID: "shopA"}, navigator.ModeNormal, "entry1", "shopA", nil},
		{"qr start", navigator.Request{QRID: "qr-coffee", EndID: "exit1"}, navigator.ModeNormal, "shopA", "exit1", nil},
		{"start beats qr", navigator.Request{StartID: "stairs", QRID: "qr-coffee", EndID: "exit1"}, navigator.ModeNormal, "stairs", "exit1", nil},
		{"emergency", navigator.Request{StartID: "shopA", Emergency: true}, navigator.ModeEmergency, "shopA", "exit1", nil},
		{"emergency via qr", navigator.Request{QRID: "qr-coffee", Emergency: true}, navigator.ModeEmergency, "shopA", "exit1", nil},
		{"entrance", navigator.Request{EndID: "stairs"}, navigator.ModeOptimalEntrance, "entry1", "stairs", nil},
		{"unknown qr falls back to entrance", navigator.Request{QRID: "qr-missing", EndID: "stairs"}, navigator.ModeOptimalEntrance, "entry1", "stairs", nil},
		{"emergency without start", navigator.Request{Emergency: true}, "", "", "", navigator.ErrStartRequired},
		{"emergency with unknown qr", navigator.Request{QRID: "qr-missing", Emergency: true}, "", "", "", navigator.ErrStartRequired},
		{"no destination", navigator.Request{StartID: "entry1"}, "", "", "", navigator.ErrDestinationRequired},
		{"unknown start", navigator.Request{StartID: "ghost", EndID: "exit1"}, "", "", "", navigator.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := e.Navigate(ctx, tc.req)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Nil(t, r)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.mode, r.Mode)
			ids := r.IDs()
			assert.Equal(t, tc.first, ids[0])
			assert.Equal(t, tc.last, ids[len(ids)-1])
		})
	}
}

func TestNavigate_Metrics(t *testing.T) {
	e, _ := demoEngine(t)
	ctx := context.Background()
	okBefore := metrics.Value("wayfind_navigate_total", "emergency")
	failBefore := metrics.Value("wayfind_navigate_failures_total", "start_required")

	_, err := e.Navigate(ctx, navigator.Request{StartID: "entry1", Emergency: true})
	require.NoError(t, err)
	_, err = e.Navigate(ctx, navigator.Request{Emergency: true})
	require.Error(t, err)

	assert.Equal(t, okBefore+1, metrics.Value("wayfind_navigate_total", "emergency"))
	assert.Equal(t, failBefore+1, metrics.Value("wayfind_navigate_failures_total", "start_required"))
}

func TestNavigate_Canceled(t *testing.T) {
	e, _ := demoEngine(t)
	require.NoError(t, e.EnsureInitialized(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Navigate(ctx, navigator.Request{StartID: "entry1", EndID: "exit1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "canceled", navigator.Code(err))
}

func TestNavigate_StoreUnavailable(t *testing.T) {
	repo := twoEntrances()
	repo.FailLoad = errors.New("disk on fire")
	e := engineFor(t, repo)

	_, err := e.Navigate(context.Background(), navigator.Request{StartID: "E1", EndID: "D"})
	assert.ErrorIs(t, err, navigator.ErrStoreUnavailable)
	assert.Equal(t, "store_unavailable", navigator.Code(err))
}

func TestRecordCongestion(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e, repo := demoEngine(t, navigator.WithClock(func() time.Time { return at }))
	ctx := context.Background()

	obs, err := e.RecordCongestion(ctx, "hallway1", 6)
	require.NoError(t, err)
	assert.Equal(t, congestion.Observation{LocationID: "hallway1", Count: 6, Tier: congestion.Medium, ObservedAt: at}, obs)

	stored, err := repo.LoadObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []congestion.Observation{obs}, stored)

	status, err := e.CrowdStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, status)

	// Later report replaces the earlier one.
	_, err = e.RecordCongestion(ctx, "hallway1", 1)
	require.NoError(t, err)
	r, err := e.FindPath(ctx, "entry1", "hallway2")
	require.NoError(t, err)
	assert.Equal(t, 20.0, r.Cost)

	_, err = e.RecordCongestion(ctx, "hallway1", -1)
	assert.ErrorIs(t, err, navigator.ErrInvalidCount)
	assert.Equal(t, "invalid_count", navigator.Code(err))

	_, err = e.RecordCongestion(ctx, "", 3)
	assert.ErrorIs(t, err, navigator.ErrNotFound)
}

func TestRecordCongestion_UnknownLocationAccepted(t *testing.T) {
	e, _ := demoEngine(t)
	obs, err := e.RecordCongestion(context.Background(), "future-room", 12)
	require.NoError(t, err)
	assert.Equal(t, congestion.High, obs.Tier)
}

func TestRecordCongestion_PersistFailureKeepsPenalty(t *testing.T) {
	e, repo := demoEngine(t)
	repo.FailPersist = errors.New("read-only")
	ctx := context.Background()
	before := metrics.Value("wayfind_congestion_persist_failures_total", "")

	obs, err := e.RecordCongestion(ctx, "hallway1", 10)
	assert.ErrorIs(t, err, navigator.ErrPersistFailed)
	assert.Equal(t, "persist_failed", navigator.Code(err))
	assert.Equal(t, congestion.High, obs.Tier)
	assert.Equal(t, before+1, metrics.Value("wayfind_congestion_persist_failures_total", ""))

	r, err := e.FindPath(ctx, "entry1", "hallway1")
	require.NoError(t, err)
	assert.Equal(t, 30.0, r.Cost)
}

func TestResolveQR(t *testing.T) {
	e, _ := demoEngine(t)
	loc, err := e.ResolveQR(context.Background(), "qr-coffee")
	require.NoError(t, err)
	assert.Equal(t, "shopA", loc.ID)

	_, err = e.ResolveQR(context.Background(), "qr-nope")
	assert.ErrorIs(t, err, navigator.ErrQRNotFound)
	assert.Equal(t, "qr_not_found", navigator.Code(err))
}

func TestReload_PicksUpSeedAndObservations(t *testing.T) {
	e, repo := demoEngine(t)
	ctx := context.Background()
	st, err := e.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, st.LocationCount)
	assert.Equal(t, 10, st.ConnectionCount)

	plan, err := builder.Build(nil, builder.Grid(2, 3, 10))
	require.NoError(t, err)
	require.NoError(t, repo.Seed(ctx, plan.Locations, plan.Connections))
	require.NoError(t, repo.PersistObservation(ctx, congestion.Observe(builder.GridID("", 0, 1), 20, time.Now())))

	st, err = e.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, st.LocationCount)
	assert.Equal(t, 14, st.ConnectionCount)

	a, err := e.Audit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []congestion.Entry{{LocationID: builder.GridID("", 0, 1), Tier: congestion.High}}, a.Crowded)
}

// slowObservations parks LoadObservations after it has read, once armed.
type slowObservations struct {
	*memory.Repository
	armed   sync.Once
	hold    chan struct{}
	reached chan struct{}
	release chan struct{}
}

func (s *slowObservations) LoadObservations(ctx context.Context) ([]congestion.Observation, error) {
	obs, err := s.Repository.LoadObservations(ctx)
	select {
	case <-s.hold:
		s.armed.Do(func() {
			close(s.reached)
			<-s.release
		})
	default:
	}

	return obs, err
}

func TestReload_KeepsCongestionReportedDuringLoad(t *testing.T) {
	plan, err := builder.Build(nil, builder.Demo())
	require.NoError(t, err)
	src := &slowObservations{
		Repository: memory.New(plan.Locations, plan.Connections),
		hold:       make(chan struct{}),
		reached:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	e := navigator.New(graphstore.New(src, graphstore.WithLogger(quiet)), src, navigator.WithLogger(quiet))
	ctx := context.Background()
	require.NoError(t, e.EnsureInitialized(ctx))

	close(src.hold)
	done := make(chan error, 1)
	go func() {
		_, err := e.Reload(ctx)
		done <- err
	}()
	<-src.reached

	_, err = e.RecordCongestion(ctx, "hallway2", 9)
	require.NoError(t, err)
	close(src.release)
	require.NoError(t, <-done)

	r, err := e.FindPath(ctx, "entry1", "exit1")
	require.NoError(t, err)
	assert.Equal(t, 50.0, r.Cost)

	// The next reload reads the persisted High itself.
	_, err = e.Reload(ctx)
	require.NoError(t, err)
	r, err = e.FindPath(ctx, "entry1", "exit1")
	require.NoError(t, err)
	assert.Equal(t, 50.0, r.Cost)
}

func TestReload_FailureKeepsSnapshot(t *testing.T) {
	e, repo := demoEngine(t)
	ctx := context.Background()
	require.NoError(t, e.EnsureInitialized(ctx))

	repo.FailLoad = errors.New("gone")
	_, err := e.Reload(ctx)
	assert.ErrorIs(t, err, navigator.ErrStoreUnavailable)

	r, err := e.FindPath(ctx, "entry1", "exit1")
	require.NoError(t, err)
	assert.Equal(t, 30.0, r.Cost)
}

func TestLocations(t *testing.T) {
	e, _ := demoEngine(t)
	locs, err := e.Locations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 6)
	assert.Equal(t, "entry1", locs[0].ID)
	assert.Equal(t, "stairs", locs[5].ID)
}

func TestAudit(t *testing.T) {
	repo := twoEntrances()
	e := engineFor(t, repo)
	a, err := e.Audit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, a.ExitCount)
	assert.Equal(t, []string{"L"}, a.Stranded)
	assert.Empty(t, a.EntrancesWithoutExit)
	assert.Empty(t, a.Crowded)

	noExit := engineFor(t, memory.New([]core.Location{{ID: "E", IsEntrance: true}, {ID: "R"}}, nil))
	a, err = noExit.Audit(context.Background())
	require.NoError(t, err)
	assert.Zero(t, a.ExitCount)
	assert.Equal(t, []string{"E", "R"}, a.Stranded)
	assert.Equal(t, []string{"E"}, a.EntrancesWithoutExit)
}

func TestEngine_ConcurrentQueriesAndUpdates(t *testing.T) {
	e, _ := demoEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := e.Navigate(ctx, navigator.Request{StartID: "entry1", EndID: "exit1"})
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := e.RecordCongestion(ctx, "hallway2", i)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	r, err := e.FindPath(ctx, "entry1", "exit1")
	require.NoError(t, err)
	// hallway2 ends on one of 0..7; the route is forced through it either way.
	assert.Contains(t, []float64{30, 35}, r.Cost)
}
