package mapmodel

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/zetflow/zetflow-live/feed"
	"github.com/zetflow/zetflow-live/internal"
	"github.com/zetflow/zetflow-live/internal/watch"
	"github.com/zetflow/zetflow-live/model"
	"github.com/zetflow/zetflow-live/trip"
)

// Feed is the live vehicle feed the model presents. *feed.Session implements it.
type Feed interface {
	Start()
	Stop(ctx context.Context)
	Snapshot() model.VehicleSnapshot
	WatchSnapshot() (model.VehicleSnapshot, <-chan struct{})
	Err() *feed.SessionError
	WatchErr() (*feed.SessionError, <-chan struct{})
	ClearErr()
	State() feed.State
}

// TripLookup fetches trip details. *trip.Fetcher implements it.
type TripLookup interface {
	Lookup(ctx context.Context, tripID string) trip.Result
}

// Model is what a map screen binds to: the live snapshot and feed error, the
// selected vehicle, and the trip detail of the last requested trip.
type Model struct {
	feed   Feed
	trips  TripLookup
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	selected   *watch.Value[string]
	tripDetail *watch.Value[*model.TripDetail]

	mu     sync.Mutex
	gen    uint64
	closed bool
}

// New creates a model over f and trips. Call Start to begin receiving updates.
func New(f Feed, trips TripLookup, logger *zap.Logger) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		feed:       f,
		trips:      trips,
		logger:     internal.OrNop(logger),
		ctx:        ctx,
		cancel:     cancel,
		selected:   watch.NewValue(""),
		tripDetail: watch.NewValue[*model.TripDetail](nil),
	}
}

// Start starts the underlying feed.
func (m *Model) Start() { m.feed.Start() }

func (m *Model) Snapshot() model.VehicleSnapshot { return m.feed.Snapshot() }

func (m *Model) WatchSnapshot() (model.VehicleSnapshot, <-chan struct{}) {
	return m.feed.WatchSnapshot()
}

func (m *Model) Err() *feed.SessionError { return m.feed.Err() }

func (m *Model) WatchErr() (*feed.SessionError, <-chan struct{}) { return m.feed.WatchErr() }

// ClearError dismisses the current feed error.
func (m *Model) ClearError() { m.feed.ClearErr() }

func (m *Model) State() feed.State { return m.feed.State() }

// TripDetail returns the detail of the last requested trip, or nil when none
// was requested, it was cleared, or it could not be fetched.
func (m *Model) TripDetail() *model.TripDetail { return m.tripDetail.Load() }

func (m *Model) WatchTripDetail() (*model.TripDetail, <-chan struct{}) {
	return m.tripDetail.Watch()
}

// Selected returns the selected vehicle id, or "".
func (m *Model) Selected() string { return m.selected.Load() }

func (m *Model) WatchSelected() (string, <-chan struct{}) { return m.selected.Watch() }

// FetchTripDetail requests tripID in the background. Only the most recent
// request publishes its result, and nothing is published after Close.
func (m *Model) FetchTripDetail(tripID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.fetchLocked(tripID)
}

// fetchLocked starts a lookup for a new generation. m.mu must be held.
func (m *Model) fetchLocked(tripID string) {
	m.gen++
	gen := m.gen
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		res := m.trips.Lookup(m.ctx, tripID)
		if res.Status != trip.Found {
			m.logger.Debug("trip detail unavailable",
				zap.String("trip", tripID), zap.Stringer("status", res.Status), zap.Error(res.Err))
		}
		m.publishTrip(gen, res.Trip)
	}()
}

func (m *Model) publishTrip(gen uint64, detail *model.TripDetail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.gen {
		return
	}
	m.tripDetail.Store(detail)
}

// ClearTripDetail drops the current trip detail and any fetch still in flight.
func (m *Model) ClearTripDetail() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.clearTripLocked()
}

func (m *Model) clearTripLocked() {
	m.gen++
	m.tripDetail.Store(nil)
}

// Select marks vehicleID as selected and fetches its trip when it has one. It
// reports false, leaving the selection alone, when the vehicle is not in the
// current snapshot or the model is closed.
func (m *Model) Select(vehicleID string) bool {
	v, ok := m.feed.Snapshot().Find(vehicleID)
	if !ok {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.selected.Store(vehicleID)
	if tripID := strings.TrimSpace(model.Deref(v.TripID)); tripID != "" {
		m.fetchLocked(tripID)
	} else {
		m.clearTripLocked()
	}
	return true
}

// ClearSelection deselects the vehicle and drops its trip detail.
func (m *Model) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.selected.Store("")
	m.clearTripLocked()
}

// Close stops the feed, cancels in-flight trip fetches and waits for them,
// bounded by ctx. It is safe to call more than once.
func (m *Model) Close(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.feed.Stop(ctx)

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("trip fetches still running at close", zap.Error(ctx.Err()))
	}
}
