package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zetflow/zetflow-live/config"
	"github.com/zetflow/zetflow-live/decoder"
	"github.com/zetflow/zetflow-live/internal"
	"github.com/zetflow/zetflow-live/internal/watch"
	"github.com/zetflow/zetflow-live/model"
	"github.com/zetflow/zetflow-live/transport"
)

// Session owns one live subscription to the vehicle feed and publishes the latest
// decoded snapshot and the latest failure.
//
// A Session is not restarted after it terminates: there is no retry or reconnect.
// Callers wanting resilience create a new Session.
type Session struct {
	id                string
	topic             string
	disconnectTimeout time.Duration
	dialer            transport.Dialer
	decoder           decoder.Decoder
	logger            *zap.Logger
	now               func() time.Time

	snapshot *watch.Value[model.VehicleSnapshot]
	lastErr  *watch.Value[*SessionError]
	state    *watch.Value[State]

	// mu serialises writers; readers only touch the watch registers.
	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	conn    transport.Conn
	sub     transport.Subscription
	done    chan struct{}
	stopCh  chan struct{}
	seq     uint64
}

// NewSession creates an idle session for the configured topic.
func NewSession(cfg config.FeedConfig, dialer transport.Dialer, dec decoder.Decoder, logger *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:                id,
		topic:             cfg.Topic,
		disconnectTimeout: cfg.DisconnectTimeout(),
		dialer:            dialer,
		decoder:           dec,
		logger:            internal.OrNop(logger).With(zap.String("session", id), zap.String("topic", cfg.Topic)),
		now:               time.Now,
		snapshot:          watch.NewValue(model.VehicleSnapshot{}),
		lastErr:           watch.NewValue[*SessionError](nil),
		state:             watch.NewValue(Idle),
		stopCh:            make(chan struct{}),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Snapshot returns the latest decoded vehicles.
func (s *Session) Snapshot() model.VehicleSnapshot { return s.snapshot.Load() }

// WatchSnapshot returns the latest snapshot and a channel closed on the next update.
func (s *Session) WatchSnapshot() (model.VehicleSnapshot, <-chan struct{}) { return s.snapshot.Watch() }

// Err returns the latest failure, or nil.
func (s *Session) Err() *SessionError { return s.lastErr.Load() }

// WatchErr returns the latest failure and a channel closed when it changes.
func (s *Session) WatchErr() (*SessionError, <-chan struct{}) { return s.lastErr.Watch() }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state.Load() }

// WatchState returns the lifecycle state and a channel closed when it changes.
func (s *Session) WatchState() (State, <-chan struct{}) { return s.state.Watch() }

// ClearErr drops the published failure.
func (s *Session) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr.Load() != nil {
		s.lastErr.Store(nil)
	}
}

// Start connects and subscribes in the background. Only the first call on an idle
// session has an effect; it never blocks.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || !s.state.CompareAndSwap(func(st State) bool { return st == Idle }, Connecting) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
}

// Stop tears the session down. If connected it sends DISCONNECT, bounded by ctx and
// the configured disconnect timeout; teardown failures are logged, not returned.
// Stop may be called in any state and more than once. No snapshot update is
// published after it returns.
func (s *Session) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	conn, sub, cancel, done := s.conn, s.sub, s.cancel, s.done
	s.conn, s.sub = nil, nil
	s.state.Store(Terminated)
	s.mu.Unlock()

	if conn != nil {
		s.disconnect(ctx, conn, sub)
	}
	if cancel != nil {
		cancel()
	}
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			s.logger.Warn("session goroutine still running after stop", zap.Error(ctx.Err()))
		}
	}
	s.logger.Info("feed session stopped")
}

// disconnect unsubscribes when sub is set, then sends DISCONNECT. Both steps share
// one deadline; past it the connection is closed without a handshake.
func (s *Session) disconnect(ctx context.Context, conn transport.Conn, sub transport.Subscription) {
	if s.disconnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.disconnectTimeout)
		defer cancel()
	}

	errc := make(chan error, 1)
	go func() {
		if sub != nil {
			if err := sub.Unsubscribe(); err != nil {
				s.logger.Warn("unsubscribe failed", zap.Error(err))
			}
		}
		errc <- conn.Disconnect()
	}()

	select {
	case err := <-errc:
		if err != nil {
			s.logger.Warn("disconnect failed", zap.Error(err))
		}
	case <-ctx.Done():
		s.logger.Warn("disconnect did not complete", zap.Error(ctx.Err()))
		_ = conn.Close()
	}
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	s.logger.Info("connecting to feed")
	conn, err := s.dialer.Dial(ctx)
	if err != nil {
		s.fail(ConnectionFailed, "Connection failed", err)
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.conn = conn
	s.mu.Unlock()

	sub, err := conn.Subscribe(s.topic)
	if err != nil {
		s.fail(SubscribeFailed, "Subscribe error", err)
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.sub = sub
	s.state.Store(Subscribed)
	s.mu.Unlock()
	s.logger.Info("subscribed to feed")

	s.consume(sub)
}

func (s *Session) consume(sub transport.Subscription) {
	for {
		select {
		case <-s.stopCh:
			return
		case msg, ok := <-sub.C():
			if !ok {
				s.fail(SubscribeFailed, "Subscribe error", errStreamClosed)
				return
			}
			if msg.Err != nil {
				s.fail(SubscribeFailed, "Subscribe error", msg.Err)
				return
			}
			s.handle(msg)
		}
	}
}

func (s *Session) decode(msg transport.Message) ([]model.VehicleRecord, error) {
	if d, ok := s.decoder.(decoder.ContentTypeDecoder); ok {
		return d.DecodeContent(msg.ContentType, msg.Body)
	}
	return s.decoder.Decode(msg.Body)
}

func (s *Session) handle(msg transport.Message) {
	if len(msg.Body) == 0 {
		// heart-beats and receipts carry no vehicles
		s.logger.Debug("skipping frame without a body", zap.String("contentType", msg.ContentType))
		return
	}
	vehicles, err := s.decode(msg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if err != nil {
		s.logger.Warn("dropping undecodable message", zap.Int("bytes", len(msg.Body)), zap.Error(err))
		s.lastErr.Store(newSessionError(DecodeFailed, "Deserialization failed", err, s.now()))
		return
	}

	s.seq++
	s.snapshot.Store(model.VehicleSnapshot{
		Vehicles:   vehicles,
		ReceivedAt: s.now(),
		Sequence:   s.seq,
	})
	// a decode error describes one bad message; the next good one supersedes it
	if cur := s.lastErr.Load(); cur != nil && cur.Reason == DecodeFailed {
		s.lastErr.Store(nil)
	}
	s.logger.Debug("snapshot updated", zap.Int("vehicles", len(vehicles)), zap.Uint64("seq", s.seq))
}

// fail records err and terminates, unless the session is already being stopped,
// in which case the failure is a consequence of the teardown.
func (s *Session) fail(reason Reason, prefix string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.sub = nil
	if s.cancel != nil {
		s.cancel()
	}
	s.lastErr.Store(newSessionError(reason, prefix, err, s.now()))
	s.state.Store(Terminated)
	s.logger.Error("feed session failed", zap.String("reason", string(reason)), zap.Error(err))
}
