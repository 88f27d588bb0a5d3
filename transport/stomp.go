package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-stomp/stomp/v3"
	"go.uber.org/zap"

	"github.com/zetflow/zetflow-live/config"
	"github.com/zetflow/zetflow-live/internal"
)

const (
	defaultConnectTimeout = 10 * time.Second
	wsReadLimit           = 16 << 20
)

var stompSubprotocols = []string{"v12.stomp", "v11.stomp", "v10.stomp"}

// ErrUnsupportedScheme is returned for endpoints that are neither WebSocket nor TCP.
var ErrUnsupportedScheme = errors.New("unsupported endpoint scheme")

// StompDialer connects to a STOMP broker over WebSocket (ws, wss) or plain TCP (tcp).
type StompDialer struct {
	Endpoint       string
	Host           string
	Heartbeat      time.Duration
	ConnectTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// NewStompDialer creates a dialer from feed configuration.
func NewStompDialer(cfg config.FeedConfig, logger *zap.Logger) *StompDialer {
	return &StompDialer{
		Endpoint:       cfg.Endpoint,
		Host:           cfg.Host,
		Heartbeat:      cfg.Heartbeat(),
		ConnectTimeout: defaultConnectTimeout,
		Logger:         internal.OrNop(logger),
	}
}

// Dial opens the network connection and performs the STOMP CONNECT handshake.
// ConnectTimeout bounds both steps; afterwards the connection is bound to ctx.
func (d *StompDialer) Dial(ctx context.Context) (Conn, error) {
	u, err := url.Parse(d.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", d.Endpoint, err)
	}

	timeout := d.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var rwc io.ReadWriteCloser
	switch u.Scheme {
	case "ws", "wss":
		ws, _, err := websocket.Dial(dialCtx, d.Endpoint, &websocket.DialOptions{
			HTTPClient:   d.HTTPClient,
			Subprotocols: stompSubprotocols,
		})
		if err != nil {
			return nil, fmt.Errorf("websocket dial %s: %w", d.Endpoint, err)
		}
		ws.SetReadLimit(wsReadLimit)
		rwc = websocket.NetConn(ctx, ws, websocket.MessageText)
	case "tcp":
		var nd net.Dialer
		nc, err := nd.DialContext(dialCtx, "tcp", u.Host)
		if err != nil {
			return nil, fmt.Errorf("tcp dial %s: %w", u.Host, err)
		}
		context.AfterFunc(ctx, func() { _ = nc.Close() })
		rwc = nc
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	// stomp.Connect has no context; closing the stream unblocks it.
	stopGuard := context.AfterFunc(dialCtx, func() { _ = rwc.Close() })
	host := d.Host
	if host == "" {
		host = "/"
	}
	sc, err := stomp.Connect(rwc,
		stomp.ConnOpt.Host(host),
		stomp.ConnOpt.HeartBeat(d.Heartbeat, d.Heartbeat),
	)
	if !stopGuard() {
		// dialCtx expired while connecting; the stream is already closed
		if err == nil {
			_ = sc.Disconnect()
			err = dialCtx.Err()
		}
	}
	if err != nil {
		_ = rwc.Close()
		return nil, fmt.Errorf("stomp connect %s: %w", d.Endpoint, err)
	}

	d.Logger.Debug("stomp connected",
		zap.String("endpoint", d.Endpoint),
		zap.String("server", sc.Server()),
		zap.String("version", sc.Version().String()))

	return &stompConn{conn: sc, rwc: rwc}, nil
}

type stompConn struct {
	conn *stomp.Conn
	rwc  io.ReadWriteCloser

	mu   sync.Mutex
	subs []*stompSubscription
}

func (c *stompConn) Subscribe(destination string) (Subscription, error) {
	sub, err := c.conn.Subscribe(destination, stomp.AckAuto)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", destination, err)
	}
	s := &stompSubscription{
		sub:  sub,
		out:  make(chan Message),
		done: make(chan struct{}),
	}
	c.mu.Lock()
	c.subs = append(c.subs, s)
	c.mu.Unlock()
	go s.pump()
	return s, nil
}

func (c *stompConn) Disconnect() error {
	c.release()
	err := c.conn.Disconnect()
	_ = c.rwc.Close()
	return err
}

func (c *stompConn) Close() error {
	c.release()
	return c.rwc.Close()
}

// release stops forwarding on every subscription so pumps never block on a
// consumer that has gone away.
func (c *stompConn) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.subs {
		s.stop()
	}
	c.subs = nil
}

type stompSubscription struct {
	sub      *stomp.Subscription
	out      chan Message
	done     chan struct{}
	doneOnce sync.Once
}

func (s *stompSubscription) C() <-chan Message { return s.out }

func (s *stompSubscription) stop() {
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *stompSubscription) Unsubscribe() error {
	s.stop()
	if !s.sub.Active() {
		return nil
	}
	return s.sub.Unsubscribe()
}

func (s *stompSubscription) pump() {
	defer close(s.out)
	released := false
	for m := range s.sub.C {
		if released {
			// keep draining so the stomp reader never blocks on us
			continue
		}
		msg := Message{Err: m.Err}
		if m.Err == nil {
			msg.Destination = m.Destination
			msg.ContentType = m.ContentType
			msg.Body = m.Body
		}
		select {
		case s.out <- msg:
		case <-s.done:
			released = true
			continue
		}
		if m.Err != nil {
			return
		}
	}
}
