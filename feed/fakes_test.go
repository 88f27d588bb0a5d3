package feed

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zetflow/zetflow-live/transport"
)

type fakeSub struct {
	ch             chan transport.Message
	closeOnce      sync.Once
	unsubscribeErr error
	unsubscribes   atomic.Int32
}

func newFakeSub() *fakeSub { return &fakeSub{ch: make(chan transport.Message)} }

func (s *fakeSub) C() <-chan transport.Message { return s.ch }
func (s *fakeSub) Unsubscribe() error         { s.unsubscribes.Add(1); return s.unsubscribeErr }
func (s *fakeSub) end()                       { s.closeOnce.Do(func() { close(s.ch) }) }

type fakeConn struct {
	sub          *fakeSub
	subscribeErr error

	// disconnect behaviour
	disconnectErr   error
	disconnectBlock chan struct{}
	endOnDisconnect bool

	disconnects atomic.Int32
	closes      atomic.Int32
	topics      chan string
}

func newFakeConn() *fakeConn {
	return &fakeConn{sub: newFakeSub(), endOnDisconnect: true, topics: make(chan string, 1)}
}

func (c *fakeConn) Subscribe(topic string) (transport.Subscription, error) {
	c.topics <- topic
	if c.subscribeErr != nil {
		return nil, c.subscribeErr
	}
	return c.sub, nil
}

func (c *fakeConn) Disconnect() error {
	c.disconnects.Add(1)
	if c.disconnectBlock != nil {
		<-c.disconnectBlock
	}
	if c.endOnDisconnect {
		c.sub.end()
	}
	return c.disconnectErr
}

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	return nil
}

type fakeDialer struct {
	conn  *fakeConn
	err   error
	block bool // wait for ctx cancellation before returning
	dials atomic.Int32
}

func (d *fakeDialer) Dial(ctx context.Context) (transport.Conn, error) {
	d.dials.Add(1)
	if d.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}
