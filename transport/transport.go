package transport

import "context"

// Message is one frame received on a subscription. A message with a non-nil Err
// reports that the stream failed; no further messages follow it.
type Message struct {
	Destination string
	ContentType string
	Body        []byte
	Err         error
}

// Subscription is a live subscription to one destination.
type Subscription interface {
	// C delivers messages in arrival order. It is closed when the stream ends.
	C() <-chan Message
	Unsubscribe() error
}

// Conn is an established broker session.
type Conn interface {
	Subscribe(destination string) (Subscription, error)
	// Disconnect performs the protocol-level goodbye and releases the connection.
	Disconnect() error
	// Close releases the connection without a handshake.
	Close() error
}

// Dialer opens broker sessions. The returned Conn lives until ctx is done or it
// is closed.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}
