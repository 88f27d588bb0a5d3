// Package transport connects to the message broker that publishes vehicle
// positions.
//
// The broker speaks STOMP, carried either over a WebSocket (ws://, wss://) as
// Spring's simple broker expects, or over plain TCP (tcp://). A Conn exposes one
// subscription per destination as a channel of raw payloads; decoding is left to
// the caller.
package transport
