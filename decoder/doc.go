// Package decoder parses raw feed payloads into vehicle records.
//
// Two wire formats are supported:
//   - JSON: an array of vehicle objects (the default)
//   - GTFS-Realtime: a protobuf FeedMessage, selected by content type
//
// Decoders are pure functions over the payload. A payload of the wrong shape is
// reported as an error wrapping ErrMalformed, never as a panic.
package decoder
