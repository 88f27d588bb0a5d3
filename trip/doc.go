// Package trip fetches trip details (the ordered stops of one trip) on demand.
//
// Every call is an independent request with bounded timeouts. Nothing is cached
// and nothing is retried. Fetch collapses every failure into a nil result;
// Lookup keeps "not found" and "request failed" apart.
package trip
