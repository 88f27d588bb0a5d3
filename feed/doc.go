// Package feed implements the live vehicle feed session.
//
// A Session connects to the broker, subscribes to one topic and keeps the most
// recently decoded VehicleSnapshot. Failures never escape the session: they are
// published as a SessionError next to the snapshot, and a decode failure leaves
// the previous snapshot in place.
//
// The snapshot, error and state are last-value-cached registers. Readers may call
// Snapshot, Err and State from any goroutine, or use the Watch variants to wait
// for the next change.
package feed
