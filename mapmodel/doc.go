// Package mapmodel is the presentation-facing model of the live map. It owns
// one feed session and one trip fetcher and exposes their state as observable
// values, so a UI, or the HTTP surface in package server, never touches the
// transport directly.
package mapmodel
