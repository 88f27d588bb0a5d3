// Package watch provides a last-value-cached register with change notification.
package watch

import (
	"sync"
	"sync/atomic"
)

type cell[T any] struct {
	v       T
	changed chan struct{}
}

// Value holds the latest published value of T. Loads are lock-free; Store is
// meant for a single writer. The zero Value is not usable, see NewValue.
type Value[T any] struct {
	mu  sync.Mutex
	cur atomic.Pointer[cell[T]]
}

// NewValue returns a register holding initial.
func NewValue[T any](initial T) *Value[T] {
	v := &Value[T]{}
	v.cur.Store(&cell[T]{v: initial, changed: make(chan struct{})})
	return v
}

// Load returns the current value.
func (v *Value[T]) Load() T {
	return v.cur.Load().v
}

// Watch returns the current value and a channel that is closed on the next Store.
func (v *Value[T]) Watch() (T, <-chan struct{}) {
	c := v.cur.Load()
	return c.v, c.changed
}

// Store replaces the value and wakes every watcher.
func (v *Value[T]) Store(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	prev := v.cur.Load()
	v.cur.Store(&cell[T]{v: x, changed: make(chan struct{})})
	close(prev.changed)
}

// CompareAndSwap stores next only when ok(current) holds. It reports whether it did.
func (v *Value[T]) CompareAndSwap(ok func(T) bool, next T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	prev := v.cur.Load()
	if !ok(prev.v) {
		return false
	}
	v.cur.Store(&cell[T]{v: next, changed: make(chan struct{})})
	close(prev.changed)
	return true
}
