// SPDX-License-Identifier: MIT

// Package mailbox implements a single-slot, overwrite-on-put handoff cell
// for producer/consumer pairs that only care about the most recent value.
//
// The audio callback produces one pitch estimate roughly every
// windowSize/sampleRate seconds (~93 ms at 44.1 kHz / 4096) while the UI
// consumes on its own, slower tick. A growable queue would need a
// drain-and-keep-latest policy on every read to avoid backlog; a single
// overwritable slot makes the no-backlog invariant structural instead.
package mailbox

import "sync"

// Mailbox is a latest-wins cell: Put overwrites any unconsumed value and
// Take reads-and-clears. Values are observed in put order; intermediate
// values are discarded, never reordered. Safe for concurrent use from
// multiple producers and a consumer. The zero value is ready to use.
type Mailbox[T any] struct {
	mu   sync.Mutex
	val  T
	full bool
}

// Put stores v, replacing any value not yet taken. It never blocks beyond
// the internal lock, which is held only for the assignment; this keeps it
// usable from the real-time audio callback.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	m.val = v
	m.full = true
	m.mu.Unlock()
}

// Take removes and returns the latest value. The second result is false
// when nothing has been put since the last Take.
func (m *Mailbox[T]) Take() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.full {
		var zero T
		return zero, false
	}
	v := m.val
	var zero T
	m.val = zero
	m.full = false
	return v, true
}

// Peek returns the latest value without clearing it.
func (m *Mailbox[T]) Peek() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.val, m.full
}
