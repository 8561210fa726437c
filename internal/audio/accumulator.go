// SPDX-License-Identifier: MIT
package audio

import "sync"

// Accumulator buffers mono samples until a fixed analysis window is full,
// then hands the window to flush and clears. It runs inside the audio
// callback: the lock is held only across the append-and-maybe-flush step,
// and the backing array is allocated once so appends never grow it.
//
// flush receives the accumulator's own buffer and must copy anything it
// keeps; the buffer is reused for the next window.
type Accumulator struct {
	mu      sync.Mutex
	samples []float64
	window  int
	flush   func(window []float64)
}

// NewAccumulator creates an accumulator for windows of the given size.
// window must be positive.
func NewAccumulator(window int, flush func([]float64)) *Accumulator {
	return &Accumulator{
		samples: make([]float64, 0, window),
		window:  window,
		flush:   flush,
	}
}

// Append adds samples in order, flushing each time the window fills. A
// window can complete mid-block; the remainder seeds the next window.
func (a *Accumulator) Append(samples []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range samples {
		a.samples = append(a.samples, s)
		if len(a.samples) >= a.window {
			a.flush(a.samples)
			a.samples = a.samples[:0]
		}
	}
}

// Len returns the number of buffered samples awaiting a full window.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.samples)
}

// WindowSize returns the configured window length.
func (a *Accumulator) WindowSize() int {
	return a.window
}
