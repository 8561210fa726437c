// SPDX-License-Identifier: MIT

// Package bitint provides power-of-two helpers for FFT and buffer sizing.
// All operations are allocation-free and constant time, safe to call from
// the real-time audio path.
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size. Powers of 2 are
// returned unchanged; zero and negative inputs yield 1.
//
// The size-1 before bits.Len is what preserves exact powers of 2: for 8,
// bits.Len(7) = 3 and 1<<3 = 8, whereas bits.Len(8) = 4 would double it.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2. Powers of 2
// have exactly one bit set, so n&(n-1) clears to zero only for them.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
