// SPDX-License-Identifier: MIT

// Package music models pitch classes, lesson sequences, and the tutor
// state machine that walks a learner through a sequence of target notes.
package music

import (
	"fmt"
	"math"
)

// Note is one of the 12 chromatic pitch classes, octave-independent.
type Note int

const (
	C Note = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// String returns the canonical token for the pitch class ("C", "C#", ...).
func (n Note) String() string {
	if n < 0 || int(n) >= len(noteNames) {
		return "?"
	}
	return noteNames[n]
}

// ParseNote parses a note token: one letter A-G with an optional trailing
// '#'. The enharmonic tokens B# and E# normalize to C and F, since the
// pitch-class model has no distinct slot for them. Any other text is an
// error naming the offending token.
func ParseNote(token string) (Note, error) {
	var base Note
	switch {
	case len(token) == 0 || len(token) > 2:
		return 0, fmt.Errorf("invalid note token %q", token)
	default:
		switch token[0] {
		case 'A':
			base = A
		case 'B':
			base = B
		case 'C':
			base = C
		case 'D':
			base = D
		case 'E':
			base = E
		case 'F':
			base = F
		case 'G':
			base = G
		default:
			return 0, fmt.Errorf("invalid note token %q", token)
		}
	}

	if len(token) == 2 {
		if token[1] != '#' {
			return 0, fmt.Errorf("invalid note token %q", token)
		}
		base = (base + 1) % 12
	}
	return base, nil
}

// NoteFromFrequency maps a frequency to the nearest pitch class by
// semitone rounding against the reference pitch for A4 (conventionally
// 440 Hz): round(12*log2(f/ref) + 69) mod 12 on the MIDI note scale.
// Returns false for frequencies that are not finite or not positive.
func NoteFromFrequency(freq, reference float64) (Note, bool) {
	if freq <= 0 {
		return 0, false
	}
	midi := math.Round(12*math.Log2(freq/reference) + 69)
	if math.IsNaN(midi) || math.IsInf(midi, 0) {
		return 0, false
	}
	idx := int(midi) % 12
	if idx < 0 {
		idx += 12
	}
	return Note(idx), true
}
