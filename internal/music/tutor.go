// SPDX-License-Identifier: MIT
package music

// Tutor walks a cursor through a lesson sequence as the learner plays the
// expected notes. The cursor is monotonically non-decreasing over
// [0, len(sequence)]; cursor == len(sequence) is the terminal state. An
// empty lesson starts complete.
type Tutor struct {
	sequence  []Sound
	index     int
	threshold float64
	reference float64
}

// NewTutor builds a tutor over sequence. threshold is the magnitude below
// which an estimate is treated as silence or noise; reference is the A4
// tuning pitch used to discretize frequencies.
func NewTutor(sequence []Sound, threshold, reference float64) *Tutor {
	return &Tutor{
		sequence:  sequence,
		threshold: threshold,
		reference: reference,
	}
}

// Sequence returns the lesson the tutor was built over.
func (t *Tutor) Sequence() []Sound {
	return t.sequence
}

// Index returns the cursor position.
func (t *Tutor) Index() int {
	return t.index
}

// Done reports whether the lesson is complete.
func (t *Tutor) Done() bool {
	return t.index >= len(t.sequence)
}

// Observe feeds one tick's pitch estimate to the matcher and reports
// whether the cursor advanced. Estimates below the activity threshold and
// frequencies that do not discretize to a pitch class cause no transition.
// At most one target is consumed per call: a note sustained across many
// ticks re-matches the then-current target, never more.
func (t *Tutor) Observe(frequency, magnitude float64) bool {
	if magnitude <= t.threshold {
		return false
	}
	played, ok := NoteFromFrequency(frequency, t.reference)
	if !ok {
		return false
	}
	return t.advance(played)
}

// advance moves the cursor past the current target when played matches it,
// then past any run of Silence elements, which are separators rather than
// targets. Wrong notes leave the cursor where it is; there is no backward
// transition.
func (t *Tutor) advance(played Note) bool {
	if t.Done() {
		return false
	}
	current := t.sequence[t.index]
	if current.Silence || current.Note != played {
		return false
	}
	t.index++
	for t.index < len(t.sequence) && t.sequence[t.index].Silence {
		t.index++
	}
	return true
}
