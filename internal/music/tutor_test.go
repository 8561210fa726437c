// SPDX-License-Identifier: MIT
package music

import (
	"math"
	"testing"
)

const (
	testThreshold = 10.0
	testReference = 440.0
	loudEnough    = 20.0
)

// freqOf returns a frequency inside the pitch class n (octave 4-ish).
func freqOf(n Note) float64 {
	// MIDI 60 is C4; shift to the requested class.
	midi := 60 + float64(n)
	return testReference * math.Pow(2, (midi-69)/12)
}

func TestTutorMonotonicAdvance(t *testing.T) {
	seq := []Sound{NoteSound(C), Rest, NoteSound(D)}
	tutor := NewTutor(seq, testThreshold, testReference)

	if tutor.Done() {
		t.Fatal("tutor should not start complete")
	}

	if !tutor.Observe(freqOf(C), loudEnough) {
		t.Fatal("expected C to advance the cursor")
	}
	// The silence separator at index 1 is skipped, never targeted.
	if tutor.Index() != 2 {
		t.Errorf("expected cursor 2 after C, got %d", tutor.Index())
	}

	if !tutor.Observe(freqOf(D), loudEnough) {
		t.Fatal("expected D to advance the cursor")
	}
	if tutor.Index() != 3 {
		t.Errorf("expected cursor 3 after D, got %d", tutor.Index())
	}
	if !tutor.Done() {
		t.Error("expected lesson complete")
	}

	// Terminal state is absorbing.
	if tutor.Observe(freqOf(D), loudEnough) {
		t.Error("expected no transition past the terminal state")
	}
	if tutor.Index() != 3 {
		t.Errorf("cursor moved in terminal state: %d", tutor.Index())
	}
}

func TestTutorWrongNote(t *testing.T) {
	tutor := NewTutor([]Sound{NoteSound(C), NoteSound(D)}, testThreshold, testReference)

	if tutor.Observe(freqOf(E), loudEnough) {
		t.Error("wrong note must not advance")
	}
	if tutor.Index() != 0 {
		t.Errorf("cursor moved on wrong note: %d", tutor.Index())
	}
}

func TestTutorMagnitudeGate(t *testing.T) {
	tutor := NewTutor([]Sound{NoteSound(C)}, testThreshold, testReference)

	// Matching pitch below the activity threshold is silence, not a match.
	if tutor.Observe(freqOf(C), testThreshold) {
		t.Error("estimate at the threshold must not advance")
	}
	if tutor.Observe(freqOf(C), 1.0) {
		t.Error("quiet estimate must not advance")
	}
	if tutor.Index() != 0 {
		t.Errorf("cursor moved while gated: %d", tutor.Index())
	}

	if !tutor.Observe(freqOf(C), loudEnough) {
		t.Error("loud matching estimate should advance")
	}
}

func TestTutorOneTransitionPerTick(t *testing.T) {
	tutor := NewTutor([]Sound{NoteSound(C), NoteSound(C), NoteSound(C)}, testThreshold, testReference)

	tutor.Observe(freqOf(C), loudEnough)
	if tutor.Index() != 1 {
		t.Errorf("expected one step per observation, cursor at %d", tutor.Index())
	}
}

func TestTutorUnmappableFrequency(t *testing.T) {
	tutor := NewTutor([]Sound{NoteSound(C)}, testThreshold, testReference)

	for _, freq := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if tutor.Observe(freq, loudEnough) {
			t.Errorf("frequency %g must not advance", freq)
		}
	}
}

func TestTutorSilenceRunSkipped(t *testing.T) {
	seq := []Sound{NoteSound(G), Rest, Rest, Rest, NoteSound(A)}
	tutor := NewTutor(seq, testThreshold, testReference)

	tutor.Observe(freqOf(G), loudEnough)
	if tutor.Index() != 4 {
		t.Errorf("expected cursor to skip the silence run to 4, got %d", tutor.Index())
	}
}

func TestTutorTrailingSilence(t *testing.T) {
	seq := []Sound{NoteSound(G), Rest}
	tutor := NewTutor(seq, testThreshold, testReference)

	tutor.Observe(freqOf(G), loudEnough)
	if !tutor.Done() {
		t.Error("trailing silence should resolve to the terminal state")
	}
}

func TestTutorEmptyLesson(t *testing.T) {
	tutor := NewTutor(nil, testThreshold, testReference)

	if !tutor.Done() {
		t.Error("empty lesson must start complete")
	}
	if tutor.Observe(freqOf(C), loudEnough) {
		t.Error("empty lesson must not transition")
	}
}
