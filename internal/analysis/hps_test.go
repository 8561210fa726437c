// SPDX-License-Identifier: MIT
package analysis

import (
	"math"
	"testing"
)

const (
	testWindowSize = 4096
	testSampleRate = 44100.0
	testEpsilon    = 1e-10
	testDisplayMax = 1500.0
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(Config{
		WindowSize:   testWindowSize,
		SampleRate:   testSampleRate,
		Epsilon:      testEpsilon,
		DisplayMaxHz: testDisplayMax,
	})
	if err != nil {
		t.Fatalf("NewAnalyzer error: %v", err)
	}
	return a
}

// sine adds a sine component of the given frequency and amplitude.
func sine(buf []float64, freq, amplitude float64) {
	for i := range buf {
		tm := float64(i) / testSampleRate
		buf[i] += amplitude * math.Sin(2*math.Pi*freq*tm)
	}
}

// binFreq returns the center frequency of bin i at the test geometry.
func binFreq(i float64) float64 {
	return i * testSampleRate / testWindowSize
}

func TestNewAnalyzerValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"window not power of two", Config{WindowSize: 3000, SampleRate: 44100, Epsilon: 1e-10}},
		{"zero window", Config{WindowSize: 0, SampleRate: 44100, Epsilon: 1e-10}},
		{"zero sample rate", Config{WindowSize: 4096, SampleRate: 0, Epsilon: 1e-10}},
		{"zero epsilon", Config{WindowSize: 4096, SampleRate: 44100, Epsilon: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnalyzer(tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPureToneFundamental(t *testing.T) {
	a := newTestAnalyzer(t)

	buf := make([]float64, testWindowSize)
	sine(buf, 440.0, 0.05)

	est := a.Analyze(buf)

	binWidth := testSampleRate / testWindowSize // ≈10.77 Hz
	if diff := math.Abs(est.Fundamental - 440.0); diff > binWidth {
		t.Errorf("fundamental %.2f Hz off 440 by %.2f, want within one bin width %.2f",
			est.Fundamental, diff, binWidth)
	}
	if diff := math.Abs(est.PeakFrequency - 440.0); diff > binWidth {
		t.Errorf("peak %.2f Hz off 440 by %.2f, want within one bin width %.2f",
			est.PeakFrequency, diff, binWidth)
	}
	if est.MaxMagnitude <= 0 {
		t.Errorf("expected positive max magnitude, got %g", est.MaxMagnitude)
	}
}

func TestPeakAndFundamentalIndependent(t *testing.T) {
	a := newTestAnalyzer(t)

	// A harmonic complex rooted at bin 30 with reinforcing partials at
	// bins 60/90/120, plus a louder inharmonic tone at bin 55. The HPS
	// must follow the harmonic support while the peak follows loudness.
	buf := make([]float64, testWindowSize)
	sine(buf, binFreq(30), 0.30)
	sine(buf, binFreq(60), 0.25)
	sine(buf, binFreq(90), 0.20)
	sine(buf, binFreq(120), 0.15)
	sine(buf, binFreq(55), 0.60)

	est := a.Analyze(buf)

	if math.Abs(est.PeakFrequency-binFreq(55)) > 0.01 {
		t.Errorf("peak %.3f Hz, expected the loud tone at %.3f", est.PeakFrequency, binFreq(55))
	}
	if math.Abs(est.Fundamental-binFreq(30)) > 0.5 {
		t.Errorf("fundamental %.3f Hz, expected the harmonic root near %.3f", est.Fundamental, binFreq(30))
	}
	if est.PeakFrequency == est.Fundamental {
		t.Error("peak and fundamental must be independent metrics")
	}
}

func TestSilenceAnalyzes(t *testing.T) {
	a := newTestAnalyzer(t)

	est := a.Analyze(make([]float64, testWindowSize))

	// All-zero input must not produce NaN or infinities; the epsilon floor
	// keeps the logs finite and the consumer gates on MaxMagnitude.
	if math.IsNaN(est.Fundamental) || math.IsInf(est.Fundamental, 0) {
		t.Errorf("fundamental not finite for silence: %g", est.Fundamental)
	}
	if est.MaxMagnitude != 0 {
		t.Errorf("expected zero max magnitude for silence, got %g", est.MaxMagnitude)
	}
}

func TestDisplayBins(t *testing.T) {
	a := newTestAnalyzer(t)

	buf := make([]float64, testWindowSize)
	sine(buf, 440.0, 0.1)

	est := a.Analyze(buf)

	if len(est.Bins) == 0 {
		t.Fatal("expected display bins")
	}
	prev := -1.0
	for _, b := range est.Bins {
		if b.Frequency > testDisplayMax {
			t.Errorf("bin at %.2f Hz above display cutoff %.0f", b.Frequency, testDisplayMax)
		}
		if b.Frequency <= prev {
			t.Errorf("bins not in ascending frequency order at %.2f", b.Frequency)
		}
		prev = b.Frequency
	}
}

func TestEstimateSnapshot(t *testing.T) {
	a := newTestAnalyzer(t)

	buf := make([]float64, testWindowSize)
	sine(buf, 440.0, 0.1)

	est := a.Analyze(buf)

	if len(est.Samples) != testWindowSize {
		t.Fatalf("expected %d snapshot samples, got %d", testWindowSize, len(est.Samples))
	}
	if est.WindowSize != testWindowSize || est.SampleRate != testSampleRate {
		t.Errorf("estimate geometry %d/%g, expected %d/%g",
			est.WindowSize, est.SampleRate, testWindowSize, testSampleRate)
	}

	// The snapshot is a copy: mutating the analyzed buffer afterwards, as
	// the accumulator does when it clears, must not change the estimate.
	for i := range buf {
		buf[i] = 0
	}
	all0 := true
	for _, s := range est.Samples {
		if s != 0 {
			all0 = false
			break
		}
	}
	if all0 {
		t.Error("snapshot aliases the analyzed buffer")
	}
}

func TestAnalyzeReusesWorkspace(t *testing.T) {
	a := newTestAnalyzer(t)

	buf := make([]float64, testWindowSize)
	sine(buf, 330.0, 0.05)

	first := a.Analyze(buf)
	second := a.Analyze(buf)

	if first.Fundamental != second.Fundamental {
		t.Errorf("repeated analysis diverged: %g vs %g", first.Fundamental, second.Fundamental)
	}
}

func TestHannWindowStillFindsTone(t *testing.T) {
	a, err := NewAnalyzer(Config{
		WindowSize:   testWindowSize,
		SampleRate:   testSampleRate,
		Epsilon:      testEpsilon,
		DisplayMaxHz: testDisplayMax,
		Window:       Hann,
	})
	if err != nil {
		t.Fatalf("NewAnalyzer error: %v", err)
	}

	buf := make([]float64, testWindowSize)
	sine(buf, 440.0, 0.05)

	est := a.Analyze(buf)
	binWidth := testSampleRate / testWindowSize
	if diff := math.Abs(est.Fundamental - 440.0); diff > binWidth {
		t.Errorf("windowed fundamental %.2f Hz off 440 by %.2f", est.Fundamental, diff)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	a, err := NewAnalyzer(Config{
		WindowSize:   testWindowSize,
		SampleRate:   testSampleRate,
		Epsilon:      testEpsilon,
		DisplayMaxHz: testDisplayMax,
	})
	if err != nil {
		b.Fatalf("NewAnalyzer error: %v", err)
	}

	buf := make([]float64, testWindowSize)
	for i := range buf {
		tm := float64(i) / testSampleRate
		buf[i] = math.Sin(2*math.Pi*440*tm)*0.05 +
			math.Sin(2*math.Pi*880*tm)*0.03 +
			math.Sin(2*math.Pi*1320*tm)*0.02
	}

	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		a.Analyze(buf)
	}
}
