// SPDX-License-Identifier: MIT
/*
Package analysis implements the spectral half of the practice tool: a
real-FFT over each completed sample window followed by a log-domain
Harmonic Product Spectrum with parabolic sub-bin refinement.

The Analyzer runs synchronously inside the audio callback, so it
pre-allocates every scratch buffer at construction and must never panic:
index and denominator guards degrade to the unrefined result instead of
aborting the stream.
*/
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"pitchtutor/pkg/bitint"
)

// Decimation factors combined by the harmonic product. Harmonics of the
// true fundamental align across these decimated copies of the spectrum.
var decimations = [3]int{2, 3, 4}

// Bin is one displayable spectrum point.
type Bin struct {
	Frequency float64
	Magnitude float64
}

// Estimate is the immutable snapshot of one window's analysis, handed
// across the thread boundary to the consumer. The loudest bin
// (PeakFrequency/MaxMagnitude) and the harmonically best supported bin
// (Fundamental) are deliberately independent: inharmonic or
// overtone-dominant input can legitimately make them disagree, and both
// are exposed.
type Estimate struct {
	PeakFrequency float64 // Loudest raw bin (Hz)
	Fundamental   float64 // HPS-refined fundamental (Hz)
	MaxMagnitude  float64 // Magnitude of the loudest bin
	SampleRate    float64
	WindowSize    int
	Bins          []Bin     // Raw bins up to the display cutoff, ascending
	Samples       []float64 // Copy of the analyzed window
}

// Sink receives completed estimates. A mailbox.Mailbox[*Estimate]
// satisfies it directly.
type Sink interface {
	Put(e *Estimate)
}

// Config carries the analyzer calibration values.
type Config struct {
	WindowSize   int
	SampleRate   float64
	Epsilon      float64 // Magnitude floor before any logarithm
	DisplayMaxHz float64 // Bins above this are omitted from Estimate.Bins
	Window       WindowFunc
}

// workspace holds the pre-allocated scratch buffers for one analysis pass.
type workspace struct {
	input     []float64    // Windowed copy of the sample window
	coeffs    []complex128 // Real-FFT output, windowSize/2+1 bins
	magnitude []float64    // Modulus of each bin
	decimated [3][]float64 // Epsilon-floored decimated magnitude series
	hps       []float64    // Summed log-domain product spectrum
	window    []float64    // Taper coefficients, nil for rectangular
}

// Analyzer turns one full sample window into a pitch estimate.
type Analyzer struct {
	cfg       Config
	fftObj    *fourier.FFT
	workspace workspace
	maxK      int // Meaningful bins for real input: windowSize/2 + 1
	smallest  int // Shortest decimated series length
}

// NewAnalyzer validates the configuration and pre-allocates all buffers.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if !bitint.IsPowerOfTwo(cfg.WindowSize) {
		return nil, fmt.Errorf("window size must be a power of 2, got %d", cfg.WindowSize)
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", cfg.SampleRate)
	}
	if cfg.Epsilon <= 0 {
		return nil, fmt.Errorf("epsilon must be positive, got %g", cfg.Epsilon)
	}

	maxK := cfg.WindowSize/2 + 1

	var decimated [3][]float64
	smallest := maxK
	for i, d := range decimations {
		length := (maxK + d - 1) / d
		decimated[i] = make([]float64, length)
		if length < smallest {
			smallest = length
		}
	}

	return &Analyzer{
		cfg:      cfg,
		fftObj:   fourier.NewFFT(cfg.WindowSize),
		maxK:     maxK,
		smallest: smallest,
		workspace: workspace{
			input:     make([]float64, cfg.WindowSize),
			coeffs:    make([]complex128, maxK),
			magnitude: make([]float64, maxK),
			decimated: decimated,
			hps:       make([]float64, smallest),
			window:    windowCoeffs(cfg.WindowSize, cfg.Window),
		},
	}, nil
}

// WindowSize returns the configured analysis window length.
func (a *Analyzer) WindowSize() int {
	return a.cfg.WindowSize
}

// SampleRate returns the configured sample rate (Hz).
func (a *Analyzer) SampleRate() float64 {
	return a.cfg.SampleRate
}

// binFrequency returns the center frequency (Hz) of bin i. Frequencies
// stay in floating point to retain the sub-Hz resolution the parabolic
// refinement depends on.
func (a *Analyzer) binFrequency(i float64) float64 {
	return i * a.cfg.SampleRate / float64(a.cfg.WindowSize)
}

// Analyze runs one full pass over exactly WindowSize samples and returns
// the estimate. The workspace is reused across calls; only the returned
// Estimate and its slices are freshly allocated, as it outlives the call.
func (a *Analyzer) Analyze(samples []float64) *Estimate {
	ws := &a.workspace
	eps := a.cfg.Epsilon

	n := copy(ws.input, samples)
	for i := n; i < len(ws.input); i++ {
		ws.input[i] = 0
	}
	if ws.window != nil {
		for i, w := range ws.window {
			ws.input[i] *= w
		}
	}

	a.fftObj.Coefficients(ws.coeffs, ws.input)
	for i, c := range ws.coeffs {
		ws.magnitude[i] = cmplx.Abs(c)
	}

	// Decimated magnitude series, epsilon-floored before any log or compare.
	for di, d := range decimations {
		dec := ws.decimated[di]
		for j := range dec {
			dec[j] = math.Max(ws.magnitude[j*d], eps)
		}
	}

	// Log-domain harmonic product: a 20*log10 baseline plus the decimated
	// contributions, tracking the global maximum as the coarse fundamental.
	coarse, best := 0, math.Inf(-1)
	for i := 0; i < a.smallest; i++ {
		v := 20 * math.Log10(math.Max(ws.magnitude[i], eps))
		for di := range ws.decimated {
			v += ws.decimated[di][i]
		}
		ws.hps[i] = v
		if v > best {
			coarse, best = i, v
		}
	}

	// Parabolic sub-bin refinement on the raw magnitudes around the coarse
	// bin. Bin 0 and a degenerate three-point fit keep the coarse index.
	refined := float64(coarse)
	if coarse != 0 && coarse+1 < len(ws.magnitude) {
		yl := ws.magnitude[coarse-1]
		yc := ws.magnitude[coarse]
		yr := ws.magnitude[coarse+1]
		if denom := yl - 2*yc + yr; denom != 0 {
			refined += 0.5 * (yl - yr) / denom
		}
	}
	fundamental := a.binFrequency(refined)

	// Independent peak scan plus the display series in one pass.
	displayCap := int(a.cfg.DisplayMaxHz*float64(a.cfg.WindowSize)/a.cfg.SampleRate) + 1
	if displayCap > a.maxK {
		displayCap = a.maxK
	}
	bins := make([]Bin, 0, displayCap)
	peakFrequency := 0.0
	maxMagnitude := ws.magnitude[0]
	for i := 0; i < a.maxK; i++ {
		freq := a.binFrequency(float64(i))
		mag := ws.magnitude[i]
		if freq <= a.cfg.DisplayMaxHz {
			bins = append(bins, Bin{Frequency: freq, Magnitude: mag})
		}
		if mag > maxMagnitude {
			maxMagnitude = mag
			peakFrequency = freq
		}
	}

	snapshot := make([]float64, len(samples))
	copy(snapshot, samples)

	return &Estimate{
		PeakFrequency: peakFrequency,
		Fundamental:   fundamental,
		MaxMagnitude:  maxMagnitude,
		SampleRate:    a.cfg.SampleRate,
		WindowSize:    a.cfg.WindowSize,
		Bins:          bins,
		Samples:       snapshot,
	}
}
