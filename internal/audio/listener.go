// SPDX-License-Identifier: MIT
/*
Package audio implements the capture side of the practice tool: the
PortAudio input stream, the window accumulator feeding the spectral
analyzer, and optional WAV recording of the captured input.

The FFT + HPS pass runs synchronously inside the stream callback, so its
execution time is bounded only by what the audio subsystem tolerates
before flagging underruns. Everything the callback touches is allocated
up front, and fallible steps log instead of aborting: a fault escaping
the callback would silently stop audio delivery.
*/
package audio

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"pitchtutor/internal/analysis"
	"pitchtutor/internal/config"
	"pitchtutor/internal/log"
)

// Listener owns the input stream and drives the analysis pipeline. Device
// and stream parameters are resolved at construction; failures there are
// startup preconditions with no retry.
type Listener struct {
	cfg      *config.Config
	device   *portaudio.DeviceInfo
	latency  time.Duration
	stream   *portaudio.Stream
	analyzer *analysis.Analyzer
	sink     analysis.Sink

	channels   int
	sampleRate float64
	acc        *Accumulator
	mono       []float64 // Pre-allocated channel-0 scratch per callback

	rec recorder
}

// NewListener resolves the input device, accepts its reported
// configuration (unless the config overrides it), and builds the analyzer
// and accumulator. PortAudio must be initialized.
func NewListener(cfg *config.Config, sink analysis.Sink) (*Listener, error) {
	device, err := InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, err
	}
	if device.MaxInputChannels < 1 {
		return nil, fmt.Errorf("device %q has no input channels", device.Name)
	}

	channels := cfg.Audio.Channels
	if channels == 0 {
		channels = device.MaxInputChannels
	}
	if channels > device.MaxInputChannels {
		return nil, fmt.Errorf("device %q supports %d input channels, %d requested",
			device.Name, device.MaxInputChannels, channels)
	}

	sampleRate := cfg.Audio.SampleRate
	if sampleRate == 0 {
		sampleRate = device.DefaultSampleRate
	}

	windowType, err := analysis.ParseWindowFunc(cfg.Analysis.FFTWindow)
	if err != nil {
		return nil, err
	}
	analyzer, err := analysis.NewAnalyzer(analysis.Config{
		WindowSize:   cfg.Analysis.WindowSize,
		SampleRate:   sampleRate,
		Epsilon:      cfg.Analysis.Epsilon,
		DisplayMaxHz: cfg.Analysis.DisplayMaxHz,
		Window:       windowType,
	})
	if err != nil {
		return nil, err
	}

	l := &Listener{
		cfg:        cfg,
		device:     device,
		analyzer:   analyzer,
		sink:       sink,
		channels:   channels,
		sampleRate: sampleRate,
		mono:       make([]float64, cfg.Audio.FramesPerBuffer),
	}
	l.acc = NewAccumulator(cfg.Analysis.WindowSize, l.onWindow)

	if cfg.Audio.LowLatency {
		l.latency = device.DefaultLowInputLatency
	} else {
		l.latency = device.DefaultHighInputLatency
	}

	log.Debugf("Audio: using device %q (%d ch, %.0f Hz, window %d)",
		device.Name, channels, sampleRate, cfg.Analysis.WindowSize)

	return l, nil
}

// SampleRate returns the rate the stream was resolved to.
func (l *Listener) SampleRate() float64 {
	return l.sampleRate
}

// Channels returns the captured channel count; channel 0 is analyzed.
func (l *Listener) Channels() int {
	return l.channels
}

// Start opens the input stream and begins capture. The first callback
// invocation marks the start of the hot path.
func (l *Listener) Start() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: l.channels,
			Device:   l.device,
			Latency:  l.latency,
		},
		FramesPerBuffer: l.cfg.Audio.FramesPerBuffer,
		SampleRate:      l.sampleRate,
	}

	stream, err := portaudio.OpenStream(params, l.processInput)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	l.stream = stream

	if err := l.stream.Start(); err != nil {
		l.stream.Close()
		l.stream = nil
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	if l.cfg.Record.Enabled {
		if err := l.StartRecording(l.cfg.Record.OutputFile); err != nil {
			return err
		}
	}

	return nil
}

// Run blocks until the single-shot quit signal, then releases the stream.
// Shutdown is cooperative: a callback already in flight completes, and no
// analysis pass is interrupted. The coordinating caller joins Run before
// process exit.
func (l *Listener) Run(quit <-chan struct{}) error {
	<-quit
	return l.Close()
}

// Close stops recording if active and releases the stream.
func (l *Listener) Close() error {
	if err := l.StopRecording(); err != nil {
		return err
	}

	if l.stream != nil {
		if err := l.stream.Stop(); err != nil {
			return err
		}
		if err := l.stream.Close(); err != nil {
			return err
		}
		l.stream = nil
	}

	return nil
}

// processInput is the stream callback. It takes channel 0 of each
// interleaved frame and feeds the accumulator, which triggers a full
// analysis pass whenever a window completes.
func (l *Listener) processInput(in []float32) {
	n := 0
	for i := 0; i+l.channels <= len(in) && n < len(l.mono); i += l.channels {
		l.mono[n] = float64(in[i])
		n++
	}
	l.acc.Append(l.mono[:n])

	l.rec.write(in)
}

// onWindow runs inside the callback each time the accumulator completes a
// window: one analysis pass, then the latest-wins handoff to the consumer.
func (l *Listener) onWindow(window []float64) {
	l.sink.Put(l.analyzer.Analyze(window))
}
