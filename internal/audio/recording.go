// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"pitchtutor/internal/log"
)

// recorder encodes the captured input stream to a WAV file. State changes
// go through an atomic flag so the callback can check it without locking.
type recorder struct {
	active     int32 // Atomic flag read by the callback
	path       string
	outputFile *os.File
	encoder    *wav.Encoder
	sampleBuf  *goaudio.IntBuffer
	bitDepth   int
}

// RecordingPath returns the file the last recording was written to, or
// the empty string if recording never started.
func (l *Listener) RecordingPath() string {
	return l.rec.path
}

// StartRecording begins encoding the raw input to filename. An empty
// filename gets a timestamped default.
func (l *Listener) StartRecording(filename string) error {
	if atomic.LoadInt32(&l.rec.active) == 1 {
		return fmt.Errorf("already recording")
	}

	if filename == "" {
		filename = "practice-" + time.Now().UTC().Format("02-01-2006-150405") + ".wav"
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create recording file: %w", err)
	}

	bitDepth := l.cfg.Record.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	l.rec.path = filename
	l.rec.outputFile = file
	l.rec.bitDepth = bitDepth
	l.rec.encoder = wav.NewEncoder(file, int(l.sampleRate), bitDepth, l.channels, 1)
	l.rec.sampleBuf = &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: l.channels,
			SampleRate:  int(l.sampleRate),
		},
		SourceBitDepth: bitDepth,
		Data:           make([]int, l.cfg.Audio.FramesPerBuffer*l.channels),
	}

	atomic.StoreInt32(&l.rec.active, 1)
	log.Infof("Recording to %s", filename)

	return nil
}

// StopRecording finalizes and closes the WAV file. Safe to call when not
// recording.
func (l *Listener) StopRecording() error {
	if atomic.LoadInt32(&l.rec.active) == 0 {
		return nil
	}

	atomic.StoreInt32(&l.rec.active, 0)

	if l.rec.encoder != nil {
		if err := l.rec.encoder.Close(); err != nil {
			return err
		}
		l.rec.encoder = nil
	}
	if l.rec.outputFile != nil {
		if err := l.rec.outputFile.Close(); err != nil {
			return err
		}
		l.rec.outputFile = nil
	}

	return nil
}

// write encodes one callback block. Runs on the hot path; write failures
// are reported through the log side channel and the stream continues.
func (r *recorder) write(in []float32) {
	if atomic.LoadInt32(&r.active) != 1 || r.encoder == nil {
		return
	}

	scale := float64(int(1)<<(r.bitDepth-1)) - 1
	data := r.sampleBuf.Data[:cap(r.sampleBuf.Data)]
	n := len(in)
	if n > len(data) {
		n = len(data)
	}
	for i := range n {
		s := float64(in[i])
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(math.Round(s * scale))
	}
	r.sampleBuf.Data = data[:n]

	if err := r.encoder.Write(r.sampleBuf); err != nil {
		log.Errorf("Error writing to WAV file: %v", err)
	}
}
