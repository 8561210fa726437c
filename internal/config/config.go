package config

import "time"

// Defaults and limits for the capture and analysis pipeline. The analysis
// constants (window size, epsilon, activity threshold, display cutoff) are
// calibration values, not load-bearing: they are exposed through the YAML
// file and CLI flags rather than hardcoded at use sites.
const (
	DefaultDeviceID        = MinDeviceID // System default input device
	DefaultChannels        = 0           // 0 = accept the device channel count
	DefaultSampleRate      = 0           // 0 = accept the device default rate
	DefaultFramesPerBuffer = 512         // Balanced latency/performance
	DefaultLowLatency      = false       // Standard latency mode

	DefaultWindowSize   = 4096   // Analysis window, power of 2
	DefaultEpsilon      = 1e-10  // Magnitude floor before any log
	DefaultDisplayMaxHz = 1500.0 // Spectrum display cutoff
	DefaultFFTWindow    = "rectangular"

	DefaultActivityThreshold = 10.0 // Magnitude gate for note matching
	DefaultTickInterval      = 250 * time.Millisecond
	DefaultReferencePitch    = 440.0 // A4 in Hz

	DefaultRecordInput = false
	DefaultOutputFile  = "" // Auto-generated filename
	DefaultBitDepth    = 16

	// Hardware and processing limits
	MinDeviceID     = -1     // -1 represents system default device
	MinSampleRate   = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate   = 192000 // Maximum supported sample rate (Hz)
	MaxWindowFrames = 65536  // Maximum analysis window (power of 2)
)

// Config holds all runtime configuration, built from defaults, then an
// optional YAML file, then environment overrides, then CLI flags.
type Config struct {
	LogLevel string          `yaml:"log_level"` // "debug", "info", "warn", "error"
	Verbose  bool            `yaml:"-"`         // CLI flag only
	Command  string          `yaml:"-"`         // One-off command ("list"), not persisted
	TUIMode  bool            `yaml:"-"`
	Audio    AudioConfig     `yaml:"audio"`
	Analysis AnalysisConfig  `yaml:"analysis"`
	Tutor    TutorConfig     `yaml:"tutor"`
	Record   RecordingConfig `yaml:"recording"`
}

// AudioConfig holds input device and stream settings.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index (-1 for default)
	Channels        int     `yaml:"channels"`          // 0 = device channel count; channel 0 is analyzed
	SampleRate      float64 `yaml:"sample_rate"`       // 0 = device default rate
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Callback block size in frames
	LowLatency      bool    `yaml:"low_latency"`       // Request low latency from the device
}

// AnalysisConfig holds the spectral analysis calibration values.
type AnalysisConfig struct {
	WindowSize   int     `yaml:"window_size"`    // Samples per FFT window (power of 2)
	Epsilon      float64 `yaml:"epsilon"`        // Floor applied to magnitudes before logs
	DisplayMaxHz float64 `yaml:"display_max_hz"` // Bins above this are omitted from display data
	FFTWindow    string  `yaml:"fft_window"`     // "rectangular", "hann", "hamming", ...
}

// TutorConfig holds the note-matching settings.
type TutorConfig struct {
	LessonFile        string        `yaml:"lesson_file"`        // Lesson text file; empty = no tutor
	ActivityThreshold float64       `yaml:"activity_threshold"` // Estimates below this magnitude are silence
	TickInterval      time.Duration `yaml:"tick_interval"`      // Consumer tick period
	ReferencePitch    float64       `yaml:"reference_pitch"`    // Tuning reference for A4 (Hz)
}

// RecordingConfig holds settings for recording the captured input.
type RecordingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputFile string `yaml:"output_file"`
	BitDepth   int    `yaml:"bit_depth"`
}

// NewConfig creates a Config populated with defaults. This is the base
// before the YAML file, environment, and CLI flags are applied.
func NewConfig() *Config {
	return &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			Channels:        DefaultChannels,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
		},
		Analysis: AnalysisConfig{
			WindowSize:   DefaultWindowSize,
			Epsilon:      DefaultEpsilon,
			DisplayMaxHz: DefaultDisplayMaxHz,
			FFTWindow:    DefaultFFTWindow,
		},
		Tutor: TutorConfig{
			ActivityThreshold: DefaultActivityThreshold,
			TickInterval:      DefaultTickInterval,
			ReferencePitch:    DefaultReferencePitch,
		},
		Record: RecordingConfig{
			Enabled:    DefaultRecordInput,
			OutputFile: DefaultOutputFile,
			BitDepth:   DefaultBitDepth,
		},
	}
}
