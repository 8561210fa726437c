// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"pitchtutor/pkg/bitint"
)

// LoadConfig loads configuration from a YAML file at path. If path is empty
// it searches default locations ("pitchtutor.yaml", "config.yaml"); if no
// file is found the built-in defaults are used. Environment overrides are
// applied after the file, and the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		candidates := []string{
			"pitchtutor.yaml",
			"config.yaml",
		}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the loaded configuration for values the pipeline cannot
// operate with. Startup is the only chance to reject these; the audio
// callback has no error path of its own.
func (c *Config) Validate() error {
	if !bitint.IsPowerOfTwo(c.Analysis.WindowSize) {
		return fmt.Errorf("analysis.window_size must be a power of 2, got %d", c.Analysis.WindowSize)
	}
	if c.Analysis.WindowSize > MaxWindowFrames {
		return fmt.Errorf("analysis.window_size %d exceeds maximum %d", c.Analysis.WindowSize, MaxWindowFrames)
	}
	if c.Analysis.Epsilon <= 0 {
		return fmt.Errorf("analysis.epsilon must be positive, got %g", c.Analysis.Epsilon)
	}
	if c.Analysis.DisplayMaxHz <= 0 {
		return fmt.Errorf("analysis.display_max_hz must be positive, got %g", c.Analysis.DisplayMaxHz)
	}
	if c.Audio.SampleRate != 0 && (c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate) {
		return fmt.Errorf("audio.sample_rate %g outside supported range [%d, %d]",
			c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.Channels < 0 {
		return fmt.Errorf("audio.channels must be >= 0, got %d", c.Audio.Channels)
	}
	if c.Audio.FramesPerBuffer <= 0 {
		return fmt.Errorf("audio.frames_per_buffer must be positive, got %d", c.Audio.FramesPerBuffer)
	}
	if c.Tutor.TickInterval <= 0 {
		return fmt.Errorf("tutor.tick_interval must be positive, got %s", c.Tutor.TickInterval)
	}
	if c.Tutor.ReferencePitch <= 0 {
		return fmt.Errorf("tutor.reference_pitch must be positive, got %g", c.Tutor.ReferencePitch)
	}
	return nil
}

func (cfg *Config) applyEnvOverrides() {
	// PITCHTUTOR_LOG_LEVEL
	if val, ok := os.LookupEnv("PITCHTUTOR_LOG_LEVEL"); ok {
		cfg.LogLevel = val
	}
	// PITCHTUTOR_LESSON
	if val, ok := os.LookupEnv("PITCHTUTOR_LESSON"); ok {
		cfg.Tutor.LessonFile = val
	}
	// PITCHTUTOR_WINDOW_SIZE
	if val, ok := os.LookupEnv("PITCHTUTOR_WINDOW_SIZE"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Analysis.WindowSize = n
		}
	}
	// PITCHTUTOR_TICK_INTERVAL
	if val, ok := os.LookupEnv("PITCHTUTOR_TICK_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			cfg.Tutor.TickInterval = dur
		}
	}
}
