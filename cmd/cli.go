package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pitchtutor/internal/config"
	"pitchtutor/pkg/build"
)

// ParseArgs builds the runtime configuration: defaults, then the YAML
// config file, then environment overrides (all via config.LoadConfig),
// then CLI flags on top.
func ParseArgs() (*config.Config, error) {
	return parseArgs(os.Args[1:])
}

func parseArgs(args []string) (*config.Config, error) {
	// The config file path must be known before flag defaults are bound,
	// so it is scanned out of the raw arguments first.
	options, err := config.LoadConfig(configPathFromArgs(args))
	if err != nil {
		return nil, err
	}

	buildInfo := build.GetBuildFlags()

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Terminal pitch tutor: live pitch detection against a lesson",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			options.TUIMode = true
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio input devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
			options.TUIMode = false
		},
	}
	rootCmd.AddCommand(listCmd)

	// Flag defaults are the already-loaded values, so a flag the user
	// does not pass leaves the file or environment setting intact.
	var configPath string
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file")

	// Audio Device Configuration
	rootCmd.PersistentFlags().IntVarP(&options.Audio.InputDevice, "device", "d", options.Audio.InputDevice,
		"Input device ID. Use the 'list' command to see available devices.")
	rootCmd.PersistentFlags().IntVarP(&options.Audio.Channels, "channels", "c", options.Audio.Channels,
		"Channels to capture (0 = device channel count; channel 0 is analyzed)")
	rootCmd.PersistentFlags().Float64VarP(&options.Audio.SampleRate, "sample-rate", "s", options.Audio.SampleRate,
		"Sample rate in Hertz (0 = device default)")
	rootCmd.PersistentFlags().IntVarP(&options.Audio.FramesPerBuffer, "frames-per-buffer", "b", options.Audio.FramesPerBuffer,
		"The number of frames per buffer (affects latency)")
	rootCmd.PersistentFlags().BoolVarP(&options.Audio.LowLatency, "low-latency", "l", options.Audio.LowLatency,
		"Request low latency from the input device")

	// Analysis Configuration
	rootCmd.PersistentFlags().IntVarP(&options.Analysis.WindowSize, "window-size", "w", options.Analysis.WindowSize,
		"Analysis window size in samples (power of 2)")
	rootCmd.PersistentFlags().StringVar(&options.Analysis.FFTWindow, "fft-window", options.Analysis.FFTWindow,
		"Window function applied before the FFT (rectangular, hann, hamming, ...)")

	// Tutor Configuration
	rootCmd.PersistentFlags().StringVarP(&options.Tutor.LessonFile, "lesson", "L", options.Tutor.LessonFile,
		"Lesson file with comma-separated notes, one phrase per line")
	rootCmd.PersistentFlags().Float64VarP(&options.Tutor.ActivityThreshold, "threshold", "t", options.Tutor.ActivityThreshold,
		"Magnitude below which input counts as silence")
	rootCmd.PersistentFlags().DurationVar(&options.Tutor.TickInterval, "tick", options.Tutor.TickInterval,
		"Display and matching tick interval")
	rootCmd.PersistentFlags().Float64Var(&options.Tutor.ReferencePitch, "reference-pitch", options.Tutor.ReferencePitch,
		"Tuning reference for A4 in Hertz")

	// Recording Configuration
	rootCmd.PersistentFlags().BoolVarP(&options.Record.Enabled, "record", "r", options.Record.Enabled,
		"Record the captured input to a WAV file")
	rootCmd.PersistentFlags().StringVarP(&options.Record.OutputFile, "output", "o", options.Record.OutputFile,
		"Output file name. Default is practice-MM-DD-YYYY-HHMMSS.wav")

	// Debug Configuration
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", options.Verbose,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVar(&options.LogLevel, "log-level", options.LogLevel,
		"Log level (debug, info, warn, error)")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// configPathFromArgs extracts the --config value without running the
// full parser.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
