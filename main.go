package main

import (
	"fmt"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"pitchtutor/cmd"
	"pitchtutor/internal/analysis"
	"pitchtutor/internal/audio"
	"pitchtutor/internal/config"
	"pitchtutor/internal/log"
	"pitchtutor/internal/music"
	"pitchtutor/internal/tui"
	"pitchtutor/pkg/build"
	"pitchtutor/pkg/mailbox"
)

// main runs in three phases:
//
// 1. Startup (cold path): build metadata, PortAudio, configuration,
// one-off commands, lesson loading. Every failure here is fatal; once
// the stream starts there is no error path out of the audio callback.
//
// 2. Concurrent (hot path): the PortAudio callback accumulates samples
// and publishes estimates into the mailbox; the Bubble Tea loop drains
// it on its tick. The mailbox keeps the two sides decoupled, so a slow
// terminal never stalls capture.
//
// 3. Shutdown (cold path): the TUI returning closes the quit channel,
// the listener stops the stream and flushes any recording, and
// PortAudio terminates on the way out.
func main() {
	build.Initialize()

	// One thread for the audio callback, one for the TUI and I/O.
	runtime.GOMAXPROCS(2)

	if err := audio.Initialize(); err != nil {
		log.Fatalf("portaudio: %v", err)
	}
	defer audio.Terminate()

	cfg, err := cmd.ParseArgs()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if level, ok := log.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	}
	if cfg.Verbose {
		log.SetLevel(log.LevelDebug)
	}

	if cfg.Command == "list" {
		if err := audio.ListDevices(); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	if !cfg.TUIMode {
		return
	}

	tutor, lessonErr := loadTutor(cfg)

	box := &mailbox.Mailbox[*analysis.Estimate]{}
	listener, err := audio.NewListener(cfg, box)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := listener.Start(); err != nil {
		log.Fatalf("%v", err)
	}

	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := listener.Run(quit); err != nil {
			log.Errorf("listener shutdown: %v", err)
		}
	}()

	program := tea.NewProgram(
		tui.NewModel(cfg, box, tutor, lessonErr),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		log.Errorf("tui: %v", err)
	}

	close(quit)
	<-done

	if cfg.Record.Enabled {
		fmt.Printf("Recording saved to: %s\n", listener.RecordingPath())
	}
}

// loadTutor builds the tutor from the configured lesson file. A load or
// parse failure is not fatal: the TUI reports the lesson as unloaded
// and the analysis screens keep working.
func loadTutor(cfg *config.Config) (*music.Tutor, error) {
	if cfg.Tutor.LessonFile == "" {
		return nil, nil
	}
	sequence, err := music.LoadLesson(cfg.Tutor.LessonFile)
	if err != nil {
		log.Warnf("lesson: %v", err)
		return nil, err
	}
	return music.NewTutor(sequence, cfg.Tutor.ActivityThreshold, cfg.Tutor.ReferencePitch), nil
}
