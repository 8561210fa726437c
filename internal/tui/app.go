// SPDX-License-Identifier: MIT
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pitchtutor/internal/analysis"
	"pitchtutor/internal/config"
	"pitchtutor/internal/music"
	"pitchtutor/pkg/mailbox"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED567A")).
			Bold(true)
)

// ScreenType defines which screen is currently active
type ScreenType int

const (
	TutorScreen ScreenType = iota
	DebugScreen
	HelpScreen
)

// tickMsg fires at the configured tick interval. Each tick drains the
// mailbox once, so intermediate estimates produced since the last tick
// are discarded and only the freshest one is ever shown or matched.
type tickMsg time.Time

// Model is the Bubble Tea model for the practice session.
type Model struct {
	cfg          *config.Config
	box          *mailbox.Mailbox[*analysis.Estimate]
	tutor        *music.Tutor
	lessonErr    error
	latest       *analysis.Estimate
	activeScreen ScreenType
	width        int
	height       int
}

// NewModel builds the session model. A nil tutor together with a
// lesson error renders the tutor screen in its unloaded state; the
// analysis screens stay fully functional either way.
func NewModel(cfg *config.Config, box *mailbox.Mailbox[*analysis.Estimate], tutor *music.Tutor, lessonErr error) Model {
	return Model{
		cfg:          cfg,
		box:          box,
		tutor:        tutor,
		lessonErr:    lessonErr,
		activeScreen: TutorScreen,
		width:        80,
		height:       24,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tick(m.cfg.Tutor.TickInterval)
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles input and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if est, ok := m.box.Take(); ok {
			m.latest = est
			if m.tutor != nil && !m.tutor.Done() {
				m.tutor.Observe(est.Fundamental, est.MaxMagnitude)
			}
		}
		return m, tick(m.cfg.Tutor.TickInterval)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))):
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("d"))):
			m.activeScreen = DebugScreen

		case key.Matches(msg, key.NewBinding(key.WithKeys("h"))):
			m.activeScreen = HelpScreen

		case key.Matches(msg, key.NewBinding(key.WithKeys("t"))):
			// Returning to the tutor restarts the exercise from the
			// lesson file, so edits on disk take effect immediately.
			m.activeScreen = TutorScreen
			m.reloadLesson()
		}
	}

	return m, nil
}

func (m *Model) reloadLesson() {
	if m.cfg.Tutor.LessonFile == "" {
		return
	}
	sequence, err := music.LoadLesson(m.cfg.Tutor.LessonFile)
	if err != nil {
		m.tutor = nil
		m.lessonErr = err
		return
	}
	m.tutor = music.NewTutor(sequence, m.cfg.Tutor.ActivityThreshold, m.cfg.Tutor.ReferencePitch)
	m.lessonErr = nil
}

// View renders the UI
func (m Model) View() string {
	switch m.activeScreen {
	case DebugScreen:
		return m.renderDebug()
	case HelpScreen:
		return m.renderHelp()
	default:
		return m.renderTutor()
	}
}
