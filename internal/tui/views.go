// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"strings"

	"pitchtutor/internal/analysis"
	"pitchtutor/internal/music"
)

const helpLine = "t: Tutor • d: Debug • h: Help • q: Quit"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// renderTutor shows the lesson sequence: completed elements dimmed, the
// current target highlighted, the rest plain.
func (m Model) renderTutor() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Pitch Tutor"))
	sb.WriteString("\n\n")

	switch {
	case m.lessonErr != nil:
		sb.WriteString(errorStyle.Render("Lesson unloaded"))
		sb.WriteString("\n")
		sb.WriteString(infoStyle.Render(m.lessonErr.Error()))
		sb.WriteString("\n")
	case m.tutor == nil:
		sb.WriteString(infoStyle.Render("No lesson loaded. Start with --lesson <file>."))
		sb.WriteString("\n")
	default:
		sb.WriteString(m.renderSequence())
		sb.WriteString("\n")
		if m.tutor.Done() {
			sb.WriteString(currentStyle.Render("Lesson complete!"))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderReadout())
	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render(helpLine))
	return sb.String()
}

func (m Model) renderSequence() string {
	var sb strings.Builder

	cursor := m.tutor.Index()
	for i, sound := range m.tutor.Sequence() {
		token := sound.String()
		switch {
		case i < cursor:
			token = doneStyle.Render(token)
		case i == cursor:
			token = currentStyle.Render(token)
		}
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(token)
	}
	return sb.String()
}

// renderReadout is the one-line live summary shared by the tutor and
// debug screens.
func (m Model) renderReadout() string {
	if m.latest == nil {
		return infoStyle.Render("Listening...")
	}

	note := "-"
	if n, ok := music.NoteFromFrequency(m.latest.Fundamental, m.cfg.Tutor.ReferencePitch); ok {
		note = n.String()
	}
	return fmt.Sprintf("Peak %7.1f Hz   Fundamental %7.1f Hz (%s)   Level %6.1f",
		m.latest.PeakFrequency, m.latest.Fundamental, note, m.latest.MaxMagnitude)
}

// renderDebug shows the raw spectrum below the display cutoff and a
// slice of the analyzed window alongside the numeric readout.
func (m Model) renderDebug() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Analysis Debug"))
	sb.WriteString("\n\n")

	if m.latest == nil {
		sb.WriteString(infoStyle.Render("No analysis yet."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(fmt.Sprintf("Window %d @ %.0f Hz\n\n", m.latest.WindowSize, m.latest.SampleRate))

		sb.WriteString("Spectrum (0 Hz")
		if n := len(m.latest.Bins); n > 0 {
			sb.WriteString(fmt.Sprintf(" .. %.0f Hz", m.latest.Bins[n-1].Frequency))
		}
		sb.WriteString(")\n")
		sb.WriteString(sparkline(binMagnitudes(m.latest.Bins), m.plotWidth()))
		sb.WriteString("\n\n")

		sb.WriteString("Input window\n")
		sb.WriteString(sparkline(rectified(m.latest.Samples), m.plotWidth()))
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.renderReadout())
	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render(helpLine))
	return sb.String()
}

func (m Model) renderHelp() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Help"))
	sb.WriteString("\n\n")
	sb.WriteString("  t    tutor screen, reloads the lesson file\n")
	sb.WriteString("  d    analysis debug screen\n")
	sb.WriteString("  h    this screen\n")
	sb.WriteString("  q    quit\n")
	sb.WriteString("\nThe tutor advances when the detected fundamental matches the\n")
	sb.WriteString("highlighted note and the signal level clears the activity threshold.\n")
	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render(helpLine))
	return sb.String()
}

func (m Model) plotWidth() int {
	if m.width < 16 {
		return 16
	}
	return m.width - 2
}

func binMagnitudes(bins []analysis.Bin) []float64 {
	vals := make([]float64, len(bins))
	for i, b := range bins {
		vals[i] = b.Magnitude
	}
	return vals
}

func rectified(samples []float64) []float64 {
	vals := make([]float64, len(samples))
	for i, s := range samples {
		if s < 0 {
			s = -s
		}
		vals[i] = s
	}
	return vals
}

// sparkline squeezes a series into width cells, each cell the maximum
// of its slice of the series, scaled to the block-element ramp.
func sparkline(vals []float64, width int) string {
	if len(vals) == 0 || width <= 0 {
		return ""
	}
	if width > len(vals) {
		width = len(vals)
	}

	cells := make([]float64, width)
	peak := 0.0
	for i := 0; i < width; i++ {
		lo := i * len(vals) / width
		hi := (i + 1) * len(vals) / width
		for _, v := range vals[lo:hi] {
			if v > cells[i] {
				cells[i] = v
			}
		}
		if cells[i] > peak {
			peak = cells[i]
		}
	}

	var sb strings.Builder
	for _, c := range cells {
		idx := 0
		if peak > 0 {
			idx = int(c / peak * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}
