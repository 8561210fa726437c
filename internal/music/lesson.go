// SPDX-License-Identifier: MIT
package music

import (
	"fmt"
	"os"
	"strings"
)

// Sound is one element of a lesson: either a target note or a phrase
// separator. Silence elements are never match targets.
type Sound struct {
	Note    Note
	Silence bool
}

// NoteSound wraps a pitch class as a lesson element.
func NoteSound(n Note) Sound {
	return Sound{Note: n}
}

// Rest is the silence element inserted between lesson phrases.
var Rest = Sound{Silence: true}

// String renders a note element as its token and silence as "·".
func (s Sound) String() string {
	if s.Silence {
		return "·"
	}
	return s.Note.String()
}

// ParseLesson parses lesson text into an ordered Sound sequence.
// Grammar: newline-separated phrases, comma-separated note tokens per
// phrase; one Silence element separates consecutive phrases. Whitespace
// around tokens is ignored. A bad token fails the whole parse with an
// error naming it.
func ParseLesson(content string) ([]Sound, error) {
	trimmed := strings.TrimRight(content, "\r\n \t")
	if trimmed == "" {
		return nil, nil
	}

	var sounds []Sound
	for i, line := range strings.Split(trimmed, "\n") {
		if i > 0 {
			sounds = append(sounds, Rest)
		}
		for _, token := range strings.Split(line, ",") {
			note, err := ParseNote(strings.TrimSpace(token))
			if err != nil {
				return nil, fmt.Errorf("lesson line %d: %w", i+1, err)
			}
			sounds = append(sounds, NoteSound(note))
		}
	}
	return sounds, nil
}

// LoadLesson reads and parses a lesson file.
func LoadLesson(path string) ([]Sound, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson file: %w", err)
	}
	return ParseLesson(string(data))
}
