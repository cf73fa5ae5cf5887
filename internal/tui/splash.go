package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	splashLetterDelay = 800 * time.Millisecond
	splashDuration    = 2200 * time.Millisecond
)

type splashPhase int

const (
	splashBlank splashPhase = iota
	splashLetter
	splashDone
)

type splashTickMsg struct {
	phase splashPhase
}

// splash shows the logo, adds the brand letter after a short delay and then
// hands over to the app. Phases only move forward.
type splash struct {
	phase splashPhase
}

func (s splash) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(splashLetterDelay, func(time.Time) tea.Msg { return splashTickMsg{phase: splashLetter} }),
		tea.Tick(splashDuration, func(time.Time) tea.Msg { return splashTickMsg{phase: splashDone} }),
	)
}

func (s splash) Update(msg splashTickMsg) splash {
	if msg.phase > s.phase {
		s.phase = msg.phase
	}
	return s
}

func (s splash) Done() bool { return s.phase == splashDone }

func (s splash) View(width, height int) string {
	letter := " "
	if s.phase >= splashLetter {
		letter = "R"
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		splashLetterStyle.Render(letter),
		"",
		titleStyle.Render("rilmas"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
