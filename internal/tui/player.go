// Package tui plays back a recorded propagation history in the
// terminal, one z-slice heatmap per frame.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/render"
	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model holds the playback state for a completed run.
type Model struct {
	label    string
	reason   string
	frames   []*thermal.Field
	lo, hi   float64
	frame    int
	z        int
	playing  bool
	interval time.Duration
}

// NewModel builds a player over the recorded frames. lo and hi fix the
// color scale across all frames, typically ambient and end temperature.
func NewModel(label, reason string, frames []*thermal.Field, lo, hi float64, fps int) Model {
	if fps < 1 {
		fps = 10
	}
	return Model{
		label:    label,
		reason:   reason,
		frames:   frames,
		lo:       lo,
		hi:       hi,
		playing:  true,
		interval: time.Second / time.Duration(fps),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles key input and frame advancement.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "r":
			m.frame = 0
			m.playing = true
		case "n", "right":
			m.playing = false
			if m.frame < len(m.frames)-1 {
				m.frame++
			}
		case "p", "left":
			m.playing = false
			if m.frame > 0 {
				m.frame--
			}
		case "]", "up":
			if m.z < m.frames[0].Size()-1 {
				m.z++
			}
		case "[", "down":
			if m.z > 0 {
				m.z--
			}
		case "g":
			m.frame = 0
		case "G":
			m.frame = len(m.frames) - 1
		}
		return m, nil

	case TickMsg:
		if m.playing && m.frame < len(m.frames)-1 {
			m.frame++
		}
		if m.frame == len(m.frames)-1 {
			m.playing = false
		}
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	if len(m.frames) == 0 {
		return "no frames\n"
	}

	f := m.frames[m.frame]

	header := headerStyle.Render(fmt.Sprintf("thermosim · %s", m.label))

	status := fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("step"),
		valueStyle.Render(fmt.Sprintf("%d/%d", m.frame, len(m.frames)-1)),
		labelStyle.Render("end"),
		valueStyle.Render(m.reason),
	)
	if !m.playing {
		status += "   " + pausedStyle.Render("paused")
	}

	view := header + "\n" +
		status + "\n\n" +
		render.Heatmap(f, m.z, m.lo, m.hi) + "\n" +
		render.Legend(m.lo, m.hi) + "\n" +
		helpStyle.Render("space play/pause · n/p step · [/] slice · r restart · q quit")

	return view + "\n"
}
