// Package toaster shows short-lived notifications at the bottom of the screen,
// such as the result of a config reload.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/dropzone/internal/ui/overlay"
	"github.com/zjrosen/dropzone/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// maxWidth caps the toast box, border included.
const maxWidth = 60

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

func (s Style) prefix() string {
	switch s {
	case StyleError:
		return "✗ "
	case StyleInfo:
		return "• "
	case StyleWarn:
		return "! "
	default:
		return "✓ "
	}
}

func (s Style) color() lipgloss.TerminalColor {
	switch s {
	case StyleError:
		return styles.StatusErrorColor
	case StyleInfo:
		return styles.BorderHoverColor
	case StyleWarn:
		return styles.StatusWarningColor
	default:
		return styles.StatusSuccessColor
	}
}

// Model holds the toaster state. Every Show bumps seq so a dismissal
// scheduled for an older toast leaves a newer one up.
type Model struct {
	message string
	style   Style
	visible bool
	seq     uint64
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// Show displays message and returns the command that dismisses it after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.seq++
	m.message = message
	m.style = style
	m.visible = message != ""
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{seq: seq} })
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Update handles DismissMsg. Dismissals for replaced toasts are ignored.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		return m.Hide()
	}
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the text of the visible toast.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	text := styles.TruncateString(m.style.prefix()+m.message, maxWidth-4)
	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.style.color()).
		Render(text)
}

// Overlay renders the toast one row above the bottom edge of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg hides the toast it was scheduled for.
type DismissMsg struct{ seq uint64 }
