// Package modal provides a single-line input prompt drawn over the board,
// used to name a new card.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/dropzone/internal/ui/overlay"
	"github.com/zjrosen/dropzone/internal/ui/styles"
)

const (
	defaultWidth = 40
	maxLength    = 120
)

// Config controls modal appearance.
type Config struct {
	Title       string // e.g. "New card in Todo"
	Placeholder string // shown while the input is empty
	Width       int    // inner width (0 = default 40)
}

// SubmitMsg is sent when the user presses Enter with a non-blank value.
type SubmitMsg struct {
	Value string
}

// CancelMsg is sent when the user presses Esc.
type CancelMsg struct{}

// Model is the prompt state.
type Model struct {
	config Config
	input  textinput.Model
	width  int
	height int
}

// New creates a focused prompt.
func New(cfg Config) Model {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.Prompt = ""
	ti.CharLimit = maxLength
	ti.Width = cfg.Width - 2
	ti.Focus()
	return Model{config: cfg, input: ti}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles keys for the prompt.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}
			return m, func() tea.Msg { return SubmitMsg{Value: value} }
		case tea.KeyEsc:
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Value returns the current input text.
func (m Model) Value() string {
	return m.input.Value()
}

// SetSize updates the viewport size used for centering.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the prompt box.
func (m Model) View() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("enter to save · esc to cancel")
	content := lipgloss.NewStyle().Padding(0, 1).Render(m.input.View() + "\n\n" + hint)
	return styles.RenderWithTitleBorder(content, m.config.Title, m.config.Width+2, 5,
		styles.TextPrimaryColor, styles.BorderHoverColor)
}

// Overlay renders the prompt centered on bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}
