// Package guide renders the board guide overlay: how to drag cards, which
// column takes cards from which, and the full key map. The content is built
// as markdown and rendered with glamour.
package guide

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/dropzone/internal/config"
	"github.com/zjrosen/dropzone/internal/keys"
	"github.com/zjrosen/dropzone/internal/log"
	"github.com/zjrosen/dropzone/internal/ui/markdown"
	"github.com/zjrosen/dropzone/internal/ui/overlay"
	"github.com/zjrosen/dropzone/internal/ui/styles"
)

const (
	minWidth  = 30
	maxWidth  = 90
	minHeight = 8
)

// Model is the guide overlay. It is rendered once per size change.
type Model struct {
	columns []config.ColumnConfig
	keys    keys.KeyMap

	width    int
	height   int
	rendered string
}

// New creates a guide for the given columns and key map.
func New(columns []config.ColumnConfig, km keys.KeyMap) Model {
	return Model{columns: columns, keys: km}
}

// SetSize sizes the overlay for a width x height viewport and re-renders it.
func (m Model) SetSize(width, height int) Model {
	m.width = min(max(width*3/4, minWidth), maxWidth)
	m.height = max(height-4, minHeight)

	source := Markdown(m.columns, m.keys)
	m.rendered = source
	r, err := markdown.New(m.width - 4)
	if err == nil {
		var out string
		out, err = r.Render(source)
		if err == nil {
			m.rendered = out
		}
	}
	if err != nil {
		log.Warn(log.CatBoard, "guide rendered as plain text", "error", err)
	}
	return m
}

// View renders the boxed guide. Content taller than the box is cut off.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	lines := strings.Split(m.rendered, "\n")
	if inner := m.height - 2; len(lines) > inner {
		lines = lines[:inner]
	}
	content := lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(lines, "\n"))
	return styles.RenderWithTitleBorder(content, "Guide", m.width, min(len(lines)+2, m.height),
		styles.TextPrimaryColor, styles.BorderHoverColor)
}

// Overlay draws the guide centered over bg.
func (m Model) Overlay(bg string, width, height int) string {
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// Markdown builds the guide source.
func Markdown(columns []config.ColumnConfig, km keys.KeyMap) string {
	var b strings.Builder

	b.WriteString("## Dragging cards\n\n")
	b.WriteString("Press a card with the mouse and drag it onto another column. ")
	fmt.Fprintf(&b, "From the keyboard, select a card and press **%s** to pick it up, ",
		km.Grab.Help().Key)
	fmt.Fprintf(&b, "**%s**/**%s** to carry it and **%s** to drop it. ",
		km.Left.Help().Key, km.Right.Help().Key, km.Drop.Help().Key)
	fmt.Fprintf(&b, "**%s** cancels the drag.\n\n", km.Cancel.Help().Key)
	b.WriteString("A column lights up while a card it will take is over it.\n\n")

	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Status | Takes cards from |\n")
	b.WriteString("|---|---|---|\n")
	for _, col := range columns {
		from := "any column"
		if len(col.Accepts) > 0 {
			from = strings.Join(col.Accepts, ", ")
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", escape(col.Name), escape(col.StatusOrDefault()), escape(from))
	}

	b.WriteString("\n## Keys\n\n")
	b.WriteString("| Key | Action |\n")
	b.WriteString("|---|---|\n")
	for _, group := range km.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "| %s | %s |\n", escape(h.Key), escape(h.Desc))
		}
	}
	return b.String()
}

// escape keeps user text from breaking table cells.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
