// Package markdown renders the board guide and other help text with glamour.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// flushStyle drops glamour's document margins so output sits flush inside a
// bordered overlay.
const flushStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer renders markdown wrapped to a fixed width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer that wraps at width. The palette follows the
// background lipgloss detected at startup; glamour's auto style would query
// the terminal again while bubbletea owns stdin.
func New(width int) (*Renderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(StyleName(lipgloss.HasDarkBackground())),
		glamour.WithStylesFromJSONBytes([]byte(flushStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// StyleName picks the glamour palette for a dark or light background.
func StyleName(dark bool) string {
	if dark {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// Width returns the wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render returns md as styled terminal text with trailing blank lines trimmed.
func (r *Renderer) Render(md string) (string, error) {
	out, err := r.renderer.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n "), nil
}
