// Package overlay draws one block of terminal content on top of another
// without clearing the screen. The board uses it for the drag ghost, which
// follows the pointer, for the centered help panel and for toasts.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the center of the viewport.
	Center Position = iota
	// At places the overlay's top-left corner at (X, Y).
	At
	// Bottom centers the overlay horizontally PadY rows above the bottom edge.
	Bottom
)

// Config controls overlay rendering behavior.
type Config struct {
	// Width is the total viewport width.
	Width int
	// Height is the total viewport height.
	Height int
	// Position specifies where to place the overlay.
	Position Position
	// X and Y are the cell coordinates used by At.
	X, Y int
	// PadY is the gap below a Bottom overlay.
	PadY int
}

// Place renders fg on top of bg. Both may carry ANSI styling; it is kept
// intact on either side of the overlay. Foreground cells that fall outside
// the viewport are clipped.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	startX, startY := calculatePosition(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		bgY := startY + i
		if bgY >= len(bgLines) {
			break
		}

		if cfg.Width > 0 {
			room := cfg.Width - startX
			if room <= 0 {
				break
			}
			fgLine = ansi.Truncate(fgLine, room, "")
		}

		bgLine := bgLines[bgY]
		left := ansi.Truncate(bgLine, startX, "")
		if w := ansi.StringWidth(left); w < startX {
			left += strings.Repeat(" ", startX-w)
		}

		var right string
		endX := startX + ansi.StringWidth(fgLine)
		if endX < ansi.StringWidth(bgLine) {
			right = ansi.TruncateLeft(bgLine, endX, "")
		}

		bgLines[bgY] = left + fgLine + right
	}

	return strings.Join(bgLines, "\n")
}

// calculatePosition determines the top-left cell of the overlay.
func calculatePosition(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case At:
		x, y = cfg.X, cfg.Y
	case Bottom:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		x = (cfg.Width - fgWidth) / 2
		y = (cfg.Height - fgHeight) / 2
	}
	return max(x, 0), max(y, 0)
}
