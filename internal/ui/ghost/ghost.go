// Package ghost draws the card that follows the pointer during a drag.
package ghost

import (
	"fmt"
	"math"
	"sync"

	"github.com/zjrosen/dropzone/internal/ui/overlay"
	"github.com/zjrosen/dropzone/internal/ui/styles"
)

// Ghost implements dnd.Visual. The engine updates it from its loop goroutine
// and the board renders it from the Bubble Tea goroutine.
type Ghost struct {
	mu      sync.Mutex
	label   string
	x, y    int
	visible bool
	updates int
}

// New creates a hidden ghost.
func New() *Ghost {
	return &Ghost{}
}

// Update moves the ghost to (x, y). A nil element hides it; any other
// element is rendered with fmt's %v verb.
func (g *Ghost) Update(element any, x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.updates++
	if element == nil {
		g.visible = false
		return
	}
	g.label = fmt.Sprint(element)
	g.x = int(math.Round(x))
	g.y = int(math.Round(y))
	g.visible = true
}

// Clear hides the ghost.
func (g *Ghost) Clear() {
	g.mu.Lock()
	g.visible = false
	g.label = ""
	g.mu.Unlock()
}

// Visible reports whether a ghost is showing.
func (g *Ghost) Visible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.visible
}

// Position returns the cell the ghost is anchored to.
func (g *Ghost) Position() (x, y int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.x, g.y
}

// Updates returns how many times Update was called.
func (g *Ghost) Updates() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updates
}

// Overlay draws the ghost on top of base, which is width x height cells.
// The box sits one cell right of the pointer so the cell under it stays
// visible.
func (g *Ghost) Overlay(base string, width, height int) string {
	g.mu.Lock()
	label, x, y, visible := g.label, g.x, g.y, g.visible
	g.mu.Unlock()

	if !visible {
		return base
	}
	box := styles.GhostStyle.Render(styles.TruncateString(label, 28))
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.At,
		X:        x + 1,
		Y:        y,
	}, box, base)
}
