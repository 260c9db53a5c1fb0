package board

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	cards "github.com/zjrosen/dropzone/internal/board"
	"github.com/zjrosen/dropzone/internal/config"
	"github.com/zjrosen/dropzone/internal/ui/styles"
)

// cardItem adapts a card to list.Item.
type cardItem struct {
	cards.Card
}

func (i cardItem) FilterValue() string { return i.Title }

// cardDelegate renders one card per line and marks each line as a zone so
// the drag engine can find the card under the pointer.
type cardDelegate struct {
	focused  *bool   // pointer to column's focused state
	dragging *string // ID of the card being dragged, "" when none
}

// Height returns the height of each item.
func (d cardDelegate) Height() int {
	return 1
}

// Spacing returns the spacing between items.
func (d cardDelegate) Spacing() int {
	return 0
}

// Update handles any delegate-level updates.
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render renders a card title with a selection indicator.
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(cardItem)
	if !ok {
		return
	}

	isSelected := index == m.Index() && d.focused != nil && *d.focused
	title := styles.TruncateString(ci.Title, max(m.Width()-1, 1))
	if d.dragging != nil && *d.dragging == ci.ID {
		title = styles.DraggingCardStyle.Render(title)
	}

	var line string
	if isSelected {
		line = styles.SelectionIndicatorStyle.Render(">") + title
	} else {
		line = " " + title
	}

	_, _ = fmt.Fprint(w, zone.Mark(CardZoneID(ci.ID), line))
}

// Column represents a single kanban column.
type Column struct {
	cfg      config.ColumnConfig
	status   string
	color    lipgloss.TerminalColor // custom color for column border/title
	list     list.Model
	items    []cards.Card
	width    int
	height   int
	focused  *bool   // pointer so it survives value copies
	dragging *string // pointer so it survives value copies

	loading   bool  // true while loading cards
	loadError error // error from last load attempt
}

// NewColumn creates a column for cfg.
func NewColumn(cfg config.ColumnConfig) Column {
	// Allocate shared state on heap so pointers survive copies
	focused := new(bool)
	dragging := new(string)

	l := list.New([]list.Item{}, cardDelegate{focused: focused, dragging: dragging}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	col := Column{
		cfg:      cfg,
		status:   cfg.StatusOrDefault(),
		list:     l,
		focused:  focused,
		dragging: dragging,
	}
	if cfg.Color != "" {
		col.color = lipgloss.Color(cfg.Color)
	}
	return col
}

// Status returns the card status the column holds.
func (c Column) Status() string {
	return c.status
}

// Config returns the column configuration.
func (c Column) Config() config.ColumnConfig {
	return c.cfg
}

// SetLoading sets the loading state of the column.
func (c Column) SetLoading(loading bool) Column {
	c.loading = loading
	return c
}

// IsLoading returns true if the column is currently loading.
func (c Column) IsLoading() bool {
	return c.loading
}

// LoadError returns the error from the last load attempt, if any.
func (c Column) LoadError() error {
	return c.loadError
}

// SetSize updates column dimensions.
func (c Column) SetSize(width, height int) Column {
	c.width = width
	c.height = height

	// Size list to fit inside borders (2 chars for left/right borders)
	listWidth := max(width-2, 1)
	// Top/bottom borders plus the list's pagination line
	listHeight := max(height-3, 1)
	c.list.SetSize(listWidth, listHeight)
	return c
}

// SetFocused sets whether this column is focused.
func (c Column) SetFocused(focused bool) Column {
	*c.focused = focused
	return c
}

// SetDragging marks the card with id as the one being dragged.
func (c Column) SetDragging(id string) Column {
	*c.dragging = id
	return c
}

// SetItems populates the column with cards.
func (c Column) SetItems(cs []cards.Card) Column {
	c.items = cs
	c.loadError = nil
	items := make([]list.Item, len(cs))
	for i, card := range cs {
		items[i] = cardItem{card}
	}
	c.list.SetItems(items)
	return c
}

// SelectedItem returns the currently selected card.
func (c Column) SelectedItem() *cards.Card {
	if item, ok := c.list.SelectedItem().(cardItem); ok {
		card := item.Card
		return &card
	}
	return nil
}

// Items returns all cards in the column.
func (c Column) Items() []cards.Card {
	return c.items
}

// SelectByID selects the card with the given ID. Returns true if found.
func (c Column) SelectByID(id string) (Column, bool) {
	for i, card := range c.items {
		if card.ID == id {
			c.list.Select(i)
			return c, true
		}
	}
	return c, false
}

// Update handles messages.
func (c Column) Update(msg tea.Msg) (Column, tea.Cmd) {
	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return c, cmd
}

// Title returns the column name with its card count.
func (c Column) Title() string {
	return fmt.Sprintf("%s (%d)", c.cfg.Name, len(c.items))
}

// View renders the column content (without border - border applied by board).
func (c Column) View() string {
	muted := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Italic(true).
		Padding(1, 2)
	switch {
	case c.loadError != nil:
		return styles.ErrorTextStyle.Padding(1, 2).Render("Load failed")
	case c.loading && len(c.items) == 0:
		return muted.Render("Loading…")
	case len(c.items) == 0:
		return muted.Render("No cards")
	}
	return c.list.View()
}

// Color returns the column's color for rendering.
func (c Column) Color() lipgloss.TerminalColor {
	if c.color == nil {
		return styles.BorderDefaultColor // Default fallback
	}
	return c.color
}
