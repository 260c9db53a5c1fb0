package board

import (
	cards "github.com/zjrosen/dropzone/internal/board"
	"github.com/zjrosen/dropzone/internal/config"
	"github.com/zjrosen/dropzone/internal/dnd"
)

// ColumnLoadedMsg is sent when a column finishes loading its cards.
type ColumnLoadedMsg struct {
	Status string
	Cards  []cards.Card // nil if error
	Err    error
}

// ColumnsChangedMsg replaces the board layout, e.g. after the config file
// was edited.
type ColumnsChangedMsg struct {
	Columns []config.ColumnConfig
}

// dropFinishedMsg carries the outcome of a release, terminate or unmount.
type dropFinishedMsg struct {
	outcome dnd.Outcome
	err     error
}

// cardMovedMsg is sent after a drop has been persisted.
type cardMovedMsg struct {
	card cards.Card
	move *cards.Move
	err  error
}

// historyLoadedMsg carries the move history of a card.
type historyLoadedMsg struct {
	card  cards.Card
	moves []cards.Move
	err   error
}

// cardAddedMsg is sent after a card created from the new-card prompt is stored.
type cardAddedMsg struct {
	card *cards.Card
	err  error
}
