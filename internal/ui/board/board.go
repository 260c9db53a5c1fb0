// Package board contains the kanban board component. Cards are dragged
// between columns with the mouse or the keyboard; every gesture goes through
// a dnd.Engine. Hovers come from the engine's event bus; card moves follow
// the drag outcome returned by the release.
package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	cards "github.com/zjrosen/dropzone/internal/board"
	"github.com/zjrosen/dropzone/internal/config"
	"github.com/zjrosen/dropzone/internal/dnd"
	"github.com/zjrosen/dropzone/internal/keys"
	"github.com/zjrosen/dropzone/internal/log"
	"github.com/zjrosen/dropzone/internal/pubsub"
	"github.com/zjrosen/dropzone/internal/ui/ghost"
	"github.com/zjrosen/dropzone/internal/ui/guide"
	"github.com/zjrosen/dropzone/internal/ui/modal"
	"github.com/zjrosen/dropzone/internal/ui/overlay"
	"github.com/zjrosen/dropzone/internal/ui/styles"
)

// maxEventLog is how many engine events the event log panel keeps.
const maxEventLog = 8

// Deps are the collaborators a board is built from. Index must be the one
// whose Host the engine was created with.
type Deps struct {
	Engine  *dnd.Engine
	Service *cards.Service
	Index   *Index
	Ghost   *ghost.Ghost              // optional
	Events  *pubsub.Broker[dnd.Event] // optional; without it hovers are not shown
}

// historyView is the move history panel of one card.
type historyView struct {
	card  cards.Card
	moves []cards.Move
	err   error
}

// Model holds the board state.
type Model struct {
	ctx      context.Context
	engine   *dnd.Engine
	svc      *cards.Service
	index    *Index
	ghost    *ghost.Ghost
	source   *dnd.Source
	listener *pubsub.ContinuousListener[dnd.Event]

	columns    []Column
	unregister []func()
	focused    int
	width      int
	height     int

	keys    keys.KeyMap
	help    help.Model
	showLog bool
	events  []string

	// Drag state mirrored from engine events
	dragging *cards.Card
	hover    string
	keyboard bool // drag was started with the Grab key
	pointerX int
	pointerY int
	follow   string // card ID to select once its column reloads
	ended    string // session ID of the last outcome handled

	status    string
	statusErr bool
	history   *historyView
	guide     *guide.Model
	prompt    *modal.Model
	promptFor string // column status the prompt adds to
}

// New creates a board for the service's columns and registers one drop
// target per column with the engine.
func New(ctx context.Context, deps Deps) Model {
	m := Model{
		ctx:    ctx,
		engine: deps.Engine,
		svc:    deps.Service,
		index:  deps.Index,
		ghost:  deps.Ghost,
		source: deps.Engine.NewSource(dnd.Host{}),
		keys:   keys.DefaultKeyMap(),
		help:   help.New(),
	}
	if deps.Events != nil {
		m.listener = pubsub.NewContinuousListener(ctx, deps.Events)
	}
	return m.setColumns(deps.Service.Columns())
}

// Init starts listening for engine events and loads every column.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.LoadAllColumns())
}

func (m Model) listen() tea.Cmd {
	if m.listener == nil {
		return nil
	}
	return m.listener.Listen()
}

// setColumns replaces the columns and their drop targets.
func (m Model) setColumns(cfgs []config.ColumnConfig) Model {
	for _, unregister := range m.unregister {
		unregister()
	}
	m.unregister = nil
	m.index.Reset()

	m.columns = make([]Column, 0, len(cfgs))
	for _, cfg := range cfgs {
		col := NewColumn(cfg)
		unregister, err := m.engine.Register(ColumnTarget(m.svc, col.Status(), cfg.ZIndex))
		if err != nil {
			log.ErrorErr(log.CatBoard, "registering column target", err, "column", col.Status())
			m.setStatus("Column "+cfg.Name+" cannot receive drops", true)
		} else {
			m.unregister = append(m.unregister, unregister)
		}
		m.columns = append(m.columns, col)
	}

	if m.focused >= len(m.columns) {
		m.focused = max(len(m.columns)-1, 0)
	}
	return m.SetSize(m.width, m.height)
}

// ColCount returns the number of columns.
func (m Model) ColCount() int {
	return len(m.columns)
}

// Column returns the column at the given index.
func (m Model) Column(idx int) Column {
	if idx < 0 || idx >= len(m.columns) {
		return Column{}
	}
	return m.columns[idx]
}

// FocusedColumn returns the currently focused column index.
func (m Model) FocusedColumn() int {
	return m.focused
}

// SetFocus sets the focused column.
func (m Model) SetFocus(col int) Model {
	if col >= 0 && col < len(m.columns) {
		m.focused = col
	}
	return m
}

// SelectedCard returns the selected card of the focused column.
func (m Model) SelectedCard() *cards.Card {
	if m.focused < 0 || m.focused >= len(m.columns) {
		return nil
	}
	return m.columns[m.focused].SelectedItem()
}

// Dragging returns the card of the live drag session, or nil.
func (m Model) Dragging() *cards.Card {
	return m.dragging
}

// Hover returns the status of the column the dragged card is over.
func (m Model) Hover() string {
	return m.hover
}

// Status returns the status line message.
func (m Model) Status() string {
	return m.status
}

// EventLog returns the most recent engine events, oldest first.
func (m Model) EventLog() []string {
	return m.events
}

// SetSize updates board dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	if m.prompt != nil {
		p := m.prompt.SetSize(width, height)
		m.prompt = &p
	}
	if m.guide != nil {
		g := m.guide.SetSize(width, height)
		m.guide = &g
	}

	colCount := len(m.columns)
	if colCount == 0 {
		return m
	}

	contentWidth := width / colCount
	contentHeight := m.boardHeight()
	for i := range m.columns {
		m.columns[i] = m.columns[i].SetSize(contentWidth, contentHeight)
	}
	return m
}

// boardHeight is the height left for columns once the footer is drawn.
func (m Model) boardHeight() int {
	return max(m.height-lipgloss.Height(m.renderFooter()), 3)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) columnIndex(status string) int {
	for i := range m.columns {
		if m.columns[i].Status() == status {
			return i
		}
	}
	return -1
}

func (m Model) columnName(status string) string {
	if i := m.columnIndex(status); i >= 0 {
		return m.columns[i].Config().Name
	}
	return status
}

// LoadAllColumns returns a batch of commands to load all columns.
// Each column sends a ColumnLoadedMsg when done.
func (m Model) LoadAllColumns() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.columns))
	for i := range m.columns {
		m.columns[i] = m.columns[i].SetLoading(true)
		cmds = append(cmds, m.loadColumnCmd(m.columns[i].Status()))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m Model) loadColumnCmd(status string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		cs, err := svc.Cards(ctx, status)
		return ColumnLoadedMsg{Status: status, Cards: cs, Err: err}
	}
}

func (m Model) moveCmd(card cards.Card, status, sessionID string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		mv, err := svc.MoveCard(ctx, card.ID, status, sessionID)
		return cardMovedMsg{card: card, move: mv, err: err}
	}
}

func (m Model) historyCmd(card cards.Card) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		moves, err := svc.History(ctx, card.ID)
		return historyLoadedMsg{card: card, moves: moves, err: err}
	}
}

func (m Model) addCmd(title, status string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		card, err := svc.AddCard(ctx, title, status)
		return cardAddedMsg{card: card, err: err}
	}
}

func (m Model) releaseCmd(x, y int) tea.Cmd {
	src, ctx := m.source, m.ctx
	return func() tea.Msg {
		out, err := src.Release(ctx, float64(x), float64(y))
		return dropFinishedMsg{outcome: out, err: err}
	}
}

func (m Model) unmountCmd() tea.Cmd {
	src, ctx := m.source, m.ctx
	return func() tea.Msg {
		out, err := src.Unmount(ctx)
		return dropFinishedMsg{outcome: out, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case ColumnLoadedMsg:
		return m.handleColumnLoaded(msg), nil

	case ColumnsChangedMsg:
		m.svc.SetColumns(m.ctx, msg.Columns)
		m = m.setColumns(msg.Columns)
		return m, m.LoadAllColumns()

	case pubsub.Event[dnd.Event]:
		var cmd tea.Cmd
		m, cmd = m.handleDragEvent(msg.Payload)
		return m, tea.Batch(cmd, m.listen())

	case dropFinishedMsg:
		return m.handleDropFinished(msg)

	case cardMovedMsg:
		return m.handleCardMoved(msg)

	case historyLoadedMsg:
		m.history = &historyView{card: msg.card, moves: msg.moves, err: msg.err}
		return m, nil

	case modal.SubmitMsg:
		status := m.promptFor
		m.prompt, m.promptFor = nil, ""
		return m, m.addCmd(msg.Value, status)

	case modal.CancelMsg:
		m.prompt, m.promptFor = nil, ""
		return m, nil

	case cardAddedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatBoard, "adding card", msg.err)
			m.setStatus("Add failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Added %q to %s", msg.card.Title, m.columnName(msg.card.Status)), false)
		m.follow = msg.card.ID
		return m, m.loadColumnCmd(msg.card.Status)

	case tea.MouseMsg:
		if m.prompt != nil {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.prompt != nil && !key.Matches(msg, m.keys.Quit) {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}

	// Cursor blink and other input plumbing.
	if m.prompt != nil {
		return m.updatePrompt(msg)
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.Msg) (Model, tea.Cmd) {
	p, cmd := m.prompt.Update(msg)
	m.prompt = &p
	return m, cmd
}

// openPrompt starts the new-card prompt for the focused column.
func (m Model) openPrompt() (Model, tea.Cmd) {
	if m.focused < 0 || m.focused >= len(m.columns) {
		return m, nil
	}
	col := m.columns[m.focused]
	p := modal.New(modal.Config{
		Title:       "New card in " + col.Config().Name,
		Placeholder: "Card title",
	}).SetSize(m.width, m.height)
	m.prompt = &p
	m.promptFor = col.Status()
	return m, p.Init()
}

func (m Model) handleColumnLoaded(msg ColumnLoadedMsg) Model {
	i := m.columnIndex(msg.Status)
	if i < 0 {
		return m // column removed since the load started
	}
	col := m.columns[i].SetLoading(false)
	if msg.Err != nil {
		log.ErrorErr(log.CatBoard, "loading column", msg.Err, "column", msg.Status)
		col.loadError = msg.Err
		m.columns[i] = col
		return m
	}

	col = col.SetItems(msg.Cards)
	if m.follow != "" {
		if selected, ok := col.SelectByID(m.follow); ok {
			col = selected
			m.focused = i
			m.follow = ""
		}
	}
	m.columns[i] = col
	m.index.SetColumn(msg.Status, msg.Cards)
	return m
}

func (m Model) handleCardMoved(msg cardMovedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatBoard, "moving card", msg.err, "card", msg.card.ID)
		m.setStatus("Move failed: "+msg.err.Error(), true)
		return m, nil
	}
	if msg.move == nil {
		return m, nil
	}
	m.setStatus(fmt.Sprintf("Moved %q to %s", msg.card.Title, m.columnName(msg.move.To)), false)
	m.follow = msg.card.ID
	return m, tea.Batch(m.loadColumnCmd(msg.move.From), m.loadColumnCmd(msg.move.To))
}

// handleDropFinished applies the outcome of a release or unmount. The store
// move is driven from here; the event bus may drop deliveries.
func (m Model) handleDropFinished(msg dropFinishedMsg) (Model, tea.Cmd) {
	m.keyboard = false
	if msg.err != nil {
		log.ErrorErr(log.CatBoard, "ending drag", msg.err)
		m.setStatus("Drag failed: "+msg.err.Error(), true)
		return m, nil
	}

	out := msg.outcome
	if out.SessionID == "" {
		return m, nil
	}
	m.ended = out.SessionID
	m.dragging = nil
	m.hover = ""
	m = m.markDragging("")

	switch out.Result {
	case dnd.ResultCompleted:
		card, ok := out.Handle.(cards.Card)
		if !ok || out.Target == nil {
			return m, nil
		}
		return m, m.moveCmd(card, out.Target.Name, out.SessionID)
	case dnd.ResultCancelled:
		m.setStatus("Drag cancelled", false)
	}
	return m, nil
}

// handleDragEvent mirrors engine lifecycle events into the view. Events of a
// session whose outcome already arrived only feed the event log.
func (m Model) handleDragEvent(ev dnd.Event) (Model, tea.Cmd) {
	m.events = append(m.events, describeEvent(ev))
	if len(m.events) > maxEventLog {
		m.events = m.events[len(m.events)-maxEventLog:]
	}
	if ev.SessionID != "" && ev.SessionID == m.ended {
		return m, nil
	}

	switch ev.Kind {
	case dnd.EventSessionStarted:
		if card, ok := ev.Handle.(cards.Card); ok {
			m.dragging = &card
			m = m.markDragging(card.ID)
		}
		m.setStatus("", false)

	case dnd.EventHandleRejected:
		m.keyboard = false
		if ev.Err != nil {
			m.setStatus("Could not pick up card: "+ev.Err.Error(), true)
		}
		if m.source.Dragging() {
			// Release the grant so the next press starts fresh.
			return m, m.unmountCmd()
		}

	case dnd.EventDragIn:
		m.hover = ev.Target

	case dnd.EventDragOut, dnd.EventTargetRemoved:
		if m.hover == ev.Target {
			m.hover = ""
		}

	case dnd.EventDrop:
		m.hover = ""

	case dnd.EventSessionEnded:
		if ev.Result == dnd.ResultCancelled {
			m.setStatus("Drag cancelled", false)
		}
		m.dragging = nil
		m.hover = ""
		m.keyboard = false
		m = m.markDragging("")
	}
	return m, nil
}

func (m Model) markDragging(id string) Model {
	for i := range m.columns {
		m.columns[i] = m.columns[i].SetDragging(id)
	}
	return m
}

func describeEvent(ev dnd.Event) string {
	s := fmt.Sprintf("%-15s %3.0f,%-3.0f", ev.Kind, ev.X, ev.Y)
	if ev.Target != "" {
		s += " " + ev.Target
	}
	if ev.Kind == dnd.EventSessionEnded {
		s += " " + ev.Result.String()
	}
	return s
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	x, y := float64(msg.X), float64(msg.Y)

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.source.Dragging() {
			return m, nil
		}
		m = m.selectAt(msg)
		m.keyboard = false
		m.pointerX, m.pointerY = msg.X, msg.Y
		if err := m.source.Grant(x, y); err != nil {
			m.setStatus("Drag failed: "+err.Error(), true)
		}

	case msg.Action == tea.MouseActionMotion && m.source.Dragging() && !m.keyboard:
		m.pointerX, m.pointerY = msg.X, msg.Y
		if err := m.source.Move(x, y); err != nil {
			log.ErrorErr(log.CatBoard, "forwarding pointer move", err)
		}

	case msg.Action == tea.MouseActionRelease && m.source.Dragging() && !m.keyboard:
		m.pointerX, m.pointerY = msg.X, msg.Y
		return m, m.releaseCmd(msg.X, msg.Y)
	}
	return m, nil
}

// selectAt focuses the column under the pointer and selects the card there.
func (m Model) selectAt(msg tea.MouseMsg) Model {
	for i, col := range m.columns {
		if z := zone.Get(ColumnZoneID(col.Status())); z == nil || !z.InBounds(msg) {
			continue
		}
		m.focused = i
		for _, card := range col.Items() {
			if z := zone.Get(CardZoneID(card.ID)); z != nil && z.InBounds(msg) {
				m.columns[i], _ = col.SelectByID(card.ID)
				break
			}
		}
		break
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.history != nil || m.guide != nil {
		m.history = nil
		m.guide = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Guide):
		g := guide.New(m.svc.Columns(), m.keys).SetSize(m.width, m.height)
		m.guide = &g
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.SetSize(m.width, m.height), nil
	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		return m.SetSize(m.width, m.height), nil
	}

	if m.source.Dragging() {
		return m.handleDragKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.focused > 0 {
			m.focused--
		}
	case key.Matches(msg, m.keys.Right):
		if m.focused < len(m.columns)-1 {
			m.focused++
		}
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if m.focused >= 0 && m.focused < len(m.columns) {
			m.columns[m.focused], _ = m.columns[m.focused].Update(msg)
		}
	case key.Matches(msg, m.keys.Grab):
		return m.grab(), nil
	case key.Matches(msg, m.keys.NewCard):
		return m.openPrompt()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadAllColumns()
	case key.Matches(msg, m.keys.History):
		if card := m.SelectedCard(); card != nil {
			return m, m.historyCmd(*card)
		}
	}
	return m, nil
}

func (m Model) handleDragKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m, m.unmountCmd()
	case !m.keyboard:
		// Mouse drags end with the mouse.
	case key.Matches(msg, m.keys.Drop):
		return m, m.releaseCmd(m.pointerX, m.pointerY)
	case key.Matches(msg, m.keys.Left):
		return m.movePointer(m.focused - 1), nil
	case key.Matches(msg, m.keys.Right):
		return m.movePointer(m.focused + 1), nil
	}
	return m, nil
}

// grab starts a keyboard drag of the selected card from its on-screen row.
func (m Model) grab() Model {
	card := m.SelectedCard()
	if card == nil {
		return m
	}
	z := zone.Get(CardZoneID(card.ID))
	if z == nil || z.IsZero() {
		m.setStatus("Card is not on screen", true)
		return m
	}

	m.keyboard = true
	m.pointerX, m.pointerY = z.StartX+1, z.StartY
	if err := m.source.Grant(float64(m.pointerX), float64(m.pointerY)); err != nil {
		m.keyboard = false
		m.setStatus("Drag failed: "+err.Error(), true)
	}
	return m
}

// movePointer moves a keyboard drag to the middle of column idx.
func (m Model) movePointer(idx int) Model {
	if idx < 0 || idx >= len(m.columns) {
		return m
	}
	z := zone.Get(ColumnZoneID(m.columns[idx].Status()))
	if z == nil || z.IsZero() {
		return m
	}

	m.focused = idx
	m.pointerX = (z.StartX + z.EndX) / 2
	m.pointerY = (z.StartY + z.EndY) / 2
	if err := m.source.Move(float64(m.pointerX), float64(m.pointerY)); err != nil {
		log.ErrorErr(log.CatBoard, "forwarding pointer move", err)
	}
	return m
}

// View renders the board.
func (m Model) View() string {
	if len(m.columns) == 0 {
		return m.renderEmptyState()
	}

	contentHeight := m.boardHeight()
	cols := make([]string, 0, len(m.columns))
	for i, col := range m.columns {
		col = col.SetFocused(i == m.focused)

		color := col.Color()
		if col.Status() == m.hover {
			color = styles.BorderHoverColor
		}
		rendered := styles.RenderWithTitleBorder(col.View(), col.Title(), col.width, contentHeight, color, color)
		cols = append(cols, zone.Mark(ColumnZoneID(col.Status()), rendered))
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		m.renderFooter(),
	)
	view = zone.Scan(view)

	if m.ghost != nil {
		view = m.ghost.Overlay(view, m.width, m.height)
	}
	if m.history != nil {
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Center,
		}, m.renderHistory(), view)
	}
	if m.guide != nil {
		view = m.guide.Overlay(view, m.width, m.height)
	}
	if m.prompt != nil {
		view = m.prompt.Overlay(view)
	}
	return view
}

func (m Model) helpKeys() help.KeyMap {
	if m.source.Dragging() {
		return keys.DragKeyMap{KeyMap: m.keys}
	}
	return m.keys
}

func (m Model) renderFooter() string {
	parts := make([]string, 0, 3)
	if m.showLog {
		parts = append(parts, m.renderEventLog())
	}
	parts = append(parts, m.renderStatusLine(), m.help.View(m.helpKeys()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderStatusLine() string {
	switch {
	case m.status != "" && m.statusErr:
		return styles.ErrorTextStyle.Render(m.status)
	case m.status != "":
		return styles.StatusBarStyle.Render(m.status)
	case m.dragging != nil && m.hover != "":
		return styles.StatusBarStyle.Render(fmt.Sprintf("Dragging %q over %s", m.dragging.Title, m.columnName(m.hover)))
	case m.dragging != nil:
		return styles.StatusBarStyle.Render(fmt.Sprintf("Dragging %q", m.dragging.Title))
	}
	return styles.StatusBarStyle.Render(" ")
}

func (m Model) renderEventLog() string {
	lines := make([]string, maxEventLog)
	copy(lines[maxEventLog-len(m.events):], m.events)
	style := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	for i := range lines {
		lines[i] = style.Render(styles.TruncateString(lines[i], max(m.width, 1)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHistory() string {
	h := m.history
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(h.card.Title))
	b.WriteString("\n\n")
	switch {
	case h.err != nil:
		b.WriteString(styles.ErrorTextStyle.Render(h.err.Error()))
	case len(h.moves) == 0:
		b.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("Never moved"))
	default:
		for i, mv := range h.moves {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s  %s → %s", mv.MovedAt.Format("2006-01-02 15:04"), m.columnName(mv.From), m.columnName(mv.To))
		}
	}
	return styles.HelpPanelStyle.Render(b.String())
}

// renderEmptyState renders a centered message when no columns are configured.
func (m Model) renderEmptyState() string {
	emptyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Italic(true)

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimaryColor)

	content := messageStyle.Render("No columns configured") + "\n\n" +
		hintStyle.Render("Add columns under board.columns in the config file")

	return emptyStyle.Render(content)
}
