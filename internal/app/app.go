// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/dropzone/internal/config"
	"github.com/zjrosen/dropzone/internal/dnd"
	"github.com/zjrosen/dropzone/internal/log"
	"github.com/zjrosen/dropzone/internal/ui/board"
	"github.com/zjrosen/dropzone/internal/ui/overlay"
	"github.com/zjrosen/dropzone/internal/ui/styles"
	"github.com/zjrosen/dropzone/internal/ui/toaster"
	"github.com/zjrosen/dropzone/internal/watcher"
)

// maxLogLines bounds the debug log overlay.
const maxLogLines = 200

// toggleLogs opens the debug log overlay.
var toggleLogs = key.NewBinding(
	key.WithKeys("ctrl+x"),
	key.WithHelp("ctrl+x", "toggle debug log"),
)

// ReloadFunc re-reads the configuration after the config file changed.
type ReloadFunc func() (config.Config, error)

// configChangedMsg is sent when the watcher reports a config file change.
type configChangedMsg struct{}

// Model is the root application state.
type Model struct {
	board   board.Model
	engine  *dnd.Engine
	toaster toaster.Model

	// Global state
	width  int
	height int

	debugMode   bool
	showLogs    bool
	logLines    []string
	logListener *log.LogListener
	logCancel   context.CancelFunc

	// Config file watcher for live column reloads
	reload        ReloadFunc
	watcherHandle *watcher.Watcher
	changes       <-chan struct{}
}

// New creates the root model around a board. When cfg.AutoReload is set and
// configPath is not empty, edits to the config file replace the board's
// columns through reload. debugMode enables the log overlay (Ctrl+X toggle).
func New(b board.Model, engine *dnd.Engine, cfg config.Config, configPath string, reload ReloadFunc, debugMode bool) Model {
	m := Model{
		board:     b,
		engine:    engine,
		debugMode: debugMode,
		reload:    reload,
	}

	if cfg.AutoReload && configPath != "" && reload != nil {
		w, err := watcher.New(watcher.DefaultConfig(configPath))
		if err == nil {
			changes, err := w.Start()
			if err == nil {
				m.watcherHandle = w
				m.changes = changes
			} else {
				log.Warn(log.CatWatcher, "config watcher not started", "error", err)
				_ = w.Stop()
			}
		}
		// The board works without live reload.
	}

	if debugMode {
		ctx, cancel := context.WithCancel(context.Background())
		m.logListener = log.NewListener(ctx)
		m.logCancel = cancel
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.board.Init(), m.waitForChange()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return configChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.board = m.board.SetSize(msg.Width, msg.Height)
		return m, nil

	case configChangedMsg:
		return m.handleConfigChanged()

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case log.LogEvent:
		m.logLines = append(m.logLines, strings.TrimRight(msg.Payload, "\n"))
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		return m, m.logListener.Listen()

	case tea.KeyMsg:
		if m.debugMode && key.Matches(msg, toggleLogs) {
			m.showLogs = !m.showLogs
			return m, nil
		}
		if m.showLogs {
			// The overlay swallows keys until closed.
			if msg.Type == tea.KeyEsc {
				m.showLogs = false
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.board, cmd = m.board.Update(msg)
	return m, cmd
}

func (m Model) handleConfigChanged() (tea.Model, tea.Cmd) {
	cfg, err := m.reload()
	if err != nil {
		log.Warn(log.CatConfig, "config reload rejected, keeping current columns", "error", err)
		var toast tea.Cmd
		m.toaster, toast = m.toaster.Show("Config not applied: "+err.Error(), toaster.StyleError, toaster.DefaultDuration)
		return m, tea.Batch(toast, m.waitForChange())
	}

	log.SetMinLevel(log.ParseLevel(cfg.LogLevel))
	log.Info(log.CatConfig, "config reloaded", "columns", len(cfg.Board.Columns))

	columns := cfg.GetColumns()
	var cmd, toast tea.Cmd
	m.board, cmd = m.board.Update(board.ColumnsChangedMsg{Columns: columns})
	m.toaster, toast = m.toaster.Show(fmt.Sprintf("Columns reloaded (%d)", len(columns)), toaster.StyleSuccess, toaster.DefaultDuration)
	return m, tea.Batch(cmd, toast, m.waitForChange())
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.toaster.Overlay(m.board.View(), m.width, m.height)
	if m.debugMode && m.showLogs {
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Center,
		}, m.renderLogs(), view)
	}
	return view
}

func (m Model) renderLogs() string {
	width := max(m.width*3/4, 20)
	height := max(m.height*3/4, 5)

	lines := m.logLines
	if len(lines) > height-2 {
		lines = lines[len(lines)-(height-2):]
	}
	content := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Render(strings.Join(lines, "\n"))
	return styles.RenderWithTitleBorder(content, "Debug log", width, height, styles.TextPrimaryColor, styles.BorderDefaultColor)
}

// Close releases resources held by the application: the log subscription,
// the config watcher and the drag engine. A live drag is torn down.
func (m *Model) Close() error {
	if m.logCancel != nil {
		m.logCancel()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	if m.engine != nil {
		return m.engine.Close()
	}
	return nil
}
