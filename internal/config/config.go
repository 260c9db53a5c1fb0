// Package config provides configuration types and defaults for dropzone.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/zjrosen/dropzone/internal/log"
	"github.com/zjrosen/dropzone/internal/tracing"
)

// ColumnConfig defines a board column. Every column is a drop target.
type ColumnConfig struct {
	Name   string `mapstructure:"name"`
	Status string `mapstructure:"status"` // status given to cards dropped here (default: lowercased name)
	ZIndex int    `mapstructure:"zindex"` // hit-test priority, higher wins when columns overlap
	Color  string `mapstructure:"color"`  // hex color e.g. "#10B981"

	// Accepts lists the source statuses this column takes drops from.
	// Empty accepts every status.
	Accepts []string `mapstructure:"accepts"`
}

// StatusOrDefault returns Status, falling back to the lowercased name.
func (c ColumnConfig) StatusOrDefault() string {
	if c.Status != "" {
		return c.Status
	}
	return strings.ToLower(strings.ReplaceAll(c.Name, " ", "_"))
}

// Accept reports whether a card with the given status may be dropped here.
func (c ColumnConfig) Accept(status string) bool {
	return len(c.Accepts) == 0 || slices.Contains(c.Accepts, status)
}

// Config holds all configuration options for dropzone.
type Config struct {
	Engine     EngineConfig   `mapstructure:"engine"`
	Board      BoardConfig    `mapstructure:"board"`
	Cache      CacheConfig    `mapstructure:"cache"`
	Tracing    tracing.Config `mapstructure:"tracing"`
	AutoReload bool           `mapstructure:"auto_reload"`
	LogLevel   string         `mapstructure:"log_level"`
}

// EngineConfig tunes the drag-drop coordination engine.
type EngineConfig struct {
	Debounce      time.Duration `mapstructure:"debounce"`       // hit-test debounce during drag moves
	QueueCapacity int           `mapstructure:"queue_capacity"` // pending gesture samples
	Scale         float64       `mapstructure:"scale"`          // gesture coordinate multiplier
}

// BoardConfig holds the kanban board settings.
type BoardConfig struct {
	DBPath  string         `mapstructure:"db_path"` // sqlite card database (default: ~/.config/dropzone/board.db)
	Seed    bool           `mapstructure:"seed"`    // insert sample cards into an empty database
	Columns []ColumnConfig `mapstructure:"columns"`
}

// CacheConfig holds the column card-list cache settings.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// DefaultDBPath returns ~/.config/dropzone/board.db, or board.db in the
// working directory when the home directory is unavailable.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "board.db"
	}
	return filepath.Join(home, ".config", "dropzone", "board.db")
}

// DefaultTracesFilePath returns ~/.config/dropzone/traces/traces.jsonl or an
// empty string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dropzone", "traces", "traces.jsonl")
}

// DefaultColumns returns the stock four-column workflow.
func DefaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{Name: "Todo", Status: "todo", Color: "#FF8787"},
		{Name: "Doing", Status: "doing", Color: "#54A0FF", Accepts: []string{"todo", "review"}},
		{Name: "Review", Status: "review", Color: "#FECA57", Accepts: []string{"doing"}},
		{Name: "Done", Status: "done", Color: "#73F59F", Accepts: []string{"review", "doing"}},
	}
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			Debounce:      5 * time.Millisecond,
			QueueCapacity: 256,
			Scale:         1,
		},
		Board: BoardConfig{
			DBPath:  DefaultDBPath(),
			Seed:    true,
			Columns: DefaultColumns(),
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Tracing:    tracing.DefaultConfig(), // FilePath is derived from the config dir at runtime
		AutoReload: true,
		LogLevel:   "debug",
	}
}

// GetColumns returns the configured columns or the defaults when none are set.
func (c Config) GetColumns() []ColumnConfig {
	if len(c.Board.Columns) == 0 {
		return DefaultColumns()
	}
	return c.Board.Columns
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateEngine(c.Engine); err != nil {
		return err
	}
	if err := ValidateColumns(c.Board.Columns); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// ValidateEngine checks engine tuning. Zero values are allowed and use defaults.
func ValidateEngine(e EngineConfig) error {
	if e.Debounce < 0 {
		return fmt.Errorf("engine.debounce must not be negative, got %s", e.Debounce)
	}
	if e.Debounce > time.Second {
		return fmt.Errorf("engine.debounce must be at most 1s, got %s", e.Debounce)
	}
	if e.QueueCapacity < 0 {
		return fmt.Errorf("engine.queue_capacity must not be negative, got %d", e.QueueCapacity)
	}
	if e.Scale < 0 {
		return fmt.Errorf("engine.scale must not be negative, got %v", e.Scale)
	}
	return nil
}

// ValidateColumns checks column configuration for errors.
// Returns nil if columns are valid or empty (will use defaults).
func ValidateColumns(cols []ColumnConfig) error {
	if len(cols) == 0 {
		return nil // Will use defaults
	}

	seen := make(map[string]int, len(cols))
	for i, col := range cols {
		if col.Name == "" {
			return fmt.Errorf("column %d: name is required", i)
		}
		status := col.StatusOrDefault()
		if prev, dup := seen[status]; dup {
			return fmt.Errorf("column %d (%s): status %q already used by column %d", i, col.Name, status, prev)
		}
		seen[status] = i
		if col.Color != "" && !isHexColor(col.Color) {
			return fmt.Errorf("column %d (%s): invalid color %q", i, col.Name, col.Color)
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Dropzone Configuration

# Watch this file and re-register board columns when it changes
auto_reload: true

# Minimum level written to the debug log (debug, info, warn, error)
log_level: debug

# Drag-drop engine tuning
engine:
  debounce: 5ms         # Delay between the last pointer move and its hit-test
  queue_capacity: 256   # Pending gesture samples before moves are dropped
  scale: 1              # Multiplier applied to raw pointer coordinates

# Kanban board
board:
  # db_path: ~/.config/dropzone/board.db
  seed: true            # Insert sample cards into an empty database

  # Each column is a drop target. Higher zindex wins where columns overlap.
  # accepts lists the card statuses a column takes; omit to accept all.
  columns:
    - name: Todo
      status: todo
      color: "#FF8787"

    - name: Doing
      status: doing
      color: "#54A0FF"
      accepts: [todo, review]

    - name: Review
      status: review
      color: "#FECA57"
      accepts: [doing]

    - name: Done
      status: done
      color: "#73F59F"
      accepts: [review, doing]

# Column card-list cache
cache:
  enabled: true
  ttl: 1m
  cleanup_interval: 5m

# Distributed tracing: one span per drag session
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/dropzone/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
