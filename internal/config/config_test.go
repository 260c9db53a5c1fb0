package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 5*time.Millisecond, cfg.Engine.Debounce)
	require.Equal(t, 1.0, cfg.Engine.Scale)
	require.Len(t, cfg.GetColumns(), 4)
}

func TestGetColumns_FallsBackToDefaults(t *testing.T) {
	var cfg Config
	require.Equal(t, DefaultColumns(), cfg.GetColumns())

	cfg.Board.Columns = []ColumnConfig{{Name: "Only"}}
	require.Len(t, cfg.GetColumns(), 1)
}

func TestColumnConfig_StatusOrDefault(t *testing.T) {
	require.Equal(t, "in_progress", ColumnConfig{Name: "In Progress"}.StatusOrDefault())
	require.Equal(t, "wip", ColumnConfig{Name: "In Progress", Status: "wip"}.StatusOrDefault())
}

func TestColumnConfig_Accept(t *testing.T) {
	open := ColumnConfig{Name: "Any"}
	require.True(t, open.Accept("todo"))

	strict := ColumnConfig{Name: "Done", Accepts: []string{"review"}}
	require.True(t, strict.Accept("review"))
	require.False(t, strict.Accept("todo"))
}

func TestValidateColumns(t *testing.T) {
	tests := []struct {
		name    string
		cols    []ColumnConfig
		wantErr string
	}{
		{name: "empty uses defaults"},
		{name: "valid", cols: []ColumnConfig{{Name: "A", Color: "#aabbcc"}, {Name: "B"}}},
		{name: "missing name", cols: []ColumnConfig{{Status: "a"}}, wantErr: "name is required"},
		{
			name:    "duplicate status",
			cols:    []ColumnConfig{{Name: "A", Status: "x"}, {Name: "B", Status: "x"}},
			wantErr: `status "x" already used by column 0`,
		},
		{
			name:    "derived status collides",
			cols:    []ColumnConfig{{Name: "Todo"}, {Name: "Other", Status: "todo"}},
			wantErr: "already used",
		},
		{name: "bad color", cols: []ColumnConfig{{Name: "A", Color: "red"}}, wantErr: "invalid color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumns(tt.cols)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateEngine(t *testing.T) {
	require.NoError(t, ValidateEngine(EngineConfig{}))
	require.Error(t, ValidateEngine(EngineConfig{Debounce: -time.Millisecond}))
	require.Error(t, ValidateEngine(EngineConfig{Debounce: 2 * time.Second}))
	require.Error(t, ValidateEngine(EngineConfig{QueueCapacity: -1}))
	require.Error(t, ValidateEngine(EngineConfig{Scale: -2}))
}

func TestValidate_TracingRequiresFilePath(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing.Enabled = true
	cfg.Tracing.FilePath = ""
	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "tracing:"))
}

func TestWriteDefaultConfig_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

// The template is what `dropzone config init` writes, so it must load back
// through viper into the same values Defaults uses.
func TestDefaultConfigTemplate_RoundTripsThroughViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	want := Defaults()
	require.Equal(t, want.Engine, cfg.Engine)
	require.Equal(t, want.Cache, cfg.Cache)
	require.Equal(t, want.Board.Columns, cfg.Board.Columns)
	require.True(t, cfg.AutoReload)
	require.NoError(t, ValidateColumns(cfg.Board.Columns))
}
