package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/dropzone/internal/app"
	"github.com/zjrosen/dropzone/internal/board"
	"github.com/zjrosen/dropzone/internal/config"
	"github.com/zjrosen/dropzone/internal/dnd"
	"github.com/zjrosen/dropzone/internal/infrastructure/sqlite"
	"github.com/zjrosen/dropzone/internal/log"
	"github.com/zjrosen/dropzone/internal/pubsub"
	"github.com/zjrosen/dropzone/internal/tracing"
	uiboard "github.com/zjrosen/dropzone/internal/ui/board"
	"github.com/zjrosen/dropzone/internal/ui/ghost"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the board.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config directory.
const localConfigPath = ".dropzone/config.yaml"

// eventBufferSize bounds the drag event bus per subscriber.
const eventBufferSize = 256

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dropzone",
	Short: "A terminal kanban board driven by a drag-drop engine",
	Long: `A terminal kanban board where cards are moved by dragging them between
columns with the mouse, or with the keyboard (space to grab, arrows to move,
enter to drop).

Every column is a drop target registered with the drag-drop coordination
engine; the engine resolves which column the pointer is over and delivers
drag in/over/out/drop callbacks.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/dropzone/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug logging (also DROPZONE_DEBUG)")
	rootCmd.Flags().String("db", "", "path to the card database")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"do not watch the config file for column changes")

	// Bind flags to viper
	_ = viper.BindPFlag("board.db_path", rootCmd.Flags().Lookup("db"))
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("auto_reload", defaults.AutoReload)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("engine.debounce", defaults.Engine.Debounce)
	v.SetDefault("engine.queue_capacity", defaults.Engine.QueueCapacity)
	v.SetDefault("engine.scale", defaults.Engine.Scale)
	v.SetDefault("board.db_path", defaults.Board.DBPath)
	v.SetDefault("board.seed", defaults.Board.Seed)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("cache.cleanup_interval", defaults.Cache.CleanupInterval)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", config.DefaultTracesFilePath())
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

func initConfig() {
	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("DROPZONE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .dropzone/config.yaml (current directory)
		// 2. ~/.config/dropzone/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "dropzone"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// A missing config file is fine: defaults apply. `dropzone config init`
	// writes one.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// reloadConfig re-reads the config file the watcher reported as changed.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("reading config: %w", err)
	}
	var next config.Config
	if err := viper.Unmarshal(&next); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := next.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return next, nil
}

// initLogging turns on the debug log for --debug or DROPZONE_DEBUG. The
// returned cleanup is never nil.
func initLogging(prefix string) (func(), error) {
	if os.Getenv("DROPZONE_DEBUG") == "" && !debugFlag {
		return func() {}, nil
	}
	logPath := os.Getenv("DROPZONE_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.SetMinLevel(log.ParseLevel(cfg.LogLevel))
	log.Info(log.CatConfig, "dropzone starting", "version", version, "logPath", logPath)
	return cleanup, nil
}

func debugEnabled() bool {
	return os.Getenv("DROPZONE_DEBUG") != "" || debugFlag
}

func runApp(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup, err := initLogging("dropzone")
	if err != nil {
		return err
	}
	defer cleanup()

	// Handle --no-auto-reload flag (negated logic)
	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	db, err := sqlite.NewDB(cfg.Board.DBPath)
	if err != nil {
		return fmt.Errorf("opening card database: %w", err)
	}
	defer func() { _ = db.Close() }()

	svc := board.NewService(db.CardRepository(), cfg.GetColumns(), cfg.Cache)
	if cfg.Board.Seed {
		if _, err := svc.Seed(ctx); err != nil {
			return fmt.Errorf("seeding board: %w", err)
		}
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = provider.Shutdown(shutdownCtx)
	}()

	zone.NewGlobal()

	index := uiboard.NewIndex()
	g := ghost.New()
	bus := pubsub.NewBrokerWithBuffer[dnd.Event](eventBufferSize)
	defer bus.Close()

	engine, err := dnd.NewEngine(index.Host(),
		dnd.WithConfig(dnd.Config{
			Debounce:      cfg.Engine.Debounce,
			QueueCapacity: cfg.Engine.QueueCapacity,
			Scale:         cfg.Engine.Scale,
		}),
		dnd.WithEventBus(bus),
		dnd.WithVisual(g),
		dnd.WithTracer(provider.Tracer()),
	)
	if err != nil {
		return fmt.Errorf("creating drag engine: %w", err)
	}
	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("starting drag engine: %w", err)
	}

	b := uiboard.New(ctx, uiboard.Deps{
		Engine:  engine,
		Service: svc,
		Index:   index,
		Ghost:   g,
		Events:  bus,
	})

	// Store the config file path for live column reloads
	configFilePath := viper.ConfigFileUsed()
	model := app.New(b, engine, cfg, configFilePath, reloadConfig, debugEnabled())
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Tear down any live drag and stop the watcher
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
