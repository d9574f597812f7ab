// cmd/arena/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/opd-ai/go-spacewar/pkg/config"
	"github.com/opd-ai/go-spacewar/pkg/engine"
	"github.com/opd-ai/go-spacewar/pkg/logging"
	engorender "github.com/opd-ai/go-spacewar/pkg/render/engo"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "arena.yaml", "Path to configuration file (JSON or YAML)")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	preset := flag.String("preset", "", "Start from a named preset instead of the configuration file")
	listPresets := flag.Bool("presets", false, "List the available presets")
	mode := flag.String("mode", "engo", "Frontend: engo, terminal or headless")
	ticks := flag.Int("ticks", 0, "Stop after this many ticks (headless only, 0 runs until interrupted)")
	logLevel := flag.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stderr")
	width := flag.Int("width", 800, "Window width in pixels")
	height := flag.Int("height", 800, "Window height in pixels")
	flag.Parse()

	if *listPresets {
		printPresets(os.Stdout)
		return
	}

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	if *logLevel != "" || *logFile != "" {
		var (
			out *os.File
			err error
		)
		logger, out, err = newLogger(*logLevel, *logFile)
		if err != nil {
			logger.Error(ctx, "Failed to set up logging", err, "log_file", *logFile)
			os.Exit(1)
		}
		if out != nil {
			defer out.Close()
		}
	}

	gameConfig, err := loadConfig(ctx, logger, *configPath, *preset)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
			"preset", *preset,
		)
		os.Exit(1)
	}

	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "engo":
		err = runWindow(logger, gameConfig, *width, *height)
	case "terminal":
		err = runTerminal(sigCtx, logger, gameConfig)
	case "headless":
		err = runHeadless(sigCtx, logger, gameConfig, *ticks)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Arena stopped with an error", err, "mode", *mode)
		stop()
		os.Exit(1)
	}
	logger.Info(ctx, "Arena closed", "mode", *mode)
}

// loadConfig prefers a preset, then the file at path, then the defaults.
func loadConfig(ctx context.Context, logger *logging.Logger, path, preset string) (*config.GameConfig, error) {
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", config.ErrInvalidConfig, preset)
		}
		logger.Info(ctx, "Using preset configuration", "preset", preset)
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, logging.WrapError(err, "load configuration from %s", path)
	}
	return cfg, nil
}

// newLogger builds the logger selected by the flags. The returned file, if
// any, is owned by the caller.
func newLogger(level, path string) (*logging.Logger, *os.File, error) {
	lvl, ok := logging.ParseLevel(level)
	if level != "" && !ok {
		return logging.NewLogger(), nil, fmt.Errorf("unknown log level %q", level)
	}
	if level == "" {
		lvl, _ = logging.ParseLevel(os.Getenv(logging.LevelEnvVar))
	}

	if path == "" {
		return logging.NewLoggerWithWriter(os.Stderr, lvl), nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return logging.NewLogger(), nil, logging.WrapError(err, "open log file")
	}
	return logging.NewLoggerWithWriter(f, lvl), f, nil
}

func printPresets(w io.Writer) {
	presets := config.ListPresets()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-10s %s\n", name, presets[name])
	}
}

// runWindow opens the engo frontend. engo owns the main loop and handles
// window close itself, so no context is threaded through.
func runWindow(logger *logging.Logger, cfg *config.GameConfig, width, height int) error {
	table, err := cfg.Bindings()
	if err != nil {
		return err
	}
	keyboard := engorender.NewKeyboardProvider(table)
	if err := engorender.Validate(table); err != nil {
		return err
	}

	game, err := engine.NewGame(cfg, nil, keyboard, engine.WithLogger(logger))
	if err != nil {
		return err
	}
	game.Setup()

	scene := engorender.NewArenaScene(game, keyboard, float32(width), float32(height), logger)
	engorender.Run(scene, "Spacewar")
	return nil
}
