package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/aurora/internal/config"
	"github.com/iburimskiy/aurora/internal/game"
	"github.com/iburimskiy/aurora/internal/prefs"
	"github.com/iburimskiy/aurora/internal/watch"
)

var (
	logLevel    string
	configPath  string
	prefsPath   string
	colorStops  []string
	amplitude   float64
	blend       float64
	speed       float64
	watchConfig bool
	remake      bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aurora",
	Short: "Animated aurora background",
	Long: `aurora opens a window with an animated aurora shader that follows the
pointer. Colors, amplitude, blend and speed come from flags or a TOML file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewTextHandler(os.Stderr, opts)
		logger = slog.New(handler)
		slog.SetDefault(logger)
	},
	RunE: run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "TOML file with color_stops, amplitude, blend and speed")
	f.BoolVarP(&watchConfig, "watch", "w", false, "Reload the config file when it changes")
	f.StringSliceVar(&colorStops, "colors", nil, "Three hex color stops, e.g. #5227FF,#7cff67,#5227FF")
	f.Float64Var(&amplitude, "amplitude", 1.0, "Wave displacement scale")
	f.Float64Var(&blend, "blend", 0.5, "Softness of the aurora edge")
	f.Float64Var(&speed, "speed", 1.0, "Animation time multiplier")
	f.BoolVar(&remake, "remake", false, "Turn the remake preview on (persisted)")
	f.StringVar(&prefsPath, "prefs", "", "Preferences file (default ~/.config/aurora/prefs.toml)")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func resolveConfig(cmd *cobra.Command) (config.RenderConfig, error) {
	cfg := config.DefaultRenderConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("colors") {
		o.ColorStops = colorStops
	}
	if flags.Changed("amplitude") {
		o.Amplitude = &amplitude
	}
	if flags.Changed("blend") {
		o.Blend = &blend
	}
	if flags.Changed("speed") {
		o.Speed = &speed
	}
	cfg = cfg.Apply(o)
	return cfg, cfg.Validate()
}

func openPrefs() (*prefs.Store, error) {
	path := prefsPath
	if path == "" {
		p, err := prefs.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return prefs.Open(path)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	store, err := openPrefs()
	if err != nil {
		return err
	}
	if remake {
		if err := store.SetRemake(true); err != nil {
			logger.Warn("save remake flag", "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := game.New(ctx, cfg, game.Options{Logger: logger, Prefs: store})
	defer g.Close()

	if watchConfig {
		if configPath == "" {
			logger.Warn("--watch needs --config, ignoring")
		} else {
			go func() {
				if err := watch.Watch(ctx, configPath, logger, g.Reload); err != nil {
					logger.Warn("config watcher stopped", "err", err)
				}
			}()
		}
	}

	logger.Info("starting aurora",
		"colors", cfg.ColorStops,
		"amplitude", cfg.Amplitude,
		"blend", cfg.Blend,
		"speed", cfg.Speed,
		"prefs", store.Path())

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
