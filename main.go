// Command mapforge generates, validates and inspects procedural tile maps.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"
	"github.com/spf13/cobra"

	"mapforge/pkg/game/config"
)

var (
	configPath string
	noColor    bool
	localeDir  string
	language   string
	logLevel   string
	verbose    bool
	jsonLogs   bool
)

var rootCmd = &cobra.Command{
	Use:   "mapforge",
	Short: "Procedural map generator",
	Long:  `mapforge builds seeded 2D tile maps: BSP rooms, classified room types, corridors, furniture, enemy spawns and pickups.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLocale()
		if noColor {
			color.Disable()
		}
		logger, err := newLogger(os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	pf.BoolVar(&noColor, "no-color", false, "disable coloured output")
	pf.StringVar(&localeDir, "locale-dir", "locales", "directory holding translation catalogues")
	pf.StringVar(&language, "lang", "en_GB", "language for room and resource names")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log at debug level, same as --log-level debug")
	pf.BoolVar(&jsonLogs, "json-logs", false, "write logs as JSON instead of text")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(showCmd)
}

func initLocale() {
	gotext.Configure(localeDir, language, "default")
}

// newLogger builds the CLI logger from --log-level, --verbose and
// --json-logs.
func newLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// loadConfig reads --config, or the defaults when it is empty, and applies
// any generation flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyOverrides(cmd, cfg)
	return cfg, nil
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = genFlags.seed
	}
	if flags.Changed("width") {
		cfg.Width = genFlags.width
	}
	if flags.Changed("height") {
		cfg.Height = genFlags.height
	}
	if flags.Changed("difficulty") {
		cfg.Difficulty = genFlags.difficulty
	}
}
