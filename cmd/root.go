package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/review-profiler/internal/config"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	noColor  bool
	quiet    bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "revprof",
	Short: "revprof: profile labeled review datasets before training",
	Long: `revprof loads a labeled review dataset (CSV, TSV or XLSX), finds the text,
polarity and attraction type columns, and reports class imbalance, label
cross tabulation and text length statistics. A small summary file is written
for the training steps that follow.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.revprof/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, disabled (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress spinner")
}

func loadConfig() {
	// .env is optional
	_ = godotenv.Load()

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		d := cfgpkg.Defaults()
		c = &d
	}
	cfg = c

	if rootCmd.PersistentFlags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if noColor {
		cfg.NoColor = true
	}
	initLogging(rootCmd.ErrOrStderr(), cfg.LogLevel)
}

// initLogging configures the global logger. Unknown levels fall back to warn.
func initLogging(w io.Writer, level string) {
	lvl := strings.ToLower(level)
	if !cfgpkg.ValidLogLevel(lvl) {
		fmt.Fprintf(w, "⚠ Warning: unknown log level %q, using warn\n", level)
		lvl = "warn"
	}
	switch lvl {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "", "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: cfg == nil || cfg.NoColor})
}

// currentConfig returns the loaded configuration, loading it on first use.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

func useColor() bool {
	if cfg != nil && cfg.NoColor {
		return false
	}
	return !noColor && !color.NoColor
}
