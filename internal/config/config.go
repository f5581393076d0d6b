package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. REVPROF_SUMMARY_PATH.
const EnvPrefix = "REVPROF"

const dirName = ".revprof"

// Global configuration structure.
type Global struct {
	InputPath            string   `mapstructure:"input_path" yaml:"input_path"`
	SummaryPath          string   `mapstructure:"summary_path" yaml:"summary_path"`
	Delimiter            string   `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName            string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	TextColumns          []string `mapstructure:"text_columns" yaml:"text_columns"`
	PreferredTextColumns []string `mapstructure:"preferred_text_columns" yaml:"preferred_text_columns"`
	RareThresholdPct     float64  `mapstructure:"rare_threshold_pct" yaml:"rare_threshold_pct"`
	ExampleMaxChars      int      `mapstructure:"example_max_chars" yaml:"example_max_chars"`

	// Console
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	NoColor  bool   `mapstructure:"no_color" yaml:"no_color"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"input_path", "summary_path", "delimiter", "sheet_name",
	"text_columns", "preferred_text_columns", "rare_threshold_pct",
	"example_max_chars", "log_level", "no_color",
}

// LogLevels are the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error", "disabled"}

// ValidLogLevel reports whether level is empty or one of LogLevels, ignoring case.
func ValidLogLevel(level string) bool {
	if level == "" {
		return true
	}
	for _, l := range LogLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}

// Defaults are the built-in settings: the Rest-Mex training file as input
// and analysis_info.json as the summary.
func Defaults() Global {
	return Global{
		InputPath:            "data/Rest-Mex_2025_train.csv",
		SummaryPath:          "analysis_info.json",
		TextColumns:          []string{"Title", "Review"},
		PreferredTextColumns: []string{"Review", "Title"},
		RareThresholdPct:     1.0,
		ExampleMaxChars:      200,
		LogLevel:             "warn",
	}
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.revprof/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by callers) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("input_path", d.InputPath)
	v.SetDefault("summary_path", d.SummaryPath)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("sheet_name", d.SheetName)
	v.SetDefault("text_columns", d.TextColumns)
	v.SetDefault("preferred_text_columns", d.PreferredTextColumns)
	v.SetDefault("rare_threshold_pct", d.RareThresholdPct)
	v.SetDefault("example_max_chars", d.ExampleMaxChars)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("no_color", d.NoColor)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := defaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// a missing file is fine; a malformed one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// env lists arrive as a single comma separated string
	c.TextColumns = splitList(c.TextColumns)
	c.PreferredTextColumns = splitList(c.PreferredTextColumns)
	return &c, nil
}

// Set assigns one key from its string form.
func (c *Global) Set(key, value string) error {
	switch key {
	case "input_path":
		c.InputPath = value
	case "summary_path":
		c.SummaryPath = value
	case "delimiter":
		c.Delimiter = value
	case "sheet_name":
		c.SheetName = value
	case "text_columns":
		c.TextColumns = splitList([]string{value})
	case "preferred_text_columns":
		c.PreferredTextColumns = splitList([]string{value})
	case "rare_threshold_pct":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("rare_threshold_pct must be a positive number, got %q", value)
		}
		c.RareThresholdPct = f
	case "example_max_chars":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("example_max_chars must be a non-negative integer, got %q", value)
		}
		c.ExampleMaxChars = n
	case "log_level":
		if !ValidLogLevel(value) {
			return fmt.Errorf("log_level must be one of %s, got %q", strings.Join(LogLevels, ", "), value)
		}
		c.LogLevel = strings.ToLower(value)
	case "no_color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("no_color must be true or false, got %q", value)
		}
		c.NoColor = b
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Delim returns the configured delimiter as a rune, or 0 for auto.
func (c *Global) Delim() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	return r[0], nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
