package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/balkashynov/wrkout/internal/logging"
)

// EnvPrefix is the prefix for environment overrides, e.g. WRKOUT_LOGGING_LEVEL
const EnvPrefix = "WRKOUT"

// Config represents the complete wrkout configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Logging LoggingConfig `mapstructure:"logging"`
	Tracker TrackerConfig `mapstructure:"tracker"`
	Goals   GoalsConfig   `mapstructure:"goals"`
	UI      UIConfig      `mapstructure:"ui"`
}

// PathsConfig controls where data lives
type PathsConfig struct {
	// DataDir holds the database and the debug log (default: ~/.wrkout)
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR
	Level string `mapstructure:"level"`
	// ToFile writes to {data_dir}/debug.log instead of stderr
	ToFile bool `mapstructure:"to_file"`
}

// TrackerConfig controls the elapsed-time counter
type TrackerConfig struct {
	// TickIntervalMs is how often the elapsed counter advances by one second
	TickIntervalMs int `mapstructure:"tick_interval_ms"`
}

// GoalsConfig controls goal notifications on completion
type GoalsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// UIConfig controls the terminal UI
type UIConfig struct {
	// Interactive opens the timer view on start unless --no-ui is passed
	Interactive bool `mapstructure:"interactive"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir: DefaultDataDir(),
		},
		Logging: LoggingConfig{
			Level:  logging.LevelInfo,
			ToFile: true,
		},
		Tracker: TrackerConfig{
			TickIntervalMs: 1000,
		},
		Goals: GoalsConfig{
			Enabled: true,
		},
		UI: UIConfig{
			Interactive: true,
		},
	}
}

// TickInterval returns the tick interval as a time.Duration
func (c *TrackerConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// DatabasePath returns the sqlite file inside the data directory
func (c *PathsConfig) DatabasePath() string {
	return filepath.Join(c.DataDir, "wrkout.db")
}

// DefaultDataDir returns ~/.wrkout, or .wrkout when the home directory is unknown
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wrkout"
	}
	return filepath.Join(home, ".wrkout")
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.data_dir", defaults.Paths.DataDir)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.to_file", defaults.Logging.ToFile)
	v.SetDefault("tracker.tick_interval_ms", defaults.Tracker.TickIntervalMs)
	v.SetDefault("goals.enabled", defaults.Goals.Enabled)
	v.SetDefault("ui.interactive", defaults.UI.Interactive)
}

// Setup wires config file lookup and environment overrides into v.
// A missing config file is not an error.
func Setup(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDataDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer())
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Paths.DataDir = expandHome(cfg.Paths.DataDir)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func envReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
