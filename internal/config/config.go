// Package config resolves timebox settings from defaults, an optional config
// file, a .env file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. TIMEBOX_STORE.
	EnvPrefix = "TIMEBOX"

	KeyStore    = "store"
	KeyLogLevel = "log_level"
	KeyLogFile  = "log_file"
)

// Config holds resolved settings.
type Config struct {
	// Store is the session store path. Its extension selects the format.
	Store string `mapstructure:"store"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// LogFile receives use-case logs. Empty disables logging unless
	// LogLevel is debug, in which case logs go to stderr.
	LogFile string `mapstructure:"log_file"`
}

// Dir returns the per-user timebox directory (~/.timebox).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".timebox"
	}
	return filepath.Join(home, ".timebox")
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Store:    filepath.Join(Dir(), "sessions.json"),
		LogLevel: "info",
	}
}

// NewViper returns a viper instance with defaults and environment bindings
// registered. Callers bind flags onto it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	defaults := Default()
	v.SetDefault(KeyStore, defaults.Store)
	v.SetDefault(KeyLogLevel, defaults.LogLevel)
	v.SetDefault(KeyLogFile, defaults.LogFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env from the working directory, then configFile (or
// config.yaml in Dir when empty), and unmarshals the merged result.
// A missing default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Store = expandHome(cfg.Store)
	cfg.LogFile = expandHome(cfg.LogFile)
	if cfg.Store == "" {
		return nil, errors.New("store path must not be empty")
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
