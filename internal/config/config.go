// Package config resolves flashmath settings from flags, the environment,
// an optional .env file and an optional flashmath.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/flashmath/internal/logging"
	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/stats"
	"github.com/abhisek/flashmath/internal/validate"
)

// EnvPrefix is prepended to every environment key, e.g. FLASHMATH_LOG_LEVEL.
const EnvPrefix = "FLASHMATH"

// Config holds all application configuration.
type Config struct {
	// DB is the sqlite file path. Empty means store.DefaultDBPath().
	DB string `mapstructure:"db"`

	Log       LogConfig       `mapstructure:"log"`
	Generator GeneratorConfig `mapstructure:"generator"`
	History   HistoryConfig   `mapstructure:"history"`
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format     string `mapstructure:"format" validate:"oneof=text json"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
}

// GeneratorConfig bounds the question generator's retry loops.
type GeneratorConfig struct {
	MaxAdaptiveAttempts   int `mapstructure:"max_adaptive_attempts" validate:"gte=1"`
	MaxDistractorAttempts int `mapstructure:"max_distractor_attempts" validate:"gte=0"`
}

// HistoryConfig controls the session history list.
type HistoryConfig struct {
	Capacity int `mapstructure:"capacity" validate:"gte=1"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	lc := logging.DefaultConfig()
	gc := problemgen.DefaultConfig()
	return Config{
		Log: LogConfig{
			Level:      lc.Level,
			Format:     lc.Format,
			MaxSizeMB:  lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
		},
		Generator: GeneratorConfig{
			MaxAdaptiveAttempts:   gc.MaxAdaptiveAttempts,
			MaxDistractorAttempts: gc.MaxDistractorAttempts,
		},
		History: HistoryConfig{Capacity: stats.DefaultCapacity},
	}
}

// Logging converts the log section for logging.New.
func (c Config) Logging() logging.Config {
	return logging.Config{
		File:       c.Log.File,
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}

// GeneratorConfig returns a problemgen.Config with the configured limits.
func (c Config) GeneratorConfig() problemgen.Config {
	gc := problemgen.DefaultConfig()
	gc.MaxAdaptiveAttempts = c.Generator.MaxAdaptiveAttempts
	gc.MaxDistractorAttempts = c.Generator.MaxDistractorAttempts
	return gc
}

// Validate reports out-of-range settings.
func (c Config) Validate() error {
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"db":        "db",
	"log-file":  "log.file",
	"log-level": "log.level",
}

// Options tunes where Load looks for files. The zero value searches the
// working directory and $XDG_CONFIG_HOME/flashmath.
type Options struct {
	// Flags, when set, override every other source for the keys in flagKeys.
	Flags *pflag.FlagSet

	// EnvFile is the dotenv file to load. Empty means ".env".
	EnvFile string

	// ConfigDirs replaces the default yaml search path.
	ConfigDirs []string
}

// Load resolves Config. Precedence, highest first: flags, environment,
// flashmath.yaml, defaults. A missing .env or yaml file is not an error.
func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("flashmath")
	v.SetConfigType("yaml")
	dirs := opts.ConfigDirs
	if dirs == nil {
		dirs = defaultConfigDirs()
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	// Registering every key, even empty ones, lets AutomaticEnv reach them
	// during Unmarshal.
	v.SetDefault("db", d.DB)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("generator.max_adaptive_attempts", d.Generator.MaxAdaptiveAttempts)
	v.SetDefault("generator.max_distractor_attempts", d.Generator.MaxDistractorAttempts)
	v.SetDefault("history.capacity", d.History.Capacity)
}

func defaultConfigDirs() []string {
	dirs := []string{"."}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil {
			base = filepath.Join(home, ".config")
		}
	}
	if base != "" {
		dirs = append(dirs, filepath.Join(base, "flashmath"))
	}
	return dirs
}
