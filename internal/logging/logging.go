// Package logging builds the application's logrus logger. The terminal
// belongs to the TUI, so entries go to a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how log entries are written.
type Config struct {
	// File is the log file path. Empty means DefaultLogPath().
	File string

	// Level is a logrus level name: "debug", "info", "warn", "error".
	Level string

	// Format is "text" or "json".
	Format string

	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is how many rotated files are kept.
	MaxBackups int
}

// DefaultConfig returns a Config with info-level text logs rotated at 5 MB.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "text",
		MaxSizeMB:  5,
		MaxBackups: 3,
	}
}

// New builds a logger writing to a rotated file. The returned closer
// flushes and closes the file.
func New(cfg Config) (*logrus.Logger, io.Closer, error) {
	path := cfg.File
	if path == "" {
		p, err := DefaultLogPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	log := logrus.New()
	log.SetOutput(out)
	if err := configure(log, cfg); err != nil {
		out.Close()
		return nil, nil, err
	}
	return log, out, nil
}

// NewWriter builds a logger on an arbitrary writer. The sheet command uses
// it to report on stderr.
func NewWriter(w io.Writer, cfg Config) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	if err := configure(log, cfg); err != nil {
		return nil, err
	}
	return log, nil
}

func configure(log *logrus.Logger, cfg Config) error {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(lvl)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// OrDiscard returns log, or a discarding logger when log is nil.
func OrDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return Discard()
	}
	return log
}

// DefaultLogPath resolves the log file path:
// 1. $XDG_STATE_HOME/flashmath/flashmath.log
// 2. ~/.local/state/flashmath/flashmath.log
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "flashmath", "flashmath.log"), nil
}
