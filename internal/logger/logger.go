// Package logger sets up the rotating diagnostic log. The terminal
// belongs to the TUI, so everything slog-level goes to a file under the
// configured log directory.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, lumberjack semantics.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Config describes the diagnostic log destination.
type Config struct {
	Dir        string // directory holding scandesk.log
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup creates the log directory, installs a text slog handler writing
// to a rotating file, and makes it the process default. The returned
// closer flushes the underlying file on shutdown.
func Setup(cfg Config) (*slog.Logger, io.Closer, error) {
	if cfg.Dir == "" {
		return nil, nil, fmt.Errorf("logger: empty log dir")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	w := &lj.Logger{
		Filename:   filepath.Join(cfg.Dir, "scandesk.log"),
		MaxSize:    valOr(cfg.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(cfg.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(cfg.MaxAgeDays, DefaultMaxAgeDays),
	}

	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)
	return log, w, nil
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
