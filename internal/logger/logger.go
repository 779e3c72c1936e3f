// Package logger provides the process-wide structured logger. Output goes to
// a file so it never interferes with the terminal UI; without a file, log
// records are discarded.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
)

var (
	mu       sync.Mutex
	levelVar = new(slog.LevelVar)
	base     = slog.New(slog.DiscardHandler)
	logFile  *os.File
	logPath  string
)

// SetDebug switches between debug and info level.
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Init opens path for appending and sends all log output there. An empty
// path keeps logging disabled. Calling Init again with the same path is a
// no-op; a different path replaces the previous file.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if path == "" || path == logPath {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile, logPath = f, path
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	base.Info("logger initialized", "path", path)
	return nil
}

// Get returns the current logger.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

// Component returns a logger tagged with a component name.
//
//	log := logger.Component("highlight")
//	log.Debug("highlighted", "gen", gen, "lines", n)
func Component(name string) *slog.Logger {
	return Get().With(slog.String("component", name))
}

// Close closes the log file and disables logging.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logPath = ""
	base = slog.New(slog.DiscardHandler)
	levelVar.Set(slog.LevelInfo)
}
