package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global slog instance for the application
var Logger = slog.Default()

// DefaultPath returns ~/.collab/logs/collab.log
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".collab", "logs", "collab.log"), nil
}

// Init initializes the logging system, writing logs to ~/.collab/logs/collab.log.
// Uses text format for human readability. The returned closer releases the
// log file.
func Init(level slog.Level) (io.Closer, error) {
	logPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return InitFile(logPath, level)
}

// InitFile writes logs to path in append mode
func InitFile(path string, level slog.Level) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	setDefault(file, level)
	return file, nil
}

// InitStderr logs to stderr. Used by long running commands such as serve.
func InitStderr(level slog.Level) {
	setDefault(os.Stderr, level)
}

func setDefault(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Redirect standard log package output to the same destination
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)
}
