// Package logger initializes the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

var logFile *os.File

// Init sets up the default slog logger. When logDir is non-empty, log lines
// go to both stderr and a dated file under logDir. jsonOutput selects the
// JSON handler for production.
func Init(logDir string, jsonOutput bool, level slog.Level) error {
	var writer io.Writer = os.Stderr

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return err
		}
		name := "deepgate-" + time.Now().Format("2006-01-02") + ".log"
		f, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		logFile = f
		writer = io.MultiWriter(os.Stderr, f)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// Close releases the log file, if one was opened.
func Close() error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
