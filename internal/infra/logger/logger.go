// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"cyclesync/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance
var Log = logrus.New()

// Init configures the global logger from the application configuration.
// Logs go to stderr so that `cyclesync cycles` output on stdout stays clean.
func Init(cfg *config.AppConfig) {
	Configure(Log, os.Stderr, cfg.LogLevel, cfg.Environment)
	Log.WithFields(logrus.Fields{
		"level":       Log.GetLevel().String(),
		"environment": cfg.Environment,
	}).Debug("Logger configured")
}

// Configure applies output, level and format to l. An unknown level falls back to info.
func Configure(l *logrus.Logger, w io.Writer, level, environment string) {
	l.SetOutput(w)
	l.SetFormatter(formatterFor(environment))

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		l.WithField("level", level).Warn("Unknown log level, using info")
		return
	}
	l.SetLevel(lvl)
}

// Structured JSON where logs are collected, readable text on a terminal.
func formatterFor(environment string) logrus.Formatter {
	switch environment {
	case "production", "staging":
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	default:
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.DateTime}
	}
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// Discard returns an entry that writes nowhere.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
