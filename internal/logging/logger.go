package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks/internal/config"
)

// Prefix is the logger prefix used across the application.
const Prefix = "tasks"

// Options holds configuration for the session logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns default logger options.
func DefaultOptions() Options {
	return Options{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
		Prefix:    Prefix,
	}
}

// OptionsFromConfig converts the string-valued config fields.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Level:           ParseLevel(cfg.LogLevel),
		Formatter:       ParseFormatter(cfg.LogFormat),
		ReportTimestamp: cfg.LogTimestamps,
		ReportCaller:    cfg.LogCaller,
		Prefix:          Prefix,
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, DefaultOptions())
}

// Open builds the session logger for cfg. When cfg.LogFile is set the
// logger writes to a new session file, otherwise it writes to fallback
// (io.Discard when fallback is nil). The returned close function is never nil.
func Open(cfg *config.Config, fallback io.Writer) (*log.Logger, func() error, error) {
	opts := OptionsFromConfig(cfg)
	if !cfg.LogFile {
		if fallback == nil {
			fallback = io.Discard
		}
		return New(fallback, opts), func() error { return nil }, nil
	}

	session, err := NewSessionLogger(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return nil, nil, err
	}
	logger := New(session.Writer(), opts)
	logger.Info("session started", "session", session.SessionID, "path", session.LogPath)
	return logger, session.Close, nil
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
