package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TASKS_* environment variables and
// records the environment as the source of every value it sets.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKS_TITLE"); v != "" {
		cfg.Title = v
		setEnv("title")
	}
	if v := os.Getenv("TASKS_ID_SCHEME"); v != "" {
		cfg.IDScheme = v
		setEnv("id_scheme")
	}
	if v := os.Getenv("TASKS_SHOW_HELP"); v != "" {
		cfg.ShowHelp = boolFromString(v)
		setEnv("show_help")
	}

	// Logging configuration
	if v := os.Getenv("TASKS_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir")
	}
	if v := os.Getenv("TASKS_LOG_FILE"); v != "" {
		cfg.LogFile = boolFromString(v)
		setEnv("log_file")
	}
	if v := os.Getenv("TASKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TASKS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TASKS_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TASKS_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}

	// Theme
	if v := os.Getenv("TASKS_THEME_ACCENT"); v != "" {
		cfg.Theme.Accent = v
		setEnv("theme.accent")
	}
	if v := os.Getenv("TASKS_THEME_MUTED"); v != "" {
		cfg.Theme.Muted = v
		setEnv("theme.muted")
	}
	if v := os.Getenv("TASKS_THEME_DONE"); v != "" {
		cfg.Theme.Done = v
		setEnv("theme.done")
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
