package config

import "flag"

// flagToSource maps flag names to source field names.
var flagToSource = map[string]string{
	"title":          "title",
	"id-scheme":      "id_scheme",
	"show-help":      "show_help",
	"log-dir":        "log_dir",
	"log-file":       "log_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"accent":         "theme.accent",
}

// parseFlags defines the global flags on fs, parses args, and records the
// flag as the source of every value explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasks", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Title, "title", cfg.Title, "Screen title")
	fs.StringVar(&cfg.IDScheme, "id-scheme", cfg.IDScheme, "Task id scheme (counter, uuid)")
	fs.BoolVar(&cfg.ShowHelp, "show-help", cfg.ShowHelp, "Show key help under the list")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.BoolVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write a per-session log file under the log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	// Theme
	fs.StringVar(&cfg.Theme.Accent, "accent", cfg.Theme.Accent, "Accent color (ANSI number or hex)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if fieldName, ok := flagToSource[f.Name]; ok {
				sources[fieldName] = SourceFlag
			}
		})
	}

	return nil
}
