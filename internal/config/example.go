package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags

# Title shown above the list
title = "To-Do"

# Task id scheme: "counter" (1, 2, 3, ...) or "uuid" (time-ordered UUIDv7)
id_scheme = "counter"

# Show the key help line under the list
show_help = true

# Log directory (supports ~ and $VAR expansion)
log_dir = "~/.tasks"

# Write a per-session log file under log_dir
log_file = false

# Log level: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"

log_timestamps = false
log_caller = false

# Colors accept ANSI numbers ("63") or hex ("#7D56F4")
[theme]
accent = "63"
muted = "241"
done = "42"
`
}
