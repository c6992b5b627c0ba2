package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultTitle     = "To-Do"
	DefaultIDScheme  = "counter"
	DefaultLogDir    = "~/.tasks"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultShowHelp  = true

	DefaultAccentColor = "63"
	DefaultMutedColor  = "241"
	DefaultDoneColor   = "42"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Screen title shown above the list.
	Title string `toml:"title"`

	// IDScheme selects how task ids are generated (counter, uuid).
	IDScheme string `toml:"id_scheme"`

	// ShowHelp shows the key help line under the list.
	ShowHelp bool `toml:"show_help"`

	// Logging configuration. The TUI owns the terminal, so logs go to a
	// per-session file under LogDir when LogFile is set.
	LogDir        string `toml:"log_dir"`
	LogFile       bool   `toml:"log_file"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	Theme Theme `toml:"theme"`

	// Working directory (computed)
	ProjectRoot string `toml:"-"`
}

// Theme holds lipgloss color strings (ANSI numbers or hex).
type Theme struct {
	Accent string `toml:"accent"`
	Muted  string `toml:"muted"`
	Done   string `toml:"done"`
}

// Validate rejects values no component can use.
func (c *Config) Validate() error {
	switch strings.ToLower(c.IDScheme) {
	case "counter", "uuid":
	default:
		return fmt.Errorf("invalid id_scheme %q, must be one of: counter, uuid", c.IDScheme)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q, must be one of: text, json, logfmt", c.LogFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error, fatal", c.LogLevel)
	}
	return nil
}

// Value returns the string form of the named field, using the names from
// the source map (e.g. "theme.accent").
func (c *Config) Value(field string) (string, bool) {
	switch field {
	case "title":
		return c.Title, true
	case "id_scheme":
		return c.IDScheme, true
	case "show_help":
		return strconv.FormatBool(c.ShowHelp), true
	case "log_dir":
		return c.LogDir, true
	case "log_file":
		return strconv.FormatBool(c.LogFile), true
	case "log_level":
		return c.LogLevel, true
	case "log_format":
		return c.LogFormat, true
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps), true
	case "log_caller":
		return strconv.FormatBool(c.LogCaller), true
	case "theme.accent":
		return c.Theme.Accent, true
	case "theme.muted":
		return c.Theme.Muted, true
	case "theme.done":
		return c.Theme.Done, true
	}
	return "", false
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}
