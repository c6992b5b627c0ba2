package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadWithSources loads configuration from multiple sources in priority order
// and tracks the source of each value:
// 1. Defaults
// 2. User config file (~/.tasks/tasks.toml or OS-specific config dir)
// 3. Project config file (tasks.toml or .tasks.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, cws.Sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		cws.Files = append(cws.Files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, cws.Sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		cws.Files = append(cws.Files, projectConfigFile)
	}

	// 4. Override from environment
	loadFromEnv(cfg, cws.Sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"title",
		"id_scheme",
		"show_help",
		"log_dir",
		"log_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"theme.accent",
		"theme.muted",
		"theme.done",
	}
}

// loadConfigFile decodes a TOML file over cfg. Keys present in the file are
// attributed to source; keys the file leaves out keep their previous value.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if sources == nil {
		return nil
	}
	for _, field := range configFields() {
		if md.IsDefined(strings.Split(field, ".")...) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates the result.
func finalizeConfig(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.IDScheme = strings.ToLower(strings.TrimSpace(cfg.IDScheme))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	return cfg.Validate()
}

// GetConfigFile returns the highest-priority config file that was read,
// or "" if none was.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
