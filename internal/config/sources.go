package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Config file names.
const (
	appDirName     = "tasks"
	userDirName    = ".tasks"
	configFileName = "tasks.toml"
	hiddenFileName = ".tasks.toml"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{configFileName, hiddenFileName} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.tasks/tasks.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, userDirName, configFileName)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, appDirName, configFileName)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Title = DefaultTitle
	cfg.IDScheme = DefaultIDScheme
	cfg.ShowHelp = DefaultShowHelp
	cfg.LogDir = DefaultLogDir
	cfg.LogFile = false
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Theme = Theme{
		Accent: DefaultAccentColor,
		Muted:  DefaultMutedColor,
		Done:   DefaultDoneColor,
	}
}
