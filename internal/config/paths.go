package config

import (
	"os"
	"path/filepath"
	"strings"
)

// expandPath substitutes $VAR and ${VAR} references in a configured path
// and resolves a leading ~ to the user's home directory. Unset variables
// expand to the empty string, as with os.ExpandEnv.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if !hasHomePrefix(p) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// hasHomePrefix matches "~" alone or followed by a path separator.
// "~user" forms are left as they are.
func hasHomePrefix(p string) bool {
	if p == "~" {
		return true
	}
	return strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator))
}
