package model

import (
	"os"
	"path/filepath"
)

// ConfigDir returns $HOME/.bookrel, or .bookrel when no home is available
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bookrel"
	}
	return filepath.Join(home, ".bookrel")
}

func defaultCacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}
