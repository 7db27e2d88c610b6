package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath resolves the directory holding the database and the managed
// .env file. Relative paths anchor at the user's home.
func GetRuntimePath() string {
	path := os.Getenv("BRIEF_RUNTIME_PATH")
	if path == "" {
		path = ".briefbot"
	}
	return resolveRuntimePath(path)
}

func resolveRuntimePath(path string) string {
	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
