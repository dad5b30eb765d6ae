package shell

import (
	"os"
	"path/filepath"
)

// RCPath returns the default path of the rc file.
func RCPath() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", "rc.yaml")
}

// DBPath returns the default path of the database.
func DBPath() (string, error) {
	return xdgPath("XDG_STATE_HOME", filepath.Join(".local", "state"), "db.bolt")
}

func xdgPath(env, fallback, name string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, "tsrepl", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, "tsrepl", name), nil
}
