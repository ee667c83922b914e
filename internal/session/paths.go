package session

import (
	"os"
	"path/filepath"

	"github.com/matheus3301/ora/internal/lock"
)

// HomeEnv overrides the base directory when set.
const HomeEnv = "ORA_HOME"

// BaseDir returns $ORA_HOME, or ~/.ora.
func BaseDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ora")
}

// Dir returns the namespace directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "sessions", name)
}

// LockPath returns the lock file path for a namespace.
func LockPath(name string) string {
	return filepath.Join(Dir(name), lock.FileName)
}

// StorePath returns the SQLite store backing a namespace.
func StorePath(name string) string {
	return filepath.Join(Dir(name), "ora.db")
}

// LogDir returns the log directory for a namespace.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "ora.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the namespace directory tree with proper permissions.
func EnsureDir(name string) error {
	for _, d := range []string{Dir(name), LogDir(name)} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}

// List returns the names of namespaces that have a directory.
func List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(BaseDir(), "sessions"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && ValidateName(e.Name()) == nil {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
