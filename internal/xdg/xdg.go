package xdg

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

const appName = "face-lock"

// ConfigDir returns the configuration directory for face-lock.
// On Linux: $XDG_CONFIG_HOME/face-lock or ~/.config/face-lock
// On macOS: ~/Library/Application Support/face-lock (fallback to XDG if set)
//
// Note: This function creates the directory (with 0700 permissions) if it doesn't exist.
func ConfigDir() (string, error) {
	var base string

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		base = configHome
	} else if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, "Library", "Application Support")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}

	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// RuntimeDir returns the runtime directory for face-lock.
// On Linux: $XDG_RUNTIME_DIR/face-lock or /tmp/face-lock-$UID
// Runtime dir is for ephemeral state that should be cleared on logout/reboot.
//
// Note: This function creates the directory (with 0700 permissions) if it doesn't exist.
func RuntimeDir() (string, error) {
	var base string

	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		base = runtimeDir
	} else {
		tmpdir := os.TempDir()
		base = filepath.Join(tmpdir, appName+"-"+uidString())
	}

	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigFile returns the path to the JSON configuration file.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// PasswordFile returns the path to the password hash file.
func PasswordFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "passwd"), nil
}

// KnownFacesDir returns the directory holding enrolled face descriptors.
// Descriptors are written there by the enrollment tool, one JSON file per
// identity. The directory is created if missing so a fresh install starts
// with an empty database rather than an error.
func KnownFacesDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	faces := filepath.Join(dir, "known_faces")
	if err := os.MkdirAll(faces, 0700); err != nil {
		return "", err
	}
	return faces, nil
}

// LockStateFile returns the path to the lock state file.
func LockStateFile() (string, error) {
	dir, err := RuntimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lock.state"), nil
}

// LogFile returns the path to the session log file. The lock screen owns
// the terminal while it runs, so diagnostics go to a file instead of stderr.
func LogFile() (string, error) {
	dir, err := RuntimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "face-lock.log"), nil
}

// uidString returns the current user's UID as a string.
func uidString() string {
	return strconv.Itoa(os.Getuid())
}
