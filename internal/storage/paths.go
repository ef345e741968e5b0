package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "heimdall"

// GetDataDir returns the data directory for the application, creating it
// if needed. The HEIMDALL_DATA environment variable overrides the
// platform default:
// - macOS: ~/Library/Application Support/heimdall/
// - Linux: ~/.local/share/heimdall/
// - Windows: %APPDATA%/heimdall/
func GetDataDir() (string, error) {
	if dir := os.Getenv("HEIMDALL_DATA"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		return dir, nil
	}

	var baseDir string
	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Linux and other Unix-like: honor XDG_DATA_HOME first.
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// GetNetworksDir returns the directory for network weight files.
func GetNetworksDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	netDir := filepath.Join(dataDir, "networks")
	if err := os.MkdirAll(netDir, 0755); err != nil {
		return "", err
	}
	return netDir, nil
}

// GetDatabaseDir returns the directory for the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
