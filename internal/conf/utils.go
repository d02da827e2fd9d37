// utils.go helper functions for configuration paths
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// GetDefaultConfigPaths returns a list of default configuration paths for the
// current operating system. It determines paths based on standard conventions
// for storing application configuration files.
func GetDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("error fetching executable path: %w", err)
	}
	exeDir := filepath.Dir(exePath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching user directory: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		configPaths = []string{
			exeDir,
			filepath.Join(homeDir, "AppData", "Local", "cardscout"),
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "cardscout"),
			"/etc/cardscout",
		}
	}

	return configPaths, nil
}

// GetBasePath expands a relative path against the directory of the active
// config file, creating the directory if it does not exist.
func GetBasePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	basePath := filepath.Clean(path)

	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			fmt.Printf("failed to create directory '%s': %v\n", basePath, err)
		}
	}

	return basePath
}
