package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
)

// GlobalConfigDir returns the path to the batuta configuration directory.
// This is typically ~/.batuta on Unix systems; the BATUTA_HOME environment
// variable overrides it.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if override := os.Getenv(constants.EnvBatutaHome); override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.BatutaHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.batuta/config.yaml on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// LogsDir returns the directory for rotating CLI logs, typically
// ~/.batuta/logs.
func LogsDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDirName), nil
}

// ResolveKeystoreDir resolves the debug keystore directory, falling back to
// the global configuration directory.
func (c *Config) ResolveKeystoreDir() (string, error) {
	if c.KeystoreDir != "" {
		return c.KeystoreDir, nil
	}
	return GlobalConfigDir()
}
