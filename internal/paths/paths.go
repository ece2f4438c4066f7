// Package paths resolves where almanac keeps its configuration and its
// buffer store.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "almanac"

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ALMANAC_CONFIG_DIR"
	EnvDataDir   = "ALMANAC_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir returns $xdgEnv/almanac, or ~/<fallback...>/almanac when the
// variable is unset. Only Linux follows XDG; elsewhere both directories
// live under os.UserConfigDir.
func xdgDir(xdgEnv string, fallback ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory:
// $XDG_CONFIG_HOME/almanac or ~/.config/almanac on Linux,
// os.UserConfigDir()/almanac elsewhere.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory:
// $XDG_DATA_HOME/almanac or ~/.local/share/almanac on Linux,
// os.UserConfigDir()/almanac elsewhere.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir returns the configuration directory: flag, then
// ALMANAC_CONFIG_DIR, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory: flag, then the data_dir value
// from config.yaml, then ALMANAC_DATA_DIR, then DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(DefaultDataDir, flag, configValue, os.Getenv(EnvDataDir))
}

// ConfigFile returns the path of config.yaml in dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// resolve returns the first non-empty candidate made absolute, or the
// default.
func resolve(def func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return def()
}
