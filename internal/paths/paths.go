// Package paths resolves where cardfile keeps its configuration and its
// contact data.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "cardfile"

// ConfigFileName is the config file inside the config directory.
const ConfigFileName = "config.yaml"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".cardfile"
	DefaultDataDirName   = ".cardfile-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CARDFILE_CONFIG_DIR"
	EnvDataDir   = "CARDFILE_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/cardfile (fallback ~/.config/cardfile)
// macOS:   ~/Library/Application Support/cardfile
// Windows: %APPDATA%/cardfile
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/cardfile (fallback ~/.local/share/cardfile)
// macOS:   ~/Library/Application Support/cardfile
// Windows: %APPDATA%/cardfile
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// userDir applies the XDG rules on Linux and os.UserConfigDir elsewhere.
func userDir(xdgEnv, homeFallback string) (string, error) {
	if runtime.GOOS != "linux" {
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
	return filepath.Join(home, homeFallback, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > CARDFILE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml data_dir > CARDFILE_DATA_DIR env > $(CWD)/.cardfile-db.
//
// The CWD-relative default keeps an address book next to the project that
// uses it; DefaultDataDir is only used when asked for explicitly.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, v := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}
