package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/cardfile/internal/paths"
	"github.com/mesh-intelligence/cardfile/internal/web"
	"github.com/mesh-intelligence/cardfile/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// envPrefix scopes the environment overrides, e.g. CARDFILE_LOG_LEVEL.
	envPrefix = "CARDFILE"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeySync     = "sync"
	cfgKeyLogLevel = "log_level"
	cfgKeyListen   = "listen"

	defaultLogLevel = "error"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	Sync     string `yaml:"sync"`
	LogLevel string `yaml:"log_level"`
	Listen   string `yaml:"listen"`
}

// loadConfig reads config.yaml from configDir. A missing file is not an
// error; every key has a default. backend, sync, log_level and listen may
// also come from CARDFILE_* environment variables. data_dir is left to
// paths.ResolveDataDir so the file keeps precedence over the environment.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeySync, types.SyncImmediate)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyListen, web.DefaultListenAddr)

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyBackend, cfgKeySync, cfgKeyLogLevel, cfgKeyListen} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(configDir, dataDir string) (bool, error) {
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		Sync:     types.SyncImmediate,
		LogLevel: defaultLogLevel,
		Listen:   web.DefaultListenAddr,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// storeConfig builds the store configuration from the loaded config and
// the --data-dir flag.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend: a.cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
		Sync:    a.cfg.GetString(cfgKeySync),
	}, nil
}
