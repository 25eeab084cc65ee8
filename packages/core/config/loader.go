package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RESPVAR_LOG_LEVEL.
const EnvPrefix = "RESPVAR"

// keyDelimiter separates nested viper keys. Variable names may contain dots,
// so the default "." cannot be used.
const keyDelimiter = "::"

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	"respvar.yaml",
	"respvar.yml",
	".respvar.yaml",
	".respvar.yml",
	"respvar.json",
	"respvar.toml",
}

// LoadConfig loads configuration from the specified path or searches for config files.
// Priority: defaults → config file → environment variables (env wins)
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return load(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory. Without
// one, defaults and environment overrides still apply.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return load(configPath)
		}
	}
	return load("")
}

func load(path string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// RESPVAR_RESPONSE_VARS_NAMES, RESPVAR_LOG_LEVEL, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))

	for _, key := range []string{
		"response::vars::names",
		"properties_file",
		"env_file",
		"log::level",
		"log::format",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("response::vars::names", defaults.Response.Vars.Names)
	v.SetDefault("response::vars::jsonpaths", defaults.Response.Vars.JSONPaths)
	v.SetDefault("properties_file", defaults.PropertiesFile)
	v.SetDefault("env_file", defaults.EnvFile)
	v.SetDefault("log::level", defaults.Log.Level)
	v.SetDefault("log::format", defaults.Log.Format)
}
