package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/logging"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the respvar configuration
type Config struct {
	Response       ResponseConfig `mapstructure:"response" json:"response" yaml:"response"`
	PropertiesFile string         `mapstructure:"properties_file" json:"properties_file,omitempty" yaml:"properties_file,omitempty"`
	EnvFile        string         `mapstructure:"env_file" json:"env_file,omitempty" yaml:"env_file,omitempty"`
	Log            LogConfig      `mapstructure:"log" json:"log" yaml:"log"`
}

type ResponseConfig struct {
	Vars VarsConfig `mapstructure:"vars" json:"vars" yaml:"vars"`
}

// VarsConfig lists the response variables and the JSONPath expression that
// produces each one.
type VarsConfig struct {
	Names     []string          `mapstructure:"names" json:"names" yaml:"names"`
	JSONPaths map[string]string `mapstructure:"jsonpaths" json:"jsonpaths" yaml:"jsonpaths"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`
	Format string `mapstructure:"format" json:"format" yaml:"format"`
}

// Validate checks names and log settings. All problems are reported together.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	var problems []string
	seen := make(map[string]bool, len(cfg.Response.Vars.Names))
	for i, name := range cfg.Response.Vars.Names {
		switch {
		case name == "":
			problems = append(problems, fmt.Sprintf("response.vars.names[%d] is empty", i))
		case strings.ContainsAny(name, " \t\r\n"):
			problems = append(problems, fmt.Sprintf("response variable %q contains whitespace", name))
		case seen[name]:
			problems = append(problems, fmt.Sprintf("response variable %q is listed twice", name))
		}
		seen[name] = true
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", cfg.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// RuleSet compiles the configured variables.
func (c *Config) RuleSet(opts ...capture.Option) *capture.RuleSet {
	return capture.NewRuleSet(c.Response.Vars.Names, c.Response.Vars.JSONPaths, opts...)
}

// Logger builds the logger described by the log section.
func (c *Config) Logger(opts logging.Options) (*slog.Logger, error) {
	if opts.Level == "" {
		opts.Level = c.Log.Level
	}
	if opts.Format == "" {
		opts.Format = c.Log.Format
	}
	return logging.New(opts)
}

// normalize trims names and restores the case of expression keys, which the
// loader folds to lower case.
func (c *Config) normalize() {
	vars := &c.Response.Vars
	names := make([]string, 0, len(vars.Names))
	for _, n := range vars.Names {
		names = append(names, strings.TrimSpace(n))
	}
	vars.Names = names

	if len(vars.JSONPaths) == 0 {
		return
	}
	paths := make(map[string]string, len(vars.JSONPaths))
	for k, v := range vars.JSONPaths {
		paths[k] = v
	}
	for _, n := range names {
		if _, ok := paths[n]; ok {
			continue
		}
		if v, ok := vars.JSONPaths[strings.ToLower(n)]; ok {
			paths[n] = v
			delete(paths, strings.ToLower(n))
		}
	}
	vars.JSONPaths = paths
}
