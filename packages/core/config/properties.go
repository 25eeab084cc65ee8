package config

import (
	"strings"
)

// Connector property keys. Expressions are keyed as
// rest.source.response.var.<name>.jsonpath.
const (
	PropertyNames          = "rest.source.response.var.names"
	propertyPrefix         = "rest.source.response.var."
	propertyJSONPathSuffix = ".jsonpath"
)

// FromProperties builds a Config from flat connector properties. Names are a
// comma separated list; surrounding whitespace and empty entries are dropped.
// Keys outside the response variable namespace are ignored.
func FromProperties(props map[string]string) *Config {
	cfg := Default()

	for _, name := range strings.Split(props[PropertyNames], ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.Response.Vars.Names = append(cfg.Response.Vars.Names, name)
		}
	}

	for key, expr := range props {
		rest, ok := strings.CutPrefix(key, propertyPrefix)
		if !ok {
			continue
		}
		name, ok := strings.CutSuffix(rest, propertyJSONPathSuffix)
		if !ok || name == "" {
			continue
		}
		cfg.Response.Vars.JSONPaths[name] = expr
	}

	return cfg
}

// JSONPathProperty returns the connector property key holding name's
// expression.
func JSONPathProperty(name string) string {
	return propertyPrefix + name + propertyJSONPathSuffix
}
