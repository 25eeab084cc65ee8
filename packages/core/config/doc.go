// Package config loads the response variable configuration.
//
// It provides functionality for:
//   - Loading rules from YAML, JSON or TOML files with RESPVAR_* environment overrides
//   - Reading the flat connector properties form
//   - Validation and default values
//   - Watching configuration files for changes
package config
