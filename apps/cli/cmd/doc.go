// Package cmd implements the respvar CLI commands using Cobra.
//
// Available commands:
//   - extract: Evaluate the configured rules against a response body
//   - lookup: Resolve variables through the response, properties and environment
//   - render: Fill {{placeholders}} in a request template
//   - validate: Compile the configured rules and report rejected ones
//   - watch: Re-extract whenever the config or response file changes
//   - version: Show respvar version information
//
// Configuration is read from a viper-backed file with RESPVAR_* environment
// overrides; process properties come from -D flags and a properties file.
package cmd
