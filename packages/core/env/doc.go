// Package env resolves placeholder values for outgoing payloads.
//
// Resolution follows a fixed precedence chain:
//   - Values extracted from the most recent response
//   - Process-wide runtime properties (see SetProperty)
//   - Environment variables
//
// The first tier holding the key wins. A key held by none of them resolves to
// absence, which callers must treat as a normal outcome rather than an error.
//
// The package also loads .env style files, either into the process properties
// or into the OS environment.
package env
