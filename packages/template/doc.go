// Package template fills {{placeholder}} expressions in request templates.
//
// A placeholder is resolved as a builtin function call when it has the form
// name(args), as an environment variable when it starts with $, and through a
// lookup function otherwise. The lookup is usually capture.Provider's
// LookupValue, so values extracted from the previous response take part.
package template
