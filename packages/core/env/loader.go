package env

import (
	"os"
)

// Source is one tier of the resolution chain.
type Source interface {
	Lookup(key string) (string, bool)
}

// MapSource serves lookups from a fixed map.
type MapSource map[string]string

func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

type osEnvironment struct {
	prefix string
}

// OSEnvironment returns a Source backed by the process environment. With a
// non-empty prefix, key k is looked up as prefix+k. A variable set to the
// empty string counts as present.
func OSEnvironment(prefix string) Source {
	return osEnvironment{prefix: prefix}
}

func (e osEnvironment) Lookup(key string) (string, bool) {
	return os.LookupEnv(e.prefix + key)
}

// MergeVariables merges maps left to right; later sources win.
func MergeVariables(sources ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}
