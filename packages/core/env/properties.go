package env

import (
	"sort"
	"sync"
)

// Properties is a concurrency-safe key/value registry. The package keeps one
// process-wide instance, reachable through SystemProperties and the
// package-level helpers.
type Properties struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

var systemProperties = NewProperties()

// SystemProperties returns the process-wide property registry.
func SystemProperties() *Properties {
	return systemProperties
}

func (p *Properties) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

func (p *Properties) SetAll(values map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, v := range values {
		p.values[k] = v
	}
}

// Lookup implements Source.
func (p *Properties) Lookup(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok
}

func (p *Properties) Clear(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
}

// Names returns the registered keys in sorted order.
func (p *Properties) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.values))
	for k := range p.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func SetProperty(key, value string) {
	systemProperties.Set(key, value)
}

func SetProperties(values map[string]string) {
	systemProperties.SetAll(values)
}

func GetProperty(key string) (string, bool) {
	return systemProperties.Lookup(key)
}

func ClearProperty(key string) {
	systemProperties.Clear(key)
}

func PropertyNames() []string {
	return systemProperties.Names()
}
