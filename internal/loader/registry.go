package loader

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds loaders by key.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds l. Keys must be non-empty and unique.
func (r *Registry) Register(l Loader) error {
	key := l.Key()
	if key == "" {
		return fmt.Errorf("loader has an empty key")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loaders[key]; ok {
		return fmt.Errorf("loader %q already registered", key)
	}
	r.loaders[key] = l
	return nil
}

// Lookup returns the loader registered under key.
func (r *Registry) Lookup(key string) (Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loaders[key]
	return l, ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.loaders))
	for k := range r.loaders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Find returns the first loader, by key order, that can load src.
func (r *Registry) Find(src DataSource) (Loader, bool) {
	for _, key := range r.Keys() {
		l, _ := r.Lookup(key)
		if l != nil && l.CanLoad(src) {
			return l, true
		}
	}
	return nil, false
}
