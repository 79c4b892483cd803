package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gpunode/gfx"
	"github.com/gogpu/gpunode/handle"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendNative, BackendMemory}
)

// Register registers a backend factory with the given name.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open opens a device on the named backend.
func Open(name string) (*gfx.Device, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return factory()
}

// Default returns the name of the best registered backend.
// Priority order: native > memory. It returns "" if nothing is registered.
func Default() string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if _, ok := backends[name]; ok {
			return name
		}
	}
	// Fallback: first registered name in sorted order.
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

// Provider returns a handle provider opening the named backend on first
// acquire. An empty name selects Default.
func Provider(name string) *handle.Provider[*gfx.Device] {
	return handle.NewProvider(func() (*gfx.Device, error) {
		n := name
		if n == "" {
			n = Default()
		}
		return Open(n)
	}, nil)
}
