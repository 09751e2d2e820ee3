package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds TTS providers by name with thread-safe access, so config
// reloads can swap providers while a conversion is resolving one.
type Registry struct {
	mu        sync.RWMutex
	ttsByName map[string]TTSProvider
	logger    *slog.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		ttsByName: make(map[string]TTSProvider),
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a TTS provider under its own name.
func (r *Registry) Register(p TTSProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ttsByName[p.Name()] = p
	r.logger.Info("registered TTS provider", "name", p.Name())
}

// Unregister removes a TTS provider by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ttsByName, name)
	r.logger.Info("unregistered TTS provider", "name", name)
}

// Get returns a TTS provider by name.
func (r *Registry) Get(name string) (TTSProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.ttsByName[name]
	if !ok {
		return nil, fmt.Errorf("TTS provider not found: %s", name)
	}
	return p, nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ttsByName))
	for name := range r.ttsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
