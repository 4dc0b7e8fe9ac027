// Package kind names the combined document kinds hactl understands and
// the record field each one uses as its human-readable name.
package kind

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind describes one combined document kind.
type Kind struct {
	// Name is the kind identifier used on the command line.
	Name string

	// NameField is the record key holding the human-readable name,
	// e.g. "alias" for automations and "name" for scenes.
	NameField string

	// SourceFile is the conventional filename in the Home Assistant
	// config directory.
	SourceFile string
}

// Registry maps kind names to their definitions.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewRegistry creates an empty kind registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[string]Kind),
	}
}

// Register adds a kind under its name. Existing entries for the same name
// are overwritten.
func (r *Registry) Register(k Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.kinds[k.Name] = k
}

// Lookup returns the kind for the given name, or an error if not found.
func (r *Registry) Lookup(name string) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.kinds[name]
	if !ok {
		return Kind{}, fmt.Errorf("unknown document kind %q (available: %s)", name, r.availableLocked())
	}

	return k, nil
}

// Names returns the sorted list of registered kind names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Available returns a comma-separated string of registered kind names.
func (r *Registry) Available() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.availableLocked()
}

func (r *Registry) availableLocked() string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}

	if len(names) == 0 {
		return "none"
	}

	sort.Strings(names)

	return strings.Join(names, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// kinds: automation, scene, script.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Kind{Name: "automation", NameField: "alias", SourceFile: "automations.yaml"})
	r.Register(Kind{Name: "scene", NameField: "name", SourceFile: "scenes.yaml"})
	r.Register(Kind{Name: "script", NameField: "alias", SourceFile: "scripts.yaml"})

	return r
}
