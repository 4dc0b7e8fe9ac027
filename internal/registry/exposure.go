package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	sigsyaml "sigs.k8s.io/yaml"
)

// DefaultAssistant is the option key for the built-in voice assistant.
const DefaultAssistant = "conversation"

// defaultExposedDomains are the domains Home Assistant auto-exposes to
// assistants out of the box.
var defaultExposedDomains = map[string]bool{
	"climate":      true,
	"cover":        true,
	"fan":          true,
	"humidifier":   true,
	"light":        true,
	"media_player": true,
	"scene":        true,
	"switch":       true,
	"todo":         true,
	"vacuum":       true,
	"water_heater": true,
}

// additionalManagedDomains are domains that are not auto-exposed but may
// still carry exposure overrides.
var additionalManagedDomains = map[string]bool{
	"assist_satellite": true,
	"binary_sensor":    true,
	"script":           true,
	"sensor":           true,
}

// managedDomain reports whether entities of the given domain have their
// exposure managed by this tool. Entities outside managed domains are
// never touched.
func managedDomain(domain string) bool {
	return defaultExposedDomains[domain] || additionalManagedDomains[domain]
}

// LoadExposureConfig reads an exposure config YAML, a flat mapping of
// entity id to boolean, and returns the set of entity ids marked true.
func LoadExposureConfig(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-specified config file
	if err != nil {
		return nil, fmt.Errorf("reading exposure config: %w", err)
	}

	var cfg map[string]bool
	if err := sigsyaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	exposed := make(map[string]bool, len(cfg))

	for id, expose := range cfg {
		if expose {
			exposed[id] = true
		}
	}

	return exposed, nil
}

// Stats summarizes an exposure update.
type Stats struct {
	Exposed   int
	Hidden    int
	Unchanged int
	Unmanaged int
}

// Change is one entity whose exposure flag was modified.
type Change struct {
	EntityID string
	Expose   bool
}

// UpdateExposure sets options.<assistant>.should_expose to true for every
// entity id in exposed and to false for every other entity in a managed
// domain. Returns stats and the changes sorted by entity id.
func (f *File) UpdateExposure(exposed map[string]bool, assistant string) (Stats, []Change) {
	if assistant == "" {
		assistant = DefaultAssistant
	}

	var (
		stats   Stats
		changes []Change
	)

	for _, entity := range f.Entities() {
		entityID, _ := entity["entity_id"].(string)

		domain, _, ok := strings.Cut(entityID, ".")
		if !ok || !managedDomain(domain) {
			stats.Unmanaged++
			continue
		}

		want := exposed[entityID]

		options, _ := entity["options"].(map[string]any)
		assistantOpts, _ := options[assistant].(map[string]any)

		if current, set := assistantOpts["should_expose"].(bool); set && current == want {
			stats.Unchanged++
			continue
		}

		if options == nil {
			options = make(map[string]any)
			entity["options"] = options
		}

		if assistantOpts == nil {
			assistantOpts = make(map[string]any)
			options[assistant] = assistantOpts
		}

		assistantOpts["should_expose"] = want

		if want {
			stats.Exposed++
		} else {
			stats.Hidden++
		}

		changes = append(changes, Change{EntityID: entityID, Expose: want})
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].EntityID < changes[j].EntityID
	})

	return stats, changes
}
