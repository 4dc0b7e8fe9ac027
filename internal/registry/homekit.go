package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	sigsyaml "sigs.k8s.io/yaml"
)

// homekitBridgeTitle identifies the bridge entry when the mode option is
// absent; accessory-mode entries carry per-device titles.
const homekitBridgeTitle = "HASS Bridge"

// HomeKitFilter is the desired entity filter for the HomeKit Bridge:
// which domains and entities the bridge includes and which it excludes.
type HomeKitFilter struct {
	IncludeDomains  []string `json:"include_domains"`
	IncludeEntities []string `json:"include_entities"`
	ExcludeDomains  []string `json:"exclude_domains"`
	ExcludeEntities []string `json:"exclude_entities"`
}

// LoadHomeKitFilter reads a filter config YAML. Absent sections load as
// empty lists, so a sparse config still replaces every filter section.
func LoadHomeKitFilter(path string) (HomeKitFilter, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-specified config file
	if err != nil {
		return HomeKitFilter{}, fmt.Errorf("reading HomeKit filter config: %w", err)
	}

	var filter HomeKitFilter
	if err := sigsyaml.Unmarshal(data, &filter); err != nil {
		return HomeKitFilter{}, &ParseError{Path: path, Err: err}
	}

	if filter.IncludeDomains == nil {
		filter.IncludeDomains = []string{}
	}

	if filter.IncludeEntities == nil {
		filter.IncludeEntities = []string{}
	}

	if filter.ExcludeDomains == nil {
		filter.ExcludeDomains = []string{}
	}

	if filter.ExcludeEntities == nil {
		filter.ExcludeEntities = []string{}
	}

	return filter, nil
}

// FilterChange is the pending edits to one section of the bridge filter.
type FilterChange struct {
	Section string
	Added   []string
	Removed []string
}

// ConfigEntries is a loaded core.config_entries file.
type ConfigEntries struct {
	raw map[string]any
}

// LoadConfigEntries reads and parses a config entries file.
func LoadConfigEntries(path string) (*ConfigEntries, error) {
	raw, err := loadStorage(path)
	if err != nil {
		return nil, err
	}

	return &ConfigEntries{raw: raw}, nil
}

// Entries returns the config entry list. Each entry is the raw JSON
// object; mutations are visible to Save.
func (f *ConfigEntries) Entries() []map[string]any {
	data, _ := f.raw["data"].(map[string]any)
	list, _ := data["entries"].([]any)

	entries := make([]map[string]any, 0, len(list))

	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			entries = append(entries, m)
		}
	}

	return entries
}

// Save writes the config entries back to disk.
func (f *ConfigEntries) Save(path string) error {
	return saveStorage(path, f.raw)
}

// bridgeEntry finds the HomeKit Bridge entry: domain homekit in bridge
// mode, falling back to the conventional bridge title. Accessory-mode
// entries are skipped.
func (f *ConfigEntries) bridgeEntry() (map[string]any, error) {
	var candidates []string

	for _, entry := range f.Entries() {
		if entry["domain"] != "homekit" {
			continue
		}

		title, _ := entry["title"].(string)
		options, _ := entry["options"].(map[string]any)
		mode, _ := options["mode"].(string)

		if mode == "bridge" || strings.Contains(title, homekitBridgeTitle) {
			return entry, nil
		}

		if mode == "" {
			mode = "unknown"
		}

		candidates = append(candidates, fmt.Sprintf("%s (mode: %s)", title, mode))
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no HomeKit Bridge config entry found")
	}

	return nil, fmt.Errorf("no HomeKit Bridge config entry found (homekit entries: %s)",
		strings.Join(candidates, ", "))
}

// UpdateHomeKitFilter replaces the bridge entry's options.filter with the
// desired filter. Returns the bridge title and the per-section changes;
// a section with no additions or removals is omitted. The filter is only
// rewritten when at least one section changed.
func (f *ConfigEntries) UpdateHomeKitFilter(filter HomeKitFilter) (string, []FilterChange, error) {
	entry, err := f.bridgeEntry()
	if err != nil {
		return "", nil, err
	}

	title, _ := entry["title"].(string)
	options, _ := entry["options"].(map[string]any)
	current, _ := options["filter"].(map[string]any)

	var changes []FilterChange

	sections := []struct {
		name    string
		desired []string
	}{
		{"include_domains", filter.IncludeDomains},
		{"include_entities", filter.IncludeEntities},
		{"exclude_domains", filter.ExcludeDomains},
		{"exclude_entities", filter.ExcludeEntities},
	}

	for _, s := range sections {
		if c := diffSection(s.name, current[s.name], s.desired); len(c.Added) > 0 || len(c.Removed) > 0 {
			changes = append(changes, c)
		}
	}

	if len(changes) == 0 {
		return title, nil, nil
	}

	if options == nil {
		options = make(map[string]any)
		entry["options"] = options
	}

	options["filter"] = map[string]any{
		"include_domains":  filter.IncludeDomains,
		"include_entities": filter.IncludeEntities,
		"exclude_domains":  filter.ExcludeDomains,
		"exclude_entities": filter.ExcludeEntities,
	}

	return title, changes, nil
}

// diffSection computes the set difference between a current filter
// section from the JSON tree and the desired list, both sides sorted.
func diffSection(name string, current any, desired []string) FilterChange {
	have := make(map[string]bool)

	if list, ok := current.([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				have[s] = true
			}
		}
	}

	want := make(map[string]bool, len(desired))
	for _, s := range desired {
		want[s] = true
	}

	change := FilterChange{Section: name}

	for s := range want {
		if !have[s] {
			change.Added = append(change.Added, s)
		}
	}

	for s := range have {
		if !want[s] {
			change.Removed = append(change.Removed, s)
		}
	}

	sort.Strings(change.Added)
	sort.Strings(change.Removed)

	return change
}
