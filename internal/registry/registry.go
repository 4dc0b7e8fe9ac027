// Package registry manipulates Home Assistant .storage files: the entity
// registry at core.entity_registry and the config entries at
// core.config_entries. Both carry far more fields than this tool manages,
// so files are kept as generic JSON trees and only the managed options
// are touched.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// loadStorage reads a .storage JSON file into a generic tree.
func loadStorage(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-specified storage file
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return raw, nil
}

// saveStorage writes a .storage tree back as 2-space-indented JSON,
// matching how Home Assistant itself writes these files.
func saveStorage(path string, raw map[string]any) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// File is a loaded entity registry.
type File struct {
	raw map[string]any
}

// Load reads and parses an entity registry file.
func Load(path string) (*File, error) {
	raw, err := loadStorage(path)
	if err != nil {
		return nil, err
	}

	return &File{raw: raw}, nil
}

// Entities returns the registry's entity list. Each entity is the raw
// JSON object; mutations are visible to Save.
func (f *File) Entities() []map[string]any {
	data, _ := f.raw["data"].(map[string]any)
	list, _ := data["entities"].([]any)

	entities := make([]map[string]any, 0, len(list))

	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			entities = append(entities, m)
		}
	}

	return entities
}

// Save writes the registry back to disk.
func (f *File) Save(path string) error {
	return saveStorage(path, f.raw)
}
