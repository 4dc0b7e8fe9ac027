package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigEntries = `{
  "version": 1,
  "minor_version": 5,
  "key": "core.config_entries",
  "data": {
    "entries": [
      {"entry_id": "aaa", "domain": "hue", "title": "Philips Hue", "options": {}},
      {"entry_id": "bbb", "domain": "homekit", "title": "HASS Bridge",
       "options": {"mode": "bridge", "port": 21063,
                   "filter": {"include_domains": ["light"],
                              "include_entities": [],
                              "exclude_domains": [],
                              "exclude_entities": []}}}
    ]
  }
}`

func TestHomeKitCommand(t *testing.T) {
	dir := t.TempDir()
	entries := writeFile(t, dir, "core.config_entries", testConfigEntries)
	filter := writeFile(t, dir, "homekit_exposed.yaml", `
include_domains:
  - light
  - climate
exclude_entities:
  - light.closet
`)

	_, stderr, err := executeCommand("-q", "homekit", "--config-entries", entries, "--filter", filter)
	require.NoError(t, err)

	assert.Contains(t, stderr, `HomeKit Bridge "HASS Bridge"`)
	assert.Contains(t, stderr, "+ climate")
	assert.Contains(t, stderr, "+ light.closet")

	data, err := os.ReadFile(entries) //nolint:gosec // test
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	list := raw["data"].(map[string]any)["entries"].([]any)
	bridge := list[1].(map[string]any)
	options := bridge["options"].(map[string]any)
	assert.EqualValues(t, 21063, options["port"], "unmanaged option must survive")

	written := options["filter"].(map[string]any)
	assert.ElementsMatch(t, []any{"light", "climate"}, written["include_domains"])
	assert.Equal(t, []any{"light.closet"}, written["exclude_entities"])
}

func TestHomeKitCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	entries := writeFile(t, dir, "core.config_entries", testConfigEntries)
	filter := writeFile(t, dir, "homekit_exposed.yaml", "include_domains:\n  - climate\n")

	before, err := os.ReadFile(entries) //nolint:gosec // test
	require.NoError(t, err)

	_, stderr, err := executeCommand("-q", "homekit", "--config-entries", entries, "--filter", filter, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dry run")

	after, err := os.ReadFile(entries) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "dry run must not modify the config entries")
}

func TestHomeKitCommand_NoChanges(t *testing.T) {
	dir := t.TempDir()
	entries := writeFile(t, dir, "core.config_entries", testConfigEntries)
	filter := writeFile(t, dir, "homekit_exposed.yaml", "include_domains:\n  - light\n")

	before, err := os.ReadFile(entries) //nolint:gosec // test
	require.NoError(t, err)

	_, stderr, err := executeCommand("-q", "homekit", "--config-entries", entries, "--filter", filter)
	require.NoError(t, err)
	assert.Contains(t, stderr, "No changes needed")

	after, err := os.ReadFile(entries) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "a no-op run must not rewrite the file")
}

func TestHomeKitCommand_NoBridge(t *testing.T) {
	dir := t.TempDir()
	entries := writeFile(t, dir, "core.config_entries", `{"data": {"entries": []}}`)
	filter := writeFile(t, dir, "homekit_exposed.yaml", "include_domains:\n  - light\n")

	_, _, err := executeCommand("-q", "homekit", "--config-entries", entries, "--filter", filter)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitRuntime, exitErr.Code)
}

func TestHomeKitCommand_BadConfigEntries(t *testing.T) {
	dir := t.TempDir()
	entries := writeFile(t, dir, "core.config_entries", "{broken")
	filter := writeFile(t, dir, "homekit_exposed.yaml", "include_domains:\n  - light\n")

	_, _, err := executeCommand("-q", "homekit", "--config-entries", entries, "--filter", filter)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitParse, exitErr.Code)
}

func TestHomeKitCommand_MissingConfigEntries(t *testing.T) {
	dir := t.TempDir()
	filter := writeFile(t, dir, "homekit_exposed.yaml", "include_domains:\n  - light\n")

	_, _, err := executeCommand("-q", "homekit", "--config-entries", filepath.Join(dir, "nope"), "--filter", filter)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitRuntime, exitErr.Code)
}
