package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const combinedAutomations = `- id: '100'
  alias: Bathroom Presence
  mode: single
- id: '200'
  alias: Night Mode
  mode: single
`

func TestUpdateCommand(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "automations.yaml", combinedAutomations)
	entry := writeFile(t, dir, "night_mode.yaml", "id: '200'\nalias: Night Mode v2\nmode: restart\n")

	_, _, err := executeCommand("-q", "update", "--source", source, entry)
	require.NoError(t, err)

	data, err := os.ReadFile(source) //nolint:gosec // test
	require.NoError(t, err)
	assert.Contains(t, string(data), "Night Mode v2")
	assert.Contains(t, string(data), "Bathroom Presence", "untouched entries must survive")
	assert.NotContains(t, string(data), "mode: single\n- id: '200'\n  alias: Night Mode\n")
}

func TestUpdateCommand_OutputFlag(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "automations.yaml", combinedAutomations)
	entry := writeFile(t, dir, "entry.yaml", "id: '100'\nalias: Renamed\n")
	dest := filepath.Join(dir, "updated.yaml")

	_, _, err := executeCommand("-q", "update", "--source", source, "-o", dest, entry)
	require.NoError(t, err)

	// Source untouched, destination updated.
	orig, _ := os.ReadFile(source) //nolint:gosec // test
	assert.Contains(t, string(orig), "Bathroom Presence")

	updated, err := os.ReadFile(dest) //nolint:gosec // test
	require.NoError(t, err)
	assert.Contains(t, string(updated), "Renamed")
}

func TestUpdateCommand_NoMatches(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "automations.yaml", combinedAutomations)
	entry := writeFile(t, dir, "ghost.yaml", "id: '999'\nalias: Ghost\n")

	_, _, err := executeCommand("-q", "update", "--source", source, entry)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitRuntime, exitErr.Code)
}

func TestUpdateCommand_PartialBatch(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "automations.yaml", combinedAutomations)
	good := writeFile(t, dir, "good.yaml", "id: '100'\nalias: Updated\n")
	bad := writeFile(t, dir, "bad.yaml", "alias: No ID Here\n")

	// The unmatched entry is skipped, the good one still applies.
	_, _, err := executeCommand("-q", "update", "--source", source, bad, good)
	require.NoError(t, err)

	data, _ := os.ReadFile(source) //nolint:gosec // test
	assert.Contains(t, string(data), "Updated")
}

func TestUpdateCommand_EntryParseError(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "automations.yaml", combinedAutomations)
	entry := writeFile(t, dir, "seq.yaml", "- not\n- a mapping\n")

	_, _, err := executeCommand("-q", "update", "--source", source, entry)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitParse, exitErr.Code)
}

func TestDeleteCommand(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "scenes.yaml", `- id: '1'
  name: Daytime Potty
- id: '2'
  name: TV Time
`)

	_, _, err := executeCommand("-q", "delete", "--source", source, "--kind", "scene", "Daytime Potty")
	require.NoError(t, err)

	data, err := os.ReadFile(source) //nolint:gosec // test
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Daytime Potty")
	assert.Contains(t, string(data), "TV Time")
}

func TestDeleteCommand_NoMatches(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "scenes.yaml", "- id: '1'\n  name: Keep Me\n")

	_, _, err := executeCommand("-q", "delete", "--source", source, "--kind", "scene", "Ghost Scene")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitRuntime, exitErr.Code)

	// File untouched.
	data, _ := os.ReadFile(source) //nolint:gosec // test
	assert.Contains(t, string(data), "Keep Me")
}

func TestDeleteCommand_AutomationKind(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "automations.yaml", combinedAutomations)

	_, _, err := executeCommand("-q", "delete", "--source", source, "--kind", "automation", "Night Mode")
	require.NoError(t, err)

	data, _ := os.ReadFile(source) //nolint:gosec // test
	assert.NotContains(t, string(data), "Night Mode")
}
