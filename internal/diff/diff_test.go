package diff

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_NoDifferences(t *testing.T) {
	res, err := Compute("a: 1\n", "a: 1\n", DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.HasDifferences)
	assert.Empty(t, res.Unified)
}

func TestCompute_Differences(t *testing.T) {
	res, err := Compute("a: 1\nb: 2\n", "a: 1\nb: 3\n", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.HasDifferences)
	assert.Contains(t, res.Unified, "-b: 2")
	assert.Contains(t, res.Unified, "+b: 3")
	assert.Contains(t, res.Unified, "--- current")
	assert.Contains(t, res.Unified, "+++ proposed")
}

func TestCompute_CustomLabels(t *testing.T) {
	opts := Options{OldLabel: "morning.yaml", NewLabel: "morning.yaml (new)", Context: 3}

	res, err := Compute("x\n", "y\n", opts)
	require.NoError(t, err)
	assert.Contains(t, res.Unified, "--- morning.yaml")
	assert.Contains(t, res.Unified, "+++ morning.yaml (new)")
}

func TestWrite_NoDifferences(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, &Result{}, false)
	assert.Equal(t, "No differences.\n", buf.String())
}

func TestWrite_PlainOutput(t *testing.T) {
	res, err := Compute("old\n", "new\n", DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	Write(&buf, res, false)
	assert.Contains(t, buf.String(), "-old")
	assert.Contains(t, buf.String(), "+new")
	assert.NotContains(t, buf.String(), "\033[", "plain output must not contain ANSI escapes")
}

func TestWrite_ColorOutput(t *testing.T) {
	res, err := Compute("old\n", "new\n", DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	Write(&buf, res, true)
	assert.Contains(t, buf.String(), "\033[31m")
	assert.Contains(t, buf.String(), "\033[32m")
}
