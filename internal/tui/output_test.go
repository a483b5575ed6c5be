package tui

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/batuta/internal/testutil"
)

func TestTTYOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("patched")
	assert.Contains(t, buf.String(), "✓ patched")

	buf.Reset()
	out.Error(testutil.ErrMockToolFailed)
	assert.Contains(t, buf.String(), "✗ ")

	buf.Reset()
	out.Warning("dump skipped")
	assert.Contains(t, buf.String(), "⚠ dump skipped")

	buf.Reset()
	out.Info("3 devices")
	assert.Contains(t, buf.String(), "3 devices")
}

func TestTTYOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	require.NoError(t, out.JSON(map[string]int{"splits": 3}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded["splits"])
}

func TestJSONOutput_SuppressesHumanMessages(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("patched")
	out.Warning("dump skipped")
	out.Info("3 devices")
	assert.Empty(t, buf.String())
}

func TestJSONOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Error(testutil.ErrMockToolFailed)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, testutil.ErrMockToolFailed.Error(), decoded["error"])
}

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer

	_, isJSON := NewOutput(&buf, "json").(*JSONOutput)
	assert.True(t, isJSON)

	_, isTTY := NewOutput(&buf, "text").(*TTYOutput)
	assert.True(t, isTTY)
}
