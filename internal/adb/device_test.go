package adb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDevices(t *testing.T) {
	lines := []string{
		"List of devices attached",
		"emulator-5554          device product:sdk_gphone64_arm64 model:sdk_gphone64_arm64 device:emu64a transport_id:1",
		"R58M123ABC             unauthorized transport_id:2",
		"192.168.1.20:5555      offline",
		"weird-line",
		"",
	}

	devices := parseDevices(lines)
	require.Len(t, devices, 3)

	assert.Equal(t, "emulator-5554", devices[0].ID)
	assert.Equal(t, StateDevice, devices[0].State)
	assert.Equal(t, "sdk_gphone64_arm64", devices[0].Model)
	assert.Equal(t, "sdk_gphone64_arm64", devices[0].Product)
	assert.Equal(t, "1", devices[0].TransportID)
	assert.True(t, devices[0].Available())

	assert.Equal(t, StateUnauthorized, devices[1].State)
	assert.False(t, devices[1].Available())

	assert.Equal(t, StateOffline, devices[2].State)
}

func TestParseState_Unknown(t *testing.T) {
	assert.Equal(t, StateUnknown, parseState("sideload"))
}
