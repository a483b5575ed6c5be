// Package adb wraps the Android Debug Bridge for device and package
// management: discovery, install/uninstall, app launch, pulls, and root
// shell reads. It is the pipeline's only path to a device; everything goes
// through the injected tool.Runner so tests never touch real hardware.
package adb

import "strings"

// DeviceState is the connection state adb reports for a device.
type DeviceState string

// Device states as printed by `adb devices`.
const (
	StateDevice       DeviceState = "device"
	StateOffline      DeviceState = "offline"
	StateUnauthorized DeviceState = "unauthorized"
	StateUnknown      DeviceState = "unknown"
)

// Device is one entry from `adb devices -l`.
type Device struct {
	// ID is the serial or transport address.
	ID string `json:"id"`
	// State is the connection state.
	State DeviceState `json:"state"`
	// Model is the model: field when present.
	Model string `json:"model,omitempty"`
	// Product is the product: field when present.
	Product string `json:"product,omitempty"`
	// TransportID is the transport_id: field when present.
	TransportID string `json:"transport_id,omitempty"`
}

// Available reports whether the device can accept commands.
func (d Device) Available() bool {
	return d.State == StateDevice
}

// parseDevices parses `adb devices -l` output lines, header excluded.
func parseDevices(lines []string) []Device {
	var devices []Device
	for _, line := range lines {
		if strings.HasPrefix(line, "List of devices") || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		device := Device{ID: fields[0], State: parseState(fields[1])}
		for _, field := range fields[2:] {
			switch {
			case strings.HasPrefix(field, "model:"):
				device.Model = strings.TrimPrefix(field, "model:")
			case strings.HasPrefix(field, "product:"):
				device.Product = strings.TrimPrefix(field, "product:")
			case strings.HasPrefix(field, "transport_id:"):
				device.TransportID = strings.TrimPrefix(field, "transport_id:")
			}
		}
		devices = append(devices, device)
	}
	return devices
}

// parseState maps the raw state column onto DeviceState.
func parseState(raw string) DeviceState {
	switch DeviceState(raw) {
	case StateDevice, StateOffline, StateUnauthorized:
		return DeviceState(raw)
	default:
		return StateUnknown
	}
}
