package adb

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/tool"
)

// Client runs adb commands against one (optionally pinned) device.
type Client struct {
	runner tool.Runner

	// DeviceID pins commands to a device serial. Empty targets the sole
	// connected device.
	DeviceID string
}

// NewClient creates an adb client using the given runner.
func NewClient(runner tool.Runner, deviceID string) *Client {
	return &Client{runner: runner, DeviceID: deviceID}
}

// command builds the adb command vector including the device selector.
func (c *Client) command(args ...string) []string {
	cmd := []string{constants.ToolADB}
	if c.DeviceID != "" {
		cmd = append(cmd, "-s", c.DeviceID)
	}
	return append(cmd, args...)
}

// run executes an adb command with CheckExit enabled.
func (c *Client) run(ctx context.Context, args ...string) (tool.Result, error) {
	return c.runner.Run(ctx, tool.Command(c.command(args...)...))
}

// ListDevices lists all connected devices, regardless of the pinned device.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	result, err := c.runner.Run(ctx, tool.Command(constants.ToolADB, "devices", "-l"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}
	return parseDevices(result.Lines()), nil
}

// EnsureDevice verifies a usable target device exists and returns it.
// With a pinned DeviceID the device must be present and available; without
// one, exactly one available device must be connected.
func (c *Client) EnsureDevice(ctx context.Context) (Device, error) {
	devices, err := c.ListDevices(ctx)
	if err != nil {
		return Device{}, err
	}

	if c.DeviceID != "" {
		for _, d := range devices {
			if d.ID != c.DeviceID {
				continue
			}
			if !d.Available() {
				return Device{}, fmt.Errorf("device %s is %s: %w", d.ID, d.State, errors.ErrDeviceNotFound)
			}
			return d, nil
		}
		return Device{}, fmt.Errorf("device %s: %w", c.DeviceID, errors.ErrDeviceNotFound)
	}

	var available []Device
	for _, d := range devices {
		if d.Available() {
			available = append(available, d)
		}
	}

	switch len(available) {
	case 0:
		if len(devices) > 0 {
			states := make([]string, 0, len(devices))
			for _, d := range devices {
				states = append(states, fmt.Sprintf("%s: %s", d.ID, d.State))
			}
			return Device{}, fmt.Errorf("no available devices, found %s: %w",
				strings.Join(states, ", "), errors.ErrDeviceNotFound)
		}
		return Device{}, fmt.Errorf("no devices connected: %w", errors.ErrDeviceNotFound)
	case 1:
		return available[0], nil
	default:
		ids := make([]string, 0, len(available))
		for _, d := range available {
			ids = append(ids, d.ID)
		}
		return Device{}, fmt.Errorf("multiple devices connected (%s), use --device: %w",
			strings.Join(ids, ", "), errors.ErrDeviceNotFound)
	}
}

// Install installs an APK on the device. Failure wraps ErrInstall.
func (c *Client) Install(ctx context.Context, apkPath string) error {
	if _, err := c.run(ctx, "install", apkPath); err != nil {
		return fmt.Errorf("installing %s: %v: %w", apkPath, err, errors.ErrInstall)
	}
	return nil
}

// Uninstall removes a package, best effort: the package may legitimately not
// be installed, so a non-zero exit is ignored.
func (c *Client) Uninstall(ctx context.Context, packageName string) {
	inv := tool.Invocation{Args: c.command("uninstall", packageName)}
	_, _ = c.runner.Run(ctx, inv)
}

// StartApp launches a package's main launcher activity via monkey.
func (c *Client) StartApp(ctx context.Context, packageName string) error {
	_, err := c.run(ctx, "shell", "monkey",
		"-p", packageName,
		"-c", "android.intent.category.LAUNCHER", "1")
	return errors.Wrapf(err, "failed to launch %s", packageName)
}

// CheckRoot verifies the device shell can elevate via su.
func (c *Client) CheckRoot(ctx context.Context) error {
	if _, err := c.run(ctx, "shell", "su", "-c", "id"); err != nil {
		return fmt.Errorf("su check failed (is the device rooted?): %v: %w",
			err, errors.ErrRootRequired)
	}
	return nil
}

// ReadFileAsRoot cats a device file through su and returns its content.
func (c *Client) ReadFileAsRoot(ctx context.Context, path string) (string, error) {
	result, err := c.run(ctx, "shell", "su", "-c", "cat "+path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return result.Stdout, nil
}
