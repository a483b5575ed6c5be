// Package sdk locates Android SDK build-tools binaries on the host.
//
// Batuta needs zipalign, apksigner, and aapt from the SDK's build-tools.
// The SDK root is found through ANDROID_HOME/ANDROID_SDK_ROOT and a short
// list of per-OS conventional install locations; within it, the newest
// build-tools release at or above a configured minimum wins.
package sdk

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
)

// Locator resolves SDK component paths. The zero value is not usable;
// construct with NewLocator.
type Locator struct {
	// MinBuildTools is the lowest acceptable build-tools version.
	MinBuildTools string

	// Home overrides SDK root discovery when non-empty (used by tests and
	// by the sdk.home config key).
	Home string
}

// NewLocator creates a Locator with the given minimum build-tools version.
// An empty minimum falls back to the package default.
func NewLocator(minBuildTools, home string) *Locator {
	if minBuildTools == "" {
		minBuildTools = constants.MinBuildToolsVersion
	}
	return &Locator{MinBuildTools: minBuildTools, Home: home}
}

// AndroidHome returns the SDK root directory, or ok=false when none is found.
func (l *Locator) AndroidHome() (string, bool) {
	if l.Home != "" {
		if isDir(l.Home) {
			return l.Home, true
		}
		return "", false
	}

	for _, env := range []string{constants.EnvAndroidHome, constants.EnvAndroidSDKRoot} {
		if value := os.Getenv(env); value != "" && isDir(value) {
			return value, true
		}
	}

	for _, location := range commonLocations() {
		if isDir(location) {
			return location, true
		}
	}
	return "", false
}

// BuildTools returns the newest build-tools directory whose version is at
// least MinBuildTools.
func (l *Locator) BuildTools() (string, error) {
	home, ok := l.AndroidHome()
	if !ok {
		return "", fmt.Errorf("set %s or install the Android SDK: %w",
			constants.EnvAndroidHome, errors.ErrSDKNotFound)
	}

	buildToolsDir := filepath.Join(home, "build-tools")
	dirEntries, err := os.ReadDir(buildToolsDir)
	if err != nil {
		return "", fmt.Errorf("no build-tools in %s: %w", home, errors.ErrSDKNotFound)
	}

	minVersion, err := parseVersion(l.MinBuildTools)
	if err != nil {
		return "", errors.Wrapf(err, "invalid minimum build-tools version %q", l.MinBuildTools)
	}

	var candidates []version
	for _, entry := range dirEntries {
		if !entry.IsDir() {
			continue
		}
		v, parseErr := parseVersion(entry.Name())
		if parseErr != nil {
			// Skip non-version directories.
			continue
		}
		if v.atLeast(minVersion) {
			candidates = append(candidates, v)
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no build-tools >= %s in %s: %w",
			l.MinBuildTools, buildToolsDir, errors.ErrSDKNotFound)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[j].less(candidates[i]) })
	return filepath.Join(buildToolsDir, candidates[0].raw), nil
}

// Zipalign returns the path to the zipalign binary.
func (l *Locator) Zipalign() (string, error) {
	return l.buildTool(constants.ToolZipalign, ".exe")
}

// Apksigner returns the path to the apksigner wrapper.
func (l *Locator) Apksigner() (string, error) {
	return l.buildTool(constants.ToolApksigner, ".bat")
}

// Aapt returns the path to aapt, or an empty string when the SDK is present
// but aapt is not; callers treat aapt as optional.
func (l *Locator) Aapt() string {
	path, err := l.buildTool("aapt", ".exe")
	if err != nil {
		return ""
	}
	return path
}

// buildTool resolves one binary inside the selected build-tools release.
func (l *Locator) buildTool(name, windowsExt string) (string, error) {
	buildTools, err := l.BuildTools()
	if err != nil {
		return "", err
	}

	binary := filepath.Join(buildTools, name)
	if runtime.GOOS == "windows" {
		binary += windowsExt
	}

	if fi, statErr := os.Stat(binary); statErr != nil || fi.IsDir() {
		return "", fmt.Errorf("%s expected at %s: %w", name, binary, errors.ErrSDKNotFound)
	}
	return binary, nil
}

// commonLocations returns conventional SDK install paths for this OS.
func commonLocations() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Android", "sdk"),
			"/opt/android-sdk",
		}
	case "windows":
		return []string{
			filepath.Join(home, "AppData", "Local", "Android", "Sdk"),
			`C:\Android\sdk`,
		}
	default:
		return []string{
			filepath.Join(home, "Android", "Sdk"),
			filepath.Join(home, "android-sdk"),
			"/opt/android-sdk",
		}
	}
}

// version is a parsed dotted version retaining its original spelling.
type version struct {
	raw   string
	parts []int
}

// parseVersion parses strictly numeric dotted versions like "35.0.0".
func parseVersion(s string) (version, error) {
	fields := strings.Split(s, ".")
	parts := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return version{}, fmt.Errorf("not a version component: %q", field)
		}
		parts = append(parts, n)
	}
	return version{raw: s, parts: parts}, nil
}

// less compares versions component-wise.
func (v version) less(other version) bool {
	for i := 0; i < len(v.parts) && i < len(other.parts); i++ {
		if v.parts[i] != other.parts[i] {
			return v.parts[i] < other.parts[i]
		}
	}
	return len(v.parts) < len(other.parts)
}

// atLeast reports v >= other.
func (v version) atLeast(other version) bool {
	return !v.less(other)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
