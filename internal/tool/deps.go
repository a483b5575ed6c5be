package tool

import (
	"fmt"
	"os/exec"

	"github.com/mrz1836/batuta/internal/constants"
	batutaerrors "github.com/mrz1836/batuta/internal/errors"
)

// installHints maps tool names to guidance shown when the tool is missing.
var installHints = map[string]string{ //nolint:gochecknoglobals // static lookup table
	constants.ToolADB:     "https://developer.android.com/tools/releases/platform-tools",
	constants.ToolApktool: "https://apktool.ibotpeaches.com/",
	constants.ToolJadx:    "https://github.com/skylot/jadx",
	constants.ToolAPKEditor: "https://github.com/REAndroid/APKEditor - set APKEDITOR_JAR, " +
		"configure ~/.batuta/config.yaml (apkeditor_path), or add a wrapper script to PATH",
	constants.ToolZipalign:  "part of Android SDK build-tools (set ANDROID_HOME)",
	constants.ToolApksigner: "part of Android SDK build-tools (set ANDROID_HOME)",
	constants.ToolKeytool:   "part of the Java JDK (install a JDK and ensure it is on PATH)",
	constants.ToolReflutter: "pip install reflutter",
}

// InstallHint returns installation guidance for a tool, or an empty string
// when none is known.
func InstallHint(name string) string {
	return installHints[name]
}

// Check reports whether a tool is resolvable on PATH.
func Check(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Require verifies that every named tool is resolvable on PATH.
// The returned error wraps ErrToolNotFound and names the first missing tool
// together with its install hint.
func Require(names ...string) error {
	for _, name := range names {
		if !Check(name) {
			return NotFoundError(name)
		}
	}
	return nil
}

// NotFoundError builds the canonical missing-tool error for name.
func NotFoundError(name string) error {
	if hint := InstallHint(name); hint != "" {
		return fmt.Errorf("%w: %s (install: %s)", batutaerrors.ErrToolNotFound, name, hint)
	}
	return fmt.Errorf("%w: %s", batutaerrors.ErrToolNotFound, name)
}
