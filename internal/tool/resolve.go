package tool

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mrz1836/batuta/internal/constants"
)

// Resolver is one strategy for locating an external tool. It returns the
// command prefix to invoke the tool and whether the strategy succeeded.
type Resolver func() (cmd []string, ok bool)

// ResolveFirst tries resolvers in priority order and returns the first match.
// No dynamic dispatch, just an ordered lookup chain.
func ResolveFirst(resolvers ...Resolver) ([]string, bool) {
	for _, resolve := range resolvers {
		if cmd, ok := resolve(); ok {
			return cmd, true
		}
	}
	return nil, false
}

// APKEditorCommand resolves the APKEditor invocation prefix using, in
// priority order: the APKEDITOR_JAR environment variable, the configured
// jar path, and finally a PATH-resolvable wrapper script. configuredPath
// comes from the loaded configuration and may be empty.
//
// Returns ok=false when no strategy succeeds; callers treat that as a
// configuration error distinct from a runtime tool failure.
func APKEditorCommand(configuredPath string) ([]string, bool) {
	return ResolveFirst(
		func() ([]string, bool) { return jarCommand(os.Getenv(constants.EnvAPKEditorJar)) },
		func() ([]string, bool) { return jarCommand(configuredPath) },
		func() ([]string, bool) {
			wrapper, err := exec.LookPath(constants.ToolAPKEditor)
			if err != nil {
				return nil, false
			}
			return []string{wrapper}, true
		},
	)
}

// jarCommand builds a "java -jar" prefix from a jar path. The path may name
// the jar itself or a directory containing APKEditor.jar.
func jarCommand(raw string) ([]string, bool) {
	if raw == "" {
		return nil, false
	}

	candidate := expandHome(raw)

	info, err := os.Stat(candidate)
	if err != nil {
		return nil, false
	}

	if info.IsDir() {
		candidate = filepath.Join(candidate, constants.APKEditorJarName)
		if fi, statErr := os.Stat(candidate); statErr != nil || fi.IsDir() {
			return nil, false
		}
	}

	return []string{"java", "-jar", candidate}, true
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
