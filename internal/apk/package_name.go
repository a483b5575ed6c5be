package apk

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/tool"
)

// badgingPackageRe extracts the package name from aapt "dump badging" output,
// e.g. package: name='com.example.app' versionCode='1' ...
var badgingPackageRe = regexp.MustCompile(`package: name='([^']+)'`)

// versionSuffixRe strips trailing version fragments from a filename stem,
// e.g. myapp-4.7.1-release -> myapp.
var versionSuffixRe = regexp.MustCompile(`-\d+\.\d+.*$`)

// PackageName extracts the application's package identifier from an APK.
//
// It prefers aapt badging output when aaptPath is non-empty and aapt
// succeeds, falling back to a filename heuristic. Returns ErrValidation when
// no method yields a plausible package name.
func PackageName(ctx context.Context, runner tool.Runner, aaptPath, apkPath string) (string, error) {
	if aaptPath != "" {
		inv := tool.Invocation{Args: []string{aaptPath, "dump", "badging", apkPath}}
		if result, err := runner.Run(ctx, inv); err == nil && result.Success() {
			if m := badgingPackageRe.FindStringSubmatch(result.Stdout); m != nil {
				return m[1], nil
			}
		}
	}

	if name, ok := packageNameFromFilename(apkPath); ok {
		return name, nil
	}

	return "", fmt.Errorf("could not determine package name for %s: %w", apkPath, errors.ErrValidation)
}

// packageNameFromFilename guesses a package name from the APK file name.
// Pulled APKs are commonly named <package>[-<version>].apk, so the stem with
// version and tooling suffixes removed is usually the package itself.
func packageNameFromFilename(apkPath string) (string, bool) {
	stem := strings.TrimSuffix(filepath.Base(apkPath), filepath.Ext(apkPath))
	stem = versionSuffixRe.ReplaceAllString(stem, "")

	for _, suffix := range []string{"_merged", "-merged", "-signed", "-aligned", "-debugSigned"} {
		stem = strings.ReplaceAll(stem, suffix, "")
	}

	if strings.Contains(stem, "_") && !strings.Contains(stem, ".") {
		stem = strings.ReplaceAll(stem, "_", ".")
	}

	// A package identifier has at least one dot.
	if !strings.Contains(stem, ".") {
		return "", false
	}
	return stem, true
}
