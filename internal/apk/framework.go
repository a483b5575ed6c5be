package apk

import (
	"archive/zip"
	"sort"
	"strings"

	"github.com/mrz1836/batuta/internal/errors"
)

// Framework names reported by detection.
const (
	FrameworkFlutter     = "Flutter"
	FrameworkReactNative = "React Native"
	FrameworkXamarin     = "Xamarin"
	FrameworkCordova     = "Cordova"
	FrameworkUnity       = "Unity"
)

// frameworkSignatures maps a framework to the file entries that evidence it.
// A trailing slash marks a directory prefix rather than an exact entry.
var frameworkSignatures = map[string][]string{ //nolint:gochecknoglobals // static lookup table
	FrameworkFlutter: {
		"lib/arm64-v8a/libflutter.so",
		"lib/armeabi-v7a/libflutter.so",
		"lib/x86_64/libflutter.so",
		"assets/flutter_assets/",
	},
	FrameworkReactNative: {
		"lib/arm64-v8a/libreactnativejni.so",
		"lib/armeabi-v7a/libreactnativejni.so",
		"lib/x86/libreactnativejni.so",
		"lib/x86_64/libreactnativejni.so",
		"assets/index.android.bundle",
	},
	FrameworkXamarin: {
		"assemblies/Xamarin.Android.dll",
		"assemblies/Mono.Android.dll",
		"lib/arm64-v8a/libmonosgen-2.0.so",
		"lib/armeabi-v7a/libmonosgen-2.0.so",
	},
	FrameworkCordova: {
		"assets/www/cordova.js",
		"assets/www/cordova_plugins.js",
	},
	FrameworkUnity: {
		"lib/arm64-v8a/libunity.so",
		"lib/armeabi-v7a/libunity.so",
		"assets/bin/Data/",
	},
}

// FrameworkMatch records one detected framework and its evidence.
type FrameworkMatch struct {
	// Name is the framework name (e.g. "Flutter").
	Name string `json:"name"`
	// MatchedFiles lists the signature entries found in the APK.
	MatchedFiles []string `json:"matched_files"`
}

// DetectionResult is the outcome of a framework scan.
type DetectionResult struct {
	// Frameworks lists detected frameworks sorted by name.
	Frameworks []FrameworkMatch `json:"frameworks"`
	// NativeLibs lists .so entries, populated only when requested.
	NativeLibs []string `json:"native_libs,omitempty"`
}

// Names returns the detected framework names in order.
func (r DetectionResult) Names() []string {
	names := make([]string, 0, len(r.Frameworks))
	for _, fw := range r.Frameworks {
		names = append(names, fw.Name)
	}
	return names
}

// Has reports whether the named framework was detected.
func (r DetectionResult) Has(name string) bool {
	for _, fw := range r.Frameworks {
		if fw.Name == name {
			return true
		}
	}
	return false
}

// DetectFrameworks scans the APK's zip directory for framework evidence.
// This is signature matching over the entry list, not a hard parse of any
// APK internals.
func DetectFrameworks(apkPath string, includeNativeLibs bool) (DetectionResult, error) {
	if err := ValidatePath(apkPath, false); err != nil {
		return DetectionResult{}, err
	}

	reader, err := zip.OpenReader(apkPath)
	if err != nil {
		return DetectionResult{}, errors.Wrapf(err, "failed to open apk as zip: %s", apkPath)
	}
	defer func() { _ = reader.Close() }()

	namelist := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		namelist = append(namelist, f.Name)
	}

	result := DetectionResult{Frameworks: matchFrameworks(namelist)}
	if includeNativeLibs {
		result.NativeLibs = collectNativeLibs(namelist)
	}
	return result, nil
}

// matchFrameworks applies every signature set against the entry list.
func matchFrameworks(namelist []string) []FrameworkMatch {
	entries := make(map[string]struct{}, len(namelist))
	for _, name := range namelist {
		entries[name] = struct{}{}
	}

	var detected []FrameworkMatch
	for framework, signatures := range frameworkSignatures {
		var matched []string
		for _, sig := range signatures {
			if strings.HasSuffix(sig, "/") {
				for _, entry := range namelist {
					if strings.HasPrefix(entry, sig) {
						matched = append(matched, sig)
						break
					}
				}
			} else if _, ok := entries[sig]; ok {
				matched = append(matched, sig)
			}
		}
		if len(matched) > 0 {
			sort.Strings(matched)
			detected = append(detected, FrameworkMatch{Name: framework, MatchedFiles: matched})
		}
	}

	sort.Slice(detected, func(i, j int) bool { return detected[i].Name < detected[j].Name })
	return detected
}

// collectNativeLibs returns the sorted .so entries.
func collectNativeLibs(namelist []string) []string {
	var libs []string
	for _, entry := range namelist {
		if strings.HasSuffix(entry, ".so") {
			libs = append(libs, entry)
		}
	}
	sort.Strings(libs)
	return libs
}
