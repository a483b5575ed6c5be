// Package constants provides centralized constant values used throughout batuta.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// External tool names as invoked on PATH.
const (
	// ToolADB is the Android Debug Bridge binary.
	ToolADB = "adb"

	// ToolApktool is the apktool wrapper used for decode and build.
	ToolApktool = "apktool"

	// ToolJadx is the jadx decompiler producing Java sources.
	ToolJadx = "jadx"

	// ToolAPKEditor is the logical name of the split-APK editor; it is
	// resolved via env/config/PATH rather than a direct PATH lookup.
	ToolAPKEditor = "APKEditor"

	// ToolKeytool is the JDK keytool used to generate the debug keystore.
	ToolKeytool = "keytool"

	// ToolZipalign is the SDK build-tools page alignment binary.
	ToolZipalign = "zipalign"

	// ToolApksigner is the SDK build-tools signing wrapper.
	ToolApksigner = "apksigner"

	// ToolReflutter is the Flutter instrumentation patcher.
	ToolReflutter = "reflutter"
)

// Well-known file names produced or consumed by the wrapped tools.
const (
	// ApktoolMarkerFile identifies a directory as an apktool project.
	ApktoolMarkerFile = "apktool.yml"

	// ReflutterOutputFile is the fixed name reflutter writes into its
	// working directory.
	ReflutterOutputFile = "release.RE.apk"

	// DartDumpFile is the per-package file the instrumented app writes
	// under /data/data/<package>/.
	DartDumpFile = "dump.dart"

	// DebugKeystoreFile is the name of the auto-generated debug keystore.
	DebugKeystoreFile = "debug.keystore"

	// APKExtension is the required extension for application packages.
	APKExtension = ".apk"
)

// Debug signing identity defaults. These mirror the conventional Android
// debug keystore so artifacts install alongside IDE-signed builds.
const (
	DebugKeyAlias     = "androiddebugkey"
	DebugStorePass    = "android"
	DebugKeyPass      = "android"
	DebugKeyValidity  = "10000"
	DebugKeyAlgorithm = "RSA"
	DebugKeySize      = "2048"
	DebugKeyDName     = "CN=Debug, OU=Debug, O=Debug, L=Debug, ST=Debug, C=US"
)

// Default timing values.
const (
	// DefaultToolTimeout bounds a single external tool invocation when the
	// caller does not supply its own. Decompiling large APKs is slow.
	DefaultToolTimeout = 15 * time.Minute

	// DefaultLaunchGracePeriod is how long the instrumentation workflow
	// sleeps after an automated app launch before attempting the dump.
	DefaultLaunchGracePeriod = 8 * time.Second
)

// MinBuildToolsVersion is the oldest SDK build-tools release that ships a
// zipalign with the -P page alignment flag.
const MinBuildToolsVersion = "30.0.0"
