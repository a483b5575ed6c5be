// Package errors provides centralized error handling for batuta.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrValidation indicates a precondition failed before any external
	// process ran. Recoverable by correcting the caller's input.
	ErrValidation = errors.New("validation failed")

	// ErrToolExecution indicates an external process ran but exited
	// non-zero, timed out, or could not be launched.
	ErrToolExecution = errors.New("tool execution failed")

	// ErrToolNotFound indicates a required external tool could not be
	// located on PATH or via its resolution chain.
	ErrToolNotFound = errors.New("required tool not found")

	// ErrArtifactMissing indicates an external tool reported success but
	// its declared output artifact does not exist on disk. It matches
	// ErrToolExecution under errors.Is, with a distinct reason.
	ErrArtifactMissing = fmt.Errorf("artifact not found after successful run: %w", ErrToolExecution)

	// ErrBuild indicates the apktool build stage failed.
	ErrBuild = errors.New("apk build failed")

	// ErrAlign indicates the zipalign stage failed. Alignment never falls
	// back silently to the unaligned artifact once requested.
	ErrAlign = errors.New("apk alignment failed")

	// ErrSign indicates signing, verification setup, or debug keystore
	// provisioning failed.
	ErrSign = errors.New("apk signing failed")

	// ErrDecompile indicates every requested decompilation target failed.
	ErrDecompile = errors.New("decompilation failed")

	// ErrMerge indicates the split-APK merge pipeline failed, either at
	// its directory gate or in the external merge tool.
	ErrMerge = errors.New("split apk merge failed")

	// ErrFrameworkMismatch indicates the input APK does not exhibit the
	// signature files of the framework the workflow targets.
	ErrFrameworkMismatch = errors.New("framework mismatch")

	// ErrInstall indicates installing the signed artifact on the device
	// failed. Fatal for the instrumentation workflow.
	ErrInstall = errors.New("apk install failed")

	// ErrDump indicates the runtime dump could not be read or was empty.
	// Non-fatal for the instrumentation workflow.
	ErrDump = errors.New("dart dump failed")

	// ErrDeviceNotFound indicates no usable device is connected or the
	// requested device is missing or unauthorized.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrPackageNotFound indicates the package is not installed on the
	// target device.
	ErrPackageNotFound = errors.New("package not found")

	// ErrMultiplePackages indicates a package query matched more than one
	// installed package and the caller must disambiguate.
	ErrMultiplePackages = errors.New("multiple packages match")

	// ErrPull indicates pulling an APK from the device failed.
	ErrPull = errors.New("apk pull failed")

	// ErrSDKNotFound indicates the Android SDK or a required build-tools
	// component could not be located.
	ErrSDKNotFound = errors.New("android sdk not found")

	// ErrRootRequired indicates the device shell lacks root access needed
	// to read the dump file.
	ErrRootRequired = errors.New("root access required")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrConfigNotFound indicates the configuration file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrOperationCanceled indicates the user canceled an operation.
	ErrOperationCanceled = errors.New("operation canceled by user")
)
