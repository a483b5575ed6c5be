// Package config provides configuration management for batuta.
//
// Configuration is loaded from ~/.batuta/config.yaml with BATUTA_-prefixed
// environment variable overrides. Every default location the pipelines use
// (keystore directory, SDK home, APKEditor jar) is a configuration value so
// callers and tests can isolate themselves completely.
package config

import "time"

// Config is the root configuration for batuta.
type Config struct {
	// APKEditorPath points at the APKEditor jar (file or directory).
	// Second-priority resolution strategy after the APKEDITOR_JAR env var.
	APKEditorPath string `mapstructure:"apkeditor_path" yaml:"apkeditor_path"`

	// KeystoreDir is where the debug keystore is provisioned.
	// Empty means ~/.batuta.
	KeystoreDir string `mapstructure:"keystore_dir" yaml:"keystore_dir"`

	// SDK configures Android SDK discovery.
	SDK SDKConfig `mapstructure:"sdk" yaml:"sdk"`

	// Tools configures external tool execution.
	Tools ToolsConfig `mapstructure:"tools" yaml:"tools"`

	// Dump configures the instrumentation dump step.
	Dump DumpConfig `mapstructure:"dump" yaml:"dump"`
}

// SDKConfig controls how the Android SDK is located.
type SDKConfig struct {
	// Home overrides ANDROID_HOME-based discovery when set.
	Home string `mapstructure:"home" yaml:"home"`

	// MinBuildTools is the lowest acceptable build-tools version.
	MinBuildTools string `mapstructure:"min_build_tools" yaml:"min_build_tools"`
}

// ToolsConfig controls external tool execution.
type ToolsConfig struct {
	// Timeout bounds each external tool invocation.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// DumpConfig controls the Dart dump step of the instrumentation workflow.
type DumpConfig struct {
	// GracePeriod is the sleep after an automated app launch.
	GracePeriod time.Duration `mapstructure:"grace_period" yaml:"grace_period"`

	// CheckRoot verifies su access before attempting the dump.
	CheckRoot bool `mapstructure:"check_root" yaml:"check_root"`
}
