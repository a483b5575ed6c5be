package config

import "github.com/mrz1836/batuta/internal/constants"

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		SDK: SDKConfig{
			MinBuildTools: constants.MinBuildToolsVersion,
		},
		Tools: ToolsConfig{
			Timeout: constants.DefaultToolTimeout,
		},
		Dump: DumpConfig{
			GracePeriod: constants.DefaultLaunchGracePeriod,
			CheckRoot:   true,
		},
	}
}
