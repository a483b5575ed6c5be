package config

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/batuta/internal/errors"
)

// Load reads the global configuration file, applying defaults and
// BATUTA_-prefixed environment variable overrides (e.g. BATUTA_KEYSTORE_DIR,
// BATUTA_SDK_MIN_BUILD_TOOLS).
//
// A missing config file is not an error; defaults are returned. A present but
// malformed file is an error so a typo never silently reverts behavior.
func Load(ctx context.Context) (*Config, error) {
	path, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(ctx, path)
}

// LoadFrom is Load with an explicit file path, used by tests and by the
// --config flag.
func LoadFrom(ctx context.Context, path string) (*Config, error) {
	log := zerolog.Ctx(ctx)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BATUTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if isNotFound(err) {
			log.Debug().Str("path", path).Msg("no config file, using defaults")
		} else {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return cfg, nil
}

// applyDefaults seeds viper with the default configuration so env overrides
// bind even without a config file.
func applyDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("apkeditor_path", defaults.APKEditorPath)
	v.SetDefault("keystore_dir", defaults.KeystoreDir)
	v.SetDefault("sdk.home", defaults.SDK.Home)
	v.SetDefault("sdk.min_build_tools", defaults.SDK.MinBuildTools)
	v.SetDefault("tools.timeout", defaults.Tools.Timeout)
	v.SetDefault("dump.grace_period", defaults.Dump.GracePeriod)
	v.SetDefault("dump.check_root", defaults.Dump.CheckRoot)
}

// isNotFound distinguishes a missing config file from a malformed one.
func isNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	// viper reports stat failures for explicit SetConfigFile paths as
	// *fs.PathError rather than ConfigFileNotFoundError.
	return strings.Contains(err.Error(), "no such file") ||
		strings.Contains(err.Error(), "cannot find the file")
}
