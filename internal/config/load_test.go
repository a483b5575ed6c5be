package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/batuta/internal/constants"
)

func TestLoadFrom(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFrom(ctx, filepath.Join(t.TempDir(), "config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, constants.MinBuildToolsVersion, cfg.SDK.MinBuildTools)
		assert.Equal(t, constants.DefaultToolTimeout, cfg.Tools.Timeout)
		assert.Equal(t, constants.DefaultLaunchGracePeriod, cfg.Dump.GracePeriod)
		assert.True(t, cfg.Dump.CheckRoot)
		assert.Empty(t, cfg.KeystoreDir)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `apkeditor_path: /opt/APKEditor.jar
keystore_dir: /custom/keys
sdk:
  home: /opt/android-sdk
  min_build_tools: 33.0.0
tools:
  timeout: 5m
dump:
  grace_period: 12s
  check_root: false
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadFrom(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "/opt/APKEditor.jar", cfg.APKEditorPath)
		assert.Equal(t, "/custom/keys", cfg.KeystoreDir)
		assert.Equal(t, "/opt/android-sdk", cfg.SDK.Home)
		assert.Equal(t, "33.0.0", cfg.SDK.MinBuildTools)
		assert.Equal(t, 5*time.Minute, cfg.Tools.Timeout)
		assert.Equal(t, 12*time.Second, cfg.Dump.GracePeriod)
		assert.False(t, cfg.Dump.CheckRoot)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("keystore_dir: /from/file\n"), 0o600))
		t.Setenv("BATUTA_KEYSTORE_DIR", "/from/env")

		cfg, err := LoadFrom(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "/from/env", cfg.KeystoreDir)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("keystore_dir: [unclosed\n"), 0o600))

		_, err := LoadFrom(ctx, path)
		assert.Error(t, err)
	})
}

func TestResolveKeystoreDir(t *testing.T) {
	t.Run("explicit dir wins", func(t *testing.T) {
		cfg := &Config{KeystoreDir: "/custom"}
		dir, err := cfg.ResolveKeystoreDir()
		require.NoError(t, err)
		assert.Equal(t, "/custom", dir)
	})

	t.Run("falls back to global config dir", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		dir, err := (&Config{}).ResolveKeystoreDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, constants.BatutaHome), dir)
	})
}

func TestGlobalConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := GlobalConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, constants.BatutaHome, constants.GlobalConfigName), path)
}
