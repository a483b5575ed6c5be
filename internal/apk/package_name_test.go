package apk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/batuta/internal/testutil"
	"github.com/mrz1836/batuta/internal/tool"
)

const badgingOutput = "package: name='com.example.app' versionCode='42' versionName='1.2.3'\n" +
	"application-label:'Example'\n"

func TestPackageName(t *testing.T) {
	ctx := context.Background()

	t.Run("aapt badging preferred", func(t *testing.T) {
		runner := &testutil.FakeRunner{
			RunFunc: func(_ context.Context, inv tool.Invocation) (tool.Result, error) {
				return tool.Result{Args: inv.Args, Stdout: badgingOutput}, nil
			},
		}

		name, err := PackageName(ctx, runner, "/sdk/build-tools/35.0.0/aapt", "/tmp/whatever.apk")
		require.NoError(t, err)
		assert.Equal(t, "com.example.app", name)

		calls := runner.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/sdk/build-tools/35.0.0/aapt", "dump", "badging", "/tmp/whatever.apk"}, calls[0].Args)
	})

	t.Run("aapt failure falls back to filename", func(t *testing.T) {
		runner := &testutil.FakeRunner{
			RunFunc: func(_ context.Context, inv tool.Invocation) (tool.Result, error) {
				return tool.Result{Args: inv.Args, ExitCode: 1}, nil
			},
		}

		name, err := PackageName(ctx, runner, "/sdk/aapt", "/pulls/com.example.app-4.7.1.apk")
		require.NoError(t, err)
		assert.Equal(t, "com.example.app", name)
	})

	t.Run("empty aapt path skips aapt entirely", func(t *testing.T) {
		runner := &testutil.FakeRunner{}
		name, err := PackageName(ctx, runner, "", "/pulls/com.example.app.apk")
		require.NoError(t, err)
		assert.Equal(t, "com.example.app", name)
		assert.Zero(t, runner.CallCount())
	})

	t.Run("tooling suffixes stripped", func(t *testing.T) {
		name, err := PackageName(ctx, &testutil.FakeRunner{}, "", "/out/com.example.app-signed.apk")
		require.NoError(t, err)
		assert.Equal(t, "com.example.app", name)
	})

	t.Run("underscores converted when dotless", func(t *testing.T) {
		name, err := PackageName(ctx, &testutil.FakeRunner{}, "", "/pulls/com_example_app.apk")
		require.NoError(t, err)
		assert.Equal(t, "com.example.app", name)
	})

	t.Run("implausible filename fails", func(t *testing.T) {
		_, err := PackageName(ctx, &testutil.FakeRunner{}, "", "/tmp/app.apk")
		assert.Error(t, err)
	})
}
