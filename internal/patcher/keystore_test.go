package patcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/testutil"
	"github.com/mrz1836/batuta/internal/tool"
)

func keystoreWritingRunner() *testutil.FakeRunner {
	runner := &testutil.FakeRunner{}
	runner.RunFunc = func(_ context.Context, inv tool.Invocation) (tool.Result, error) {
		if path := argAfter(inv.Args, "-keystore"); path != "" {
			if err := os.WriteFile(path, []byte("keystore"), 0o600); err != nil {
				return tool.Result{ExitCode: -1}, err
			}
		}
		return tool.Result{Args: inv.Args}, nil
	}
	return runner
}

func TestDebugIdentity(t *testing.T) {
	identity := DebugIdentity("/tmp/keys")

	assert.Equal(t, filepath.Join("/tmp/keys", constants.DebugKeystoreFile), identity.Keystore)
	assert.Equal(t, constants.DebugKeyAlias, identity.KeyAlias)
	assert.Equal(t, constants.DebugStorePass, identity.StorePass)
	assert.Equal(t, constants.DebugKeyPass, identity.KeyPass)
}

func TestEnsureDebugKeystore_GeneratesOnce(t *testing.T) {
	runner := keystoreWritingRunner()
	dir := filepath.Join(t.TempDir(), "keystores")

	identity, created, err := EnsureDebugKeystore(context.Background(), runner, dir)
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, identity.Keystore)

	_, created, err = EnsureDebugKeystore(context.Background(), runner, dir)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, 1, runner.CallCount())
}

func TestEnsureDebugKeystore_CommandVector(t *testing.T) {
	runner := keystoreWritingRunner()
	dir := t.TempDir()

	identity, _, err := EnsureDebugKeystore(context.Background(), runner, dir)
	require.NoError(t, err)

	require.Equal(t, 1, runner.CallCount())
	joined := strings.Join(runner.Calls()[0].Args, " ")
	assert.True(t, strings.HasPrefix(joined, constants.ToolKeytool+" -genkey"))
	assert.Contains(t, joined, "-keystore "+identity.Keystore)
	assert.Contains(t, joined, "-alias "+constants.DebugKeyAlias)
	assert.Contains(t, joined, "-keyalg "+constants.DebugKeyAlgorithm)
	assert.Contains(t, joined, "-keysize "+constants.DebugKeySize)
	assert.Contains(t, joined, "-validity "+constants.DebugKeyValidity)
}

func TestEnsureDebugKeystore_ConcurrentCallersShareOneGeneration(t *testing.T) {
	runner := keystoreWritingRunner()
	dir := filepath.Join(t.TempDir(), "shared")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = EnsureDebugKeystore(context.Background(), runner, dir)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, runner.CallCount())
	assert.FileExists(t, filepath.Join(dir, constants.DebugKeystoreFile))
}

func TestEnsureDebugKeystore_ToolFailure(t *testing.T) {
	runner := &testutil.FakeRunner{}
	runner.RunFunc = func(_ context.Context, _ tool.Invocation) (tool.Result, error) {
		return tool.Result{ExitCode: 1}, testutil.ErrMockToolFailed
	}

	_, _, err := EnsureDebugKeystore(context.Background(), runner, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, testutil.ErrMockToolFailed)
}
