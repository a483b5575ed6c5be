package merger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/testutil"
	"github.com/mrz1836/batuta/internal/tool"
)

// newSplitDir creates a directory holding the given split APK names.
func newSplitDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "com.example.app")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("PK\x03\x04"), 0o600))
	}
	return dir
}

// newJar drops an APKEditor.jar and points APKEDITOR_JAR at it.
func newJar(t *testing.T) string {
	t.Helper()
	jar := filepath.Join(t.TempDir(), constants.APKEditorJarName)
	require.NoError(t, os.WriteFile(jar, []byte("jar"), 0o600))
	t.Setenv(constants.EnvAPKEditorJar, jar)
	return jar
}

// mergingRunner succeeds and writes the file named after the -o flag.
func mergingRunner() *testutil.FakeRunner {
	runner := &testutil.FakeRunner{}
	runner.RunFunc = func(_ context.Context, inv tool.Invocation) (tool.Result, error) {
		for i, arg := range inv.Args {
			if arg == "-o" && i+1 < len(inv.Args) {
				if err := os.WriteFile(inv.Args[i+1], []byte("PK\x03\x04merged"), 0o600); err != nil {
					return tool.Result{ExitCode: -1}, err
				}
			}
		}
		return tool.Result{Args: inv.Args}, nil
	}
	return runner
}

func TestMerge(t *testing.T) {
	jar := newJar(t)
	runner := mergingRunner()
	m := New(runner)

	splitDir := newSplitDir(t, "base.apk", "split_config.arm64_v8a.apk", "split_config.en.apk")
	output := filepath.Join(t.TempDir(), "merged.apk")

	result, err := m.Merge(context.Background(), splitDir, output, Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 3, result.SplitCount)
	assert.Equal(t, output, result.OutputPath)
	assert.FileExists(t, output)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"java", "-jar", jar, "merge", "-i", splitDir, "-o", output}, calls[0].Args)
}

func TestMerge_DefaultOutputPath(t *testing.T) {
	newJar(t)
	m := New(mergingRunner())

	splitDir := newSplitDir(t, "base.apk")
	result, err := m.Merge(context.Background(), splitDir, "", Options{})
	require.NoError(t, err)

	want := filepath.Join(filepath.Dir(splitDir), "com.example.app.merged.apk")
	assert.Equal(t, want, result.OutputPath)
	assert.FileExists(t, want)
}

func TestMerge_ReplacesExistingOutput(t *testing.T) {
	newJar(t)
	m := New(mergingRunner())

	splitDir := newSplitDir(t, "base.apk")
	output := filepath.Join(t.TempDir(), "merged.apk")
	require.NoError(t, os.WriteFile(output, []byte("stale artifact"), 0o600))

	_, err := m.Merge(context.Background(), splitDir, output, Options{})
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "PK\x03\x04merged", string(content))
}

func TestMerge_EmptySplitDir(t *testing.T) {
	newJar(t)
	runner := mergingRunner()
	m := New(runner)

	_, err := m.Merge(context.Background(), newSplitDir(t), "", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMerge)
	assert.Zero(t, runner.CallCount())
}

func TestMerge_MissingSplitDir(t *testing.T) {
	newJar(t)
	m := New(mergingRunner())

	_, err := m.Merge(context.Background(), filepath.Join(t.TempDir(), "nope"), "", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMerge)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestMerge_UnresolvableAPKEditor(t *testing.T) {
	t.Setenv(constants.EnvAPKEditorJar, "")
	t.Setenv("PATH", t.TempDir())

	runner := mergingRunner()
	m := New(runner)

	_, err := m.Merge(context.Background(), newSplitDir(t, "base.apk"), "", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMerge)
	assert.ErrorIs(t, err, errors.ErrToolNotFound)
	assert.Contains(t, err.Error(), constants.EnvAPKEditorJar)
	assert.Zero(t, runner.CallCount())
}

func TestMerge_ConfiguredJarPath(t *testing.T) {
	t.Setenv(constants.EnvAPKEditorJar, "")
	t.Setenv("PATH", t.TempDir())

	jarDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(jarDir, constants.APKEditorJarName), []byte("jar"), 0o600))

	runner := mergingRunner()
	m := New(runner)

	_, err := m.Merge(context.Background(), newSplitDir(t, "base.apk"), "", Options{APKEditorPath: jarDir})
	require.NoError(t, err)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"java", "-jar", filepath.Join(jarDir, constants.APKEditorJarName)}, calls[0].Args[:3])
}

func TestMerge_MergeCommandFails(t *testing.T) {
	newJar(t)

	runner := &testutil.FakeRunner{}
	runner.RunFunc = func(_ context.Context, _ tool.Invocation) (tool.Result, error) {
		return tool.Result{ExitCode: 1, Stderr: "corrupt split"}, testutil.ErrMockToolFailed
	}
	m := New(runner)

	_, err := m.Merge(context.Background(), newSplitDir(t, "base.apk"), "", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMerge)
	assert.ErrorIs(t, err, testutil.ErrMockToolFailed)
}

func TestMerge_ArtifactMissing(t *testing.T) {
	newJar(t)

	// Succeeds but never writes the merged APK.
	m := New(&testutil.FakeRunner{})
	_, err := m.Merge(context.Background(), newSplitDir(t, "base.apk"), "", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMerge)
	assert.ErrorIs(t, err, errors.ErrArtifactMissing)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "/pulls/com.app.merged.apk", DefaultOutputPath("/pulls/com.app"))
	assert.Equal(t, "/pulls/com.app.merged.apk", DefaultOutputPath("/pulls/com.app/"))
}
