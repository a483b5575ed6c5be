package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		verbose  bool
		quiet    bool
		expected zerolog.Level
	}{
		{"default", false, false, zerolog.InfoLevel},
		{"verbose", true, false, zerolog.DebugLevel},
		{"quiet", false, true, zerolog.WarnLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, selectLevel(tc.verbose, tc.quiet))
		})
	}
}

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, false, &buf)

	logger.Info().Msg("hello")
	logger.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestInitLoggerWithWriter_FlagsSensitiveMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, false, &buf)

	logger.Info().Msg("running apksigner --ks-pass pass:android")

	assert.Contains(t, buf.String(), "contains_filtered_data")
}

func TestCreateLogFileWriter(t *testing.T) {
	home := t.TempDir()
	t.Setenv("BATUTA_HOME", home)

	w, err := createLogFileWriter()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	_, err = w.Write([]byte("keytool -storepass android\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(home, "logs", "batuta.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "-storepass android")
	assert.Contains(t, string(data), "[REDACTED]")
}

func TestLogFilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("BATUTA_HOME", home)

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "batuta.log"), path)
}

func TestCloseLogFile_NoFile(t *testing.T) {
	logFileWriter = nil
	CloseLogFile() // must not panic
}
