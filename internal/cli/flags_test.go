package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/batuta/internal/errors"
)

func TestExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitError", ExitError, 1},
		{"ExitInvalidInput", ExitInvalidInput, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, tc.code)
		})
	}
}

func TestGlobalFlags_Defaults(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	assert.Equal(t, OutputText, flags.Output)
	assert.False(t, flags.Verbose)
	assert.False(t, flags.Quiet)
	assert.Empty(t, flags.Device)
}

func TestAddGlobalFlags(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	outputFlag := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	deviceFlag := cmd.PersistentFlags().Lookup("device")
	require.NotNil(t, deviceFlag)
	assert.Equal(t, "d", deviceFlag.Shorthand)
}

func TestBindGlobalFlags(t *testing.T) {
	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	require.NoError(t, cmd.PersistentFlags().Set("output", "json"))
	require.NoError(t, cmd.PersistentFlags().Set("device", "emulator-5554"))

	v := viper.New()
	err := BindGlobalFlags(v, cmd)
	require.NoError(t, err)

	assert.Equal(t, "json", v.GetString("output"))
	assert.Equal(t, "emulator-5554", v.GetString("device"))
}

func TestBindGlobalFlags_EnvOverride(t *testing.T) {
	t.Setenv("BATUTA_DEVICE", "R5CT12345")

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	v := viper.New()
	require.NoError(t, BindGlobalFlags(v, cmd))

	assert.Equal(t, "R5CT12345", v.GetString("device"))
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"generic error", stderrors.New("boom"), ExitError},
		{"invalid output format", errors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"wrapped invalid output format", fmt.Errorf("context: %w", errors.ErrInvalidOutputFormat), ExitInvalidInput},
		{"validation error", errors.ErrValidation, ExitInvalidInput},
		{"tool execution error", errors.ErrToolExecution, ExitError},
		{"unknown flag", stderrors.New("unknown flag: --bogus"), ExitInvalidInput},
		{"unknown command", stderrors.New(`unknown command "frobnicate" for "batuta"`), ExitInvalidInput},
		{"mutually exclusive flags", stderrors.New("if any flags in the group [verbose quiet] are set none of the others can be"), ExitInvalidInput},
		{"wrong arg count", stderrors.New("accepts 1 arg(s), received 0"), ExitInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ExitCodeForError(tc.err))
		})
	}
}
