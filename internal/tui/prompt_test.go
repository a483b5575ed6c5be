package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/batuta/internal/errors"
)

func TestAppStartPrompter_PlainFallback(t *testing.T) {
	var out bytes.Buffer
	p := &AppStartPrompter{
		In:  strings.NewReader("\n"),
		Out: &out,
	}

	require.NoError(t, p.WaitForAppStart("com.example.app"))
	assert.Contains(t, out.String(), "com.example.app")
	assert.Contains(t, out.String(), "Press Enter")
}

func TestAppStartPrompter_ClosedInputCancels(t *testing.T) {
	p := &AppStartPrompter{
		In:  strings.NewReader(""),
		Out: &bytes.Buffer{},
	}

	err := p.WaitForAppStart("com.example.app")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrOperationCanceled)
}

func TestBatutaTheme(t *testing.T) {
	assert.NotNil(t, BatutaTheme())
}
