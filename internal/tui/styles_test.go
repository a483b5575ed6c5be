package tui

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasColorSupport(t *testing.T) {
	t.Run("no_color set disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, HasColorSupport())
	})

	t.Run("dumb terminal disables colors", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, HasColorSupport())
	})

	t.Run("normal terminal supports colors", func(t *testing.T) {
		t.Setenv("TERM", "xterm-256color")
		if _, exists := os.LookupEnv("NO_COLOR"); exists {
			t.Skip("NO_COLOR set in environment")
		}
		assert.True(t, HasColorSupport())
	})
}

func TestNewOutputStyles(t *testing.T) {
	styles := NewOutputStyles()
	assert.NotNil(t, styles)
	assert.True(t, styles.Success.GetBold())
	assert.True(t, styles.Error.GetBold())
	assert.False(t, styles.Warning.GetBold())
}
