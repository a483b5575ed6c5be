package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealClock_Now(t *testing.T) {
	c := RealClock{}

	before := time.Now()
	got := c.Now()
	after := time.Now()

	assert.False(t, got.Before(before), "clock.Now() should not return time before actual time.Now()")
	assert.False(t, got.After(after), "clock.Now() should not return time after actual time.Now()")
}

func TestRealClock_Sleep(t *testing.T) {
	c := RealClock{}

	t.Run("returns after duration", func(t *testing.T) {
		start := time.Now()
		err := c.Sleep(context.Background(), 10*time.Millisecond)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	})

	t.Run("returns context error on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := c.Sleep(ctx, time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// MockClock is a Clock implementation for testing that returns a fixed time
// and records sleep requests without blocking.
type MockClock struct {
	FixedTime time.Time
	Slept     []time.Duration
}

// Now returns the fixed time.
func (m *MockClock) Now() time.Time {
	return m.FixedTime
}

// Sleep records the requested duration and returns immediately.
func (m *MockClock) Sleep(_ context.Context, d time.Duration) error {
	m.Slept = append(m.Slept, d)
	return nil
}

func TestMockClock(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	c := &MockClock{FixedTime: fixedTime}

	assert.Equal(t, fixedTime, c.Now())

	require.NoError(t, c.Sleep(context.Background(), 8*time.Second))
	assert.Equal(t, []time.Duration{8 * time.Second}, c.Slept)
}
