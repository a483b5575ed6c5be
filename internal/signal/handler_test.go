package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ContextCanceledOnSignal(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	// Deliver the signal directly to the handler's channel.
	h.sigChan <- syscall.SIGINT

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled after signal")
	}

	select {
	case <-h.Interrupted():
	case <-time.After(time.Second):
		t.Fatal("interrupted channel not closed after signal")
	}
}

func TestHandler_StopCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled after Stop")
	}

	// Stop is idempotent.
	h.Stop()
}

func TestHandler_ParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled when parent canceled")
	}

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
}

func TestHandler_RepeatedSignalsDoNotPanic(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.sigChan <- syscall.SIGINT
	h.sigChan <- syscall.SIGTERM

	select {
	case <-h.Interrupted():
	case <-time.After(time.Second):
		t.Fatal("interrupted channel not closed")
	}

	assert.Error(t, h.Context().Err())
}
