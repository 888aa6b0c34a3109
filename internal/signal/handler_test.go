package signal

import (
	"context"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/shipyard/internal/errors"
)

func TestHandler_InterruptCancelsWithCause(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handle(syscall.SIGTERM)

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	require.ErrorIs(t, context.Cause(h.Context()), errors.ErrInterrupted)
	assert.Equal(t, syscall.SIGTERM, h.Signal())

	select {
	case <-h.Interrupted():
	default:
		t.Fatal("interrupted channel should be closed")
	}
}

func TestHandler_OnlyFirstSignalCounts(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handle(syscall.SIGINT)
	h.handle(syscall.SIGTERM)

	assert.Equal(t, syscall.SIGINT, h.Signal())
}

func TestHandler_StopWithoutSignal(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()
	h.Stop()

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	assert.Nil(t, h.Signal())

	select {
	case <-h.Interrupted():
		t.Fatal("interrupted channel should stay open")
	default:
	}
}

func TestHandler_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	<-h.Context().Done()
	assert.NotErrorIs(t, context.Cause(h.Context()), errors.ErrInterrupted)
}
