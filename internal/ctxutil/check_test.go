package ctxutil_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/shipyard/internal/ctxutil"
)

func TestCanceled(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for active context", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ctxutil.Canceled(context.Background()))
	})

	t.Run("returns error for canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, ctxutil.Canceled(ctx), context.Canceled)
	})
}

func TestForCleanup_SurvivesParentCancellation(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	parent, cancel := context.WithCancel(logger.WithContext(context.Background()))
	cancel()

	ctx, cleanupCancel := ctxutil.ForCleanup(parent)
	defer cleanupCancel()

	require.NoError(t, ctx.Err())
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
	assert.NotNil(t, zerolog.Ctx(ctx))
}
