// Package ctxutil provides context utility functions.
package ctxutil

import (
	"context"
	"time"
)

// CleanupTimeout bounds work done on a detached context after the parent ended.
const CleanupTimeout = 10 * time.Second

// Canceled reports the context error if ctx is done (Canceled or DeadlineExceeded),
// nil otherwise. Used at function entry points before starting external work.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// ForCleanup returns a context that keeps ctx's values (logger, run ID) but
// survives its cancellation, bounded by CleanupTimeout. Finalization steps that
// must run on every exit path use it.
func ForCleanup(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), CleanupTimeout)
}
