package tui

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mrz1836/shipyard/internal/clock"
)

// DefaultClock is the clock used for relative times. Tests replace it.
//
//nolint:gochecknoglobals // package-level default for dependency injection
var DefaultClock clock.Clock = clock.RealClock{}

// RelativeTime formats t relative to now, e.g. "3 minutes ago".
func RelativeTime(t time.Time) string {
	return RelativeTimeWith(t, DefaultClock)
}

// RelativeTimeWith formats t relative to the given clock.
func RelativeTimeWith(t time.Time, c clock.Clock) string {
	now := c.Now()
	if now.Sub(t).Abs() < time.Second {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
