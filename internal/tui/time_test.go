package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/shipyard/internal/clock"
)

func TestRelativeTimeWith(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	clk := clock.Fixed{Time: now}

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"now", now, "just now"},
		{"minutes", now.Add(-3 * time.Minute), "3 minutes ago"},
		{"hours", now.Add(-2 * time.Hour), "2 hours ago"},
		{"future", now.Add(2 * time.Hour), "2 hours from now"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RelativeTimeWith(tc.t, clk))
		})
	}
}
