package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shipyarderrors "github.com/mrz1836/shipyard/internal/errors"
)

// testError is a custom error type used to test default branches
// in UserMessage and Actionable without matching any sentinel.
type testError struct {
	msg string
}

func (e testError) Error() string {
	return e.msg
}

func stageSentinels() []error {
	return []error{
		shipyarderrors.ErrProvisionFailed,
		shipyarderrors.ErrBundleBuildFailed,
		shipyarderrors.ErrTestsFailed,
		shipyarderrors.ErrTestHarnessUnavailable,
		shipyarderrors.ErrReportBlockMissing,
		shipyarderrors.ErrReportParse,
		shipyarderrors.ErrDocsBuildFailed,
		shipyarderrors.ErrPublishFailed,
		shipyarderrors.ErrRunFailed,
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	all := stageSentinels()

	for i, err1 := range all {
		for j, err2 := range all {
			if i == j {
				require.ErrorIs(t, err1, err2, "error should match itself")
			} else {
				assert.NotErrorIs(t, err1, err2, "different errors should not match")
			}
		}
	}
}

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrBundleBuildFailed", shipyarderrors.ErrBundleBuildFailed, "bundle build failed"},
		{"ErrTestsFailed", shipyarderrors.ErrTestsFailed, "integration tests failed"},
		{"ErrDocsBuildFailed", shipyarderrors.ErrDocsBuildFailed, "documentation build failed"},
		{"ErrRunFailed", shipyarderrors.ErrRunFailed, "release run failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestWrap_PreservesErrorChain(t *testing.T) {
	for _, sentinel := range stageSentinels() {
		t.Run(sentinel.Error(), func(t *testing.T) {
			wrapped := shipyarderrors.Wrap(sentinel, "context message")

			require.ErrorIs(t, wrapped, sentinel)
			assert.Equal(t, "context message: "+sentinel.Error(), wrapped.Error())
		})
	}
}

func TestWrap_NilError(t *testing.T) {
	assert.NoError(t, shipyarderrors.Wrap(nil, "should not appear"))
	assert.NoError(t, shipyarderrors.Wrapf(nil, "should not appear %d", 1))
}

func TestWrapf_MessageFormat(t *testing.T) {
	wrapped := shipyarderrors.Wrapf(shipyarderrors.ErrBundleBuildFailed, "target %s", "p2g")

	require.ErrorIs(t, wrapped, shipyarderrors.ErrBundleBuildFailed)
	assert.Equal(t, "target p2g: bundle build failed", wrapped.Error())
}

func TestUserMessage(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Empty(t, shipyarderrors.UserMessage(nil))
	})

	t.Run("wrapped sentinel", func(t *testing.T) {
		err := fmt.Errorf("target g2g: %w", shipyarderrors.ErrDocsBuildFailed)
		assert.Contains(t, shipyarderrors.UserMessage(err), "Documentation failed to build")
	})

	t.Run("unknown error falls back to message", func(t *testing.T) {
		assert.Equal(t, "something odd", shipyarderrors.UserMessage(testError{msg: "something odd"}))
	})
}

func TestActionable(t *testing.T) {
	msg, action := shipyarderrors.Actionable(shipyarderrors.ErrRunFailed)
	assert.NotEmpty(t, msg)
	assert.Contains(t, action, "shipyard status")

	msg, action = shipyarderrors.Actionable(nil)
	assert.Empty(t, msg)
	assert.Empty(t, action)

	msg, action = shipyarderrors.Actionable(testError{msg: "plain"})
	assert.Equal(t, "plain", msg)
	assert.Empty(t, action)
}

func TestExitCode2Error(t *testing.T) {
	base := shipyarderrors.ErrInvalidOutputFormat
	wrapped := shipyarderrors.NewExitCode2Error(base)

	assert.Equal(t, base.Error(), wrapped.Error())
	require.ErrorIs(t, wrapped, base)
	assert.True(t, shipyarderrors.IsExitCode2Error(fmt.Errorf("outer: %w", wrapped)))
	assert.False(t, shipyarderrors.IsExitCode2Error(base))
	assert.False(t, shipyarderrors.IsExitCode2Error(nil))
}
