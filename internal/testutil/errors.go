// Package testutil provides testing utilities for shipyard.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockCommand indicates a mock collaborator command failed to launch (used in tests).
	ErrMockCommand = errors.New("command failed to launch")

	// ErrMockUpload indicates a mock object upload failed (used in tests).
	ErrMockUpload = errors.New("upload failed")

	// ErrMockStoreUnavailable indicates a mock status store is unavailable (used in tests).
	ErrMockStoreUnavailable = errors.New("status store unavailable")

	// ErrMockPublish indicates a mock publisher failed (used in tests).
	ErrMockPublish = errors.New("publish sink unavailable")
)
