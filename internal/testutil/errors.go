// Package testutil provides testing utilities for batuta.
//
// This package contains mock errors and test doubles used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockToolFailed indicates a mock external tool failed (used in tests).
	ErrMockToolFailed = errors.New("mock tool failed")

	// ErrMockNotFound indicates a mock resource was not found (used in tests).
	ErrMockNotFound = errors.New("not found")

	// ErrMockDevice indicates a mock device error occurred (used in tests).
	ErrMockDevice = errors.New("device error")
)
