package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Record errors
	ErrMsgRecordNotFound = "record not found"
	ErrMsgRecordConflict = "record conflict"
	ErrMsgInvalidRecord  = "invalid record"

	// Collection errors
	ErrMsgUnknownCollection = "unknown collection"

	// Sync errors
	ErrMsgServerOffline   = "server unreachable"
	ErrMsgSnapshotCorrupt = "snapshot unreadable"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Record errors
	ErrRecordNotFound = errors.New(ErrMsgRecordNotFound)
	ErrRecordConflict = errors.New(ErrMsgRecordConflict)
	ErrInvalidRecord  = errors.New(ErrMsgInvalidRecord)

	// Collection errors
	ErrUnknownCollection = errors.New(ErrMsgUnknownCollection)

	// Sync errors
	ErrServerOffline   = errors.New(ErrMsgServerOffline)
	ErrSnapshotCorrupt = errors.New(ErrMsgSnapshotCorrupt)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
