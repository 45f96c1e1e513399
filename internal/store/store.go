// Package store is the server-side persistence layer. Two
// implementations exist: Postgres for production and Memory for tests
// and single-file deployments without a database.
package store

import (
	"context"

	"github.com/edudesk/edudesk/internal/domain"
)

// Store persists all school collections plus the singleton config.
type Store interface {
	// FullState loads every collection and the config. Avatars are
	// included as stored; stripping is the service layer's concern.
	FullState(ctx context.Context) (domain.FullState, error)

	// UpsertRecord inserts or replaces one record in its collection.
	// For students, a placeholder avatar never overwrites a stored one.
	UpsertRecord(ctx context.Context, collection domain.Collection, rec domain.Record) error

	// DeleteRecord removes one record; domain.ErrRecordNotFound if absent.
	DeleteRecord(ctx context.Context, collection domain.Collection, id string) error

	// StudentAvatars returns non-placeholder avatars keyed by student id.
	StudentAvatars(ctx context.Context) (map[string]string, error)

	// GetConfig returns the config, or nil when never set.
	GetConfig(ctx context.Context) (*domain.SchoolConfig, error)

	// SetConfig replaces the singleton config.
	SetConfig(ctx context.Context, cfg domain.SchoolConfig) error

	// ReplaceAll atomically replaces every collection and the config
	// with the given snapshot. Used by bulk import.
	ReplaceAll(ctx context.Context, state domain.FullState) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases held resources.
	Close()
}
