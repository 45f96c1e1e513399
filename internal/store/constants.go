package store

import "time"

// Avatar cache configuration
const (
	// AvatarCacheSize bounds the cached avatar maps. The map is cached
	// whole under a single key, so one slot suffices.
	AvatarCacheSize = 1

	// AvatarCacheTTL is how long a cached avatar map stays valid when no
	// student write invalidates it first.
	AvatarCacheTTL = 5 * time.Minute

	avatarCacheKey = "avatars"
)

// Error message constants
const (
	ErrMsgFailedToBeginTx = "failed to begin transaction"
)
