package apiclient

import "time"

// Request configuration
const (
	// DefaultTimeout bounds every request; a hanging request is treated
	// as offline rather than inheriting the transport default.
	DefaultTimeout = 10 * time.Second

	// APIPrefix is prepended to every relative endpoint.
	APIPrefix = "/api"

	// HeaderAPIKey carries the shared API key on every request.
	HeaderAPIKey = "X-API-Key"

	// HeaderContentType is the content type header name.
	HeaderContentType = "Content-Type"

	// ContentTypeJSON is the JSON content type value.
	ContentTypeJSON = "application/json"
)

// Endpoint paths (relative, without the API prefix)
const (
	PathFullState = "/full-state"
	PathAvatars   = "/students/avatars"
	PathConfig    = "/config"
	PathBulkSync  = "/sync"
)

// Log message constants
const (
	LogMsgRequestFailed  = "API request failed"
	LogMsgBaseURLChanged = "API base URL changed"
)
