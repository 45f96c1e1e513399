package handler

// Generic HTTP error messages for client responses.
// These intentionally do not expose internal error details.
const (
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgInvalidRequest     = "Invalid request body"
	ErrMsgRecordNotFound     = "Record not found"
	ErrMsgRecordConflict     = "A newer version of this record exists"
	ErrMsgUnknownCollection  = "Unknown collection"
	ErrMsgMissingID          = "Missing id path parameter"
	ErrMsgFullStateFailed    = "Failed to load state"
	ErrMsgAvatarsFailed      = "Failed to load avatars"
	ErrMsgSaveFailed         = "Failed to save record"
	ErrMsgDeleteFailed       = "Failed to delete record"
	ErrMsgConfigFailed       = "Failed to save configuration"
	ErrMsgBulkSyncFailed     = "Failed to import snapshot"
)

// Success messages for API responses
const (
	MsgRecordSaved   = "Record saved"
	MsgRecordDeleted = "Record deleted"
	MsgConfigSaved   = "Configuration saved"
	MsgSyncComplete  = "Snapshot imported"
)

// AvatarOptimizeThreshold is the combined avatar payload size above
// which the full-state response strips avatars and marks itself
// optimized. Clients fetch the stripped images from the avatars
// endpoint afterwards.
const AvatarOptimizeThreshold = 256 * 1024
