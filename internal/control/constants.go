package control

// Routes on the loopback control surface.
const (
	PathStatus     = "/status"
	PathQueue      = "/queue"
	PathQueueClear = "/queue/clear"
	PathSync       = "/sync"
	PathPush       = "/push"
	PathServerURL  = "/server-url"
)

// Error messages for control responses.
const (
	ErrMsgInvalidRequest = "Invalid request body"
	ErrMsgInvalidURL     = "Server URL must be absolute with scheme and host"
	ErrMsgPushFailed     = "Failed to push local state to server"
	ErrMsgQueueFailed    = "Failed to read queue"
)

// Success messages for control responses.
const (
	MsgQueueCleared = "Queue cleared"
	MsgPushComplete = "Local state pushed"
	MsgServerURLSet = "Server URL updated"
)

// Log message constants
const (
	LogMsgControlStarting = "Control server starting"
)
