package bootstrap

// Log file management
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFilePattern         = "session_%s.log"
	LogFileSuffix          = ".log"
	MaxLogFiles            = 10
	KeepLogFiles           = 9
)

// Log messages
const (
	LogMsgLoggingInitialized = "Logging initialized"
	LogMsgFailedDeleteOldLog = "Failed to delete old log file %s: %v\n"

	LogMsgShuttingDown         = "Shutting down..."
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgStoreCloseFailed     = "Store close failed"
	LogMsgShutdownComplete     = "Shutdown complete"
)

// Error message templates
const (
	ErrMsgFailedCreateLogsDir = "failed to create logs directory: %w"
	ErrMsgFailedOpenLogFile   = "failed to open log file: %w"
)
