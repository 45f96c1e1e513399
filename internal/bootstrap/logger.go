package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edudesk/edudesk/internal/logger"
)

// SetupLogger initializes the process logger. When logDir is non-empty a
// timestamped session log file is created there and output goes to both
// stdout and the file; old session logs are pruned. Returns the log file
// handle (nil when logDir is empty); the caller must close it.
func SetupLogger(level, format, serviceName, version, environment, logDir string) (*os.File, error) {
	var w io.Writer = os.Stdout
	var logFile *os.File

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf(ErrMsgFailedCreateLogsDir, err)
		}

		cleanupLogs(logDir)

		timestamp := time.Now().Format(LogFileTimestampFormat)
		logFileName := filepath.Join(logDir, fmt.Sprintf(LogFilePattern, timestamp))

		f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgFailedOpenLogFile, err)
		}
		logFile = f
		w = io.MultiWriter(os.Stdout, logFile)
	}

	addSource := environment == "dev" || environment == "development"
	cfg := logger.NewConfig(level, format, serviceName, version, environment, addSource)
	logger.Init(cfg, w)

	slog.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel(), "format", format)

	return logFile, nil
}

// cleanupLogs removes old session log files, keeping only the most recent.
// This prevents unbounded log file accumulation on long-lived installs.
func cleanupLogs(logDir string) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileSuffix) {
			logFiles = append(logFiles, entry)
		}
	}

	if len(logFiles) >= MaxLogFiles {
		toDelete := len(logFiles) - KeepLogFiles
		for i := 0; i < toDelete; i++ {
			err := os.Remove(filepath.Join(logDir, logFiles[i].Name()))
			if err != nil {
				fmt.Printf(LogMsgFailedDeleteOldLog, logFiles[i].Name(), err)
			}
		}
	}
}
