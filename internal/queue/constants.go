package queue

// MaxEntries bounds the queue length. When full, the oldest entry is
// dropped rather than growing unbounded (lossy-under-pressure policy).
const MaxEntries = 200

// APIPrefix is the path segment stripped during endpoint normalization so
// entries stay resolvable when the base URL changes.
const APIPrefix = "/api"

// Log message constants
const (
	LogMsgEnqueued          = "Mutation deferred to offline queue"
	LogMsgEvictedOldest     = "Offline queue full, evicting oldest entry"
	LogMsgDrainStarted      = "Draining offline queue"
	LogMsgDrainFinished     = "Offline queue drain finished"
	LogMsgEntrySent         = "Queued mutation replayed"
	LogMsgEntryDropped      = "Queued mutation no longer applies, dropping"
	LogMsgEntryRetained     = "Queued mutation failed, retaining for next drain"
	LogMsgQueueCleared      = "Offline queue cleared"
	LogMsgQueuePersistError = "Failed to persist offline queue"
)
