package syncer

// Result is the explicit outcome of a dispatched mutation. The local
// optimistic apply always succeeds; Result describes the network leg.
type Result string

const (
	// ResultApplied means the server confirmed the mutation.
	ResultApplied Result = "applied"
	// ResultQueued means the network attempt failed and the mutation was
	// deferred to the offline queue.
	ResultQueued Result = "queued"
	// ResultRejected means the mutation was abandoned without queueing:
	// the payload was malformed locally, or the server holds a
	// conflicting version.
	ResultRejected Result = "rejected"
)

// Log message constants
const (
	LogMsgStateLoaded          = "Loaded state from snapshot cache"
	LogMsgStateAdopted         = "Adopted server state"
	LogMsgServerEmpty          = "Server reports no data, attempting local recovery"
	LogMsgServerUnreachable    = "Server unreachable, continuing on cached state"
	LogMsgAvatarMergeStarted   = "Fetching stripped avatars"
	LogMsgAvatarMergeFailed    = "Avatar fetch failed, placeholders remain until next sync"
	LogMsgRecoveryNeedsSync    = "Recovered local data, manual sync to server required"
	LogMsgRefetchScheduled     = "Conflict dropped, scheduling full-state re-fetch"
	LogMsgConnectivityRestored = "Connectivity restored, draining queued mutations"
	LogMsgBulkPushStarted      = "Pushing full local state to server"
	LogMsgBulkPushDone         = "Full local state pushed"
)
