package snapshot

// Persisted state keys. Each key maps to one JSON file under the state
// directory; writing one key never touches another.
const (
	KeyStudents    = "students"
	KeyAssignments = "assignments"
	KeyEvents      = "events"
	KeyBehavior    = "behavior"
	KeyFinance     = "finance"
	KeyStaffTasks  = "staff-tasks"
	KeyBooks       = "books"
	KeyConfig      = "config"
	KeyQueue       = "queue"
)

// File layout constants
const (
	FileExtension   = ".json"
	FilePermissions = 0644
	DirPermissions  = 0755
)

// Log message constants
const (
	LogMsgWriteFailed        = "Snapshot write failed, in-memory state remains authoritative"
	LogMsgUnreadableSnapshot = "Snapshot unreadable, treating as empty"
	LogMsgEvicted            = "Evicted snapshot files to free space"
	LogMsgLegacyRecovered    = "Recovered data from legacy snapshot key"
)

// legacyKeys maps file names from the prior storage scheme to current
// keys. Scanned only when the server reports empty state.
var legacyKeys = map[string]string{
	"school_students.json":    KeyStudents,
	"school_assignments.json": KeyAssignments,
	"school_events.json":      KeyEvents,
	"school_behavior.json":    KeyBehavior,
	"school_finance.json":     KeyFinance,
	"school_tasks.json":       KeyStaffTasks,
	"school_books.json":       KeyBooks,
	"school_config.json":      KeyConfig,
}
