package domain

import "time"

// Collection identifies one synchronized record collection.
type Collection string

// Known collections. Config is a singleton and is not collection-typed.
const (
	CollectionStudents    Collection = "students"
	CollectionAssignments Collection = "assignments"
	CollectionEvents      Collection = "events"
	CollectionBehavior    Collection = "behavior"
	CollectionFinance     Collection = "finance"
	CollectionStaffTasks  Collection = "staff-tasks"
	CollectionBooks       Collection = "books"
)

// Collections lists every collection in a stable order. Handlers and the
// snapshot store iterate this instead of hardcoding names.
var Collections = []Collection{
	CollectionStudents,
	CollectionAssignments,
	CollectionEvents,
	CollectionBehavior,
	CollectionFinance,
	CollectionStaffTasks,
	CollectionBooks,
}

// Record is any domain entity with a stable string identifier. The sync
// layer treats record payloads as opaque beyond the identifier.
type Record interface {
	RecordID() string
}

// AvatarPlaceholder marks a student avatar that has not been loaded yet.
// The server-side upsert keeps the previously stored avatar whenever the
// incoming value is a placeholder, so a client that only holds the
// placeholder can never erase a real image.
const AvatarPlaceholder = "__placeholder__"

// IsPlaceholderAvatar reports whether the given avatar value must not
// overwrite a real stored image.
func IsPlaceholderAvatar(avatar string) bool {
	return avatar == "" || avatar == AvatarPlaceholder
}

// Student is one enrolled student record.
type Student struct {
	ID            string    `json:"id" db:"id" validate:"required"`
	Name          string    `json:"name" db:"name" validate:"required"`
	Group         string    `json:"group" db:"group_name"`
	Avatar        string    `json:"avatar,omitempty" db:"avatar"`
	GuardianName  string    `json:"guardianName,omitempty" db:"guardian_name"`
	GuardianPhone string    `json:"guardianPhone,omitempty" db:"guardian_phone"`
	Notes         string    `json:"notes,omitempty" db:"notes"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func (s Student) RecordID() string { return s.ID }

// Assignment is a graded piece of work for one student.
type Assignment struct {
	ID        string    `json:"id" validate:"required"`
	StudentID string    `json:"studentId" validate:"required"`
	Subject   string    `json:"subject"`
	Title     string    `json:"title"`
	Grade     string    `json:"grade,omitempty"`
	DueDate   time.Time `json:"dueDate,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a Assignment) RecordID() string { return a.ID }

// CalendarEvent is a school calendar entry (holiday, exam, meeting).
type CalendarEvent struct {
	ID    string    `json:"id" validate:"required"`
	Title string    `json:"title" validate:"required"`
	Date  time.Time `json:"date"`
	Kind  string    `json:"kind,omitempty"`
	Notes string    `json:"notes,omitempty"`
}

func (e CalendarEvent) RecordID() string { return e.ID }

// BehaviorLog records a single behavior observation for a student.
type BehaviorLog struct {
	ID        string    `json:"id" validate:"required"`
	StudentID string    `json:"studentId" validate:"required"`
	Date      time.Time `json:"date"`
	Category  string    `json:"category"`
	Severity  int       `json:"severity"`
	Note      string    `json:"note,omitempty"`
}

func (b BehaviorLog) RecordID() string { return b.ID }

// FinanceEvent is a fee charged to or payment received for a student.
// Amount is in minor currency units to avoid float drift.
type FinanceEvent struct {
	ID        string    `json:"id" validate:"required"`
	StudentID string    `json:"studentId"`
	Date      time.Time `json:"date"`
	Amount    int64     `json:"amount"`
	Kind      string    `json:"kind"`
	Note      string    `json:"note,omitempty"`
}

func (f FinanceEvent) RecordID() string { return f.ID }

// StaffTask is a to-do item assigned to a staff member.
type StaffTask struct {
	ID         string    `json:"id" validate:"required"`
	Title      string    `json:"title" validate:"required"`
	AssignedTo string    `json:"assignedTo,omitempty"`
	Due        time.Time `json:"due,omitempty"`
	Done       bool      `json:"done"`
}

func (t StaffTask) RecordID() string { return t.ID }

// Book is a library book, optionally checked out to a student.
type Book struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Author    string    `json:"author,omitempty"`
	StudentID string    `json:"studentId,omitempty"`
	DueDate   time.Time `json:"dueDate,omitempty"`
}

func (b Book) RecordID() string { return b.ID }

// SchoolConfig is the singleton school-wide settings record.
type SchoolConfig struct {
	SchoolName   string    `json:"schoolName"`
	AcademicYear string    `json:"academicYear"`
	Groups       []string  `json:"groups,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
