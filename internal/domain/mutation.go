package domain

// Op is the kind of mutation applied to a collection.
type Op string

const (
	OpSave   Op = "save"
	OpDelete Op = "delete"
)

// Mutation is one fully-formed domain mutation. Callers always supply the
// complete post-mutation record; there are no partial-patch semantics.
// Use the typed constructors below so dispatch stays exhaustive over the
// known entity kinds.
type Mutation struct {
	Collection Collection
	Op         Op
	Record     Record        // set for saves, nil for deletes
	ID         string        // set for deletes
	Config     *SchoolConfig // set only for config saves
}

// NewSaveStudent builds a save mutation for one student.
func NewSaveStudent(s Student) Mutation {
	return Mutation{Collection: CollectionStudents, Op: OpSave, Record: s}
}

// NewDeleteStudent builds a delete mutation for one student id.
func NewDeleteStudent(id string) Mutation {
	return Mutation{Collection: CollectionStudents, Op: OpDelete, ID: id}
}

// NewSaveAssignment builds a save mutation for one assignment.
func NewSaveAssignment(a Assignment) Mutation {
	return Mutation{Collection: CollectionAssignments, Op: OpSave, Record: a}
}

// NewDeleteAssignment builds a delete mutation for one assignment id.
func NewDeleteAssignment(id string) Mutation {
	return Mutation{Collection: CollectionAssignments, Op: OpDelete, ID: id}
}

// NewSaveEvent builds a save mutation for one calendar event.
func NewSaveEvent(e CalendarEvent) Mutation {
	return Mutation{Collection: CollectionEvents, Op: OpSave, Record: e}
}

// NewDeleteEvent builds a delete mutation for one calendar event id.
func NewDeleteEvent(id string) Mutation {
	return Mutation{Collection: CollectionEvents, Op: OpDelete, ID: id}
}

// NewSaveBehaviorLog builds a save mutation for one behavior log.
func NewSaveBehaviorLog(b BehaviorLog) Mutation {
	return Mutation{Collection: CollectionBehavior, Op: OpSave, Record: b}
}

// NewDeleteBehaviorLog builds a delete mutation for one behavior log id.
func NewDeleteBehaviorLog(id string) Mutation {
	return Mutation{Collection: CollectionBehavior, Op: OpDelete, ID: id}
}

// NewSaveFinanceEvent builds a save mutation for one finance event.
func NewSaveFinanceEvent(f FinanceEvent) Mutation {
	return Mutation{Collection: CollectionFinance, Op: OpSave, Record: f}
}

// NewDeleteFinanceEvent builds a delete mutation for one finance event id.
func NewDeleteFinanceEvent(id string) Mutation {
	return Mutation{Collection: CollectionFinance, Op: OpDelete, ID: id}
}

// NewSaveStaffTask builds a save mutation for one staff task.
func NewSaveStaffTask(t StaffTask) Mutation {
	return Mutation{Collection: CollectionStaffTasks, Op: OpSave, Record: t}
}

// NewDeleteStaffTask builds a delete mutation for one staff task id.
func NewDeleteStaffTask(id string) Mutation {
	return Mutation{Collection: CollectionStaffTasks, Op: OpDelete, ID: id}
}

// NewSaveBook builds a save mutation for one book.
func NewSaveBook(b Book) Mutation {
	return Mutation{Collection: CollectionBooks, Op: OpSave, Record: b}
}

// NewDeleteBook builds a delete mutation for one book id.
func NewDeleteBook(id string) Mutation {
	return Mutation{Collection: CollectionBooks, Op: OpDelete, ID: id}
}

// NewSaveConfig builds a save mutation for the singleton school config.
// Config has no delete counterpart.
func NewSaveConfig(c SchoolConfig) Mutation {
	return Mutation{Collection: "", Op: OpSave, Config: &c}
}

// IsConfig reports whether this mutation targets the singleton config.
func (m Mutation) IsConfig() bool { return m.Config != nil }

// Endpoint returns the relative API path for this mutation, without the
// /api prefix. Deletes target /<collection>/<id>, saves /<collection>.
func (m Mutation) Endpoint() string {
	if m.IsConfig() {
		return "/config"
	}
	if m.Op == OpDelete {
		return "/" + string(m.Collection) + "/" + m.ID
	}
	return "/" + string(m.Collection)
}

// HTTPMethod returns the HTTP method used to replay this mutation.
func (m Mutation) HTTPMethod() string {
	if m.Op == OpDelete {
		return "DELETE"
	}
	return "POST"
}

// Payload returns the JSON body for this mutation, nil for deletes.
func (m Mutation) Payload() any {
	switch {
	case m.IsConfig():
		return m.Config
	case m.Op == OpDelete:
		return nil
	default:
		return m.Record
	}
}
