package syncer

import (
	"fmt"

	"github.com/edudesk/edudesk/internal/domain"
	"github.com/edudesk/edudesk/internal/snapshot"
)

// snapshotKeys maps each collection to its persisted snapshot key.
var snapshotKeys = map[domain.Collection]string{
	domain.CollectionStudents:    snapshot.KeyStudents,
	domain.CollectionAssignments: snapshot.KeyAssignments,
	domain.CollectionEvents:      snapshot.KeyEvents,
	domain.CollectionBehavior:    snapshot.KeyBehavior,
	domain.CollectionFinance:     snapshot.KeyFinance,
	domain.CollectionStaffTasks:  snapshot.KeyStaffTasks,
	domain.CollectionBooks:       snapshot.KeyBooks,
}

// upsertByID replaces the record with the same id or appends. Insertion
// order is preserved for UI stability.
func upsertByID[T domain.Record](list []T, rec T) []T {
	for i := range list {
		if list[i].RecordID() == rec.RecordID() {
			list[i] = rec
			return list
		}
	}
	return append(list, rec)
}

// removeByID drops the record with the given id, preserving order.
func removeByID[T domain.Record](list []T, id string) []T {
	for i := range list {
		if list[i].RecordID() == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// applyMutation applies m to fs in place. The apply step has no failure
// mode beyond a malformed mutation, which indicates a programming error
// at the call site.
func applyMutation(fs *domain.FullState, m domain.Mutation) error {
	if m.IsConfig() {
		cfg := *m.Config
		fs.Config = &cfg
		return nil
	}

	switch m.Collection {
	case domain.CollectionStudents:
		if m.Op == domain.OpDelete {
			fs.Students = removeByID(fs.Students, m.ID)
			return nil
		}
		rec, ok := m.Record.(domain.Student)
		if !ok {
			return fmt.Errorf("%w: expected Student payload", domain.ErrInvalidInput)
		}
		fs.Students = upsertByID(fs.Students, rec)

	case domain.CollectionAssignments:
		if m.Op == domain.OpDelete {
			fs.Assignments = removeByID(fs.Assignments, m.ID)
			return nil
		}
		rec, ok := m.Record.(domain.Assignment)
		if !ok {
			return fmt.Errorf("%w: expected Assignment payload", domain.ErrInvalidInput)
		}
		fs.Assignments = upsertByID(fs.Assignments, rec)

	case domain.CollectionEvents:
		if m.Op == domain.OpDelete {
			fs.Events = removeByID(fs.Events, m.ID)
			return nil
		}
		rec, ok := m.Record.(domain.CalendarEvent)
		if !ok {
			return fmt.Errorf("%w: expected CalendarEvent payload", domain.ErrInvalidInput)
		}
		fs.Events = upsertByID(fs.Events, rec)

	case domain.CollectionBehavior:
		if m.Op == domain.OpDelete {
			fs.Behavior = removeByID(fs.Behavior, m.ID)
			return nil
		}
		rec, ok := m.Record.(domain.BehaviorLog)
		if !ok {
			return fmt.Errorf("%w: expected BehaviorLog payload", domain.ErrInvalidInput)
		}
		fs.Behavior = upsertByID(fs.Behavior, rec)

	case domain.CollectionFinance:
		if m.Op == domain.OpDelete {
			fs.Finance = removeByID(fs.Finance, m.ID)
			return nil
		}
		rec, ok := m.Record.(domain.FinanceEvent)
		if !ok {
			return fmt.Errorf("%w: expected FinanceEvent payload", domain.ErrInvalidInput)
		}
		fs.Finance = upsertByID(fs.Finance, rec)

	case domain.CollectionStaffTasks:
		if m.Op == domain.OpDelete {
			fs.StaffTasks = removeByID(fs.StaffTasks, m.ID)
			return nil
		}
		rec, ok := m.Record.(domain.StaffTask)
		if !ok {
			return fmt.Errorf("%w: expected StaffTask payload", domain.ErrInvalidInput)
		}
		fs.StaffTasks = upsertByID(fs.StaffTasks, rec)

	case domain.CollectionBooks:
		if m.Op == domain.OpDelete {
			fs.Books = removeByID(fs.Books, m.ID)
			return nil
		}
		rec, ok := m.Record.(domain.Book)
		if !ok {
			return fmt.Errorf("%w: expected Book payload", domain.ErrInvalidInput)
		}
		fs.Books = upsertByID(fs.Books, rec)

	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, m.Collection)
	}
	return nil
}

// collectionValue returns the slice for one collection, used when
// persisting exactly that collection's snapshot key.
func collectionValue(fs *domain.FullState, c domain.Collection) any {
	switch c {
	case domain.CollectionStudents:
		return fs.Students
	case domain.CollectionAssignments:
		return fs.Assignments
	case domain.CollectionEvents:
		return fs.Events
	case domain.CollectionBehavior:
		return fs.Behavior
	case domain.CollectionFinance:
		return fs.Finance
	case domain.CollectionStaffTasks:
		return fs.StaffTasks
	case domain.CollectionBooks:
		return fs.Books
	default:
		return nil
	}
}

// loadState assembles the in-memory state from per-key snapshots.
func loadState(store *snapshot.Store) (domain.FullState, error) {
	var fs domain.FullState
	if _, err := store.Read(snapshot.KeyStudents, &fs.Students); err != nil {
		return fs, err
	}
	if _, err := store.Read(snapshot.KeyAssignments, &fs.Assignments); err != nil {
		return fs, err
	}
	if _, err := store.Read(snapshot.KeyEvents, &fs.Events); err != nil {
		return fs, err
	}
	if _, err := store.Read(snapshot.KeyBehavior, &fs.Behavior); err != nil {
		return fs, err
	}
	if _, err := store.Read(snapshot.KeyFinance, &fs.Finance); err != nil {
		return fs, err
	}
	if _, err := store.Read(snapshot.KeyStaffTasks, &fs.StaffTasks); err != nil {
		return fs, err
	}
	if _, err := store.Read(snapshot.KeyBooks, &fs.Books); err != nil {
		return fs, err
	}
	var cfg domain.SchoolConfig
	found, err := store.Read(snapshot.KeyConfig, &cfg)
	if err != nil {
		return fs, err
	}
	if found {
		fs.Config = &cfg
	}
	return fs, nil
}

// persistState writes every collection and the config under their own
// keys. Used after adopting server state wholesale.
func persistState(store *snapshot.Store, fs *domain.FullState) {
	for _, c := range domain.Collections {
		_ = store.Write(snapshotKeys[c], collectionValue(fs, c))
	}
	if fs.Config != nil {
		_ = store.Write(snapshot.KeyConfig, fs.Config)
	}
}
