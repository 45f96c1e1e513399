package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/edudesk/edudesk/internal/domain"
)

// Memory is a mutex-guarded in-memory Store. It backs tests and the
// database-free deployment mode.
type Memory struct {
	mu     sync.RWMutex
	state  domain.FullState
	config *domain.SchoolConfig
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) FullState(ctx context.Context) (domain.FullState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Clone so response shaping (avatar stripping) cannot corrupt the
	// stored records through an aliased slice.
	state := m.state.Clone()
	if m.config != nil {
		cfg := *m.config
		state.Config = &cfg
	}
	return state, nil
}

func (m *Memory) UpsertRecord(ctx context.Context, collection domain.Collection, rec domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch collection {
	case domain.CollectionStudents:
		student, ok := rec.(domain.Student)
		if !ok {
			return fmt.Errorf("%w: expected Student payload", domain.ErrInvalidInput)
		}
		// A placeholder avatar must not erase a previously stored image.
		if domain.IsPlaceholderAvatar(student.Avatar) {
			for _, existing := range m.state.Students {
				if existing.ID == student.ID {
					student.Avatar = existing.Avatar
					break
				}
			}
		}
		m.state.Students = upsert(m.state.Students, student)
	case domain.CollectionAssignments:
		v, ok := rec.(domain.Assignment)
		if !ok {
			return fmt.Errorf("%w: expected Assignment payload", domain.ErrInvalidInput)
		}
		m.state.Assignments = upsert(m.state.Assignments, v)
	case domain.CollectionEvents:
		v, ok := rec.(domain.CalendarEvent)
		if !ok {
			return fmt.Errorf("%w: expected CalendarEvent payload", domain.ErrInvalidInput)
		}
		m.state.Events = upsert(m.state.Events, v)
	case domain.CollectionBehavior:
		v, ok := rec.(domain.BehaviorLog)
		if !ok {
			return fmt.Errorf("%w: expected BehaviorLog payload", domain.ErrInvalidInput)
		}
		m.state.Behavior = upsert(m.state.Behavior, v)
	case domain.CollectionFinance:
		v, ok := rec.(domain.FinanceEvent)
		if !ok {
			return fmt.Errorf("%w: expected FinanceEvent payload", domain.ErrInvalidInput)
		}
		m.state.Finance = upsert(m.state.Finance, v)
	case domain.CollectionStaffTasks:
		v, ok := rec.(domain.StaffTask)
		if !ok {
			return fmt.Errorf("%w: expected StaffTask payload", domain.ErrInvalidInput)
		}
		m.state.StaffTasks = upsert(m.state.StaffTasks, v)
	case domain.CollectionBooks:
		v, ok := rec.(domain.Book)
		if !ok {
			return fmt.Errorf("%w: expected Book payload", domain.ErrInvalidInput)
		}
		m.state.Books = upsert(m.state.Books, v)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}
	return nil
}

func (m *Memory) DeleteRecord(ctx context.Context, collection domain.Collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed bool
	switch collection {
	case domain.CollectionStudents:
		m.state.Students, removed = remove(m.state.Students, id)
	case domain.CollectionAssignments:
		m.state.Assignments, removed = remove(m.state.Assignments, id)
	case domain.CollectionEvents:
		m.state.Events, removed = remove(m.state.Events, id)
	case domain.CollectionBehavior:
		m.state.Behavior, removed = remove(m.state.Behavior, id)
	case domain.CollectionFinance:
		m.state.Finance, removed = remove(m.state.Finance, id)
	case domain.CollectionStaffTasks:
		m.state.StaffTasks, removed = remove(m.state.StaffTasks, id)
	case domain.CollectionBooks:
		m.state.Books, removed = remove(m.state.Books, id)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}
	if !removed {
		return fmt.Errorf("%w: %s/%s", domain.ErrRecordNotFound, collection, id)
	}
	return nil
}

func (m *Memory) StudentAvatars(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avatars := make(map[string]string)
	for _, s := range m.state.Students {
		if !domain.IsPlaceholderAvatar(s.Avatar) {
			avatars[s.ID] = s.Avatar
		}
	}
	return avatars, nil
}

func (m *Memory) GetConfig(ctx context.Context) (*domain.SchoolConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return nil, nil
	}
	cfg := *m.config
	return &cfg, nil
}

func (m *Memory) SetConfig(ctx context.Context, cfg domain.SchoolConfig) error {
	m.mu.Lock()
	m.config = &cfg
	m.mu.Unlock()
	return nil
}

func (m *Memory) ReplaceAll(ctx context.Context, state domain.FullState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := state.Config
	state.Config = nil
	state.IsOptimized = false
	state.IsEmpty = false
	m.state = state
	m.config = cfg
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() {}

func upsert[T domain.Record](list []T, rec T) []T {
	for i := range list {
		if list[i].RecordID() == rec.RecordID() {
			list[i] = rec
			return list
		}
	}
	return append(list, rec)
}

func remove[T domain.Record](list []T, id string) ([]T, bool) {
	for i := range list {
		if list[i].RecordID() == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}
