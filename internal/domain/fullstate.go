package domain

// FullState is the bulk payload returned by GET /api/full-state and
// accepted by POST /api/sync. Avatars may be stripped from Students when
// the response is size-optimized; IsOptimized signals that a follow-up
// avatars fetch is required.
type FullState struct {
	Students    []Student       `json:"students"`
	Assignments []Assignment    `json:"assignments"`
	Events      []CalendarEvent `json:"events"`
	Behavior    []BehaviorLog   `json:"behavior"`
	Finance     []FinanceEvent  `json:"finance"`
	StaffTasks  []StaffTask     `json:"staffTasks"`
	Books       []Book          `json:"books"`
	Config      *SchoolConfig   `json:"config,omitempty"`

	IsOptimized bool `json:"isOptimized,omitempty"`
	IsEmpty     bool `json:"isEmpty,omitempty"`
}

// Clone returns a copy whose collection slices do not alias the
// receiver's backing arrays, so callers may strip or merge avatars
// without mutating shared state.
func (fs FullState) Clone() FullState {
	out := fs
	out.Students = append([]Student(nil), fs.Students...)
	out.Assignments = append([]Assignment(nil), fs.Assignments...)
	out.Events = append([]CalendarEvent(nil), fs.Events...)
	out.Behavior = append([]BehaviorLog(nil), fs.Behavior...)
	out.Finance = append([]FinanceEvent(nil), fs.Finance...)
	out.StaffTasks = append([]StaffTask(nil), fs.StaffTasks...)
	out.Books = append([]Book(nil), fs.Books...)
	if fs.Config != nil {
		cfg := *fs.Config
		cfg.Groups = append([]string(nil), fs.Config.Groups...)
		out.Config = &cfg
	}
	return out
}

// Empty reports whether every collection is empty and no config is set.
func (fs FullState) Empty() bool {
	return len(fs.Students) == 0 &&
		len(fs.Assignments) == 0 &&
		len(fs.Events) == 0 &&
		len(fs.Behavior) == 0 &&
		len(fs.Finance) == 0 &&
		len(fs.StaffTasks) == 0 &&
		len(fs.Books) == 0 &&
		fs.Config == nil
}

// StripAvatars replaces every real student avatar with the placeholder
// and marks the state optimized. Returns the number of avatars stripped.
func (fs *FullState) StripAvatars() int {
	stripped := 0
	for i := range fs.Students {
		if !IsPlaceholderAvatar(fs.Students[i].Avatar) {
			fs.Students[i].Avatar = AvatarPlaceholder
			stripped++
		}
	}
	if stripped > 0 {
		fs.IsOptimized = true
	}
	return stripped
}

// MergeAvatars fills placeholder avatars from a student-id keyed map.
// Students whose id is absent from the map keep their current value.
func (fs *FullState) MergeAvatars(avatars map[string]string) {
	for i := range fs.Students {
		if real, ok := avatars[fs.Students[i].ID]; ok && real != "" {
			fs.Students[i].Avatar = real
		}
	}
	fs.IsOptimized = false
}
