package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk/internal/domain"
)

func TestMemoryUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionStudents, domain.Student{ID: "s1", Name: "Amina"}))
	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionBooks, domain.Book{ID: "b1", Title: "Atlas"}))

	state, err := m.FullState(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Students, 1)
	assert.Len(t, state.Books, 1)

	t.Run("upsert replaces by id", func(t *testing.T) {
		require.NoError(t, m.UpsertRecord(ctx, domain.CollectionStudents, domain.Student{ID: "s1", Name: "Amina Renamed"}))
		state, err := m.FullState(ctx)
		require.NoError(t, err)
		require.Len(t, state.Students, 1)
		assert.Equal(t, "Amina Renamed", state.Students[0].Name)
	})

	t.Run("delete removes record", func(t *testing.T) {
		require.NoError(t, m.DeleteRecord(ctx, domain.CollectionBooks, "b1"))
		state, err := m.FullState(ctx)
		require.NoError(t, err)
		assert.Empty(t, state.Books)
	})

	t.Run("delete of missing record returns not found", func(t *testing.T) {
		err := m.DeleteRecord(ctx, domain.CollectionBooks, "nope")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("unknown collection rejected", func(t *testing.T) {
		err := m.DeleteRecord(ctx, domain.Collection("aliens"), "x")
		assert.ErrorIs(t, err, domain.ErrUnknownCollection)
	})
}

func TestMemoryAvatarGuard(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	real := "data:image/png;base64,REAL"
	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionStudents, domain.Student{ID: "s1", Name: "Amina", Avatar: real}))

	// A placeholder avatar on a later upsert keeps the stored image.
	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionStudents, domain.Student{ID: "s1", Name: "Amina", Avatar: domain.AvatarPlaceholder}))

	state, err := m.FullState(ctx)
	require.NoError(t, err)
	assert.Equal(t, real, state.Students[0].Avatar)

	// A real avatar still replaces the stored one.
	updated := "data:image/png;base64,NEW"
	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionStudents, domain.Student{ID: "s1", Name: "Amina", Avatar: updated}))
	state, err = m.FullState(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, state.Students[0].Avatar)
}

func TestMemoryFullStateDoesNotAliasStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	real := "data:image/png;base64,REAL"
	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionStudents, domain.Student{ID: "s1", Name: "Amina", Avatar: real}))

	// Mutating a returned state (as response optimization does) must not
	// touch the stored records.
	state, err := m.FullState(ctx)
	require.NoError(t, err)
	state.StripAvatars()
	state.Students[0].Name = "Scribbled"

	avatars, err := m.StudentAvatars(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"s1": real}, avatars)

	stored, err := m.FullState(ctx)
	require.NoError(t, err)
	assert.Equal(t, real, stored.Students[0].Avatar)
	assert.Equal(t, "Amina", stored.Students[0].Name)
}

func TestMemoryStudentAvatars(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionStudents, domain.Student{ID: "s1", Avatar: "data:image/png;base64,AAA", Name: "A"}))
	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionStudents, domain.Student{ID: "s2", Avatar: domain.AvatarPlaceholder, Name: "B"}))
	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionStudents, domain.Student{ID: "s3", Name: "C"}))

	avatars, err := m.StudentAvatars(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"s1": "data:image/png;base64,AAA"}, avatars)
}

func TestMemoryConfig(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	cfg, err := m.GetConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	require.NoError(t, m.SetConfig(ctx, domain.SchoolConfig{SchoolName: "Hillside"}))
	cfg, err = m.GetConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "Hillside", cfg.SchoolName)
}

func TestMemoryReplaceAll(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.UpsertRecord(ctx, domain.CollectionBooks, domain.Book{ID: "old", Title: "Old"}))

	incoming := domain.FullState{
		Students: []domain.Student{{ID: "s1", Name: "Amina"}},
		Config:   &domain.SchoolConfig{SchoolName: "Hillside"},
	}
	require.NoError(t, m.ReplaceAll(ctx, incoming))

	state, err := m.FullState(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Books)
	assert.Len(t, state.Students, 1)
	require.NotNil(t, state.Config)
	assert.Equal(t, "Hillside", state.Config.SchoolName)
}
