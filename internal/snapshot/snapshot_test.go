package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	students := []domain.Student{
		{ID: "s1", Name: "Amina Diallo", Group: "5A"},
		{ID: "s2", Name: "Jonas Weber", Group: "5B"},
	}
	require.NoError(t, store.Write(KeyStudents, students))

	var got []domain.Student
	found, err := store.Read(KeyStudents, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, students, got)
}

func TestReadAbsentKeyIsEmpty(t *testing.T) {
	store := newTestStore(t)

	var got []domain.Student
	found, err := store.Read(KeyStudents, &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, got)
}

func TestReadUnparseableIsEmpty(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(store.Dir(), KeyStudents+FileExtension)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), FilePermissions))

	var got []domain.Student
	found, err := store.Read(KeyStudents, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWriteIsolationBetweenKeys(t *testing.T) {
	store := newTestStore(t)

	books := []domain.Book{{ID: "b1", Title: "The Little Prince"}}
	require.NoError(t, store.Write(KeyBooks, books))

	// Writing students must not alter the stored books value.
	require.NoError(t, store.Write(KeyStudents, []domain.Student{{ID: "s1", Name: "Amina"}}))

	var gotBooks []domain.Book
	found, err := store.Read(KeyBooks, &gotBooks)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, books, gotBooks)
}

func TestOverwriteReplacesValue(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Write(KeyConfig, domain.SchoolConfig{SchoolName: "Old Name"}))
	require.NoError(t, store.Write(KeyConfig, domain.SchoolConfig{SchoolName: "New Name"}))

	var got domain.SchoolConfig
	found, err := store.Read(KeyConfig, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "New Name", got.SchoolName)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Write(KeyQueue, []string{"x"}))
	require.NoError(t, store.Delete(KeyQueue))

	var got []string
	found, err := store.Read(KeyQueue, &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete(KeyQueue))
}

func TestRecoverLegacy(t *testing.T) {
	t.Run("Promotes Parseable Legacy Data", func(t *testing.T) {
		store := newTestStore(t)

		legacy := `[{"id":"s1","name":"Amina Diallo"}]`
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "school_students.json"), []byte(legacy), FilePermissions))

		recovered, err := store.RecoverLegacy()
		require.NoError(t, err)
		assert.Equal(t, []string{KeyStudents}, recovered)

		var got []domain.Student
		found, err := store.Read(KeyStudents, &got)
		require.NoError(t, err)
		require.True(t, found)
		require.Len(t, got, 1)
		assert.Equal(t, "Amina Diallo", got[0].Name)
	})

	t.Run("Skips Unparseable Legacy Data", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "school_books.json"), []byte("### broken"), FilePermissions))

		recovered, err := store.RecoverLegacy()
		require.NoError(t, err)
		assert.Empty(t, recovered)
	})

	t.Run("Never Overwrites Active Keys", func(t *testing.T) {
		store := newTestStore(t)

		current := []domain.Student{{ID: "s9", Name: "Current"}}
		require.NoError(t, store.Write(KeyStudents, current))
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "school_students.json"), []byte(`[{"id":"old"}]`), FilePermissions))

		recovered, err := store.RecoverLegacy()
		require.NoError(t, err)
		assert.Empty(t, recovered)

		var got []domain.Student
		_, err = store.Read(KeyStudents, &got)
		require.NoError(t, err)
		assert.Equal(t, current, got)
	})

	t.Run("Nothing To Recover", func(t *testing.T) {
		store := newTestStore(t)
		recovered, err := store.RecoverLegacy()
		require.NoError(t, err)
		assert.Empty(t, recovered)
	})
}
