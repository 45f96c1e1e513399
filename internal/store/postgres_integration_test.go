package store

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/edudesk/edudesk/internal/database"
	"github.com/edudesk/edudesk/internal/domain"
)

var testConnString string

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()

	if !testing.Short() {
		ctx := context.Background()
		testConnString, terminate = setupContainer(ctx)
	}

	code := m.Run()

	if terminate != nil {
		terminate()
	}

	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("edudesk_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		_ = pgContainer.Terminate(ctx)
		return "", func() {}
	}

	if err := database.Migrate(connStr); err != nil {
		fmt.Printf("WARNING: Failed to run migrations: %v\n", err)
		_ = pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}

	pool, err := database.NewPool(testConnString, 5, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	p := NewPostgres(pool)
	require.NoError(t, p.ReplaceAll(context.Background(), domain.FullState{}))
	return p
}

func TestPostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestPostgres(t)

	student := domain.Student{ID: "s1", Name: "Amina Yusuf", Group: "3A", Avatar: "data:image/png;base64,AAA"}
	require.NoError(t, p.UpsertRecord(ctx, domain.CollectionStudents, student))
	require.NoError(t, p.UpsertRecord(ctx, domain.CollectionAssignments,
		domain.Assignment{ID: "a1", StudentID: "s1", Subject: "Math", Title: "Fractions"}))
	require.NoError(t, p.UpsertRecord(ctx, domain.CollectionBooks,
		domain.Book{ID: "b1", Title: "Atlas of the World"}))
	require.NoError(t, p.SetConfig(ctx, domain.SchoolConfig{SchoolName: "Hillside Primary"}))

	state, err := p.FullState(ctx)
	require.NoError(t, err)

	require.Len(t, state.Students, 1)
	assert.Equal(t, student, state.Students[0])
	require.Len(t, state.Assignments, 1)
	assert.Equal(t, "Fractions", state.Assignments[0].Title)
	require.Len(t, state.Books, 1)
	require.NotNil(t, state.Config)
	assert.Equal(t, "Hillside Primary", state.Config.SchoolName)
}

func TestPostgresAvatarGuard(t *testing.T) {
	ctx := context.Background()
	p := newTestPostgres(t)

	real := "data:image/png;base64,REAL"
	require.NoError(t, p.UpsertRecord(ctx, domain.CollectionStudents,
		domain.Student{ID: "s1", Name: "Amina", Avatar: real}))

	// Placeholder upsert keeps the stored image.
	require.NoError(t, p.UpsertRecord(ctx, domain.CollectionStudents,
		domain.Student{ID: "s1", Name: "Amina Updated", Avatar: domain.AvatarPlaceholder}))

	state, err := p.FullState(ctx)
	require.NoError(t, err)
	require.Len(t, state.Students, 1)
	assert.Equal(t, "Amina Updated", state.Students[0].Name)
	assert.Equal(t, real, state.Students[0].Avatar)

	avatars, err := p.StudentAvatars(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"s1": real}, avatars)
}

func TestPostgresDelete(t *testing.T) {
	ctx := context.Background()
	p := newTestPostgres(t)

	require.NoError(t, p.UpsertRecord(ctx, domain.CollectionBooks, domain.Book{ID: "b1", Title: "Atlas"}))
	require.NoError(t, p.DeleteRecord(ctx, domain.CollectionBooks, "b1"))

	err := p.DeleteRecord(ctx, domain.CollectionBooks, "b1")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestPostgresAvatarCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	p := newTestPostgres(t)

	require.NoError(t, p.UpsertRecord(ctx, domain.CollectionStudents,
		domain.Student{ID: "s1", Name: "Amina", Avatar: "data:image/png;base64,ONE"}))

	avatars, err := p.StudentAvatars(ctx)
	require.NoError(t, err)
	require.Len(t, avatars, 1)

	// A student write must invalidate the cached map.
	require.NoError(t, p.UpsertRecord(ctx, domain.CollectionStudents,
		domain.Student{ID: "s2", Name: "Binta", Avatar: "data:image/png;base64,TWO"}))

	avatars, err = p.StudentAvatars(ctx)
	require.NoError(t, err)
	assert.Len(t, avatars, 2)
}

func TestPostgresReplaceAll(t *testing.T) {
	ctx := context.Background()
	p := newTestPostgres(t)

	require.NoError(t, p.UpsertRecord(ctx, domain.CollectionBooks, domain.Book{ID: "stale", Title: "Stale"}))

	require.NoError(t, p.ReplaceAll(ctx, domain.FullState{
		Students: []domain.Student{{ID: "s1", Name: "Amina"}},
		Config:   &domain.SchoolConfig{SchoolName: "Hillside"},
	}))

	state, err := p.FullState(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Books)
	require.Len(t, state.Students, 1)
	require.NotNil(t, state.Config)
}
