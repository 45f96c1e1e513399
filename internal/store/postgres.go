package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edudesk/edudesk/internal/domain"
)

// collectionTables maps collections to their table names. Every table
// carries (id TEXT PK, data JSONB, updated_at); students additionally
// have indexed name/group columns and a dedicated avatar column so the
// placeholder guard and the avatars query never touch the JSONB blob.
var collectionTables = map[domain.Collection]string{
	domain.CollectionStudents:    "students",
	domain.CollectionAssignments: "assignments",
	domain.CollectionEvents:      "calendar_events",
	domain.CollectionBehavior:    "behavior_logs",
	domain.CollectionFinance:     "finance_events",
	domain.CollectionStaffTasks:  "staff_tasks",
	domain.CollectionBooks:       "books",
}

// Postgres implements Store over a pgx connection pool.
type Postgres struct {
	db      *pgxpool.Pool
	avatars *expirable.LRU[string, map[string]string]
}

// NewPostgres creates a Postgres store backed by the given pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{
		db:      db,
		avatars: expirable.NewLRU[string, map[string]string](AvatarCacheSize, nil, AvatarCacheTTL),
	}
}

func (p *Postgres) FullState(ctx context.Context) (domain.FullState, error) {
	var state domain.FullState

	if err := loadCollection(ctx, p.db, domain.CollectionAssignments, &state.Assignments); err != nil {
		return state, err
	}
	if err := loadCollection(ctx, p.db, domain.CollectionEvents, &state.Events); err != nil {
		return state, err
	}
	if err := loadCollection(ctx, p.db, domain.CollectionBehavior, &state.Behavior); err != nil {
		return state, err
	}
	if err := loadCollection(ctx, p.db, domain.CollectionFinance, &state.Finance); err != nil {
		return state, err
	}
	if err := loadCollection(ctx, p.db, domain.CollectionStaffTasks, &state.StaffTasks); err != nil {
		return state, err
	}
	if err := loadCollection(ctx, p.db, domain.CollectionBooks, &state.Books); err != nil {
		return state, err
	}

	students, err := p.loadStudents(ctx)
	if err != nil {
		return state, err
	}
	state.Students = students

	cfg, err := p.GetConfig(ctx)
	if err != nil {
		return state, err
	}
	state.Config = cfg

	return state, nil
}

// loadStudents reads the students table, overriding the JSONB avatar
// with the dedicated column, which is authoritative under the guard.
func (p *Postgres) loadStudents(ctx context.Context) ([]domain.Student, error) {
	rows, err := p.db.Query(ctx, `
		SELECT data, avatar FROM students ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var (
			data   []byte
			avatar string
		)
		if err := rows.Scan(&data, &avatar); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		var s domain.Student
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to decode student: %w", err)
		}
		s.Avatar = avatar
		students = append(students, s)
	}
	return students, rows.Err()
}

func loadCollection[T domain.Record](ctx context.Context, db *pgxpool.Pool, collection domain.Collection, out *[]T) error {
	query := fmt.Sprintf(`SELECT data FROM %s ORDER BY created_at, id`, collectionTables[collection])
	rows, err := db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", collection, err)
		}
		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to decode %s row: %w", collection, err)
		}
		*out = append(*out, rec)
	}
	return rows.Err()
}

func (p *Postgres) UpsertRecord(ctx context.Context, collection domain.Collection, rec domain.Record) error {
	if collection == domain.CollectionStudents {
		student, ok := rec.(domain.Student)
		if !ok {
			return fmt.Errorf("%w: expected Student payload", domain.ErrInvalidInput)
		}
		return p.upsertStudent(ctx, p.db, student)
	}

	table, ok := collectionTables[collection]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}
	return upsertGeneric(ctx, p.db, table, rec)
}

// pgxExecer is satisfied by both *pgxpool.Pool and pgx.Tx, so the
// upsert helpers run standalone or inside the bulk-replace transaction.
type pgxExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// upsertStudent writes one student row. The avatar column keeps its
// previous value whenever the incoming avatar is a placeholder; the
// guard lives server-side so no client can erase a real image.
func (p *Postgres) upsertStudent(ctx context.Context, db pgxExecer, student domain.Student) error {
	data, err := json.Marshal(student)
	if err != nil {
		return fmt.Errorf("failed to encode student: %w", err)
	}

	query := `
		INSERT INTO students (id, name, group_name, avatar, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			group_name = EXCLUDED.group_name,
			avatar = CASE
				WHEN EXCLUDED.avatar = '' OR EXCLUDED.avatar = $6
				THEN students.avatar
				ELSE EXCLUDED.avatar
			END,
			data = EXCLUDED.data,
			updated_at = NOW()
	`
	if _, err := db.Exec(ctx, query,
		student.ID, student.Name, student.Group, student.Avatar, data,
		domain.AvatarPlaceholder,
	); err != nil {
		return fmt.Errorf("failed to upsert student: %w", err)
	}

	p.avatars.Purge()
	return nil
}

func upsertGeneric(ctx context.Context, db pgxExecer, table string, rec domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, data, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
	`, table)
	if _, err := db.Exec(ctx, query, rec.RecordID(), data); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", table, err)
	}
	return nil
}

func (p *Postgres) DeleteRecord(ctx context.Context, collection domain.Collection, id string) error {
	table, ok := collectionTables[collection]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}

	tag, err := p.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", domain.ErrRecordNotFound, collection, id)
	}

	if collection == domain.CollectionStudents {
		p.avatars.Purge()
	}
	return nil
}

func (p *Postgres) StudentAvatars(ctx context.Context) (map[string]string, error) {
	if cached, ok := p.avatars.Get(avatarCacheKey); ok {
		return cached, nil
	}

	rows, err := p.db.Query(ctx, `
		SELECT id, avatar FROM students
		WHERE avatar <> '' AND avatar <> $1
	`, domain.AvatarPlaceholder)
	if err != nil {
		return nil, fmt.Errorf("failed to query avatars: %w", err)
	}
	defer rows.Close()

	avatars := make(map[string]string)
	for rows.Next() {
		var id, avatar string
		if err := rows.Scan(&id, &avatar); err != nil {
			return nil, fmt.Errorf("failed to scan avatar: %w", err)
		}
		avatars[id] = avatar
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	p.avatars.Add(avatarCacheKey, avatars)
	return avatars, nil
}

func (p *Postgres) GetConfig(ctx context.Context) (*domain.SchoolConfig, error) {
	var data []byte
	err := p.db.QueryRow(ctx, `SELECT data FROM school_config WHERE singleton = TRUE`).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg domain.SchoolConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func (p *Postgres) SetConfig(ctx context.Context, cfg domain.SchoolConfig) error {
	return setConfig(ctx, p.db, cfg)
}

func setConfig(ctx context.Context, db pgxExecer, cfg domain.SchoolConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	query := `
		INSERT INTO school_config (singleton, data, updated_at)
		VALUES (TRUE, $1, NOW())
		ON CONFLICT (singleton) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
	`
	if _, err := db.Exec(ctx, query, data); err != nil {
		return fmt.Errorf("failed to upsert config: %w", err)
	}
	return nil
}

// ReplaceAll wipes and reloads every table in one transaction.
func (p *Postgres) ReplaceAll(ctx context.Context, state domain.FullState) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTx, err)
	}
	defer tx.Rollback(ctx)

	for _, table := range collectionTables {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, s := range state.Students {
		if err := p.upsertStudent(ctx, tx, s); err != nil {
			return err
		}
	}
	for _, r := range state.Assignments {
		if err := upsertGeneric(ctx, tx, collectionTables[domain.CollectionAssignments], r); err != nil {
			return err
		}
	}
	for _, r := range state.Events {
		if err := upsertGeneric(ctx, tx, collectionTables[domain.CollectionEvents], r); err != nil {
			return err
		}
	}
	for _, r := range state.Behavior {
		if err := upsertGeneric(ctx, tx, collectionTables[domain.CollectionBehavior], r); err != nil {
			return err
		}
	}
	for _, r := range state.Finance {
		if err := upsertGeneric(ctx, tx, collectionTables[domain.CollectionFinance], r); err != nil {
			return err
		}
	}
	for _, r := range state.StaffTasks {
		if err := upsertGeneric(ctx, tx, collectionTables[domain.CollectionStaffTasks], r); err != nil {
			return err
		}
	}
	for _, r := range state.Books {
		if err := upsertGeneric(ctx, tx, collectionTables[domain.CollectionBooks], r); err != nil {
			return err
		}
	}

	if state.Config != nil {
		if err := setConfig(ctx, tx, *state.Config); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bulk replace: %w", err)
	}

	p.avatars.Purge()
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *Postgres) Close() {
	p.db.Close()
}
