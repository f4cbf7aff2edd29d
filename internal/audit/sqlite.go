package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_entries (
	id          TEXT PRIMARY KEY,
	actor       TEXT NOT NULL,
	action      TEXT NOT NULL,
	source_id   INTEGER NOT NULL,
	target_id   INTEGER,
	target_name TEXT NOT NULL DEFAULT '',
	task_id     TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_entries(created_at DESC);
`

// SQLiteStore implements Recorder on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if necessary bootstraps) the audit database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	// modernc's driver takes pragmas as _pragma=name(value) query
	// parameters; WAL keeps concurrent CLI invocations from tripping over
	// each other.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap audit schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Begin implements Recorder.
func (s *SQLiteStore) Begin(ctx context.Context, e Entry) (*Entry, error) {
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.Status = StatusPending
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries
			(id, actor, action, source_id, target_id, target_name, task_id, status, detail, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Actor, string(e.Action), e.SourceID, nullableInt(e.TargetID),
		e.TargetName, e.TaskID, string(e.Status), e.Detail, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert audit entry: %w", err)
	}
	return &e, nil
}

// Complete implements Recorder.
func (s *SQLiteStore) Complete(ctx context.Context, id string, targetID *int, taskID string) error {
	return s.settle(ctx, id, StatusCompleted, targetID, taskID, "")
}

// Fail implements Recorder.
func (s *SQLiteStore) Fail(ctx context.Context, id, detail string) error {
	return s.settle(ctx, id, StatusFailed, nil, "", detail)
}

func (s *SQLiteStore) settle(ctx context.Context, id string, status Status, targetID *int, taskID, detail string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE audit_entries
		SET status = ?,
		    target_id = COALESCE(?, target_id),
		    task_id = CASE WHEN ? != '' THEN ? ELSE task_id END,
		    detail = CASE WHEN ? != '' THEN ? ELSE detail END,
		    updated_at = ?
		WHERE id = ?`,
		string(status), nullableInt(targetID), taskID, taskID, detail, detail,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update audit entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("audit entry %s not found", id)
	}
	return nil
}

// List implements Recorder.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, action, source_id, target_id, target_name, task_id, status, detail, created_at, updated_at
		FROM audit_entries
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			action   string
			status   string
			targetID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Actor, &action, &e.SourceID, &targetID,
			&e.TargetName, &e.TaskID, &status, &e.Detail, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = Action(action)
		e.Status = Status(status)
		if targetID.Valid {
			v := int(targetID.Int64)
			e.TargetID = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

var _ Recorder = (*SQLiteStore)(nil)
