package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samber/do"

	_ "modernc.org/sqlite"

	"lichbot/app/config"
	"lichbot/app/service/convstate"
)

var _ do.Shutdownable = (*Service)(nil)

// Task is a persisted task or calendar event.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Date        string // YYYY-MM-DD, empty for undated tasks
	Time        string // HH:MM, empty for untimed tasks
	Attendees   []string
	Location    string
	Description string
	Type        convstate.TaskType
	CreatedAt   int64
	UpdatedAt   int64
}

// StartsAt combines the stored date and time into a wall-clock instant.
func (t Task) StartsAt(loc *time.Location) (time.Time, bool) {
	if t.Date == "" {
		return time.Time{}, false
	}

	clock := t.Time
	if clock == "" {
		clock = "00:00"
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", t.Date+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}

	return start, true
}

// Service persists finished drafts and serves calendar lookups.
type Service struct {
	db *sql.DB
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return Open(cfg.DB.Dir)
}

// Open creates the sqlite database under dir and initializes the schema.
func Open(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "lichbot.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	s := &Service{db: db}
	if err = s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *Service) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		date TEXT NOT NULL DEFAULT '',
		time TEXT NOT NULL DEFAULT '',
		attendees TEXT NOT NULL DEFAULT '[]',
		location TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT 'task',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks (type, date)`)

	return err
}

// UpsertTask stores a finished draft for the user, assigning an id when the
// task is new.
func (s *Service) UpsertTask(ctx context.Context, t Task) (Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	now := time.Now().Unix()
	if t.CreatedAt == 0 {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	attendees, err := json.Marshal(t.Attendees)
	if err != nil {
		return Task{}, fmt.Errorf("failed to marshal attendees: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks
		(id, user_id, title, date, time, attendees, location, description, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			date = excluded.date,
			time = excluded.time,
			attendees = excluded.attendees,
			location = excluded.location,
			description = excluded.description,
			type = excluded.type,
			updated_at = excluded.updated_at`,
		t.ID, t.UserID, t.Title, t.Date, t.Time, string(attendees),
		t.Location, t.Description, string(t.Type), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("failed to upsert task: %w", err)
	}

	return t, nil
}

// ListEvents returns calendar entries whose date falls inside the range,
// inclusive on both ends.
func (s *Service) ListEvents(ctx context.Context, from, to time.Time) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, user_id, title, date, time, attendees, location, description, type, created_at, updated_at
		FROM tasks
		WHERE type = 'calendar' AND date != '' AND date >= ? AND date <= ?
		ORDER BY date, time`,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var items []Task
	for rows.Next() {
		var t Task
		var attendees string

		if err = rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Date, &t.Time, &attendees,
			&t.Location, &t.Description, &t.Type, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if err = json.Unmarshal([]byte(attendees), &t.Attendees); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attendees: %w", err)
		}

		items = append(items, t)
	}

	return items, rows.Err()
}

// ListUserTasks returns the user's stored tasks, newest first.
func (s *Service) ListUserTasks(ctx context.Context, userID string, limit int) ([]Task, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, user_id, title, date, time, attendees, location, description, type, created_at, updated_at
		FROM tasks WHERE user_id = ? ORDER BY updated_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	items := make([]Task, 0, limit)
	for rows.Next() {
		var t Task
		var attendees string

		if err = rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Date, &t.Time, &attendees,
			&t.Location, &t.Description, &t.Type, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		if err = json.Unmarshal([]byte(attendees), &t.Attendees); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attendees: %w", err)
		}

		items = append(items, t)
	}

	return items, rows.Err()
}

func (s *Service) Shutdown() error {
	return s.db.Close()
}
