package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS tasks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	text       TEXT    NOT NULL,
	completed  INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
)`

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the task database at path. Use
// ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open task db: %w", err)
	}
	// one connection keeps ":memory:" a single database
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping task db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tasks table: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns every task, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, completed, created_at FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, text, completed, created_at FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *SQLiteStore) Create(ctx context.Context, text string, completed bool) (Task, error) {
	text, err := cleanText(text)
	if err != nil {
		return Task{}, err
	}
	created := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (text, completed, created_at) VALUES (?, ?, ?)`,
		text, completed, created.UnixNano())
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return Task{ID: id, Text: text, Completed: completed, CreatedAt: time.Unix(0, created.UnixNano()).UTC()}, nil
}

func (s *SQLiteStore) Toggle(ctx context.Context, id int64) (Task, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = 1 - completed WHERE id = ?`, id)
	if err := affected(res, err, "toggle", id); err != nil {
		return Task{}, err
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, p Patch) (Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if p.Text != nil {
		if t.Text, err = cleanText(*p.Text); err != nil {
			return Task{}, err
		}
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET text = ?, completed = ? WHERE id = ?`, t.Text, t.Completed, id)
	if err := affected(res, err, "update", id); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return affected(res, err, "delete", id)
}

func affected(res sql.Result, err error, op string, id int64) error {
	if err != nil {
		return fmt.Errorf("%s task %d: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s task %d: %w", op, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (Task, error) {
	var (
		t       Task
		created int64
	)
	if err := sc.Scan(&t.ID, &t.Text, &t.Completed, &created); err != nil {
		return Task{}, err
	}
	t.CreatedAt = time.Unix(0, created).UTC()
	return t, nil
}
