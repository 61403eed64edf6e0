// Package tasks holds the task list shown in the main window.
package tasks

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("task not found")
	ErrEmptyText = errors.New("task text is empty")
)

type Task struct {
	ID        int64
	Text      string
	Completed bool
	CreatedAt time.Time
}

// Patch carries the fields to change; nil fields are left alone.
type Patch struct {
	Text      *string
	Completed *bool
}

type Store interface {
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id int64) (Task, error)
	Create(ctx context.Context, text string, completed bool) (Task, error)
	Toggle(ctx context.Context, id int64) (Task, error)
	Update(ctx context.Context, id int64, p Patch) (Task, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

func cleanText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyText
	}
	return s, nil
}

var seedTexts = []string{
	"Review pull requests",
	"Update dependencies",
	"Write release notes",
	"Profile startup path",
	"Triage new issues",
	"Refresh screenshots",
	"Check memory regression",
	"Tidy build scripts",
}

// Seed fills an empty store with n sample tasks. Stores that already hold
// tasks are left alone.
func Seed(ctx context.Context, s Store, n int) error {
	existing, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		text := seedTexts[i%len(seedTexts)]
		if i >= len(seedTexts) {
			text += " #" + strconv.Itoa(i/len(seedTexts)+1)
		}
		if _, err := s.Create(ctx, text, i%3 == 0); err != nil {
			return err
		}
	}
	return nil
}

