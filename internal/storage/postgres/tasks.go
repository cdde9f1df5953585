package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/perchik2875/ONI/internal/domain"
)

const taskColumns = `id, description, link, reward, created_at, active, max_completions, completions_count`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.Description, &t.Link, &t.Reward, &t.CreatedAt,
		&t.Active, &t.MaxCompletions, &t.CompletionsCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO tasks (description, link, reward, max_completions)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns,
		task.Description, task.Link, task.Reward, task.MaxCompletions)
	return scanTask(row)
}

func (s *Store) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return scanTask(s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

func (s *Store) GetTaskForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	return scanTask(s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) listTasks(ctx context.Context, query string) ([]domain.Task, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) ListAvailableTasks(ctx context.Context) ([]domain.Task, error) {
	return s.listTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE active AND (max_completions IS NULL OR completions_count < max_completions)
		ORDER BY id`)
}

func (s *Store) ListAllTasks(ctx context.Context) ([]domain.Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id DESC`)
}

func (s *Store) SetTaskActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE tasks SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (s *Store) AdjustCompletionsCount(ctx context.Context, id int64, delta int) error {
	_, err := s.db.Exec(ctx, `
		UPDATE tasks SET completions_count = completions_count + $2 WHERE id = $1`, id, delta)
	return err
}

// DeleteTask removes the task row; completions and their proofs go with it
// via ON DELETE CASCADE.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
