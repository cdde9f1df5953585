package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/perchik2875/ONI/internal/domain"
)

const uniqueViolation = "23505"

func (s *Store) CreateCompletion(ctx context.Context, userID, taskID int64, proofs []string) (*domain.Completion, error) {
	var c domain.Completion
	err := s.db.QueryRow(ctx, `
		INSERT INTO completions (user_id, task_id) VALUES ($1, $2)
		RETURNING id, user_id, task_id, submitted_at, verified`,
		userID, taskID).
		Scan(&c.ID, &c.UserID, &c.TaskID, &c.SubmittedAt, &c.Verified)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("create completion: %w", err)
	}

	for i, fileID := range proofs {
		_, err := s.db.Exec(ctx, `
			INSERT INTO completion_proofs (completion_id, file_id, position) VALUES ($1, $2, $3)`,
			c.ID, fileID, i+1)
		if err != nil {
			return nil, fmt.Errorf("create proof %d: %w", i+1, err)
		}
	}
	c.Proofs = proofs
	return &c, nil
}

func (s *Store) GetCompletion(ctx context.Context, userID, taskID int64) (*domain.Completion, error) {
	var c domain.Completion
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, task_id, submitted_at, verified
		FROM completions WHERE user_id = $1 AND task_id = $2`,
		userID, taskID).
		Scan(&c.ID, &c.UserID, &c.TaskID, &c.SubmittedAt, &c.Verified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, fmt.Errorf("get completion: %w", err)
	}

	proofs, err := s.listProofs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Proofs = proofs
	return &c, nil
}

func (s *Store) listProofs(ctx context.Context, completionID int64) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT file_id FROM completion_proofs WHERE completion_id = $1 ORDER BY position`,
		completionID)
	if err != nil {
		return nil, fmt.Errorf("list proofs: %w", err)
	}
	defer rows.Close()

	var proofs []string
	for rows.Next() {
		var fileID string
		if err := rows.Scan(&fileID); err != nil {
			return nil, err
		}
		proofs = append(proofs, fileID)
	}
	return proofs, rows.Err()
}

func (s *Store) MarkVerified(ctx context.Context, completionID int64) error {
	tag, err := s.db.Exec(ctx, `UPDATE completions SET verified = TRUE WHERE id = $1`, completionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCompletionNotFound
	}
	return nil
}

func (s *Store) DeleteCompletion(ctx context.Context, completionID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM completions WHERE id = $1`, completionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCompletionNotFound
	}
	return nil
}

func (s *Store) ListPendingCompletions(ctx context.Context) ([]domain.PendingCompletion, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.user_id, c.task_id, c.submitted_at, c.verified,
			t.description, t.reward, u.username, u.telegram_id
		FROM completions c
		JOIN tasks t ON t.id = c.task_id
		JOIN users u ON u.id = c.user_id
		WHERE NOT c.verified
		ORDER BY c.submitted_at`)
	if err != nil {
		return nil, fmt.Errorf("list pending completions: %w", err)
	}
	defer rows.Close()

	var pending []domain.PendingCompletion
	for rows.Next() {
		var p domain.PendingCompletion
		err := rows.Scan(&p.ID, &p.UserID, &p.TaskID, &p.SubmittedAt, &p.Verified,
			&p.TaskDescription, &p.Reward, &p.Username, &p.UserTelegramID)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range pending {
		proofs, err := s.listProofs(ctx, pending[i].ID)
		if err != nil {
			return nil, err
		}
		pending[i].Proofs = proofs
	}
	return pending, nil
}
