package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
)

const userColumns = `id, telegram_id, username, balance, earned, referrer_id,
	referral_count, earned_from_referrals, banned, registered_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.Balance, &u.Earned,
		&u.ReferrerID, &u.ReferralCount, &u.EarnedFromReferrals, &u.Banned, &u.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (telegram_id, username) VALUES ($1, $2)
		RETURNING `+userColumns, telegramID, username)
	return scanUser(row)
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID))
}

func (s *Store) UpdateUsername(ctx context.Context, id int64, username string) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET username = $2 WHERE id = $1`, id, username)
	return err
}

func (s *Store) SetReferrer(ctx context.Context, id, referrerID int64) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET referrer_id = $2 WHERE id = $1 AND referrer_id IS NULL`, id, referrerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	_, err = s.db.Exec(ctx, `
		UPDATE users SET referral_count = referral_count + 1 WHERE id = $1`, referrerID)
	return err
}

func (s *Store) AddEarnings(ctx context.Context, id int64, amount decimal.Decimal) error {
	_, err := s.db.Exec(ctx, `
		UPDATE users SET balance = balance + $2, earned = earned + $2 WHERE id = $1`, id, amount)
	return err
}

func (s *Store) AddReferralEarnings(ctx context.Context, id int64, amount decimal.Decimal) error {
	_, err := s.db.Exec(ctx, `
		UPDATE users SET balance = balance + $2, earned_from_referrals = earned_from_referrals + $2
		WHERE id = $1`, id, amount)
	return err
}

func (s *Store) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET balance = balance + $2 WHERE id = $1`, id, delta)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		return domain.ErrInsufficientBalance
	}
	return err
}

func (s *Store) SetBanned(ctx context.Context, id int64, banned bool) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET banned = $2 WHERE id = $1`, id, banned)
	return err
}

func (s *Store) ListUsers(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY banned, balance DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) ListActiveTelegramIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT telegram_id FROM users WHERE NOT banned ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) GetUserOverview(ctx context.Context, id int64) (*domain.UserOverview, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	overview := &domain.UserOverview{User: *user}
	err = s.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM completions WHERE user_id = $1),
			(SELECT count(*) FROM payments WHERE user_id = $1)`,
		id).Scan(&overview.CompletedTasks, &overview.Payments)
	if err != nil {
		return nil, fmt.Errorf("user overview: %w", err)
	}
	return overview, nil
}

func (s *Store) GetStats(ctx context.Context) (*domain.Stats, error) {
	var st domain.Stats
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM users WHERE banned),
			(SELECT count(*) FROM tasks WHERE active),
			(SELECT count(*) FROM completions),
			(SELECT COALESCE(sum(balance), 0) FROM users),
			(SELECT COALESCE(sum(earned_from_referrals), 0) FROM users),
			(SELECT COALESCE(sum(amount), 0) FROM payments WHERE status = 'approved'),
			(SELECT COALESCE(sum(amount), 0) FROM payments WHERE status = 'pending')`).
		Scan(&st.Users, &st.Banned, &st.ActiveTasks, &st.Completions,
			&st.TotalBalance, &st.ReferralEarnings, &st.PaidOut, &st.PendingPayout)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &st, nil
}
