package postgres

import (
	"context"
	"fmt"

	"github.com/perchik2875/ONI/internal/domain"
)

func (s *Store) CreateReferralEarning(ctx context.Context, earning *domain.ReferralEarning) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO referral_earnings (referrer_id, referral_id, amount, description)
		VALUES ($1, $2, $3, $4)`,
		earning.ReferrerID, earning.ReferralID, earning.Amount, earning.Description)
	if err != nil {
		return fmt.Errorf("create referral earning: %w", err)
	}
	return nil
}

func (s *Store) ListReferralEarnings(ctx context.Context, referrerID int64, limit int) ([]domain.ReferralEarningDetail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT e.id, e.referrer_id, e.referral_id, e.amount, e.earned_at, e.description, u.username
		FROM referral_earnings e
		JOIN users u ON u.id = e.referral_id
		WHERE e.referrer_id = $1
		ORDER BY e.earned_at DESC
		LIMIT $2`, referrerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list referral earnings: %w", err)
	}
	defer rows.Close()

	var earnings []domain.ReferralEarningDetail
	for rows.Next() {
		var e domain.ReferralEarningDetail
		err := rows.Scan(&e.ID, &e.ReferrerID, &e.ReferralID, &e.Amount,
			&e.EarnedAt, &e.Description, &e.ReferralUsername)
		if err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}
