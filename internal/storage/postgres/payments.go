package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/perchik2875/ONI/internal/domain"
)

const paymentColumns = `id, reference, user_id, amount, requested_at, status, method, destination`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.Reference, &p.UserID, &p.Amount, &p.RequestedAt,
		&p.Status, &p.Method, &p.Destination)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return &p, nil
}

func (s *Store) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO payments (reference, user_id, amount, method, destination)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+paymentColumns,
		payment.Reference, payment.UserID, payment.Amount, payment.Method, payment.Destination)
	return scanPayment(row)
}

func (s *Store) GetPaymentForUpdate(ctx context.Context, id int64) (*domain.Payment, error) {
	return scanPayment(s.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	tag, err := s.db.Exec(ctx, `UPDATE payments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) ListPendingPayments(ctx context.Context) ([]domain.PendingPayment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.reference, p.user_id, p.amount, p.requested_at, p.status, p.method, p.destination,
			u.username, u.telegram_id
		FROM payments p
		JOIN users u ON u.id = p.user_id
		WHERE p.status = 'pending'
		ORDER BY p.requested_at`)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	defer rows.Close()

	var pending []domain.PendingPayment
	for rows.Next() {
		var p domain.PendingPayment
		err := rows.Scan(&p.ID, &p.Reference, &p.UserID, &p.Amount, &p.RequestedAt,
			&p.Status, &p.Method, &p.Destination, &p.Username, &p.UserTelegramID)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}
