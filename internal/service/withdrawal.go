package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/metrics"
	"github.com/perchik2875/ONI/internal/storage"
)

// WithdrawalService owns withdrawal requests: the pessimistic balance
// reservation at request time and the admin approve/reject decisions.
type WithdrawalService struct {
	store storage.Store
	min   decimal.Decimal
}

func NewWithdrawalService(store storage.Store, minAmount decimal.Decimal) *WithdrawalService {
	return &WithdrawalService{store: store, min: minAmount}
}

func (s *WithdrawalService) Minimum() decimal.Decimal { return s.min }

// ParseAmount validates free-form user input into a withdrawal amount.
func (s *WithdrawalService) ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	amount, err := decimal.NewFromString(text)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if amount.LessThan(s.min) {
		return decimal.Zero, domain.ErrBelowMinimum
	}
	return amount, nil
}

// NormalizeDestination brings a free-form destination into stored shape.
// Card input is split on the first comma into bank and card number, with an
// explicit unspecified-bank fallback; wallet handles always get the leading
// marker.
func NormalizeDestination(method domain.PaymentMethod, raw string) string {
	raw = strings.TrimSpace(raw)
	switch method {
	case domain.PaymentMethodCard:
		if bank, card, ok := strings.Cut(raw, ","); ok {
			return fmt.Sprintf("%s, %s", strings.TrimSpace(bank), strings.TrimSpace(card))
		}
		return fmt.Sprintf("Не указан, %s", raw)
	case domain.PaymentMethodWallet:
		if !strings.HasPrefix(raw, "@") {
			return "@" + raw
		}
	}
	return raw
}

// Request debits the amount and records a pending payment in one
// transaction. The balance check runs under the user row lock; the balance
// never goes negative.
func (s *WithdrawalService) Request(ctx context.Context, userID int64, amount decimal.Decimal, method domain.PaymentMethod, destination string) (*domain.Payment, error) {
	if amount.LessThan(s.min) {
		return nil, domain.ErrBelowMinimum
	}

	var payment *domain.Payment
	err := s.store.WithTx(ctx, func(st storage.Store) error {
		user, err := st.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user.Balance.LessThan(amount) {
			return domain.ErrInsufficientBalance
		}
		if err := st.AdjustBalance(ctx, userID, amount.Neg()); err != nil {
			return fmt.Errorf("reserve amount: %w", err)
		}

		payment, err = st.CreatePayment(ctx, &domain.Payment{
			Reference:   uuid.New().String(),
			UserID:      userID,
			Amount:      amount,
			Method:      method,
			Destination: destination,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.WithdrawalRequests.Inc()
	return payment, nil
}

// PaymentDecision carries what the post-commit notifications need.
type PaymentDecision struct {
	Payment        *domain.Payment
	UserTelegramID int64
}

// Approve marks a pending payment approved. Terminal; the funds were
// already reserved at request time.
func (s *WithdrawalService) Approve(ctx context.Context, paymentID int64) (*PaymentDecision, error) {
	return s.resolve(ctx, paymentID, domain.PaymentStatusApproved, false)
}

// Reject marks a pending payment rejected and credits the reserved amount
// back to the user.
func (s *WithdrawalService) Reject(ctx context.Context, paymentID int64) (*PaymentDecision, error) {
	return s.resolve(ctx, paymentID, domain.PaymentStatusRejected, true)
}

func (s *WithdrawalService) resolve(ctx context.Context, paymentID int64, status domain.PaymentStatus, refund bool) (*PaymentDecision, error) {
	var decision *PaymentDecision
	err := s.store.WithTx(ctx, func(st storage.Store) error {
		payment, err := st.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		// Re-checked under the row lock to close the double-moderation race.
		if payment.Status != domain.PaymentStatusPending {
			return domain.ErrPaymentResolved
		}

		user, err := st.GetUserForUpdate(ctx, payment.UserID)
		if err != nil {
			return err
		}
		if refund {
			if err := st.AdjustBalance(ctx, payment.UserID, payment.Amount); err != nil {
				return fmt.Errorf("refund: %w", err)
			}
		}
		if err := st.SetPaymentStatus(ctx, paymentID, status); err != nil {
			return err
		}

		payment.Status = status
		decision = &PaymentDecision{Payment: payment, UserTelegramID: user.TelegramID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsModerated.WithLabelValues(string(status)).Inc()
	return decision, nil
}

func (s *WithdrawalService) ListPending(ctx context.Context) ([]domain.PendingPayment, error) {
	return s.store.ListPendingPayments(ctx)
}
