package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/storage"
)

// ReferralService posts the referral override whenever a referred user's
// balance is credited for verified work. One level deep only: the
// referrer's own referrer is never paid.
type ReferralService struct {
	share decimal.Decimal
}

func NewReferralService(share decimal.Decimal) *ReferralService {
	return &ReferralService{share: share}
}

// ReferralAward describes an override that was posted, carrying what the
// post-commit notification needs.
type ReferralAward struct {
	ReferrerID         int64
	ReferrerTelegramID int64
	Earned             decimal.Decimal
	Bonus              decimal.Decimal
	Description        string
}

// Award credits the earner's referrer with the configured share of amount
// and appends the audit row. It must run inside the transaction of the
// triggering credit, on the store bound to it. Returns nil when the earner
// has no referrer.
func (s *ReferralService) Award(ctx context.Context, st storage.Store, earner *domain.User, amount decimal.Decimal, description string) (*ReferralAward, error) {
	if earner.ReferrerID == nil {
		return nil, nil
	}

	referrer, err := st.GetUserForUpdate(ctx, *earner.ReferrerID)
	if err != nil {
		return nil, fmt.Errorf("lock referrer: %w", err)
	}

	bonus := amount.Mul(s.share).Round(2)
	if err := st.AddReferralEarnings(ctx, referrer.ID, bonus); err != nil {
		return nil, fmt.Errorf("credit referrer: %w", err)
	}
	err = st.CreateReferralEarning(ctx, &domain.ReferralEarning{
		ReferrerID:  referrer.ID,
		ReferralID:  earner.ID,
		Amount:      bonus,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	return &ReferralAward{
		ReferrerID:         referrer.ID,
		ReferrerTelegramID: referrer.TelegramID,
		Earned:             amount,
		Bonus:              bonus,
		Description:        description,
	}, nil
}
