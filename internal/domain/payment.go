package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
)

func (m PaymentMethod) Title() string {
	if m == PaymentMethodCard {
		return "Банковская карта"
	}
	return "CryptoBot"
}

// Payment is a withdrawal request. The amount is debited from the user's
// balance when the row is created; rejection credits it back.
type Payment struct {
	ID          int64
	Reference   string
	UserID      int64
	Amount      decimal.Decimal
	RequestedAt time.Time
	Status      PaymentStatus
	Method      PaymentMethod
	Destination string
}

// PendingPayment is a payment awaiting moderation, joined with the
// requesting user's fields.
type PendingPayment struct {
	Payment
	Username       string
	UserTelegramID int64
}
