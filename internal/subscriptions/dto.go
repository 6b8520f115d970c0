package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopfront-backend/internal/plan"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

// RecordPaymentInput is the payment callback payload reported after checkout.
type RecordPaymentInput struct {
	Reference string
	Status    string
	Channel   string
	Amount    decimal.Decimal
	Currency  string
}

// PaymentDTO is the API shape of a stored subscription payment.
type PaymentDTO struct {
	ID           uuid.UUID            `json:"id"`
	Reference    string               `json:"reference"`
	Status       enums.PaymentStatus  `json:"status"`
	Channel      enums.PaymentChannel `json:"channel"`
	Amount       decimal.Decimal      `json:"amount"`
	Currency     string               `json:"currency"`
	Verified     bool                 `json:"verified"`
	PeriodEndsAt time.Time            `json:"period_ends_at"`
	CreatedAt    time.Time            `json:"created_at"`
}

func paymentFromModel(p *models.SubscriptionPayment) PaymentDTO {
	return PaymentDTO{
		ID:           p.ID,
		Reference:    p.Reference,
		Status:       p.Status,
		Channel:      p.Channel,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Verified:     p.Verified,
		PeriodEndsAt: p.PeriodEndsAt,
		CreatedAt:    p.CreatedAt,
	}
}

// StatusResult is the owner's subscription summary.
type StatusResult struct {
	Plan    plan.View  `json:"plan"`
	EndDate *time.Time `json:"end_date"`
}

// PaymentResult returns the stored payment with the refreshed subscription.
type PaymentResult struct {
	Payment      PaymentDTO   `json:"payment"`
	Subscription StatusResult `json:"subscription"`
	Replayed     bool         `json:"replayed"`
}
