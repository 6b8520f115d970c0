package square

import (
	"context"
	"strings"

	sq "github.com/square/square-go-sdk"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
)

// PaymentStatusCompleted is the only Square status that counts as a captured payment.
const PaymentStatusCompleted = "COMPLETED"

// Payment is the subset of a Square payment needed to confirm a subscription upgrade.
type Payment struct {
	ID          string
	Status      string
	Amount      decimal.Decimal
	Currency    string
	ReferenceID string
}

// Completed reports whether Square captured the funds.
func (p Payment) Completed() bool {
	return strings.EqualFold(p.Status, PaymentStatusCompleted)
}

// GetPayment looks up a payment by id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	c.log(ctx, "request", "get_payment", map[string]any{"payment_id": paymentID})

	resp, err := c.payments.Get(ctx, &sq.GetPaymentsRequest{PaymentID: paymentID})
	if err != nil {
		c.log(ctx, "error", "get_payment", map[string]any{"error": err.Error()})
		return nil, c.mapSquareError(err, "get payment")
	}
	if resp == nil || resp.Payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "square payment not found")
	}

	out := fromSquarePayment(resp.Payment)
	c.log(ctx, "response", "get_payment", map[string]any{
		"payment_id": out.ID,
		"status":     out.Status,
	})
	return &out, nil
}

// VerifyPayment confirms the referenced payment was captured by Square.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (*Payment, error) {
	payment, err := c.GetPayment(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !payment.Completed() {
		return payment, pkgerrors.New(pkgerrors.CodePayment, "payment has not completed").
			WithDetails(map[string]any{"reference": reference, "provider_status": payment.Status})
	}
	return payment, nil
}

func fromSquarePayment(p *sq.Payment) Payment {
	out := Payment{
		ID:          stringValue(p.ID),
		Status:      stringValue(p.Status),
		ReferenceID: stringValue(p.ReferenceID),
	}
	if p.AmountMoney != nil {
		if p.AmountMoney.Amount != nil {
			// Square amounts are in the smallest currency unit
			out.Amount = decimal.New(*p.AmountMoney.Amount, -2)
		}
		if p.AmountMoney.Currency != nil {
			out.Currency = string(*p.AmountMoney.Currency)
		}
	}
	return out
}
