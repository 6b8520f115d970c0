package square

import (
	"context"
	"errors"
	"net/http"
	"testing"

	sq "github.com/square/square-go-sdk"
	sqcore "github.com/square/square-go-sdk/core"
	sqoption "github.com/square/square-go-sdk/option"

	"github.com/angelmondragon/shopfront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

type stubPayments struct {
	resp *sq.GetPaymentResponse
	err  error
	got  string
}

func (s *stubPayments) Get(_ context.Context, req *sq.GetPaymentsRequest, _ ...sqoption.RequestOption) (*sq.GetPaymentResponse, error) {
	s.got = req.PaymentID
	return s.resp, s.err
}

func strPtr(v string) *string { return &v }

func TestRedact(t *testing.T) {
	c := &Client{}
	if out := c.redact("payment_token", "abc123"); out != "[REDACTED]" {
		t.Fatalf("expected redacted value, got %v", out)
	}
	if v := c.redact("status", "ok"); v != "ok" {
		t.Fatalf("unexpected redaction for safe key")
	}
}

func TestDomainCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusTooManyRequests, pkgerrors.CodeRateLimit},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusUnauthorized, pkgerrors.CodeDependency},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
	}
	for _, tt := range tests {
		if got := domainCodeForStatus(tt.status); got != tt.code {
			t.Fatalf("status %d expected %s got %s", tt.status, tt.code, got)
		}
	}
}

func TestMapSquareError(t *testing.T) {
	c := &Client{}
	err := sqcore.NewAPIError(http.StatusNotFound, errors.New(`{"errors":[{"category":"INVALID_REQUEST_ERROR","code":"NOT_FOUND"}]}`))
	if got := pkgerrors.As(c.mapSquareError(err, "get payment")); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", got)
	}

	authErr := sqcore.NewAPIError(http.StatusUnauthorized, errors.New(`{"errors":[{"category":"AUTHENTICATION_ERROR","code":"UNAUTHORIZED"}]}`))
	if got := pkgerrors.As(c.mapSquareError(authErr, "get payment")); got == nil || got.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error for bad credentials, got %v", got)
	}

	if got := pkgerrors.As(c.mapSquareError(errors.New("dial tcp"), "get payment")); got.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %s", got.Code())
	}
}

func TestVerifyPayment(t *testing.T) {
	amount := int64(5000)
	currency := sq.Currency("GHS")
	stub := &stubPayments{resp: &sq.GetPaymentResponse{Payment: &sq.Payment{
		ID:          strPtr("pay_123"),
		Status:      strPtr("COMPLETED"),
		AmountMoney: &sq.Money{Amount: &amount, Currency: &currency},
	}}}
	c := &Client{payments: stub, logger: logger.Nop()}

	payment, err := c.VerifyPayment(context.Background(), " pay_123 ")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if stub.got != "pay_123" {
		t.Fatalf("expected trimmed payment id, got %q", stub.got)
	}
	if payment.Amount.String() != "50" || payment.Currency != "GHS" {
		t.Fatalf("unexpected payment %+v", payment)
	}

	stub.resp.Payment.Status = strPtr("APPROVED")
	_, err = c.VerifyPayment(context.Background(), "pay_123")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePayment {
		t.Fatalf("expected payment required error, got %v", err)
	}
}

func TestGetPaymentRequiresID(t *testing.T) {
	c := &Client{payments: &stubPayments{}}
	_, err := c.GetPayment(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClient(ctx, config.SquareConfig{AccessToken: "tok"}, nil); err == nil {
		t.Fatal("expected logger to be required")
	}
	if _, err := NewClient(ctx, config.SquareConfig{}, logger.Nop()); err == nil {
		t.Fatal("expected access token to be required")
	}
	if _, err := NewClient(ctx, config.SquareConfig{AccessToken: "tok", Env: "staging"}, logger.Nop()); err == nil {
		t.Fatal("expected invalid environment error")
	}
	c, err := NewClient(ctx, config.SquareConfig{AccessToken: "tok"}, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Environment() != sandboxEnv {
		t.Fatalf("expected sandbox, got %q", c.Environment())
	}
}
