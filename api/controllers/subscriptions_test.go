package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/internal/subscriptions"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
)

func TestSubscriptionPayment(t *testing.T) {
	logg := testLogger()
	ownerID := uuid.New()
	body := `{"reference":"ref-1","status":"success","channel":"mobile_money","amount":"50.00","currency":"GHS"}`

	serve := func(svc subscriptions.Service) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/me/shop/subscription/payments", strings.NewReader(body)).
			WithContext(withOwner(context.Background(), ownerID))
		rec := httptest.NewRecorder()
		SubscriptionPayment(svc, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("first payment created", func(t *testing.T) {
		var got subscriptions.RecordPaymentInput
		svc := &stubSubscriptionService{
			recordFn: func(_ context.Context, _ uuid.UUID, input subscriptions.RecordPaymentInput) (*subscriptions.PaymentResult, error) {
				got = input
				return &subscriptions.PaymentResult{}, nil
			},
		}
		rec := serve(svc)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		if got.Reference != "ref-1" || got.Channel != "mobile_money" || got.Amount.String() != "50" {
			t.Fatalf("unexpected input %+v", got)
		}
	})

	t.Run("replayed reference", func(t *testing.T) {
		svc := &stubSubscriptionService{
			recordFn: func(context.Context, uuid.UUID, subscriptions.RecordPaymentInput) (*subscriptions.PaymentResult, error) {
				return &subscriptions.PaymentResult{Replayed: true}, nil
			},
		}
		if rec := serve(svc); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for replay, got %d", rec.Code)
		}
	})

	t.Run("failed payment", func(t *testing.T) {
		svc := &stubSubscriptionService{
			recordFn: func(context.Context, uuid.UUID, subscriptions.RecordPaymentInput) (*subscriptions.PaymentResult, error) {
				return nil, pkgerrors.New(pkgerrors.CodePayment, "payment was not successful")
			},
		}
		if rec := serve(svc); rec.Code != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d", rec.Code)
		}
	})
}

func TestSubscriptionCancelNotPro(t *testing.T) {
	svc := &stubSubscriptionService{
		cancelFn: func(context.Context, uuid.UUID) (*subscriptions.StatusResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no active pro subscription")
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/me/shop/subscription/cancel", nil).
		WithContext(withOwner(context.Background(), uuid.New()))
	rec := httptest.NewRecorder()
	SubscriptionCancel(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
