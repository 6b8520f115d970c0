package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/square"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type stubVerifier struct {
	payment *square.Payment
	err     error
	calls   []string
}

func (s *stubVerifier) VerifyPayment(_ context.Context, reference string) (*square.Payment, error) {
	s.calls = append(s.calls, reference)
	return s.payment, s.err
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate() { c.calls++ }

func setup(t *testing.T, verifier PaymentVerifier) (Service, *gorm.DB, *countingInvalidator) {
	t.Helper()
	conn := dbtest.Open(t)
	inv := &countingInvalidator{}
	svc, err := NewService(ServiceParams{
		Repo:              NewRepository(conn),
		TransactionRunner: db.FromGorm(conn),
		Verifier:          verifier,
		VerifyPayments:    verifier != nil,
		Plan:              config.PlanConfig{ProPeriodDays: 30, ProPriceAmount: "50.00", Currency: "ghs"},
		Search:            inv,
		Now:               func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn, inv
}

func seedShop(t *testing.T, conn *gorm.DB, tier enums.SubscriptionPlan, status enums.SubscriptionStatus, end *time.Time) *models.Shop {
	t.Helper()
	shop := &models.Shop{
		OwnerID:             uuid.New(),
		Name:                "Kofi Tech " + uuid.NewString()[:8],
		Category:            enums.ShopCategoryElectronics,
		Location:            "Accra",
		WhatsAppNumber:      "233201234567",
		SubscriptionPlan:    &tier,
		SubscriptionStatus:  &status,
		SubscriptionEndDate: end,
	}
	if err := conn.Create(shop).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	return shop
}

func successInput(reference string) RecordPaymentInput {
	return RecordPaymentInput{
		Reference: reference,
		Status:    "success",
		Channel:   "mobile_money",
		Amount:    decimal.RequireFromString("50.00"),
	}
}

func reload(t *testing.T, conn *gorm.DB, id uuid.UUID) models.Shop {
	t.Helper()
	var shop models.Shop
	if err := conn.First(&shop, "id = ?", id).Error; err != nil {
		t.Fatalf("reload shop: %v", err)
	}
	return shop
}

func TestNewServiceRequiresVerifierWhenEnabled(t *testing.T) {
	_, err := NewService(ServiceParams{Repo: &Repository{}, TransactionRunner: &db.Client{}, VerifyPayments: true})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRecordPaymentUpgradesStandardShop(t *testing.T) {
	svc, conn, inv := setup(t, nil)
	shop := seedShop(t, conn, enums.SubscriptionPlanStandard, enums.SubscriptionStatusActive, nil)

	res, err := svc.RecordPayment(context.Background(), shop.OwnerID, successInput("ref-1"))
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	wantEnd := fixedNow.Add(30 * 24 * time.Hour)
	if !res.Subscription.Plan.IsPro {
		t.Fatalf("expected pro after payment")
	}
	if !res.Payment.PeriodEndsAt.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, res.Payment.PeriodEndsAt)
	}
	if res.Payment.Currency != "GHS" {
		t.Fatalf("expected default currency GHS, got %q", res.Payment.Currency)
	}
	if res.Payment.Verified {
		t.Fatalf("payment should not be marked verified without a verifier")
	}
	if inv.calls != 1 {
		t.Fatalf("expected search invalidation, got %d", inv.calls)
	}

	stored := reload(t, conn, shop.ID)
	if stored.SubscriptionPlan == nil || *stored.SubscriptionPlan != enums.SubscriptionPlanPro {
		t.Fatalf("expected stored plan pro")
	}
	if stored.SubscriptionEndDate == nil || !stored.SubscriptionEndDate.Equal(wantEnd) {
		t.Fatalf("expected stored end %v, got %v", wantEnd, stored.SubscriptionEndDate)
	}
}

func TestRecordPaymentExtendsActivePeriod(t *testing.T) {
	svc, conn, _ := setup(t, nil)
	end := fixedNow.Add(10 * 24 * time.Hour)
	shop := seedShop(t, conn, enums.SubscriptionPlanPro, enums.SubscriptionStatusActive, &end)

	res, err := svc.RecordPayment(context.Background(), shop.OwnerID, successInput("ref-renew"))
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	want := end.Add(30 * 24 * time.Hour)
	if !res.Payment.PeriodEndsAt.Equal(want) {
		t.Fatalf("expected extension from current end %v, got %v", want, res.Payment.PeriodEndsAt)
	}
	if got := res.Subscription.Plan.DaysRemaining; got == nil || *got != 40 {
		t.Fatalf("expected 40 days remaining, got %v", got)
	}
}

func TestRecordPaymentIsIdempotentOnReference(t *testing.T) {
	svc, conn, inv := setup(t, nil)
	shop := seedShop(t, conn, enums.SubscriptionPlanStandard, enums.SubscriptionStatusActive, nil)
	ctx := context.Background()

	first, err := svc.RecordPayment(ctx, shop.OwnerID, successInput("ref-dup"))
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	second, err := svc.RecordPayment(ctx, shop.OwnerID, successInput("ref-dup"))
	if err != nil {
		t.Fatalf("replayed payment: %v", err)
	}
	if !second.Replayed || second.Payment.ID != first.Payment.ID {
		t.Fatalf("expected replay of the first payment")
	}
	if inv.calls != 1 {
		t.Fatalf("replay should not invalidate search, got %d calls", inv.calls)
	}

	var count int64
	if err := conn.Model(&models.SubscriptionPayment{}).Count(&count).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored payment, got %d", count)
	}

	other := seedShop(t, conn, enums.SubscriptionPlanStandard, enums.SubscriptionStatusActive, nil)
	if _, err := svc.RecordPayment(ctx, other.OwnerID, successInput("ref-dup")); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for reused reference, got %v", err)
	}
}

func TestRecordPaymentRejectsUnsuccessfulStatus(t *testing.T) {
	svc, conn, _ := setup(t, nil)
	shop := seedShop(t, conn, enums.SubscriptionPlanStandard, enums.SubscriptionStatusActive, nil)

	input := successInput("ref-failed")
	input.Status = "failed"
	if _, err := svc.RecordPayment(context.Background(), shop.OwnerID, input); !pkgerrors.IsCode(err, pkgerrors.CodePayment) {
		t.Fatalf("expected payment required, got %v", err)
	}
	input.Status = "refunded"
	if _, err := svc.RecordPayment(context.Background(), shop.OwnerID, input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if stored := reload(t, conn, shop.ID); *stored.SubscriptionPlan != enums.SubscriptionPlanStandard {
		t.Fatalf("shop should remain standard")
	}
}

func TestNewServiceRejectsInvalidProPrice(t *testing.T) {
	for _, price := range []string{"", "abc", "0", "-5"} {
		_, err := NewService(ServiceParams{
			Repo:              &Repository{},
			TransactionRunner: &db.Client{},
			Plan:              config.PlanConfig{ProPriceAmount: price, Currency: "GHS"},
		})
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("price %q: expected validation error, got %v", price, err)
		}
	}
}

func TestRecordPaymentRejectsUnderpayment(t *testing.T) {
	svc, conn, inv := setup(t, nil)
	shop := seedShop(t, conn, enums.SubscriptionPlanStandard, enums.SubscriptionStatusActive, nil)

	cases := map[string]RecordPaymentInput{
		"one cent":       {Reference: "ref-cheap", Status: "success", Channel: "card", Amount: decimal.RequireFromString("0.01")},
		"just under":     {Reference: "ref-under", Status: "success", Channel: "card", Amount: decimal.RequireFromString("49.99")},
		"other currency": {Reference: "ref-usd", Status: "success", Channel: "card", Amount: decimal.RequireFromString("50.00"), Currency: "USD"},
	}
	for name, input := range cases {
		if _, err := svc.RecordPayment(context.Background(), shop.OwnerID, input); !pkgerrors.IsCode(err, pkgerrors.CodePayment) {
			t.Fatalf("%s: expected payment required, got %v", name, err)
		}
	}

	stored := reload(t, conn, shop.ID)
	if *stored.SubscriptionPlan != enums.SubscriptionPlanStandard || stored.SubscriptionEndDate != nil {
		t.Fatalf("underpaid shop must stay standard, got %+v", stored)
	}
	var payments int64
	if err := conn.Model(&models.SubscriptionPayment{}).Where("shop_id = ?", shop.ID).Count(&payments).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if payments != 0 || inv.calls != 0 {
		t.Fatalf("expected no stored payments and no invalidation, got %d payments %d calls", payments, inv.calls)
	}
}

func TestRecordPaymentChecksVerifiedAmount(t *testing.T) {
	verifier := &stubVerifier{payment: &square.Payment{ID: "sq-low", Status: "COMPLETED", Amount: decimal.RequireFromString("0.50"), Currency: "GHS"}}
	svc, conn, _ := setup(t, verifier)
	shop := seedShop(t, conn, enums.SubscriptionPlanStandard, enums.SubscriptionStatusActive, nil)

	if _, err := svc.RecordPayment(context.Background(), shop.OwnerID, successInput("sq-low")); !pkgerrors.IsCode(err, pkgerrors.CodePayment) {
		t.Fatalf("expected payment required for low provider amount, got %v", err)
	}
	if stored := reload(t, conn, shop.ID); *stored.SubscriptionPlan != enums.SubscriptionPlanStandard {
		t.Fatalf("shop should remain standard")
	}
}

func TestRecordPaymentVerifiesWithProvider(t *testing.T) {
	verifier := &stubVerifier{payment: &square.Payment{ID: "sq-1", Status: "COMPLETED", Amount: decimal.RequireFromString("55.00"), Currency: "GHS"}}
	svc, conn, _ := setup(t, verifier)
	shop := seedShop(t, conn, enums.SubscriptionPlanStandard, enums.SubscriptionStatusActive, nil)

	res, err := svc.RecordPayment(context.Background(), shop.OwnerID, successInput("sq-1"))
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if !res.Payment.Verified || !res.Payment.Amount.Equal(decimal.RequireFromString("55.00")) {
		t.Fatalf("expected verified provider amount, got %+v", res.Payment)
	}
	if len(verifier.calls) != 1 || verifier.calls[0] != "sq-1" {
		t.Fatalf("unexpected verifier calls %v", verifier.calls)
	}

	verifier.err = pkgerrors.New(pkgerrors.CodePayment, "payment has not completed")
	if _, err := svc.RecordPayment(context.Background(), shop.OwnerID, successInput("sq-2")); !pkgerrors.IsCode(err, pkgerrors.CodePayment) {
		t.Fatalf("expected payment required from verifier, got %v", err)
	}
}

func TestCancelKeepsEndDateAndDropsTier(t *testing.T) {
	svc, conn, _ := setup(t, nil)
	end := fixedNow.Add(5 * 24 * time.Hour)
	shop := seedShop(t, conn, enums.SubscriptionPlanPro, enums.SubscriptionStatusActive, &end)

	res, err := svc.Cancel(context.Background(), shop.OwnerID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Plan.IsPro || res.Plan.Status != "cancelled" {
		t.Fatalf("expected cancelled standard view, got %+v", res.Plan)
	}
	if res.EndDate == nil || !res.EndDate.Equal(end) {
		t.Fatalf("expected end date kept")
	}
	stored := reload(t, conn, shop.ID)
	if *stored.SubscriptionStatus != enums.SubscriptionStatusCancelled || stored.SubscriptionEndDate == nil {
		t.Fatalf("unexpected stored state %+v", stored)
	}

	standard := seedShop(t, conn, enums.SubscriptionPlanStandard, enums.SubscriptionStatusActive, nil)
	if _, err := svc.Cancel(context.Background(), standard.OwnerID); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	past := fixedNow.Add(-24 * time.Hour)
	suspended := seedShop(t, conn, enums.SubscriptionPlanPro, enums.SubscriptionStatusSuspended, &past)
	if _, err := svc.Cancel(context.Background(), suspended.OwnerID); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict for suspended shop, got %v", err)
	}
	if stored := reload(t, conn, suspended.ID); *stored.SubscriptionStatus != enums.SubscriptionStatusSuspended {
		t.Fatalf("suspended shop must keep its status, got %s", *stored.SubscriptionStatus)
	}

	again, err := svc.Cancel(context.Background(), shop.OwnerID)
	if err != nil || again.Plan.Status != "cancelled" {
		t.Fatalf("repeat cancel should report cancelled, got %+v %v", again, err)
	}
}

func TestStatusRequiresShop(t *testing.T) {
	svc, _, _ := setup(t, nil)
	if _, err := svc.Status(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Status(context.Background(), uuid.Nil); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestExtendFrom(t *testing.T) {
	period := 24 * time.Hour
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)
	if got := ExtendFrom(fixedNow, nil, period); !got.Equal(fixedNow.Add(period)) {
		t.Fatalf("nil end: got %v", got)
	}
	if got := ExtendFrom(fixedNow, &past, period); !got.Equal(fixedNow.Add(period)) {
		t.Fatalf("past end: got %v", got)
	}
	if got := ExtendFrom(fixedNow, &future, period); !got.Equal(future.Add(period)) {
		t.Fatalf("future end: got %v", got)
	}
}
