package subscriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/plan"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/square"
)

type subscriptionRepository interface {
	FindShopByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error)
	LockShopWithTx(ctx context.Context, tx *gorm.DB, shopID uuid.UUID) (*models.Shop, error)
	FindPaymentByReferenceWithTx(ctx context.Context, tx *gorm.DB, reference string) (*models.SubscriptionPayment, error)
	CreatePaymentWithTx(ctx context.Context, tx *gorm.DB, payment *models.SubscriptionPayment) error
	ActivateProWithTx(ctx context.Context, tx *gorm.DB, shopID uuid.UUID, end time.Time) error
	UpdateStatus(ctx context.Context, shopID uuid.UUID, status enums.SubscriptionStatus) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PaymentVerifier confirms a payment reference with the payment provider.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, reference string) (*square.Payment, error)
}

type cacheInvalidator interface {
	Invalidate()
}

// Service defines the Pro subscription lifecycle surface.
type Service interface {
	RecordPayment(ctx context.Context, ownerID uuid.UUID, input RecordPaymentInput) (*PaymentResult, error)
	Cancel(ctx context.Context, ownerID uuid.UUID) (*StatusResult, error)
	Status(ctx context.Context, ownerID uuid.UUID) (*StatusResult, error)
}

// ServiceParams groups dependencies for the subscription service.
type ServiceParams struct {
	Repo              subscriptionRepository
	TransactionRunner txRunner
	Verifier          PaymentVerifier
	VerifyPayments    bool
	Plan              config.PlanConfig
	Search            cacheInvalidator
	Logger            *logger.Logger
	Now               func() time.Time
}

type service struct {
	repo     subscriptionRepository
	txRunner txRunner
	verifier PaymentVerifier
	verify   bool
	period   time.Duration
	currency string
	price    decimal.Decimal
	search   cacheInvalidator
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a subscription service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscription repository required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.VerifyPayments && params.Verifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment verifier required when verification is enabled")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	price, err := decimal.NewFromString(strings.TrimSpace(params.Plan.ProPriceAmount))
	if err != nil || !price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pro price must be a positive amount").
			WithDetails(map[string]any{"pro_price": params.Plan.ProPriceAmount})
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		txRunner: params.TransactionRunner,
		verifier: params.Verifier,
		verify:   params.VerifyPayments,
		period:   params.Plan.ProPeriod(),
		currency: strings.ToUpper(strings.TrimSpace(params.Plan.Currency)),
		price:    price.Round(2),
		search:   params.Search,
		logg:     logg,
		now:      now,
	}, nil
}

func (s *service) RecordPayment(ctx context.Context, ownerID uuid.UUID, input RecordPaymentInput) (*PaymentResult, error) {
	status, channel, err := s.validatePayment(&input)
	if err != nil {
		return nil, err
	}
	if status != enums.PaymentStatusSuccess {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "payment was not successful").
			WithDetails(map[string]any{"reference": input.Reference, "status": status})
	}

	shop, err := s.ownerShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"shop_id": shop.ID.String(), "reference": input.Reference})

	verified := false
	if s.verify {
		payment, err := s.verifier.VerifyPayment(ctx, input.Reference)
		if err != nil {
			s.logg.Warn(ctx, "payment verification failed")
			return nil, pkgerrors.Ensure(err, pkgerrors.CodeDependency, "verify payment")
		}
		verified = true
		if payment.Amount.IsPositive() {
			input.Amount = payment.Amount
		}
		if payment.Currency != "" {
			input.Currency = strings.ToUpper(payment.Currency)
		}
	}
	if err := s.checkPrice(input); err != nil {
		s.logg.Warn(ctx, "payment below pro price")
		return nil, err
	}

	var (
		stored   *models.SubscriptionPayment
		endDate  time.Time
		replayed bool
		current  *models.Shop
	)
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		locked, err := s.repo.LockShopWithTx(ctx, tx, shop.ID)
		if err != nil {
			return mapLookupErr(err, "load shop")
		}

		existing, err := s.repo.FindPaymentByReferenceWithTx(ctx, tx, input.Reference)
		switch {
		case err == nil:
			if existing.ShopID != shop.ID {
				return pkgerrors.New(pkgerrors.CodeConflict, "payment reference already used")
			}
			stored, replayed, current = existing, true, locked
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup payment")
		}

		now := s.now().UTC()
		endDate = ExtendFrom(now, locked.SubscriptionEndDate, s.period)
		stored = &models.SubscriptionPayment{
			ShopID:       shop.ID,
			Reference:    input.Reference,
			Status:       status,
			Channel:      channel,
			Amount:       input.Amount,
			Currency:     input.Currency,
			Verified:     verified,
			PeriodEndsAt: endDate,
		}
		if err := s.repo.CreatePaymentWithTx(ctx, tx, stored); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment")
		}
		if err := s.repo.ActivateProWithTx(ctx, tx, shop.ID, endDate); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate pro")
		}

		pro := enums.SubscriptionPlanPro
		active := enums.SubscriptionStatusActive
		locked.SubscriptionPlan = &pro
		locked.SubscriptionStatus = &active
		locked.SubscriptionEndDate = &endDate
		current = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		s.logg.Info(ctx, "payment reference replayed")
	} else {
		s.invalidateSearch()
		s.logg.Info(ctx, "pro subscription activated")
	}
	return &PaymentResult{
		Payment:      paymentFromModel(stored),
		Subscription: s.statusOf(current),
		Replayed:     replayed,
	}, nil
}

// ExtendFrom adds one paid period to the later of now and the current end date.
func ExtendFrom(now time.Time, currentEnd *time.Time, period time.Duration) time.Time {
	start := now
	if currentEnd != nil && currentEnd.After(now) {
		start = *currentEnd
	}
	return start.Add(period).UTC()
}

func (s *service) Cancel(ctx context.Context, ownerID uuid.UUID) (*StatusResult, error) {
	shop, err := s.ownerShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if shop.SubscriptionPlan == nil || *shop.SubscriptionPlan != enums.SubscriptionPlanPro {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shop has no pro subscription to cancel")
	}
	if shop.SubscriptionStatus != nil && *shop.SubscriptionStatus == enums.SubscriptionStatusCancelled {
		result := s.statusOf(shop)
		return &result, nil
	}
	if !plan.IsPro(plan.FromShop(shop)) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pro subscription is not active").
			WithDetails(map[string]any{"status": shop.SubscriptionStatus})
	}

	if err := s.repo.UpdateStatus(ctx, shop.ID, enums.SubscriptionStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel subscription")
	}
	cancelled := enums.SubscriptionStatusCancelled
	shop.SubscriptionStatus = &cancelled

	s.invalidateSearch()
	s.logg.Info(s.logg.WithShopID(ctx, shop.ID.String()), "pro subscription cancelled")
	result := s.statusOf(shop)
	return &result, nil
}

func (s *service) Status(ctx context.Context, ownerID uuid.UUID) (*StatusResult, error) {
	shop, err := s.ownerShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	result := s.statusOf(shop)
	return &result, nil
}

func (s *service) statusOf(shop *models.Shop) StatusResult {
	return StatusResult{
		Plan:    plan.ViewAt(plan.FromShop(shop), s.now()),
		EndDate: shop.SubscriptionEndDate,
	}
}

func (s *service) validatePayment(input *RecordPaymentInput) (enums.PaymentStatus, enums.PaymentChannel, error) {
	input.Reference = strings.TrimSpace(input.Reference)
	if input.Reference == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}
	status, err := enums.ParsePaymentStatus(input.Status)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
	}
	channel, err := enums.ParsePaymentChannel(input.Channel)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment channel")
	}
	if !input.Amount.GreaterThan(decimal.Zero) {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	input.Amount = input.Amount.Round(2)
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if input.Currency == "" {
		input.Currency = s.currency
	}
	return status, channel, nil
}

// checkPrice requires one full Pro period to be paid in the plan currency.
func (s *service) checkPrice(input RecordPaymentInput) error {
	if input.Currency != s.currency {
		return pkgerrors.New(pkgerrors.CodePayment, "payment currency does not match the plan currency").
			WithDetails(map[string]any{"currency": input.Currency, "expected_currency": s.currency})
	}
	if input.Amount.LessThan(s.price) {
		return pkgerrors.New(pkgerrors.CodePayment, "payment amount is below the pro price").
			WithDetails(map[string]any{"amount": input.Amount.StringFixed(2), "pro_price": s.price.StringFixed(2), "currency": s.currency})
	}
	return nil
}

func (s *service) ownerShop(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	shop, err := s.repo.FindShopByOwner(ctx, ownerID)
	if err != nil {
		return nil, mapLookupErr(err, "load owner shop")
	}
	return shop, nil
}

func (s *service) invalidateSearch() {
	if s.search != nil {
		s.search.Invalidate()
	}
}

func mapLookupErr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
