package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

// Repository persists subscription state on shops and the payment ledger.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindShopByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// LockShopWithTx re-reads the shop inside tx with a row lock on Postgres.
func (r *Repository) LockShopWithTx(ctx context.Context, tx *gorm.DB, shopID uuid.UUID) (*models.Shop, error) {
	q := tx.WithContext(ctx).Where("id = ?", shopID)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var shop models.Shop
	if err := q.First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *Repository) FindPaymentByReferenceWithTx(ctx context.Context, tx *gorm.DB, reference string) (*models.SubscriptionPayment, error) {
	var payment models.SubscriptionPayment
	if err := tx.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *Repository) CreatePaymentWithTx(ctx context.Context, tx *gorm.DB, payment *models.SubscriptionPayment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

// ActivateProWithTx sets the shop to pro/active until end.
func (r *Repository) ActivateProWithTx(ctx context.Context, tx *gorm.DB, shopID uuid.UUID, end time.Time) error {
	return tx.WithContext(ctx).Model(&models.Shop{}).
		Where("id = ?", shopID).
		Updates(map[string]any{
			"subscription_plan":     enums.SubscriptionPlanPro,
			"subscription_status":   enums.SubscriptionStatusActive,
			"subscription_end_date": end,
		}).Error
}

// UpdateStatus changes only the subscription status, keeping plan and end date.
func (r *Repository) UpdateStatus(ctx context.Context, shopID uuid.UUID, status enums.SubscriptionStatus) error {
	return r.db.WithContext(ctx).Model(&models.Shop{}).
		Where("id = ?", shopID).
		Update("subscription_status", status).Error
}

// ListExpired returns up to limit pro/active shops whose period ended before now.
func (r *Repository) ListExpired(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Shop{}).
		Where("subscription_plan = ? AND subscription_status = ?", enums.SubscriptionPlanPro, enums.SubscriptionStatusActive).
		Where("subscription_end_date IS NOT NULL AND subscription_end_date < ?", now).
		Order("subscription_end_date ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// SuspendIfExpired suspends the shop only if it is still pro/active and past its end date.
func (r *Repository) SuspendIfExpired(ctx context.Context, shopID uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Shop{}).
		Where("id = ? AND subscription_plan = ? AND subscription_status = ?", shopID, enums.SubscriptionPlanPro, enums.SubscriptionStatusActive).
		Where("subscription_end_date < ?", now).
		Update("subscription_status", enums.SubscriptionStatusSuspended)
	return res.RowsAffected > 0, res.Error
}
