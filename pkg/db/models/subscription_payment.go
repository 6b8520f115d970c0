package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

// SubscriptionPayment records one successful Pro upgrade payment, keyed by provider reference.
type SubscriptionPayment struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	ShopID       uuid.UUID            `gorm:"column:shop_id;type:uuid;not null;index"`
	Reference    string               `gorm:"column:reference;not null;uniqueIndex"`
	Status       enums.PaymentStatus  `gorm:"column:status;not null"`
	Channel      enums.PaymentChannel `gorm:"column:channel;not null"`
	Amount       decimal.Decimal      `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency     string               `gorm:"column:currency;not null"`
	Verified     bool                 `gorm:"column:verified;not null;default:false"`
	PeriodEndsAt time.Time            `gorm:"column:period_ends_at;not null"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (SubscriptionPayment) TableName() string { return "subscription_payments" }

func (p *SubscriptionPayment) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
