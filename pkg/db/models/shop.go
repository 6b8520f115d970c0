package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

// Shop is the seller storefront and the tenant unit of the marketplace.
type Shop struct {
	ID                  uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID             uuid.UUID                 `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	Name                string                    `gorm:"column:name;not null"`
	NameKey             string                    `gorm:"column:name_key;not null;uniqueIndex"`
	Category            enums.ShopCategory        `gorm:"column:category;not null"`
	Location            string                    `gorm:"column:location;not null"`
	Description         *string                   `gorm:"column:description"`
	WhatsAppNumber      string                    `gorm:"column:whatsapp_number;not null"`
	LogoURL             *string                   `gorm:"column:logo_url"`
	SubscriptionPlan    *enums.SubscriptionPlan   `gorm:"column:subscription_plan"`
	SubscriptionStatus  *enums.SubscriptionStatus `gorm:"column:subscription_status"`
	SubscriptionEndDate *time.Time                `gorm:"column:subscription_end_date"`
	Products            []Product                 `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

func (Shop) TableName() string { return "shops" }

// BeforeCreate assigns an id and the lookup key used for case-insensitive name uniqueness.
func (s *Shop) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.NameKey = NameKey(s.Name)
	return nil
}
