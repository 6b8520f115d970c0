package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review rows are retained when a shop leaves Pro; visibility is decided at read time.
type Review struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ShopID       uuid.UUID `gorm:"column:shop_id;type:uuid;not null;index"`
	Rating       int       `gorm:"column:rating;not null"`
	Comment      string    `gorm:"column:comment;not null"`
	ReviewerName string    `gorm:"column:reviewer_name;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Review) TableName() string { return "reviews" }

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
