package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
)

// Repository persists and aggregates reviews.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindShopByName loads a shop by its case-insensitive name.
func (r *Repository) FindShopByName(ctx context.Context, name string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("name_key = ?", models.NameKey(name)).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Stats returns the stored count and rating sum for a shop regardless of tier.
func (r *Repository) Stats(ctx context.Context, shopID uuid.UUID) (count int, sum int, err error) {
	var row struct {
		Count int
		Sum   int
	}
	err = r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("shop_id = ?", shopID).
		Scan(&row).Error
	return row.Count, row.Sum, err
}

// ListByShop returns newest-first reviews after the cursor.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Review, error) {
	q := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Review
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
