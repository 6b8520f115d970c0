package shops

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
)

// Repository handles shop persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

// profileColumns are the owner-editable columns; subscription columns are written only by
// the subscriptions service and the expiry sweep.
var profileColumns = []string{
	"name", "name_key", "category", "location", "whatsapp_number", "description", "logo_url", "updated_at",
}

// UpdateProfile writes the editable profile columns of shop.
func (r *Repository) UpdateProfile(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Model(shop).Select(profileColumns).Updates(shop).Error
}

func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindByName loads a shop by case-insensitive name with its products, newest first.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Where("name_key = ?", models.NameKey(name)).
		First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// NameTaken reports whether another shop already uses the name.
func (r *Repository) NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Shop{}).Where("name_key = ?", models.NameKey(name))
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CountProducts(ctx context.Context, shopID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("shop_id = ?", shopID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
