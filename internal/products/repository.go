package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
)

// Repository handles product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to product operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindShopByOwner loads the owner's shop.
func (r *Repository) FindShopByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindShopByName loads a shop by its case-insensitive name.
func (r *Repository) FindShopByName(ctx context.Context, name string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("name_key = ?", models.NameKey(name)).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// LockShopWithTx re-reads the shop inside tx, taking a row lock where the dialect supports it.
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

// CountByShopWithTx counts the shop's products inside tx.
func (r *Repository) CountByShopWithTx(ctx context.Context, tx *gorm.DB, shopID uuid.UUID) (int, error) {
	var count int64
	if err := tx.WithContext(ctx).Model(&models.Product{}).Where("shop_id = ?", shopID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// CreateWithTx inserts the product inside tx.
func (r *Repository) CreateWithTx(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return tx.WithContext(ctx).Create(product).Error
}

// FindForShop loads a product only when it belongs to shopID.
func (r *Repository) FindForShop(ctx context.Context, shopID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ?", productID, shopID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update saves the provided product.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product owned by shopID and reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, shopID, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ?", productID, shopID).
		Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByShop returns newest-first products after the cursor, fetching one extra row.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
