package search

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/plan"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
)

// Repository reads the search corpus from the relational store.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to corpus reads.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type reviewAggregate struct {
	ShopID uuid.UUID
	Count  int
	Sum    int
}

// LoadCorpus returns every shop with its products, oldest first, and raw review aggregates.
func (r *Repository) LoadCorpus(ctx context.Context) ([]Shop, error) {
	var shops []models.Shop
	err := r.db.WithContext(ctx).
		Preload("Products", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Order("created_at ASC, id ASC").
		Find(&shops).Error
	if err != nil {
		return nil, err
	}

	var aggregates []reviewAggregate
	err = r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("shop_id, COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Group("shop_id").
		Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}
	stats := make(map[uuid.UUID]ReviewStats, len(aggregates))
	for _, agg := range aggregates {
		stats[agg.ShopID] = ReviewStats{Count: agg.Count, Sum: agg.Sum}
	}

	corpus := make([]Shop, 0, len(shops))
	for i := range shops {
		corpus = append(corpus, FromModel(&shops[i], stats[shops[i].ID]))
	}
	return corpus, nil
}

// FromModel converts a persisted shop (with preloaded products) into a corpus entry.
func FromModel(shop *models.Shop, reviews ReviewStats) Shop {
	out := Shop{
		ID:             shop.ID,
		Name:           shop.Name,
		Category:       shop.Category.String(),
		Location:       shop.Location,
		Description:    shop.Description,
		LogoURL:        shop.LogoURL,
		WhatsAppNumber: shop.WhatsAppNumber,
		Products:       make([]Product, 0, len(shop.Products)),
		Reviews:        reviews,
	}
	if sub := plan.FromShop(shop); sub != nil {
		out.Subscription = *sub
	}
	for _, p := range shop.Products {
		out.Products = append(out.Products, Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		})
	}
	return out
}
