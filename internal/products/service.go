package products

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/plan"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/metrics"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	pkgredis "github.com/angelmondragon/shopfront-backend/pkg/redis"
)

const (
	lockScope         = "shop_products"
	lockTTL           = 10 * time.Second
	lockAttempts      = 5
	lockRetryInterval = 50 * time.Millisecond
	maxNameLength     = 120
)

type productRepository interface {
	FindShopByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error)
	FindShopByName(ctx context.Context, name string) (*models.Shop, error)
	LockShopWithTx(ctx context.Context, tx *gorm.DB, shopID uuid.UUID) (*models.Shop, error)
	CountByShopWithTx(ctx context.Context, tx *gorm.DB, shopID uuid.UUID) (int, error)
	CreateWithTx(ctx context.Context, tx *gorm.DB, product *models.Product) error
	FindForShop(ctx context.Context, shopID, productID uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, shopID, productID uuid.UUID) (bool, error)
	ListByShop(ctx context.Context, shopID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type lockMaker interface {
	NewLock(scope, id string, ttl time.Duration) (pkgredis.Lock, error)
}

type cacheInvalidator interface {
	Invalidate()
}

// Service exposes owner product management and public listing.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*CreateResult, error)
	Update(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, ownerID, productID uuid.UUID) error
	ListByShopName(ctx context.Context, shopName string, params pagination.Params) (*ListResult, error)
}

type service struct {
	repo      productRepository
	tx        txRunner
	locks     lockMaker
	search    cacheInvalidator
	admission *metrics.AdmissionMetrics
	logg      *logger.Logger
}

// NewService builds a product service. locks and search may be nil.
func NewService(repo productRepository, tx txRunner, locks lockMaker, search cacheInvalidator, admission *metrics.AdmissionMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:      repo,
		tx:        tx,
		locks:     locks,
		search:    search,
		admission: admission,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*CreateResult, error) {
	if err := validateCreate(&input); err != nil {
		return nil, err
	}

	shop, err := s.ownerShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithShopID(ctx, shop.ID.String())
	tier := plan.Tier(plan.FromShop(shop)).String()

	var result *CreateResult
	create := func(ctx context.Context) error {
		res, err := s.createLocked(ctx, shop.ID, input)
		result = res
		return err
	}

	if err := s.withShopLock(ctx, shop.ID, create); err != nil {
		switch {
		case errors.Is(err, pkgredis.ErrLockNotAcquired):
			s.admission.Inc(tier, metrics.AdmissionLockBusy)
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another product is being added to this shop")
		case pkgerrors.IsCode(err, pkgerrors.CodePlanLimit):
			s.admission.Inc(tier, metrics.AdmissionPlanLimit)
			return nil, err
		default:
			return nil, err
		}
	}

	s.admission.Inc(tier, metrics.AdmissionAllowed)
	s.invalidateSearch()
	s.logg.Info(ctx, "product created")
	return result, nil
}

func (s *service) createLocked(ctx context.Context, shopID uuid.UUID, input CreateProductInput) (*CreateResult, error) {
	var (
		product *models.Product
		usage   plan.Usage
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		shop, err := s.repo.LockShopWithTx(ctx, tx, shopID)
		if err != nil {
			return mapLookupErr(err, "shop not found", "load shop")
		}
		sub := plan.FromShop(shop)

		count, err := s.repo.CountByShopWithTx(ctx, tx, shopID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
		}

		admission := plan.CanAddProduct(sub, count)
		if !admission.CanAdd {
			return planLimitError(admission)
		}

		product = &models.Product{
			ShopID:      shopID,
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			ImageURL:    input.ImageURL,
		}
		if err := s.repo.CreateWithTx(ctx, tx, product); err != nil {
			if db.IsPlanLimitViolation(err) {
				return planLimitError(plan.CanAddProduct(sub, count+1))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
		usage = plan.UsageFor(sub, count+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CreateResult{Product: FromModel(product), Usage: usage}, nil
}

// withShopLock serializes admission per shop, retrying briefly while another request holds the lock.
func (s *service) withShopLock(ctx context.Context, shopID uuid.UUID, fn func(ctx context.Context) error) error {
	if s.locks == nil {
		return fn(ctx)
	}
	lock, err := s.locks.NewLock(lockScope, shopID.String(), lockTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build shop lock")
	}

	for attempt := 1; ; attempt++ {
		err := pkgredis.WithLock(ctx, lock, fn)
		if !errors.Is(err, pkgredis.ErrLockNotAcquired) || attempt >= lockAttempts {
			if err != nil && !errors.Is(err, pkgredis.ErrLockNotAcquired) && pkgerrors.As(err) == nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "shop lock")
			}
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (s *service) Update(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	shop, err := s.ownerShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindForShop(ctx, shop.ID, productID)
	if err != nil {
		return nil, mapLookupErr(err, "product not found", "load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		product.Name = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.Price = input.Price.Round(2)
	}
	if input.Description != nil {
		product.Description = trimmedOrNil(input.Description)
	}
	if input.ImageURL != nil {
		product.ImageURL = trimmedOrNil(input.ImageURL)
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	s.invalidateSearch()
	dto := FromModel(product)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, ownerID, productID uuid.UUID) error {
	shop, err := s.ownerShop(ctx, ownerID)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, shop.ID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	s.invalidateSearch()
	return nil
}

func (s *service) ListByShopName(ctx context.Context, shopName string, params pagination.Params) (*ListResult, error) {
	if strings.TrimSpace(shopName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	shop, err := s.repo.FindShopByName(ctx, shopName)
	if err != nil {
		return nil, mapLookupErr(err, "shop not found", "load shop")
	}

	var cursor *pagination.Cursor
	if params.Cursor != "" {
		cursor, err = pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByShop(ctx, shop.ID, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	rows, page := pagination.Trim(rows, limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return &ListResult{Products: FromModels(rows), Page: page}, nil
}

func (s *service) ownerShop(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	shop, err := s.repo.FindShopByOwner(ctx, ownerID)
	if err != nil {
		return nil, mapLookupErr(err, "shop not found for owner", "load owner shop")
	}
	return shop, nil
}

func (s *service) invalidateSearch() {
	if s.search != nil {
		s.search.Invalidate()
	}
}

func planLimitError(admission plan.Admission) error {
	return pkgerrors.New(pkgerrors.CodePlanLimit, "standard plan product limit reached; upgrade to Pro to add more products").
		WithDetails(map[string]any{
			"limit":     admission.Limit,
			"current":   admission.Current,
			"remaining": admission.Remaining,
		})
}

func mapLookupErr(err error, notFound, dependency string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, dependency)
}

func validateCreate(input *CreateProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateName(input.Name); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	input.Price = input.Price.Round(2)
	input.Description = trimmedOrNil(input.Description)
	input.ImageURL = trimmedOrNil(input.ImageURL)
	return nil
}

func validateName(name string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is too long")
	}
	return nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
