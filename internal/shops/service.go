package shops

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/plan"
	"github.com/angelmondragon/shopfront-backend/internal/products"
	"github.com/angelmondragon/shopfront-backend/internal/reviews"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

const (
	ownerConstraint = "shops_owner_id_key"
	sqliteOwnerCol  = "shops.owner_id"
)

type shopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	UpdateProfile(ctx context.Context, shop *models.Shop) error
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error)
	FindByName(ctx context.Context, name string) (*models.Shop, error)
	NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	CountProducts(ctx context.Context, shopID uuid.UUID) (int, error)
}

type reviewSummarizer interface {
	Summary(ctx context.Context, shop *models.Shop) (reviews.Summary, error)
}

type cacheInvalidator interface {
	Invalidate()
}

// Service manages shop registration, the public shop page and the owner dashboard.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateShopInput) (*OwnerShop, error)
	GetByName(ctx context.Context, name string) (*PublicShop, error)
	GetMine(ctx context.Context, ownerID uuid.UUID) (*OwnerShop, error)
	Update(ctx context.Context, ownerID uuid.UUID, input UpdateShopInput) (*OwnerShop, error)
}

type service struct {
	repo    shopRepository
	reviews reviewSummarizer
	search  cacheInvalidator
	logg    *logger.Logger
	now     func() time.Time
}

// NewService wires the shop service. search may be nil.
func NewService(repo shopRepository, reviewSvc reviewSummarizer, search cacheInvalidator, logg *logger.Logger, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shop repository required")
	}
	if reviewSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "review summarizer required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, reviews: reviewSvc, search: search, logg: logg, now: now}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateShopInput) (*OwnerShop, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	shop, err := buildShop(ownerID, input)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByOwner(ctx, ownerID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "owner already has a shop")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner shop")
	}
	if err := s.ensureNameFree(ctx, shop.Name, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, mapWriteErr(err, "create shop")
	}

	s.invalidateSearch()
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"shop_id": shop.ID.String(), "owner_id": ownerID.String()}), "shop created")
	return s.ownerView(shop, 0), nil
}

func (s *service) GetByName(ctx context.Context, name string) (*PublicShop, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	shop, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, mapLookupErr(err, "load shop")
	}
	summary, err := s.reviews.Summary(ctx, shop)
	if err != nil {
		return nil, err
	}
	return &PublicShop{
		Shop:     fromModel(shop),
		Plan:     plan.ViewAt(plan.FromShop(shop), s.now()),
		Products: products.FromModels(shop.Products),
		Reviews:  summary,
	}, nil
}

func (s *service) GetMine(ctx context.Context, ownerID uuid.UUID) (*OwnerShop, error) {
	shop, err := s.ownerShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountProducts(ctx, shop.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	return s.ownerView(shop, count), nil
}

func (s *service) Update(ctx context.Context, ownerID uuid.UUID, input UpdateShopInput) (*OwnerShop, error) {
	shop, err := s.ownerShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := normalizeName(*input.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		if models.NameKey(name) != shop.NameKey {
			if err := s.ensureNameFree(ctx, name, shop.ID); err != nil {
				return nil, err
			}
		}
		shop.Name = name
		shop.NameKey = models.NameKey(name)
	}
	if input.Category != nil {
		category, err := enums.ParseShopCategory(*input.Category)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		shop.Category = category
	}
	if input.Location != nil {
		location := normalizeLocation(*input.Location)
		if err := validateLocation(location); err != nil {
			return nil, err
		}
		shop.Location = location
	}
	if input.WhatsAppNumber != nil {
		number := normalizeWhatsApp(*input.WhatsAppNumber)
		if err := validateWhatsApp(number); err != nil {
			return nil, err
		}
		shop.WhatsAppNumber = number
	}
	if input.Description != nil {
		shop.Description = optionalText(input.Description)
	}
	if input.LogoURL != nil {
		shop.LogoURL = optionalText(input.LogoURL)
	}

	if err := s.repo.UpdateProfile(ctx, shop); err != nil {
		return nil, mapWriteErr(err, "update shop")
	}
	shop, err = s.ownerShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountProducts(ctx, shop.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	s.invalidateSearch()
	return s.ownerView(shop, count), nil
}

func (s *service) ownerView(shop *models.Shop, productCount int) *OwnerShop {
	sub := plan.FromShop(shop)
	return &OwnerShop{
		Shop:  fromModel(shop),
		Plan:  plan.ViewAt(sub, s.now()),
		Usage: plan.UsageFor(sub, productCount),
	}
}

func (s *service) ownerShop(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	shop, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, mapLookupErr(err, "load owner shop")
	}
	return shop, nil
}

func (s *service) ensureNameFree(ctx context.Context, name string, exclude uuid.UUID) error {
	taken, err := s.repo.NameTaken(ctx, name, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check shop name")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "shop name already taken")
	}
	return nil
}

func (s *service) invalidateSearch() {
	if s.search != nil {
		s.search.Invalidate()
	}
}

func buildShop(ownerID uuid.UUID, input CreateShopInput) (*models.Shop, error) {
	name := normalizeName(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	category, err := enums.ParseShopCategory(input.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	location := normalizeLocation(input.Location)
	if err := validateLocation(location); err != nil {
		return nil, err
	}
	number := normalizeWhatsApp(input.WhatsAppNumber)
	if err := validateWhatsApp(number); err != nil {
		return nil, err
	}

	standard := enums.SubscriptionPlanStandard
	active := enums.SubscriptionStatusActive
	return &models.Shop{
		OwnerID:            ownerID,
		Name:               name,
		Category:           category,
		Location:           location,
		Description:        optionalText(input.Description),
		WhatsAppNumber:     number,
		LogoURL:            optionalText(input.LogoURL),
		SubscriptionPlan:   &standard,
		SubscriptionStatus: &active,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop name is too long")
	}
	return nil
}

func validateLocation(location string) error {
	if location == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if len([]rune(location)) > maxLocationRune {
		return pkgerrors.New(pkgerrors.CodeValidation, "location is too long")
	}
	return nil
}

func validateWhatsApp(number string) error {
	if len(number) < minWhatsAppLen || len(number) > maxWhatsAppLen {
		return pkgerrors.New(pkgerrors.CodeValidation, "whatsapp number must have 9 to 15 digits")
	}
	return nil
}

func mapLookupErr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func mapWriteErr(err error, message string) error {
	switch {
	case db.IsUniqueViolation(err, ownerConstraint), db.IsUniqueViolation(err, sqliteOwnerCol):
		return pkgerrors.New(pkgerrors.CodeConflict, "owner already has a shop")
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.New(pkgerrors.CodeConflict, "shop name already taken")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
	}
}
