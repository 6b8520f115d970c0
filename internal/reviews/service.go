package reviews

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/plan"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
)

const (
	minRating        = 1
	maxRating        = 5
	maxCommentLength = 1000
	maxReviewerName  = 80
)

type reviewRepository interface {
	FindShopByName(ctx context.Context, name string) (*models.Shop, error)
	Create(ctx context.Context, review *models.Review) error
	Stats(ctx context.Context, shopID uuid.UUID) (int, int, error)
	ListByShop(ctx context.Context, shopID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Review, error)
}

type cacheInvalidator interface {
	Invalidate()
}

// Service accepts and displays reviews for Pro shops.
type Service interface {
	Submit(ctx context.Context, shopName string, input SubmitInput) (*ReviewDTO, error)
	List(ctx context.Context, shopName string, params pagination.Params) (*ListResult, error)
	Summary(ctx context.Context, shop *models.Shop) (Summary, error)
}

type service struct {
	repo   reviewRepository
	search cacheInvalidator
	logg   *logger.Logger
}

// NewService builds the review service. search may be nil.
func NewService(repo reviewRepository, search cacheInvalidator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "review repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, search: search, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, shopName string, input SubmitInput) (*ReviewDTO, error) {
	if err := validateSubmit(&input); err != nil {
		return nil, err
	}
	shop, err := s.shop(ctx, shopName)
	if err != nil {
		return nil, err
	}
	if !plan.CanReceiveReviews(plan.FromShop(shop)) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reviews are available for Pro shops only")
	}

	review := &models.Review{
		ShopID:       shop.ID,
		Rating:       input.Rating,
		Comment:      input.Comment,
		ReviewerName: input.ReviewerName,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	if s.search != nil {
		s.search.Invalidate()
	}
	s.logg.Info(s.logg.WithShopID(ctx, shop.ID.String()), "review submitted")
	dto := fromModel(review)
	return &dto, nil
}

func (s *service) List(ctx context.Context, shopName string, params pagination.Params) (*ListResult, error) {
	shop, err := s.shop(ctx, shopName)
	if err != nil {
		return nil, err
	}
	// Stored reviews stay in place when a shop leaves Pro; they are hidden, not deleted.
	if !plan.CanReceiveReviews(plan.FromShop(shop)) {
		return &ListResult{Reviews: []ReviewDTO{}}, nil
	}

	summary, err := s.Summary(ctx, shop)
	if err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByShop(ctx, shop.ID, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	rows, page := pagination.Trim(rows, limit, func(r models.Review) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	})

	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return &ListResult{Summary: summary, Reviews: out, Page: page}, nil
}

// Summary reports zero reviews for shops that are not Pro.
func (s *service) Summary(ctx context.Context, shop *models.Shop) (Summary, error) {
	if shop == nil || !plan.CanReceiveReviews(plan.FromShop(shop)) {
		return Summary{}, nil
	}
	count, sum, err := s.repo.Stats(ctx, shop.ID)
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate reviews")
	}
	return summarize(count, sum), nil
}

func summarize(count, sum int) Summary {
	if count <= 0 {
		return Summary{}
	}
	avg := math.Round(float64(sum)/float64(count)*10) / 10
	return Summary{Count: count, Average: &avg}
}

func (s *service) shop(ctx context.Context, name string) (*models.Shop, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	shop, err := s.repo.FindShopByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return shop, nil
}

func validateSubmit(input *SubmitInput) error {
	input.Comment = strings.TrimSpace(input.Comment)
	input.ReviewerName = strings.TrimSpace(input.ReviewerName)

	invalid := map[string]string{}
	if input.Rating < minRating || input.Rating > maxRating {
		invalid["rating"] = "must be between 1 and 5"
	}
	if input.Comment == "" {
		invalid["comment"] = "is required"
	} else if len([]rune(input.Comment)) > maxCommentLength {
		invalid["comment"] = "is too long"
	}
	if input.ReviewerName == "" {
		invalid["reviewer_name"] = "is required"
	} else if len([]rune(input.ReviewerName)) > maxReviewerName {
		invalid["reviewer_name"] = "is too long"
	}
	if len(invalid) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid review").WithDetails(invalid)
	}
	return nil
}
