package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
)

// ReviewDTO is the public shape of a review.
type ReviewDTO struct {
	ID           uuid.UUID `json:"id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	ReviewerName string    `json:"reviewer_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func fromModel(r *models.Review) ReviewDTO {
	return ReviewDTO{
		ID:           r.ID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		ReviewerName: r.ReviewerName,
		CreatedAt:    r.CreatedAt,
	}
}

// Summary is the tier-gated review aggregate shown on a shop page.
type Summary struct {
	Count   int      `json:"count"`
	Average *float64 `json:"average"`
}

// SubmitInput carries a buyer's review.
type SubmitInput struct {
	Rating       int
	Comment      string
	ReviewerName string
}

// ListResult is one page of visible reviews with the shop's summary.
type ListResult struct {
	Summary Summary         `json:"summary"`
	Reviews []ReviewDTO     `json:"reviews"`
	Page    pagination.Page `json:"page"`
}
