package search

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopfront-backend/internal/plan"
)

// MatchType records why a shop was included in the results.
type MatchType string

const (
	MatchTypeCategory MatchType = "category"
	MatchTypeProduct  MatchType = "product"
)

// rank orders match types; category always outranks product.
func (m MatchType) rank() int {
	if m == MatchTypeCategory {
		return 0
	}
	return 1
}

// SampleSize is how many products are attached to each result for preview.
const SampleSize = 2

// Product is a listing as seen by the search corpus.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// ReviewStats is the raw aggregate over a shop's stored reviews, before tier gating.
type ReviewStats struct {
	Count int
	Sum   int
}

// Shop is one corpus entry: a shop with its products and review aggregate.
type Shop struct {
	ID             uuid.UUID
	Name           string
	Category       string
	Location       string
	Description    *string
	LogoURL        *string
	WhatsAppNumber string
	Subscription   plan.Subscription
	Products       []Product
	Reviews        ReviewStats
}

// Rating is attached to results for Pro shops only.
type Rating struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

// Candidate is one ranked search result.
type Candidate struct {
	ShopID          uuid.UUID  `json:"shop_id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Location        string     `json:"location"`
	Description     *string    `json:"description,omitempty"`
	LogoURL         *string    `json:"logo_url,omitempty"`
	Badge           plan.Badge `json:"badge"`
	MatchType       MatchType  `json:"match_type"`
	MatchingProduct *string    `json:"matching_product,omitempty"`
	ProductCount    int        `json:"product_count"`
	SampleProducts  []Product  `json:"sample_products"`
	RelevanceScore  float64    `json:"relevance_score"`
	Rating          *Rating    `json:"rating,omitempty"`
}
