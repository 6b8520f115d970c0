// Package search ranks shops for a free-text query. The engine in this file is
// pure: it never fetches or logs and is deterministic for a given corpus.
package search

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/internal/plan"
)

// Search returns shops whose category or product names contain query, category
// matches first, filtered by location, then ordered by product count within each
// match type. An empty or blank query yields an empty result.
func Search(query, location string, corpus []Shop) []Candidate {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []Candidate{}
	}

	merged := make([]Candidate, 0)
	seen := make(map[uuid.UUID]struct{})

	for i := range corpus {
		shop := &corpus[i]
		if !strings.Contains(strings.ToLower(shop.Category), needle) {
			continue
		}
		if _, dup := seen[shop.ID]; dup {
			continue
		}
		seen[shop.ID] = struct{}{}
		merged = append(merged, candidateFor(shop, MatchTypeCategory, nil))
	}

	for i := range corpus {
		shop := &corpus[i]
		if _, dup := seen[shop.ID]; dup {
			continue
		}
		for _, product := range shop.Products {
			if !strings.Contains(strings.ToLower(product.Name), needle) {
				continue
			}
			name := product.Name
			seen[shop.ID] = struct{}{}
			merged = append(merged, candidateFor(shop, MatchTypeProduct, &name))
			break
		}
	}

	results := filterByLocation(merged, location)

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i].MatchType.rank(), results[j].MatchType.rank()
		if ri != rj {
			return ri < rj
		}
		return results[i].ProductCount > results[j].ProductCount
	})
	return results
}

func filterByLocation(candidates []Candidate, location string) []Candidate {
	wanted := NormalizeLocation(location)
	if wanted == "" {
		return candidates
	}
	out := candidates[:0]
	for _, c := range candidates {
		if NormalizeLocation(c.Location) == wanted {
			out = append(out, c)
		}
	}
	return out
}

// NormalizeLocation is the comparison form of a location: trimmed and lower-cased.
func NormalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

func candidateFor(shop *Shop, matchType MatchType, matchingProduct *string) Candidate {
	count := len(shop.Products)
	c := Candidate{
		ShopID:          shop.ID,
		Name:            shop.Name,
		Category:        shop.Category,
		Location:        shop.Location,
		Description:     shop.Description,
		LogoURL:         shop.LogoURL,
		Badge:           plan.SubscriptionStatusView(&shop.Subscription).Badge,
		MatchType:       matchType,
		MatchingProduct: matchingProduct,
		ProductCount:    count,
		SampleProducts:  sampleProducts(shop.Products),
		RelevanceScore:  relevance(matchType, count),
	}
	if plan.CanReceiveReviews(&shop.Subscription) {
		c.Rating = ratingFor(shop.Reviews)
	}
	return c
}

func sampleProducts(products []Product) []Product {
	n := min(len(products), SampleSize)
	out := make([]Product, n)
	copy(out, products[:n])
	return out
}

// relevance puts category matches in [2,3) and product matches in [1,2), rising
// with product count, so sorting by score agrees with the result order.
func relevance(matchType MatchType, productCount int) float64 {
	base := 1.0
	if matchType == MatchTypeCategory {
		base = 2.0
	}
	n := float64(productCount)
	return base + n/(n+1)
}

func ratingFor(stats ReviewStats) *Rating {
	if stats.Count <= 0 {
		return &Rating{Count: 0}
	}
	avg := math.Round(float64(stats.Sum)/float64(stats.Count)*10) / 10
	return &Rating{Average: &avg, Count: stats.Count}
}
