// Package plan derives every tier-gated capability of a shop from its subscription record.
// Callers never test plan/status themselves; they ask this package.
package plan

import (
	"math"
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

const (
	// StandardProductLimit is the product ceiling for every shop that is not Pro.
	StandardProductLimit = 10
	// ApproachingLimitPercent marks usage that should warn the seller.
	ApproachingLimitPercent = 80.0
	// AtLimitPercent marks usage at the ceiling.
	AtLimitPercent = 100.0
)

// Subscription is the tier-relevant slice of a shop. Empty fields mean "not set".
type Subscription struct {
	Plan    enums.SubscriptionPlan
	Status  enums.SubscriptionStatus
	EndDate *time.Time
}

// IsPro is true iff the plan is pro and the status is active. A nil subscription is not Pro.
func IsPro(s *Subscription) bool {
	if s == nil {
		return false
	}
	return s.Plan == enums.SubscriptionPlanPro && s.Status == enums.SubscriptionStatusActive
}

// IsStandard is the negation of IsPro; a nil subscription is standard.
func IsStandard(s *Subscription) bool {
	return !IsPro(s)
}

// Tier returns the effective plan after applying the status rule.
func Tier(s *Subscription) enums.SubscriptionPlan {
	if IsPro(s) {
		return enums.SubscriptionPlanPro
	}
	return enums.SubscriptionPlanStandard
}

// ProductLimit returns nil for unlimited (Pro) and the standard ceiling otherwise.
func ProductLimit(s *Subscription) *int {
	if IsPro(s) {
		return nil
	}
	limit := StandardProductLimit
	return &limit
}

// Admission is the advisory answer to "may this shop add one more product now".
type Admission struct {
	CanAdd    bool `json:"can_add"`
	Limit     *int `json:"limit"`
	Current   int  `json:"current"`
	Remaining *int `json:"remaining,omitempty"`
}

// CanAddProduct evaluates admission against a freshly read product count. It is a
// policy decision only; atomicity against concurrent inserts is the caller's job.
func CanAddProduct(s *Subscription, currentProductCount int) Admission {
	if currentProductCount < 0 {
		currentProductCount = 0
	}
	if IsPro(s) {
		return Admission{CanAdd: true, Limit: nil, Current: currentProductCount}
	}
	limit := StandardProductLimit
	remaining := max(0, limit-currentProductCount)
	return Admission{
		CanAdd:    currentProductCount < limit,
		Limit:     &limit,
		Current:   currentProductCount,
		Remaining: &remaining,
	}
}

// CanReceiveReviews gates both review submission and review display.
func CanReceiveReviews(s *Subscription) bool {
	return IsPro(s)
}

// DaysRemaining is DaysRemainingAt evaluated at the current time.
func DaysRemaining(s *Subscription) *int {
	return DaysRemainingAt(s, time.Now())
}

// DaysRemainingAt returns whole days left until the end date, rounded up and never
// negative. It returns nil when no end date is recorded.
func DaysRemainingAt(s *Subscription, now time.Time) *int {
	if s == nil || s.EndDate == nil {
		return nil
	}
	left := s.EndDate.Sub(now)
	days := 0
	if left > 0 {
		days = int(math.Ceil(left.Hours() / 24))
	}
	return &days
}

// UsagePercentage returns 0 for unlimited plans and min(100, count/limit*100) otherwise.
func UsagePercentage(count int, limit *int) float64 {
	if limit == nil {
		return 0
	}
	if *limit <= 0 {
		return AtLimitPercent
	}
	if count < 0 {
		count = 0
	}
	return math.Min(AtLimitPercent, float64(count)/float64(*limit)*100)
}
