package plan

import "github.com/angelmondragon/shopfront-backend/pkg/db/models"

// FromShop lifts the persisted subscription columns into a Subscription.
// A nil shop yields nil, which every policy reads as standard.
func FromShop(shop *models.Shop) *Subscription {
	if shop == nil {
		return nil
	}
	s := &Subscription{EndDate: shop.SubscriptionEndDate}
	if shop.SubscriptionPlan != nil {
		s.Plan = *shop.SubscriptionPlan
	}
	if shop.SubscriptionStatus != nil {
		s.Status = *shop.SubscriptionStatus
	}
	return s
}
