package enums

import (
	"fmt"
	"strings"
)

// SubscriptionPlan is the shop tier. A missing plan is read as standard.
type SubscriptionPlan string

const (
	SubscriptionPlanStandard SubscriptionPlan = "standard"
	SubscriptionPlanPro      SubscriptionPlan = "pro"
)

var validSubscriptionPlans = []SubscriptionPlan{
	SubscriptionPlanStandard,
	SubscriptionPlanPro,
}

// String implements fmt.Stringer.
func (p SubscriptionPlan) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p SubscriptionPlan) IsValid() bool {
	for _, candidate := range validSubscriptionPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseSubscriptionPlan converts raw input into a SubscriptionPlan.
func ParseSubscriptionPlan(value string) (SubscriptionPlan, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSubscriptionPlans {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription plan %q", value)
}
