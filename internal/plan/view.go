package plan

import "time"

// Badge is the display classification of a shop's tier.
type Badge string

const (
	BadgePro      Badge = "Pro"
	BadgeStandard Badge = "Standard"
)

// UsageWarning classifies product usage against the plan ceiling.
type UsageWarning string

const (
	UsageWarningNone        UsageWarning = "none"
	UsageWarningApproaching UsageWarning = "approaching"
	UsageWarningAtLimit     UsageWarning = "at_limit"
)

// StatusView is the presentation-free tier classification.
type StatusView struct {
	Text  string `json:"text"`
	Badge Badge  `json:"badge"`
}

// SubscriptionStatusView classifies a shop as Pro or Standard.
func SubscriptionStatusView(s *Subscription) StatusView {
	if IsPro(s) {
		return StatusView{Text: "Pro", Badge: BadgePro}
	}
	return StatusView{Text: "Standard", Badge: BadgeStandard}
}

// View is the tier summary handed to rendering callers.
type View struct {
	IsPro         bool   `json:"is_pro"`
	IsStandard    bool   `json:"is_standard"`
	Badge         Badge  `json:"badge"`
	DaysRemaining *int   `json:"days_remaining"`
	Plan          string `json:"plan"`
	Status        string `json:"status,omitempty"`
}

// ViewAt builds the tier summary at the provided instant.
func ViewAt(s *Subscription, now time.Time) View {
	pro := IsPro(s)
	view := View{
		IsPro:         pro,
		IsStandard:    !pro,
		Badge:         SubscriptionStatusView(s).Badge,
		DaysRemaining: DaysRemainingAt(s, now),
		Plan:          Tier(s).String(),
	}
	if s != nil {
		view.Status = s.Status.String()
	}
	return view
}

// Warning maps usage onto the fixed 80% / 100% thresholds.
func Warning(count int, limit *int) UsageWarning {
	pct := UsagePercentage(count, limit)
	switch {
	case limit == nil:
		return UsageWarningNone
	case pct >= AtLimitPercent:
		return UsageWarningAtLimit
	case pct >= ApproachingLimitPercent:
		return UsageWarningApproaching
	default:
		return UsageWarningNone
	}
}

// Usage is the owner dashboard summary of product consumption.
type Usage struct {
	Admission
	Percentage float64      `json:"percentage"`
	Warning    UsageWarning `json:"warning"`
}

// UsageFor combines admission with the percentage and warning for count products.
func UsageFor(s *Subscription, count int) Usage {
	admission := CanAddProduct(s, count)
	return Usage{
		Admission:  admission,
		Percentage: UsagePercentage(admission.Current, admission.Limit),
		Warning:    Warning(admission.Current, admission.Limit),
	}
}
