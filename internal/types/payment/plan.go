package payment

import "strings"

const (
	PlanPremiumMonthly      = "premium_monthly"
	PlanPremiumResumeReview = "premium_resume_review"

	CurrencyINR = "INR"
)

// Plan is a purchasable product. Amount is in paise.
type Plan struct {
	Name     string   `json:"name"`
	Type     PlanType `json:"type"`
	Amount   int64    `json:"amount"`
	Currency string   `json:"currency"`
}

var plans = map[string]Plan{
	PlanPremiumMonthly: {
		Name:     PlanPremiumMonthly,
		Type:     PlanSubscription,
		Amount:   19900,
		Currency: CurrencyINR,
	},
	PlanPremiumResumeReview: {
		Name:     PlanPremiumResumeReview,
		Type:     PlanOneTime,
		Amount:   49900,
		Currency: CurrencyINR,
	},
}

// LookupPlan resolves a plan by name, ignoring case and surrounding spaces.
func LookupPlan(name string) (Plan, bool) {
	p, ok := plans[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}
