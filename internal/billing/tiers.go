package billing

import "github.com/blagoySimandov/astra/go/internal/models"

const (
	PlanFree     = "free"
	PlanPro      = "pro"
	PlanBusiness = "business"

	StatusActive = "active"
)

var knownPlans = map[string]bool{
	PlanFree:     true,
	PlanPro:      true,
	PlanBusiness: true,
}

// DefaultSubscription is what a profile gets on its first save.
func DefaultSubscription() models.Subscription {
	return models.Subscription{Plan: PlanFree, Status: StatusActive}
}

func DefaultUsage() models.Usage {
	return models.Usage{GenerationsThisMonth: 0}
}

// ResolveSubscription maps a stored subscription onto the plan catalogue.
// Documents written before defaults existed, or carrying a plan this
// service does not sell, read back as the default subscription.
func ResolveSubscription(stored models.Subscription) models.Subscription {
	if !knownPlans[stored.Plan] {
		return DefaultSubscription()
	}
	if stored.Status == "" {
		stored.Status = StatusActive
	}
	return stored
}
