package model

import "time"

// Subscription statuses mirror the payment processor's view. The local row
// is a cache of that view, mutated only by verified webhook events.
const (
	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// Plan tiers.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Subscription tracks the billing state of a single entity, one row per
// (entity_type, entity_id). Period boundaries come from Stripe verbatim.
type Subscription struct {
	ID                   int64      `json:"id" db:"id"`
	EntityType           string     `json:"entity_type" db:"entity_type"`
	EntityID             int64      `json:"entity_id" db:"entity_id"`
	StripeCustomerID     string     `json:"stripe_customer_id,omitempty" db:"stripe_customer_id"`
	StripeSubscriptionID string     `json:"stripe_subscription_id,omitempty" db:"stripe_subscription_id"`
	PlanTier             string     `json:"plan_tier" db:"plan_tier"`
	Status               string     `json:"status" db:"status"`
	TrialEnd             *time.Time `json:"trial_end,omitempty" db:"trial_end"`
	CurrentPeriodStart   *time.Time `json:"current_period_start,omitempty" db:"current_period_start"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty" db:"current_period_end"`
	CancelAtPeriodEnd    bool       `json:"cancel_at_period_end" db:"cancel_at_period_end"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}
