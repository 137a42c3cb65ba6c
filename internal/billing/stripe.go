package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	portalsession "github.com/stripe/stripe-go/v78/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/subscription"

	"github.com/djahern-max/campusconnect-backend/internal/model"
)

// Monthly prices in cents and the trial window offered at checkout.
const (
	InstitutionPriceCents = 3999
	ScholarshipPriceCents = 1999
	TrialPeriodDays       = 30
)

// CheckoutRequest carries what the gateway needs to start a subscription
// checkout for an entity.
type CheckoutRequest struct {
	EntityType string
	EntityID   int64
	EntityName string
	AdminEmail string
	SuccessURL string
	CancelURL  string
}

// Gateway is the billing operations surface. The Stripe-backed implementation
// is the only production one; tests substitute their own.
type Gateway interface {
	// CreateCheckoutSession starts a hosted checkout and returns its URL.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	// CreatePortalSession returns a hosted billing portal URL for a customer.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	// CancelAtPeriodEnd flags the subscription to end at the period boundary.
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error
	// Resume clears a pending cancellation.
	Resume(ctx context.Context, subscriptionID string) error
}

type stripeGateway struct{}

// NewStripeGateway configures the Stripe client with the given API key and
// returns the production gateway.
func NewStripeGateway(apiKey string) Gateway {
	stripe.Key = apiKey
	return &stripeGateway{}
}

// PriceCentsFor returns the monthly price for an entity type.
func PriceCentsFor(entityType string) int64 {
	if entityType == model.EntityScholarship {
		return ScholarshipPriceCents
	}
	return InstitutionPriceCents
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	productName := fmt.Sprintf("Premium Listing: %s", req.EntityName)

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(req.AdminEmail),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("usd"),
				UnitAmount: stripe.Int64(PriceCentsFor(req.EntityType)),
				Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
					Interval: stripe.String("month"),
				},
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(productName),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(TrialPeriodDays),
			// The entity binding rides on the subscription so webhook events
			// can be tied back to a local row.
			Metadata: map[string]string{
				"entity_type": req.EntityType,
				"entity_id":   fmt.Sprintf("%d", req.EntityID),
			},
		},
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (g *stripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := portalsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return sess.URL, nil
}

func (g *stripeGateway) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	if _, err := subscription.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	return nil
}

func (g *stripeGateway) Resume(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(false),
	}
	params.Context = ctx

	if _, err := subscription.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("resume subscription: %w", err)
	}
	return nil
}
