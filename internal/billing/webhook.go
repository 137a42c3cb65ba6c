package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// ErrBadSignature is returned when a webhook payload fails signature
// verification. Callers must reject the request; the body is untrusted.
var ErrBadSignature = errors.New("invalid webhook signature")

// EventRecorder counts verified webhook deliveries.
type EventRecorder interface {
	RecordWebhookEvent(eventType string, duplicate bool)
}

// Processor verifies and applies Stripe webhook events to the local
// subscription mirror. Events are deduplicated by id, so redeliveries are
// acknowledged without touching state twice.
type Processor struct {
	store         *store.Store
	signingSecret string
	logger        *slog.Logger
	recorder      EventRecorder
}

func NewProcessor(st *store.Store, signingSecret string, logger *slog.Logger, recorder EventRecorder) *Processor {
	return &Processor{
		store:         st,
		signingSecret: signingSecret,
		logger:        logger,
		recorder:      recorder,
	}
}

// eventSubscription is the slice of a subscription object the mirror needs.
// Timestamps arrive as unix seconds.
type eventSubscription struct {
	ID                 string            `json:"id"`
	Customer           string            `json:"customer"`
	Status             string            `json:"status"`
	CancelAtPeriodEnd  bool              `json:"cancel_at_period_end"`
	TrialEnd           int64             `json:"trial_end"`
	CurrentPeriodStart int64             `json:"current_period_start"`
	CurrentPeriodEnd   int64             `json:"current_period_end"`
	Metadata           map[string]string `json:"metadata"`
}

// eventInvoice is the slice of an invoice object the mirror needs.
type eventInvoice struct {
	Subscription string `json:"subscription"`
}

// Process verifies the payload signature, dedupes by event id, and applies
// the event. Event types outside the handled set are acknowledged untouched;
// Stripe sends many more than the mirror cares about.
func (p *Processor) Process(ctx context.Context, payload []byte, sigHeader string) error {
	// The dashboard's pinned API version can differ from the SDK's; the
	// fields the mirror reads are stable across them.
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, p.signingSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return ErrBadSignature
	}

	first, err := p.store.MarkWebhookEventProcessed(ctx, event.ID, string(event.Type))
	if err != nil {
		return err
	}
	if p.recorder != nil {
		p.recorder.RecordWebhookEvent(string(event.Type), !first)
	}
	if !first {
		p.logger.Info("webhook event already processed", "event_id", event.ID, "type", event.Type)
		return nil
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		err = p.applySubscription(ctx, event.Data.Raw)
	case "customer.subscription.deleted":
		err = p.applyStatusBySubscription(ctx, event.Data.Raw, model.SubscriptionCanceled)
	case "invoice.payment_succeeded":
		err = p.applyStatusByInvoice(ctx, event.Data.Raw, model.SubscriptionActive)
	case "invoice.payment_failed":
		err = p.applyStatusByInvoice(ctx, event.Data.Raw, model.SubscriptionPastDue)
	default:
		p.logger.Debug("ignoring webhook event", "event_id", event.ID, "type", event.Type)
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply %s: %w", event.Type, err)
	}
	p.logger.Info("webhook event applied", "event_id", event.ID, "type", event.Type)
	return nil
}

// applySubscription mirrors a subscription object onto the local row. The
// entity binding comes from the metadata stamped at checkout; without it the
// event cannot be tied to a local entity and is dropped with a warning.
func (p *Processor) applySubscription(ctx context.Context, raw json.RawMessage) error {
	var es eventSubscription
	if err := json.Unmarshal(raw, &es); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	entityType := es.Metadata["entity_type"]
	entityID, _ := strconv.ParseInt(es.Metadata["entity_id"], 10, 64)
	if entityType == "" || entityID == 0 {
		// Fall back to the existing row when metadata is absent, which
		// happens for updates to subscriptions created out of band.
		existing, err := p.store.GetSubscriptionByStripeID(ctx, es.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				p.logger.Warn("subscription event without entity binding", "stripe_subscription_id", es.ID)
				return nil
			}
			return err
		}
		entityType = existing.EntityType
		entityID = existing.EntityID
	}

	sub := &model.Subscription{
		EntityType:           entityType,
		EntityID:             entityID,
		StripeCustomerID:     es.Customer,
		StripeSubscriptionID: es.ID,
		PlanTier:             model.PlanPremium,
		Status:               es.Status,
		CancelAtPeriodEnd:    es.CancelAtPeriodEnd,
		TrialEnd:             unixTime(es.TrialEnd),
		CurrentPeriodStart:   unixTime(es.CurrentPeriodStart),
		CurrentPeriodEnd:     unixTime(es.CurrentPeriodEnd),
	}
	return p.store.UpsertSubscription(ctx, sub)
}

func (p *Processor) applyStatusBySubscription(ctx context.Context, raw json.RawMessage, status string) error {
	var es eventSubscription
	if err := json.Unmarshal(raw, &es); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}
	return p.updateStatus(ctx, es.ID, status)
}

func (p *Processor) applyStatusByInvoice(ctx context.Context, raw json.RawMessage, status string) error {
	var inv eventInvoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return fmt.Errorf("decode invoice: %w", err)
	}
	if inv.Subscription == "" {
		// One-off invoices carry no subscription; nothing to mirror.
		return nil
	}
	return p.updateStatus(ctx, inv.Subscription, status)
}

func (p *Processor) updateStatus(ctx context.Context, stripeSubID, status string) error {
	err := p.store.UpdateSubscriptionStatusByStripeID(ctx, stripeSubID, status)
	if errors.Is(err, store.ErrNotFound) {
		// Events can arrive before checkout completion lands the row.
		// Acknowledge; the subscription.created/updated event carries the
		// full state and will converge the mirror.
		p.logger.Warn("status event for unknown subscription", "stripe_subscription_id", stripeSubID, "status", status)
		return nil
	}
	return err
}

func unixTime(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
