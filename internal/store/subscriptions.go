package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/djahern-max/campusconnect-backend/internal/model"
)

// GetSubscriptionByEntity returns the subscription row for an entity.
func (s *Store) GetSubscriptionByEntity(ctx context.Context, entityType string, entityID int64) (*model.Subscription, error) {
	var sub model.Subscription
	q := s.rebind("SELECT * FROM subscriptions WHERE entity_type = ? AND entity_id = ?")
	if err := s.db.GetContext(ctx, &sub, q, entityType, entityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get subscription by entity: %w", err)
	}
	return &sub, nil
}

// GetSubscriptionByStripeID returns the subscription row tied to a Stripe
// subscription id.
func (s *Store) GetSubscriptionByStripeID(ctx context.Context, stripeSubID string) (*model.Subscription, error) {
	var sub model.Subscription
	q := s.rebind("SELECT * FROM subscriptions WHERE stripe_subscription_id = ?")
	if err := s.db.GetContext(ctx, &sub, q, stripeSubID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get subscription by stripe id: %w", err)
	}
	return &sub, nil
}

// UpsertSubscription writes the subscription row for an entity, inserting on
// first contact and overwriting the mirror on replays. Keying on
// (entity_type, entity_id) means webhook retries converge on the same row.
func (s *Store) UpsertSubscription(ctx context.Context, sub *model.Subscription) error {
	now := time.Now().UTC()
	sub.UpdatedAt = now
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}

	const q = `INSERT INTO subscriptions
		(entity_type, entity_id, stripe_customer_id, stripe_subscription_id,
		 plan_tier, status, trial_end, current_period_start, current_period_end,
		 cancel_at_period_end, created_at, updated_at)
		VALUES
		(:entity_type, :entity_id, :stripe_customer_id, :stripe_subscription_id,
		 :plan_tier, :status, :trial_end, :current_period_start, :current_period_end,
		 :cancel_at_period_end, :created_at, :updated_at)
		ON CONFLICT(entity_type, entity_id) DO UPDATE SET
		 stripe_customer_id = excluded.stripe_customer_id,
		 stripe_subscription_id = excluded.stripe_subscription_id,
		 plan_tier = excluded.plan_tier,
		 status = excluded.status,
		 trial_end = excluded.trial_end,
		 current_period_start = excluded.current_period_start,
		 current_period_end = excluded.current_period_end,
		 cancel_at_period_end = excluded.cancel_at_period_end,
		 updated_at = excluded.updated_at
		RETURNING id`

	id, err := s.namedInsert(ctx, q, sub)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	sub.ID = id
	return nil
}

// UpdateSubscriptionStatusByStripeID sets the status of the row mirroring a
// Stripe subscription. Returns ErrNotFound when no local row is tied to it.
func (s *Store) UpdateSubscriptionStatusByStripeID(ctx context.Context, stripeSubID, status string) error {
	q := s.rebind("UPDATE subscriptions SET status = ?, updated_at = ? WHERE stripe_subscription_id = ?")
	result, err := s.db.ExecContext(ctx, q, status, time.Now().UTC(), stripeSubID)
	if err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscription status rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSubscriptionCancelFlag records whether the subscription ends at the
// current period boundary.
func (s *Store) SetSubscriptionCancelFlag(ctx context.Context, stripeSubID string, cancel bool) error {
	q := s.rebind("UPDATE subscriptions SET cancel_at_period_end = ?, updated_at = ? WHERE stripe_subscription_id = ?")
	if _, err := s.db.ExecContext(ctx, q, cancel, time.Now().UTC(), stripeSubID); err != nil {
		return fmt.Errorf("set subscription cancel flag: %w", err)
	}
	return nil
}

// MarkWebhookEventProcessed records a webhook event id, returning true if
// this is the first delivery. A false return means the event was already
// handled and the caller should acknowledge without reprocessing.
func (s *Store) MarkWebhookEventProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	q := s.rebind(`INSERT INTO webhook_events (event_id, event_type, received_at)
		VALUES (?, ?, ?) ON CONFLICT(event_id) DO NOTHING`)
	result, err := s.db.ExecContext(ctx, q, eventID, eventType, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("mark webhook event: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark webhook event rows affected: %w", err)
	}
	return n > 0, nil
}
