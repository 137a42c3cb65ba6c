package service

import (
	"context"
	"errors"
	"time"

	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// ErrPremiumRequired is returned when an operation needs a premium plan the
// entity does not have.
var ErrPremiumRequired = errors.New("premium subscription required")

// Access summarizes what an entity's subscription currently entitles it to.
type Access struct {
	PlanTier           string `json:"plan_tier"`
	Status             string `json:"status"`
	HasPremium         bool   `json:"has_premium"`
	TrialDaysRemaining int    `json:"trial_days_remaining"`
}

// AccessService resolves subscription rows into feature entitlements.
type AccessService struct {
	store *store.Store
}

func NewAccessService(st *store.Store) *AccessService {
	return &AccessService{store: st}
}

// Resolve returns the entity's current access. Entities with no subscription
// row are on the free plan. Premium is granted while trialing (until the
// trial deadline) or active; past_due and canceled do not qualify.
func (s *AccessService) Resolve(ctx context.Context, entityType string, entityID int64) (*Access, error) {
	sub, err := s.store.GetSubscriptionByEntity(ctx, entityType, entityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &Access{PlanTier: model.PlanFree, Status: "none"}, nil
		}
		return nil, err
	}

	access := &Access{
		PlanTier: sub.PlanTier,
		Status:   sub.Status,
	}
	now := time.Now()

	switch sub.Status {
	case model.SubscriptionTrialing:
		if sub.TrialEnd != nil && sub.TrialEnd.After(now) {
			access.HasPremium = true
			access.TrialDaysRemaining = int(time.Until(*sub.TrialEnd).Hours()/24) + 1
		}
	case model.SubscriptionActive:
		access.HasPremium = true
	}
	return access, nil
}

// RequirePremium returns ErrPremiumRequired unless the entity currently has
// premium access.
func (s *AccessService) RequirePremium(ctx context.Context, entityType string, entityID int64) error {
	access, err := s.Resolve(ctx, entityType, entityID)
	if err != nil {
		return err
	}
	if !access.HasPremium {
		return ErrPremiumRequired
	}
	return nil
}
