package handler

import (
	"errors"
	"net/http"

	"github.com/djahern-max/campusconnect-backend/internal/billing"
	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/server/middleware"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// SubscriptionHandler serves billing state and checkout/portal flows for the
// admin's own entity. All subscription state transitions happen through
// verified webhook events; these endpoints only read the mirror and hand out
// hosted billing URLs.
type SubscriptionHandler struct {
	store   *store.Store
	access  *service.AccessService
	gateway billing.Gateway
}

func NewSubscriptionHandler(st *store.Store, access *service.AccessService, gateway billing.Gateway) *SubscriptionHandler {
	return &SubscriptionHandler{
		store:   st,
		access:  access,
		gateway: gateway,
	}
}

// Current returns the entity's subscription mirror and resolved access. An
// entity with no subscription row is on the free plan, not a 404.
// GET /api/v1/admin/subscriptions/current
func (h *SubscriptionHandler) Current(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())

	access, err := h.access.Resolve(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve access: "+err.Error())
		return
	}

	resp := map[string]interface{}{"access": access}
	sub, err := h.store.GetSubscriptionByEntity(r.Context(), p.EntityType, p.EntityID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to load subscription: "+err.Error())
		return
	}
	if sub != nil {
		resp["subscription"] = sub
	}
	writeJSON(w, http.StatusOK, resp)
}

// checkoutRequest is the payload for Checkout.
type checkoutRequest struct {
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// Checkout starts a hosted checkout session for the entity and returns its
// URL. Entities already entitled are not sent back through checkout.
// POST /api/v1/admin/subscriptions/checkout
func (h *SubscriptionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		writeError(w, http.StatusBadRequest, "success_url and cancel_url are required")
		return
	}

	p := middleware.GetPrincipal(r.Context())
	access, err := h.access.Resolve(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve access: "+err.Error())
		return
	}
	if access.HasPremium {
		writeError(w, http.StatusConflict, "Entity already has an active subscription")
		return
	}

	entityName, err := h.entityName(r, p)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load entity: "+err.Error())
		return
	}

	url, err := h.gateway.CreateCheckoutSession(r.Context(), billing.CheckoutRequest{
		EntityType: p.EntityType,
		EntityID:   p.EntityID,
		EntityName: entityName,
		AdminEmail: p.Email,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to start checkout: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"checkout_url": url})
}

// portalRequest is the payload for Portal.
type portalRequest struct {
	ReturnURL string `json:"return_url"`
}

// Portal returns a hosted billing portal URL for the entity's customer.
// POST /api/v1/admin/subscriptions/portal
func (h *SubscriptionHandler) Portal(w http.ResponseWriter, r *http.Request) {
	var req portalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ReturnURL == "" {
		writeError(w, http.StatusBadRequest, "return_url is required")
		return
	}

	p := middleware.GetPrincipal(r.Context())
	sub, err := h.store.GetSubscriptionByEntity(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No subscription on file")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load subscription: "+err.Error())
		return
	}
	if sub.StripeCustomerID == "" {
		writeError(w, http.StatusNotFound, "No billing customer on file")
		return
	}

	url, err := h.gateway.CreatePortalSession(r.Context(), sub.StripeCustomerID, req.ReturnURL)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to open billing portal: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"portal_url": url})
}

// Cancel flags the subscription to end at the period boundary. Access runs
// until then; the webhook confirms the flag on the mirror.
// POST /api/v1/admin/subscriptions/cancel
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	sub, err := h.subscriptionWithStripeID(w, r, p)
	if err != nil {
		return // response already written
	}

	if err := h.gateway.CancelAtPeriodEnd(r.Context(), sub.StripeSubscriptionID); err != nil {
		writeError(w, http.StatusBadGateway, "Failed to cancel subscription: "+err.Error())
		return
	}
	// Optimistic local flag; the webhook is authoritative.
	_ = h.store.SetSubscriptionCancelFlag(r.Context(), sub.StripeSubscriptionID, true)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Subscription will cancel at the end of the current period",
	})
}

// Resume clears a pending cancellation.
// POST /api/v1/admin/subscriptions/resume
func (h *SubscriptionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	sub, err := h.subscriptionWithStripeID(w, r, p)
	if err != nil {
		return // response already written
	}

	if err := h.gateway.Resume(r.Context(), sub.StripeSubscriptionID); err != nil {
		writeError(w, http.StatusBadGateway, "Failed to resume subscription: "+err.Error())
		return
	}
	_ = h.store.SetSubscriptionCancelFlag(r.Context(), sub.StripeSubscriptionID, false)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Subscription resumed",
	})
}

func (h *SubscriptionHandler) subscriptionWithStripeID(w http.ResponseWriter, r *http.Request, p *service.Principal) (*model.Subscription, error) {
	sub, err := h.store.GetSubscriptionByEntity(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No subscription on file")
			return nil, err
		}
		writeError(w, http.StatusInternalServerError, "Failed to load subscription: "+err.Error())
		return nil, err
	}
	if sub.StripeSubscriptionID == "" {
		writeError(w, http.StatusNotFound, "No billing subscription on file")
		return nil, store.ErrNotFound
	}
	return sub, nil
}

func (h *SubscriptionHandler) entityName(r *http.Request, p *service.Principal) (string, error) {
	if p.EntityType == model.EntityInstitution {
		inst, err := h.store.GetInstitution(r.Context(), p.EntityID)
		if err != nil {
			return "", err
		}
		return inst.Name, nil
	}
	sch, err := h.store.GetScholarship(r.Context(), p.EntityID)
	if err != nil {
		return "", err
	}
	return sch.Title, nil
}
