package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/djahern-max/campusconnect-backend/internal/metrics"
	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/server/middleware"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// InvitationTTL is how long a freshly issued invitation code stays claimable.
const InvitationTTL = 7 * 24 * time.Hour

// AuthHandler serves login, registration, and invitation management.
type AuthHandler struct {
	store    *store.Store
	authSvc  *service.AuthService
	recorder metrics.Recorder
}

func NewAuthHandler(st *store.Store, authSvc *service.AuthService, recorder metrics.Recorder) *AuthHandler {
	return &AuthHandler{
		store:    st,
		authSvc:  authSvc,
		recorder: recorder,
	}
}

// loginResponse is the response payload for a successful login.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login authenticates an admin and returns a bearer token. The body is
// form-encoded (username/password), matching what OAuth2 password-flow
// clients send.
// POST /api/v1/admin/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form body: "+err.Error())
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, _, err := h.authSvc.Login(r.Context(), email, password)
	if err != nil {
		if h.recorder != nil {
			h.recorder.RecordLogin(false)
		}
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, service.ErrAccountInactive):
			writeError(w, http.StatusUnauthorized, "Account is disabled")
		default:
			writeError(w, http.StatusInternalServerError, "Authentication error: "+err.Error())
		}
		return
	}
	if h.recorder != nil {
		h.recorder.RecordLogin(true)
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(service.TokenTTL.Seconds()),
	})
}

// registerRequest is the expected payload for Register.
type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	InvitationCode string `json:"invitation_code"`
}

func (req registerRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&req.InvitationCode, validation.Required, validation.Length(15, 15)),
	)
}

// Register creates an admin account bound to the invitation's entity. The
// code is claimed in the same transaction, so it can only ever admit one
// account.
// POST /api/v1/admin/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	inv, err := h.store.GetInvitationByCode(r.Context(), req.InvitationCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Invalid invitation code")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check invitation: "+err.Error())
		return
	}
	if inv.AssignedEmail != "" && inv.AssignedEmail != req.Email {
		writeError(w, http.StatusBadRequest, "Invitation code is assigned to a different email")
		return
	}

	hash, err := service.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password: "+err.Error())
		return
	}
	admin := &model.AdminUser{
		Email:        req.Email,
		PasswordHash: hash,
		EntityType:   inv.EntityType,
		EntityID:     inv.EntityID,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}

	if err := h.store.RegisterAdmin(r.Context(), admin, req.InvitationCode); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			writeError(w, http.StatusConflict, "An account with this email already exists")
		case errors.Is(err, store.ErrInvitationUnavailable):
			writeError(w, http.StatusBadRequest, "Invitation code is no longer valid")
		default:
			writeError(w, http.StatusInternalServerError, "Registration failed: "+err.Error())
		}
		return
	}

	token, err := h.authSvc.IssueToken(&service.Principal{
		AdminID:    admin.ID,
		Email:      admin.Email,
		EntityType: admin.EntityType,
		EntityID:   admin.EntityID,
		Role:       admin.Role,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(service.TokenTTL.Seconds()),
	})
}

// validateInvitationRequest is the expected payload for ValidateInvitation.
type validateInvitationRequest struct {
	Code string `json:"code"`
}

// ValidateInvitation reports whether a code can still be claimed, and for
// which entity, so the signup form can show context before registration.
// POST /api/v1/admin/auth/validate-invitation
func (h *AuthHandler) ValidateInvitation(w http.ResponseWriter, r *http.Request) {
	var req validateInvitationRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "Code is required")
		return
	}

	inv, err := h.store.GetInvitationByCode(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"valid": false})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check invitation: "+err.Error())
		return
	}

	valid := inv.Status == model.InvitationPending && inv.ExpiresAt.After(time.Now())
	resp := map[string]interface{}{"valid": valid}
	if valid {
		resp["entity_type"] = inv.EntityType
		resp["entity_id"] = inv.EntityID
		resp["expires_at"] = inv.ExpiresAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated admin's account.
// GET /api/v1/admin/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	admin, err := h.store.GetAdmin(r.Context(), principal.AdminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load account: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

// changePasswordRequest is the expected payload for ChangePassword.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (req changePasswordRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.CurrentPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required, validation.Length(8, 128)),
	)
}

// ChangePassword rotates the authenticated admin's password after verifying
// the current one.
// POST /api/v1/admin/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	if err := h.authSvc.ChangePassword(r.Context(), principal.AdminID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to change password: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password updated",
	})
}

// ---------------------------------------------------------------------------
// Invitation management (super admin)
// ---------------------------------------------------------------------------

// createInvitationRequest is the expected payload for CreateInvitation.
type createInvitationRequest struct {
	EntityType    string `json:"entity_type"`
	EntityID      int64  `json:"entity_id"`
	AssignedEmail string `json:"assigned_email"`
}

func (req createInvitationRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.EntityType, validation.Required,
			validation.In(model.EntityInstitution, model.EntityScholarship)),
		validation.Field(&req.EntityID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.AssignedEmail, is.Email),
	)
}

// CreateInvitation issues a new invitation code for an entity.
// POST /api/v1/admin/invitations
func (h *AuthHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req createInvitationRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	// The target entity must exist before a code can point at it.
	var err error
	if req.EntityType == model.EntityInstitution {
		_, err = h.store.GetInstitution(r.Context(), req.EntityID)
	} else {
		_, err = h.store.GetScholarship(r.Context(), req.EntityID)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Entity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check entity: "+err.Error())
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	inv := &model.InvitationCode{
		Code:          model.NewInvitationCode(),
		EntityType:    req.EntityType,
		EntityID:      req.EntityID,
		AssignedEmail: req.AssignedEmail,
		Status:        model.InvitationPending,
		ExpiresAt:     time.Now().UTC().Add(InvitationTTL),
		CreatedBy:     principal.Email,
	}
	if err := h.store.CreateInvitation(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create invitation: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, inv)
}

// ListInvitations returns all invitation codes.
// GET /api/v1/admin/invitations
func (h *AuthHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.store.ListInvitations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invitations: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: invitations,
		Meta:     &model.ResponseMeta{Count: len(invitations)},
	})
}

// RevokeInvitation withdraws a pending code.
// DELETE /api/v1/admin/invitations/{code}
func (h *AuthHandler) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Code is required")
		return
	}

	if err := h.store.RevokeInvitation(r.Context(), code); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Invitation not found")
		case errors.Is(err, store.ErrInvitationUnavailable):
			writeError(w, http.StatusConflict, "Invitation is not pending")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to revoke invitation: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Invitation revoked",
	})
}
