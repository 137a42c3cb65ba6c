package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/server/middleware"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// ProfileHandler serves an admin's view of their own entity: the directory
// row, display settings, and long-form extended info. Every route here is
// scoped to the entity bound into the caller's token.
type ProfileHandler struct {
	store  *store.Store
	access *service.AccessService
}

func NewProfileHandler(st *store.Store, access *service.AccessService) *ProfileHandler {
	return &ProfileHandler{store: st, access: access}
}

// Get returns the admin's entity with its current access summary.
// GET /api/v1/admin/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())

	var entity interface{}
	var err error
	if p.EntityType == model.EntityInstitution {
		entity, err = h.store.GetInstitution(r.Context(), p.EntityID)
	} else {
		entity, err = h.store.GetScholarship(r.Context(), p.EntityID)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load entity: "+err.Error())
		return
	}

	access, err := h.access.Resolve(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve access: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entity_type": p.EntityType,
		"entity":      entity,
		"access":      access,
	})
}

// Update rewrites the admin's own entity directory fields.
// PUT /api/v1/admin/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())

	if p.EntityType == model.EntityInstitution {
		var req institutionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
			return
		}
		inst := req.toModel()
		inst.ID = p.EntityID
		if err := h.store.UpdateInstitution(r.Context(), inst); err != nil {
			writeProfileUpdateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, inst)
		return
	}

	var req scholarshipRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	sch := req.toModel()
	sch.ID = p.EntityID
	if err := h.store.UpdateScholarship(r.Context(), sch); err != nil {
		writeProfileUpdateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sch)
}

func writeProfileUpdateError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Entity not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to update entity: "+err.Error())
}

// GetDisplaySettings returns the entity's display settings, creating the
// defaults on first read.
// GET /api/v1/admin/display-settings
func (h *ProfileHandler) GetDisplaySettings(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	settings, err := h.store.GetDisplaySettings(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load display settings: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// displaySettingsRequest is the payload for UpdateDisplaySettings.
type displaySettingsRequest struct {
	ShowStats        bool `json:"show_stats"`
	ShowFinancial    bool `json:"show_financial"`
	ShowRequirements bool `json:"show_requirements"`
	ShowImageGallery bool `json:"show_image_gallery"`
	ShowVideo        bool `json:"show_video"`
	ShowExtendedInfo bool `json:"show_extended_info"`

	CustomTagline       string `json:"custom_tagline"`
	CustomDescription   string `json:"custom_description"`
	ExtendedDescription string `json:"extended_description"`

	LayoutStyle  string `json:"layout_style"`
	PrimaryColor string `json:"primary_color"`
}

func (req displaySettingsRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.LayoutStyle, validation.In("standard", "modern", "classic")),
		validation.Field(&req.CustomTagline, validation.Length(0, 200)),
	)
}

// premiumSectionsRequested reports whether the update asks for anything the
// free plan doesn't include.
func (req displaySettingsRequest) premiumSectionsRequested() bool {
	return req.ShowImageGallery || req.ShowVideo || req.ShowExtendedInfo ||
		req.CustomTagline != "" || req.CustomDescription != "" ||
		req.ExtendedDescription != "" || req.PrimaryColor != ""
}

// UpdateDisplaySettings rewrites the entity's display settings. Premium
// sections and custom content require an entitled subscription.
// PUT /api/v1/admin/display-settings
func (h *ProfileHandler) UpdateDisplaySettings(w http.ResponseWriter, r *http.Request) {
	var req displaySettingsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(r.Context())
	if req.premiumSectionsRequested() {
		if err := h.access.RequirePremium(r.Context(), p.EntityType, p.EntityID); err != nil {
			if errors.Is(err, service.ErrPremiumRequired) {
				writeError(w, http.StatusPaymentRequired, "Premium subscription required for these settings")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to check access: "+err.Error())
			return
		}
	}

	// Ensure the row exists before the update.
	settings, err := h.store.GetDisplaySettings(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load display settings: "+err.Error())
		return
	}

	settings.ShowStats = req.ShowStats
	settings.ShowFinancial = req.ShowFinancial
	settings.ShowRequirements = req.ShowRequirements
	settings.ShowImageGallery = req.ShowImageGallery
	settings.ShowVideo = req.ShowVideo
	settings.ShowExtendedInfo = req.ShowExtendedInfo
	settings.CustomTagline = req.CustomTagline
	settings.CustomDescription = req.CustomDescription
	settings.ExtendedDescription = req.ExtendedDescription
	if req.LayoutStyle != "" {
		settings.LayoutStyle = req.LayoutStyle
	}
	settings.PrimaryColor = req.PrimaryColor

	if err := h.store.UpdateDisplaySettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update display settings: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// GetExtendedInfo returns the entity's long-form sections.
// GET /api/v1/admin/extended-info
func (h *ProfileHandler) GetExtendedInfo(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	info, err := h.store.GetExtendedInfo(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Nothing saved yet; return an empty template.
			writeJSON(w, http.StatusOK, &model.ExtendedInfo{
				EntityType: p.EntityType,
				EntityID:   p.EntityID,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load extended info: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// extendedInfoRequest is the payload for UpdateExtendedInfo.
type extendedInfoRequest struct {
	CampusDescription string `json:"campus_description"`
	StudentLife       string `json:"student_life"`
	HousingInfo       string `json:"housing_info"`
	ProgramsOverview  string `json:"programs_overview"`
	FinancialAidInfo  string `json:"financial_aid_info"`
	AthleticsOverview string `json:"athletics_overview"`
	LocationHighlight string `json:"location_highlights"`
	FacilitiesInfo    string `json:"facilities_overview"`
	CustomSections    string `json:"custom_sections"`
}

// UpdateExtendedInfo saves the entity's long-form sections. Premium only;
// these sections render on the paid profile layout.
// PUT /api/v1/admin/extended-info
func (h *ProfileHandler) UpdateExtendedInfo(w http.ResponseWriter, r *http.Request) {
	var req extendedInfoRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(r.Context())
	if err := h.access.RequirePremium(r.Context(), p.EntityType, p.EntityID); err != nil {
		if errors.Is(err, service.ErrPremiumRequired) {
			writeError(w, http.StatusPaymentRequired, "Premium subscription required for extended info")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check access: "+err.Error())
		return
	}

	info := &model.ExtendedInfo{
		EntityType:        p.EntityType,
		EntityID:          p.EntityID,
		CampusDescription: req.CampusDescription,
		StudentLife:       req.StudentLife,
		HousingInfo:       req.HousingInfo,
		ProgramsOverview:  req.ProgramsOverview,
		FinancialAidInfo:  req.FinancialAidInfo,
		AthleticsOverview: req.AthleticsOverview,
		LocationHighlight: req.LocationHighlight,
		FacilitiesInfo:    req.FacilitiesInfo,
		CustomSections:    req.CustomSections,
	}
	if err := h.store.UpsertExtendedInfo(r.Context(), info); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save extended info: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}
