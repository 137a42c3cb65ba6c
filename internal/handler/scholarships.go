package handler

import (
	"errors"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// ScholarshipHandler serves the public scholarship directory and the
// super-admin directory management endpoints.
type ScholarshipHandler struct {
	store  *store.Store
	access *service.AccessService
}

func NewScholarshipHandler(st *store.Store, access *service.AccessService) *ScholarshipHandler {
	return &ScholarshipHandler{store: st, access: access}
}

// List returns scholarships, filterable by type, status, and featured flag.
// GET /api/v1/scholarships
func (h *ScholarshipHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50, 200)
	scholarships, err := h.store.ListScholarships(r.Context(), store.ScholarshipFilter{
		Type:         queryString(r, "type"),
		Status:       queryString(r, "status"),
		FeaturedOnly: queryBool(r, "featured"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scholarships: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: scholarships,
		Meta: &model.ResponseMeta{
			Count:  len(scholarships),
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Get returns one scholarship's public profile and counts the view.
// GET /api/v1/scholarships/{scholarshipID}
func (h *ScholarshipHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "scholarshipID")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid scholarship ID")
		return
	}

	sch, err := h.store.GetScholarship(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Scholarship not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get scholarship: "+err.Error())
		return
	}

	// View count is best effort; a miss never blocks the read.
	if err := h.store.IncrementScholarshipViews(r.Context(), id); err == nil {
		sch.ViewsCount++
	}

	profile, err := buildPublicProfile(r, h.store, h.access, model.EntityScholarship, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build profile: "+err.Error())
		return
	}
	profile["scholarship"] = sch
	writeJSON(w, http.StatusOK, profile)
}

// scholarshipRequest is the payload for Create and Update.
type scholarshipRequest struct {
	Title           string     `json:"title"`
	Organization    string     `json:"organization"`
	ScholarshipType string     `json:"scholarship_type"`
	Status          string     `json:"status"`
	DifficultyLevel string     `json:"difficulty_level"`
	AmountMin       int64      `json:"amount_min"`
	AmountMax       int64      `json:"amount_max"`
	IsRenewable     bool       `json:"is_renewable"`
	NumberOfAwards  *int64     `json:"number_of_awards"`
	Deadline        *time.Time `json:"deadline"`
	Description     string     `json:"description"`
	WebsiteURL      string     `json:"website_url"`
	MinGPA          *float64   `json:"min_gpa"`
	Verified        bool       `json:"verified"`
	Featured        bool       `json:"featured"`
}

func (req scholarshipRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Organization, validation.Required),
		validation.Field(&req.ScholarshipType, validation.Required, validation.In(
			model.ScholarshipAcademicMerit, model.ScholarshipNeedBased, model.ScholarshipSTEM,
			model.ScholarshipArts, model.ScholarshipDiversity, model.ScholarshipAthletic,
			model.ScholarshipLeadership, model.ScholarshipMilitary, model.ScholarshipCareerSpecific)),
		validation.Field(&req.Status, validation.In(
			model.ScholarshipActive, model.ScholarshipInactive, model.ScholarshipExpired)),
		validation.Field(&req.AmountMin, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.AmountMax, validation.Required, validation.Min(req.AmountMin)),
		validation.Field(&req.WebsiteURL, is.URL),
	)
}

func (req scholarshipRequest) toModel() *model.Scholarship {
	return &model.Scholarship{
		Title:           req.Title,
		Organization:    req.Organization,
		ScholarshipType: req.ScholarshipType,
		Status:          req.Status,
		DifficultyLevel: req.DifficultyLevel,
		AmountMin:       req.AmountMin,
		AmountMax:       req.AmountMax,
		IsRenewable:     req.IsRenewable,
		NumberOfAwards:  req.NumberOfAwards,
		Deadline:        req.Deadline,
		Description:     req.Description,
		WebsiteURL:      req.WebsiteURL,
		MinGPA:          req.MinGPA,
		Verified:        req.Verified,
		Featured:        req.Featured,
	}
}

// Create adds a scholarship to the directory.
// POST /api/v1/admin/scholarships
func (h *ScholarshipHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	if err := h.store.CreateScholarship(r.Context(), sch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create scholarship: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, sch)
}

// Update rewrites a scholarship's directory fields.
// PUT /api/v1/admin/scholarships/{scholarshipID}
func (h *ScholarshipHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "scholarshipID")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid scholarship ID")
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
	sch.ID = id
	if err := h.store.UpdateScholarship(r.Context(), sch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Scholarship not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update scholarship: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sch)
}
