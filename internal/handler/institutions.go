package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// InstitutionHandler serves the public institution directory and the
// super-admin directory management endpoints.
type InstitutionHandler struct {
	store  *store.Store
	access *service.AccessService
}

func NewInstitutionHandler(st *store.Store, access *service.AccessService) *InstitutionHandler {
	return &InstitutionHandler{store: st, access: access}
}

// List returns institutions, filterable by state and featured flag.
// GET /api/v1/institutions
func (h *InstitutionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50, 200)
	institutions, err := h.store.ListInstitutions(r.Context(), store.InstitutionFilter{
		State:        queryString(r, "state"),
		FeaturedOnly: queryBool(r, "featured"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list institutions: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: institutions,
		Meta: &model.ResponseMeta{
			Count:  len(institutions),
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Get returns one institution's full public profile: the directory row plus
// whatever premium sections its display settings expose. Premium sections of
// entities without premium access are withheld even if toggled on.
// GET /api/v1/institutions/{institutionID}
func (h *InstitutionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "institutionID")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid institution ID")
		return
	}

	inst, err := h.store.GetInstitution(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Institution not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get institution: "+err.Error())
		return
	}

	profile, err := buildPublicProfile(r, h.store, h.access, model.EntityInstitution, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build profile: "+err.Error())
		return
	}
	profile["institution"] = inst
	writeJSON(w, http.StatusOK, profile)
}

// institutionRequest is the payload for Create and Update.
type institutionRequest struct {
	IPEDSID           int64    `json:"ipeds_id"`
	Name              string   `json:"name"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	ControlType       string   `json:"control_type"`
	Website           string   `json:"website"`
	SizeCategory      string   `json:"size_category"`
	Locale            string   `json:"locale"`
	TuitionInState    *float64 `json:"tuition_in_state"`
	TuitionOutOfState *float64 `json:"tuition_out_of_state"`
	RoomAndBoard      *float64 `json:"room_and_board"`
	AcceptanceRate    *float64 `json:"acceptance_rate"`
	StudentFacultyRa  *float64 `json:"student_faculty_ratio"`
	IsFeatured        bool     `json:"is_featured"`
}

func (req institutionRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.IPEDSID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.City, validation.Required),
		validation.Field(&req.State, validation.Required, validation.Length(2, 2)),
		validation.Field(&req.ControlType, validation.Required,
			validation.In(model.ControlPublic, model.ControlPrivateNonprofit, model.ControlPrivateForProfit)),
		validation.Field(&req.Website, is.URL),
	)
}

func (req institutionRequest) toModel() *model.Institution {
	return &model.Institution{
		IPEDSID:             req.IPEDSID,
		Name:                req.Name,
		City:                req.City,
		State:               req.State,
		ControlType:         req.ControlType,
		Website:             req.Website,
		SizeCategory:        req.SizeCategory,
		Locale:              req.Locale,
		TuitionInState:      req.TuitionInState,
		TuitionOutOfState:   req.TuitionOutOfState,
		RoomAndBoard:        req.RoomAndBoard,
		AcceptanceRate:      req.AcceptanceRate,
		StudentFacultyRatio: req.StudentFacultyRa,
		IsFeatured:          req.IsFeatured,
	}
}

// Create adds an institution to the directory.
// POST /api/v1/admin/institutions
func (h *InstitutionHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	if err := h.store.CreateInstitution(r.Context(), inst); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "An institution with this IPEDS ID already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create institution: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, inst)
}

// Update rewrites an institution's directory fields.
// PUT /api/v1/admin/institutions/{institutionID}
func (h *InstitutionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "institutionID")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid institution ID")
		return
	}

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
	inst.ID = id
	if err := h.store.UpdateInstitution(r.Context(), inst); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Institution not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update institution: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, inst)
}

// buildPublicProfile assembles the premium sections of a public entity
// profile. Sections appear only when the entity's display settings toggle
// them on AND the entity currently has premium access; lapsed subscriptions
// fall back to the plain directory listing without deleting any content.
func buildPublicProfile(r *http.Request, st *store.Store, access *service.AccessService, entityType string, entityID int64) (map[string]interface{}, error) {
	ctx := r.Context()
	profile := map[string]interface{}{}

	settings, err := st.GetDisplaySettings(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	profile["display_settings"] = settings

	a, err := access.Resolve(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if !a.HasPremium {
		return profile, nil
	}

	if settings.ShowImageGallery {
		images, err := st.ListImages(ctx, entityType, entityID)
		if err != nil {
			return nil, err
		}
		profile["images"] = images
	}
	if settings.ShowVideo {
		videos, err := st.ListVideos(ctx, entityType, entityID)
		if err != nil {
			return nil, err
		}
		profile["videos"] = videos
	}
	if settings.ShowExtendedInfo {
		info, err := st.GetExtendedInfo(ctx, entityType, entityID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if info != nil {
			profile["extended_info"] = info
		}
	}
	return profile, nil
}
