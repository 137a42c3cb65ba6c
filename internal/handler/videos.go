package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/server/middleware"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// VideoHandler serves embedded-video management for the admin's own entity.
type VideoHandler struct {
	store  *store.Store
	access *service.AccessService
}

func NewVideoHandler(st *store.Store, access *service.AccessService) *VideoHandler {
	return &VideoHandler{store: st, access: access}
}

// List returns the entity's videos in display order.
// GET /api/v1/admin/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	videos, err := h.store.ListVideos(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list videos: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: videos,
		Meta:     &model.ResponseMeta{Count: len(videos)},
	})
}

// videoRequest is the payload for Create and Update.
type videoRequest struct {
	VideoURL     string `json:"video_url"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	VideoType    string `json:"video_type"`
	DisplayOrder int    `json:"display_order"`
	IsFeatured   bool   `json:"is_featured"`
}

func (req videoRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.VideoURL, validation.Required, is.URL),
		validation.Field(&req.Title, validation.Length(0, 200)),
		validation.Field(&req.VideoType, validation.In("tour", "testimonial", "overview", "custom")),
	)
}

// Create records a new embedded video.
// POST /api/v1/admin/videos
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	if err := h.access.RequirePremium(r.Context(), p.EntityType, p.EntityID); err != nil {
		if errors.Is(err, service.ErrPremiumRequired) {
			writeError(w, http.StatusPaymentRequired, "Premium subscription required for videos")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check access: "+err.Error())
		return
	}

	var req videoRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	v := &model.EntityVideo{
		EntityType:   p.EntityType,
		EntityID:     p.EntityID,
		VideoURL:     req.VideoURL,
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		VideoType:    req.VideoType,
		DisplayOrder: req.DisplayOrder,
		IsFeatured:   req.IsFeatured,
	}
	if err := h.store.CreateVideo(r.Context(), v); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create video: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// Update rewrites a video's fields.
// PUT /api/v1/admin/videos/{videoID}
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "videoID")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	var req videoRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(r.Context())
	v := &model.EntityVideo{
		ID:           id,
		EntityType:   p.EntityType,
		EntityID:     p.EntityID,
		VideoURL:     req.VideoURL,
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		VideoType:    req.VideoType,
		DisplayOrder: req.DisplayOrder,
		IsFeatured:   req.IsFeatured,
	}
	if err := h.store.UpdateVideo(r.Context(), v); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update video: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// Delete removes a video.
// DELETE /api/v1/admin/videos/{videoID}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "videoID")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	p := middleware.GetPrincipal(r.Context())
	if err := h.store.DeleteVideo(r.Context(), p.EntityType, p.EntityID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete video: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Video deleted",
	})
}
