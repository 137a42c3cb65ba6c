package handler

import (
	"errors"
	"net/http"

	"github.com/djahern-max/campusconnect-backend/internal/metrics"
	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/server/middleware"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/storage"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// GalleryHandler serves gallery image management for the admin's own entity.
// Uploads land in the Spaces bucket; rows track both origin and CDN URLs.
type GalleryHandler struct {
	store    *store.Store
	access   *service.AccessService
	uploader storage.Uploader
	recorder metrics.Recorder
}

func NewGalleryHandler(st *store.Store, access *service.AccessService, uploader storage.Uploader, recorder metrics.Recorder) *GalleryHandler {
	return &GalleryHandler{
		store:    st,
		access:   access,
		uploader: uploader,
		recorder: recorder,
	}
}

// List returns the entity's gallery in display order.
// GET /api/v1/admin/gallery
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	images, err := h.store.ListImages(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list images: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: images,
		Meta:     &model.ResponseMeta{Count: len(images)},
	})
}

// Upload accepts a multipart image, stores it in the bucket, and records the
// gallery row. The form field is "file"; "caption" and "image_type" are
// optional.
// POST /api/v1/admin/gallery
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	if err := h.access.RequirePremium(r.Context(), p.EntityType, p.EntityID); err != nil {
		if errors.Is(err, service.ErrPremiumRequired) {
			writeError(w, http.StatusPaymentRequired, "Premium subscription required for image galleries")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check access: "+err.Error())
		return
	}

	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	prefix := p.EntityType + "s" // institutions/, scholarships/
	upload, err := h.uploader.UploadImage(r.Context(), prefix, header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		if h.recorder != nil {
			h.recorder.RecordUpload(false)
		}
		switch {
		case errors.Is(err, storage.ErrNotAnImage):
			writeError(w, http.StatusBadRequest, "File must be an image")
		case errors.Is(err, storage.ErrTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "Image exceeds the maximum size")
		default:
			writeError(w, http.StatusBadGateway, "Upload failed: "+err.Error())
		}
		return
	}
	if h.recorder != nil {
		h.recorder.RecordUpload(true)
	}

	img := &model.EntityImage{
		EntityType: p.EntityType,
		EntityID:   p.EntityID,
		ImageURL:   upload.OriginURL,
		CDNURL:     upload.CDNURL,
		Filename:   upload.Key,
		Caption:    r.FormValue("caption"),
		ImageType:  r.FormValue("image_type"),
	}
	if err := h.store.CreateImage(r.Context(), img); err != nil {
		// Best effort cleanup; the row is the source of truth.
		_ = h.uploader.Delete(r.Context(), upload.Key)
		writeError(w, http.StatusInternalServerError, "Failed to record image: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, img)
}

// captionRequest is the payload for UpdateCaption.
type captionRequest struct {
	Caption string `json:"caption"`
}

// UpdateCaption sets an image's caption.
// PATCH /api/v1/admin/gallery/{imageID}
func (h *GalleryHandler) UpdateCaption(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "imageID")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid image ID")
		return
	}
	var req captionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(r.Context())
	if err := h.store.UpdateImageCaption(r.Context(), p.EntityType, p.EntityID, id, req.Caption); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Image not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update caption: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// reorderRequest is the payload for Reorder: the gallery's image ids in the
// desired display order.
type reorderRequest struct {
	ImageIDs []int64 `json:"image_ids"`
}

// Reorder applies a new display order to the gallery.
// PUT /api/v1/admin/gallery/order
func (h *GalleryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.ImageIDs) == 0 {
		writeError(w, http.StatusBadRequest, "image_ids is required")
		return
	}

	p := middleware.GetPrincipal(r.Context())
	if err := h.store.ReorderImages(r.Context(), p.EntityType, p.EntityID, req.ImageIDs); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reorder images: "+err.Error())
		return
	}

	images, err := h.store.ListImages(r.Context(), p.EntityType, p.EntityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list images: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: images,
		Meta:     &model.ResponseMeta{Count: len(images)},
	})
}

// SetFeatured marks one image featured and mirrors it onto the entity's
// primary image.
// PUT /api/v1/admin/gallery/{imageID}/featured
func (h *GalleryHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "imageID")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid image ID")
		return
	}

	p := middleware.GetPrincipal(r.Context())
	if err := h.store.SetFeaturedImage(r.Context(), p.EntityType, p.EntityID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Image not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to set featured image: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Delete removes an image row and its object in the bucket.
// DELETE /api/v1/admin/gallery/{imageID}
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "imageID")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid image ID")
		return
	}

	p := middleware.GetPrincipal(r.Context())
	img, err := h.store.DeleteImage(r.Context(), p.EntityType, p.EntityID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Image not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete image: "+err.Error())
		return
	}

	// Bucket cleanup is best effort.
	_ = h.uploader.Delete(r.Context(), img.Filename)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Image deleted",
	})
}
