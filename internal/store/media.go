package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/djahern-max/campusconnect-backend/internal/model"
)

// CreateImage inserts a gallery image row. Display order defaults to the end
// of the current gallery.
func (s *Store) CreateImage(ctx context.Context, img *model.EntityImage) error {
	img.CreatedAt = time.Now().UTC()

	if img.DisplayOrder == 0 {
		var max sql.NullInt64
		q := s.rebind("SELECT MAX(display_order) FROM entity_images WHERE entity_type = ? AND entity_id = ?")
		if err := s.db.GetContext(ctx, &max, q, img.EntityType, img.EntityID); err != nil {
			return fmt.Errorf("next display order: %w", err)
		}
		img.DisplayOrder = int(max.Int64) + 1
	}

	const q = `INSERT INTO entity_images
		(entity_type, entity_id, image_url, cdn_url, filename, caption,
		 display_order, is_featured, image_type, created_at)
		VALUES
		(:entity_type, :entity_id, :image_url, :cdn_url, :filename, :caption,
		 :display_order, :is_featured, :image_type, :created_at)
		RETURNING id`

	id, err := s.namedInsert(ctx, q, img)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	img.ID = id
	return nil
}

// ListImages returns an entity's gallery in display order.
func (s *Store) ListImages(ctx context.Context, entityType string, entityID int64) ([]model.EntityImage, error) {
	var images []model.EntityImage
	q := s.rebind(`SELECT * FROM entity_images
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY display_order, id`)
	if err := s.db.SelectContext(ctx, &images, q, entityType, entityID); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// GetImage returns a gallery image scoped to its owning entity, so an admin
// can never address another entity's image by id.
func (s *Store) GetImage(ctx context.Context, entityType string, entityID, imageID int64) (*model.EntityImage, error) {
	var img model.EntityImage
	q := s.rebind("SELECT * FROM entity_images WHERE id = ? AND entity_type = ? AND entity_id = ?")
	if err := s.db.GetContext(ctx, &img, q, imageID, entityType, entityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return &img, nil
}

// UpdateImageCaption sets a gallery image's caption.
func (s *Store) UpdateImageCaption(ctx context.Context, entityType string, entityID, imageID int64, caption string) error {
	q := s.rebind("UPDATE entity_images SET caption = ? WHERE id = ? AND entity_type = ? AND entity_id = ?")
	result, err := s.db.ExecContext(ctx, q, caption, imageID, entityType, entityID)
	if err != nil {
		return fmt.Errorf("update image caption: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update image caption rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderImages applies a new display order to an entity's gallery. The ids
// slice is the full gallery in desired order; unknown ids are ignored.
func (s *Store) ReorderImages(ctx context.Context, entityType string, entityID int64, ids []int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	q := tx.Rebind("UPDATE entity_images SET display_order = ? WHERE id = ? AND entity_type = ? AND entity_id = ?")
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, q, i+1, id, entityType, entityID); err != nil {
			return fmt.Errorf("reorder image %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

// SetFeaturedImage marks one gallery image featured, clears the flag on the
// rest, and mirrors the CDN URL onto the owning entity's primary image. One
// transaction so the directory listing never shows a half-applied state.
func (s *Store) SetFeaturedImage(ctx context.Context, entityType string, entityID, imageID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set featured: %w", err)
	}
	defer tx.Rollback()

	var cdnURL string
	getQ := tx.Rebind("SELECT cdn_url FROM entity_images WHERE id = ? AND entity_type = ? AND entity_id = ?")
	if err := tx.GetContext(ctx, &cdnURL, getQ, imageID, entityType, entityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get featured candidate: %w", err)
	}

	clearQ := tx.Rebind("UPDATE entity_images SET is_featured = FALSE WHERE entity_type = ? AND entity_id = ?")
	if _, err := tx.ExecContext(ctx, clearQ, entityType, entityID); err != nil {
		return fmt.Errorf("clear featured: %w", err)
	}
	setQ := tx.Rebind("UPDATE entity_images SET is_featured = TRUE WHERE id = ?")
	if _, err := tx.ExecContext(ctx, setQ, imageID); err != nil {
		return fmt.Errorf("set featured: %w", err)
	}

	table := "institutions"
	if entityType == model.EntityScholarship {
		table = "scholarships"
	}
	mirrorQ := tx.Rebind("UPDATE " + table + " SET primary_image_url = ?, updated_at = ? WHERE id = ?")
	if _, err := tx.ExecContext(ctx, mirrorQ, cdnURL, time.Now().UTC(), entityID); err != nil {
		return fmt.Errorf("mirror primary image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set featured: %w", err)
	}
	return nil
}

// DeleteImage removes a gallery image row and returns it so the caller can
// delete the underlying object from the bucket.
func (s *Store) DeleteImage(ctx context.Context, entityType string, entityID, imageID int64) (*model.EntityImage, error) {
	img, err := s.GetImage(ctx, entityType, entityID, imageID)
	if err != nil {
		return nil, err
	}
	q := s.rebind("DELETE FROM entity_images WHERE id = ?")
	if _, err := s.db.ExecContext(ctx, q, imageID); err != nil {
		return nil, fmt.Errorf("delete image: %w", err)
	}
	return img, nil
}

// CreateVideo inserts a video row for an entity's profile.
func (s *Store) CreateVideo(ctx context.Context, v *model.EntityVideo) error {
	v.CreatedAt = time.Now().UTC()

	if v.DisplayOrder == 0 {
		var max sql.NullInt64
		q := s.rebind("SELECT MAX(display_order) FROM entity_videos WHERE entity_type = ? AND entity_id = ?")
		if err := s.db.GetContext(ctx, &max, q, v.EntityType, v.EntityID); err != nil {
			return fmt.Errorf("next display order: %w", err)
		}
		v.DisplayOrder = int(max.Int64) + 1
	}

	const q = `INSERT INTO entity_videos
		(entity_type, entity_id, video_url, title, description, thumbnail_url,
		 video_type, display_order, is_featured, created_at)
		VALUES
		(:entity_type, :entity_id, :video_url, :title, :description, :thumbnail_url,
		 :video_type, :display_order, :is_featured, :created_at)
		RETURNING id`

	id, err := s.namedInsert(ctx, q, v)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	v.ID = id
	return nil
}

// ListVideos returns an entity's videos in display order.
func (s *Store) ListVideos(ctx context.Context, entityType string, entityID int64) ([]model.EntityVideo, error) {
	var videos []model.EntityVideo
	q := s.rebind(`SELECT * FROM entity_videos
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY display_order, id`)
	if err := s.db.SelectContext(ctx, &videos, q, entityType, entityID); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// UpdateVideo rewrites a video's editable fields, scoped to the owning entity.
func (s *Store) UpdateVideo(ctx context.Context, v *model.EntityVideo) error {
	const q = `UPDATE entity_videos SET
		video_url = :video_url, title = :title, description = :description,
		thumbnail_url = :thumbnail_url, video_type = :video_type,
		display_order = :display_order, is_featured = :is_featured
		WHERE id = :id AND entity_type = :entity_type AND entity_id = :entity_id`

	result, err := s.db.NamedExecContext(ctx, q, v)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update video rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVideo removes a video row, scoped to the owning entity.
func (s *Store) DeleteVideo(ctx context.Context, entityType string, entityID, videoID int64) error {
	q := s.rebind("DELETE FROM entity_videos WHERE id = ? AND entity_type = ? AND entity_id = ?")
	result, err := s.db.ExecContext(ctx, q, videoID, entityType, entityID)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete video rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
