package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/djahern-max/campusconnect-backend/internal/model"
)

// GetDisplaySettings returns an entity's display settings, creating the
// default row on first read so every entity always has settings.
func (s *Store) GetDisplaySettings(ctx context.Context, entityType string, entityID int64) (*model.DisplaySettings, error) {
	var ds model.DisplaySettings
	q := s.rebind("SELECT * FROM display_settings WHERE entity_type = ? AND entity_id = ?")
	err := s.db.GetContext(ctx, &ds, q, entityType, entityID)
	if err == nil {
		return &ds, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get display settings: %w", err)
	}

	def := model.DefaultDisplaySettings(entityType, entityID)
	if err := s.createDisplaySettings(ctx, def); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the race to another first read; fetch the winner's row.
			if err := s.db.GetContext(ctx, &ds, q, entityType, entityID); err != nil {
				return nil, fmt.Errorf("get display settings after race: %w", err)
			}
			return &ds, nil
		}
		return nil, err
	}
	return def, nil
}

func (s *Store) createDisplaySettings(ctx context.Context, ds *model.DisplaySettings) error {
	now := time.Now().UTC()
	ds.CreatedAt = now
	ds.UpdatedAt = now

	const q = `INSERT INTO display_settings
		(entity_type, entity_id, show_stats, show_financial, show_requirements,
		 show_image_gallery, show_video, show_extended_info, custom_tagline,
		 custom_description, extended_description, layout_style, primary_color,
		 created_at, updated_at)
		VALUES
		(:entity_type, :entity_id, :show_stats, :show_financial, :show_requirements,
		 :show_image_gallery, :show_video, :show_extended_info, :custom_tagline,
		 :custom_description, :extended_description, :layout_style, :primary_color,
		 :created_at, :updated_at)
		RETURNING id`

	id, err := s.namedInsert(ctx, q, ds)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert display settings: %w", err)
	}
	ds.ID = id
	return nil
}

// UpdateDisplaySettings rewrites an entity's display settings.
func (s *Store) UpdateDisplaySettings(ctx context.Context, ds *model.DisplaySettings) error {
	ds.UpdatedAt = time.Now().UTC()

	const q = `UPDATE display_settings SET
		show_stats = :show_stats, show_financial = :show_financial,
		show_requirements = :show_requirements, show_image_gallery = :show_image_gallery,
		show_video = :show_video, show_extended_info = :show_extended_info,
		custom_tagline = :custom_tagline, custom_description = :custom_description,
		extended_description = :extended_description, layout_style = :layout_style,
		primary_color = :primary_color, updated_at = :updated_at
		WHERE entity_type = :entity_type AND entity_id = :entity_id`

	result, err := s.db.NamedExecContext(ctx, q, ds)
	if err != nil {
		return fmt.Errorf("update display settings: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update display settings rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetExtendedInfo returns an entity's long-form profile sections.
func (s *Store) GetExtendedInfo(ctx context.Context, entityType string, entityID int64) (*model.ExtendedInfo, error) {
	var info model.ExtendedInfo
	q := s.rebind("SELECT * FROM extended_info WHERE entity_type = ? AND entity_id = ?")
	if err := s.db.GetContext(ctx, &info, q, entityType, entityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get extended info: %w", err)
	}
	return &info, nil
}

// UpsertExtendedInfo writes an entity's long-form sections, inserting on
// first save.
func (s *Store) UpsertExtendedInfo(ctx context.Context, info *model.ExtendedInfo) error {
	now := time.Now().UTC()
	info.UpdatedAt = now
	if info.CreatedAt.IsZero() {
		info.CreatedAt = now
	}

	const q = `INSERT INTO extended_info
		(entity_type, entity_id, campus_description, student_life, housing_info,
		 programs_overview, financial_aid_info, athletics_overview,
		 location_highlights, facilities_overview, custom_sections,
		 created_at, updated_at)
		VALUES
		(:entity_type, :entity_id, :campus_description, :student_life, :housing_info,
		 :programs_overview, :financial_aid_info, :athletics_overview,
		 :location_highlights, :facilities_overview, :custom_sections,
		 :created_at, :updated_at)
		ON CONFLICT(entity_type, entity_id) DO UPDATE SET
		 campus_description = excluded.campus_description,
		 student_life = excluded.student_life,
		 housing_info = excluded.housing_info,
		 programs_overview = excluded.programs_overview,
		 financial_aid_info = excluded.financial_aid_info,
		 athletics_overview = excluded.athletics_overview,
		 location_highlights = excluded.location_highlights,
		 facilities_overview = excluded.facilities_overview,
		 custom_sections = excluded.custom_sections,
		 updated_at = excluded.updated_at
		RETURNING id`

	id, err := s.namedInsert(ctx, q, info)
	if err != nil {
		return fmt.Errorf("upsert extended info: %w", err)
	}
	info.ID = id
	return nil
}
