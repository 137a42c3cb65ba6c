package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/djahern-max/campusconnect-backend/internal/model"
)

// InstitutionFilter narrows ListInstitutions.
type InstitutionFilter struct {
	State        string
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// CreateInstitution inserts a new institution. ID and timestamps are
// populated on success. Returns ErrDuplicate if the IPEDS id is taken.
func (s *Store) CreateInstitution(ctx context.Context, inst *model.Institution) error {
	now := time.Now().UTC()
	inst.CreatedAt = now
	inst.UpdatedAt = now

	const q = `INSERT INTO institutions
		(ipeds_id, name, city, state, control_type, website, primary_image_url,
		 student_faculty_ratio, size_category, locale, tuition_in_state,
		 tuition_out_of_state, room_and_board, acceptance_rate, is_featured,
		 created_at, updated_at)
		VALUES
		(:ipeds_id, :name, :city, :state, :control_type, :website, :primary_image_url,
		 :student_faculty_ratio, :size_category, :locale, :tuition_in_state,
		 :tuition_out_of_state, :room_and_board, :acceptance_rate, :is_featured,
		 :created_at, :updated_at)
		RETURNING id`

	id, err := s.namedInsert(ctx, q, inst)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert institution: %w", err)
	}
	inst.ID = id
	return nil
}

// ListInstitutions returns institutions matching the filter. Without a state
// filter, priority states (NH, MA, CA) sort first, then state and name.
func (s *Store) ListInstitutions(ctx context.Context, f InstitutionFilter) ([]model.Institution, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.State != "" {
		where = append(where, "state = ?")
		args = append(args, strings.ToUpper(f.State))
	}
	if f.FeaturedOnly {
		where = append(where, "is_featured = TRUE")
	}

	q := "SELECT * FROM institutions"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	if f.State != "" {
		q += " ORDER BY name"
	} else {
		q += ` ORDER BY CASE state WHEN 'NH' THEN 1 WHEN 'MA' THEN 2 WHEN 'CA' THEN 3 ELSE 4 END, state, name`
	}
	q += " LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	var institutions []model.Institution
	if err := s.db.SelectContext(ctx, &institutions, s.rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	return institutions, nil
}

// GetInstitution returns an institution by row id.
func (s *Store) GetInstitution(ctx context.Context, id int64) (*model.Institution, error) {
	var inst model.Institution
	q := s.rebind("SELECT * FROM institutions WHERE id = ?")
	if err := s.db.GetContext(ctx, &inst, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get institution: %w", err)
	}
	return &inst, nil
}

// GetInstitutionByIPEDS returns an institution by its federal IPEDS id.
func (s *Store) GetInstitutionByIPEDS(ctx context.Context, ipedsID int64) (*model.Institution, error) {
	var inst model.Institution
	q := s.rebind("SELECT * FROM institutions WHERE ipeds_id = ?")
	if err := s.db.GetContext(ctx, &inst, q, ipedsID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get institution by ipeds id: %w", err)
	}
	return &inst, nil
}

// UpdateInstitution rewrites an institution's editable fields.
func (s *Store) UpdateInstitution(ctx context.Context, inst *model.Institution) error {
	inst.UpdatedAt = time.Now().UTC()

	const q = `UPDATE institutions SET
		name = :name, city = :city, state = :state, control_type = :control_type,
		website = :website, student_faculty_ratio = :student_faculty_ratio,
		size_category = :size_category, locale = :locale,
		tuition_in_state = :tuition_in_state, tuition_out_of_state = :tuition_out_of_state,
		room_and_board = :room_and_board, acceptance_rate = :acceptance_rate,
		is_featured = :is_featured, updated_at = :updated_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, inst)
	if err != nil {
		return fmt.Errorf("update institution: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update institution rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetInstitutionPrimaryImage updates the denormalized primary image URL
// shown on directory listings.
func (s *Store) SetInstitutionPrimaryImage(ctx context.Context, id int64, url string) error {
	q := s.rebind("UPDATE institutions SET primary_image_url = ?, updated_at = ? WHERE id = ?")
	if _, err := s.db.ExecContext(ctx, q, url, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("set institution primary image: %w", err)
	}
	return nil
}
