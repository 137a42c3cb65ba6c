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

// ScholarshipFilter narrows ListScholarships.
type ScholarshipFilter struct {
	Type         string
	Status       string
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// CreateScholarship inserts a new scholarship. ID and timestamps are
// populated on success.
func (s *Store) CreateScholarship(ctx context.Context, sch *model.Scholarship) error {
	now := time.Now().UTC()
	sch.CreatedAt = now
	sch.UpdatedAt = now
	if sch.Status == "" {
		sch.Status = model.ScholarshipActive
	}
	if sch.DifficultyLevel == "" {
		sch.DifficultyLevel = "MODERATE"
	}

	const q = `INSERT INTO scholarships
		(title, organization, scholarship_type, status, difficulty_level,
		 amount_min, amount_max, is_renewable, number_of_awards, deadline,
		 description, website_url, min_gpa, primary_image_url, verified,
		 featured, views_count, created_at, updated_at)
		VALUES
		(:title, :organization, :scholarship_type, :status, :difficulty_level,
		 :amount_min, :amount_max, :is_renewable, :number_of_awards, :deadline,
		 :description, :website_url, :min_gpa, :primary_image_url, :verified,
		 :featured, :views_count, :created_at, :updated_at)
		RETURNING id`

	id, err := s.namedInsert(ctx, q, sch)
	if err != nil {
		return fmt.Errorf("insert scholarship: %w", err)
	}
	sch.ID = id
	return nil
}

// ListScholarships returns scholarships matching the filter, newest first.
func (s *Store) ListScholarships(ctx context.Context, f ScholarshipFilter) ([]model.Scholarship, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Type != "" {
		where = append(where, "scholarship_type = ?")
		args = append(args, strings.ToUpper(f.Type))
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, strings.ToUpper(f.Status))
	}
	if f.FeaturedOnly {
		where = append(where, "featured = TRUE")
	}

	q := "SELECT * FROM scholarships"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY featured DESC, created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	var scholarships []model.Scholarship
	if err := s.db.SelectContext(ctx, &scholarships, s.rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list scholarships: %w", err)
	}
	return scholarships, nil
}

// GetScholarship returns a scholarship by id.
func (s *Store) GetScholarship(ctx context.Context, id int64) (*model.Scholarship, error) {
	var sch model.Scholarship
	q := s.rebind("SELECT * FROM scholarships WHERE id = ?")
	if err := s.db.GetContext(ctx, &sch, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get scholarship: %w", err)
	}
	return &sch, nil
}

// UpdateScholarship rewrites a scholarship's editable fields.
func (s *Store) UpdateScholarship(ctx context.Context, sch *model.Scholarship) error {
	sch.UpdatedAt = time.Now().UTC()

	const q = `UPDATE scholarships SET
		title = :title, organization = :organization,
		scholarship_type = :scholarship_type, status = :status,
		difficulty_level = :difficulty_level, amount_min = :amount_min,
		amount_max = :amount_max, is_renewable = :is_renewable,
		number_of_awards = :number_of_awards, deadline = :deadline,
		description = :description, website_url = :website_url,
		min_gpa = :min_gpa, verified = :verified, featured = :featured,
		updated_at = :updated_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, sch)
	if err != nil {
		return fmt.Errorf("update scholarship: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update scholarship rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementScholarshipViews bumps the view counter atomically in SQL, so
// concurrent reads never lose updates.
func (s *Store) IncrementScholarshipViews(ctx context.Context, id int64) error {
	q := s.rebind("UPDATE scholarships SET views_count = views_count + 1 WHERE id = ?")
	if _, err := s.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("increment scholarship views: %w", err)
	}
	return nil
}

// SetScholarshipPrimaryImage updates the denormalized primary image URL.
func (s *Store) SetScholarshipPrimaryImage(ctx context.Context, id int64, url string) error {
	q := s.rebind("UPDATE scholarships SET primary_image_url = ?, updated_at = ? WHERE id = ?")
	if _, err := s.db.ExecContext(ctx, q, url, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("set scholarship primary image: %w", err)
	}
	return nil
}
