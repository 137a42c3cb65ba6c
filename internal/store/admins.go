package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/djahern-max/campusconnect-backend/internal/model"
)

// CreateAdmin inserts a new admin account. ID, CreatedAt, and UpdatedAt are
// populated on success. Returns ErrDuplicate if the email is taken.
func (s *Store) CreateAdmin(ctx context.Context, admin *model.AdminUser) error {
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	if admin.Role == "" {
		admin.Role = model.RoleAdmin
	}

	const q = `INSERT INTO admin_users
		(email, password_hash, entity_type, entity_id, role, is_active, created_at, updated_at)
		VALUES
		(:email, :password_hash, :entity_type, :entity_id, :role, :is_active, :created_at, :updated_at)
		RETURNING id`

	id, err := s.namedInsert(ctx, q, admin)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	admin.ID = id
	return nil
}

// GetAdminByEmail returns the admin account for an email address.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var admin model.AdminUser
	q := s.rebind("SELECT * FROM admin_users WHERE email = ?")
	if err := s.db.GetContext(ctx, &admin, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return &admin, nil
}

// GetAdmin returns an admin account by id.
func (s *Store) GetAdmin(ctx context.Context, id int64) (*model.AdminUser, error) {
	var admin model.AdminUser
	q := s.rebind("SELECT * FROM admin_users WHERE id = ?")
	if err := s.db.GetContext(ctx, &admin, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &admin, nil
}

// ListAdmins returns all admin accounts ordered by email.
func (s *Store) ListAdmins(ctx context.Context) ([]model.AdminUser, error) {
	var admins []model.AdminUser
	if err := s.db.SelectContext(ctx, &admins, "SELECT * FROM admin_users ORDER BY email"); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// HasAnyAdmin reports whether at least one admin account exists.
func (s *Store) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admin_users"); err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}

// UpdateAdminLastLogin stamps the account's last successful login.
func (s *Store) UpdateAdminLastLogin(ctx context.Context, id int64) error {
	q := s.rebind("UPDATE admin_users SET last_login_at = ? WHERE id = ?")
	if _, err := s.db.ExecContext(ctx, q, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdateAdminPassword replaces the stored password hash.
func (s *Store) UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error {
	q := s.rebind("UPDATE admin_users SET password_hash = ?, updated_at = ? WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateAdmin soft-deactivates an account. Rows are never deleted so the
// audit trail survives.
func (s *Store) DeactivateAdmin(ctx context.Context, id int64) error {
	q := s.rebind("UPDATE admin_users SET is_active = FALSE, updated_at = ? WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate admin: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate admin rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RegisterAdmin creates an admin account and claims the invitation code in a
// single transaction. The claim is a conditional UPDATE on the pending row,
// so two concurrent registrations with the same code cannot both succeed.
func (s *Store) RegisterAdmin(ctx context.Context, admin *model.AdminUser, code string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin register: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	if admin.Role == "" {
		admin.Role = model.RoleAdmin
	}

	const insertQ = `INSERT INTO admin_users
		(email, password_hash, entity_type, entity_id, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	row := tx.QueryRowxContext(ctx, tx.Rebind(insertQ),
		admin.Email, admin.PasswordHash, admin.EntityType, admin.EntityID,
		admin.Role, admin.IsActive, admin.CreatedAt, admin.UpdatedAt)
	if err := row.Scan(&admin.ID); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert admin: %w", err)
	}

	const claimQ = `UPDATE invitation_codes
		SET status = ?, claimed_by = ?, claimed_at = ?
		WHERE code = ? AND status = ? AND expires_at > ?`
	result, err := tx.ExecContext(ctx, tx.Rebind(claimQ),
		model.InvitationClaimed, admin.ID, now, code, model.InvitationPending, now)
	if err != nil {
		return fmt.Errorf("claim invitation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim invitation rows affected: %w", err)
	}
	if n == 0 {
		return ErrInvitationUnavailable
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit register: %w", err)
	}
	return nil
}
