package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/djahern-max/campusconnect-backend/internal/model"
)

// CreateInvitation inserts a new invitation code. Collisions on the random
// code are retried once; a second collision surfaces as ErrDuplicate.
func (s *Store) CreateInvitation(ctx context.Context, inv *model.InvitationCode) error {
	inv.CreatedAt = time.Now().UTC()
	if inv.Status == "" {
		inv.Status = model.InvitationPending
	}

	const q = `INSERT INTO invitation_codes
		(code, entity_type, entity_id, assigned_email, status, expires_at, created_at, created_by)
		VALUES
		(:code, :entity_type, :entity_id, :assigned_email, :status, :expires_at, :created_at, :created_by)
		RETURNING id`

	for attempt := 0; ; attempt++ {
		id, err := s.namedInsert(ctx, q, inv)
		if err == nil {
			inv.ID = id
			return nil
		}
		if isUniqueViolation(err) {
			if attempt == 0 {
				inv.Code = model.NewInvitationCode()
				continue
			}
			return ErrDuplicate
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
}

// GetInvitationByCode returns an invitation code row by its code string.
func (s *Store) GetInvitationByCode(ctx context.Context, code string) (*model.InvitationCode, error) {
	var inv model.InvitationCode
	q := s.rebind("SELECT * FROM invitation_codes WHERE code = ?")
	if err := s.db.GetContext(ctx, &inv, q, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return &inv, nil
}

// ListInvitations returns all invitation codes, newest first.
func (s *Store) ListInvitations(ctx context.Context) ([]model.InvitationCode, error) {
	var invitations []model.InvitationCode
	err := s.db.SelectContext(ctx, &invitations,
		"SELECT * FROM invitation_codes ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

// RevokeInvitation marks a pending code revoked. Claimed or already revoked
// codes are left untouched and reported as ErrInvitationUnavailable.
func (s *Store) RevokeInvitation(ctx context.Context, code string) error {
	q := s.rebind("UPDATE invitation_codes SET status = ? WHERE code = ? AND status = ?")
	result, err := s.db.ExecContext(ctx, q, model.InvitationRevoked, code, model.InvitationPending)
	if err != nil {
		return fmt.Errorf("revoke invitation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke invitation rows affected: %w", err)
	}
	if n == 0 {
		if _, err := s.GetInvitationByCode(ctx, code); err != nil {
			return err
		}
		return ErrInvitationUnavailable
	}
	return nil
}

// ExpireInvitations flips pending codes past their deadline to expired and
// returns how many were flipped. Meant for a periodic sweep; the claim path
// checks expires_at directly so a missed sweep never lets a stale code in.
func (s *Store) ExpireInvitations(ctx context.Context) (int64, error) {
	q := s.rebind("UPDATE invitation_codes SET status = ? WHERE status = ? AND expires_at <= ?")
	result, err := s.db.ExecContext(ctx, q, model.InvitationExpired, model.InvitationPending, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("expire invitations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire invitations rows affected: %w", err)
	}
	return n, nil
}
