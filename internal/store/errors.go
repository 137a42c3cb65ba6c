package store

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness constraint would be
	// violated (email already registered, code already issued).
	ErrDuplicate = errors.New("already exists")

	// ErrInvitationUnavailable is returned when an invitation code cannot
	// be claimed because it is not pending anymore.
	ErrInvitationUnavailable = errors.New("invitation not claimable")
)
