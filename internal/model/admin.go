package model

import "time"

// Entity type discriminators. Every admin user, subscription, image, video,
// and settings row is bound to exactly one entity through this typed pair.
const (
	EntityInstitution = "institution"
	EntityScholarship = "scholarship"
)

// Admin roles.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// AdminUser is an administrative account bound to a single institution or
// scholarship. Passwords are stored as bcrypt hashes. Accounts are never
// hard-deleted; deactivation preserves the audit trail.
type AdminUser struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // bcrypt hash, never expose
	EntityType   string     `json:"entity_type" db:"entity_type"`
	EntityID     int64      `json:"entity_id" db:"entity_id"`
	Role         string     `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsSuperAdmin reports whether the account may manage invitation codes and
// other cross-entity resources.
func (a *AdminUser) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}
