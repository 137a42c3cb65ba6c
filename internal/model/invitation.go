package model

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

// Invitation code lifecycle.
const (
	InvitationPending = "pending"
	InvitationClaimed = "claimed"
	InvitationExpired = "expired"
	InvitationRevoked = "revoked"
)

// InvitationCode grants the right to register an admin account for a
// specific entity. Codes are single-use and expire.
type InvitationCode struct {
	ID            int64      `json:"id" db:"id"`
	Code          string     `json:"code" db:"code"`
	EntityType    string     `json:"entity_type" db:"entity_type"`
	EntityID      int64      `json:"entity_id" db:"entity_id"`
	AssignedEmail string     `json:"assigned_email,omitempty" db:"assigned_email"`
	Status        string     `json:"status" db:"status"`
	ClaimedBy     *int64     `json:"claimed_by,omitempty" db:"claimed_by"`
	ExpiresAt     time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty" db:"claimed_at"`
	CreatedBy     string     `json:"created_by,omitempty" db:"created_by"`
}

// invitationAlphabet omits O/0/I/1 so codes can be read over the phone.
const invitationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewInvitationCode generates a code in ABC-DEF-GHI-JKL form from a
// crypto-random source.
func NewInvitationCode() string {
	parts := make([]string, 4)
	for i := range parts {
		var b strings.Builder
		for j := 0; j < 3; j++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(invitationAlphabet))))
			if err != nil {
				panic(err) // crypto/rand failure is unrecoverable
			}
			b.WriteByte(invitationAlphabet[n.Int64()])
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, "-")
}
