package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/djahern-max/campusconnect-backend/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// TokenTTL is how long an issued access token stays valid. Tokens are
// stateless; there is no revocation list, so the window is kept short.
const TokenTTL = 30 * time.Minute

// Principal is the authenticated identity carried by a verified token.
type Principal struct {
	AdminID    int64
	Email      string
	EntityType string
	EntityID   int64
	Role       string
}

// AuthService verifies credentials and mints/verifies access tokens.
type AuthService struct {
	store     *store.Store
	jwtSecret []byte
}

func NewAuthService(st *store.Store, jwtSecret string) *AuthService {
	return &AuthService{
		store:     st,
		jwtSecret: []byte(jwtSecret),
	}
}

// Login checks email/password and returns a signed token on success.
// Unknown email and wrong password return the same error, so the endpoint
// never reveals which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *Principal, error) {
	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return "", nil, ErrAccountInactive
	}

	// Update last login out of band; losing it only costs the audit
	// timestamp, never the login.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.UpdateAdminLastLogin(ctx, admin.ID); err != nil {
			slog.Warn("update last login", "admin_id", admin.ID, "error", err)
		}
	}()

	p := &Principal{
		AdminID:    admin.ID,
		Email:      admin.Email,
		EntityType: admin.EntityType,
		EntityID:   admin.EntityID,
		Role:       admin.Role,
	}
	token, err := s.IssueToken(p)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}

// IssueToken mints a signed token carrying the principal's identity and
// entity binding.
func (s *AuthService) IssueToken(p *Principal) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		AdminID:    p.AdminID,
		Email:      p.Email,
		EntityType: p.EntityType,
		EntityID:   p.EntityID,
		Role:       p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			Issuer:    "campusconnect",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken parses and validates a bearer token and returns its principal.
func (s *AuthService) VerifyToken(tokenStr string) (*Principal, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &Principal{
		AdminID:    claims.AdminID,
		Email:      claims.Email,
		EntityType: claims.EntityType,
		EntityID:   claims.EntityID,
		Role:       claims.Role,
	}, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, adminID int64, current, next string) error {
	admin, err := s.store.GetAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.store.UpdateAdminPassword(ctx, adminID, hash)
}

// HashPassword produces a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type tokenClaims struct {
	AdminID    int64  `json:"admin_id"`
	Email      string `json:"email"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}
