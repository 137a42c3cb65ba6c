package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

func newTestAuth(t *testing.T) (*AuthService, *store.Store) {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	auth := NewAuthService(st, "test-secret-key-for-jwt")
	return auth, st
}

func seedAdminAccount(t *testing.T, st *store.Store, email, password string, active bool) *model.AdminUser {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := &model.AdminUser{
		Email:        email,
		PasswordHash: hash,
		EntityType:   model.EntityInstitution,
		EntityID:     1,
		IsActive:     active,
	}
	if err := st.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	return admin
}

func TestLoginAndVerify(t *testing.T) {
	auth, st := newTestAuth(t)
	ctx := context.Background()

	admin := seedAdminAccount(t, st, "admin@school.edu", "s3cret-pass", true)

	token, p, err := auth.Login(ctx, "admin@school.edu", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if p.AdminID != admin.ID {
		t.Errorf("AdminID: got %d, want %d", p.AdminID, admin.ID)
	}

	// Verify the token round-trips the entity binding
	got, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if got.AdminID != admin.ID {
		t.Errorf("AdminID: got %d, want %d", got.AdminID, admin.ID)
	}
	if got.EntityType != model.EntityInstitution || got.EntityID != 1 {
		t.Errorf("entity binding: got %s/%d", got.EntityType, got.EntityID)
	}
	if got.Email != "admin@school.edu" {
		t.Errorf("Email: got %q", got.Email)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth, st := newTestAuth(t)
	ctx := context.Background()

	seedAdminAccount(t, st, "admin@school.edu", "correct", true)

	_, _, err := auth.Login(ctx, "admin@school.edu", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}

	// Unknown email yields the same error as a wrong password
	_, _, err = auth.Login(ctx, "nobody@school.edu", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	auth, st := newTestAuth(t)
	ctx := context.Background()

	seedAdminAccount(t, st, "gone@school.edu", "s3cret-pass", false)

	_, _, err := auth.Login(ctx, "gone@school.edu", "s3cret-pass")
	if !errors.Is(err, ErrAccountInactive) {
		t.Errorf("got %v, want ErrAccountInactive", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.VerifyToken("garbage.token.here")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	auth, st := newTestAuth(t)

	token, err := auth.IssueToken(&Principal{AdminID: 1, Email: "a@b.c"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	other := NewAuthService(st, "a-different-secret")
	if _, err := other.VerifyToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	auth, _ := newTestAuth(t)

	// Sign a token whose lifetime has already elapsed.
	claims := tokenClaims{
		AdminID: 1,
		Email:   "admin@school.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * TokenTTL)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-TokenTTL)),
			Issuer:    "campusconnect",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret-key-for-jwt"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := auth.VerifyToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("got %v, want ErrTokenExpired", err)
	}
}

func TestChangePassword(t *testing.T) {
	auth, st := newTestAuth(t)
	ctx := context.Background()

	admin := seedAdminAccount(t, st, "admin@school.edu", "old-pass", true)

	if err := auth.ChangePassword(ctx, admin.ID, "wrong", "new-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}

	if err := auth.ChangePassword(ctx, admin.ID, "old-pass", "new-pass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := auth.Login(ctx, "admin@school.edu", "old-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password still accepted")
	}
	if _, _, err := auth.Login(ctx, "admin@school.edu", "new-pass"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestAccessResolution(t *testing.T) {
	_, st := newTestAuth(t)
	access := NewAccessService(st)
	ctx := context.Background()

	// No subscription row at all means free plan
	a, err := access.Resolve(ctx, model.EntityInstitution, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a.HasPremium || a.PlanTier != model.PlanFree || a.Status != "none" {
		t.Errorf("unexpected access without subscription: %+v", a)
	}
	if err := access.RequirePremium(ctx, model.EntityInstitution, 1); !errors.Is(err, ErrPremiumRequired) {
		t.Errorf("got %v, want ErrPremiumRequired", err)
	}

	// Active subscription grants premium
	sub := &model.Subscription{
		EntityType: model.EntityInstitution,
		EntityID:   1,
		PlanTier:   model.PlanPremium,
		Status:     model.SubscriptionActive,
	}
	if err := st.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("UpsertSubscription: %v", err)
	}
	a, err = access.Resolve(ctx, model.EntityInstitution, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !a.HasPremium {
		t.Error("active subscription should grant premium")
	}
	if err := access.RequirePremium(ctx, model.EntityInstitution, 1); err != nil {
		t.Errorf("RequirePremium: %v", err)
	}

	// Past due revokes it; a lapsed payment is not premium
	sub.Status = model.SubscriptionPastDue
	if err := st.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("UpsertSubscription: %v", err)
	}
	a, _ = access.Resolve(ctx, model.EntityInstitution, 1)
	if a.HasPremium {
		t.Error("past_due subscription should not grant premium")
	}
	if err := access.RequirePremium(ctx, model.EntityInstitution, 1); !errors.Is(err, ErrPremiumRequired) {
		t.Errorf("got %v, want ErrPremiumRequired for past_due", err)
	}

	// Canceled revokes it
	sub.Status = model.SubscriptionCanceled
	if err := st.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("UpsertSubscription: %v", err)
	}
	a, _ = access.Resolve(ctx, model.EntityInstitution, 1)
	if a.HasPremium {
		t.Error("canceled subscription should not grant premium")
	}
}

func TestAccessTrialWindow(t *testing.T) {
	_, st := newTestAuth(t)
	access := NewAccessService(st)
	ctx := context.Background()

	future := time.Now().Add(10 * 24 * time.Hour)
	sub := &model.Subscription{
		EntityType: model.EntityScholarship,
		EntityID:   5,
		PlanTier:   model.PlanPremium,
		Status:     model.SubscriptionTrialing,
		TrialEnd:   &future,
	}
	if err := st.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("UpsertSubscription: %v", err)
	}

	a, err := access.Resolve(ctx, model.EntityScholarship, 5)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !a.HasPremium {
		t.Error("trialing subscription inside window should grant premium")
	}
	if a.TrialDaysRemaining < 9 || a.TrialDaysRemaining > 11 {
		t.Errorf("got %d trial days remaining, want ~10", a.TrialDaysRemaining)
	}

	// Lapsed trial loses premium even before the webhook flips the status
	past := time.Now().Add(-time.Hour)
	sub.TrialEnd = &past
	if err := st.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("UpsertSubscription: %v", err)
	}
	a, _ = access.Resolve(ctx, model.EntityScholarship, 5)
	if a.HasPremium {
		t.Error("lapsed trial should not grant premium")
	}
}
