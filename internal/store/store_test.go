package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/djahern-max/campusconnect-backend/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, "") // in-memory
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedInstitution(t *testing.T, s *Store, ipedsID int64, name, state string) *model.Institution {
	t.Helper()
	inst := &model.Institution{
		IPEDSID:     ipedsID,
		Name:        name,
		City:        "Testville",
		State:       state,
		ControlType: model.ControlPublic,
	}
	if err := s.CreateInstitution(context.Background(), inst); err != nil {
		t.Fatalf("CreateInstitution: %v", err)
	}
	return inst
}

func TestInstitutionCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inst := seedInstitution(t, s, 100001, "Granite State College", "NH")
	if inst.ID == 0 {
		t.Fatal("expected non-zero ID after create")
	}

	got, err := s.GetInstitution(ctx, inst.ID)
	if err != nil {
		t.Fatalf("GetInstitution: %v", err)
	}
	if got.Name != "Granite State College" {
		t.Errorf("got name %q, want %q", got.Name, "Granite State College")
	}

	byIPEDS, err := s.GetInstitutionByIPEDS(ctx, 100001)
	if err != nil {
		t.Fatalf("GetInstitutionByIPEDS: %v", err)
	}
	if byIPEDS.ID != inst.ID {
		t.Errorf("got ID %d, want %d", byIPEDS.ID, inst.ID)
	}

	got.City = "Concord"
	if err := s.UpdateInstitution(ctx, got); err != nil {
		t.Fatalf("UpdateInstitution: %v", err)
	}
	got2, _ := s.GetInstitution(ctx, inst.ID)
	if got2.City != "Concord" {
		t.Errorf("got city %q, want %q", got2.City, "Concord")
	}

	// Duplicate IPEDS id
	dup := &model.Institution{IPEDSID: 100001, Name: "Dup", City: "X", State: "NH", ControlType: model.ControlPublic}
	if err := s.CreateInstitution(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("got %v, want ErrDuplicate", err)
	}

	if _, err := s.GetInstitution(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestTimestampColumnsScanAsTime(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inst := seedInstitution(t, s, 200001, "Clocktower University", "VT")
	got, err := s.GetInstitution(ctx, inst.ID)
	if err != nil {
		t.Fatalf("GetInstitution: %v", err)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Errorf("timestamps did not round-trip: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	trialEnd := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	sub := &model.Subscription{
		EntityType: model.EntityInstitution,
		EntityID:   inst.ID,
		PlanTier:   model.PlanPremium,
		Status:     model.SubscriptionTrialing,
		TrialEnd:   &trialEnd,
	}
	if err := s.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("UpsertSubscription: %v", err)
	}
	stored, err := s.GetSubscriptionByEntity(ctx, model.EntityInstitution, inst.ID)
	if err != nil {
		t.Fatalf("GetSubscriptionByEntity: %v", err)
	}
	if stored.TrialEnd == nil || !stored.TrialEnd.Equal(trialEnd) {
		t.Errorf("trial_end: got %v, want %v", stored.TrialEnd, trialEnd)
	}
	if stored.CreatedAt.IsZero() {
		t.Error("subscription created_at did not round-trip")
	}
}

func TestUpdatePersistsFeaturedFlags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inst := seedInstitution(t, s, 300001, "Spotlight College", "ME")
	inst.IsFeatured = true
	if err := s.UpdateInstitution(ctx, inst); err != nil {
		t.Fatalf("UpdateInstitution: %v", err)
	}
	gotInst, err := s.GetInstitution(ctx, inst.ID)
	if err != nil {
		t.Fatalf("GetInstitution: %v", err)
	}
	if !gotInst.IsFeatured {
		t.Error("is_featured not persisted by UpdateInstitution")
	}

	sch := &model.Scholarship{
		Title:           "Spotlight Award",
		Organization:    "Spotlight Fund",
		ScholarshipType: model.ScholarshipSTEM,
		AmountMin:       500,
		AmountMax:       2500,
	}
	if err := s.CreateScholarship(ctx, sch); err != nil {
		t.Fatalf("CreateScholarship: %v", err)
	}
	sch.Verified = true
	sch.Featured = true
	if err := s.UpdateScholarship(ctx, sch); err != nil {
		t.Fatalf("UpdateScholarship: %v", err)
	}
	gotSch, err := s.GetScholarship(ctx, sch.ID)
	if err != nil {
		t.Fatalf("GetScholarship: %v", err)
	}
	if !gotSch.Verified || !gotSch.Featured {
		t.Errorf("flags not persisted: verified=%v featured=%v", gotSch.Verified, gotSch.Featured)
	}
}

func TestInstitutionPriorityStateOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedInstitution(t, s, 1, "Austin College", "TX")
	seedInstitution(t, s, 2, "Berkeley College", "CA")
	seedInstitution(t, s, 3, "Boston College", "MA")
	seedInstitution(t, s, 4, "Dartmouth College", "NH")

	list, err := s.ListInstitutions(ctx, InstitutionFilter{Limit: 10})
	if err != nil {
		t.Fatalf("ListInstitutions: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("got %d institutions, want 4", len(list))
	}
	wantStates := []string{"NH", "MA", "CA", "TX"}
	for i, want := range wantStates {
		if list[i].State != want {
			t.Errorf("position %d: got state %q, want %q", i, list[i].State, want)
		}
	}

	// State filter overrides priority ordering
	ca, err := s.ListInstitutions(ctx, InstitutionFilter{State: "ca", Limit: 10})
	if err != nil {
		t.Fatalf("ListInstitutions(state): %v", err)
	}
	if len(ca) != 1 || ca[0].State != "CA" {
		t.Errorf("state filter: got %d rows", len(ca))
	}
}

func TestScholarshipViewsIncrement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sch := &model.Scholarship{
		Title:           "STEM Futures Award",
		Organization:    "Tech Foundation",
		ScholarshipType: model.ScholarshipSTEM,
		AmountMin:       1000,
		AmountMax:       5000,
	}
	if err := s.CreateScholarship(ctx, sch); err != nil {
		t.Fatalf("CreateScholarship: %v", err)
	}
	if sch.Status != model.ScholarshipActive {
		t.Errorf("got status %q, want default ACTIVE", sch.Status)
	}

	for i := 0; i < 3; i++ {
		if err := s.IncrementScholarshipViews(ctx, sch.ID); err != nil {
			t.Fatalf("IncrementScholarshipViews: %v", err)
		}
	}
	got, err := s.GetScholarship(ctx, sch.ID)
	if err != nil {
		t.Fatalf("GetScholarship: %v", err)
	}
	if got.ViewsCount != 3 {
		t.Errorf("got views %d, want 3", got.ViewsCount)
	}
}

func TestAdminRegisterClaimsInvitationOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inv := &model.InvitationCode{
		Code:       model.NewInvitationCode(),
		EntityType: model.EntityInstitution,
		EntityID:   1,
		ExpiresAt:  time.Now().UTC().Add(24 * time.Hour),
	}
	if err := s.CreateInvitation(ctx, inv); err != nil {
		t.Fatalf("CreateInvitation: %v", err)
	}

	admin := &model.AdminUser{
		Email:        "first@school.edu",
		PasswordHash: "x",
		EntityType:   model.EntityInstitution,
		EntityID:     1,
		IsActive:     true,
	}
	if err := s.RegisterAdmin(ctx, admin, inv.Code); err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	if admin.ID == 0 {
		t.Fatal("expected non-zero admin ID")
	}

	claimed, err := s.GetInvitationByCode(ctx, inv.Code)
	if err != nil {
		t.Fatalf("GetInvitationByCode: %v", err)
	}
	if claimed.Status != model.InvitationClaimed {
		t.Errorf("got status %q, want claimed", claimed.Status)
	}
	if claimed.ClaimedBy == nil || *claimed.ClaimedBy != admin.ID {
		t.Error("claimed_by not recorded")
	}

	// Second use of the same code must fail
	second := &model.AdminUser{
		Email:        "second@school.edu",
		PasswordHash: "x",
		EntityType:   model.EntityInstitution,
		EntityID:     1,
		IsActive:     true,
	}
	if err := s.RegisterAdmin(ctx, second, inv.Code); !errors.Is(err, ErrInvitationUnavailable) {
		t.Errorf("got %v, want ErrInvitationUnavailable", err)
	}
	// And must not leave a half-created account behind
	if _, err := s.GetAdminByEmail(ctx, "second@school.edu"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second account leaked through rollback: %v", err)
	}
}

func TestRegisterRejectsExpiredInvitation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inv := &model.InvitationCode{
		Code:       model.NewInvitationCode(),
		EntityType: model.EntityScholarship,
		EntityID:   7,
		ExpiresAt:  time.Now().UTC().Add(-time.Hour),
	}
	if err := s.CreateInvitation(ctx, inv); err != nil {
		t.Fatalf("CreateInvitation: %v", err)
	}

	admin := &model.AdminUser{
		Email:        "late@org.com",
		PasswordHash: "x",
		EntityType:   model.EntityScholarship,
		EntityID:     7,
		IsActive:     true,
	}
	if err := s.RegisterAdmin(ctx, admin, inv.Code); !errors.Is(err, ErrInvitationUnavailable) {
		t.Errorf("got %v, want ErrInvitationUnavailable", err)
	}
}

func TestRevokeInvitation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inv := &model.InvitationCode{
		Code:       model.NewInvitationCode(),
		EntityType: model.EntityInstitution,
		EntityID:   1,
		ExpiresAt:  time.Now().UTC().Add(24 * time.Hour),
	}
	if err := s.CreateInvitation(ctx, inv); err != nil {
		t.Fatalf("CreateInvitation: %v", err)
	}
	if err := s.RevokeInvitation(ctx, inv.Code); err != nil {
		t.Fatalf("RevokeInvitation: %v", err)
	}
	got, _ := s.GetInvitationByCode(ctx, inv.Code)
	if got.Status != model.InvitationRevoked {
		t.Errorf("got status %q, want revoked", got.Status)
	}
	// Revoking again reports unavailable
	if err := s.RevokeInvitation(ctx, inv.Code); !errors.Is(err, ErrInvitationUnavailable) {
		t.Errorf("got %v, want ErrInvitationUnavailable", err)
	}
	if err := s.RevokeInvitation(ctx, "NO-SUCH-COD-EEE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestExpireInvitationsSweep(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stale := &model.InvitationCode{
		Code:       model.NewInvitationCode(),
		EntityType: model.EntityInstitution,
		EntityID:   1,
		ExpiresAt:  time.Now().UTC().Add(-time.Minute),
	}
	fresh := &model.InvitationCode{
		Code:       model.NewInvitationCode(),
		EntityType: model.EntityInstitution,
		EntityID:   2,
		ExpiresAt:  time.Now().UTC().Add(time.Hour),
	}
	for _, inv := range []*model.InvitationCode{stale, fresh} {
		if err := s.CreateInvitation(ctx, inv); err != nil {
			t.Fatalf("CreateInvitation: %v", err)
		}
	}

	n, err := s.ExpireInvitations(ctx)
	if err != nil {
		t.Fatalf("ExpireInvitations: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d expired, want 1", n)
	}
	got, _ := s.GetInvitationByCode(ctx, fresh.Code)
	if got.Status != model.InvitationPending {
		t.Errorf("fresh code flipped to %q", got.Status)
	}
}

func TestSubscriptionUpsertConverges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trialEnd := time.Now().UTC().Add(30 * 24 * time.Hour)
	sub := &model.Subscription{
		EntityType:           model.EntityInstitution,
		EntityID:             42,
		StripeCustomerID:     "cus_123",
		StripeSubscriptionID: "sub_123",
		PlanTier:             model.PlanPremium,
		Status:               model.SubscriptionTrialing,
		TrialEnd:             &trialEnd,
	}
	if err := s.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("UpsertSubscription: %v", err)
	}
	firstID := sub.ID

	// Replay with updated status lands on the same row
	sub.Status = model.SubscriptionActive
	if err := s.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("UpsertSubscription replay: %v", err)
	}
	if sub.ID != firstID {
		t.Errorf("replay created new row: %d != %d", sub.ID, firstID)
	}

	got, err := s.GetSubscriptionByEntity(ctx, model.EntityInstitution, 42)
	if err != nil {
		t.Fatalf("GetSubscriptionByEntity: %v", err)
	}
	if got.Status != model.SubscriptionActive {
		t.Errorf("got status %q, want active", got.Status)
	}

	byStripe, err := s.GetSubscriptionByStripeID(ctx, "sub_123")
	if err != nil {
		t.Fatalf("GetSubscriptionByStripeID: %v", err)
	}
	if byStripe.ID != firstID {
		t.Errorf("got ID %d, want %d", byStripe.ID, firstID)
	}

	if err := s.UpdateSubscriptionStatusByStripeID(ctx, "sub_123", model.SubscriptionPastDue); err != nil {
		t.Fatalf("UpdateSubscriptionStatusByStripeID: %v", err)
	}
	got2, _ := s.GetSubscriptionByEntity(ctx, model.EntityInstitution, 42)
	if got2.Status != model.SubscriptionPastDue {
		t.Errorf("got status %q, want past_due", got2.Status)
	}

	if err := s.UpdateSubscriptionStatusByStripeID(ctx, "sub_unknown", model.SubscriptionActive); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMarkWebhookEventProcessed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.MarkWebhookEventProcessed(ctx, "evt_1", "invoice.payment_succeeded")
	if err != nil {
		t.Fatalf("MarkWebhookEventProcessed: %v", err)
	}
	if !first {
		t.Error("first delivery reported as duplicate")
	}

	again, err := s.MarkWebhookEventProcessed(ctx, "evt_1", "invoice.payment_succeeded")
	if err != nil {
		t.Fatalf("MarkWebhookEventProcessed retry: %v", err)
	}
	if again {
		t.Error("duplicate delivery reported as first")
	}
}

func TestSetFeaturedImageMirrorsPrimary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inst := seedInstitution(t, s, 5, "Mirror U", "MA")

	a := &model.EntityImage{
		EntityType: model.EntityInstitution, EntityID: inst.ID,
		ImageURL: "https://bucket/a.jpg", CDNURL: "https://cdn/a.jpg", Filename: "a.jpg",
	}
	b := &model.EntityImage{
		EntityType: model.EntityInstitution, EntityID: inst.ID,
		ImageURL: "https://bucket/b.jpg", CDNURL: "https://cdn/b.jpg", Filename: "b.jpg",
	}
	for _, img := range []*model.EntityImage{a, b} {
		if err := s.CreateImage(ctx, img); err != nil {
			t.Fatalf("CreateImage: %v", err)
		}
	}
	if a.DisplayOrder != 1 || b.DisplayOrder != 2 {
		t.Errorf("display order: got %d,%d want 1,2", a.DisplayOrder, b.DisplayOrder)
	}

	if err := s.SetFeaturedImage(ctx, model.EntityInstitution, inst.ID, b.ID); err != nil {
		t.Fatalf("SetFeaturedImage: %v", err)
	}
	images, _ := s.ListImages(ctx, model.EntityInstitution, inst.ID)
	for _, img := range images {
		want := img.ID == b.ID
		if img.IsFeatured != want {
			t.Errorf("image %d featured=%v, want %v", img.ID, img.IsFeatured, want)
		}
	}
	got, _ := s.GetInstitution(ctx, inst.ID)
	if got.PrimaryImageURL != "https://cdn/b.jpg" {
		t.Errorf("primary image not mirrored: %q", got.PrimaryImageURL)
	}

	// Flip to the other image
	if err := s.SetFeaturedImage(ctx, model.EntityInstitution, inst.ID, a.ID); err != nil {
		t.Fatalf("SetFeaturedImage flip: %v", err)
	}
	got2, _ := s.GetInstitution(ctx, inst.ID)
	if got2.PrimaryImageURL != "https://cdn/a.jpg" {
		t.Errorf("primary image not updated on flip: %q", got2.PrimaryImageURL)
	}
}

func TestReorderImages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"one.jpg", "two.jpg", "three.jpg"} {
		img := &model.EntityImage{
			EntityType: model.EntityScholarship, EntityID: 9,
			ImageURL: "https://bucket/" + name, CDNURL: "https://cdn/" + name, Filename: name,
		}
		if err := s.CreateImage(ctx, img); err != nil {
			t.Fatalf("CreateImage: %v", err)
		}
		ids = append(ids, img.ID)
	}

	reversed := []int64{ids[2], ids[1], ids[0]}
	if err := s.ReorderImages(ctx, model.EntityScholarship, 9, reversed); err != nil {
		t.Fatalf("ReorderImages: %v", err)
	}
	images, _ := s.ListImages(ctx, model.EntityScholarship, 9)
	for i, img := range images {
		if img.ID != reversed[i] {
			t.Errorf("position %d: got id %d, want %d", i, img.ID, reversed[i])
		}
	}
}

func TestImageScopedToEntity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	img := &model.EntityImage{
		EntityType: model.EntityInstitution, EntityID: 1,
		ImageURL: "https://bucket/x.jpg", CDNURL: "https://cdn/x.jpg", Filename: "x.jpg",
	}
	if err := s.CreateImage(ctx, img); err != nil {
		t.Fatalf("CreateImage: %v", err)
	}

	// A different entity cannot address the image
	if _, err := s.GetImage(ctx, model.EntityInstitution, 2, img.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if _, err := s.DeleteImage(ctx, model.EntityScholarship, 1, img.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	deleted, err := s.DeleteImage(ctx, model.EntityInstitution, 1, img.ID)
	if err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if deleted.Filename != "x.jpg" {
		t.Errorf("got filename %q, want x.jpg", deleted.Filename)
	}
}

func TestDisplaySettingsDefaultOnFirstRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ds, err := s.GetDisplaySettings(ctx, model.EntityInstitution, 11)
	if err != nil {
		t.Fatalf("GetDisplaySettings: %v", err)
	}
	if !ds.ShowStats || !ds.ShowFinancial || !ds.ShowRequirements {
		t.Error("core sections should default on")
	}
	if ds.ShowImageGallery || ds.ShowVideo || ds.ShowExtendedInfo {
		t.Error("premium sections should default off")
	}
	if ds.LayoutStyle != "standard" {
		t.Errorf("got layout %q, want standard", ds.LayoutStyle)
	}

	ds.ShowImageGallery = true
	ds.CustomTagline = "Best campus in the state"
	if err := s.UpdateDisplaySettings(ctx, ds); err != nil {
		t.Fatalf("UpdateDisplaySettings: %v", err)
	}
	got, err := s.GetDisplaySettings(ctx, model.EntityInstitution, 11)
	if err != nil {
		t.Fatalf("GetDisplaySettings again: %v", err)
	}
	if !got.ShowImageGallery || got.CustomTagline != "Best campus in the state" {
		t.Error("update not persisted")
	}
	if got.ID != ds.ID {
		t.Errorf("second read created new row: %d != %d", got.ID, ds.ID)
	}
}

func TestExtendedInfoUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetExtendedInfo(ctx, model.EntityScholarship, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound before first save", err)
	}

	info := &model.ExtendedInfo{
		EntityType:        model.EntityScholarship,
		EntityID:          3,
		CampusDescription: "first draft",
	}
	if err := s.UpsertExtendedInfo(ctx, info); err != nil {
		t.Fatalf("UpsertExtendedInfo: %v", err)
	}
	firstID := info.ID

	info.CampusDescription = "second draft"
	if err := s.UpsertExtendedInfo(ctx, info); err != nil {
		t.Fatalf("UpsertExtendedInfo replay: %v", err)
	}
	if info.ID != firstID {
		t.Errorf("replay created new row: %d != %d", info.ID, firstID)
	}
	got, err := s.GetExtendedInfo(ctx, model.EntityScholarship, 3)
	if err != nil {
		t.Fatalf("GetExtendedInfo: %v", err)
	}
	if got.CampusDescription != "second draft" {
		t.Errorf("got %q, want second draft", got.CampusDescription)
	}
}

func TestAdminLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	has, err := s.HasAnyAdmin(ctx)
	if err != nil {
		t.Fatalf("HasAnyAdmin: %v", err)
	}
	if has {
		t.Fatal("fresh store should have no admins")
	}

	admin := &model.AdminUser{
		Email:        "ops@example.com",
		PasswordHash: "hash",
		EntityType:   model.EntityInstitution,
		EntityID:     1,
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	dup := &model.AdminUser{Email: "ops@example.com", PasswordHash: "h", EntityType: model.EntityInstitution, EntityID: 2, IsActive: true}
	if err := s.CreateAdmin(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("got %v, want ErrDuplicate", err)
	}

	if err := s.UpdateAdminLastLogin(ctx, admin.ID); err != nil {
		t.Fatalf("UpdateAdminLastLogin: %v", err)
	}
	got, _ := s.GetAdmin(ctx, admin.ID)
	if got.LastLoginAt == nil {
		t.Error("last_login_at not set")
	}

	if err := s.UpdateAdminPassword(ctx, admin.ID, "newhash"); err != nil {
		t.Fatalf("UpdateAdminPassword: %v", err)
	}
	got2, _ := s.GetAdminByEmail(ctx, "ops@example.com")
	if got2.PasswordHash != "newhash" {
		t.Error("password hash not updated")
	}

	if err := s.DeactivateAdmin(ctx, admin.ID); err != nil {
		t.Fatalf("DeactivateAdmin: %v", err)
	}
	got3, _ := s.GetAdmin(ctx, admin.ID)
	if got3.IsActive {
		t.Error("admin still active after deactivation")
	}
}
