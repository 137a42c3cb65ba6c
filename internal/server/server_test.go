package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/djahern-max/campusconnect-backend/internal/billing"
	"github.com/djahern-max/campusconnect-backend/internal/metrics"
	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/storage"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

const (
	testJWTSecret     = "test-secret-for-jwt-integration-tests"
	testSigningSecret = "whsec_integration_test_secret"
	testPassword      = "supersecretpassword"
)

// fakeGateway is a billing gateway that records calls and returns canned URLs.
type fakeGateway struct {
	checkouts []billing.CheckoutRequest
	canceled  []string
	resumed   []string
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (string, error) {
	g.checkouts = append(g.checkouts, req)
	return "https://checkout.stripe.test/session", nil
}

func (g *fakeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	return "https://billing.stripe.test/portal", nil
}

func (g *fakeGateway) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	g.canceled = append(g.canceled, subscriptionID)
	return nil
}

func (g *fakeGateway) Resume(ctx context.Context, subscriptionID string) error {
	g.resumed = append(g.resumed, subscriptionID)
	return nil
}

// fakeUploader is an object storage stub that accepts any image.
type fakeUploader struct {
	uploads []string
	deleted []string
}

func (u *fakeUploader) UploadImage(ctx context.Context, prefix, filename, contentType string, size int64, r io.Reader) (*storage.Upload, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, storage.ErrNotAnImage
	}
	key := prefix + "/" + filename
	u.uploads = append(u.uploads, key)
	return &storage.Upload{
		Key:       key,
		OriginURL: "https://bucket.test/" + key,
		CDNURL:    "https://cdn.test/" + key,
	}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

// testEnv holds the shared state for integration tests.
type testEnv struct {
	server   *Server
	store    *store.Store
	authSvc  *service.AuthService
	gateway  *fakeGateway
	uploader *fakeUploader
}

// newTestEnv wires a full server against an in-memory database with fake
// billing and storage backends.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, DefaultConfig())
}

func newTestEnvWithConfig(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	st, err := store.Open(store.DriverSQLite, "")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authSvc := service.NewAuthService(st, testJWTSecret)
	accessSvc := service.NewAccessService(st)
	gateway := &fakeGateway{}
	uploader := &fakeUploader{}
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	processor := billing.NewProcessor(st, testSigningSecret, logger, collector)

	srv := New(cfg, Deps{
		Store:     st,
		AuthSvc:   authSvc,
		AccessSvc: accessSvc,
		Gateway:   gateway,
		Processor: processor,
		Uploader:  uploader,
		Registry:  registry,
		Collector: collector,
	}, logger)

	return &testEnv{
		server:   srv,
		store:    st,
		authSvc:  authSvc,
		gateway:  gateway,
		uploader: uploader,
	}
}

// seedInstitution inserts a directory entry and returns it.
func (e *testEnv) seedInstitution(t *testing.T, ipedsID int64, name, state string) *model.Institution {
	t.Helper()
	inst := &model.Institution{
		IPEDSID:     ipedsID,
		Name:        name,
		City:        "Testville",
		State:       state,
		ControlType: model.ControlPublic,
	}
	if err := e.store.CreateInstitution(context.Background(), inst); err != nil {
		t.Fatalf("seedInstitution: %v", err)
	}
	return inst
}

// seedAdmin creates an account bound to the given entity.
func (e *testEnv) seedAdmin(t *testing.T, email, role string, entityType string, entityID int64) *model.AdminUser {
	t.Helper()
	hash, err := service.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := &model.AdminUser{
		Email:        email,
		PasswordHash: hash,
		EntityType:   entityType,
		EntityID:     entityID,
		Role:         role,
		IsActive:     true,
	}
	if err := e.store.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("seedAdmin: %v", err)
	}
	return admin
}

// login posts the form-encoded credentials and returns the bearer token.
func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {testPassword}}
	rr := e.do(t, "POST", "/api/v1/admin/auth/login", strings.NewReader(form.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Token string `json:"access_token"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Token == "" {
		t.Fatal("login: got empty access_token")
	}
	return resp.Token
}

// do executes a request against the test server and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

// doAuth executes an authenticated request using a bearer token.
func (e *testEnv) doAuth(t *testing.T, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("jsonBody: %v", err)
	}
	return buf
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

func assertContentType(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	got := rr.Header().Get("Content-Type")
	if got != want {
		t.Errorf("Content-Type = %q, want %q", got, want)
	}
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decodeJSON: %v; body = %s", err, rr.Body.String())
	}
}

// stripeSignature builds a signed Stripe-Signature header for a payload.
func stripeSignature(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

// ---------------------------------------------------------------------------
// Health and operational endpoints
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/healthz", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	assertContentType(t, rr, "application/json")

	var resp map[string]string
	decodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want %q", resp["status"], "ok")
	}
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/readyz", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Checks["database"] != "ok" {
		t.Errorf("checks.database = %q, want ok", resp.Checks["database"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// Generate a request first so the counters have something to show.
	env.do(t, "GET", "/healthz", nil, nil)

	rr := env.do(t, "GET", "/metrics", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), "campusconnect_http_requests_total") {
		t.Error("expected campusconnect_http_requests_total in metrics output")
	}
}

func TestOpenAPISpec(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/openapi.json", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	assertContentType(t, rr, "application/json")

	var spec struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]interface{} `json:"paths"`
	}
	decodeJSON(t, rr, &spec)

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version = %q, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "CampusConnect API" {
		t.Errorf("info.title = %q, want CampusConnect API", spec.Info.Title)
	}
	if _, ok := spec.Paths["/api/v1/institutions"]; !ok {
		t.Error("expected /api/v1/institutions in spec paths")
	}
}

// ---------------------------------------------------------------------------
// Login and registration
// ---------------------------------------------------------------------------

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")
	env.seedAdmin(t, "admin@test.edu", model.RoleAdmin, model.EntityInstitution, inst.ID)

	token := env.login(t, "admin@test.edu")

	rr := env.doAuth(t, "GET", "/api/v1/admin/auth/me", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var me model.AdminUser
	decodeJSON(t, rr, &me)
	if me.Email != "admin@test.edu" {
		t.Errorf("email = %q, want admin@test.edu", me.Email)
	}
	if me.EntityType != model.EntityInstitution || me.EntityID != inst.ID {
		t.Errorf("entity binding = (%s, %d), want (institution, %d)", me.EntityType, me.EntityID, inst.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")
	env.seedAdmin(t, "admin@test.edu", model.RoleAdmin, model.EntityInstitution, inst.ID)

	form := url.Values{"username": {"admin@test.edu"}, "password": {"wrongpassword"}}
	rr := env.do(t, "POST", "/api/v1/admin/auth/login", strings.NewReader(form.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestRegisterWithInvitation(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")

	inv := &model.InvitationCode{
		Code:       model.NewInvitationCode(),
		EntityType: model.EntityInstitution,
		EntityID:   inst.ID,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	if err := env.store.CreateInvitation(context.Background(), inv); err != nil {
		t.Fatalf("CreateInvitation: %v", err)
	}

	body := jsonBody(t, map[string]string{
		"email":           "new@test.edu",
		"password":        "alongenoughpassword",
		"invitation_code": inv.Code,
	})
	rr := env.do(t, "POST", "/api/v1/admin/auth/register", body, nil)
	assertStatus(t, rr, http.StatusCreated)

	var resp struct {
		Token string `json:"access_token"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Token == "" {
		t.Fatal("expected access_token after registration")
	}

	// The issued token is bound to the invitation's entity.
	rr = env.doAuth(t, "GET", "/api/v1/admin/auth/me", nil, resp.Token)
	assertStatus(t, rr, http.StatusOK)

	var me model.AdminUser
	decodeJSON(t, rr, &me)
	if me.EntityID != inst.ID {
		t.Errorf("entity_id = %d, want %d", me.EntityID, inst.ID)
	}

	// The code is single-use.
	body = jsonBody(t, map[string]string{
		"email":           "another@test.edu",
		"password":        "alongenoughpassword",
		"invitation_code": inv.Code,
	})
	rr = env.do(t, "POST", "/api/v1/admin/auth/register", body, nil)
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestValidateInvitation(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")

	inv := &model.InvitationCode{
		Code:       model.NewInvitationCode(),
		EntityType: model.EntityInstitution,
		EntityID:   inst.ID,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	if err := env.store.CreateInvitation(context.Background(), inv); err != nil {
		t.Fatalf("CreateInvitation: %v", err)
	}

	rr := env.do(t, "POST", "/api/v1/admin/auth/validate-invitation",
		jsonBody(t, map[string]string{"code": inv.Code}), nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Valid      bool   `json:"valid"`
		EntityType string `json:"entity_type"`
	}
	decodeJSON(t, rr, &resp)
	if !resp.Valid {
		t.Error("expected code to be valid")
	}
	if resp.EntityType != model.EntityInstitution {
		t.Errorf("entity_type = %q, want institution", resp.EntityType)
	}

	// Unknown codes are not an error, just invalid.
	rr = env.do(t, "POST", "/api/v1/admin/auth/validate-invitation",
		jsonBody(t, map[string]string{"code": "AAA-BBB-CCC-DDD"}), nil)
	assertStatus(t, rr, http.StatusOK)
	decodeJSON(t, rr, &resp)
	if resp.Valid {
		t.Error("unknown code reported valid")
	}
}

// ---------------------------------------------------------------------------
// Authentication and authorization
// ---------------------------------------------------------------------------

func TestAdminEndpoints_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/admin/auth/me"},
		{"GET", "/api/v1/admin/profile"},
		{"GET", "/api/v1/admin/gallery"},
		{"GET", "/api/v1/admin/videos"},
		{"GET", "/api/v1/admin/subscriptions/current"},
		{"GET", "/api/v1/admin/invitations"},
	}
	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			rr := env.do(t, ep.method, ep.path, nil, nil)
			assertStatus(t, rr, http.StatusUnauthorized)
		})
	}
}

func TestSuperAdminRoutes_RejectRegularAdmin(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")
	env.seedAdmin(t, "admin@test.edu", model.RoleAdmin, model.EntityInstitution, inst.ID)
	token := env.login(t, "admin@test.edu")

	rr := env.doAuth(t, "POST", "/api/v1/admin/institutions", jsonBody(t, map[string]interface{}{
		"ipeds_id":     200002,
		"name":         "Another College",
		"city":         "Elsewhere",
		"state":        "MA",
		"control_type": model.ControlPublic,
	}), token)
	assertStatus(t, rr, http.StatusForbidden)

	rr = env.doAuth(t, "GET", "/api/v1/admin/invitations", nil, token)
	assertStatus(t, rr, http.StatusForbidden)
}

func TestSuperAdminManagesDirectory(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")
	env.seedAdmin(t, "root@test.edu", model.RoleSuperAdmin, model.EntityInstitution, inst.ID)
	token := env.login(t, "root@test.edu")

	// Create an institution.
	rr := env.doAuth(t, "POST", "/api/v1/admin/institutions", jsonBody(t, map[string]interface{}{
		"ipeds_id":     200002,
		"name":         "Another College",
		"city":         "Elsewhere",
		"state":        "MA",
		"control_type": model.ControlPublic,
	}), token)
	assertStatus(t, rr, http.StatusCreated)

	var created model.Institution
	decodeJSON(t, rr, &created)

	// Issue an invitation for it.
	rr = env.doAuth(t, "POST", "/api/v1/admin/invitations", jsonBody(t, map[string]interface{}{
		"entity_type": model.EntityInstitution,
		"entity_id":   created.ID,
	}), token)
	assertStatus(t, rr, http.StatusCreated)

	var inv model.InvitationCode
	decodeJSON(t, rr, &inv)
	if len(inv.Code) != 15 {
		t.Errorf("code length = %d, want 15", len(inv.Code))
	}

	// Revoke it.
	rr = env.doAuth(t, "DELETE", "/api/v1/admin/invitations/"+inv.Code, nil, token)
	assertStatus(t, rr, http.StatusOK)
}

// ---------------------------------------------------------------------------
// Public directory
// ---------------------------------------------------------------------------

func TestPublicDirectoryOrdering(t *testing.T) {
	env := newTestEnv(t)
	env.seedInstitution(t, 3, "Texas School", "TX")
	env.seedInstitution(t, 1, "Granite College", "NH")
	env.seedInstitution(t, 2, "Bay State University", "MA")

	rr := env.do(t, "GET", "/api/v1/institutions", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Resource []model.Institution `json:"resource"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Resource) != 3 {
		t.Fatalf("count = %d, want 3", len(resp.Resource))
	}
	if resp.Resource[0].State != "NH" || resp.Resource[1].State != "MA" || resp.Resource[2].State != "TX" {
		t.Errorf("order = %s, %s, %s; want NH, MA, TX",
			resp.Resource[0].State, resp.Resource[1].State, resp.Resource[2].State)
	}
}

func TestPublicProfileHidesPremiumSectionsOnFreePlan(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")

	rr := env.do(t, "GET", fmt.Sprintf("/api/v1/institutions/%d", inst.ID), nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp map[string]interface{}
	decodeJSON(t, rr, &resp)
	if resp["institution"] == nil {
		t.Fatal("expected institution in profile response")
	}
	if resp["display_settings"] == nil {
		t.Error("expected display_settings in profile response")
	}
	if _, ok := resp["images"]; ok {
		t.Error("free plan profile should not include images")
	}
	if _, ok := resp["videos"]; ok {
		t.Error("free plan profile should not include videos")
	}
}

// ---------------------------------------------------------------------------
// Premium gating
// ---------------------------------------------------------------------------

func TestPremiumGate_FreePlanGets402(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")
	env.seedAdmin(t, "admin@test.edu", model.RoleAdmin, model.EntityInstitution, inst.ID)
	token := env.login(t, "admin@test.edu")

	rr := env.doAuth(t, "POST", "/api/v1/admin/videos", jsonBody(t, map[string]string{
		"video_url":  "https://youtube.com/watch?v=abc",
		"video_type": "tour",
	}), token)
	assertStatus(t, rr, http.StatusPaymentRequired)
}

func TestPremiumGate_ActiveSubscriptionAllows(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")
	env.seedAdmin(t, "admin@test.edu", model.RoleAdmin, model.EntityInstitution, inst.ID)

	sub := &model.Subscription{
		EntityType: model.EntityInstitution,
		EntityID:   inst.ID,
		PlanTier:   model.PlanPremium,
		Status:     model.SubscriptionActive,
	}
	if err := env.store.UpsertSubscription(context.Background(), sub); err != nil {
		t.Fatalf("UpsertSubscription: %v", err)
	}

	token := env.login(t, "admin@test.edu")
	rr := env.doAuth(t, "POST", "/api/v1/admin/videos", jsonBody(t, map[string]string{
		"video_url":  "https://youtube.com/watch?v=abc",
		"video_type": "tour",
	}), token)
	assertStatus(t, rr, http.StatusCreated)
}

// ---------------------------------------------------------------------------
// Billing flows
// ---------------------------------------------------------------------------

func TestCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")
	env.seedAdmin(t, "admin@test.edu", model.RoleAdmin, model.EntityInstitution, inst.ID)
	token := env.login(t, "admin@test.edu")

	rr := env.doAuth(t, "POST", "/api/v1/admin/subscriptions/checkout", jsonBody(t, map[string]string{
		"success_url": "https://app.test/success",
		"cancel_url":  "https://app.test/cancel",
	}), token)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		CheckoutURL string `json:"checkout_url"`
	}
	decodeJSON(t, rr, &resp)
	if resp.CheckoutURL == "" {
		t.Fatal("expected checkout_url")
	}
	if len(env.gateway.checkouts) != 1 {
		t.Fatalf("gateway checkouts = %d, want 1", len(env.gateway.checkouts))
	}
	if got := env.gateway.checkouts[0].EntityID; got != inst.ID {
		t.Errorf("checkout entity_id = %d, want %d", got, inst.ID)
	}
}

func TestCurrentSubscription_NoRowIsFreePlan(t *testing.T) {
	env := newTestEnv(t)
	inst := env.seedInstitution(t, 100001, "Test College", "NH")
	env.seedAdmin(t, "admin@test.edu", model.RoleAdmin, model.EntityInstitution, inst.ID)
	token := env.login(t, "admin@test.edu")

	rr := env.doAuth(t, "GET", "/api/v1/admin/subscriptions/current", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Access struct {
			PlanTier   string `json:"plan_tier"`
			HasPremium bool   `json:"has_premium"`
		} `json:"access"`
		Subscription *model.Subscription `json:"subscription"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Access.PlanTier != model.PlanFree {
		t.Errorf("plan_tier = %q, want free", resp.Access.PlanTier)
	}
	if resp.Access.HasPremium {
		t.Error("free plan reported premium")
	}
	if resp.Subscription != nil {
		t.Error("expected no subscription in response")
	}
}

// ---------------------------------------------------------------------------
// Stripe webhook endpoint
// ---------------------------------------------------------------------------

func TestStripeWebhook_SignedEventAccepted(t *testing.T) {
	env := newTestEnv(t)

	payload := []byte(`{
		"id": "evt_test_1",
		"api_version": "2024-06-20",
		"type": "invoice.payment_succeeded",
		"data": {"object": {"subscription": "sub_unknown"}}
	}`)
	rr := env.do(t, "POST", "/api/v1/webhooks/stripe", bytes.NewReader(payload), map[string]string{
		"Stripe-Signature": stripeSignature(payload, testSigningSecret),
	})
	assertStatus(t, rr, http.StatusOK)

	var resp map[string]bool
	decodeJSON(t, rr, &resp)
	if !resp["received"] {
		t.Error("expected received: true")
	}
}

func TestStripeWebhook_BadSignatureRejected(t *testing.T) {
	env := newTestEnv(t)

	payload := []byte(`{"id": "evt_test_2", "type": "customer.subscription.updated", "data": {"object": {}}}`)
	rr := env.do(t, "POST", "/api/v1/webhooks/stripe", bytes.NewReader(payload), map[string]string{
		"Stripe-Signature": stripeSignature(payload, "whsec_wrong_secret"),
	})
	assertStatus(t, rr, http.StatusBadRequest)
}

// ---------------------------------------------------------------------------
// Rate limiting
// ---------------------------------------------------------------------------

func TestAuthRateLimit(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"username": {"nobody@test.edu"}, "password": {"whatever"}}
	var last int
	for i := 0; i < 6; i++ {
		rr := env.do(t, "POST", "/api/v1/admin/auth/login", strings.NewReader(form.Encode()), map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
		})
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("6th auth request status = %d, want 429", last)
	}
}

// ---------------------------------------------------------------------------
// CORS
// ---------------------------------------------------------------------------

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "OPTIONS", "/api/v1/institutions", nil, map[string]string{
		"Origin":                         "http://localhost:3000",
		"Access-Control-Request-Method":  "GET",
		"Access-Control-Request-Headers": "Authorization,Content-Type",
	})
	if rr.Code < 200 || rr.Code >= 300 {
		t.Errorf("CORS preflight status = %d, want 2xx", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected Access-Control-Allow-Origin header")
	}
}

// ---------------------------------------------------------------------------
// Error envelope
// ---------------------------------------------------------------------------

func TestErrorResponseFormat(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/v1/admin/profile", nil, nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeJSON(t, rr, &errResp)
	if errResp.Error.Code != 401 {
		t.Errorf("error.code = %d, want 401", errResp.Error.Code)
	}
	if errResp.Error.Message == "" {
		t.Error("expected non-empty error.message")
	}
}

// ---------------------------------------------------------------------------
// Request body limit
// ---------------------------------------------------------------------------

func TestRequestBodyLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodySize = 256
	env := newTestEnvWithConfig(t, cfg)

	oversized := jsonBody(t, map[string]string{
		"code": strings.Repeat("X", 1024),
	})
	rr := env.do(t, "POST", "/api/v1/admin/auth/validate-invitation", oversized, nil)
	assertStatus(t, rr, http.StatusBadRequest)

	// A body inside the limit still parses normally.
	small := jsonBody(t, map[string]string{"code": "AAA-BBB-CCC-DDD"})
	rr = env.do(t, "POST", "/api/v1/admin/auth/validate-invitation", small, nil)
	assertStatus(t, rr, http.StatusOK)
}
