package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/djahern-max/campusconnect-backend/internal/billing"
	"github.com/djahern-max/campusconnect-backend/internal/handler"
	"github.com/djahern-max/campusconnect-backend/internal/metrics"
	"github.com/djahern-max/campusconnect-backend/internal/server/middleware"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/storage"
	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	MaxBodySize     int64 // bytes
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		MaxBodySize:     10 * 1024 * 1024, // 10MB
	}
}

// Deps bundles the services the server routes to.
type Deps struct {
	Store     *store.Store
	AuthSvc   *service.AuthService
	AccessSvc *service.AccessService
	Gateway   billing.Gateway
	Processor *billing.Processor
	Uploader  storage.Uploader
	Registry  *prometheus.Registry
	Collector *metrics.Collector
}

// Server is the top-level HTTP server. It owns the chi router and the
// handler wiring.
type Server struct {
	cfg        Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger, s.deps.Collector))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))
	if s.cfg.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(s.cfg.MaxBodySize))
	}

	// --- Health checks and operational endpoints (no auth required) ---
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if s.deps.Registry != nil {
		r.Handle("/metrics", metrics.Handler(s.deps.Registry))
	}
	r.Get("/openapi.json", s.handleOpenAPI)

	authHandler := handler.NewAuthHandler(s.deps.Store, s.deps.AuthSvc, s.deps.Collector)
	instHandler := handler.NewInstitutionHandler(s.deps.Store, s.deps.AccessSvc)
	schHandler := handler.NewScholarshipHandler(s.deps.Store, s.deps.AccessSvc)
	profileHandler := handler.NewProfileHandler(s.deps.Store, s.deps.AccessSvc)
	galleryHandler := handler.NewGalleryHandler(s.deps.Store, s.deps.AccessSvc, s.deps.Uploader, s.deps.Collector)
	videoHandler := handler.NewVideoHandler(s.deps.Store, s.deps.AccessSvc)
	subHandler := handler.NewSubscriptionHandler(s.deps.Store, s.deps.AccessSvc, s.deps.Gateway)
	webhookHandler := handler.NewWebhookHandler(s.deps.Processor)

	r.Route("/api/v1", func(r chi.Router) {

		// Public directory
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(middleware.PublicLimit))

			r.Get("/institutions", instHandler.List)
			r.Get("/institutions/{institutionID}", instHandler.Get)
			r.Get("/scholarships", schHandler.List)
			r.Get("/scholarships/{scholarshipID}", schHandler.Get)
		})

		// Authentication endpoints, throttled hard
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(middleware.AuthLimit))

			r.Post("/admin/auth/login", authHandler.Login)
			r.Post("/admin/auth/register", authHandler.Register)
			r.Post("/admin/auth/validate-invitation", authHandler.ValidateInvitation)
		})

		// Authenticated admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(middleware.AdminLimit))
			r.Use(middleware.Authenticate(s.deps.AuthSvc))

			r.Get("/admin/auth/me", authHandler.Me)
			r.Post("/admin/auth/change-password", authHandler.ChangePassword)

			// Own entity profile
			r.Get("/admin/profile", profileHandler.Get)
			r.Put("/admin/profile", profileHandler.Update)
			r.Get("/admin/display-settings", profileHandler.GetDisplaySettings)
			r.Put("/admin/display-settings", profileHandler.UpdateDisplaySettings)
			r.Get("/admin/extended-info", profileHandler.GetExtendedInfo)
			r.Put("/admin/extended-info", profileHandler.UpdateExtendedInfo)

			// Gallery; uploads carry their own tighter limit
			r.Get("/admin/gallery", galleryHandler.List)
			r.With(middleware.RateLimit(middleware.UploadLimit)).
				Post("/admin/gallery", galleryHandler.Upload)
			r.Put("/admin/gallery/order", galleryHandler.Reorder)
			r.Patch("/admin/gallery/{imageID}", galleryHandler.UpdateCaption)
			r.Put("/admin/gallery/{imageID}/featured", galleryHandler.SetFeatured)
			r.Delete("/admin/gallery/{imageID}", galleryHandler.Delete)

			// Videos
			r.Get("/admin/videos", videoHandler.List)
			r.Post("/admin/videos", videoHandler.Create)
			r.Put("/admin/videos/{videoID}", videoHandler.Update)
			r.Delete("/admin/videos/{videoID}", videoHandler.Delete)

			// Billing
			r.Get("/admin/subscriptions/current", subHandler.Current)
			r.Post("/admin/subscriptions/checkout", subHandler.Checkout)
			r.Post("/admin/subscriptions/portal", subHandler.Portal)
			r.Post("/admin/subscriptions/cancel", subHandler.Cancel)
			r.Post("/admin/subscriptions/resume", subHandler.Resume)

			// Directory and invitation management (super admin)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSuperAdmin())

				r.Post("/admin/institutions", instHandler.Create)
				r.Put("/admin/institutions/{institutionID}", instHandler.Update)
				r.Post("/admin/scholarships", schHandler.Create)
				r.Put("/admin/scholarships/{scholarshipID}", schHandler.Update)

				r.Post("/admin/invitations", authHandler.CreateInvitation)
				r.Get("/admin/invitations", authHandler.ListInvitations)
				r.Delete("/admin/invitations/{code}", authHandler.RevokeInvitation)
			})
		})

		// Billing webhooks: unauthenticated but signature-verified
		r.With(middleware.RateLimit(middleware.WebhookLimit)).
			Post("/webhooks/stripe", webhookHandler.Stripe)
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the database is
// reachable, or 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.deps.Store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","checks":{"database":"error"}}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","checks":{"database":"ok"}}`))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Listen for shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in background goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
