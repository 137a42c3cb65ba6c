package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/djahern-max/campusconnect-backend/internal/billing"
	"github.com/djahern-max/campusconnect-backend/internal/metrics"
	"github.com/djahern-max/campusconnect-backend/internal/server"
	"github.com/djahern-max/campusconnect-backend/internal/service"
	"github.com/djahern-max/campusconnect-backend/internal/storage"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CampusConnect API server",
		Long:  "Start the HTTP server that exposes the public directory and the admin API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging, CORS *)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// 1. Database
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	logger.Info("store initialized", "driver", viper.GetString("db.driver"))

	// 2. Auth and access
	jwtSecret := viper.GetString("auth.jwt_secret")
	if jwtSecret == "" {
		if !dev {
			return fmt.Errorf("auth.jwt_secret is required (set CAMPUSCONNECT_AUTH_JWT_SECRET)")
		}
		jwtSecret = "campusconnect-dev-secret-change-me"
		logger.Warn("using development JWT secret")
	}
	authSvc := service.NewAuthService(st, jwtSecret)
	accessSvc := service.NewAccessService(st)

	// 3. Billing
	gateway := billing.NewStripeGateway(viper.GetString("stripe.api_key"))
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	processor := billing.NewProcessor(st, viper.GetString("stripe.webhook_secret"), logger, collector)
	if viper.GetString("stripe.api_key") == "" {
		logger.Warn("stripe.api_key not set; checkout and portal endpoints will fail")
	}

	// 4. Object storage
	uploader, err := storage.NewSpacesUploader(storage.Config{
		Endpoint:  viper.GetString("spaces.endpoint"),
		Region:    viper.GetString("spaces.region"),
		Bucket:    viper.GetString("spaces.bucket"),
		AccessKey: viper.GetString("spaces.access_key"),
		SecretKey: viper.GetString("spaces.secret_key"),
		CDNDomain: viper.GetString("spaces.cdn_domain"),
	})
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	// 5. First-run hint
	hasAdmin, err := st.HasAnyAdmin(cmdCtx())
	if err != nil {
		logger.Warn("failed to check for admin accounts", "error", err)
	}
	if !hasAdmin {
		logger.Warn("no admin account found - run: campusconnect admin create")
	}

	// 6. Expire stale invitation codes on startup
	if n, err := st.ExpireInvitations(cmdCtx()); err != nil {
		logger.Warn("failed to expire invitations", "error", err)
	} else if n > 0 {
		logger.Info("expired stale invitation codes", "count", n)
	}

	corsOrigins := []string{"*"}
	if raw := viper.GetString("server.cors_origins"); raw != "" && !dev {
		corsOrigins = strings.Split(raw, ",")
	}

	srvCfg := server.Config{
		Host:            host,
		Port:            port,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     corsOrigins,
		MaxBodySize:     10 * 1024 * 1024,
	}

	srv := server.New(srvCfg, server.Deps{
		Store:     st,
		AuthSvc:   authSvc,
		AccessSvc: accessSvc,
		Gateway:   gateway,
		Processor: processor,
		Uploader:  uploader,
		Registry:  registry,
		Collector: collector,
	}, logger)

	fmt.Printf("→ CampusConnect API\n")
	fmt.Printf("→ Listening on http://%s:%d\n", host, port)
	fmt.Printf("→ OpenAPI:  http://%s:%d/openapi.json\n", host, port)
	fmt.Printf("→ Health:   http://%s:%d/healthz\n", host, port)
	fmt.Printf("→ Metrics:  http://%s:%d/metrics\n", host, port)
	fmt.Println()

	return srv.ListenAndServe()
}
