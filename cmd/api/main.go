package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/admin-console/internal/config"
	"github.com/jwalitptl/admin-console/internal/email"
	"github.com/jwalitptl/admin-console/internal/handler/appointment"
	"github.com/jwalitptl/admin-console/internal/handler/auth"
	"github.com/jwalitptl/admin-console/internal/handler/health"
	"github.com/jwalitptl/admin-console/internal/handler/patient"
	promHandler "github.com/jwalitptl/admin-console/internal/handler/prometheus"
	"github.com/jwalitptl/admin-console/internal/middleware"
	"github.com/jwalitptl/admin-console/internal/repository"
	"github.com/jwalitptl/admin-console/internal/repository/memory"
	"github.com/jwalitptl/admin-console/internal/repository/postgres"
	"github.com/jwalitptl/admin-console/internal/router"
	appointmentService "github.com/jwalitptl/admin-console/internal/service/appointment"
	authService "github.com/jwalitptl/admin-console/internal/service/auth"
	patientService "github.com/jwalitptl/admin-console/internal/service/patient"
	"github.com/jwalitptl/admin-console/internal/worker"
	jwtauth "github.com/jwalitptl/admin-console/pkg/auth"
	"github.com/jwalitptl/admin-console/pkg/logger"
	"github.com/jwalitptl/admin-console/pkg/metrics"
	"github.com/jwalitptl/admin-console/pkg/security"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stderr,
		JSON:       cfg.Log.JSON,
		Service:    "hospitalis-api",
	})
	l.Install()
	zl := l.Zero()
	gin.SetMode(gin.ReleaseMode)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("hospitalis", "api", registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	var (
		repos repository.Repositories
		db    *sqlx.DB
	)
	switch cfg.Server.Storage {
	case "postgres":
		db, err = postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
		repos = postgres.New(db, m)
	case "memory", "":
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		repos = memory.New()
	default:
		log.Fatal().Str("storage", cfg.Server.Storage).Msg("unknown storage backend")
	}

	// Initialize services
	jwtSvc := jwtauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(repos.Doctors, repos.ResetTokens, jwtSvc,
		security.NewBcryptHasher(bcrypt.DefaultCost), email.NewService(cfg.SMTP, zl), zl)
	patientSvc := patientService.NewService(repos.Patients, cfg.Server.MaxPageSize, zl)
	appointmentSvc := appointmentService.NewService(repos.Appointments, repos.Patients, repos.Doctors, cfg.Server.MaxPageSize, zl)

	// Initialize handlers
	var pinger health.Pinger
	if db != nil {
		pinger = db
	}

	r := router.NewRouter(
		router.RouterConfig{
			RateLimit:      rate.Limit(cfg.Server.RateLimit),
			RateBurst:      cfg.Server.RateBurst,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
		middleware.NewAuthMiddleware(authSvc),
		auth.NewHandler(authSvc),
		patient.NewHandler(patientSvc),
		appointment.NewHandler(appointmentSvc),
		health.NewHandler(pinger),
		promHandler.New(registry),
		m,
	)
	r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanup := worker.NewResetTokenCleanupWorker(repos.ResetTokens, cfg.Server.TokenRetention, cfg.Server.TokenCleanupInterval, zl)
	go cleanup.Start(ctx)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("storage", cfg.Server.Storage).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
