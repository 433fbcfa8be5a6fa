package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/admin-console/internal/handler/appointment"
	"github.com/jwalitptl/admin-console/internal/handler/auth"
	"github.com/jwalitptl/admin-console/internal/handler/health"
	"github.com/jwalitptl/admin-console/internal/handler/patient"
	"github.com/jwalitptl/admin-console/internal/handler/prometheus"
	"github.com/jwalitptl/admin-console/internal/middleware"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine       *gin.Engine
	config       RouterConfig
	auth         *middleware.AuthMiddleware
	authH        *auth.Handler
	patientH     Handler
	appointmentH Handler
	healthH      *health.Handler
	metricsH     *prometheus.Handler
	metrics      *metrics.Metrics
}

type RouterConfig struct {
	RateLimit      rate.Limit
	RateBurst      int
	AllowedOrigins []string
	Timeout        time.Duration
}

func NewRouter(
	config RouterConfig,
	auth *middleware.AuthMiddleware,
	authH *auth.Handler,
	patientH *patient.Handler,
	appointmentH *appointment.Handler,
	healthH *health.Handler,
	metricsH *prometheus.Handler,
	m *metrics.Metrics,
) *Router {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Router{
		engine:       gin.New(),
		config:       config,
		auth:         auth,
		authH:        authH,
		patientH:     patientH,
		appointmentH: appointmentH,
		healthH:      healthH,
		metricsH:     metricsH,
		metrics:      m,
	}
}

// Setup installs middleware and mounts every route. The API lives at the
// root; the console joins paths like /auth/login onto its base URL.
func (r *Router) Setup() {
	r.engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Metrics(r.metrics),
		middleware.SecurityHeaders(),
		middleware.CORS(r.config.AllowedOrigins),
	)

	r.healthH.RegisterRoutes(&r.engine.RouterGroup)
	if r.metricsH != nil {
		r.engine.GET("/metrics", r.metricsH.Handler())
	}

	api := r.engine.Group("")
	if r.config.RateLimit > 0 {
		api.Use(middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  r.config.RateLimit,
			Burst: r.config.RateBurst,
		}).RateLimit())
	}
	api.Use(middleware.Timeout(r.config.Timeout))

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.authH.RegisterRoutes(api, protected)
	r.patientH.RegisterRoutes(protected)
	r.appointmentH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
