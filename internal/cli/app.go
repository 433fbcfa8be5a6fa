package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/client"
	"github.com/jwalitptl/admin-console/internal/config"
	"github.com/jwalitptl/admin-console/internal/controller"
	"github.com/jwalitptl/admin-console/internal/navigation"
	"github.com/jwalitptl/admin-console/internal/session"
	"github.com/jwalitptl/admin-console/pkg/metrics"
	"github.com/jwalitptl/admin-console/pkg/security"
)

// App is one console process: the session, the API client and the screens
// that sit on top of them.
type App struct {
	config *config.Config
	logger *zerolog.Logger

	store   session.Store
	closer  func() error
	session *session.Session
	auth    *session.Manager
	api     *client.Client
	nav     *navigation.Navigator

	patients     *controller.Patients
	appointments *controller.Appointments
	dashboard    *controller.Dashboard

	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
	// declined is set when the last confirmation was answered no.
	declined bool
}

// openStore picks the session backend named by cfg.SessionStore.
func openStore(ctx context.Context, cfg config.ConsoleConfig, logger *zerolog.Logger) (session.Store, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.SessionStore) {
	case "", "file":
		if cfg.SessionKey == "" {
			return session.NewFileStore(cfg.SessionFile), noop, nil
		}
		key, err := security.ParseKey(cfg.SessionKey)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid session key: %w", err)
		}
		enc, err := security.NewAESEncryptor(key)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid session key: %w", err)
		}
		return session.NewFileStore(cfg.SessionFile, session.WithEncryptor(enc)), noop, nil
	case "memory":
		return session.NewMemoryStore(), noop, nil
	case "redis":
		store, err := session.NewRedisStore(ctx, session.RedisConfig{
			URL:          cfg.RedisURL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, in io.Reader, out io.Writer) (*App, error) {
	store, closer, err := openStore(ctx, cfg.Console, logger)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, logger, store, closer, in, out)
}

// buildApp wires every component on top of an already opened store.
func buildApp(cfg *config.Config, logger *zerolog.Logger, store session.Store, closer func() error, in io.Reader, out io.Writer) (*App, error) {
	a := &App{
		config: cfg,
		logger: logger,
		store:  store,
		closer: closer,
		in:     bufio.NewReader(in),
		out:    out,
	}
	a.session = session.New(store)

	// A console process is short lived; its metrics stay private.
	m := metrics.NewMetrics("hospitalis", "console", prometheus.NewRegistry())

	api, err := client.New(client.Config{
		BaseURL:         cfg.Console.APIBaseURL,
		Timeout:         cfg.Console.Timeout,
		RateLimit:       cfg.Console.RateLimit,
		RateBurst:       cfg.Console.RateBurst,
		BreakerFailures: cfg.Console.BreakerFailures,
		BreakerTimeout:  cfg.Console.BreakerTimeout,
	}, a.session, client.WithMetrics(m), client.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	a.api = api

	a.auth, err = session.NewManager(a.session, api, logger)
	if err != nil {
		return nil, err
	}

	opts := controller.Options{
		Confirmer: controller.ConfirmFunc(a.confirm),
		Logger:    logger,
		Metrics:   m,
	}
	a.patients, err = controller.NewPatients(api, opts)
	if err != nil {
		return nil, err
	}
	a.appointments, err = controller.NewAppointments(api, a.auth, opts)
	if err != nil {
		return nil, err
	}
	a.dashboard = controller.NewDashboard(api, a.session, logger)

	a.nav = navigation.New(session.NewGuard(a.session, logger), logger)
	a.nav.Handle(navigation.RouteDashboard, navigation.ViewFunc(func(context.Context) error { return nil }))
	return a, nil
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// visit enters route with view attached, going through the session guard.
func (a *App) visit(ctx context.Context, route navigation.Route, view navigation.View) error {
	if view != nil {
		a.nav.Handle(route, view)
	}
	_, err := a.nav.Navigate(ctx, string(route))
	return err
}

func (a *App) confirm(_ context.Context, prompt string) (bool, error) {
	a.declined = false
	if a.assumeYes {
		return true, nil
	}
	answer, err := a.prompt(prompt + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	a.declined = true
	return false, nil
}

// prompt writes label and reads one trimmed line from the input.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
