package navigation

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/pkg/errors"
)

type Route string

const (
	RouteLogin          Route = "/login"
	RouteRegister       Route = "/register"
	RouteForgotPassword Route = "/forgot-password"
	RouteDashboard      Route = "/dashboard"
	RoutePatients       Route = "/patients"
	RouteAppointments   Route = "/appointments"
)

var public = map[Route]bool{
	RouteLogin:          true,
	RouteRegister:       true,
	RouteForgotPassword: true,
}

var protected = map[Route]bool{
	RouteDashboard:    true,
	RoutePatients:     true,
	RouteAppointments: true,
}

func (r Route) Protected() bool {
	return protected[r]
}

// Resolve maps a requested path onto a known route. The root and anything
// unknown land on the login page.
func Resolve(path string) Route {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	route := Route(path)
	if public[route] || protected[route] {
		return route
	}
	return RouteLogin
}

// Gate decides whether protected routes may be entered.
type Gate interface {
	Enter(ctx context.Context) error
}

// View is whatever renders a route. Enter runs after the route became
// current; Leave runs when another route replaces it.
type View interface {
	Enter(ctx context.Context) error
	Leave()
}

type Navigator struct {
	gate   Gate
	logger *zerolog.Logger

	mu      sync.Mutex
	history []Route
	views   map[Route]View
}

func New(gate Gate, logger *zerolog.Logger) *Navigator {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Navigator{gate: gate, logger: logger, views: map[Route]View{}}
}

// Handle attaches view to route.
func (n *Navigator) Handle(route Route, view View) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.views[route] = view
}

func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) == 0 {
		return ""
	}
	return n.history[len(n.history)-1]
}

// History returns a copy of the back stack, oldest first.
func (n *Navigator) History() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Route(nil), n.history...)
}

// Navigate pushes path. A protected route without a session takes its
// entry and becomes the login page, so the page navigated from stays in
// history. The returned error is then Unauthenticated and the protected
// view is never entered.
func (n *Navigator) Navigate(ctx context.Context, path string) (Route, error) {
	return n.visit(ctx, Resolve(path), false)
}

// Replace swaps the current entry for path.
func (n *Navigator) Replace(ctx context.Context, path string) (Route, error) {
	return n.visit(ctx, Resolve(path), true)
}

// Back pops the current entry and re-enters the previous one, guard
// included. With a single entry it does nothing.
func (n *Navigator) Back(ctx context.Context) (Route, error) {
	n.mu.Lock()
	if len(n.history) < 2 {
		n.mu.Unlock()
		return n.Current(), nil
	}
	leaving := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	target := n.history[len(n.history)-1]
	n.mu.Unlock()

	n.leave(leaving)
	return n.visit(ctx, target, true)
}

func (n *Navigator) visit(ctx context.Context, route Route, replace bool) (Route, error) {
	if route.Protected() {
		if err := n.gate.Enter(ctx); err != nil {
			if !errors.IsUnauthenticated(err) {
				return n.Current(), err
			}
			n.logger.Debug().Str("route", string(route)).Msg("no session, redirecting to login")
			n.commit(RouteLogin, replace)
			n.enter(ctx, RouteLogin)
			return RouteLogin, err
		}
	}

	n.commit(route, replace)
	return route, n.enter(ctx, route)
}

func (n *Navigator) commit(route Route, replace bool) {
	n.mu.Lock()
	var previous Route
	if len(n.history) > 0 {
		previous = n.history[len(n.history)-1]
	}
	if replace && len(n.history) > 0 {
		n.history[len(n.history)-1] = route
	} else {
		n.history = append(n.history, route)
	}
	n.mu.Unlock()

	if previous != "" && previous != route {
		n.leave(previous)
	}
}

func (n *Navigator) enter(ctx context.Context, route Route) error {
	n.mu.Lock()
	view := n.views[route]
	n.mu.Unlock()

	if view == nil {
		return nil
	}
	return view.Enter(ctx)
}

func (n *Navigator) leave(route Route) {
	n.mu.Lock()
	view := n.views[route]
	n.mu.Unlock()

	if view != nil {
		view.Leave()
	}
}
