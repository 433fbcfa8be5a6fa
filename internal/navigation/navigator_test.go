package navigation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

type fakeGate struct {
	signedIn bool
}

func (g *fakeGate) Enter(context.Context) error {
	if !g.signedIn {
		return errors.Unauthenticated(nil)
	}
	return nil
}

type fakeLister struct {
	activations   int
	deactivations int
	loads         []model.Filters
	pages         []int
}

func (l *fakeLister) Activate()   { l.activations++ }
func (l *fakeLister) Deactivate() { l.deactivations++ }

func (l *fakeLister) LoadList(_ context.Context, filters model.Filters, page int) error {
	l.loads = append(l.loads, filters)
	l.pages = append(l.pages, page)
	return nil
}

func TestResolve(t *testing.T) {
	tests := map[string]Route{
		"/":                  RouteLogin,
		"":                   RouteLogin,
		"/patients":          RoutePatients,
		"/patients/":         RoutePatients,
		"/appointments?x=1":  RouteAppointments,
		"/dashboard#top":     RouteDashboard,
		"/register":          RouteRegister,
		"/forgot-password":   RouteForgotPassword,
		"/nowhere":           RouteLogin,
		"/patients/abc/edit": RouteLogin,
	}
	for path, want := range tests {
		assert.Equal(t, want, Resolve(path), path)
	}
}

func TestProtectedRouteWithoutSession(t *testing.T) {
	lister := &fakeLister{}
	nav := New(&fakeGate{}, nil)
	nav.Handle(RoutePatients, ListView(lister))

	route, err := nav.Navigate(context.Background(), "/patients")
	assert.True(t, errors.IsUnauthenticated(err))
	assert.Equal(t, RouteLogin, route)
	assert.Equal(t, RouteLogin, nav.Current())
	assert.Zero(t, lister.activations)
	assert.Empty(t, lister.loads)
}

func TestRedirectKeepsPreviousEntry(t *testing.T) {
	gate := &fakeGate{signedIn: true}
	lister := &fakeLister{}
	nav := New(gate, nil)
	nav.Handle(RoutePatients, ListView(lister))
	ctx := context.Background()

	_, err := nav.Navigate(ctx, "/dashboard")
	require.NoError(t, err)

	gate.signedIn = false
	route, err := nav.Navigate(ctx, "/patients")
	assert.True(t, errors.IsUnauthenticated(err))
	assert.Equal(t, RouteLogin, route)
	assert.Equal(t, []Route{RouteDashboard, RouteLogin}, nav.History())
	assert.Zero(t, lister.activations)

	_, err = nav.Replace(ctx, "/register")
	require.NoError(t, err)
	assert.Equal(t, []Route{RouteDashboard, RouteRegister}, nav.History())
}

func TestPublicRouteWithoutSession(t *testing.T) {
	nav := New(&fakeGate{}, nil)

	route, err := nav.Navigate(context.Background(), "/register")
	require.NoError(t, err)
	assert.Equal(t, RouteRegister, route)
}

func TestListViewLoadsFirstPage(t *testing.T) {
	lister := &fakeLister{}
	nav := New(&fakeGate{signedIn: true}, nil)
	nav.Handle(RoutePatients, ListView(lister))

	_, err := nav.Navigate(context.Background(), "/patients")
	require.NoError(t, err)
	assert.Equal(t, 1, lister.activations)
	assert.Equal(t, []model.Filters{{}}, lister.loads)
	assert.Equal(t, []int{1}, lister.pages)
}

func TestQueryAndIdleViews(t *testing.T) {
	lister := &fakeLister{}
	nav := New(&fakeGate{signedIn: true}, nil)

	nav.Handle(RouteAppointments, QueryView(lister, model.Filters{Status: "scheduled"}, 3))
	_, err := nav.Navigate(context.Background(), "/appointments")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, lister.pages)
	assert.Equal(t, "scheduled", lister.loads[0].Status)

	nav.Handle(RoutePatients, IdleView(lister))
	_, err = nav.Navigate(context.Background(), "/patients")
	require.NoError(t, err)
	assert.Equal(t, 2, lister.activations)
	assert.Len(t, lister.loads, 1)
}

func TestLeavingDeactivates(t *testing.T) {
	patients := &fakeLister{}
	nav := New(&fakeGate{signedIn: true}, nil)
	nav.Handle(RoutePatients, ListView(patients))

	ctx := context.Background()
	_, err := nav.Navigate(ctx, "/patients")
	require.NoError(t, err)
	_, err = nav.Navigate(ctx, "/dashboard")
	require.NoError(t, err)

	assert.Equal(t, 1, patients.deactivations)
	assert.Equal(t, []Route{RoutePatients, RouteDashboard}, nav.History())
}

func TestBack(t *testing.T) {
	gate := &fakeGate{signedIn: true}
	patients := &fakeLister{}
	nav := New(gate, nil)
	nav.Handle(RoutePatients, ListView(patients))

	ctx := context.Background()
	route, err := nav.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, Route(""), route)

	_, err = nav.Navigate(ctx, "/patients")
	require.NoError(t, err)
	_, err = nav.Navigate(ctx, "/dashboard")
	require.NoError(t, err)

	route, err = nav.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, RoutePatients, route)
	assert.Equal(t, 2, patients.activations)
	assert.Equal(t, []Route{RoutePatients}, nav.History())

	_, err = nav.Navigate(ctx, "/dashboard")
	require.NoError(t, err)
	gate.signedIn = false
	route, err = nav.Back(ctx)
	assert.True(t, errors.IsUnauthenticated(err))
	assert.Equal(t, RouteLogin, route)
	assert.Equal(t, 2, patients.activations)
	assert.Equal(t, []Route{RouteLogin}, nav.History())
}

func TestReplace(t *testing.T) {
	nav := New(&fakeGate{signedIn: true}, nil)
	ctx := context.Background()

	_, err := nav.Navigate(ctx, "/login")
	require.NoError(t, err)
	_, err = nav.Replace(ctx, "/dashboard")
	require.NoError(t, err)
	assert.Equal(t, []Route{RouteDashboard}, nav.History())
}
