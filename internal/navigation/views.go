package navigation

import (
	"context"

	"github.com/jwalitptl/admin-console/internal/model"
)

// Lister is the part of a list controller the navigator drives.
type Lister interface {
	Activate()
	Deactivate()
	LoadList(ctx context.Context, filters model.Filters, page int) error
}

type listView struct {
	lister  Lister
	filters model.Filters
	page    int
	load    bool
}

// ListView enters a list controller by resetting it and loading the first
// unfiltered page.
func ListView(l Lister) View {
	return listView{lister: l, page: 1, load: true}
}

// QueryView is ListView starting from filters and page instead.
func QueryView(l Lister, filters model.Filters, page int) View {
	return listView{lister: l, filters: filters, page: page, load: true}
}

// IdleView resets the controller without fetching anything, for visits
// that go straight to a detail or form.
func IdleView(l Lister) View {
	return listView{lister: l}
}

func (v listView) Enter(ctx context.Context) error {
	v.lister.Activate()
	if !v.load {
		return nil
	}
	return v.lister.LoadList(ctx, v.filters, v.page)
}

func (v listView) Leave() {
	v.lister.Deactivate()
}

// ViewFunc wraps a function with nothing to clean up on leave.
type ViewFunc func(ctx context.Context) error

func (f ViewFunc) Enter(ctx context.Context) error { return f(ctx) }

func (f ViewFunc) Leave() {}
