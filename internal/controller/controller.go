package controller

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

type State string

const (
	StateList   State = "list"
	StateCreate State = "create"
	StateDetail State = "detail"
	StateEdit   State = "edit"
)

var (
	// ErrBusy is returned when a save, delete or status change is already
	// in flight.
	ErrBusy = stderrors.New("another change is already in progress")
	// ErrNoForm is returned by Submit outside the create and edit states.
	ErrNoForm = stderrors.New("no form is open")
)

// Resource is the remote CRUD capability a controller drives. F is the raw
// form type; implementations normalize it into a request body.
type Resource[T any, F any] interface {
	List(ctx context.Context, q model.ListQuery) (*model.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, form F) (*T, error)
	Update(ctx context.Context, id string, form F) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Messages are the fallbacks shown when a failure carries no server text.
type Messages struct {
	Load   string
	Open   string
	Save   string
	Delete string
}

// Schema describes the entity a controller manages.
type Schema[T any, F any] struct {
	Name      string
	EmptyForm func() F
	FormFrom  func(T) F
	ID        func(T) string
	// Validate checks client-side invariants; the returned error text is
	// shown to the user.
	Validate func(F) error
	Messages Messages
	// DeletePrompt is shown by the Confirmer before a delete.
	DeletePrompt string
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm accepts every prompt. Used for non-interactive callers that
// confirmed up front.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

type Options struct {
	Confirmer Confirmer
	PageSize  int
	Now       func() time.Time
	Logger    *zerolog.Logger
	Metrics   *metrics.Metrics
}

func (o *Options) defaults() {
	if o.Confirmer == nil {
		o.Confirmer = AlwaysConfirm
	}
	if o.PageSize <= 0 {
		o.PageSize = model.DefaultPageSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	if o.Metrics == nil {
		o.Metrics = metrics.NewNop()
	}
}

// Controller is the list/create/detail/edit state machine for one entity
// screen. Network calls run without the lock held; their results are only
// applied if the view is still the one that issued them.
type Controller[T any, F any] struct {
	resource Resource[T, F]
	schema   Schema[T, F]
	opts     Options

	mu       sync.Mutex
	state    State
	filters  model.Filters
	page     int
	items    []T
	total    int
	selected *T
	form     F
	loading  bool
	saving   bool
	lastErr  string

	// seq is the latest issued list request. gen changes whenever the view
	// is deactivated or reactivated, orphaning everything in flight.
	seq    uint64
	gen    uint64
	active bool
}

func New[T any, F any](resource Resource[T, F], schema Schema[T, F], opts Options) *Controller[T, F] {
	opts.defaults()
	return &Controller[T, F]{
		resource: resource,
		schema:   schema,
		opts:     opts,
		state:    StateList,
		page:     1,
		form:     schema.EmptyForm(),
		active:   true,
	}
}

// LoadList fetches page of the collection matching filters. Only the most
// recently issued call is applied; earlier responses are dropped.
func (c *Controller[T, F]) LoadList(ctx context.Context, filters model.Filters, page int) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.filters = filters
	c.page = page
	c.seq++
	seq, gen := c.seq, c.gen
	c.loading = true
	q := model.ListQuery{Filters: filters, Page: page, Limit: c.opts.PageSize}
	c.mu.Unlock()

	result, err := c.resource.List(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq || gen != c.gen || !c.active {
		c.opts.Metrics.StaleResponses.WithLabelValues(c.schema.Name).Inc()
		c.opts.Logger.Debug().Str("view", c.schema.Name).Uint64("seq", seq).Msg("discarding superseded list response")
		return nil
	}

	c.loading = false
	if err != nil {
		c.lastErr = errors.MessageOr(err, c.schema.Messages.Load)
		return errors.WithFallback(err, c.schema.Messages.Load)
	}

	c.items = result.Data
	if c.items == nil {
		c.items = []T{}
	}
	c.total = result.Total
	c.lastErr = ""
	return nil
}

// Reload invalidates the cached page and fetches the current query again.
func (c *Controller[T, F]) Reload(ctx context.Context) error {
	c.mu.Lock()
	filters, page := c.filters, c.page
	c.mu.Unlock()

	return c.LoadList(ctx, filters, page)
}

// SetFilters applies new filters starting from the first page.
func (c *Controller[T, F]) SetFilters(ctx context.Context, filters model.Filters) error {
	return c.LoadList(ctx, filters, 1)
}

// SetPage moves to page keeping the current filters.
func (c *Controller[T, F]) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	filters := c.filters
	c.mu.Unlock()

	return c.LoadList(ctx, filters, page)
}

// OpenCreate resets the form and shows the create view.
func (c *Controller[T, F]) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = c.schema.EmptyForm()
	c.selected = nil
	c.lastErr = ""
	c.state = StateCreate
}

// OpenDetail fetches one entity and shows it. On failure the view falls back
// to the list.
func (c *Controller[T, F]) OpenDetail(ctx context.Context, id string) error {
	c.mu.Lock()
	gen := c.gen
	c.loading = true
	c.mu.Unlock()

	entity, err := c.resource.Get(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || !c.active {
		return nil
	}
	c.loading = false
	if err != nil {
		c.lastErr = errors.MessageOr(err, c.schema.Messages.Open)
		c.state = StateList
		return errors.WithFallback(err, c.schema.Messages.Open)
	}

	c.selected = entity
	c.lastErr = ""
	c.state = StateDetail
	return nil
}

// OpenEdit seeds the form from an already loaded entity.
func (c *Controller[T, F]) OpenEdit(entity T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selected = &entity
	c.form = c.schema.FormFrom(entity)
	c.lastErr = ""
	c.state = StateEdit
}

// Submit validates form and creates or updates depending on the state. On
// success the list is reloaded and shown; on failure the form is kept.
func (c *Controller[T, F]) Submit(ctx context.Context, form F) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrBusy
	}
	state := c.state
	if state != StateCreate && state != StateEdit {
		c.mu.Unlock()
		return ErrNoForm
	}

	c.form = form
	if c.schema.Validate != nil {
		if err := c.schema.Validate(form); err != nil {
			c.lastErr = err.Error()
			c.mu.Unlock()
			return errors.Validation(err.Error())
		}
	}

	var id string
	if state == StateEdit && c.selected != nil {
		id = c.schema.ID(*c.selected)
	}
	gen := c.gen
	c.saving = true
	c.lastErr = ""
	c.mu.Unlock()

	var err error
	if state == StateCreate {
		_, err = c.resource.Create(ctx, form)
	} else {
		_, err = c.resource.Update(ctx, id, form)
	}

	c.mu.Lock()
	c.saving = false
	if gen != c.gen || !c.active {
		c.mu.Unlock()
		return err
	}
	if err != nil {
		c.lastErr = errors.MessageOr(err, c.schema.Messages.Save)
		c.mu.Unlock()
		return errors.WithFallback(err, c.schema.Messages.Save)
	}
	c.state = StateList
	c.selected = nil
	c.mu.Unlock()

	c.opts.Logger.Info().Str("view", c.schema.Name).Str("state", string(state)).Msg("saved")
	return c.Reload(ctx)
}

// Remove deletes id after confirmation. Nothing is removed from the cached
// page until the reload returns.
func (c *Controller[T, F]) Remove(ctx context.Context, id string) error {
	ok, err := c.opts.Confirmer.Confirm(ctx, c.schema.DeletePrompt)
	if err != nil || !ok {
		return err
	}

	gen, err := c.begin()
	if err != nil {
		return err
	}

	err = c.resource.Delete(ctx, id)

	c.mu.Lock()
	if gen != c.gen || !c.active {
		c.mu.Unlock()
		return err
	}
	c.saving = false
	if err != nil {
		c.lastErr = errors.MessageOr(err, c.schema.Messages.Delete)
		c.mu.Unlock()
		return errors.WithFallback(err, c.schema.Messages.Delete)
	}
	c.state = StateList
	c.selected = nil
	c.lastErr = ""
	c.mu.Unlock()

	c.opts.Logger.Info().Str("view", c.schema.Name).Str("id", id).Msg("deleted")
	return c.Reload(ctx)
}

// Back leaves the current view: edit returns to detail, everything else to
// the list.
func (c *Controller[T, F]) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastErr = ""
	if c.state == StateEdit && c.selected != nil {
		c.state = StateDetail
		return
	}
	c.state = StateList
	c.selected = nil
}

// Deactivate is called when the user navigates away. Responses to calls
// already in flight are discarded.
func (c *Controller[T, F]) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = false
	c.gen++
	c.loading = false
	c.saving = false
}

// Activate resets the view for a fresh visit. View state does not survive
// navigation.
func (c *Controller[T, F]) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = true
	c.gen++
	c.state = StateList
	c.filters = model.Filters{}
	c.page = 1
	c.items = nil
	c.total = 0
	c.selected = nil
	c.form = c.schema.EmptyForm()
	c.loading = false
	c.saving = false
	c.lastErr = ""
}

// View is a consistent copy of the controller state.
type View[T any, F any] struct {
	State     State
	Filters   model.Filters
	Page      int
	PageCount int
	HasPrev   bool
	HasNext   bool
	Items     []T
	Total     int
	Selected  *T
	Form      F
	Loading   bool
	Saving    bool
	Error     string
}

func (c *Controller[T, F]) Snapshot() View[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View[T, F]{
		State:     c.state,
		Filters:   c.filters,
		Page:      c.page,
		PageCount: PageCount(c.total, c.opts.PageSize),
		HasPrev:   HasPrev(c.page),
		HasNext:   HasNext(c.page, c.total, c.opts.PageSize),
		Items:     append([]T(nil), c.items...),
		Total:     c.total,
		Form:      c.form,
		Loading:   c.loading,
		Saving:    c.saving,
		Error:     c.lastErr,
	}
	if c.selected != nil {
		selected := *c.selected
		v.Selected = &selected
	}
	return v
}

// showDetail applies a refreshed entity if the view is still current.
func (c *Controller[T, F]) showDetail(gen uint64, entity *T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || !c.active {
		return false
	}
	c.selected = entity
	c.state = StateDetail
	c.lastErr = ""
	return true
}

func (c *Controller[T, F]) fail(gen uint64, err error, fallback string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.gen && c.active {
		c.lastErr = errors.MessageOr(err, fallback)
	}
	return errors.WithFallback(err, fallback)
}

// begin marks a write as in flight for the current generation.
func (c *Controller[T, F]) begin() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.saving {
		return 0, ErrBusy
	}
	c.saving = true
	return c.gen, nil
}

func (c *Controller[T, F]) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.gen {
		c.saving = false
	}
}
