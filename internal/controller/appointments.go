package controller

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/validator"
)

// CandidateLimit bounds the patient selector preloaded by the create view.
const CandidateLimit = 100

var errEndBeforeStart = stderrors.New("End time must be after start time")

// AppointmentAPI is the appointment half of the remote API plus the patient
// listing used to fill the selector.
type AppointmentAPI interface {
	ListAppointments(ctx context.Context, q model.ListQuery) (*model.Page[model.Appointment], error)
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, in model.AppointmentInput) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	ListPatients(ctx context.Context, q model.ListQuery) (*model.Page[model.Patient], error)
}

// DoctorSource resolves the doctor that new appointments are booked for.
type DoctorSource interface {
	DoctorID(ctx context.Context) (string, error)
}

type appointmentResource struct {
	api     AppointmentAPI
	doctors DoctorSource
}

func (r appointmentResource) List(ctx context.Context, q model.ListQuery) (*model.Page[model.Appointment], error) {
	return r.api.ListAppointments(ctx, q)
}

func (r appointmentResource) Get(ctx context.Context, id string) (*model.Appointment, error) {
	return r.api.GetAppointment(ctx, id)
}

func (r appointmentResource) Create(ctx context.Context, form model.AppointmentForm) (*model.Appointment, error) {
	doctorID, err := r.doctors.DoctorID(ctx)
	if err != nil {
		return nil, err
	}
	return r.api.CreateAppointment(ctx, form.Input(doctorID))
}

func (r appointmentResource) Update(ctx context.Context, id string, form model.AppointmentForm) (*model.Appointment, error) {
	return r.api.UpdateAppointment(ctx, id, form.Patch())
}

func (r appointmentResource) Delete(ctx context.Context, id string) error {
	return r.api.DeleteAppointment(ctx, id)
}

// Appointments adds the patient selector and in-place status changes to the
// generic controller.
type Appointments struct {
	*Controller[model.Appointment, model.AppointmentForm]
	api AppointmentAPI

	mu         sync.Mutex
	candidates []model.Patient
}

func NewAppointments(api AppointmentAPI, doctors DoctorSource, opts Options) (*Appointments, error) {
	opts.defaults()
	v, err := formValidator(opts.Now)
	if err != nil {
		return nil, err
	}

	schema := Schema[model.Appointment, model.AppointmentForm]{
		Name:      "appointments",
		EmptyForm: model.EmptyAppointmentForm,
		FormFrom:  model.AppointmentFormFrom,
		ID:        func(a model.Appointment) string { return a.ID },
		Validate: func(form model.AppointmentForm) error {
			return validateAppointment(v, form)
		},
		Messages: Messages{
			Load:   "Error loading appointments",
			Open:   "Error loading appointment",
			Save:   "Error saving appointment",
			Delete: "Error deleting appointment",
		},
		DeletePrompt: "Delete this appointment?",
	}

	resource := appointmentResource{api: api, doctors: doctors}
	return &Appointments{
		Controller: New[model.Appointment, model.AppointmentForm](resource, schema, opts),
		api:        api,
	}, nil
}

func validateAppointment(v validator.Validator, form model.AppointmentForm) error {
	if err := v.Validate(form); err != nil {
		return err
	}
	start, err := time.Parse(model.ClockLayout, form.StartTime)
	if err != nil {
		return err
	}
	end, err := time.Parse(model.ClockLayout, form.EndTime)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return errEndBeforeStart
	}
	return nil
}

// OpenCreate preloads one page of candidate patients for the selector and
// opens the form. A failed preload leaves the selector empty.
func (a *Appointments) OpenCreate(ctx context.Context) {
	page, err := a.api.ListPatients(ctx, model.ListQuery{Page: 1, Limit: CandidateLimit})
	if err != nil {
		a.opts.Logger.Warn().Err(err).Msg("failed to preload patients")
	} else {
		a.mu.Lock()
		a.candidates = page.Data
		a.mu.Unlock()
	}
	a.Controller.OpenCreate()
}

// Candidates returns the patients preloaded by the last OpenCreate.
func (a *Appointments) Candidates() []model.Patient {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Patient(nil), a.candidates...)
}

// ChangeStatus sends a status-only update, refreshes the detail view with
// the stored appointment and then reloads the list behind it.
func (a *Appointments) ChangeStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	const fallback = "Error updating appointment status"

	gen, err := a.begin()
	if err != nil {
		return err
	}

	if _, err := a.api.UpdateAppointment(ctx, id, model.StatusPatch(status)); err != nil {
		a.finish(gen)
		return a.fail(gen, err, fallback)
	}

	fresh, err := a.api.GetAppointment(ctx, id)
	a.finish(gen)
	if err != nil {
		return a.fail(gen, err, fallback)
	}
	if !a.showDetail(gen, fresh) {
		return nil
	}

	a.opts.Logger.Info().Str("id", id).Str("status", string(status)).Msg("appointment status changed")
	return a.Reload(ctx)
}
