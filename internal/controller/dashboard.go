package controller

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

type DashboardAPI interface {
	TodayAppointments(ctx context.Context) ([]model.Appointment, error)
	ListPatients(ctx context.Context, q model.ListQuery) (*model.Page[model.Patient], error)
}

// UserSource yields the cached profile of the signed-in doctor.
type UserSource interface {
	User(ctx context.Context) (model.User, error)
}

type DashboardView struct {
	DoctorName    string
	Initials      string
	Specialty     string
	Today         []model.Appointment
	PatientsTotal int
	Error         string
}

type Dashboard struct {
	api    DashboardAPI
	users  UserSource
	logger *zerolog.Logger
}

func NewDashboard(api DashboardAPI, users UserSource, logger *zerolog.Logger) *Dashboard {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Dashboard{api: api, users: users, logger: logger}
}

// Load gathers the day's summary. A failed section leaves its zero value
// and sets Error; the other section is still filled.
func (d *Dashboard) Load(ctx context.Context) (DashboardView, error) {
	var view DashboardView

	user, err := d.users.User(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("failed to read cached profile")
	}
	view.DoctorName = user.FullName
	if view.DoctorName == "" {
		view.DoctorName = "Doctor"
	}
	view.Initials = Initials(view.DoctorName)
	view.Specialty = user.Specialty

	var firstErr error
	today, err := d.api.TodayAppointments(ctx)
	if err != nil {
		firstErr = errors.WithFallback(err, "Error loading today's appointments")
	} else {
		view.Today = today
	}

	page, err := d.api.ListPatients(ctx, model.ListQuery{Page: 1, Limit: 1})
	if err != nil {
		if firstErr == nil {
			firstErr = errors.WithFallback(err, "Error loading patients")
		}
	} else {
		view.PatientsTotal = page.Total
	}

	if firstErr != nil {
		view.Error = errors.MessageOr(firstErr, "")
	}
	return view, firstErr
}
