package appointment

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/repository"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

type Service struct {
	repo        repository.AppointmentRepository
	patients    repository.PatientRepository
	doctors     repository.DoctorRepository
	maxPageSize int
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository,
	doctors repository.DoctorRepository, maxPageSize int, logger *zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		patients:    patients,
		doctors:     doctors,
		maxPageSize: maxPageSize,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, in model.AppointmentInput) (*model.Appointment, error) {
	record := in.Record()
	if err := validateSchedule(record); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, record); err != nil {
		return nil, err
	}

	record.ID = uuid.New().String()
	record.CreatedAt = s.now()
	record.UpdatedAt = record.CreatedAt

	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, errors.Internal(err)
	}

	s.logger.Info().Str("appointment_id", record.ID).Str("doctor_id", record.DoctorID).Msg("appointment created")
	return s.expandOne(ctx, record)
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return s.expandOne(ctx, *record)
}

// UpdateAppointment applies a partial update; a status-only patch is the
// common case.
func (s *Service) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (*model.Appointment, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	patientBefore := record.PatientID
	patch.Apply(record)
	record.Date = model.DateOnly(record.Date)
	if err := validateSchedule(*record); err != nil {
		return nil, err
	}
	if record.PatientID != patientBefore {
		if err := s.checkRefs(ctx, *record); err != nil {
			return nil, err
		}
	}

	record.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, notFoundOr(err)
	}
	return s.expandOne(ctx, *record)
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, q model.ListQuery) (*model.Page[model.Appointment], error) {
	q.Normalize(s.maxPageSize)

	records, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, errors.Internal(err)
	}

	appointments, err := s.expand(ctx, records)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.Appointment]{Data: appointments, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// TodayAppointments lists every appointment of doctorID on the current
// calendar day, in schedule order.
func (s *Service) TodayAppointments(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	q := model.ListQuery{
		Filters:  model.Filters{Date: model.Today(s.now()).Format(model.DateLayout)},
		DoctorID: doctorID,
		Page:     1,
		Limit:    s.maxPageSize,
	}
	q.Normalize(s.maxPageSize)
	records, _, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return s.expand(ctx, records)
}

func (s *Service) checkRefs(ctx context.Context, record model.AppointmentRecord) error {
	if _, err := s.patients.Get(ctx, record.PatientID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.BadRequest("Patient does not exist", err)
		}
		return errors.Internal(err)
	}
	if _, err := s.doctors.Get(ctx, record.DoctorID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.BadRequest("Doctor does not exist", err)
		}
		return errors.Internal(err)
	}
	return nil
}

func (s *Service) expandOne(ctx context.Context, record model.AppointmentRecord) (*model.Appointment, error) {
	expanded, err := s.expand(ctx, []model.AppointmentRecord{record})
	if err != nil {
		return nil, err
	}
	return &expanded[0], nil
}

// expand embeds patient and doctor refs. Missing references stay as bare
// ids.
func (s *Service) expand(ctx context.Context, records []model.AppointmentRecord) ([]model.Appointment, error) {
	patientIDs := make([]string, 0, len(records))
	doctorIDs := make([]string, 0, len(records))
	for _, r := range records {
		patientIDs = append(patientIDs, r.PatientID)
		doctorIDs = append(doctorIDs, r.DoctorID)
	}

	patients, err := s.patients.GetMany(ctx, unique(patientIDs))
	if err != nil {
		return nil, errors.Internal(err)
	}
	doctors, err := s.doctors.GetMany(ctx, unique(doctorIDs))
	if err != nil {
		return nil, errors.Internal(err)
	}

	out := make([]model.Appointment, len(records))
	for i, r := range records {
		var pref model.PatientRef
		if p, ok := patients[r.PatientID]; ok {
			pref = model.RefFromPatient(p)
		}
		var dref model.DoctorRef
		if d, ok := doctors[r.DoctorID]; ok {
			dref = model.RefFromDoctor(d)
		}
		out[i] = r.Expand(pref, dref)
	}
	return out, nil
}

func validateSchedule(r model.AppointmentRecord) error {
	if _, err := model.ParseDate(r.Date); err != nil {
		return errors.BadRequest("Date must be a date in YYYY-MM-DD format", err)
	}
	start, err := time.Parse(model.ClockLayout, r.StartTime)
	if err != nil {
		return errors.BadRequest("Start time must be HH:MM", err)
	}
	end, err := time.Parse(model.ClockLayout, r.EndTime)
	if err != nil {
		return errors.BadRequest("End time must be HH:MM", err)
	}
	if !end.After(start) {
		return errors.BadRequest("End time must be after start time", nil)
	}
	return nil
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func notFoundOr(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("Appointment", err)
	}
	return errors.Internal(err)
}
