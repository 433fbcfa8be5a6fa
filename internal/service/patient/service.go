package patient

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
	repo        repository.PatientRepository
	maxPageSize int
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewService(repo repository.PatientRepository, maxPageSize int, logger *zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		maxPageSize: maxPageSize,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) CreatePatient(ctx context.Context, in model.PatientInput) (*model.Patient, error) {
	if err := s.validateBirthDate(in.DateOfBirth); err != nil {
		return nil, err
	}

	patient := in.Patient()
	patient.ID = uuid.New().String()
	patient.CreatedAt = s.now()
	patient.UpdatedAt = patient.CreatedAt

	if err := s.repo.Create(ctx, &patient); err != nil {
		return nil, errors.Internal(err)
	}

	s.logger.Info().Str("patient_id", patient.ID).Msg("patient created")
	return &patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id string, patch model.PatientPatch) (*model.Patient, error) {
	if patch.DateOfBirth != nil {
		if err := s.validateBirthDate(*patch.DateOfBirth); err != nil {
			return nil, err
		}
		dob := model.DateOnly(*patch.DateOfBirth)
		patch.DateOfBirth = &dob
	}

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	patch.Apply(patient)
	patient.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, notFoundOr(err)
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err)
	}
	s.logger.Info().Str("patient_id", id).Msg("patient deleted")
	return nil
}

func (s *Service) ListPatients(ctx context.Context, q model.ListQuery) (*model.Page[model.Patient], error) {
	q.Normalize(s.maxPageSize)

	patients, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if patients == nil {
		patients = []model.Patient{}
	}
	return &model.Page[model.Patient]{Data: patients, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *Service) validateBirthDate(value string) error {
	dob, err := model.ParseDate(value)
	if err != nil {
		return errors.BadRequest("Date of birth must be a date in YYYY-MM-DD format", err)
	}
	if dob.After(model.Today(s.now())) {
		return errors.BadRequest("Date of birth cannot be a future date", nil)
	}
	return nil
}

func notFoundOr(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("Patient", err)
	}
	return errors.Internal(err)
}
