package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// All repository interfaces in one file
type (
	DoctorRepository interface {
		// Create fails with ErrDuplicate when the email is taken.
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id string) (*model.Doctor, error)
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
		GetMany(ctx context.Context, ids []string) (map[string]model.Doctor, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id string) (*model.Patient, error)
		GetMany(ctx context.Context, ids []string) (map[string]model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		// Delete also removes the patient's appointments.
		Delete(ctx context.Context, id string) error
		// List matches Search against names and email, newest first.
		List(ctx context.Context, q model.ListQuery) ([]model.Patient, int, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.AppointmentRecord) error
		Get(ctx context.Context, id string) (*model.AppointmentRecord, error)
		Update(ctx context.Context, appointment *model.AppointmentRecord) error
		Delete(ctx context.Context, id string) error
		// List orders by date then start time.
		List(ctx context.Context, q model.ListQuery) ([]model.AppointmentRecord, int, error)
	}

	ResetTokenRepository interface {
		Create(ctx context.Context, token *model.ResetToken) error
		// DeleteExpired removes tokens that expired before cutoff and
		// reports how many went.
		DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
	}
)

// Repositories bundles one backend's implementations.
type Repositories struct {
	Doctors      DoctorRepository
	Patients     PatientRepository
	Appointments AppointmentRepository
	ResetTokens  ResetTokenRepository
}
