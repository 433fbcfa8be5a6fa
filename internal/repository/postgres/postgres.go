package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/admin-console/internal/repository"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

type doctorRepository struct {
	BaseRepository
}

type patientRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	BaseRepository
}

type resetTokenRepository struct {
	BaseRepository
}

func NewDoctorRepository(db *sqlx.DB, m *metrics.Metrics) repository.DoctorRepository {
	return &doctorRepository{NewBaseRepository(db, m)}
}

func NewPatientRepository(db *sqlx.DB, m *metrics.Metrics) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db, m)}
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db, m)}
}

func NewResetTokenRepository(db *sqlx.DB, m *metrics.Metrics) repository.ResetTokenRepository {
	return &resetTokenRepository{NewBaseRepository(db, m)}
}

// New wires every postgres repository onto db.
func New(db *sqlx.DB, m *metrics.Metrics) repository.Repositories {
	return repository.Repositories{
		Doctors:      NewDoctorRepository(db, m),
		Patients:     NewPatientRepository(db, m),
		Appointments: NewAppointmentRepository(db, m),
		ResetTokens:  NewResetTokenRepository(db, m),
	}
}
