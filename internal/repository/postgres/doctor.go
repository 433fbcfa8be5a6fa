package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/admin-console/internal/model"
)

const doctorColumns = `id, full_name, email, specialty, password_hash, created_at`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (id, full_name, email, specialty, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.FullName,
		doctor.Email,
		doctor.Specialty,
		doctor.PasswordHash,
		doctor.CreatedAt,
	)
	r.observe("doctor_create", start, err)
	return translate(err, "create doctor")
}

func (r *doctorRepository) Get(ctx context.Context, id string) (*model.Doctor, error) {
	start := time.Now()
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id)
	r.observe("doctor_get", start, err)
	if err != nil {
		return nil, translate(err, "get doctor")
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	start := time.Now()
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, `SELECT `+doctorColumns+` FROM doctors WHERE lower(email) = lower($1)`, email)
	r.observe("doctor_get_by_email", start, err)
	if err != nil {
		return nil, translate(err, "get doctor by email")
	}
	return &doctor, nil
}

func (r *doctorRepository) GetMany(ctx context.Context, ids []string) (map[string]model.Doctor, error) {
	found := make(map[string]model.Doctor, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In(`SELECT `+doctorColumns+` FROM doctors WHERE id IN (?)`, ids)
	if err != nil {
		return nil, translate(err, "build doctor query")
	}

	start := time.Now()
	var doctors []model.Doctor
	err = r.db.SelectContext(ctx, &doctors, r.db.Rebind(query), args...)
	r.observe("doctor_get_many", start, err)
	if err != nil {
		return nil, translate(err, "list doctors")
	}
	for _, d := range doctors {
		found[d.ID] = d
	}
	return found, nil
}
