package postgres

import (
	"context"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
)

const appointmentColumns = `
	id, patient_id, doctor_id, date, start_time, end_time, type, status,
	reason, notes, room, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, a *model.AppointmentRecord) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.PatientID,
		a.DoctorID,
		a.Date,
		a.StartTime,
		a.EndTime,
		a.Type,
		a.Status,
		a.Reason,
		a.Notes,
		a.Room,
		a.CreatedAt,
		a.UpdatedAt,
	)
	r.observe("appointment_create", start, err)
	return translate(err, "create appointment")
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.AppointmentRecord, error) {
	start := time.Now()
	var a model.AppointmentRecord
	err := r.db.GetContext(ctx, &a, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	r.observe("appointment_get", start, err)
	if err != nil {
		return nil, translate(err, "get appointment")
	}
	return &a, nil
}

func (r *appointmentRepository) Update(ctx context.Context, a *model.AppointmentRecord) error {
	query := `
		UPDATE appointments SET
			patient_id = $1, date = $2, start_time = $3, end_time = $4, type = $5,
			status = $6, reason = $7, notes = $8, room = $9, updated_at = $10
		WHERE id = $11
	`
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		a.PatientID,
		a.Date,
		a.StartTime,
		a.EndTime,
		a.Type,
		a.Status,
		a.Reason,
		a.Notes,
		a.Room,
		a.UpdatedAt,
		a.ID,
	)
	r.observe("appointment_update", start, err)
	if err != nil {
		return translate(err, "update appointment")
	}
	return translate(requireRow(result), "update appointment")
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	r.observe("appointment_delete", start, err)
	if err != nil {
		return translate(err, "delete appointment")
	}
	return translate(requireRow(result), "delete appointment")
}

func (r *appointmentRepository) List(ctx context.Context, q model.ListQuery) ([]model.AppointmentRecord, int, error) {
	var w where
	if q.DoctorID != "" {
		w.add("doctor_id = ?", q.DoctorID)
	}
	if q.PatientID != "" {
		w.add("patient_id = ?", q.PatientID)
	}
	if q.Status != "" {
		w.add("status = ?", q.Status)
	}
	if q.Date != "" {
		w.add("date = ?", model.DateOnly(q.Date))
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		w.add("(reason ILIKE ? OR room ILIKE ?)", pattern, pattern)
	}

	start := time.Now()
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM appointments`+w.String(), w.args...); err != nil {
		r.observe("appointment_list", start, err)
		return nil, 0, translate(err, "count appointments")
	}

	limit, args := w.limit(q.Limit, q.Offset())
	appointments := []model.AppointmentRecord{}
	err := r.db.SelectContext(ctx, &appointments,
		`SELECT `+appointmentColumns+` FROM appointments`+w.String()+` ORDER BY date, start_time, id`+limit, args...)
	r.observe("appointment_list", start, err)
	if err != nil {
		return nil, 0, translate(err, "list appointments")
	}
	return appointments, total, nil
}
