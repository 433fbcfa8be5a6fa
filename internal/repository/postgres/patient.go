package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/repository"
)

// patientRow adds the array columns the model leaves out of its db mapping.
type patientRow struct {
	model.Patient
	AllergyList   pq.StringArray `db:"allergies"`
	ConditionList pq.StringArray `db:"chronic_conditions"`
}

func (row patientRow) patient() model.Patient {
	p := row.Patient
	p.Allergies = []string(row.AllergyList)
	p.ChronicConditions = []string(row.ConditionList)
	return p
}

const patientColumns = `
	id, first_name, last_name, date_of_birth, gender, email, phone, address,
	emergency_contact_name, emergency_contact_phone, blood_type, allergies,
	chronic_conditions, notes, status, created_at, updated_at`

func (r *patientRepository) Create(ctx context.Context, p *model.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.FirstName,
		p.LastName,
		p.DateOfBirth,
		p.Gender,
		p.Email,
		p.Phone,
		p.Address,
		p.EmergencyContactName,
		p.EmergencyContactPhone,
		p.BloodType,
		pq.StringArray(p.Allergies),
		pq.StringArray(p.ChronicConditions),
		p.Notes,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	r.observe("patient_create", start, err)
	return translate(err, "create patient")
}

func (r *patientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	start := time.Now()
	var row patientRow
	err := r.db.GetContext(ctx, &row, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	r.observe("patient_get", start, err)
	if err != nil {
		return nil, translate(err, "get patient")
	}
	p := row.patient()
	return &p, nil
}

func (r *patientRepository) GetMany(ctx context.Context, ids []string) (map[string]model.Patient, error) {
	found := make(map[string]model.Patient, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In(`SELECT `+patientColumns+` FROM patients WHERE id IN (?)`, ids)
	if err != nil {
		return nil, translate(err, "build patient query")
	}

	start := time.Now()
	var rows []patientRow
	err = r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...)
	r.observe("patient_get_many", start, err)
	if err != nil {
		return nil, translate(err, "list patients")
	}
	for _, row := range rows {
		found[row.ID] = row.patient()
	}
	return found, nil
}

func (r *patientRepository) Update(ctx context.Context, p *model.Patient) error {
	query := `
		UPDATE patients SET
			first_name = $1, last_name = $2, date_of_birth = $3, gender = $4,
			email = $5, phone = $6, address = $7, emergency_contact_name = $8,
			emergency_contact_phone = $9, blood_type = $10, allergies = $11,
			chronic_conditions = $12, notes = $13, status = $14, updated_at = $15
		WHERE id = $16
	`
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		p.FirstName,
		p.LastName,
		p.DateOfBirth,
		p.Gender,
		p.Email,
		p.Phone,
		p.Address,
		p.EmergencyContactName,
		p.EmergencyContactPhone,
		p.BloodType,
		pq.StringArray(p.Allergies),
		pq.StringArray(p.ChronicConditions),
		p.Notes,
		p.Status,
		p.UpdatedAt,
		p.ID,
	)
	r.observe("patient_update", start, err)
	if err != nil {
		return translate(err, "update patient")
	}
	return requireRow(result)
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE patient_id = $1`, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return requireRow(result)
	})
	r.observe("patient_delete", start, err)
	return translate(err, "delete patient")
}

func (r *patientRepository) List(ctx context.Context, q model.ListQuery) ([]model.Patient, int, error) {
	var w where
	if q.Status != "" {
		w.add("status = ?", q.Status)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		w.add("(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?)", pattern, pattern, pattern)
	}

	start := time.Now()
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM patients`+w.String(), w.args...); err != nil {
		r.observe("patient_list", start, err)
		return nil, 0, translate(err, "count patients")
	}

	limit, args := w.limit(q.Limit, q.Offset())
	var rows []patientRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+patientColumns+` FROM patients`+w.String()+` ORDER BY created_at DESC, id`+limit, args...)
	r.observe("patient_list", start, err)
	if err != nil {
		return nil, 0, translate(err, "list patients")
	}

	patients := make([]model.Patient, len(rows))
	for i, row := range rows {
		patients[i] = row.patient()
	}
	return patients, total, nil
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func requireRow(result rowsAffected) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
