package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/repository"
)

// New returns repositories sharing one in-process store.
func New() repository.Repositories {
	s := &store{
		doctors:      map[string]model.Doctor{},
		patients:     map[string]model.Patient{},
		appointments: map[string]model.AppointmentRecord{},
		resetTokens:  map[string]model.ResetToken{},
	}
	return repository.Repositories{
		Doctors:      &doctorRepository{s},
		Patients:     &patientRepository{s},
		Appointments: &appointmentRepository{s},
		ResetTokens:  &resetTokenRepository{s},
	}
}

type store struct {
	mu           sync.RWMutex
	doctors      map[string]model.Doctor
	patients     map[string]model.Patient
	appointments map[string]model.AppointmentRecord
	resetTokens  map[string]model.ResetToken
}

type doctorRepository struct{ s *store }

func (r *doctorRepository) Create(_ context.Context, doctor *model.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.doctors {
		if strings.EqualFold(d.Email, doctor.Email) {
			return repository.ErrDuplicate
		}
	}
	r.s.doctors[doctor.ID] = *doctor
	return nil
}

func (r *doctorRepository) Get(_ context.Context, id string) (*model.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *doctorRepository) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.doctors {
		if strings.EqualFold(d.Email, email) {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *doctorRepository) GetMany(_ context.Context, ids []string) (map[string]model.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := make(map[string]model.Doctor, len(ids))
	for _, id := range ids {
		if d, ok := r.s.doctors[id]; ok {
			found[id] = d
		}
	}
	return found, nil
}

type patientRepository struct{ s *store }

func (r *patientRepository) Create(_ context.Context, patient *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[patient.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.patients[patient.ID] = clonePatient(*patient)
	return nil
}

func (r *patientRepository) Get(_ context.Context, id string) (*model.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clonePatient(p)
	return &p, nil
}

func (r *patientRepository) GetMany(_ context.Context, ids []string) (map[string]model.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := make(map[string]model.Patient, len(ids))
	for _, id := range ids {
		if p, ok := r.s.patients[id]; ok {
			found[id] = clonePatient(p)
		}
	}
	return found, nil
}

func (r *patientRepository) Update(_ context.Context, patient *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[patient.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.patients[patient.ID] = clonePatient(*patient)
	return nil
}

func (r *patientRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.patients, id)
	for aid, a := range r.s.appointments {
		if a.PatientID == id {
			delete(r.s.appointments, aid)
		}
	}
	return nil
}

func (r *patientRepository) List(_ context.Context, q model.ListQuery) ([]model.Patient, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]model.Patient, 0, len(r.s.patients))
	for _, p := range r.s.patients {
		if q.Status != "" && string(p.Status) != q.Status {
			continue
		}
		if search != "" && !containsAny(search, p.FirstName, p.LastName, p.Email) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	page := paginate(matched, q)
	for i := range page {
		page[i] = clonePatient(page[i])
	}
	return page, len(matched), nil
}

type appointmentRepository struct{ s *store }

func (r *appointmentRepository) Create(_ context.Context, a *model.AppointmentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[a.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.appointments[a.ID] = *a
	return nil
}

func (r *appointmentRepository) Get(_ context.Context, id string) (*model.AppointmentRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *appointmentRepository) Update(_ context.Context, a *model.AppointmentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[a.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.appointments[a.ID] = *a
	return nil
}

func (r *appointmentRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.appointments, id)
	return nil
}

func (r *appointmentRepository) List(_ context.Context, q model.ListQuery) ([]model.AppointmentRecord, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	date := model.DateOnly(q.Date)
	matched := make([]model.AppointmentRecord, 0, len(r.s.appointments))
	for _, a := range r.s.appointments {
		switch {
		case q.DoctorID != "" && a.DoctorID != q.DoctorID,
			q.PatientID != "" && a.PatientID != q.PatientID,
			q.Status != "" && string(a.Status) != q.Status,
			date != "" && a.Date != date,
			search != "" && !containsAny(search, a.Reason, a.Room):
			continue
		}
		matched = append(matched, a)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		if matched[i].StartTime != matched[j].StartTime {
			return matched[i].StartTime < matched[j].StartTime
		}
		return matched[i].ID < matched[j].ID
	})

	return paginate(matched, q), len(matched), nil
}

type resetTokenRepository struct{ s *store }

func (r *resetTokenRepository) Create(_ context.Context, token *model.ResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.resetTokens[token.Token] = *token
	return nil
}

func (r *resetTokenRepository) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for key, token := range r.s.resetTokens {
		if token.ExpiresAt.Before(cutoff) {
			delete(r.s.resetTokens, key)
			n++
		}
	}
	return n, nil
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// paginate returns a copy of the page of items selected by q.
func paginate[T any](items []T, q model.ListQuery) []T {
	start := q.Offset()
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := start + q.Limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T{}, items[start:end]...)
}

func clonePatient(p model.Patient) model.Patient {
	p.Allergies = append([]string(nil), p.Allergies...)
	p.ChronicConditions = append([]string(nil), p.ChronicConditions...)
	return p
}
