package controller

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

var errNotFound = errors.RequestFailed(http.StatusNotFound, "Not found", nil)

func fixedNow() time.Time {
	return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
}

// fakePatients is an in-process PatientAPI that records every call.
type fakePatients struct {
	mu sync.Mutex

	patients map[string]model.Patient
	lists    []model.ListQuery
	creates  []model.PatientInput
	updates  map[string]model.PatientInput
	deletes  []string

	// listHook, when set, runs before a list call returns.
	listHook func(q model.ListQuery)
	// deleteHook, when set, runs before a delete is applied.
	deleteHook func(id string)
	listErr    error
	getErr   error
	saveErr  error
}

func newFakePatients(patients ...model.Patient) *fakePatients {
	f := &fakePatients{patients: map[string]model.Patient{}, updates: map[string]model.PatientInput{}}
	for _, p := range patients {
		f.patients[p.ID] = p
	}
	return f
}

func (f *fakePatients) ListPatients(_ context.Context, q model.ListQuery) (*model.Page[model.Patient], error) {
	f.mu.Lock()
	f.lists = append(f.lists, q)
	hook, err := f.listHook, f.listErr
	f.mu.Unlock()

	if hook != nil {
		hook(q)
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	page := &model.Page[model.Patient]{Page: q.Page, Limit: q.Limit}
	for _, p := range f.patients {
		if q.Status != "" && string(p.Status) != q.Status {
			continue
		}
		page.Data = append(page.Data, p)
	}
	page.Total = len(page.Data)
	return page, nil
}

func (f *fakePatients) GetPatient(_ context.Context, id string) (*model.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.patients[id]
	if !ok {
		return nil, errNotFound
	}
	return &p, nil
}

func (f *fakePatients) CreatePatient(_ context.Context, in model.PatientInput) (*model.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, in)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	p := in.Patient()
	p.ID = "new"
	f.patients[p.ID] = p
	return &p, nil
}

func (f *fakePatients) UpdatePatient(_ context.Context, id string, in model.PatientInput) (*model.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[id] = in
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	p := in.Patient()
	p.ID = id
	f.patients[id] = p
	return &p, nil
}

func (f *fakePatients) DeletePatient(_ context.Context, id string) error {
	f.mu.Lock()
	hook := f.deleteHook
	f.mu.Unlock()
	if hook != nil {
		hook(id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	delete(f.patients, id)
	return nil
}

func (f *fakePatients) listCalls() []model.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ListQuery(nil), f.lists...)
}

func (f *fakePatients) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = nil
}

// fakeAppointments extends fakePatients with the appointment endpoints.
type fakeAppointments struct {
	*fakePatients

	appointments map[string]model.Appointment
	created      []model.AppointmentInput
	patches      map[string][]model.AppointmentPatch
	apptLists    int
	// patchHook, when set, runs before an update is applied.
	patchHook func(id string)
}

func newFakeAppointments(appointments ...model.Appointment) *fakeAppointments {
	f := &fakeAppointments{
		fakePatients: newFakePatients(
			model.Patient{ID: "p1", FirstName: "Ann", LastName: "Lee", Status: model.PatientStatusActive},
			model.Patient{ID: "p2", FirstName: "Bo", LastName: "Kim", Status: model.PatientStatusActive},
		),
		appointments: map[string]model.Appointment{},
		patches:      map[string][]model.AppointmentPatch{},
	}
	for _, a := range appointments {
		f.appointments[a.ID] = a
	}
	return f
}

func (f *fakeAppointments) ListAppointments(_ context.Context, q model.ListQuery) (*model.Page[model.Appointment], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apptLists++
	page := &model.Page[model.Appointment]{Page: q.Page, Limit: q.Limit}
	for _, a := range f.appointments {
		page.Data = append(page.Data, a)
	}
	page.Total = len(page.Data)
	return page, nil
}

func (f *fakeAppointments) GetAppointment(_ context.Context, id string) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, errNotFound
	}
	return &a, nil
}

func (f *fakeAppointments) CreateAppointment(_ context.Context, in model.AppointmentInput) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	record := in.Record()
	record.ID = "a-new"
	a := record.Expand(model.PatientRef{}, model.DoctorRef{})
	f.appointments[a.ID] = a
	return &a, nil
}

func (f *fakeAppointments) UpdateAppointment(_ context.Context, id string, patch model.AppointmentPatch) (*model.Appointment, error) {
	f.mu.Lock()
	hook := f.patchHook
	f.mu.Unlock()
	if hook != nil {
		hook(id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, errNotFound
	}
	f.patches[id] = append(f.patches[id], patch)
	if patch.Status != nil {
		a.Status = model.AppointmentStatus(*patch.Status)
	}
	f.appointments[id] = a
	return &a, nil
}

func (f *fakeAppointments) DeleteAppointment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.appointments, id)
	return nil
}

func (f *fakeAppointments) TodayAppointments(_ context.Context) ([]model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var today []model.Appointment
	for _, a := range f.appointments {
		today = append(today, a)
	}
	return today, nil
}

type staticDoctor string

func (d staticDoctor) DoctorID(context.Context) (string, error) {
	return string(d), nil
}
