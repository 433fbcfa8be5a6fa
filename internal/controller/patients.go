package controller

import (
	"context"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/validator"
)

// PatientAPI is the patient half of the remote API.
type PatientAPI interface {
	ListPatients(ctx context.Context, q model.ListQuery) (*model.Page[model.Patient], error)
	GetPatient(ctx context.Context, id string) (*model.Patient, error)
	CreatePatient(ctx context.Context, in model.PatientInput) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id string, in model.PatientInput) (*model.Patient, error)
	DeletePatient(ctx context.Context, id string) error
}

type patientResource struct {
	api PatientAPI
}

func (r patientResource) List(ctx context.Context, q model.ListQuery) (*model.Page[model.Patient], error) {
	return r.api.ListPatients(ctx, q)
}

func (r patientResource) Get(ctx context.Context, id string) (*model.Patient, error) {
	return r.api.GetPatient(ctx, id)
}

func (r patientResource) Create(ctx context.Context, form model.PatientForm) (*model.Patient, error) {
	return r.api.CreatePatient(ctx, form.Input())
}

func (r patientResource) Update(ctx context.Context, id string, form model.PatientForm) (*model.Patient, error) {
	return r.api.UpdatePatient(ctx, id, form.Input())
}

func (r patientResource) Delete(ctx context.Context, id string) error {
	return r.api.DeletePatient(ctx, id)
}

type Patients = Controller[model.Patient, model.PatientForm]

func NewPatients(api PatientAPI, opts Options) (*Patients, error) {
	opts.defaults()
	v, err := formValidator(opts.Now)
	if err != nil {
		return nil, err
	}

	schema := Schema[model.Patient, model.PatientForm]{
		Name:      "patients",
		EmptyForm: model.EmptyPatientForm,
		FormFrom:  model.PatientFormFrom,
		ID:        func(p model.Patient) string { return p.ID },
		Validate:  func(form model.PatientForm) error { return v.Validate(form) },
		Messages: Messages{
			Load:   "Error loading patients",
			Open:   "Error loading patient",
			Save:   "Error saving patient",
			Delete: "Error deleting patient",
		},
		DeletePrompt: "Delete this patient?",
	}
	return New[model.Patient, model.PatientForm](patientResource{api: api}, schema, opts), nil
}

func formValidator(now func() time.Time) (validator.Validator, error) {
	return validator.New(validator.Config{CustomValidators: validator.DateRules(now)})
}
