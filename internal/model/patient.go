package model

import (
	"time"
)

type PatientStatus string

const (
	PatientStatusActive     PatientStatus = "active"
	PatientStatusInactive   PatientStatus = "inactive"
	PatientStatusInpatient  PatientStatus = "inpatient"
	PatientStatusDischarged PatientStatus = "discharged"
)

func PatientStatuses() []PatientStatus {
	return []PatientStatus{PatientStatusActive, PatientStatusInactive, PatientStatusInpatient, PatientStatusDischarged}
}

var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

type Patient struct {
	ID                    string        `json:"_id" db:"id"`
	FirstName             string        `json:"firstName" db:"first_name"`
	LastName              string        `json:"lastName" db:"last_name"`
	DateOfBirth           string        `json:"dateOfBirth" db:"date_of_birth"`
	Gender                string        `json:"gender" db:"gender"`
	Email                 string        `json:"email" db:"email"`
	Phone                 string        `json:"phone,omitempty" db:"phone"`
	Address               string        `json:"address,omitempty" db:"address"`
	EmergencyContactName  string        `json:"emergencyContactName,omitempty" db:"emergency_contact_name"`
	EmergencyContactPhone string        `json:"emergencyContactPhone,omitempty" db:"emergency_contact_phone"`
	BloodType             string        `json:"bloodType,omitempty" db:"blood_type"`
	Allergies             []string      `json:"allergies,omitempty" db:"-"`
	ChronicConditions     []string      `json:"chronicConditions,omitempty" db:"-"`
	Notes                 string        `json:"notes,omitempty" db:"notes"`
	Status                PatientStatus `json:"status" db:"status"`
	CreatedAt             time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time     `json:"updatedAt" db:"updated_at"`
}

func (p Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// PatientInput is the create body and the full-form update body.
type PatientInput struct {
	FirstName             string   `json:"firstName" binding:"required"`
	LastName              string   `json:"lastName" binding:"required"`
	DateOfBirth           string   `json:"dateOfBirth" binding:"required"`
	Gender                string   `json:"gender" binding:"required,oneof=male female other"`
	Email                 string   `json:"email" binding:"required,email"`
	Phone                 string   `json:"phone"`
	Address               string   `json:"address"`
	EmergencyContactName  string   `json:"emergencyContactName"`
	EmergencyContactPhone string   `json:"emergencyContactPhone"`
	BloodType             string   `json:"bloodType"`
	Allergies             []string `json:"allergies"`
	ChronicConditions     []string `json:"chronicConditions"`
	Notes                 string   `json:"notes"`
	Status                string   `json:"status" binding:"omitempty,oneof=active inactive inpatient discharged"`
}

// PatientPatch is a partial update; nil fields are left untouched.
type PatientPatch struct {
	FirstName             *string   `json:"firstName,omitempty"`
	LastName              *string   `json:"lastName,omitempty"`
	DateOfBirth           *string   `json:"dateOfBirth,omitempty"`
	Gender                *string   `json:"gender,omitempty" binding:"omitempty,oneof=male female other"`
	Email                 *string   `json:"email,omitempty" binding:"omitempty,email"`
	Phone                 *string   `json:"phone,omitempty"`
	Address               *string   `json:"address,omitempty"`
	EmergencyContactName  *string   `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone *string   `json:"emergencyContactPhone,omitempty"`
	BloodType             *string   `json:"bloodType,omitempty"`
	Allergies             *[]string `json:"allergies,omitempty"`
	ChronicConditions     *[]string `json:"chronicConditions,omitempty"`
	Notes                 *string   `json:"notes,omitempty"`
	Status                *string   `json:"status,omitempty" binding:"omitempty,oneof=active inactive inpatient discharged"`
}

// Apply copies the set fields of the patch onto p.
func (pp PatientPatch) Apply(p *Patient) {
	setString(&p.FirstName, pp.FirstName)
	setString(&p.LastName, pp.LastName)
	setString(&p.DateOfBirth, pp.DateOfBirth)
	setString(&p.Gender, pp.Gender)
	setString(&p.Email, pp.Email)
	setString(&p.Phone, pp.Phone)
	setString(&p.Address, pp.Address)
	setString(&p.EmergencyContactName, pp.EmergencyContactName)
	setString(&p.EmergencyContactPhone, pp.EmergencyContactPhone)
	setString(&p.BloodType, pp.BloodType)
	setString(&p.Notes, pp.Notes)
	if pp.Allergies != nil {
		p.Allergies = *pp.Allergies
	}
	if pp.ChronicConditions != nil {
		p.ChronicConditions = *pp.ChronicConditions
	}
	if pp.Status != nil && *pp.Status != "" {
		p.Status = PatientStatus(*pp.Status)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// PatientForm holds the raw values of the create/edit view. Allergies and
// chronic conditions are comma separated free text.
type PatientForm struct {
	FirstName             string `json:"firstName" validate:"required"`
	LastName              string `json:"lastName" validate:"required"`
	DateOfBirth           string `json:"dateOfBirth" validate:"required,isodate,notfuture"`
	Gender                string `json:"gender" validate:"required,oneof=male female other"`
	Email                 string `json:"email" validate:"required,email"`
	Phone                 string `json:"phone"`
	Address               string `json:"address"`
	EmergencyContactName  string `json:"emergencyContactName"`
	EmergencyContactPhone string `json:"emergencyContactPhone"`
	BloodType             string `json:"bloodType" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies             string `json:"allergies"`
	ChronicConditions     string `json:"chronicConditions"`
	Notes                 string `json:"notes"`
	Status                string `json:"status" validate:"required,oneof=active inactive inpatient discharged"`
}

func EmptyPatientForm() PatientForm {
	return PatientForm{Status: string(PatientStatusActive)}
}

// PatientFormFrom seeds an edit form from a loaded patient.
func PatientFormFrom(p Patient) PatientForm {
	return PatientForm{
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		DateOfBirth:           DateOnly(p.DateOfBirth),
		Gender:                p.Gender,
		Email:                 p.Email,
		Phone:                 p.Phone,
		Address:               p.Address,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		BloodType:             p.BloodType,
		Allergies:             JoinList(p.Allergies),
		ChronicConditions:     JoinList(p.ChronicConditions),
		Notes:                 p.Notes,
		Status:                string(p.Status),
	}
}

// Input normalizes the form into a request body.
func (f PatientForm) Input() PatientInput {
	return PatientInput{
		FirstName:             f.FirstName,
		LastName:              f.LastName,
		DateOfBirth:           f.DateOfBirth,
		Gender:                f.Gender,
		Email:                 f.Email,
		Phone:                 f.Phone,
		Address:               f.Address,
		EmergencyContactName:  f.EmergencyContactName,
		EmergencyContactPhone: f.EmergencyContactPhone,
		BloodType:             f.BloodType,
		Allergies:             SplitList(f.Allergies),
		ChronicConditions:     SplitList(f.ChronicConditions),
		Notes:                 f.Notes,
		Status:                f.Status,
	}
}

// Patient builds a new record from a create body. Status defaults to active.
func (in PatientInput) Patient() Patient {
	status := PatientStatus(in.Status)
	if status == "" {
		status = PatientStatusActive
	}
	return Patient{
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		DateOfBirth:           DateOnly(in.DateOfBirth),
		Gender:                in.Gender,
		Email:                 in.Email,
		Phone:                 in.Phone,
		Address:               in.Address,
		EmergencyContactName:  in.EmergencyContactName,
		EmergencyContactPhone: in.EmergencyContactPhone,
		BloodType:             in.BloodType,
		Allergies:             nonNil(in.Allergies),
		ChronicConditions:     nonNil(in.ChronicConditions),
		Notes:                 in.Notes,
		Status:                status,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
