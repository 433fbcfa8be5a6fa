package model

import (
	"bytes"
	"encoding/json"
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

func AppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusInProgress,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	}
}

type AppointmentType string

const (
	AppointmentTypeCheckup      AppointmentType = "checkup"
	AppointmentTypeFollowUp     AppointmentType = "follow_up"
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeEmergency    AppointmentType = "emergency"
	AppointmentTypeProcedure    AppointmentType = "procedure"
	AppointmentTypeLab          AppointmentType = "lab"
)

// PatientRef is the patient side of an appointment. The backend either
// embeds the patient or sends its bare id.
type PatientRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (r *PatientRef) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		*r = PatientRef{ID: id}
		return nil
	}
	type plain PatientRef
	return json.Unmarshal(data, (*plain)(r))
}

func (r PatientRef) DisplayName() string {
	if r.FirstName == "" && r.LastName == "" {
		return r.ID
	}
	return r.FirstName + " " + r.LastName
}

// DoctorRef is the doctor side of an appointment, embedded or bare.
type DoctorRef struct {
	ID        string `json:"_id"`
	FullName  string `json:"fullname,omitempty"`
	Specialty string `json:"specialty,omitempty"`
}

func (r *DoctorRef) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		*r = DoctorRef{ID: id}
		return nil
	}
	type plain DoctorRef
	return json.Unmarshal(data, (*plain)(r))
}

func bareID(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return "", false
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return "", false
	}
	return id, true
}

type Appointment struct {
	ID        string            `json:"_id"`
	Patient   PatientRef        `json:"patientId"`
	Doctor    DoctorRef         `json:"doctorId"`
	Date      string            `json:"date"`
	StartTime string            `json:"startTime"`
	EndTime   string            `json:"endTime"`
	Type      AppointmentType   `json:"type"`
	Status    AppointmentStatus `json:"status"`
	Reason    string            `json:"reason"`
	Notes     string            `json:"notes,omitempty"`
	Room      string            `json:"room,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// AppointmentInput is the create body.
type AppointmentInput struct {
	PatientID string `json:"patientId" binding:"required"`
	DoctorID  string `json:"doctorId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Type      string `json:"type,omitempty" binding:"omitempty,oneof=checkup follow_up consultation emergency procedure lab"`
	Status    string `json:"status,omitempty" binding:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	Reason    string `json:"reason" binding:"required"`
	Notes     string `json:"notes,omitempty"`
	Room      string `json:"room,omitempty"`
}

// AppointmentPatch is a partial update. A status change sends only Status.
type AppointmentPatch struct {
	PatientID *string `json:"patientId,omitempty"`
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Type      *string `json:"type,omitempty" binding:"omitempty,oneof=checkup follow_up consultation emergency procedure lab"`
	Status    *string `json:"status,omitempty" binding:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	Reason    *string `json:"reason,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Room      *string `json:"room,omitempty"`
}

// StatusPatch builds the patch sent by a status change.
func StatusPatch(status AppointmentStatus) AppointmentPatch {
	s := string(status)
	return AppointmentPatch{Status: &s}
}

// AppointmentForm holds the raw values of the create/edit view. The doctor
// is not part of the form; it comes from the session.
type AppointmentForm struct {
	PatientID string `json:"patientId" validate:"required"`
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
	Type      string `json:"type" validate:"required,oneof=checkup follow_up consultation emergency procedure lab"`
	Reason    string `json:"reason" validate:"required"`
	Notes     string `json:"notes"`
	Room      string `json:"room"`
	Status    string `json:"status" validate:"required,oneof=scheduled confirmed in_progress completed cancelled no_show"`
}

func EmptyAppointmentForm() AppointmentForm {
	return AppointmentForm{
		Type:   string(AppointmentTypeCheckup),
		Status: string(AppointmentStatusScheduled),
	}
}

func AppointmentFormFrom(a Appointment) AppointmentForm {
	return AppointmentForm{
		PatientID: a.Patient.ID,
		Date:      DateOnly(a.Date),
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Type:      string(a.Type),
		Reason:    a.Reason,
		Notes:     a.Notes,
		Room:      a.Room,
		Status:    string(a.Status),
	}
}

func (f AppointmentForm) Input(doctorID string) AppointmentInput {
	return AppointmentInput{
		PatientID: f.PatientID,
		DoctorID:  doctorID,
		Date:      f.Date,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Type:      f.Type,
		Status:    f.Status,
		Reason:    f.Reason,
		Notes:     f.Notes,
		Room:      f.Room,
	}
}

// Patch sets every editable field of the form.
func (f AppointmentForm) Patch() AppointmentPatch {
	return AppointmentPatch{
		PatientID: &f.PatientID,
		Date:      &f.Date,
		StartTime: &f.StartTime,
		EndTime:   &f.EndTime,
		Type:      &f.Type,
		Status:    &f.Status,
		Reason:    &f.Reason,
		Notes:     &f.Notes,
		Room:      &f.Room,
	}
}

// AppointmentRecord is the stored form of an appointment; references are
// plain ids and get expanded into refs on the way out.
type AppointmentRecord struct {
	ID        string            `db:"id"`
	PatientID string            `db:"patient_id"`
	DoctorID  string            `db:"doctor_id"`
	Date      string            `db:"date"`
	StartTime string            `db:"start_time"`
	EndTime   string            `db:"end_time"`
	Type      AppointmentType   `db:"type"`
	Status    AppointmentStatus `db:"status"`
	Reason    string            `db:"reason"`
	Notes     string            `db:"notes"`
	Room      string            `db:"room"`
	CreatedAt time.Time         `db:"created_at"`
	UpdatedAt time.Time         `db:"updated_at"`
}

// Apply copies the set fields of the patch onto r.
func (p AppointmentPatch) Apply(r *AppointmentRecord) {
	setString(&r.PatientID, p.PatientID)
	setString(&r.Date, p.Date)
	setString(&r.StartTime, p.StartTime)
	setString(&r.EndTime, p.EndTime)
	setString(&r.Reason, p.Reason)
	setString(&r.Notes, p.Notes)
	setString(&r.Room, p.Room)
	if p.Type != nil && *p.Type != "" {
		r.Type = AppointmentType(*p.Type)
	}
	if p.Status != nil && *p.Status != "" {
		r.Status = AppointmentStatus(*p.Status)
	}
}

// Expand builds the wire shape with the given refs.
func (r AppointmentRecord) Expand(patient PatientRef, doctor DoctorRef) Appointment {
	if patient.ID == "" {
		patient.ID = r.PatientID
	}
	if doctor.ID == "" {
		doctor.ID = r.DoctorID
	}
	return Appointment{
		ID:        r.ID,
		Patient:   patient,
		Doctor:    doctor,
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Type:      r.Type,
		Status:    r.Status,
		Reason:    r.Reason,
		Notes:     r.Notes,
		Room:      r.Room,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func RefFromPatient(p Patient) PatientRef {
	return PatientRef{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, Phone: p.Phone}
}

func RefFromDoctor(d Doctor) DoctorRef {
	return DoctorRef{ID: d.ID, FullName: d.FullName, Specialty: d.Specialty}
}

// Record builds a new stored appointment from a create body.
func (in AppointmentInput) Record() AppointmentRecord {
	typ := AppointmentType(in.Type)
	if typ == "" {
		typ = AppointmentTypeCheckup
	}
	status := AppointmentStatus(in.Status)
	if status == "" {
		status = AppointmentStatusScheduled
	}
	return AppointmentRecord{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		Date:      DateOnly(in.Date),
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Type:      typ,
		Status:    status,
		Reason:    in.Reason,
		Notes:     in.Notes,
		Room:      in.Room,
	}
}
