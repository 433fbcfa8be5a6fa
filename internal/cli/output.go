package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jwalitptl/admin-console/internal/controller"
	"github.com/jwalitptl/admin-console/internal/model"
)

type table struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer) *table {
	return &table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.w.Flush()
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func pager(out io.Writer, page, pageCount, total int) {
	if pageCount == 0 {
		pageCount = 1
	}
	fmt.Fprintf(out, "\nPage %d of %d (%d total)\n", page, pageCount, total)
}

func age(birth string) string {
	if years, ok := controller.Age(birth, time.Now()); ok {
		return fmt.Sprintf("%d", years)
	}
	return "-"
}

func printPatients(out io.Writer, view controller.View[model.Patient, model.PatientForm]) error {
	if len(view.Items) == 0 {
		fmt.Fprintln(out, "No patients found.")
		return nil
	}
	t := newTable(out)
	t.row("ID", "NAME", "AGE", "GENDER", "EMAIL", "PHONE", "STATUS")
	for _, p := range view.Items {
		t.row(p.ID, p.FullName(), age(p.DateOfBirth), dash(p.Gender), dash(p.Email), dash(p.Phone), string(p.Status))
	}
	if err := t.flush(); err != nil {
		return err
	}
	pager(out, view.Page, view.PageCount, view.Total)
	return nil
}

func printPatient(out io.Writer, p model.Patient) error {
	t := newTable(out)
	t.row("ID", p.ID)
	t.row("Name", p.FullName())
	t.row("Initials", controller.Initials(p.FullName()))
	t.row("Date of birth", model.DateOnly(p.DateOfBirth))
	t.row("Age", age(p.DateOfBirth))
	t.row("Gender", dash(p.Gender))
	t.row("Email", dash(p.Email))
	t.row("Phone", dash(p.Phone))
	t.row("Address", dash(p.Address))
	t.row("Emergency contact", dash(strings.TrimSpace(p.EmergencyContactName+" "+p.EmergencyContactPhone)))
	t.row("Blood type", dash(p.BloodType))
	t.row("Allergies", dash(model.JoinList(p.Allergies)))
	t.row("Chronic conditions", dash(model.JoinList(p.ChronicConditions)))
	t.row("Status", string(p.Status))
	t.row("Notes", dash(p.Notes))
	return t.flush()
}

func printAppointments(out io.Writer, view controller.View[model.Appointment, model.AppointmentForm]) error {
	if len(view.Items) == 0 {
		fmt.Fprintln(out, "No appointments found.")
		return nil
	}
	t := newTable(out)
	t.row("ID", "DATE", "TIME", "PATIENT", "TYPE", "STATUS", "REASON")
	for _, a := range view.Items {
		t.row(a.ID, model.DateOnly(a.Date), a.StartTime+"-"+a.EndTime, a.Patient.DisplayName(),
			string(a.Type), string(a.Status), dash(a.Reason))
	}
	if err := t.flush(); err != nil {
		return err
	}
	pager(out, view.Page, view.PageCount, view.Total)
	return nil
}

func printAppointment(out io.Writer, a model.Appointment) error {
	t := newTable(out)
	t.row("ID", a.ID)
	t.row("Patient", a.Patient.DisplayName())
	t.row("Doctor", dash(a.Doctor.FullName))
	t.row("Date", model.DateOnly(a.Date))
	t.row("Time", a.StartTime+"-"+a.EndTime)
	t.row("Type", string(a.Type))
	t.row("Status", string(a.Status))
	t.row("Reason", dash(a.Reason))
	t.row("Room", dash(a.Room))
	t.row("Notes", dash(a.Notes))
	return t.flush()
}

func printDashboard(out io.Writer, view controller.DashboardView) error {
	fmt.Fprintf(out, "[%s] %s", view.Initials, view.DoctorName)
	if view.Specialty != "" {
		fmt.Fprintf(out, ", %s", view.Specialty)
	}
	fmt.Fprintf(out, "\nPatients: %d\n\nToday's appointments:\n", view.PatientsTotal)

	if len(view.Today) == 0 {
		fmt.Fprintln(out, "None scheduled.")
	} else {
		t := newTable(out)
		for _, a := range view.Today {
			t.row(a.StartTime+"-"+a.EndTime, a.Patient.DisplayName(), string(a.Type), string(a.Status))
		}
		if err := t.flush(); err != nil {
			return err
		}
	}
	return nil
}
