package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/navigation"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

func (c *CLI) appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appointment", "appt"},
		Short:   "Manage appointments",
	}
	cmd.AddCommand(c.appointmentsListCmd())
	cmd.AddCommand(c.appointmentsShowCmd())
	cmd.AddCommand(c.appointmentsCreateCmd())
	cmd.AddCommand(c.appointmentsEditCmd())
	cmd.AddCommand(c.appointmentsDeleteCmd())
	cmd.AddCommand(c.appointmentsStatusCmd())
	return cmd
}

func (c *CLI) enterAppointments(cmd *cobra.Command) error {
	return c.app.visit(cmd.Context(), navigation.RouteAppointments, navigation.IdleView(c.app.appointments))
}

func (c *CLI) appointmentsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments, ten per page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			filters, page := listFlags(cmd)
			view := navigation.QueryView(app.appointments, filters, page)
			if err := app.visit(cmd.Context(), navigation.RouteAppointments, view); err != nil {
				return err
			}
			return printAppointments(app.out, app.appointments.Snapshot())
		},
	}
	addListFlags(cmd, "status", "date")
	return cmd
}

func (c *CLI) appointmentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enterAppointments(cmd); err != nil {
				return err
			}
			if err := c.app.appointments.OpenDetail(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printAppointment(c.app.out, *c.app.appointments.Snapshot().Selected)
		},
	}
}

func (c *CLI) appointmentsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Book an appointment for the signed-in doctor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			if err := c.enterAppointments(cmd); err != nil {
				return err
			}
			app.appointments.OpenCreate(cmd.Context())

			form := app.appointments.Snapshot().Form
			applyAppointmentFlags(cmd.Flags(), &form)
			if form.PatientID == "" {
				id, err := c.choosePatient()
				if err != nil {
					return err
				}
				form.PatientID = id
			}

			if err := app.appointments.Submit(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Appointment created.")
			return nil
		},
	}
	addAppointmentFlags(cmd.Flags())
	return cmd
}

// choosePatient offers the preloaded patients when --patient was omitted.
func (c *CLI) choosePatient() (string, error) {
	app := c.app
	candidates := app.appointments.Candidates()
	if len(candidates) == 0 {
		return "", errors.Validation("Patient is required")
	}

	t := newTable(app.out)
	for i, p := range candidates {
		t.row(strconv.Itoa(i+1), p.FullName(), dash(p.Email))
	}
	if err := t.flush(); err != nil {
		return "", err
	}

	answer, err := app.prompt("Patient number: ")
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(candidates) {
		return "", errors.Validation("Patient is required")
	}
	return candidates[n-1].ID, nil
}

func (c *CLI) appointmentsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an appointment; only the given flags are modified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			if err := c.enterAppointments(cmd); err != nil {
				return err
			}
			if err := app.appointments.OpenDetail(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.appointments.OpenEdit(*app.appointments.Snapshot().Selected)

			form := app.appointments.Snapshot().Form
			applyAppointmentFlags(cmd.Flags(), &form)
			if err := app.appointments.Submit(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Appointment updated.")
			return nil
		},
	}
	addAppointmentFlags(cmd.Flags())
	return cmd
}

func (c *CLI) appointmentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			if err := c.enterAppointments(cmd); err != nil {
				return err
			}
			if err := app.appointments.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			if app.declined {
				fmt.Fprintln(app.out, "Cancelled.")
				return nil
			}
			fmt.Fprintln(app.out, "Appointment deleted.")
			return nil
		},
	}
}

func (c *CLI) appointmentsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an appointment to scheduled, confirmed, in_progress, completed, cancelled or no_show",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			status := model.AppointmentStatus(args[1])
			if !validStatus(status) {
				return errors.Validation(fmt.Sprintf("Unknown status %q", args[1]))
			}
			if err := c.enterAppointments(cmd); err != nil {
				return err
			}
			if err := app.appointments.ChangeStatus(cmd.Context(), args[0], status); err != nil {
				return err
			}
			selected := app.appointments.Snapshot().Selected
			if selected == nil {
				return nil
			}
			return printAppointment(app.out, *selected)
		},
	}
}

func validStatus(status model.AppointmentStatus) bool {
	for _, s := range model.AppointmentStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

func appointmentFields(form *model.AppointmentForm) map[string]*string {
	return map[string]*string{
		"patient": &form.PatientID,
		"date":    &form.Date,
		"start":   &form.StartTime,
		"end":     &form.EndTime,
		"type":    &form.Type,
		"reason":  &form.Reason,
		"notes":   &form.Notes,
		"room":    &form.Room,
		"status":  &form.Status,
	}
}

func addAppointmentFlags(flags *pflag.FlagSet) {
	flags.String("patient", "", "Patient id (chosen interactively when empty)")
	flags.String("date", "", "Day, YYYY-MM-DD")
	flags.String("start", "", "Start time, HH:MM")
	flags.String("end", "", "End time, HH:MM")
	flags.String("type", "", "checkup, follow_up, consultation, emergency, procedure or lab")
	flags.String("reason", "", "Reason for the visit")
	flags.String("notes", "", "Notes")
	flags.String("room", "", "Room")
	flags.String("status", "", "Initial status")
}

func applyAppointmentFlags(flags *pflag.FlagSet, form *model.AppointmentForm) {
	for name, field := range appointmentFields(form) {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}
}
