package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/navigation"
)

func (c *CLI) patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patients",
		Aliases: []string{"patient"},
		Short:   "Manage patients",
	}
	cmd.AddCommand(c.patientsListCmd())
	cmd.AddCommand(c.patientsShowCmd())
	cmd.AddCommand(c.patientsCreateCmd())
	cmd.AddCommand(c.patientsEditCmd())
	cmd.AddCommand(c.patientsDeleteCmd())
	return cmd
}

func (c *CLI) patientsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients, ten per page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			filters, page := listFlags(cmd)
			view := navigation.QueryView(app.patients, filters, page)
			if err := app.visit(cmd.Context(), navigation.RoutePatients, view); err != nil {
				return err
			}
			return printPatients(app.out, app.patients.Snapshot())
		},
	}
	addListFlags(cmd, "search", "status")
	return cmd
}

func (c *CLI) patientsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			if err := app.visit(cmd.Context(), navigation.RoutePatients, navigation.IdleView(app.patients)); err != nil {
				return err
			}
			if err := app.patients.OpenDetail(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printPatient(app.out, *app.patients.Snapshot().Selected)
		},
	}
}

func (c *CLI) patientsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			if err := app.visit(cmd.Context(), navigation.RoutePatients, navigation.IdleView(app.patients)); err != nil {
				return err
			}
			app.patients.OpenCreate()

			form := app.patients.Snapshot().Form
			applyPatientFlags(cmd.Flags(), &form)
			if err := app.patients.Submit(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Patient created.")
			return nil
		},
	}
	addPatientFlags(cmd.Flags())
	return cmd
}

func (c *CLI) patientsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a patient; only the given flags are modified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			if err := app.visit(cmd.Context(), navigation.RoutePatients, navigation.IdleView(app.patients)); err != nil {
				return err
			}
			if err := app.patients.OpenDetail(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.patients.OpenEdit(*app.patients.Snapshot().Selected)

			form := app.patients.Snapshot().Form
			applyPatientFlags(cmd.Flags(), &form)
			if err := app.patients.Submit(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Patient updated.")
			return nil
		},
	}
	addPatientFlags(cmd.Flags())
	return cmd
}

func (c *CLI) patientsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient and their appointments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			if err := app.visit(cmd.Context(), navigation.RoutePatients, navigation.IdleView(app.patients)); err != nil {
				return err
			}
			if err := app.patients.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			if app.declined {
				fmt.Fprintln(app.out, "Cancelled.")
				return nil
			}
			fmt.Fprintln(app.out, "Patient deleted.")
			return nil
		},
	}
}

func patientFields(form *model.PatientForm) map[string]*string {
	return map[string]*string{
		"first-name":        &form.FirstName,
		"last-name":         &form.LastName,
		"dob":               &form.DateOfBirth,
		"gender":            &form.Gender,
		"email":             &form.Email,
		"phone":             &form.Phone,
		"address":           &form.Address,
		"emergency-name":    &form.EmergencyContactName,
		"emergency-phone":   &form.EmergencyContactPhone,
		"blood-type":        &form.BloodType,
		"allergies":         &form.Allergies,
		"chronic-condition": &form.ChronicConditions,
		"notes":             &form.Notes,
		"status":            &form.Status,
	}
}

func addPatientFlags(flags *pflag.FlagSet) {
	flags.String("first-name", "", "First name")
	flags.String("last-name", "", "Last name")
	flags.String("dob", "", "Date of birth, YYYY-MM-DD")
	flags.String("gender", "", "male, female or other")
	flags.String("email", "", "Email")
	flags.String("phone", "", "Phone")
	flags.String("address", "", "Address")
	flags.String("emergency-name", "", "Emergency contact name")
	flags.String("emergency-phone", "", "Emergency contact phone")
	flags.String("blood-type", "", "Blood type, e.g. O+")
	flags.String("allergies", "", "Comma separated allergies")
	flags.String("chronic-condition", "", "Comma separated chronic conditions")
	flags.String("notes", "", "Notes")
	flags.String("status", "", "active, inactive, inpatient or discharged")
}

// applyPatientFlags overwrites the fields whose flag was given.
func applyPatientFlags(flags *pflag.FlagSet, form *model.PatientForm) {
	for name, field := range patientFields(form) {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}
}

var listFilterUsage = map[string]string{
	"search": "Free text search",
	"status": "Only this status",
	"date":   "Only this day, YYYY-MM-DD",
}

// addListFlags registers --page and one flag per filter the collection
// supports.
func addListFlags(cmd *cobra.Command, filters ...string) {
	for _, name := range filters {
		cmd.Flags().String(name, "", listFilterUsage[name])
	}
	cmd.Flags().Int("page", 1, "Page number")
}

func listFlags(cmd *cobra.Command) (model.Filters, int) {
	var filters model.Filters
	for name, field := range map[string]*string{
		"search": &filters.Search,
		"status": &filters.Status,
		"date":   &filters.Date,
	} {
		if cmd.Flags().Lookup(name) != nil {
			*field, _ = cmd.Flags().GetString(name)
		}
	}
	page, _ := cmd.Flags().GetInt("page")
	return filters, page
}
