package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/navigation"
)

func (c *CLI) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			remember, _ := cmd.Flags().GetBool("remember")

			var err error
			if email == "" {
				if email, err = app.prompt("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = app.prompt("Password: "); err != nil {
					return err
				}
			}

			user, err := app.auth.Login(cmd.Context(), model.LoginForm{
				Email:    email,
				Password: password,
				Remember: remember,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(app.out, "Signed in as %s\n", displayName(*user))
			_, err = app.nav.Replace(cmd.Context(), string(navigation.RouteDashboard))
			return err
		},
	}
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (prompted when empty)")
	cmd.Flags().Bool("remember", false, "Keep me signed in")
	return cmd
}

func (c *CLI) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a doctor account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			form := model.RegisterForm{}
			form.FullName, _ = cmd.Flags().GetString("name")
			form.Email, _ = cmd.Flags().GetString("email")
			form.Specialty, _ = cmd.Flags().GetString("specialty")
			form.Password, _ = cmd.Flags().GetString("password")
			form.ConfirmPassword, _ = cmd.Flags().GetString("confirm-password")
			form.AcceptTerms, _ = cmd.Flags().GetBool("accept-terms")

			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.Password
			}
			if err := app.auth.Register(cmd.Context(), form); err != nil {
				return err
			}

			fmt.Fprintln(app.out, "Account created. You can now sign in.")
			_, err := app.nav.Navigate(cmd.Context(), string(navigation.RouteLogin))
			return err
		},
	}
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("specialty", "", "Medical specialty")
	cmd.Flags().String("password", "", "Password")
	cmd.Flags().String("confirm-password", "", "Password again (defaults to --password)")
	cmd.Flags().Bool("accept-terms", false, "Accept the terms of service")
	return cmd
}

func (c *CLI) forgotPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			message, err := c.app.auth.ForgotPassword(cmd.Context(), model.ForgotPasswordForm{Email: email})
			if err != nil {
				return err
			}
			fmt.Fprintln(c.app.out, message)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email")
	return cmd
}

func (c *CLI) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.app.out, "Signed out.")
			_, err := c.app.nav.Replace(cmd.Context(), string(navigation.RouteLogin))
			return err
		},
	}
}

func (c *CLI) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in doctor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			if err := app.visit(cmd.Context(), navigation.RouteDashboard, nil); err != nil {
				return err
			}
			user, err := app.session.User(cmd.Context())
			if err != nil {
				return err
			}
			id, err := app.auth.DoctorID(cmd.Context())
			if err != nil {
				return err
			}
			if user.ID == "" {
				// DoctorID just fetched and cached the profile.
				if user, err = app.session.User(cmd.Context()); err != nil {
					return err
				}
			}

			w := newTable(app.out)
			w.row("ID", id)
			w.row("Name", displayName(user))
			w.row("Email", user.Email)
			w.row("Specialty", dash(user.Specialty))
			return w.flush()
		},
	}
}

func displayName(u model.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
