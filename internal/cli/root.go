package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/admin-console/internal/config"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/logger"
)

// CLI owns the command tree and the App built before any command runs.
type CLI struct {
	app *App

	configPath   string
	apiURL       string
	sessionStore string
	verbose      bool
	assumeYes    bool
}

func NewRootCommand() *cobra.Command {
	c := &CLI{}

	rootCmd := &cobra.Command{
		Use:           "hospitalis",
		Short:         "Doctor console for the hospital admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Path to config.yaml")
	flags.StringVar(&c.apiURL, "api-url", "", "Override the API base URL")
	flags.StringVar(&c.sessionStore, "session-store", "", "Session store: file, redis or memory")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log debug output to stderr")
	flags.BoolVarP(&c.assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")

	rootCmd.AddCommand(c.loginCmd())
	rootCmd.AddCommand(c.registerCmd())
	rootCmd.AddCommand(c.forgotPasswordCmd())
	rootCmd.AddCommand(c.logoutCmd())
	rootCmd.AddCommand(c.whoamiCmd())
	rootCmd.AddCommand(c.dashboardCmd())
	rootCmd.AddCommand(c.patientsCmd())
	rootCmd.AddCommand(c.appointmentsCmd())

	return rootCmd
}

func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.Console.APIBaseURL = c.apiURL
	}
	if c.sessionStore != "" {
		cfg.Console.SessionStore = c.sessionStore
	}

	level := logger.WarnLevel
	if c.verbose {
		level = logger.DebugLevel
	}
	l := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.Kitchen,
		Output:     cmd.ErrOrStderr(),
	})

	app, err := newApp(cmd.Context(), cfg, l.Zero(), cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	app.assumeYes = c.assumeYes
	c.app = app
	return nil
}

// Execute runs the console and returns the process exit code.
func Execute() int {
	return run(context.Background(), NewRootCommand(), os.Stderr)
}

func run(ctx context.Context, rootCmd *cobra.Command, stderr io.Writer) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", describe(err))
		return 1
	}
	return 0
}

// describe turns err into the line shown to the user.
func describe(err error) string {
	if errors.IsUnauthenticated(err) {
		return "not signed in, run `hospitalis login` first"
	}
	return errors.MessageOr(err, err.Error())
}
