package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rd-risk-mcp-server/internal/database"
	"github.com/rd-risk-mcp-server/internal/logging"
)

func newMigrateCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres counter schema",
	}

	run := func(fn func(cmd *cobra.Command, runner *database.MigrationRunner) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			m, err := opts.configManager()
			if err != nil {
				return err
			}
			logger, err := logging.New(m.GetConfig().Logging)
			if err != nil {
				return err
			}
			logger.SetOutput(cmd.ErrOrStderr())

			runner, err := database.NewMigrationRunner(m.GetDatabaseURL(), logger)
			if err != nil {
				return err
			}
			defer runner.Close()
			return fn(cmd, runner)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, runner *database.MigrationRunner) error {
			return runner.Up(cmd.Context())
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, runner *database.MigrationRunner) error {
			return runner.Down(cmd.Context())
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, runner *database.MigrationRunner) error {
			version, dirty, err := runner.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d", version)
			if dirty {
				fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		}),
	})

	return cmd
}
