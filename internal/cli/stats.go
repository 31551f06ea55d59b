package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rd-risk-mcp-server/internal/app"
	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/logging"
)

func newStatsCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many assessments were completed, per tier",
		Long: `Read the completion counter of the configured backend. The memory backend
lives inside the server process, so only sqlite, postgres and redis can be
read from here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.configManager()
			if err != nil {
				return err
			}
			if err := m.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			backend := m.GetConfig().Counter.Backend
			if backend == domain.CounterBackendMemory {
				return fmt.Errorf("counter backend %q cannot be read outside the server", backend)
			}

			application, err := app.New(cmd.Context(), m, logging.Discard())
			if err != nil {
				return err
			}
			defer application.Close()

			totals, err := application.Recorder.Totals(cmd.Context())
			if err != nil {
				return fmt.Errorf("read counter: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, totals)
			}

			color.New(color.Bold).Fprintf(out, "Completed assessments: %d\n", totals.Total)
			for _, tier := range domain.AllTiers {
				tierColor(tier).Fprintf(out, "  %-10s", tier)
				fmt.Fprintf(out, " %d\n", totals.ByTier[tier])
			}
			color.New(color.Faint).Fprintf(out, "backend: %s\n", backend)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
