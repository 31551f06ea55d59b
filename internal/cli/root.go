// Package cli implements the rdrisk command line tool.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/rd-risk-mcp-server/internal/config"
	"github.com/rd-risk-mcp-server/internal/i18n"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type globalOptions struct {
	configFile string
	lang       string
}

func (g *globalOptions) configManager() (*config.Manager, error) {
	return config.NewManagerWithFile(g.configFile)
}

func (g *globalOptions) locale() (*i18n.Locale, error) {
	catalog, err := i18n.Load("en")
	if err != nil {
		return nil, err
	}
	return catalog.Match(g.lang), nil
}

// NewRootCommand creates and returns the root cobra command for rdrisk
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "rdrisk",
		Short: "Retinal detachment risk screening",
		Long: `rdrisk scores the retinal detachment screening questionnaire from the
command line and manages the server side stores.

It is a triage aid that recommends how urgently to seek eye care. It does
not diagnose.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: ./config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "", "display language, e.g. en, es, fr")

	cmd.AddCommand(newSchemaCommand(opts))
	cmd.AddCommand(newMissingCommand(opts))
	cmd.AddCommand(newAssessCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSetupCommand())

	return cmd
}
