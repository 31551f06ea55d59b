package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rd-risk-mcp-server/internal/setup"
)

func newSetupCommand() *cobra.Command {
	var opts setup.Options

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with Claude Desktop",
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "desktop-config", "", "Claude Desktop config file (default: platform location)")

	install := &cobra.Command{
		Use:   "claude-desktop",
		Short: "Add or update the screening server entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := setup.ConfigureClaudeDesktop(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "Registered %s\n", setup.ServerName)
			fmt.Fprintf(out, "  command: %s\n", entry.Command)
			for k, v := range entry.Env {
				fmt.Fprintf(out, "  %s=%s\n", k, v)
			}
			fmt.Fprintln(out, "Restart Claude Desktop to pick up the change.")
			return nil
		},
	}
	install.Flags().StringVar(&opts.ServerType, "server", "lite", "server binary to register: lite or full")
	install.Flags().StringVar(&opts.BinaryPath, "binary", "", "path to the server binary (default: search PATH and ./build)")
	install.Flags().StringVar(&opts.DataDir, "data-dir", "", "data directory for the lite server")
	install.Flags().StringVar(&opts.Locale, "locale", "", "default display language")

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove the screening server entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := setup.RemoveClaudeDesktop(opts)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", setup.ServerName)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s was not registered\n", setup.ServerName)
			}
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := setup.GetStatus(opts)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n", s.ConfigPath)
			if s.Configured {
				color.New(color.FgGreen).Fprintln(out, "Registered")
				fmt.Fprintf(out, "Server binary: %s\n", s.ServerPath)
			} else {
				color.New(color.FgYellow).Fprintln(out, "Not registered")
			}
			fmt.Fprintf(out, "Data directory: %s\n", s.DataDir)
			for _, issue := range s.Issues {
				color.New(color.FgYellow).Fprintf(out, "  ! %s\n", issue)
			}
			return nil
		},
	}

	cmd.AddCommand(install, remove, status)
	return cmd
}
