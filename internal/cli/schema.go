package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

func newSchemaCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the questionnaire with question ids and options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.locale()
			if err != nil {
				return err
			}
			form := l.Form(schema.RetinalDetachment(), domain.AnswerSet{})
			out := cmd.OutOrStdout()

			if asJSON {
				return writeJSON(out, form)
			}

			heading := color.New(color.FgCyan, color.Bold)
			id := color.New(color.Faint)

			color.New(color.Bold).Fprintln(out, l.Title)
			var section domain.Section
			for _, q := range form {
				if q.Section != section {
					section = q.Section
					fmt.Fprintln(out)
					heading.Fprintln(out, q.SectionTitle)
				}

				indent := "  "
				if len(q.DependsOn) > 0 {
					indent = "    "
				}
				fmt.Fprintf(out, "%s%s ", indent, q.Prompt)
				id.Fprintf(out, "[%s]\n", q.ID)

				switch {
				case q.Min != nil && q.Max != nil:
					fmt.Fprintf(out, "%s  %d-%d\n", indent, *q.Min, *q.Max)
				case len(q.Options) > 0:
					values := make([]string, len(q.Options))
					for i, o := range q.Options {
						values[i] = fmt.Sprintf("%s=%s", o.Value, o.Label)
					}
					sep := " | "
					if q.Kind == domain.MULTI_CHOICE {
						sep = " , "
					}
					fmt.Fprintf(out, "%s  %s\n", indent, strings.Join(values, sep))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
