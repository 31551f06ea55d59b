package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/i18n"
	"github.com/rd-risk-mcp-server/internal/logging"
	"github.com/rd-risk-mcp-server/internal/schema"
	"github.com/rd-risk-mcp-server/internal/service"
)

// ErrIncomplete is returned when required answers are missing
var ErrIncomplete = errors.New("assessment is incomplete")

func newAssessmentService() *service.AssessmentService {
	// offline scoring is not counted
	return service.NewAssessmentService(schema.RetinalDetachment(), logging.Discard(), nil)
}

func newMissingCommand(opts *globalOptions) *cobra.Command {
	var (
		answers answerFlags
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "missing",
		Short: "List the visible questions that still need an answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.locale()
			if err != nil {
				return err
			}
			svc := newAssessmentService()
			set, err := answers.load(cmd.InOrStdin(), service.NewInputParserService(svc.Schema()))
			if err != nil {
				return err
			}

			view := l.MissingFields(svc.MissingRequired(set))
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, view)
			}
			printMissing(out, view)
			return nil
		},
	}

	answers.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func newAssessCommand(opts *globalOptions) *cobra.Command {
	var (
		answers answerFlags
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a complete answer set",
		Long: `Score a complete answer set and print the risk percentage, urgency tier
and the recommended action.

Answers come from a JSON file (--file) and/or repeated --answer id=value
flags. Run 'rdrisk schema' to list question ids and options.`,
		Example: `  rdrisk assess -f answers.json --lang es
  rdrisk assess -f answers.json -a shadow=yes -a shadow_onset=within_24h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.locale()
			if err != nil {
				return err
			}
			svc := newAssessmentService()
			set, err := answers.load(cmd.InOrStdin(), service.NewInputParserService(svc.Schema()))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if missing := svc.MissingRequired(set); len(missing) > 0 {
				view := l.MissingFields(missing)
				if asJSON {
					if err := writeJSON(out, view); err != nil {
						return err
					}
				} else {
					printMissing(out, view)
				}
				return ErrIncomplete
			}

			outcome, err := svc.Evaluate(cmd.Context(), set)
			if err != nil {
				return err
			}
			view := l.Outcome(outcome)
			if asJSON {
				return writeJSON(out, view)
			}
			printOutcome(out, l, view, verbose)
			return nil
		},
	}

	answers.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list the points each answer contributed")
	return cmd
}

func tierColor(t domain.Tier) *color.Color {
	switch t {
	case domain.LOW:
		return color.New(color.FgGreen, color.Bold)
	case domain.MODERATE:
		return color.New(color.FgYellow, color.Bold)
	case domain.HIGH:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgHiWhite, color.BgRed, color.Bold)
	}
}

func printOutcome(out io.Writer, l *i18n.Locale, view i18n.OutcomeView, verbose bool) {
	bold := color.New(color.Bold)

	tierColor(view.Tier).Fprintf(out, "%s\n", view.Advice.Headline)
	fmt.Fprintln(out)
	bold.Fprint(out, "Risk: ")
	fmt.Fprintf(out, "%.0f%% (%d points)\n", view.Percentage, view.Points)
	bold.Fprint(out, "Tier: ")
	fmt.Fprintf(out, "%s\n", view.Tier)
	if view.EmergencyOverride {
		color.New(color.FgRed).Fprintln(out, "Emergency symptom pattern present")
	}
	fmt.Fprintln(out)
	bold.Fprintln(out, view.Advice.Action)
	fmt.Fprintln(out, view.Advice.Advice)

	if verbose && len(view.Contributions) > 0 {
		contributions := append([]domain.Contribution(nil), view.Contributions...)
		sort.SliceStable(contributions, func(i, j int) bool {
			return contributions[i].Points > contributions[j].Points
		})
		fmt.Fprintln(out)
		bold.Fprintln(out, "Contributions:")
		for _, c := range contributions {
			fmt.Fprintf(out, "  %+4d  %s\n", c.Points, l.Label(c.QuestionID))
		}
	}

	fmt.Fprintln(out)
	color.New(color.Faint).Fprintln(out, view.Disclaimer)
}

func printMissing(out io.Writer, view i18n.MissingView) {
	if view.Complete {
		color.New(color.FgGreen).Fprintln(out, "All required questions are answered")
		return
	}
	color.New(color.FgYellow).Fprintln(out, view.Message)
	for i, id := range view.Missing {
		fmt.Fprintf(out, "  - %s (%s)\n", view.Labels[i], id)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
