package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/service"
)

// answerFlags collects an answer set from a JSON file and repeated id=value flags.
// Flags override the file.
type answerFlags struct {
	file   string
	values []string
}

func (a *answerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.file, "file", "f", "", "JSON object of answers keyed by question id, - for stdin")
	cmd.Flags().StringArrayVarP(&a.values, "answer", "a", nil, "answer as id=value; multi-choice values are comma separated")
}

func (a *answerFlags) load(in io.Reader, parser *service.InputParserService) (domain.AnswerSet, error) {
	raw := make(map[string]any)

	if a.file != "" {
		var (
			data []byte
			err  error
		)
		if a.file == "-" {
			data, err = io.ReadAll(in)
		} else {
			data, err = os.ReadFile(a.file)
		}
		if err != nil {
			return nil, fmt.Errorf("read answers: %w", err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse answers: %w", err)
		}
		// accept the HTTP request body shape as well
		if nested, ok := raw["answers"].(map[string]any); ok && len(raw) == 1 {
			raw = nested
		}
	}

	for _, v := range a.values {
		id, value, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("answer %q must be id=value", v)
		}
		raw[strings.TrimSpace(id)] = strings.TrimSpace(value)
	}

	return parser.ParseAnswers(raw)
}
