package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

// InputParserService converts loosely typed answer payloads (decoded JSON, CLI flags) into
// domain answers, rejecting anything the questionnaire does not define. The engine itself never
// sees out-of-range input.
type InputParserService struct {
	schema *schema.Schema
}

// NewInputParserService creates a new input parser service
func NewInputParserService(s *schema.Schema) *InputParserService {
	return &InputParserService{schema: s}
}

// ParseAnswer parses one raw value for question id.
//
// Accepted shapes: a string option for single-choice questions; a list of strings or a
// comma-separated string for multi-choice questions; an integral number or numeric string for
// numeric questions. Option values are matched case-insensitively.
func (p *InputParserService) ParseAnswer(id string, raw any) (domain.Answer, error) {
	q, ok := p.schema.Question(domain.QuestionID(id))
	if !ok {
		return domain.Answer{}, fmt.Errorf("%w: %w",
			domain.ErrUnknownQuestion, domain.NewValidationError(id, "question is not part of the questionnaire", raw))
	}
	if raw == nil {
		return domain.Answer{}, domain.NewValidationError(id, "answer value cannot be empty", raw)
	}

	switch q.Kind {
	case domain.SINGLE_CHOICE:
		s, ok := raw.(string)
		if !ok {
			return domain.Answer{}, domain.NewValidationError(id, "expected a single option", raw)
		}
		opt, err := matchOption(q, s)
		if err != nil {
			return domain.Answer{}, err
		}
		return domain.SingleChoice(opt), nil

	case domain.MULTI_CHOICE:
		values, err := stringList(raw)
		if err != nil {
			return domain.Answer{}, domain.NewValidationError(id, err.Error(), raw)
		}
		choices := make([]string, 0, len(values))
		seen := make(map[string]bool, len(values))
		for _, v := range values {
			opt, err := matchOption(q, v)
			if err != nil {
				return domain.Answer{}, err
			}
			if !seen[opt] {
				seen[opt] = true
				choices = append(choices, opt)
			}
		}
		return domain.MultiChoice(choices...), nil

	case domain.NUMERIC:
		n, err := integer(raw)
		if err != nil {
			return domain.Answer{}, domain.NewValidationError(id, err.Error(), raw)
		}
		if n < q.Min || n > q.Max {
			return domain.Answer{}, domain.NewValidationError(id,
				fmt.Sprintf("value must be between %d and %d", q.Min, q.Max), raw)
		}
		return domain.Numeric(n), nil
	}

	return domain.Answer{}, domain.NewValidationError(id, "unsupported answer kind "+q.Kind.String(), raw)
}

// ParseAnswers parses a whole payload. Every field is checked and all failures are joined.
func (p *InputParserService) ParseAnswers(raw map[string]any) (domain.AnswerSet, error) {
	answers := make(domain.AnswerSet, len(raw))
	var errs []error
	for id, value := range raw {
		a, err := p.ParseAnswer(id, value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		answers[domain.QuestionID(id)] = a
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return answers, nil
}

func matchOption(q schema.Question, value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, opt := range q.Options {
		if opt == v {
			return opt, nil
		}
	}
	return "", domain.NewValidationError(q.ID.String(),
		fmt.Sprintf("unknown option %q, expected one of %s", value, strings.Join(q.Options, ", ")), value)
}

func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of options, got element %v", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return strings.Split(v, ","), nil
	default:
		return nil, fmt.Errorf("expected a list of options")
	}
}

func integer(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.IsNaN(v) || math.Abs(v) > math.MaxInt32 || v != math.Trunc(v) {
			return 0, fmt.Errorf("expected a whole number")
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected a whole number")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected a number")
	}
}
