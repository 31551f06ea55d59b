package schema

import (
	"fmt"
	"slices"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// Visibility decides whether a question applies given the answers collected so far.
// Parent visibility is resolved by the Schema; a predicate only inspects its own parents' answers.
type Visibility interface {
	DependsOn() []domain.QuestionID
	Satisfied(answers domain.AnswerSet) bool
}

// parentAnswer unlocks a question when its parent's single-choice answer is one of Values.
type parentAnswer struct {
	Parent domain.QuestionID
	Values []string
}

// WhenAnswered makes a question visible only when parent is answered with one of values.
func WhenAnswered(parent domain.QuestionID, values ...string) Visibility {
	return parentAnswer{Parent: parent, Values: slices.Clone(values)}
}

func (p parentAnswer) DependsOn() []domain.QuestionID {
	return []domain.QuestionID{p.Parent}
}

func (p parentAnswer) Satisfied(answers domain.AnswerSet) bool {
	a, ok := answers.Get(p.Parent)
	if !ok {
		return false
	}
	return a.Is(p.Values...)
}

// triggers exposes the unlocking values for schema validation.
func (p parentAnswer) triggers() []string {
	return p.Values
}

// Question is one questionnaire item. Display text lives in the locale catalogs, keyed by ID.
type Question struct {
	ID      domain.QuestionID `json:"id"`
	Kind    domain.AnswerKind `json:"kind"`
	Section domain.Section    `json:"section"`
	Options []string          `json:"options,omitempty"`
	Min     int               `json:"min,omitempty"`
	Max     int               `json:"max,omitempty"`

	// Visibility is nil for questions that always apply.
	Visibility Visibility `json:"-"`
	// Points is nil for questions that never score.
	Points PointRule `json:"-"`
}

// Parents returns the ids this question's visibility depends on.
func (q Question) Parents() []domain.QuestionID {
	if q.Visibility == nil {
		return nil
	}
	return q.Visibility.DependsOn()
}

// HasOption reports whether label is a valid option of a choice question.
func (q Question) HasOption(label string) bool {
	return slices.Contains(q.Options, label)
}

// Award evaluates the point rule against answer.
func (q Question) Award(answer domain.Answer) Award {
	if q.Points == nil {
		return Award{}
	}
	return q.Points.Evaluate(answer)
}

// Validate checks the question definition on its own.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidQuestion)
	}
	if !q.Kind.IsValid() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidQuestion, q.ID, domain.ErrInvalidAnswerKind)
	}
	switch q.Kind {
	case domain.SINGLE_CHOICE, domain.MULTI_CHOICE:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: %s has no options", ErrInvalidQuestion, q.ID)
		}
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if opt == "" || seen[opt] {
				return fmt.Errorf("%w: %s has empty or duplicate option %q", ErrInvalidQuestion, q.ID, opt)
			}
			seen[opt] = true
		}
	case domain.NUMERIC:
		if q.Max < q.Min {
			return fmt.Errorf("%w: %s bounds %d..%d", ErrInvalidQuestion, q.ID, q.Min, q.Max)
		}
	}
	return nil
}

// Accepts reports whether answer has the question's kind and stays within its options or bounds.
func (q Question) Accepts(answer domain.Answer) bool {
	if answer.Kind != q.Kind {
		return false
	}
	switch q.Kind {
	case domain.SINGLE_CHOICE:
		return q.HasOption(answer.Choice)
	case domain.MULTI_CHOICE:
		for _, c := range answer.Choices {
			if !q.HasOption(c) {
				return false
			}
		}
		return true
	case domain.NUMERIC:
		return answer.Number >= q.Min && answer.Number <= q.Max
	}
	return false
}

// clone copies the slices so callers cannot reach into the schema.
func (q Question) clone() Question {
	q.Options = slices.Clone(q.Options)
	return q
}
