// Package schema holds the static questionnaire catalog: question ids, answer kinds, option sets,
// visibility dependencies and point rules. A Schema is immutable once built and safe for
// concurrent use.
package schema

import (
	"errors"
	"fmt"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// Schema definition errors
var (
	ErrInvalidQuestion   = errors.New("invalid question")
	ErrDuplicateQuestion = errors.New("duplicate question id")
	ErrUnknownParent     = errors.New("unknown parent question")
	ErrInvalidTrigger    = errors.New("trigger value is not an option of the parent")
	ErrDependencyCycle   = errors.New("question dependency cycle")
)

// Schema is an ordered, validated question catalog. Questions are kept in dependency order:
// every parent precedes its children, declaration order is kept otherwise.
type Schema struct {
	questions []Question
	index     map[domain.QuestionID]int
	children  map[domain.QuestionID][]domain.QuestionID
}

// New validates the questions and orders them topologically.
func New(questions ...Question) (*Schema, error) {
	byID := make(map[domain.QuestionID]Question, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQuestion, q.ID)
		}
		byID[q.ID] = q
	}

	children := make(map[domain.QuestionID][]domain.QuestionID)
	for _, q := range questions {
		for _, parentID := range q.Parents() {
			parent, ok := byID[parentID]
			if !ok {
				return nil, fmt.Errorf("%w: %s depends on %s", ErrUnknownParent, q.ID, parentID)
			}
			if t, ok := q.Visibility.(interface{ triggers() []string }); ok {
				for _, v := range t.triggers() {
					if !parent.HasOption(v) {
						return nil, fmt.Errorf("%w: %s unlocks on %s=%q", ErrInvalidTrigger, q.ID, parentID, v)
					}
				}
			}
			children[parentID] = append(children[parentID], q.ID)
		}
	}

	ordered, err := topoSort(questions)
	if err != nil {
		return nil, err
	}

	index := make(map[domain.QuestionID]int, len(ordered))
	for i, q := range ordered {
		index[q.ID] = i
	}

	return &Schema{
		questions: ordered,
		index:     index,
		children:  children,
	}, nil
}

// topoSort places each question after all of its parents, picking the earliest-declared ready
// question at every step so the result is deterministic.
func topoSort(questions []Question) ([]Question, error) {
	placed := make(map[domain.QuestionID]bool, len(questions))
	ordered := make([]Question, 0, len(questions))
	remaining := append([]Question(nil), questions...)

	for len(remaining) > 0 {
		next := -1
		for i, q := range remaining {
			ready := true
			for _, p := range q.Parents() {
				if !placed[p] {
					ready = false
					break
				}
			}
			if ready {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: involving %s", ErrDependencyCycle, remaining[0].ID)
		}
		q := remaining[next]
		placed[q.ID] = true
		ordered = append(ordered, q)
		remaining = append(remaining[:next], remaining[next+1:]...)
	}
	return ordered, nil
}

// Len returns the number of questions.
func (s *Schema) Len() int {
	return len(s.questions)
}

// Questions returns copies of every question in dependency order.
func (s *Schema) Questions() []Question {
	out := make([]Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.clone()
	}
	return out
}

// Question looks up a question by id.
func (s *Schema) Question(id domain.QuestionID) (Question, bool) {
	i, ok := s.index[id]
	if !ok {
		return Question{}, false
	}
	return s.questions[i].clone(), true
}

// Has reports whether id belongs to the schema.
func (s *Schema) Has(id domain.QuestionID) bool {
	_, ok := s.index[id]
	return ok
}

// Children returns the ids of questions unlocked by id.
func (s *Schema) Children(id domain.QuestionID) []domain.QuestionID {
	return append([]domain.QuestionID(nil), s.children[id]...)
}

// Visibility evaluates every visibility predicate in dependency order. A question is visible when
// all of its parents are visible and its own predicate holds.
func (s *Schema) Visibility(answers domain.AnswerSet) map[domain.QuestionID]bool {
	visible := make(map[domain.QuestionID]bool, len(s.questions))
	for _, q := range s.questions {
		visible[q.ID] = s.resolve(q, answers, visible)
	}
	return visible
}

func (s *Schema) resolve(q Question, answers domain.AnswerSet, visible map[domain.QuestionID]bool) bool {
	if q.Visibility == nil {
		return true
	}
	for _, p := range q.Visibility.DependsOn() {
		if !visible[p] {
			return false
		}
	}
	return q.Visibility.Satisfied(answers)
}

// IsVisible reports whether id currently applies. Unknown ids are never visible.
func (s *Schema) IsVisible(id domain.QuestionID, answers domain.AnswerSet) bool {
	if !s.Has(id) {
		return false
	}
	return s.Visibility(answers)[id]
}

// VisibleQuestions returns the questions that currently apply, in dependency order.
func (s *Schema) VisibleQuestions(answers domain.AnswerSet) []Question {
	var out []Question
	s.Walk(answers, func(q Question, visible bool) {
		if visible {
			out = append(out, q.clone())
		}
	})
	return out
}

// Walk calls fn for every question in dependency order together with its current visibility.
// Scoring and validation both iterate through Walk so they share one source of truth.
func (s *Schema) Walk(answers domain.AnswerSet, fn func(q Question, visible bool)) {
	visible := make(map[domain.QuestionID]bool, len(s.questions))
	for _, q := range s.questions {
		v := s.resolve(q, answers, visible)
		visible[q.ID] = v
		fn(q, v)
	}
}
