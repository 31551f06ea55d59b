package service

import (
	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

// Validator reports which currently applicable questions still lack an answer
type Validator struct {
	schema *schema.Schema
}

// NewValidator creates a validator over the given questionnaire
func NewValidator(s *schema.Schema) *Validator {
	return &Validator{schema: s}
}

// MissingRequired returns, in questionnaire order, every visible question without an answer.
// A follow-up is only required while its parent answer unlocks it. An empty slice means the
// answer set is complete.
func (v *Validator) MissingRequired(answers domain.AnswerSet) []domain.QuestionID {
	missing := []domain.QuestionID{}
	v.schema.Walk(answers, func(q schema.Question, visible bool) {
		if !visible {
			return
		}
		if _, ok := answers.Get(q.ID); !ok {
			missing = append(missing, q.ID)
		}
	})
	return missing
}

// InvalidAnswers returns the answered ids whose answer does not fit the question: wrong kind,
// an option the question does not offer, or a number outside its bounds.
func (v *Validator) InvalidAnswers(answers domain.AnswerSet) []domain.QuestionID {
	var invalid []domain.QuestionID
	for _, id := range answers.IDs() {
		q, ok := v.schema.Question(id)
		if !ok {
			continue
		}
		if a, answered := answers.Get(id); answered && !q.Accepts(a) {
			invalid = append(invalid, id)
		}
	}
	return invalid
}

// UnknownIDs returns the answered ids that do not belong to the questionnaire.
func (v *Validator) UnknownIDs(answers domain.AnswerSet) []domain.QuestionID {
	var unknown []domain.QuestionID
	for _, id := range answers.IDs() {
		if !v.schema.Has(id) {
			unknown = append(unknown, id)
		}
	}
	return unknown
}
