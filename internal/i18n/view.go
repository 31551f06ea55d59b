package i18n

import (
	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

// OptionView is one selectable option with its display label
type OptionView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// QuestionView is a question rendered for a locale
type QuestionView struct {
	ID           domain.QuestionID   `json:"id"`
	Kind         domain.AnswerKind   `json:"kind"`
	Section      domain.Section      `json:"section"`
	SectionTitle string              `json:"section_title"`
	Prompt       string              `json:"prompt"`
	Label        string              `json:"label"`
	Options      []OptionView        `json:"options,omitempty"`
	Min          *int                `json:"min,omitempty"`
	Max          *int                `json:"max,omitempty"`
	DependsOn    []domain.QuestionID `json:"depends_on,omitempty"`
	Visible      bool                `json:"visible"`
}

// Form renders every question of s in schema order. Visible reflects answers; pass an
// empty set for the initial form.
func (l *Locale) Form(s *schema.Schema, answers domain.AnswerSet) []QuestionView {
	views := make([]QuestionView, 0, s.Len())
	s.Walk(answers, func(q schema.Question, visible bool) {
		views = append(views, l.Question(q, visible))
	})
	return views
}

// Question renders a single question
func (l *Locale) Question(q schema.Question, visible bool) QuestionView {
	view := QuestionView{
		ID:           q.ID,
		Kind:         q.Kind,
		Section:      q.Section,
		SectionTitle: l.Section(q.Section),
		Prompt:       l.Prompt(q.ID),
		Label:        l.Label(q.ID),
		DependsOn:    q.Parents(),
		Visible:      visible,
	}
	for _, opt := range q.Options {
		view.Options = append(view.Options, OptionView{Value: opt, Label: l.Option(q.ID, opt)})
	}
	if q.Kind == domain.NUMERIC {
		lo, hi := q.Min, q.Max
		view.Min, view.Max = &lo, &hi
	}
	return view
}

// OutcomeView is an assessment outcome with the advice text for its tier
type OutcomeView struct {
	*domain.AssessmentOutcome
	Locale     string   `json:"locale"`
	Advice     TierText `json:"advice"`
	Disclaimer string   `json:"disclaimer"`
}

// Outcome wraps outcome with the locale's advice
func (l *Locale) Outcome(outcome *domain.AssessmentOutcome) OutcomeView {
	return OutcomeView{
		AssessmentOutcome: outcome,
		Locale:            l.Tag,
		Advice:            l.Tier(outcome.Tier),
		Disclaimer:        l.Disclaimer,
	}
}

// MissingView lists missing questions by id and display label
type MissingView struct {
	Complete bool                `json:"complete"`
	Missing  []domain.QuestionID `json:"missing"`
	Labels   []string            `json:"labels"`
	Message  string              `json:"message,omitempty"`
}

// MissingFields renders the output of the completeness check
func (l *Locale) MissingFields(ids []domain.QuestionID) MissingView {
	view := MissingView{
		Complete: len(ids) == 0,
		Missing:  ids,
		Labels:   make([]string, len(ids)),
	}
	for i, id := range ids {
		view.Labels[i] = l.Label(id)
	}
	if len(ids) > 0 {
		view.Message = l.MissingMessage(ids)
	}
	return view
}
