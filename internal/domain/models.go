package domain

import (
	"slices"
	"sort"
)

// QuestionID is the stable identifier of a questionnaire item, e.g. "prior_rd" or "shadow_onset".
type QuestionID string

// String returns the string representation of the question id.
func (id QuestionID) String() string {
	return string(id)
}

// Answer is the value a user supplied for one question. Only the field matching Kind is meaningful.
type Answer struct {
	Kind    AnswerKind `json:"kind"`
	Choice  string     `json:"choice,omitempty"`
	Choices []string   `json:"choices,omitempty"`
	Number  int        `json:"number,omitempty"`
}

// SingleChoice builds an answer selecting one option label.
func SingleChoice(label string) Answer {
	return Answer{Kind: SINGLE_CHOICE, Choice: label}
}

// MultiChoice builds an answer selecting any number of option labels.
func MultiChoice(labels ...string) Answer {
	return Answer{Kind: MULTI_CHOICE, Choices: slices.Clone(labels)}
}

// Numeric builds a numeric answer.
func Numeric(n int) Answer {
	return Answer{Kind: NUMERIC, Number: n}
}

// IsAnswered reports whether the answer carries a usable value. A multi-choice answer with no
// selection was never interacted with and does not count.
func (a Answer) IsAnswered() bool {
	switch a.Kind {
	case SINGLE_CHOICE:
		return a.Choice != ""
	case MULTI_CHOICE:
		return len(a.Choices) > 0
	case NUMERIC:
		return true
	default:
		return false
	}
}

// Is reports whether a single-choice answer equals one of the given labels.
func (a Answer) Is(labels ...string) bool {
	if a.Kind != SINGLE_CHOICE {
		return false
	}
	return slices.Contains(labels, a.Choice)
}

// Has reports whether a multi-choice answer includes label.
func (a Answer) Has(label string) bool {
	if a.Kind != MULTI_CHOICE {
		return false
	}
	return slices.Contains(a.Choices, label)
}

// AnswerSet maps question ids to the values supplied so far. The engine only reads it.
type AnswerSet map[QuestionID]Answer

// Get returns the answer for id when one has been given.
func (s AnswerSet) Get(id QuestionID) (Answer, bool) {
	a, ok := s[id]
	if !ok || !a.IsAnswered() {
		return Answer{}, false
	}
	return a, true
}

// Clone returns an independent copy of the set.
func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for id, a := range s {
		a.Choices = slices.Clone(a.Choices)
		out[id] = a
	}
	return out
}

// With returns a copy of the set with id set to a.
func (s AnswerSet) With(id QuestionID, a Answer) AnswerSet {
	out := s.Clone()
	out[id] = a
	return out
}

// Without returns a copy of the set with id removed.
func (s AnswerSet) Without(id QuestionID) AnswerSet {
	out := s.Clone()
	delete(out, id)
	return out
}

// IDs returns the answered question ids in lexical order.
func (s AnswerSet) IDs() []QuestionID {
	ids := make([]QuestionID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Contribution is what one question's point rule yielded for the stored answer.
type Contribution struct {
	QuestionID        QuestionID `json:"question_id"`
	Points            int        `json:"points"`
	EmergencyOverride bool       `json:"emergency_override,omitempty"`
}

// ScoreResult is the raw output of the scoring engine.
type ScoreResult struct {
	Points            int            `json:"points"`
	EmergencyOverride bool           `json:"emergency_override"`
	Contributions     []Contribution `json:"contributions"`
}

// AssessmentOutcome is the computed result of a complete assessment. It carries no identity or
// timestamp, so evaluating the same answers twice yields equal outcomes.
type AssessmentOutcome struct {
	Points            int            `json:"points"`
	Percentage        float64        `json:"percentage"`
	Tier              Tier           `json:"tier"`
	EmergencyOverride bool           `json:"emergency_override"`
	CareTimeframe     string         `json:"care_timeframe"`
	Contributions     []Contribution `json:"contributions"`
}

// LogFields returns structured logging fields for audit trails. Individual answers are never logged.
func (o *AssessmentOutcome) LogFields() map[string]any {
	fields := o.Tier.LogFields()
	fields["points"] = o.Points
	fields["percentage"] = o.Percentage
	fields["emergency_override"] = o.EmergencyOverride
	return fields
}

// CounterTotals is the aggregate view of completed assessments.
type CounterTotals struct {
	Total  int64          `json:"total"`
	ByTier map[Tier]int64 `json:"by_tier"`
}
