package schema

import (
	"sort"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// Award is what a point rule grants for one answer.
type Award struct {
	Points   int
	Override bool
}

// PointRule maps a stored answer to a non-negative point contribution.
type PointRule interface {
	Evaluate(answer domain.Answer) Award
}

// NoPoints is the rule for questions that only gate follow-ups.
type NoPoints struct{}

// Evaluate always awards nothing.
func (NoPoints) Evaluate(domain.Answer) Award { return Award{} }

// ChoicePoints awards points for single-choice options. Options not listed award nothing.
type ChoicePoints map[string]int

// Evaluate looks up the selected option.
func (c ChoicePoints) Evaluate(answer domain.Answer) Award {
	if answer.Kind != domain.SINGLE_CHOICE {
		return Award{}
	}
	return Award{Points: c[answer.Choice]}
}

// Band is a lower-inclusive numeric threshold.
type Band struct {
	Min    int
	Points int
}

// Bands awards the points of the highest band whose Min the number reaches.
type Bands []Band

// Evaluate finds the matching band.
func (b Bands) Evaluate(answer domain.Answer) Award {
	if answer.Kind != domain.NUMERIC {
		return Award{}
	}
	sorted := make([]Band, len(b))
	copy(sorted, b)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min > sorted[j].Min })
	for _, band := range sorted {
		if answer.Number >= band.Min {
			return Award{Points: band.Points}
		}
	}
	return Award{}
}

// AnyOf awards Points once if any of Options is among the selected multi-choice options.
type AnyOf struct {
	Options []string
	Points  int
}

// Evaluate checks set membership, not cardinality.
func (r AnyOf) Evaluate(answer domain.Answer) Award {
	for _, opt := range r.Options {
		if answer.Has(opt) {
			return Award{Points: r.Points}
		}
	}
	return Award{}
}

// Sum evaluates every rule independently and adds the awards.
type Sum []PointRule

// Evaluate adds up the parts; the override is set if any part sets it.
func (s Sum) Evaluate(answer domain.Answer) Award {
	var total Award
	for _, rule := range s {
		a := rule.Evaluate(answer)
		total.Points += a.Points
		total.Override = total.Override || a.Override
	}
	return total
}

// Emergency wraps a rule and raises the emergency override when the answer equals Trigger.
type Emergency struct {
	Rule    PointRule
	Trigger string
}

// Evaluate delegates to the wrapped rule.
func (e Emergency) Evaluate(answer domain.Answer) Award {
	a := e.Rule.Evaluate(answer)
	if answer.Is(e.Trigger) {
		a.Override = true
	}
	return a
}
