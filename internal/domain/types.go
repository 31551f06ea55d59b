// Package domain contains the core business entities for retinal detachment risk screening:
// questionnaire answers, score results, urgency tiers and the errors shared across layers.
//
// The engine implements a fixed, pre-authored rubric. It is a triage aid that recommends how
// urgently to seek eye care; it does not diagnose.
package domain

import (
	"errors"
)

// Tier represents the urgency classification of a completed assessment.
// Tiers are totally ordered: LOW < MODERATE < HIGH < VERY_HIGH.
type Tier string

const (
	LOW       Tier = "LOW"
	MODERATE  Tier = "MODERATE"
	HIGH      Tier = "HIGH"
	VERY_HIGH Tier = "VERY_HIGH"
)

// AllTiers lists every tier in ascending order of urgency.
var AllTiers = []Tier{LOW, MODERATE, HIGH, VERY_HIGH}

// AnswerKind represents how a question is answered.
type AnswerKind string

const (
	SINGLE_CHOICE AnswerKind = "SINGLE_CHOICE"
	MULTI_CHOICE  AnswerKind = "MULTI_CHOICE"
	NUMERIC       AnswerKind = "NUMERIC"
)

// Section groups questions for rendering. Order follows the questionnaire.
type Section string

const (
	SectionDemographics   Section = "A_DEMOGRAPHICS"
	SectionEyeHistory     Section = "B_EYE_HISTORY"
	SectionSystemicFamily Section = "C_SYSTEMIC_FAMILY"
	SectionSymptoms       Section = "D_SYMPTOMS"
	SectionVisualFunction Section = "E_VISUAL_FUNCTION"
	SectionTriggers       Section = "F_TRIGGERS"
)

// Validation errors shared by the engine and its callers
var (
	ErrNotFound          = errors.New("not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrInvalidTier       = errors.New("invalid risk tier")
	ErrInvalidAnswerKind = errors.New("invalid answer kind")
	ErrContractViolation = errors.New("assessment contract violation")
)

// IsValid reports whether t is one of the four defined tiers.
func (t Tier) IsValid() bool {
	switch t {
	case LOW, MODERATE, HIGH, VERY_HIGH:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// Rank returns the position of the tier in the urgency ordering, starting at 0 for LOW.
// Unknown tiers rank -1.
func (t Tier) Rank() int {
	switch t {
	case LOW:
		return 0
	case MODERATE:
		return 1
	case HIGH:
		return 2
	case VERY_HIGH:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether t is as urgent as other or more.
func (t Tier) AtLeast(other Tier) bool {
	return t.Rank() >= other.Rank()
}

// CareTimeframe returns the recommended care-seeking timeframe shown to the end user.
func (t Tier) CareTimeframe() string {
	switch t {
	case VERY_HIGH:
		return "Seek emergency eye care today (same day)"
	case HIGH:
		return "Urgent evaluation within 24 hours"
	case MODERATE:
		return "Schedule an eye exam within 1-3 days"
	case LOW:
		return "Continue monitoring symptoms"
	default:
		return "Unknown tier"
	}
}

// RequiresUrgentCare reports whether the tier calls for care within a day.
// Unknown tiers are treated as urgent.
func (t Tier) RequiresUrgentCare() bool {
	switch t {
	case HIGH, VERY_HIGH:
		return true
	case LOW, MODERATE:
		return false
	default:
		return true
	}
}

// LogFields returns structured logging fields for audit trails.
func (t Tier) LogFields() map[string]any {
	return map[string]any{
		"tier":           string(t),
		"tier_rank":      t.Rank(),
		"is_valid":       t.IsValid(),
		"care_timeframe": t.CareTimeframe(),
		"urgent":         t.RequiresUrgentCare(),
	}
}

// ParseTier converts a stored tier name back into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.IsValid() {
		return "", ErrInvalidTier
	}
	return t, nil
}

// IsValid validates the answer kind.
func (k AnswerKind) IsValid() bool {
	switch k {
	case SINGLE_CHOICE, MULTI_CHOICE, NUMERIC:
		return true
	default:
		return false
	}
}

// String returns the string representation of the answer kind.
func (k AnswerKind) String() string {
	return string(k)
}
