package service

import (
	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

// ScoringEngine turns an answer set into a point total and an emergency override flag
type ScoringEngine struct {
	schema *schema.Schema
	logger *logrus.Logger
}

// NewScoringEngine creates a scoring engine over the given questionnaire
func NewScoringEngine(s *schema.Schema, logger *logrus.Logger) *ScoringEngine {
	return &ScoringEngine{
		schema: s,
		logger: logger,
	}
}

// Score walks the questionnaire in dependency order and accumulates the points of every visible,
// answered question. Hidden questions contribute nothing even when an answer is stored for them.
// Answers for ids outside the questionnaire are ignored.
func (e *ScoringEngine) Score(answers domain.AnswerSet) domain.ScoreResult {
	for _, id := range answers.IDs() {
		if !e.schema.Has(id) {
			e.logger.WithField("question_id", id).Warn("Ignoring answer for unknown question")
		}
	}

	result := domain.ScoreResult{Contributions: []domain.Contribution{}}
	e.schema.Walk(answers, func(q schema.Question, visible bool) {
		if !visible {
			return
		}
		answer, ok := answers.Get(q.ID)
		if !ok {
			return
		}

		award := q.Award(answer)
		if award.Points < 0 {
			award.Points = 0
		}
		result.Points += award.Points
		if award.Override {
			result.EmergencyOverride = true
		}
		if award.Points > 0 || award.Override {
			result.Contributions = append(result.Contributions, domain.Contribution{
				QuestionID:        q.ID,
				Points:            award.Points,
				EmergencyOverride: award.Override,
			})
		}
	})

	e.logger.WithFields(logrus.Fields{
		"points":             result.Points,
		"emergency_override": result.EmergencyOverride,
		"contributing":       len(result.Contributions),
	}).Debug("Scored answer set")

	return result
}
