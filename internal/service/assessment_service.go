package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

// AssessmentService is the entry point of the decision core. Callers check MissingRequired first
// and only call Evaluate once it reports nothing.
type AssessmentService struct {
	logger    *logrus.Logger
	schema    *schema.Schema
	scorer    *ScoringEngine
	validator *Validator
	hook      domain.CompletionHook
}

var _ domain.AssessmentEngine = (*AssessmentService)(nil)

// NewAssessmentService creates a new assessment service. hook may be nil.
func NewAssessmentService(s *schema.Schema, logger *logrus.Logger, hook domain.CompletionHook) *AssessmentService {
	return &AssessmentService{
		logger:    logger,
		schema:    s,
		scorer:    NewScoringEngine(s, logger),
		validator: NewValidator(s),
		hook:      hook,
	}
}

// Schema returns the questionnaire the service evaluates against
func (s *AssessmentService) Schema() *schema.Schema {
	return s.schema
}

// MissingRequired lists the visible questions that still need an answer
func (s *AssessmentService) MissingRequired(answers domain.AnswerSet) []domain.QuestionID {
	return s.validator.MissingRequired(answers)
}

// Score exposes the raw scoring result without the completeness contract
func (s *AssessmentService) Score(answers domain.AnswerSet) domain.ScoreResult {
	return s.scorer.Score(answers)
}

// Evaluate scores a complete answer set, maps it onto the percentage scale and classifies it.
// It fails with *domain.ContractViolation when a required answer is missing, an answer refers
// to a question outside the questionnaire, or an answer does not fit its question. The result
// depends only on answers.
func (s *AssessmentService) Evaluate(ctx context.Context, answers domain.AnswerSet) (*domain.AssessmentOutcome, error) {
	unknown := s.validator.UnknownIDs(answers)
	invalid := s.validator.InvalidAnswers(answers)
	missing := s.validator.MissingRequired(answers)
	if len(unknown) > 0 || len(invalid) > 0 || len(missing) > 0 {
		violation := &domain.ContractViolation{Missing: missing, Unknown: unknown, Invalid: invalid}
		switch {
		case len(unknown) > 0:
			violation.Reason = "answers reference questions outside the questionnaire"
		case len(invalid) > 0:
			violation.Reason = "answers do not match their questions"
		default:
			violation.Reason = "required answers are missing"
		}
		s.logger.WithFields(logrus.Fields{
			"missing_count": len(missing),
			"unknown_count": len(unknown),
			"invalid_count": len(invalid),
		}).Warn("Rejected evaluation of answer set")
		return nil, violation
	}

	score := s.scorer.Score(answers)
	tier := Classify(score.Points, score.EmergencyOverride)
	outcome := &domain.AssessmentOutcome{
		Points:            score.Points,
		Percentage:        ToPercentage(score.Points),
		Tier:              tier,
		EmergencyOverride: score.EmergencyOverride,
		CareTimeframe:     tier.CareTimeframe(),
		Contributions:     score.Contributions,
	}

	s.logger.WithFields(logrus.Fields(outcome.LogFields())).Info("Assessment completed")

	s.notify(ctx, outcome)
	return outcome, nil
}

// notify hands the outcome to the completion hook. A failing hook never costs the caller the outcome.
func (s *AssessmentService) notify(ctx context.Context, outcome *domain.AssessmentOutcome) {
	if s.hook == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(logrus.Fields{
				"tier":  outcome.Tier.String(),
				"panic": r,
			}).Error("Completion hook panicked")
		}
	}()
	s.hook.AssessmentCompleted(ctx, outcome)
}
