package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

type mockHook struct {
	mock.Mock
}

func (m *mockHook) AssessmentCompleted(ctx context.Context, outcome *domain.AssessmentOutcome) {
	m.Called(ctx, outcome)
}

func TestAssessmentService_Evaluate(t *testing.T) {
	svc := NewAssessmentService(schema.RetinalDetachment(), testLogger(), nil)
	ctx := context.Background()

	tests := []struct {
		name        string
		answers     domain.AnswerSet
		wantPoints  int
		wantPercent float64
		wantTier    domain.Tier
	}{
		{
			name:        "minimal risk",
			answers:     baselineAnswers(),
			wantPoints:  0,
			wantPercent: 1,
			wantTier:    domain.LOW,
		},
		{
			name:        "maximal risk",
			answers:     adverseAnswers(),
			wantPoints:  63,
			wantPercent: 90,
			wantTier:    domain.VERY_HIGH,
		},
		{
			name: "moderate",
			answers: baselineAnswers().
				With(schema.PriorRD, domain.SingleChoice(schema.Yes)),
			wantPoints:  5,
			wantPercent: 8,
			wantTier:    domain.MODERATE,
		},
		{
			name: "high",
			answers: baselineAnswers().
				With(schema.PriorRD, domain.SingleChoice(schema.Yes)).
				With(schema.VisionDecrease, domain.SingleChoice(schema.Yes)).
				With(schema.VisionOnset, domain.SingleChoice(schema.Over24Hours)),
			wantPoints:  10,
			wantPercent: 30,
			wantTier:    domain.HIGH,
		},
		{
			name: "emergency override below threshold",
			answers: baselineAnswers().
				With(schema.Shadow, domain.SingleChoice(schema.Yes)).
				With(schema.ShadowOnset, domain.SingleChoice(schema.Within24Hours)),
			wantPoints:  10,
			wantPercent: 30,
			wantTier:    domain.VERY_HIGH,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := svc.Evaluate(ctx, tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints, outcome.Points)
			assert.InDelta(t, tt.wantPercent, outcome.Percentage, 1e-9)
			assert.Equal(t, tt.wantTier, outcome.Tier)
			assert.Equal(t, tt.wantTier.CareTimeframe(), outcome.CareTimeframe)
		})
	}
}

func TestAssessmentService_EvaluateIsIdempotent(t *testing.T) {
	svc := NewAssessmentService(schema.RetinalDetachment(), testLogger(), nil)
	answers := adverseAnswers()

	first, err := svc.Evaluate(context.Background(), answers)
	require.NoError(t, err)
	second, err := svc.Evaluate(context.Background(), answers)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssessmentService_EvaluateContractViolation(t *testing.T) {
	svc := NewAssessmentService(schema.RetinalDetachment(), testLogger(), nil)

	t.Run("missing answers", func(t *testing.T) {
		answers := baselineAnswers().With(schema.Shadow, domain.SingleChoice(schema.Yes))

		outcome, err := svc.Evaluate(context.Background(), answers)
		require.Error(t, err)
		assert.Nil(t, outcome)
		assert.True(t, errors.Is(err, domain.ErrContractViolation))

		var violation *domain.ContractViolation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, []domain.QuestionID{schema.ShadowOnset}, violation.Missing)
		assert.Empty(t, violation.Unknown)
	})

	t.Run("unknown question", func(t *testing.T) {
		answers := baselineAnswers().With("favourite_colour", domain.SingleChoice("blue"))

		_, err := svc.Evaluate(context.Background(), answers)
		var violation *domain.ContractViolation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, []domain.QuestionID{"favourite_colour"}, violation.Unknown)
		assert.Contains(t, err.Error(), "favourite_colour")
	})

	mismatched := []struct {
		name    string
		answers domain.AnswerSet
		invalid []domain.QuestionID
	}{
		{
			name:    "option label outside the questionnaire",
			answers: baselineAnswers().With(schema.Shadow, domain.SingleChoice("Yes")),
			invalid: []domain.QuestionID{schema.Shadow},
		},
		{
			name:    "numeric answer to a choice question",
			answers: baselineAnswers().With(schema.Shadow, domain.Numeric(1)),
			invalid: []domain.QuestionID{schema.Shadow},
		},
		{
			name:    "choice answer to a numeric question",
			answers: baselineAnswers().With(schema.Age, domain.SingleChoice("70")),
			invalid: []domain.QuestionID{schema.Age},
		},
		{
			name:    "age out of bounds",
			answers: baselineAnswers().With(schema.Age, domain.Numeric(150)),
			invalid: []domain.QuestionID{schema.Age},
		},
		{
			name:    "unlisted multi-choice option",
			answers: baselineAnswers().With(schema.RecentTriggers, domain.MultiChoice(schema.TriggerContactSports, "skydiving")),
			invalid: []domain.QuestionID{schema.RecentTriggers},
		},
	}

	for _, tt := range mismatched {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := svc.Evaluate(context.Background(), tt.answers)
			assert.Nil(t, outcome)
			require.ErrorIs(t, err, domain.ErrContractViolation)

			var violation *domain.ContractViolation
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, tt.invalid, violation.Invalid)
			assert.Empty(t, violation.Unknown)
			assert.Contains(t, err.Error(), "invalid: "+string(tt.invalid[0]))
		})
	}
}

func TestAssessmentService_CompletionHook(t *testing.T) {
	hook := new(mockHook)
	svc := NewAssessmentService(schema.RetinalDetachment(), testLogger(), hook)
	ctx := context.Background()

	hook.On("AssessmentCompleted", ctx, mock.MatchedBy(func(o *domain.AssessmentOutcome) bool {
		return o.Tier == domain.LOW
	})).Return().Once()

	_, err := svc.Evaluate(ctx, baselineAnswers())
	require.NoError(t, err)

	_, err = svc.Evaluate(ctx, domain.AnswerSet{})
	require.Error(t, err)

	hook.AssertExpectations(t)
}

func TestAssessmentService_PanickingHookKeepsOutcome(t *testing.T) {
	hook := domain.CompletionHookFunc(func(ctx context.Context, outcome *domain.AssessmentOutcome) {
		panic("counter down")
	})
	svc := NewAssessmentService(schema.RetinalDetachment(), testLogger(), hook)

	var (
		outcome *domain.AssessmentOutcome
		err     error
	)
	require.NotPanics(t, func() {
		outcome, err = svc.Evaluate(context.Background(), baselineAnswers())
	})
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, domain.LOW, outcome.Tier)
}

func TestAssessmentService_MissingRequired(t *testing.T) {
	svc := NewAssessmentService(schema.RetinalDetachment(), testLogger(), nil)

	assert.Empty(t, svc.MissingRequired(baselineAnswers()))
	assert.Equal(t,
		[]domain.QuestionID{schema.FloatersOnset},
		svc.MissingRequired(baselineAnswers().With(schema.Floaters, domain.SingleChoice(schema.Yes))),
	)
}
