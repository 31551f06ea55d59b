package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

func TestInputParserService_ParseAnswer(t *testing.T) {
	parser := NewInputParserService(schema.RetinalDetachment())

	tests := []struct {
		name    string
		id      string
		raw     any
		want    domain.Answer
		wantErr bool
	}{
		{"single choice", "shadow", "yes", domain.SingleChoice(schema.Yes), false},
		{"single choice case-insensitive", "shadow", " YES ", domain.SingleChoice(schema.Yes), false},
		{"single choice unknown option", "shadow", "perhaps", domain.Answer{}, true},
		{"single choice wrong type", "shadow", 3.0, domain.Answer{}, true},
		{"numeric from json", "age", 64.0, domain.Numeric(64), false},
		{"numeric from flag", "age", "64", domain.Numeric(64), false},
		{"numeric lower bound", "age", 0.0, domain.Numeric(0), false},
		{"numeric upper bound", "age", 120.0, domain.Numeric(120), false},
		{"numeric above range", "age", 121.0, domain.Answer{}, true},
		{"numeric negative", "age", -1.0, domain.Answer{}, true},
		{"numeric fractional", "age", 64.5, domain.Answer{}, true},
		{"numeric garbage", "age", "sixty", domain.Answer{}, true},
		{"multi choice list", "recent_triggers", []any{"contact_sports", "heavy_lifting"},
			domain.MultiChoice(schema.TriggerContactSports, schema.TriggerHeavyLifting), false},
		{"multi choice csv", "recent_triggers", "contact_sports,heavy_lifting",
			domain.MultiChoice(schema.TriggerContactSports, schema.TriggerHeavyLifting), false},
		{"multi choice dedup", "recent_triggers", []string{"none", "none"}, domain.MultiChoice(schema.None), false},
		{"multi choice unknown option", "recent_triggers", []any{"skydiving"}, domain.Answer{}, true},
		{"multi choice non-string element", "recent_triggers", []any{1.0}, domain.Answer{}, true},
		{"nil value", "shadow", nil, domain.Answer{}, true},
		{"unknown question", "favourite_colour", "blue", domain.Answer{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.ParseAnswer(tt.id, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var vErr *domain.ValidationError
				assert.True(t, errors.As(err, &vErr), "expected a validation error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputParserService_UnknownQuestionSentinel(t *testing.T) {
	parser := NewInputParserService(schema.RetinalDetachment())

	_, err := parser.ParseAnswer("favourite_colour", "blue")
	assert.ErrorIs(t, err, domain.ErrUnknownQuestion)
}

func TestInputParserService_ParseAnswers(t *testing.T) {
	parser := NewInputParserService(schema.RetinalDetachment())

	answers, err := parser.ParseAnswers(map[string]any{
		"age":             72.0,
		"shadow":          "yes",
		"shadow_onset":    "within_24h",
		"recent_triggers": []any{"none"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerSet{
		schema.Age:            domain.Numeric(72),
		schema.Shadow:         domain.SingleChoice(schema.Yes),
		schema.ShadowOnset:    domain.SingleChoice(schema.Within24Hours),
		schema.RecentTriggers: domain.MultiChoice(schema.None),
	}, answers)

	_, err = parser.ParseAnswers(map[string]any{
		"age":    200.0,
		"shadow": "sometimes",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age")
	assert.Contains(t, err.Error(), "shadow")
}
