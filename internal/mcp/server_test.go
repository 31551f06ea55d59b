package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rd-risk-mcp-server/internal/config"
	"github.com/rd-risk-mcp-server/internal/counter"
	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/i18n"
	"github.com/rd-risk-mcp-server/internal/schema"
	"github.com/rd-risk-mcp-server/internal/service"
	"github.com/rd-risk-mcp-server/internal/session"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func newTestServer(t *testing.T) (*Server, *counter.Recorder) {
	t.Helper()
	logger := testLogger()

	recorder := counter.NewRecorder(counter.NewMemoryStore(), domain.CounterConfig{}, logger)
	assessment := service.NewAssessmentService(schema.RetinalDetachment(), logger, recorder)
	catalog, err := i18n.Load("en")
	require.NoError(t, err)

	server, err := NewServer(ServerInfo{}, Dependencies{
		Assessment: assessment,
		Sessions:   service.NewSessionService(session.NewMemoryStore(10, 0), assessment, logger),
		Catalog:    catalog,
		Stats:      recorder,
	}, logger)
	require.NoError(t, err)
	return server, recorder
}

func lowRiskAnswers() map[string]any {
	return map[string]any{
		"age": 30, "sex": "female", "prior_rd": "no", "cataract_surgery": "no",
		"yag_capsulotomy": "no", "myopia": "no", "retinal_condition": "no", "eye_trauma": "no",
		"diabetes": "no", "family_history": "no", "floaters": "no", "flashes": "none",
		"shadow": "no", "vision_decrease": "no", "pain_double_vision": "no",
		"vision_level": "20_20_or_better", "last_exam": "within_2_years",
		"recent_triggers": []any{"none"},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func decodeResult[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	return v
}

type outcomeResult struct {
	Points     int           `json:"points"`
	Percentage float64       `json:"percentage"`
	Tier       domain.Tier   `json:"tier"`
	Advice     i18n.TierText `json:"advice"`
	Locale     string        `json:"locale"`
}

func TestNewServer_RequiresCore(t *testing.T) {
	_, err := NewServer(ServerInfo{}, Dependencies{}, testLogger())
	assert.Error(t, err)
}

func TestNewServer_Defaults(t *testing.T) {
	server, _ := newTestServer(t)
	assert.Equal(t, "rd-risk-mcp-server", server.info.Name)
	assert.Equal(t, "v0.1.0", server.info.Version)
	assert.NotNil(t, server.mcpServer)
}

func TestListQuestions(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	result, _, err := server.handleListQuestions(ctx, nil, ListQuestionsParams{Locale: "es"})
	require.NoError(t, err)
	form := decodeResult[QuestionnaireResult](t, result)
	assert.Equal(t, "es", form.Locale)
	assert.Len(t, form.Questions, schema.RetinalDetachment().Len())

	result, _, err = server.handleListQuestions(ctx, nil, ListQuestionsParams{
		Given: map[string]any{"shadow": "yes"},
	})
	require.NoError(t, err)
	form = decodeResult[QuestionnaireResult](t, result)
	for _, q := range form.Questions {
		if q.ID == schema.ShadowOnset {
			assert.True(t, q.Visible)
		}
		if q.ID == schema.FlashesOnset {
			assert.False(t, q.Visible)
		}
	}
}

func TestCheckCompleteness(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	answers := lowRiskAnswers()
	answers["shadow"] = "yes"

	result, _, err := server.handleCheckCompleteness(ctx, nil, AnswersParams{Answers: answers})
	require.NoError(t, err)
	missing := decodeResult[i18n.MissingView](t, result)
	assert.False(t, missing.Complete)
	assert.Equal(t, []domain.QuestionID{schema.ShadowOnset}, missing.Missing)

	result, _, err = server.handleCheckCompleteness(ctx, nil, AnswersParams{Answers: lowRiskAnswers()})
	require.NoError(t, err)
	assert.True(t, decodeResult[i18n.MissingView](t, result).Complete)
}

func TestAssessRisk(t *testing.T) {
	server, recorder := newTestServer(t)
	ctx := context.Background()

	answers := lowRiskAnswers()
	answers["prior_rd"] = "yes"

	result, _, err := server.handleAssessRisk(ctx, nil, AnswersParams{Answers: answers, Locale: "fr"})
	require.NoError(t, err)
	outcome := decodeResult[outcomeResult](t, result)
	assert.Equal(t, 5, outcome.Points)
	assert.Equal(t, 8.0, outcome.Percentage)
	assert.Equal(t, domain.MODERATE, outcome.Tier)
	assert.Equal(t, "fr", outcome.Locale)
	assert.NotEmpty(t, outcome.Advice.Headline)

	recorder.Wait()
	result, _, err = server.handleAssessmentStats(ctx, nil, StatsParams{})
	require.NoError(t, err)
	totals := decodeResult[domain.CounterTotals](t, result)
	assert.Equal(t, int64(1), totals.Total)
	assert.Equal(t, int64(1), totals.ByTier[domain.MODERATE])
}

func TestAssessRisk_Errors(t *testing.T) {
	server, recorder := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		answers map[string]any
		want    string
	}{
		{
			name:    "incomplete",
			answers: map[string]any{"age": 40},
			want:    "Please complete all required fields",
		},
		{
			name:    "unknown question",
			answers: map[string]any{"favourite_colour": "blue"},
			want:    "Invalid answers",
		},
		{
			name: "out of range",
			answers: func() map[string]any {
				a := lowRiskAnswers()
				a["age"] = 150
				return a
			}(),
			want: "between 0 and 120",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := server.handleAssessRisk(ctx, nil, AnswersParams{Answers: tt.answers})
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}

	recorder.Wait()
	totals, err := recorder.Totals(ctx)
	require.NoError(t, err)
	assert.Zero(t, totals.Total)
}

func TestSessionTools(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	result, _, err := server.handleStartSession(ctx, nil, SessionParams{})
	require.NoError(t, err)
	started := decodeResult[SessionResult](t, result)
	require.NotEmpty(t, started.SessionID)
	assert.False(t, started.Complete)

	var progress SessionResult
	for id, value := range lowRiskAnswers() {
		result, _, err = server.handleAnswerQuestion(ctx, nil, AnswerQuestionParams{
			SessionID:  started.SessionID,
			QuestionID: id,
			Value:      value,
		})
		require.NoError(t, err)
		progress = decodeResult[SessionResult](t, result)
	}
	assert.True(t, progress.Complete)

	result, _, err = server.handleEvaluateSession(ctx, nil, SessionParams{SessionID: started.SessionID})
	require.NoError(t, err)
	outcome := decodeResult[outcomeResult](t, result)
	assert.Equal(t, domain.LOW, outcome.Tier)

	// a nil value clears the answer
	result, _, err = server.handleAnswerQuestion(ctx, nil, AnswerQuestionParams{
		SessionID:  started.SessionID,
		QuestionID: string(schema.Age),
	})
	require.NoError(t, err)
	progress = decodeResult[SessionResult](t, result)
	assert.False(t, progress.Complete)
	assert.Equal(t, []domain.QuestionID{schema.Age}, progress.Missing.Missing)

	result, _, err = server.handleEvaluateSession(ctx, nil, SessionParams{SessionID: "missing"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Session not found")
}

func TestReadSchemaResource(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.readSchemaResource(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, SchemaResourceURI, result.Contents[0].URI)

	var form QuestionnaireResult
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &form))
	assert.Equal(t, "en", form.Locale)
}

func TestNewLiteServer(t *testing.T) {
	cfg := config.DefaultLiteConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.LogLevel = "error"

	lite, err := NewLiteServer(cfg)
	require.NoError(t, err)
	assert.FileExists(t, cfg.CounterDBPath())

	result, _, err := lite.Server().handleAssessRisk(context.Background(), nil, AnswersParams{Answers: lowRiskAnswers()})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.NoError(t, lite.Close())
}

func TestNewLiteServer_WithOptions(t *testing.T) {
	cfg := config.DefaultLiteConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "unused")
	logger := testLogger()

	lite, err := NewLiteServer(cfg, WithLogger(logger), WithCounterStore(counter.NewMemoryStore()))
	require.NoError(t, err)
	assert.Same(t, logger, lite.logger)
	assert.NoDirExists(t, cfg.DataDir)
	require.NoError(t, lite.Close())
}
