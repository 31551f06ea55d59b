package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/i18n"
	"github.com/rd-risk-mcp-server/internal/service"
)

// Tool names
const (
	ToolListQuestions     = "list_questions"
	ToolCheckCompleteness = "check_completeness"
	ToolAssessRisk        = "assess_risk"
	ToolStartSession      = "start_session"
	ToolAnswerQuestion    = "answer_question"
	ToolEvaluateSession   = "evaluate_session"
	ToolAssessmentStats   = "assessment_stats"
)

// SchemaResourceURI addresses the questionnaire resource
const SchemaResourceURI = "rd-risk://schema"

// ListQuestionsParams defines parameters for list_questions
type ListQuestionsParams struct {
	Locale string         `json:"locale,omitempty" jsonschema:"display language such as en, es or fr"`
	Given  map[string]any `json:"answers,omitempty" jsonschema:"answers so far, used to mark which follow-up questions are visible"`
}

// AnswersParams defines parameters for tools that take a whole answer set
type AnswersParams struct {
	Answers map[string]any `json:"answers" jsonschema:"answers keyed by question id"`
	Locale  string         `json:"locale,omitempty" jsonschema:"display language such as en, es or fr"`
}

// SessionParams addresses one session
type SessionParams struct {
	SessionID string `json:"session_id" jsonschema:"id returned by start_session"`
	Locale    string `json:"locale,omitempty" jsonschema:"display language such as en, es or fr"`
}

// AnswerQuestionParams sets or clears one answer in a session
type AnswerQuestionParams struct {
	SessionID  string `json:"session_id" jsonschema:"id returned by start_session"`
	QuestionID string `json:"question_id" jsonschema:"question to answer"`
	Value      any    `json:"value,omitempty" jsonschema:"the answer; omit or null to clear it"`
	Locale     string `json:"locale,omitempty" jsonschema:"display language such as en, es or fr"`
}

// StatsParams is empty; assessment_stats takes no arguments
type StatsParams struct{}

// QuestionnaireResult is the output of list_questions
type QuestionnaireResult struct {
	Locale     string              `json:"locale"`
	Title      string              `json:"title"`
	Intro      string              `json:"intro"`
	Disclaimer string              `json:"disclaimer"`
	Questions  []i18n.QuestionView `json:"questions"`
}

// SessionResult is the progress of a session
type SessionResult struct {
	SessionID string              `json:"session_id"`
	Answers   domain.AnswerSet    `json:"answers"`
	Visible   []domain.QuestionID `json:"visible"`
	Missing   i18n.MissingView    `json:"missing"`
	Complete  bool                `json:"complete"`
}

func (s *Server) handleListQuestions(ctx context.Context, req *mcp.CallToolRequest, params ListQuestionsParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolListQuestions).Debug("Tool invoked")

	l := s.deps.Catalog.Match(params.Locale)
	answers := domain.AnswerSet{}
	if len(params.Given) > 0 {
		parsed, err := s.parser.ParseAnswers(params.Given)
		if err != nil {
			return s.failure(l, err), nil, nil
		}
		answers = parsed
	}

	return s.success(QuestionnaireResult{
		Locale:     l.Tag,
		Title:      l.Title,
		Intro:      l.Intro,
		Disclaimer: l.Disclaimer,
		Questions:  l.Form(s.deps.Assessment.Schema(), answers),
	}), nil, nil
}

func (s *Server) handleCheckCompleteness(ctx context.Context, req *mcp.CallToolRequest, params AnswersParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolCheckCompleteness).Debug("Tool invoked")

	l := s.deps.Catalog.Match(params.Locale)
	answers, err := s.parser.ParseAnswers(params.Answers)
	if err != nil {
		return s.failure(l, err), nil, nil
	}
	return s.success(l.MissingFields(s.deps.Assessment.MissingRequired(answers))), nil, nil
}

func (s *Server) handleAssessRisk(ctx context.Context, req *mcp.CallToolRequest, params AnswersParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolAssessRisk).Debug("Tool invoked")

	l := s.deps.Catalog.Match(params.Locale)
	answers, err := s.parser.ParseAnswers(params.Answers)
	if err != nil {
		return s.failure(l, err), nil, nil
	}
	outcome, err := s.deps.Assessment.Evaluate(ctx, answers)
	if err != nil {
		return s.failure(l, err), nil, nil
	}
	return s.success(l.Outcome(outcome)), nil, nil
}

func (s *Server) handleStartSession(ctx context.Context, req *mcp.CallToolRequest, params SessionParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolStartSession).Debug("Tool invoked")

	l := s.deps.Catalog.Match(params.Locale)
	session, err := s.deps.Sessions.Start(ctx)
	if err != nil {
		return s.failure(l, err), nil, nil
	}
	status, err := s.deps.Sessions.Status(ctx, session.ID)
	if err != nil {
		return s.failure(l, err), nil, nil
	}
	return s.success(sessionResult(l, status)), nil, nil
}

func (s *Server) handleAnswerQuestion(ctx context.Context, req *mcp.CallToolRequest, params AnswerQuestionParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithFields(logrus.Fields{
		"tool":     ToolAnswerQuestion,
		"question": params.QuestionID,
	}).Debug("Tool invoked")

	l := s.deps.Catalog.Match(params.Locale)
	var (
		status *service.SessionStatus
		err    error
	)
	if params.Value == nil {
		status, err = s.deps.Sessions.ClearAnswer(ctx, params.SessionID, params.QuestionID)
	} else {
		status, err = s.deps.Sessions.SetAnswer(ctx, params.SessionID, params.QuestionID, params.Value)
	}
	if err != nil {
		return s.failure(l, err), nil, nil
	}
	return s.success(sessionResult(l, status)), nil, nil
}

func (s *Server) handleEvaluateSession(ctx context.Context, req *mcp.CallToolRequest, params SessionParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolEvaluateSession).Debug("Tool invoked")

	l := s.deps.Catalog.Match(params.Locale)
	outcome, err := s.deps.Sessions.Evaluate(ctx, params.SessionID)
	if err != nil {
		return s.failure(l, err), nil, nil
	}
	return s.success(l.Outcome(outcome)), nil, nil
}

func (s *Server) handleAssessmentStats(ctx context.Context, req *mcp.CallToolRequest, params StatsParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolAssessmentStats).Debug("Tool invoked")

	totals, err := s.deps.Stats.Totals(ctx)
	if err != nil {
		return s.createErrorResult("Counter unavailable", err), nil, nil
	}
	return s.success(totals), nil, nil
}

func (s *Server) readSchemaResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	l := s.deps.Catalog.Default()
	data, err := json.MarshalIndent(QuestionnaireResult{
		Locale:     l.Tag,
		Title:      l.Title,
		Intro:      l.Intro,
		Disclaimer: l.Disclaimer,
		Questions:  l.Form(s.deps.Assessment.Schema(), domain.AnswerSet{}),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode questionnaire: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      SchemaResourceURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func sessionResult(l *i18n.Locale, status *service.SessionStatus) SessionResult {
	return SessionResult{
		SessionID: status.Session.ID,
		Answers:   status.Session.Answers,
		Visible:   status.Visible,
		Missing:   l.MissingFields(status.Missing),
		Complete:  status.Complete,
	}
}

// success renders v as indented JSON text
func (s *Server) success(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s.createErrorResult("Failed to encode result", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}

// failure turns a service error into a tool error the model can act on
func (s *Server) failure(l *i18n.Locale, err error) *mcp.CallToolResult {
	var (
		violation *domain.ContractViolation
		invalid   *domain.ValidationError
	)
	switch {
	case errors.As(err, &violation) && len(violation.Unknown) == 0 && len(violation.Invalid) == 0:
		return s.createErrorResult(l.MissingMessage(violation.Missing), nil)
	case errors.As(err, &violation):
		return s.createErrorResult("Answers do not match the questionnaire", err)
	case errors.Is(err, domain.ErrSessionNotFound):
		return s.createErrorResult("Session not found or expired", nil)
	case errors.Is(err, domain.ErrUnknownQuestion), errors.As(err, &invalid):
		return s.createErrorResult("Invalid answers", err)
	}

	s.logger.WithError(err).Error("Tool call failed")
	return s.createErrorResult("Internal error", err)
}

// createErrorResult creates an error result for tool calls
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
