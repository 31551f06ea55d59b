package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/i18n"
	"github.com/rd-risk-mcp-server/internal/middleware"
	"github.com/rd-risk-mcp-server/internal/service"
)

// AnswersRequest carries a whole answer set keyed by question id
type AnswersRequest struct {
	Answers map[string]any `json:"answers"`
}

// AnswerRequest carries the value for a single question
type AnswerRequest struct {
	Value any `json:"value"`
}

// SchemaResponse is the localized questionnaire
type SchemaResponse struct {
	Locale     string              `json:"locale"`
	Title      string              `json:"title"`
	Intro      string              `json:"intro"`
	Disclaimer string              `json:"disclaimer"`
	Questions  []i18n.QuestionView `json:"questions"`
}

// SessionResponse is the progress view of a session
type SessionResponse struct {
	ID        string              `json:"id"`
	Answers   domain.AnswerSet    `json:"answers"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Visible   []domain.QuestionID `json:"visible"`
	Missing   i18n.MissingView    `json:"missing"`
	Complete  bool                `json:"complete"`
}

// locale picks the display language: ?lang= wins over Accept-Language
func (s *Server) locale(c *gin.Context) *i18n.Locale {
	pref := c.Query("lang")
	if pref == "" {
		pref = c.GetHeader("Accept-Language")
	}
	l := s.deps.Catalog.Match(pref)
	c.Header("Content-Language", l.Tag)
	return l
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.deps.Health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}
	status := s.deps.Health.Check(c.Request.Context())
	c.JSON(status.HTTPStatus(), status)
}

func (s *Server) handleSchema(c *gin.Context) {
	l := s.locale(c)
	c.JSON(http.StatusOK, SchemaResponse{
		Locale:     l.Tag,
		Title:      l.Title,
		Intro:      l.Intro,
		Disclaimer: l.Disclaimer,
		Questions:  l.Form(s.deps.Assessment.Schema(), domain.AnswerSet{}),
	})
}

// bindAnswers decodes and validates an answer-set body
func (s *Server) bindAnswers(c *gin.Context) (domain.AnswerSet, bool) {
	var req AnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Request body must be a JSON object with an answers map", err)
		return nil, false
	}
	answers, err := s.parser.ParseAnswers(req.Answers)
	if err != nil {
		s.respondError(c, s.locale(c), err)
		return nil, false
	}
	return answers, true
}

func (s *Server) handleMissing(c *gin.Context) {
	answers, ok := s.bindAnswers(c)
	if !ok {
		return
	}
	l := s.locale(c)
	c.JSON(http.StatusOK, l.MissingFields(s.deps.Assessment.MissingRequired(answers)))
}

func (s *Server) handleEvaluate(c *gin.Context) {
	answers, ok := s.bindAnswers(c)
	if !ok {
		return
	}
	l := s.locale(c)
	outcome, err := s.deps.Assessment.Evaluate(c.Request.Context(), answers)
	if err != nil {
		s.respondError(c, l, err)
		return
	}
	c.JSON(http.StatusOK, l.Outcome(outcome))
}

func (s *Server) sessionResponse(l *i18n.Locale, status *service.SessionStatus) SessionResponse {
	return SessionResponse{
		ID:        status.Session.ID,
		Answers:   status.Session.Answers,
		CreatedAt: status.Session.CreatedAt,
		UpdatedAt: status.Session.UpdatedAt,
		Visible:   status.Visible,
		Missing:   l.MissingFields(status.Missing),
		Complete:  status.Complete,
	}
}

func (s *Server) handleStartSession(c *gin.Context) {
	l := s.locale(c)
	session, err := s.deps.Sessions.Start(c.Request.Context())
	if err != nil {
		s.respondError(c, l, err)
		return
	}
	status, err := s.deps.Sessions.Status(c.Request.Context(), session.ID)
	if err != nil {
		s.respondError(c, l, err)
		return
	}
	c.JSON(http.StatusCreated, s.sessionResponse(l, status))
}

func (s *Server) handleGetSession(c *gin.Context) {
	l := s.locale(c)
	status, err := s.deps.Sessions.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, l, err)
		return
	}
	c.JSON(http.StatusOK, s.sessionResponse(l, status))
}

func (s *Server) handleSetAnswer(c *gin.Context) {
	l := s.locale(c)
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Request body must be a JSON object with a value", err)
		return
	}
	status, err := s.deps.Sessions.SetAnswer(c.Request.Context(), c.Param("id"), c.Param("question"), req.Value)
	if err != nil {
		s.respondError(c, l, err)
		return
	}
	c.JSON(http.StatusOK, s.sessionResponse(l, status))
}

func (s *Server) handleClearAnswer(c *gin.Context) {
	l := s.locale(c)
	status, err := s.deps.Sessions.ClearAnswer(c.Request.Context(), c.Param("id"), c.Param("question"))
	if err != nil {
		s.respondError(c, l, err)
		return
	}
	c.JSON(http.StatusOK, s.sessionResponse(l, status))
}

func (s *Server) handleEvaluateSession(c *gin.Context) {
	l := s.locale(c)
	outcome, err := s.deps.Sessions.Evaluate(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, l, err)
		return
	}
	c.JSON(http.StatusOK, l.Outcome(outcome))
}

func (s *Server) handleResetSession(c *gin.Context) {
	l := s.locale(c)
	session, err := s.deps.Sessions.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, l, err)
		return
	}
	status, err := s.deps.Sessions.Status(c.Request.Context(), session.ID)
	if err != nil {
		s.respondError(c, l, err)
		return
	}
	c.JSON(http.StatusCreated, s.sessionResponse(l, status))
}

// requireAdmin gates a route behind the configured admin token. With no token configured
// the route does not exist.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString(middleware.CorrelationIDKey)
		expected := s.configManager.GetConfig().Admin.Token
		if expected == "" || s.deps.Stats == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{
				APIError: domain.NewAPIError(domain.ErrCodeNotFound, "Not found", "", requestID),
			})
			return
		}

		token := c.GetHeader("X-Admin-Token")
		if token == "" {
			token = c.Query("admin_token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			s.logger.WithField("client_ip", c.ClientIP()).Warn("Rejected admin request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				APIError: domain.NewAPIError(domain.ErrCodeUnauthorized, "Invalid admin token", "", requestID),
			})
			return
		}
		c.Next()
	}
}

func (s *Server) handleStats(c *gin.Context) {
	totals, err := s.deps.Stats.Totals(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read assessment counter")
		c.JSON(http.StatusServiceUnavailable, errorResponse{
			APIError: domain.NewAPIError(domain.ErrCodeStorage, "Counter unavailable", "", c.GetString(middleware.CorrelationIDKey)),
		})
		return
	}
	c.JSON(http.StatusOK, totals)
}
