package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/i18n"
	"github.com/rd-risk-mcp-server/internal/middleware"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	*domain.APIError
	Fields  []*domain.ValidationError `json:"fields,omitempty"`
	Missing *i18n.MissingView         `json:"missing,omitempty"`
	Unknown []domain.QuestionID       `json:"unknown,omitempty"`
	Invalid []domain.QuestionID       `json:"invalid,omitempty"`
}

// fieldErrors flattens joined and wrapped validation errors
func fieldErrors(err error) []*domain.ValidationError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*domain.ValidationError
		for _, e := range joined.Unwrap() {
			out = append(out, fieldErrors(e)...)
		}
		return out
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return []*domain.ValidationError{ve}
	}
	return nil
}

// respondError maps service errors onto HTTP responses
func (s *Server) respondError(c *gin.Context, locale *i18n.Locale, err error) {
	requestID := c.GetString(middleware.CorrelationIDKey)

	var violation *domain.ContractViolation
	switch {
	case errors.As(err, &violation):
		resp := errorResponse{
			APIError: domain.NewAPIError(domain.ErrCodeIncomplete, "Assessment is incomplete", violation.Reason, requestID),
			Unknown:  violation.Unknown,
			Invalid:  violation.Invalid,
		}
		if len(violation.Missing) > 0 {
			missing := locale.MissingFields(violation.Missing)
			resp.Missing = &missing
		}
		if len(violation.Unknown) > 0 || len(violation.Invalid) > 0 {
			resp.Code = domain.ErrCodeContractViolation
		}
		c.JSON(http.StatusUnprocessableEntity, resp)

	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{
			APIError: domain.NewAPIError(domain.ErrCodeNotFound, "Session not found or expired", "", requestID),
		})

	case errors.Is(err, domain.ErrUnknownQuestion) && c.Param("question") != "":
		c.JSON(http.StatusNotFound, errorResponse{
			APIError: domain.NewAPIError(domain.ErrCodeNotFound, "Unknown question", c.Param("question"), requestID),
		})

	case len(fieldErrors(err)) > 0:
		c.JSON(http.StatusBadRequest, errorResponse{
			APIError: domain.NewAPIError(domain.ErrCodeInvalidInput, "Invalid answers", err.Error(), requestID),
			Fields:   fieldErrors(err),
		})

	default:
		s.logger.WithError(err).WithFields(logrus.Fields{
			"correlation_id": requestID,
			"path":           c.FullPath(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{
			APIError: domain.NewAPIError(domain.ErrCodeInternalServer, "Internal server error", "", requestID),
		})
	}
}

func (s *Server) badRequest(c *gin.Context, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	c.JSON(http.StatusBadRequest, errorResponse{
		APIError: domain.NewAPIError(domain.ErrCodeInvalidInput, message, details, c.GetString(middleware.CorrelationIDKey)),
	})
}
