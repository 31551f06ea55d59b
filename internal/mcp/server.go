package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/i18n"
	"github.com/rd-risk-mcp-server/internal/service"
)

// StatsProvider reads the aggregate completion counter
type StatsProvider interface {
	Totals(ctx context.Context) (*domain.CounterTotals, error)
}

// Dependencies are the services the tools delegate to. Sessions and Stats may be nil, in which
// case the matching tools are not registered.
type Dependencies struct {
	Assessment *service.AssessmentService
	Sessions   *service.SessionService
	Catalog    *i18n.Catalog
	Stats      StatsProvider
}

// ServerInfo contains MCP server metadata
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Server exposes the screening questionnaire as MCP tools
type Server struct {
	info      ServerInfo
	mcpServer *mcp.Server
	deps      Dependencies
	parser    *service.InputParserService
	logger    *logrus.Logger
}

// NewServer creates a new MCP server instance
func NewServer(info ServerInfo, deps Dependencies, logger *logrus.Logger) (*Server, error) {
	if deps.Assessment == nil || deps.Catalog == nil {
		return nil, fmt.Errorf("assessment service and catalog are required")
	}
	if info.Name == "" {
		info.Name = "rd-risk-mcp-server"
	}
	if info.Version == "" {
		info.Version = "v0.1.0"
	}

	server := &Server{
		info: info,
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    info.Name,
			Version: info.Version,
		}, nil),
		deps:   deps,
		parser: service.NewInputParserService(deps.Assessment.Schema()),
		logger: logger,
	}

	server.registerCapabilities()

	return server, nil
}

// Start serves MCP over stdio until ctx is cancelled or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"server":    s.info.Name,
		"version":   s.info.Version,
		"transport": "stdio",
	}).Info("Starting MCP server")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// registerCapabilities registers all MCP tools and resources
func (s *Server) registerCapabilities() {
	count := 0

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListQuestions,
		Description: "List the screening questionnaire with localized prompts, options and visibility rules",
	}, s.handleListQuestions)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolCheckCompleteness,
		Description: "Report which visible questions are still unanswered for an answer set",
	}, s.handleCheckCompleteness)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolAssessRisk,
		Description: "Score a complete answer set and return the risk percentage, tier and advice",
	}, s.handleAssessRisk)
	count += 3

	if s.deps.Sessions != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        ToolStartSession,
			Description: "Start a screening session that accumulates answers one question at a time",
		}, s.handleStartSession)
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        ToolAnswerQuestion,
			Description: "Record or clear the answer to one question in a session and return its progress",
		}, s.handleAnswerQuestion)
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        ToolEvaluateSession,
			Description: "Evaluate the answers collected in a session",
		}, s.handleEvaluateSession)
		count += 3
	}

	if s.deps.Stats != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        ToolAssessmentStats,
			Description: "Return how many assessments have been completed, per risk tier",
		}, s.handleAssessmentStats)
		count++
	}

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         SchemaResourceURI,
		Name:        "questionnaire",
		Description: "The screening questionnaire in the default locale",
		MIMEType:    "application/json",
	}, s.readSchemaResource)

	s.logger.WithField("tool_count", count).Info("Successfully registered all tools")
}
