// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes franchise operations tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/opsservice"
)

const baselineURI = "fms://policy/baseline"

// Server wraps the MCP server with franchise operations tools.
type Server struct {
	mcp *server.MCPServer
	svc *opsservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *opsservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"FMS",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_daily_briefing",
		mcp.WithDescription("Compose the daily briefing for a user: todos, priority stores and key metrics."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User id, e.g. SV-01")),
		mcp.WithString("name", mcp.Description("Display name used in the greeting")),
		mcp.WithString("role", mcp.Description("admin, manager or supervisor (default supervisor)")),
	), s.getDailyBriefing)

	s.mcp.AddTool(mcp.NewTool("list_store_risks",
		mcp.WithDescription("List stores ranked by risk, most urgent first."),
		mcp.WithNumber("limit", mcp.Description("Max stores to return, 0 for all")),
	), s.listStoreRisks)

	s.mcp.AddTool(mcp.NewTool("get_supervisor_rollups",
		mcp.WithDescription("Per-supervisor counts of assigned stores, risky stores and pending actions."),
	), s.getSupervisorRollups)

	s.mcp.AddTool(mcp.NewTool("compute_kpi_delta",
		mcp.WithDescription("Period-over-period change rate in percent, rounded to two decimals."),
		mcp.WithNumber("current", mcp.Required(), mcp.Description("Current period value")),
		mcp.WithNumber("prior", mcp.Required(), mcp.Description("Prior period value, must not be zero")),
	), s.computeKPIDelta)

	s.mcp.AddTool(mcp.NewTool("list_urgent_insights",
		mcp.WithDescription("Regions where several stores turned high risk or worse within the detection window."),
	), s.listUrgentInsights)

	s.mcp.AddTool(mcp.NewTool("list_sustained_anomalies",
		mcp.WithDescription("Stores whose baseline metric stayed out of band for the configured number of days."),
	), s.listSustainedAnomalies)

	s.mcp.AddTool(mcp.NewTool("list_notices",
		mcp.WithDescription("List board notices, optionally filtered by keyword."),
		mcp.WithString("keyword", mcp.Description("Keyword matched against title and content")),
	), s.listNotices)

	s.mcp.AddResource(
		mcp.NewResource(baselineURI, "Anomaly Baseline",
			mcp.WithResourceDescription("Current anomaly baseline policy."),
			mcp.WithMIMEType("application/json"),
		),
		s.readBaselineResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDailyBriefing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := s.svc.Briefing(ctx, models.User{
		ID:   userID,
		Name: req.GetString("name", ""),
		Role: req.GetString("role", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("briefing for %s: %v", userID, err)), nil
	}
	return jsonResult(b)
}

func (s *Server) listStoreRisks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	risks, err := s.svc.Risks(ctx, req.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(risks)
}

func (s *Server) getSupervisorRollups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rollups, err := s.svc.SupervisorRollups(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rollups)
}

func (s *Server) computeKPIDelta(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, err := req.RequireFloat("current")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	prior, err := req.RequireFloat("prior")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.KPIDelta(current, prior)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d)
}

func (s *Server) listUrgentInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	insights, err := s.svc.Insights(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(insights) == 0 {
		return mcp.NewToolResultText("no urgent insights"), nil
	}
	return jsonResult(insights)
}

func (s *Server) listSustainedAnomalies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Anomalies(ctx))
}

func (s *Server) listNotices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notices, err := s.svc.ListNotices(ctx, req.GetString("keyword", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(notices) == 0 {
		return mcp.NewToolResultText("no notices found"), nil
	}
	return jsonResult(notices)
}

func (s *Server) readBaselineResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.svc.Baseline(ctx))
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      baselineURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
