package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.Service(t, nil))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so handlers are called directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_daily_briefing":
		result, err = srv.getDailyBriefing(ctx, req)
	case "list_store_risks":
		result, err = srv.listStoreRisks(ctx, req)
	case "get_supervisor_rollups":
		result, err = srv.getSupervisorRollups(ctx, req)
	case "compute_kpi_delta":
		result, err = srv.computeKPIDelta(ctx, req)
	case "list_urgent_insights":
		result, err = srv.listUrgentInsights(ctx, req)
	case "list_sustained_anomalies":
		result, err = srv.listSustainedAnomalies(ctx, req)
	case "list_notices":
		result, err = srv.listNotices(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestDailyBriefing(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_daily_briefing", map[string]interface{}{
		"user_id": "SV-01",
		"name":    "Park",
	})
	if r.IsError {
		t.Fatalf("briefing error: %s", resultText(r))
	}
	var b models.DailyBriefing
	if err := json.Unmarshal([]byte(resultText(r)), &b); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.Summary, "Good morning, Park.") {
		t.Errorf("summary = %q", b.Summary)
	}
	if b.KeyMetrics.TotalIssues != 4 {
		t.Errorf("total issues = %d, want 4", b.KeyMetrics.TotalIssues)
	}
}

func TestDailyBriefingErrors(t *testing.T) {
	srv := testServer(t)
	if r := callTool(t, srv, "get_daily_briefing", map[string]interface{}{}); !r.IsError {
		t.Error("expected error without user_id")
	}
	r := callTool(t, srv, "get_daily_briefing", map[string]interface{}{"user_id": "U-1", "role": "owner"})
	if !r.IsError {
		t.Error("expected error for unknown role")
	}
}

func TestListStoreRisks(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_store_risks", map[string]interface{}{"limit": float64(2)})
	var risks []models.StoreRiskSummary
	if err := json.Unmarshal([]byte(resultText(r)), &risks); err != nil {
		t.Fatal(err)
	}
	if len(risks) != 2 || risks[0].StoreID != "ST-007" {
		t.Errorf("risks = %+v", risks)
	}
}

func TestSupervisorRollups(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_supervisor_rollups", map[string]interface{}{})
	if !strings.Contains(resultText(r), `"supervisorId": "SV-02"`) {
		t.Errorf("rollups = %s", resultText(r))
	}
}

func TestComputeKPIDelta(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "compute_kpi_delta", map[string]interface{}{"current": float64(130), "prior": float64(140)})
	var d models.KPIDelta
	if err := json.Unmarshal([]byte(resultText(r)), &d); err != nil {
		t.Fatal(err)
	}
	if d.Rate != -7.14 || d.Direction != models.DirectionDown {
		t.Errorf("delta = %+v", d)
	}

	r = callTool(t, srv, "compute_kpi_delta", map[string]interface{}{"current": float64(5), "prior": float64(0)})
	if !r.IsError {
		t.Error("expected error for zero prior")
	}
	r = callTool(t, srv, "compute_kpi_delta", map[string]interface{}{"current": float64(5)})
	if !r.IsError {
		t.Error("expected error without prior")
	}
}

func TestUrgentInsightsAndAnomalies(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_urgent_insights", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Seoul South") {
		t.Errorf("insights = %s", resultText(r))
	}

	r = callTool(t, srv, "list_sustained_anomalies", map[string]interface{}{})
	var anomalies []models.SustainedAnomaly
	if err := json.Unmarshal([]byte(resultText(r)), &anomalies); err != nil {
		t.Fatal(err)
	}
	if len(anomalies) != 2 {
		t.Errorf("anomalies = %+v", anomalies)
	}
}

func TestListNotices(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_notices", map[string]interface{}{"keyword": "firmware"})
	if !strings.Contains(resultText(r), "NT-002") {
		t.Errorf("notices = %s", resultText(r))
	}

	r = callTool(t, srv, "list_notices", map[string]interface{}{"keyword": "no such words"})
	if text := resultText(r); text != "no notices found" {
		t.Errorf("empty result = %q", text)
	}
}

func TestBaselineResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readBaselineResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != baselineURI || !strings.Contains(tc.Text, "hygiene_score") {
		t.Errorf("resource = %+v", contents)
	}
}
