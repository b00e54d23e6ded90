// Package mcp exposes the validation engine as MCP tools over stdio, so
// agent hosts can validate structures without shelling out to the CLI.
package mcp

import (
	"context"
	"fmt"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"girder/internal/ingest"
	"girder/internal/logging"
	"girder/pkg/clash"
	"girder/pkg/model"
	"girder/pkg/pipeline"
)

// maxKeptRuns bounds the in-memory report cache of a long-lived server.
const maxKeptRuns = 32

// Server wraps the MCP SDK server around a validation pipeline. Finished
// runs are kept in memory so get_report can fetch the full artifact after a
// summary-only validate call.
type Server struct {
	MCPServer *sdkmcp.Server

	pipe *pipeline.Pipeline

	mu    sync.Mutex
	runs  map[string]*model.Output
	order []string
}

// NewServer creates an MCP server exposing the given pipeline.
func NewServer(pipe *pipeline.Pipeline) *Server {
	s := &Server{
		pipe: pipe,
		runs: make(map[string]*model.Output),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "girder", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate_structure",
		Description: "Run the full validation pipeline on a structure (JSON or YAML). Returns the run summary; use get_report for the full artifact.",
	}, s.handleValidate)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_report",
		Description: "Fetch the full output of a finished run: synthesized connections, clashes, corrections, and stage reports.",
	}, s.handleGetReport)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_checks",
		Description: "List every clash check code with its category.",
	}, s.handleListChecks)
}

// --- Tool input/output types ---

type validateInput struct {
	Structure string `json:"structure" jsonschema:"structure document, JSON or YAML, with a members list and optional joints"`
	Format    string `json:"format,omitempty" jsonschema:"format hint: json or yaml (default: detect)"`
}

type validateOutput struct {
	RunID       string         `json:"run_id"`
	Structure   string         `json:"structure"`
	Status      string         `json:"status"`
	Iterations  int            `json:"iterations"`
	Clashes     int            `json:"clashes"`
	Corrections int            `json:"corrections"`
	BySeverity  map[string]int `json:"by_severity,omitempty"`
	Anomalies   int            `json:"anomalies,omitempty"`
}

type getReportInput struct {
	RunID string `json:"run_id" jsonschema:"run ID from validate_structure"`
}

type getReportOutput struct {
	Output *model.Output `json:"output"`
}

type listChecksOutput struct {
	Checks []checkInfo `json:"checks"`
}

type checkInfo struct {
	Code     string `json:"code"`
	Category string `json:"category"`
}

// --- Tool handlers ---

func (s *Server) handleValidate(ctx context.Context, _ *sdkmcp.CallToolRequest, input validateInput) (*sdkmcp.CallToolResult, validateOutput, error) {
	logger := logging.New("mcp")
	if input.Structure == "" {
		return nil, validateOutput{}, fmt.Errorf("structure is required")
	}

	ext := ""
	switch input.Format {
	case "json":
		ext = ".json"
	case "yaml", "yml":
		ext = ".yaml"
	case "":
	default:
		return nil, validateOutput{}, fmt.Errorf("unknown format %q (want json or yaml)", input.Format)
	}

	decoded, err := ingest.Decode([]byte(input.Structure), ext)
	if err != nil {
		return nil, validateOutput{}, err
	}
	in := decoded.Build(logger)
	if len(in.Members) == 0 {
		return nil, validateOutput{}, fmt.Errorf("no valid members in structure")
	}

	out, err := s.pipe.Run(ctx, in.Name, in.Members, in.Joints)
	if err != nil {
		return nil, validateOutput{}, fmt.Errorf("validate: %w", err)
	}
	out.Report.Anomalies = append(in.Anomalies, out.Report.Anomalies...)

	s.keep(out)
	logger.Info("run finished",
		"run", out.Report.RunID, "structure", in.Name, "status", string(out.Report.Status))

	bySev := make(map[string]int)
	for sev, n := range out.Report.CountBySeverity() {
		bySev[string(sev)] = n
	}
	return nil, validateOutput{
		RunID:       out.Report.RunID,
		Structure:   out.Report.Structure,
		Status:      string(out.Report.Status),
		Iterations:  out.Report.IterationsUsed,
		Clashes:     len(out.Report.Clashes),
		Corrections: len(out.Report.Corrections),
		BySeverity:  bySev,
		Anomalies:   len(out.Report.Anomalies),
	}, nil
}

func (s *Server) handleGetReport(_ context.Context, _ *sdkmcp.CallToolRequest, input getReportInput) (*sdkmcp.CallToolResult, getReportOutput, error) {
	s.mu.Lock()
	out, ok := s.runs[input.RunID]
	s.mu.Unlock()
	if !ok {
		return nil, getReportOutput{}, fmt.Errorf("unknown run %q (did it expire from the cache?)", input.RunID)
	}
	return nil, getReportOutput{Output: out}, nil
}

func (s *Server) handleListChecks(_ context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, listChecksOutput, error) {
	codes := clash.Codes()
	checks := make([]checkInfo, len(codes))
	for i, code := range codes {
		checks[i] = checkInfo{Code: code, Category: string(clash.CategoryOf(code))}
	}
	return nil, listChecksOutput{Checks: checks}, nil
}

// keep stores a finished run, evicting the oldest past maxKeptRuns.
func (s *Server) keep(out *model.Output) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[out.Report.RunID] = out
	s.order = append(s.order, out.Report.RunID)
	for len(s.order) > maxKeptRuns {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}

// RunCount reports how many finished runs are cached.
func (s *Server) RunCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}
