package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"girder/pkg/model"
	"girder/pkg/pipeline"
)

const portalYAML = `
name: portal
members:
  - id: col-1
    kind: column
    start: [0, 0, 0]
    end: [0, 0, 3000]
    profile: W310x39
    material: A992
  - id: col-2
    kind: column
    start: [6000, 0, 0]
    end: [6000, 0, 3000]
    profile: W310x39
    material: A992
  - id: beam-1
    kind: beam
    start: [0, 0, 3000]
    end: [6000, 0, 3000]
    profile: W310x39
    material: A992
`

func testServer() *Server {
	return NewServer(pipeline.New(pipeline.Options{}))
}

func TestValidate_CleanStructure(t *testing.T) {
	s := testServer()

	_, out, err := s.handleValidate(context.Background(), nil, validateInput{Structure: portalYAML, Format: "yaml"})
	require.NoError(t, err)

	assert.Equal(t, "portal", out.Structure)
	assert.Equal(t, string(model.RunPassed), out.Status)
	assert.Zero(t, out.Clashes)
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, 1, s.RunCount())
}

func TestValidate_FormatDetection(t *testing.T) {
	s := testServer()

	_, out, err := s.handleValidate(context.Background(), nil, validateInput{Structure: portalYAML})
	require.NoError(t, err)
	assert.Equal(t, "portal", out.Structure)
}

func TestValidate_RejectsBadInput(t *testing.T) {
	s := testServer()
	ctx := context.Background()

	_, _, err := s.handleValidate(ctx, nil, validateInput{})
	assert.Error(t, err)

	_, _, err = s.handleValidate(ctx, nil, validateInput{Structure: portalYAML, Format: "xml"})
	assert.Error(t, err)

	_, _, err = s.handleValidate(ctx, nil, validateInput{Structure: "members: []", Format: "yaml"})
	assert.Error(t, err)
}

func TestGetReport_ReturnsFullOutput(t *testing.T) {
	s := testServer()
	ctx := context.Background()

	_, summary, err := s.handleValidate(ctx, nil, validateInput{Structure: portalYAML})
	require.NoError(t, err)

	_, rep, err := s.handleGetReport(ctx, nil, getReportInput{RunID: summary.RunID})
	require.NoError(t, err)
	require.NotNil(t, rep.Output)
	assert.Equal(t, summary.RunID, rep.Output.Report.RunID)
	assert.NotEmpty(t, rep.Output.Plates)
	assert.NotEmpty(t, rep.Output.Bolts)

	_, _, err = s.handleGetReport(ctx, nil, getReportInput{RunID: "nope"})
	assert.Error(t, err)
}

func TestListChecks_CoversEveryCategory(t *testing.T) {
	s := testServer()

	_, out, err := s.handleListChecks(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	assert.Len(t, out.Checks, 36)

	cats := make(map[string]bool)
	for _, c := range out.Checks {
		require.NotEmpty(t, c.Category, "code %s has no category", c.Code)
		cats[c.Category] = true
	}
	assert.Len(t, cats, 11)
}

func TestKeep_EvictsOldestPastCap(t *testing.T) {
	s := testServer()

	for i := 0; i < maxKeptRuns+3; i++ {
		out := &model.Output{}
		out.Report.RunID = fmt.Sprintf("run-%03d", i)
		s.keep(out)
	}

	assert.Equal(t, maxKeptRuns, s.RunCount())
	_, rep, err := s.handleGetReport(context.Background(), nil, getReportInput{RunID: "run-000"})
	assert.Error(t, err)
	assert.Nil(t, rep.Output)
}
