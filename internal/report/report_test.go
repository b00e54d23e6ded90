package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"girder/internal/format"
	"girder/pkg/model"
)

func sampleReport() model.ValidationReport {
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return model.ValidationReport{
		RunID:          "run-1",
		Structure:      "portal",
		Status:         model.RunPassedWithReview,
		IterationsUsed: 2,
		Clashes: []model.Clash{
			{
				ID:          "MEMBER_OVERLAP/beam-1+beam-2",
				Code:        "MEMBER_OVERLAP",
				Category:    model.CatMemberGeometry,
				Severity:    model.SevMajor,
				ElementIDs:  []string{"beam-1", "beam-2"},
				Description: "members beam-1 and beam-2 run parallel 10.0 mm apart",
			},
		},
		Corrections: []model.Correction{
			{
				ID:         "c-1",
				ClashID:    "MEMBER_OVERLAP/beam-1+beam-2",
				Action:     "engineering_review",
				Status:     model.StatusReviewRequired,
				Confidence: 0.5,
				Iteration:  1,
			},
		},
		Stages: []model.StageReport{
			{Stage: "classify", Status: model.StageOK, Duration: 3 * time.Millisecond, Counts: map[string]int{"joints": 2}},
			{Stage: "detect", Status: model.StageOK, Duration: 8 * time.Millisecond, Counts: map[string]int{"clashes": 1}},
		},
		Anomalies:  []model.Anomaly{{Code: "MEMBER_INVALID", Message: "member x has zero length"}},
		StartedAt:  start,
		FinishedAt: start.Add(42 * time.Millisecond),
	}
}

func TestSummary_ASCII(t *testing.T) {
	out := Summary(sampleReport(), format.ASCII)

	assert.Contains(t, out, "portal")
	assert.Contains(t, out, "Passed (review required)")
	assert.Contains(t, out, "MEMBER_OVERLAP")
	assert.Contains(t, out, "Member Geometry")
	assert.Contains(t, out, "engineering_review")
	assert.Contains(t, out, "Review Required")
	assert.Contains(t, out, "MEMBER_INVALID")
	// The clash table footer is uppercased by the ASCII table style.
	assert.Contains(t, out, "1 MAJOR")
	assert.Contains(t, out, "2 correction iteration(s)")
}

func TestSummary_MarkdownDiffers(t *testing.T) {
	r := sampleReport()
	ascii := Summary(r, format.ASCII)
	md := Summary(r, format.Markdown)
	assert.NotEqual(t, ascii, md)
	assert.Contains(t, md, "| Code")
}

func TestSummary_CleanRunOmitsClashSections(t *testing.T) {
	r := sampleReport()
	r.Status = model.RunPassed
	r.Clashes = nil
	r.Corrections = nil
	r.Anomalies = nil
	out := Summary(r, format.ASCII)

	assert.NotContains(t, out, "Clashes")
	assert.NotContains(t, out, "Corrections")
	assert.NotContains(t, out, "Input anomalies")
	assert.Contains(t, out, "Passed")
}

func TestJSON_RoundTrips(t *testing.T) {
	out := &model.Output{Report: sampleReport()}
	data, err := JSON(out)
	require.NoError(t, err)

	var decoded model.Output
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.Report.RunID)
	assert.Equal(t, model.RunPassedWithReview, decoded.Report.Status)
	assert.True(t, strings.HasPrefix(string(data), "{\n"), "expected indented JSON")
}

func TestCountsSummary_SortedAndStable(t *testing.T) {
	got := countsSummary(map[string]int{"plates": 4, "bolts": 16, "joints": 2})
	assert.Equal(t, "bolts=16 joints=2 plates=4", got)
	assert.Equal(t, "", countsSummary(nil))
}
