// Package report renders validation results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"girder/internal/display"
	"girder/internal/format"
	"girder/pkg/model"
)

// JSON renders the full output (connection set plus report) as indented JSON.
func JSON(out *model.Output) ([]byte, error) {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	return data, nil
}

// Summary renders the validation report as a human-readable summary in the
// given table mode.
func Summary(r model.ValidationReport, mode format.Mode) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Structure: %s\n", r.Structure)
	fmt.Fprintf(&b, "Run:       %s\n", r.RunID)
	fmt.Fprintf(&b, "Status:    %s\n", display.RunStatus(string(r.Status)))
	fmt.Fprintf(&b, "Duration:  %s, %d correction iteration(s)\n",
		format.FmtDuration(r.FinishedAt.Sub(r.StartedAt)), r.IterationsUsed)

	b.WriteString("\nStages\n")
	b.WriteString(stageTable(r.Stages, mode))
	b.WriteString("\n")

	if len(r.Clashes) > 0 {
		b.WriteString("\nClashes\n")
		b.WriteString(clashTable(r.Clashes, mode))
		b.WriteString("\n")
	}
	if len(r.Corrections) > 0 {
		b.WriteString("\nCorrections\n")
		b.WriteString(correctionTable(r.Corrections, mode))
		b.WriteString("\n")
	}
	if len(r.Anomalies) > 0 {
		b.WriteString("\nInput anomalies\n")
		for _, a := range r.Anomalies {
			fmt.Fprintf(&b, "  - %s: %s\n", a.Code, a.Message)
		}
	}
	return b.String()
}

func stageTable(stages []model.StageReport, mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Header("Stage", "OK", "Duration", "Counts")
	for _, s := range stages {
		tb.Row(display.Stage(s.Stage), format.BoolMark(s.Status == model.StageOK),
			format.FmtDuration(s.Duration), countsSummary(s.Counts))
	}
	tb.Columns(format.ColumnConfig{Number: 3, Right: true})
	return tb.String()
}

func clashTable(clashes []model.Clash, mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Header("Code", "Category", "Severity", "Elements", "Message")
	bySeverity := map[model.Severity]int{}
	for _, c := range clashes {
		bySeverity[c.Severity]++
		tb.Row(c.Code, display.Category(string(c.Category)),
			display.Severity(string(c.Severity)),
			strings.Join(c.ElementIDs, ", "),
			format.Truncate(c.Description, 60))
	}
	tb.Footer("TOTAL", "", severitySummary(bySeverity), "", len(clashes))
	return tb.String()
}

func correctionTable(corrections []model.Correction, mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Header("Clash", "Action", "Status", "Confidence", "Iter")
	for _, c := range corrections {
		tb.Row(c.ClashID, c.Action, display.CorrectionStatus(string(c.Status)),
			format.FmtConfidence(c.Confidence), c.Iteration)
	}
	tb.Columns(
		format.ColumnConfig{Number: 1, MaxWidth: 40},
		format.ColumnConfig{Number: 4, Right: true},
		format.ColumnConfig{Number: 5, Right: true},
	)
	return tb.String()
}

// countsSummary renders a counts map as "k=v" pairs in sorted key order.
func countsSummary(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}

func severitySummary(counts map[model.Severity]int) string {
	order := []model.Severity{model.SevCritical, model.SevMajor, model.SevModerate, model.SevMinor}
	var parts []string
	for _, s := range order {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ToLower(string(s))))
		}
	}
	return strings.Join(parts, ", ")
}
