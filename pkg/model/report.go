package model

import "time"

// RunStatus is the overall outcome of a validation run.
type RunStatus string

const (
	RunPassed           RunStatus = "PASSED"
	RunPassedWithReview RunStatus = "PASSED_WITH_REVIEW"
	RunFailed           RunStatus = "FAILED"
)

// StageStatus is the outcome of one pipeline stage.
type StageStatus string

const (
	StageOK     StageStatus = "ok"
	StageFailed StageStatus = "failed"
)

// StageReport summarizes one pipeline stage: what it was, how long it took,
// and what it counted. Counts keys are stage-specific (joints, plates,
// clashes, corrected, ...).
type StageReport struct {
	Stage    string         `json:"stage" yaml:"stage"`
	Status   StageStatus    `json:"status" yaml:"status"`
	Duration time.Duration  `json:"duration_ns" yaml:"duration_ns"`
	Counts   map[string]int `json:"counts,omitempty" yaml:"counts,omitempty"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// ValidationReport is the final artifact of a run: the overall status, the
// clash/correction history, the per-stage timings, and any input anomalies.
// Reports are immutable once emitted.
type ValidationReport struct {
	RunID          string        `json:"run_id" yaml:"run_id"`
	Structure      string        `json:"structure,omitempty" yaml:"structure,omitempty"`
	Status         RunStatus     `json:"status" yaml:"status"`
	IterationsUsed int           `json:"iterations_used" yaml:"iterations_used"`
	Clashes        []Clash       `json:"clashes" yaml:"clashes"`
	Corrections    []Correction  `json:"corrections" yaml:"corrections"`
	Stages         []StageReport `json:"stages" yaml:"stages"`
	Anomalies      []Anomaly     `json:"anomalies,omitempty" yaml:"anomalies,omitempty"`
	StartedAt      time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt     time.Time     `json:"finished_at" yaml:"finished_at"`
}

// Output is the full result handed to export and reporting consumers: the
// synthesized connection set plus the validation report, in the same schema
// the engine consumed.
type Output struct {
	Joints []Joint `json:"joints" yaml:"joints"`
	Plates []Plate `json:"plates" yaml:"plates"`
	Bolts  []Bolt  `json:"bolts" yaml:"bolts"`
	Welds  []Weld  `json:"welds" yaml:"welds"`

	Report ValidationReport `json:"report" yaml:"report"`
}

// CountBySeverity tallies the report's clashes per severity.
func (r ValidationReport) CountBySeverity() map[Severity]int {
	out := make(map[Severity]int)
	for _, c := range r.Clashes {
		out[c.Severity]++
	}
	return out
}

// CountByCategory tallies the report's clashes per category.
func (r ValidationReport) CountByCategory() map[Category]int {
	out := make(map[Category]int)
	for _, c := range r.Clashes {
		out[c.Category]++
	}
	return out
}
