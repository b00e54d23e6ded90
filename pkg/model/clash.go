package model

import (
	"sort"
	"strings"
	"time"
)

// Category enumerates the eleven clash categories. The declared order is the
// detection order, which in turn fixes the report order.
type Category string

const (
	CatGeometry            Category = "geometry"
	CatPlateAlignment      Category = "plate_member_alignment"
	CatBasePlate           Category = "base_plate"
	CatWeld                Category = "weld"
	CatBoltSpacing         Category = "bolt_spacing_edge"
	CatMemberGeometry      Category = "member_geometry"
	CatConnectionAlignment Category = "connection_alignment"
	CatAnchorage           Category = "anchorage_foundation"
	CatPlateProperties     Category = "plate_properties"
	CatBoltProperties      Category = "bolt_properties"
	CatStructuralLogic     Category = "structural_logic"
)

// Categories returns the eleven categories in canonical detection order.
func Categories() []Category {
	return []Category{
		CatGeometry, CatPlateAlignment, CatBasePlate, CatWeld,
		CatBoltSpacing, CatMemberGeometry, CatConnectionAlignment,
		CatAnchorage, CatPlateProperties, CatBoltProperties,
		CatStructuralLogic,
	}
}

// Severity ranks a clash by engineering consequence.
type Severity string

const (
	SevCritical Severity = "CRITICAL"
	SevMajor    Severity = "MAJOR"
	SevModerate Severity = "MODERATE"
	SevMinor    Severity = "MINOR"
)

// Clash is a detected geometric or code-compliance defect. Clash IDs are
// derived from the check code and the affected element ids, so detecting the
// same defect twice yields the same record — the idempotence the revalidation
// loop depends on.
type Clash struct {
	ID          string    `json:"id" yaml:"id"`
	Category    Category  `json:"category" yaml:"category"`
	Code        string    `json:"code" yaml:"code"`
	Severity    Severity  `json:"severity" yaml:"severity"`
	Confidence  float64   `json:"confidence" yaml:"confidence"`
	Description string    `json:"description" yaml:"description"`
	ElementIDs  []string  `json:"elements" yaml:"elements"`
	Iteration   int       `json:"iteration" yaml:"iteration"`
	DetectedAt  time.Time `json:"detected_at" yaml:"detected_at"`
}

// ClashID builds the deterministic identifier for a check code applied to a
// set of elements.
func ClashID(code string, elementIDs ...string) string {
	ids := append([]string(nil), elementIDs...)
	sort.Strings(ids)
	return code + "/" + strings.Join(ids, "+")
}

// CorrectionStatus is the outcome of a correction attempt.
type CorrectionStatus string

const (
	StatusCorrected      CorrectionStatus = "CORRECTED"
	StatusReviewRequired CorrectionStatus = "REVIEW_REQUIRED"
	StatusFailed         CorrectionStatus = "FAILED"
)

// Correction records what the corrector did about one clash. Immutable once
// emitted into the report.
type Correction struct {
	ID         string             `json:"id" yaml:"id"`
	ClashID    string             `json:"clash_id" yaml:"clash_id"`
	Action     string             `json:"action" yaml:"action"`
	NewValues  map[string]float64 `json:"new_values,omitempty" yaml:"new_values,omitempty"`
	Status     CorrectionStatus   `json:"status" yaml:"status"`
	Confidence float64            `json:"confidence" yaml:"confidence"`
	Iteration  int                `json:"iteration" yaml:"iteration"`
}

// Anomaly reports an input-level problem (degenerate member, implausible
// supplied joint) that excluded data from the run without aborting it.
type Anomaly struct {
	Code       string   `json:"code" yaml:"code"`
	Message    string   `json:"message" yaml:"message"`
	ElementIDs []string `json:"elements,omitempty" yaml:"elements,omitempty"`
}
