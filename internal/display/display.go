// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output, markdown reports, logs, and docs.
// Keep raw codes for JSON fields, map keys, and equality comparisons.
package display

import "strings"

// --- Clash categories ---

var categories = map[string]string{
	"geometry":               "Geometry",
	"plate_member_alignment": "Plate/Member Alignment",
	"base_plate":             "Base Plate",
	"weld":                   "Weld",
	"bolt_spacing_edge":      "Bolt Spacing & Edge Distance",
	"member_geometry":        "Member Geometry",
	"connection_alignment":   "Connection Alignment",
	"anchorage_foundation":   "Anchorage & Foundation",
	"plate_properties":       "Plate Properties",
	"bolt_properties":        "Bolt Properties",
	"structural_logic":       "Structural Logic",
}

// Category returns the human-readable name for a clash category.
// Unknown categories are returned as-is.
func Category(code string) string {
	if name, ok := categories[code]; ok {
		return name
	}
	return code
}

// --- Severities ---

var severities = map[string]string{
	"CRITICAL": "Critical",
	"MAJOR":    "Major",
	"MODERATE": "Moderate",
	"MINOR":    "Minor",
}

// Severity returns the human-readable name for a severity code.
func Severity(code string) string {
	if name, ok := severities[code]; ok {
		return name
	}
	return code
}

// --- Clash codes ---

// ClashCode humanizes a SCREAMING_SNAKE clash code.
// "BOLT_EDGE_DISTANCE_SHORT" -> "Bolt Edge Distance Short".
func ClashCode(code string) string {
	words := strings.Split(strings.ToLower(code), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// --- Pipeline stages ---

var stages = map[string]string{
	"classify":             "Classify",
	"synthesize":           "Synthesize",
	"detect":               "Detect",
	"correct":              "Correct",
	"geometry_validate":    "Geometry Validate",
	"weld_fastener_verify": "Weld & Fastener Verify",
	"anchorage_validate":   "Anchorage Validate",
	"revalidate":           "Revalidate",
}

// Stage returns the human-readable name for a pipeline stage code.
func Stage(code string) string {
	if name, ok := stages[code]; ok {
		return name
	}
	return code
}

// StagePath converts a slice of stage codes to a human-readable path.
// ["classify", "synthesize"] -> "Classify -> Synthesize"
func StagePath(codes []string) string {
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = Stage(c)
	}
	return strings.Join(names, " → ")
}

// --- Correction statuses ---

var correctionStatuses = map[string]string{
	"CORRECTED":       "Corrected",
	"REVIEW_REQUIRED": "Review Required",
	"FAILED":          "Failed",
}

// CorrectionStatus returns the human-readable name for a correction status.
func CorrectionStatus(code string) string {
	if name, ok := correctionStatuses[code]; ok {
		return name
	}
	return code
}

// --- Run statuses ---

var runStatuses = map[string]string{
	"PASSED":             "Passed",
	"PASSED_WITH_REVIEW": "Passed (review required)",
	"FAILED":             "Failed",
}

// RunStatus returns the human-readable name for a run status.
func RunStatus(code string) string {
	if name, ok := runStatuses[code]; ok {
		return name
	}
	return code
}
