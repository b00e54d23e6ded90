package display

import "testing"

func TestCategory(t *testing.T) {
	cases := []struct {
		code, want string
	}{
		{"geometry", "Geometry"},
		{"base_plate", "Base Plate"},
		{"bolt_spacing_edge", "Bolt Spacing & Edge Distance"},
		{"anchorage_foundation", "Anchorage & Foundation"},
		{"structural_logic", "Structural Logic"},
		{"unknown", "unknown"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Category(tc.code); got != tc.want {
			t.Errorf("Category(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestSeverity(t *testing.T) {
	cases := []struct {
		code, want string
	}{
		{"CRITICAL", "Critical"},
		{"MAJOR", "Major"},
		{"MODERATE", "Moderate"},
		{"MINOR", "Minor"},
		{"WEIRD", "WEIRD"},
	}
	for _, tc := range cases {
		if got := Severity(tc.code); got != tc.want {
			t.Errorf("Severity(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestClashCode(t *testing.T) {
	cases := []struct {
		code, want string
	}{
		{"BOLT_EDGE_DISTANCE_SHORT", "Bolt Edge Distance Short"},
		{"WELD_MISSING", "Weld Missing"},
		{"PLATE_FLOATING", "Plate Floating"},
	}
	for _, tc := range cases {
		if got := ClashCode(tc.code); got != tc.want {
			t.Errorf("ClashCode(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestStage(t *testing.T) {
	cases := []struct {
		code, want string
	}{
		{"classify", "Classify"},
		{"weld_fastener_verify", "Weld & Fastener Verify"},
		{"revalidate", "Revalidate"},
		{"mystery", "mystery"},
	}
	for _, tc := range cases {
		if got := Stage(tc.code); got != tc.want {
			t.Errorf("Stage(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestStagePath(t *testing.T) {
	got := StagePath([]string{"classify", "synthesize", "detect"})
	want := "Classify → Synthesize → Detect"
	if got != want {
		t.Errorf("StagePath = %q, want %q", got, want)
	}
}

func TestCorrectionStatus(t *testing.T) {
	if got := CorrectionStatus("REVIEW_REQUIRED"); got != "Review Required" {
		t.Errorf("got %q", got)
	}
}

func TestRunStatus(t *testing.T) {
	if got := RunStatus("PASSED_WITH_REVIEW"); got != "Passed (review required)" {
		t.Errorf("got %q", got)
	}
}
