package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"girder/pkg/model"
	"girder/pkg/pipeline"
)

func TestOnEvent_CountsRuns(t *testing.T) {
	m := New()

	m.OnEvent(pipeline.Event{Type: pipeline.EventRunComplete, Status: model.RunPassed, Duration: 40 * time.Millisecond, Iteration: 1})
	m.OnEvent(pipeline.Event{Type: pipeline.EventRunComplete, Status: model.RunPassed, Duration: 25 * time.Millisecond})
	m.OnEvent(pipeline.Event{Type: pipeline.EventRunComplete, Status: model.RunPassedWithReview, Duration: 90 * time.Millisecond, Iteration: 5})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("PASSED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("PASSED_WITH_REVIEW")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.runs.WithLabelValues("FAILED")))
}

func TestOnEvent_StageEndOnly(t *testing.T) {
	m := New()

	m.OnEvent(pipeline.Event{Type: pipeline.EventStageStart, Stage: "detect"})
	m.OnEvent(pipeline.Event{Type: pipeline.EventStageEnd, Stage: "detect", Duration: 5 * time.Millisecond})
	m.OnEvent(pipeline.Event{Type: pipeline.EventIteration, Iteration: 1})

	// One stage observation, no run counted.
	count := testutil.CollectAndCount(m.stageDuration)
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, testutil.CollectAndCount(m.runs))
}

func TestObserveReport_BreaksDownClashesAndCorrections(t *testing.T) {
	m := New()
	m.ObserveReport(model.ValidationReport{
		Clashes: []model.Clash{
			{Category: model.CatWeld, Severity: model.SevMajor},
			{Category: model.CatWeld, Severity: model.SevMajor},
			{Category: model.CatBasePlate, Severity: model.SevCritical},
		},
		Corrections: []model.Correction{
			{Status: model.StatusCorrected},
			{Status: model.StatusReviewRequired},
		},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.clashes.WithLabelValues("weld", "MAJOR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clashes.WithLabelValues("base_plate", "CRITICAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.corrections.WithLabelValues("CORRECTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.corrections.WithLabelValues("REVIEW_REQUIRED")))
}

func TestHandler_ServesExposition(t *testing.T) {
	m := New()
	m.OnEvent(pipeline.Event{Type: pipeline.EventRunComplete, Status: model.RunPassed})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "girder_runs_total")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.OnEvent(pipeline.Event{Type: pipeline.EventRunComplete, Status: model.RunPassed})

	assert.Equal(t, 1.0, testutil.ToFloat64(a.runs.WithLabelValues("PASSED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.runs.WithLabelValues("PASSED")))
}
