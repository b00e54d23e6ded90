package pipeline

import (
	"context"
	"sync"
	"testing"

	"girder/pkg/clash"
	"girder/pkg/geom"
	"girder/pkg/model"
)

func member(t *testing.T, id string, kind model.MemberKind, s, e geom.Vec3) model.Member {
	t.Helper()
	m, err := model.NewMember(id, kind, s, e, "W310x39", "A992")
	if err != nil {
		t.Fatalf("member %s: %v", id, err)
	}
	return m
}

func portalMembers(t *testing.T) []model.Member {
	return []model.Member{
		member(t, "beam-1", model.KindBeam, geom.V(0, 0, 3000), geom.V(6000, 0, 3000)),
		member(t, "col-1", model.KindColumn, geom.V(0, 0, 0), geom.V(0, 0, 3000)),
		member(t, "col-2", model.KindColumn, geom.V(6000, 0, 0), geom.V(6000, 0, 3000)),
	}
}

func stageNames(stages []model.StageReport) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.Stage
	}
	return out
}

func TestRun_CleanStructurePasses(t *testing.T) {
	p := New(Options{})
	out, err := p.Run(context.Background(), "portal", portalMembers(t), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	r := out.Report
	if r.Status != model.RunPassed {
		t.Fatalf("status = %s, want PASSED (clashes: %d)", r.Status, len(r.Clashes))
	}
	if r.IterationsUsed != 0 {
		t.Fatalf("iterations = %d, want 0", r.IterationsUsed)
	}
	if len(r.Clashes) != 0 || len(r.Corrections) != 0 {
		t.Fatalf("unexpected clashes %d / corrections %d", len(r.Clashes), len(r.Corrections))
	}

	// Even a clean run walks the whole state machine once, so every stage
	// shows up in the report.
	want := []string{
		StageClassify, StageSynthesize, StageDetect,
		StageCorrect, StageGeometry, StageWeldFastener, StageAnchorage, StageRevalidate,
	}
	got := stageNames(r.Stages)
	if len(got) != len(want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stages = %v, want %v", got, want)
		}
		if r.Stages[i].Status != model.StageOK {
			t.Fatalf("stage %s status = %s", want[i], r.Stages[i].Status)
		}
		if r.Stages[i].Counts["clashes"] != 0 && i >= 2 {
			t.Fatalf("stage %s reports %d clashes on a clean run", want[i], r.Stages[i].Counts["clashes"])
		}
	}

	if len(out.Joints) != 2 || len(out.Plates) != 4 {
		t.Fatalf("output has %d joints and %d plates, want 2 and 4", len(out.Joints), len(out.Plates))
	}
	if r.RunID == "" {
		t.Fatal("missing run id")
	}
}

func TestRun_CorrectsAndConverges(t *testing.T) {
	// A raised minimum makes the synthesized 300mm base plates undersized,
	// which the corrector can fix by resizing.
	p := New(Options{Clash: clash.Config{MinBasePlateMM: 400}})
	out, err := p.Run(context.Background(), "portal", portalMembers(t), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	r := out.Report
	if r.Status != model.RunPassed {
		t.Fatalf("status = %s, want PASSED after correction", r.Status)
	}
	if r.IterationsUsed != 1 {
		t.Fatalf("iterations = %d, want 1", r.IterationsUsed)
	}
	if len(r.Clashes) == 0 {
		t.Fatal("expected undersized base plate clashes in the report")
	}
	for _, c := range r.Corrections {
		if c.Status != model.StatusCorrected {
			t.Fatalf("correction %s status = %s, want CORRECTED", c.ClashID, c.Status)
		}
	}
	for _, pl := range out.Plates {
		if pl.Kind == model.PlateBase && (pl.Width < 400 || pl.Height < 400) {
			t.Fatalf("base plate %s still undersized: %gx%g", pl.ID, pl.Width, pl.Height)
		}
	}

	want := []string{
		StageClassify, StageSynthesize, StageDetect,
		StageCorrect, StageGeometry, StageWeldFastener, StageAnchorage, StageRevalidate,
	}
	got := stageNames(r.Stages)
	if len(got) != len(want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
}

func TestRun_UncorrectableEndsInReview(t *testing.T) {
	// A lone 13m beam: excessive span, over-slender, unbraced, disconnected.
	// None of those may be auto-fixed, so the loop must exhaust its iterations
	// and flag the run for review instead of claiming success.
	members := []model.Member{
		member(t, "beam-long", model.KindBeam, geom.V(0, 0, 0), geom.V(13000, 0, 0)),
	}
	p := New(Options{})
	out, err := p.Run(context.Background(), "lone-beam", members, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	r := out.Report
	if r.Status != model.RunPassedWithReview {
		t.Fatalf("status = %s, want PASSED_WITH_REVIEW", r.Status)
	}
	if r.IterationsUsed != DefaultMaxIterations {
		t.Fatalf("iterations = %d, want %d", r.IterationsUsed, DefaultMaxIterations)
	}

	// Clash count at each revalidation must be non-increasing.
	prev := -1
	for _, s := range r.Stages {
		if s.Stage != StageRevalidate {
			continue
		}
		n := s.Counts["clashes"]
		if prev >= 0 && n > prev {
			t.Fatalf("clash count grew between revalidations: %d -> %d", prev, n)
		}
		prev = n
	}
	if prev <= 0 {
		t.Fatal("expected surviving clashes at the final revalidation")
	}

	for _, c := range r.Clashes {
		found := false
		for _, corr := range r.Corrections {
			if corr.ClashID == c.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("clash %s has no correction record", c.ID)
		}
	}
}

func TestRun_ObserverSeesLifecycle(t *testing.T) {
	var mu sync.Mutex
	var events []Event
	obs := ObserverFunc(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	p := New(Options{Observer: obs})
	if _, err := p.Run(context.Background(), "portal", portalMembers(t), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(events) == 0 {
		t.Fatal("observer saw no events")
	}
	last := events[len(events)-1]
	if last.Type != EventRunComplete {
		t.Fatalf("last event = %s, want %s", last.Type, EventRunComplete)
	}
	if last.Status != model.RunPassed {
		t.Fatalf("run_complete status = %s, want PASSED", last.Status)
	}
	starts, ends := 0, 0
	for _, e := range events {
		switch e.Type {
		case EventStageStart:
			starts++
		case EventStageEnd:
			ends++
		}
	}
	if starts != ends || starts != 8 {
		t.Fatalf("stage events unbalanced: %d starts, %d ends", starts, ends)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(Options{})
	out, err := p.Run(ctx, "portal", portalMembers(t), nil)
	if err == nil {
		t.Fatal("expected a context error")
	}
	if out.Report.Status != model.RunFailed {
		t.Fatalf("status = %s, want FAILED", out.Report.Status)
	}
}

func TestRunBatch_OrderAndIsolation(t *testing.T) {
	inputs := []Input{
		{Name: "portal-a", Members: portalMembers(t)},
		{Name: "lone-beam", Members: []model.Member{
			member(t, "beam-long", model.KindBeam, geom.V(0, 0, 0), geom.V(13000, 0, 0)),
		}},
		{Name: "portal-b", Members: portalMembers(t)},
	}

	results := New(Options{}).RunBatch(context.Background(), inputs, 2)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, in := range inputs {
		if results[i].Name != in.Name {
			t.Fatalf("result %d is %q, want %q", i, results[i].Name, in.Name)
		}
		if results[i].Err != nil {
			t.Fatalf("structure %s failed: %v", in.Name, results[i].Err)
		}
	}
	if got := results[0].Output.Report.Status; got != model.RunPassed {
		t.Fatalf("portal-a status = %s, want PASSED", got)
	}
	if got := results[1].Output.Report.Status; got != model.RunPassedWithReview {
		t.Fatalf("lone-beam status = %s, want PASSED_WITH_REVIEW", got)
	}
	if got := results[2].Output.Report.Status; got != model.RunPassed {
		t.Fatalf("portal-b status = %s, want PASSED", got)
	}
}
