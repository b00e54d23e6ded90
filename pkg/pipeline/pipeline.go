// Package pipeline sequences the validation run: classification, synthesis,
// detection, and the bounded correct/revalidate loop. The orchestrator holds
// no domain rules of its own; it wires the engine packages together and
// keeps the books.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"girder/pkg/clash"
	"girder/pkg/correct"
	"girder/pkg/joint"
	"girder/pkg/model"
	"girder/pkg/sizing"
	"girder/pkg/synth"
)

// Stage names, in execution order.
const (
	StageClassify     = "classify"
	StageSynthesize   = "synthesize"
	StageDetect       = "detect"
	StageCorrect      = "correct"
	StageGeometry     = "geometry_validate"
	StageWeldFastener = "weld_fastener_verify"
	StageAnchorage    = "anchorage_validate"
	StageRevalidate   = "revalidate"
)

// DefaultMaxIterations bounds the correct/revalidate loop.
const DefaultMaxIterations = 5

// Options configure a pipeline. Zero values select the defaults.
type Options struct {
	Clash         clash.Config
	Synth         synth.Options
	Provider      sizing.Provider
	MaxIterations int
	Observer      Observer
	Log           *slog.Logger
}

// Pipeline runs validation end to end. Safe for concurrent Run calls: all
// run state lives on the stack, the configuration is read-only.
type Pipeline struct {
	detector  *clash.Detector
	corrector *correct.Corrector
	provider  sizing.Provider
	synthOpts synth.Options
	maxIter   int
	observer  Observer
	log       *slog.Logger
}

// New builds a pipeline. A nil provider gets the closed-form formulas.
func New(opts Options) *Pipeline {
	if opts.Provider == nil {
		opts.Provider = sizing.NewFormula()
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Synth.Log == nil {
		opts.Synth.Log = opts.Log
	}
	// Synthesis and the base plate checks must agree on the foundation.
	if opts.Synth.FoundationElevMM == 0 {
		opts.Synth.FoundationElevMM = opts.Clash.FoundationElevMM
	}
	det := clash.NewDetector(opts.Clash)
	return &Pipeline{
		detector:  det,
		corrector: correct.NewCorrector(det, opts.Provider, opts.Log),
		provider:  opts.Provider,
		maxIter:   opts.MaxIterations,
		observer:  opts.Observer,
		log:       opts.Log,
		synthOpts: opts.Synth,
	}
}

// run carries the bookkeeping for one execution.
type run struct {
	report model.ValidationReport
	seen   map[string]bool // clash ids already in the report
}

// Run validates one structure. The returned output always carries a report,
// even when a stage fails; the error is non-nil only for unrecoverable stage
// failures, in which case the report status is FAILED.
func (p *Pipeline) Run(ctx context.Context, structure string, members []model.Member, supplied []model.Joint) (*model.Output, error) {
	r := &run{
		report: model.ValidationReport{
			RunID:     uuid.NewString(),
			Structure: structure,
			StartedAt: time.Now().UTC(),
		},
		seen: make(map[string]bool),
	}

	var joints []model.Joint
	err := p.stage(ctx, r, StageClassify, 0, func() (map[string]int, error) {
		resolved, anoms := joint.NewResolver(p.detector.Config().ToleranceMM, p.log).Resolve(members, supplied)
		classified, canoms := synth.Classify(members, resolved)
		r.report.Anomalies = append(r.report.Anomalies, anoms...)
		r.report.Anomalies = append(r.report.Anomalies, canoms...)
		joints = classified
		return map[string]int{"joints": len(joints), "anomalies": len(anoms) + len(canoms)}, nil
	})
	if err != nil {
		return p.finish(r, nil, nil, model.RunFailed), err
	}

	var m *model.Model
	err = p.stage(ctx, r, StageSynthesize, 0, func() (map[string]int, error) {
		res, synthErr := synth.Synthesize(members, joints, p.provider, p.synthOpts)
		if synthErr != nil {
			return nil, synthErr
		}
		r.report.Anomalies = append(r.report.Anomalies, res.Anomalies...)
		m = &model.Model{
			Members: members, Joints: joints,
			Plates: res.Plates, Bolts: res.Bolts, Welds: res.Welds,
		}
		return map[string]int{
			"plates": len(res.Plates), "bolts": len(res.Bolts), "welds": len(res.Welds),
		}, nil
	})
	if err != nil {
		return p.finish(r, nil, joints, model.RunFailed), err
	}

	var clashes []model.Clash
	err = p.stage(ctx, r, StageDetect, 1, func() (map[string]int, error) {
		clashes = p.record(r, p.detector.Detect(m), 1)
		return map[string]int{"clashes": len(clashes)}, nil
	})
	if err != nil {
		return p.finish(r, m, joints, model.RunFailed), err
	}

	// The correct/verify/revalidate states run at least once even on a clean
	// detect, so every run reports the full stage sequence; IterationsUsed
	// counts only passes that had clashes to correct.
	iterations := 0
	for iter := 1; ; iter++ {
		if len(clashes) > 0 {
			iterations = iter
		}

		err = p.stage(ctx, r, StageCorrect, iter, func() (map[string]int, error) {
			corrections := p.corrector.Correct(m, clashes, iter)
			r.report.Corrections = append(r.report.Corrections, corrections...)
			return countByStatus(corrections), nil
		})
		if err != nil {
			return p.finish(r, m, joints, model.RunFailed), err
		}

		// One scan feeds the three verification stages and the revalidate
		// decision; the model does not change between them.
		remaining := p.detector.Detect(m)
		p.verifyStage(ctx, r, StageGeometry, iter, remaining,
			model.CatGeometry, model.CatPlateAlignment, model.CatBasePlate,
			model.CatMemberGeometry, model.CatConnectionAlignment)
		p.verifyStage(ctx, r, StageWeldFastener, iter, remaining,
			model.CatWeld, model.CatBoltSpacing, model.CatPlateProperties,
			model.CatBoltProperties)
		p.verifyStage(ctx, r, StageAnchorage, iter, remaining,
			model.CatAnchorage, model.CatStructuralLogic)

		err = p.stage(ctx, r, StageRevalidate, iter, func() (map[string]int, error) {
			clashes = p.record(r, remaining, iter+1)
			return map[string]int{"clashes": len(clashes)}, nil
		})
		if err != nil {
			return p.finish(r, m, joints, model.RunFailed), err
		}

		emit(p.observer, Event{
			Type: EventIteration, RunID: r.report.RunID, Structure: structure,
			Iteration: iter, Counts: map[string]int{"clashes": len(clashes)},
		})

		if len(clashes) == 0 || iter >= p.maxIter {
			break
		}
	}
	r.report.IterationsUsed = iterations

	status := model.RunPassed
	if len(clashes) > 0 {
		status = model.RunPassedWithReview
		p.flagRemaining(r, clashes, iterations)
	}
	return p.finish(r, m, joints, status), nil
}

// record merges newly detected clashes into the report, stamping the
// iteration they first appeared in, and returns the current list.
func (p *Pipeline) record(r *run, clashes []model.Clash, iteration int) []model.Clash {
	for i := range clashes {
		clashes[i].Iteration = iteration
		if !r.seen[clashes[i].ID] {
			r.seen[clashes[i].ID] = true
			r.report.Clashes = append(r.report.Clashes, clashes[i])
		}
	}
	return clashes
}

// flagRemaining guarantees every surviving clash has a terminal review
// record, including clashes first seen in the final revalidation.
func (p *Pipeline) flagRemaining(r *run, clashes []model.Clash, iteration int) {
	handled := make(map[string]bool, len(r.report.Corrections))
	for _, c := range r.report.Corrections {
		handled[c.ClashID] = true
	}
	for _, cl := range clashes {
		if handled[cl.ID] {
			continue
		}
		r.report.Corrections = append(r.report.Corrections, model.Correction{
			ID:         uuid.NewString(),
			ClashID:    cl.ID,
			Action:     "engineering_review",
			Status:     model.StatusReviewRequired,
			Confidence: cl.Confidence,
			Iteration:  iteration,
		})
	}
}

// stage times one stage, appends its report, and emits observer events.
func (p *Pipeline) stage(ctx context.Context, r *run, name string, iteration int, fn func() (map[string]int, error)) error {
	if err := ctx.Err(); err != nil {
		r.report.Stages = append(r.report.Stages, model.StageReport{
			Stage: name, Status: model.StageFailed, Error: err.Error(),
		})
		return err
	}

	emit(p.observer, Event{
		Type: EventStageStart, RunID: r.report.RunID, Structure: r.report.Structure,
		Stage: name, Iteration: iteration,
	})

	start := time.Now()
	counts, err := fn()
	elapsed := time.Since(start)

	sr := model.StageReport{
		Stage:    name,
		Status:   model.StageOK,
		Duration: elapsed,
		Counts:   counts,
	}
	if err != nil {
		sr.Status = model.StageFailed
		sr.Error = err.Error()
		err = fmt.Errorf("stage %s: %w", name, err)
	}
	r.report.Stages = append(r.report.Stages, sr)

	emit(p.observer, Event{
		Type: EventStageEnd, RunID: r.report.RunID, Structure: r.report.Structure,
		Stage: name, Iteration: iteration, Duration: elapsed, Counts: counts, Err: err,
	})
	return err
}

// verifyStage reports how many clashes remain in a category cluster.
func (p *Pipeline) verifyStage(ctx context.Context, r *run, name string, iteration int, clashes []model.Clash, cats ...model.Category) {
	inCluster := make(map[model.Category]bool, len(cats))
	for _, c := range cats {
		inCluster[c] = true
	}
	n := 0
	for _, cl := range clashes {
		if inCluster[cl.Category] {
			n++
		}
	}
	_ = p.stage(ctx, r, name, iteration, func() (map[string]int, error) {
		return map[string]int{"clashes": n}, nil
	})
}

func (p *Pipeline) finish(r *run, m *model.Model, joints []model.Joint, status model.RunStatus) *model.Output {
	r.report.Status = status
	r.report.FinishedAt = time.Now().UTC()

	out := &model.Output{Joints: joints, Report: r.report}
	if m != nil {
		out.Joints = m.Joints
		out.Plates = m.Plates
		out.Bolts = m.Bolts
		out.Welds = m.Welds
	}

	emit(p.observer, Event{
		Type: EventRunComplete, RunID: r.report.RunID, Structure: r.report.Structure,
		Iteration: r.report.IterationsUsed, Status: status,
		Duration: r.report.FinishedAt.Sub(r.report.StartedAt),
		Counts: map[string]int{
			"clashes":     len(r.report.Clashes),
			"corrections": len(r.report.Corrections),
		},
	})
	return out
}

func countByStatus(corrections []model.Correction) map[string]int {
	out := make(map[string]int, 3)
	for _, c := range corrections {
		switch c.Status {
		case model.StatusCorrected:
			out["corrected"]++
		case model.StatusReviewRequired:
			out["review_required"]++
		case model.StatusFailed:
			out["failed"]++
		}
	}
	return out
}
