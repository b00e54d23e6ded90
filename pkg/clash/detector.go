package clash

import (
	"fmt"
	"time"

	"girder/pkg/model"
)

// Detector runs the category checks against a model snapshot. It is
// stateless between calls; Detect on an unmodified model yields an identical
// ordered clash list every time.
type Detector struct {
	cfg Config
}

// NewDetector returns a Detector with the given limits (zero values default).
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg.withDefaults()}
}

// Config returns the detector's effective configuration.
func (d *Detector) Config() Config { return d.cfg }

// Detect runs every check in canonical order and returns the clash list.
// The input model is not mutated; checks operate on a sorted copy so the
// result order is independent of how the model was assembled.
func (d *Detector) Detect(m *model.Model) []model.Clash {
	snap := m.Clone()
	snap.Sort()

	now := time.Now().UTC()
	var out []model.Clash
	run := func(fn func(*model.Model, *[]model.Clash)) {
		fn(snap, &out)
	}

	// Category order is fixed; see model.Categories.
	run(d.checkGeometry)
	run(d.checkPlateAlignment)
	run(d.checkBasePlates)
	run(d.checkWelds)
	run(d.checkBoltSpacing)
	run(d.checkMemberGeometry)
	run(d.checkConnectionAlignment)
	run(d.checkAnchorage)
	run(d.checkPlateProperties)
	run(d.checkBoltProperties)
	run(d.checkStructuralLogic)

	for i := range out {
		out[i].DetectedAt = now
	}
	return out
}

// DetectCode re-runs detection and reports whether a clash with the given id
// is still present. The corrector uses this to decide whether a remediation
// actually cleared the check that raised the clash.
func (d *Detector) DetectCode(m *model.Model, clashID string) bool {
	for _, c := range d.Detect(m) {
		if c.ID == clashID {
			return true
		}
	}
	return false
}

// add appends a clash with the deterministic id for (code, elements).
func add(out *[]model.Clash, code string, sev model.Severity, conf float64, desc string, elements ...string) {
	*out = append(*out, model.Clash{
		ID:          model.ClashID(code, elements...),
		Category:    CategoryOf(code),
		Code:        code,
		Severity:    sev,
		Confidence:  conf,
		Description: desc,
		ElementIDs:  elements,
	})
}

func mm(v float64) string { return fmt.Sprintf("%.1fmm", v) }
