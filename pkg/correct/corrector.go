// Package correct turns detected clashes into model mutations. Every applied
// fix is verified by re-running the originating check; a fix that does not
// clear its clash is reported as FAILED, never silently claimed.
package correct

import (
	"log/slog"

	"github.com/google/uuid"

	"girder/pkg/clash"
	"girder/pkg/model"
	"girder/pkg/sizing"
)

// Confidence reported on corrections that defer to an engineer.
const reviewConfidence = 0.5

// Corrector applies code-specific remediation strategies.
type Corrector struct {
	detector *clash.Detector
	provider sizing.Provider
	log      *slog.Logger
}

// NewCorrector builds a corrector around the detector whose clashes it will
// remediate. The provider re-sizes elements that failed dimensional checks.
func NewCorrector(d *clash.Detector, provider sizing.Provider, log *slog.Logger) *Corrector {
	if log == nil {
		log = slog.Default()
	}
	return &Corrector{detector: d, provider: provider, log: log}
}

// Correct attempts to remediate each clash in order, mutating m in place.
// Clash order is deterministic, so repeated runs over the same model apply
// the same mutations. The returned corrections carry the verification
// verdict: CORRECTED only when the originating check no longer fires.
func (c *Corrector) Correct(m *model.Model, clashes []model.Clash, iteration int) []model.Correction {
	out := make([]model.Correction, 0, len(clashes))
	for _, cl := range clashes {
		corr := model.Correction{
			ID:        uuid.NewString(),
			ClashID:   cl.ID,
			Iteration: iteration,
		}

		strat, ok := strategies[cl.Code]
		if !ok {
			corr.Action = "engineering_review"
			corr.Status = model.StatusReviewRequired
			corr.Confidence = reviewConfidence
			out = append(out, corr)
			continue
		}

		action, values, applied := strat(c, m, cl)
		corr.Action = action
		corr.NewValues = values
		switch {
		case !applied:
			corr.Status = model.StatusReviewRequired
			corr.Confidence = reviewConfidence
		case c.detector.DetectCode(m, cl.ID):
			corr.Status = model.StatusFailed
			corr.Confidence = 0.2
			c.log.Warn("correction did not clear its clash",
				"clash", cl.ID, "action", action)
		default:
			corr.Status = model.StatusCorrected
			corr.Confidence = cl.Confidence
			c.log.Debug("clash corrected", "clash", cl.ID, "action", action)
		}
		out = append(out, corr)
	}
	return out
}
