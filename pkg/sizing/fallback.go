package sizing

import "log/slog"

// Fallback tries the model-backed provider first and falls back to the
// closed-form formulas when the model declines. Every fallback is logged and
// the result carries Provenance formula, so the substitution is visible in
// the synthesized elements, never silent.
type Fallback struct {
	primary  Provider // may be nil when no model artifact is configured
	formulas Provider
	log      *slog.Logger
}

// NewFallback wraps a (possibly nil) model provider over the formula
// provider.
func NewFallback(primary Provider, log *slog.Logger) *Fallback {
	if log == nil {
		log = slog.Default()
	}
	return &Fallback{primary: primary, formulas: NewFormula(), log: log}
}

func (f *Fallback) BoltDiameter(loadKN float64, material string) (Result, error) {
	if f.primary != nil {
		if res, err := f.primary.BoltDiameter(loadKN, material); err == nil {
			return res, nil
		} else {
			f.log.Warn("model sizing unavailable, using formula", "response", "bolt_diameter", "err", err)
		}
	}
	return f.formulas.BoltDiameter(loadKN, material)
}

func (f *Fallback) PlateThickness(boltDiameter, loadKN float64, grade string) (Result, error) {
	if f.primary != nil {
		if res, err := f.primary.PlateThickness(boltDiameter, loadKN, grade); err == nil {
			return res, nil
		} else {
			f.log.Warn("model sizing unavailable, using formula", "response", "plate_thickness", "err", err)
		}
	}
	return f.formulas.PlateThickness(boltDiameter, loadKN, grade)
}

func (f *Fallback) WeldSize(loadKN, plateThickness float64, electrode string) (Result, error) {
	if f.primary != nil {
		if res, err := f.primary.WeldSize(loadKN, plateThickness, electrode); err == nil {
			return res, nil
		} else {
			f.log.Warn("model sizing unavailable, using formula", "response", "weld_size", "err", err)
		}
	}
	return f.formulas.WeldSize(loadKN, plateThickness, electrode)
}
