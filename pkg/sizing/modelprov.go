package sizing

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"girder/pkg/model"
)

// responseCoeffs is one trained linear response: value = intercept + sum of
// term coefficients times the named feature.
type responseCoeffs struct {
	Intercept  float64            `yaml:"intercept"`
	Terms      map[string]float64 `yaml:"terms"`
	Min        float64            `yaml:"min"`
	Max        float64            `yaml:"max"`
	Confidence float64            `yaml:"confidence"`
}

// artifact is the on-disk format of a trained sizing model.
type artifact struct {
	Version   string                    `yaml:"version"`
	Responses map[string]responseCoeffs `yaml:"responses"`
}

// ModelProvider predicts dimensions from a coefficient artifact trained
// offline. It is deliberately opaque: callers see only the Provider
// interface, never the regression internals, so the engine depends on no
// particular ML runtime. Predictions outside the artifact's trusted range
// return ErrModelUnavailable and the caller falls back to formulas.
type ModelProvider struct {
	responses map[string]responseCoeffs
}

// LoadModel reads a coefficient artifact from a YAML file.
func LoadModel(path string) (*ModelProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sizing: read model artifact: %w", err)
	}
	return ParseModel(data)
}

// ParseModel decodes a coefficient artifact from YAML bytes.
func ParseModel(data []byte) (*ModelProvider, error) {
	var a artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("sizing: parse model artifact: %w", err)
	}
	if len(a.Responses) == 0 {
		return nil, fmt.Errorf("sizing: model artifact has no responses")
	}
	return &ModelProvider{responses: a.Responses}, nil
}

func (p *ModelProvider) predict(response string, features map[string]float64) (Result, error) {
	rc, ok := p.responses[response]
	if !ok {
		return Result{}, fmt.Errorf("%w: no trained response %q", ErrModelUnavailable, response)
	}
	v := rc.Intercept
	for name, coeff := range rc.Terms {
		f, ok := features[name]
		if !ok {
			return Result{}, fmt.Errorf("%w: response %q requires feature %q", ErrModelUnavailable, response, name)
		}
		v += coeff * f
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < rc.Min || v > rc.Max {
		return Result{}, fmt.Errorf("%w: response %q predicted %v outside trusted range [%v, %v]",
			ErrModelUnavailable, response, v, rc.Min, rc.Max)
	}
	conf := rc.Confidence
	if conf <= 0 || conf > 1 {
		conf = 0.75
	}
	return Result{Value: v, Confidence: conf, Provenance: model.ProvModel}, nil
}

// BoltDiameter predicts a bolt diameter, snapped to the standard series.
func (p *ModelProvider) BoltDiameter(loadKN float64, material string) (Result, error) {
	if loadKN <= 0 || math.IsNaN(loadKN) || math.IsInf(loadKN, 0) {
		return Result{}, fmt.Errorf("%w: load %v kN", ErrInvalidDemand, loadKN)
	}
	grade := 0.0
	if material == "A490" {
		grade = 1
	}
	res, err := p.predict("bolt_diameter", map[string]float64{"load": loadKN, "grade": grade})
	if err != nil {
		return Result{}, err
	}
	res.Value = NearestStandardBoltDiameter(res.Value)
	return res, nil
}

// PlateThickness predicts a plate thickness, never below the bearing rule.
func (p *ModelProvider) PlateThickness(boltDiameter, loadKN float64, grade string) (Result, error) {
	if boltDiameter <= 0 || loadKN <= 0 {
		return Result{}, fmt.Errorf("%w: bolt %v mm, load %v kN", ErrInvalidDemand, boltDiameter, loadKN)
	}
	res, err := p.predict("plate_thickness", map[string]float64{"bolt_diameter": boltDiameter, "load": loadKN})
	if err != nil {
		return Result{}, err
	}
	if res.Value < boltDiameter/1.5 {
		// A trained value below the bearing minimum is outside code; treat
		// as unavailable rather than emitting a non-compliant plate.
		return Result{}, fmt.Errorf("%w: plate_thickness %v below bearing minimum %v",
			ErrModelUnavailable, res.Value, boltDiameter/1.5)
	}
	res.Value = NearestStandardPlateThickness(res.Value)
	return res, nil
}

// WeldSize predicts a fillet leg size, never below the AWS bracket minimum.
func (p *ModelProvider) WeldSize(loadKN, plateThickness float64, electrode string) (Result, error) {
	if loadKN <= 0 || plateThickness <= 0 {
		return Result{}, fmt.Errorf("%w: load %v kN, plate %v mm", ErrInvalidDemand, loadKN, plateThickness)
	}
	res, err := p.predict("weld_size", map[string]float64{"load": loadKN, "plate_thickness": plateThickness})
	if err != nil {
		return Result{}, err
	}
	if res.Value < MinWeldSize(plateThickness) {
		return Result{}, fmt.Errorf("%w: weld_size %v below AWS minimum %v",
			ErrModelUnavailable, res.Value, MinWeldSize(plateThickness))
	}
	return res, nil
}
