package sizing

import (
	"fmt"
	"math"

	"girder/pkg/model"
)

// formulaConfidence is reported for every closed-form result. The formulas
// are conservative code minimums, not best estimates.
const formulaConfidence = 0.9

// nominal shear strengths Fnv, N/mm2, threads included (AISC J3.2).
var boltShearStrength = map[string]float64{
	"A325":  372,
	"A490":  457,
	"F1554": 310,
}

// BoltShearCapacityN is the single-shear design capacity in newtons for one
// bolt, phi = 0.75. Unknown grades are treated as A325.
func BoltShearCapacityN(diameter float64, grade string) float64 {
	fnv, ok := boltShearStrength[grade]
	if !ok {
		fnv = boltShearStrength["A325"]
	}
	return 0.75 * fnv * math.Pi * diameter * diameter / 4
}

// Formula is the closed-form AISC J3 / AWS D1.1 provider. It is the
// guaranteed-available fallback behind the model-backed provider.
type Formula struct{}

// NewFormula returns the closed-form provider.
func NewFormula() *Formula { return &Formula{} }

// BoltDiameter picks the smallest standard diameter whose single-shear
// capacity covers the demand, assuming the load spreads over four bolts.
func (f *Formula) BoltDiameter(loadKN float64, material string) (Result, error) {
	if loadKN <= 0 || math.IsNaN(loadKN) || math.IsInf(loadKN, 0) {
		return Result{}, fmt.Errorf("%w: load %v kN", ErrInvalidDemand, loadKN)
	}
	fnv, ok := boltShearStrength[material]
	if !ok {
		fnv = boltShearStrength["A325"]
	}

	perBoltN := loadKN * 1000 / 4
	for _, d := range StandardBoltDiameters {
		area := math.Pi * d * d / 4
		if 0.75*fnv*area >= perBoltN { // phi = 0.75
			return Result{Value: d, Confidence: formulaConfidence, Provenance: model.ProvFormula}, nil
		}
	}
	return Result{
		Value:      StandardBoltDiameters[len(StandardBoltDiameters)-1],
		Confidence: formulaConfidence * 0.8, // demand beyond the series, flag lower
		Provenance: model.ProvFormula,
	}, nil
}

// PlateThickness applies the bearing rule t >= d/1.5 and a demand floor,
// rounded up to a standard plate.
func (f *Formula) PlateThickness(boltDiameter, loadKN float64, grade string) (Result, error) {
	if boltDiameter <= 0 {
		return Result{}, fmt.Errorf("%w: bolt diameter %v", ErrInvalidDemand, boltDiameter)
	}
	if loadKN <= 0 || math.IsNaN(loadKN) || math.IsInf(loadKN, 0) {
		return Result{}, fmt.Errorf("%w: load %v kN", ErrInvalidDemand, loadKN)
	}

	bearing := boltDiameter / 1.5
	// Demand floor: 1mm of plate per 25kN, a rough A36 shear-plane bound.
	demand := loadKN / 25
	t := NearestStandardPlateThickness(math.Max(bearing, demand))
	return Result{Value: t, Confidence: formulaConfidence, Provenance: model.ProvFormula}, nil
}

// WeldSize returns the larger of the AWS minimum for the plate thickness and
// a demand-driven size, capped so the leg never exceeds the plate edge.
func (f *Formula) WeldSize(loadKN, plateThickness float64, electrode string) (Result, error) {
	if loadKN <= 0 || math.IsNaN(loadKN) || math.IsInf(loadKN, 0) {
		return Result{}, fmt.Errorf("%w: load %v kN", ErrInvalidDemand, loadKN)
	}
	if plateThickness <= 0 {
		return Result{}, fmt.Errorf("%w: plate thickness %v", ErrInvalidDemand, plateThickness)
	}

	// E70XX fillet strength ~0.93 kN/mm per mm of leg over a 100mm run.
	demandLeg := loadKN / (0.93 * 100)
	size := math.Max(MinWeldSize(plateThickness), demandLeg)

	if plateThickness > 6.35 && size > plateThickness-1.6 {
		size = plateThickness - 1.6 // AWS D1.1 max along a plate edge
	}
	return Result{Value: size, Confidence: formulaConfidence, Provenance: model.ProvFormula}, nil
}
