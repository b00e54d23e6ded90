// Package sizing provides bolt, plate, and weld dimensioning behind a single
// Provider interface. Two implementations exist: closed-form AISC J3 /
// AWS D1.1 formulas, and an opaque coefficient model trained offline. The
// Fallback wrapper guarantees a caller always gets a usable value, with the
// source recorded as provenance rather than hidden.
package sizing

import (
	"errors"

	"girder/pkg/model"
)

var (
	// ErrModelUnavailable is returned by the model-backed provider when it
	// cannot produce a trustworthy value for the requested response.
	ErrModelUnavailable = errors.New("sizing: model unavailable")

	// ErrInvalidDemand is returned for non-positive or non-finite loads.
	ErrInvalidDemand = errors.New("sizing: invalid demand")
)

// Result is one sized dimension with its confidence and origin.
type Result struct {
	Value      float64          // mm
	Confidence float64          // 0..1
	Provenance model.Provenance // model or formula
}

// Provider returns standards-compliant dimensions for a given demand.
// Implementations must be pure: the same inputs always yield the same
// outputs, so detection and correction stay deterministic.
type Provider interface {
	// BoltDiameter returns the bolt diameter in mm for a joint shear demand
	// in kN and a fastener material grade (e.g. A325, A490).
	BoltDiameter(loadKN float64, material string) (Result, error)

	// PlateThickness returns the plate thickness in mm given the governing
	// bolt diameter, the demand, and the plate grade.
	PlateThickness(boltDiameter, loadKN float64, grade string) (Result, error)

	// WeldSize returns the fillet leg size in mm for the demand, the
	// connected plate thickness, and the electrode classification.
	WeldSize(loadKN, plateThickness float64, electrode string) (Result, error)
}

// Standard bolt diameters, mm (1/2" through 1 1/2" imperial series).
var StandardBoltDiameters = []float64{12.7, 15.9, 19.1, 22.2, 25.4, 28.6, 31.8, 34.9, 38.1}

// Standard plate thicknesses, mm.
var StandardPlateThicknesses = []float64{6.35, 7.9, 9.5, 12.7, 15.9, 19.1, 22.2, 25.4, 31.8, 38.1}

// IsStandardBoltDiameter reports whether d matches the standard series
// within half a millimetre.
func IsStandardBoltDiameter(d float64) bool {
	for _, s := range StandardBoltDiameters {
		if d > s-0.5 && d < s+0.5 {
			return true
		}
	}
	return false
}

// NearestStandardBoltDiameter rounds d up to the closest standard diameter
// (up, because undersizing a fastener is never a correction).
func NearestStandardBoltDiameter(d float64) float64 {
	for _, s := range StandardBoltDiameters {
		if s >= d-1e-9 {
			return s
		}
	}
	return StandardBoltDiameters[len(StandardBoltDiameters)-1]
}

// NearestStandardPlateThickness rounds t up to the closest standard plate.
func NearestStandardPlateThickness(t float64) float64 {
	for _, s := range StandardPlateThicknesses {
		if s >= t-1e-9 {
			return s
		}
	}
	return StandardPlateThicknesses[len(StandardPlateThicknesses)-1]
}

// MinWeldSize returns the AWS D1.1 minimum fillet leg size in mm for the
// thickness of the thinner connected part.
func MinWeldSize(plateThickness float64) float64 {
	switch {
	case plateThickness <= 6.35:
		return 3.2
	case plateThickness <= 12.7:
		return 4.8
	case plateThickness <= 19.1:
		return 6.4
	default:
		return 7.9
	}
}

// MinEdgeDistance returns the minimum bolt-to-plate-edge distance for a
// bolt diameter, per AISC J3.4.
func MinEdgeDistance(boltDiameter float64) float64 { return 1.5 * boltDiameter }

// MinSpacing returns the minimum bolt-to-bolt spacing for a bolt diameter,
// per AISC J3.3.
func MinSpacing(boltDiameter float64) float64 { return 3 * boltDiameter }

// MaxSpacing returns the maximum bolt spacing for a plate thickness,
// per AISC J3.5.
func MaxSpacing(plateThickness float64) float64 { return 24 * plateThickness }
