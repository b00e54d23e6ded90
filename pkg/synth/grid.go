package synth

import (
	"girder/pkg/geom"
	"girder/pkg/model"
)

// GridSpec describes a bolt grid in plate-local coordinates. Spacing and
// edge distance satisfy the AISC minimums by construction: spacing is 3d and
// the edge margin 2d, so generated grids pass the spacing checks they will
// later be validated against.
type GridSpec struct {
	Rows, Cols int
	SpacingMM  float64
	EdgeMM     float64
}

// NewGridSpec builds the grid for a bolt diameter and a row/column layout.
func NewGridSpec(rows, cols int, boltDiameter float64) GridSpec {
	return GridSpec{
		Rows:      rows,
		Cols:      cols,
		SpacingMM: 3 * boltDiameter,
		EdgeMM:    2 * boltDiameter,
	}
}

// PlateWidth returns the plate width the grid needs (across columns).
func (g GridSpec) PlateWidth() float64 {
	return float64(g.Cols-1)*g.SpacingMM + 2*g.EdgeMM
}

// PlateHeight returns the plate height the grid needs (across rows).
func (g GridSpec) PlateHeight() float64 {
	return float64(g.Rows-1)*g.SpacingMM + 2*g.EdgeMM
}

// Offsets returns the bolt offsets in plate-local (u, v) coordinates,
// centered on the plate origin, row-major so generation order is stable.
func (g GridSpec) Offsets() []geom.Vec3 {
	out := make([]geom.Vec3, 0, g.Rows*g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			u := (float64(c) - float64(g.Cols-1)/2) * g.SpacingMM
			v := (float64(r) - float64(g.Rows-1)/2) * g.SpacingMM
			// Local X is the member axis; the grid spans the (Y, Z) plane.
			out = append(out, geom.V(0, u, v))
		}
	}
	return out
}

// layoutFor maps a connection type to its bolt layout.
func layoutFor(conn model.ConnectionType) (rows, cols int) {
	switch conn {
	case model.ConnSplice:
		return 2, 4
	case model.ConnMomentBolted:
		return 3, 2
	default: // angle_bolted and anything unclassified
		return 2, 2
	}
}
