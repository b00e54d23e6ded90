package clash

import (
	"fmt"
	"math"

	"girder/pkg/geom"
	"girder/pkg/model"
)

const unitTol = 1e-3

// checkPlateAlignment covers category 2: plate drift from its joint,
// rotation validity, and normal-vector sanity. Base plates have no owning
// joint and are covered by category 3 instead.
func (d *Detector) checkPlateAlignment(m *model.Model, out *[]model.Clash) {
	for _, p := range m.Plates {
		if p.Kind == model.PlateBase {
			continue
		}
		j, ok := m.JointByID(p.JointID)
		if ok {
			dx := p.Position.X - j.Position.X
			dy := p.Position.Y - j.Position.Y
			horiz := math.Hypot(dx, dy)
			if horiz > d.cfg.PlateOffsetTolMM {
				add(out, CodePlateOffsetXY, model.SevMajor, 0.95,
					fmt.Sprintf("plate %s is %s off its joint %s in plan", p.ID, mm(horiz), j.ID),
					p.ID)
			}
			dz := math.Abs(p.Position.Z - j.Position.Z)
			if dz > d.cfg.PlateOffsetTolMM {
				add(out, CodePlateOffsetZ, model.SevMajor, 0.95,
					fmt.Sprintf("plate %s is %s off its joint %s in elevation", p.ID, mm(dz), j.ID),
					p.ID)
			}
		}

		if !p.Axis.Finite() || math.Abs(p.Axis.Norm()-1) > unitTol ||
			!p.RefDir.Finite() || math.Abs(p.RefDir.Norm()-1) > unitTol {
			add(out, CodePlateAxisNotUnit, model.SevMajor, 0.98,
				fmt.Sprintf("plate %s orientation vectors are not unit length", p.ID),
				p.ID)
			continue // the normal check below needs sane axes
		}
		normal := p.Axis.Cross(p.RefDir)
		if normal.Norm() < 0.1 {
			add(out, CodePlateNormalDegener, model.SevMajor, 0.9,
				fmt.Sprintf("plate %s axis and reference direction are near parallel, normal undefined", p.ID),
				p.ID)
		}
	}
}

// checkBasePlates covers category 3: elevation versus the foundation
// reference, outline sizing, coordinate sanity, and grout gap.
func (d *Detector) checkBasePlates(m *model.Model, out *[]model.Clash) {
	for _, p := range m.Plates {
		if p.Kind != model.PlateBase {
			continue
		}

		wantZ := d.cfg.FoundationElevMM + p.Thickness/2
		if math.Abs(p.Position.Z-wantZ) > d.cfg.ElevationTolMM {
			add(out, CodeBasePlateWrongElev, model.SevCritical, 0.95,
				fmt.Sprintf("base plate %s sits at z=%s, expected foundation + t/2 = %s",
					p.ID, mm(p.Position.Z), mm(wantZ)),
				p.ID)
		}

		if p.Width < d.cfg.MinBasePlateMM || p.Height < d.cfg.MinBasePlateMM {
			add(out, CodeBasePlateUndersized, model.SevMajor, 0.92,
				fmt.Sprintf("base plate %s outline %sx%s is below the %s minimum",
					p.ID, mm(p.Width), mm(p.Height), mm(d.cfg.MinBasePlateMM)),
				p.ID)
		}
		if p.Width > d.cfg.MaxBasePlateMM || p.Height > d.cfg.MaxBasePlateMM {
			add(out, CodeBasePlateOversized, model.SevMinor, 0.7,
				fmt.Sprintf("base plate %s outline %sx%s is unusually large, review sizing",
					p.ID, mm(p.Width), mm(p.Height)),
				p.ID)
		}

		if p.Position.X < 0 || p.Position.Y < 0 {
			add(out, CodeBasePlateNegCoords, model.SevModerate, 0.75,
				fmt.Sprintf("base plate %s has negative plan coordinates (%.1f, %.1f)",
					p.ID, p.Position.X, p.Position.Y),
				p.ID)
		}

		if p.FoundationGap < d.cfg.FoundationGapMinMM || p.FoundationGap > d.cfg.FoundationGapMaxMM {
			add(out, CodeFoundationGapRange, model.SevMajor, 0.9,
				fmt.Sprintf("base plate %s grout gap %s outside [%s, %s]",
					p.ID, mm(p.FoundationGap), mm(d.cfg.FoundationGapMinMM), mm(d.cfg.FoundationGapMaxMM)),
				p.ID)
		}
	}
}

// weldableMaterials are plate grades with unrestricted weldability.
var weldableMaterials = map[string]bool{
	"A36":     true,
	"A572":    true,
	"A572-50": true,
	"A992":    true,
}

// checkPlateProperties covers category 9: bearing thickness and material
// weldability.
func (d *Detector) checkPlateProperties(m *model.Model, out *[]model.Clash) {
	for _, p := range m.Plates {
		maxBolt := 0.0
		for _, b := range m.BoltsForPlate(p.ID) {
			if b.Diameter > maxBolt {
				maxBolt = b.Diameter
			}
		}
		if maxBolt > 0 && p.Thickness < maxBolt/1.5-1e-9 {
			add(out, CodePlateThin, model.SevMajor, 0.9,
				fmt.Sprintf("plate %s thickness %s is below the bearing requirement %s for %s bolts",
					p.ID, mm(p.Thickness), mm(maxBolt/1.5), mm(maxBolt)),
				p.ID)
		}

		if len(m.WeldsForPlate(p.ID)) > 0 && !weldableMaterials[p.Material] {
			add(out, CodePlateUnweldable, model.SevModerate, 0.8,
				fmt.Sprintf("plate %s material %q is not an approved weldable grade", p.ID, p.Material),
				p.ID)
		}
	}
}

// plateFrame rebuilds the plate's in-plane axes from its stored orientation.
// Returns false when the orientation is too degenerate to project bolts.
func plateFrame(p model.Plate) (u, v geom.Vec3, ok bool) {
	if !p.Axis.Finite() || !p.RefDir.Finite() {
		return geom.Vec3{}, geom.Vec3{}, false
	}
	if math.Abs(p.Axis.Norm()-1) > 0.1 || math.Abs(p.RefDir.Norm()-1) > 0.1 {
		return geom.Vec3{}, geom.Vec3{}, false
	}
	w := p.Axis.Cross(p.RefDir)
	if w.Norm() < 0.1 {
		return geom.Vec3{}, geom.Vec3{}, false
	}
	return p.RefDir, w, true
}
