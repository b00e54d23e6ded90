package clash

import (
	"fmt"
	"math"

	"girder/pkg/model"
	"girder/pkg/sizing"
)

// standardFilletSizes are the commonly detailed fillet legs, mm.
var standardFilletSizes = []float64{3.2, 4.8, 6.4, 7.9, 9.5, 12.7}

const filletSizeTol = 0.3

func isStandardFillet(size float64) bool {
	for _, s := range standardFilletSizes {
		if math.Abs(size-s) < filletSizeTol {
			return true
		}
	}
	return false
}

// checkWelds covers category 4: missing welds, AWS minimum size,
// penetration, and non-standard sizes.
func (d *Detector) checkWelds(m *model.Model, out *[]model.Clash) {
	for _, p := range m.Plates {
		if len(m.WeldsForPlate(p.ID)) == 0 {
			add(out, CodeWeldMissing, model.SevMajor, 0.9,
				fmt.Sprintf("plate %s has no weld to any member", p.ID),
				p.ID)
		}
	}

	for _, w := range m.Welds {
		p, ok := m.PlateByID(w.PlateID)
		if !ok {
			continue // dangling references surface under structural logic
		}
		min := sizing.MinWeldSize(p.Thickness)
		if w.Size < min-1e-9 {
			add(out, CodeWeldInsufficient, model.SevMajor, 0.95,
				fmt.Sprintf("weld %s size %s below the AWS minimum %s for a %s plate",
					w.ID, mm(w.Size), mm(min), mm(p.Thickness)),
				w.ID)
		}
		if w.Size > 0 && w.Penetration < 0.8*w.Size-1e-9 {
			add(out, CodeWeldPenetration, model.SevMajor, 0.85,
				fmt.Sprintf("weld %s penetration %s below 0.8 x size %s", w.ID, mm(w.Penetration), mm(w.Size)),
				w.ID)
		}
		if w.Size >= min && !isStandardFillet(w.Size) {
			add(out, CodeWeldNonStandard, model.SevMinor, 0.7,
				fmt.Sprintf("weld %s size %s is not a standard fillet leg", w.ID, mm(w.Size)),
				w.ID)
		}
	}
}

// checkBoltSpacing covers category 5 on connection plates: edge distance,
// minimum and maximum spacing, and the standard diameter series. Anchor
// bolts on base plates are category 8.
func (d *Detector) checkBoltSpacing(m *model.Model, out *[]model.Clash) {
	for _, p := range m.Plates {
		if p.Kind == model.PlateBase {
			continue
		}
		d.boltLayoutChecks(m, p, out, CodeBoltEdgeDistance, CodeBoltSpacingClose, true)
	}

	for _, b := range m.Bolts {
		if b.EmbedmentMM > 0 {
			continue
		}
		if !sizing.IsStandardBoltDiameter(b.Diameter) {
			add(out, CodeBoltDiaNonStandard, model.SevMinor, 0.85,
				fmt.Sprintf("bolt %s diameter %s is not in the standard series", b.ID, mm(b.Diameter)),
				b.ID)
		}
	}
}

// boltLayoutChecks runs the edge-distance and spacing rules for one plate's
// bolts. wide toggles the 24t maximum-spacing rule, which applies to bolted
// connection plates but not four-anchor base plates.
func (d *Detector) boltLayoutChecks(m *model.Model, p model.Plate, out *[]model.Clash, edgeCode, closeCode string, wide bool) {
	bolts := m.BoltsForPlate(p.ID)
	if len(bolts) == 0 {
		return
	}

	u, v, frameOK := plateFrame(p)
	if frameOK {
		for _, b := range bolts {
			rel := b.Position.Sub(p.Position)
			du := p.Width/2 - math.Abs(rel.Dot(u))
			dv := p.Height/2 - math.Abs(rel.Dot(v))
			edge := math.Min(du, dv)
			if edge < sizing.MinEdgeDistance(b.Diameter)-1e-6 {
				add(out, edgeCode, model.SevMajor, 0.9,
					fmt.Sprintf("bolt %s edge distance %s below 1.5d = %s",
						b.ID, mm(edge), mm(sizing.MinEdgeDistance(b.Diameter))),
					b.ID)
			}
		}
	}

	for i := 0; i < len(bolts); i++ {
		nearest := math.Inf(1)
		for k := 0; k < len(bolts); k++ {
			if i == k {
				continue
			}
			dist := bolts[i].Position.Dist(bolts[k].Position)
			if dist < nearest {
				nearest = dist
			}
			if k > i && dist < sizing.MinSpacing(bolts[i].Diameter)-1e-6 {
				add(out, closeCode, model.SevMajor, 0.9,
					fmt.Sprintf("bolts %s and %s are %s apart, below 3d = %s",
						bolts[i].ID, bolts[k].ID, mm(dist), mm(sizing.MinSpacing(bolts[i].Diameter))),
					bolts[i].ID, bolts[k].ID)
			}
		}
		if wide && len(bolts) > 1 && nearest > sizing.MaxSpacing(p.Thickness)+1e-6 {
			add(out, CodeBoltSpacingWide, model.SevModerate, 0.75,
				fmt.Sprintf("bolt %s nearest neighbour is %s away, over 24t = %s",
					bolts[i].ID, mm(nearest), mm(sizing.MaxSpacing(p.Thickness))),
				bolts[i].ID)
		}
	}
}

// anchorGrades are acceptable anchor and structural bolt grades.
var anchorGrades = map[string]bool{
	"A325":  true,
	"A490":  true,
	"F1554": true,
}

// checkAnchorage covers category 8 on base plates: embedment, anchor
// layout, and footing bounds.
func (d *Detector) checkAnchorage(m *model.Model, out *[]model.Clash) {
	for _, p := range m.Plates {
		if p.Kind != model.PlateBase {
			continue
		}
		d.boltLayoutChecks(m, p, out, CodeAnchorEdge, CodeAnchorSpacing, false)

		for _, b := range m.BoltsForPlate(p.ID) {
			if b.EmbedmentMM < d.cfg.AnchorEmbedFactor*b.Diameter-1e-9 {
				add(out, CodeAnchorEmbedShort, model.SevCritical, 0.92,
					fmt.Sprintf("anchor %s embedment %s below %.0fd = %s",
						b.ID, mm(b.EmbedmentMM), d.cfg.AnchorEmbedFactor, mm(d.cfg.AnchorEmbedFactor*b.Diameter)),
					b.ID)
			}
			dx := math.Abs(b.Position.X - p.Position.X)
			dy := math.Abs(b.Position.Y - p.Position.Y)
			if dx > d.cfg.FootingHalfMM || dy > d.cfg.FootingHalfMM {
				add(out, CodeAnchorOutsideFooting, model.SevCritical, 0.9,
					fmt.Sprintf("anchor %s falls outside the footing bounds around plate %s", b.ID, p.ID),
					b.ID)
			}
		}
	}
}

// checkBoltProperties covers category 10: grade and demand capacity.
func (d *Detector) checkBoltProperties(m *model.Model, out *[]model.Clash) {
	for _, b := range m.Bolts {
		if !anchorGrades[b.Grade] {
			add(out, CodeBoltGradeUnknown, model.SevModerate, 0.85,
				fmt.Sprintf("bolt %s grade %q is not a recognized fastener spec", b.ID, b.Grade),
				b.ID)
		}
	}

	for _, p := range m.Plates {
		bolts := m.BoltsForPlate(p.ID)
		if len(bolts) == 0 || p.DemandKN <= 0 {
			continue
		}
		perBoltN := p.DemandKN * 1000 / float64(len(bolts))
		for _, b := range bolts {
			capN := sizing.BoltShearCapacityN(b.Diameter, b.Grade)
			if capN < perBoltN {
				add(out, CodeBoltCapacityExceeded, model.SevCritical, 0.88,
					fmt.Sprintf("bolt %s capacity %.0fN is below its %.0fN share of the plate demand",
						b.ID, capN, perBoltN),
					b.ID)
			}
		}
	}
}
