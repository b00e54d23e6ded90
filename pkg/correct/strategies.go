package correct

import (
	"math"

	"girder/pkg/clash"
	"girder/pkg/geom"
	"girder/pkg/model"
	"girder/pkg/sizing"
	"girder/pkg/synth"
)

// strategy mutates the model to clear one clash. It returns the action name,
// the numeric values it set, and whether it changed anything. A false return
// defers the clash to engineering review.
type strategy func(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool)

// strategies maps check codes to their remediation. Codes without an entry
// describe conditions a tool must not fix on its own: overlapping members,
// span and slenderness violations, misplaced columns.
var strategies = map[string]strategy{
	clash.CodePlateOffsetXY:        snapPlateToJoint,
	clash.CodePlateOffsetZ:         snapPlateToJoint,
	clash.CodePlateAxisNotUnit:     normalizePlateFrame,
	clash.CodePlateNormalDegener:   normalizePlateFrame,
	clash.CodeBasePlateWrongElev:   setBasePlateElevation,
	clash.CodeBasePlateUndersized:  resizeBasePlate,
	clash.CodeBasePlateOversized:   resizeBasePlate,
	clash.CodeFoundationGapRange:   clampFoundationGap,
	clash.CodeWeldMissing:          addMissingWeld,
	clash.CodeWeldInsufficient:     resizeWeld,
	clash.CodeWeldPenetration:      restorePenetration,
	clash.CodeWeldNonStandard:      snapWeldToStandard,
	clash.CodeBoltEdgeDistance:     regenerateBoltGrid,
	clash.CodeBoltSpacingClose:     regenerateBoltGrid,
	clash.CodeBoltSpacingWide:      regenerateBoltGrid,
	clash.CodeBoltDiaNonStandard:   snapBoltToStandard,
	clash.CodeMomentUnresolved:     upgradeToMoment,
	clash.CodeAnchorEmbedShort:     restoreEmbedment,
	clash.CodeAnchorSpacing:        regenerateBoltGrid,
	clash.CodeAnchorEdge:           regenerateBoltGrid,
	clash.CodeAnchorOutsideFooting: regenerateBoltGrid,
	clash.CodePlateThin:            resizePlateThickness,
	clash.CodeBoltCapacityExceeded: upsizeConnection,
	clash.CodeBoltOrphan:           removeOrphanBolt,
	clash.CodePlateFloating:        removeFloatingPlate,
}

func snapPlateToJoint(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := m.PlateIndex(cl.ElementIDs[0])
	if idx < 0 {
		return "snap_plate_to_joint", nil, false
	}
	j, ok := m.JointByID(m.Plates[idx].JointID)
	if !ok {
		return "snap_plate_to_joint", nil, false
	}
	delta := j.Position.Sub(m.Plates[idx].Position)
	m.Plates[idx].Position = j.Position
	// Bolts are placed relative to the plate; they ride along.
	for i := range m.Bolts {
		if m.Bolts[i].PlateID == m.Plates[idx].ID {
			m.Bolts[i].Position = m.Bolts[i].Position.Add(delta)
		}
	}
	return "snap_plate_to_joint", map[string]float64{
		"x": j.Position.X, "y": j.Position.Y, "z": j.Position.Z,
	}, true
}

func normalizePlateFrame(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := m.PlateIndex(cl.ElementIDs[0])
	if idx < 0 {
		return "normalize_plate_frame", nil, false
	}
	axis, err := geom.Normalize(m.Plates[idx].Axis)
	if err != nil {
		return "normalize_plate_frame", nil, false
	}
	frame, err := geom.LocalFrame(axis)
	if err != nil {
		return "normalize_plate_frame", nil, false
	}
	m.Plates[idx].Axis = frame.X
	m.Plates[idx].RefDir = frame.Y
	return "normalize_plate_frame", nil, true
}

func setBasePlateElevation(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := m.PlateIndex(cl.ElementIDs[0])
	if idx < 0 {
		return "set_base_plate_elevation", nil, false
	}
	cfg := c.detector.Config()
	wantZ := cfg.FoundationElevMM + m.Plates[idx].Thickness/2
	dz := wantZ - m.Plates[idx].Position.Z
	m.Plates[idx].Position.Z = wantZ
	for i := range m.Bolts {
		if m.Bolts[i].PlateID == m.Plates[idx].ID {
			m.Bolts[i].Position.Z += dz
		}
	}
	return "set_base_plate_elevation", map[string]float64{"z": wantZ}, true
}

func resizeBasePlate(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := m.PlateIndex(cl.ElementIDs[0])
	if idx < 0 {
		return "resize_base_plate", nil, false
	}
	cfg := c.detector.Config()
	p := &m.Plates[idx]
	p.Width = clampDim(p.Width, cfg.MinBasePlateMM, cfg.MaxBasePlateMM)
	p.Height = clampDim(p.Height, cfg.MinBasePlateMM, cfg.MaxBasePlateMM)
	return "resize_base_plate", map[string]float64{"width": p.Width, "height": p.Height}, true
}

func clampDim(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func clampFoundationGap(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := m.PlateIndex(cl.ElementIDs[0])
	if idx < 0 {
		return "clamp_foundation_gap", nil, false
	}
	cfg := c.detector.Config()
	gap := clampDim(m.Plates[idx].FoundationGap, cfg.FoundationGapMinMM, cfg.FoundationGapMaxMM)
	m.Plates[idx].FoundationGap = gap
	return "clamp_foundation_gap", map[string]float64{"foundation_gap": gap}, true
}

func addMissingWeld(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := m.PlateIndex(cl.ElementIDs[0])
	if idx < 0 || len(m.Plates[idx].MemberIDs) == 0 {
		return "add_weld", nil, false
	}
	p := m.Plates[idx]
	size := sizing.MinWeldSize(p.Thickness)
	w, err := model.NewWeld("W-"+p.ID+"-"+p.MemberIDs[0], p.ID, p.MemberIDs[0],
		model.WeldFillet, size, p.Width, "E70XX")
	if err != nil {
		return "add_weld", nil, false
	}
	w.Penetration = 0.9 * size
	w.Provenance = model.ProvFormula
	w.Confidence = 0.9
	m.Welds = append(m.Welds, w)
	return "add_weld", map[string]float64{"size": size}, true
}

func resizeWeld(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := weldIndex(m, cl.ElementIDs[0])
	if idx < 0 {
		return "resize_weld", nil, false
	}
	w := &m.Welds[idx]
	p, ok := m.PlateByID(w.PlateID)
	if !ok {
		return "resize_weld", nil, false
	}

	size := sizing.MinWeldSize(p.Thickness)
	if c.provider != nil {
		if res, err := c.provider.WeldSize(demandFor(p), p.Thickness, w.Electrode); err == nil && res.Value > size {
			size = res.Value
		}
	}
	w.Size = size
	w.Penetration = 0.9 * size
	w.Provenance = model.ProvFormula
	return "resize_weld", map[string]float64{"size": size, "penetration": w.Penetration}, true
}

func restorePenetration(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := weldIndex(m, cl.ElementIDs[0])
	if idx < 0 {
		return "restore_penetration", nil, false
	}
	m.Welds[idx].Penetration = 0.9 * m.Welds[idx].Size
	return "restore_penetration", map[string]float64{"penetration": m.Welds[idx].Penetration}, true
}

// standardFillets mirrors the detector's accepted leg sizes.
var standardFillets = []float64{3.2, 4.8, 6.4, 7.9, 9.5, 12.7}

func snapWeldToStandard(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := weldIndex(m, cl.ElementIDs[0])
	if idx < 0 {
		return "snap_weld_to_standard", nil, false
	}
	w := &m.Welds[idx]
	for _, s := range standardFillets {
		if s >= w.Size-1e-9 {
			w.Size = s
			if w.Penetration < 0.8*s {
				w.Penetration = 0.9 * s
			}
			return "snap_weld_to_standard", map[string]float64{"size": s}, true
		}
	}
	return "snap_weld_to_standard", nil, false
}

func snapBoltToStandard(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := boltIndex(m, cl.ElementIDs[0])
	if idx < 0 {
		return "snap_bolt_to_standard", nil, false
	}
	d := sizing.NearestStandardBoltDiameter(m.Bolts[idx].Diameter)
	m.Bolts[idx].Diameter = d
	return "snap_bolt_to_standard", map[string]float64{"diameter": d}, true
}

func upgradeToMoment(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := m.JointIndex(cl.ElementIDs[0])
	if idx < 0 {
		return "upgrade_to_moment_connection", nil, false
	}
	m.Joints[idx].Connection = model.ConnMomentBolted
	return "upgrade_to_moment_connection", nil, true
}

func restoreEmbedment(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := boltIndex(m, cl.ElementIDs[0])
	if idx < 0 {
		return "restore_embedment", nil, false
	}
	b := &m.Bolts[idx]
	b.EmbedmentMM = 12 * b.Diameter // synthesis rule, comfortably over the minimum
	return "restore_embedment", map[string]float64{"embedment_mm": b.EmbedmentMM}, true
}

// regenerateBoltGrid relays the plate's bolts onto a fresh standards-spaced
// grid. It serves both connection plates and base plate anchors: any layout
// defect collapses to the same fix, relay the pattern.
func regenerateBoltGrid(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	bIdx := boltIndex(m, cl.ElementIDs[0])
	if bIdx < 0 {
		return "regenerate_bolt_grid", nil, false
	}
	pIdx := m.PlateIndex(m.Bolts[bIdx].PlateID)
	if pIdx < 0 {
		return "regenerate_bolt_grid", nil, false
	}
	p := &m.Plates[pIdx]

	u, v, ok := plateAxes(*p)
	if !ok {
		return "regenerate_bolt_grid", nil, false
	}

	bolts := m.BoltsForPlate(p.ID)
	diameter := 0.0
	for _, b := range bolts {
		diameter = math.Max(diameter, b.Diameter)
	}
	diameter = sizing.NearestStandardBoltDiameter(diameter)

	rows, cols := layoutForCount(len(bolts))
	grid := synth.NewGridSpec(rows, cols, diameter)
	offsets := grid.Offsets()

	// Grow the plate if the relaid grid no longer fits its outline.
	if grid.PlateWidth() > p.Width {
		p.Width = grid.PlateWidth()
	}
	if grid.PlateHeight() > p.Height {
		p.Height = grid.PlateHeight()
	}

	n := 0
	for i := range m.Bolts {
		if m.Bolts[i].PlateID != p.ID || n >= len(offsets) {
			continue
		}
		off := offsets[n]
		m.Bolts[i].Position = p.Position.Add(u.Scale(off.Y)).Add(v.Scale(off.Z))
		m.Bolts[i].Diameter = diameter
		n++
	}
	return "regenerate_bolt_grid", map[string]float64{
		"diameter": diameter,
		"spacing":  sizing.MinSpacing(diameter),
	}, true
}

func resizePlateThickness(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := m.PlateIndex(cl.ElementIDs[0])
	if idx < 0 {
		return "resize_plate_thickness", nil, false
	}
	p := &m.Plates[idx]
	maxBolt := 0.0
	for _, b := range m.BoltsForPlate(p.ID) {
		maxBolt = math.Max(maxBolt, b.Diameter)
	}
	if maxBolt == 0 {
		return "resize_plate_thickness", nil, false
	}

	t := sizing.NearestStandardPlateThickness(maxBolt / 1.5)
	if c.provider != nil {
		if res, err := c.provider.PlateThickness(maxBolt, demandFor(*p), p.Material); err == nil && res.Value > t {
			t = res.Value
			p.Provenance = res.Provenance
			p.Confidence = res.Confidence
		}
	}
	p.Thickness = t
	return "resize_plate_thickness", map[string]float64{"thickness": t}, true
}

// upsizeConnection raises bolt diameters until each bolt's shear capacity
// covers its share of the plate demand, then relays the grid and thickens
// the plate to keep the bearing rule satisfied.
func upsizeConnection(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	bIdx := boltIndex(m, cl.ElementIDs[0])
	if bIdx < 0 {
		return "upsize_connection", nil, false
	}
	pIdx := m.PlateIndex(m.Bolts[bIdx].PlateID)
	if pIdx < 0 {
		return "upsize_connection", nil, false
	}
	p := &m.Plates[pIdx]
	bolts := m.BoltsForPlate(p.ID)
	if len(bolts) == 0 || p.DemandKN <= 0 {
		return "upsize_connection", nil, false
	}

	grade := bolts[0].Grade
	perBoltN := p.DemandKN * 1000 / float64(len(bolts))
	diameter := 0.0
	for _, d := range sizing.StandardBoltDiameters {
		if sizing.BoltShearCapacityN(d, grade) >= perBoltN {
			diameter = d
			break
		}
	}
	if diameter == 0 {
		// Demand beyond the bolt series: needs more bolts or a redesign.
		return "upsize_connection", nil, false
	}

	for i := range m.Bolts {
		if m.Bolts[i].PlateID != p.ID {
			continue
		}
		m.Bolts[i].Diameter = diameter
		if m.Bolts[i].EmbedmentMM > 0 {
			m.Bolts[i].EmbedmentMM = 12 * diameter
		}
	}
	if t := sizing.NearestStandardPlateThickness(diameter / 1.5); t > p.Thickness {
		p.Thickness = t
	}
	// Larger bolts need wider spacing; relay the pattern.
	regenerateBoltGrid(c, m, cl)
	return "upsize_connection", map[string]float64{
		"diameter":  diameter,
		"thickness": p.Thickness,
	}, true
}

func removeOrphanBolt(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := boltIndex(m, cl.ElementIDs[0])
	if idx < 0 {
		return "remove_orphan_bolt", nil, false
	}
	m.Bolts = append(m.Bolts[:idx], m.Bolts[idx+1:]...)
	return "remove_orphan_bolt", nil, true
}

// removeFloatingPlate drops the plate together with its fasteners and welds,
// so the removal cannot create new orphans.
func removeFloatingPlate(c *Corrector, m *model.Model, cl model.Clash) (string, map[string]float64, bool) {
	idx := m.PlateIndex(cl.ElementIDs[0])
	if idx < 0 {
		return "remove_floating_plate", nil, false
	}
	id := m.Plates[idx].ID
	m.Plates = append(m.Plates[:idx], m.Plates[idx+1:]...)

	bolts := m.Bolts[:0]
	for _, b := range m.Bolts {
		if b.PlateID != id {
			bolts = append(bolts, b)
		}
	}
	m.Bolts = bolts

	welds := m.Welds[:0]
	for _, w := range m.Welds {
		if w.PlateID != id {
			welds = append(welds, w)
		}
	}
	m.Welds = welds
	return "remove_floating_plate", nil, true
}

// layoutForCount picks a grid shape for an existing bolt population.
func layoutForCount(n int) (rows, cols int) {
	switch {
	case n <= 4:
		return 2, 2
	case n <= 6:
		return 3, 2
	default:
		return 2, (n + 1) / 2
	}
}

// plateAxes rebuilds the in-plane axes used to place bolts.
func plateAxes(p model.Plate) (u, v geom.Vec3, ok bool) {
	if math.Abs(p.Axis.Norm()-1) > 0.1 || math.Abs(p.RefDir.Norm()-1) > 0.1 {
		return geom.Vec3{}, geom.Vec3{}, false
	}
	w := p.Axis.Cross(p.RefDir)
	if w.Norm() < 0.1 {
		return geom.Vec3{}, geom.Vec3{}, false
	}
	return p.RefDir, w, true
}

// demandFor is the load a plate was sized against, falling back to the
// synthesis default for imported plates that carry none.
func demandFor(p model.Plate) float64 {
	if p.DemandKN > 0 {
		return p.DemandKN
	}
	return synth.DefaultDemandKN
}

func weldIndex(m *model.Model, id string) int {
	for i, w := range m.Welds {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func boltIndex(m *model.Model, id string) int {
	for i, b := range m.Bolts {
		if b.ID == id {
			return i
		}
	}
	return -1
}
