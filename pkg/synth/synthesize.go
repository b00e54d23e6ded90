package synth

import (
	"fmt"
	"log/slog"
	"sort"

	"girder/pkg/geom"
	"girder/pkg/model"
	"girder/pkg/sizing"
)

// DefaultDemandKN is the conservative per-joint design load assumed when the
// caller supplies none. The assumption is recorded on the plate so reviewers
// can see it.
const DefaultDemandKN = 50

// Options tune synthesis. Zero values select the defaults.
type Options struct {
	DemandKN         float64 // per-joint design load, kN
	FoundationElevMM float64 // top-of-foundation elevation
	FoundationGapMM  float64 // grout gap under base plates
	BoltGrade        string
	PlateMaterial    string
	Electrode        string

	Log *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.DemandKN <= 0 {
		o.DemandKN = DefaultDemandKN
	}
	if o.FoundationGapMM <= 0 {
		o.FoundationGapMM = 5
	}
	if o.BoltGrade == "" {
		o.BoltGrade = "A325"
	}
	if o.PlateMaterial == "" {
		o.PlateMaterial = "A36"
	}
	if o.Electrode == "" {
		o.Electrode = "E70XX"
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
	return o
}

// Result is the synthesized connection set. Joints that could not be
// connected are reported as anomalies, never silently skipped.
type Result struct {
	Plates    []model.Plate
	Bolts     []model.Bolt
	Welds     []model.Weld
	Anomalies []model.Anomaly
}

// Synthesize generates plates, bolts, and welds for every joint, plus base
// plates with anchor bolts for column feet that reach the foundation without
// a joint. Sizing goes through the provider; the provenance and confidence of
// each returned dimension are recorded on the elements.
func Synthesize(members []model.Member, joints []model.Joint, provider sizing.Provider, opts Options) (Result, error) {
	if provider == nil {
		return Result{}, ErrNoProvider
	}
	opts = opts.withDefaults()
	byID := memberIndex(members)

	var res Result
	for _, j := range joints {
		if err := synthesizeJoint(j, byID, provider, opts, &res); err != nil {
			res.Anomalies = append(res.Anomalies, model.Anomaly{
				Code:       "JOINT_SYNTHESIS_FAILED",
				Message:    err.Error(),
				ElementIDs: []string{j.ID},
			})
			opts.Log.Warn("joint synthesis failed", "joint", j.ID, "err", err)
		}
	}

	synthesizeBasePlates(members, joints, provider, opts, &res)

	sort.Slice(res.Plates, func(i, k int) bool { return res.Plates[i].ID < res.Plates[k].ID })
	sort.Slice(res.Bolts, func(i, k int) bool { return res.Bolts[i].ID < res.Bolts[k].ID })
	sort.Slice(res.Welds, func(i, k int) bool { return res.Welds[i].ID < res.Welds[k].ID })
	return res, nil
}

func synthesizeJoint(j model.Joint, byID map[string]model.Member, provider sizing.Provider, opts Options, res *Result) error {
	dom, ok := dominantMember(j, byID)
	if !ok {
		return fmt.Errorf("%w: joint %s has no resolvable members", ErrUnknownMember, j.ID)
	}
	frame, err := geom.LocalFrame(dom.Direction())
	if err != nil {
		return fmt.Errorf("joint %s frame: %w", j.ID, err)
	}

	conn := j.Connection
	if conn == model.ConnUnclassified {
		conn, err = ClassifyJoint(j, byID)
		if err != nil {
			return err
		}
	}

	bolt, err := provider.BoltDiameter(opts.DemandKN, opts.BoltGrade)
	if err != nil {
		return fmt.Errorf("joint %s bolt sizing: %w", j.ID, err)
	}
	thick, err := provider.PlateThickness(bolt.Value, opts.DemandKN, opts.PlateMaterial)
	if err != nil {
		return fmt.Errorf("joint %s plate sizing: %w", j.ID, err)
	}
	weld, err := provider.WeldSize(opts.DemandKN, thick.Value, opts.Electrode)
	if err != nil {
		return fmt.Errorf("joint %s weld sizing: %w", j.ID, err)
	}

	rows, cols := layoutFor(conn)
	grid := NewGridSpec(rows, cols, bolt.Value)

	plate, err := model.NewPlate(
		"PL-"+j.ID, j, model.PlateGusset,
		grid.PlateWidth(), grid.PlateHeight(), thick.Value,
		opts.PlateMaterial, frame.X, frame.Y,
	)
	if err != nil {
		return err
	}
	plate.DemandKN = opts.DemandKN
	plate.Provenance = thick.Provenance
	plate.Confidence = thick.Confidence
	res.Plates = append(res.Plates, plate)

	// Bolt offsets are local to the plate; the transform is always anchored
	// at the joint position, never at any other base point.
	for i, off := range grid.Offsets() {
		pos := frame.ToGlobal(j.Position, off)
		b, err := model.NewBolt(
			fmt.Sprintf("B-%s-%02d", plate.ID, i+1),
			plate.ID, bolt.Value, opts.BoltGrade, pos,
		)
		if err != nil {
			return err
		}
		b.Provenance = bolt.Provenance
		b.Confidence = bolt.Confidence
		res.Bolts = append(res.Bolts, b)
	}

	weldType := model.WeldFillet
	if conn == model.ConnSplice {
		weldType = model.WeldGroove
	}
	w, err := model.NewWeld(
		fmt.Sprintf("W-%s-%s", plate.ID, dom.ID),
		plate.ID, dom.ID, weldType, weld.Value, grid.PlateWidth(), opts.Electrode,
	)
	if err != nil {
		return err
	}
	w.Penetration = 0.9 * weld.Value
	w.Provenance = weld.Provenance
	w.Confidence = weld.Confidence
	res.Welds = append(res.Welds, w)

	return nil
}

// minBasePlateMM is the smallest base plate the engine will emit.
const minBasePlateMM = 300

// synthesizeBasePlates emits a base plate with four anchor bolts for every
// column whose lower end reaches foundation level without meeting a joint.
func synthesizeBasePlates(members []model.Member, joints []model.Joint, provider sizing.Provider, opts Options, res *Result) {
	for _, m := range members {
		if m.Kind != model.KindColumn {
			continue
		}
		foot := m.Start
		if m.End.Z < foot.Z {
			foot = m.End
		}
		if foot.Z > opts.FoundationElevMM+footJointTol {
			continue // column does not reach the foundation
		}
		if footHasJoint(foot, joints) {
			continue
		}

		bolt, err := provider.BoltDiameter(opts.DemandKN, opts.BoltGrade)
		if err != nil {
			res.Anomalies = append(res.Anomalies, model.Anomaly{
				Code: "BASE_PLATE_SIZING_FAILED", Message: err.Error(), ElementIDs: []string{m.ID},
			})
			continue
		}
		thick, err := provider.PlateThickness(bolt.Value, opts.DemandKN, opts.PlateMaterial)
		if err != nil {
			res.Anomalies = append(res.Anomalies, model.Anomaly{
				Code: "BASE_PLATE_SIZING_FAILED", Message: err.Error(), ElementIDs: []string{m.ID},
			})
			continue
		}

		frame, err := geom.LocalFrame(m.Direction())
		if err != nil {
			res.Anomalies = append(res.Anomalies, model.Anomaly{
				Code: "BASE_PLATE_FRAME_FAILED", Message: err.Error(), ElementIDs: []string{m.ID},
			})
			continue
		}

		grid := NewGridSpec(2, 2, bolt.Value)
		side := grid.PlateWidth()
		if side < minBasePlateMM {
			side = minBasePlateMM
		}

		// The base plate sits centered under the column at foundation level
		// plus half its thickness.
		pos := geom.V(foot.X, foot.Y, opts.FoundationElevMM+thick.Value/2)
		plate := model.Plate{
			ID:            "BP-" + m.ID,
			Kind:          model.PlateBase,
			Position:      pos,
			Width:         side,
			Height:        side,
			Thickness:     thick.Value,
			Material:      opts.PlateMaterial,
			Axis:          frame.X,
			RefDir:        frame.Y,
			MemberIDs:     []string{m.ID},
			FoundationGap: opts.FoundationGapMM,
			DemandKN:      opts.DemandKN,
			Provenance:    thick.Provenance,
			Confidence:    thick.Confidence,
		}
		res.Plates = append(res.Plates, plate)

		for i, off := range grid.Offsets() {
			b := model.Bolt{
				ID:          fmt.Sprintf("AB-%s-%02d", plate.ID, i+1),
				PlateID:     plate.ID,
				Diameter:    bolt.Value,
				Grade:       opts.BoltGrade,
				Position:    frame.ToGlobal(pos, off),
				EmbedmentMM: 12 * bolt.Value,
				Provenance:  bolt.Provenance,
				Confidence:  bolt.Confidence,
			}
			res.Bolts = append(res.Bolts, b)
		}

		weld, err := provider.WeldSize(opts.DemandKN, thick.Value, opts.Electrode)
		if err == nil {
			w := model.Weld{
				ID:          fmt.Sprintf("W-%s-%s", plate.ID, m.ID),
				PlateID:     plate.ID,
				MemberID:    m.ID,
				Type:        model.WeldFillet,
				Size:        weld.Value,
				Length:      4 * side, // all-around run at the column base
				Electrode:   opts.Electrode,
				Penetration: 0.9 * weld.Value,
				Provenance:  weld.Provenance,
				Confidence:  weld.Confidence,
			}
			res.Welds = append(res.Welds, w)
		}
	}
}

// footJointTol is the proximity used to decide whether a column foot already
// belongs to a joint or stands alone on the foundation.
const footJointTol = 100

func footHasJoint(foot geom.Vec3, joints []model.Joint) bool {
	for _, j := range joints {
		if j.Position.Dist(foot) < footJointTol {
			return true
		}
	}
	return false
}
