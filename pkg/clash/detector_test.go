package clash

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"girder/pkg/geom"
	"girder/pkg/joint"
	"girder/pkg/model"
	"girder/pkg/sizing"
	"girder/pkg/synth"
)

// cleanModel assembles a portal frame through the real resolution and
// synthesis path, so a zero-clash detection run certifies the whole chain.
func cleanModel(t *testing.T) *model.Model {
	t.Helper()
	mk := func(id string, kind model.MemberKind, s, e geom.Vec3) model.Member {
		m, err := model.NewMember(id, kind, s, e, "W310x39", "A992")
		if err != nil {
			t.Fatalf("fixture member %s: %v", id, err)
		}
		return m
	}
	members := []model.Member{
		mk("beam-1", model.KindBeam, geom.V(0, 0, 3000), geom.V(6000, 0, 3000)),
		mk("col-1", model.KindColumn, geom.V(0, 0, 0), geom.V(0, 0, 3000)),
		mk("col-2", model.KindColumn, geom.V(6000, 0, 0), geom.V(6000, 0, 3000)),
	}
	joints, anomalies := joint.NewResolver(100, nil).Resolve(members, nil)
	if len(anomalies) != 0 {
		t.Fatalf("fixture anomalies: %+v", anomalies)
	}
	joints, anomalies = synth.Classify(members, joints)
	if len(anomalies) != 0 {
		t.Fatalf("classify anomalies: %+v", anomalies)
	}
	res, err := synth.Synthesize(members, joints, sizing.NewFormula(), synth.Options{})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(res.Anomalies) != 0 {
		t.Fatalf("synthesis anomalies: %+v", res.Anomalies)
	}
	return &model.Model{
		Members: members,
		Joints:  joints,
		Plates:  res.Plates,
		Bolts:   res.Bolts,
		Welds:   res.Welds,
	}
}

func codes(clashes []model.Clash) map[string]int {
	out := map[string]int{}
	for _, c := range clashes {
		out[c.Code]++
	}
	return out
}

func findCode(t *testing.T, clashes []model.Clash, code string) model.Clash {
	t.Helper()
	for _, c := range clashes {
		if c.Code == code {
			return c
		}
	}
	t.Fatalf("no clash with code %s in %v", code, codes(clashes))
	return model.Clash{}
}

func TestDetect_CleanModelHasNoClashes(t *testing.T) {
	m := cleanModel(t)
	got := NewDetector(DefaultConfig()).Detect(m)
	if len(got) != 0 {
		t.Fatalf("expected a clean model, got %d clashes: %v", len(got), codes(got))
	}
}

func TestDetect_Idempotent(t *testing.T) {
	m := cleanModel(t)
	m.Plates[0].Position.X += 200 // known defect so the run is non-trivial
	m.Welds[0].Size = 0

	d := NewDetector(DefaultConfig())
	first := d.Detect(m)
	second := d.Detect(m)

	if len(first) == 0 {
		t.Fatal("expected clashes from the seeded defects")
	}
	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(model.Clash{}, "DetectedAt")); diff != "" {
		t.Fatalf("repeated detection differs (-first +second):\n%s", diff)
	}
	for i, c := range first {
		if c.ID != model.ClashID(c.Code, c.ElementIDs...) {
			t.Fatalf("clash %d id %q not derived from code and elements", i, c.ID)
		}
	}
}

func TestDetect_OrderIndependentOfAssembly(t *testing.T) {
	a := cleanModel(t)
	a.Welds[0].Size = 0
	a.Plates[0].Position.X += 200

	b := a.Clone()
	// Reverse element slices; detection sorts its snapshot first.
	for i, k := 0, len(b.Plates)-1; i < k; i, k = i+1, k-1 {
		b.Plates[i], b.Plates[k] = b.Plates[k], b.Plates[i]
	}
	for i, k := 0, len(b.Bolts)-1; i < k; i, k = i+1, k-1 {
		b.Bolts[i], b.Bolts[k] = b.Bolts[k], b.Bolts[i]
	}

	d := NewDetector(DefaultConfig())
	if diff := cmp.Diff(d.Detect(a), d.Detect(b), cmpopts.IgnoreFields(model.Clash{}, "DetectedAt")); diff != "" {
		t.Fatalf("assembly order changed the result (-a +b):\n%s", diff)
	}
}

func TestDetect_BasePlateWrongElevation(t *testing.T) {
	m := cleanModel(t)
	idx := m.PlateIndex("BP-col-1")
	if idx < 0 {
		t.Fatal("fixture is missing base plate BP-col-1")
	}
	m.Plates[idx].Position.Z = 500

	got := NewDetector(DefaultConfig()).Detect(m)
	c := findCode(t, got, CodeBasePlateWrongElev)
	if c.Severity != model.SevCritical {
		t.Fatalf("wrong elevation severity = %s, want CRITICAL", c.Severity)
	}
	if c.Category != model.CatBasePlate {
		t.Fatalf("category = %s, want %s", c.Category, model.CatBasePlate)
	}
}

func TestDetect_WeldSizeZero(t *testing.T) {
	m := cleanModel(t)
	m.Welds[0].Size = 0

	got := NewDetector(DefaultConfig()).Detect(m)
	c := findCode(t, got, CodeWeldInsufficient)
	if c.Severity != model.SevMajor {
		t.Fatalf("severity = %s, want MAJOR", c.Severity)
	}
	// A zero-size weld must not additionally trip the penetration or
	// standard-size checks; the size failure subsumes them.
	if n := codes(got)[CodeWeldPenetration]; n != 0 {
		t.Fatalf("zero-size weld also flagged penetration %d times", n)
	}
	if n := codes(got)[CodeWeldNonStandard]; n != 0 {
		t.Fatalf("zero-size weld also flagged non-standard size %d times", n)
	}
}

func TestDetect_OrphanBolt(t *testing.T) {
	m := cleanModel(t)
	b, err := model.NewBolt("B-stray-01", "PL-missing", 19.1, "A325", geom.V(100, 100, 100))
	if err != nil {
		t.Fatalf("bolt: %v", err)
	}
	m.Bolts = append(m.Bolts, b)

	got := NewDetector(DefaultConfig()).Detect(m)
	c := findCode(t, got, CodeBoltOrphan)
	if c.Severity != model.SevCritical {
		t.Fatalf("severity = %s, want CRITICAL", c.Severity)
	}
	if want := model.ClashID(CodeBoltOrphan, "B-stray-01"); c.ID != want {
		t.Fatalf("clash id = %q, want %q", c.ID, want)
	}
}

func TestDetect_FloatingPlate(t *testing.T) {
	m := cleanModel(t)
	m.Plates[m.PlateIndex("PL-J-001")].JointID = "J-999"

	got := NewDetector(DefaultConfig()).Detect(m)
	findCode(t, got, CodePlateFloating)
}

func TestDetect_MemberGeometry(t *testing.T) {
	mk := func(t *testing.T, id string, kind model.MemberKind, s, e geom.Vec3) model.Member {
		t.Helper()
		m, err := model.NewMember(id, kind, s, e, "W310x39", "A992")
		if err != nil {
			t.Fatalf("member %s: %v", id, err)
		}
		return m
	}

	t.Run("too short", func(t *testing.T) {
		m := cleanModel(t)
		m.Members = append(m.Members, mk(t, "stub-1", model.KindBeam, geom.V(0, 5000, 0), geom.V(50, 5000, 0)))
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodeMemberTooShort)
	})

	t.Run("parallel overlap", func(t *testing.T) {
		m := cleanModel(t)
		m.Members = append(m.Members,
			mk(t, "dup-a", model.KindBeam, geom.V(0, 5000, 0), geom.V(6000, 5000, 0)),
			mk(t, "dup-b", model.KindBeam, geom.V(0, 5010, 0), geom.V(6000, 5010, 0)),
		)
		got := NewDetector(DefaultConfig()).Detect(m)
		c := findCode(t, got, CodeMemberOverlap)
		if want := model.ClashID(CodeMemberOverlap, "dup-a", "dup-b"); c.ID != want {
			t.Fatalf("clash id = %q, want %q", c.ID, want)
		}
	})

	t.Run("crossing penetration", func(t *testing.T) {
		m := cleanModel(t)
		m.Members = append(m.Members,
			mk(t, "x-a", model.KindBeam, geom.V(-3000, 5000, 0), geom.V(3000, 5000, 0)),
			mk(t, "x-b", model.KindBeam, geom.V(0, 2000, 10), geom.V(0, 8000, 10)),
		)
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodeMemberPenetration)
	})

	t.Run("slenderness", func(t *testing.T) {
		m := cleanModel(t)
		// 38.1mm gyration radius gives L/r > 300 past 11430mm.
		m.Members = append(m.Members, mk(t, "long-1", model.KindBeam, geom.V(0, 5000, 0), geom.V(11800, 5000, 0)))
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodeMemberSlenderness)
	})
}

func TestDetect_BoltLayout(t *testing.T) {
	t.Run("edge distance", func(t *testing.T) {
		m := cleanModel(t)
		p := m.Plates[m.PlateIndex("PL-J-001")]
		bolts := m.BoltsForPlate(p.ID)
		// Push one bolt past the plate boundary.
		for i := range m.Bolts {
			if m.Bolts[i].ID == bolts[0].ID {
				m.Bolts[i].Position = m.Bolts[i].Position.Add(p.RefDir.Scale(p.Width))
			}
		}
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodeBoltEdgeDistance)
	})

	t.Run("spacing close", func(t *testing.T) {
		m := cleanModel(t)
		bolts := m.BoltsForPlate("PL-J-001")
		// Collapse two bolts onto nearly the same point.
		for i := range m.Bolts {
			if m.Bolts[i].ID == bolts[1].ID {
				m.Bolts[i].Position = bolts[0].Position.Add(geom.V(0, 1, 0))
			}
		}
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodeBoltSpacingClose)
	})

	t.Run("non-standard diameter", func(t *testing.T) {
		m := cleanModel(t)
		bolts := m.BoltsForPlate("PL-J-001")
		for i := range m.Bolts {
			if m.Bolts[i].ID == bolts[0].ID {
				m.Bolts[i].Diameter = 17.2
			}
		}
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodeBoltDiaNonStandard)
	})
}

func TestDetect_Anchorage(t *testing.T) {
	t.Run("short embedment", func(t *testing.T) {
		m := cleanModel(t)
		anchors := m.BoltsForPlate("BP-col-1")
		if len(anchors) != 4 {
			t.Fatalf("expected 4 anchors, got %d", len(anchors))
		}
		for i := range m.Bolts {
			if m.Bolts[i].ID == anchors[0].ID {
				m.Bolts[i].EmbedmentMM = 3 * m.Bolts[i].Diameter
			}
		}
		got := NewDetector(DefaultConfig()).Detect(m)
		c := findCode(t, got, CodeAnchorEmbedShort)
		if c.Severity != model.SevCritical {
			t.Fatalf("severity = %s, want CRITICAL", c.Severity)
		}
	})

	t.Run("outside footing", func(t *testing.T) {
		m := cleanModel(t)
		anchors := m.BoltsForPlate("BP-col-1")
		for i := range m.Bolts {
			if m.Bolts[i].ID == anchors[0].ID {
				m.Bolts[i].Position.Y += 2000
			}
		}
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodeAnchorOutsideFooting)
	})
}

func TestDetect_BoltProperties(t *testing.T) {
	t.Run("unknown grade", func(t *testing.T) {
		m := cleanModel(t)
		m.Bolts[0].Grade = "A999"
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodeBoltGradeUnknown)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		m := cleanModel(t)
		idx := m.PlateIndex("PL-J-001")
		m.Plates[idx].DemandKN = 5000
		got := NewDetector(DefaultConfig()).Detect(m)
		c := findCode(t, got, CodeBoltCapacityExceeded)
		if c.Severity != model.SevCritical {
			t.Fatalf("severity = %s, want CRITICAL", c.Severity)
		}
	})
}

func TestDetect_PlateProperties(t *testing.T) {
	t.Run("thin plate", func(t *testing.T) {
		m := cleanModel(t)
		idx := m.PlateIndex("PL-J-001")
		m.Plates[idx].Thickness = 3
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodePlateThin)
	})

	t.Run("unweldable material", func(t *testing.T) {
		m := cleanModel(t)
		idx := m.PlateIndex("PL-J-001")
		m.Plates[idx].Material = "cast-iron"
		got := NewDetector(DefaultConfig()).Detect(m)
		findCode(t, got, CodePlateUnweldable)
	})
}

func TestDetect_DoesNotMutateInput(t *testing.T) {
	m := cleanModel(t)
	m.Welds[0].Size = 0
	before := m.Clone()

	NewDetector(DefaultConfig()).Detect(m)
	if diff := cmp.Diff(before, m); diff != "" {
		t.Fatalf("detection mutated the input model:\n%s", diff)
	}
}

func TestDetectCode(t *testing.T) {
	m := cleanModel(t)
	m.Welds[0].Size = 0
	d := NewDetector(DefaultConfig())

	id := findCode(t, d.Detect(m), CodeWeldInsufficient).ID
	if !d.DetectCode(m, id) {
		t.Fatal("DetectCode should report the seeded weld defect")
	}

	m.Welds[0].Size = 6.4
	m.Welds[0].Penetration = 0.9 * 6.4
	if d.DetectCode(m, id) {
		t.Fatal("DetectCode should report the defect cleared after repair")
	}
}

func TestCategoryOf_CoversEveryCode(t *testing.T) {
	all := []string{
		CodeMemberTooShort, CodeMemberPenetration, CodeMemberOverlap,
		CodePlateOffsetXY, CodePlateOffsetZ, CodePlateAxisNotUnit, CodePlateNormalDegener,
		CodeBasePlateWrongElev, CodeBasePlateUndersized, CodeBasePlateOversized,
		CodeBasePlateNegCoords, CodeFoundationGapRange,
		CodeWeldMissing, CodeWeldInsufficient, CodeWeldPenetration, CodeWeldNonStandard,
		CodeBoltEdgeDistance, CodeBoltSpacingClose, CodeBoltSpacingWide, CodeBoltDiaNonStandard,
		CodeMemberSpanExcessive, CodeMemberSlenderness, CodeMemberUnbraced,
		CodeConnectionEccentric, CodeMomentUnresolved,
		CodeAnchorEmbedShort, CodeAnchorSpacing, CodeAnchorEdge, CodeAnchorOutsideFooting,
		CodePlateThin, CodePlateUnweldable,
		CodeBoltGradeUnknown, CodeBoltCapacityExceeded,
		CodeBoltOrphan, CodePlateFloating, CodeMemberDisconnected,
	}
	for _, code := range all {
		if CategoryOf(code) == "" {
			t.Errorf("code %s has no category", code)
		}
	}
}
