package clash

import (
	"fmt"

	"girder/pkg/geom"
	"girder/pkg/model"
)

// overlapAngleDeg is the axis angle below which two close members are an
// overlap rather than a penetration.
const overlapAngleDeg = 5

// checkGeometry covers category 1: member intersection, overlap, and span
// sanity on the raw member set.
func (d *Detector) checkGeometry(m *model.Model, out *[]model.Clash) {
	for _, mem := range m.Members {
		if mem.Length() < d.cfg.MinMemberLengthMM {
			add(out, CodeMemberTooShort, model.SevModerate, 0.9,
				fmt.Sprintf("member %s span %s is below the %s sanity floor",
					mem.ID, mm(mem.Length()), mm(d.cfg.MinMemberLengthMM)),
				mem.ID)
		}
	}

	joined := jointPairs(m)
	for i := 0; i < len(m.Members); i++ {
		for k := i + 1; k < len(m.Members); k++ {
			a, b := m.Members[i], m.Members[k]
			if joined[a.ID+"|"+b.ID] {
				continue // members meeting at a joint are supposed to touch
			}
			dist, _, _, err := geom.SegmentDistance(a.Start, a.End, b.Start, b.End)
			if err != nil {
				continue // non-finite pairs were already reported at resolve time
			}
			if dist >= d.cfg.MinClearanceMM {
				continue
			}
			angle, err := geom.AngleBetween(a.Direction(), b.Direction())
			if err == nil && angle < overlapAngleDeg {
				add(out, CodeMemberOverlap, model.SevCritical, 0.92,
					fmt.Sprintf("members %s and %s run parallel %s apart with no joint", a.ID, b.ID, mm(dist)),
					a.ID, b.ID)
				continue
			}
			add(out, CodeMemberPenetration, model.SevMajor, 0.85,
				fmt.Sprintf("members %s and %s pass within %s with no joint between them", a.ID, b.ID, mm(dist)),
				a.ID, b.ID)
		}
	}
}

// jointPairs indexes unordered member pairs that share a joint, keyed both
// ways so lookup order does not matter.
func jointPairs(m *model.Model) map[string]bool {
	joined := make(map[string]bool)
	for _, j := range m.Joints {
		for x := 0; x < len(j.MemberIDs); x++ {
			for y := x + 1; y < len(j.MemberIDs); y++ {
				joined[j.MemberIDs[x]+"|"+j.MemberIDs[y]] = true
				joined[j.MemberIDs[y]+"|"+j.MemberIDs[x]] = true
			}
		}
	}
	return joined
}

// checkMemberGeometry covers category 6: excessive span, slenderness, and
// missing bracing hints.
func (d *Detector) checkMemberGeometry(m *model.Model, out *[]model.Clash) {
	braced := bracedMembers(m)
	for _, mem := range m.Members {
		l := mem.Length()
		if l > d.cfg.MaxSpanMM {
			add(out, CodeMemberSpanExcessive, model.SevModerate, 0.8,
				fmt.Sprintf("member %s spans %s, over the %s review limit", mem.ID, mm(l), mm(d.cfg.MaxSpanMM)),
				mem.ID)
		}

		limit := d.cfg.MaxSlendernessBeam
		if mem.Kind == model.KindColumn || mem.Kind == model.KindBrace {
			limit = d.cfg.MaxSlendernessColumn
		}
		ratio := l / gyrationRadius(mem.Profile)
		if ratio > limit {
			add(out, CodeMemberSlenderness, model.SevMajor, 0.82,
				fmt.Sprintf("member %s slenderness L/r = %.0f exceeds the code limit %.0f", mem.ID, ratio, limit),
				mem.ID)
		}

		if mem.Kind == model.KindBeam && l > d.cfg.BraceSpanMM && !braced[mem.ID] {
			add(out, CodeMemberUnbraced, model.SevMinor, 0.6,
				fmt.Sprintf("beam %s spans %s with no brace at any of its joints", mem.ID, mm(l)),
				mem.ID)
		}
	}
}

// bracedMembers marks members that share a joint with at least one brace.
func bracedMembers(m *model.Model) map[string]bool {
	kind := make(map[string]model.MemberKind, len(m.Members))
	for _, mem := range m.Members {
		kind[mem.ID] = mem.Kind
	}
	braced := make(map[string]bool)
	for _, j := range m.Joints {
		hasBrace := false
		for _, id := range j.MemberIDs {
			if kind[id] == model.KindBrace {
				hasBrace = true
			}
		}
		if hasBrace {
			for _, id := range j.MemberIDs {
				braced[id] = true
			}
		}
	}
	return braced
}

// checkConnectionAlignment covers category 7: eccentricity and unresolved
// moment transfer at joints.
func (d *Detector) checkConnectionAlignment(m *model.Model, out *[]model.Clash) {
	byID := make(map[string]model.Member, len(m.Members))
	for _, mem := range m.Members {
		byID[mem.ID] = mem
	}

	for _, j := range m.Joints {
		worst := 0.0
		worstMember := ""
		momentAngle := false
		var dirs []geom.Vec3
		for _, id := range j.MemberIDs {
			mem, ok := byID[id]
			if !ok {
				continue
			}
			dist, _, err := geom.PointSegmentDistance(j.Position, mem.Start, mem.End)
			if err == nil && dist > worst {
				worst, worstMember = dist, id
			}
			dirs = append(dirs, mem.Direction())
		}
		if worst > d.cfg.EccentricityTolMM {
			add(out, CodeConnectionEccentric, model.SevMajor, 0.85,
				fmt.Sprintf("joint %s sits %s off the axis of member %s", j.ID, mm(worst), worstMember),
				j.ID, worstMember)
		}

		for x := 0; x < len(dirs); x++ {
			for y := x + 1; y < len(dirs); y++ {
				if a, err := geom.AngleBetween(dirs[x], dirs[y]); err == nil && a > 70 {
					momentAngle = true
				}
			}
		}
		if momentAngle && j.Connection != model.ConnMomentBolted && j.Connection != model.ConnUnclassified {
			add(out, CodeMomentUnresolved, model.SevMajor, 0.8,
				fmt.Sprintf("joint %s carries near-perpendicular members but is connected as %s", j.ID, j.Connection),
				j.ID)
		}
	}
}
