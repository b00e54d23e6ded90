package clash

import (
	"fmt"

	"girder/pkg/model"
)

// checkStructuralLogic covers category 11: referential integrity between
// bolts, plates, joints, and members.
func (d *Detector) checkStructuralLogic(m *model.Model, out *[]model.Clash) {
	members := make(map[string]bool, len(m.Members))
	for _, mem := range m.Members {
		members[mem.ID] = true
	}

	for _, b := range m.Bolts {
		if _, ok := m.PlateByID(b.PlateID); !ok {
			add(out, CodeBoltOrphan, model.SevCritical, 0.95,
				fmt.Sprintf("bolt %s references plate %s which does not exist", b.ID, b.PlateID),
				b.ID)
		}
	}

	for _, p := range m.Plates {
		floating := false
		switch p.Kind {
		case model.PlateBase:
			// Base plates are anchored to their column, not a joint.
			floating = len(p.MemberIDs) == 0
			for _, id := range p.MemberIDs {
				if !members[id] {
					floating = true
				}
			}
		default:
			if _, ok := m.JointByID(p.JointID); !ok {
				floating = true
			}
		}
		if floating {
			add(out, CodePlateFloating, model.SevCritical, 0.95,
				fmt.Sprintf("plate %s is not attached to any joint or member in the model", p.ID),
				p.ID)
		}
	}

	attached := make(map[string]bool, len(m.Members))
	for _, j := range m.Joints {
		for _, id := range j.MemberIDs {
			attached[id] = true
		}
	}
	for _, p := range m.Plates {
		for _, id := range p.MemberIDs {
			attached[id] = true
		}
	}
	for _, mem := range m.Members {
		if !attached[mem.ID] {
			add(out, CodeMemberDisconnected, model.SevMajor, 0.85,
				fmt.Sprintf("member %s participates in no joint and carries no plate", mem.ID),
				mem.ID)
		}
	}
}
