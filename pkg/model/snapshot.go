package model

import "sort"

// Model is the per-run arena of structural data the detector and corrector
// operate on. Members are borrowed; everything else is owned by the run.
type Model struct {
	Members []Member `json:"members" yaml:"members"`
	Joints  []Joint  `json:"joints" yaml:"joints"`
	Plates  []Plate  `json:"plates" yaml:"plates"`
	Bolts   []Bolt   `json:"bolts" yaml:"bolts"`
	Welds   []Weld   `json:"welds" yaml:"welds"`
}

// Clone deep-copies the model so the corrector can mutate freely while the
// caller keeps the pre-correction snapshot.
func (m *Model) Clone() *Model {
	c := &Model{
		Members: append([]Member(nil), m.Members...),
		Joints:  make([]Joint, len(m.Joints)),
		Plates:  make([]Plate, len(m.Plates)),
		Bolts:   append([]Bolt(nil), m.Bolts...),
		Welds:   append([]Weld(nil), m.Welds...),
	}
	for i, j := range m.Joints {
		j.MemberIDs = append([]string(nil), j.MemberIDs...)
		c.Joints[i] = j
	}
	for i, p := range m.Plates {
		p.MemberIDs = append([]string(nil), p.MemberIDs...)
		c.Plates[i] = p
	}
	return c
}

// MemberByID returns the member with the given id.
func (m *Model) MemberByID(id string) (Member, bool) {
	for _, mem := range m.Members {
		if mem.ID == id {
			return mem, true
		}
	}
	return Member{}, false
}

// JointByID returns the joint with the given id.
func (m *Model) JointByID(id string) (Joint, bool) {
	for _, j := range m.Joints {
		if j.ID == id {
			return j, true
		}
	}
	return Joint{}, false
}

// PlateByID returns the plate with the given id.
func (m *Model) PlateByID(id string) (Plate, bool) {
	for _, p := range m.Plates {
		if p.ID == id {
			return p, true
		}
	}
	return Plate{}, false
}

// PlateIndex returns the slice index of the plate with the given id, or -1.
func (m *Model) PlateIndex(id string) int {
	for i, p := range m.Plates {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// JointIndex returns the slice index of the joint with the given id, or -1.
func (m *Model) JointIndex(id string) int {
	for i, j := range m.Joints {
		if j.ID == id {
			return i
		}
	}
	return -1
}

// BoltsForPlate returns the bolts owned by a plate, in id order.
func (m *Model) BoltsForPlate(plateID string) []Bolt {
	var out []Bolt
	for _, b := range m.Bolts {
		if b.PlateID == plateID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WeldsForPlate returns the welds owned by a plate, in id order.
func (m *Model) WeldsForPlate(plateID string) []Weld {
	var out []Weld
	for _, w := range m.Welds {
		if w.PlateID == plateID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sort orders every element slice by id so detection and reporting are
// independent of construction order.
func (m *Model) Sort() {
	sort.Slice(m.Members, func(i, j int) bool { return m.Members[i].ID < m.Members[j].ID })
	sort.Slice(m.Joints, func(i, j int) bool { return m.Joints[i].ID < m.Joints[j].ID })
	sort.Slice(m.Plates, func(i, j int) bool { return m.Plates[i].ID < m.Plates[j].ID })
	sort.Slice(m.Bolts, func(i, j int) bool { return m.Bolts[i].ID < m.Bolts[j].ID })
	sort.Slice(m.Welds, func(i, j int) bool { return m.Welds[i].ID < m.Welds[j].ID })
}
