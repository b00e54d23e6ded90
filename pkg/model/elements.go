package model

import (
	"fmt"
	"sort"

	"girder/pkg/geom"
)

// Provenance records whether a dimension came from the model-backed sizing
// provider or from the closed-form formula fallback.
type Provenance string

const (
	ProvModel   Provenance = "model"
	ProvFormula Provenance = "formula"
)

// PlateKind distinguishes connection plates from column base plates, which
// carry foundation-specific checks.
type PlateKind string

const (
	PlateGusset PlateKind = "gusset"
	PlateBase   PlateKind = "base"
)

// Plate is a steel plate placed at a joint. Its position is defined to equal
// the joint's position; the two are never computed independently.
type Plate struct {
	ID        string    `json:"id" yaml:"id"`
	JointID   string    `json:"joint_id" yaml:"joint_id"`
	Kind      PlateKind `json:"kind" yaml:"kind"`
	Position  geom.Vec3 `json:"position" yaml:"position"`
	Width     float64   `json:"width" yaml:"width"`         // mm
	Height    float64   `json:"height" yaml:"height"`       // mm
	Thickness float64   `json:"thickness" yaml:"thickness"` // mm
	Material  string    `json:"material" yaml:"material"`

	// Local orientation: Axis is the plate normal-plane primary axis (the
	// dominant member direction), RefDir the in-plane reference. Both unit.
	Axis   geom.Vec3 `json:"axis" yaml:"axis"`
	RefDir geom.Vec3 `json:"ref_dir" yaml:"ref_dir"`

	MemberIDs []string `json:"members" yaml:"members"`

	// FoundationGap is the grout gap under a base plate, mm. Zero for gussets.
	FoundationGap float64 `json:"foundation_gap,omitempty" yaml:"foundation_gap,omitempty"`

	// DemandKN is the design load the plate was sized for. Recorded so
	// reviewers can see when the conservative default was assumed.
	DemandKN   float64    `json:"demand_kn" yaml:"demand_kn"`
	Provenance Provenance `json:"provenance" yaml:"provenance"`
	Confidence float64    `json:"confidence" yaml:"confidence"`
}

// NewPlate validates and constructs a Plate anchored at its joint.
func NewPlate(id string, joint Joint, kind PlateKind, width, height, thickness float64, material string, axis, refDir geom.Vec3) (Plate, error) {
	if id == "" {
		return Plate{}, fmt.Errorf("%w: empty plate id", ErrInvalidElement)
	}
	if width <= 0 || height <= 0 || thickness <= 0 {
		return Plate{}, fmt.Errorf("%w: plate %s has non-positive outline %gx%gx%g", ErrInvalidElement, id, width, height, thickness)
	}
	if !axis.Finite() || !refDir.Finite() {
		return Plate{}, fmt.Errorf("%w: plate %s has non-finite orientation", ErrInvalidElement, id)
	}
	ids := append([]string(nil), joint.MemberIDs...)
	sort.Strings(ids)
	return Plate{
		ID:        id,
		JointID:   joint.ID,
		Kind:      kind,
		Position:  joint.Position,
		Width:     width,
		Height:    height,
		Thickness: thickness,
		Material:  material,
		Axis:      axis,
		RefDir:    refDir,
		MemberIDs: ids,
	}, nil
}

// Bolt is a fastener owned by a plate. Its global position is derived by
// transforming a plate-local offset through the joint's frame.
type Bolt struct {
	ID       string    `json:"id" yaml:"id"`
	PlateID  string    `json:"plate_id" yaml:"plate_id"`
	Diameter float64   `json:"diameter" yaml:"diameter"` // mm
	Grade    string    `json:"grade" yaml:"grade"`
	Position geom.Vec3 `json:"position" yaml:"position"`

	// EmbedmentMM is nonzero only for anchor bolts cast into the foundation.
	EmbedmentMM float64 `json:"embedment_mm,omitempty" yaml:"embedment_mm,omitempty"`

	Provenance Provenance `json:"provenance" yaml:"provenance"`
	Confidence float64    `json:"confidence" yaml:"confidence"`
}

// NewBolt validates and constructs a Bolt. The plate reference is mandatory;
// a dangling plate_id is a detectable defect, not an allowed state.
func NewBolt(id, plateID string, diameter float64, grade string, pos geom.Vec3) (Bolt, error) {
	if id == "" || plateID == "" {
		return Bolt{}, fmt.Errorf("%w: bolt %q must carry a plate reference", ErrInvalidElement, id)
	}
	if diameter <= 0 {
		return Bolt{}, fmt.Errorf("%w: bolt %s has non-positive diameter", ErrInvalidElement, id)
	}
	if !pos.Finite() {
		return Bolt{}, fmt.Errorf("%w: bolt %s has non-finite position", ErrInvalidElement, id)
	}
	return Bolt{ID: id, PlateID: plateID, Diameter: diameter, Grade: grade, Position: pos}, nil
}

// WeldType is the weld geometry class.
type WeldType string

const (
	WeldFillet WeldType = "fillet"
	WeldGroove WeldType = "groove"
)

// Weld joins a member to its plate.
type Weld struct {
	ID        string   `json:"id" yaml:"id"`
	PlateID   string   `json:"plate_id" yaml:"plate_id"`
	MemberID  string   `json:"member_id" yaml:"member_id"`
	Type      WeldType `json:"type" yaml:"type"`
	Size      float64  `json:"size" yaml:"size"`     // leg size, mm
	Length    float64  `json:"length" yaml:"length"` // mm
	Electrode string   `json:"electrode" yaml:"electrode"`

	// Penetration is the effective penetration depth, mm. Must be at least
	// 0.8 x Size to count as sound.
	Penetration float64 `json:"penetration" yaml:"penetration"`

	Provenance Provenance `json:"provenance" yaml:"provenance"`
	Confidence float64    `json:"confidence" yaml:"confidence"`
}

// NewWeld validates and constructs a Weld.
func NewWeld(id, plateID, memberID string, typ WeldType, size, length float64, electrode string) (Weld, error) {
	if id == "" || plateID == "" {
		return Weld{}, fmt.Errorf("%w: weld %q must carry a plate reference", ErrInvalidElement, id)
	}
	if length <= 0 {
		return Weld{}, fmt.Errorf("%w: weld %s has non-positive length", ErrInvalidElement, id)
	}
	return Weld{ID: id, PlateID: plateID, MemberID: memberID, Type: typ, Size: size, Length: length, Electrode: electrode}, nil
}
