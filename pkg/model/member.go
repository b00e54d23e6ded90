// Package model defines the records flowing through the connection engine:
// members in, joints/plates/bolts/welds out, with clash and correction
// records describing what the validator found and did. Required geometry
// fields are validated at construction so a half-built element cannot enter
// a run, and positions can never silently default to the origin.
package model

import (
	"fmt"

	"girder/pkg/geom"
)

// MemberKind classifies a structural member by its role.
type MemberKind string

const (
	KindBeam   MemberKind = "beam"
	KindColumn MemberKind = "column"
	KindBrace  MemberKind = "brace"
)

// KnownKind reports whether k is one of the supported member kinds.
func KnownKind(k MemberKind) bool {
	switch k {
	case KindBeam, KindColumn, KindBrace:
		return true
	}
	return false
}

// Member is a line-segment structural element extracted from CAD geometry.
// Members are owned by the ingestion side and borrowed read-only by the
// engine; nothing in the pipeline mutates them.
type Member struct {
	ID       string     `json:"id" yaml:"id"`
	Kind     MemberKind `json:"kind" yaml:"kind"`
	Start    geom.Vec3  `json:"start" yaml:"start"`
	End      geom.Vec3  `json:"end" yaml:"end"`
	Profile  string     `json:"profile" yaml:"profile"`
	Material string     `json:"material" yaml:"material"`
}

// NewMember validates and constructs a Member. Degenerate members (zero
// length, non-finite coordinates, unknown kind) are rejected here rather
// than carried into the run.
func NewMember(id string, kind MemberKind, start, end geom.Vec3, profile, material string) (Member, error) {
	if id == "" {
		return Member{}, fmt.Errorf("%w: empty member id", ErrInvalidMember)
	}
	if !KnownKind(kind) {
		return Member{}, fmt.Errorf("%w: member %s has unknown kind %q", ErrInvalidMember, id, kind)
	}
	if !start.Finite() || !end.Finite() {
		return Member{}, fmt.Errorf("%w: member %s has non-finite coordinates", ErrInvalidMember, id)
	}
	if start.Dist(end) < geom.Eps {
		return Member{}, fmt.Errorf("%w: member %s has zero length", ErrDegenerateMember, id)
	}
	return Member{ID: id, Kind: kind, Start: start, End: end, Profile: profile, Material: material}, nil
}

// Length returns the member's length in millimetres.
func (m Member) Length() float64 { return m.Start.Dist(m.End) }

// Direction returns the unnormalized start-to-end direction vector.
func (m Member) Direction() geom.Vec3 { return m.End.Sub(m.Start) }

// Endpoints returns both endpoints in declaration order.
func (m Member) Endpoints() [2]geom.Vec3 { return [2]geom.Vec3{m.Start, m.End} }
