package model

import (
	"fmt"
	"sort"

	"girder/pkg/geom"
)

// ConnectionType classifies how members meet at a joint, derived from the
// angle between their axes.
type ConnectionType string

const (
	ConnSplice       ConnectionType = "splice"        // < 20 degrees
	ConnAngleBolted  ConnectionType = "angle_bolted"  // 20-70 degrees
	ConnMomentBolted ConnectionType = "moment_bolted" // > 70 degrees
	ConnUnclassified ConnectionType = ""
)

// Joint is a 3D point where two or more members meet. Joints are created by
// the resolver and are read-only afterward, except that the corrector may
// reposition one to resolve an eccentricity clash.
type Joint struct {
	ID         string         `json:"id" yaml:"id"`
	Position   geom.Vec3      `json:"position" yaml:"position"`
	MemberIDs  []string       `json:"members" yaml:"members"`
	Supplied   bool           `json:"supplied" yaml:"supplied"`
	Connection ConnectionType `json:"connection,omitempty" yaml:"connection,omitempty"`
}

// NewJoint validates and constructs a Joint. The member set is sorted so
// downstream iteration order is deterministic.
func NewJoint(id string, pos geom.Vec3, memberIDs []string, supplied bool) (Joint, error) {
	if id == "" {
		return Joint{}, fmt.Errorf("%w: empty joint id", ErrInvalidJoint)
	}
	if !pos.Finite() {
		return Joint{}, fmt.Errorf("%w: joint %s has non-finite position", ErrInvalidJoint, id)
	}
	if len(memberIDs) < 2 {
		return Joint{}, fmt.Errorf("%w: joint %s references %d members, need at least 2", ErrInvalidJoint, id, len(memberIDs))
	}
	ids := append([]string(nil), memberIDs...)
	sort.Strings(ids)
	return Joint{ID: id, Position: pos, MemberIDs: ids, Supplied: supplied}, nil
}

// HasMember reports whether the joint references the given member.
func (j Joint) HasMember(memberID string) bool {
	for _, id := range j.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}
