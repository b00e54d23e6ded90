// Package synth turns members + joints into physical connections: plates,
// bolt grids, and welds, sized through a sizing.Provider. Every generated
// element is placed by transforming plate-local offsets through the joint's
// frame with the joint position as the base point; a plate's position is by
// definition its joint's position.
package synth

import (
	"fmt"

	"girder/pkg/geom"
	"girder/pkg/model"
)

// Connection-type angle brackets, degrees.
const (
	spliceMaxAngle = 20
	angleMaxAngle  = 70
)

// ClassifyJoint derives the connection type from the largest acute angle
// between the member axes meeting at the joint: near-parallel members splice,
// skewed members get an angle connection, near-perpendicular members a
// moment connection.
func ClassifyJoint(j model.Joint, byID map[string]model.Member) (model.ConnectionType, error) {
	dirs := make([]geom.Vec3, 0, len(j.MemberIDs))
	for _, id := range j.MemberIDs {
		m, ok := byID[id]
		if !ok {
			return model.ConnUnclassified, fmt.Errorf("%w: joint %s references unknown member %s", ErrUnknownMember, j.ID, id)
		}
		dirs = append(dirs, m.Direction())
	}

	maxAngle := 0.0
	for i := 0; i < len(dirs); i++ {
		for k := i + 1; k < len(dirs); k++ {
			a, err := geom.AngleBetween(dirs[i], dirs[k])
			if err != nil {
				return model.ConnUnclassified, fmt.Errorf("joint %s: %w", j.ID, err)
			}
			if a > maxAngle {
				maxAngle = a
			}
		}
	}

	switch {
	case maxAngle < spliceMaxAngle:
		return model.ConnSplice, nil
	case maxAngle <= angleMaxAngle:
		return model.ConnAngleBolted, nil
	default:
		return model.ConnMomentBolted, nil
	}
}

// Classify assigns a connection type to every joint. Joints that cannot be
// classified are returned unchanged with an anomaly recorded.
func Classify(members []model.Member, joints []model.Joint) ([]model.Joint, []model.Anomaly) {
	byID := memberIndex(members)
	out := make([]model.Joint, len(joints))
	var anomalies []model.Anomaly
	for i, j := range joints {
		conn, err := ClassifyJoint(j, byID)
		if err != nil {
			anomalies = append(anomalies, model.Anomaly{
				Code:       "JOINT_UNCLASSIFIED",
				Message:    err.Error(),
				ElementIDs: []string{j.ID},
			})
		}
		j.Connection = conn
		out[i] = j
	}
	return out, anomalies
}

func memberIndex(members []model.Member) map[string]model.Member {
	byID := make(map[string]model.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return byID
}

// dominantMember returns the longest member at a joint; ties break on id so
// synthesis stays deterministic.
func dominantMember(j model.Joint, byID map[string]model.Member) (model.Member, bool) {
	var best model.Member
	found := false
	for _, id := range j.MemberIDs {
		m, ok := byID[id]
		if !ok {
			continue
		}
		if !found || m.Length() > best.Length() || (m.Length() == best.Length() && m.ID < best.ID) {
			best = m
			found = true
		}
	}
	return best, found
}
