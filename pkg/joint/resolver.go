// Package joint infers joint locations from member endpoint proximity and
// validates externally supplied joints against the member geometry. A joint
// position is always derived from the members that meet there; the resolver
// never lets a joint default to the coordinate origin.
package joint

import (
	"fmt"
	"log/slog"
	"sort"

	"girder/pkg/geom"
	"girder/pkg/model"
)

// DefaultToleranceMM is the endpoint proximity below which two members are
// considered to meet.
const DefaultToleranceMM = 100

// Resolver infers joints from members and validates supplied joints.
type Resolver struct {
	ToleranceMM float64
	log         *slog.Logger
}

// NewResolver returns a Resolver with the given merge tolerance. A zero or
// negative tolerance selects the default.
func NewResolver(toleranceMM float64, log *slog.Logger) *Resolver {
	if toleranceMM <= 0 {
		toleranceMM = DefaultToleranceMM
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{ToleranceMM: toleranceMM, log: log}
}

// candidate is one near-coincident endpoint pair: the midpoint of the two
// closest endpoints plus the pair of members that produced it.
type candidate struct {
	pos     geom.Vec3
	members [2]string
}

// Resolve infers joints from member intersections. When supplied joints are
// given, each is validated against the member geometry: implausible ones
// (out of tolerance of every declared member endpoint, or sitting at the
// origin with no member actually terminating there) are discarded and
// recomputed, with an anomaly recorded.
//
// Fewer than two members yields an empty joint set, not an error. Pairs with
// degenerate geometry are skipped and reported as anomalies.
func (r *Resolver) Resolve(members []model.Member, supplied []model.Joint) ([]model.Joint, []model.Anomaly) {
	var anomalies []model.Anomaly
	if len(members) < 2 {
		return nil, nil
	}

	cands := r.collectCandidates(members, &anomalies)
	joints := r.cluster(cands)

	if len(supplied) > 0 {
		joints = r.reconcileSupplied(members, joints, supplied, &anomalies)
	}

	sort.Slice(joints, func(i, j int) bool { return joints[i].ID < joints[j].ID })
	return joints, anomalies
}

// collectCandidates runs the pairwise endpoint scan. For every unordered
// member pair the four endpoint-to-endpoint distances are evaluated; a
// minimum below tolerance records the midpoint of the closest pair.
func (r *Resolver) collectCandidates(members []model.Member, anomalies *[]model.Anomaly) []candidate {
	var cands []candidate
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, b := members[i], members[j]
			if !a.Start.Finite() || !a.End.Finite() || !b.Start.Finite() || !b.End.Finite() {
				*anomalies = append(*anomalies, model.Anomaly{
					Code:       "PAIR_NON_FINITE",
					Message:    fmt.Sprintf("member pair %s/%s skipped: non-finite coordinates", a.ID, b.ID),
					ElementIDs: []string{a.ID, b.ID},
				})
				continue
			}

			best := -1.0
			var pa, pb geom.Vec3
			for _, ea := range a.Endpoints() {
				for _, eb := range b.Endpoints() {
					d := ea.Dist(eb)
					if best < 0 || d < best {
						best, pa, pb = d, ea, eb
					}
				}
			}
			if best >= 0 && best < r.ToleranceMM {
				cands = append(cands, candidate{pos: pa.Midpoint(pb), members: [2]string{a.ID, b.ID}})
			}
		}
	}
	return cands
}

// cluster merges candidates within tolerance of each other via union-find.
// Each cluster becomes one joint: position is the centroid of the merged
// candidates, member set the union. This yields correct multi-member joints
// instead of one joint per pair.
func (r *Resolver) cluster(cands []candidate) []model.Joint {
	if len(cands) == 0 {
		return nil
	}

	uf := newUnionFind(len(cands))
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			if cands[i].pos.Dist(cands[j].pos) < r.ToleranceMM {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range cands {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	type cluster struct {
		pos     geom.Vec3
		members []string
	}
	clusters := make([]cluster, 0, len(groups))
	for _, idxs := range groups {
		var sum geom.Vec3
		set := make(map[string]bool)
		for _, i := range idxs {
			sum = sum.Add(cands[i].pos)
			set[cands[i].members[0]] = true
			set[cands[i].members[1]] = true
		}
		members := make([]string, 0, len(set))
		for id := range set {
			members = append(members, id)
		}
		sort.Strings(members)
		clusters = append(clusters, cluster{
			pos:     sum.Scale(1 / float64(len(idxs))),
			members: members,
		})
	}

	// Deterministic numbering: order clusters by position, then members.
	sort.Slice(clusters, func(i, j int) bool {
		a, b := clusters[i].pos, clusters[j].pos
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return clusters[i].members[0] < clusters[j].members[0]
	})

	joints := make([]model.Joint, 0, len(clusters))
	for i, c := range clusters {
		j, err := model.NewJoint(fmt.Sprintf("J-%03d", i+1), c.pos, c.members, false)
		if err != nil {
			// A cluster always has >= 2 members and a finite centroid, so
			// this only fires on logic regressions; surface it loudly.
			r.log.Error("joint construction rejected", "err", err)
			continue
		}
		joints = append(joints, j)
	}
	return joints
}

// reconcileSupplied overlays valid supplied joints onto the inferred set.
// A supplied joint that matches an inferred joint within tolerance replaces
// it (keeping the supplied id and position); invalid supplied joints are
// reported and the inferred joint is used instead.
func (r *Resolver) reconcileSupplied(members []model.Member, inferred, supplied []model.Joint, anomalies *[]model.Anomaly) []model.Joint {
	byID := make(map[string]model.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	out := append([]model.Joint(nil), inferred...)
	for _, s := range supplied {
		if reason, ok := r.validateSupplied(byID, s); !ok {
			*anomalies = append(*anomalies, model.Anomaly{
				Code:       "SUPPLIED_JOINT_INVALID",
				Message:    fmt.Sprintf("supplied joint %s rejected (%s), recomputed from member geometry", s.ID, reason),
				ElementIDs: []string{s.ID},
			})
			r.log.Warn("supplied joint rejected", "joint", s.ID, "reason", reason)
			continue
		}
		adopted := false
		for i := range out {
			if out[i].Position.Dist(s.Position) < r.ToleranceMM {
				j, err := model.NewJoint(s.ID, s.Position, out[i].MemberIDs, true)
				if err == nil {
					out[i] = j
					adopted = true
				}
				break
			}
		}
		if !adopted && len(s.MemberIDs) >= 2 {
			j, err := model.NewJoint(s.ID, s.Position, s.MemberIDs, true)
			if err == nil {
				out = append(out, j)
			}
		}
	}
	return out
}

// validateSupplied checks a supplied joint's stated position against its
// declared members. The origin check catches the documented failure mode of
// joints silently defaulting to [0,0,0].
func (r *Resolver) validateSupplied(members map[string]model.Member, s model.Joint) (string, bool) {
	if !s.Position.Finite() {
		return "non-finite position", false
	}
	if len(s.MemberIDs) < 2 {
		return "fewer than two members", false
	}

	withinTol := false
	originLegit := false
	for _, id := range s.MemberIDs {
		m, ok := members[id]
		if !ok {
			return fmt.Sprintf("unknown member %s", id), false
		}
		for _, e := range m.Endpoints() {
			if e.Dist(s.Position) < r.ToleranceMM {
				withinTol = true
			}
			if e.IsZero() {
				originLegit = true
			}
		}
	}
	if s.Position.IsZero() && !originLegit {
		return "position is the origin but no declared member terminates there", false
	}
	if !withinTol {
		return "position out of tolerance of every declared member endpoint", false
	}
	return "", true
}
