package geom

import "fmt"

// SegmentDistance computes the minimum distance between segments [a0,a1] and
// [b0,b1], returning the distance and the closest point on each segment.
// This is the clamped-parameter closest-point formulation; parallel and
// degenerate segments fall out of the clamping without special-case branches
// beyond the denominator guards.
func SegmentDistance(a0, a1, b0, b1 Vec3) (float64, Vec3, Vec3, error) {
	for _, p := range []Vec3{a0, a1, b0, b1} {
		if !p.Finite() {
			return 0, Vec3{}, Vec3{}, fmt.Errorf("%w: segment endpoint (%v, %v, %v)", ErrNonFinite, p.X, p.Y, p.Z)
		}
	}

	d1 := a1.Sub(a0) // direction of segment A
	d2 := b1.Sub(b0) // direction of segment B
	r := a0.Sub(b0)

	la := d1.Dot(d1) // squared length of A
	lb := d2.Dot(d2) // squared length of B
	f := d2.Dot(r)

	var s, t float64
	switch {
	case la < Eps && lb < Eps:
		// Both segments are points.
		s, t = 0, 0
	case la < Eps:
		s = 0
		t = clamp01(f / lb)
	default:
		c := d1.Dot(r)
		if lb < Eps {
			t = 0
			s = clamp01(-c / la)
		} else {
			b := d1.Dot(d2)
			denom := la*lb - b*b
			if denom > Eps {
				s = clamp01((b*f - c*lb) / denom)
			} else {
				// Parallel: pick s=0, resolve t below.
				s = 0
			}
			t = clamp01((b*s + f) / lb)
			s = clamp01((b*t - c) / la)
		}
	}

	pa := a0.Add(d1.Scale(s))
	pb := b0.Add(d2.Scale(t))
	return pa.Dist(pb), pa, pb, nil
}

// PointSegmentDistance returns the distance from point p to segment [a0,a1]
// and the closest point on the segment.
func PointSegmentDistance(p, a0, a1 Vec3) (float64, Vec3, error) {
	if !p.Finite() || !a0.Finite() || !a1.Finite() {
		return 0, Vec3{}, fmt.Errorf("%w: point-segment distance", ErrNonFinite)
	}
	d := a1.Sub(a0)
	l2 := d.Dot(d)
	if l2 < Eps {
		return p.Dist(a0), a0, nil
	}
	t := clamp01(p.Sub(a0).Dot(d) / l2)
	q := a0.Add(d.Scale(t))
	return p.Dist(q), q, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Clamp restricts f to [lo, hi].
func Clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
