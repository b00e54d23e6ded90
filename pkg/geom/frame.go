package geom

import (
	"fmt"
	"math"
)

// verticalDot is the |axis . +Z| threshold above which a member is treated
// as vertical and the reference direction switches to +X. 0.99 corresponds
// to roughly 8 degrees off plumb.
const verticalDot = 0.99

// Frame is a right-handed orthonormal local coordinate frame. X is the
// primary (member) axis; Y and Z span the plane perpendicular to it.
type Frame struct {
	X, Y, Z Vec3
}

// LocalFrame builds an orthonormal frame whose X axis is the unit vector
// along dir. The reference direction for the perpendicular plane is global
// +Z, switching deterministically to global +X when dir is vertical, which
// avoids the cross-product degeneracy for columns.
func LocalFrame(dir Vec3) (Frame, error) {
	x, err := Normalize(dir)
	if err != nil {
		return Frame{}, err
	}
	if dir.Norm() < Eps {
		return Frame{}, fmt.Errorf("%w: local frame from zero direction", ErrDegenerate)
	}

	ref := Vec3{Z: 1}
	if math.Abs(x.Dot(ref)) > verticalDot {
		ref = Vec3{X: 1}
	}

	y, err := Normalize(ref.Cross(x))
	if err != nil {
		return Frame{}, err
	}
	z := x.Cross(y) // unit by construction

	return Frame{X: x, Y: y, Z: z}, nil
}

// ToGlobal transforms a local offset into global coordinates anchored at
// base. Base is always the owning joint's position; local offsets are never
// applied to any other origin.
func (f Frame) ToGlobal(base, local Vec3) Vec3 {
	return base.
		Add(f.X.Scale(local.X)).
		Add(f.Y.Scale(local.Y)).
		Add(f.Z.Scale(local.Z))
}

// Orthonormal reports whether the frame's axes are unit length and mutually
// perpendicular within tolerance.
func (f Frame) Orthonormal() bool {
	const tol = 1e-6
	for _, a := range []Vec3{f.X, f.Y, f.Z} {
		if math.Abs(a.Norm()-1) > tol {
			return false
		}
	}
	return math.Abs(f.X.Dot(f.Y)) < tol &&
		math.Abs(f.Y.Dot(f.Z)) < tol &&
		math.Abs(f.Z.Dot(f.X)) < tol
}

// AngleBetween returns the acute angle in degrees between two directions,
// ignoring orientation (a member and its reverse span the same axis).
func AngleBetween(a, b Vec3) (float64, error) {
	ua, err := Normalize(a)
	if err != nil {
		return 0, err
	}
	ub, err := Normalize(b)
	if err != nil {
		return 0, err
	}
	d := math.Abs(ua.Dot(ub))
	if d > 1 {
		d = 1
	}
	return math.Acos(d) * 180 / math.Pi, nil
}
