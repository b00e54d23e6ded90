// Package geom provides the 3D primitives the connection engine is built on:
// vectors, segment-to-segment distance, and member-local coordinate frames.
// All lengths are millimetres. Functions here are pure; anything that receives
// a non-finite input returns an error instead of propagating NaN downstream.
package geom

import (
	"encoding/json"
	"fmt"
	"math"
)

// Eps is the magnitude below which a vector is treated as zero.
const Eps = 1e-9

// Vec3 is a point or direction in 3D space, in millimetres.
// It marshals as a three-element array [x, y, z], matching the
// ingestion and reporting schema.
type Vec3 struct {
	X, Y, Z float64
}

// V is shorthand for constructing a Vec3.
func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Dist returns the distance between two points.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Norm() }

// IsZero reports whether v is the exact coordinate origin. The engine uses
// this to detect elements that were silently defaulted rather than placed.
func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Finite reports whether every component is a finite number.
func (v Vec3) Finite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Midpoint returns the point halfway between v and o.
func (v Vec3) Midpoint(o Vec3) Vec3 { return v.Add(o).Scale(0.5) }

// Normalize returns the unit vector in the direction of v. A near-zero input
// yields the canonical +Z axis rather than NaN components; a non-finite input
// is an error.
func Normalize(v Vec3) (Vec3, error) {
	if !v.Finite() {
		return Vec3{}, fmt.Errorf("%w: normalize (%v, %v, %v)", ErrNonFinite, v.X, v.Y, v.Z)
	}
	n := v.Norm()
	if n < Eps {
		return Vec3{Z: 1}, nil
	}
	return v.Scale(1 / n), nil
}

// MarshalJSON encodes the vector as [x, y, z].
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

// UnmarshalJSON decodes a [x, y, z] array.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var a [3]float64
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("geom: vec3 must be a [x,y,z] array: %w", err)
	}
	v.X, v.Y, v.Z = a[0], a[1], a[2]
	return nil
}

// MarshalYAML encodes the vector as [x, y, z].
func (v Vec3) MarshalYAML() (any, error) {
	return [3]float64{v.X, v.Y, v.Z}, nil
}

// UnmarshalYAML decodes a [x, y, z] sequence.
func (v *Vec3) UnmarshalYAML(unmarshal func(any) error) error {
	var a [3]float64
	if err := unmarshal(&a); err != nil {
		return fmt.Errorf("geom: vec3 must be a [x,y,z] sequence: %w", err)
	}
	v.X, v.Y, v.Z = a[0], a[1], a[2]
	return nil
}
