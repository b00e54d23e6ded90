package geom

import (
	"math"
	"testing"
)

func TestNormalize_UnitVector(t *testing.T) {
	v, err := Normalize(V(3, 0, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(v.Norm()-1) > 1e-12 {
		t.Errorf("expected unit length, got %v", v.Norm())
	}
	if math.Abs(v.X-0.6) > 1e-12 || math.Abs(v.Z-0.8) > 1e-12 {
		t.Errorf("unexpected direction: %+v", v)
	}
}

func TestNormalize_NearZeroFallsBackToZ(t *testing.T) {
	v, err := Normalize(V(0, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != (Vec3{Z: 1}) {
		t.Errorf("expected canonical +Z for zero input, got %+v", v)
	}
}

func TestNormalize_NonFiniteIsError(t *testing.T) {
	if _, err := Normalize(V(math.NaN(), 0, 0)); err == nil {
		t.Fatal("expected error for NaN input")
	}
	if _, err := Normalize(V(0, math.Inf(1), 0)); err == nil {
		t.Fatal("expected error for Inf input")
	}
}

func TestSegmentDistance_Crossing(t *testing.T) {
	// Perpendicular segments 100mm apart at their midpoints.
	d, pa, pb, err := SegmentDistance(
		V(-500, 0, 0), V(500, 0, 0),
		V(0, -500, 100), V(0, 500, 100),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d-100) > 1e-9 {
		t.Errorf("distance = %v, want 100", d)
	}
	if pa.Dist(V(0, 0, 0)) > 1e-9 {
		t.Errorf("closest point on A = %+v, want origin", pa)
	}
	if pb.Dist(V(0, 0, 100)) > 1e-9 {
		t.Errorf("closest point on B = %+v, want (0,0,100)", pb)
	}
}

func TestSegmentDistance_SharedEndpoint(t *testing.T) {
	d, _, _, err := SegmentDistance(
		V(0, 0, 0), V(0, 0, 3000),
		V(0, 0, 3000), V(6000, 0, 3000),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d > 1e-9 {
		t.Errorf("segments sharing an endpoint should have zero distance, got %v", d)
	}
}

func TestSegmentDistance_Parallel(t *testing.T) {
	d, _, _, err := SegmentDistance(
		V(0, 0, 0), V(1000, 0, 0),
		V(0, 50, 0), V(1000, 50, 0),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d-50) > 1e-9 {
		t.Errorf("parallel distance = %v, want 50", d)
	}
}

func TestSegmentDistance_NonFinite(t *testing.T) {
	_, _, _, err := SegmentDistance(V(math.NaN(), 0, 0), V(1, 0, 0), V(0, 1, 0), V(1, 1, 0))
	if err == nil {
		t.Fatal("expected error for NaN endpoint")
	}
}

func TestPointSegmentDistance_Clamped(t *testing.T) {
	// Point beyond the segment end clamps to the endpoint.
	d, q, err := PointSegmentDistance(V(2000, 0, 0), V(0, 0, 0), V(1000, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d-1000) > 1e-9 {
		t.Errorf("distance = %v, want 1000", d)
	}
	if q != V(1000, 0, 0) {
		t.Errorf("closest point = %+v, want segment end", q)
	}
}

func TestLocalFrame_Horizontal(t *testing.T) {
	f, err := LocalFrame(V(6000, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Orthonormal() {
		t.Fatalf("frame not orthonormal: %+v", f)
	}
	if f.X != (Vec3{X: 1}) {
		t.Errorf("X axis = %+v, want +X", f.X)
	}
}

func TestLocalFrame_VerticalUsesDeterministicReference(t *testing.T) {
	// A column is parallel to +Z; the +Z reference would degenerate.
	f, err := LocalFrame(V(0, 0, 3000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Orthonormal() {
		t.Fatalf("frame not orthonormal: %+v", f)
	}
	// Same input must always yield the same frame.
	g, err := LocalFrame(V(0, 0, 3000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != g {
		t.Errorf("vertical frame not deterministic: %+v vs %+v", f, g)
	}
}

func TestLocalFrame_ZeroDirection(t *testing.T) {
	if _, err := LocalFrame(V(0, 0, 0)); err == nil {
		t.Fatal("expected error for zero direction")
	}
}

func TestFrameToGlobal_BasePoint(t *testing.T) {
	f, err := LocalFrame(V(1, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	base := V(100, 200, 300)
	got := f.ToGlobal(base, Vec3{})
	if got != base {
		t.Errorf("zero local offset must map to the base point, got %+v", got)
	}
}

func TestAngleBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"perpendicular", V(1, 0, 0), V(0, 0, 1), 90},
		{"parallel", V(1, 0, 0), V(2, 0, 0), 0},
		{"antiparallel folds to acute", V(1, 0, 0), V(-1, 0, 0), 0},
		{"45 degrees", V(1, 0, 0), V(1, 1, 0), 45},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AngleBetween(tc.a, tc.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("angle = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVec3_JSONRoundTrip(t *testing.T) {
	v := V(1.5, -2, 3000)
	data, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[1.5,-2,3000]" {
		t.Errorf("unexpected encoding: %s", data)
	}
	var got Vec3
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != v {
		t.Errorf("round trip mismatch: %+v != %+v", got, v)
	}
}
