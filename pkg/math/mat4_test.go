package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in the last column (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	got := Translate(10, 20, 30).TransformPoint(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}

	got = Scale(2, 2, 2).TransformPoint(Vec3{1, 2, 3})
	want = Vec3{2, 4, 6}
	if got != want {
		t.Errorf("TransformPoint with scale: got %v, want %v", got, want)
	}
}

func TestMat4FromSlice(t *testing.T) {
	values := []float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		7, 8, 9, 1,
	}
	m, ok := Mat4FromSlice(values)
	if !ok {
		t.Fatal("expected 16 values to be accepted")
	}
	if m != Translate(7, 8, 9) {
		t.Errorf("column-major slice should equal Translate(7, 8, 9), got %v", m)
	}

	if _, ok := Mat4FromSlice(values[:15]); ok {
		t.Error("expected 15 values to be rejected")
	}
}

func TestFromTRSOrder(t *testing.T) {
	// Scale by 2, rotate 90 degrees around Z, then translate by (10, 0, 0).
	rot := QuatFromAxisAngle(Vec3{0, 0, 1}, float32(math.Pi/2))
	m := FromTRS(Vec3{10, 0, 0}, rot, Vec3{2, 2, 2})

	got := m.TransformPoint(Vec3{1, 0, 0})
	// (1,0,0) -> scale (2,0,0) -> rotate (0,2,0) -> translate (10,2,0)
	want := Vec3{10, 2, 0}
	if abs(got.X-want.X) > 0.0001 || abs(got.Y-want.Y) > 0.0001 || abs(got.Z-want.Z) > 0.0001 {
		t.Errorf("FromTRS: got %v, want %v", got, want)
	}
}

func TestFromTRSIdentity(t *testing.T) {
	m := FromTRS(Vec3{}, QuatIdentity(), Splat(1))
	if m != Identity() {
		t.Errorf("identity TRS should give identity matrix, got %v", m)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
