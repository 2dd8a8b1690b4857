package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3Add(t *testing.T) {
	got := Vec3{1, 2, 3}.Add(Vec3{3, 4, 5})
	want := Vec3{4, 6, 8}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, -2}

	if got, want := a.Min(b), (Vec3{1, -1, -2}); got != want {
		t.Errorf("Vec3.Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, -2}); got != want {
		t.Errorf("Vec3.Max() = %v, want %v", got, want)
	}

	// Infinite sentinels give way to any finite point.
	inf := Splat(math32.Inf(1))
	if got := inf.Min(a); got != a {
		t.Errorf("+Inf.Min(a) = %v, want %v", got, a)
	}
}

func TestVec3Length(t *testing.T) {
	if got := (Vec3{2, 3, 6}).Length(); got != 7 {
		t.Errorf("Vec3.Length() = %v, want 7", got)
	}
}

func TestVec3FromSlice(t *testing.T) {
	v, ok := Vec3FromSlice([]float32{1, 2, 3})
	if !ok || v != (Vec3{1, 2, 3}) {
		t.Errorf("Vec3FromSlice = %v, %v", v, ok)
	}
	if _, ok := Vec3FromSlice(nil); ok {
		t.Error("expected nil slice to be rejected")
	}
}
