// Package bounds computes axis-aligned bounding boxes of glTF scenes.
package bounds

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/gltfkit/pkg/math"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min math.Vec3
	Max math.Vec3
}

// NewBox returns an empty box: Min at +Inf and Max at -Inf, so the first
// point expanded into it becomes both corners.
func NewBox() Box {
	return Box{
		Min: math.Splat(math32.Inf(1)),
		Max: math.Splat(math32.Inf(-1)),
	}
}

// IsEmpty reports whether no point has been added.
func (b Box) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// ExpandByPoint grows the box to include p.
func (b *Box) ExpandByPoint(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// ExpandByBox grows the box to include other. Empty boxes are ignored.
func (b *Box) ExpandByBox(other Box) {
	if other.IsEmpty() {
		return
	}
	b.Min = b.Min.Min(other.Min)
	b.Max = b.Max.Max(other.Max)
}

// Center returns the midpoint. Only meaningful for a non-empty box.
func (b Box) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis. Only meaningful for a non-empty box.
func (b Box) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}
