// Package accessor decodes typed, strided numeric elements from glTF buffer views.
package accessor

import (
	"errors"
	"fmt"
)

// Accessor errors.
var (
	ErrInvalidShape         = errors.New("invalid element shape")
	ErrInvalidComponentType = errors.New("invalid component type")
	ErrTypeMismatch         = errors.New("component type mismatch")
	ErrCapacity             = errors.New("accessor exceeds buffer view capacity")
	ErrIndexOutOfRange      = errors.New("index out of range")
)

// ElementShape is the glTF accessor "type": how many components form one element.
type ElementShape string

// Element shapes.
const (
	Scalar ElementShape = "SCALAR"
	Vec2   ElementShape = "VEC2"
	Vec3   ElementShape = "VEC3"
	Vec4   ElementShape = "VEC4"
	Mat2   ElementShape = "MAT2"
	Mat3   ElementShape = "MAT3"
	Mat4   ElementShape = "MAT4"
)

var shapeCounts = map[ElementShape]int{
	Scalar: 1,
	Vec2:   2,
	Vec3:   3,
	Vec4:   4,
	Mat2:   4,
	Mat3:   9,
	Mat4:   16,
}

// ParseElementShape validates a shape tag.
func ParseElementShape(s string) (ElementShape, error) {
	shape := ElementShape(s)
	if _, ok := shapeCounts[shape]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidShape, s)
	}
	return shape, nil
}

// ComponentCount returns the number of components per element.
func (s ElementShape) ComponentCount() (int, error) {
	n, ok := shapeCounts[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidShape, string(s))
	}
	return n, nil
}

// ComponentType is the GL enum identifying a component's numeric type.
type ComponentType int

// Component types.
const (
	Byte          ComponentType = 5120
	UnsignedByte  ComponentType = 5121
	Short         ComponentType = 5122
	UnsignedShort ComponentType = 5123
	Int           ComponentType = 5124
	UnsignedInt   ComponentType = 5125
	Float         ComponentType = 5126
)

// String returns the GL constant name.
func (t ComponentType) String() string {
	switch t {
	case Byte:
		return "BYTE"
	case UnsignedByte:
		return "UNSIGNED_BYTE"
	case Short:
		return "SHORT"
	case UnsignedShort:
		return "UNSIGNED_SHORT"
	case Int:
		return "INT"
	case UnsignedInt:
		return "UNSIGNED_INT"
	case Float:
		return "FLOAT"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Width returns the component size in bytes.
func (t ComponentType) Width() (int, error) {
	switch t {
	case Byte, UnsignedByte:
		return 1, nil
	case Short, UnsignedShort:
		return 2, nil
	case Int, UnsignedInt, Float:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidComponentType, int(t))
	}
}

// IsUnsigned reports whether the type is an unsigned integer variant.
func (t ComponentType) IsUnsigned() bool {
	return t == UnsignedByte || t == UnsignedShort || t == UnsignedInt
}

// ElementSize returns the byte size of one tightly packed element.
func ElementSize(shape ElementShape, t ComponentType) (int, error) {
	n, err := shape.ComponentCount()
	if err != nil {
		return 0, err
	}
	w, err := t.Width()
	if err != nil {
		return 0, err
	}
	return n * w, nil
}

// AssertByteLike fails unless t is BYTE or UNSIGNED_BYTE.
func AssertByteLike(t ComponentType) error {
	return assertOneOf(t, "BYTE or UNSIGNED_BYTE", Byte, UnsignedByte)
}

// AssertShortLike fails unless t is SHORT or UNSIGNED_SHORT.
func AssertShortLike(t ComponentType) error {
	return assertOneOf(t, "SHORT or UNSIGNED_SHORT", Short, UnsignedShort)
}

// AssertIntLike fails unless t is INT or UNSIGNED_INT.
func AssertIntLike(t ComponentType) error {
	return assertOneOf(t, "INT or UNSIGNED_INT", Int, UnsignedInt)
}

// AssertFloatLike fails unless t is FLOAT.
func AssertFloatLike(t ComponentType) error {
	return assertOneOf(t, "FLOAT", Float)
}

func assertOneOf(t ComponentType, expected string, allowed ...ComponentType) error {
	for _, a := range allowed {
		if t == a {
			return nil
		}
	}
	return fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, expected, t)
}
