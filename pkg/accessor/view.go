package accessor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/Faultbox/gltfkit/pkg/buffer"
)

// ErrInvalidStride is returned when a stride is smaller than one element.
var ErrInvalidStride = errors.New("byte stride smaller than element size")

// Component is the raw storage type of a view, one per component width class.
// Signed and unsigned variants of a width share a storage type; GetInt
// applies the unsigned interpretation.
type Component interface {
	int8 | int16 | int32 | float32
}

// Descriptor describes how a byte region is laid out as typed elements.
type Descriptor struct {
	ByteOffset    int
	ComponentType ComponentType
	Shape         ElementShape
	Count         int
	ByteStride    int              // 0 means tightly packed
	Order         binary.ByteOrder // nil means little endian
}

// View reads typed elements from a byte region without copying it.
type View[T Component] struct {
	data       []byte
	order      binary.ByteOrder
	ctype      ComponentType
	shape      ElementShape
	offset     int
	stride     int
	count      int
	components int
	width      int
}

// New validates d against region and returns a view over it.
// T must match the width class of d.ComponentType.
//
// The region must hold byteOffset + (count-1)*stride + elementSize bytes.
// The last element needs no trailing stride padding, so this is looser
// than byteOffset + count*stride when the stride is padded.
func New[T Component](region buffer.View, d Descriptor) (*View[T], error) {
	width, err := d.ComponentType.Width()
	if err != nil {
		return nil, err
	}
	if err := assertKind[T](d.ComponentType); err != nil {
		return nil, err
	}
	n, err := d.Shape.ComponentCount()
	if err != nil {
		return nil, err
	}
	if d.Count < 0 || d.ByteOffset < 0 || d.ByteStride < 0 {
		return nil, fmt.Errorf("%w: negative offset %d, stride %d or count %d",
			ErrCapacity, d.ByteOffset, d.ByteStride, d.Count)
	}

	elementSize := n * width
	stride := d.ByteStride
	if stride == 0 {
		stride = elementSize
	}
	if stride < elementSize {
		return nil, fmt.Errorf("%w: stride %d, element size %d", ErrInvalidStride, stride, elementSize)
	}

	if d.ByteOffset > region.Len() {
		return nil, fmt.Errorf("%w: offset %d past region of %d bytes", ErrCapacity, d.ByteOffset, region.Len())
	}
	if d.Count > 0 {
		// Compare by division so a huge count cannot overflow the product.
		room := region.Len() - d.ByteOffset - elementSize
		if room < 0 || (d.Count-1) > room/stride {
			return nil, fmt.Errorf("%w: %d elements (offset %d, stride %d, element size %d) do not fit %d bytes",
				ErrCapacity, d.Count, d.ByteOffset, stride, elementSize, region.Len())
		}
	}

	order := d.Order
	if order == nil {
		order = binary.LittleEndian
	}

	return &View[T]{
		data:       region.Bytes(),
		order:      order,
		ctype:      d.ComponentType,
		shape:      d.Shape,
		offset:     d.ByteOffset,
		stride:     stride,
		count:      d.Count,
		components: n,
		width:      width,
	}, nil
}

func assertKind[T Component](t ComponentType) error {
	var zero T
	switch any(zero).(type) {
	case int8:
		return AssertByteLike(t)
	case int16:
		return AssertShortLike(t)
	case int32:
		return AssertIntLike(t)
	default:
		return AssertFloatLike(t)
	}
}

// Count returns the number of elements.
func (v *View[T]) Count() int { return v.count }

// ComponentCount returns the number of components per element.
func (v *View[T]) ComponentCount() int { return v.components }

// ComponentType returns the declared component type.
func (v *View[T]) ComponentType() ComponentType { return v.ctype }

// Shape returns the element shape.
func (v *View[T]) Shape() ElementShape { return v.shape }

// ByteOffset returns the offset of the first element in the region.
func (v *View[T]) ByteOffset() int { return v.offset }

// ByteStride returns the effective stride.
func (v *View[T]) ByteStride() int { return v.stride }

// ElementSize returns the size of one tightly packed element.
func (v *View[T]) ElementSize() int { return v.components * v.width }

func (v *View[T]) checkIndex(e, c int) error {
	if e < 0 || e >= v.count {
		return fmt.Errorf("%w: element %d of %d", ErrIndexOutOfRange, e, v.count)
	}
	if c < 0 || c >= v.components {
		return fmt.Errorf("%w: component %d of %d", ErrIndexOutOfRange, c, v.components)
	}
	return nil
}

func (v *View[T]) byteIndex(e, c int) int {
	return v.offset + e*v.stride + c*v.width
}

// at reads without index checks; New guarantees every in-range index fits.
func (v *View[T]) at(e, c int) T {
	i := v.byteIndex(e, c)
	switch v.width {
	case 1:
		return T(int8(v.data[i]))
	case 2:
		return T(int16(v.order.Uint16(v.data[i:])))
	default:
		if v.ctype == Float {
			return T(math.Float32frombits(v.order.Uint32(v.data[i:])))
		}
		return T(int32(v.order.Uint32(v.data[i:])))
	}
}

func (v *View[T]) intAt(e, c int) int64 {
	i := v.byteIndex(e, c)
	switch v.ctype {
	case Byte:
		return int64(int8(v.data[i]))
	case UnsignedByte:
		return int64(v.data[i])
	case Short:
		return int64(int16(v.order.Uint16(v.data[i:])))
	case UnsignedShort:
		return int64(v.order.Uint16(v.data[i:]))
	case Int:
		return int64(int32(v.order.Uint32(v.data[i:])))
	default:
		return int64(v.order.Uint32(v.data[i:]))
	}
}

// Get returns component c of element e as stored.
func (v *View[T]) Get(e, c int) (T, error) {
	if err := v.checkIndex(e, c); err != nil {
		return 0, err
	}
	return v.at(e, c), nil
}

// GetAt addresses components by a global index across all elements.
func (v *View[T]) GetAt(i int) (T, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: component index %d", ErrIndexOutOfRange, i)
	}
	return v.Get(i/v.components, i%v.components)
}

// GetInt returns component c of element e widened to int64. Unsigned
// component types are zero-extended, so an UNSIGNED_BYTE 0xFF reads as 255
// while a BYTE 0xFF reads as -1.
func (v *View[T]) GetInt(e, c int) (int64, error) {
	if v.ctype == Float {
		return 0, fmt.Errorf("%w: integer read from %s accessor", ErrTypeMismatch, v.ctype)
	}
	if err := v.checkIndex(e, c); err != nil {
		return 0, err
	}
	return v.intAt(e, c), nil
}

// GetIntAt is GetInt with a global component index.
func (v *View[T]) GetIntAt(i int) (int64, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: component index %d", ErrIndexOutOfRange, i)
	}
	return v.GetInt(i/v.components, i%v.components)
}

// Element returns all components of element e.
func (v *View[T]) Element(e int) ([]T, error) {
	if err := v.checkIndex(e, 0); err != nil {
		return nil, err
	}
	out := make([]T, v.components)
	for c := range out {
		out[c] = v.at(e, c)
	}
	return out, nil
}

// Vec3At returns the first three components of element e. The view must
// have at least three components per element.
func (v *View[T]) Vec3At(e int) ([3]T, error) {
	var out [3]T
	if v.components < 3 {
		return out, fmt.Errorf("%w: %s has %d components", ErrInvalidShape, v.shape, v.components)
	}
	if err := v.checkIndex(e, 0); err != nil {
		return out, err
	}
	for c := range out {
		out[c] = v.at(e, c)
	}
	return out, nil
}

// Min returns the componentwise minimum, or nil for an empty view.
func (v *View[T]) Min() []T {
	return componentwise(v.count, v.components, v.at, func(cur, x T) bool { return x < cur })
}

// Max returns the componentwise maximum, or nil for an empty view.
func (v *View[T]) Max() []T {
	return componentwise(v.count, v.components, v.at, func(cur, x T) bool { return x > cur })
}

// MinInt returns the componentwise minimum of the widened values.
func (v *View[T]) MinInt() ([]int64, error) {
	if v.ctype == Float {
		return nil, fmt.Errorf("%w: integer min of %s accessor", ErrTypeMismatch, v.ctype)
	}
	return componentwise(v.count, v.components, v.intAt, func(cur, x int64) bool { return x < cur }), nil
}

// MaxInt returns the componentwise maximum of the widened values.
func (v *View[T]) MaxInt() ([]int64, error) {
	if v.ctype == Float {
		return nil, fmt.Errorf("%w: integer max of %s accessor", ErrTypeMismatch, v.ctype)
	}
	return componentwise(v.count, v.components, v.intAt, func(cur, x int64) bool { return x > cur }), nil
}

func componentwise[N constraints.Ordered](count, components int, at func(e, c int) N, replace func(cur, x N) bool) []N {
	if count == 0 {
		return nil
	}
	out := make([]N, components)
	for c := range out {
		out[c] = at(0, c)
	}
	for e := 1; e < count; e++ {
		for c := range out {
			if x := at(e, c); replace(out[c], x) {
				out[c] = x
			}
		}
	}
	return out
}

// ExtractCompact copies every component into a new tightly packed buffer
// of Count*ComponentCount*width bytes, keeping the view's byte order.
func (v *View[T]) ExtractCompact() []byte {
	out := make([]byte, v.count*v.components*v.width)
	dst := 0
	for e := 0; e < v.count; e++ {
		for c := 0; c < v.components; c++ {
			src := v.byteIndex(e, c)
			copy(out[dst:dst+v.width], v.data[src:src+v.width])
			dst += v.width
		}
	}
	return out
}

// Compact returns a tightly packed copy of the view.
func (v *View[T]) Compact() (*View[T], error) {
	return New[T](buffer.NewView(v.ExtractCompact()), Descriptor{
		ComponentType: v.ctype,
		Shape:         v.shape,
		Count:         v.count,
		Order:         v.order,
	})
}
