// Package buffer provides raw glTF buffers and bounds-checked windows over them.
package buffer

import (
	"errors"
	"fmt"
)

// Buffer errors.
var (
	ErrOutOfBounds   = errors.New("byte range out of bounds")
	ErrMissingBuffer = errors.New("missing buffer")
	ErrInvalidRange  = errors.New("invalid buffer view range")
)

// View is a window over a byte region. Slicing a View never copies.
//
// A View aliases the bytes it was built from. Callers must not modify
// the underlying slice once views over it have been handed out.
type View struct {
	data []byte
}

// NewView wraps data without copying it.
func NewView(data []byte) View {
	return View{data: data}
}

// Len returns the number of bytes in the window.
func (v View) Len() int {
	return len(v.data)
}

// Bytes returns the window contents. The result aliases the backing region.
func (v View) Bytes() []byte {
	return v.data
}

// Slice returns the sub-window [offset, offset+length).
func (v View) Slice(offset, length int) (View, error) {
	if offset < 0 || length < 0 || offset > len(v.data)-length {
		return View{}, fmt.Errorf("%w: [%d, %d+%d) of %d bytes", ErrOutOfBounds, offset, offset, length, len(v.data))
	}
	return View{data: v.data[offset : offset+length : offset+length]}, nil
}

// Tail returns the sub-window starting at offset and running to the end.
func (v View) Tail(offset int) (View, error) {
	if offset < 0 || offset > len(v.data) {
		return View{}, fmt.Errorf("%w: offset %d of %d bytes", ErrOutOfBounds, offset, len(v.data))
	}
	return View{data: v.data[offset:len(v.data):len(v.data)]}, nil
}

// At returns the byte at index i.
func (v View) At(i int) (byte, error) {
	if i < 0 || i >= len(v.data) {
		return 0, fmt.Errorf("%w: index %d of %d bytes", ErrOutOfBounds, i, len(v.data))
	}
	return v.data[i], nil
}
