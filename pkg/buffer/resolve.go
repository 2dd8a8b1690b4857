package buffer

import (
	"fmt"
	"sort"
)

// Declaration is a buffer view as declared in the scene description.
type Declaration struct {
	Buffer     string
	ByteOffset int
	ByteLength *int // nil when the declaration omits it
}

// ResolveOptions controls buffer view resolution.
type ResolveOptions struct {
	// LegacyByteLength lets a declaration without byteLength cover the rest
	// of its buffer. Compatibility shim for old exporters; off by default.
	LegacyByteLength bool
}

// ResolveError reports a buffer view that could not be resolved.
type ResolveError struct {
	ViewID string
	Err    error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("buffer view %q: %v", e.ViewID, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Resolve slices each declared buffer view out of its raw buffer.
// Failures are collected per view and do not stop the others.
func Resolve(decls map[string]Declaration, buffers map[string]*RawBuffer, opts ResolveOptions) (map[string]View, []error) {
	views := make(map[string]View, len(decls))
	var errs []error

	// Sorted for stable error order.
	ids := make([]string, 0, len(decls))
	for id := range decls {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		v, err := ResolveOne(decls[id], buffers, opts)
		if err != nil {
			errs = append(errs, &ResolveError{ViewID: id, Err: err})
			continue
		}
		views[id] = v
	}
	return views, errs
}

// ResolveOne slices a single buffer view.
func ResolveOne(d Declaration, buffers map[string]*RawBuffer, opts ResolveOptions) (View, error) {
	raw, ok := buffers[d.Buffer]
	if !ok || raw == nil {
		return View{}, fmt.Errorf("%w: %q", ErrMissingBuffer, d.Buffer)
	}

	length := 0
	switch {
	case d.ByteLength != nil:
		length = *d.ByteLength
	case opts.LegacyByteLength:
		length = raw.Size() - d.ByteOffset
	default:
		return View{}, fmt.Errorf("%w: byteLength missing", ErrInvalidRange)
	}

	if d.ByteOffset < 0 || length < 0 || d.ByteOffset > raw.Size()-length {
		return View{}, fmt.Errorf("%w: offset %d length %d exceeds buffer %q of %d bytes",
			ErrInvalidRange, d.ByteOffset, length, d.Buffer, raw.Size())
	}

	return raw.View().Slice(d.ByteOffset, length)
}
