package gltf

import (
	"errors"
	"fmt"

	"github.com/Faultbox/gltfkit/pkg/accessor"
	"github.com/Faultbox/gltfkit/pkg/buffer"
)

// Lookup errors.
var (
	ErrMissingBufferView = errors.New("buffer view not found")
	ErrMissingAccessor   = errors.New("accessor not found")
	ErrMissingImage      = errors.New("image not found")
	ErrMissingShader     = errors.New("shader not found")
)

// ReferenceKind says what an external reference is loaded into.
type ReferenceKind int

// Reference kinds.
const (
	BufferRef ReferenceKind = iota
	ImageRef
	ShaderRef
)

func (k ReferenceKind) String() string {
	switch k {
	case BufferRef:
		return "buffer"
	case ImageRef:
		return "image"
	case ShaderRef:
		return "shader"
	default:
		return fmt.Sprintf("ReferenceKind(%d)", int(k))
	}
}

// Reference is an external resource named by a document.
type Reference struct {
	Name string
	URI  string
	Kind ReferenceKind
}

// FetchError records a reference that could not be read.
type FetchError struct {
	Reference Reference
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Reference.Kind, e.Reference.Name, e.Reference.URI, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Asset is a loaded document together with its raw buffers and the
// buffer views resolved over them.
type Asset struct {
	Document    *Document
	Diagnostics []Diagnostic
	Buffers     map[string]*buffer.RawBuffer
	BufferViews map[string]buffer.View
	// ViewErrors holds why a declared buffer view did not resolve.
	ViewErrors  map[string]error
	FetchErrors []*FetchError

	scene   []byte
	images  map[string][]byte
	shaders map[string][]byte
	binary  bool
}

func newAsset(doc *Document, diags []Diagnostic, binary bool) *Asset {
	return &Asset{
		Document:    doc,
		Diagnostics: diags,
		Buffers:     make(map[string]*buffer.RawBuffer),
		BufferViews: make(map[string]buffer.View),
		ViewErrors:  make(map[string]error),
		images:      make(map[string][]byte),
		shaders:     make(map[string][]byte),
		binary:      binary,
	}
}

// IsBinary reports whether the asset came from a binary container.
func (a *Asset) IsBinary() bool {
	return a.binary
}

// BufferView returns a resolved buffer view, or the error that kept it
// from resolving.
func (a *Asset) BufferView(id string) (buffer.View, error) {
	if v, ok := a.BufferViews[id]; ok {
		return v, nil
	}
	if err, ok := a.ViewErrors[id]; ok {
		return buffer.View{}, fmt.Errorf("buffer view %s: %w", id, err)
	}
	return buffer.View{}, fmt.Errorf("%w: %s", ErrMissingBufferView, id)
}

// AccessorView builds a typed view for accessor id. T must match the
// width class of the accessor's component type.
func AccessorView[T accessor.Component](a *Asset, id string) (*accessor.View[T], error) {
	acc, ok := a.Document.Accessors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingAccessor, id)
	}
	region, err := a.BufferView(acc.BufferView)
	if err != nil {
		return nil, fmt.Errorf("accessor %s: %w", id, err)
	}
	view, err := accessor.New[T](region, acc.Descriptor())
	if err != nil {
		return nil, fmt.Errorf("accessor %s: %w", id, err)
	}
	return view, nil
}

// ImageData returns the encoded bytes of image id, read from the binary
// container or from its fetched URI.
func (a *Asset) ImageData(id string) ([]byte, error) {
	img, ok := a.Document.Images[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingImage, id)
	}
	if info, ok := img.BinaryInfo(); ok {
		return a.viewBytes(info.BufferView)
	}
	data, ok := a.images[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s was not fetched", ErrMissingImage, id)
	}
	return data, nil
}

// ShaderSource returns the GLSL source of shader id.
func (a *Asset) ShaderSource(id string) ([]byte, error) {
	sh, ok := a.Document.Shaders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingShader, id)
	}
	if view, ok := sh.BinaryBufferView(); ok {
		return a.viewBytes(view)
	}
	data, ok := a.shaders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s was not fetched", ErrMissingShader, id)
	}
	return data, nil
}

func (a *Asset) viewBytes(id string) ([]byte, error) {
	v, err := a.BufferView(id)
	if err != nil {
		return nil, err
	}
	return v.Bytes(), nil
}

// References lists the external resources of the document, buffers first,
// then images, then shaders, each sorted by id. Entities stored inside a
// binary container are not listed.
func (a *Asset) References() []Reference {
	doc := a.Document
	var refs []Reference

	for _, id := range sortedKeys(doc.Buffers) {
		if a.binary && id == buffer.BinaryContainerID {
			continue
		}
		if uri := doc.Buffers[id].URI; uri != "" {
			refs = append(refs, Reference{Name: id, URI: uri, Kind: BufferRef})
		}
	}
	for _, id := range sortedKeys(doc.Images) {
		img := doc.Images[id]
		if _, ok := img.BinaryBufferView(); ok || img.URI == "" {
			continue
		}
		refs = append(refs, Reference{Name: id, URI: img.URI, Kind: ImageRef})
	}
	for _, id := range sortedKeys(doc.Shaders) {
		sh := doc.Shaders[id]
		if _, ok := sh.BinaryBufferView(); ok || sh.URI == "" {
			continue
		}
		refs = append(refs, Reference{Name: id, URI: sh.URI, Kind: ShaderRef})
	}

	return refs
}
