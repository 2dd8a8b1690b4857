package gltf

import "math"

// BinaryExtension is the extension that locates images and shaders
// inside the payload of a binary container.
const BinaryExtension = "KHR_binary_glTF"

// Extensions maps an extension name to its key/value data.
type Extensions map[string]map[string]any

// GetExtensionProperty returns the value stored under key for extension ext.
func (p *Properties) GetExtensionProperty(ext, key string) (any, bool) {
	values, ok := p.Extensions[ext]
	if !ok {
		return nil, false
	}
	v, ok := values[key]
	return v, ok
}

// SetExtensionProperty stores value under key for extension ext,
// creating the extension entry if needed.
func (p *Properties) SetExtensionProperty(ext, key string, value any) {
	if p.Extensions == nil {
		p.Extensions = make(Extensions)
	}
	values, ok := p.Extensions[ext]
	if !ok {
		values = make(map[string]any)
		p.Extensions[ext] = values
	}
	values[key] = value
}

// HasExtension reports whether the entity carries data for ext.
func (p *Properties) HasExtension(ext string) bool {
	_, ok := p.Extensions[ext]
	return ok
}

// RemoveExtension drops all data for ext.
func (p *Properties) RemoveExtension(ext string) {
	delete(p.Extensions, ext)
}

// ExtensionString returns a string-valued extension property.
func (p *Properties) ExtensionString(ext, key string) (string, bool) {
	v, ok := p.GetExtensionProperty(ext, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ExtensionInt returns an integral extension property. JSON numbers
// decode as float64, so fractional values and values outside the int32
// range are rejected.
func (p *Properties) ExtensionInt(ext, key string) (int, bool) {
	v, ok := p.GetExtensionProperty(ext, key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// BinaryBufferView returns the buffer view id that holds the entity's
// payload inside a binary container.
func (p *Properties) BinaryBufferView() (string, bool) {
	return p.ExtensionString(BinaryExtension, "bufferView")
}

// BinaryImage describes an image stored in a binary container.
type BinaryImage struct {
	BufferView string
	MimeType   string
	Width      int
	Height     int
}

// BinaryInfo returns the KHR_binary_glTF data of an image.
func (img *Image) BinaryInfo() (BinaryImage, bool) {
	view, ok := img.BinaryBufferView()
	if !ok {
		return BinaryImage{}, false
	}
	info := BinaryImage{BufferView: view}
	info.MimeType, _ = img.ExtensionString(BinaryExtension, "mimeType")
	info.Width, _ = img.ExtensionInt(BinaryExtension, "width")
	info.Height, _ = img.ExtensionInt(BinaryExtension, "height")
	return info, true
}
