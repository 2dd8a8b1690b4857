// Package gltf loads glTF 1.0 assets from JSON files or binary containers and
// exposes their buffers through typed accessor views.
package gltf

import (
	"github.com/Faultbox/gltfkit/pkg/accessor"
	"github.com/Faultbox/gltfkit/pkg/buffer"
)

// Properties holds the fields every glTF entity may carry.
type Properties struct {
	Extensions Extensions `json:"extensions,omitempty"`
	Extras     any        `json:"extras,omitempty"`
}

// AssetInfo is the "asset" block of a document.
type AssetInfo struct {
	Version            string `json:"version"`
	Generator          string `json:"generator,omitempty"`
	Copyright          string `json:"copyright,omitempty"`
	PremultipliedAlpha bool   `json:"premultipliedAlpha,omitempty"`
	Properties
}

// Document is a decoded glTF 1.0 scene description. Top-level entities
// are dictionaries keyed by id.
type Document struct {
	Asset          AssetInfo              `json:"asset"`
	Scene          string                 `json:"scene,omitempty"`
	Scenes         map[string]*Scene      `json:"scenes,omitempty"`
	Nodes          map[string]*Node       `json:"nodes,omitempty"`
	Meshes         map[string]*Mesh       `json:"meshes,omitempty"`
	Accessors      map[string]*Accessor   `json:"accessors,omitempty"`
	BufferViews    map[string]*BufferView `json:"bufferViews,omitempty"`
	Buffers        map[string]*Buffer     `json:"buffers,omitempty"`
	Images         map[string]*Image      `json:"images,omitempty"`
	Shaders        map[string]*Shader     `json:"shaders,omitempty"`
	ExtensionsUsed []string               `json:"extensionsUsed,omitempty"`
	Properties
}

// Scene lists the root nodes of one scene.
type Scene struct {
	Name  string   `json:"name,omitempty"`
	Nodes []string `json:"nodes,omitempty"`
	Properties
}

// Node is a scene graph node. Matrix, when present, replaces
// Translation, Rotation and Scale.
type Node struct {
	Name        string    `json:"name,omitempty"`
	Children    []string  `json:"children,omitempty"`
	Meshes      []string  `json:"meshes,omitempty"`
	Matrix      []float32 `json:"matrix,omitempty"`
	Translation []float32 `json:"translation,omitempty"`
	Rotation    []float32 `json:"rotation,omitempty"`
	Scale       []float32 `json:"scale,omitempty"`
	Properties
}

// Mesh is a set of primitives.
type Mesh struct {
	Name       string       `json:"name,omitempty"`
	Primitives []*Primitive `json:"primitives,omitempty"`
	Properties
}

// Primitive maps attribute semantics to accessor ids.
type Primitive struct {
	Attributes map[string]string `json:"attributes,omitempty"`
	Indices    string            `json:"indices,omitempty"`
	Material   string            `json:"material,omitempty"`
	Mode       *int              `json:"mode,omitempty"`
	Properties
}

// PositionAttribute is the semantic of vertex positions.
const PositionAttribute = "POSITION"

// Accessor declares how a buffer view is read as typed elements.
type Accessor struct {
	Name          string                 `json:"name,omitempty"`
	BufferView    string                 `json:"bufferView"`
	ByteOffset    int                    `json:"byteOffset"`
	ByteStride    int                    `json:"byteStride,omitempty"`
	ComponentType accessor.ComponentType `json:"componentType"`
	Count         int                    `json:"count"`
	Type          accessor.ElementShape  `json:"type"`
	Min           []float64              `json:"min,omitempty"`
	Max           []float64              `json:"max,omitempty"`
	Properties
}

// Descriptor returns the layout used to build an accessor view.
func (a *Accessor) Descriptor() accessor.Descriptor {
	return accessor.Descriptor{
		ByteOffset:    a.ByteOffset,
		ComponentType: a.ComponentType,
		Shape:         a.Type,
		Count:         a.Count,
		ByteStride:    a.ByteStride,
	}
}

// BufferView is a named range of a buffer.
type BufferView struct {
	Name       string `json:"name,omitempty"`
	Buffer     string `json:"buffer"`
	ByteOffset int    `json:"byteOffset"`
	ByteLength *int   `json:"byteLength,omitempty"`
	Target     int    `json:"target,omitempty"`
	Properties
}

// Declaration converts the view for buffer.Resolve.
func (v *BufferView) Declaration() buffer.Declaration {
	return buffer.Declaration{
		Buffer:     v.Buffer,
		ByteOffset: v.ByteOffset,
		ByteLength: v.ByteLength,
	}
}

// Buffer points to binary data by URI.
type Buffer struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri"`
	ByteLength int    `json:"byteLength,omitempty"`
	Type       string `json:"type,omitempty"`
	Properties
}

// Image points to image data by URI or, inside a binary container,
// through the KHR_binary_glTF extension.
type Image struct {
	Name string `json:"name,omitempty"`
	URI  string `json:"uri,omitempty"`
	Properties
}

// Shader points to GLSL source by URI or through KHR_binary_glTF.
type Shader struct {
	Name string `json:"name,omitempty"`
	URI  string `json:"uri,omitempty"`
	Type int    `json:"type"`
	Properties
}
