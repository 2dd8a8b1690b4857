package gltf

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidJSON is returned when the scene description is not a JSON object.
var ErrInvalidJSON = errors.New("scene description is not a JSON object")

// Diagnostic is a structural problem found while decoding the scene
// description. Path is a JSONPath-like location such as
// "$.accessors.acc0.componentType".
type Diagnostic struct {
	Path    string
	Message string
}

func (d Diagnostic) String() string {
	return d.Path + ": " + d.Message
}

type diagnostics []Diagnostic

func (d *diagnostics) add(path, format string, args ...any) {
	*d = append(*d, Diagnostic{Path: path, Message: fmt.Sprintf(format, args...)})
}

// addErr records a json decoding error, pointing at the offending field when known.
func (d *diagnostics) addErr(path string, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			path += "." + typeErr.Field
		}
		d.add(path, "expected %s, got %s", typeErr.Type, typeErr.Value)
		return
	}
	d.add(path, "%v", err)
}

// DecodeDocument decodes a scene description. Each entity is decoded on
// its own and problems are reported as Diagnostics: a field of the wrong
// type is left at its zero value, an entity that is not an object is left
// out, and the rest of the document still loads. Unknown fields are
// ignored. Only input that is not a JSON object at all is an error.
func DecodeDocument(data []byte) (*Document, []Diagnostic, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var diags diagnostics
	doc := &Document{}

	decodeField(top, "asset", &doc.Asset, &diags)
	decodeField(top, "scene", &doc.Scene, &diags)
	decodeField(top, "extensionsUsed", &doc.ExtensionsUsed, &diags)
	decodeField(top, "extensions", &doc.Extensions, &diags)
	decodeField(top, "extras", &doc.Extras, &diags)

	doc.Scenes = decodeSection[Scene](top, "scenes", &diags)
	doc.Nodes = decodeSection[Node](top, "nodes", &diags)
	doc.Meshes = decodeSection[Mesh](top, "meshes", &diags)
	doc.Accessors = decodeSection[Accessor](top, "accessors", &diags)
	doc.BufferViews = decodeSection[BufferView](top, "bufferViews", &diags)
	doc.Buffers = decodeSection[Buffer](top, "buffers", &diags)
	doc.Images = decodeSection[Image](top, "images", &diags)
	doc.Shaders = decodeSection[Shader](top, "shaders", &diags)

	validate(doc, &diags)

	return doc, diags, nil
}

func decodeField(top map[string]json.RawMessage, key string, out any, diags *diagnostics) {
	raw, ok := top[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		diags.addErr("$."+key, err)
	}
}

func decodeSection[T any](top map[string]json.RawMessage, key string, diags *diagnostics) map[string]*T {
	raw, ok := top[key]
	if !ok {
		return nil
	}
	path := "$." + key

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		diags.addErr(path, err)
		return nil
	}

	out := make(map[string]*T, len(entries))
	for _, id := range sortedKeys(entries) {
		var v T
		if err := json.Unmarshal(entries[id], &v); err != nil {
			// A bad field leaves the other fields decoded; keep the entity.
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) || typeErr.Field == "" {
				diags.addErr(path+"."+id, err)
				continue
			}
			fieldErrors[T](path+"."+id, entries[id], diags)
		}
		out[id] = &v
	}
	return out
}

// fieldErrors decodes each member of an object on its own so that every
// wrong-typed field gets a diagnostic. encoding/json only returns the first.
func fieldErrors[T any](path string, raw json.RawMessage, diags *diagnostics) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		diags.addErr(path, err)
		return
	}
	for _, key := range sortedKeys(fields) {
		single, err := json.Marshal(map[string]json.RawMessage{key: fields[key]})
		if err != nil {
			diags.addErr(path+"."+key, err)
			continue
		}
		var v T
		if err := json.Unmarshal(single, &v); err != nil {
			diags.addErr(path, err)
		}
	}
}

// validate reports dangling references and illegal enum values. Offending
// entities stay in the document; using them fails later with a precise error.
func validate(doc *Document, diags *diagnostics) {
	if doc.Asset.Version == "" {
		diags.add("$.asset.version", "missing")
	}
	if doc.Scene != "" {
		if _, ok := doc.Scenes[doc.Scene]; !ok {
			diags.add("$.scene", "unknown scene %q", doc.Scene)
		}
	}

	for _, id := range sortedKeys(doc.Accessors) {
		acc := doc.Accessors[id]
		path := "$.accessors." + id
		if _, err := acc.Type.ComponentCount(); err != nil {
			diags.add(path+".type", "%v", err)
		}
		if _, err := acc.ComponentType.Width(); err != nil {
			diags.add(path+".componentType", "%v", err)
		}
		if _, ok := doc.BufferViews[acc.BufferView]; !ok {
			diags.add(path+".bufferView", "unknown buffer view %q", acc.BufferView)
		}
	}

	for _, id := range sortedKeys(doc.BufferViews) {
		if _, ok := doc.Buffers[doc.BufferViews[id].Buffer]; !ok {
			diags.add("$.bufferViews."+id+".buffer", "unknown buffer %q", doc.BufferViews[id].Buffer)
		}
	}

	for _, id := range sortedKeys(doc.Nodes) {
		node := doc.Nodes[id]
		path := "$.nodes." + id
		for _, child := range node.Children {
			if _, ok := doc.Nodes[child]; !ok {
				diags.add(path+".children", "unknown node %q", child)
			}
		}
		for _, mesh := range node.Meshes {
			if _, ok := doc.Meshes[mesh]; !ok {
				diags.add(path+".meshes", "unknown mesh %q", mesh)
			}
		}
		if node.Matrix != nil && len(node.Matrix) != 16 {
			diags.add(path+".matrix", "expected 16 values, got %d", len(node.Matrix))
		}
	}

	for _, id := range sortedKeys(doc.Meshes) {
		for i, prim := range doc.Meshes[id].Primitives {
			if prim == nil {
				continue
			}
			for _, semantic := range sortedKeys(prim.Attributes) {
				if _, ok := doc.Accessors[prim.Attributes[semantic]]; !ok {
					diags.add(fmt.Sprintf("$.meshes.%s.primitives[%d].attributes.%s", id, i, semantic),
						"unknown accessor %q", prim.Attributes[semantic])
				}
			}
		}
	}

	for _, id := range sortedKeys(doc.Scenes) {
		for _, n := range doc.Scenes[id].Nodes {
			if _, ok := doc.Nodes[n]; !ok {
				diags.add("$.scenes."+id+".nodes", "unknown node %q", n)
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
