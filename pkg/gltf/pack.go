package gltf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // decoders for image.DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"io"
	"slices"
	"strconv"

	"github.com/h2non/filetype"

	"github.com/Faultbox/gltfkit/pkg/buffer"
)

// Pack writes a as a binary container. Every loaded buffer is appended to
// the container body, buffer views are rebased onto it, and fetched images
// and shaders are embedded through KHR_binary_glTF. Scene properties the
// Document type does not model are carried over unchanged.
func Pack(a *Asset, w io.Writer) error {
	dec := json.NewDecoder(bytes.NewReader(a.scene))
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var body []byte
	align := func() {
		for len(body)%4 != 0 {
			body = append(body, 0)
		}
	}

	bases := make(map[string]int, len(a.Buffers))
	for _, id := range sortedKeys(a.Buffers) {
		align()
		bases[id] = len(body)
		body = append(body, a.Buffers[id].View().Bytes()...)
	}

	views := section(root, "bufferViews")
	for _, id := range sortedKeys(views) {
		view := object(views[id])
		if view == nil {
			continue
		}
		bufID, _ := view["buffer"].(string)
		base, ok := bases[bufID]
		if !ok {
			return fmt.Errorf("buffer view %s: %w: %q", id, buffer.ErrMissingBuffer, bufID)
		}
		offset, err := intValue(view["byteOffset"])
		if err != nil {
			return fmt.Errorf("buffer view %s: byteOffset: %w", id, err)
		}
		view["buffer"] = buffer.BinaryContainerID
		view["byteOffset"] = offset + base
	}

	embed := func(prefix, id string, data []byte, entity, ext map[string]any) {
		viewID := prefix + id
		for views[viewID] != nil {
			viewID += "_"
		}
		align()
		views[viewID] = map[string]any{
			"buffer":     buffer.BinaryContainerID,
			"byteOffset": len(body),
			"byteLength": len(data),
		}
		body = append(body, data...)

		ext["bufferView"] = viewID
		exts := object(entity["extensions"])
		if exts == nil {
			exts = make(map[string]any)
		}
		exts[BinaryExtension] = ext
		entity["extensions"] = exts
		entity["uri"] = "data:,"
	}

	images := section(root, "images")
	for _, id := range sortedKeys(a.images) {
		if entity := object(images[id]); entity != nil {
			embed("binary_glTF_image_", id, a.images[id], entity, imageExtension(a.images[id]))
		}
	}
	shaders := section(root, "shaders")
	for _, id := range sortedKeys(a.shaders) {
		if entity := object(shaders[id]); entity != nil {
			embed("binary_glTF_shader_", id, a.shaders[id], entity, map[string]any{})
		}
	}

	root["buffers"] = map[string]any{
		buffer.BinaryContainerID: map[string]any{
			"uri":        "data:,",
			"byteLength": len(body),
			"type":       "arraybuffer",
		},
	}

	used, _ := root["extensionsUsed"].([]any)
	if !slices.Contains(used, any(BinaryExtension)) {
		root["extensionsUsed"] = append(used, BinaryExtension)
	}

	scene, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	return WriteBinary(w, scene, body)
}

// imageExtension describes an embedded image. The MIME type is sniffed
// from the payload; dimensions are filled in for formats the image
// package can decode.
func imageExtension(data []byte) map[string]any {
	ext := map[string]any{"mimeType": "application/octet-stream"}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		ext["mimeType"] = kind.MIME.Value
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		ext["width"] = cfg.Width
		ext["height"] = cfg.Height
	}
	return ext
}

// section returns the dictionary under key, creating it when absent.
func section(root map[string]any, key string) map[string]any {
	m := object(root[key])
	if m == nil {
		m = make(map[string]any)
		root[key] = m
	}
	return m
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// ErrInvalidOffset is returned by Pack for a byteOffset that is not a
// non-negative integer.
var ErrInvalidOffset = errors.New("invalid byte offset")

// intValue reads a byteOffset as decoded with UseNumber. A missing offset
// is 0.
func intValue(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 32)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidOffset, n)
		}
		return int(i), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidOffset, n)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidOffset, v)
	}
}
