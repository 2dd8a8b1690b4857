package gltf

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/gltfkit/pkg/accessor"
	"github.com/Faultbox/gltfkit/pkg/buffer"
)

type fetcherFunc func(ctx context.Context, uri string) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return f(ctx, uri)
}

const binaryScene = `{
	"asset": {"version": "1.0"},
	"scene": "default",
	"scenes": {"default": {"nodes": ["root"]}},
	"nodes": {"root": {"meshes": ["tri"]}},
	"meshes": {"tri": {"primitives": [{"attributes": {"POSITION": "pos"}}]}},
	"buffers": {"binary_glTF": {"uri": "data:,", "byteLength": 53}},
	"bufferViews": {
		"geometry": {"buffer": "binary_glTF", "byteOffset": 0, "byteLength": 36},
		"picture": {"buffer": "binary_glTF", "byteOffset": 36, "byteLength": 4},
		"source": {"buffer": "binary_glTF", "byteOffset": 40, "byteLength": 13}
	},
	"accessors": {
		"pos": {"bufferView": "geometry", "byteOffset": 0, "componentType": 5126, "count": 3, "type": "VEC3"}
	},
	"images": {
		"img": {"extensions": {"KHR_binary_glTF": {"bufferView": "picture", "mimeType": "image/png", "width": 2, "height": 3}}}
	},
	"shaders": {
		"vs": {"type": 35633, "extensions": {"KHR_binary_glTF": {"bufferView": "source"}}}
	},
	"extensionsUsed": ["KHR_binary_glTF"]
}`

func binaryBody() []byte {
	body := floatBody(0, 0, 0, 1, 0, 0, 0, 1, 0)
	body = append(body, 0x89, 'P', 'N', 'G')
	return append(body, "void main(){}"...)
}

func TestReadBinary(t *testing.T) {
	data := container(t, binaryScene, binaryBody())

	a, err := ReadBinary(context.Background(), data, Options{})
	require.NoError(t, err)
	assert.Empty(t, a.Diagnostics)
	assert.Empty(t, a.ViewErrors)
	assert.True(t, a.IsBinary())
	assert.Empty(t, a.References())

	raw := a.Buffers[buffer.BinaryContainerID]
	require.NotNil(t, raw)
	assert.Equal(t, 53, raw.Size())

	pos, err := AccessorView[float32](a, "pos")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 0}, pos.Max())

	img, err := a.ImageData("img")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img)

	info, ok := a.Document.Images["img"].BinaryInfo()
	require.True(t, ok)
	assert.Equal(t, BinaryImage{BufferView: "picture", MimeType: "image/png", Width: 2, Height: 3}, info)

	src, err := a.ShaderSource("vs")
	require.NoError(t, err)
	assert.Equal(t, "void main(){}", string(src))
}

func TestAccessorViewErrors(t *testing.T) {
	a, err := ReadBinary(context.Background(), container(t, binaryScene, binaryBody()), Options{})
	require.NoError(t, err)

	_, err = AccessorView[float32](a, "nope")
	assert.ErrorIs(t, err, ErrMissingAccessor)

	_, err = AccessorView[int16](a, "pos")
	assert.ErrorIs(t, err, accessor.ErrTypeMismatch)

	_, err = a.ImageData("nope")
	assert.ErrorIs(t, err, ErrMissingImage)

	_, err = a.ShaderSource("nope")
	assert.ErrorIs(t, err, ErrMissingShader)
}

func TestReadBinaryTruncatedBody(t *testing.T) {
	// The geometry view asks for 36 bytes but only 12 are present.
	a, err := ReadBinary(context.Background(), container(t, binaryScene, floatBody(1, 2, 3)), Options{})
	require.NoError(t, err)

	assert.ErrorIs(t, a.ViewErrors["geometry"], buffer.ErrInvalidRange)
	_, err = AccessorView[float32](a, "pos")
	assert.ErrorIs(t, err, buffer.ErrInvalidRange)
}

func dataURIScene(payload []byte) []byte {
	return []byte(fmt.Sprintf(`{
		"asset": {"version": "1.1"},
		"buffers": {"inline": {"uri": "data:application/octet-stream;base64,%s", "byteLength": %d}},
		"bufferViews": {"v": {"buffer": "inline", "byteOffset": 0, "byteLength": %d}},
		"accessors": {"idx": {"bufferView": "v", "byteOffset": 0, "componentType": 5121, "count": %d, "type": "SCALAR"}}
	}`, base64.StdEncoding.EncodeToString(payload), len(payload), len(payload), len(payload)))
}

func TestReadJSONDataURI(t *testing.T) {
	a, err := ReadJSON(context.Background(), dataURIScene([]byte{0xFF, 0x01, 0x7F}), Options{})
	require.NoError(t, err)
	assert.Empty(t, a.FetchErrors)
	assert.False(t, a.IsBinary())

	idx, err := AccessorView[int8](a, "idx")
	require.NoError(t, err)
	v, err := idx.GetInt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(255), v)
}

func TestRejectDataURIs(t *testing.T) {
	a, err := ReadJSON(context.Background(), dataURIScene([]byte{1}), Options{RejectDataURIs: true})
	require.NoError(t, err)
	require.Len(t, a.FetchErrors, 1)
	assert.ErrorIs(t, a.FetchErrors[0], ErrUnsupportedURI)
	assert.ErrorIs(t, a.ViewErrors["v"], buffer.ErrMissingBuffer)
}

const twoBufferScene = `{
	"asset": {"version": "1.0"},
	"buffers": {
		"a": {"uri": "a.bin", "byteLength": 4},
		"b": {"uri": "b.bin", "byteLength": 4}
	},
	"bufferViews": {
		"va": {"buffer": "a", "byteOffset": 0, "byteLength": 4},
		"vb": {"buffer": "b", "byteOffset": 0, "byteLength": 4}
	}
}`

func TestFetchFailureIsRecorded(t *testing.T) {
	boom := errors.New("boom")
	f := fetcherFunc(func(_ context.Context, uri string) ([]byte, error) {
		if uri == "a.bin" {
			return nil, boom
		}
		return []byte{1, 2, 3, 4}, nil
	})

	a, err := ReadJSON(context.Background(), []byte(twoBufferScene), Options{Fetcher: f})
	require.NoError(t, err)

	require.Len(t, a.FetchErrors, 1)
	assert.ErrorIs(t, a.FetchErrors[0], boom)
	assert.Equal(t, Reference{Name: "a", URI: "a.bin", Kind: BufferRef}, a.FetchErrors[0].Reference)

	assert.ErrorIs(t, a.ViewErrors["va"], buffer.ErrMissingBuffer)
	vb, err := a.BufferView("vb")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, vb.Bytes())
}

func TestCancellationAbortsLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	f := fetcherFunc(func(ctx context.Context, _ string) ([]byte, error) {
		calls++
		cancel()
		return nil, ctx.Err()
	})

	_, err := ReadJSON(ctx, []byte(twoBufferScene), Options{Fetcher: f})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCachingFetcherSharesURI(t *testing.T) {
	scene := `{
		"asset": {"version": "1.0"},
		"buffers": {
			"a": {"uri": "shared.bin"},
			"b": {"uri": "shared.bin"}
		}
	}`
	reads := 0
	cache := NewCachingFetcher(fetcherFunc(func(context.Context, string) ([]byte, error) {
		reads++
		return []byte{9}, nil
	}))

	a, err := ReadJSON(context.Background(), []byte(scene), Options{Fetcher: cache})
	require.NoError(t, err)
	assert.Equal(t, 1, reads)
	assert.Len(t, a.Buffers, 2)

	hits, misses := cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	cache.Clear()
	hits, misses = cache.Stats()
	assert.Zero(t, hits+misses)
}

func TestLegacyByteLength(t *testing.T) {
	scene := []byte(`{
		"asset": {"version": "1.0"},
		"buffers": {"b": {"uri": "data:application/octet-stream;base64,AAECAwQF"}},
		"bufferViews": {"v": {"buffer": "b", "byteOffset": 2}}
	}`)

	a, err := ReadJSON(context.Background(), scene, Options{})
	require.NoError(t, err)
	assert.ErrorIs(t, a.ViewErrors["v"], buffer.ErrInvalidRange)

	a, err = ReadJSON(context.Background(), scene, Options{LegacyByteLength: true})
	require.NoError(t, err)
	v, err := a.BufferView("v")
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4, 5}, v.Bytes())
}

func TestByteLengthMismatchDiagnostic(t *testing.T) {
	scene := []byte(`{
		"asset": {"version": "1.0"},
		"buffers": {"b": {"uri": "data:application/octet-stream;base64,AAEC", "byteLength": 8}}
	}`)
	a, err := ReadJSON(context.Background(), scene, Options{})
	require.NoError(t, err)
	require.Len(t, a.Diagnostics, 1)
	assert.Equal(t, "$.buffers.b.byteLength", a.Diagnostics[0].Path)
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	scene := `{
		"asset": {"version": "1.0"},
		"buffers": {"geom": {"uri": "geom%20data.bin", "byteLength": 36}},
		"bufferViews": {"v": {"buffer": "geom", "byteOffset": 0, "byteLength": 36}},
		"accessors": {"pos": {"bufferView": "v", "byteOffset": 0, "componentType": 5126, "count": 3, "type": "VEC3"}},
		"shaders": {"fs": {"uri": "shader.glsl", "type": 35632}}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.gltf"), []byte(scene), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geom data.bin"), floatBody(0, 0, 0, 1, 0, 0, 0, 1, 0), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shader.glsl"), []byte("precision highp float;"), 0o644))

	var progress []float64
	a, err := Load(context.Background(), filepath.Join(dir, "model.gltf"), Options{
		Progress: func(p float64) { progress = append(progress, p) },
	})
	require.NoError(t, err)
	assert.Empty(t, a.FetchErrors)
	assert.Equal(t, []float64{-1, 0.5, 1}, progress)

	assert.Equal(t, []Reference{
		{Name: "geom", URI: "geom%20data.bin", Kind: BufferRef},
		{Name: "fs", URI: "shader.glsl", Kind: ShaderRef},
	}, a.References())

	pos, err := AccessorView[float32](a, "pos")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0}, pos.Min())

	src, err := a.ShaderSource("fs")
	require.NoError(t, err)
	assert.Equal(t, "precision highp float;", string(src))
}

func TestLoadBinaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.glb")
	require.NoError(t, os.WriteFile(path, container(t, binaryScene, binaryBody()), 0o644))

	a, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.True(t, a.IsBinary())
}

func TestReadJSONRejectsNonObject(t *testing.T) {
	_, err := ReadJSON(context.Background(), []byte(`[1, 2]`), Options{})
	assert.ErrorIs(t, err, ErrInvalidJSON)
}
