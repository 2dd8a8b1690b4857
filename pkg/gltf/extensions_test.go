package gltf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionProperties(t *testing.T) {
	var node Node
	assert.False(t, node.HasExtension("VENDOR_a"))

	_, ok := node.GetExtensionProperty("VENDOR_a", "k")
	assert.False(t, ok)

	node.SetExtensionProperty("VENDOR_a", "k", "v")
	node.SetExtensionProperty("VENDOR_a", "n", 3)
	assert.True(t, node.HasExtension("VENDOR_a"))

	v, ok := node.GetExtensionProperty("VENDOR_a", "k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	n, ok := node.ExtensionInt("VENDOR_a", "n")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = node.ExtensionString("VENDOR_a", "n")
	assert.False(t, ok, "int is not a string")

	node.RemoveExtension("VENDOR_a")
	assert.False(t, node.HasExtension("VENDOR_a"))
}

func TestExtensionIntFromJSON(t *testing.T) {
	doc, _, err := DecodeDocument([]byte(`{
		"asset": {"version": "1.0"},
		"images": {
			"ok": {"extensions": {"KHR_binary_glTF": {"bufferView": "v", "width": 64, "height": 32}}},
			"frac": {"extensions": {"KHR_binary_glTF": {"bufferView": "v", "width": 1.5}}},
			"huge": {"extensions": {"KHR_binary_glTF": {"bufferView": "v", "width": 1e300, "height": -3e9}}}
		}
	}`))
	require.NoError(t, err)

	info, ok := doc.Images["ok"].BinaryInfo()
	require.True(t, ok)
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 32, info.Height)

	_, ok = doc.Images["frac"].ExtensionInt(BinaryExtension, "width")
	assert.False(t, ok)

	_, ok = doc.Images["huge"].ExtensionInt(BinaryExtension, "width")
	assert.False(t, ok)
	_, ok = doc.Images["huge"].ExtensionInt(BinaryExtension, "height")
	assert.False(t, ok)
}

func TestBinaryBufferView(t *testing.T) {
	var sh Shader
	_, ok := sh.BinaryBufferView()
	assert.False(t, ok)

	sh.SetExtensionProperty(BinaryExtension, "bufferView", "src")
	view, ok := sh.BinaryBufferView()
	require.True(t, ok)
	assert.Equal(t, "src", view)

	var img Image
	_, ok = img.BinaryInfo()
	assert.False(t, ok)
}
