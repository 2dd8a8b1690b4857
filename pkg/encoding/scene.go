// Package encoding provides text handling for glTF scene descriptions.
package encoding

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidText is returned when scene text is not valid UTF-8.
var ErrInvalidText = errors.New("scene description is not valid UTF-8")

// SceneText normalizes a JSON scene description to plain UTF-8.
// A leading byte order mark is honored and removed, so UTF-16 exports
// are converted as well.
func SceneText(data []byte) ([]byte, error) {
	// The UTF-8 decoder substitutes U+FFFD for bad sequences, so check first.
	if !hasUTF16BOM(data) && !utf8.Valid(data) {
		return nil, ErrInvalidText
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

// TrimPadding removes the trailing NUL and space bytes exporters use to
// pad the scene chunk of a binary container to a 4-byte boundary.
func TrimPadding(data []byte) []byte {
	return bytes.TrimRight(data, "\x00 ")
}
