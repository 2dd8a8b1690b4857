package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	binaryMagic      = "glTF"
	binaryHeaderSize = 20
	binaryVersion    = 1

	// SceneFormatJSON is the only scene format a binary container may use.
	SceneFormatJSON = 0
)

var (
	// ErrFormat is returned for malformed binary containers.
	ErrFormat = errors.New("malformed binary container")
	// ErrUnsupportedSceneFormat is returned when the scene is not JSON.
	ErrUnsupportedSceneFormat = errors.New("unsupported scene format")
)

// Header is the fixed 20-byte header of a binary container.
type Header struct {
	Magic       [4]byte
	Version     uint32
	Length      uint32
	SceneLength uint32
	SceneFormat uint32
}

// Container is a parsed binary container. Scene and Body alias the input.
type Container struct {
	Header Header
	Scene  []byte
	Body   []byte
}

// IsBinary reports whether data starts with the binary container magic.
func IsBinary(data []byte) bool {
	return len(data) >= len(binaryMagic) && string(data[:len(binaryMagic)]) == binaryMagic
}

// ParseBinary splits a binary container into its scene description and body.
// A version other than 1 is logged and parsing continues.
func ParseBinary(data []byte, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(data) < binaryHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrFormat, len(data))
	}

	var c Container
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &c.Header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrFormat, err)
	}
	h := c.Header

	if string(h.Magic[:]) != binaryMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, h.Magic[:])
	}
	if h.Version != binaryVersion {
		log.Warn("unexpected binary container version", zap.Uint32("version", h.Version))
	}
	if uint64(h.Length) != uint64(len(data)) {
		return nil, fmt.Errorf("%w: header length %d, file has %d bytes", ErrFormat, h.Length, len(data))
	}
	if h.SceneFormat != SceneFormatJSON {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSceneFormat, h.SceneFormat)
	}
	sceneEnd := uint64(binaryHeaderSize) + uint64(h.SceneLength)
	if sceneEnd > uint64(h.Length) {
		return nil, fmt.Errorf("%w: scene length %d exceeds container", ErrFormat, h.SceneLength)
	}

	c.Scene = data[binaryHeaderSize:sceneEnd:sceneEnd]
	c.Body = data[sceneEnd:]
	return &c, nil
}

// WriteBinary writes a binary container holding scene and body. The scene
// is padded with spaces to a multiple of four bytes.
func WriteBinary(w io.Writer, scene, body []byte) error {
	pad := (4 - len(scene)%4) % 4
	sceneLen := len(scene) + pad
	total := binaryHeaderSize + sceneLen + len(body)
	if uint64(total) > uint64(^uint32(0)) {
		return fmt.Errorf("%w: container of %d bytes is too large", ErrFormat, total)
	}

	h := Header{
		Version:     binaryVersion,
		Length:      uint32(total),
		SceneLength: uint32(sceneLen),
		SceneFormat: SceneFormatJSON,
	}
	copy(h.Magic[:], binaryMagic)

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := w.Write(scene); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	if _, err := w.Write(bytes.Repeat([]byte{' '}, pad)); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}
	return nil
}
