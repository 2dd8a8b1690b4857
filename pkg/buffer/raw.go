package buffer

// BinaryContainerID is the reserved id of the payload of a binary glTF container.
const BinaryContainerID = "binary_glTF"

// RawBuffer is an immutable byte region identified by a logical buffer id.
type RawBuffer struct {
	ID   string
	data []byte
}

// NewRawBuffer takes ownership of data. The slice must not be modified afterwards.
func NewRawBuffer(id string, data []byte) *RawBuffer {
	return &RawBuffer{ID: id, data: data}
}

// Size returns the buffer length in bytes.
func (b *RawBuffer) Size() int {
	return len(b.data)
}

// View returns a window over the whole buffer.
func (b *RawBuffer) View() View {
	return NewView(b.data)
}
