package encoding

import (
	"errors"
	"testing"
)

func TestSceneTextPlain(t *testing.T) {
	in := []byte(`{"asset":{"version":"1.0"}}`)
	out, err := SceneText(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != string(in) {
		t.Errorf("expected unchanged text, got %q", out)
	}
}

func TestSceneTextStripsBOM(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, `{"a":1}`...)
	out, err := SceneText(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"a":1}` {
		t.Errorf("expected BOM to be removed, got %q", out)
	}
}

func TestSceneTextUTF16(t *testing.T) {
	// UTF-16LE with BOM: {"a":1}
	in := []byte{0xFF, 0xFE}
	for _, r := range `{"a":1}` {
		in = append(in, byte(r), 0)
	}
	out, err := SceneText(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"a":1}` {
		t.Errorf("expected UTF-16 to be converted, got %q", out)
	}
}

func TestSceneTextInvalid(t *testing.T) {
	_, err := SceneText([]byte{'{', 0xC3, 0x28, '}'})
	if !errors.Is(err, ErrInvalidText) {
		t.Errorf("expected ErrInvalidText, got %v", err)
	}
}

func TestTrimPadding(t *testing.T) {
	got := TrimPadding([]byte("{}  \x00\x00"))
	if string(got) != "{}" {
		t.Errorf("TrimPadding = %q, want %q", got, "{}")
	}
}
