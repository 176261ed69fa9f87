package packet

import (
	"bytes"
	"testing"
)

func TestWriterLittleEndianAndPadding(t *testing.T) {
	w := NewWriterWithOpcode(0x0124)
	w.WriteC(7)
	w.WriteD(-2)
	if w.Len() != 7 {
		t.Fatalf("Len = %d, want 7", w.Len())
	}
	want := []byte{0x24, 0x01, 7, 0xFE, 0xFF, 0xFF, 0xFF, 0}
	if got := w.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("Bytes = % x, want % x", got, want)
	}
	// Already aligned output is not padded again.
	if got := w.Bytes(); len(got) != 8 {
		t.Fatalf("second Bytes len = %d", len(got))
	}
}

func TestWriterFloatAndBool(t *testing.T) {
	w := NewWriter()
	w.WriteF(1.0)
	w.WriteBool(true)
	w.WriteBool(false)
	want := []byte{0x00, 0x00, 0x80, 0x3F, 1, 0}
	if got := w.RawBytes(); !bytes.Equal(got, want) {
		t.Fatalf("RawBytes = % x, want % x", got, want)
	}
}
