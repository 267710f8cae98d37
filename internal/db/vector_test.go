package db

import "testing"

func TestEncodeVector_Layout(t *testing.T) {
	got := EncodeVector([]float32{1.0})
	// 1.0 = 0x3f800000, little-endian
	want := string([]byte{0x00, 0x00, 0x80, 0x3f})
	if got != want {
		t.Errorf("EncodeVector(1.0) = %x, want %x", got, want)
	}
}

func TestDecodeVector(t *testing.T) {
	in := []float32{0.5, -1.25, 3}
	out, err := DecodeVector([]byte(EncodeVector(in)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestDecodeVector_BadLength(t *testing.T) {
	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated data")
	}
}
