package mrtd

import (
	"bytes"
	"errors"
	"testing"
)

func TestLength_RoundTrip(t *testing.T) {
	tests := []struct {
		length   int
		wantSize int
	}{
		{0x00, 1},
		{0x01, 1},
		{0x7F, 1},
		{0x80, 2},
		{0xFF, 2},
		{0x1234, 3},
		{0xFFFF, 3},
	}

	for _, tt := range tests {
		enc := EncodeLength(tt.length)
		if len(enc) != tt.wantSize {
			t.Errorf("EncodeLength(%#x) is %d bytes; want %d", tt.length, len(enc), tt.wantSize)
		}

		// Decoding must succeed with trailing content present.
		got, size, err := DecodeLength(append(enc, 0xAA, 0xBB))
		if err != nil {
			t.Fatalf("DecodeLength(%X) failed: %v", enc, err)
		}
		if got != tt.length || size != tt.wantSize {
			t.Errorf("DecodeLength(%X) = (%#x, %d); want (%#x, %d)", enc, got, size, tt.length, tt.wantSize)
		}
	}
}

func TestDecodeLength_Deterministic(t *testing.T) {
	in := []byte{0x82, 0x12, 0x34}
	l1, s1, _ := DecodeLength(in)
	l2, s2, _ := DecodeLength(in)
	if l1 != l2 || s1 != s2 {
		t.Error("DecodeLength must be deterministic for identical input")
	}
}

func TestDecodeLength_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"Empty input", nil},
		{"Unsupported form 0x83", []byte{0x83, 0x01, 0x00, 0x00}},
		{"Unsupported form 0x80", []byte{0x80}},
		{"Truncated 0x81", []byte{0x81}},
		{"Truncated 0x82", []byte{0x82, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeLength(tt.input)
			if !errors.Is(err, ErrCannotDecodeASN1Length) {
				t.Errorf("DecodeLength(%X) error = %v; want ErrCannotDecodeASN1Length", tt.input, err)
			}
		})
	}
}

func TestEncodeLength_OutOfRange(t *testing.T) {
	if EncodeLength(-1) != nil {
		t.Error("EncodeLength(-1) should return nil")
	}
	if EncodeLength(0x10000) != nil {
		t.Error("EncodeLength(0x10000) should return nil")
	}
	if !bytes.Equal(EncodeLength(0xFFFF), []byte{0x82, 0xFF, 0xFF}) {
		t.Error("EncodeLength(0xFFFF) should use the 0x82 form")
	}
}
