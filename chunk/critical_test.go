package chunk

import (
	"bytes"
	"errors"
	"testing"
)

func TestIHDRValidation(t *testing.T) {
	valid := IHDR{Width: 10, Height: 11, BitDepth: 8, ColorType: 2}
	tests := []struct {
		name   string
		mutate func(*IHDR)
	}{
		{"zero width", func(h *IHDR) { h.Width = 0 }},
		{"zero height", func(h *IHDR) { h.Height = 0 }},
		{"width over int32", func(h *IHDR) { h.Width = 1 << 31 }},
		{"unknown color type", func(h *IHDR) { h.ColorType = 5 }},
		{"depth invalid for type", func(h *IHDR) { h.ColorType = 3; h.BitDepth = 16 }},
		{"unknown compression", func(h *IHDR) { h.CompressionMethod = 1 }},
		{"unknown filter", func(h *IHDR) { h.FilterMethod = 1 }},
		{"unknown interlace", func(h *IHDR) { h.InterlaceMethod = 2 }},
	}
	if n, err := valid.Length(); n != 13 || err != nil {
		t.Fatalf("valid IHDR Length = (%d, %v), want (13, nil)", n, err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid
			tt.mutate(&h)
			if _, err := h.Length(); !errors.Is(err, ErrInvalidChunkData) {
				t.Errorf("Length() error = %v, want ErrInvalidChunkData", err)
			}
		})
	}
}

func TestPLTEValidation(t *testing.T) {
	if err := (&PLTE{}).Decode(bytes.NewReader(make([]byte, 4)), 4); !errors.Is(err, ErrInvalidChunkData) {
		t.Errorf("length not divisible by 3: error = %v", err)
	}
	empty := &PLTE{}
	if _, err := empty.Length(); !errors.Is(err, ErrInvalidChunkData) {
		t.Errorf("empty palette accepted: %v", err)
	}
	big := &PLTE{Entries: make([]PaletteEntry, 257)}
	if _, err := big.Length(); !errors.Is(err, ErrInvalidChunkData) {
		t.Errorf("257-entry palette accepted: %v", err)
	}
}

func TestIENDRejectsPayload(t *testing.T) {
	if err := (&IEND{}).Decode(bytes.NewReader([]byte{1}), 1); !errors.Is(err, ErrInvalidChunkData) {
		t.Errorf("IEND with payload: error = %v", err)
	}
	if err := (&IEND{}).Decode(bytes.NewReader(nil), 0); err != nil {
		t.Errorf("empty IEND: %v", err)
	}
}
