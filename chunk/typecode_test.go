package chunk

import (
	"errors"
	"testing"
)

func TestTypeCodeFromString(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"IHDR", false},
		{"tEXt", false},
		{"bLOb", false},
		{"", true},
		{"IHD", true},
		{"IHDRX", true},
		{"IH1R", true},
		{"IH R", true},
		{"IHD\x00", true},
	}
	for _, tt := range tests {
		code, err := TypeCodeFromString(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("TypeCodeFromString(%q) error = %v, want ErrInvalidFormat", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("TypeCodeFromString(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got := code.String(); got != tt.in {
			t.Errorf("TypeCodeFromString(%q).String() = %q", tt.in, got)
		}
	}
}

func TestTypeCodeFromUint32(t *testing.T) {
	code, err := TypeCodeFromUint32(0x49484452) // "IHDR"
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != TypeIHDR {
		t.Errorf("got %s, want IHDR", code)
	}
	if _, err := TypeCodeFromUint32(0x49484400); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("non-letter byte accepted, err = %v", err)
	}
}

func TestTypeCodePropertyBits(t *testing.T) {
	// bLOb: ancillary, public, not reserved, safe to copy.
	code, err := TypeCodeFromString("bLOb")
	if err != nil {
		t.Fatal(err)
	}
	if !code.IsAncillary() || code.IsPrivate() || code.IsReserved() || !code.IsSafeToCopy() {
		t.Errorf("bLOb flags = %v %v %v %v, want true false false true",
			code.IsAncillary(), code.IsPrivate(), code.IsReserved(), code.IsSafeToCopy())
	}
	if TypeIHDR.IsAncillary() || TypeIHDR.IsSafeToCopy() {
		t.Error("IHDR must be critical and unsafe to copy")
	}
	if !TypeGAMA.IsAncillary() {
		t.Error("gAMA must be ancillary")
	}
}

func TestTypeCodeEquality(t *testing.T) {
	a, _ := TypeCodeFromString("gAMA")
	if a != TypeGAMA {
		t.Error("equal codes compare unequal")
	}
	m := map[TypeCode]int{TypeGAMA: 1}
	if m[a] != 1 {
		t.Error("TypeCode not usable as map key by value")
	}
}
