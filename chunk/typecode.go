package chunk

import (
	"encoding/binary"
	"fmt"
)

// TypeCode is a four-letter PNG chunk type tag packed big-endian into
// a uint32. Comparison and map use go through the integer value.
type TypeCode uint32

// Property bits live in bit 5 of each letter: an uppercase letter has
// the bit clear, a lowercase letter has it set.
const propertyBit = 0x20

// TypeCodeFromUint32 validates v as four ASCII letters packed
// big-endian and returns it as a TypeCode.
func TypeCodeFromUint32(v uint32) (TypeCode, error) {
	for shift := 24; shift >= 0; shift -= 8 {
		if !isLetter(byte(v >> shift)) {
			return 0, fmt.Errorf("%w: 0x%08X is not four ASCII letters", ErrInvalidFormat, v)
		}
	}
	return TypeCode(v), nil
}

// TypeCodeFromString validates s as exactly four ASCII letters and
// returns the packed TypeCode.
func TypeCodeFromString(s string) (TypeCode, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("%w: type code %q must be 4 characters", ErrInvalidFormat, s)
	}
	for i := 0; i < 4; i++ {
		if !isLetter(s[i]) {
			return 0, fmt.Errorf("%w: type code %q has non-letter at position %d", ErrInvalidFormat, s, i)
		}
	}
	return TypeCode(binary.BigEndian.Uint32([]byte(s))), nil
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// Bytes returns the four letters in stream order.
func (t TypeCode) Bytes() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(t))
	return b
}

func (t TypeCode) String() string {
	b := t.Bytes()
	return string(b[:])
}

// IsAncillary reports whether the chunk is ancillary (first letter
// lowercase). Critical chunks must be understood to render the image.
func (t TypeCode) IsAncillary() bool {
	return uint32(t)>>24&propertyBit != 0
}

// IsPrivate reports whether the chunk type is private (second letter
// lowercase) rather than defined by the public PNG registry.
func (t TypeCode) IsPrivate() bool {
	return uint32(t)>>16&propertyBit != 0
}

// IsReserved reports whether the reserved bit (third letter
// lowercase) is set. Conforming encoders always leave it clear.
func (t TypeCode) IsReserved() bool {
	return uint32(t)>>8&propertyBit != 0
}

// IsSafeToCopy reports whether an editor that does not recognize the
// chunk may copy it across modifications (fourth letter lowercase).
func (t TypeCode) IsSafeToCopy() bool {
	return uint32(t)&propertyBit != 0
}

func mustTypeCode(s string) TypeCode {
	t, err := TypeCodeFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	// Critical chunks
	TypeIHDR = mustTypeCode("IHDR")
	TypePLTE = mustTypeCode("PLTE")
	TypeIDAT = mustTypeCode("IDAT")
	TypeIEND = mustTypeCode("IEND")

	// Ancillary chunks
	TypeCHRM = mustTypeCode("cHRM")
	TypeGAMA = mustTypeCode("gAMA")
	TypeICCP = mustTypeCode("iCCP")
	TypeSBIT = mustTypeCode("sBIT")
	TypeSRGB = mustTypeCode("sRGB")
	TypeBKGD = mustTypeCode("bKGD")
	TypeHIST = mustTypeCode("hIST")
	TypeTRNS = mustTypeCode("tRNS")
	TypePHYS = mustTypeCode("pHYs")
	TypeSPLT = mustTypeCode("sPLT")
	TypeTIME = mustTypeCode("tIME")
	TypeITXT = mustTypeCode("iTXt")
	TypeTEXT = mustTypeCode("tEXt")
	TypeZTXT = mustTypeCode("zTXt")
)
