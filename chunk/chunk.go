// Package chunk defines the PNG chunk payload contract, the
// four-letter type codes that identify chunk kinds, the registry that
// maps codes to payload codecs, and the built-in codec set for the
// standard PNG chunk types.
//
// Pixel data is never interpreted here: the compressed image sample
// stream rides through IDAT chunks as opaque bytes.
package chunk

import (
	"fmt"
	"io"
)

// Chunk is the capability every chunk payload implements. The framing
// layer drives it: Decode must consume exactly length bytes from r,
// Encode must write exactly the byte count the preceding Length call
// returned. Over- or under-consumption in a custom implementation
// corrupts the framing and is not detected at this layer.
type Chunk interface {
	// Type returns the chunk's four-letter type code.
	Type() TypeCode

	// Decode reads the payload from r, which holds exactly length
	// payload bytes.
	Decode(r io.Reader, length int) error

	// Length validates the payload fields and returns the byte count
	// Encode will produce. Validation failures wrap ErrInvalidChunkData.
	Length() (int, error)

	// Encode writes the payload bytes to w.
	Encode(w io.Writer) error
}

// Constraint declares that the owning chunk type must be placed after
// every instance of Code. With ExemptFirst set, the first instance of
// the owning type may still appear before Code has been fully placed;
// later instances may not. The exemption supports interleaved
// repeating groups.
type Constraint struct {
	Code        TypeCode
	ExemptFirst bool
}

// Definition is the registration record for one chunk type: its
// factory plus the multiplicity and ordering metadata the document
// layer enforces.
type Definition struct {
	Code TypeCode

	// New constructs an empty payload ready for Decode.
	New func() Chunk

	// AllowMultiple permits more than one instance per document.
	AllowMultiple bool

	// MustFollow lists types this one must be placed after.
	MustFollow []Constraint

	// MustPrecede lists types this one must be placed before. A
	// must-precede edge never carries a first-instance exemption.
	MustPrecede []TypeCode

	// Override permits replacing an existing registration.
	Override bool
}

// Raw carries the payload of a chunk type no codec is registered for.
// Decoding never hard-fails on an unrecognized but well-formed chunk;
// it lands here instead, byte-for-byte.
type Raw struct {
	Code TypeCode
	Data []byte
}

// NewRaw returns an empty Raw chunk for the given type code.
func NewRaw(code TypeCode) *Raw {
	return &Raw{Code: code}
}

func (c *Raw) Type() TypeCode { return c.Code }

func (c *Raw) Decode(r io.Reader, length int) error {
	c.Data = make([]byte, length)
	_, err := io.ReadFull(r, c.Data)
	return err
}

func (c *Raw) Length() (int, error) {
	return len(c.Data), nil
}

func (c *Raw) Encode(w io.Writer) error {
	_, err := w.Write(c.Data)
	return err
}

func (c *Raw) String() string {
	return fmt.Sprintf("%s (%d bytes, uninterpreted)", c.Code, len(c.Data))
}
