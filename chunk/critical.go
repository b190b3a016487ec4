package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
)

// IHDR is the image header, always the first chunk of a datastream.
type IHDR struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

const ihdrLength = 13

func (c *IHDR) Type() TypeCode { return TypeIHDR }

func (c *IHDR) Decode(r io.Reader, length int) error {
	if length != ihdrLength {
		return fmt.Errorf("%w: IHDR length must be %d, got %d", ErrInvalidChunkData, ihdrLength, length)
	}
	var buf [ihdrLength]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	c.Width = binary.BigEndian.Uint32(buf[0:4])
	c.Height = binary.BigEndian.Uint32(buf[4:8])
	c.BitDepth = buf[8]
	c.ColorType = buf[9]
	c.CompressionMethod = buf[10]
	c.FilterMethod = buf[11]
	c.InterlaceMethod = buf[12]
	return nil
}

// validBitDepths lists the permitted bit depths per color type.
var validBitDepths = map[uint8][]uint8{
	0: {1, 2, 4, 8, 16},
	2: {8, 16},
	3: {1, 2, 4, 8},
	4: {8, 16},
	6: {8, 16},
}

func (c *IHDR) Length() (int, error) {
	if c.Width == 0 || c.Width > 1<<31-1 {
		return 0, fmt.Errorf("%w: IHDR width %d out of range", ErrInvalidChunkData, c.Width)
	}
	if c.Height == 0 || c.Height > 1<<31-1 {
		return 0, fmt.Errorf("%w: IHDR height %d out of range", ErrInvalidChunkData, c.Height)
	}
	depths, ok := validBitDepths[c.ColorType]
	if !ok {
		return 0, fmt.Errorf("%w: IHDR color type %d unknown", ErrInvalidChunkData, c.ColorType)
	}
	valid := false
	for _, d := range depths {
		if c.BitDepth == d {
			valid = true
			break
		}
	}
	if !valid {
		return 0, fmt.Errorf("%w: IHDR bit depth %d invalid for color type %d", ErrInvalidChunkData, c.BitDepth, c.ColorType)
	}
	if c.CompressionMethod != 0 {
		return 0, fmt.Errorf("%w: IHDR compression method %d unknown", ErrInvalidChunkData, c.CompressionMethod)
	}
	if c.FilterMethod != 0 {
		return 0, fmt.Errorf("%w: IHDR filter method %d unknown", ErrInvalidChunkData, c.FilterMethod)
	}
	if c.InterlaceMethod > 1 {
		return 0, fmt.Errorf("%w: IHDR interlace method %d unknown", ErrInvalidChunkData, c.InterlaceMethod)
	}
	return ihdrLength, nil
}

func (c *IHDR) Encode(w io.Writer) error {
	var buf [ihdrLength]byte
	binary.BigEndian.PutUint32(buf[0:4], c.Width)
	binary.BigEndian.PutUint32(buf[4:8], c.Height)
	buf[8] = c.BitDepth
	buf[9] = c.ColorType
	buf[10] = c.CompressionMethod
	buf[11] = c.FilterMethod
	buf[12] = c.InterlaceMethod
	_, err := w.Write(buf[:])
	return err
}

// PaletteEntry is one RGB triple of a PLTE chunk.
type PaletteEntry struct {
	R, G, B uint8
}

// PLTE is the palette chunk: 1 to 256 RGB triples.
type PLTE struct {
	Entries []PaletteEntry
}

func (c *PLTE) Type() TypeCode { return TypePLTE }

func (c *PLTE) Decode(r io.Reader, length int) error {
	if length%3 != 0 {
		return fmt.Errorf("%w: PLTE length %d not divisible by 3", ErrInvalidChunkData, length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	c.Entries = make([]PaletteEntry, length/3)
	for i := range c.Entries {
		c.Entries[i] = PaletteEntry{R: buf[i*3], G: buf[i*3+1], B: buf[i*3+2]}
	}
	return nil
}

func (c *PLTE) Length() (int, error) {
	if len(c.Entries) == 0 || len(c.Entries) > 256 {
		return 0, fmt.Errorf("%w: PLTE must hold 1..256 entries, has %d", ErrInvalidChunkData, len(c.Entries))
	}
	return len(c.Entries) * 3, nil
}

func (c *PLTE) Encode(w io.Writer) error {
	buf := make([]byte, len(c.Entries)*3)
	for i, e := range c.Entries {
		buf[i*3] = e.R
		buf[i*3+1] = e.G
		buf[i*3+2] = e.B
	}
	_, err := w.Write(buf)
	return err
}

// IDAT carries a slice of the compressed image sample stream. The
// bytes are opaque at this layer; consecutive IDAT chunks concatenate
// into one zlib stream.
type IDAT struct {
	Data []byte
}

func (c *IDAT) Type() TypeCode { return TypeIDAT }

func (c *IDAT) Decode(r io.Reader, length int) error {
	c.Data = make([]byte, length)
	_, err := io.ReadFull(r, c.Data)
	return err
}

func (c *IDAT) Length() (int, error) {
	return len(c.Data), nil
}

func (c *IDAT) Encode(w io.Writer) error {
	_, err := w.Write(c.Data)
	return err
}

// IEND terminates the datastream. Its payload is always empty.
type IEND struct{}

func (c *IEND) Type() TypeCode { return TypeIEND }

func (c *IEND) Decode(r io.Reader, length int) error {
	if length != 0 {
		return fmt.Errorf("%w: IEND payload must be empty, got %d bytes", ErrInvalidChunkData, length)
	}
	return nil
}

func (c *IEND) Length() (int, error) { return 0, nil }

func (c *IEND) Encode(w io.Writer) error { return nil }
