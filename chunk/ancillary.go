package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
)

// TRNS carries transparency data. Its layout depends on the image's
// color type (alpha per palette entry, or a single transparent sample
// value), which this layer does not know; the bytes stay raw.
type TRNS struct {
	Data []byte
}

func (c *TRNS) Type() TypeCode { return TypeTRNS }

func (c *TRNS) Decode(r io.Reader, length int) error {
	c.Data = make([]byte, length)
	_, err := io.ReadFull(r, c.Data)
	return err
}

func (c *TRNS) Length() (int, error) {
	if len(c.Data) > 256 {
		return 0, fmt.Errorf("%w: tRNS payload %d bytes exceeds 256", ErrInvalidChunkData, len(c.Data))
	}
	return len(c.Data), nil
}

func (c *TRNS) Encode(w io.Writer) error {
	_, err := w.Write(c.Data)
	return err
}

// CHRM gives the chromaticities of the display primaries and white
// point. Each value is the coordinate times 100000.
type CHRM struct {
	WhiteX, WhiteY uint32
	RedX, RedY     uint32
	GreenX, GreenY uint32
	BlueX, BlueY   uint32
}

const chrmLength = 32

func (c *CHRM) Type() TypeCode { return TypeCHRM }

func (c *CHRM) Decode(r io.Reader, length int) error {
	if length != chrmLength {
		return fmt.Errorf("%w: cHRM length must be %d, got %d", ErrInvalidChunkData, chrmLength, length)
	}
	var buf [chrmLength]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	for i, dst := range []*uint32{&c.WhiteX, &c.WhiteY, &c.RedX, &c.RedY, &c.GreenX, &c.GreenY, &c.BlueX, &c.BlueY} {
		*dst = binary.BigEndian.Uint32(buf[i*4 : i*4+4])
	}
	return nil
}

func (c *CHRM) Length() (int, error) { return chrmLength, nil }

func (c *CHRM) Encode(w io.Writer) error {
	var buf [chrmLength]byte
	for i, v := range []uint32{c.WhiteX, c.WhiteY, c.RedX, c.RedY, c.GreenX, c.GreenY, c.BlueX, c.BlueY} {
		binary.BigEndian.PutUint32(buf[i*4:i*4+4], v)
	}
	_, err := w.Write(buf[:])
	return err
}

// GAMA stores the image gamma times 100000.
type GAMA struct {
	Gamma uint32
}

func (c *GAMA) Type() TypeCode { return TypeGAMA }

func (c *GAMA) Decode(r io.Reader, length int) error {
	if length != 4 {
		return fmt.Errorf("%w: gAMA length must be 4, got %d", ErrInvalidChunkData, length)
	}
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	c.Gamma = binary.BigEndian.Uint32(buf[:])
	return nil
}

func (c *GAMA) Length() (int, error) { return 4, nil }

func (c *GAMA) Encode(w io.Writer) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], c.Gamma)
	_, err := w.Write(buf[:])
	return err
}

// Value returns the gamma as a float, e.g. 45455 -> 0.45455.
func (c *GAMA) Value() float64 {
	return float64(c.Gamma) / 100_000.0
}

// SBIT records the significant bit count per sample of the source
// data, one byte per channel (1 to 4 channels).
type SBIT struct {
	Bits []uint8
}

func (c *SBIT) Type() TypeCode { return TypeSBIT }

func (c *SBIT) Decode(r io.Reader, length int) error {
	if length < 1 || length > 4 {
		return fmt.Errorf("%w: sBIT length must be 1..4, got %d", ErrInvalidChunkData, length)
	}
	c.Bits = make([]uint8, length)
	_, err := io.ReadFull(r, c.Bits)
	return err
}

func (c *SBIT) Length() (int, error) {
	if len(c.Bits) < 1 || len(c.Bits) > 4 {
		return 0, fmt.Errorf("%w: sBIT must hold 1..4 bytes, has %d", ErrInvalidChunkData, len(c.Bits))
	}
	for i, b := range c.Bits {
		if b == 0 || b > 16 {
			return 0, fmt.Errorf("%w: sBIT channel %d depth %d out of range", ErrInvalidChunkData, i, b)
		}
	}
	return len(c.Bits), nil
}

func (c *SBIT) Encode(w io.Writer) error {
	_, err := w.Write(c.Bits)
	return err
}

// Rendering intents for SRGB.
const (
	IntentPerceptual uint8 = iota
	IntentRelativeColorimetric
	IntentSaturation
	IntentAbsoluteColorimetric
)

// SRGB declares that the image conforms to the sRGB color space.
type SRGB struct {
	RenderingIntent uint8
}

func (c *SRGB) Type() TypeCode { return TypeSRGB }

func (c *SRGB) Decode(r io.Reader, length int) error {
	if length != 1 {
		return fmt.Errorf("%w: sRGB length must be 1, got %d", ErrInvalidChunkData, length)
	}
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	c.RenderingIntent = buf[0]
	return nil
}

func (c *SRGB) Length() (int, error) {
	if c.RenderingIntent > IntentAbsoluteColorimetric {
		return 0, fmt.Errorf("%w: sRGB rendering intent %d unknown", ErrInvalidChunkData, c.RenderingIntent)
	}
	return 1, nil
}

func (c *SRGB) Encode(w io.Writer) error {
	_, err := w.Write([]byte{c.RenderingIntent})
	return err
}

// BKGD gives a default background color. Like tRNS its layout depends
// on the color type, so the bytes stay raw.
type BKGD struct {
	Data []byte
}

func (c *BKGD) Type() TypeCode { return TypeBKGD }

func (c *BKGD) Decode(r io.Reader, length int) error {
	c.Data = make([]byte, length)
	_, err := io.ReadFull(r, c.Data)
	return err
}

func (c *BKGD) Length() (int, error) {
	if len(c.Data) > 6 {
		return 0, fmt.Errorf("%w: bKGD payload %d bytes exceeds 6", ErrInvalidChunkData, len(c.Data))
	}
	return len(c.Data), nil
}

func (c *BKGD) Encode(w io.Writer) error {
	_, err := w.Write(c.Data)
	return err
}

// HIST gives the approximate usage frequency of each palette entry.
type HIST struct {
	Frequencies []uint16
}

func (c *HIST) Type() TypeCode { return TypeHIST }

func (c *HIST) Decode(r io.Reader, length int) error {
	if length%2 != 0 {
		return fmt.Errorf("%w: hIST length %d not divisible by 2", ErrInvalidChunkData, length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	c.Frequencies = make([]uint16, length/2)
	for i := range c.Frequencies {
		c.Frequencies[i] = binary.BigEndian.Uint16(buf[i*2 : i*2+2])
	}
	return nil
}

func (c *HIST) Length() (int, error) {
	if len(c.Frequencies) == 0 || len(c.Frequencies) > 256 {
		return 0, fmt.Errorf("%w: hIST must hold 1..256 entries, has %d", ErrInvalidChunkData, len(c.Frequencies))
	}
	return len(c.Frequencies) * 2, nil
}

func (c *HIST) Encode(w io.Writer) error {
	buf := make([]byte, len(c.Frequencies)*2)
	for i, f := range c.Frequencies {
		binary.BigEndian.PutUint16(buf[i*2:i*2+2], f)
	}
	_, err := w.Write(buf)
	return err
}

// PHYS gives the intended pixel size or aspect ratio.
type PHYS struct {
	PixelsPerUnitX uint32
	PixelsPerUnitY uint32
	Unit           uint8 // 0 = unspecified ratio, 1 = meter
}

const physLength = 9

func (c *PHYS) Type() TypeCode { return TypePHYS }

func (c *PHYS) Decode(r io.Reader, length int) error {
	if length != physLength {
		return fmt.Errorf("%w: pHYs length must be %d, got %d", ErrInvalidChunkData, physLength, length)
	}
	var buf [physLength]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	c.PixelsPerUnitX = binary.BigEndian.Uint32(buf[0:4])
	c.PixelsPerUnitY = binary.BigEndian.Uint32(buf[4:8])
	c.Unit = buf[8]
	return nil
}

func (c *PHYS) Length() (int, error) {
	if c.Unit > 1 {
		return 0, fmt.Errorf("%w: pHYs unit %d unknown", ErrInvalidChunkData, c.Unit)
	}
	return physLength, nil
}

func (c *PHYS) Encode(w io.Writer) error {
	var buf [physLength]byte
	binary.BigEndian.PutUint32(buf[0:4], c.PixelsPerUnitX)
	binary.BigEndian.PutUint32(buf[4:8], c.PixelsPerUnitY)
	buf[8] = c.Unit
	_, err := w.Write(buf[:])
	return err
}

// SPLT suggests a reduced palette for displays that cannot show the
// full color range. Entries stay raw: their width depends on the
// sample depth (6 bytes at depth 8, 10 bytes at depth 16).
type SPLT struct {
	Name        string // Latin-1 keyword, 1..79 bytes
	SampleDepth uint8
	Data        []byte
}

func (c *SPLT) Type() TypeCode { return TypeSPLT }

func (c *SPLT) Decode(r io.Reader, length int) error {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	name, rest, err := splitKeyword(buf, "sPLT")
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("%w: sPLT truncated after name", ErrInvalidChunkData)
	}
	c.Name = name
	c.SampleDepth = rest[0]
	c.Data = rest[1:]
	return nil
}

func (c *SPLT) entrySize() (int, error) {
	switch c.SampleDepth {
	case 8:
		return 6, nil
	case 16:
		return 10, nil
	}
	return 0, fmt.Errorf("%w: sPLT sample depth %d must be 8 or 16", ErrInvalidChunkData, c.SampleDepth)
}

func (c *SPLT) Length() (int, error) {
	name, err := encodeKeyword(c.Name, "sPLT")
	if err != nil {
		return 0, err
	}
	size, err := c.entrySize()
	if err != nil {
		return 0, err
	}
	if len(c.Data)%size != 0 {
		return 0, fmt.Errorf("%w: sPLT body %d bytes not divisible by entry size %d", ErrInvalidChunkData, len(c.Data), size)
	}
	return len(name) + 1 + 1 + len(c.Data), nil
}

func (c *SPLT) Encode(w io.Writer) error {
	name, err := encodeKeyword(c.Name, "sPLT")
	if err != nil {
		return err
	}
	out := make([]byte, 0, len(name)+2+len(c.Data))
	out = append(out, name...)
	out = append(out, 0, c.SampleDepth)
	out = append(out, c.Data...)
	_, err = w.Write(out)
	return err
}

// TIME records the last image modification time, UTC.
type TIME struct {
	Year   uint16
	Month  uint8 // 1..12
	Day    uint8 // 1..31
	Hour   uint8 // 0..23
	Minute uint8 // 0..59
	Second uint8 // 0..60, 60 allows leap seconds
}

const timeLength = 7

func (c *TIME) Type() TypeCode { return TypeTIME }

func (c *TIME) Decode(r io.Reader, length int) error {
	if length != timeLength {
		return fmt.Errorf("%w: tIME length must be %d, got %d", ErrInvalidChunkData, timeLength, length)
	}
	var buf [timeLength]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	c.Year = binary.BigEndian.Uint16(buf[0:2])
	c.Month = buf[2]
	c.Day = buf[3]
	c.Hour = buf[4]
	c.Minute = buf[5]
	c.Second = buf[6]
	return nil
}

func (c *TIME) Length() (int, error) {
	switch {
	case c.Month < 1 || c.Month > 12:
		return 0, fmt.Errorf("%w: tIME month %d out of range", ErrInvalidChunkData, c.Month)
	case c.Day < 1 || c.Day > 31:
		return 0, fmt.Errorf("%w: tIME day %d out of range", ErrInvalidChunkData, c.Day)
	case c.Hour > 23:
		return 0, fmt.Errorf("%w: tIME hour %d out of range", ErrInvalidChunkData, c.Hour)
	case c.Minute > 59:
		return 0, fmt.Errorf("%w: tIME minute %d out of range", ErrInvalidChunkData, c.Minute)
	case c.Second > 60:
		return 0, fmt.Errorf("%w: tIME second %d out of range", ErrInvalidChunkData, c.Second)
	}
	return timeLength, nil
}

func (c *TIME) Encode(w io.Writer) error {
	var buf [timeLength]byte
	binary.BigEndian.PutUint16(buf[0:2], c.Year)
	buf[2] = c.Month
	buf[3] = c.Day
	buf[4] = c.Hour
	buf[5] = c.Minute
	buf[6] = c.Second
	_, err := w.Write(buf[:])
	return err
}
