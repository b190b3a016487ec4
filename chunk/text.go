package chunk

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/charmap"
)

// Keywords are Latin-1 per the PNG specification even inside the
// otherwise UTF-8 iTXt chunk. They travel as Latin-1 bytes on the
// wire and as UTF-8 strings in the structs; all length accounting
// below counts the Latin-1 encoded bytes, never runes.

const maxKeywordLen = 79

// encodeKeyword converts a keyword to its Latin-1 wire bytes and
// checks the PNG keyword rules.
func encodeKeyword(s, chunkName string) ([]byte, error) {
	enc, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s keyword %q is not Latin-1", ErrInvalidChunkData, chunkName, s)
	}
	if len(enc) == 0 || len(enc) > maxKeywordLen {
		return nil, fmt.Errorf("%w: %s keyword must be 1..%d bytes, got %d", ErrInvalidChunkData, chunkName, maxKeywordLen, len(enc))
	}
	if enc[0] == ' ' || enc[len(enc)-1] == ' ' {
		return nil, fmt.Errorf("%w: %s keyword %q has leading or trailing space", ErrInvalidChunkData, chunkName, s)
	}
	for _, b := range enc {
		// Printable Latin-1 plus interior space; 127..160 are control
		// characters and the non-breaking space.
		if b < 32 || (b > 126 && b < 161) {
			return nil, fmt.Errorf("%w: %s keyword has non-printable byte 0x%02X", ErrInvalidChunkData, chunkName, b)
		}
	}
	return enc, nil
}

// splitKeyword takes a payload starting with a null-terminated
// Latin-1 keyword and returns the keyword as UTF-8 plus the bytes
// after the separator.
func splitKeyword(buf []byte, chunkName string) (string, []byte, error) {
	i := bytes.IndexByte(buf, 0)
	if i < 0 {
		return "", nil, fmt.Errorf("%w: %s has no keyword terminator", ErrInvalidChunkData, chunkName)
	}
	if i == 0 || i > maxKeywordLen {
		return "", nil, fmt.Errorf("%w: %s keyword must be 1..%d bytes, got %d", ErrInvalidChunkData, chunkName, maxKeywordLen, i)
	}
	kw, err := charmap.ISO8859_1.NewDecoder().Bytes(buf[:i])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s keyword: %v", ErrInvalidChunkData, chunkName, err)
	}
	return string(kw), buf[i+1:], nil
}

func encodeLatin1(s, chunkName string) ([]byte, error) {
	enc, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s text is not Latin-1", ErrInvalidChunkData, chunkName)
	}
	return enc, nil
}

func decodeLatin1(b []byte) string {
	// Latin-1 decoding is total: every byte maps to a rune.
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(out)
}

func inflate(b []byte, chunkName string) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %s compressed body: %v", ErrInvalidChunkData, chunkName, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s compressed body: %v", ErrInvalidChunkData, chunkName, err)
	}
	return out, nil
}

func deflate(b []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(b)
	zw.Close()
	return buf.Bytes()
}

// TEXT holds an uncompressed Latin-1 text record.
type TEXT struct {
	Keyword string
	Text    string
}

func (c *TEXT) Type() TypeCode { return TypeTEXT }

func (c *TEXT) Decode(r io.Reader, length int) error {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	kw, rest, err := splitKeyword(buf, "tEXt")
	if err != nil {
		return err
	}
	c.Keyword = kw
	c.Text = decodeLatin1(rest)
	return nil
}

func (c *TEXT) Length() (int, error) {
	kw, err := encodeKeyword(c.Keyword, "tEXt")
	if err != nil {
		return 0, err
	}
	body, err := encodeLatin1(c.Text, "tEXt")
	if err != nil {
		return 0, err
	}
	return len(kw) + 1 + len(body), nil
}

func (c *TEXT) Encode(w io.Writer) error {
	kw, err := encodeKeyword(c.Keyword, "tEXt")
	if err != nil {
		return err
	}
	body, err := encodeLatin1(c.Text, "tEXt")
	if err != nil {
		return err
	}
	out := make([]byte, 0, len(kw)+1+len(body))
	out = append(out, kw...)
	out = append(out, 0)
	out = append(out, body...)
	_, err = w.Write(out)
	return err
}

// ZTXT holds a zlib-compressed Latin-1 text record. The body is kept
// in wire (compressed) form so encoding is deterministic; use Text
// and SetText to work with the plain string.
type ZTXT struct {
	Keyword           string
	CompressionMethod uint8
	Compressed        []byte
}

func (c *ZTXT) Type() TypeCode { return TypeZTXT }

func (c *ZTXT) Decode(r io.Reader, length int) error {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	kw, rest, err := splitKeyword(buf, "zTXt")
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("%w: zTXt truncated after keyword", ErrInvalidChunkData)
	}
	c.Keyword = kw
	c.CompressionMethod = rest[0]
	c.Compressed = rest[1:]
	return nil
}

func (c *ZTXT) Length() (int, error) {
	kw, err := encodeKeyword(c.Keyword, "zTXt")
	if err != nil {
		return 0, err
	}
	if c.CompressionMethod != 0 {
		return 0, fmt.Errorf("%w: zTXt compression method %d unknown", ErrInvalidChunkData, c.CompressionMethod)
	}
	return len(kw) + 1 + 1 + len(c.Compressed), nil
}

func (c *ZTXT) Encode(w io.Writer) error {
	kw, err := encodeKeyword(c.Keyword, "zTXt")
	if err != nil {
		return err
	}
	out := make([]byte, 0, len(kw)+2+len(c.Compressed))
	out = append(out, kw...)
	out = append(out, 0, c.CompressionMethod)
	out = append(out, c.Compressed...)
	_, err = w.Write(out)
	return err
}

// Text inflates and returns the text body.
func (c *ZTXT) Text() (string, error) {
	raw, err := inflate(c.Compressed, "zTXt")
	if err != nil {
		return "", err
	}
	return decodeLatin1(raw), nil
}

// SetText compresses s into the chunk body.
func (c *ZTXT) SetText(s string) error {
	raw, err := encodeLatin1(s, "zTXt")
	if err != nil {
		return err
	}
	c.CompressionMethod = 0
	c.Compressed = deflate(raw)
	return nil
}

// ITXT holds an international text record: Latin-1 keyword, UTF-8
// body, optional compression. The body is kept in wire form.
type ITXT struct {
	Keyword           string
	CompressionFlag   uint8 // 0 = uncompressed, 1 = zlib
	CompressionMethod uint8
	LanguageTag       string
	TranslatedKeyword string
	Body              []byte
}

func (c *ITXT) Type() TypeCode { return TypeITXT }

func (c *ITXT) Decode(r io.Reader, length int) error {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	kw, rest, err := splitKeyword(buf, "iTXt")
	if err != nil {
		return err
	}
	if len(rest) < 2 {
		return fmt.Errorf("%w: iTXt truncated after keyword", ErrInvalidChunkData)
	}
	flag, method := rest[0], rest[1]
	rest = rest[2:]
	langEnd := bytes.IndexByte(rest, 0)
	if langEnd < 0 {
		return fmt.Errorf("%w: iTXt has no language tag terminator", ErrInvalidChunkData)
	}
	lang := rest[:langEnd]
	rest = rest[langEnd+1:]
	transEnd := bytes.IndexByte(rest, 0)
	if transEnd < 0 {
		return fmt.Errorf("%w: iTXt has no translated keyword terminator", ErrInvalidChunkData)
	}
	c.Keyword = kw
	c.CompressionFlag = flag
	c.CompressionMethod = method
	c.LanguageTag = string(lang)
	c.TranslatedKeyword = string(rest[:transEnd])
	c.Body = rest[transEnd+1:]
	return nil
}

func (c *ITXT) validate() error {
	if c.CompressionFlag > 1 {
		return fmt.Errorf("%w: iTXt compression flag %d unknown", ErrInvalidChunkData, c.CompressionFlag)
	}
	if c.CompressionFlag == 1 && c.CompressionMethod != 0 {
		return fmt.Errorf("%w: iTXt compression method %d unknown", ErrInvalidChunkData, c.CompressionMethod)
	}
	for i := 0; i < len(c.LanguageTag); i++ {
		b := c.LanguageTag[i]
		if !isLetter(b) && !(b >= '0' && b <= '9') && b != '-' {
			return fmt.Errorf("%w: iTXt language tag %q has invalid byte 0x%02X", ErrInvalidChunkData, c.LanguageTag, b)
		}
	}
	return nil
}

func (c *ITXT) Length() (int, error) {
	kw, err := encodeKeyword(c.Keyword, "iTXt")
	if err != nil {
		return 0, err
	}
	if err := c.validate(); err != nil {
		return 0, err
	}
	// Latin-1 keyword bytes plus the UTF-8 counts of the remaining
	// string fields. The two encodings agree only by accident of the
	// keyword character set, so the keyword count comes from its
	// encoded form.
	return len(kw) + 1 + 1 + 1 + len(c.LanguageTag) + 1 + len(c.TranslatedKeyword) + 1 + len(c.Body), nil
}

func (c *ITXT) Encode(w io.Writer) error {
	kw, err := encodeKeyword(c.Keyword, "iTXt")
	if err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}
	out := make([]byte, 0, len(kw)+5+len(c.LanguageTag)+len(c.TranslatedKeyword)+len(c.Body))
	out = append(out, kw...)
	out = append(out, 0, c.CompressionFlag, c.CompressionMethod)
	out = append(out, c.LanguageTag...)
	out = append(out, 0)
	out = append(out, c.TranslatedKeyword...)
	out = append(out, 0)
	out = append(out, c.Body...)
	_, err = w.Write(out)
	return err
}

// Text returns the UTF-8 text body, inflating it when the
// compression flag is set.
func (c *ITXT) Text() (string, error) {
	if c.CompressionFlag == 0 {
		return string(c.Body), nil
	}
	raw, err := inflate(c.Body, "iTXt")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetText stores s as the text body, compressed when compress is set.
func (c *ITXT) SetText(s string, compress bool) {
	if compress {
		c.CompressionFlag = 1
		c.CompressionMethod = 0
		c.Body = deflate([]byte(s))
		return
	}
	c.CompressionFlag = 0
	c.Body = []byte(s)
}

// ICCP embeds a zlib-compressed ICC color profile. The profile is
// kept in wire form; use Profile and SetProfile for the plain bytes.
type ICCP struct {
	Name              string // Latin-1 keyword, 1..79 bytes
	CompressionMethod uint8
	Compressed        []byte
}

func (c *ICCP) Type() TypeCode { return TypeICCP }

func (c *ICCP) Decode(r io.Reader, length int) error {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	name, rest, err := splitKeyword(buf, "iCCP")
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("%w: iCCP truncated after profile name", ErrInvalidChunkData)
	}
	c.Name = name
	c.CompressionMethod = rest[0]
	c.Compressed = rest[1:]
	return nil
}

func (c *ICCP) Length() (int, error) {
	name, err := encodeKeyword(c.Name, "iCCP")
	if err != nil {
		return 0, err
	}
	if c.CompressionMethod != 0 {
		return 0, fmt.Errorf("%w: iCCP compression method %d unknown", ErrInvalidChunkData, c.CompressionMethod)
	}
	return len(name) + 1 + 1 + len(c.Compressed), nil
}

func (c *ICCP) Encode(w io.Writer) error {
	name, err := encodeKeyword(c.Name, "iCCP")
	if err != nil {
		return err
	}
	out := make([]byte, 0, len(name)+2+len(c.Compressed))
	out = append(out, name...)
	out = append(out, 0, c.CompressionMethod)
	out = append(out, c.Compressed...)
	_, err = w.Write(out)
	return err
}

// Profile inflates and returns the ICC profile bytes.
func (c *ICCP) Profile() ([]byte, error) {
	return inflate(c.Compressed, "iCCP")
}

// SetProfile compresses the ICC profile bytes into the chunk body.
func (c *ICCP) SetProfile(p []byte) {
	c.CompressionMethod = 0
	c.Compressed = deflate(p)
}
