package stream

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"pngwire.dev/chunk"
	"pngwire.dev/document"
)

// minimalPNG is a complete two-chunk datastream: signature, a 13-byte
// IHDR (10x11, bit depth 8, color type 2, interlaced), and IEND. The
// trailing CRCs are the reference values for those exact bytes.
var minimalPNG = []byte{
	0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A,
	// IHDR
	0x00, 0x00, 0x00, 0x0D,
	'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x0A, // width 10
	0x00, 0x00, 0x00, 0x0B, // height 11
	0x08, 0x02, 0x00, 0x00, 0x01,
	0xBE, 0x0B, 0xBB, 0xD9,
	// IEND
	0x00, 0x00, 0x00, 0x00,
	'I', 'E', 'N', 'D',
	0xAE, 0x42, 0x60, 0x82,
}

func TestReadDocumentMinimal(t *testing.T) {
	r := NewReader(bytes.NewReader(minimalPNG), nil)
	doc, err := r.ReadDocument()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Len() != 2 {
		t.Fatalf("chunk count = %d, want 2", doc.Len())
	}
	ihdr, i, err := document.FindFirst[*chunk.IHDR](doc, chunk.TypeIHDR)
	if err != nil || i != 0 {
		t.Fatalf("IHDR lookup = (%d, %v)", i, err)
	}
	if ihdr.Width != 10 || ihdr.Height != 11 || ihdr.BitDepth != 8 || ihdr.ColorType != 2 || ihdr.InterlaceMethod != 1 {
		t.Errorf("IHDR fields = %+v", ihdr)
	}
	if doc.At(1).Type() != chunk.TypeIEND {
		t.Errorf("second chunk = %s, want IEND", doc.At(1).Type())
	}
}

func TestWriteDocumentReproducesBytes(t *testing.T) {
	r := NewReader(bytes.NewReader(minimalPNG), nil)
	doc, err := r.ReadDocument()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := NewWriter(&out).WriteDocument(doc); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), minimalPNG) {
		t.Errorf("re-encoded bytes differ:\n got %X\nwant %X", out.Bytes(), minimalPNG)
	}
}

func TestCrcMismatchOnCorruption(t *testing.T) {
	// Flipping any byte of the type code or payload without fixing
	// the trailing CRC must fail the read; so must flipping the CRC
	// itself.
	// Every byte from the first type-code byte of IHDR through its
	// CRC field.
	start := 8 + 4
	end := start + 4 + 13 + 4
	for pos := start; pos < end; pos++ {
		corrupted := append([]byte(nil), minimalPNG...)
		corrupted[pos] ^= 0x01

		r := NewReader(bytes.NewReader(corrupted), nil)
		_, err := r.ReadDocument()
		if err == nil {
			t.Fatalf("corruption at byte %d went undetected", pos)
		}
		// Most flips surface as a CRC mismatch; a flip inside the
		// type code can instead hit an unregistered-type Raw decode,
		// still caught by the CRC, or an invalid code letter.
		if !errors.Is(err, ErrCrcMismatch) && !errors.Is(err, ErrMalformedChunk) && !errors.Is(err, chunk.ErrInvalidChunkData) {
			t.Errorf("corruption at byte %d: unexpected error class %v", pos, err)
		}
	}
}

func TestReadChunkNegativeLength(t *testing.T) {
	in := []byte{0x80, 0x00, 0x00, 0x00, 'I', 'D', 'A', 'T'}
	r := NewReader(bytes.NewReader(in), nil)
	if _, err := r.ReadChunk(); !errors.Is(err, ErrMalformedChunk) {
		t.Errorf("error = %v, want ErrMalformedChunk", err)
	}
}

func TestReadChunkTruncated(t *testing.T) {
	// Truncation is an I/O-layer failure, not a content error.
	for cut := 1; cut < len(minimalPNG)-8; cut++ {
		r := NewReader(bytes.NewReader(minimalPNG[8:8+cut]), nil)
		_, err := r.ReadChunk()
		if err == nil {
			// A cut can land exactly on a chunk boundary; read again.
			_, err = r.ReadChunk()
		}
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("cut at %d: error = %v, want EOF class", cut, err)
		}
	}
}

func TestSignatureProbeNonDestructive(t *testing.T) {
	payload := []byte("after")
	in := append(append([]byte(nil), minimalPNG[:8]...), payload...)

	r := NewReader(bytes.NewReader(in), nil)
	ok, err := r.ReadSignature()
	if err != nil || !ok {
		t.Fatalf("probe on signature = (%v, %v)", ok, err)
	}
	// A second probe fails and must not consume the stream.
	ok, err = r.ReadSignature()
	if err != nil || ok {
		t.Fatalf("probe on non-signature = (%v, %v)", ok, err)
	}
	rest, err := io.ReadAll(r.br)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rest, payload) {
		t.Errorf("probe consumed bytes: remaining %q", rest)
	}

	// Probe on an empty stream reports false cleanly.
	ok, err = NewReader(bytes.NewReader(nil), nil).ReadSignature()
	if err != nil || ok {
		t.Errorf("probe on empty stream = (%v, %v)", ok, err)
	}
}

func TestUnknownChunkBecomesRaw(t *testing.T) {
	var body bytes.Buffer
	w := NewWriter(&body)
	if err := w.WriteChunk(&chunk.Raw{Code: mustCode(t, "prIv"), Data: []byte{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}

	r := NewReader(bytes.NewReader(body.Bytes()), nil)
	c, err := r.ReadChunk()
	if err != nil {
		t.Fatal(err)
	}
	raw, ok := c.(*chunk.Raw)
	if !ok {
		t.Fatalf("unregistered type decoded as %T", c)
	}
	if raw.Code.String() != "prIv" || !bytes.Equal(raw.Data, []byte{1, 2, 3}) {
		t.Errorf("raw chunk = %+v", raw)
	}
}

func TestBackToBackDocuments(t *testing.T) {
	double := append(append([]byte(nil), minimalPNG...), minimalPNG...)

	// Reading one document stops exactly at the boundary: here, half
	// the total length.
	br := bytes.NewReader(double)
	r := NewReader(br, nil)
	if _, err := r.ReadDocument(); err != nil {
		t.Fatal(err)
	}
	consumed := len(double) - br.Len() - r.br.Buffered()
	if consumed != len(minimalPNG) {
		t.Errorf("consumed %d bytes, want %d", consumed, len(minimalPNG))
	}

	// Reading all returns both.
	docs, err := NewReader(bytes.NewReader(double), nil).ReadAllDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("document count = %d, want 2", len(docs))
	}
	for _, doc := range docs {
		if doc.Len() != 2 {
			t.Errorf("document chunk count = %d, want 2", doc.Len())
		}
	}

	// An empty stream holds zero documents.
	docs, err = NewReader(bytes.NewReader(nil), nil).ReadAllDocuments()
	if err != nil || len(docs) != 0 {
		t.Errorf("empty stream = (%d docs, %v)", len(docs), err)
	}
}

func TestReadDocumentMissingSignature(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("not a png")), nil)
	if _, err := r.ReadDocument(); !errors.Is(err, ErrMissingSignature) {
		t.Errorf("error = %v, want ErrMissingSignature", err)
	}
}

func TestRoundTripFullDocument(t *testing.T) {
	ztxt := &chunk.ZTXT{Keyword: "Comment"}
	if err := ztxt.SetText("round trip body"); err != nil {
		t.Fatal(err)
	}
	doc := document.New(nil)
	for _, c := range []chunk.Chunk{
		&chunk.IHDR{Width: 4, Height: 4, BitDepth: 8, ColorType: 3},
		&chunk.GAMA{Gamma: 45455},
		&chunk.PLTE{Entries: []chunk.PaletteEntry{{R: 255}, {G: 255}, {B: 255}}},
		&chunk.TRNS{Data: []byte{0x80}},
		&chunk.PHYS{PixelsPerUnitX: 2835, PixelsPerUnitY: 2835, Unit: 1},
		&chunk.IDAT{Data: []byte{0x78, 0x9C, 0x03, 0x00, 0x00, 0x00, 0x00, 0x01}},
		ztxt,
		&chunk.TIME{Year: 2024, Month: 6, Day: 1, Hour: 12},
		&chunk.IEND{},
	} {
		doc.Append(c)
	}
	if err := document.NewOrderingEngine(nil).ValidateDocument(doc); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewWriter(&buf).WriteDocument(doc); err != nil {
		t.Fatal(err)
	}
	got, err := NewReader(bytes.NewReader(buf.Bytes()), nil).ReadDocument()
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != doc.Len() {
		t.Fatalf("chunk count = %d, want %d", got.Len(), doc.Len())
	}
	for i := 0; i < doc.Len(); i++ {
		if got.At(i).Type() != doc.At(i).Type() {
			t.Errorf("chunk %d type = %s, want %s", i, got.At(i).Type(), doc.At(i).Type())
		}
	}

	// A second encode of the decoded document is byte-identical.
	var again bytes.Buffer
	if err := NewWriter(&again).WriteDocument(got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Bytes(), buf.Bytes()) {
		t.Error("second encode differs from first")
	}
}

func TestWriteChunkRejectsInvalidPayload(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	err := w.WriteChunk(&chunk.IHDR{Width: 0, Height: 1, BitDepth: 8, ColorType: 2})
	if !errors.Is(err, chunk.ErrInvalidChunkData) {
		t.Errorf("error = %v, want ErrInvalidChunkData", err)
	}
	if buf.Len() != 0 {
		t.Errorf("failed validation still wrote %d bytes", buf.Len())
	}
}

func mustCode(t *testing.T, s string) chunk.TypeCode {
	t.Helper()
	code, err := chunk.TypeCodeFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return code
}
