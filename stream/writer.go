package stream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/snksoft/crc"

	"pngwire.dev/chunk"
	"pngwire.dev/document"
)

// Writer encodes chunk records to a byte stream. On any failure the
// bytes already written stay written; the caller owns the stream
// state and decides whether to abandon it.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSignature emits the 8-byte PNG signature.
func (wr *Writer) WriteSignature() error {
	_, err := io.WriteString(wr.w, pngSignature)
	return err
}

// WriteChunk encodes one chunk record: the payload length from the
// chunk's own Length (which also runs its field validation), the type
// code, the payload, and the trailing CRC32 over type code and
// payload.
func (wr *Writer) WriteChunk(c chunk.Chunk) error {
	n, err := c.Length()
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: %s computed negative length %d", ErrMalformedChunk, c.Type(), n)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(n))
	if _, err := wr.w.Write(lenBuf[:]); err != nil {
		return err
	}

	h := crc.NewHash(crc.CRC32)
	typeBuf := c.Type().Bytes()
	if _, err := wr.w.Write(typeBuf[:]); err != nil {
		return err
	}
	h.Update(typeBuf[:])

	if n > 0 {
		cw := &countingWriter{w: io.MultiWriter(wr.w, h)}
		if err := c.Encode(cw); err != nil {
			return err
		}
		if cw.n != n {
			return fmt.Errorf("%w: %s encoded %d bytes, Length computed %d", chunk.ErrInvalidChunkData, c.Type(), cw.n, n)
		}
	}

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], uint32(h.CRC()))
	_, err = wr.w.Write(crcBuf[:])
	return err
}

// WriteDocument emits the signature followed by every chunk in list
// order. It does not validate or reorder; run the ordering engine
// first when the document's order is not already known good.
func (wr *Writer) WriteDocument(d *document.Document) error {
	if err := wr.WriteSignature(); err != nil {
		return err
	}
	for _, c := range d.Chunks() {
		if err := wr.WriteChunk(c); err != nil {
			return err
		}
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n
	return n, err
}
