package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/snksoft/crc"

	"pngwire.dev/chunk"
	"pngwire.dev/document"
)

// Reader decodes chunk records from a byte stream. It buffers the
// underlying reader to support the non-destructive signature probe.
type Reader struct {
	br  *bufio.Reader
	reg *chunk.Registry
}

// NewReader returns a Reader decoding payloads with reg. A nil reg
// selects the default registry.
func NewReader(r io.Reader, reg *chunk.Registry) *Reader {
	if reg == nil {
		reg = chunk.DefaultRegistry()
	}
	return &Reader{br: bufio.NewReader(r), reg: reg}
}

// ReadSignature probes for the 8-byte PNG signature at the current
// position. On a match it consumes the signature and reports true; on
// a mismatch or clean end of stream it leaves the position unchanged
// and reports false. A stream may carry zero or more documents
// back-to-back, so the probe must not destroy non-signature bytes.
func (r *Reader) ReadSignature() (bool, error) {
	peek, err := r.br.Peek(len(pngSignature))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	if string(peek) != pngSignature {
		return false, nil
	}
	if _, err := r.br.Discard(len(pngSignature)); err != nil {
		return false, err
	}
	return true, nil
}

// ReadChunk decodes the next chunk record. The stream must sit
// immediately after a signature or a previous chunk. An unregistered
// type code decodes into a chunk.Raw rather than failing. Truncation
// surfaces as io.EOF or io.ErrUnexpectedEOF, distinct from the
// content errors.
//
// The codec contract requires Decode to consume exactly the declared
// payload length; a codec that reads short or long desynchronizes the
// framing and is not detected here.
func (r *Reader) ReadChunk() (chunk.Chunk, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.br, lenBuf[:]); err != nil {
		return nil, err
	}
	length := int32(binary.BigEndian.Uint32(lenBuf[:]))
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrMalformedChunk, length)
	}

	// CRC scope opens here: it covers the type code and payload.
	h := crc.NewHash(crc.CRC32)

	var typeBuf [4]byte
	if _, err := io.ReadFull(r.br, typeBuf[:]); err != nil {
		return nil, err
	}
	h.Update(typeBuf[:])
	code, err := chunk.TypeCodeFromUint32(binary.BigEndian.Uint32(typeBuf[:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedChunk, err)
	}

	var c chunk.Chunk
	if def, ok := r.reg.Lookup(code); ok {
		c = def.New()
	} else {
		c = chunk.NewRaw(code)
	}
	payload := io.TeeReader(io.LimitReader(r.br, int64(length)), h)
	if err := c.Decode(payload, int(length)); err != nil {
		return nil, err
	}
	computed := uint32(h.CRC())

	var crcBuf [4]byte
	if _, err := io.ReadFull(r.br, crcBuf[:]); err != nil {
		return nil, err
	}
	stored := binary.BigEndian.Uint32(crcBuf[:])
	if stored != computed {
		return nil, fmt.Errorf("%w: %s stored 0x%08X, computed 0x%08X", ErrCrcMismatch, code, stored, computed)
	}
	return c, nil
}

// ReadDocument reads one complete document: the signature, then chunk
// records up to and including the terminal IEND. It fails with
// ErrMissingSignature when the stream does not open with the
// signature.
func (r *Reader) ReadDocument() (*document.Document, error) {
	ok, err := r.ReadSignature()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMissingSignature
	}
	return r.readBody()
}

func (r *Reader) readBody() (*document.Document, error) {
	doc := document.New(r.reg)
	for {
		c, err := r.ReadChunk()
		if err != nil {
			return nil, err
		}
		doc.Append(c)
		if c.Type() == chunk.TypeIEND {
			return doc, nil
		}
	}
}

// ReadAllDocuments reads back-to-back documents until the signature
// probe fails, consuming each one completely. An empty stream yields
// an empty slice.
func (r *Reader) ReadAllDocuments() ([]*document.Document, error) {
	var docs []*document.Document
	for {
		ok, err := r.ReadSignature()
		if err != nil {
			return docs, err
		}
		if !ok {
			return docs, nil
		}
		doc, err := r.readBody()
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
}
