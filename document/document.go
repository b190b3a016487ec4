// Package document holds the ordered chunk list of one logical PNG
// stream and the ordering engine that validates and re-sorts it.
//
// A Document is plain in-memory state: none of its operations touch a
// stream, and its structural invariants (one head chunk first, one
// terminal chunk last, multiplicity and ordering rules) are checked
// only on demand so an edit sequence may pass through invalid
// intermediate states. A Document must not be shared between
// goroutines without external locking.
package document

import (
	"fmt"

	"pngwire.dev/chunk"
)

// Document owns an ordered list of chunks from head to terminal. The
// zero Document is not usable; call New.
type Document struct {
	reg    *chunk.Registry
	head   chunk.TypeCode
	chunks []chunk.Chunk
}

// New returns an empty document bound to reg. A nil reg selects the
// default registry. The head type anchoring insertions is IHDR.
func New(reg *chunk.Registry) *Document {
	if reg == nil {
		reg = chunk.DefaultRegistry()
	}
	return &Document{reg: reg, head: chunk.TypeIHDR}
}

// Registry returns the registry the document was created with.
func (d *Document) Registry() *chunk.Registry { return d.reg }

// Len returns the number of chunks in the list.
func (d *Document) Len() int { return len(d.chunks) }

// At returns the chunk at index i.
func (d *Document) At(i int) chunk.Chunk { return d.chunks[i] }

// Chunks returns the backing chunk list. The slice is shared with the
// document; callers rearranging it bypass every list operation here.
func (d *Document) Chunks() []chunk.Chunk { return d.chunks }

// SetChunks replaces the entire chunk list.
func (d *Document) SetChunks(chunks []chunk.Chunk) { d.chunks = chunks }

// Append adds c at the end of the list.
func (d *Document) Append(c chunk.Chunk) {
	d.chunks = append(d.chunks, c)
}

// FindFirstIndex returns the index of the first chunk with the given
// type code, or -1. No payload type checking is done.
func (d *Document) FindFirstIndex(code chunk.TypeCode) int {
	for i, c := range d.chunks {
		if c.Type() == code {
			return i
		}
	}
	return -1
}

// IndexAfter scans backward and returns one past the last chunk whose
// type is in codes, or 0 when none is present or codes is empty. The
// backward scan anchors insertion after the last occurrence of any
// preceding type, which is what multi-instance placement needs.
func (d *Document) IndexAfter(codes ...chunk.TypeCode) int {
	for i := len(d.chunks) - 1; i >= 0; i-- {
		t := d.chunks[i].Type()
		for _, code := range codes {
			if t == code {
				return i + 1
			}
		}
	}
	return 0
}

// Insert places c immediately after the last occurrence of any of the
// preceding types (the head type always counts as one) and returns
// the insertion index.
func (d *Document) Insert(c chunk.Chunk, preceding ...chunk.TypeCode) int {
	at := d.anchor(preceding)
	d.insertAt(at, c)
	return at
}

func (d *Document) anchor(preceding []chunk.TypeCode) int {
	codes := make([]chunk.TypeCode, 0, len(preceding)+1)
	codes = append(codes, preceding...)
	codes = append(codes, d.head)
	return d.IndexAfter(codes...)
}

func (d *Document) insertAt(i int, c chunk.Chunk) {
	d.chunks = append(d.chunks, nil)
	copy(d.chunks[i+1:], d.chunks[i:])
	d.chunks[i] = c
}

// RemoveAll removes every chunk with the given type code and returns
// how many were removed.
func (d *Document) RemoveAll(code chunk.TypeCode) int {
	kept := d.chunks[:0]
	removed := 0
	for _, c := range d.chunks {
		if c.Type() == code {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(d.chunks); i++ {
		d.chunks[i] = nil
	}
	d.chunks = kept
	return removed
}

// RemoveFirst removes the first chunk with the given type code and
// reports whether one was found.
func (d *Document) RemoveFirst(code chunk.TypeCode) bool {
	i := d.FindFirstIndex(code)
	if i < 0 {
		return false
	}
	d.removeAt(i)
	return true
}

func (d *Document) removeAt(i int) chunk.Chunk {
	c := d.chunks[i]
	copy(d.chunks[i:], d.chunks[i+1:])
	d.chunks[len(d.chunks)-1] = nil
	d.chunks = d.chunks[:len(d.chunks)-1]
	return c
}

// FindAll returns every chunk with the given type code as T. It fails
// with ErrTypeMismatch when a matching chunk's concrete type is not T.
func FindAll[T chunk.Chunk](d *Document, code chunk.TypeCode) ([]T, error) {
	var out []T
	for i, c := range d.chunks {
		if c.Type() != code {
			continue
		}
		t, ok := c.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %s at index %d is %T", ErrTypeMismatch, code, i, c)
		}
		out = append(out, t)
	}
	return out, nil
}

// FindFirst returns the first chunk with the given type code as T and
// its index, or a zero T and -1 when none is present. It fails with
// ErrTypeMismatch when the stored concrete type is not T.
func FindFirst[T chunk.Chunk](d *Document, code chunk.TypeCode) (T, int, error) {
	var zero T
	i := d.FindFirstIndex(code)
	if i < 0 {
		return zero, -1, nil
	}
	t, ok := d.chunks[i].(T)
	if !ok {
		return zero, -1, fmt.Errorf("%w: %s at index %d is %T", ErrTypeMismatch, code, i, d.chunks[i])
	}
	return t, i, nil
}

// FirstOrCreate returns the first chunk with the given type code,
// constructing a fresh one through the registry when none exists.
// The anchor is one past the last occurrence of any preceding type
// (head included). A new chunk is inserted at the anchor. An existing
// chunk is relocated to the anchor only when reposition is set and it
// currently sits before the anchor; a chunk at or past the anchor is
// never moved later.
func FirstOrCreate[T chunk.Chunk](d *Document, code chunk.TypeCode, reposition bool, preceding ...chunk.TypeCode) (T, bool, int, error) {
	var zero T
	if i := d.FindFirstIndex(code); i >= 0 {
		t, ok := d.chunks[i].(T)
		if !ok {
			return zero, false, -1, fmt.Errorf("%w: %s at index %d is %T", ErrTypeMismatch, code, i, d.chunks[i])
		}
		at := d.anchor(preceding)
		if reposition && i < at {
			c := d.removeAt(i)
			at--
			d.insertAt(at, c)
			return t, false, at, nil
		}
		return t, false, i, nil
	}
	def, ok := d.reg.Lookup(code)
	if !ok {
		return zero, false, -1, fmt.Errorf("%w: %s", ErrNoDefinition, code)
	}
	c := def.New()
	t, ok := c.(T)
	if !ok {
		return zero, false, -1, fmt.Errorf("%w: registry builds %T for %s", ErrTypeMismatch, c, code)
	}
	at := d.Insert(c, preceding...)
	return t, true, at, nil
}
