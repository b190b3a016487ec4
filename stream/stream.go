// Package stream reads and writes the PNG byte framing: the 8-byte
// signature and the length-prefixed, CRC32-protected chunk records,
// dispatching payload decode/encode to the codecs a chunk registry
// supplies.
//
// All integers on the wire are big-endian. Per chunk:
//
//	+------------+ +------------+ +------------+ +-------+
//	|   LENGTH   | | CHUNK TYPE | | CHUNK DATA | |  CRC  |
//	+------------+ +------------+ +------------+ +-------+
//
// The CRC32 covers the type code and data, not the length.
package stream

import "errors"

// pngSignature is the fixed 8-byte mark opening every PNG datastream:
// 137 80 78 71 13 10 26 10.
const pngSignature = "\x89\x50\x4E\x47\x0D\x0A\x1A\x0A"

var (
	// ErrMalformedChunk reports a negative chunk length, on read from
	// the wire or on write from a codec's Length.
	ErrMalformedChunk = errors.New("stream: malformed chunk")

	// ErrCrcMismatch reports a trailing CRC that does not match the
	// CRC32 computed over the type code and payload.
	ErrCrcMismatch = errors.New("stream: crc mismatch")

	// ErrMissingSignature reports that the stream does not start with
	// the PNG signature where a document was expected.
	ErrMissingSignature = errors.New("stream: missing png signature")
)
