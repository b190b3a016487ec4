package chunk

import "errors"

var (
	// ErrInvalidFormat reports a chunk type code that is not four
	// ASCII letters.
	ErrInvalidFormat = errors.New("chunk: invalid type code format")

	// ErrInvalidChunkData reports that a chunk's own field validation
	// failed: a value out of range, a buffer of the wrong size, a
	// malformed keyword, and so on.
	ErrInvalidChunkData = errors.New("chunk: invalid chunk data")

	// ErrDuplicateRegistration reports a second registration for a
	// type code without the override flag.
	ErrDuplicateRegistration = errors.New("chunk: type code already registered")

	// ErrFrozen reports a registration attempt on a frozen registry.
	ErrFrozen = errors.New("chunk: registry is frozen")
)
