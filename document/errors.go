package document

import "errors"

var (
	// ErrTypeMismatch reports that the concrete payload type stored
	// for a type code is not the type the caller asked for. This can
	// only happen when a custom registry decoded the code with a
	// different codec than the caller now expects.
	ErrTypeMismatch = errors.New("document: chunk payload type mismatch")

	// ErrNoDefinition reports a create request for a type code the
	// document's registry has no factory for.
	ErrNoDefinition = errors.New("document: no codec registered for type code")

	// Structural validity failures.
	ErrDuplicateHead     = errors.New("document: more than one head chunk")
	ErrDuplicateTerminal = errors.New("document: more than one terminal chunk")
	ErrMissingHead       = errors.New("document: no head chunk")
	ErrMissingTerminal   = errors.New("document: no terminal chunk")

	// ErrMultipleInstances reports more than one instance of a type
	// whose registration disallows multiples.
	ErrMultipleInstances = errors.New("document: multiple instances of single-instance chunk type")

	// Constraint declaration failures.
	ErrSelfConstraint    = errors.New("document: chunk type constrains itself")
	ErrInvalidConstraint = errors.New("document: ordering constraint targets head or terminal illegally")

	// ErrOrderingCycle reports a cycle in the must-follow graph.
	ErrOrderingCycle = errors.New("document: ordering constraints form a cycle")

	// ErrOrderingUnsatisfiable reports a stalled placement pass. The
	// cycle check makes this unreachable; it exists as a terminal
	// guard so a stall can never loop forever or emit a bad order.
	ErrOrderingUnsatisfiable = errors.New("document: ordering constraints unsatisfiable")
)
