package chunk

import (
	"fmt"
	"sync"
)

// Registry maps chunk type codes to their registered definitions. A
// registry starts mutable; Freeze makes it permanently read-only.
// Only a frozen registry is safe to share between goroutines.
type Registry struct {
	defs   map[TypeCode]Definition
	frozen bool
}

// NewRegistry returns an empty, mutable registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[TypeCode]Definition)}
}

// Register adds one definition. It fails with ErrFrozen after Freeze
// and with ErrDuplicateRegistration when the code is already taken
// and the definition does not carry the override flag.
func (r *Registry) Register(def Definition) error {
	if r.frozen {
		return fmt.Errorf("%w: cannot register %s", ErrFrozen, def.Code)
	}
	if def.New == nil {
		return fmt.Errorf("%w: definition for %s has no factory", ErrInvalidFormat, def.Code)
	}
	if _, taken := r.defs[def.Code]; taken && !def.Override {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, def.Code)
	}
	r.defs[def.Code] = def
	return nil
}

// RegisterAll registers every definition in the set, stopping at the
// first failure.
func (r *Registry) RegisterAll(defs []Definition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Freeze makes the registry read-only. Freezing twice is a no-op.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether the registry is read-only.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Lookup returns the definition registered for code, if any.
func (r *Registry) Lookup(code TypeCode) (Definition, bool) {
	def, ok := r.defs[code]
	return def, ok
}

// Clone returns a mutable copy. Use it to extend the frozen default
// registry with custom chunk types, then freeze the copy.
func (r *Registry) Clone() *Registry {
	out := NewRegistry()
	for code, def := range r.defs {
		out.defs[code] = def
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// DefaultRegistry returns the process-wide frozen registry holding
// the built-in chunk codecs. It is built once, on first use.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		if err := r.RegisterAll(BuiltinDefinitions()); err != nil {
			panic("chunk: building default registry: " + err.Error())
		}
		r.Freeze()
		defaultReg = r
	})
	return defaultReg
}
