package chunk

import (
	"errors"
	"testing"
)

func testDef(code TypeCode) Definition {
	return Definition{Code: code, New: func() Chunk { return NewRaw(code) }}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDef(TypeGAMA)); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := r.Register(testDef(TypeGAMA)); !errors.Is(err, ErrDuplicateRegistration) {
		t.Errorf("duplicate registration error = %v, want ErrDuplicateRegistration", err)
	}

	over := testDef(TypeGAMA)
	over.Override = true
	if err := r.Register(over); err != nil {
		t.Errorf("override registration: %v", err)
	}
}

func TestRegistryFreeze(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDef(TypeGAMA)); err != nil {
		t.Fatal(err)
	}
	r.Freeze()
	if !r.Frozen() {
		t.Fatal("Frozen() = false after Freeze")
	}
	if err := r.Register(testDef(TypeTIME)); !errors.Is(err, ErrFrozen) {
		t.Errorf("post-freeze registration error = %v, want ErrFrozen", err)
	}
	if _, ok := r.Lookup(TypeGAMA); !ok {
		t.Error("lookup after freeze failed")
	}
}

func TestRegistryClone(t *testing.T) {
	base := DefaultRegistry()
	custom := base.Clone()
	if custom.Frozen() {
		t.Fatal("clone of a frozen registry must start mutable")
	}
	blob := mustTypeCode("bLOb")
	if err := custom.Register(testDef(blob)); err != nil {
		t.Fatalf("registering custom type on clone: %v", err)
	}
	custom.Freeze()

	if _, ok := custom.Lookup(blob); !ok {
		t.Error("custom type missing from clone")
	}
	if _, ok := base.Lookup(blob); ok {
		t.Error("custom type leaked into the default registry")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	if r != DefaultRegistry() {
		t.Error("DefaultRegistry must return the same instance")
	}
	if !r.Frozen() {
		t.Error("default registry must be frozen")
	}
	for _, def := range BuiltinDefinitions() {
		got, ok := r.Lookup(def.Code)
		if !ok {
			t.Errorf("built-in %s not registered", def.Code)
			continue
		}
		if c := got.New(); c.Type() != def.Code {
			t.Errorf("factory for %s builds chunk of type %s", def.Code, c.Type())
		}
	}
}
