package document

import (
	"fmt"

	"pngwire.dev/chunk"
)

// OrderingEngine validates a chunk list against its registry's
// multiplicity and ordering metadata and produces a re-ordered list
// satisfying every constraint. All working state is per-call; a
// frozen-registry engine is safe for concurrent use.
type OrderingEngine struct {
	// Registry supplies the per-type registration records.
	Registry *chunk.Registry

	// Head and Terminal are the two structurally mandatory types:
	// exactly one of each, head absolutely first, terminal absolutely
	// last. No declared constraint may reach past them.
	Head     chunk.TypeCode
	Terminal chunk.TypeCode
}

// NewOrderingEngine returns an engine over reg (nil selects the
// default registry) with the standard IHDR/IEND bounds.
func NewOrderingEngine(reg *chunk.Registry) *OrderingEngine {
	if reg == nil {
		reg = chunk.DefaultRegistry()
	}
	return &OrderingEngine{Registry: reg, Head: chunk.TypeIHDR, Terminal: chunk.TypeIEND}
}

// typeRecord accumulates what the scan pass learns about one type
// code: how many instances appear, whether multiples are allowed, and
// the merged must-follow edge set (value = first-instance exemption).
type typeRecord struct {
	allowMultiple bool
	expanded      bool
	total         int
	mustFollow    map[chunk.TypeCode]bool
}

type scanState struct {
	records  map[chunk.TypeCode]*typeRecord
	order    []chunk.TypeCode
	head     chunk.Chunk
	terminal chunk.Chunk
}

// Validate runs the scan, presence, and cycle passes over the list.
// It judges the chunk set and its constraint graph, not the list's
// current order; Reorder produces a compliant order.
func (e *OrderingEngine) Validate(chunks []chunk.Chunk) error {
	st, err := e.scan(chunks)
	if err != nil {
		return err
	}
	return e.checkCycles(st)
}

// ValidateDocument is Validate over d's chunk list.
func (e *OrderingEngine) ValidateDocument(d *Document) error {
	return e.Validate(d.Chunks())
}

// Reorder validates the list and returns a new list satisfying every
// constraint: head first, terminal last, every must-follow edge
// honored. Placement is stable: whenever several chunks are eligible,
// the one earliest in the input goes first, so same-type instances
// keep their relative order and the output is reproducible.
func (e *OrderingEngine) Reorder(chunks []chunk.Chunk) ([]chunk.Chunk, error) {
	st, err := e.scan(chunks)
	if err != nil {
		return nil, err
	}
	if err := e.checkCycles(st); err != nil {
		return nil, err
	}

	result := make([]chunk.Chunk, 0, len(chunks))
	result = append(result, st.head)
	placed := map[chunk.TypeCode]int{e.Head: 1}

	pool := make([]chunk.Chunk, 0, len(chunks)-2)
	for _, c := range chunks {
		if t := c.Type(); t != e.Head && t != e.Terminal {
			pool = append(pool, c)
		}
	}

	for len(pool) > 0 {
		i := e.nextEligible(st, placed, pool)
		if i < 0 {
			// Unreachable after a passing cycle check; kept as a
			// terminal guard against a stalled pass.
			return nil, fmt.Errorf("%w: %d chunks unplaced", ErrOrderingUnsatisfiable, len(pool))
		}
		c := pool[i]
		result = append(result, c)
		placed[c.Type()]++
		pool = append(pool[:i], pool[i+1:]...)
	}

	result = append(result, st.terminal)
	return result, nil
}

// ReorderDocument replaces d's chunk list with its reordered form.
func (e *OrderingEngine) ReorderDocument(d *Document) error {
	out, err := e.Reorder(d.Chunks())
	if err != nil {
		return err
	}
	d.SetChunks(out)
	return nil
}

// nextEligible returns the pool index of the first chunk whose every
// must-follow target is absent, fully placed, or covered by the
// first-instance exemption.
func (e *OrderingEngine) nextEligible(st *scanState, placed map[chunk.TypeCode]int, pool []chunk.Chunk) int {
scan:
	for i, c := range pool {
		code := c.Type()
		rec := st.records[code]
		for target, exempt := range rec.mustFollow {
			trec := st.records[target]
			if trec == nil || trec.total == 0 {
				continue // target not in the document
			}
			if placed[target] == trec.total {
				continue // target fully placed
			}
			if exempt && placed[code] == 0 {
				continue // first instance may jump ahead
			}
			continue scan
		}
		return i
	}
	return -1
}

// scan walks the list once, recording head/terminal instances,
// per-type instance counts, and the merged constraint graph.
func (e *OrderingEngine) scan(chunks []chunk.Chunk) (*scanState, error) {
	st := &scanState{records: make(map[chunk.TypeCode]*typeRecord)}
	for _, c := range chunks {
		code := c.Type()
		switch code {
		case e.Head:
			if st.head != nil {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateHead, code)
			}
			st.head = c
		case e.Terminal:
			if st.terminal != nil {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateTerminal, code)
			}
			st.terminal = c
		}
		rec, err := e.record(st, code, true)
		if err != nil {
			return nil, err
		}
		rec.total++
		if rec.total > 1 && !rec.allowMultiple {
			return nil, fmt.Errorf("%w: %s", ErrMultipleInstances, code)
		}
	}
	if st.head == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingHead, e.Head)
	}
	if st.terminal == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingTerminal, e.Terminal)
	}
	return st, nil
}

// record returns the record for code, creating it on first sight.
// With expand set, the type's own declared constraints are folded in;
// a record created only as the target of a must-precede edge stays
// unexpanded until the type itself shows up in the list.
func (e *OrderingEngine) record(st *scanState, code chunk.TypeCode, expand bool) (*typeRecord, error) {
	rec := st.records[code]
	if rec == nil {
		rec = &typeRecord{allowMultiple: true, mustFollow: make(map[chunk.TypeCode]bool)}
		if def, ok := e.Registry.Lookup(code); ok {
			rec.allowMultiple = def.AllowMultiple
		}
		st.records[code] = rec
		st.order = append(st.order, code)
	}
	if !expand || rec.expanded {
		return rec, nil
	}
	rec.expanded = true

	def, ok := e.Registry.Lookup(code)
	if !ok {
		return rec, nil // unknown type: unconstrained
	}
	for _, con := range def.MustFollow {
		switch {
		case con.Code == code:
			return nil, fmt.Errorf("%w: %s must follow itself", ErrSelfConstraint, code)
		case con.Code == e.Terminal:
			return nil, fmt.Errorf("%w: %s must follow terminal %s", ErrInvalidConstraint, code, e.Terminal)
		case code == e.Head:
			return nil, fmt.Errorf("%w: head %s declares a must-follow", ErrInvalidConstraint, code)
		}
		// Merge with non-exemption winning: once any declaration for
		// this pair is non-exempt, exempt stays off.
		if exempt, seen := rec.mustFollow[con.Code]; seen {
			rec.mustFollow[con.Code] = exempt && con.ExemptFirst
		} else {
			rec.mustFollow[con.Code] = con.ExemptFirst
		}
	}
	for _, target := range def.MustPrecede {
		switch {
		case target == code:
			return nil, fmt.Errorf("%w: %s must precede itself", ErrSelfConstraint, code)
		case target == e.Head:
			return nil, fmt.Errorf("%w: %s must precede head %s", ErrInvalidConstraint, code, e.Head)
		case code == e.Terminal:
			return nil, fmt.Errorf("%w: terminal %s declares a must-precede", ErrInvalidConstraint, code)
		}
		// A must-precede edge becomes a must-follow edge on the
		// target, never exemptible.
		trec, err := e.record(st, target, false)
		if err != nil {
			return nil, err
		}
		trec.mustFollow[code] = false
	}
	return rec, nil
}

// checkCycles depth-first-searches the must-follow graph from every
// node, failing on any edge back into the current path.
func (e *OrderingEngine) checkCycles(st *scanState) error {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[chunk.TypeCode]int, len(st.records))

	var visit func(code chunk.TypeCode) error
	visit = func(code chunk.TypeCode) error {
		switch state[code] {
		case onPath:
			return fmt.Errorf("%w: through %s", ErrOrderingCycle, code)
		case done:
			return nil
		}
		state[code] = onPath
		rec := st.records[code]
		if rec != nil {
			for target := range rec.mustFollow {
				if err := visit(target); err != nil {
					return err
				}
			}
		}
		state[code] = done
		return nil
	}

	for _, code := range st.order {
		if err := visit(code); err != nil {
			return err
		}
	}
	return nil
}
