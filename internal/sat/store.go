package sat

// ClauseKind discriminates the two clause populations owned by a Store.
type ClauseKind uint8

const (
	kindNone ClauseKind = iota
	kindFormula
	kindLearned
)

// ClauseRef is an opaque, stable handle to a clause in a Store. Formula
// handles stay valid for the lifetime of the store. Learned handles stay
// valid until the clause is dropped; a dropped slot is only reused after a
// generation bump, so a stale handle can never alias a newer clause.
//
// The zero value is the nil handle.
type ClauseRef struct {
	kind ClauseKind
	slot uint32
	gen  uint32
}

func (r ClauseRef) isNil() bool {
	return r.kind == kindNone
}

// Store owns every clause of a solve: the formula clauses created at ingest
// and the learned clauses created by conflict analysis. It is the sole owner;
// everything else (watch lists, trail reasons, analysis scratchpads) refers
// to clauses through ClauseRef handles.
type Store struct {
	formula []*Clause
	learned []*Clause // nil entries are free slots
	gens    []uint32  // generation per learned slot
	free    []uint32
}

func NewStore() *Store {
	return &Store{}
}

// AddFormula normalizes and stores a formula clause. Duplicate literals are
// removed (first occurrence wins). If the clause contains a literal and its
// negation it is a tautology: nothing is stored and ok is false, which the
// caller treats as "trivially satisfied, skip".
//
// The literal slice is copied; callers may reuse their buffer.
func (st *Store) AddFormula(lits []Literal) (ref ClauseRef, ok bool) {
	seen := make(map[Literal]struct{}, len(lits))
	normalized := make([]Literal, 0, len(lits))
	for _, l := range lits {
		if _, tauto := seen[l.Opposite()]; tauto {
			return ClauseRef{}, false
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		normalized = append(normalized, l)
	}
	if len(normalized) == 0 {
		panic("empty clause added to store")
	}

	st.formula = append(st.formula, &Clause{
		literals: normalized,
		kind:     kindFormula,
	})
	return ClauseRef{kind: kindFormula, slot: uint32(len(st.formula) - 1)}, true
}

// AddLearned stores a clause produced by conflict analysis. Analysis already
// guarantees distinct variables, so no normalization happens here. The
// literal slice is copied.
func (st *Store) AddLearned(lits []Literal, lbd int) ClauseRef {
	c := &Clause{
		literals: append([]Literal(nil), lits...),
		kind:     kindLearned,
		lbd:      lbd,
	}

	var slot uint32
	if n := len(st.free); n > 0 {
		slot = st.free[n-1]
		st.free = st.free[:n-1]
		st.gens[slot]++
		st.learned[slot] = c
	} else {
		slot = uint32(len(st.learned))
		st.learned = append(st.learned, c)
		st.gens = append(st.gens, 0)
	}
	return ClauseRef{kind: kindLearned, slot: slot, gen: st.gens[slot]}
}

// DropLearned frees a learned clause. The slot is recycled by a later
// AddLearned under a fresh generation.
func (st *Store) DropLearned(ref ClauseRef) {
	if ref.kind != kindLearned {
		panic("drop of non-learned clause")
	}
	st.check(ref)
	st.learned[ref.slot] = nil
	st.free = append(st.free, ref.slot)
}

// Get resolves a handle. Resolving a nil or stale handle is an invariant
// violation and panics.
func (st *Store) Get(ref ClauseRef) *Clause {
	st.check(ref)
	if ref.kind == kindFormula {
		return st.formula[ref.slot]
	}
	return st.learned[ref.slot]
}

func (st *Store) check(ref ClauseRef) {
	switch ref.kind {
	case kindFormula:
		if int(ref.slot) >= len(st.formula) {
			panic("formula clause handle out of range")
		}
	case kindLearned:
		if int(ref.slot) >= len(st.learned) ||
			st.learned[ref.slot] == nil ||
			st.gens[ref.slot] != ref.gen {
			panic("stale learned clause handle")
		}
	default:
		panic("nil clause handle")
	}
}

// NumFormula returns the number of stored formula clauses.
func (st *Store) NumFormula() int {
	return len(st.formula)
}

// NumLearned returns the number of live learned clauses.
func (st *Store) NumLearned() int {
	return len(st.learned) - len(st.free)
}

// FormulaRefs returns handles to all formula clauses in ingest order.
func (st *Store) FormulaRefs() []ClauseRef {
	refs := make([]ClauseRef, len(st.formula))
	for i := range st.formula {
		refs[i] = ClauseRef{kind: kindFormula, slot: uint32(i)}
	}
	return refs
}

// LearnedRefs returns handles to all live learned clauses in slot order.
func (st *Store) LearnedRefs() []ClauseRef {
	refs := make([]ClauseRef, 0, st.NumLearned())
	for slot, c := range st.learned {
		if c == nil {
			continue
		}
		refs = append(refs, ClauseRef{kind: kindLearned, slot: uint32(slot), gen: st.gens[slot]})
	}
	return refs
}
