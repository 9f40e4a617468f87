package sat

import "sort"

// Unsat-core extraction. Every learned clause keeps, in the solver's
// resolution ledger, the handles of the clauses it was resolved from. When
// the search hits a conflict at level 0, the conflicting clause and the
// antecedents of every level-0 assignment seed a walk of that ledger;
// expanding learned clauses into their premises until only formula clauses
// remain yields a subset of the input whose conjunction is unsatisfiable.
//
// Pure-literal assignments never seed the walk: a Hobson choice satisfies
// every clause its variable occurs in, so it cannot lie on a path to a
// conflict.

// unsatCore returns the core clauses in ingest order. Must be called while
// the trail still holds the level-0 assignments that produced the conflict.
func (s *Solver) unsatCore(confl ClauseRef) [][]Literal {
	pending := []ClauseRef{confl}
	for _, l := range s.trail {
		r := s.reasons[l.VarID()]
		switch r.kind {
		case reasonPropagated, reasonTopLevelUnit:
			pending = append(pending, r.clause)
		}
	}

	visited := map[ClauseRef]struct{}{}
	var slots []int
	for len(pending) > 0 {
		ref := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, ok := visited[ref]; ok {
			continue
		}
		visited[ref] = struct{}{}

		if ref.kind == kindFormula {
			slots = append(slots, int(ref.slot))
			continue
		}
		premises, ok := s.resolutions[ref]
		if !ok {
			panic("learned clause missing from the resolution ledger")
		}
		pending = append(pending, premises...)
	}

	sort.Ints(slots)
	core := make([][]Literal, len(slots))
	for i, slot := range slots {
		lits := s.store.formula[slot].literals
		core[i] = append([]Literal(nil), lits...)
	}
	return core
}
