package sat

import "strings"

// Clause is an ordered sequence of distinct literals together with its two
// watch indices. The literal slice is fixed after storage: propagation moves
// the watch indices, never the literals, so formula clauses can be reported
// verbatim in an unsat core.
//
// A unit clause is degenerate: both watch indices point at the sole literal
// and the clause is never registered in any watch list.
type Clause struct {
	literals []Literal
	wA, wB   int

	// Literal block distance, fixed when the clause is learned. Zero for
	// formula clauses.
	lbd int

	kind ClauseKind
}

// Literals exposes the clause's literals. Callers must not mutate the slice.
func (c *Clause) Literals() []Literal {
	return c.literals
}

func (c *Clause) len() int {
	return len(c.literals)
}

// initWatches picks the two watch indices against the solver's current
// valuation. Each watch prefers, in order: a true literal (a witness that
// the clause is satisfied), an unassigned literal, and finally a false
// literal whose variable sits at the highest decision level, so the watch
// survives the deepest possible backjump.
func (c *Clause) initWatches(s *Solver) {
	if c.len() < 2 {
		c.wA, c.wB = 0, 0
		return
	}
	c.wA = c.preferredIndex(s, -1)
	c.wB = c.preferredIndex(s, c.wA)
}

func (c *Clause) preferredIndex(s *Solver, exclude int) int {
	noneIdx := -1
	falseIdx := -1
	falseLevel := -1
	for i, lit := range c.literals {
		if i == exclude {
			continue
		}
		switch s.LitValue(lit) {
		case True:
			return i
		case Unknown:
			if noneIdx < 0 {
				noneIdx = i
			}
		case False:
			if level := s.levels[lit.VarID()]; level > falseLevel {
				falseLevel = level
				falseIdx = i
			}
		}
	}
	if noneIdx >= 0 {
		return noneIdx
	}
	if falseIdx >= 0 {
		return falseIdx
	}
	panic("no watchable literal in clause")
}

// watchedA and watchedB return the currently watched literals.
func (c *Clause) watchedA() Literal { return c.literals[c.wA] }
func (c *Clause) watchedB() Literal { return c.literals[c.wB] }

// moveWatch repoints the watch currently at index from to index to.
func (c *Clause) moveWatch(from, to int) {
	switch from {
	case c.wA:
		c.wA = to
	case c.wB:
		c.wB = to
	default:
		panic("moveWatch on unwatched index")
	}
}

func (c *Clause) String() string {
	sb := strings.Builder{}
	for i, l := range c.literals {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(l.String())
	}
	return sb.String()
}
