package sat

import "strconv"

// Literal represents a boolean variable or its negation. Variable v maps to
// literals 2v (positive) and 2v+1 (negative), so literals order by variable
// id first and polarity second, and can index per-literal slices directly.
type Literal int

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v int) Literal {
	return Literal(v * 2)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v int) Literal {
	return Literal(v*2 + 1)
}

// FromDIMACS converts an external 1-indexed signed DIMACS literal to its
// internal representation. The input must be nonzero.
func FromDIMACS(l int) Literal {
	if l < 0 {
		return NegativeLiteral(-l - 1)
	}
	return PositiveLiteral(l - 1)
}

// VarID returns the ID of the literal's variable.
func (l Literal) VarID() int {
	return int(l) / 2
}

// IsPositive returns true if and only if the literal represents the value of
// its boolean variable (i.e. not its negation).
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the opposite literal.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

// DIMACS returns the external 1-indexed signed form of the literal.
func (l Literal) DIMACS() int {
	if l.IsPositive() {
		return l.VarID() + 1
	}
	return -(l.VarID() + 1)
}

func (l Literal) String() string {
	return strconv.Itoa(l.DIMACS())
}
