package sat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildChainConflict sets up the classic implication chain
//
//	decide 5 @1, decide 1 @2, 1 -> 2 -> 3 -> 4, conflict (-3 -4 -5)
//
// and returns the solver together with the conflicting clause.
func buildChainConflict(t *testing.T, opts Options) (*Solver, ClauseRef) {
	t.Helper()

	s := NewSolver(opts)
	for i := 0; i < 5; i++ {
		s.AddVariable()
	}
	for _, c := range [][]int{
		{-1, 2},
		{-2, 3},
		{-3, 4},
		{-3, -4, -5},
	} {
		require.NoError(t, s.AddClause(lits(c...)))
	}

	s.assume(PositiveLiteral(4)) // variable 5
	_, conflicting := s.propagate()
	require.False(t, conflicting)

	s.assume(PositiveLiteral(0)) // variable 1
	confl, conflicting := s.propagate()
	require.True(t, conflicting)
	require.Equal(t, 2, s.decisionLevel())
	return s, confl
}

func requireAsserting(t *testing.T, s *Solver, learnt []Literal, backjump int) {
	t.Helper()

	s.cancelUntil(backjump)
	require.Equal(t, Unknown, s.LitValue(learnt[0]), "asserting literal must be unassigned after backjump")
	for _, l := range learnt[1:] {
		require.Equal(t, False, s.LitValue(l), "non-asserting literal must be false after backjump")
	}
}

func TestAnalyzeFirstUIP(t *testing.T) {
	s, confl := buildChainConflict(t, DefaultOptions)

	learnt, backjump := s.analyzeFirstUIP(confl)
	require.Equal(t, lits(-3, -5), learnt)
	require.Equal(t, 1, backjump)
	requireAsserting(t, s, learnt, backjump)
}

func TestAnalyzeLastUIPAssertsDecision(t *testing.T) {
	s, confl := buildChainConflict(t, DefaultOptions)

	learnt, backjump := s.analyzeLastUIP(confl)
	require.Equal(t, lits(-1, -5), learnt)
	require.Equal(t, 1, backjump)
	requireAsserting(t, s, learnt, backjump)
}

func TestAnalyzeDominatorMatchesFirstUIP(t *testing.T) {
	s, confl := buildChainConflict(t, DefaultOptions)
	learnt3, backjump3 := s.analyzeFirstUIP(confl)
	want := append([]Literal(nil), learnt3...)

	s2, confl2 := buildChainConflict(t, DefaultOptions)
	learnt2, backjump2 := s2.analyzeDominator(confl2)
	require.Equal(t, want, learnt2)
	require.Equal(t, backjump3, backjump2)
	requireAsserting(t, s2, learnt2, backjump2)
}

func TestAnalyzeUnitLearnt(t *testing.T) {
	// 1 -> 2, 1 -> 3, (-2 -3): conflict with a single UIP at the decision.
	s := NewSolver(DefaultOptions)
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}
	for _, c := range [][]int{{-1, 2}, {-1, 3}, {-2, -3}} {
		require.NoError(t, s.AddClause(lits(c...)))
	}

	s.assume(PositiveLiteral(0))
	confl, conflicting := s.propagate()
	require.True(t, conflicting)

	learnt, backjump := s.analyzeFirstUIP(confl)
	require.Equal(t, lits(-1), learnt)
	require.Equal(t, 0, backjump)
	requireAsserting(t, s, learnt, backjump)
}

func TestAnalyzeBumpsActivity(t *testing.T) {
	s, confl := buildChainConflict(t, DefaultOptions)

	before := append([]float64(nil), s.order.activity...)
	s.analyzeFirstUIP(confl)

	bumped := 0
	for v := range s.order.activity {
		if s.order.activity[v] > before[v] {
			bumped++
		}
	}
	require.Greater(t, bumped, 0, "analysis must bump variables of the resolution chain")
}

func TestComputeLBD(t *testing.T) {
	s, confl := buildChainConflict(t, DefaultOptions)

	learnt, _ := s.analyzeFirstUIP(confl)
	// Literals at levels 2 (variable 3) and 1 (variable 5).
	require.Equal(t, 2, s.computeLBD(learnt))
	require.Equal(t, 1, s.computeLBD(lits(-3)))
}
