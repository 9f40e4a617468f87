package sat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarOrderPicksMostActive(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 4; i++ {
		s.AddVariable()
	}

	s.order.BumpScore(2)
	s.order.BumpScore(2)
	s.order.BumpScore(1)

	require.Equal(t, NegativeLiteral(2), s.order.NextDecision(s))
}

func TestVarOrderBreaksTiesBySmallestID(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 4; i++ {
		s.AddVariable()
	}

	// All activities equal: declaration order decides.
	require.Equal(t, NegativeLiteral(0), s.order.NextDecision(s))
}

func TestVarOrderSkipsAssigned(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}
	s.order.BumpScore(0)
	s.enqueue(PositiveLiteral(0), Reason{kind: reasonTopLevelUnit})

	require.Equal(t, NegativeLiteral(1), s.order.NextDecision(s))
}

func TestVarOrderReinsertAfterUndo(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 2; i++ {
		s.AddVariable()
	}
	s.order.BumpScore(1)

	s.assume(s.order.NextDecision(s))
	require.Equal(t, False, s.VarValue(1)) // decided to the default phase

	s.cancelUntil(0)
	require.Equal(t, NegativeLiteral(1), s.order.NextDecision(s))
}

func TestVarOrderDecayFavorsRecentBumps(t *testing.T) {
	vo := NewVarOrder(0.5, false, false)
	vo.AddVar()
	vo.AddVar()

	vo.BumpScore(0)
	for i := 0; i < decayRounds; i++ { // complete one decay round
		vo.DecayScores()
	}
	vo.BumpScore(1)

	require.Greater(t, vo.activity[1], vo.activity[0])
}

func TestVarOrderDecayPreservesRanking(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}
	s.order.BumpScore(2)
	s.order.BumpScore(2)
	s.order.BumpScore(1)

	for i := 0; i < decayRounds; i++ {
		s.order.DecayScores()
	}

	require.Equal(t, NegativeLiteral(2), s.order.NextDecision(s))
}

func TestVarOrderPhaseSaving(t *testing.T) {
	opts := DefaultOptions
	opts.PhaseSaving = true
	s := NewSolver(opts)
	for i := 0; i < 2; i++ {
		s.AddVariable()
	}
	s.order.BumpScore(1)

	s.assume(PositiveLiteral(1)) // variable 1 held true
	s.cancelUntil(0)

	require.Equal(t, PositiveLiteral(1), s.order.NextDecision(s))
}
