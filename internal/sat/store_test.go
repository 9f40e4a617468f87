package sat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lits(dimacs ...int) []Literal {
	ls := make([]Literal, len(dimacs))
	for i, d := range dimacs {
		ls[i] = FromDIMACS(d)
	}
	return ls
}

func TestStoreAddFormulaDeduplicates(t *testing.T) {
	st := NewStore()

	ref, ok := st.AddFormula(lits(1, 2, 1, 3, 2))
	require.True(t, ok)
	require.Equal(t, lits(1, 2, 3), st.Get(ref).Literals())
}

func TestStoreAddFormulaRejectsTautology(t *testing.T) {
	st := NewStore()

	_, ok := st.AddFormula(lits(1, 2, -1))
	require.False(t, ok)
	require.Equal(t, 0, st.NumFormula())
}

func TestStoreFormulaHandlesAreStable(t *testing.T) {
	st := NewStore()

	ref1, _ := st.AddFormula(lits(1, 2))
	ref2, _ := st.AddFormula(lits(-1, 3))
	for i := 0; i < 100; i++ {
		st.AddLearned(lits(2, 3), 2)
	}

	require.Equal(t, lits(1, 2), st.Get(ref1).Literals())
	require.Equal(t, lits(-1, 3), st.Get(ref2).Literals())
}

func TestStoreDropAndReuseBumpsGeneration(t *testing.T) {
	st := NewStore()

	old := st.AddLearned(lits(1, 2), 2)
	st.DropLearned(old)

	fresh := st.AddLearned(lits(3, 4), 3)
	require.Equal(t, old.slot, fresh.slot, "slot should be recycled")
	require.NotEqual(t, old, fresh, "recycled handle must differ")

	require.Equal(t, lits(3, 4), st.Get(fresh).Literals())
	require.Panics(t, func() { st.Get(old) }, "stale handle must not resolve")
}

func TestStoreCounts(t *testing.T) {
	st := NewStore()

	st.AddFormula(lits(1, 2))
	a := st.AddLearned(lits(1, 3), 2)
	st.AddLearned(lits(2, 3), 2)
	require.Equal(t, 1, st.NumFormula())
	require.Equal(t, 2, st.NumLearned())

	st.DropLearned(a)
	require.Equal(t, 1, st.NumLearned())
	require.Len(t, st.LearnedRefs(), 1)
	require.Len(t, st.FormulaRefs(), 1)
}
