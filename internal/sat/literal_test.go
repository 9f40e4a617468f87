package sat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteralEncoding(t *testing.T) {
	l := PositiveLiteral(3)
	require.Equal(t, 3, l.VarID())
	require.True(t, l.IsPositive())

	n := l.Opposite()
	require.Equal(t, 3, n.VarID())
	require.False(t, n.IsPositive())
	require.Equal(t, l, n.Opposite())
}

func TestLiteralDIMACS(t *testing.T) {
	require.Equal(t, PositiveLiteral(0), FromDIMACS(1))
	require.Equal(t, NegativeLiteral(41), FromDIMACS(-42))
	require.Equal(t, -42, NegativeLiteral(41).DIMACS())
	require.Equal(t, "7", PositiveLiteral(6).String())
	require.Equal(t, "-7", NegativeLiteral(6).String())
}
