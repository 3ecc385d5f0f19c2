package shapeinfer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *Context {
	ctx, err := NewContext(nil, 0, nil)
	require.NoError(t, err)
	return ctx
}

func TestParseShape(t *testing.T) {
	ctx := newTestContext(t)

	s, err := ctx.ParseShape("?")
	require.NoError(t, err)
	require.False(t, s.RankKnown())

	s, err = ctx.ParseShape("[]")
	require.NoError(t, err)
	require.True(t, s.RankKnown())
	require.Equal(t, 0, s.Rank())

	// Round trip of the mixed form.
	s, err = ctx.ParseShape("[2,?,4]")
	require.NoError(t, err)
	require.Equal(t, 3, s.Rank())
	require.True(t, s.Dim(0).Known())
	require.Equal(t, int64(2), s.Dim(0).Value())
	require.False(t, s.Dim(1).Known())
	require.True(t, s.Dim(2).Known())
	require.Equal(t, int64(4), s.Dim(2).Value())
	require.Equal(t, "[2,?,4]", s.String())

	s, err = ctx.ParseShape("[0]")
	require.NoError(t, err)
	require.Equal(t, int64(0), s.Dim(0).Value())
}

func TestParseShapeMalformed(t *testing.T) {
	ctx := newTestContext(t)
	for _, spec := range []string{
		"", "[", "]", "[2", "2]", "2", "??",
		"[2,]", "[,2]", "[a]", "[-3]", "[+3]", "[2 ,3]", "[2,,3]", "[1.5]",
	} {
		_, err := ctx.ParseShape(spec)
		require.ErrorIs(t, err, ErrParse, "spec %q should not parse", spec)
	}
}
