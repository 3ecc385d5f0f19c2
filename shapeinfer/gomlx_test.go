package shapeinfer

import (
	"testing"

	"github.com/gomlx/gomlx/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func TestGoMLXRoundTrip(t *testing.T) {
	ctx := newTestContext(t)

	s := ctx.FromGoMLX(shapes.Make(dtypes.Float32, 2, 3))
	require.Equal(t, "[2,3]", s.String())

	// Negative dimensions import as unknown.
	dynamic := shapes.Shape{DType: dtypes.Float32, Dimensions: []int{2, -1}}
	s = ctx.FromGoMLX(dynamic)
	require.Equal(t, "[2,?]", s.String())

	back, err := ToGoMLX(s, dtypes.Float32)
	require.NoError(t, err)
	require.Equal(t, dtypes.Float32, back.DType)
	require.Equal(t, []int{2, -1}, back.Dimensions)

	_, err = ToGoMLX(ctx.MakeUnknownShape(), dtypes.Float32)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
