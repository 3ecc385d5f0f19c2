package shapeinfer

import (
	"testing"

	"github.com/gomlx/gomlx/types/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeFromShapeTensor(t *testing.T) {
	int32Tensor := tensors.FromFlatDataAndDimensions([]int32{3, 4, 5}, 3)
	int64Tensor := tensors.FromFlatDataAndDimensions([]int64{7}, 1)
	ctx, err := NewContext([]any{"[3]", "[1]", "?"}, 1, []*tensors.Tensor{int32Tensor, int64Tensor})
	require.NoError(t, err)

	out, err := ctx.ShapeFromShapeTensor(0)
	require.NoError(t, err)
	require.Equal(t, "[3,4,5]", out.String())

	out, err = ctx.ShapeFromShapeTensor(1)
	require.NoError(t, err)
	require.Equal(t, "[7]", out.String())

	// Absent constant: best-effort unknown-rank shape, not an error.
	out, err = ctx.ShapeFromShapeTensor(2)
	require.NoError(t, err)
	require.False(t, out.RankKnown())
}

func TestShapeFromShapeTensorUnknownDims(t *testing.T) {
	// -1 elements are the dynamic-dimension convention and yield unknown dimensions.
	tensor := tensors.FromFlatDataAndDimensions([]int64{2, -1, 4}, 3)
	ctx, err := NewContext([]any{"[3]"}, 1, []*tensors.Tensor{tensor})
	require.NoError(t, err)

	out, err := ctx.ShapeFromShapeTensor(0)
	require.NoError(t, err)
	require.Equal(t, "[2,?,4]", out.String())

	// Anything below -1 is rejected.
	bad := tensors.FromFlatDataAndDimensions([]int32{2, -2}, 2)
	ctx, err = NewContext([]any{"[2]"}, 1, []*tensors.Tensor{bad})
	require.NoError(t, err)
	_, err = ctx.ShapeFromShapeTensor(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorContains(t, err, "-2")
}

func TestShapeFromShapeTensorErrors(t *testing.T) {
	rank2 := tensors.FromFlatDataAndDimensions([]int32{1, 2, 3, 4}, 2, 2)
	float := tensors.FromFlatDataAndDimensions([]float32{1, 2}, 2)
	ctx, err := NewContext([]any{"[2,2]", "[2]"}, 1, []*tensors.Tensor{rank2, float})
	require.NoError(t, err)

	_, err = ctx.ShapeFromShapeTensor(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorContains(t, err, "rank 2")

	_, err = ctx.ShapeFromShapeTensor(1)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorContains(t, err, "Float32")
}
