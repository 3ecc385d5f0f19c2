package shapeinfer

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// ShapeFromShapeTensor derives a shape from the constant tensor supplied for the given
// input, interpreting the tensor's elements as axis sizes.
//
// If no constant was supplied for the input the result is a new unknown-rank shape: the
// value may only become known at run time, which is not an error. Otherwise the tensor must
// be rank-1 with Int32 or Int64 elements, or it fails with ErrInvalidArgument.
//
// An element value of -1 yields an unknown dimension, the usual dynamic-dimension
// convention. Any value below -1 fails with ErrInvalidArgument.
func (c *Context) ShapeFromShapeTensor(inputIdx int) (out Shape, err error) {
	if inputIdx < 0 || inputIdx >= len(c.inputTensors) {
		exceptions.Panicf("shapeinfer: ShapeFromShapeTensor(%d) out-of-range, context has %d inputs", inputIdx, len(c.inputTensors))
	}
	t := c.inputTensors[inputIdx]
	if t == nil {
		return c.MakeUnknownShape(), nil
	}
	if t.Rank() != 1 {
		err = errors.Wrapf(ErrInvalidArgument, "shape tensor for input #%d must be rank 1, but was rank %d", inputIdx, t.Rank())
		return
	}

	var values []int64
	switch t.DType() {
	case dtypes.Int32:
		tensors.ConstFlatData(t, func(flat []int32) {
			values = make([]int64, len(flat))
			for i, v := range flat {
				values[i] = int64(v)
			}
		})
	case dtypes.Int64:
		tensors.ConstFlatData(t, func(flat []int64) {
			values = make([]int64, len(flat))
			copy(values, flat)
		})
	default:
		err = errors.Wrapf(ErrInvalidArgument, "shape tensor for input #%d must be Int32 or Int64, but was %s", inputIdx, t.DType())
		return
	}

	dims := make([]Dim, len(values))
	for i, v := range values {
		switch {
		case v >= 0:
			dims[i] = c.MakeDim(v)
		case v == -1:
			dims[i] = c.MakeUnknownDim()
		default:
			err = errors.Wrapf(ErrInvalidArgument, "shape tensor for input #%d has invalid value %d at element %d", inputIdx, v, i)
			return
		}
	}
	return c.arena.makeShape(dims), nil
}
