package shapeinfer

import (
	"github.com/gomlx/gomlx/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// This file is the boundary to GoMLX's concrete shapes.Shape: graph layers usually hold
// their shapes in that form and only need the symbolic representation while inferring.

// FromGoMLX imports a GoMLX shape into this Context. A GoMLX shape always has a known
// rank; negative dimensions (the dynamic-dimension convention) become unknown dimensions.
// The dtype is dropped: the engine only reasons about ranks and axis sizes.
func (c *Context) FromGoMLX(shape shapes.Shape) Shape {
	dims := make([]Dim, shape.Rank())
	for i, dim := range shape.Dimensions {
		if dim < 0 {
			dims[i] = c.MakeUnknownDim()
		} else {
			dims[i] = c.MakeDim(int64(dim))
		}
	}
	return c.arena.makeShape(dims)
}

// ToGoMLX exports a shape to GoMLX form with the given dtype, mapping unknown dimensions
// to -1. An unknown-rank shape cannot be represented and fails with ErrInvalidArgument.
func ToGoMLX(s Shape, dtype dtypes.DType) (shape shapes.Shape, err error) {
	if !s.RankKnown() {
		err = errors.Wrapf(ErrInvalidArgument, "cannot convert unknown-rank shape to a GoMLX shape")
		return
	}
	shape.DType = dtype
	shape.Dimensions = make([]int, s.Rank())
	for i, d := range s.Dims() {
		if d.Known() {
			shape.Dimensions[i] = int(d.Value())
		} else {
			shape.Dimensions[i] = -1
		}
	}
	return
}
