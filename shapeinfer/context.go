package shapeinfer

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Context is the per-graph-node inference session: it owns the node's input shapes, the
// output shape slots, the optional constant input tensors, and every Dim/Shape the
// unification operations create along the way.
//
// The graph layer creates one Context per node, invokes the node-kind-specific inference
// callback with it, copies the outputs out, and drops it. A Context must not be shared
// across goroutines nor reused for another node; separate Contexts are fully independent.
type Context struct {
	arena        *arena
	inputs       []Shape
	outputs      []Shape
	inputTensors []*tensors.Tensor
}

// NewContext creates an inference session for one graph node.
//
// Each element of inputs describes one declared input shape and is either:
//   - a string in the ParseShape grammar ("?", "[2,?,4]", ...); or
//   - an []int of axis sizes, where a negative size means the axis is unknown (the same
//     convention GoMLX dynamic shapes use).
//
// Each of the numOutputs output slots starts as an unknown-rank shape.
//
// inputTensors optionally supplies the statically-known constant value of the aligned
// input, for ShapeFromShapeTensor; nil entries mean "not constant", and a sequence shorter
// than inputs is padded with nils. A longer sequence fails with ErrInvalidArgument.
func NewContext(inputs []any, numOutputs int, inputTensors []*tensors.Tensor) (ctx *Context, err error) {
	if numOutputs < 0 {
		err = errors.Wrapf(ErrInvalidArgument, "numOutputs must be non-negative, got %d", numOutputs)
		return
	}
	if len(inputTensors) > len(inputs) {
		err = errors.Wrapf(ErrInvalidArgument, "got %d input tensors for %d inputs", len(inputTensors), len(inputs))
		return
	}
	ctx = &Context{
		arena:        newArena(),
		inputs:       make([]Shape, 0, len(inputs)),
		outputs:      make([]Shape, numOutputs),
		inputTensors: make([]*tensors.Tensor, len(inputs)),
	}
	for i, input := range inputs {
		var shape Shape
		switch spec := input.(type) {
		case string:
			shape, err = ctx.ParseShape(spec)
			if err != nil {
				err = errors.WithMessagef(err, "input #%d", i)
				return nil, err
			}
		case []int:
			shape = ctx.shapeFromDims(spec)
		default:
			err = errors.Wrapf(ErrInvalidArgument, "input #%d must be a string shape spec or []int dimensions, got %T", i, input)
			return nil, err
		}
		ctx.inputs = append(ctx.inputs, shape)
	}
	copy(ctx.inputTensors, inputTensors)
	for i := range ctx.outputs {
		ctx.outputs[i] = ctx.MakeUnknownShape()
	}
	if klog.V(2).Enabled() {
		klog.Infof("shapeinfer.NewContext: %d inputs %v, %d outputs", len(ctx.inputs), ctx.inputs, numOutputs)
	}
	return ctx, nil
}

// shapeFromDims builds a known-rank shape from plain axis sizes, mapping negative sizes to
// unknown dimensions.
func (c *Context) shapeFromDims(dims []int) Shape {
	handles := make([]Dim, len(dims))
	for i, dim := range dims {
		if dim < 0 {
			handles[i] = c.MakeUnknownDim()
		} else {
			handles[i] = c.MakeDim(int64(dim))
		}
	}
	return c.MakeShape(handles...)
}

// NumInputs returns the number of declared inputs.
func (c *Context) NumInputs() int { return len(c.inputs) }

// Input returns the shape of the given input. It panics if idx is out of range.
func (c *Context) Input(idx int) Shape {
	if idx < 0 || idx >= len(c.inputs) {
		exceptions.Panicf("shapeinfer: Input(%d) out-of-range, context has %d inputs", idx, len(c.inputs))
	}
	return c.inputs[idx]
}

// NumOutputs returns the number of declared output slots.
func (c *Context) NumOutputs() int { return len(c.outputs) }

// Output returns the shape currently set for the given output slot. Before SetOutput it is
// an unknown-rank shape. It panics if idx is out of range.
func (c *Context) Output(idx int) Shape {
	if idx < 0 || idx >= len(c.outputs) {
		exceptions.Panicf("shapeinfer: Output(%d) out-of-range, context has %d outputs", idx, len(c.outputs))
	}
	return c.outputs[idx]
}

// SetOutput sets the shape of the given output slot. The shape must be owned by this
// Context. It panics if idx is out of range.
func (c *Context) SetOutput(idx int, shape Shape) {
	if idx < 0 || idx >= len(c.outputs) {
		exceptions.Panicf("shapeinfer: SetOutput(%d) out-of-range, context has %d outputs", idx, len(c.outputs))
	}
	if shape.arena != c.arena {
		exceptions.Panicf("shapeinfer: SetOutput(%d) with a Shape owned by a different Context", idx)
	}
	c.outputs[idx] = shape
}

// InputTensor returns the constant tensor supplied for the given input, or nil if the
// input's value is not statically known. It panics if idx is out of range.
func (c *Context) InputTensor(idx int) *tensors.Tensor {
	if idx < 0 || idx >= len(c.inputTensors) {
		exceptions.Panicf("shapeinfer: InputTensor(%d) out-of-range, context has %d inputs", idx, len(c.inputTensors))
	}
	return c.inputTensors[idx]
}

// MakeDim creates a new known dimension. value must be non-negative, it panics otherwise.
// No deduplication is done: two calls with the same value return distinct dimensions.
func (c *Context) MakeDim(value int64) Dim { return c.arena.makeDim(value) }

// MakeUnknownDim creates a new unknown dimension.
func (c *Context) MakeUnknownDim() Dim { return c.arena.makeUnknownDim() }

// MakeShape creates a new known-rank shape with the given dimensions. No dimensions means a
// scalar (rank-0) shape.
func (c *Context) MakeShape(dims ...Dim) Shape { return c.arena.makeShape(dims) }

// MakeUnknownShape creates a new unknown-rank shape.
func (c *Context) MakeUnknownShape() Shape { return c.arena.makeUnknownShape() }

// UnknownShapeOfRank creates a new shape with known rank but all axes unknown.
func (c *Context) UnknownShapeOfRank(rank int) Shape {
	if rank < 0 {
		exceptions.Panicf("shapeinfer: UnknownShapeOfRank(%d): rank must be non-negative", rank)
	}
	dims := make([]Dim, rank)
	for i := range dims {
		dims[i] = c.MakeUnknownDim()
	}
	return c.arena.makeShape(dims)
}

// Vector creates a new rank-1 shape with the given dimension.
func (c *Context) Vector(d Dim) Shape { return c.MakeShape(d) }

// Matrix creates a new rank-2 shape with the given dimensions.
func (c *Context) Matrix(d0, d1 Dim) Shape { return c.MakeShape(d0, d1) }
