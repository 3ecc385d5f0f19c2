// Package shapeinfer implements symbolic shape inference for computation graph nodes.
//
// At graph construction time tensor shapes are often only partially known: the rank may be
// unknown, or individual axis sizes may be unknown. This package provides the unification
// engine that combines such partial shapes, asserts constraints between them, and reports
// precise errors when they conflict.
//
//   - NewContext: creates the per-node inference session, holding the input shapes, output
//     shape slots and optional constant input tensors.
//   - Context.Merge, Context.WithRank, Context.Subshape, Context.Concatenate, ...: the
//     unification operations a per-operation inference callback uses to derive the outputs.
//   - Context.ShapeFromShapeTensor: derives a shape from a statically-known constant input
//     tensor whose elements encode axis sizes.
//
// All shapes and dimensions created during a session are owned by the session's Context and
// become invalid when the Context is dropped. They are immutable: the engine only creates
// new ones or returns existing ones unchanged.
package shapeinfer

import (
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
)

// Dim is a handle to one axis size owned by a Context: either a known non-negative value or
// unknown. Dim is comparable; two handles are equal ("the same dimension") only if they were
// returned by the same creation call on the same Context. Distinct dimensions may hold equal
// known values, and the engine uses handle equality only as a fast path for "definitely no
// new information".
//
// The zero Dim is invalid; using it panics.
type Dim struct {
	arena *arena
	idx   int32
}

// Shape is a handle to a shape owned by a Context: an ordered sequence of dimensions, or
// unknown-rank, in which case nothing about the shape is specified, not even the number of
// axes. Like Dim, Shape is comparable and handle equality means identity, not value equality.
//
// The zero Shape is invalid; using it panics.
type Shape struct {
	arena *arena
	idx   int32
}

type dimRecord struct {
	known bool
	value int64
}

type shapeRecord struct {
	rankKnown bool
	dims      []Dim
}

// arena owns every Dim and Shape record of one Context. Records are only appended, so
// handles remain valid for the whole session, and everything is released together when the
// Context (and with it the arena) becomes unreachable.
type arena struct {
	dims   []dimRecord
	shapes []shapeRecord
}

func newArena() *arena {
	return &arena{}
}

func (a *arena) makeDim(value int64) Dim {
	if value < 0 {
		exceptions.Panicf("shapeinfer: MakeDim(%d): dimension values must be non-negative", value)
	}
	a.dims = append(a.dims, dimRecord{known: true, value: value})
	return Dim{arena: a, idx: int32(len(a.dims) - 1)}
}

func (a *arena) makeUnknownDim() Dim {
	a.dims = append(a.dims, dimRecord{})
	return Dim{arena: a, idx: int32(len(a.dims) - 1)}
}

func (a *arena) makeShape(dims []Dim) Shape {
	for _, d := range dims {
		if d.arena != a {
			exceptions.Panicf("shapeinfer: MakeShape with a Dim owned by a different Context")
		}
	}
	a.shapes = append(a.shapes, shapeRecord{rankKnown: true, dims: dims})
	return Shape{arena: a, idx: int32(len(a.shapes) - 1)}
}

func (a *arena) makeUnknownShape() Shape {
	a.shapes = append(a.shapes, shapeRecord{})
	return Shape{arena: a, idx: int32(len(a.shapes) - 1)}
}

func (d Dim) record() dimRecord {
	if d.arena == nil {
		exceptions.Panicf("shapeinfer: use of invalid (zero) Dim")
	}
	return d.arena.dims[d.idx]
}

// Known returns whether the dimension's value is known.
func (d Dim) Known() bool { return d.record().known }

// Value returns the dimension's value. It panics if the value is not known -- check Known
// first.
func (d Dim) Value() int64 {
	rec := d.record()
	if !rec.known {
		exceptions.Panicf("shapeinfer: Dim.Value() on an unknown dimension")
	}
	return rec.value
}

// String returns "?" for an unknown dimension, or the decimal value.
func (d Dim) String() string {
	rec := d.record()
	if !rec.known {
		return "?"
	}
	return strconv.FormatInt(rec.value, 10)
}

func (s Shape) record() shapeRecord {
	if s.arena == nil {
		exceptions.Panicf("shapeinfer: use of invalid (zero) Shape")
	}
	return s.arena.shapes[s.idx]
}

// RankKnown returns whether the shape's rank is known.
func (s Shape) RankKnown() bool { return s.record().rankKnown }

// Rank returns the number of axes. It panics if the rank is unknown -- check RankKnown
// first.
func (s Shape) Rank() int {
	rec := s.record()
	if !rec.rankKnown {
		exceptions.Panicf("shapeinfer: Shape.Rank() on an unknown-rank shape")
	}
	return len(rec.dims)
}

// Dim returns the dimension of the given axis. axis can be negative, in which case it counts
// from the end -- so axis=-1 is the last axis. It panics on an unknown-rank shape or an
// out-of-bounds axis.
func (s Shape) Dim(axis int) Dim {
	rec := s.record()
	if !rec.rankKnown {
		exceptions.Panicf("shapeinfer: Shape.Dim(%d) on an unknown-rank shape", axis)
	}
	adjusted := axis
	if adjusted < 0 {
		adjusted += len(rec.dims)
	}
	if adjusted < 0 || adjusted >= len(rec.dims) {
		exceptions.Panicf("shapeinfer: Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, len(rec.dims), s)
	}
	return rec.dims[adjusted]
}

// Dims returns a copy of the shape's dimension handles. It panics on an unknown-rank shape.
func (s Shape) Dims() []Dim {
	rec := s.record()
	if !rec.rankKnown {
		exceptions.Panicf("shapeinfer: Shape.Dims() on an unknown-rank shape")
	}
	dims := make([]Dim, len(rec.dims))
	copy(dims, rec.dims)
	return dims
}

// String renders the shape in the same mini-grammar ParseShape accepts: "?" for unknown
// rank, otherwise "[2,?,4]".
func (s Shape) String() string {
	rec := s.record()
	if !rec.rankKnown {
		return "?"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, d := range rec.dims {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(d.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
