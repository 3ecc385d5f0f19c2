package shapeinfer

// The unification operations. They never mutate an existing Shape or Dim: each one returns
// an input unchanged whenever it already carries all the information, and only otherwise
// creates new objects in the Context's arena. On failure the returned handle is the zero
// value and must not be used.

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// WithRank asserts that shape has exactly the given rank.
//
// If the rank is already known and matches, it returns shape unchanged. If the rank is
// unknown, it returns a new shape of the given rank with all axes unknown. Otherwise it
// fails with ErrRankMismatch.
func (c *Context) WithRank(shape Shape, rank int) (out Shape, err error) {
	if !shape.RankKnown() {
		return c.UnknownShapeOfRank(rank), nil
	}
	if existing := shape.Rank(); existing != rank {
		err = errors.Wrapf(ErrRankMismatch, "shape must be rank %d but is rank %d", rank, existing)
		return
	}
	return shape, nil
}

// WithRankAtLeast asserts that shape has at least the given rank. Shapes of unknown rank
// are returned unchanged: they may still turn out to have any rank.
func (c *Context) WithRankAtLeast(shape Shape, rank int) (out Shape, err error) {
	if !shape.RankKnown() || shape.Rank() >= rank {
		return shape, nil
	}
	err = errors.Wrapf(ErrRankMismatch, "shape must be at least rank %d but is rank %d", rank, shape.Rank())
	return
}

// WithRankAtMost asserts that shape has at most the given rank. Shapes of unknown rank are
// returned unchanged.
func (c *Context) WithRankAtMost(shape Shape, rank int) (out Shape, err error) {
	if !shape.RankKnown() || shape.Rank() <= rank {
		return shape, nil
	}
	err = errors.Wrapf(ErrRankMismatch, "shape must be at most rank %d but is rank %d", rank, shape.Rank())
	return
}

// WithValue asserts that dim has the given value.
//
// If the value is already known and matches, it returns dim unchanged. If the value is
// unknown, it returns a new known dimension with the value. Otherwise it fails with
// ErrDimensionMismatch.
func (c *Context) WithValue(dim Dim, value int64) (out Dim, err error) {
	if !dim.Known() {
		return c.MakeDim(value), nil
	}
	if existing := dim.Value(); existing != value {
		err = errors.Wrapf(ErrDimensionMismatch, "dimension must be %d but is %d", value, existing)
		return
	}
	return dim, nil
}

// MergeDims merges two dimensions into the one carrying the most information, or fails with
// ErrDimensionMismatch if both are known with different values. It never allocates: the
// result is always one of the two inputs, preferring d0 when both carry the same
// information.
func (c *Context) MergeDims(d0, d1 Dim) (out Dim, err error) {
	if d0 == d1 || !d1.Known() {
		return d0, nil
	}
	if !d0.Known() {
		return d1, nil
	}
	if d0.Value() == d1.Value() {
		return d0, nil
	}
	err = errors.Wrapf(ErrDimensionMismatch, "dimensions must be equal, but are %d and %d", d0.Value(), d1.Value())
	return
}

// Merge merges two shapes into the most specific consistent result, or fails if they
// conflict: with ErrRankMismatch if both ranks are known and differ, or with
// ErrDimensionMismatch (naming the axis) if some axis is known in both with different
// values.
//
// Whenever one of the inputs already subsumes the other's information the result is that
// input itself, no allocation -- with s0 preferred when either would do. Only when each
// side contributes an axis the other lacks is a new shape created, merging the axes
// pairwise.
func (c *Context) Merge(s0, s1 Shape) (out Shape, err error) {
	if s0 == s1 || !s1.RankKnown() {
		return s0, nil
	}
	if !s0.RankKnown() {
		return s1, nil
	}

	rank := s0.Rank()
	if rank != s1.Rank() {
		err = errors.Wrapf(ErrRankMismatch, "shapes must be equal rank, but are %d and %d", rank, s1.Rank())
		return
	}

	returnS0 := true
	returnS1 := true
	for i := 0; i < rank; i++ {
		d0 := s0.Dim(i)
		d1 := s1.Dim(i)
		if d0 == d1 {
			continue
		}
		if !d0.Known() {
			if d1.Known() {
				returnS0 = false
			}
		} else if !d1.Known() {
			returnS1 = false
		} else if d0.Value() != d1.Value() {
			err = errors.Wrapf(ErrDimensionMismatch, "dimension %d in both shapes must be equal, but are %d and %d",
				i, d0.Value(), d1.Value())
			return
		}
	}
	if returnS0 || returnS1 {
		if returnS0 {
			return s0, nil
		}
		return s1, nil
	}

	// Neither input subsumes the other: merge the axes pairwise. The loop above already
	// proved there is no conflict left.
	dims := make([]Dim, rank)
	for i := 0; i < rank; i++ {
		merged, mergeErr := c.MergeDims(s0.Dim(i), s1.Dim(i))
		if mergeErr != nil {
			exceptions.Panicf("shapeinfer: merging axis %d of %s and %s failed after conflict check: %+v", i, s0, s1, mergeErr)
		}
		dims[i] = merged
	}
	return c.arena.makeShape(dims), nil
}

// Subshape returns the suffix of s starting at axis start (the same Dim handles,
// re-referenced). start == 0 returns s unchanged; a negative start fails with
// ErrInvalidArgument; start beyond the rank fails with ErrRankMismatch; an unknown-rank s
// yields a new unknown-rank shape.
func (c *Context) Subshape(s Shape, start int) (out Shape, err error) {
	if start < 0 {
		err = errors.Wrapf(ErrInvalidArgument, "negative start is not implemented; got %d", start)
		return
	}
	if start == 0 {
		return s, nil
	}
	if !s.RankKnown() {
		return c.MakeUnknownShape(), nil
	}
	rank := s.Rank()
	if rank < start {
		err = errors.Wrapf(ErrRankMismatch, "shape must have rank >= %d, but is %d", start, rank)
		return
	}
	dims := make([]Dim, 0, rank-start)
	for i := start; i < rank; i++ {
		dims = append(dims, s.Dim(i))
	}
	return c.arena.makeShape(dims), nil
}

// Concatenate returns a new shape with s1's dimensions followed by s2's. If either rank is
// unknown the result is a new unknown-rank shape.
func (c *Context) Concatenate(s1, s2 Shape) (out Shape, err error) {
	if !s1.RankKnown() || !s2.RankKnown() {
		return c.MakeUnknownShape(), nil
	}
	dims := make([]Dim, 0, s1.Rank()+s2.Rank())
	dims = append(dims, s1.record().dims...)
	dims = append(dims, s2.record().dims...)
	return c.arena.makeShape(dims), nil
}

// ReplaceDim returns a new shape equal to s with the given axis replaced by dim. axis can
// be negative, counting from the end. An unknown-rank s is returned unchanged; an
// out-of-range axis fails with ErrInvalidArgument.
func (c *Context) ReplaceDim(s Shape, axis int, dim Dim) (out Shape, err error) {
	if dim.arena == nil {
		exceptions.Panicf("shapeinfer: ReplaceDim with an invalid (zero) Dim")
	}
	if !s.RankKnown() {
		return s, nil
	}
	rank := s.Rank()
	adjusted := axis
	if adjusted < 0 {
		adjusted += rank
	}
	if adjusted < 0 || adjusted >= rank {
		err = errors.Wrapf(ErrInvalidArgument, "out of range axis %d for shape with %d axes", axis, rank)
		return
	}
	dims := s.Dims()
	dims[adjusted] = dim
	return c.arena.makeShape(dims), nil
}
