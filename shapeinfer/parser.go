package shapeinfer

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseShape parses a textual shape spec into a shape owned by this Context.
//
// The grammar is "?" for an unknown-rank shape, or "[" followed by zero or more
// comma-separated dimension specs followed by "]", where a dimension spec is "?" (unknown)
// or a non-negative decimal integer. So "[]" is a scalar (rank-0) shape and "[2,?,4]" is a
// rank-3 shape with a known first and last axis.
//
// Malformed specs fail with an error wrapping ErrParse.
func (c *Context) ParseShape(spec string) (shape Shape, err error) {
	if spec == "?" {
		return c.MakeUnknownShape(), nil
	}
	if len(spec) < 2 || spec[0] != '[' || spec[len(spec)-1] != ']' {
		err = errors.Wrapf(ErrParse, "shape spec %q must be \"?\" or \"[dim,...,dim]\"", spec)
		return
	}
	inner := spec[1 : len(spec)-1]
	if inner == "" {
		return c.MakeShape(), nil
	}
	parts := strings.Split(inner, ",")
	dims := make([]Dim, 0, len(parts))
	for _, part := range parts {
		if part == "?" {
			dims = append(dims, c.MakeUnknownDim())
			continue
		}
		// Only plain digits: strconv would also accept a leading sign.
		if strings.IndexFunc(part, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			err = errors.Wrapf(ErrParse, "bad dimension %q in shape spec %q", part, spec)
			return
		}
		value, parseErr := strconv.ParseInt(part, 10, 64)
		if parseErr != nil {
			err = errors.Wrapf(ErrParse, "bad dimension %q in shape spec %q", part, spec)
			return
		}
		dims = append(dims, c.MakeDim(value))
	}
	return c.MakeShape(dims...), nil
}
