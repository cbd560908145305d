// Package cli resolves the positional arguments of the mapgen command:
//
//	mapgen [filename] [countAll | countZ countP]
package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/udisondev/mapgen/internal/generator"
)

// DefaultName is the bitmap used when no filename is given.
const DefaultName = "test"

var (
	ErrArgumentCount    = errors.New("wrong number of arguments")
	ErrTooFewArguments  = fmt.Errorf("%w: too few arguments", ErrArgumentCount)
	ErrTooManyArguments = fmt.Errorf("%w: too many arguments", ErrArgumentCount)
	ErrInvalidCount     = errors.New("invalid spawn count")
)

// ParseError reports a count argument that is not a non-negative integer.
type ParseError struct {
	Position int
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("argument %d %q: %v: %v", e.Position, e.Value, ErrInvalidCount, e.Err)
	}
	return fmt.Sprintf("argument %d %q: %v", e.Position, e.Value, ErrInvalidCount)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidCount}
	}
	return []error{ErrInvalidCount, e.Err}
}

// Resolve turns positional arguments (program name excluded) into a request.
//
//	[]                 too few
//	[name]             too few
//	[name n]           n zombie and n pickup spawns
//	[name z p]         z zombie and p pickup spawns
//	[name a b c ...]   too many
func Resolve(args []string) (generator.Request, error) {
	req := generator.Request{Name: DefaultName}
	if len(args) > 0 {
		req.Name = args[0]
	}

	switch len(args) {
	case 0, 1:
		return req, ErrTooFewArguments
	case 2:
		n, err := parseCount(1, args[1])
		if err != nil {
			return req, err
		}
		req.CountZ, req.CountP = n, n
	case 3:
		z, err := parseCount(1, args[1])
		if err != nil {
			return req, err
		}
		p, err := parseCount(2, args[2])
		if err != nil {
			return req, err
		}
		req.CountZ, req.CountP = z, p
	default:
		return req, ErrTooManyArguments
	}

	return req, nil
}

func parseCount(pos int, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Position: pos, Value: s, Err: err}
	}
	if n < 0 {
		return 0, &ParseError{Position: pos, Value: s}
	}
	return n, nil
}
