package compiler

import (
	"errors"
	"fmt"

	"github.com/dhamidi/jcook/java/ast"
)

type ErrorKind int

const (
	KindResolution ErrorKind = iota + 1
	KindType
	KindDuplicate
	KindUnsupported
)

// Sentinels for errors.Is; every *CompileError matches the one for its kind.
var (
	ErrResolution  = errors.New("resolution error")
	ErrType        = errors.New("type error")
	ErrDuplicate   = errors.New("duplicate declaration")
	ErrUnsupported = errors.New("unsupported construct")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindResolution:
		return ErrResolution
	case KindType:
		return ErrType
	case KindDuplicate:
		return ErrDuplicate
	case KindUnsupported:
		return ErrUnsupported
	}
	return nil
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

type CompileError struct {
	Loc     ast.Location
	Kind    ErrorKind
	Message string
}

func (e *CompileError) Error() string {
	return e.Loc.String() + ": " + e.Message
}

func (e *CompileError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// bailout carries the first compile error out of a deeply nested check.
type bailout struct {
	err *CompileError
}

func fail(loc ast.Location, kind ErrorKind, format string, args ...any) {
	panic(bailout{&CompileError{Loc: loc, Kind: kind, Message: fmt.Sprintf(format, args...)}})
}

// catch converts a bailout into an error; other panics continue.
func catch(err *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*err = b.err
	}
}
