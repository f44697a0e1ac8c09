package parser

import (
	"fmt"

	"github.com/dhamidi/jcook/java/ast"
)

// ScanError reports a malformed token.
type ScanError struct {
	Loc     ast.Location
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// ParseError reports a grammar violation. Parsing stops at the first one.
type ParseError struct {
	Loc     ast.Location
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// bailout unwinds the recursive descent to the entry point.
type bailout struct {
	err error
}
