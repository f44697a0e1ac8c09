// Package workspace compiles sets of source files for editors and the
// command line: concurrent checks, change watching and an LSP server that
// publishes the resulting diagnostics.
package workspace

import (
	"errors"
	"fmt"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/compiler"
	"github.com/dhamidi/jcook/java/loader"
	"github.com/dhamidi/jcook/java/parser"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Stage names the pass that produced a diagnostic.
type Stage string

const (
	StageIO      Stage = "io"
	StageScan    Stage = "scan"
	StageParse   Stage = "parse"
	StageCompile Stage = "compile"
	StageRun     Stage = "run"
)

type Diagnostic struct {
	File     string
	Loc      ast.Location
	Severity Severity
	Stage    Stage
	Message  string
}

func (d Diagnostic) String() string {
	loc := d.Loc.String()
	if d.Loc.File == "" && d.File != "" {
		loc = d.File + ":" + loc
	}
	if d.Loc.Line == 0 {
		loc = d.File
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Severity, d.Message)
}

// FromError turns an error returned while reading, parsing, compiling or
// running file into a diagnostic.
func FromError(file string, err error) Diagnostic {
	d := Diagnostic{File: file, Severity: SeverityError, Stage: StageIO, Message: err.Error()}
	var (
		se *parser.ScanError
		pe *parser.ParseError
		ce *compiler.CompileError
	)
	switch {
	case errors.As(err, &se):
		d.Stage, d.Loc, d.Message = StageScan, se.Loc, se.Message
	case errors.As(err, &pe):
		d.Stage, d.Loc, d.Message = StageParse, pe.Loc, pe.Message
	case errors.As(err, &ce):
		d.Stage, d.Loc, d.Message = StageCompile, ce.Loc, ce.Message
	default:
		if ex, ok := loader.AsException(err); ok {
			d.Stage = StageRun
			d.Message = ex.Error()
		}
	}
	return d
}
