// Package compiler cooks syntax trees into classes of a loader.
//
// Cooking runs in four stages over a batch of compilation units: type
// declarations are registered, member signatures are resolved, bodies are
// checked and turned into Go closures, and finally every class of the batch
// is defined in the loader at once. The first error aborts the batch and
// leaves the loader untouched.
package compiler

import (
	"io"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
	"github.com/dhamidi/jcook/java/parser"
)

type Compiler struct {
	loader *loader.Loader
	log    commonlog.Logger
}

type Option func(*Compiler)

func WithLogger(log commonlog.Logger) Option {
	return func(c *Compiler) {
		c.log = log
	}
}

// New returns a compiler that defines its classes in ld. A nil ld gets a
// fresh loader on top of the system classes.
func New(ld *loader.Loader, opts ...Option) *Compiler {
	if ld == nil {
		ld = loader.New(nil)
	}
	c := &Compiler{loader: ld, log: commonlog.GetLogger("jcook.compiler")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Compiler) Loader() *loader.Loader {
	return c.loader
}

// Cook compiles units as one batch. Types declared in any of the units may
// refer to each other.
func (c *Compiler) Cook(units ...*ast.CompilationUnit) (err error) {
	s := newSession(c)
	defer catch(&err)

	for _, cu := range units {
		s.declareTypes(cu)
	}
	c.log.Debugf("declared %d types", len(s.order))
	for _, u := range s.units {
		s.resolveImports(u)
	}
	for _, ci := range s.order {
		s.declareHierarchy(ci)
	}
	for _, ci := range s.order {
		s.declareMembers(ci)
	}
	for _, ci := range s.order {
		s.compileInitializers(ci)
	}
	for _, ci := range s.order {
		s.compileBodies(ci)
	}

	classes := make([]*loader.Class, len(s.order))
	for i, ci := range s.order {
		classes[i] = ci.class
	}
	if err := c.loader.Define(classes...); err != nil {
		return err
	}
	for _, cl := range classes {
		c.log.Infof("defined %s", cl.Name)
	}
	return nil
}

// CookSource parses a compilation unit and cooks it. Syntax errors are
// returned as reported by the parser.
func (c *Compiler) CookSource(name string, r io.Reader) error {
	cu, err := parser.ParseCompilationUnit(r, parser.WithFile(name))
	if err != nil {
		return err
	}
	return c.Cook(cu)
}
