package compiler

import (
	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
)

// frame holds the receiver and the local variable slots of one activation.
// maxDepth bounds the Java frames of one call chain. Deeper calls throw
// StackOverflowError before the Go stack runs out.
const maxDepth = 4096

type frame struct {
	this   any
	locals []any
	depth  int
}

func newFrame(depth int, this any, slots int, args []any) *frame {
	fr := &frame{this: this, locals: make([]any, slots), depth: depth}
	copy(fr.locals, args)
	return fr
}

func (fr *frame) object() *loader.Object {
	o, _ := fr.this.(*loader.Object)
	return o
}

type local struct {
	name  string
	typ   *loader.Type
	slot  int
	final bool
}

type scope struct {
	parent *scope
	vars   map[string]*local
}

// target is a statement that break or continue may leave.
type target struct {
	labels []string
	loop   bool
	swtch  bool
	// broken records that some break leaves this statement, which makes it
	// complete normally.
	broken bool
}

func (t *target) hasLabel(label string) bool {
	for _, l := range t.labels {
		if l == label {
			return true
		}
	}
	return false
}

// body is the compilation context of one method, constructor or
// initializer.
type body struct {
	s  *session
	ci *classInfo

	static bool
	// ret is the declared return type, nil inside initializers.
	ret *loader.Type
	// ctor and init allow assignments to the class's final fields.
	ctor bool
	init bool
	// prologue is set while compiling the arguments of this(...) or
	// super(...), where the object is not yet usable.
	prologue bool

	scope   *scope
	slots   int
	targets []*target
}

func (s *session) newBody(ci *classInfo, static bool) *body {
	return &body{s: s, ci: ci, static: static, scope: &scope{vars: map[string]*local{}}}
}

func (b *body) push() {
	b.scope = &scope{parent: b.scope, vars: map[string]*local{}}
}

func (b *body) pop() {
	b.scope = b.scope.parent
}

func (b *body) lookupLocal(name string) *local {
	for sc := b.scope; sc != nil; sc = sc.parent {
		if l, ok := sc.vars[name]; ok {
			return l
		}
	}
	return nil
}

// declare adds a local to the innermost scope. A local may not shadow
// another local or parameter of the same body.
func (b *body) declare(loc ast.Location, name string, t *loader.Type, final bool) *local {
	if b.lookupLocal(name) != nil {
		fail(loc, KindDuplicate, "Redefinition of local variable %q", name)
	}
	l := &local{name: name, typ: t, slot: b.slots, final: final}
	b.slots++
	b.scope.vars[name] = l
	return l
}

// declareParams binds parameters to the first slots.
func (b *body) declareParams(params []*ast.FormalParameter, types []*loader.Type) {
	for i, p := range params {
		b.declare(p.Loc(), p.Name, types[i], p.Final)
	}
}

func (b *body) thisAvailable(loc ast.Location, what string) {
	if b.static {
		fail(loc, KindType, "%s cannot be accessed in static context", what)
	}
	if b.prologue {
		fail(loc, KindType, "%s cannot be accessed before the superclass constructor has been called", what)
	}
}
