package compiler

import (
	"fmt"
	"strings"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
)

// candidates lists the methods named name that c offers. Interfaces also
// offer the methods of java.lang.Object.
func (b *body) candidates(c *loader.Class, name string) []*loader.Method {
	ms := c.MethodsNamed(name)
	if c.IsInterface() {
		ms = append(ms, b.s.object().MethodsNamed(name)...)
	}
	return ms
}

// selectOverload picks the most specific applicable method for args, first
// without and then with variable arity.
func (b *body) selectOverload(loc ast.Location, what string, cands []*loader.Method, args []*value) (*loader.Method, bool) {
	var accessible []*loader.Method
	for _, m := range cands {
		if m.Flags.IsPrivate() && m.Class != b.ci.class {
			continue
		}
		accessible = append(accessible, m)
	}
	if len(accessible) == 0 && len(cands) > 0 {
		fail(loc, KindResolution, "Private %s is not accessible", what)
	}

	var applicable []*loader.Method
	for _, m := range accessible {
		if fixedApplicable(m, args) {
			applicable = append(applicable, m)
		}
	}
	varargs := false
	if len(applicable) == 0 {
		for _, m := range accessible {
			if varargsApplicable(m, args) {
				applicable = append(applicable, m)
			}
		}
		varargs = true
	}
	if len(applicable) == 0 {
		types := make([]string, len(args))
		for i, a := range args {
			types[i] = a.typ.Name()
		}
		fail(loc, KindResolution, "No applicable %s found for actual parameters %q", what, strings.Join(types, ", "))
	}

	var best []*loader.Method
	for _, m := range applicable {
		maximal := true
		for _, o := range applicable {
			if o != m && moreSpecific(o, m) && !moreSpecific(m, o) {
				maximal = false
				break
			}
		}
		if maximal {
			best = append(best, m)
		}
	}
	if len(best) > 1 && sameSignature(best) {
		best = best[:1]
	}
	if len(best) != 1 {
		fail(loc, KindResolution, "Invocation of %s is ambiguous", what)
	}
	return best[0], varargs
}

// sameSignature reports methods that only differ in where they are
// declared; the first, most derived one is used.
func sameSignature(ms []*loader.Method) bool {
	key := loader.MethodDescriptor(ms[0].Params, loader.Void)
	for _, m := range ms[1:] {
		if loader.MethodDescriptor(m.Params, loader.Void) != key {
			return false
		}
	}
	return true
}

func fixedApplicable(m *loader.Method, args []*value) bool {
	if len(m.Params) != len(args) {
		return false
	}
	for i, a := range args {
		if !invocationConvertible(a.typ, m.Params[i]) {
			return false
		}
	}
	return true
}

func varargsApplicable(m *loader.Method, args []*value) bool {
	if !m.Flags.IsVarargs() || len(args) < len(m.Params)-1 {
		return false
	}
	fixed := len(m.Params) - 1
	for i := range fixed {
		if !invocationConvertible(args[i].typ, m.Params[i]) {
			return false
		}
	}
	elem := m.Params[fixed].Elem
	for _, a := range args[fixed:] {
		if !invocationConvertible(a.typ, elem) {
			return false
		}
	}
	return true
}

// moreSpecific reports whether every parameter of m converts to the
// corresponding parameter of o.
func moreSpecific(m, o *loader.Method) bool {
	if len(m.Params) != len(o.Params) {
		return len(m.Params) < len(o.Params)
	}
	for i, p := range m.Params {
		if !invocationConvertible(p, o.Params[i]) {
			return false
		}
	}
	return true
}

// arguments converts the checked arguments to the parameter types of m,
// packing trailing arguments into an array for a variable-arity call.
func arguments(m *loader.Method, args []*value, varargs bool) []evalFunc {
	if !varargs {
		out := make([]evalFunc, len(args))
		for i, a := range args {
			out[i] = converted(a, m.Params[i]).eval
		}
		return out
	}
	fixed := len(m.Params) - 1
	out := make([]evalFunc, fixed+1)
	for i := range fixed {
		out[i] = converted(args[i], m.Params[i]).eval
	}
	at := m.Params[fixed]
	rest := make([]evalFunc, len(args)-fixed)
	for i, a := range args[fixed:] {
		rest[i] = converted(a, at.Elem).eval
	}
	out[fixed] = func(fr *frame) (any, error) {
		vals, err := evalAll(fr, rest)
		if err != nil {
			return nil, err
		}
		return loader.ArrayFromValues(at, vals), nil
	}
	return out
}

func evalAll(fr *frame, evals []evalFunc) ([]any, error) {
	vals := make([]any, len(evals))
	for i, e := range evals {
		v, err := e(fr)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (b *body) argumentValues(args []ast.Expr) []*value {
	vals := make([]*value, len(args))
	for i, a := range args {
		vals[i] = b.rvalue(a)
	}
	return vals
}

// call runs m on recv, dispatching instance methods on the receiver's
// runtime class.
func call(fr *frame, m *loader.Method, recv any, args []any) (any, error) {
	if m.Flags.IsStatic() {
		if err := m.Class.Initialize(); err != nil {
			return nil, err
		}
		return invokeFrom(fr, m, nil, args)
	}
	if recv == nil {
		return nil, loader.NewException(loader.NullPointerException,
			fmt.Sprintf("Cannot invoke %q because the receiver is null", m.String()))
	}
	impl := loader.ClassOf(recv).Dispatch(m)
	if impl.Impl == nil {
		return nil, fmt.Errorf("%w: %s is abstract", loader.ErrNoSuchMethod, m)
	}
	return invokeFrom(fr, impl, recv, args)
}

// invokeFrom runs the implementation of m one frame deeper than fr.
func invokeFrom(fr *frame, m *loader.Method, this any, args []any) (any, error) {
	depth := fr.depth + 1
	if depth > maxDepth {
		return nil, loader.NewException(loader.StackOverflowError, "")
	}
	if m.Run != nil {
		return m.Run(depth, this, args)
	}
	return m.Impl(this, args)
}

func (b *body) invoke(e *ast.MethodInvocation) *value {
	var (
		target     *value
		cands      []*loader.Method
		staticOnly bool
		implicit   bool
	)
	switch t := e.Target.(type) {
	case nil:
		cands = b.candidates(b.ci.class, e.Name)
		implicit = true
		if len(cands) == 0 {
			cands = b.staticImportMethods(e.Name)
			staticOnly = true
		}
		if len(cands) == 0 {
			fail(e.Loc(), KindResolution,
				"A method named %q is not declared in any enclosing class nor any supertype, nor through a static import", e.Name)
		}
	case *ast.AmbiguousName:
		r := b.resolveName(t.Loc(), t.Identifiers)
		switch r.kind {
		case refType:
			cands = b.candidates(r.class, e.Name)
			staticOnly = true
		case refPackage:
			fail(t.Loc(), KindResolution, "Expression %q is not an rvalue", t.String())
		default:
			target = r.val
		}
	default:
		target = b.rvalue(t)
	}
	if target != nil {
		cands = b.candidates(b.receiverClass(e.Loc(), target.typ), e.Name)
	}
	if len(cands) == 0 && !implicit {
		fail(e.Loc(), KindResolution, "Method %q not found", e.Name)
	}

	args := b.argumentValues(e.Arguments)
	m, varargs := b.selectOverload(e.Loc(), "method \""+e.Name+"\"", cands, args)
	static := m.Flags.IsStatic()
	switch {
	case staticOnly && !static:
		fail(e.Loc(), KindType, "Instance method %q cannot be invoked without an object", m.String())
	case implicit && !static && !staticOnly:
		b.thisAvailable(e.Loc(), "Instance method \""+e.Name+"\"")
	}
	argv := arguments(m, args, varargs)

	var recv evalFunc
	switch {
	case target != nil:
		recv = target.eval
	case !static:
		recv = func(fr *frame) (any, error) { return fr.this, nil }
	}
	return &value{typ: m.Return, eval: func(fr *frame) (any, error) {
		var r any
		if recv != nil {
			var err error
			if r, err = recv(fr); err != nil {
				return nil, err
			}
		}
		vals, err := evalAll(fr, argv)
		if err != nil {
			return nil, err
		}
		return call(fr, m, r, vals)
	}}
}

func (b *body) receiverClass(loc ast.Location, t *loader.Type) *loader.Class {
	switch t.Kind {
	case loader.KindClass:
		return t.Class
	case loader.KindArray:
		return b.s.object()
	}
	fail(loc, KindType, "Cannot invoke a method on %s", t)
	return nil
}

func (b *body) staticImportMethods(name string) []*loader.Method {
	u := b.ci.unit
	var out []*loader.Method
	for _, c := range append(u.staticSingle[name], u.staticOnDemand...) {
		for _, m := range c.MethodsNamed(name) {
			if m.Flags.IsStatic() {
				out = append(out, m)
			}
		}
	}
	return out
}

func (b *body) newInstance(e *ast.NewClassInstance) *value {
	c := b.s.resolveClass(b.ci.unit, e.Type)
	if c.IsInterface() || c.Flags.IsAbstract() {
		fail(e.Loc(), KindType, "Cannot instantiate abstract %q", c.Name)
	}
	args := b.argumentValues(e.Arguments)
	ctor, varargs := b.selectOverload(e.Loc(), "constructor of \""+c.Name+"\"", c.Constructors, args)
	argv := arguments(ctor, args, varargs)
	valueClass := c.Name == "java.lang.String"
	return &value{typ: c.Type(), eval: func(fr *frame) (any, error) {
		vals, err := evalAll(fr, argv)
		if err != nil {
			return nil, err
		}
		if valueClass {
			return invokeFrom(fr, ctor, nil, vals)
		}
		if err := c.Initialize(); err != nil {
			return nil, err
		}
		obj := c.Allocate()
		if _, err := invokeFrom(fr, ctor, obj, vals); err != nil {
			return nil, err
		}
		return obj, nil
	}}
}

// constructorCall checks an explicit or implicit this(...) or super(...)
// and returns the constructor and its argument closures.
func (b *body) constructorCall(info *methodInfo) (*loader.Method, []evalFunc) {
	inv := info.invocation
	c := b.ci.class.Super
	loc := info.loc
	var argExprs []ast.Expr
	if inv != nil {
		loc = inv.Loc()
		argExprs = inv.Arguments
		if !inv.Super {
			c = b.ci.class
		}
	}
	b.prologue = true
	args := b.argumentValues(argExprs)
	b.prologue = false
	what := "constructor of \"" + c.Name + "\""
	ctor, varargs := b.selectOverload(loc, what, c.Constructors, args)
	if ctor == info.method {
		fail(loc, KindType, "Recursive constructor invocation")
	}
	return ctor, arguments(ctor, args, varargs)
}
