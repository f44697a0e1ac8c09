package compiler

import (
	"strings"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
)

type refKind int

const (
	refValue refKind = iota
	refType
	refPackage
)

// ref is what a (partial) ambiguous name denotes.
type ref struct {
	kind  refKind
	val   *value
	lv    *lvalue
	class *loader.Class
	pkg   string
}

// lvalue is an assignable variable. bind evaluates the operands that locate
// the variable, such as the object of a field access.
type lvalue struct {
	typ  *loader.Type
	bind func(fr *frame) (cell, error)
}

type cell struct {
	get func() (any, error)
	set func(any) error
}

// resolveName classifies a dotted name: local variable, field, type, then
// package. Remaining identifiers select fields.
func (b *body) resolveName(loc ast.Location, ids []string) ref {
	r, rest := b.resolveFirst(loc, ids)
	for _, id := range rest {
		r = b.selectName(loc, r, id)
	}
	return r
}

func (b *body) resolveFirst(loc ast.Location, ids []string) (ref, []string) {
	name := ids[0]
	if l := b.lookupLocal(name); l != nil {
		return b.localRef(l), ids[1:]
	}
	if f, err := b.ci.class.Field(name); err == nil {
		return b.fieldRef(loc, nil, f), ids[1:]
	}
	if f := b.staticImportField(name); f != nil {
		return b.fieldRef(loc, nil, f), ids[1:]
	}
	if c := b.s.simpleType(b.ci.unit, loc, name); c != nil {
		return ref{kind: refType, class: c}, ids[1:]
	}
	pkg := name
	for i := 1; i < len(ids); i++ {
		q := pkg + "." + ids[i]
		if c := b.s.lookupClass(q); c != nil {
			return ref{kind: refType, class: c}, ids[i+1:]
		}
		pkg = q
	}
	return ref{kind: refPackage, pkg: pkg}, nil
}

func (b *body) staticImportField(name string) *loader.Field {
	u := b.ci.unit
	for _, c := range append(u.staticSingle[name], u.staticOnDemand...) {
		if f, err := c.Field(name); err == nil && f.Flags.IsStatic() {
			return f
		}
	}
	return nil
}

func (b *body) selectName(loc ast.Location, r ref, id string) ref {
	switch r.kind {
	case refPackage:
		q := r.pkg + "." + id
		if c := b.s.lookupClass(q); c != nil {
			return ref{kind: refType, class: c}
		}
		return ref{kind: refPackage, pkg: q}
	case refType:
		f, err := r.class.Field(id)
		if err != nil {
			fail(loc, KindResolution, "Class %q has no field %q", r.class.Name, id)
		}
		if !f.Flags.IsStatic() {
			fail(loc, KindType, "Instance field %q cannot be accessed through type %q", id, r.class.Name)
		}
		return b.fieldRef(loc, nil, f)
	}
	return b.memberRef(loc, r.val, id)
}

// memberRef selects a field, or the length of an array, of target.
func (b *body) memberRef(loc ast.Location, target *value, name string) ref {
	t := target.typ
	switch {
	case t.IsArray() && name == "length":
		eval := target.eval
		return ref{kind: refValue, val: &value{typ: loader.Int, eval: func(fr *frame) (any, error) {
			arr, err := eval(fr)
			if err != nil {
				return nil, err
			}
			return loader.ArrayLength(arr)
		}}}
	case t.Kind == loader.KindClass:
		f, err := t.Class.Field(name)
		if err != nil {
			fail(loc, KindResolution, "Class %q has no field %q", t.Class.Name, name)
		}
		return b.fieldRef(loc, target, f)
	}
	fail(loc, KindType, "Cannot access field %q of %s", name, t)
	return ref{}
}

func (b *body) localRef(l *local) ref {
	slot := l.slot
	r := ref{kind: refValue, val: &value{typ: l.typ, eval: func(fr *frame) (any, error) {
		return fr.locals[slot], nil
	}}}
	if !l.final {
		r.lv = &lvalue{typ: l.typ, bind: func(fr *frame) (cell, error) {
			return cell{
				get: func() (any, error) { return fr.locals[slot], nil },
				set: func(v any) error { fr.locals[slot] = v; return nil },
			}, nil
		}}
	}
	return r
}

// fieldRef reads f from target, or from this when target is nil and f is
// an instance field.
func (b *body) fieldRef(loc ast.Location, target *value, f *loader.Field) ref {
	if f.Flags.IsPrivate() && f.Class != b.ci.class {
		fail(loc, KindResolution, "Private field %q of %q is not accessible", f.Name, f.Class.Name)
	}
	static := f.Flags.IsStatic()
	if !static && target == nil {
		b.thisAvailable(loc, "Instance field \""+f.Name+"\"")
	}
	object := func(fr *frame) (*loader.Object, error) {
		if target == nil {
			return fr.object(), nil
		}
		v, err := target.eval(fr)
		if err != nil || static {
			return nil, err
		}
		o, _ := v.(*loader.Object)
		return o, nil
	}

	ld := b.s.c.loader
	r := ref{kind: refValue}
	if static && f.Flags.IsFinal() && f.Constant != nil && target == nil {
		r.val = constant(f.Type, f.Constant)
	} else {
		r.val = &value{typ: f.Type, eval: func(fr *frame) (any, error) {
			o, err := object(fr)
			if err != nil {
				return nil, err
			}
			return ld.Get(f, o)
		}}
	}
	if b.fieldAssignable(f) {
		r.lv = &lvalue{typ: f.Type, bind: func(fr *frame) (cell, error) {
			o, err := object(fr)
			if err != nil {
				return cell{}, err
			}
			if !static && o == nil {
				return cell{}, loader.NewException(loader.NullPointerException, "cannot assign field \""+f.Name+"\" of null")
			}
			return cell{
				get: func() (any, error) { return ld.Get(f, o) },
				set: func(v any) error { return f.Set(o, v) },
			}, nil
		}}
	}
	return r
}

// fieldAssignable allows final fields to be assigned only by the
// initializers and constructors of their class.
func (b *body) fieldAssignable(f *loader.Field) bool {
	if !f.Flags.IsFinal() {
		return true
	}
	if f.Class != b.ci.class {
		return false
	}
	if f.Flags.IsStatic() {
		return b.init && b.static
	}
	return (b.init || b.ctor) && !b.static
}

func describe(e ast.Expr) string {
	if n, ok := e.(*ast.AmbiguousName); ok {
		return strings.Join(n.Identifiers, ".")
	}
	return unparseExpr(e)
}
