package compiler

import (
	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
	"github.com/dhamidi/jcook/java/unparse"
)

func unparseExpr(e ast.Expr) string {
	return unparse.String(e)
}

// rvalue checks an expression that must produce a value.
func (b *body) rvalue(e ast.Expr) *value {
	v := b.expr(e)
	if v.typ == loader.Void {
		fail(e.Loc(), KindType, "Expression %q has type void", describe(e))
	}
	return v
}

func (b *body) condition(e ast.Expr) *value {
	v := b.rvalue(e)
	if v.typ.Kind != loader.KindBoolean {
		fail(e.Loc(), KindType, "Expression %q is not boolean but %s", describe(e), v.typ)
	}
	return v
}

// assign converts v for storage in a variable of type t.
func (b *body) assign(loc ast.Location, v *value, t *loader.Type) *value {
	switch {
	case v.typ == loader.Void:
		fail(loc, KindType, "Cannot assign a void expression")
	case v.typ.IsPrimitive() && t.IsPrimitive():
		if widens(v.typ, t) || fitsConstant(v, t) {
			return converted(v, t)
		}
	case refAssignable(v.typ, t):
		return converted(v, t)
	}
	fail(loc, KindType, "Assignment conversion not possible from type %q to type %q", v.typ, t)
	return nil
}

// initializer checks a variable initializer, which may be an array
// initializer when t is an array type.
func (b *body) initializer(e ast.Expr, t *loader.Type) *value {
	if ai, ok := e.(*ast.ArrayInitializer); ok {
		return b.arrayInitializer(ai, t)
	}
	return b.assign(e.Loc(), b.rvalue(e), t)
}

func (b *body) expr(e ast.Expr) *value {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return b.integerLiteral(e, false)
	case *ast.FloatingPointLiteral:
		return floatingLiteral(e)
	case *ast.BooleanLiteral:
		return constant(loader.Boolean, e.Value)
	case *ast.CharacterLiteral:
		return characterLiteral(e)
	case *ast.StringLiteral:
		return b.stringLiteral(e)
	case *ast.NullLiteral:
		return &value{typ: loader.Null, eval: func(*frame) (any, error) { return nil, nil }}
	case *ast.AmbiguousName:
		r := b.resolveName(e.Loc(), e.Identifiers)
		if r.kind != refValue {
			fail(e.Loc(), KindResolution, "Expression %q is not an rvalue", e.String())
		}
		return r.val
	case *ast.FieldAccessExpression:
		return b.fieldAccess(e).val
	case *ast.ArrayAccess:
		return b.arrayAccess(e).val
	case *ast.MethodInvocation:
		return b.invoke(e)
	case *ast.NewClassInstance:
		return b.newInstance(e)
	case *ast.NewArray:
		return b.newArray(e)
	case *ast.NewInitializedArray:
		return b.arrayInitializer(e.Initializer, b.s.resolveType(b.ci.unit, e.Type))
	case *ast.ArrayInitializer:
		fail(e.Loc(), KindType, "Array initializer is only allowed in a variable initializer or array creation")
	case *ast.ClassLiteral:
		return b.classLiteral(e)
	case *ast.ThisReference:
		b.thisAvailable(e.Loc(), "\"this\"")
		return &value{typ: b.ci.class.Type(), eval: func(fr *frame) (any, error) { return fr.this, nil }}
	case *ast.BinaryOperation:
		return b.binary(e)
	case *ast.UnaryOperation:
		return b.unary(e)
	case *ast.Crement:
		return b.crement(e)
	case *ast.Assignment:
		return b.assignment(e)
	case *ast.ConditionalExpression:
		return b.conditional(e)
	case *ast.Cast:
		return b.cast(e)
	case *ast.Instanceof:
		return b.instanceof(e)
	case nil:
		fail(ast.Location{}, KindType, "Missing expression")
	}
	fail(e.Loc(), KindUnsupported, "Unsupported expression %s", e.Kind())
	return nil
}

// fieldAccess handles target.field where target is an arbitrary
// expression; a dotted name target is resolved as a name first.
func (b *body) fieldAccess(e *ast.FieldAccessExpression) ref {
	if n, ok := e.Target.(*ast.AmbiguousName); ok {
		r := b.resolveName(n.Loc(), n.Identifiers)
		r = b.selectName(e.Loc(), r, e.Field)
		if r.kind != refValue {
			fail(e.Loc(), KindResolution, "Expression %q is not an rvalue", n.String()+"."+e.Field)
		}
		return r
	}
	return b.memberRef(e.Loc(), b.rvalue(e.Target), e.Field)
}

func (b *body) index(e ast.Expr) *value {
	i := b.rvalue(e)
	if !i.typ.IsIntegral() || unaryPromote(i.typ) != loader.Int {
		fail(e.Loc(), KindType, "Array index must be an int, not %s", i.typ)
	}
	return converted(i, loader.Int)
}

func (b *body) arrayAccess(e *ast.ArrayAccess) ref {
	arr := b.rvalue(e.Array)
	if !arr.typ.IsArray() {
		fail(e.Loc(), KindType, "%q is not an array but %s", describe(e.Array), arr.typ)
	}
	idx := b.index(e.Index)
	ae, ie := arr.eval, idx.eval
	operands := func(fr *frame) (any, int32, error) {
		a, err := ae(fr)
		if err != nil {
			return nil, 0, err
		}
		i, err := ie(fr)
		if err != nil {
			return nil, 0, err
		}
		return a, i.(int32), nil
	}
	elem := arr.typ.Elem
	return ref{
		kind: refValue,
		val: &value{typ: elem, eval: func(fr *frame) (any, error) {
			a, i, err := operands(fr)
			if err != nil {
				return nil, err
			}
			return loader.ArrayGet(a, i)
		}},
		lv: &lvalue{typ: elem, bind: func(fr *frame) (cell, error) {
			a, i, err := operands(fr)
			if err != nil {
				return cell{}, err
			}
			return cell{
				get: func() (any, error) { return loader.ArrayGet(a, i) },
				set: func(v any) error { return loader.ArraySet(a, i, v) },
			}, nil
		}},
	}
}

// lvalue checks the left-hand side of an assignment or crement.
func (b *body) lvalue(e ast.Expr) *lvalue {
	var r ref
	switch e := e.(type) {
	case *ast.AmbiguousName:
		r = b.resolveName(e.Loc(), e.Identifiers)
	case *ast.FieldAccessExpression:
		r = b.fieldAccess(e)
	case *ast.ArrayAccess:
		r = b.arrayAccess(e)
	default:
		fail(e.Loc(), KindType, "Expression %q is not an lvalue", describe(e))
	}
	if r.kind != refValue {
		fail(e.Loc(), KindResolution, "Expression %q is not an lvalue", describe(e))
	}
	if r.lv == nil {
		fail(e.Loc(), KindType, "Cannot assign a value to final variable %q", describe(e))
	}
	return r.lv
}

func (b *body) assignment(e *ast.Assignment) *value {
	lv := b.lvalue(e.Left)
	bind := lv.bind
	if e.Op == "=" {
		r := b.initializerOrValue(e.Right, lv.typ)
		re := r.eval
		return &value{typ: lv.typ, eval: func(fr *frame) (any, error) {
			c, err := bind(fr)
			if err != nil {
				return nil, err
			}
			v, err := re(fr)
			if err != nil {
				return nil, err
			}
			return v, c.set(v)
		}}
	}
	op, ok := ast.CompoundOperator(e.Op)
	if !ok {
		fail(e.Loc(), KindUnsupported, "Unknown assignment operator %q", e.Op)
	}
	r := b.rvalue(e.Right)
	o := b.operator(e.Loc(), op, lv.typ, r.typ)
	back := b.narrowBack(e.Loc(), e.Op, o.typ, lv.typ)
	re := r.eval
	return &value{typ: lv.typ, eval: func(fr *frame) (any, error) {
		c, err := bind(fr)
		if err != nil {
			return nil, err
		}
		cur, err := c.get()
		if err != nil {
			return nil, err
		}
		rv, err := re(fr)
		if err != nil {
			return nil, err
		}
		res, err := o.run(fr, cur, rv)
		if err != nil {
			return nil, err
		}
		res = apply(back, res)
		return res, c.set(res)
	}}
}

func (b *body) initializerOrValue(e ast.Expr, t *loader.Type) *value {
	if _, ok := e.(*ast.ArrayInitializer); ok {
		fail(e.Loc(), KindType, "Array initializer is only allowed in a variable initializer or array creation")
	}
	return b.assign(e.Loc(), b.rvalue(e), t)
}

// narrowBack is the implicit cast of a compound assignment's result to the
// variable type.
func (b *body) narrowBack(loc ast.Location, op string, from, to *loader.Type) func(any) any {
	switch {
	case from.IsNumeric() && to.IsNumeric():
		return converter(from, to)
	case from.Equal(to):
		return nil
	}
	fail(loc, KindType, "Operator %q cannot store %s in a variable of type %s", op, from, to)
	return nil
}

func (b *body) crement(e *ast.Crement) *value {
	lv := b.lvalue(e.Operand)
	if !lv.typ.IsNumeric() {
		fail(e.Loc(), KindType, "Operator %q cannot be applied to %s", e.Op, lv.typ)
	}
	op := "+"
	if e.Op == "--" {
		op = "-"
	}
	o := b.operator(e.Loc(), op, lv.typ, loader.Int)
	back := converter(o.typ, lv.typ)
	bind, postfix := lv.bind, e.Postfix
	return &value{typ: lv.typ, eval: func(fr *frame) (any, error) {
		c, err := bind(fr)
		if err != nil {
			return nil, err
		}
		cur, err := c.get()
		if err != nil {
			return nil, err
		}
		res, err := o.run(fr, cur, int32(1))
		if err != nil {
			return nil, err
		}
		res = apply(back, res)
		if err := c.set(res); err != nil {
			return nil, err
		}
		if postfix {
			return cur, nil
		}
		return res, nil
	}}
}

func (b *body) conditional(e *ast.ConditionalExpression) *value {
	cond := b.condition(e.Cond)
	th, el := b.rvalue(e.Then), b.rvalue(e.Else)
	t := b.conditionalType(e.Loc(), th, el)
	th, el = converted(th, t), converted(el, t)
	ce, te, ee := cond.eval, th.eval, el.eval
	return fold(&value{typ: t, eval: func(fr *frame) (any, error) {
		c, err := ce(fr)
		if err != nil {
			return nil, err
		}
		if c.(bool) {
			return te(fr)
		}
		return ee(fr)
	}}, cond, th, el)
}

func (b *body) conditionalType(loc ast.Location, a, c *value) *loader.Type {
	at, ct := a.typ, c.typ
	switch {
	case at.Equal(ct):
		return at
	case at.IsNumeric() && ct.IsNumeric():
		if rank(at.Kind) < rank(loader.KindInt) && fitsConstant(c, at) {
			return at
		}
		if rank(ct.Kind) < rank(loader.KindInt) && fitsConstant(a, ct) {
			return ct
		}
		return binaryPromote(at, ct)
	case at.Kind == loader.KindNull && ct.IsReference():
		return ct
	case ct.Kind == loader.KindNull && at.IsReference():
		return at
	case at.IsReference() && ct.IsReference():
		if refAssignable(at, ct) {
			return ct
		}
		if refAssignable(ct, at) {
			return at
		}
	}
	fail(loc, KindType, "Incompatible expression types %s and %s", at, ct)
	return nil
}

func (b *body) cast(e *ast.Cast) *value {
	t := b.s.resolveType(b.ci.unit, e.Type)
	v := b.rvalue(e.Value)
	switch {
	case t.IsNumeric() && v.typ.IsNumeric():
		return converted(v, t)
	case t.Kind == loader.KindBoolean && v.typ.Kind == loader.KindBoolean:
		return v
	case t.IsReference() && v.typ.IsReference():
		if !castable(v.typ, t) {
			break
		}
		if refAssignable(v.typ, t) {
			return converted(v, t)
		}
		eval := v.eval
		return &value{typ: t, eval: func(fr *frame) (any, error) {
			x, err := eval(fr)
			if err != nil {
				return nil, err
			}
			if x != nil && !loader.InstanceOf(x, t) {
				return nil, loader.NewException(loader.ClassCastException,
					"class "+loader.ClassOf(x).Name+" cannot be cast to "+t.Name())
			}
			return x, nil
		}}
	}
	fail(e.Loc(), KindType, "Cannot cast %q to %q", v.typ, t)
	return nil
}

func (b *body) instanceof(e *ast.Instanceof) *value {
	v := b.rvalue(e.Value)
	t := b.s.resolveType(b.ci.unit, e.Type)
	if !v.typ.IsReference() || !t.IsReference() || !castable(v.typ, t) {
		fail(e.Loc(), KindType, "Incompatible types %s and %s for instanceof", v.typ, t)
	}
	eval := v.eval
	return &value{typ: loader.Boolean, eval: func(fr *frame) (any, error) {
		x, err := eval(fr)
		if err != nil {
			return nil, err
		}
		return loader.InstanceOf(x, t), nil
	}}
}

// classLiteral evaluates to the *loader.Class itself. Primitive and array
// class objects do not exist at run time.
func (b *body) classLiteral(e *ast.ClassLiteral) *value {
	t := b.s.resolveType(b.ci.unit, e.Type)
	if t.Kind != loader.KindClass {
		fail(e.Loc(), KindUnsupported, "Class literal of %s is not supported", t)
	}
	c := t.Class
	return &value{typ: b.s.lookupClass("java.lang.Class").Type(), eval: func(*frame) (any, error) {
		return c, nil
	}}
}

func (b *body) newArray(e *ast.NewArray) *value {
	elem := b.s.resolveType(b.ci.unit, e.Type)
	if elem == loader.Void {
		fail(e.Loc(), KindType, "Array of void")
	}
	if len(e.Dimensions) == 0 {
		fail(e.Loc(), KindType, "Array creation needs a dimension or an initializer")
	}
	t := withBrackets(elem, len(e.Dimensions)+e.ExtraDims)
	dims := make([]evalFunc, len(e.Dimensions))
	for i, d := range e.Dimensions {
		dims[i] = b.index(d).eval
	}
	return &value{typ: t, eval: func(fr *frame) (any, error) {
		ns := make([]int32, len(dims))
		for i, d := range dims {
			n, err := d(fr)
			if err != nil {
				return nil, err
			}
			ns[i] = n.(int32)
		}
		return loader.NewArray(t, ns)
	}}
}

func (b *body) arrayInitializer(ai *ast.ArrayInitializer, t *loader.Type) *value {
	if !t.IsArray() {
		fail(ai.Loc(), KindType, "Array initializer for non-array type %s", t)
	}
	elems := make([]evalFunc, len(ai.Values))
	for i, v := range ai.Values {
		elems[i] = b.initializer(v, t.Elem).eval
	}
	return &value{typ: t, eval: func(fr *frame) (any, error) {
		vals := make([]any, len(elems))
		for i, el := range elems {
			v, err := el(fr)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return loader.ArrayFromValues(t, vals), nil
	}}
}
