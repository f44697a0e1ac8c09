package compiler

import (
	"math"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
)

type binaryFunc func(a, b any) (any, error)

// operation is a checked binary operator: operands are converted by
// left and right before fn sees them.
type operation struct {
	typ         *loader.Type
	left, right func(any) any
	fn          binaryFunc

	// inFrame replaces fn for operators that may run methods.
	inFrame func(fr *frame, a, b any) (any, error)
}

func (o operation) run(fr *frame, a, b any) (any, error) {
	a, b = apply(o.left, a), apply(o.right, b)
	if o.inFrame != nil {
		return o.inFrame(fr, a, b)
	}
	return o.fn(a, b)
}

func divideByZero() error {
	return loader.NewException(loader.ArithmeticException, "/ by zero")
}

func intArith[T int32 | int64](op string) binaryFunc {
	switch op {
	case "+":
		return func(a, b any) (any, error) { return a.(T) + b.(T), nil }
	case "-":
		return func(a, b any) (any, error) { return a.(T) - b.(T), nil }
	case "*":
		return func(a, b any) (any, error) { return a.(T) * b.(T), nil }
	case "/":
		return func(a, b any) (any, error) {
			if b.(T) == 0 {
				return nil, divideByZero()
			}
			return a.(T) / b.(T), nil
		}
	case "%":
		return func(a, b any) (any, error) {
			if b.(T) == 0 {
				return nil, divideByZero()
			}
			return a.(T) % b.(T), nil
		}
	case "&":
		return func(a, b any) (any, error) { return a.(T) & b.(T), nil }
	case "|":
		return func(a, b any) (any, error) { return a.(T) | b.(T), nil }
	case "^":
		return func(a, b any) (any, error) { return a.(T) ^ b.(T), nil }
	}
	return nil
}

func floatArith[T float32 | float64](op string) binaryFunc {
	switch op {
	case "+":
		return func(a, b any) (any, error) { return a.(T) + b.(T), nil }
	case "-":
		return func(a, b any) (any, error) { return a.(T) - b.(T), nil }
	case "*":
		return func(a, b any) (any, error) { return a.(T) * b.(T), nil }
	case "/":
		return func(a, b any) (any, error) { return a.(T) / b.(T), nil }
	case "%":
		return func(a, b any) (any, error) { return T(math.Mod(float64(a.(T)), float64(b.(T)))), nil }
	}
	return nil
}

func compare[T int32 | int64 | float32 | float64](op string) binaryFunc {
	switch op {
	case "<":
		return func(a, b any) (any, error) { return a.(T) < b.(T), nil }
	case ">":
		return func(a, b any) (any, error) { return a.(T) > b.(T), nil }
	case "<=":
		return func(a, b any) (any, error) { return a.(T) <= b.(T), nil }
	case ">=":
		return func(a, b any) (any, error) { return a.(T) >= b.(T), nil }
	case "==":
		return func(a, b any) (any, error) { return a.(T) == b.(T), nil }
	case "!=":
		return func(a, b any) (any, error) { return a.(T) != b.(T), nil }
	}
	return nil
}

func numericOp(op string, k loader.TypeKind) binaryFunc {
	switch op {
	case "<", ">", "<=", ">=", "==", "!=":
		switch k {
		case loader.KindInt:
			return compare[int32](op)
		case loader.KindLong:
			return compare[int64](op)
		case loader.KindFloat:
			return compare[float32](op)
		case loader.KindDouble:
			return compare[float64](op)
		}
	}
	switch k {
	case loader.KindInt:
		return intArith[int32](op)
	case loader.KindLong:
		return intArith[int64](op)
	case loader.KindFloat:
		return floatArith[float32](op)
	case loader.KindDouble:
		return floatArith[float64](op)
	}
	return nil
}

// shiftOp shifts an int or long by a long count, using only the low five or
// six bits of the count.
func shiftOp(op string, k loader.TypeKind) binaryFunc {
	if k == loader.KindInt {
		switch op {
		case "<<":
			return func(a, b any) (any, error) { return a.(int32) << (b.(int64) & 31), nil }
		case ">>":
			return func(a, b any) (any, error) { return a.(int32) >> (b.(int64) & 31), nil }
		case ">>>":
			return func(a, b any) (any, error) { return int32(uint32(a.(int32)) >> (b.(int64) & 31)), nil }
		}
		return nil
	}
	switch op {
	case "<<":
		return func(a, b any) (any, error) { return a.(int64) << (b.(int64) & 63), nil }
	case ">>":
		return func(a, b any) (any, error) { return a.(int64) >> (b.(int64) & 63), nil }
	case ">>>":
		return func(a, b any) (any, error) { return int64(uint64(a.(int64)) >> (b.(int64) & 63)), nil }
	}
	return nil
}

func booleanOp(op string) binaryFunc {
	switch op {
	case "&":
		return func(a, b any) (any, error) { return a.(bool) && b.(bool), nil }
	case "|":
		return func(a, b any) (any, error) { return a.(bool) || b.(bool), nil }
	case "^", "!=":
		return func(a, b any) (any, error) { return a.(bool) != b.(bool), nil }
	case "==":
		return func(a, b any) (any, error) { return a.(bool) == b.(bool), nil }
	}
	return nil
}

func concat(fr *frame, a, b any) (any, error) {
	sa, err := stringify(fr, a)
	if err != nil {
		return nil, err
	}
	sb, err := stringify(fr, b)
	if err != nil {
		return nil, err
	}
	return sa + sb, nil
}

// stringify converts v like String.valueOf. A compiled toString runs one
// frame deeper than fr.
func stringify(fr *frame, v any) (string, error) {
	obj, ok := v.(*loader.Object)
	if !ok || fr == nil {
		return loader.Stringify(v)
	}
	m, err := obj.Class.Method("toString")
	if err != nil || m.Run == nil {
		return loader.Stringify(v)
	}
	s, err := invokeFrom(fr, m, obj, nil)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "null", nil
	}
	return s.(string), nil
}

// operator checks a binary operator, other than && and ||, applied to
// operands of types lt and rt.
func (b *body) operator(loc ast.Location, op string, lt, rt *loader.Type) operation {
	if lt == loader.Void || rt == loader.Void {
		fail(loc, KindType, "Operator %q cannot be applied to void", op)
	}
	bad := func() operation {
		fail(loc, KindType, "Operator %q cannot be applied to %s and %s", op, lt, rt)
		return operation{}
	}
	switch op {
	case "+", "-", "*", "/", "%":
		if op == "+" && (lt.Is("java.lang.String") || rt.Is("java.lang.String")) {
			return operation{typ: b.s.lookupClass("java.lang.String").Type(), inFrame: concat}
		}
		if !lt.IsNumeric() || !rt.IsNumeric() {
			return bad()
		}
		pt := binaryPromote(lt, rt)
		return operation{typ: pt, left: converter(lt, pt), right: converter(rt, pt), fn: numericOp(op, pt.Kind)}
	case "<<", ">>", ">>>":
		if !lt.IsIntegral() || !rt.IsIntegral() {
			return bad()
		}
		pt := unaryPromote(lt)
		return operation{typ: pt, left: converter(lt, pt), right: converter(rt, loader.Long), fn: shiftOp(op, pt.Kind)}
	case "<", ">", "<=", ">=":
		if !lt.IsNumeric() || !rt.IsNumeric() {
			return bad()
		}
		pt := binaryPromote(lt, rt)
		return operation{typ: loader.Boolean, left: converter(lt, pt), right: converter(rt, pt), fn: numericOp(op, pt.Kind)}
	case "==", "!=":
		switch {
		case lt.IsNumeric() && rt.IsNumeric():
			pt := binaryPromote(lt, rt)
			return operation{typ: loader.Boolean, left: converter(lt, pt), right: converter(rt, pt), fn: numericOp(op, pt.Kind)}
		case lt.Kind == loader.KindBoolean && rt.Kind == loader.KindBoolean:
			return operation{typ: loader.Boolean, fn: booleanOp(op)}
		case lt.IsReference() && rt.IsReference():
			if !castable(lt, rt) {
				fail(loc, KindType, "Incomparable types %s and %s", lt, rt)
			}
			eq := op == "=="
			return operation{typ: loader.Boolean, fn: func(a, b any) (any, error) {
				return loader.SameReference(a, b) == eq, nil
			}}
		}
		return bad()
	case "&", "|", "^":
		switch {
		case lt.Kind == loader.KindBoolean && rt.Kind == loader.KindBoolean:
			return operation{typ: loader.Boolean, fn: booleanOp(op)}
		case lt.IsIntegral() && rt.IsIntegral():
			pt := binaryPromote(lt, rt)
			return operation{typ: pt, left: converter(lt, pt), right: converter(rt, pt), fn: numericOp(op, pt.Kind)}
		}
		return bad()
	}
	fail(loc, KindUnsupported, "Unknown operator %q", op)
	return operation{}
}

// combine builds the value of l op r and folds it when both operands are
// constants. A constant operation that throws stays a run-time operation.
func combine(o operation, l, r *value) *value {
	le, re := l.eval, r.eval
	v := &value{typ: o.typ, eval: func(fr *frame) (any, error) {
		a, err := le(fr)
		if err != nil {
			return nil, err
		}
		c, err := re(fr)
		if err != nil {
			return nil, err
		}
		return o.run(fr, a, c)
	}}
	return fold(v, l, r)
}

// fold evaluates v at compile time when all of its operands are constants.
func fold(v *value, operands ...*value) *value {
	for _, op := range operands {
		if !op.isConstant() {
			return v
		}
	}
	res, err := v.eval(nil)
	if err != nil || res == nil {
		return v
	}
	return constant(v.typ, res)
}

func (b *body) unary(e *ast.UnaryOperation) *value {
	var operand *value
	if lit, ok := e.Operand.(*ast.IntegerLiteral); ok && e.Op == "-" {
		operand = b.integerLiteral(lit, true)
	} else {
		operand = b.rvalue(e.Operand)
	}
	t := operand.typ
	var fn func(any) any
	switch e.Op {
	case "+", "-":
		if !t.IsNumeric() {
			fail(e.Loc(), KindType, "Operator %q cannot be applied to %s", e.Op, t)
		}
		operand = converted(operand, unaryPromote(t))
		if e.Op == "+" {
			return operand
		}
		switch operand.typ.Kind {
		case loader.KindInt:
			fn = func(v any) any { return -v.(int32) }
		case loader.KindLong:
			fn = func(v any) any { return -v.(int64) }
		case loader.KindFloat:
			fn = func(v any) any { return -v.(float32) }
		default:
			fn = func(v any) any { return -v.(float64) }
		}
	case "~":
		if !t.IsIntegral() {
			fail(e.Loc(), KindType, "Operator \"~\" cannot be applied to %s", t)
		}
		operand = converted(operand, unaryPromote(t))
		if operand.typ.Kind == loader.KindInt {
			fn = func(v any) any { return ^v.(int32) }
		} else {
			fn = func(v any) any { return ^v.(int64) }
		}
	case "!":
		if t.Kind != loader.KindBoolean {
			fail(e.Loc(), KindType, "Operator \"!\" cannot be applied to %s", t)
		}
		fn = func(v any) any { return !v.(bool) }
	default:
		fail(e.Loc(), KindUnsupported, "Unknown unary operator %q", e.Op)
	}
	eval := operand.eval
	return fold(&value{typ: operand.typ, eval: func(fr *frame) (any, error) {
		v, err := eval(fr)
		if err != nil {
			return nil, err
		}
		return fn(v), nil
	}}, operand)
}

func (b *body) binary(e *ast.BinaryOperation) *value {
	if e.Op == "&&" || e.Op == "||" {
		return b.conditionalAndOr(e)
	}
	l, r := b.rvalue(e.Left), b.rvalue(e.Right)
	return combine(b.operator(e.Loc(), e.Op, l.typ, r.typ), l, r)
}

func (b *body) conditionalAndOr(e *ast.BinaryOperation) *value {
	l, r := b.condition(e.Left), b.condition(e.Right)
	le, re := l.eval, r.eval
	and := e.Op == "&&"
	return fold(&value{typ: loader.Boolean, eval: func(fr *frame) (any, error) {
		a, err := le(fr)
		if err != nil {
			return nil, err
		}
		if a.(bool) != and {
			return a, nil
		}
		return re(fr)
	}}, l, r)
}
