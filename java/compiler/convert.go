package compiler

import (
	"fortio.org/safecast"

	"github.com/dhamidi/jcook/java/loader"
)

// value is a checked expression: its static type, the closure computing it
// and, for compile-time constants, the folded value.
type value struct {
	typ   *loader.Type
	eval  evalFunc
	konst any
}

type evalFunc func(fr *frame) (any, error)

func constant(t *loader.Type, v any) *value {
	return &value{typ: t, konst: v, eval: func(*frame) (any, error) { return v, nil }}
}

func (v *value) isConstant() bool {
	return v.konst != nil
}

// rank orders the numeric kinds for widening; char sits beside short.
func rank(k loader.TypeKind) int {
	switch k {
	case loader.KindByte:
		return 1
	case loader.KindShort, loader.KindChar:
		return 2
	case loader.KindInt:
		return 3
	case loader.KindLong:
		return 4
	case loader.KindFloat:
		return 5
	case loader.KindDouble:
		return 6
	}
	return 0
}

// widens reports a widening primitive conversion, identity included.
func widens(from, to *loader.Type) bool {
	if from.Kind == to.Kind {
		return true
	}
	if !from.IsNumeric() || !to.IsNumeric() {
		return false
	}
	switch {
	case to.Kind == loader.KindChar:
		return false
	case from.Kind == loader.KindChar:
		return rank(to.Kind) >= rank(loader.KindInt)
	}
	return rank(from.Kind) < rank(to.Kind)
}

func unaryPromote(t *loader.Type) *loader.Type {
	switch t.Kind {
	case loader.KindByte, loader.KindShort, loader.KindChar:
		return loader.Int
	}
	return t
}

func binaryPromote(a, b *loader.Type) *loader.Type {
	switch {
	case a.Kind == loader.KindDouble || b.Kind == loader.KindDouble:
		return loader.Double
	case a.Kind == loader.KindFloat || b.Kind == loader.KindFloat:
		return loader.Float
	case a.Kind == loader.KindLong || b.Kind == loader.KindLong:
		return loader.Long
	}
	return loader.Int
}

// refAssignable reports a widening reference conversion.
func refAssignable(from, to *loader.Type) bool {
	if !from.IsReference() || !to.IsReference() || to.Kind == loader.KindNull {
		return false
	}
	if from.Kind == loader.KindNull || to.Equal(from) || to.Is("java.lang.Object") {
		return true
	}
	switch {
	case to.Kind == loader.KindClass && from.Kind == loader.KindClass:
		return to.Class.IsAssignableFrom(from.Class)
	case to.Kind == loader.KindArray && from.Kind == loader.KindArray:
		if to.Elem.IsPrimitive() || from.Elem.IsPrimitive() {
			return to.Elem.Equal(from.Elem)
		}
		return refAssignable(from.Elem, to.Elem)
	}
	return false
}

// castable reports whether a cast between two reference types may succeed.
func castable(from, to *loader.Type) bool {
	if refAssignable(from, to) || refAssignable(to, from) {
		return true
	}
	switch {
	case from.Kind == loader.KindClass && to.Kind == loader.KindClass:
		if from.Class.IsInterface() && !to.Class.Flags.IsFinal() {
			return true
		}
		return to.Class.IsInterface() && !from.Class.Flags.IsFinal()
	case from.Kind == loader.KindArray && to.Kind == loader.KindArray:
		return from.Elem.IsReference() && to.Elem.IsReference() && castable(from.Elem, to.Elem)
	}
	return false
}

// invocationConvertible is assignment conversion without constant
// narrowing.
func invocationConvertible(from, to *loader.Type) bool {
	if from.IsPrimitive() && to.IsPrimitive() {
		return widens(from, to)
	}
	return refAssignable(from, to)
}

// fitsConstant reports whether an int constant may be narrowed to a byte,
// short or char variable.
func fitsConstant(v *value, to *loader.Type) bool {
	if !v.isConstant() || !v.typ.IsIntegral() || v.typ.Kind == loader.KindLong {
		return false
	}
	n := toInt64(v.konst)
	var err error
	switch to.Kind {
	case loader.KindByte:
		_, err = safecast.Conv[int8](n)
	case loader.KindShort:
		_, err = safecast.Conv[int16](n)
	case loader.KindChar:
		_, err = safecast.Conv[uint16](n)
	default:
		return false
	}
	return err == nil
}

// converter returns the run-time conversion from one primitive type to
// another, or nil when values pass unchanged.
func converter(from, to *loader.Type) func(any) any {
	if from.Kind == to.Kind || !from.IsNumeric() || !to.IsNumeric() {
		return nil
	}
	kind := to.Kind
	return func(v any) any { return convertNumber(v, kind) }
}

func apply(conv func(any) any, v any) any {
	if conv == nil {
		return v
	}
	return conv(v)
}

// converted wraps v so that it yields values of type t.
func converted(v *value, t *loader.Type) *value {
	conv := converter(v.typ, t)
	if conv == nil {
		if v.typ == t {
			return v
		}
		return &value{typ: t, eval: v.eval, konst: v.konst}
	}
	if v.isConstant() {
		return constant(t, conv(v.konst))
	}
	eval := v.eval
	return &value{typ: t, eval: func(fr *frame) (any, error) {
		x, err := eval(fr)
		if err != nil {
			return nil, err
		}
		return conv(x), nil
	}}
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case uint16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	}
	return 0
}

// convertNumber applies a primitive conversion. Integer narrowing keeps the
// low-order bits; floating to integer conversion saturates and maps NaN to
// zero.
func convertNumber(v any, to loader.TypeKind) any {
	switch x := v.(type) {
	case float32:
		return fromFloat(float64(x), to)
	case float64:
		return fromFloat(x, to)
	}
	return fromInt(toInt64(v), to)
}

func fromInt(i int64, to loader.TypeKind) any {
	switch to {
	case loader.KindByte:
		return int8(i)
	case loader.KindShort:
		return int16(i)
	case loader.KindChar:
		return uint16(i)
	case loader.KindInt:
		return int32(i)
	case loader.KindLong:
		return i
	case loader.KindFloat:
		return float32(i)
	case loader.KindDouble:
		return float64(i)
	}
	return nil
}

func fromFloat(f float64, to loader.TypeKind) any {
	switch to {
	case loader.KindFloat:
		return float32(f)
	case loader.KindDouble:
		return f
	case loader.KindLong:
		return loader.SaturateLong(f)
	case loader.KindInt:
		return loader.SaturateInt(f)
	}
	return fromInt(int64(loader.SaturateInt(f)), to)
}
