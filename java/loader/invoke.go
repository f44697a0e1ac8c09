package loader

import (
	"fmt"

	"fortio.org/safecast"
)

// Invoke calls m with host values. Arguments are converted to the parameter
// types: any Go integer is accepted for an integral parameter when it fits,
// integers and floats for floating-point parameters. Instance methods are
// dispatched on the runtime class of this. Thrown Java exceptions are
// returned as *Exception.
func (m *Method) Invoke(this any, args ...any) (any, error) {
	if len(args) != len(m.Params) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArgument, m, len(m.Params), len(args))
	}
	coerced := make([]any, len(args))
	for i, a := range args {
		v, err := Coerce(a, m.Params[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i+1, m, err)
		}
		coerced[i] = v
	}

	impl := m
	if m.Flags.IsStatic() {
		if err := m.Class.Initialize(); err != nil {
			return nil, err
		}
	} else {
		if this == nil {
			return nil, NewException(NullPointerException, "cannot invoke "+m.String()+" on null")
		}
		recv := ClassOf(this)
		if !m.Class.IsAssignableFrom(recv) {
			return nil, fmt.Errorf("%w: receiver of class %s is not a %s", ErrArgument, recv.Name, m.Class.Name)
		}
		impl = recv.Dispatch(m)
	}
	if impl.Impl == nil {
		return nil, fmt.Errorf("%w: %s is abstract", ErrNoSuchMethod, impl)
	}
	return impl.Impl(this, coerced)
}

// selectMethod picks the first candidate whose parameters accept args.
func selectMethod(what string, candidates []*Method, args []any) (*Method, []any, error) {
	for _, m := range candidates {
		if len(m.Params) != len(args) {
			continue
		}
		coerced := make([]any, len(args))
		ok := true
		for i, a := range args {
			v, err := Coerce(a, m.Params[i])
			if err != nil {
				ok = false
				break
			}
			coerced[i] = v
		}
		if ok {
			return m, coerced, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s accepting %d arguments of the given types", ErrNoSuchMethod, what, len(args))
}

// Coerce converts a host value to the representation of t.
func Coerce(v any, t *Type) (any, error) {
	switch t.Kind {
	case KindBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindByte:
		return convInteger[int8](v, t)
	case KindShort:
		return convInteger[int16](v, t)
	case KindChar:
		if r, ok := v.(rune); ok {
			return convInteger[uint16](int64(r), t)
		}
		return convInteger[uint16](v, t)
	case KindInt:
		return convInteger[int32](v, t)
	case KindLong:
		return convInteger[int64](v, t)
	case KindFloat:
		if f, ok := v.(float32); ok {
			return f, nil
		}
		if f, ok := v.(float64); ok {
			return float32(f), nil
		}
		if i, err := convInteger[int64](v, t); err == nil {
			return float32(i.(int64)), nil
		}
	case KindDouble:
		if f, ok := v.(float64); ok {
			return f, nil
		}
		if f, ok := v.(float32); ok {
			return float64(f), nil
		}
		if i, err := convInteger[int64](v, t); err == nil {
			return float64(i.(int64)), nil
		}
	case KindClass, KindArray, KindNull:
		if v == nil || InstanceOf(v, t) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot convert %T to %s", ErrArgument, v, t.Name())
}

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint16
}

func convInteger[T integer](v any, t *Type) (any, error) {
	var out T
	var err error
	switch x := v.(type) {
	case int:
		out, err = safecast.Conv[T](x)
	case int8:
		out, err = safecast.Conv[T](x)
	case int16:
		out, err = safecast.Conv[T](x)
	case int32:
		out, err = safecast.Conv[T](x)
	case int64:
		out, err = safecast.Conv[T](x)
	case uint:
		out, err = safecast.Conv[T](x)
	case uint8:
		out, err = safecast.Conv[T](x)
	case uint16:
		out, err = safecast.Conv[T](x)
	case uint32:
		out, err = safecast.Conv[T](x)
	case uint64:
		out, err = safecast.Conv[T](x)
	default:
		return nil, fmt.Errorf("%w: cannot convert %T to %s", ErrArgument, v, t.Name())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v does not fit in %s: %v", ErrArgument, v, t.Name(), err)
	}
	return out, nil
}
