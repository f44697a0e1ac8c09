package loader

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf16"
)

// ClassOf returns the runtime class of a non-null reference value.
func ClassOf(v any) *Class {
	switch v := v.(type) {
	case *Object:
		return v.Class
	case string:
		return system().Lookup("java.lang.String")
	case *Class:
		return system().Lookup("java.lang.Class")
	}
	return system().Lookup("java.lang.Object")
}

// Stringify applies Java string conversion, calling toString on objects.
func Stringify(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "null", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int8:
		return strconv.Itoa(int(v)), nil
	case int16:
		return strconv.Itoa(int(v)), nil
	case int32:
		return strconv.Itoa(int(v)), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint16:
		return CharString(v), nil
	case float32:
		return FormatFloating(float64(v), 32), nil
	case float64:
		return FormatFloating(v, 64), nil
	case *Class:
		if v.IsInterface() {
			return "interface " + v.Name, nil
		}
		return "class " + v.Name, nil
	case *Object:
		impl := v.Class.Dispatch(objectToString)
		s, err := impl.Impl(v, nil)
		if err != nil {
			return "", err
		}
		if s == nil {
			return "null", nil
		}
		return s.(string), nil
	}
	if t, ok := arrayType(v); ok {
		return "[" + t.Elem.Descriptor() + "@" + strconv.FormatInt(int64(uint32(arrayHash(v))), 16), nil
	}
	return fmt.Sprint(v), nil
}

// FormatFloating renders a float or double the way Double.toString does.
func FormatFloating(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	if abs := math.Abs(f); abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, bits)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'E', -1, bits), "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mant + "E" + strconv.Itoa(e)
}

func CharString(c uint16) string {
	return string(utf16.Decode([]uint16{c}))
}

// UTF16 returns the code units of s, which is how Java indexes strings.
func UTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// SameReference implements == on references. Strings compare by value.
func SameReference(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Object:
		bo, ok := b.(*Object)
		return ok && a == bo
	case *Class:
		bc, ok := b.(*Class)
		return ok && a == bc
	case string:
		bs, ok := b.(string)
		return ok && a == bs
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Slice && vb.Kind() == reflect.Slice {
		return va.Type() == vb.Type() && va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	}
	return false
}

// InstanceOf reports whether a reference value may be stored in a variable
// of type t. Reference arrays carry no element type at run time and are
// accepted for any reference array type.
func InstanceOf(v any, t *Type) bool {
	if v == nil {
		return false
	}
	switch t.Kind {
	case KindClass:
		switch v.(type) {
		case *Object, string, *Class:
			return t.Class.IsAssignableFrom(ClassOf(v))
		}
		return t.Class.Name == "java.lang.Object"
	case KindArray:
		at, ok := arrayType(v)
		if !ok {
			return false
		}
		if t.Elem.IsPrimitive() || at.Elem.IsPrimitive() {
			return t.Elem.Equal(at.Elem)
		}
		return true
	}
	return false
}

// arrayType reports the array type of a Go slice used as a Java array. The
// element type of a reference array is reported as java.lang.Object.
func arrayType(v any) (*Type, bool) {
	switch v.(type) {
	case []bool:
		return ArrayOf(Boolean), true
	case []int8:
		return ArrayOf(Byte), true
	case []int16:
		return ArrayOf(Short), true
	case []uint16:
		return ArrayOf(Char), true
	case []int32:
		return ArrayOf(Int), true
	case []int64:
		return ArrayOf(Long), true
	case []float32:
		return ArrayOf(Float), true
	case []float64:
		return ArrayOf(Double), true
	case []any:
		return ArrayOf(system().Lookup("java.lang.Object").Type()), true
	}
	return nil, false
}

func arrayHash(v any) int32 {
	p := reflect.ValueOf(v).Pointer()
	return int32(p>>4) ^ int32(p>>36)
}

// NewArray allocates a possibly multi-dimensional array. dims holds the
// specified lengths; extra unspecified dimensions are left null.
func NewArray(t *Type, dims []int32) (any, error) {
	if t.Kind != KindArray {
		return nil, fmt.Errorf("%w: %s is not an array type", ErrArgument, t.Name())
	}
	n := dims[0]
	if n < 0 {
		return nil, NewException(NegativeArraySizeException, strconv.Itoa(int(n)))
	}
	if len(dims) > 1 {
		for _, d := range dims[1:] {
			if d < 0 {
				return nil, NewException(NegativeArraySizeException, strconv.Itoa(int(d)))
			}
		}
		out := make([]any, n)
		for i := range out {
			sub, err := NewArray(t.Elem, dims[1:])
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	}
	return makeArray(t.Elem, int(n)), nil
}

func makeArray(elem *Type, n int) any {
	switch elem.Kind {
	case KindBoolean:
		return make([]bool, n)
	case KindByte:
		return make([]int8, n)
	case KindShort:
		return make([]int16, n)
	case KindChar:
		return make([]uint16, n)
	case KindInt:
		return make([]int32, n)
	case KindLong:
		return make([]int64, n)
	case KindFloat:
		return make([]float32, n)
	case KindDouble:
		return make([]float64, n)
	}
	return make([]any, n)
}

// ArrayFromValues builds an array of type t holding vals, which must
// already have the element representation.
func ArrayFromValues(t *Type, vals []any) any {
	arr := makeArray(t.Elem, len(vals))
	rv := reflect.ValueOf(arr)
	for i, v := range vals {
		if v == nil {
			continue
		}
		rv.Index(i).Set(reflect.ValueOf(v))
	}
	return arr
}

func ArrayLength(arr any) (int32, error) {
	if arr == nil {
		return 0, NewException(NullPointerException, "cannot read the array length of null")
	}
	return int32(reflect.ValueOf(arr).Len()), nil
}

func ArrayGet(arr any, i int32) (any, error) {
	rv, err := arrayIndex(arr, i)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

func ArraySet(arr any, i int32, v any) error {
	rv, err := arrayIndex(arr, i)
	if err != nil {
		return err
	}
	if v == nil {
		rv.SetZero()
		return nil
	}
	val := reflect.ValueOf(v)
	if !val.Type().AssignableTo(rv.Type()) {
		return NewException(ArrayStoreException, fmt.Sprintf("%T", v))
	}
	rv.Set(val)
	return nil
}

func arrayIndex(arr any, i int32) (reflect.Value, error) {
	if arr == nil {
		return reflect.Value{}, NewException(NullPointerException, "cannot index into null")
	}
	rv := reflect.ValueOf(arr)
	if i < 0 || int(i) >= rv.Len() {
		return reflect.Value{}, NewException(ArrayIndexOutOfBoundsException,
			fmt.Sprintf("Index %d out of bounds for length %d", i, rv.Len()))
	}
	return rv.Index(int(i)), nil
}
