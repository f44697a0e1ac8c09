package loader

import (
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf16"
)

var (
	systemOnce     sync.Once
	systemLoader   *Loader
	objectToString *Method
)

// system returns the sealed loader holding the system classes.
func system() *Loader {
	systemOnce.Do(func() {
		b := &builder{l: &Loader{classes: make(map[string]*Class)}}
		b.build()
		for _, c := range b.l.classes {
			c.link()
			c.initState = initialized
		}
		for _, init := range b.statics {
			init()
		}
		b.l.sealed = true
		systemLoader = b.l
	})
	return systemLoader
}

type builder struct {
	l       *Loader
	statics []func()
}

func (b *builder) class(name string, super *Class, flags Flags) *Class {
	c := NewClass(name, AccPublic|flags, super)
	b.l.classes[name] = c
	return c
}

func (b *builder) method(c *Class, name string, ret *Type, impl Func, params ...*Type) *Method {
	return c.AddMethod(&Method{Name: name, Params: params, Return: ret, Flags: AccPublic, Impl: impl})
}

func (b *builder) static(c *Class, name string, ret *Type, impl Func, params ...*Type) *Method {
	return c.AddMethod(&Method{Name: name, Params: params, Return: ret, Flags: AccPublic | AccStatic, Impl: impl})
}

func (b *builder) abstract(c *Class, name string, ret *Type, params ...*Type) *Method {
	return c.AddMethod(&Method{Name: name, Params: params, Return: ret, Flags: AccPublic | AccAbstract})
}

func (b *builder) ctor(c *Class, impl Func, params ...*Type) {
	c.AddConstructor(&Method{Params: params, Flags: AccPublic, Impl: impl})
}

// constant declares a public static final field.
func (b *builder) constant(c *Class, name string, t *Type, v any) {
	f := c.AddField(&Field{Name: name, Type: t, Flags: AccPublic | AccStatic | AccFinal, Constant: v})
	b.statics = append(b.statics, func() { c.statics[f.slot] = v })
}

func noop(any, []any) (any, error) { return nil, nil }

func (b *builder) build() {
	object := b.class("java.lang.Object", nil, 0)
	objT := object.Type()
	str := b.class("java.lang.String", object, AccFinal)
	strT := str.Type()
	class := b.class("java.lang.Class", object, AccFinal)

	b.ctor(object, noop)
	objectToString = b.method(object, "toString", strT, func(this any, _ []any) (any, error) {
		if o, ok := this.(*Object); ok {
			return o.Class.Name + "@" + strconv.FormatInt(int64(uint32(o.IdentityHash())), 16), nil
		}
		return Stringify(this)
	})
	b.method(object, "hashCode", Int, func(this any, _ []any) (any, error) {
		if o, ok := this.(*Object); ok {
			return o.IdentityHash(), nil
		}
		return arrayHash(this), nil
	})
	b.method(object, "equals", Boolean, func(this any, args []any) (any, error) {
		return SameReference(this, args[0]), nil
	}, objT)
	b.method(object, "getClass", class.Type(), func(this any, _ []any) (any, error) {
		return ClassOf(this), nil
	})

	b.buildInterfaces(object)
	b.buildString(str)
	b.buildClass(class)
	b.buildThrowables(object, strT)
	b.buildMath(object)
	b.buildBoxes(object, strT)
	b.buildStringBuilder(object, strT)
	b.buildSystem(object, strT)
}

func (b *builder) buildInterfaces(object *Class) {
	comparable := b.class("java.lang.Comparable", nil, AccInterface|AccAbstract)
	b.abstract(comparable, "compareTo", Int, object.Type())
	runnable := b.class("java.lang.Runnable", nil, AccInterface|AccAbstract)
	b.abstract(runnable, "run", Void)
	charSeq := b.class("java.lang.CharSequence", nil, AccInterface|AccAbstract)
	b.abstract(charSeq, "length", Int)
	b.abstract(charSeq, "charAt", Char, Int)
	str := b.l.classes["java.lang.String"]
	str.Interfaces = []*Class{comparable, charSeq}
}

func stringIndex(s []uint16, i int32) error {
	if i < 0 || int(i) >= len(s) {
		return NewException(StringIndexOutOfBoundsException, fmt.Sprintf("index %d, length %d", i, len(s)))
	}
	return nil
}

func (b *builder) buildString(str *Class) {
	strT := str.Type()
	objT := b.l.classes["java.lang.Object"].Type()
	self := func(this any) string { return this.(string) }

	b.ctor(str, func(any, []any) (any, error) { return "", nil })
	b.ctor(str, func(_ any, args []any) (any, error) {
		if args[0] == nil {
			return nil, NewException(NullPointerException, "")
		}
		return args[0], nil
	}, strT)
	b.ctor(str, func(_ any, args []any) (any, error) {
		cs, _ := args[0].([]uint16)
		return string(utf16.Decode(cs)), nil
	}, ArrayOf(Char))
	b.ctor(str, func(_ any, args []any) (any, error) {
		bs, _ := args[0].([]int8)
		raw := make([]byte, len(bs))
		for i, c := range bs {
			raw[i] = byte(c)
		}
		return string(raw), nil
	}, ArrayOf(Byte))

	b.method(str, "length", Int, func(this any, _ []any) (any, error) {
		return int32(len(UTF16(self(this)))), nil
	})
	b.method(str, "isEmpty", Boolean, func(this any, _ []any) (any, error) {
		return self(this) == "", nil
	})
	b.method(str, "charAt", Char, func(this any, args []any) (any, error) {
		u := UTF16(self(this))
		i := args[0].(int32)
		if err := stringIndex(u, i); err != nil {
			return nil, err
		}
		return u[i], nil
	}, Int)
	substring := func(this any, begin, end int32) (any, error) {
		u := UTF16(self(this))
		if begin < 0 || end > int32(len(u)) || begin > end {
			return nil, NewException(StringIndexOutOfBoundsException,
				fmt.Sprintf("begin %d, end %d, length %d", begin, end, len(u)))
		}
		return string(utf16.Decode(u[begin:end])), nil
	}
	b.method(str, "substring", strT, func(this any, args []any) (any, error) {
		return substring(this, args[0].(int32), int32(len(UTF16(self(this)))))
	}, Int)
	b.method(str, "substring", strT, func(this any, args []any) (any, error) {
		return substring(this, args[0].(int32), args[1].(int32))
	}, Int, Int)
	indexOf := func(s, sub string, last bool) int32 {
		var i int
		if last {
			i = strings.LastIndex(s, sub)
		} else {
			i = strings.Index(s, sub)
		}
		if i < 0 {
			return -1
		}
		return int32(len(UTF16(s[:i])))
	}
	b.method(str, "indexOf", Int, func(this any, args []any) (any, error) {
		if args[0] == nil {
			return nil, NewException(NullPointerException, "")
		}
		return indexOf(self(this), args[0].(string), false), nil
	}, strT)
	b.method(str, "indexOf", Int, func(this any, args []any) (any, error) {
		return indexOf(self(this), string(rune(args[0].(int32))), false), nil
	}, Int)
	b.method(str, "lastIndexOf", Int, func(this any, args []any) (any, error) {
		if args[0] == nil {
			return nil, NewException(NullPointerException, "")
		}
		return indexOf(self(this), args[0].(string), true), nil
	}, strT)
	predicate := func(name string, f func(s, arg string) bool) {
		b.method(str, name, Boolean, func(this any, args []any) (any, error) {
			arg, ok := args[0].(string)
			if !ok {
				return nil, NewException(NullPointerException, "")
			}
			return f(self(this), arg), nil
		}, strT)
	}
	predicate("contains", strings.Contains)
	predicate("startsWith", strings.HasPrefix)
	predicate("endsWith", strings.HasSuffix)
	predicate("equalsIgnoreCase", strings.EqualFold)
	b.method(str, "equals", Boolean, func(this any, args []any) (any, error) {
		other, ok := args[0].(string)
		return ok && other == self(this), nil
	}, objT)
	b.method(str, "hashCode", Int, func(this any, _ []any) (any, error) {
		var h int32
		for _, c := range UTF16(self(this)) {
			h = 31*h + int32(c)
		}
		return h, nil
	})
	b.method(str, "compareTo", Int, func(this any, args []any) (any, error) {
		other, ok := args[0].(string)
		if !ok {
			return nil, NewException(NullPointerException, "")
		}
		a, o := UTF16(self(this)), UTF16(other)
		for i := 0; i < len(a) && i < len(o); i++ {
			if a[i] != o[i] {
				return int32(a[i]) - int32(o[i]), nil
			}
		}
		return int32(len(a) - len(o)), nil
	}, strT)
	b.method(str, "concat", strT, func(this any, args []any) (any, error) {
		other, ok := args[0].(string)
		if !ok {
			return nil, NewException(NullPointerException, "")
		}
		return self(this) + other, nil
	}, strT)
	b.method(str, "toUpperCase", strT, func(this any, _ []any) (any, error) {
		return strings.ToUpper(self(this)), nil
	})
	b.method(str, "toLowerCase", strT, func(this any, _ []any) (any, error) {
		return strings.ToLower(self(this)), nil
	})
	b.method(str, "trim", strT, func(this any, _ []any) (any, error) {
		return strings.TrimFunc(self(this), func(r rune) bool { return r <= ' ' }), nil
	})
	b.method(str, "toString", strT, func(this any, _ []any) (any, error) {
		return this, nil
	})
	b.method(str, "toCharArray", ArrayOf(Char), func(this any, _ []any) (any, error) {
		return UTF16(self(this)), nil
	})
	b.method(str, "getBytes", ArrayOf(Byte), func(this any, _ []any) (any, error) {
		raw := []byte(self(this))
		out := make([]int8, len(raw))
		for i, c := range raw {
			out[i] = int8(c)
		}
		return out, nil
	})
	valueOf := func(arg *Type) {
		b.static(str, "valueOf", strT, func(_ any, args []any) (any, error) {
			return Stringify(args[0])
		}, arg)
	}
	for _, t := range []*Type{Boolean, Char, Int, Long, Float, Double, objT} {
		valueOf(t)
	}
}

func (b *builder) buildClass(class *Class) {
	strT := b.l.classes["java.lang.String"].Type()
	self := func(this any) *Class { return this.(*Class) }
	b.method(class, "getName", strT, func(this any, _ []any) (any, error) {
		return self(this).Name, nil
	})
	b.method(class, "getSimpleName", strT, func(this any, _ []any) (any, error) {
		return self(this).SimpleName(), nil
	})
	b.method(class, "isInterface", Boolean, func(this any, _ []any) (any, error) {
		return self(this).IsInterface(), nil
	})
	b.method(class, "getSuperclass", class.Type(), func(this any, _ []any) (any, error) {
		if s := self(this).Super; s != nil {
			return s, nil
		}
		return nil, nil
	})
	b.method(class, "toString", strT, func(this any, _ []any) (any, error) {
		return Stringify(this)
	})
}

// throwableInit stores the detail message of a throwable under
// construction.
func throwableInit(this any, args []any) (any, error) {
	st := &throwableState{}
	if len(args) == 1 && args[0] != nil {
		st.message, st.hasMessage = args[0].(string), true
	}
	this.(*Object).Native = st
	return nil, nil
}

func (b *builder) buildThrowables(object *Class, strT *Type) {
	throwable := b.class(Throwable, object, 0)
	b.ctor(throwable, throwableInit)
	b.ctor(throwable, throwableInit, strT)
	b.method(throwable, "getMessage", strT, func(this any, _ []any) (any, error) {
		if st, ok := this.(*Object).Native.(*throwableState); ok && st.hasMessage {
			return st.message, nil
		}
		return nil, nil
	})
	b.method(throwable, "toString", strT, func(this any, _ []any) (any, error) {
		return (&Exception{Object: this.(*Object)}).Error(), nil
	})

	sub := func(name string, super *Class) *Class {
		c := b.class(name, super, 0)
		b.ctor(c, throwableInit)
		b.ctor(c, throwableInit, strT)
		return c
	}
	exception := sub("java.lang.Exception", throwable)
	javaError := sub("java.lang.Error", throwable)
	sub(StackOverflowError, sub("java.lang.VirtualMachineError", javaError))
	runtime := sub("java.lang.RuntimeException", exception)
	sub(ArithmeticException, runtime)
	sub(NullPointerException, runtime)
	sub(NegativeArraySizeException, runtime)
	sub(ClassCastException, runtime)
	sub(ArrayStoreException, runtime)
	sub("java.lang.IllegalStateException", runtime)
	sub("java.lang.UnsupportedOperationException", runtime)
	illegalArg := sub(IllegalArgumentException, runtime)
	sub(NumberFormatException, illegalArg)
	bounds := sub("java.lang.IndexOutOfBoundsException", runtime)
	sub(ArrayIndexOutOfBoundsException, bounds)
	sub(StringIndexOutOfBoundsException, bounds)
}

func (b *builder) buildMath(object *Class) {
	m := b.class("java.lang.Math", object, AccFinal)
	b.constant(m, "PI", Double, math.Pi)
	b.constant(m, "E", Double, math.E)

	unaryD := func(name string, f func(float64) float64) {
		b.static(m, name, Double, func(_ any, args []any) (any, error) {
			return f(args[0].(float64)), nil
		}, Double)
	}
	unaryD("sqrt", math.Sqrt)
	unaryD("floor", math.Floor)
	unaryD("ceil", math.Ceil)
	unaryD("sin", math.Sin)
	unaryD("cos", math.Cos)
	unaryD("tan", math.Tan)
	unaryD("log", math.Log)
	unaryD("exp", math.Exp)
	unaryD("abs", math.Abs)
	b.static(m, "pow", Double, func(_ any, args []any) (any, error) {
		return math.Pow(args[0].(float64), args[1].(float64)), nil
	}, Double, Double)
	b.static(m, "round", Long, func(_ any, args []any) (any, error) {
		return SaturateLong(math.Floor(args[0].(float64) + 0.5)), nil
	}, Double)

	b.static(m, "abs", Int, func(_ any, args []any) (any, error) {
		if v := args[0].(int32); v < 0 {
			return -v, nil
		}
		return args[0], nil
	}, Int)
	b.static(m, "abs", Long, func(_ any, args []any) (any, error) {
		if v := args[0].(int64); v < 0 {
			return -v, nil
		}
		return args[0], nil
	}, Long)
	b.static(m, "max", Int, func(_ any, args []any) (any, error) {
		return max(args[0].(int32), args[1].(int32)), nil
	}, Int, Int)
	b.static(m, "min", Int, func(_ any, args []any) (any, error) {
		return min(args[0].(int32), args[1].(int32)), nil
	}, Int, Int)
	b.static(m, "max", Long, func(_ any, args []any) (any, error) {
		return max(args[0].(int64), args[1].(int64)), nil
	}, Long, Long)
	b.static(m, "min", Long, func(_ any, args []any) (any, error) {
		return min(args[0].(int64), args[1].(int64)), nil
	}, Long, Long)
	b.static(m, "max", Double, func(_ any, args []any) (any, error) {
		return math.Max(args[0].(float64), args[1].(float64)), nil
	}, Double, Double)
	b.static(m, "min", Double, func(_ any, args []any) (any, error) {
		return math.Min(args[0].(float64), args[1].(float64)), nil
	}, Double, Double)
	b.static(m, "floorMod", Int, func(_ any, args []any) (any, error) {
		x, y := args[0].(int32), args[1].(int32)
		if y == 0 {
			return nil, NewException(ArithmeticException, "/ by zero")
		}
		r := x % y
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return r, nil
	}, Int, Int)
}

func (b *builder) buildBoxes(object *Class, strT *Type) {
	integer := b.class("java.lang.Integer", object, AccFinal)
	b.constant(integer, "MAX_VALUE", Int, int32(math.MaxInt32))
	b.constant(integer, "MIN_VALUE", Int, int32(math.MinInt32))
	b.static(integer, "parseInt", Int, func(_ any, args []any) (any, error) {
		s, _ := args[0].(string)
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, NewException(NumberFormatException, "For input string: \""+s+"\"")
		}
		return int32(v), nil
	}, strT)
	b.static(integer, "toString", strT, func(_ any, args []any) (any, error) {
		return Stringify(args[0])
	}, Int)
	b.static(integer, "toHexString", strT, func(_ any, args []any) (any, error) {
		return strconv.FormatUint(uint64(uint32(args[0].(int32))), 16), nil
	}, Int)
	b.static(integer, "compare", Int, func(_ any, args []any) (any, error) {
		x, y := args[0].(int32), args[1].(int32)
		switch {
		case x < y:
			return int32(-1), nil
		case x > y:
			return int32(1), nil
		}
		return int32(0), nil
	}, Int, Int)

	long := b.class("java.lang.Long", object, AccFinal)
	b.constant(long, "MAX_VALUE", Long, int64(math.MaxInt64))
	b.constant(long, "MIN_VALUE", Long, int64(math.MinInt64))
	b.static(long, "parseLong", Long, func(_ any, args []any) (any, error) {
		s, _ := args[0].(string)
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, NewException(NumberFormatException, "For input string: \""+s+"\"")
		}
		return v, nil
	}, strT)
	b.static(long, "toString", strT, func(_ any, args []any) (any, error) {
		return Stringify(args[0])
	}, Long)

	double := b.class("java.lang.Double", object, AccFinal)
	b.constant(double, "MAX_VALUE", Double, math.MaxFloat64)
	b.constant(double, "MIN_VALUE", Double, math.SmallestNonzeroFloat64)
	b.constant(double, "POSITIVE_INFINITY", Double, math.Inf(1))
	b.constant(double, "NEGATIVE_INFINITY", Double, math.Inf(-1))
	b.constant(double, "NaN", Double, math.NaN())
	b.static(double, "parseDouble", Double, func(_ any, args []any) (any, error) {
		s, _ := args[0].(string)
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, NewException(NumberFormatException, "For input string: \""+s+"\"")
		}
		return v, nil
	}, strT)
	b.static(double, "toString", strT, func(_ any, args []any) (any, error) {
		return Stringify(args[0])
	}, Double)
	b.static(double, "isNaN", Boolean, func(_ any, args []any) (any, error) {
		return math.IsNaN(args[0].(float64)), nil
	}, Double)

	boolean := b.class("java.lang.Boolean", object, AccFinal)
	b.static(boolean, "parseBoolean", Boolean, func(_ any, args []any) (any, error) {
		s, _ := args[0].(string)
		return strings.EqualFold(s, "true"), nil
	}, strT)
	b.static(boolean, "toString", strT, func(_ any, args []any) (any, error) {
		return Stringify(args[0])
	}, Boolean)

	char := b.class("java.lang.Character", object, AccFinal)
	b.constant(char, "MIN_VALUE", Char, uint16(0))
	b.constant(char, "MAX_VALUE", Char, uint16(0xffff))
	test := func(name string, f func(rune) bool) {
		b.static(char, name, Boolean, func(_ any, args []any) (any, error) {
			return f(rune(args[0].(uint16))), nil
		}, Char)
	}
	test("isDigit", unicode.IsDigit)
	test("isLetter", unicode.IsLetter)
	test("isLetterOrDigit", func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
	test("isWhitespace", unicode.IsSpace)
	test("isUpperCase", unicode.IsUpper)
	test("isLowerCase", unicode.IsLower)
	mapChar := func(name string, f func(rune) rune) {
		b.static(char, name, Char, func(_ any, args []any) (any, error) {
			return uint16(f(rune(args[0].(uint16)))), nil
		}, Char)
	}
	mapChar("toUpperCase", unicode.ToUpper)
	mapChar("toLowerCase", unicode.ToLower)
	b.static(char, "toString", strT, func(_ any, args []any) (any, error) {
		return Stringify(args[0])
	}, Char)
}

func (b *builder) buildStringBuilder(object *Class, strT *Type) {
	sb := b.class("java.lang.StringBuilder", object, AccFinal)
	sb.Interfaces = []*Class{b.l.classes["java.lang.CharSequence"]}
	self := func(this any) *strings.Builder { return this.(*Object).Native.(*strings.Builder) }
	b.ctor(sb, func(this any, _ []any) (any, error) {
		this.(*Object).Native = &strings.Builder{}
		return nil, nil
	})
	b.ctor(sb, func(this any, args []any) (any, error) {
		s, err := Stringify(args[0])
		if err != nil {
			return nil, err
		}
		w := &strings.Builder{}
		w.WriteString(s)
		this.(*Object).Native = w
		return nil, nil
	}, strT)
	for _, t := range []*Type{strT, Boolean, Char, Int, Long, Float, Double, object.Type()} {
		b.method(sb, "append", sb.Type(), func(this any, args []any) (any, error) {
			s, err := Stringify(args[0])
			if err != nil {
				return nil, err
			}
			self(this).WriteString(s)
			return this, nil
		}, t)
	}
	b.method(sb, "length", Int, func(this any, _ []any) (any, error) {
		return int32(len(UTF16(self(this).String()))), nil
	})
	b.method(sb, "charAt", Char, func(this any, args []any) (any, error) {
		u := UTF16(self(this).String())
		i := args[0].(int32)
		if err := stringIndex(u, i); err != nil {
			return nil, err
		}
		return u[i], nil
	}, Int)
	b.method(sb, "toString", strT, func(this any, _ []any) (any, error) {
		return self(this).String(), nil
	})
}

func (b *builder) buildSystem(object *Class, strT *Type) {
	ps := b.class("java.io.PrintStream", object, 0)
	target := func(this any) io.Writer { return this.(*Object).Native.(func() io.Writer)() }
	printer := func(name, suffix string, params ...*Type) {
		b.method(ps, name, Void, func(this any, args []any) (any, error) {
			s := ""
			if len(args) == 1 {
				if cs, ok := args[0].([]uint16); ok {
					s = string(utf16.Decode(cs))
				} else {
					var err error
					if s, err = Stringify(args[0]); err != nil {
						return nil, err
					}
				}
			}
			_, err := io.WriteString(target(this), s+suffix)
			return nil, err
		}, params...)
	}
	printer("println", "\n")
	for _, t := range []*Type{strT, Boolean, Char, Int, Long, Float, Double, ArrayOf(Char), object.Type()} {
		printer("println", "\n", t)
		printer("print", "", t)
	}

	sys := b.class("java.lang.System", object, AccFinal)
	stream := func(name string, w func() io.Writer) {
		f := sys.AddField(&Field{Name: name, Type: ps.Type(), Flags: AccPublic | AccStatic | AccFinal})
		obj := &Object{Class: ps, Native: w, id: nextID.Add(1)}
		b.statics = append(b.statics, func() { sys.statics[f.slot] = obj })
	}
	stream("out", func() io.Writer { return os.Stdout })
	stream("err", func() io.Writer { return os.Stderr })
	b.static(sys, "currentTimeMillis", Long, func(any, []any) (any, error) {
		return time.Now().UnixMilli(), nil
	})
	b.static(sys, "nanoTime", Long, func(any, []any) (any, error) {
		return time.Now().UnixNano(), nil
	})
	b.static(sys, "arraycopy", Void, func(_ any, args []any) (any, error) {
		src, dst := args[0], args[2]
		if src == nil || dst == nil {
			return nil, NewException(NullPointerException, "")
		}
		sp, dp, n := int(args[1].(int32)), int(args[3].(int32)), int(args[4].(int32))
		sv, dv := reflect.ValueOf(src), reflect.ValueOf(dst)
		if sv.Kind() != reflect.Slice || dv.Kind() != reflect.Slice || sv.Type() != dv.Type() {
			return nil, NewException(ArrayStoreException, "arraycopy: type mismatch")
		}
		if sp < 0 || dp < 0 || n < 0 || sp+n > sv.Len() || dp+n > dv.Len() {
			return nil, NewException(ArrayIndexOutOfBoundsException, "arraycopy: last source index "+strconv.Itoa(sp+n)+" out of bounds")
		}
		reflect.Copy(dv.Slice(dp, dp+n), sv.Slice(sp, sp+n))
		return nil, nil
	}, object.Type(), Int, object.Type(), Int, Int)
}

// SaturateLong converts like a Java (long) cast: NaN becomes 0 and
// out-of-range values clamp.
func SaturateLong(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// SaturateInt converts like a Java (int) cast.
func SaturateInt(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}
