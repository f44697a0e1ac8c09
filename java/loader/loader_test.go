package loader

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nalgeon/be"
)

func TestSystemClasses(t *testing.T) {
	l := New(nil)
	for _, name := range []string{
		"java.lang.Object", "java.lang.String", "java.lang.Class", "java.lang.Math",
		"java.lang.Integer", "java.lang.Long", "java.lang.Double", "java.lang.Boolean",
		"java.lang.Character", "java.lang.Throwable", "java.lang.Exception",
		"java.lang.RuntimeException", ArithmeticException, NullPointerException,
		ArrayIndexOutOfBoundsException, NegativeArraySizeException, ClassCastException,
	} {
		c, err := l.Resolve(name)
		be.Err(t, err, nil)
		be.Equal(t, c.Name, name)
	}
	be.Equal(t, len(l.Names()), 0)
	be.True(t, l.HasPackage("java.lang"))
	be.True(t, l.HasPackage("java"))
	be.True(t, !l.HasPackage("javax"))

	_, err := l.Resolve("java.util.List")
	be.Err(t, err, ErrClassNotFound)
}

func TestDefine(t *testing.T) {
	l := New(nil)
	object := l.Lookup("java.lang.Object")

	a := NewClass("pkg.A", AccPublic, object)
	be.Err(t, l.Define(a), nil)
	be.Equal(t, l.Names(), []string{"pkg.A"})
	be.True(t, l.HasPackage("pkg"))

	err := l.Define(NewClass("pkg.A", AccPublic, object))
	be.Err(t, err, ErrDuplicateClass)

	err = l.Define(NewClass("java.lang.String", AccPublic, object))
	be.Err(t, err, ErrDuplicateClass)

	// A failing batch leaves nothing behind.
	err = l.Define(NewClass("pkg.B", AccPublic, object), NewClass("pkg.B", AccPublic, object))
	be.Err(t, err, ErrDuplicateClass)
	be.True(t, l.Lookup("pkg.B") == nil)
}

func TestParentDelegation(t *testing.T) {
	parent := New(nil)
	object := parent.Lookup("java.lang.Object")
	be.Err(t, parent.Define(NewClass("p.Shared", AccPublic, object)), nil)

	child := New(parent)
	be.Err(t, child.Define(NewClass("c.Own", AccPublic, object)), nil)

	_, err := child.Resolve("p.Shared")
	be.Err(t, err, nil)
	_, err = parent.Resolve("c.Own")
	be.Err(t, err, ErrClassNotFound)

	err = child.Define(NewClass("p.Shared", AccPublic, object))
	be.Err(t, err, ErrDuplicateClass)
}

func TestDefine_Concurrent(t *testing.T) {
	l := New(nil)
	object := l.Lookup("java.lang.Object")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "gen.C" + string(rune('a'+i))
			if err := l.Define(NewClass(name, AccPublic, object)); err != nil {
				t.Error(err)
			}
			l.Lookup(name)
		}(i)
	}
	wg.Wait()
	be.Equal(t, len(l.Names()), 20)
}

func TestDescriptors(t *testing.T) {
	l := New(nil)
	str := l.Lookup("java.lang.String").Type()
	tests := []struct {
		typ  *Type
		want string
		name string
	}{
		{Int, "I", "int"},
		{Boolean, "Z", "boolean"},
		{Long, "J", "long"},
		{Void, "V", "void"},
		{str, "Ljava/lang/String;", "java.lang.String"},
		{ArrayOf(Double), "[D", "double[]"},
		{ArrayOf(ArrayOf(str)), "[[Ljava/lang/String;", "java.lang.String[][]"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			be.Equal(t, tt.typ.Descriptor(), tt.want)
			be.Equal(t, tt.typ.Name(), tt.name)
			parsed, err := ParseDescriptor(l, tt.want)
			be.Err(t, err, nil)
			be.True(t, parsed.Equal(tt.typ))
		})
	}

	params, ret, err := ParseMethodDescriptor(l, "(I[Ljava/lang/String;J)D")
	be.Err(t, err, nil)
	be.Equal(t, len(params), 3)
	be.True(t, params[1].Equal(ArrayOf(str)))
	be.True(t, ret.Equal(Double))
	be.Equal(t, MethodDescriptor(params, ret), "(I[Ljava/lang/String;J)D")

	for _, bad := range []string{"(I", "I)V", "(V)V", "(Q)V", "()", "(Ljava/lang/String)V", "()VV", "[V"} {
		_, _, err := ParseMethodDescriptor(l, bad)
		if err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
	_, err = ParseDescriptor(l, "Lno/such/Type;")
	be.Err(t, err, ErrClassNotFound)
}

// adder builds a class with a static add(int, int) and an instance field.
func adder(l *Loader) *Class {
	c := NewClass("calc.Adder", AccPublic, l.Lookup("java.lang.Object"))
	c.AddMethod(&Method{
		Name: "add", Params: []*Type{Int, Int}, Return: Int, Flags: AccPublic | AccStatic,
		Impl: func(_ any, args []any) (any, error) {
			return args[0].(int32) + args[1].(int32), nil
		},
	})
	return c
}

func TestInvoke(t *testing.T) {
	l := New(nil)
	c := adder(l)
	be.Err(t, l.Define(c), nil)

	m, err := c.Method("add", Int, Int)
	be.Err(t, err, nil)
	be.Equal(t, m.Descriptor(), "(II)I")

	got, err := m.Invoke(nil, 2, int64(3))
	be.Err(t, err, nil)
	be.Equal(t, got, any(int32(5)))

	_, err = m.Invoke(nil, 1)
	be.Err(t, err, ErrArgument)

	_, err = m.Invoke(nil, int64(1)<<40, 1)
	be.Err(t, err, ErrArgument)

	_, err = m.Invoke(nil, "two", 1)
	be.Err(t, err, ErrArgument)

	_, err = c.Method("add", Long, Long)
	be.Err(t, err, ErrNoSuchMethod)

	byDesc, err := c.MethodByDescriptor("add", "(II)I")
	be.Err(t, err, nil)
	be.True(t, byDesc == m)
}

func TestCoerce(t *testing.T) {
	l := New(nil)
	str := l.Lookup("java.lang.String").Type()
	obj := l.Lookup("java.lang.Object").Type()
	tests := []struct {
		name string
		in   any
		typ  *Type
		want any
		ok   bool
	}{
		{"int to byte", 100, Byte, int8(100), true},
		{"int too big for byte", 200, Byte, nil, false},
		{"rune to char", 'x', Char, uint16('x'), true},
		{"negative to char", -1, Char, nil, false},
		{"int to double", 3, Double, float64(3), true},
		{"float64 to float", 0.5, Float, float32(0.5), true},
		{"float to int", 1.5, Int, nil, false},
		{"string", "s", str, "s", true},
		{"string as object", "s", obj, "s", true},
		{"nil reference", nil, str, nil, true},
		{"int as string", 1, str, nil, false},
		{"int slice", []int32{1}, ArrayOf(Int), []int32{1}, true},
		{"wrong slice", []int64{1}, ArrayOf(Int), nil, false},
		{"bool", true, Boolean, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.in, tt.typ)
			if !tt.ok {
				be.Err(t, err, ErrArgument)
				return
			}
			be.Err(t, err, nil)
			be.Equal(t, got, tt.want)
		})
	}
}

func TestVirtualDispatch(t *testing.T) {
	l := New(nil)
	strT := l.Lookup("java.lang.String").Type()
	base := NewClass("zoo.Animal", AccPublic, l.Lookup("java.lang.Object"))
	base.AddConstructor(&Method{Flags: AccPublic, Impl: func(any, []any) (any, error) { return nil, nil }})
	speak := base.AddMethod(&Method{Name: "speak", Return: strT, Flags: AccPublic,
		Impl: func(any, []any) (any, error) { return "...", nil }})
	dog := NewClass("zoo.Dog", AccPublic, base)
	dog.AddConstructor(&Method{Flags: AccPublic, Impl: func(any, []any) (any, error) { return nil, nil }})
	dog.AddMethod(&Method{Name: "speak", Return: strT, Flags: AccPublic,
		Impl: func(any, []any) (any, error) { return "woof", nil }})
	be.Err(t, l.Define(base, dog), nil)

	d, err := dog.NewInstance()
	be.Err(t, err, nil)
	got, err := speak.Invoke(d)
	be.Err(t, err, nil)
	be.Equal(t, got, any("woof"))

	a, err := base.NewInstance()
	be.Err(t, err, nil)
	got, err = speak.Invoke(a)
	be.Err(t, err, nil)
	be.Equal(t, got, any("..."))

	_, err = speak.Invoke(nil)
	ex, ok := AsException(err)
	be.True(t, ok)
	be.Equal(t, ex.Class().Name, NullPointerException)

	be.True(t, base.IsAssignableFrom(dog))
	be.True(t, !dog.IsAssignableFrom(base))
	be.True(t, l.Lookup("java.lang.Object").IsAssignableFrom(dog))
	be.Equal(t, len(dog.MethodsNamed("speak")), 1)
}

func TestFieldsAndStaticInit(t *testing.T) {
	l := New(nil)
	c := NewClass("cfg.Settings", AccPublic, l.Lookup("java.lang.Object"))
	limit := c.AddField(&Field{Name: "limit", Type: Int, Flags: AccPublic | AccStatic})
	count := c.AddField(&Field{Name: "count", Type: Long, Flags: AccPublic})
	runs := 0
	c.StaticInit = func() error {
		runs++
		return limit.Set(nil, int32(42))
	}
	be.Err(t, l.Define(c), nil)

	v, err := limit.Get(nil)
	be.Err(t, err, nil)
	be.Equal(t, v, any(int32(42)))
	_, err = limit.Get(nil)
	be.Err(t, err, nil)
	be.Equal(t, runs, 1)

	obj := c.Allocate()
	v, err = count.Get(obj)
	be.Err(t, err, nil)
	be.Equal(t, v, any(int64(0)))
	be.Err(t, count.Set(obj, int64(7)), nil)
	v, _ = count.Get(obj)
	be.Equal(t, v, any(int64(7)))

	_, err = count.Get(nil)
	be.Err(t, err, "cannot read field")

	f, err := c.Field("limit")
	be.Err(t, err, nil)
	be.True(t, f == limit)
	_, err = c.Field("missing")
	be.Err(t, err, ErrNoSuchField)
}

func TestStaticInitFailureIsSticky(t *testing.T) {
	l := New(nil)
	c := NewClass("bad.Init", AccPublic, l.Lookup("java.lang.Object"))
	runs := 0
	c.StaticInit = func() error {
		runs++
		return NewException(ArithmeticException, "/ by zero")
	}
	be.Err(t, l.Define(c), nil)

	err := c.Initialize()
	be.Err(t, err, "initializing bad.Init")
	err = c.Initialize()
	be.Err(t, err, "/ by zero")
	be.Equal(t, runs, 1)

	var ex *Exception
	be.True(t, errors.As(err, &ex))
}

func TestStaticInitBlocksOtherGoroutines(t *testing.T) {
	l := New(nil)
	c := NewClass("slow.Init", AccPublic, l.Lookup("java.lang.Object"))
	limit := c.AddField(&Field{Name: "limit", Type: Int, Flags: AccPublic | AccStatic})
	started, release := make(chan struct{}), make(chan struct{})
	c.StaticInit = func() error {
		close(started)
		<-release
		return limit.Set(nil, int32(7))
	}
	be.Err(t, l.Define(c), nil)

	done := make(chan error)
	go func() { done <- c.Initialize() }()
	<-started

	read := make(chan any)
	go func() {
		v, _ := limit.Get(nil)
		read <- v
	}()
	select {
	case v := <-read:
		t.Fatalf("read %v while the initializer was running", v)
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	be.Err(t, <-done, nil)
	be.Equal(t, <-read, any(int32(7)))
}

func TestLoaderStreams(t *testing.T) {
	var outA, outB, errA strings.Builder
	a := New(nil, WithStdout(&outA), WithStderr(&errA))
	b := New(nil, WithStdout(&outB))
	child := New(a)

	sys := a.Lookup("java.lang.System")
	out, err := sys.Field("out")
	be.Err(t, err, nil)
	errField, err := sys.Field("err")
	be.Err(t, err, nil)
	printLine, err := a.Lookup("java.io.PrintStream").Method("println", a.Lookup("java.lang.String").Type())
	be.Err(t, err, nil)

	emit := func(l *Loader, f *Field, s string) {
		t.Helper()
		stream, err := l.Get(f, nil)
		be.Err(t, err, nil)
		_, err = printLine.Invoke(stream, s)
		be.Err(t, err, nil)
	}
	emit(a, out, "a")
	emit(b, out, "b")
	emit(child, out, "child")
	emit(a, errField, "oops")

	be.Equal(t, outA.String(), "a\nchild\n")
	be.Equal(t, outB.String(), "b\n")
	be.Equal(t, errA.String(), "oops\n")

	first, _ := a.Get(out, nil)
	second, _ := a.Get(out, nil)
	be.True(t, first == second)
}

func TestStringMethods(t *testing.T) {
	l := New(nil)
	str := l.Lookup("java.lang.String")
	strT := str.Type()
	call := func(name string, this any, params []*Type, args ...any) (any, error) {
		t.Helper()
		m, err := str.Method(name, params...)
		be.Err(t, err, nil)
		return m.Invoke(this, args...)
	}

	got, _ := call("length", "héllo", nil)
	be.Equal(t, got, any(int32(5)))
	got, _ = call("charAt", "abc", []*Type{Int}, 1)
	be.Equal(t, got, any(uint16('b')))
	got, _ = call("substring", "hello", []*Type{Int, Int}, 1, 3)
	be.Equal(t, got, any("el"))
	got, _ = call("hashCode", "hello", nil)
	be.Equal(t, got, any(int32(99162322)))
	got, _ = call("compareTo", "a", []*Type{strT}, "b")
	be.Equal(t, got, any(int32(-1)))

	_, err := call("charAt", "abc", []*Type{Int}, 5)
	ex, ok := AsException(err)
	be.True(t, ok)
	be.True(t, ex.InstanceOf("java.lang.IndexOutOfBoundsException"))
	be.True(t, strings.HasPrefix(ex.Error(), StringIndexOutOfBoundsException+": "))

	obj := l.Lookup("java.lang.Object")
	eq, err := obj.Method("equals", obj.Type())
	be.Err(t, err, nil)
	got, _ = eq.Invoke("abc", "abc")
	be.Equal(t, got, any(true))
}

func TestStringify(t *testing.T) {
	l := New(nil)
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{float64(3), "3.0"},
		{float64(6), "6.0"},
		{2.5, "2.5"},
		{1e10, "1.0E10"},
		{1.5e-5, "1.5E-5"},
		{1234567.0, "1234567.0"},
		{float32(0.1), "0.1"},
		{int32(-7), "-7"},
		{int64(1) << 40, "1099511627776"},
		{uint16('x'), "x"},
		{true, "true"},
		{l.Lookup("java.lang.String"), "class java.lang.String"},
		{l.Lookup("java.lang.Comparable"), "interface java.lang.Comparable"},
	}
	for _, tt := range tests {
		got, err := Stringify(tt.in)
		be.Err(t, err, nil)
		be.Equal(t, got, tt.want)
	}

	obj, err := l.Lookup("java.lang.Object").NewInstance()
	be.Err(t, err, nil)
	s, err := Stringify(obj)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(s, "java.lang.Object@"))
}

func TestArrays(t *testing.T) {
	arr, err := NewArray(ArrayOf(ArrayOf(Int)), []int32{2, 3})
	be.Err(t, err, nil)
	rows := arr.([]any)
	be.Equal(t, len(rows), 2)
	be.Equal(t, rows[1], any([]int32{0, 0, 0}))

	be.Err(t, ArraySet(rows[0], 2, int32(9)), nil)
	v, err := ArrayGet(rows[0], 2)
	be.Err(t, err, nil)
	be.Equal(t, v, any(int32(9)))

	_, err = ArrayGet(rows[0], 3)
	ex, ok := AsException(err)
	be.True(t, ok)
	be.Equal(t, ex.Class().Name, ArrayIndexOutOfBoundsException)
	be.Equal(t, ex.Message(), "Index 3 out of bounds for length 3")

	_, err = NewArray(ArrayOf(Int), []int32{-1})
	ex, _ = AsException(err)
	be.Equal(t, ex.Class().Name, NegativeArraySizeException)

	_, err = ArrayLength(nil)
	ex, _ = AsException(err)
	be.Equal(t, ex.Class().Name, NullPointerException)

	bs := ArrayFromValues(ArrayOf(Byte), []any{int8(1), int8(2)})
	be.Equal(t, bs, any([]int8{1, 2}))

	be.True(t, SameReference(bs, bs))
	be.True(t, !SameReference(bs, ArrayFromValues(ArrayOf(Byte), []any{int8(1), int8(2)})))
	be.True(t, InstanceOf(bs, ArrayOf(Byte)))
	be.True(t, !InstanceOf(bs, ArrayOf(Int)))
}
