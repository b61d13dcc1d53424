package stdlib

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/minjs-lang/minjs/pkg/diagnostics"
	"github.com/minjs-lang/minjs/pkg/evaluator"
)

func defaultRegistry(t *testing.T, out *bytes.Buffer) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := RegisterDefaults(r, out); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}
	return r
}

func callNative(t *testing.T, r *Registry, name string, args ...Value) (Value, error) {
	t.Helper()
	fn, ok := r.Get(name)
	if !ok {
		t.Fatalf("native %s not registered", name)
	}
	return fn.Execute(args)
}

func expectIntResult(t *testing.T, val Value, err error, want int64) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := val.(evaluator.Int)
	if !ok || got.Value != want {
		t.Fatalf("expected %d, got %s", want, evaluator.Stringify(val))
	}
}

func expectFailureCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected failure %s, got none", code)
	}
	var fail *evaluator.Failure
	if !errors.As(err, &fail) {
		t.Fatalf("expected *Failure, got %T: %v", err, err)
	}
	if fail.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, fail.Code, fail.Message)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Fn{Name: "", Arity: 0, Execute: func([]Value) (Value, error) { return nil, nil }}); err == nil {
		t.Fatal("nameless native accepted")
	}
	if err := r.Register(Fn{Name: "f", Arity: 0}); err == nil {
		t.Fatal("implementation-less native accepted")
	}
	if err := r.Register(Fn{Name: "f", Arity: 0, Execute: func([]Value) (Value, error) { return evaluator.Undefined{}, nil }}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := r.Get("f"); !ok {
		t.Fatal("registered native not found")
	}
	if _, ok := r.Get("g"); ok {
		t.Fatal("unregistered native found")
	}
}

func TestDefaultNames(t *testing.T) {
	var out bytes.Buffer
	r := defaultRegistry(t, &out)
	want := []string{"!=", "%", "*", "+", "-", "/", "<", "<=", "==", ">", ">=", "print"}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestArithmetic(t *testing.T) {
	var out bytes.Buffer
	r := defaultRegistry(t, &out)

	cases := []struct {
		op   string
		a, b int64
		want int64
	}{
		{"+", 3, 4, 7},
		{"-", 3, 4, -1},
		{"*", 6, 7, 42},
		{"/", 10, 3, 3},
		{"/", -10, 3, -3},
		{"%", 10, 3, 1},
		{"%", 9, 3, 0},
	}
	for _, tc := range cases {
		val, err := callNative(t, r, tc.op, evaluator.Int{Value: tc.a}, evaluator.Int{Value: tc.b})
		if err != nil {
			t.Fatalf("%s(%d, %d): %v", tc.op, tc.a, tc.b, err)
		}
		expectIntResult(t, val, err, tc.want)
	}
}

func TestDivisionByZero(t *testing.T) {
	var out bytes.Buffer
	r := defaultRegistry(t, &out)

	_, err := callNative(t, r, "/", evaluator.Int{Value: 1}, evaluator.Int{Value: 0})
	expectFailureCode(t, err, diagnostics.EBuiltin)

	_, err = callNative(t, r, "%", evaluator.Int{Value: 1}, evaluator.Int{Value: 0})
	expectFailureCode(t, err, diagnostics.EBuiltin)
}

func TestArithmeticRequiresInts(t *testing.T) {
	var out bytes.Buffer
	r := defaultRegistry(t, &out)

	_, err := callNative(t, r, "+", evaluator.Str{Value: "a"}, evaluator.Int{Value: 1})
	expectFailureCode(t, err, diagnostics.EType)

	_, err = callNative(t, r, "*", evaluator.Int{Value: 1}, evaluator.Undefined{})
	expectFailureCode(t, err, diagnostics.EType)
}

func TestEquality(t *testing.T) {
	var out bytes.Buffer
	r := defaultRegistry(t, &out)
	obj := evaluator.NewObject(nil)

	cases := []struct {
		a, b Value
		want int64
	}{
		{evaluator.Int{Value: 1}, evaluator.Int{Value: 1}, 1},
		{evaluator.Int{Value: 1}, evaluator.Int{Value: 2}, 0},
		{evaluator.Str{Value: "a"}, evaluator.Str{Value: "a"}, 1},
		{evaluator.Int{Value: 1}, evaluator.Str{Value: "1"}, 0},
		{evaluator.Undefined{}, evaluator.Undefined{}, 1},
		{obj, obj, 1},
		{obj, evaluator.NewObject(nil), 0},
	}
	for _, tc := range cases {
		val, err := callNative(t, r, "==", tc.a, tc.b)
		expectIntResult(t, val, err, tc.want)

		val, err = callNative(t, r, "!=", tc.a, tc.b)
		expectIntResult(t, val, err, 1-tc.want)
	}
}

func TestOrdering(t *testing.T) {
	var out bytes.Buffer
	r := defaultRegistry(t, &out)

	val, err := callNative(t, r, "<", evaluator.Int{Value: 1}, evaluator.Int{Value: 2})
	expectIntResult(t, val, err, 1)

	val, err = callNative(t, r, ">=", evaluator.Int{Value: 1}, evaluator.Int{Value: 2})
	expectIntResult(t, val, err, 0)

	val, err = callNative(t, r, "<", evaluator.Str{Value: "abc"}, evaluator.Str{Value: "abd"})
	expectIntResult(t, val, err, 1)

	val, err = callNative(t, r, ">", evaluator.Str{Value: "b"}, evaluator.Str{Value: "a"})
	expectIntResult(t, val, err, 1)
}

func TestOrderingRejectsMixedAndUnorderable(t *testing.T) {
	var out bytes.Buffer
	r := defaultRegistry(t, &out)

	_, err := callNative(t, r, "<", evaluator.Int{Value: 1}, evaluator.Str{Value: "a"})
	expectFailureCode(t, err, diagnostics.EType)

	_, err = callNative(t, r, "<=", evaluator.NewObject(nil), evaluator.NewObject(nil))
	expectFailureCode(t, err, diagnostics.EType)
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	r := defaultRegistry(t, &out)

	obj := evaluator.NewObject(nil)
	obj.Register("a", evaluator.Int{Value: 1})

	val, err := callNative(t, r, "print",
		evaluator.Str{Value: "x"}, evaluator.Int{Value: 2}, evaluator.Undefined{}, obj)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !evaluator.IsUndefined(val) {
		t.Fatalf("print returned %s", evaluator.Stringify(val))
	}
	if diff := cmp.Diff("x 2 undefined { a: 1 }\n", out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintNoArguments(t *testing.T) {
	var out bytes.Buffer
	r := defaultRegistry(t, &out)

	_, err := callNative(t, r, "print")
	if err != nil {
		t.Fatalf("print(): %v", err)
	}
	if out.String() != "\n" {
		t.Fatalf("print() wrote %q", out.String())
	}
}

func TestInstallEnforcesArity(t *testing.T) {
	var out bytes.Buffer
	env, err := NewGlobalEnv(&out)
	if err != nil {
		t.Fatalf("NewGlobalEnv: %v", err)
	}

	plus, ok := env.Lookup("+").(*evaluator.Object)
	if !ok || !plus.Invocable() {
		t.Fatal("+ is not an invocable binding")
	}

	_, err = plus.Invoke(evaluator.Undefined{}, []Value{evaluator.Int{Value: 1}})
	expectFailureCode(t, err, diagnostics.EArity)

	val, err := plus.Invoke(evaluator.Undefined{}, []Value{evaluator.Int{Value: 1}, evaluator.Int{Value: 2}})
	expectIntResult(t, val, err, 3)
}

func TestGlobalEnvSelfReference(t *testing.T) {
	var out bytes.Buffer
	env, err := NewGlobalEnv(&out)
	if err != nil {
		t.Fatalf("NewGlobalEnv: %v", err)
	}
	if env.Lookup("global") != evaluator.Value(env) {
		t.Fatal("global does not reference the root environment")
	}
}
