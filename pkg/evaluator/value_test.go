package evaluator

import (
	"testing"
)

func TestLookupWalksParentChain(t *testing.T) {
	grand := NewObject(nil)
	grand.Register("a", Int{Value: 1})
	parent := NewObject(grand)
	parent.Register("b", Int{Value: 2})
	child := NewObject(parent)
	child.Register("c", Int{Value: 3})

	for name, want := range map[string]int64{"a": 1, "b": 2, "c": 3} {
		got, ok := child.Lookup(name).(Int)
		if !ok || got.Value != want {
			t.Fatalf("lookup %s: expected %d, got %s", name, want, Stringify(child.Lookup(name)))
		}
	}
	if !IsUndefined(child.Lookup("missing")) {
		t.Fatal("total miss should yield undefined")
	}
}

func TestLookupPrefersLocalOverParent(t *testing.T) {
	parent := NewObject(nil)
	parent.Register("x", Int{Value: 1})
	child := NewObject(parent)
	child.Register("x", Int{Value: 2})

	got := child.Lookup("x").(Int)
	if got.Value != 2 {
		t.Fatalf("expected local binding 2, got %d", got.Value)
	}
}

func TestRegisterNeverTouchesParent(t *testing.T) {
	parent := NewObject(nil)
	parent.Register("x", Int{Value: 1})
	child := NewObject(parent)
	child.Register("x", Int{Value: 2})

	if got := parent.Lookup("x").(Int); got.Value != 1 {
		t.Fatalf("parent binding changed to %d", got.Value)
	}
	if !child.HasLocal("x") || parent.HasLocal("missing") {
		t.Fatal("HasLocal mismatch")
	}
}

func TestInvocable(t *testing.T) {
	plain := NewObject(nil)
	if plain.Invocable() {
		t.Fatal("plain object reports invocable")
	}

	fn := NewFunction("f", func(self *Object, receiver Value, args []Value) (Value, error) {
		return args[0], nil
	})
	if !fn.Invocable() || fn.Name() != "f" {
		t.Fatalf("function object: invocable=%v name=%q", fn.Invocable(), fn.Name())
	}
	val, err := fn.Invoke(Undefined{}, []Value{Int{Value: 9}})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got := val.(Int); got.Value != 9 {
		t.Fatalf("expected 9, got %d", got.Value)
	}
}

func TestEquals(t *testing.T) {
	obj := NewObject(nil)
	other := NewObject(nil)

	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"undefined", Undefined{}, Undefined{}, true},
		{"int equal", Int{Value: 3}, Int{Value: 3}, true},
		{"int differ", Int{Value: 3}, Int{Value: 4}, false},
		{"str equal", Str{Value: "a"}, Str{Value: "a"}, true},
		{"str differ", Str{Value: "a"}, Str{Value: "b"}, false},
		{"int vs str", Int{Value: 1}, Str{Value: "1"}, false},
		{"int vs undefined", Int{Value: 0}, Undefined{}, false},
		{"object identity", obj, obj, true},
		{"distinct objects", obj, other, false},
	}
	for _, tc := range cases {
		if got := Equals(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Equals = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStringifyPrimitives(t *testing.T) {
	cases := []struct {
		val  Value
		want string
	}{
		{Undefined{}, "undefined"},
		{Int{Value: 42}, "42"},
		{Int{Value: -7}, "-7"},
		{Str{Value: "plain"}, "plain"},
	}
	for _, tc := range cases {
		if got := Stringify(tc.val); got != tc.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tc.val, got, tc.want)
		}
	}
}

func TestStringifyObjectSortsKeys(t *testing.T) {
	obj := NewObject(nil)
	obj.Register("b", Int{Value: 2})
	obj.Register("a", Int{Value: 1})

	if got := Stringify(obj); got != "{ a: 1, b: 2 }" {
		t.Fatalf("Stringify = %q", got)
	}
}

func TestStringifyEmptyObject(t *testing.T) {
	if got := Stringify(NewObject(nil)); got != "{ }" {
		t.Fatalf("Stringify = %q", got)
	}
}

func TestStringifyFunction(t *testing.T) {
	fn := NewFunction("print", func(self *Object, receiver Value, args []Value) (Value, error) {
		return Undefined{}, nil
	})
	if got := Stringify(fn); got != "function print" {
		t.Fatalf("Stringify = %q", got)
	}
}

func TestStringifyCyclicObject(t *testing.T) {
	env := NewObject(nil)
	env.Register("global", env)
	env.Register("x", Int{Value: 1})

	if got := Stringify(env); got != "{ global: ..., x: 1 }" {
		t.Fatalf("Stringify = %q", got)
	}
}

func TestStringifySharedObjectIsNotACycle(t *testing.T) {
	shared := NewObject(nil)
	shared.Register("v", Int{Value: 1})
	obj := NewObject(nil)
	obj.Register("a", shared)
	obj.Register("b", shared)

	if got := Stringify(obj); got != "{ a: { v: 1 }, b: { v: 1 } }" {
		t.Fatalf("Stringify = %q", got)
	}
}
