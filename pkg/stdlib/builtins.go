package stdlib

import (
	"fmt"
	"io"
	"strings"

	"github.com/minjs-lang/minjs/pkg/diagnostics"
	"github.com/minjs-lang/minjs/pkg/evaluator"
)

func boolToInt(b bool) evaluator.Int {
	if b {
		return evaluator.Int{Value: 1}
	}
	return evaluator.Int{Value: 0}
}

func twoInts(op string, args []Value) (int64, int64, error) {
	a, ok := args[0].(evaluator.Int)
	if !ok {
		return 0, 0, evaluator.NewFailure(diagnostics.EType,
			fmt.Sprintf("type error: %s expects integers, got %s", op, evaluator.Stringify(args[0])))
	}
	b, ok := args[1].(evaluator.Int)
	if !ok {
		return 0, 0, evaluator.NewFailure(diagnostics.EType,
			fmt.Sprintf("type error: %s expects integers, got %s", op, evaluator.Stringify(args[1])))
	}
	return a.Value, b.Value, nil
}

func arithFn(op string, apply func(a, b int64) (int64, error)) Fn {
	return Fn{
		Name:  op,
		Arity: 2,
		Execute: func(args []Value) (Value, error) {
			a, b, err := twoInts(op, args)
			if err != nil {
				return nil, err
			}
			res, err := apply(a, b)
			if err != nil {
				return nil, err
			}
			return evaluator.Int{Value: res}, nil
		},
	}
}

// compareFn builds an ordering native over two integers or two strings.
func compareFn(op string, onInts func(a, b int64) bool, onStrs func(a, b string) bool) Fn {
	return Fn{
		Name:  op,
		Arity: 2,
		Execute: func(args []Value) (Value, error) {
			switch a := args[0].(type) {
			case evaluator.Int:
				if b, ok := args[1].(evaluator.Int); ok {
					return boolToInt(onInts(a.Value, b.Value)), nil
				}
			case evaluator.Str:
				if b, ok := args[1].(evaluator.Str); ok {
					return boolToInt(onStrs(a.Value, b.Value)), nil
				}
			}
			return nil, evaluator.NewFailure(diagnostics.EType,
				fmt.Sprintf("type error: %s expects two integers or two strings, got %s and %s",
					op, evaluator.Stringify(args[0]), evaluator.Stringify(args[1])))
		},
	}
}

// RegisterDefaults fills a registry with the language's natives. Script
// output from print goes to out.
func RegisterDefaults(r *Registry, out io.Writer) error {
	fns := []Fn{
		{
			Name:  "print",
			Arity: -1,
			Execute: func(args []Value) (Value, error) {
				parts := make([]string, len(args))
				for i, arg := range args {
					parts[i] = evaluator.Stringify(arg)
				}
				if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
					return nil, evaluator.NewFailure(diagnostics.EIO,
						fmt.Sprintf("print failed: %v", err))
				}
				return evaluator.Undefined{}, nil
			},
		},
		arithFn("+", func(a, b int64) (int64, error) { return a + b, nil }),
		arithFn("-", func(a, b int64) (int64, error) { return a - b, nil }),
		arithFn("*", func(a, b int64) (int64, error) { return a * b, nil }),
		arithFn("/", func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, evaluator.NewFailure(diagnostics.EBuiltin, "division by zero")
			}
			return a / b, nil
		}),
		arithFn("%", func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, evaluator.NewFailure(diagnostics.EBuiltin, "modulo by zero")
			}
			return a % b, nil
		}),
		{
			Name:  "==",
			Arity: 2,
			Execute: func(args []Value) (Value, error) {
				return boolToInt(evaluator.Equals(args[0], args[1])), nil
			},
		},
		{
			Name:  "!=",
			Arity: 2,
			Execute: func(args []Value) (Value, error) {
				return boolToInt(!evaluator.Equals(args[0], args[1])), nil
			},
		},
		compareFn("<",
			func(a, b int64) bool { return a < b },
			func(a, b string) bool { return a < b }),
		compareFn("<=",
			func(a, b int64) bool { return a <= b },
			func(a, b string) bool { return a <= b }),
		compareFn(">",
			func(a, b int64) bool { return a > b },
			func(a, b string) bool { return a > b }),
		compareFn(">=",
			func(a, b int64) bool { return a >= b },
			func(a, b string) bool { return a >= b }),
	}

	for _, fn := range fns {
		if err := r.Register(fn); err != nil {
			return err
		}
	}
	return nil
}

// Install binds every registered native into env as an invocable object.
// The wrapper enforces the declared arity before the native runs.
func Install(r *Registry, env *evaluator.Object) {
	for _, name := range r.Names() {
		fn, _ := r.Get(name)
		env.Register(fn.Name, evaluator.NewFunction(fn.Name,
			func(self *evaluator.Object, receiver Value, args []Value) (Value, error) {
				if fn.Arity >= 0 && len(args) != fn.Arity {
					return nil, evaluator.NewFailure(diagnostics.EArity,
						fmt.Sprintf("wrong number of arguments for %s: got %d, want %d",
							fn.Name, len(args), fn.Arity))
				}
				return fn.Execute(args)
			}))
	}
}

// NewGlobalEnv builds the root environment: all default natives plus a
// "global" binding referencing the environment itself.
func NewGlobalEnv(out io.Writer) (*evaluator.Object, error) {
	r := NewRegistry()
	if err := RegisterDefaults(r, out); err != nil {
		return nil, err
	}
	env := evaluator.NewEnv(nil)
	env.Register("global", env)
	Install(r, env)
	return env, nil
}
