package evaluator

import (
	"errors"
	"fmt"

	"github.com/minjs-lang/minjs/pkg/ast"
	"github.com/minjs-lang/minjs/pkg/diagnostics"
)

// Failure represents a runtime error during minjs execution. Every failure
// is fatal to the running script: there is no in-language catch construct.
type Failure struct {
	Code    string
	Message string
	Span    *ast.Span
}

func (e *Failure) Error() string {
	return e.Message
}

// NewFailure creates a Failure without a source location. The evaluator
// fills in the call site when such a failure crosses an invocation.
func NewFailure(code, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

// returnSignal carries a function's result out of nested evaluation up to
// the invocation boundary. It travels on the error channel but is not a
// Failure; only the closure invoker may convert it back into a value.
type returnSignal struct {
	value Value
}

func (*returnSignal) Error() string {
	return "return outside function"
}

// Options configures script execution.
type Options struct {
	// MaxCallDepth bounds the number of nested function invocations.
	// Zero means unlimited; runaway recursion then exhausts the host stack.
	MaxCallDepth int
}

type evaluator struct {
	opts  Options
	depth int
}

// Execute evaluates a parsed script against the given root environment.
// The script's result is always undefined; a top-level return is an
// internal failure, never a silent success.
func Execute(script *ast.Script, globalEnv *Object, opts Options) (Value, error) {
	ev := &evaluator{opts: opts}
	val, err := ev.eval(script.Body, globalEnv)
	if err != nil {
		return nil, escapedSignal(err, script.Span)
	}
	return val, nil
}

// ExecuteInteractive evaluates a script like Execute but yields the value
// of its final instruction, so a REPL can echo expression results.
func ExecuteInteractive(script *ast.Script, globalEnv *Object, opts Options) (Value, error) {
	ev := &evaluator{opts: opts}
	var last Value = Undefined{}
	for _, instr := range script.Body.Instrs {
		val, err := ev.eval(instr, globalEnv)
		if err != nil {
			return nil, escapedSignal(err, script.Span)
		}
		last = val
	}
	return last, nil
}

// escapedSignal converts a return signal that reached the top level into an
// internal failure. Any other error passes through.
func escapedSignal(err error, span ast.Span) error {
	var ret *returnSignal
	if errors.As(err, &ret) {
		return &Failure{
			Code:    diagnostics.EInternal,
			Message: "return outside of a function body",
			Span:    &span,
		}
	}
	return err
}

// eval is the dispatcher: total over the closed node set, failing fast on
// anything else.
func (ev *evaluator) eval(expr ast.Expr, env *Object) (Value, error) {
	switch e := expr.(type) {
	case *ast.Block:
		// Same environment for every instruction: minjs has var only,
		// no block-local declarations.
		for _, instr := range e.Instrs {
			if _, err := ev.eval(instr, env); err != nil {
				return nil, err
			}
		}
		return Undefined{}, nil

	case *ast.IntLiteral:
		return Int{Value: e.Value}, nil

	case *ast.StrLiteral:
		return Str{Value: e.Value}, nil

	case *ast.LocalVarAccess:
		return env.Lookup(e.Name), nil

	case *ast.LocalVarAssignment:
		return ev.evalVarAssignment(e, env)

	case *ast.Fun:
		return ev.evalFun(e, env), nil

	case *ast.FunCall:
		return ev.evalFunCall(e, env)

	case *ast.Return:
		var val Value = Undefined{}
		if e.Expr != nil {
			v, err := ev.eval(e.Expr, env)
			if err != nil {
				return nil, err
			}
			val = v
		}
		return nil, &returnSignal{value: val}

	case *ast.If:
		return ev.evalIf(e, env)

	case *ast.ObjectConstruction:
		obj := NewObject(nil)
		for _, field := range e.Fields {
			val, err := ev.eval(field.Value, env)
			if err != nil {
				return nil, err
			}
			obj.Register(field.Key, val)
		}
		return obj, nil

	case *ast.FieldAccess:
		recv, err := ev.evalReceiver(e.Receiver, env, e)
		if err != nil {
			return nil, err
		}
		return recv.Lookup(e.Name), nil

	case *ast.FieldAssignment:
		recv, err := ev.evalReceiver(e.Receiver, env, e)
		if err != nil {
			return nil, err
		}
		val, err := ev.eval(e.Expr, env)
		if err != nil {
			return nil, err
		}
		recv.Register(e.Name, val)
		return Undefined{}, nil

	case *ast.MethodCall:
		return ev.evalMethodCall(e, env)

	default:
		// Unreachable with the closed node set; a new variant must be
		// wired here before it can exist.
		span := expr.NodeSpan()
		return nil, &Failure{
			Code:    diagnostics.EInternal,
			Message: fmt.Sprintf("unhandled node kind %s", expr.Kind()),
			Span:    &span,
		}
	}
}

func (ev *evaluator) evalVarAssignment(e *ast.LocalVarAssignment, env *Object) (Value, error) {
	current := env.Lookup(e.Name)
	if !e.Declare && IsUndefined(current) {
		span := e.Span
		return nil, &Failure{
			Code:    diagnostics.EUndefined,
			Message: fmt.Sprintf("no variable '%s' defined", e.Name),
			Span:    &span,
		}
	}
	if e.Declare && !IsUndefined(current) {
		span := e.Span
		return nil, &Failure{
			Code:    diagnostics.ERedeclared,
			Message: fmt.Sprintf("variable '%s' already defined", e.Name),
			Span:    &span,
		}
	}
	val, err := ev.eval(e.Expr, env)
	if err != nil {
		return nil, err
	}
	// Always writes the innermost frame, even for a plain assignment.
	env.Register(e.Name, val)
	return Undefined{}, nil
}

// evalFun builds a closure capturing the defining environment. A named
// definition also registers itself in that environment.
func (ev *evaluator) evalFun(fun *ast.Fun, env *Object) Value {
	name := fun.Name
	if name == "" {
		name = "lambda"
	}
	defSpan := fun.Span

	fn := NewFunction(name, func(self *Object, receiver Value, args []Value) (Value, error) {
		if len(args) != len(fun.Params) {
			return nil, &Failure{
				Code:    diagnostics.EArity,
				Message: fmt.Sprintf("wrong number of arguments for %s: got %d, want %d", name, len(args), len(fun.Params)),
				Span:    &defSpan,
			}
		}
		if err := ev.enter(&defSpan); err != nil {
			return nil, err
		}
		defer ev.leave()

		// Parent is the captured defining environment, never the
		// caller's: scoping is lexical.
		frame := NewEnv(env)
		frame.Register("this", receiver)
		for i, param := range fun.Params {
			frame.Register(param, args[i])
		}

		_, err := ev.eval(fun.Body, frame)
		if err != nil {
			var ret *returnSignal
			if errors.As(err, &ret) {
				// The one place the return signal is caught.
				return ret.value, nil
			}
			return nil, err
		}
		return Undefined{}, nil
	})

	if fun.Name != "" {
		env.Register(fun.Name, fn)
	}
	return fn
}

func (ev *evaluator) evalFunCall(e *ast.FunCall, env *Object) (Value, error) {
	callee, err := ev.eval(e.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, err := asFunction(callee, e)
	if err != nil {
		return nil, err
	}
	args, err := ev.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}
	return ev.call(fn, Undefined{}, args, e)
}

func (ev *evaluator) evalMethodCall(e *ast.MethodCall, env *Object) (Value, error) {
	recv, err := ev.evalReceiver(e.Receiver, env, e)
	if err != nil {
		return nil, err
	}
	method, err := asFunction(recv.Lookup(e.Name), e)
	if err != nil {
		return nil, err
	}
	args, err := ev.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}
	return ev.call(method, recv, args, e)
}

func (ev *evaluator) evalIf(e *ast.If, env *Object) (Value, error) {
	cond, err := ev.eval(e.Cond, env)
	if err != nil {
		return nil, err
	}
	condInt, ok := cond.(Int)
	if !ok {
		span := e.Cond.NodeSpan()
		return nil, &Failure{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("type error: if condition %s is not an integer", Stringify(cond)),
			Span:    &span,
		}
	}
	if condInt.Value == 0 {
		return ev.eval(e.Else, env)
	}
	return ev.eval(e.Then, env)
}

// evalArgs evaluates argument expressions left to right.
func (ev *evaluator) evalArgs(exprs []ast.Expr, env *Object) ([]Value, error) {
	args := make([]Value, len(exprs))
	for i, expr := range exprs {
		val, err := ev.eval(expr, env)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	return args, nil
}

// evalReceiver evaluates an expression that must yield an object.
func (ev *evaluator) evalReceiver(expr ast.Expr, env *Object, at ast.Node) (*Object, error) {
	val, err := ev.eval(expr, env)
	if err != nil {
		return nil, err
	}
	obj, ok := val.(*Object)
	if !ok {
		span := at.NodeSpan()
		return nil, &Failure{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("type error: %s is not an object", Stringify(val)),
			Span:    &span,
		}
	}
	return obj, nil
}

// asFunction checks that a value is an invocable object.
func asFunction(val Value, at ast.Node) (*Object, error) {
	obj, ok := val.(*Object)
	if !ok || !obj.Invocable() {
		span := at.NodeSpan()
		return nil, &Failure{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("type error: %s is not a function", Stringify(val)),
			Span:    &span,
		}
	}
	return obj, nil
}

// call invokes fn and pins a source location onto failures raised by
// natives, which have no span of their own.
func (ev *evaluator) call(fn *Object, receiver Value, args []Value, at ast.Node) (Value, error) {
	val, err := fn.Invoke(receiver, args)
	if err != nil {
		var fail *Failure
		if errors.As(err, &fail) {
			if fail.Span == nil {
				span := at.NodeSpan()
				fail.Span = &span
			}
			return nil, fail
		}
		// Plain error from a native becomes a builtin failure at the
		// call site.
		span := at.NodeSpan()
		return nil, &Failure{
			Code:    diagnostics.EBuiltin,
			Message: err.Error(),
			Span:    &span,
		}
	}
	return val, nil
}

func (ev *evaluator) enter(span *ast.Span) error {
	ev.depth++
	if ev.opts.MaxCallDepth > 0 && ev.depth > ev.opts.MaxCallDepth {
		ev.depth--
		return &Failure{
			Code:    diagnostics.EDepth,
			Message: fmt.Sprintf("call depth exceeded (max %d)", ev.opts.MaxCallDepth),
			Span:    span,
		}
	}
	return nil
}

func (ev *evaluator) leave() {
	ev.depth--
}
