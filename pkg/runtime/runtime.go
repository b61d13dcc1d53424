// Package runtime is the embedding facade for minjs: parse, validate and
// evaluate scripts against a persistent global environment.
package runtime

import (
	"fmt"
	"io"
	"os"

	"github.com/minjs-lang/minjs/pkg/ast"
	"github.com/minjs-lang/minjs/pkg/diagnostics"
	"github.com/minjs-lang/minjs/pkg/evaluator"
	"github.com/minjs-lang/minjs/pkg/formatter"
	"github.com/minjs-lang/minjs/pkg/parser"
	"github.com/minjs-lang/minjs/pkg/stdlib"
	"github.com/minjs-lang/minjs/pkg/validator"
)

// DefaultMaxCallDepth bounds recursion unless overridden.
const DefaultMaxCallDepth = 10000

// DiagnosticError carries the diagnostics produced by a failed parse or
// validation pass.
type DiagnosticError struct {
	Diags []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	if len(e.Diags) == 1 {
		return e.Diags[0].Message
	}
	return fmt.Sprintf("%d diagnostics", len(e.Diags))
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithOutput redirects script output (print) to w.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// WithMaxCallDepth bounds nested function invocations. Zero disables
// the guard.
func WithMaxCallDepth(depth int) Option {
	return func(rt *Runtime) {
		rt.maxCallDepth = depth
	}
}

// Runtime owns a global environment that persists across Run calls, so a
// REPL accumulates definitions session-wide.
type Runtime struct {
	out          io.Writer
	maxCallDepth int
	globalEnv    *evaluator.Object
}

// New creates a runtime with a freshly bootstrapped global environment.
func New(opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		out:          os.Stdout,
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(rt)
	}
	env, err := stdlib.NewGlobalEnv(rt.out)
	if err != nil {
		return nil, fmt.Errorf("bootstrap global environment: %w", err)
	}
	rt.globalEnv = env
	return rt, nil
}

// GlobalEnv exposes the root environment, letting embedders register extra
// natives before running scripts.
func (rt *Runtime) GlobalEnv() *evaluator.Object {
	return rt.globalEnv
}

func (rt *Runtime) compile(source, filename string) (*ast.Script, error) {
	script, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diags: diags}
	}
	if diags := validator.Validate(script); len(diags) > 0 {
		return nil, &DiagnosticError{Diags: diags}
	}
	return script, nil
}

// Run parses, validates and executes source. A script always evaluates to
// undefined; its observable effects go through print.
func (rt *Runtime) Run(source, filename string) error {
	script, err := rt.compile(source, filename)
	if err != nil {
		return err
	}
	return rt.RunScript(script)
}

// RunScript executes a pre-parsed script against the global environment.
func (rt *Runtime) RunScript(script *ast.Script) error {
	_, err := evaluator.Execute(script, rt.globalEnv, evaluator.Options{
		MaxCallDepth: rt.maxCallDepth,
	})
	return err
}

// RunInteractive executes source and returns the value of its final
// instruction, for REPL echoing.
func (rt *Runtime) RunInteractive(source, filename string) (evaluator.Value, error) {
	script, err := rt.compile(source, filename)
	if err != nil {
		return nil, err
	}
	return evaluator.ExecuteInteractive(script, rt.globalEnv, evaluator.Options{
		MaxCallDepth: rt.maxCallDepth,
	})
}

// Check parses and validates source without executing it.
func (rt *Runtime) Check(source, filename string) error {
	_, err := rt.compile(source, filename)
	return err
}

// Format renders source in canonical form. Sources with comments are
// refused rather than silently stripped.
func (rt *Runtime) Format(source, filename string) (string, error) {
	if formatter.HasComments(source) {
		return "", &DiagnosticError{Diags: []diagnostics.Diagnostic{
			diagnostics.MakeDiag(diagnostics.EParse,
				"cannot format a script containing comments", nil,
				"remove // comments before formatting"),
		}}
	}
	script, err := rt.compile(source, filename)
	if err != nil {
		return "", err
	}
	return formatter.Format(script), nil
}
