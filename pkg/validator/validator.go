// Package validator performs static checks on a parsed minjs script.
//
// The checks catch mistakes the evaluator would otherwise only hit at
// runtime, or not at all: a return outside any function body, duplicate
// parameter names, and duplicate keys in an object literal.
package validator

import (
	"fmt"

	"github.com/minjs-lang/minjs/pkg/ast"
	"github.com/minjs-lang/minjs/pkg/diagnostics"
)

type validator struct {
	diags    []diagnostics.Diagnostic
	funDepth int
}

// Validate checks a script and returns all diagnostics found.
func Validate(script *ast.Script) []diagnostics.Diagnostic {
	v := &validator{}
	v.checkBlock(script.Body)
	return v.diags
}

func (v *validator) addError(code, msg string, span ast.Span) {
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, &span, ""))
}

func (v *validator) checkBlock(block *ast.Block) {
	for _, instr := range block.Instrs {
		v.check(instr)
	}
}

func (v *validator) check(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Block:
		v.checkBlock(e)

	case *ast.IntLiteral, *ast.StrLiteral, *ast.LocalVarAccess:
		// Leaves, nothing to check.

	case *ast.LocalVarAssignment:
		v.check(e.Expr)

	case *ast.Fun:
		v.checkFun(e)

	case *ast.FunCall:
		v.check(e.Callee)
		for _, arg := range e.Args {
			v.check(arg)
		}

	case *ast.Return:
		if v.funDepth == 0 {
			v.addError(diagnostics.EAst, "return outside of a function body", e.Span)
		}
		if e.Expr != nil {
			v.check(e.Expr)
		}

	case *ast.If:
		v.check(e.Cond)
		v.checkBlock(e.Then)
		v.checkBlock(e.Else)

	case *ast.ObjectConstruction:
		seen := make(map[string]bool)
		for _, field := range e.Fields {
			if seen[field.Key] {
				v.addError(diagnostics.EAst,
					fmt.Sprintf("duplicate object key '%s'", field.Key), field.Span)
			}
			seen[field.Key] = true
			v.check(field.Value)
		}

	case *ast.FieldAccess:
		v.check(e.Receiver)

	case *ast.FieldAssignment:
		v.check(e.Receiver)
		v.check(e.Expr)

	case *ast.MethodCall:
		v.check(e.Receiver)
		for _, arg := range e.Args {
			v.check(arg)
		}
	}
}

func (v *validator) checkFun(fun *ast.Fun) {
	seen := make(map[string]bool)
	for _, param := range fun.Params {
		if seen[param] {
			name := fun.Name
			if name == "" {
				name = "lambda"
			}
			v.addError(diagnostics.EAst,
				fmt.Sprintf("duplicate parameter '%s' in function %s", param, name), fun.Span)
		}
		seen[param] = true
	}

	v.funDepth++
	v.checkBlock(fun.Body)
	v.funDepth--
}
