package validator_test

import (
	"strings"
	"testing"

	"github.com/minjs-lang/minjs/pkg/diagnostics"
	"github.com/minjs-lang/minjs/pkg/parser"
	"github.com/minjs-lang/minjs/pkg/validator"
)

func validate(t *testing.T, source string) []diagnostics.Diagnostic {
	t.Helper()
	script, diags := parser.Parse(source, "test.minjs")
	if len(diags) > 0 {
		t.Fatalf("parse: %s", diagnostics.FormatDiagnostics(diags, true))
	}
	return validator.Validate(script)
}

func expectClean(t *testing.T, source string) {
	t.Helper()
	if diags := validate(t, source); len(diags) > 0 {
		t.Fatalf("expected no diagnostics for %q, got %s", source,
			diagnostics.FormatDiagnostics(diags, true))
	}
}

func expectDiag(t *testing.T, source, want string) {
	t.Helper()
	diags := validate(t, source)
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic for %q", source)
	}
	if !strings.Contains(diags[0].Message, want) {
		t.Fatalf("expected message containing %q, got %q", want, diags[0].Message)
	}
	if diags[0].Code != diagnostics.EAst {
		t.Fatalf("expected code %s, got %s", diagnostics.EAst, diags[0].Code)
	}
}

func TestReturnOutsideFunction(t *testing.T) {
	expectDiag(t, "return 1;", "return outside of a function body")
	expectDiag(t, "if (1) { return 1; }", "return outside of a function body")
}

func TestReturnInsideFunction(t *testing.T) {
	expectClean(t, "function f() { return 1; }")
	expectClean(t, "function f() { if (1) { return 1; } return 2; }")
	expectClean(t, "var f = function() { return 1; };")
}

func TestReturnAtTopLevelOfNestedBody(t *testing.T) {
	// Once back outside the function the check applies again.
	expectDiag(t, "function f() { return 1; } return 2;", "return outside of a function body")
}

func TestDuplicateParameters(t *testing.T) {
	expectDiag(t, "function f(a, a) { }", "duplicate parameter 'a' in function f")
	expectDiag(t, "var f = function(x, y, x) { };", "duplicate parameter 'x' in function lambda")
	expectClean(t, "function f(a, b, c) { }")
}

func TestDuplicateObjectKeys(t *testing.T) {
	expectDiag(t, "var o = { a: 1, a: 2 };", "duplicate object key 'a'")
	expectDiag(t, `var o = { "k": 1, k: 2 };`, "duplicate object key 'k'")
	expectClean(t, "var o = { a: 1, b: 2 };")
}

func TestChecksReachNestedExpressions(t *testing.T) {
	expectDiag(t, "var o = { m: function(p, p) { } };", "duplicate parameter 'p'")
	expectDiag(t, "print({ a: 1, a: 2 });", "duplicate object key 'a'")
	expectDiag(t, "o.f = { b: 1, b: 2 };", "duplicate object key 'b'")
}

func TestMultipleDiagnostics(t *testing.T) {
	diags := validate(t, "var o = { a: 1, a: 2 }; return 1;")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
}
