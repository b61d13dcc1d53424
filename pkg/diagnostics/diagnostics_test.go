package diagnostics

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/minjs-lang/minjs/pkg/ast"
)

func sampleDiag() Diagnostic {
	return MakeDiag(EType, "type error: 1 is not a function",
		&ast.Span{File: "test.minjs", StartLine: 3, StartCol: 5, EndLine: 3, EndCol: 8},
		"only invocable objects can be called")
}

func TestFormatPretty(t *testing.T) {
	got := FormatDiagnostic(sampleDiag(), true)
	for _, want := range []string{"error[E_TYPE]", "test.minjs:3:5", "hint:"} {
		if !strings.Contains(got, want) {
			t.Fatalf("pretty output missing %q:\n%s", want, got)
		}
	}
}

func TestFormatPrettyWithoutSpan(t *testing.T) {
	d := MakeDiag(EInternal, "boom", nil, "")
	got := FormatDiagnostic(d, true)
	if !strings.Contains(got, "<unknown>") {
		t.Fatalf("missing location placeholder:\n%s", got)
	}
	if strings.Contains(got, "hint:") {
		t.Fatalf("empty hint rendered:\n%s", got)
	}
}

func TestFormatJSON(t *testing.T) {
	got := FormatDiagnostic(sampleDiag(), false)
	var decoded Diagnostic
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("not valid JSON: %v\n%s", err, got)
	}
	if decoded.Code != EType || decoded.Span.StartLine != 3 {
		t.Fatalf("round trip lost fields: %+v", decoded)
	}
}

func TestFormatMultiple(t *testing.T) {
	diags := []Diagnostic{sampleDiag(), MakeDiag(EParse, "expected ';'", nil, "")}

	pretty := FormatDiagnostics(diags, true)
	if strings.Count(pretty, "error[") != 2 {
		t.Fatalf("expected two pretty entries:\n%s", pretty)
	}

	var decoded []Diagnostic
	if err := json.Unmarshal([]byte(FormatDiagnostics(diags, false)), &decoded); err != nil {
		t.Fatalf("JSON list invalid: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 decoded diagnostics, got %d", len(decoded))
	}
}
