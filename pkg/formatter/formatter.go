// Package formatter renders a minjs AST back to canonical source text.
//
// The output uses four-space indentation, one instruction per line, and a
// single space after commas and colons. Formatting a formatted script is a
// no-op.
package formatter

import (
	"strconv"
	"strings"

	"github.com/minjs-lang/minjs/pkg/ast"
)

const indentUnit = "    "

// Format renders a script as canonical source.
func Format(script *ast.Script) string {
	var buf strings.Builder
	for _, instr := range script.Body.Instrs {
		writeInstr(&buf, instr, 0)
	}
	return buf.String()
}

func writeIndent(buf *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(indentUnit)
	}
}

func writeInstr(buf *strings.Builder, instr ast.Expr, depth int) {
	writeIndent(buf, depth)
	switch e := instr.(type) {
	case *ast.LocalVarAssignment:
		if e.Declare {
			buf.WriteString("var ")
		}
		buf.WriteString(e.Name)
		buf.WriteString(" = ")
		writeExpr(buf, e.Expr, depth)
		buf.WriteString(";\n")

	case *ast.FieldAssignment:
		writeExpr(buf, e.Receiver, depth)
		buf.WriteString(".")
		buf.WriteString(e.Name)
		buf.WriteString(" = ")
		writeExpr(buf, e.Expr, depth)
		buf.WriteString(";\n")

	case *ast.Return:
		buf.WriteString("return")
		if e.Expr != nil {
			buf.WriteString(" ")
			writeExpr(buf, e.Expr, depth)
		}
		buf.WriteString(";\n")

	case *ast.If:
		buf.WriteString("if (")
		writeExpr(buf, e.Cond, depth)
		buf.WriteString(") ")
		writeBlock(buf, e.Then, depth)
		if len(e.Else.Instrs) > 0 {
			buf.WriteString(" else ")
			writeBlock(buf, e.Else, depth)
		}
		buf.WriteString("\n")

	case *ast.Fun:
		writeFun(buf, e, depth)
		buf.WriteString("\n")

	default:
		writeExpr(buf, instr, depth)
		buf.WriteString(";\n")
	}
}

func writeBlock(buf *strings.Builder, block *ast.Block, depth int) {
	if len(block.Instrs) == 0 {
		buf.WriteString("{ }")
		return
	}
	buf.WriteString("{\n")
	for _, instr := range block.Instrs {
		writeInstr(buf, instr, depth+1)
	}
	writeIndent(buf, depth)
	buf.WriteString("}")
}

func writeFun(buf *strings.Builder, fun *ast.Fun, depth int) {
	buf.WriteString("function")
	if fun.Name != "" {
		buf.WriteString(" ")
		buf.WriteString(fun.Name)
	}
	buf.WriteString("(")
	buf.WriteString(strings.Join(fun.Params, ", "))
	buf.WriteString(") ")
	writeBlock(buf, fun.Body, depth)
}

func writeExpr(buf *strings.Builder, expr ast.Expr, depth int) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		buf.WriteString(strconv.FormatInt(e.Value, 10))

	case *ast.StrLiteral:
		buf.WriteString(quote(e.Value))

	case *ast.LocalVarAccess:
		buf.WriteString(e.Name)

	case *ast.Fun:
		writeFun(buf, e, depth)

	case *ast.FunCall:
		writeExpr(buf, e.Callee, depth)
		writeArgs(buf, e.Args, depth)

	case *ast.FieldAccess:
		writeExpr(buf, e.Receiver, depth)
		buf.WriteString(".")
		buf.WriteString(e.Name)

	case *ast.MethodCall:
		writeExpr(buf, e.Receiver, depth)
		buf.WriteString(".")
		buf.WriteString(e.Name)
		writeArgs(buf, e.Args, depth)

	case *ast.ObjectConstruction:
		writeObject(buf, e, depth)
	}
}

func writeArgs(buf *strings.Builder, args []ast.Expr, depth int) {
	buf.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeExpr(buf, arg, depth)
	}
	buf.WriteString(")")
}

func writeObject(buf *strings.Builder, obj *ast.ObjectConstruction, depth int) {
	if len(obj.Fields) == 0 {
		buf.WriteString("{ }")
		return
	}
	buf.WriteString("{ ")
	for i, field := range obj.Fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(fieldKey(field.Key))
		buf.WriteString(": ")
		writeExpr(buf, field.Value, depth)
	}
	buf.WriteString(" }")
}

// fieldKey writes an object key bare when it is a plain identifier,
// quoted otherwise.
func fieldKey(key string) string {
	if key == "" {
		return quote(key)
	}
	for i := 0; i < len(key); i++ {
		ch := key[i]
		alpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
		digit := ch >= '0' && ch <= '9'
		if !alpha && !(i > 0 && digit) {
			return quote(key)
		}
	}
	return key
}

func quote(s string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}

// HasComments reports whether the source contains line comments, which the
// formatter would drop.
func HasComments(source string) bool {
	inString := false
	for i := 0; i+1 < len(source); i++ {
		ch := source[i]
		if inString {
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			continue
		}
		if ch == '/' && source[i+1] == '/' {
			return true
		}
	}
	return false
}
