// Package parser implements the minjs language parser.
//
// minjs has no operator precedence: operators are ordinary callable names
// (`+(x, y)`), so the grammar is a small recursive descent over statements,
// primaries, and postfix call/field chains.
package parser

import (
	"fmt"
	"strconv"

	"github.com/minjs-lang/minjs/pkg/ast"
	"github.com/minjs-lang/minjs/pkg/diagnostics"
	"github.com/minjs-lang/minjs/pkg/lexer"
)

type parser struct {
	tokens []lexer.Token
	pos    int
	diags  []diagnostics.Diagnostic
}

// Parse tokenizes source and parses it into a Script AST.
func Parse(source, filename string) (*ast.Script, []diagnostics.Diagnostic) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		if le, ok := err.(*lexer.LexError); ok {
			return nil, []diagnostics.Diagnostic{le.Diag}
		}
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.ELex, err.Error(), nil, "")}
	}

	p := &parser{tokens: tokens, pos: 0}
	script := p.parseScript(filename)
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return script, nil
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() lexer.TokenType {
	return p.current().Type
}

func (p *parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ lexer.TokenType) (lexer.Token, bool) {
	tok := p.current()
	if tok.Type != typ {
		p.addError(fmt.Sprintf("expected %s, got '%s'", tokenName(typ), tok.Value), &tok.Span)
		return tok, false
	}
	return p.advance(), true
}

func (p *parser) addError(msg string, span *ast.Span) {
	p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.EParse, msg, span, ""))
}

func (p *parser) spanFrom(start ast.Span) ast.Span {
	cur := p.current().Span
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   cur.StartLine,
		EndCol:    cur.StartCol,
	}
}

func (p *parser) spanFromTo(start, end ast.Span) ast.Span {
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

func tokenName(t lexer.TokenType) string {
	switch t {
	case lexer.TokLBrace:
		return "'{'"
	case lexer.TokRBrace:
		return "'}'"
	case lexer.TokLParen:
		return "'('"
	case lexer.TokRParen:
		return "')'"
	case lexer.TokColon:
		return "':'"
	case lexer.TokComma:
		return "','"
	case lexer.TokSemi:
		return "';'"
	case lexer.TokEquals:
		return "'='"
	case lexer.TokIdent:
		return "identifier"
	case lexer.TokStringLit:
		return "string"
	case lexer.TokIntLit:
		return "integer"
	case lexer.TokEOF:
		return "end of file"
	default:
		return fmt.Sprintf("token(%d)", t)
	}
}

// --- Script ---

func (p *parser) parseScript(filename string) *ast.Script {
	startSpan := p.current().Span

	var instrs []ast.Expr
	for p.peek() != lexer.TokEOF {
		instr := p.parseInstr()
		if instr == nil {
			return nil
		}
		instrs = append(instrs, instr)
	}

	bodySpan := p.spanFrom(startSpan)
	return &ast.Script{
		Span: bodySpan,
		Body: &ast.Block{Span: bodySpan, Instrs: instrs},
	}
}

// --- Instructions ---

func (p *parser) parseInstr() ast.Expr {
	switch p.peek() {
	case lexer.TokVar:
		return p.parseVarDecl()
	case lexer.TokReturn:
		return p.parseReturn()
	case lexer.TokIf:
		return p.parseIf()
	case lexer.TokFunction:
		return p.parseFunctionInstr()
	default:
		return p.parseExprInstr()
	}
}

func (p *parser) parseVarDecl() ast.Expr {
	start := p.advance() // consume 'var'
	nameTok, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.TokEquals); !ok {
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokSemi); !ok {
		return nil
	}
	return &ast.LocalVarAssignment{
		Span:    p.spanFrom(start.Span),
		Name:    nameTok.Value,
		Expr:    value,
		Declare: true,
	}
}

func (p *parser) parseReturn() ast.Expr {
	start := p.advance() // consume 'return'
	if p.peek() == lexer.TokSemi {
		p.advance()
		return &ast.Return{Span: p.spanFrom(start.Span)}
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokSemi); !ok {
		return nil
	}
	return &ast.Return{Span: p.spanFrom(start.Span), Expr: value}
}

func (p *parser) parseIf() ast.Expr {
	start := p.advance() // consume 'if'
	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}
	thenBlock := p.parseBlock()
	if thenBlock == nil {
		return nil
	}

	// Missing else is an empty block, so the evaluator always has two
	// branches to choose from.
	elseBlock := &ast.Block{Span: thenBlock.Span}
	if p.peek() == lexer.TokElse {
		p.advance()
		elseBlock = p.parseBlock()
		if elseBlock == nil {
			return nil
		}
	}

	return &ast.If{
		Span: p.spanFrom(start.Span),
		Cond: cond,
		Then: thenBlock,
		Else: elseBlock,
	}
}

// parseFunctionInstr parses a function definition in statement position,
// where a name is required.
func (p *parser) parseFunctionInstr() ast.Expr {
	tok := p.current()
	fun := p.parseFunction(false)
	if fun == nil {
		return nil
	}
	if fun.Name == "" {
		p.addError("function statement requires a name", &tok.Span)
		return nil
	}
	return fun
}

func (p *parser) parseExprInstr() ast.Expr {
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}

	// `target = expr;` assignment forms
	if p.peek() == lexer.TokEquals {
		eqTok := p.advance()
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		if _, ok := p.expect(lexer.TokSemi); !ok {
			return nil
		}
		switch target := expr.(type) {
		case *ast.LocalVarAccess:
			return &ast.LocalVarAssignment{
				Span:    p.spanFrom(target.Span),
				Name:    target.Name,
				Expr:    value,
				Declare: false,
			}
		case *ast.FieldAccess:
			return &ast.FieldAssignment{
				Span:     p.spanFrom(target.Span),
				Receiver: target.Receiver,
				Name:     target.Name,
				Expr:     value,
			}
		default:
			p.addError("invalid assignment target", &eqTok.Span)
			return nil
		}
	}

	if _, ok := p.expect(lexer.TokSemi); !ok {
		return nil
	}
	return expr
}

// --- Blocks ---

func (p *parser) parseBlock() *ast.Block {
	start, ok := p.expect(lexer.TokLBrace)
	if !ok {
		return nil
	}
	var instrs []ast.Expr
	for p.peek() != lexer.TokRBrace && p.peek() != lexer.TokEOF {
		instr := p.parseInstr()
		if instr == nil {
			return nil
		}
		instrs = append(instrs, instr)
	}
	if _, ok := p.expect(lexer.TokRBrace); !ok {
		return nil
	}
	return &ast.Block{Span: p.spanFrom(start.Span), Instrs: instrs}
}

// --- Expressions ---

func (p *parser) parseExpr() ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	return p.parsePostfix(expr)
}

// parsePostfix consumes call and field-access chains: `f(x)`, `o.f`,
// `o.m(x)` (a method call, receiver passed through).
func (p *parser) parsePostfix(expr ast.Expr) ast.Expr {
	for {
		switch p.peek() {
		case lexer.TokLParen:
			args := p.parseArgs()
			if args == nil {
				return nil
			}
			if field, ok := expr.(*ast.FieldAccess); ok {
				expr = &ast.MethodCall{
					Span:     p.spanFrom(field.Span),
					Receiver: field.Receiver,
					Name:     field.Name,
					Args:     *args,
				}
			} else {
				expr = &ast.FunCall{
					Span:   p.spanFrom(expr.NodeSpan()),
					Callee: expr,
					Args:   *args,
				}
			}

		case lexer.TokDot:
			p.advance()
			nameTok, ok := p.expect(lexer.TokIdent)
			if !ok {
				return nil
			}
			expr = &ast.FieldAccess{
				Span:     p.spanFromTo(expr.NodeSpan(), nameTok.Span),
				Receiver: expr,
				Name:     nameTok.Value,
			}

		default:
			return expr
		}
	}
}

func (p *parser) parseArgs() *[]ast.Expr {
	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	args := []ast.Expr{}
	for p.peek() != lexer.TokRParen {
		arg := p.parseExpr()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if p.peek() == lexer.TokComma {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}
	return &args
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.current()
	switch tok.Type {
	case lexer.TokIntLit:
		p.advance()
		value, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			p.addError(fmt.Sprintf("invalid integer literal '%s'", tok.Value), &tok.Span)
			return nil
		}
		return &ast.IntLiteral{Span: tok.Span, Value: value}

	case lexer.TokStringLit:
		p.advance()
		return &ast.StrLiteral{Span: tok.Span, Value: tok.Value}

	case lexer.TokIdent, lexer.TokOpName:
		p.advance()
		return &ast.LocalVarAccess{Span: tok.Span, Name: tok.Value}

	case lexer.TokFunction:
		return p.parseFunction(true)

	case lexer.TokLBrace:
		return p.parseObject()

	case lexer.TokLParen:
		p.advance()
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		if _, ok := p.expect(lexer.TokRParen); !ok {
			return nil
		}
		return expr
	}

	p.addError(fmt.Sprintf("unexpected token '%s'", tok.Value), &tok.Span)
	return nil
}

// parseFunction parses `function name?(params) { body }`. The name is
// optional only in expression position.
func (p *parser) parseFunction(anonymousOK bool) *ast.Fun {
	start := p.advance() // consume 'function'

	name := ""
	if p.peek() == lexer.TokIdent {
		name = p.advance().Value
	} else if !anonymousOK {
		tok := p.current()
		p.addError(fmt.Sprintf("expected function name, got '%s'", tok.Value), &tok.Span)
		return nil
	}

	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	params := []string{}
	for p.peek() != lexer.TokRParen {
		paramTok, ok := p.expect(lexer.TokIdent)
		if !ok {
			return nil
		}
		params = append(params, paramTok.Value)
		if p.peek() == lexer.TokComma {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return &ast.Fun{
		Span:   p.spanFrom(start.Span),
		Name:   name,
		Params: params,
		Body:   body,
	}
}

func (p *parser) parseObject() ast.Expr {
	start, ok := p.expect(lexer.TokLBrace)
	if !ok {
		return nil
	}

	var fields []ast.ObjectField
	for p.peek() != lexer.TokRBrace {
		keyTok := p.current()
		var key string
		switch keyTok.Type {
		case lexer.TokIdent:
			key = keyTok.Value
			p.advance()
		case lexer.TokStringLit:
			key = keyTok.Value
			p.advance()
		default:
			p.addError(fmt.Sprintf("expected property name, got '%s'", keyTok.Value), &keyTok.Span)
			return nil
		}

		if _, ok := p.expect(lexer.TokColon); !ok {
			return nil
		}
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		fields = append(fields, ast.ObjectField{
			Span:  p.spanFrom(keyTok.Span),
			Key:   key,
			Value: value,
		})

		if p.peek() == lexer.TokComma {
			p.advance()
			continue
		}
		break
	}

	if _, ok := p.expect(lexer.TokRBrace); !ok {
		return nil
	}
	return &ast.ObjectConstruction{Span: p.spanFrom(start.Span), Fields: fields}
}
