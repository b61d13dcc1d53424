// Package ast defines the minjs language AST node types.
//
// The node set is closed: the evaluator dispatches exhaustively over it and
// treats any other Expr implementation as an internal error.
package ast

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() Span
}

// Expr is the interface for all minjs nodes. The language is
// expression-oriented: statements are expressions whose value is discarded
// by the enclosing block.
type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Literals ---

// IntLiteral is an integer constant.
type IntLiteral struct {
	Span  Span
	Value int64
}

func (n *IntLiteral) Kind() string   { return "IntLiteral" }
func (n *IntLiteral) NodeSpan() Span { return n.Span }
func (n *IntLiteral) exprNode()      {}

// StrLiteral is a string constant.
type StrLiteral struct {
	Span  Span
	Value string
}

func (n *StrLiteral) Kind() string   { return "StrLiteral" }
func (n *StrLiteral) NodeSpan() Span { return n.Span }
func (n *StrLiteral) exprNode()      {}

// --- Variables ---

// LocalVarAccess reads a variable through the environment chain.
type LocalVarAccess struct {
	Span Span
	Name string
}

func (n *LocalVarAccess) Kind() string   { return "LocalVarAccess" }
func (n *LocalVarAccess) NodeSpan() Span { return n.Span }
func (n *LocalVarAccess) exprNode()      {}

// LocalVarAssignment writes a variable into the innermost frame.
// Declare distinguishes `var x = e` from `x = e`.
type LocalVarAssignment struct {
	Span    Span
	Name    string
	Expr    Expr
	Declare bool
}

func (n *LocalVarAssignment) Kind() string   { return "LocalVarAssignment" }
func (n *LocalVarAssignment) NodeSpan() Span { return n.Span }
func (n *LocalVarAssignment) exprNode()      {}

// --- Functions ---

// Fun is a function definition. Name is empty for anonymous functions.
type Fun struct {
	Span   Span
	Name   string
	Params []string
	Body   *Block
}

func (n *Fun) Kind() string   { return "Fun" }
func (n *Fun) NodeSpan() Span { return n.Span }
func (n *Fun) exprNode()      {}

// FunCall invokes the value of Callee with no receiver.
type FunCall struct {
	Span   Span
	Callee Expr
	Args   []Expr
}

func (n *FunCall) Kind() string   { return "FunCall" }
func (n *FunCall) NodeSpan() Span { return n.Span }
func (n *FunCall) exprNode()      {}

// Return raises the non-local return signal. Expr may be nil (`return;`).
type Return struct {
	Span Span
	Expr Expr
}

func (n *Return) Kind() string   { return "Return" }
func (n *Return) NodeSpan() Span { return n.Span }
func (n *Return) exprNode()      {}

// --- Control flow ---

// Block is a sequence of instructions evaluated in the enclosing
// environment. minjs has no block-local declarations.
type Block struct {
	Span   Span
	Instrs []Expr
}

func (n *Block) Kind() string   { return "Block" }
func (n *Block) NodeSpan() Span { return n.Span }
func (n *Block) exprNode()      {}

// If evaluates exactly one of the two branches. Else is never nil; the
// parser supplies an empty block when the else branch is absent.
type If struct {
	Span Span
	Cond Expr
	Then *Block
	Else *Block
}

func (n *If) Kind() string   { return "If" }
func (n *If) NodeSpan() Span { return n.Span }
func (n *If) exprNode()      {}

// --- Objects ---

// ObjectField is one property initializer in an object construction.
type ObjectField struct {
	Span  Span
	Key   string
	Value Expr
}

// ObjectConstruction creates a fresh object with no parent and registers
// each field in order.
type ObjectConstruction struct {
	Span   Span
	Fields []ObjectField
}

func (n *ObjectConstruction) Kind() string   { return "ObjectConstruction" }
func (n *ObjectConstruction) NodeSpan() Span { return n.Span }
func (n *ObjectConstruction) exprNode()      {}

// FieldAccess reads a named property, following the receiver's parent chain.
type FieldAccess struct {
	Span     Span
	Receiver Expr
	Name     string
}

func (n *FieldAccess) Kind() string   { return "FieldAccess" }
func (n *FieldAccess) NodeSpan() Span { return n.Span }
func (n *FieldAccess) exprNode()      {}

// FieldAssignment writes a named property directly on the receiver.
type FieldAssignment struct {
	Span     Span
	Receiver Expr
	Name     string
	Expr     Expr
}

func (n *FieldAssignment) Kind() string   { return "FieldAssignment" }
func (n *FieldAssignment) NodeSpan() Span { return n.Span }
func (n *FieldAssignment) exprNode()      {}

// MethodCall looks up Name through the receiver's chain and invokes it with
// the receiver bound to `this`.
type MethodCall struct {
	Span     Span
	Receiver Expr
	Name     string
	Args     []Expr
}

func (n *MethodCall) Kind() string   { return "MethodCall" }
func (n *MethodCall) NodeSpan() Span { return n.Span }
func (n *MethodCall) exprNode()      {}

// --- Script ---

// Script is a parsed program: a single top-level block.
type Script struct {
	Span Span
	Body *Block
}

func (n *Script) Kind() string   { return "Script" }
func (n *Script) NodeSpan() Span { return n.Span }
