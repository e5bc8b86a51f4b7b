// Package target models the module-based target abstract syntax tree
// the translator emits, and the factory functions a concrete builder
// library would expose (spec §3 "Target AST (produced)", §6 "Runtime
// library contract"). Node shapes follow the teacher's one-struct-per-
// node-kind style (internal/ast/ast.go in sunholo-data-ailang),
// retargeted at an ESTree-like scripting-language AST instead of a
// functional-language surface syntax.
package target

import "fmt"

// Node is the base interface for every target-AST shape.
type Node interface {
	node()
}

// Program is the root of one emitted target-AST file.
type Program struct {
	Body []Node
}

func (*Program) node() {}

// ImportSpecifier names one binding pulled in by an ImportDeclaration:
// `local` is the name visible in this module, `imported` is the name
// as exported by the source module (equal for a plain import).
type ImportSpecifier struct {
	Local    string
	Imported string
}

// ImportDeclaration binds Specifiers from Source (a module import path,
// per spec §6's module-to-file-path mapping).
type ImportDeclaration struct {
	Source      string
	Specifiers  []ImportSpecifier
	IsNamespace bool // true for "import * as Local from Source"
}

func (*ImportDeclaration) node() {}

// ExportDeclaration exposes Names from the current module.
type ExportDeclaration struct {
	Names []string
}

func (*ExportDeclaration) node() {}

// VariableDeclaration is `const Name = Init;` (the translator only ever
// emits `const` bindings — source-language rebinding is handled by
// pattern lowering, never target-level mutation).
type VariableDeclaration struct {
	Name string
	Init Node
}

func (*VariableDeclaration) node() {}

// FunctionDeclaration is a named function with Params and a Body block.
type FunctionDeclaration struct {
	Name   string
	Params []string
	Body   *BlockStatement
}

func (*FunctionDeclaration) node() {}

// Identifier is a target-language identifier reference.
type Identifier struct {
	Name string
}

func (*Identifier) node() {}

// LiteralKind discriminates target literal shapes.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	NullLiteral
)

// Literal is a target-language literal value.
type Literal struct {
	Kind  LiteralKind
	Value interface{}
}

func (*Literal) node() {}

// ArrayExpression is `[elements...]`.
type ArrayExpression struct {
	Elements []Node
}

func (*ArrayExpression) node() {}

// Property is one `key: value` entry of an ObjectExpression.
type Property struct {
	Key   string
	Value Node
}

// ObjectExpression is `{ properties... }`.
type ObjectExpression struct {
	Properties []Property
}

func (*ObjectExpression) node() {}

// MemberExpression is `object.property` or `object[property]` when
// Computed is true.
type MemberExpression struct {
	Object   Node
	Property Node
	Computed bool
}

func (*MemberExpression) node() {}

// CallExpression is `callee(arguments...)`.
type CallExpression struct {
	Callee    Node
	Arguments []Node
}

func (*CallExpression) node() {}

// NewExpression is `new callee(arguments...)`.
type NewExpression struct {
	Callee    Node
	Arguments []Node
}

func (*NewExpression) node() {}

// BinaryExpression is `left op right`.
type BinaryExpression struct {
	Operator string
	Left     Node
	Right    Node
}

func (*BinaryExpression) node() {}

// UnaryExpression is `op argument`.
type UnaryExpression struct {
	Operator string
	Argument Node
}

func (*UnaryExpression) node() {}

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	Test       Node
	Consequent Node
	Alternate  Node
}

func (*ConditionalExpression) node() {}

// ArrowFunctionExpression is `(params...) => body`. Body is a Node for
// an expression-bodied arrow, or a *BlockStatement for a block body.
type ArrowFunctionExpression struct {
	Params []string
	Body   Node
}

func (*ArrowFunctionExpression) node() {}

// SpreadElement is `...argument`.
type SpreadElement struct {
	Argument Node
}

func (*SpreadElement) node() {}

// SequenceExpression is `(a, b, c)`, evaluating to the last element.
type SequenceExpression struct {
	Expressions []Node
}

func (*SequenceExpression) node() {}

// AssignmentExpression is `target = value`.
type AssignmentExpression struct {
	Target Node
	Value  Node
}

func (*AssignmentExpression) node() {}

// BlockStatement is `{ body... }`.
type BlockStatement struct {
	Body []Node
}

func (*BlockStatement) node() {}

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	Expression Node
}

func (*ExpressionStatement) node() {}

// ReturnStatement is `return argument;`.
type ReturnStatement struct {
	Argument Node
}

func (*ReturnStatement) node() {}

// ThrowStatement is `throw argument;`.
type ThrowStatement struct {
	Argument Node
}

func (*ThrowStatement) node() {}

// TryStatement is `try { block } catch (param) { handler } finally { finalizer }`.
type TryStatement struct {
	Block     *BlockStatement
	Param     string // "" if the catch clause binds nothing
	Handler   *BlockStatement // nil if there is no catch
	Finalizer *BlockStatement // nil if there is no finally
}

func (*TryStatement) node() {}

// ---------------------------------------------------------------------
// Builder factory functions (spec §6: "the exact factory names are not
// prescribed" — these are the names this translator was written
// against).
// ---------------------------------------------------------------------

func NewProgram(body ...Node) *Program { return &Program{Body: body} }

func NewImport(source string, specs ...ImportSpecifier) *ImportDeclaration {
	return &ImportDeclaration{Source: source, Specifiers: specs}
}

func NewNamespaceImport(local, source string) *ImportDeclaration {
	return &ImportDeclaration{Source: source, Specifiers: []ImportSpecifier{{Local: local}}, IsNamespace: true}
}

func NewExport(names ...string) *ExportDeclaration { return &ExportDeclaration{Names: names} }

func NewConst(name string, init Node) *VariableDeclaration {
	return &VariableDeclaration{Name: name, Init: init}
}

func NewIdentifier(name string) *Identifier { return &Identifier{Name: name} }

func NewNumber(v float64) *Literal  { return &Literal{Kind: NumberLiteral, Value: v} }
func NewString(v string) *Literal   { return &Literal{Kind: StringLiteral, Value: v} }
func NewBool(v bool) *Literal       { return &Literal{Kind: BoolLiteral, Value: v} }
func NewNull() *Literal             { return &Literal{Kind: NullLiteral, Value: nil} }

func NewArray(elements ...Node) *ArrayExpression { return &ArrayExpression{Elements: elements} }

func NewObject(props ...Property) *ObjectExpression { return &ObjectExpression{Properties: props} }

func NewMember(object, property Node, computed bool) *MemberExpression {
	return &MemberExpression{Object: object, Property: property, Computed: computed}
}

func NewCall(callee Node, args ...Node) *CallExpression {
	return &CallExpression{Callee: callee, Arguments: args}
}

func NewNewExpr(callee Node, args ...Node) *NewExpression {
	return &NewExpression{Callee: callee, Arguments: args}
}

func NewBinary(op string, left, right Node) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

func NewUnary(op string, arg Node) *UnaryExpression {
	return &UnaryExpression{Operator: op, Argument: arg}
}

func NewConditional(test, cons, alt Node) *ConditionalExpression {
	return &ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}
}

func NewArrow(params []string, body Node) *ArrowFunctionExpression {
	return &ArrowFunctionExpression{Params: params, Body: body}
}

func NewSpread(arg Node) *SpreadElement { return &SpreadElement{Argument: arg} }

func NewSequence(exprs ...Node) *SequenceExpression {
	return &SequenceExpression{Expressions: exprs}
}

func NewAssignment(target, value Node) *AssignmentExpression {
	return &AssignmentExpression{Target: target, Value: value}
}

func NewBlock(body ...Node) *BlockStatement { return &BlockStatement{Body: body} }

func NewExprStmt(expr Node) *ExpressionStatement { return &ExpressionStatement{Expression: expr} }

func NewReturn(arg Node) *ReturnStatement { return &ReturnStatement{Argument: arg} }

func NewThrow(arg Node) *ThrowStatement { return &ThrowStatement{Argument: arg} }

func NewFunction(name string, params []string, body *BlockStatement) *FunctionDeclaration {
	return &FunctionDeclaration{Name: name, Params: params, Body: body}
}

func NewTry(block *BlockStatement, param string, handler, finalizer *BlockStatement) *TryStatement {
	return &TryStatement{Block: block, Param: param, Handler: handler, Finalizer: finalizer}
}

// String gives a compact debug rendering; the real serializer to text
// is the pretty-printer collaborator (out of scope, per spec §1).
func (p *Program) String() string { return fmt.Sprintf("Program(%d decls)", len(p.Body)) }
