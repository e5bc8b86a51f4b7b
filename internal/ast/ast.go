// Package ast defines the source-language abstract syntax tree consumed by
// the translator. The tree is produced by a parser that is out of scope
// for this module (§1): every node here is a plain data shape the
// dispatcher in internal/translate pattern-matches over.
package ast

import (
	"fmt"
	"strings"
)

// Pos is a position in a source file.
type Pos struct {
	Line   int
	Column int
	File   string
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Meta carries the metadata every tagged source form holds alongside its
// children: position plus a free-form annotation bag (the source
// language attaches context, import aliases, and other incidental
// bookkeeping here).
type Meta struct {
	Pos   Pos
	Attrs map[string]interface{}
}

// Node is the base interface every AST shape implements.
type Node interface {
	String() string
	Position() Pos
}

// Expr is a node that can appear in expression position.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a node that can appear in pattern position (function heads,
// case clauses, assignment left-hand sides).
type Pattern interface {
	Node
	patternNode()
}

// ---------------------------------------------------------------------
// Literals and atoms
// ---------------------------------------------------------------------

// LiteralKind discriminates the primitive literal shapes.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
	NilLit
)

// Literal is a number, string, boolean, or nil literal (spec §4.1 rule 1).
type Literal struct {
	Kind  LiteralKind
	Value interface{}
	Meta  Meta
}

func (l *Literal) String() string { return fmt.Sprintf("%v", l.Value) }
func (l *Literal) Position() Pos  { return l.Meta.Pos }
func (l *Literal) exprNode()      {}
func (l *Literal) patternNode()   {}

// Atom is a bare symbol/atom literal (spec §4.1 rule 2, e.g. `:ok`).
type Atom struct {
	Name string
	Meta Meta
}

func (a *Atom) String() string { return ":" + a.Name }
func (a *Atom) Position() Pos  { return a.Meta.Pos }
func (a *Atom) exprNode()      {}
func (a *Atom) patternNode()   {}

// Identifier is a variable/function reference (spec §4.1 rule 8). `_` and
// names beginning with `_` are wildcards in pattern position.
type Identifier struct {
	Name string
	Meta Meta
}

func (i *Identifier) String() string { return i.Name }
func (i *Identifier) Position() Pos  { return i.Meta.Pos }
func (i *Identifier) exprNode()      {}
func (i *Identifier) patternNode()   {}

// IsWildcard reports whether this identifier binds nothing (`_`, `_foo`).
func (i *Identifier) IsWildcard() bool {
	return i.Name == "_" || strings.HasPrefix(i.Name, "_")
}

// ---------------------------------------------------------------------
// Compound literals
// ---------------------------------------------------------------------

// ListNode is an ordered sequence (spec §4.1 rule 3). Tail is non-nil
// for a cons pattern/expression built with `|` (spec dispatch rule for
// list-cons).
type ListNode struct {
	Elements []Node
	Tail     Node // nil unless this is a `[h | t]` cons form
	Meta     Meta
}

func (l *ListNode) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	body := strings.Join(parts, ", ")
	if l.Tail != nil {
		return fmt.Sprintf("[%s | %s]", body, l.Tail)
	}
	return fmt.Sprintf("[%s]", body)
}
func (l *ListNode) Position() Pos { return l.Meta.Pos }
func (l *ListNode) exprNode()     {}
func (l *ListNode) patternNode()  {}

// TupleNode is a fixed-arity tuple: `(a, b)` (rule 4) or the n-ary `{}`
// form (rule 5).
type TupleNode struct {
	Elements []Node
	Meta     Meta
}

func (t *TupleNode) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
func (t *TupleNode) Position() Pos { return t.Meta.Pos }
func (t *TupleNode) exprNode()     {}
func (t *TupleNode) patternNode()  {}

// MapPair is one key/value entry of a map or struct literal.
type MapPair struct {
	Key   Node
	Value Node
}

// MapNode is `%{...}` map construction, or `%{m | k: v}` functional
// update when Update is non-nil (spec §4.3 "Map construction").
type MapNode struct {
	Pairs  []MapPair
	Update Node // non-nil for %{m | ...}
	Meta   Meta
}

func (m *MapNode) String() string {
	parts := make([]string, len(m.Pairs))
	for i, p := range m.Pairs {
		parts[i] = fmt.Sprintf("%s: %s", p.Key, p.Value)
	}
	body := strings.Join(parts, ", ")
	if m.Update != nil {
		return fmt.Sprintf("%%{%s | %s}", m.Update, body)
	}
	return fmt.Sprintf("%%{%s}", body)
}
func (m *MapNode) Position() Pos { return m.Meta.Pos }
func (m *MapNode) exprNode()     {}
func (m *MapNode) patternNode()  {}

// StructNode is `%M{...}` struct construction or pattern (spec §4.3
// "Struct"). Module is usually an AliasesNode naming M.
type StructNode struct {
	Module Node
	Pairs  []MapPair
	Meta   Meta
}

func (s *StructNode) String() string {
	parts := make([]string, len(s.Pairs))
	for i, p := range s.Pairs {
		parts[i] = fmt.Sprintf("%s: %s", p.Key, p.Value)
	}
	return fmt.Sprintf("%%%s{%s}", s.Module, strings.Join(parts, ", "))
}
func (s *StructNode) Position() Pos { return s.Meta.Pos }
func (s *StructNode) exprNode()     {}
func (s *StructNode) patternNode()  {}

// BitSegment is one `<<...>>` segment: a value plus optional size/unit/
// type/signedness/endianness qualifiers (spec §4.3 "Bitstring").
type BitSegment struct {
	Value      Node
	Size       Node // nil if unspecified
	Unit       int
	Type       string // "integer", "float", "binary", "bitstring", "utf8", ...
	Signedness string // "signed" | "unsigned" | ""
	Endianness string // "big" | "little" | "native" | ""
}

// BitstringNode is `<<>>`. IsBinary is true when every segment is a
// plain binary/`::binary` segment, in which case it behaves as an
// interpolated-string concatenation (spec §4.3).
type BitstringNode struct {
	Segments []BitSegment
	IsBinary bool
	Meta     Meta
}

func (b *BitstringNode) String() string { return "<<>>" }
func (b *BitstringNode) Position() Pos  { return b.Meta.Pos }
func (b *BitstringNode) exprNode()      {}
func (b *BitstringNode) patternNode()   {}

// ---------------------------------------------------------------------
// Operators, capture, attributes, aliasing
// ---------------------------------------------------------------------

// BinaryOp covers infix operators, including the pipe `|>` and the type
// annotation `::` when it appears outside a bitstring segment.
type BinaryOp struct {
	Left  Node
	Op    string
	Right Node
	Meta  Meta
}

func (b *BinaryOp) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }
func (b *BinaryOp) Position() Pos  { return b.Meta.Pos }
func (b *BinaryOp) exprNode()      {}

// UnaryOp covers prefix operators (`not`, `-`, …).
type UnaryOp struct {
	Op   string
	Expr Node
	Meta Meta
}

func (u *UnaryOp) String() string { return fmt.Sprintf("(%s %s)", u.Op, u.Expr) }
func (u *UnaryOp) Position() Pos  { return u.Meta.Pos }
func (u *UnaryOp) exprNode()      {}

// CaptureNode is `&f/n`, `&Mod.f/n`, or `&expr` (spec §4.3 "Capture").
// Target is the expr/call being captured; Placeholders is the highest
// `&N` index seen inside Target when Target is an expression capture.
type CaptureNode struct {
	Target       Node
	Placeholders int
	Meta         Meta
}

func (c *CaptureNode) String() string { return fmt.Sprintf("&%s", c.Target) }
func (c *CaptureNode) Position() Pos  { return c.Meta.Pos }
func (c *CaptureNode) exprNode()      {}

// PlaceholderNode is `&1`, `&2`, … inside a capture expression.
type PlaceholderNode struct {
	Index int
	Meta  Meta
}

func (p *PlaceholderNode) String() string { return fmt.Sprintf("&%d", p.Index) }
func (p *PlaceholderNode) Position() Pos  { return p.Meta.Pos }
func (p *PlaceholderNode) exprNode()      {}

// AttributeNode is `@name` or `@name value` (module attribute read/set).
type AttributeNode struct {
	Name  string
	Value Node // nil for a read
	Meta  Meta
}

func (a *AttributeNode) String() string {
	if a.Value == nil {
		return "@" + a.Name
	}
	return fmt.Sprintf("@%s %s", a.Name, a.Value)
}
func (a *AttributeNode) Position() Pos { return a.Meta.Pos }
func (a *AttributeNode) exprNode()     {}

// AliasesNode is `__aliases__`: a dotted module-name reference such as
// `Hello.World`, prior to alias resolution.
type AliasesNode struct {
	Segments []string
	Meta     Meta
}

func (a *AliasesNode) String() string { return strings.Join(a.Segments, ".") }
func (a *AliasesNode) Position() Pos  { return a.Meta.Pos }
func (a *AliasesNode) exprNode()      {}
func (a *AliasesNode) patternNode()   {}

// DirNode is `__DIR__`.
type DirNode struct{ Meta Meta }

func (d *DirNode) String() string { return "__DIR__" }
func (d *DirNode) Position() Pos  { return d.Meta.Pos }
func (d *DirNode) exprNode()      {}

// BlockNode is `__block__`: a sequence of expressions evaluated for
// their side effects, the value of the block being its last element.
type BlockNode struct {
	Body []Node
	Meta Meta
}

func (b *BlockNode) String() string {
	parts := make([]string, len(b.Body))
	for i, e := range b.Body {
		parts[i] = e.String()
	}
	return strings.Join(parts, "\n")
}
func (b *BlockNode) Position() Pos { return b.Meta.Pos }
func (b *BlockNode) exprNode()     {}

// AssignNode is `left = right` (spec §4.3 "Assignment"): Left is
// interpreted as a pattern, Right is evaluated first.
type AssignNode struct {
	Left  Pattern
	Right Node
	Meta  Meta
}

func (a *AssignNode) String() string { return fmt.Sprintf("%s = %s", a.Left, a.Right) }
func (a *AssignNode) Position() Pos  { return a.Meta.Pos }
func (a *AssignNode) exprNode()      {}

// ---------------------------------------------------------------------
// Calls
// ---------------------------------------------------------------------

// CallNode is either a bare call `name(args)`, a qualified dotted call
// `Module.name(args)`, or the explicit call notation
// `(., meta, [mod, fun])(args)`. Module is nil for a bare/local call.
type CallNode struct {
	Module Node // nil, or an AliasesNode / Identifier / CallNode for nested access
	Name   string
	Args   []Node
	Meta   Meta
}

func (c *CallNode) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	if c.Module != nil {
		return fmt.Sprintf("%s.%s(%s)", c.Module, c.Name, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}
func (c *CallNode) Position() Pos { return c.Meta.Pos }
func (c *CallNode) exprNode()     {}

// ---------------------------------------------------------------------
// Clauses shared by def/fn/case
// ---------------------------------------------------------------------

// Clause is one function clause, case arm, or fn arm: a list of head
// patterns (a `case` arm carries the one pattern matched against the
// enclosing CaseNode's Subject), an optional guard, and a body.
type Clause struct {
	Patterns []Pattern
	Guard    Node // nil if no `when` guard
	Body     Node
	Meta     Meta
}

// ---------------------------------------------------------------------
// Control forms
// ---------------------------------------------------------------------

// CaseNode is `case subject do pattern -> body; ... end`.
type CaseNode struct {
	Subject Node
	Clauses []Clause
	Meta    Meta
}

func (c *CaseNode) String() string { return fmt.Sprintf("case %s do ... end", c.Subject) }
func (c *CaseNode) Position() Pos  { return c.Meta.Pos }
func (c *CaseNode) exprNode()      {}

// CondClause is one `cond` arm: a boolean test plus a body.
type CondClause struct {
	Test Node
	Body Node
}

// CondNode is `cond do test -> body; ... end`.
type CondNode struct {
	Clauses []CondClause
	Meta    Meta
}

func (c *CondNode) String() string { return "cond do ... end" }
func (c *CondNode) Position() Pos  { return c.Meta.Pos }
func (c *CondNode) exprNode()      {}

// Generator is one `pattern <- enumerable` clause of a `for`.
type Generator struct {
	Pattern Pattern
	Source  Node
}

// ForNode is a `for` comprehension (spec §4.3): generators bind from
// Sources, Filters prune the product, Body produces each element, Into
// names the target collection (nil defaults to a list), Uniq requests
// deduplication.
type ForNode struct {
	Generators []Generator
	Filters    []Node
	Body       Node
	Into       Node
	Uniq       bool
	Meta       Meta
}

func (f *ForNode) String() string { return "for ... do ... end" }
func (f *ForNode) Position() Pos  { return f.Meta.Pos }
func (f *ForNode) exprNode()      {}

// TryNode is `try do ... rescue ... catch ... after ... else ... end`
// (spec §4.3). Each clause slice may be empty.
type TryNode struct {
	Do     Node
	Rescue []Clause
	Catch  []Clause
	Else   []Clause
	After  Node // nil if absent
	Meta   Meta
}

func (t *TryNode) String() string { return "try do ... end" }
func (t *TryNode) Position() Pos  { return t.Meta.Pos }
func (t *TryNode) exprNode()      {}

// ReceiveNode is `receive do ... after timeout -> ... end` (spec §4.3).
type ReceiveNode struct {
	Clauses []Clause
	After   Node // timeout expression, nil if no `after`
	Timeout Node // body run on timeout, nil if no `after`
	Meta    Meta
}

func (r *ReceiveNode) String() string { return "receive do ... end" }
func (r *ReceiveNode) Position() Pos  { return r.Meta.Pos }
func (r *ReceiveNode) exprNode()      {}

// QuoteNode reifies Body as runtime AST data; UnquoteNode escapes back
// into ordinary translation (spec §4.3 "quote").
type QuoteNode struct {
	Body Node
	Meta Meta
}

func (q *QuoteNode) String() string { return fmt.Sprintf("quote do %s end", q.Body) }
func (q *QuoteNode) Position() Pos  { return q.Meta.Pos }
func (q *QuoteNode) exprNode()      {}

// UnquoteNode is `unquote(expr)` inside a QuoteNode.
type UnquoteNode struct {
	Expr Node
	Meta Meta
}

func (u *UnquoteNode) String() string { return fmt.Sprintf("unquote(%s)", u.Expr) }
func (u *UnquoteNode) Position() Pos  { return u.Meta.Pos }
func (u *UnquoteNode) exprNode()      {}

// FnNode is an anonymous multi-clause function literal.
type FnNode struct {
	Clauses []Clause
	Meta    Meta
}

func (f *FnNode) String() string { return "fn ... end" }
func (f *FnNode) Position() Pos  { return f.Meta.Pos }
func (f *FnNode) exprNode()      {}

// ---------------------------------------------------------------------
// Definitions
// ---------------------------------------------------------------------

// DefNode is one `def`/`defp` clause (spec §4.4). Consecutive DefNodes
// of the same Name/arity are grouped by the function translator.
type DefNode struct {
	Private bool
	Name    string
	Clause  Clause
	Meta    Meta
}

func (d *DefNode) String() string { return fmt.Sprintf("def %s", d.Name) }
func (d *DefNode) Position() Pos  { return d.Meta.Pos }
func (d *DefNode) exprNode()      {}

// DefStructNode is `defstruct fields`.
type DefStructNode struct {
	Fields []StructField
	Meta   Meta
}

// StructField is one field of a defstruct, with an optional default.
type StructField struct {
	Name    string
	Default Node // nil if none
}

func (d *DefStructNode) String() string { return "defstruct" }
func (d *DefStructNode) Position() Pos  { return d.Meta.Pos }
func (d *DefStructNode) exprNode()      {}

// DefExceptionNode is `defexception fields`.
type DefExceptionNode struct {
	Fields []StructField
	Meta   Meta
}

func (d *DefExceptionNode) String() string { return "defexception" }
func (d *DefExceptionNode) Position() Pos  { return d.Meta.Pos }
func (d *DefExceptionNode) exprNode()      {}

// ModuleDecl is `defmodule Name do body end`. Inner ModuleDecls are
// extracted from Body by the module translator and emitted as siblings.
type ModuleDecl struct {
	Name *AliasesNode
	Body []Node
	Meta Meta
}

func (m *ModuleDecl) String() string { return fmt.Sprintf("defmodule %s", m.Name) }
func (m *ModuleDecl) Position() Pos  { return m.Meta.Pos }
func (m *ModuleDecl) exprNode()      {}

// ProtocolDecl is `defprotocol P do spec end`.
type ProtocolDecl struct {
	Name string
	Spec []Node
	Meta Meta
}

func (p *ProtocolDecl) String() string { return fmt.Sprintf("defprotocol %s", p.Name) }
func (p *ProtocolDecl) Position() Pos  { return p.Meta.Pos }
func (p *ProtocolDecl) exprNode()      {}

// ImplDecl is `defimpl P, for: T do body end`.
type ImplDecl struct {
	Protocol string
	ForType  Node
	Body     []Node
	Meta     Meta
}

func (i *ImplDecl) String() string {
	return fmt.Sprintf("defimpl %s, for: %s", i.Protocol, i.ForType)
}
func (i *ImplDecl) Position() Pos { return i.Meta.Pos }
func (i *ImplDecl) exprNode()     {}

// ---------------------------------------------------------------------
// Module-level alias/import/require
// ---------------------------------------------------------------------

// AliasNode is `alias A.B.C` or `alias X, as: Y` (spec §4.5).
type AliasNode struct {
	Target *AliasesNode
	As     string // "" unless `as:` was given
	Meta   Meta
}

func (a *AliasNode) String() string { return fmt.Sprintf("alias %s", a.Target) }
func (a *AliasNode) Position() Pos  { return a.Meta.Pos }
func (a *AliasNode) exprNode()      {}

// ImportNode is `import M`, with optional `only:`/`except:` filters
// (spec §4.5). Kind is "" (unfiltered), "functions", or "macros" for
// `only: :functions` / `only: :macros`.
type ImportNode struct {
	Target *AliasesNode
	Only   []NameArity
	Except []NameArity
	Kind   string
	Meta   Meta
}

// NameArity identifies a function/macro by name and arity.
type NameArity struct {
	Name  string
	Arity int
}

func (i *ImportNode) String() string { return fmt.Sprintf("import %s", i.Target) }
func (i *ImportNode) Position() Pos  { return i.Meta.Pos }
func (i *ImportNode) exprNode()      {}

// RequireNode is `require M`.
type RequireNode struct {
	Target *AliasesNode
	As     string
	Meta   Meta
}

func (r *RequireNode) String() string { return fmt.Sprintf("require %s", r.Target) }
func (r *RequireNode) Position() Pos  { return r.Meta.Pos }
func (r *RequireNode) exprNode()      {}

// ---------------------------------------------------------------------
// Reflective forms rejected outright (spec §4.1 rule 6)
// ---------------------------------------------------------------------

// ReflectiveNode is `super`, `__CALLER__`, or `__ENV__`: always an
// UnsupportedError when translated.
type ReflectiveNode struct {
	Form string
	Meta Meta
}

func (r *ReflectiveNode) String() string { return r.Form }
func (r *ReflectiveNode) Position() Pos  { return r.Meta.Pos }
func (r *ReflectiveNode) exprNode()      {}

// WildcardPattern matches anything and binds nothing without being a
// plain identifier (used when a parser emits an explicit wildcard node
// rather than an `_`-prefixed Identifier).
type WildcardPattern struct{ Meta Meta }

func (w *WildcardPattern) String() string { return "_" }
func (w *WildcardPattern) Position() Pos  { return w.Meta.Pos }
func (w *WildcardPattern) patternNode()   {}

// File is the root node handed to the translator for one source file.
type File struct {
	Decls []Node
	Path  string
	Meta  Meta
}

func (f *File) String() string {
	parts := make([]string, len(f.Decls))
	for i, d := range f.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}
func (f *File) Position() Pos { return f.Meta.Pos }
