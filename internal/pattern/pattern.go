// Package pattern lowers source patterns into the clause-table
// descriptors spec §4.2 defines. It is grounded on the teacher's
// internal/elaborate/patterns.go (elaboratePattern's per-shape switch)
// and internal/dtree/decision_tree.go (the matrix/specialization
// vocabulary), but — unlike the teacher's decision-tree compiler, which
// reorders and merges rows for efficiency — clauses here are kept in
// strict declaration order: spec §4.2 requires "first descriptor whose
// structural match succeeds AND whose guard returns true runs", so
// lowering must never reorder or coalesce clauses the way a decision
// tree would.
package pattern

import (
	"fmt"

	"github.com/sunholo/jsxform/internal/ast"
	apperrors "github.com/sunholo/jsxform/internal/errors"
	"github.com/sunholo/jsxform/internal/target"
)

// Kind discriminates pattern-descriptor leaves and composites.
type Kind int

const (
	Wildcard Kind = iota // matches anything, binds nothing
	Bind                 // matches anything, binds to Name
	Lit                  // matches structural equality against Value
	TypeGuard            // matches if the value has Shape's runtime shape
	Nested               // a composite pattern over Children
)

// Shape names the runtime shape a TypeGuard descriptor tests for.
type Shape string

const (
	ShapeList      Shape = "list"
	ShapeTuple     Shape = "tuple"
	ShapeMap       Shape = "map"
	ShapeStruct    Shape = "struct"
	ShapeBitstring Shape = "bitstring"
)

// Descriptor mirrors one source pattern (spec §4.2).
type Descriptor struct {
	Kind     Kind
	Name     string      // for Bind
	Value    interface{} // for Lit
	Shape    Shape       // for TypeGuard / Nested
	TypeName string      // struct tag name, for ShapeStruct
	Children []Descriptor
	// ConsTail marks a Nested list descriptor built from `[h | t]`: the
	// last Child is the tail pattern rather than an element pattern.
	ConsTail bool

	// Bitstring segment qualifiers (spec §3 "bitstring segment" type
	// guard, §4.3 "Bitstring"), set only on a Children entry of a
	// Nested/ShapeBitstring descriptor. BitSize is the segment's raw
	// size expression (nil if unspecified — the segment takes its
	// runtime-default width).
	BitSize       ast.Node
	BitUnit       int
	BitType       string
	BitSignedness string
	BitEndianness string
}

// Binding is one name bound by a successful match, in left-to-right
// order of occurrence (needed so the generated guard/body thunks can
// reference bound slots positionally).
type Binding struct {
	Name string
	Path []int // index path into the scrutinee reaching this binding
}

// Lower converts one source Pattern into a Descriptor, collecting the
// bindings it introduces. This is the direct analogue of the teacher's
// elaboratePattern.
func Lower(pat ast.Pattern) (Descriptor, []Binding, error) {
	return lowerAt(pat, nil)
}

func lowerAt(pat ast.Pattern, path []int) (Descriptor, []Binding, error) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return Descriptor{Kind: Wildcard}, nil, nil

	case *ast.Identifier:
		if p.IsWildcard() {
			return Descriptor{Kind: Wildcard}, nil, nil
		}
		return Descriptor{Kind: Bind, Name: p.Name}, []Binding{{Name: p.Name, Path: append([]int{}, path...)}}, nil

	case *ast.Literal:
		return Descriptor{Kind: Lit, Value: p.Value}, nil, nil

	case *ast.Atom:
		return Descriptor{Kind: Lit, Value: ":" + p.Name}, nil, nil

	case *ast.TupleNode:
		return lowerComposite(ShapeTuple, "", p.Elements, false, path)

	case *ast.ListNode:
		elems := p.Elements
		consTail := p.Tail != nil
		if consTail {
			elems = append(append([]ast.Node{}, elems...), p.Tail)
		}
		return lowerComposite(ShapeList, "", elems, consTail, path)

	case *ast.StructNode:
		typeName := ""
		if alias, ok := p.Module.(*ast.AliasesNode); ok {
			typeName = alias.String()
		}
		var children []ast.Node
		for _, pair := range p.Pairs {
			children = append(children, pair.Value)
		}
		desc, binds, err := lowerComposite(ShapeStruct, typeName, children, false, path)
		if err != nil {
			return Descriptor{}, nil, err
		}
		return desc, binds, nil

	case *ast.MapNode:
		var children []ast.Node
		for _, pair := range p.Pairs {
			if asPat, ok := pair.Value.(ast.Pattern); ok {
				children = append(children, asPat)
			} else {
				return Descriptor{}, nil, apperrors.New("pattern", apperrors.PAT001,
					"map pattern value is not a valid pattern", pat.Position())
			}
		}
		return lowerComposite(ShapeMap, "", children, false, path)

	case *ast.BitstringNode:
		return lowerBitstring(p, path)

	case *ast.AliasesNode:
		// A bare module-name reference in pattern position is a literal
		// equality test against that atom (rarely used, but legal).
		return Descriptor{Kind: Lit, Value: ":" + p.String()}, nil, nil

	default:
		return Descriptor{}, nil, apperrors.New("pattern", apperrors.PAT001,
			fmt.Sprintf("unrecognized pattern shape %T", pat), pat.Position())
	}
}

func lowerComposite(shape Shape, typeName string, children []ast.Node, consTail bool, path []int) (Descriptor, []Binding, error) {
	desc := Descriptor{Kind: Nested, Shape: shape, TypeName: typeName, ConsTail: consTail}
	var allBinds []Binding
	for i, child := range children {
		pat, ok := child.(ast.Pattern)
		if !ok {
			return Descriptor{}, nil, apperrors.New("pattern", apperrors.PAT001,
				"composite pattern element is not a valid pattern", desc.childPos())
		}
		childPath := append(append([]int{}, path...), i)
		childDesc, binds, err := lowerAt(pat, childPath)
		if err != nil {
			return Descriptor{}, nil, err
		}
		desc.Children = append(desc.Children, childDesc)
		allBinds = append(allBinds, binds...)
	}
	return desc, allBinds, nil
}

// childPos is a placeholder Pos used only when a composite pattern
// element fails a type assertion before we have a real node to point
// at; descriptors otherwise carry no position of their own.
func (Descriptor) childPos() ast.Pos { return ast.Pos{} }

func lowerBitstring(b *ast.BitstringNode, path []int) (Descriptor, []Binding, error) {
	desc := Descriptor{Kind: Nested, Shape: ShapeBitstring}
	var allBinds []Binding
	for i, seg := range b.Segments {
		pat, ok := seg.Value.(ast.Pattern)
		if !ok {
			return Descriptor{}, nil, apperrors.New("pattern", apperrors.PAT002,
				"bitstring segment value is not a valid pattern", b.Position())
		}
		childPath := append(append([]int{}, path...), i)
		childDesc, binds, err := lowerAt(pat, childPath)
		if err != nil {
			return Descriptor{}, nil, err
		}
		childDesc.BitSize = seg.Size
		childDesc.BitUnit = seg.Unit
		childDesc.BitType = seg.Type
		childDesc.BitSignedness = seg.Signedness
		childDesc.BitEndianness = seg.Endianness
		desc.Children = append(desc.Children, childDesc)
		allBinds = append(allBinds, binds...)
	}
	return desc, allBinds, nil
}

// Clause is one row of a clause table: a lowered pattern (or, for
// multi-arity functions, one per parameter — callers combine them into
// a single Nested tuple descriptor before calling ToTargetDescriptor), an
// optional guard, and a body, both already translated to target nodes.
type Clause struct {
	Descriptor Descriptor
	Guard      target.Node // nil if no guard
	Body       target.Node
}

// ToTargetDescriptor renders a Descriptor as the data literal the
// runtime's `Patterns` matcher consults at call time (spec §6:
// "pattern-match clause table constructor").
func ToTargetDescriptor(d Descriptor) target.Node {
	switch d.Kind {
	case Wildcard:
		return target.NewCall(target.NewMember(target.NewIdentifier("Patterns"), target.NewIdentifier("wildcard"), false))
	case Bind:
		return target.NewCall(target.NewMember(target.NewIdentifier("Patterns"), target.NewIdentifier("variable"), false), target.NewString(d.Name))
	case Lit:
		return target.NewCall(target.NewMember(target.NewIdentifier("Patterns"), target.NewIdentifier("value"), false), literalNode(d.Value))
	case TypeGuard:
		return target.NewCall(target.NewMember(target.NewIdentifier("Patterns"), target.NewIdentifier("type"), false), target.NewString(string(d.Shape)))
	case Nested:
		children := make([]target.Node, len(d.Children))
		for i, c := range d.Children {
			if d.Shape == ShapeBitstring {
				children[i] = bitSegmentDescriptor(c)
			} else {
				children[i] = ToTargetDescriptor(c)
			}
		}
		args := []target.Node{target.NewString(string(d.Shape)), target.NewArray(children...)}
		if d.TypeName != "" {
			args = append(args, target.NewString(d.TypeName))
		}
		if d.ConsTail {
			args = append(args, target.NewBool(true))
		}
		return target.NewCall(target.NewMember(target.NewIdentifier("Patterns"), target.NewIdentifier("compound"), false), args...)
	default:
		return target.NewNull()
	}
}

// bitSegmentDescriptor wraps a bitstring child's value descriptor with
// its size/unit/type/signedness/endianness qualifiers, so the runtime
// matcher can enforce segment width and type the way `<<a::8,
// rest::binary>>` demands instead of matching it the same as `<<a,
// rest>>` (spec §3 "bitstring segment").
func bitSegmentDescriptor(c Descriptor) target.Node {
	return target.NewObject(
		target.Property{Key: "pattern", Value: ToTargetDescriptor(c)},
		target.Property{Key: "size", Value: bitSizeNode(c.BitSize)},
		target.Property{Key: "unit", Value: target.NewNumber(float64(c.BitUnit))},
		target.Property{Key: "type", Value: target.NewString(c.BitType)},
		target.Property{Key: "signedness", Value: target.NewString(c.BitSignedness)},
		target.Property{Key: "endianness", Value: target.NewString(c.BitEndianness)},
	)
}

// bitSizeNode lowers a segment's size expression without depending on
// internal/translate (which itself depends on this package): a literal
// size is passed through verbatim, a bound-variable size references
// that binding by name, and anything else — no size specified, or a
// size expression too dynamic to represent here — degrades to null,
// leaving the runtime to apply its own default width.
func bitSizeNode(n ast.Node) target.Node {
	switch v := n.(type) {
	case nil:
		return target.NewNull()
	case *ast.Literal:
		return literalNode(v.Value)
	case *ast.Identifier:
		return target.NewCall(target.NewMember(target.NewIdentifier("Patterns"), target.NewIdentifier("variable"), false), target.NewString(v.Name))
	default:
		return target.NewNull()
	}
}

func literalNode(v interface{}) target.Node {
	switch val := v.(type) {
	case int:
		return target.NewNumber(float64(val))
	case int64:
		return target.NewNumber(float64(val))
	case float64:
		return target.NewNumber(val)
	case bool:
		return target.NewBool(val)
	case string:
		return target.NewString(val)
	case nil:
		return target.NewNull()
	default:
		return target.NewString(fmt.Sprintf("%v", val))
	}
}

// BuildClauseTable emits `Patterns.defmatch([clause, ...])`, keeping
// clauses in the exact order they were supplied — spec §4.2's
// top-to-bottom, first-match evaluation order.
func BuildClauseTable(clauses []Clause) target.Node {
	entries := make([]target.Node, len(clauses))
	for i, c := range clauses {
		guard := c.Guard
		if guard == nil {
			guard = target.NewNull()
		}
		entries[i] = target.NewObject(
			target.Property{Key: "pattern", Value: ToTargetDescriptor(c.Descriptor)},
			target.Property{Key: "guard", Value: guard},
			target.Property{Key: "body", Value: c.Body},
		)
	}
	return target.NewCall(
		target.NewMember(target.NewIdentifier("Patterns"), target.NewIdentifier("defmatch"), false),
		target.NewArray(entries...),
	)
}

// BuildCase emits `Patterns.makeCase(scrutinee, [clause, ...])`, the
// expression-position equivalent of a clause table (spec §4.2: "A case
// emits an expression-position equivalent keyed on the scrutinee").
func BuildCase(scrutinee target.Node, clauses []Clause) target.Node {
	table := BuildClauseTable(clauses)
	return target.NewCall(
		target.NewMember(target.NewIdentifier("Patterns"), target.NewIdentifier("makeCase"), false),
		scrutinee, table,
	)
}
