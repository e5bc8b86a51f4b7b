package translate

import (
	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/ident"
	"github.com/sunholo/jsxform/internal/target"
)

// translateCapture lowers `&f/n`, `&Mod.f/n`, and `&expr` (spec §4.3
// "Capture"). A bare function reference captures the named function's
// clause table directly off the current module's namespace (or a
// qualified module, if Target names one); an expression capture with
// numbered placeholders becomes an arrow function whose parameters are
// the placeholder slots in ascending order.
func translateCapture(n *ast.CaptureNode, e *env.Environment, ctx *Context) (target.Node, error) {
	if n.Placeholders == 0 {
		if module, name, ok := captureFunctionRef(n.Target); ok {
			return translateCaptureRef(module, name, e, ctx)
		}
	}

	if n.Placeholders > 0 {
		params := make([]string, n.Placeholders)
		for i := range params {
			params[i] = placeholderParam(i + 1)
		}
		body, err := Translate(n.Target, e, ctx)
		if err != nil {
			return nil, err
		}
		return target.NewArrow(params, body), nil
	}

	return Translate(n.Target, e, ctx)
}

// captureFunctionRef recognizes the `f/n` and `Mod.f/n` shapes a
// parser desugars to a `/` BinaryOp whose left side names the function
// (bare Identifier, or a zero-arg CallNode qualified by Module) and
// whose right side is the arity literal. The arity itself only matters
// for parser-side overload disambiguation; the translator only needs
// which function/module pair is being referenced.
func captureFunctionRef(node ast.Node) (module ast.Node, name string, ok bool) {
	bin, isBin := node.(*ast.BinaryOp)
	if !isBin || bin.Op != "/" {
		return nil, "", false
	}
	if lit, isLit := bin.Right.(*ast.Literal); !isLit || lit.Kind != ast.IntLit {
		return nil, "", false
	}
	switch left := bin.Left.(type) {
	case *ast.Identifier:
		return nil, left.Name, true
	case *ast.CallNode:
		return left.Module, left.Name, true
	default:
		return nil, "", false
	}
}

func translateCaptureRef(module ast.Node, name string, e *env.Environment, ctx *Context) (target.Node, error) {
	filtered := ident.FilterIdentifier(name)
	if module == nil {
		return target.NewIdentifier(filtered), nil
	}
	if aliases, ok := module.(*ast.AliasesNode); ok {
		resolved := resolveAliasesSegments(aliases, e)
		if len(resolved) == 1 && knownRuntimeModules[resolved[0]] {
			return target.NewMember(target.NewIdentifier(resolved[0]), target.NewIdentifier(filtered), false), nil
		}
		binding := moduleBindingName(resolveAliasesSegmentsJoined(resolved))
		return target.NewMember(target.NewIdentifier(binding), target.NewIdentifier(filtered), false), nil
	}
	moduleExpr, err := Translate(module, e, ctx)
	if err != nil {
		return nil, err
	}
	return target.NewMember(moduleExpr, target.NewIdentifier(filtered), false), nil
}

func resolveAliasesSegmentsJoined(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

// placeholderParam names the synthetic parameter for capture
// placeholder index i (`&1` -> "__1", …).
func placeholderParam(i int) string {
	return "__" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := ""
	for i > 0 {
		digits = string(rune('0'+i%10)) + digits
		i /= 10
	}
	return digits
}

// translatePlaceholder lowers a bare `&N` reached outside a capture's
// direct expansion (spec §4.3): it references the same synthetic
// parameter name translateCapture would have bound for that index.
func translatePlaceholder(n *ast.PlaceholderNode) target.Node {
	return target.NewIdentifier(placeholderParam(n.Index))
}

// translateAttribute lowers `@name` (read) or `@name value` (set)
// (spec §4.3 "Module attribute"). A read becomes a member access on the
// current module's attribute bag; a set becomes an assignment
// expression against that same bag, evaluated for its side effect when
// it appears as a standalone block statement.
func translateAttribute(n *ast.AttributeNode, e *env.Environment, ctx *Context) (target.Node, error) {
	bag := target.NewMember(target.NewIdentifier(moduleBindingName(e.ModuleName())), target.NewIdentifier("__attrs__"), false)
	key := target.NewMember(bag, target.NewString(n.Name), true)
	if n.Value == nil {
		return key, nil
	}
	value, err := Translate(n.Value, e, ctx)
	if err != nil {
		return nil, err
	}
	return target.NewAssignment(key, value), nil
}

// translateStruct lowers `%Mod{...}` construction or pattern (spec
// §4.3 "Struct") into a call against the named struct's factory
// function (spec §11: struct factories are emitted by translateDefStruct).
func translateStruct(n *ast.StructNode, e *env.Environment, ctx *Context) (target.Node, error) {
	props, err := translateMapPairs(n.Pairs, e, ctx)
	if err != nil {
		return nil, err
	}
	moduleExpr, err := structFactoryRef(n.Module, e)
	if err != nil {
		return nil, err
	}
	return target.NewCall(moduleExpr, target.NewObject(props...)), nil
}

func structFactoryRef(module ast.Node, e *env.Environment) (target.Node, error) {
	aliases, ok := module.(*ast.AliasesNode)
	if !ok {
		return target.NewIdentifier(ident.FilterIdentifier(module.String())), nil
	}
	resolved := resolveAliasesSegments(aliases, e)
	return target.NewMember(target.NewIdentifier(moduleBindingName(resolveAliasesSegmentsJoined(resolved))),
		target.NewIdentifier("__struct__"), false), nil
}

// translateMap lowers `%{...}` construction, and `%{m | k: v}`
// functional update when Update is non-nil (spec §4.3 "Map
// construction"), onto the runtime's map helpers so the result stays
// distinguishable from a plain struct-shaped object at runtime.
func translateMap(n *ast.MapNode, e *env.Environment, ctx *Context) (target.Node, error) {
	props, err := translateMapPairs(n.Pairs, e, ctx)
	if err != nil {
		return nil, err
	}
	obj := target.NewObject(props...)
	if n.Update == nil {
		return kernelCall("mapNew", []target.Node{obj}), nil
	}
	base, err := Translate(n.Update, e, ctx)
	if err != nil {
		return nil, err
	}
	return kernelCall("mapUpdate", []target.Node{base, obj}), nil
}

func translateMapPairs(pairs []ast.MapPair, e *env.Environment, ctx *Context) ([]target.Property, error) {
	props := make([]target.Property, 0, len(pairs))
	for _, p := range pairs {
		key, err := mapKeyName(p.Key, e)
		if err != nil {
			return nil, err
		}
		val, err := Translate(p.Value, e, ctx)
		if err != nil {
			return nil, err
		}
		props = append(props, target.Property{Key: key, Value: val})
	}
	return props, nil
}

// mapKeyName renders a map/struct literal key as an object-literal
// property name. Atom keys (the overwhelmingly common case, `key:
// value` sugar) become the atom's bare name; anything else falls back
// to the key's source rendering, since this AST's Property shape only
// carries a plain string key (a computed-key ObjectExpression is out of
// scope for this builder, per spec §6's unprescribed-but-minimal
// factory surface).
func mapKeyName(key ast.Node, e *env.Environment) (string, error) {
	switch k := key.(type) {
	case *ast.Atom:
		return k.Name, nil
	case *ast.Identifier:
		return k.Name, nil
	case *ast.Literal:
		if k.Kind == ast.StringLit {
			if s, ok := k.Value.(string); ok {
				return s, nil
			}
		}
	}
	return key.String(), nil
}

// translateBitstring lowers `<<>>` (spec §4.3 "Bitstring"). A bitstring
// every one of whose segments is a plain/::binary segment behaves as
// string concatenation (IsBinary); otherwise it is a true bit-packed
// construction, emitted as a call to the runtime's bitstring builder
// with one argument per segment describing its value, size, and type
// qualifiers.
func translateBitstring(n *ast.BitstringNode, e *env.Environment, ctx *Context) (target.Node, error) {
	if n.IsBinary {
		parts := make([]target.Node, 0, len(n.Segments))
		for _, seg := range n.Segments {
			v, err := Translate(seg.Value, e, ctx)
			if err != nil {
				return nil, err
			}
			parts = append(parts, v)
		}
		return kernelCall("binaryConcat", []target.Node{target.NewArray(parts...)}), nil
	}

	segs := make([]target.Node, 0, len(n.Segments))
	for _, seg := range n.Segments {
		v, err := Translate(seg.Value, e, ctx)
		if err != nil {
			return nil, err
		}
		size := target.Node(target.NewNull())
		if seg.Size != nil {
			var err error
			size, err = Translate(seg.Size, e, ctx)
			if err != nil {
				return nil, err
			}
		}
		segs = append(segs, target.NewObject(
			target.Property{Key: "value", Value: v},
			target.Property{Key: "size", Value: size},
			target.Property{Key: "unit", Value: target.NewNumber(float64(seg.Unit))},
			target.Property{Key: "type", Value: target.NewString(seg.Type)},
			target.Property{Key: "signedness", Value: target.NewString(seg.Signedness)},
			target.Property{Key: "endianness", Value: target.NewString(seg.Endianness)},
		))
	}
	return kernelCall("bitstringBuild", []target.Node{target.NewArray(segs...)}), nil
}
