package translate

import (
	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/ident"
	"github.com/sunholo/jsxform/internal/target"
)

// translateLiteral lowers number/string/boolean/nil literals directly
// to target literals (spec §4.1 rule 1).
func translateLiteral(l *ast.Literal) (target.Node, error) {
	switch l.Kind {
	case ast.IntLit, ast.FloatLit:
		switch v := l.Value.(type) {
		case int:
			return target.NewNumber(float64(v)), nil
		case int64:
			return target.NewNumber(float64(v)), nil
		case float64:
			return target.NewNumber(v), nil
		default:
			return target.NewNumber(0), nil
		}
	case ast.StringLit:
		s, _ := l.Value.(string)
		return target.NewString(s), nil
	case ast.BoolLit:
		b, _ := l.Value.(bool)
		return target.NewBool(b), nil
	case ast.NilLit:
		return target.NewNull(), nil
	default:
		return target.NewNull(), nil
	}
}

// atomCall builds `SpecialForms.atom("name")`, the unique deterministic
// target expression every atom literal maps to (spec §3 invariant).
func atomCall(name string) target.Node {
	return target.NewCall(
		target.NewMember(target.NewIdentifier("SpecialForms"), target.NewIdentifier("atom"), false),
		target.NewString(ident.EscapeAtom(name)),
	)
}

// translateAtom lowers a bare atom/symbol (spec §4.1 rule 2).
func translateAtom(a *ast.Atom) target.Node {
	return atomCall(a.Name)
}

// translateList lowers an ordered sequence, with per-element recursion
// (spec §4.1 rule 3). A `[h | t]` cons form emits a prepend call
// against the runtime list library instead of a flat array literal.
func translateList(l *ast.ListNode, e *env.Environment, ctx *Context) (target.Node, error) {
	elements, err := translateMany(l.Elements, e, ctx)
	if err != nil {
		return nil, err
	}
	if l.Tail == nil {
		return target.NewArray(elements...), nil
	}
	tail, err := Translate(l.Tail, e, ctx)
	if err != nil {
		return nil, err
	}
	return target.NewCall(
		target.NewMember(target.NewIdentifier("Kernel"), target.NewIdentifier("listPrepend"), false),
		target.NewArray(elements...), tail,
	), nil
}

// translateTuple lowers a binary or n-ary tuple (spec §4.1 rule 4 /
// §4.1 rule 5's `{}`), emitting the runtime's tuple constructor so the
// target value remains distinguishable from a plain array at runtime.
func translateTuple(t *ast.TupleNode, e *env.Environment, ctx *Context) (target.Node, error) {
	elements, err := translateMany(t.Elements, e, ctx)
	if err != nil {
		return nil, err
	}
	return target.NewCall(
		target.NewMember(target.NewIdentifier("SpecialForms"), target.NewIdentifier("tuple"), false),
		elements...,
	), nil
}
