package translate

import (
	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/ident"
	"github.com/sunholo/jsxform/internal/pattern"
	"github.com/sunholo/jsxform/internal/target"
)

// translateSingleDef lowers one def/defp clause reached directly by
// the dispatcher, outside the module-body grouping pass (spec §4.4):
// it becomes a one-clause table, same as any run of same-name/arity
// defs the Module translator would otherwise have combined.
func translateSingleDef(n *ast.DefNode, e *env.Environment, ctx *Context) (target.Node, error) {
	clauses, err := buildClauses([]ast.Clause{n.Clause}, e, ctx)
	if err != nil {
		return nil, err
	}
	checkExhaustiveness(ctx, e.ModuleName(), n.Name, clauses)
	return target.NewConst(ident.FilterIdentifier(n.Name), pattern.BuildClauseTable(clauses)), nil
}

// translateDefStruct lowers `defstruct fields` (spec §4.3 "Struct")
// into a `__struct__` factory function: Kernel.structNew merges the
// declared defaults with whatever fields the caller overrides.
// Dispatcher signature constraint: this never fails outright — a
// default expression too complex to lower literally (anything beyond
// the common literal/atom/nil/list shapes) degrades to `null` rather
// than rejecting the whole struct, since struct-field defaults are
// overwhelmingly simple literals in source.
func translateDefStruct(n *ast.DefStructNode, e *env.Environment, ctx *Context) target.Node {
	defaults := structFieldDefaults(n.Fields)
	return target.NewFunction("__struct__", []string{"fields"}, target.NewBlock(
		target.NewReturn(kernelCall("structNew", []target.Node{
			target.NewString(e.ModuleName()), defaults, target.NewIdentifier("fields"),
		})),
	))
}

// translateDefException lowers `defexception fields` analogously to
// translateDefStruct, tagging the runtime value as raisable.
func translateDefException(n *ast.DefExceptionNode, e *env.Environment, ctx *Context) target.Node {
	defaults := structFieldDefaults(n.Fields)
	return target.NewFunction("__exception__", []string{"fields"}, target.NewBlock(
		target.NewReturn(kernelCall("exceptionNew", []target.Node{
			target.NewString(e.ModuleName()), defaults, target.NewIdentifier("fields"),
		})),
	))
}

func structFieldDefaults(fields []ast.StructField) *target.ObjectExpression {
	props := make([]target.Property, 0, len(fields))
	for _, f := range fields {
		props = append(props, target.Property{Key: f.Name, Value: simpleLiteral(f.Default)})
	}
	return target.NewObject(props...)
}

// simpleLiteral lowers a struct/exception field default without the
// possibility of error, covering the literal shapes that make up the
// overwhelming majority of real defaults.
func simpleLiteral(n ast.Node) target.Node {
	switch v := n.(type) {
	case nil:
		return target.NewNull()
	case *ast.Literal:
		lit, err := translateLiteral(v)
		if err != nil {
			return target.NewNull()
		}
		return lit
	case *ast.Atom:
		return atomCall(v.Name)
	case *ast.ListNode:
		elements := make([]target.Node, 0, len(v.Elements))
		for _, el := range v.Elements {
			elements = append(elements, simpleLiteral(el))
		}
		return target.NewArray(elements...)
	default:
		return target.NewNull()
	}
}
