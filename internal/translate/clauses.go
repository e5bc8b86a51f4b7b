package translate

import (
	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/ident"
	"github.com/sunholo/jsxform/internal/pattern"
	"github.com/sunholo/jsxform/internal/target"
)

// buildClauses lowers a run of source clauses (function heads, case
// arms, fn arms, rescue/catch/else arms) into pattern.Clause rows,
// preserving declaration order (spec §4.2).
func buildClauses(clauses []ast.Clause, e *env.Environment, ctx *Context) ([]pattern.Clause, error) {
	out := make([]pattern.Clause, 0, len(clauses))
	for _, c := range clauses {
		pc, err := buildClause(c.Patterns, c.Guard, c.Body, e, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, nil
}

// buildClause lowers one clause's head patterns (combined into a single
// tuple descriptor when there is more than one), its optional guard,
// and its body. Guard and body are both emitted as arrow functions
// taking the clause's bound names as positional parameters — the
// convention the runtime's clause-table dispatcher (Patterns.defmatch /
// Patterns.makeCase, internal/pattern) invokes a matched clause with.
func buildClause(patterns []ast.Pattern, guard ast.Node, body ast.Node, e *env.Environment, ctx *Context) (pattern.Clause, error) {
	desc, bindings, err := lowerClauseHead(patterns)
	if err != nil {
		return pattern.Clause{}, err
	}
	params := bindingParams(bindings)

	var guardNode target.Node
	if guard != nil {
		g, err := Translate(guard, e, ctx)
		if err != nil {
			return pattern.Clause{}, err
		}
		guardNode = target.NewArrow(params, g)
	}

	bodyExpr, err := Translate(body, e, ctx)
	if err != nil {
		return pattern.Clause{}, err
	}

	return pattern.Clause{Descriptor: desc, Guard: guardNode, Body: target.NewArrow(params, bodyExpr)}, nil
}

func lowerClauseHead(patterns []ast.Pattern) (pattern.Descriptor, []pattern.Binding, error) {
	switch len(patterns) {
	case 0:
		return pattern.Descriptor{Kind: pattern.Wildcard}, nil, nil
	case 1:
		return pattern.Lower(patterns[0])
	default:
		var children []pattern.Descriptor
		var bindings []pattern.Binding
		for _, p := range patterns {
			d, b, err := pattern.Lower(p)
			if err != nil {
				return pattern.Descriptor{}, nil, err
			}
			children = append(children, d)
			bindings = append(bindings, b...)
		}
		return pattern.Descriptor{Kind: pattern.Nested, Shape: pattern.ShapeTuple, Children: children}, bindings, nil
	}
}

// checkExhaustiveness flags a clause table that has no catch-all
// clause: a purely structural heuristic (SPEC_FULL §12), not a real
// coverage analysis — it only looks for a clause whose own head is a
// bare wildcard or unconditional variable binding, the same shallow
// check the teacher's exhaustiveness pass makes before falling back to
// "can't prove it, so don't claim it's unsafe."
func checkExhaustiveness(ctx *Context, module, function string, clauses []pattern.Clause) {
	for _, c := range clauses {
		if (c.Descriptor.Kind == pattern.Wildcard || c.Descriptor.Kind == pattern.Bind) && c.Guard == nil {
			return
		}
	}
	ctx.warn(ExhaustivenessWarning{
		Module:         module,
		Function:       function,
		MissingPattern: "no catch-all clause",
	})
}

// bindingParams renders the bindings a lowered pattern introduces as a
// deduplicated, order-preserving list of filtered parameter names.
func bindingParams(bindings []pattern.Binding) []string {
	seen := map[string]bool{}
	var params []string
	for _, b := range bindings {
		name := ident.FilterIdentifier(b.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		params = append(params, name)
	}
	return params
}
