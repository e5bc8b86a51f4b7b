package translate

import (
	"fmt"
	"strings"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/ident"
	"github.com/sunholo/jsxform/internal/pattern"
	"github.com/sunholo/jsxform/internal/target"
)

// translateAliases lowers a bare dotted module-name reference used as a
// value (spec §4.1 rule 5): it resolves to the atom of its canonical
// dotted name, the same target expression every atom literal maps to
// (the source language treats module names as atoms).
func translateAliases(n *ast.AliasesNode, e *env.Environment) target.Node {
	resolved := resolveAliasesSegments(n, e)
	return atomCall(strings.Join(resolved, "."))
}

// translateBlock lowers `__block__` (spec §4.3). A block with no
// pattern-matching assignment among its statements is a pure sequence
// of expressions and renders as a SequenceExpression. A block that
// binds names via `=` needs real declarations, which a JS expression
// cannot hold, so it is instead rendered as an immediately-invoked
// arrow function whose body is a proper statement list.
func translateBlock(n *ast.BlockNode, e *env.Environment, ctx *Context) (target.Node, error) {
	if len(n.Body) == 0 {
		return target.NewNull(), nil
	}
	if !blockNeedsStatements(n) {
		exprs, err := translateMany(n.Body, e, ctx)
		if err != nil {
			return nil, err
		}
		if len(exprs) == 1 {
			return exprs[0], nil
		}
		return target.NewSequence(exprs...), nil
	}
	return translateBlockAsIIFE(n, e, ctx)
}

func blockNeedsStatements(n *ast.BlockNode) bool {
	for _, s := range n.Body {
		if _, ok := s.(*ast.AssignNode); ok {
			return true
		}
	}
	return false
}

// translateBlockAsIIFE lowers a block containing `=` assignments. Each
// assignment becomes a `Kernel.matchAssign(descriptor, value)` call
// (spec §6: the runtime match-and-bind helper, throwing MatchError on a
// failed structural match) stored in a temporary, with one `const` per
// bound name pulled off its `.vars` bag; the block's own value is the
// `.value` field of its final assignment, or the last expression as-is
// if the last statement is not itself an assignment.
func translateBlockAsIIFE(n *ast.BlockNode, e *env.Environment, ctx *Context) (target.Node, error) {
	var stmts []target.Node
	for i, s := range n.Body {
		last := i == len(n.Body)-1

		if assign, ok := s.(*ast.AssignNode); ok {
			desc, bindings, err := pattern.Lower(assign.Left)
			if err != nil {
				return nil, err
			}
			right, err := Translate(assign.Right, e, ctx)
			if err != nil {
				return nil, err
			}
			matchCall := kernelCall("matchAssign", []target.Node{pattern.ToTargetDescriptor(desc), right})
			tempName := fmt.Sprintf("__match%d__", i)
			stmts = append(stmts, target.NewConst(tempName, matchCall))
			for _, b := range bindings {
				name := ident.FilterIdentifier(b.Name)
				stmts = append(stmts, target.NewConst(name,
					target.NewMember(target.NewMember(target.NewIdentifier(tempName), target.NewIdentifier("vars"), false),
						target.NewString(name), true)))
			}
			if last {
				stmts = append(stmts, target.NewReturn(target.NewMember(target.NewIdentifier(tempName), target.NewIdentifier("value"), false)))
			}
			continue
		}

		expr, err := Translate(s, e, ctx)
		if err != nil {
			return nil, err
		}
		if last {
			stmts = append(stmts, target.NewReturn(expr))
		} else {
			stmts = append(stmts, target.NewExprStmt(expr))
		}
	}
	return target.NewCall(target.NewArrow(nil, target.NewBlock(stmts...))), nil
}

// translateAssign lowers a bare `=` reached directly by the dispatcher
// (i.e. outside a __block__ statement list, such as nested inside
// another expression). Bindings it introduces are not hoisted to any
// enclosing scope in this position — only the matched value is
// produced — since there is no statement list here to declare into;
// the common top-level-of-a-block case is handled by translateBlock
// instead, where bindings genuinely do become visible to later
// statements.
func translateAssign(n *ast.AssignNode, e *env.Environment, ctx *Context) (target.Node, error) {
	desc, _, err := pattern.Lower(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := Translate(n.Right, e, ctx)
	if err != nil {
		return nil, err
	}
	return target.NewMember(kernelCall("matchAssign", []target.Node{pattern.ToTargetDescriptor(desc), right}),
		target.NewIdentifier("value"), false), nil
}

// translateCase lowers `case` (spec §4.3) straight onto the clause-
// table machinery's expression-position form.
func translateCase(n *ast.CaseNode, e *env.Environment, ctx *Context) (target.Node, error) {
	subject, err := Translate(n.Subject, e, ctx)
	if err != nil {
		return nil, err
	}
	clauses, err := buildClauses(n.Clauses, e, ctx)
	if err != nil {
		return nil, err
	}
	return pattern.BuildCase(subject, clauses), nil
}

// translateCond lowers `cond` (spec §4.3) into a right-folded chain of
// ConditionalExpressions; a clause table is unnecessary since cond has
// no patterns to match, only boolean tests. Falling off the end (no
// clause true, and no catch-all `true ->` arm) raises at runtime via
// Kernel.condClauseError, mirroring the source language's own
// behavior.
func translateCond(n *ast.CondNode, e *env.Environment, ctx *Context) (target.Node, error) {
	var acc target.Node = kernelCall("condClauseError", nil)
	for i := len(n.Clauses) - 1; i >= 0; i-- {
		clause := n.Clauses[i]
		test, err := Translate(clause.Test, e, ctx)
		if err != nil {
			return nil, err
		}
		body, err := Translate(clause.Body, e, ctx)
		if err != nil {
			return nil, err
		}
		acc = target.NewConditional(test, body, acc)
	}
	return acc, nil
}

// translateFor lowers a `for` comprehension (spec §4.3) into a single
// call against the runtime's fold-based comprehension helper: each
// generator contributes a {pattern, source} pair, each filter becomes a
// predicate closure, and the body becomes a producer closure, all
// sharing the comprehension's combined set of bound names as
// positional parameters.
func translateFor(n *ast.ForNode, e *env.Environment, ctx *Context) (target.Node, error) {
	var allBindings []pattern.Binding
	generators := make([]target.Node, 0, len(n.Generators))
	for _, g := range n.Generators {
		desc, bindings, err := pattern.Lower(g.Pattern)
		if err != nil {
			return nil, err
		}
		allBindings = append(allBindings, bindings...)
		source, err := Translate(g.Source, e, ctx)
		if err != nil {
			return nil, err
		}
		generators = append(generators, target.NewObject(
			target.Property{Key: "pattern", Value: pattern.ToTargetDescriptor(desc)},
			target.Property{Key: "source", Value: source},
		))
	}
	params := bindingParams(allBindings)

	filters := make([]target.Node, 0, len(n.Filters))
	for _, f := range n.Filters {
		fe, err := Translate(f, e, ctx)
		if err != nil {
			return nil, err
		}
		filters = append(filters, target.NewArrow(params, fe))
	}

	bodyExpr, err := Translate(n.Body, e, ctx)
	if err != nil {
		return nil, err
	}

	into := target.Node(target.NewNull())
	if n.Into != nil {
		into, err = Translate(n.Into, e, ctx)
		if err != nil {
			return nil, err
		}
	}

	return kernelCall("forComprehension", []target.Node{
		target.NewArray(generators...),
		target.NewArray(filters...),
		target.NewArrow(params, bodyExpr),
		into,
		target.NewBool(n.Uniq),
	}), nil
}

// translateTry lowers `try`/`rescue`/`catch`/`else`/`after` (spec §4.3)
// onto a native try/catch wrapped as an IIFE so it remains usable in
// expression position: `rescue` and `catch` clauses share one JS catch
// block and are matched against the caught value with the ordinary
// clause-table machinery; an `else` clause set matches against the
// `do` block's result when nothing was raised.
func translateTry(n *ast.TryNode, e *env.Environment, ctx *Context) (target.Node, error) {
	doValue, err := Translate(n.Do, e, ctx)
	if err != nil {
		return nil, err
	}

	const resultName = "__try_result__"
	var blockBody []target.Node
	blockBody = append(blockBody, target.NewConst(resultName, doValue))
	if len(n.Else) > 0 {
		elseClauses, err := buildClauses(n.Else, e, ctx)
		if err != nil {
			return nil, err
		}
		blockBody = append(blockBody, target.NewReturn(pattern.BuildCase(target.NewIdentifier(resultName), elseClauses)))
	} else {
		blockBody = append(blockBody, target.NewReturn(target.NewIdentifier(resultName)))
	}
	block := target.NewBlock(blockBody...)

	var handler *target.BlockStatement
	param := ""
	allCatch := append(append([]ast.Clause{}, n.Rescue...), n.Catch...)
	if len(allCatch) > 0 {
		clauses, err := buildClauses(allCatch, e, ctx)
		if err != nil {
			return nil, err
		}
		param = "__try_error__"
		handler = target.NewBlock(target.NewReturn(pattern.BuildCase(target.NewIdentifier(param), clauses)))
	}

	var finalizer *target.BlockStatement
	if n.After != nil {
		afterValue, err := Translate(n.After, e, ctx)
		if err != nil {
			return nil, err
		}
		finalizer = target.NewBlock(target.NewExprStmt(afterValue))
	}

	tryStmt := target.NewTry(block, param, handler, finalizer)
	return target.NewCall(target.NewArrow(nil, target.NewBlock(tryStmt))), nil
}

// translateReceive lowers `receive`/`after` (spec §4.3) onto
// Kernel.receive, handing it the clause table plus an optional
// timeout/after-body pair.
func translateReceive(n *ast.ReceiveNode, e *env.Environment, ctx *Context) (target.Node, error) {
	clauses, err := buildClauses(n.Clauses, e, ctx)
	if err != nil {
		return nil, err
	}
	args := []target.Node{pattern.BuildClauseTable(clauses)}
	if n.After != nil {
		timeoutMs, err := Translate(n.After, e, ctx)
		if err != nil {
			return nil, err
		}
		timeoutBody, err := Translate(n.Timeout, e, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, timeoutMs, target.NewArrow(nil, timeoutBody))
	}
	return kernelCall("receive", args), nil
}

// translateFn lowers an anonymous multi-clause function literal (spec
// §4.3) into a callable clause table via Kernel.makeFn.
func translateFn(n *ast.FnNode, e *env.Environment, ctx *Context) (target.Node, error) {
	clauses, err := buildClauses(n.Clauses, e, ctx)
	if err != nil {
		return nil, err
	}
	return kernelCall("makeFn", []target.Node{pattern.BuildClauseTable(clauses)}), nil
}

// translateQuote lowers `quote do ... end` (spec §4.3) by reifying its
// body as runtime AST data rather than ordinary code, following the
// same homoiconic tagged-tuple shape the source language itself uses
// for macro input (tag, meta, children) — even though this AST models
// source shapes as distinct Go structs rather than tagged tuples, the
// data a `quote` block produces at runtime is exactly that
// representation, since a `quote` form exists specifically to hand a
// macro a piece of code as data. `unquote(expr)` escapes back to
// ordinary translation.
func translateQuote(n *ast.QuoteNode, e *env.Environment, ctx *Context) (target.Node, error) {
	return reify(n.Body, e, ctx)
}

func reify(node ast.Node, e *env.Environment, ctx *Context) (target.Node, error) {
	if u, ok := node.(*ast.UnquoteNode); ok {
		return Translate(u.Expr, e, ctx)
	}

	quoted := func(tag string, children ...target.Node) target.Node {
		return target.NewCall(
			target.NewMember(target.NewIdentifier("SpecialForms"), target.NewIdentifier("quoted"), false),
			append([]target.Node{target.NewString(tag), target.NewArray(children...)})...,
		)
	}

	switch n := node.(type) {
	case *ast.Literal:
		return translateLiteral(n)
	case *ast.Atom:
		return quoted("atom", target.NewString(n.Name)), nil
	case *ast.Identifier:
		return quoted("var", target.NewString(n.Name)), nil
	case *ast.AliasesNode:
		return quoted("aliases", target.NewString(strings.Join(n.Segments, "."))), nil
	case *ast.ListNode:
		children, err := reifyMany(n.Elements, e, ctx)
		if err != nil {
			return nil, err
		}
		return quoted("list", children...), nil
	case *ast.TupleNode:
		children, err := reifyMany(n.Elements, e, ctx)
		if err != nil {
			return nil, err
		}
		return quoted("tuple", children...), nil
	case *ast.BinaryOp:
		left, err := reify(n.Left, e, ctx)
		if err != nil {
			return nil, err
		}
		right, err := reify(n.Right, e, ctx)
		if err != nil {
			return nil, err
		}
		return quoted("binop", target.NewString(n.Op), left, right), nil
	case *ast.UnaryOp:
		inner, err := reify(n.Expr, e, ctx)
		if err != nil {
			return nil, err
		}
		return quoted("unop", target.NewString(n.Op), inner), nil
	case *ast.CallNode:
		args, err := reifyMany(n.Args, e, ctx)
		if err != nil {
			return nil, err
		}
		name := target.NewString(n.Name)
		if n.Module == nil {
			return quoted("call", append([]target.Node{name}, args...)...), nil
		}
		mod, err := reify(n.Module, e, ctx)
		if err != nil {
			return nil, err
		}
		return quoted("call", append([]target.Node{name, mod}, args...)...), nil
	case *ast.BlockNode:
		children, err := reifyMany(n.Body, e, ctx)
		if err != nil {
			return nil, err
		}
		return quoted("block", children...), nil
	default:
		// An uncommon shape inside a quoted block: fall back to an
		// opaque string leaf rather than rejecting the whole quote.
		return quoted("opaque", target.NewString(node.String())), nil
	}
}

func reifyMany(nodes []ast.Node, e *env.Environment, ctx *Context) ([]target.Node, error) {
	out := make([]target.Node, 0, len(nodes))
	for _, n := range nodes {
		rn, err := reify(n, e, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, rn)
	}
	return out, nil
}
