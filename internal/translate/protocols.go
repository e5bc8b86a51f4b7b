package translate

import (
	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/ident"
	"github.com/sunholo/jsxform/internal/pattern"
	"github.com/sunholo/jsxform/internal/target"
)

// translateProtocol lowers `defprotocol P do spec end` (spec §4.6):
// it registers the protocol with the Module Registry (so a later
// defimpl with no matching defprotocol is distinguishable from one
// that does have a real spec) and emits a runtime dispatch object that
// per-type implementations install themselves into.
func translateProtocol(n *ast.ProtocolDecl, e *env.Environment, ctx *Context) (target.Node, error) {
	specNames := protocolSpecNames(n.Spec)
	ctx.Registry.AddProtocol(n.Name, target.NewArray(stringNodes(specNames)...))
	return target.NewConst(n.Name, kernelCall("protocolNew", []target.Node{target.NewString(n.Name)})), nil
}

// protocolSpecNames collects the bare function names a protocol
// declares, ignoring anything that is not itself a signature-shaped
// def (a protocol spec only ever declares heads, never bodies worth
// translating).
func protocolSpecNames(spec []ast.Node) []string {
	var names []string
	for _, s := range spec {
		if d, ok := s.(*ast.DefNode); ok {
			names = append(names, d.Name)
		}
	}
	return names
}

func stringNodes(names []string) []target.Node {
	out := make([]target.Node, len(names))
	for i, n := range names {
		out[i] = target.NewString(n)
	}
	return out
}

// translateImpl lowers `defimpl P, for: T do body end` (spec §4.6): T's
// body is reduced to an object of method names to clause-table values,
// and the result is installed into P's dispatch object at runtime via
// Kernel.protocolImpl (spec §6). Registry.AddProtocolImpl creates P's
// record with a null spec if defprotocol was never seen for it (spec
// §8 "A defimpl for a type with no corresponding defprotocol creates a
// new protocol record with a null spec").
func translateImpl(n *ast.ImplDecl, e *env.Environment, ctx *Context) (target.Node, error) {
	typeKey := protocolTypeKey(n.ForType, e)

	methods, err := buildImplMethods(n.Protocol+"."+typeKey, n.Body, e, ctx)
	if err != nil {
		return nil, err
	}

	ctx.Registry.AddProtocolImpl(n.Protocol, typeKey, methods)

	return target.NewExprStmt(kernelCall("protocolImpl", []target.Node{
		target.NewIdentifier(n.Protocol), target.NewString(typeKey), methods,
	})), nil
}

// protocolTypeKey renders defimpl's `for:` target as the string key
// the runtime dispatch table is keyed by: a user type's qualified
// module name, or a built-in type's bare atom name (e.g. `for:
// Integer` vs. `for: List`).
func protocolTypeKey(forType ast.Node, e *env.Environment) string {
	switch t := forType.(type) {
	case *ast.AliasesNode:
		return joinDotted(resolveAliasesSegments(t, e))
	case *ast.Atom:
		return t.Name
	default:
		return forType.String()
	}
}

func joinDotted(segments []string) string {
	return resolveAliasesSegmentsJoined(segments)
}

// buildImplMethods groups a defimpl body's consecutive same-name/arity
// def clauses into one clause table per method, the same grouping rule
// the Module translator applies to an ordinary module body (spec
// §4.4), since a protocol implementation's body is itself a restricted
// module body containing only function definitions.
func buildImplMethods(implKey string, body []ast.Node, e *env.Environment, ctx *Context) (*target.ObjectExpression, error) {
	var props []target.Property
	var currentName string
	var currentArity int
	var clauses []ast.Clause
	haveGroup := false

	flush := func() error {
		if !haveGroup {
			return nil
		}
		built, err := buildClauses(clauses, e, ctx)
		if err != nil {
			return err
		}
		checkExhaustiveness(ctx, implKey, currentName, built)
		props = append(props, target.Property{
			Key:   ident.FilterIdentifier(currentName),
			Value: pattern.BuildClauseTable(built),
		})
		clauses = nil
		haveGroup = false
		return nil
	}

	for _, item := range body {
		def, ok := item.(*ast.DefNode)
		if !ok {
			continue
		}
		arity := len(def.Clause.Patterns)
		if haveGroup && def.Name == currentName && arity == currentArity {
			clauses = append(clauses, def.Clause)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		currentName, currentArity = def.Name, arity
		clauses = []ast.Clause{def.Clause}
		haveGroup = true
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return target.NewObject(props...), nil
}
