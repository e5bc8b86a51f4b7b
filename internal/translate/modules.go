package translate

import (
	"strings"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	apperrors "github.com/sunholo/jsxform/internal/errors"
	"github.com/sunholo/jsxform/internal/ident"
	"github.com/sunholo/jsxform/internal/pattern"
	"github.com/sunholo/jsxform/internal/registry"
	"github.com/sunholo/jsxform/internal/target"
)

// defGroup accumulates a run of consecutive def/defp clauses sharing a
// name and arity (spec §4.4) while a module body is walked in order.
type defGroup struct {
	key     ast.NameArity
	private bool
	clauses []ast.Clause
}

// TranslateModule lowers `defmodule Name do body end` (spec §4.5).
// Per the resolved Open Question on nesting order, every module nested
// directly in Body is translated first and its Program(s) precede this
// module's own Program in the returned slice — so a consumer that only
// keeps the last entry (the dispatcher's ModuleDecl case) still sees
// this module's own emission, while a caller walking a whole File
// collects every nested module too.
func TranslateModule(n *ast.ModuleDecl, e *env.Environment, ctx *Context) ([]target.Node, error) {
	if n.Name == nil || len(n.Name.Segments) == 0 {
		return nil, apperrors.New("module", apperrors.MOD001, "defmodule missing a name", n.Position())
	}

	moduleEnv := e
	for _, seg := range n.Name.Segments {
		moduleEnv = moduleEnv.WithModule(seg)
	}
	qualifiedName := moduleEnv.ModuleName()

	if _, err := ctx.Registry.AddModule(moduleEnv.ModulePath, moduleEnv.FilePath); err != nil {
		return nil, err
	}

	var innerPrograms []target.Node
	var importDecls []target.Node
	var structFactory target.Node
	var exceptionFactory target.Node
	var bodyOut []target.Node
	var exportNames []string
	var currentGroup *defGroup

	curEnv := moduleEnv

	flush := func() error {
		if currentGroup == nil {
			return nil
		}
		clauses, err := buildClauses(currentGroup.clauses, curEnv, ctx)
		if err != nil {
			return err
		}
		checkExhaustiveness(ctx, qualifiedName, currentGroup.key.Name, clauses)
		table := pattern.BuildClauseTable(clauses)
		name := ident.FilterIdentifier(currentGroup.key.Name)
		bodyOut = append(bodyOut, target.NewConst(name, table))
		if !currentGroup.private {
			exportNames = append(exportNames, name)
			ctx.Registry.AddFunction(qualifiedName, registry.FuncKey{Name: currentGroup.key.Name, Arity: currentGroup.key.Arity})
		}
		currentGroup = nil
		return nil
	}

	for _, item := range n.Body {
		switch node := item.(type) {
		case *ast.ModuleDecl:
			if err := flush(); err != nil {
				return nil, err
			}
			progs, err := TranslateModule(node, curEnv, ctx)
			if err != nil {
				return nil, err
			}
			innerPrograms = append(innerPrograms, progs...)

		case *ast.AliasNode:
			if err := flush(); err != nil {
				return nil, err
			}
			curEnv = applyAlias(node, curEnv, ctx, qualifiedName)

		case *ast.ImportNode:
			if err := flush(); err != nil {
				return nil, err
			}
			decl, newEnv := applyImport(node, curEnv, ctx, qualifiedName)
			curEnv = newEnv
			importDecls = append(importDecls, decl)

		case *ast.RequireNode:
			if err := flush(); err != nil {
				return nil, err
			}
			curEnv = applyRequire(node, curEnv)

		case *ast.DefStructNode:
			if err := flush(); err != nil {
				return nil, err
			}
			structFactory = translateDefStruct(node, curEnv, ctx)

		case *ast.DefExceptionNode:
			if err := flush(); err != nil {
				return nil, err
			}
			exceptionFactory = translateDefException(node, curEnv, ctx)

		case *ast.DefNode:
			key := ast.NameArity{Name: node.Name, Arity: len(node.Clause.Patterns)}
			if currentGroup != nil && currentGroup.key == key {
				currentGroup.clauses = append(currentGroup.clauses, node.Clause)
				currentGroup.private = node.Private
			} else {
				if err := flush(); err != nil {
					return nil, err
				}
				currentGroup = &defGroup{key: key, private: node.Private, clauses: []ast.Clause{node.Clause}}
			}

		case *ast.ProtocolDecl, *ast.ImplDecl:
			if err := flush(); err != nil {
				return nil, err
			}
			decl, err := Translate(item, curEnv, ctx)
			if err != nil {
				return nil, err
			}
			bodyOut = append(bodyOut, decl)

		default:
			if err := flush(); err != nil {
				return nil, err
			}
			expr, err := Translate(item, curEnv, ctx)
			if err != nil {
				return nil, err
			}
			bodyOut = append(bodyOut, target.NewExprStmt(expr))
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	var progBody []target.Node
	progBody = append(progBody, importDecls...)
	progBody = append(progBody, target.NewConst("__MODULE__", atomCall(qualifiedName)))
	if structFactory != nil {
		progBody = append(progBody, structFactory)
	}
	if exceptionFactory != nil {
		progBody = append(progBody, exceptionFactory)
	}
	progBody = append(progBody, bodyOut...)
	progBody = append(progBody, target.NewExport(exportNames...))

	prog := target.NewProgram(progBody...)
	ctx.Registry.SetBody(qualifiedName, prog)

	return append(innerPrograms, target.Node(prog)), nil
}

// applyAlias implements `alias A.B.C` / `alias X, as: Y` (spec §4.5).
func applyAlias(n *ast.AliasNode, e *env.Environment, ctx *Context, qualifiedName string) *env.Environment {
	local := n.As
	if local == "" {
		local = n.Target.Segments[len(n.Target.Segments)-1]
	}
	canonical := strings.Join(n.Target.Segments, ".")
	ctx.Registry.AddAlias(qualifiedName, local, canonical)
	return e.WithAlias(local, canonical)
}

// applyRequire implements `require M` (spec §4.5): it only ever binds
// an alias when `as:` is given — otherwise it has no effect on the
// translator beyond making M's macros legal to reference by qualified
// name, which needs no environment change since qualified macro calls
// already resolve through translateDottedCall's Registry lookup.
func applyRequire(n *ast.RequireNode, e *env.Environment) *env.Environment {
	if n.As == "" {
		return e
	}
	canonical := strings.Join(n.Target.Segments, ".")
	return e.WithAlias(n.As, canonical)
}

// applyImport implements `import M`, with optional only:/except:
// filters (spec §4.5). The ImportSpec is always recorded for the
// Registry's second pass (spec §4.5 "Two-pass resolution"); the
// Environment is, in addition, eagerly extended with whatever of M's
// functions/macros are already known at this point in the compilation
// — a forward reference to a module translated later in the same
// compilation simply contributes nothing yet, consistent with spec
// §7's stance that an unresolved bare name is not an error.
func applyImport(n *ast.ImportNode, e *env.Environment, ctx *Context, qualifiedName string) (target.Node, *env.Environment) {
	canonical := strings.Join(n.Target.Segments, ".")
	only := toFuncKeys(n.Only)
	except := toFuncKeys(n.Except)

	ctx.Registry.AddImport(qualifiedName, registry.ImportSpec{
		ModuleName: canonical, Only: only, Except: except, Kind: n.Kind,
	})

	var imports []env.Import
	if mod, ok := ctx.Registry.GetModule(canonical); ok {
		if n.Kind != "macros" {
			for fk := range mod.Functions {
				if nameArityAllowed(fk, only, except) {
					imports = append(imports, env.Import{Module: canonical, Name: fk.Name, Arity: fk.Arity, Kind: "function"})
				}
			}
		}
		if n.Kind != "functions" {
			for fk := range mod.Macros {
				if nameArityAllowed(fk, only, except) {
					imports = append(imports, env.Import{Module: canonical, Name: fk.Name, Arity: fk.Arity, Kind: "macro"})
				}
			}
		}
	}

	decl := target.NewNamespaceImport(moduleBindingName(canonical), importPathFromDotted(canonical))
	return decl, e.WithImports(imports...)
}

func toFuncKeys(names []ast.NameArity) []registry.FuncKey {
	if len(names) == 0 {
		return nil
	}
	out := make([]registry.FuncKey, len(names))
	for i, n := range names {
		out[i] = registry.FuncKey{Name: n.Name, Arity: n.Arity}
	}
	return out
}

func nameArityAllowed(fk registry.FuncKey, only, except []registry.FuncKey) bool {
	if len(only) > 0 {
		found := false
		for _, k := range only {
			if k == fk {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, k := range except {
		if k == fk {
			return false
		}
	}
	return true
}

// importPathFromDotted lowercases and "/"-joins a dotted module name
// (spec §6 "Module-to-file-path mapping"), usable even for a module
// that has not been registered yet (a forward-referenced import still
// needs a plausible emitted import path).
func importPathFromDotted(dotted string) string {
	segs := strings.Split(dotted, ".")
	for i, s := range segs {
		segs[i] = strings.ToLower(s)
	}
	return strings.Join(segs, "/")
}

// translateAlias, translateImport, and translateRequire are the
// generic-dispatch fallbacks for these three forms (spec §4.1's
// dispatcher reaches them structurally like any other tagged form).
// The Module translator's own body walk never calls these — it calls
// applyAlias/applyImport/applyRequire directly so the updated
// Environment threads to later sibling statements, something a single
// Translate call cannot do. Reached generically (e.g. one of these
// forms nested somewhere outside an ordinary module-body position),
// the side effect against the Registry still happens, but the
// Environment change only affects this call, not later siblings; like
// the source language's own alias/import/require, the expression value
// is the atom :ok.
func translateAlias(n *ast.AliasNode, e *env.Environment, ctx *Context) (target.Node, error) {
	applyAlias(n, e, ctx, e.ModuleName())
	return atomCall("ok"), nil
}

func translateImport(n *ast.ImportNode, e *env.Environment, ctx *Context) (target.Node, error) {
	applyImport(n, e, ctx, e.ModuleName())
	return atomCall("ok"), nil
}

func translateRequire(n *ast.RequireNode, e *env.Environment, ctx *Context) (target.Node, error) {
	applyRequire(n, e)
	return atomCall("ok"), nil
}
