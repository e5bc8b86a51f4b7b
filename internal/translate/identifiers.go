package translate

import (
	"strings"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	apperrors "github.com/sunholo/jsxform/internal/errors"
	"github.com/sunholo/jsxform/internal/ident"
	"github.com/sunholo/jsxform/internal/macro"
	"github.com/sunholo/jsxform/internal/target"
)

// knownRuntimeModules names the dotted module references that bypass
// ordinary import-qualified dispatch and lower straight into the
// runtime library contract (spec §4.1 rule 5, §6 "Runtime library
// contract"). Any other dotted call is resolved against the Module
// Registry instead.
var knownRuntimeModules = map[string]bool{
	"Logger": true,
	"Access": true,
	"Kernel": true,
	"JS":     true,
}

// loggerMethod maps a Logger.* call name onto the console method the
// runtime's Logger shim delegates to; anything unlisted falls back to
// "log".
var loggerMethod = map[string]string{
	"debug": "log",
	"info":  "log",
	"warn":  "warn",
	"error": "error",
}

// kernelBuiltins lists the Kernel functions the translator recognizes
// by name+arity well enough to lower directly at a bare call site,
// ahead of macro expansion and import resolution (spec §4.1 rule 7
// "Kernel builtin arity check").
var kernelBuiltins = map[ast.NameArity]bool{
	{Name: "length", Arity: 1}:      true,
	{Name: "hd", Arity: 1}:          true,
	{Name: "tl", Arity: 1}:          true,
	{Name: "elem", Arity: 2}:        true,
	{Name: "put_elem", Arity: 3}:    true,
	{Name: "is_list", Arity: 1}:     true,
	{Name: "is_map", Arity: 1}:      true,
	{Name: "is_atom", Arity: 1}:     true,
	{Name: "is_binary", Arity: 1}:   true,
	{Name: "is_integer", Arity: 1}:  true,
	{Name: "is_float", Arity: 1}:    true,
	{Name: "is_number", Arity: 1}:   true,
	{Name: "is_tuple", Arity: 1}:    true,
	{Name: "is_function", Arity: 1}: true,
	{Name: "to_string", Arity: 1}:   true,
	{Name: "inspect", Arity: 1}:     true,
	{Name: "abs", Arity: 1}:         true,
	{Name: "round", Arity: 1}:       true,
	{Name: "max", Arity: 2}:         true,
	{Name: "min", Arity: 2}:         true,
}

// moduleBindingName turns a dotted canonical module name into the
// identifier its namespace import is bound to (spec §6's module-to-
// file-path mapping governs the import *source*; this governs the
// local binding the translator references at call sites against that
// same import).
func moduleBindingName(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "_")
}

// kernelCall builds a direct `Kernel.name(args...)` target call.
func kernelCall(name string, args []target.Node) target.Node {
	return target.NewCall(
		target.NewMember(target.NewIdentifier("Kernel"), target.NewIdentifier(ident.FilterIdentifier(name)), false),
		args...,
	)
}

// translateIdentifier lowers a bare identifier reference (spec §4.1
// rule 8): the name is run through the fixed substitution table so it
// is legal in the target language.
func translateIdentifier(n *ast.Identifier, e *env.Environment, ctx *Context) (target.Node, error) {
	return target.NewIdentifier(ident.FilterIdentifier(n.Name)), nil
}

// translateCall lowers a call (spec §4.1 rules 5 and 7): a dotted call
// against a known runtime module, a dotted call against a user module,
// or a bare call subject to builtin/macro/import resolution.
func translateCall(n *ast.CallNode, e *env.Environment, ctx *Context) (target.Node, error) {
	if n.Module != nil {
		return translateDottedCall(n, e, ctx)
	}
	return translateBareCall(n, e, ctx)
}

func translateDottedCall(n *ast.CallNode, e *env.Environment, ctx *Context) (target.Node, error) {
	args, err := translateMany(n.Args, e, ctx)
	if err != nil {
		return nil, err
	}

	if aliases, ok := n.Module.(*ast.AliasesNode); ok && len(aliases.Segments) >= 1 {
		resolved := resolveAliasesSegments(aliases, e)

		if len(resolved) == 1 && knownRuntimeModules[resolved[0]] {
			return translateRuntimeModuleCall(resolved[0], n.Name, args), nil
		}

		canonical := strings.Join(resolved, ".")
		if mod, ok := ctx.Registry.GetModule(canonical); ok {
			return target.NewCall(
				target.NewMember(target.NewIdentifier(moduleBindingName(mod.QualifiedName())),
					target.NewIdentifier(ident.FilterIdentifier(n.Name)), false),
				args...,
			), nil
		}
		// Module not yet registered (forward reference within the same
		// compilation): emit the qualified call against its eventual
		// binding name anyway, consistent with the late-binding stance
		// spec §7 takes for unresolved bare names.
		return target.NewCall(
			target.NewMember(target.NewIdentifier(moduleBindingName(canonical)),
				target.NewIdentifier(ident.FilterIdentifier(n.Name)), false),
			args...,
		), nil
	}

	moduleExpr, err := Translate(n.Module, e, ctx)
	if err != nil {
		return nil, err
	}
	return target.NewCall(
		target.NewMember(moduleExpr, target.NewIdentifier(ident.FilterIdentifier(n.Name)), false),
		args...,
	), nil
}

// translateRuntimeModuleCall implements spec §4.1 rule 5's dispatch
// table for the four well-known runtime modules (spec §6).
func translateRuntimeModuleCall(module, name string, args []target.Node) target.Node {
	switch module {
	case "Logger":
		method, ok := loggerMethod[name]
		if !ok {
			method = "log"
		}
		return target.NewCall(
			target.NewMember(target.NewIdentifier("console"), target.NewIdentifier(method), false),
			args...,
		)
	case "Access":
		return kernelCall("access_"+name, args)
	case "Kernel":
		return kernelCall(name, args)
	case "JS":
		return target.NewCall(
			target.NewMember(target.NewIdentifier("JS"), target.NewIdentifier(ident.FilterIdentifier(name)), false),
			args...,
		)
	default:
		return kernelCall(name, args)
	}
}

func translateBareCall(n *ast.CallNode, e *env.Environment, ctx *Context) (target.Node, error) {
	if kernelBuiltins[ast.NameArity{Name: n.Name, Arity: len(n.Args)}] {
		args, err := translateMany(n.Args, e, ctx)
		if err != nil {
			return nil, err
		}
		return kernelCall(n.Name, args), nil
	}

	expanded, changed, err := macro.ExpandFixedPoint(ctx.Expander, n, e)
	if err != nil {
		return nil, apperrors.New("dispatch", apperrors.DSP005, err.Error(), n.Position())
	}
	if changed {
		return Translate(expanded, e, ctx)
	}

	args, err := translateMany(n.Args, e, ctx)
	if err != nil {
		return nil, err
	}

	if module, ok := e.ResolveImport(n.Name, len(n.Args)); ok {
		return target.NewCall(
			target.NewMember(target.NewIdentifier(moduleBindingName(module)),
				target.NewIdentifier(ident.FilterIdentifier(n.Name)), false),
			args...,
		), nil
	}

	// Resolution miss is not an error (spec §7): the name is emitted as
	// a local identifier and left for the target runtime to resolve.
	return target.NewCall(target.NewIdentifier(ident.FilterIdentifier(n.Name)), args...), nil
}

// resolveAliasesSegments resolves the first segment of a dotted module
// reference against the current alias table, splicing the resolved
// canonical path back in front of the remaining segments (spec §4.5
// "Alias semantics": aliasing only ever rewrites the leading segment).
func resolveAliasesSegments(a *ast.AliasesNode, e *env.Environment) []string {
	if len(a.Segments) == 0 {
		return nil
	}
	head := e.ResolveAlias(a.Segments[0])
	resolved := strings.Split(head, ".")
	resolved = append(resolved, a.Segments[1:]...)
	return resolved
}
