// Package macro isolates the translator from the host source-language
// interpreter's macro expander. Spec §4.1 rule 7 and §9's design note
// both require this boundary: expansion is an injected pure function
// the core consults, enabling tests with a stub expander (grounded on
// the teacher's injected-collaborator style, e.g. the ModuleLoader
// interface in internal/link/module_linker.go).
package macro

import (
	log "github.com/sirupsen/logrus"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
)

// Expander expands one level of macro application. It must be
// synchronous (spec §5: "the only external wait is the macro-expansion
// hook, which must be synchronous"). A nil returned node with a nil
// error means "not a macro" — translate the call literally.
type Expander interface {
	Expand(node ast.Node, e *env.Environment) (ast.Node, error)
}

// NoopExpander never expands anything; every node is taken literally.
// Useful as the stub expander spec §9 calls for when testing without a
// host-language interpreter.
type NoopExpander struct{}

func (NoopExpander) Expand(ast.Node, *env.Environment) (ast.Node, error) { return nil, nil }

// structuralEqual is a conservative identity-based equality used to
// detect a macro-expansion fixed point (spec §4.1: "equality means
// 'not a macro, translate literally'"). Pointer identity is sufficient
// because every AST node is heap-allocated and an expander that leaves
// a node unchanged is expected to return the very same node, not a
// structurally-identical copy — a copy should still be treated as a
// (possibly divergent) expansion and re-dispatched once more.
func structuralEqual(a, b ast.Node) bool {
	return a == b
}

// ExpandFixedPoint calls expander at most once per node on a given
// path, as spec §4.1 requires. It returns the possibly-expanded node
// and whether expansion changed anything.
func ExpandFixedPoint(expander Expander, node ast.Node, e *env.Environment) (ast.Node, bool, error) {
	if expander == nil {
		return node, false, nil
	}
	expanded, err := expander.Expand(node, e)
	if err != nil {
		return nil, false, err
	}
	if expanded == nil || structuralEqual(expanded, node) {
		return node, false, nil
	}
	log.WithFields(log.Fields{"node": node.String()}).Debug("macro expanded")
	return expanded, true, nil
}
