package translate

import (
	"fmt"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	apperrors "github.com/sunholo/jsxform/internal/errors"
	"github.com/sunholo/jsxform/internal/target"
)

// Translate implements the dispatcher's contract from spec §4.1:
// translate(ast, env) → target-node, pure over its inputs except for
// the Registry mutations each sub-translator documents.
//
// Dispatch follows the ordered rules of spec §4.1 exactly: primitives,
// bare atoms, lists, tuples, a fixed set of tagged forms (matched by Go
// type here, since this AST already discriminates shapes structurally
// rather than via a shallow tag string), rejected reflective forms,
// then the generic-call fallback (Kernel builtin / macro expansion /
// import-qualified or local call), and finally a bare identifier.
func Translate(node ast.Node, e *env.Environment, ctx *Context) (target.Node, error) {
	switch n := node.(type) {

	// Rule 1: primitive literals.
	case *ast.Literal:
		return translateLiteral(n)

	// Rule 2: bare atoms.
	case *ast.Atom:
		return translateAtom(n), nil

	// Rule 3: ordered sequences.
	case *ast.ListNode:
		return translateList(n, e, ctx)

	// Rule 4/5 (n-ary tuple `{}` is the same shape as the binary tuple).
	case *ast.TupleNode:
		return translateTuple(n, e, ctx)

	// Rule 5: specific tagged forms, in the order named by spec §4.1.
	case *ast.CaptureNode:
		return translateCapture(n, e, ctx)
	case *ast.PlaceholderNode:
		return translatePlaceholder(n), nil
	case *ast.AttributeNode:
		return translateAttribute(n, e, ctx)
	case *ast.StructNode:
		return translateStruct(n, e, ctx)
	case *ast.MapNode:
		return translateMap(n, e, ctx)
	case *ast.BitstringNode:
		return translateBitstring(n, e, ctx)
	case *ast.CallNode:
		return translateCall(n, e, ctx)
	case *ast.AliasesNode:
		return translateAliases(n, e), nil
	case *ast.BlockNode:
		return translateBlock(n, e, ctx)
	case *ast.DirNode:
		return target.NewString(e.FilePath), nil
	case *ast.TryNode:
		return translateTry(n, e, ctx)
	case *ast.ReceiveNode:
		return translateReceive(n, e, ctx)
	case *ast.QuoteNode:
		return translateQuote(n, e, ctx)
	case *ast.ImportNode:
		return translateImport(n, e, ctx)
	case *ast.AliasNode:
		return translateAlias(n, e, ctx)
	case *ast.RequireNode:
		return translateRequire(n, e, ctx)
	case *ast.CaseNode:
		return translateCase(n, e, ctx)
	case *ast.CondNode:
		return translateCond(n, e, ctx)
	case *ast.ForNode:
		return translateFor(n, e, ctx)
	case *ast.FnNode:
		return translateFn(n, e, ctx)
	case *ast.AssignNode:
		return translateAssign(n, e, ctx)
	case *ast.DefNode:
		// A single clause reaching the dispatcher directly (outside a
		// module-body grouping pass) is lowered as a one-clause table;
		// the Function translator (functions.go) is what groups runs of
		// DefNodes sharing a name/arity when walking a module body.
		return translateSingleDef(n, e, ctx)
	case *ast.DefStructNode:
		return translateDefStruct(n, e, ctx), nil
	case *ast.DefExceptionNode:
		return translateDefException(n, e, ctx), nil
	case *ast.ModuleDecl:
		progs, err := TranslateModule(n, e, ctx)
		if err != nil {
			return nil, err
		}
		if len(progs) == 0 {
			return target.NewNull(), nil
		}
		return progs[len(progs)-1], nil
	case *ast.ProtocolDecl:
		return translateProtocol(n, e, ctx)
	case *ast.ImplDecl:
		return translateImpl(n, e, ctx)

	// Rule 6: rejected reflective forms.
	case *ast.ReflectiveNode:
		return nil, apperrors.Unsupported(n.Form, n.Position())

	// Identifiers that are not call heads fall through to rule 8 below,
	// but CallNode (rule 7's generic call) is handled above since this
	// AST always shapes a call explicitly rather than as a 3-tuple.
	case *ast.Identifier:
		return translateIdentifier(n, e, ctx)

	case *ast.WildcardPattern:
		return target.NewIdentifier("_"), nil

	default:
		return nil, apperrors.New("dispatch", apperrors.DSP001,
			fmt.Sprintf("unrecognized AST shape %T", node), node.Position())
	}
}

// translateMany translates a slice of nodes in order, threading no
// state between them (each independent per spec §4.1 rule 3's "per-
// element recursion").
func translateMany(nodes []ast.Node, e *env.Environment, ctx *Context) ([]target.Node, error) {
	out := make([]target.Node, 0, len(nodes))
	for _, n := range nodes {
		tn, err := Translate(n, e, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, tn)
	}
	return out, nil
}
