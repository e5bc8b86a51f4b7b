package translate

import (
	"testing"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/target"
	"github.com/sunholo/jsxform/testutil"
)

func TestTranslateIntLiteralMatchesGolden(t *testing.T) {
	ctx, e := newTestContext()
	node, err := Translate(&ast.Literal{Kind: ast.IntLit, Value: int64(5)}, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	program := target.NewProgram(target.NewExprStmt(node))
	testutil.AssertProgramGolden(t, "literals", "int_five", program)
}
