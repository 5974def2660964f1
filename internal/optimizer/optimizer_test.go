package optimizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajmd17/ace-lang-sub001/internal/analyzer"
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/optimizer"
	"github.com/ajmd17/ace-lang-sub001/internal/parser"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

func analyzeAndOptimize(t *testing.T, src string) (*ast.Program, *diagnostics.Bag) {
	t.Helper()
	bag := diagnostics.NewBag()
	p := parser.New("test.ace", src, bag)
	prog := p.ParseProgram()
	require.False(t, bag.HasFatal(), "parse errors: %v", bag.All())

	a := analyzer.New(typesystem.NewTable(), bag)
	a.AnalyzeFile("test.ace", prog)
	require.False(t, bag.HasFatal(), "analyze errors: %v", bag.All())

	optimizer.New(bag).Run(prog)
	return prog, bag
}

func TestOptimizer_FoldsConstantArithmetic(t *testing.T) {
	prog, _ := analyzeAndOptimize(t, `let x = 1 + 2;`)
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	lit, ok := decl.Value.(*ast.IntLiteral)
	require.True(t, ok, "expected folded IntLiteral, got %T", decl.Value)
	require.Equal(t, int64(3), lit.Value)
}

func TestOptimizer_PropagatesConstIdentifier(t *testing.T) {
	prog, _ := analyzeAndOptimize(t, `
		const two = 2;
		let four = two + two;
	`)
	decl := prog.Statements[1].(*ast.VariableDeclaration)
	lit, ok := decl.Value.(*ast.IntLiteral)
	require.True(t, ok, "expected folded IntLiteral, got %T", decl.Value)
	require.Equal(t, int64(4), lit.Value)
}

func TestOptimizer_FoldsStringConcat(t *testing.T) {
	prog, _ := analyzeAndOptimize(t, `let s = "foo" + "bar";`)
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	lit, ok := decl.Value.(*ast.StringLiteral)
	require.True(t, ok, "expected folded StringLiteral, got %T", decl.Value)
	require.Equal(t, "foobar", lit.Value)
}

func TestOptimizer_DropsStaticallyFalseIfBranch(t *testing.T) {
	prog, _ := analyzeAndOptimize(t, `
		if (false) {
			let a = 1;
		} else {
			let b = 2;
		}
	`)
	require.Len(t, prog.Statements, 1)
	block, ok := prog.Statements[0].(*ast.BlockStatement)
	require.True(t, ok, "expected the else branch spliced in directly, got %T", prog.Statements[0])
	require.Len(t, block.Statements, 1)
	decl, ok := block.Statements[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	require.Equal(t, "b", decl.Name)
}

func TestOptimizer_DropsStaticallyTrueIfWithNoElse(t *testing.T) {
	prog, _ := analyzeAndOptimize(t, `
		if (true) {
			let a = 1;
		}
	`)
	require.Len(t, prog.Statements, 1)
	block, ok := prog.Statements[0].(*ast.BlockStatement)
	require.True(t, ok, "expected the then branch spliced in directly, got %T", prog.Statements[0])
	require.Len(t, block.Statements, 1)
}

func TestOptimizer_DropsDeadWhileLoop(t *testing.T) {
	prog, _ := analyzeAndOptimize(t, `
		while (false) {
			let a = 1;
		}
	`)
	require.Empty(t, prog.Statements)
}

func TestOptimizer_DropsNoOpExpressionStatement(t *testing.T) {
	prog, _ := analyzeAndOptimize(t, `1;`)
	require.Empty(t, prog.Statements)
}

func TestOptimizer_KeepsSideEffectingExpressionStatement(t *testing.T) {
	prog, _ := analyzeAndOptimize(t, `
		let f = func() -> Int { return 1; };
		f();
	`)
	require.Len(t, prog.Statements, 2)
	_, ok := prog.Statements[1].(*ast.ExpressionStatement)
	require.True(t, ok)
}

func TestOptimizer_ReportsUnreachableCodeAfterReturn(t *testing.T) {
	_, bag := analyzeAndOptimize(t, `
		let f = func() -> Int {
			return 1;
			let x = 2;
		};
	`)
	var sawUnreachable bool
	for _, d := range bag.All() {
		if d.Kind == diagnostics.KindUnreachableCode {
			sawUnreachable = true
		}
	}
	require.True(t, sawUnreachable, "%v", bag.All())
}
