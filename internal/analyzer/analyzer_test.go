package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajmd17/ace-lang-sub001/internal/analyzer"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/parser"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

func analyze(t *testing.T, src string) (*analyzer.Analyzer, *diagnostics.Bag) {
	t.Helper()
	bag := diagnostics.NewBag()
	p := parser.New("test.ace", src, bag)
	prog := p.ParseProgram()
	require.False(t, bag.HasFatal(), "parse errors: %v", bag.All())

	a := analyzer.New(typesystem.NewTable(), bag)
	a.AnalyzeFile("test.ace", prog)
	return a, bag
}

func TestAnalyzer_VariableDeclarationInfersType(t *testing.T) {
	_, bag := analyze(t, `let x = 1;`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
}

func TestAnalyzer_MissingTypeOrInitializerIsFatal(t *testing.T) {
	_, bag := analyze(t, `let x;`)
	require.True(t, bag.HasFatal())
}

func TestAnalyzer_ConstWithoutInitializerIsFatal(t *testing.T) {
	_, bag := analyze(t, `const x: Int;`)
	require.True(t, bag.HasFatal())
}

func TestAnalyzer_UndeclaredIdentifierIsFatal(t *testing.T) {
	_, bag := analyze(t, `let x = y;`)
	require.True(t, bag.HasFatal())
}

func TestAnalyzer_ConstReassignmentIsFatal(t *testing.T) {
	_, bag := analyze(t, `
		const x = 1;
		x = 2;
	`)
	require.True(t, bag.HasFatal())
}

func TestAnalyzer_FunctionCallTypeChecks(t *testing.T) {
	_, bag := analyze(t, `
		let add = func(a: Int, b: Int) -> Int { return a + b; };
		let result = add(1, 2);
	`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
}

func TestAnalyzer_TooFewArgsIsFatal(t *testing.T) {
	_, bag := analyze(t, `
		let add = func(a: Int, b: Int) -> Int { return a + b; };
		let result = add(1);
	`)
	require.True(t, bag.HasFatal())
}

func TestAnalyzer_NamedArgsMatchByName(t *testing.T) {
	_, bag := analyze(t, `
		let greet = func(name: String, greeting: String) -> String { return greeting; };
		let result = greet(greeting: "hi", name: "ann");
	`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
}

func TestAnalyzer_ClosureCapturesEnclosingLocal(t *testing.T) {
	a, bag := analyze(t, `
		let outer = func() -> Int {
			let captured = 1;
			let inner = func() -> Int { return captured; };
			return captured;
		};
	`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
	_ = a
}

func TestAnalyzer_RecursiveFunctionResolvesSelf(t *testing.T) {
	_, bag := analyze(t, `
		func fact(n: Int) -> Int {
			return fact(n);
		};
	`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
}

func TestAnalyzer_PrototypeDeclarationAndConstruction(t *testing.T) {
	_, bag := analyze(t, `
		type Point {
			x: Int;
			y: Int;
		}
		let p = new Point(x: 1, y: 2);
	`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
}

func TestAnalyzer_GenericPrototypeInstantiates(t *testing.T) {
	_, bag := analyze(t, `
		type Box(T) {
			value: T;
		}
		let b = new Box(value: 1);
	`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
}

func TestAnalyzer_MemberAccessOnUnknownMemberIsFatal(t *testing.T) {
	_, bag := analyze(t, `
		type Point {
			x: Int;
		}
		let p = new Point(x: 1);
		let z = p.y;
	`)
	require.True(t, bag.HasFatal())
}

func TestAnalyzer_HasExprNeverFails(t *testing.T) {
	_, bag := analyze(t, `
		type Point {
			x: Int;
		}
		let p = new Point(x: 1);
		let ok = p has "y";
	`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
}

func TestAnalyzer_ReturnOutsideFunctionIsFatal(t *testing.T) {
	_, bag := analyze(t, `return 1;`)
	require.True(t, bag.HasFatal())
}

func TestAnalyzer_ModuleDeclarationOpensOwnScope(t *testing.T) {
	_, bag := analyze(t, `
		module math {
			let pi = 3;
		}
	`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
}

func TestAnalyzer_ArrayLiteralElementTypePromotion(t *testing.T) {
	_, bag := analyze(t, `let xs = [1, 2, 3];`)
	require.False(t, bag.HasFatal(), "%v", bag.All())
}
