package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	bag := diagnostics.NewBag()
	p := parser.New("<test>", src, bag)
	prog := p.ParseProgram()
	require.False(t, bag.HasFatal(), "unexpected parse errors: %v", bag.All())
	return prog
}

func exprStmt(t *testing.T, prog *ast.Program, i int) ast.Expression {
	t.Helper()
	require.Greater(t, len(prog.Statements), i)
	es, ok := prog.Statements[i].(*ast.ExpressionStatement)
	require.True(t, ok, "statement %d is %T, not ExpressionStatement", i, prog.Statements[i])
	return es.Expr
}

func TestParser_VariableDeclaration(t *testing.T) {
	prog := parseProgram(t, `let x: Int = 1 + 2;`)
	require.Len(t, prog.Statements, 1)
	decl, ok := prog.Statements[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	require.Equal(t, "x", decl.Name)
	require.False(t, decl.IsConst)
	typ, ok := decl.Type.(*ast.NamedTypeExpr)
	require.True(t, ok)
	require.Equal(t, "Int", typ.Name)
	bin, ok := decl.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, bin.Op)
}

func TestParser_ConstRequiresNoType(t *testing.T) {
	prog := parseProgram(t, `const pi = 3.14;`)
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	require.True(t, decl.IsConst)
	require.Nil(t, decl.Type)
	fl, ok := decl.Value.(*ast.FloatLiteral)
	require.True(t, ok)
	require.InDelta(t, 3.14, fl.Value, 1e-9)
}

func TestParser_OperatorPrecedence(t *testing.T) {
	prog := parseProgram(t, `1 + 2 * 3;`)
	expr := exprStmt(t, prog, 0)
	bin, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, bin.Op)
	_, ok = bin.Left.(*ast.IntLiteral)
	require.True(t, ok)
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpMul, rhs.Op)
}

func TestParser_CallAndMemberChain(t *testing.T) {
	prog := parseProgram(t, `foo.bar(1, name: 2);`)
	expr := exprStmt(t, prog, 0)
	call, ok := expr.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	require.Equal(t, "", call.Args[0].Name)
	require.Equal(t, "name", call.Args[1].Name)
	member, ok := call.Callee.(*ast.MemberExpr)
	require.True(t, ok)
	require.Equal(t, "bar", member.Name)
	ident, ok := member.Object.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "foo", ident.Name)
}

func TestParser_ArrayAndIndex(t *testing.T) {
	prog := parseProgram(t, `let xs = [1, 2, 3]; xs[0];`)
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	arr, ok := decl.Value.(*ast.ArrayLiteral)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)

	idxExpr := exprStmt(t, prog, 1)
	access, ok := idxExpr.(*ast.ArrayAccessExpr)
	require.True(t, ok)
	_, ok = access.Array.(*ast.Identifier)
	require.True(t, ok)
}

func TestParser_ObjectLiteral(t *testing.T) {
	prog := parseProgram(t, `let o = { x: 1, y: 2 };`)
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	obj, ok := decl.Value.(*ast.ObjectLiteral)
	require.True(t, ok)
	require.Len(t, obj.Fields, 2)
	require.Equal(t, "x", obj.Fields[0].Name)
	require.Equal(t, "y", obj.Fields[1].Name)
}

func TestParser_NewAndHas(t *testing.T) {
	prog := parseProgram(t, `let v = new Vec2(x: 1, y: 2); v has "x";`)
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	ne, ok := decl.Value.(*ast.NewExpr)
	require.True(t, ok)
	require.Equal(t, "Vec2", ne.TypeName)
	require.Len(t, ne.Args, 2)

	hasExpr := exprStmt(t, prog, 1)
	h, ok := hasExpr.(*ast.HasExpr)
	require.True(t, ok)
	require.Equal(t, "x", h.Name)
}

func TestParser_FunctionExpr(t *testing.T) {
	prog := parseProgram(t, `let add = func(a: Int, b: Int) -> Int { return a + b; };`)
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	fn, ok := decl.Value.(*ast.FunctionExpr)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "a", fn.Params[0].Name)
	require.NotNil(t, fn.ReturnType)
	require.Len(t, fn.Body.Statements, 1)
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	require.True(t, ok)
	require.NotNil(t, ret.Value)
}

func TestParser_IfElseIfElse(t *testing.T) {
	prog := parseProgram(t, `
if (x) {
	y = 1;
} else if (z) {
	y = 2;
} else {
	y = 3;
}
`)
	ifs, ok := prog.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	require.NotNil(t, ifs.Then)
	elseIf, ok := ifs.Else.(*ast.IfStatement)
	require.True(t, ok)
	_, ok = elseIf.Else.(*ast.BlockStatement)
	require.True(t, ok)
}

func TestParser_WhileAndAssign(t *testing.T) {
	prog := parseProgram(t, `
while (i) {
	i = i - 1;
}
`)
	ws, ok := prog.Statements[0].(*ast.WhileStatement)
	require.True(t, ok)
	require.Len(t, ws.Body.Statements, 1)
	es := ws.Body.Statements[0].(*ast.ExpressionStatement)
	assign, ok := es.Expr.(*ast.AssignExpr)
	require.True(t, ok)
	_, ok = assign.Target.(*ast.Identifier)
	require.True(t, ok)
}

func TestParser_TryCatch(t *testing.T) {
	prog := parseProgram(t, `
try {
	risky();
} catch (err) {
	handle(err);
}
`)
	tc, ok := prog.Statements[0].(*ast.TryCatchStatement)
	require.True(t, ok)
	require.Equal(t, "err", tc.CatchName)
	require.Len(t, tc.Try.Statements, 1)
	require.Len(t, tc.Catch.Statements, 1)
}

func TestParser_PrototypeDeclaration(t *testing.T) {
	prog := parseProgram(t, `
type Vec2 {
	x: Float = 0.0;
	y: Float = 0.0;
}
`)
	proto, ok := prog.Statements[0].(*ast.PrototypeDeclaration)
	require.True(t, ok)
	require.Equal(t, "Vec2", proto.Name)
	require.Len(t, proto.Members, 2)
	require.Equal(t, "x", proto.Members[0].Name)
	require.NotNil(t, proto.Members[0].Default)
}

func TestParser_GenericPrototypeDeclaration(t *testing.T) {
	prog := parseProgram(t, `
type Box(T) {
	value: T;
}
`)
	proto, ok := prog.Statements[0].(*ast.PrototypeDeclaration)
	require.True(t, ok)
	require.Equal(t, []string{"T"}, proto.GenericParams)
}

func TestParser_ModuleDeclaration(t *testing.T) {
	prog := parseProgram(t, `
module math {
	let pi = 3.14;
}
`)
	mod, ok := prog.Statements[0].(*ast.ModuleDeclaration)
	require.True(t, ok)
	require.Equal(t, "math", mod.Name)
	require.Len(t, mod.Body, 1)
}

func TestParser_ImportStatements(t *testing.T) {
	prog := parseProgram(t, `
import "std/io" as io;
local_import "helpers.ace";
`)
	imp, ok := prog.Statements[0].(*ast.ModuleImportStatement)
	require.True(t, ok)
	require.Equal(t, "std/io", imp.Path)
	require.Equal(t, "io", imp.Alias)

	li, ok := prog.Statements[1].(*ast.LocalImportStatement)
	require.True(t, ok)
	require.Equal(t, "helpers.ace", li.Path)
}

func TestParser_MetaBlock(t *testing.T) {
	prog := parseProgram(t, `
meta {
	let x = 1;
}
`)
	mb, ok := prog.Statements[0].(*ast.MetaBlockStatement)
	require.True(t, ok)
	require.Len(t, mb.Body, 1)
}

func TestParser_TupleAndGrouped(t *testing.T) {
	prog := parseProgram(t, `let t = (1, 2); let g = (1 + 2) * 3;`)
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	tup, ok := decl.Value.(*ast.TupleLiteral)
	require.True(t, ok)
	require.Len(t, tup.Elements, 2)

	decl2 := prog.Statements[1].(*ast.VariableDeclaration)
	bin, ok := decl2.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpMul, bin.Op)
	_, ok = bin.Left.(*ast.BinaryExpr)
	require.True(t, ok)
}
