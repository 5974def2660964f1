package analyzer

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

// RegisterBuiltins materializes the default-value AST spec.md §3.3 requires
// for every builtin type ("every non-Undefined type has a default-value
// AST unless it is Object itself"). Grounded on the teacher's
// internal/analyzer/builtins.go, which populates a similar table of
// zero-value constructors before any user code is analyzed.
func RegisterBuiltins(t *typesystem.Table) {
	set := func(name string, def ast.Expression) {
		ty := t.Get(t.MustLookup(name))
		ty.Default = def
	}
	set("Any", &ast.NullLiteral{})
	set("Int", &ast.IntLiteral{Value: 0})
	set("Float", &ast.FloatLiteral{Value: 0})
	set("Number", &ast.IntLiteral{Value: 0})
	set("Boolean", &ast.BoolLiteral{Value: false})
	set("String", &ast.StringLiteral{Value: ""})
	set("Null", &ast.NullLiteral{})
	// Object and Undefined are exempted by the invariant above: Object
	// has no canonical zero-value shape, and Undefined has none by
	// definition.

	for _, tmpl := range []string{"Function", "Array", "Tuple", "Args", "Maybe", "Const", "Block", "Closure", "Generator"} {
		set(tmpl, &ast.NullLiteral{})
	}
}
