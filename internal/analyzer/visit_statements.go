package analyzer

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/symbols"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

func (a *Analyzer) VisitExpressionStatement(n *ast.ExpressionStatement) {
	n.Expr.Accept(a)
}

// VisitVariableDeclaration implements spec.md §8's two declaration-shape
// boundary errors before anything else: a binding with neither a type
// annotation nor an initializer carries no information to type it with,
// and a const binding without an initializer can never be assigned later.
func (a *Analyzer) VisitVariableDeclaration(n *ast.VariableDeclaration) {
	if n.Type == nil && n.Value == nil {
		a.errorf(diagnostics.KindMissingTypeOrInitializer, n.GetLoc(), "%q needs a type annotation or an initializer", n.Name)
		return
	}
	if n.IsConst && n.Value == nil {
		a.errorf(diagnostics.KindConstWithoutInitializer, n.GetLoc(), "const %q needs an initializer", n.Name)
		return
	}

	if n.Value != nil {
		n.Value.Accept(a)
	}

	declaredType := a.Types.MustLookup("Undefined")
	switch {
	case n.Type != nil:
		declaredType = a.resolveTypeExpr(n.Type)
		if n.Value != nil && !a.Types.Compatible(declaredType, n.Value.GetExprType(), false) {
			a.errorf(diagnostics.KindMismatchedTypes, n.GetLoc(), "initializer is not compatible with declared type of %q", n.Name)
		}
	case n.Value != nil:
		declaredType = n.Value.GetExprType()
	}

	var flags symbols.Flag
	if n.IsConst {
		flags |= symbols.FlagConst
	}
	if a.Current.EnclosingFunctionScope() != nil {
		flags |= symbols.FlagDeclaredInFunction
	}

	scope := a.Current.CurrentScope()
	if _, redeclared := scope.LookupIdentifier(n.Name); redeclared {
		a.errorf(diagnostics.KindRedeclaredIdentifier, n.GetLoc(), "%q is already declared in this scope", n.Name)
		return
	}
	ident := scope.DeclareIdentifier(n.Name, declaredType, flags)
	n.Resolved = ident

	// A const bound directly to a literal carries that literal forward as
	// its current value, so internal/optimizer can propagate it into every
	// reference and fold from there.
	if n.IsConst && isLiteralExpr(n.Value) {
		ident.Value = n.Value
	}
}

func isLiteralExpr(e ast.Expression) bool {
	switch e.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.NullLiteral:
		return true
	default:
		return false
	}
}

// VisitPrototypeDeclaration turns a `type Name(...) { ... }` declaration
// into either a ClassGenericTemplate (generic parameters present) or a
// plain ClassUserDefined type, resolving member type annotations with the
// generic-parameter placeholders visible by name via a scoped type table.
func (a *Analyzer) VisitPrototypeDeclaration(n *ast.PrototypeDeclaration) {
	if len(n.GenericParams) == 0 {
		members := a.resolvePrototypeMembers(n.Members)
		id := a.Types.New(n.Name, typesystem.ClassUserDefined)
		ty := a.Types.Get(id)
		ty.Members = members
		if n.BaseTypeName != "" {
			ty.Base = a.resolveBaseType(n.BaseTypeName, n.GetLoc())
		}
		a.Current.CurrentScope().DeclareType(n.Name, id)
		return
	}

	scope := a.Current.OpenScope(symbols.ScopeTypeDefinition)
	placeholders := make([]typesystem.ID, len(n.GenericParams))
	for i, p := range n.GenericParams {
		ph := a.Types.NewGenericParameter(p)
		placeholders[i] = ph
		scope.DeclareType(p, ph)
	}
	members := a.resolvePrototypeMembers(n.Members)
	a.Current.CloseScope()

	id := a.Types.NewTemplate(n.Name, len(n.GenericParams), placeholders, members)
	if n.BaseTypeName != "" {
		a.Types.Get(id).Base = a.resolveBaseType(n.BaseTypeName, n.GetLoc())
	}
	a.Current.CurrentScope().DeclareType(n.Name, id)
}

func (a *Analyzer) resolvePrototypeMembers(pms []ast.PrototypeMember) []typesystem.Member {
	members := make([]typesystem.Member, len(pms))
	for i, pm := range pms {
		if pm.Default != nil {
			pm.Default.Accept(a)
		}
		members[i] = typesystem.Member{
			Name:    pm.Name,
			Type:    a.resolveTypeExpr(pm.Type),
			Default: pm.Default,
		}
	}
	return members
}

func (a *Analyzer) resolveBaseType(name string, loc diagnostics.Location) typesystem.ID {
	res := a.Resolve(name)
	if res.Kind != ResolveType {
		a.errorf(diagnostics.KindUndeclaredIdentifier, loc, "undeclared base type %q", name)
		return a.Types.MustLookup("Undefined")
	}
	return res.Type
}

func (a *Analyzer) VisitModuleDeclaration(n *ast.ModuleDeclaration) {
	mod, ok := a.Current.Children[n.Name]
	if !ok {
		mod = symbols.NewChildModule(a.Current, n.Name, n.GetLoc())
	}
	a.Modules[n.Name] = mod

	prev := a.Current
	a.Current = mod
	for _, stmt := range n.Body {
		stmt.Accept(a)
	}
	a.Current = prev
}

func (a *Analyzer) VisitBlockStatement(n *ast.BlockStatement) {
	a.Current.OpenScope(symbols.ScopeNormal)
	for _, stmt := range n.Statements {
		stmt.Accept(a)
	}
	a.Current.CloseScope()
}

func (a *Analyzer) VisitIfStatement(n *ast.IfStatement) {
	n.Cond.Accept(a)
	n.Then.Accept(a)
	if n.Else != nil {
		n.Else.Accept(a)
	}
}

func (a *Analyzer) VisitWhileStatement(n *ast.WhileStatement) {
	n.Cond.Accept(a)
	a.Current.OpenScope(symbols.ScopeLoop)
	for _, stmt := range n.Body.Statements {
		stmt.Accept(a)
	}
	a.Current.CloseScope()
}

func (a *Analyzer) VisitTryCatchStatement(n *ast.TryCatchStatement) {
	n.Try.Accept(a)

	a.Current.OpenScope(symbols.ScopeNormal)
	if n.CatchName != "" {
		flags := symbols.Flag(0)
		if a.Current.EnclosingFunctionScope() != nil {
			flags = symbols.FlagDeclaredInFunction
		}
		n.CatchResolved = a.Current.CurrentScope().DeclareIdentifier(n.CatchName, a.Types.MustLookup("Any"), flags)
	}
	for _, stmt := range n.Catch.Statements {
		stmt.Accept(a)
	}
	a.Current.CloseScope()
}

func (a *Analyzer) VisitReturnStatement(n *ast.ReturnStatement) {
	scope := a.Current.EnclosingFunctionScope()
	if scope == nil {
		a.errorf(diagnostics.KindReturnOutsideFunction, n.GetLoc(), "return outside function")
		return
	}
	if n.Value != nil {
		n.Value.Accept(a)
		scope.RecordReturnType(n.Value.GetExprType(), n.GetLoc())
		return
	}
	scope.RecordReturnType(a.Types.MustLookup("Any"), n.GetLoc())
}

func (a *Analyzer) VisitYieldStatement(n *ast.YieldStatement) {
	scope := a.Current.EnclosingFunctionScope()
	if scope == nil {
		a.errorf(diagnostics.KindReturnOutsideFunction, n.GetLoc(), "yield outside function")
		return
	}
	n.Value.Accept(a)
}

// VisitLocalImportStatement performs no module-graph bookkeeping: a local
// import splices a sibling file's statements into the importing file
// in-place, which is the pipeline's job (it re-parses the target and
// walks its statements through this same Analyzer) rather than this
// single-file Visit pass's.
func (a *Analyzer) VisitLocalImportStatement(n *ast.LocalImportStatement) {}

// VisitModuleImportStatement enforces spec.md's "import outside global"
// restriction and registers a placeholder module so later identifier
// resolution finds the name; populating that module's actual contents is
// the pipeline's responsibility once it has loaded and analyzed the
// imported file.
func (a *Analyzer) VisitModuleImportStatement(n *ast.ModuleImportStatement) {
	if a.Current != a.Global {
		a.errorf(diagnostics.KindImportOutsideGlobal, n.GetLoc(), "import must appear at global scope")
		return
	}
	name := n.Alias
	if name == "" {
		name = n.Path
	}
	if _, ok := a.Modules[name]; !ok {
		a.Modules[name] = symbols.NewChildModule(a.Global, name, n.GetLoc())
	}
}

func (a *Analyzer) VisitMetaBlockStatement(n *ast.MetaBlockStatement) {
	a.Current.OpenScope(symbols.ScopeNormal)
	for _, stmt := range n.Body {
		stmt.Accept(a)
	}
	a.Current.CloseScope()
}
