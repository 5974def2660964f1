package analyzer

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/symbols"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

func (a *Analyzer) VisitProgram(p *ast.Program) {
	for _, stmt := range p.Statements {
		stmt.Accept(a)
	}
}

func (a *Analyzer) VisitIntLiteral(n *ast.IntLiteral) { n.SetExprType(a.Types.MustLookup("Int")) }

func (a *Analyzer) VisitFloatLiteral(n *ast.FloatLiteral) { n.SetExprType(a.Types.MustLookup("Float")) }

func (a *Analyzer) VisitStringLiteral(n *ast.StringLiteral) { n.SetExprType(a.Types.MustLookup("String")) }

func (a *Analyzer) VisitBoolLiteral(n *ast.BoolLiteral) { n.SetExprType(a.Types.MustLookup("Boolean")) }

func (a *Analyzer) VisitNullLiteral(n *ast.NullLiteral) { n.SetExprType(a.Types.MustLookup("Null")) }

// VisitIdentifier resolves a reference through the current module's scope
// stack first (tracking which scope it was found at, so the closure-capture
// rule can fire), then falls through to Resolve's full ordered lookup for
// the global-module / module-name / type-name tiers.
func (a *Analyzer) VisitIdentifier(n *ast.Identifier) {
	if id, scopeIdx, ok := a.resolveVariableWithDepth(n.Name); ok {
		id.MarkUsed()
		n.Resolved = id
		n.SetExprType(id.Type)
		if a.checkCapture(id, scopeIdx) {
			n.IsCapture = true
		}
		return
	}

	res := a.Resolve(n.Name)
	switch res.Kind {
	case ResolveVariable:
		res.Ident.MarkUsed()
		n.Resolved = res.Ident
		n.SetExprType(res.Ident.Type)
	case ResolveModule, ResolveType:
		// A bare reference to a module or type name; not a value, but
		// valid as the target of a member expression or `has` probe, so
		// it type-checks as Any rather than failing here.
		n.SetExprType(a.Types.MustLookup("Any"))
	default:
		a.errorf(diagnostics.KindUndeclaredIdentifier, n.GetLoc(), "undeclared identifier %q", n.Name)
		n.SetExprType(a.Types.MustLookup("Undefined"))
	}
}

var arithmeticOps = map[ast.BinaryOp]bool{
	ast.OpAdd: true, ast.OpSub: true, ast.OpMul: true, ast.OpDiv: true, ast.OpMod: true,
}

var comparisonOps = map[ast.BinaryOp]bool{
	ast.OpLt: true, ast.OpGt: true, ast.OpLte: true, ast.OpGte: true,
}

func (a *Analyzer) VisitBinaryExpr(n *ast.BinaryExpr) {
	n.Left.Accept(a)
	n.Right.Accept(a)

	lt, rt := n.Left.GetExprType(), n.Right.GetExprType()
	undefined := a.Types.MustLookup("Undefined")

	switch {
	case arithmeticOps[n.Op]:
		if n.Op == ast.OpAdd && a.Types.IsString(lt) && a.Types.IsString(rt) {
			n.SetExprType(a.Types.MustLookup("String"))
			return
		}
		result := a.Types.Promote(lt, rt, true)
		if a.Types.Equal(result, undefined) && !a.Types.IsAny(lt) && !a.Types.IsAny(rt) {
			a.errorf(diagnostics.KindMismatchedTypes, n.GetLoc(), "operands are not numerically compatible")
		}
		n.SetExprType(result)
	case comparisonOps[n.Op]:
		if !a.Types.Compatible(lt, rt, false) && !a.Types.Compatible(rt, lt, false) {
			a.errorf(diagnostics.KindMismatchedTypes, n.GetLoc(), "operands are not comparable")
		}
		n.SetExprType(a.Types.MustLookup("Boolean"))
	case n.Op == ast.OpEq || n.Op == ast.OpNeq:
		// Equality is always accepted at compile time; incompatible-type
		// comparisons are a VM-level exception (spec.md §4.4), not a
		// static error.
		n.SetExprType(a.Types.MustLookup("Boolean"))
	case n.Op == ast.OpAnd || n.Op == ast.OpOr:
		result := a.Types.Promote(lt, rt, false)
		if a.Types.Equal(result, undefined) {
			result = a.Types.MustLookup("Any")
		}
		n.SetExprType(result)
	default:
		n.SetExprType(undefined)
	}
}

func (a *Analyzer) VisitUnaryExpr(n *ast.UnaryExpr) {
	n.Operand.Accept(a)
	operandType := n.Operand.GetExprType()

	switch n.Op {
	case ast.OpNeg:
		if !a.Types.IsInt(operandType) && !a.Types.IsFloat(operandType) && !a.Types.IsNumber(operandType) && !a.Types.IsAny(operandType) {
			a.errorf(diagnostics.KindMismatchedTypes, n.GetLoc(), "operand of unary - must be numeric")
		}
		n.SetExprType(operandType)
	case ast.OpNot:
		n.SetExprType(a.Types.MustLookup("Boolean"))
	case ast.OpBitNot:
		if !a.Types.IsInt(operandType) && !a.Types.IsAny(operandType) {
			a.errorf(diagnostics.KindMismatchedTypes, n.GetLoc(), "operand of ~ must be Int")
		}
		n.SetExprType(a.Types.MustLookup("Int"))
	}
}

// VisitCallExpr implements spec.md §4.2's argument substitution at every
// call site: the callee and every argument value are visited first so
// their types are available, then SubstituteFunctionArgs reorders n.Args
// into parameter-slot order for the emitter.
func (a *Analyzer) VisitCallExpr(n *ast.CallExpr) {
	n.Callee.Accept(a)
	for _, arg := range n.Args {
		arg.Value.Accept(a)
	}

	retType, ordered, ok := a.SubstituteFunctionArgs(n.Callee.GetExprType(), n.Args, n.GetLoc())
	if !ok {
		n.SetExprType(a.Types.MustLookup("Undefined"))
		return
	}
	reordered := make([]ast.Arg, len(ordered))
	for i, v := range ordered {
		reordered[i] = ast.Arg{Value: v}
	}
	n.Args = reordered
	n.SetExprType(retType)
}

// VisitMemberExpr implements spec.md §4.5: a member access on a statically
// known structural/user-defined type resolves by-index; on an Any-typed
// object it resolves by-hash, deferred to runtime.
func (a *Analyzer) VisitMemberExpr(n *ast.MemberExpr) {
	n.Object.Accept(a)
	objType := n.Object.GetExprType()

	if a.Types.IsAny(objType) {
		n.Strategy = ast.AccessByHash
		n.SetExprType(a.Types.MustLookup("Any"))
		return
	}

	ty := a.Types.Get(objType)
	if ty == nil {
		n.Strategy = ast.AccessByHash
		n.SetExprType(a.Types.MustLookup("Undefined"))
		return
	}
	if m, ok := ty.MemberByName(n.Name); ok {
		n.Strategy = ast.AccessByIndex
		n.SetExprType(m.Type)
		return
	}
	a.errorf(diagnostics.KindNotADataMember, n.GetLoc(), "%s has no member %q", ty.Name, n.Name)
	n.Strategy = ast.AccessByHash
	n.SetExprType(a.Types.MustLookup("Undefined"))
}

func (a *Analyzer) VisitArrayAccessExpr(n *ast.ArrayAccessExpr) {
	n.Array.Accept(a)
	n.Index.Accept(a)

	arrType := n.Array.GetExprType()
	if a.Types.IsAny(arrType) {
		n.SetExprType(a.Types.MustLookup("Any"))
		return
	}
	ty := a.Types.Get(arrType)
	if ty != nil && ty.Class == typesystem.ClassGenericInstance && len(ty.InstanceArgs) == 1 {
		n.SetExprType(ty.InstanceArgs[0])
		return
	}
	a.errorf(diagnostics.KindMismatchedTypes, n.GetLoc(), "indexed value is not an array")
	n.SetExprType(a.Types.MustLookup("Undefined"))
}

func (a *Analyzer) VisitArrayLiteral(n *ast.ArrayLiteral) {
	elemType := a.Types.MustLookup("Any")
	for i, el := range n.Elements {
		el.Accept(a)
		if i == 0 {
			elemType = el.GetExprType()
		} else {
			elemType = a.Types.Promote(elemType, el.GetExprType(), false)
		}
	}
	arrayTemplate := a.Types.MustLookup("Array")
	inst, err := a.Types.Instantiate(arrayTemplate, []typesystem.ID{elemType})
	if err != nil {
		n.SetExprType(a.Types.MustLookup("Undefined"))
		return
	}
	n.SetExprType(inst)
}

func (a *Analyzer) VisitTupleLiteral(n *ast.TupleLiteral) {
	args := make([]typesystem.ID, len(n.Elements))
	for i, el := range n.Elements {
		el.Accept(a)
		args[i] = el.GetExprType()
	}
	inst, err := a.Types.Instantiate(a.Types.MustLookup("Tuple"), args)
	if err != nil {
		n.SetExprType(a.Types.MustLookup("Undefined"))
		return
	}
	n.SetExprType(inst)
}

// VisitObjectLiteral resolves a named construction against a previously
// declared prototype, or falls back to the untyped Object builtin for an
// anonymous literal.
func (a *Analyzer) VisitObjectLiteral(n *ast.ObjectLiteral) {
	for i := range n.Fields {
		n.Fields[i].Value.Accept(a)
	}
	if n.TypeName == "" {
		n.SetExprType(a.Types.MustLookup("Object"))
		return
	}
	res := a.Resolve(n.TypeName)
	if res.Kind != ResolveType {
		a.errorf(diagnostics.KindUndeclaredIdentifier, n.GetLoc(), "undeclared type %q", n.TypeName)
		n.SetExprType(a.Types.MustLookup("Undefined"))
		return
	}
	ty := a.Types.Get(res.Type)
	for _, f := range n.Fields {
		if ty != nil {
			if _, ok := ty.MemberByName(f.Name); !ok {
				a.errorf(diagnostics.KindNotADataMember, n.GetLoc(), "%s has no member %q", ty.Name, f.Name)
			}
		}
	}
	n.SetExprType(res.Type)
}

// VisitFunctionExpr opens a function scope itself, rather than delegating
// to Body's own BlockStatement visitor, because the function's own scope
// must be tagged ScopeFunction for EnclosingFunctionScope/the
// closure-capture rule to see it — a plain nested ScopeNormal would not
// be recognized as a function boundary.
func (a *Analyzer) VisitFunctionExpr(n *ast.FunctionExpr) {
	// The function's own type is interned before its body is visited (and,
	// for a named function, bound into the *enclosing* scope before the
	// body is visited too) so that a self-call inside the body resolves
	// to it — Table.New's whole point is letting a type's own construction
	// reference its still-incomplete self (spec.md §9 design note 1).
	fnID := a.Types.New(n.Name, typesystem.ClassFunction)
	fnTy := a.Types.Get(fnID)
	a.FuncExprs[fnID] = n
	n.SetExprType(fnID)
	if n.Name != "" {
		n.Resolved = a.Current.CurrentScope().DeclareIdentifier(n.Name, fnID, boolFlag(a.Current.EnclosingFunctionScope() != nil))
	}

	scope := a.Current.OpenScope(symbols.ScopeFunction)
	if n.IsGenerator {
		scope.FuncFlags |= symbols.FuncGenerator
	}

	paramTypes := make([]typesystem.ID, len(n.Params))
	for i, p := range n.Params {
		var pt typesystem.ID
		if p.Type != nil {
			pt = a.resolveTypeExpr(p.Type)
		} else {
			pt = a.Types.MustLookup("Any")
		}
		if p.Variadic {
			argsInst, err := a.Types.Instantiate(a.Types.MustLookup("Args"), []typesystem.ID{pt})
			if err == nil {
				pt = argsInst
			}
		}
		paramTypes[i] = pt
		n.Params[i].Resolved = scope.DeclareIdentifier(p.Name, pt, symbols.FlagDeclaredInFunction)
		if p.Default != nil {
			p.Default.Accept(a)
		}
	}
	fnTy.FuncParams = paramTypes

	for _, stmt := range n.Body.Statements {
		stmt.Accept(a)
	}

	var retType typesystem.ID
	if n.ReturnType != nil {
		retType = a.resolveTypeExpr(n.ReturnType)
	} else if len(scope.ReturnTypes) == 0 {
		retType = a.Types.MustLookup("Any") // spec.md §8: empty/fallthrough body returns null typed Any
	} else {
		retType = scope.ReturnTypes[0].Type
		for _, ru := range scope.ReturnTypes[1:] {
			retType = a.Types.Promote(retType, ru.Type, false)
		}
	}
	fnTy.FuncReturn = retType

	if len(scope.FreeVars) > 0 {
		scope.FuncFlags |= symbols.FuncClosure
	}
	n.FreeVars = make([]string, len(scope.FreeVars))
	n.FreeVarSources = make([]interface{}, len(scope.FreeVars))
	for i, fv := range scope.FreeVars {
		n.FreeVars[i] = fv.Name
		n.FreeVarSources[i] = fv.Source
	}

	a.Current.CloseScope()
}

func boolFlag(inFunction bool) symbols.Flag {
	if inFunction {
		return symbols.FlagDeclaredInFunction
	}
	return 0
}

func (a *Analyzer) VisitAssignExpr(n *ast.AssignExpr) {
	n.Target.Accept(a)
	n.Value.Accept(a)

	switch t := n.Target.(type) {
	case *ast.Identifier:
		if id, ok := t.Resolved.(*symbols.Identifier); ok {
			if id.IsConst() {
				a.errorf(diagnostics.KindConstModified, n.GetLoc(), "cannot assign to const %q", t.Name)
			}
			id.Flags |= symbols.FlagAssigned
		}
	case *ast.MemberExpr, *ast.ArrayAccessExpr:
		// always a valid assignment target
	default:
		a.errorf(diagnostics.KindCannotModifyRValue, n.GetLoc(), "left-hand side of assignment is not assignable")
	}

	if !a.Types.Compatible(n.Target.GetExprType(), n.Value.GetExprType(), false) && !a.Types.IsAny(n.Target.GetExprType()) {
		a.errorf(diagnostics.KindMismatchedTypes, n.GetLoc(), "value is not compatible with assignment target's type")
	}
	n.SetExprType(n.Target.GetExprType())
}

// VisitNewExpr instantiates a prototype, matching constructor arguments
// against the type's member list the same way a call matches parameters:
// named arguments fill the matching member, positional arguments fill
// remaining members in declaration order.
func (a *Analyzer) VisitNewExpr(n *ast.NewExpr) {
	for i := range n.Args {
		n.Args[i].Value.Accept(a)
	}
	res := a.Resolve(n.TypeName)
	if res.Kind != ResolveType {
		a.errorf(diagnostics.KindUndeclaredIdentifier, n.GetLoc(), "undeclared type %q", n.TypeName)
		n.SetExprType(a.Types.MustLookup("Undefined"))
		return
	}
	ty := a.Types.Get(res.Type)
	if ty == nil {
		n.SetExprType(a.Types.MustLookup("Undefined"))
		return
	}

	filled := make([]bool, len(ty.Members))
	for _, arg := range n.Args {
		if arg.Name == "" {
			continue
		}
		idx := -1
		for i, m := range ty.Members {
			if m.Name == arg.Name && !filled[i] {
				idx = i
				break
			}
		}
		if idx == -1 {
			a.errorf(diagnostics.KindNamedArgNotFound, n.GetLoc(), "%s has no member %q", ty.Name, arg.Name)
			continue
		}
		filled[idx] = true
	}
	next := 0
	for _, arg := range n.Args {
		if arg.Name != "" {
			continue
		}
		for next < len(filled) && filled[next] {
			next++
		}
		if next >= len(filled) {
			a.errorf(diagnostics.KindTooManyArgs, n.GetLoc(), "too many constructor arguments for %s", ty.Name)
			break
		}
		filled[next] = true
		next++
	}
	n.SetExprType(res.Type)
}

func (a *Analyzer) VisitHasExpr(n *ast.HasExpr) {
	n.Object.Accept(a)
	n.SetExprType(a.Types.MustLookup("Boolean"))
}
