package optimizer

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/symbols"
)

func (o *Optimizer) OptimizeIntLiteral(n *ast.IntLiteral) ast.Expression       { return n }
func (o *Optimizer) OptimizeFloatLiteral(n *ast.FloatLiteral) ast.Expression   { return n }
func (o *Optimizer) OptimizeStringLiteral(n *ast.StringLiteral) ast.Expression { return n }
func (o *Optimizer) OptimizeBoolLiteral(n *ast.BoolLiteral) ast.Expression     { return n }
func (o *Optimizer) OptimizeNullLiteral(n *ast.NullLiteral) ast.Expression     { return n }

// OptimizeIdentifier substitutes a reference to a const bound directly to a
// literal with a clone of that literal, so downstream arithmetic on it can
// fold too (e.g. `const two = 2; let four = two + two;`).
func (o *Optimizer) OptimizeIdentifier(n *ast.Identifier) ast.Expression {
	ident, ok := n.Resolved.(*symbols.Identifier)
	if !ok || ident == nil {
		return n
	}
	lit, ok := ident.Value.(ast.Expression)
	if !ok || lit == nil {
		return n
	}
	folded := lit.Clone()
	folded.SetExprType(n.GetExprType())
	return folded
}

func (o *Optimizer) OptimizeBinaryExpr(n *ast.BinaryExpr) ast.Expression {
	n.Left = n.Left.Optimize(o)
	n.Right = n.Right.Optimize(o)
	if folded := foldBinary(n); folded != nil {
		return folded
	}
	return n
}

func foldBinary(n *ast.BinaryExpr) ast.Expression {
	if ls, ok := n.Left.(*ast.StringLiteral); ok && n.Op == ast.OpAdd {
		if rs, ok := n.Right.(*ast.StringLiteral); ok {
			return setResult(n, &ast.StringLiteral{Value: ls.Value + rs.Value})
		}
	}

	if lf, rf, bothInt, ok := numericOperands(n.Left, n.Right); ok {
		switch n.Op {
		case ast.OpAdd, ast.OpSub, ast.OpMul:
			var result float64
			switch n.Op {
			case ast.OpAdd:
				result = lf + rf
			case ast.OpSub:
				result = lf - rf
			case ast.OpMul:
				result = lf * rf
			}
			if bothInt {
				return setResult(n, &ast.IntLiteral{Value: int64(result)})
			}
			return setResult(n, &ast.FloatLiteral{Value: result})
		case ast.OpMod:
			if bothInt && rf != 0 {
				li, ri := int64(lf), int64(rf)
				return setResult(n, &ast.IntLiteral{Value: li % ri})
			}
		case ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte, ast.OpEq, ast.OpNeq:
			var result bool
			switch n.Op {
			case ast.OpLt:
				result = lf < rf
			case ast.OpGt:
				result = lf > rf
			case ast.OpLte:
				result = lf <= rf
			case ast.OpGte:
				result = lf >= rf
			case ast.OpEq:
				result = lf == rf
			case ast.OpNeq:
				result = lf != rf
			}
			return setResult(n, &ast.BoolLiteral{Value: result})
		}
	}

	// Division is deliberately left unfolded: Int/Int division-by-zero and
	// truncation rules are the VM's to enforce at the operand's real type,
	// not this pass's to guess at compile time.

	switch n.Op {
	case ast.OpAnd:
		if t := n.Left.IsTrue(); t != ast.Unknown && !n.Left.MayHaveSideEffects() {
			if t == ast.False {
				return n.Left
			}
			return n.Right
		}
	case ast.OpOr:
		if t := n.Left.IsTrue(); t != ast.Unknown && !n.Left.MayHaveSideEffects() {
			if t == ast.True {
				return n.Left
			}
			return n.Right
		}
	}
	return nil
}

// numericOperands reports l and r as float64s when both are Int/Float
// literals, plus whether both sides were Int (so the result can be
// re-narrowed to an IntLiteral instead of a FloatLiteral).
func numericOperands(l, r ast.Expression) (lf, rf float64, bothInt, ok bool) {
	switch lv := l.(type) {
	case *ast.IntLiteral:
		switch rv := r.(type) {
		case *ast.IntLiteral:
			return float64(lv.Value), float64(rv.Value), true, true
		case *ast.FloatLiteral:
			return float64(lv.Value), rv.Value, false, true
		}
	case *ast.FloatLiteral:
		switch rv := r.(type) {
		case *ast.IntLiteral:
			return lv.Value, float64(rv.Value), false, true
		case *ast.FloatLiteral:
			return lv.Value, rv.Value, false, true
		}
	}
	return 0, 0, false, false
}

// setResult stamps lit with n's location and result type, so it can stand
// in for the whole folded expression.
func setResult(n *ast.BinaryExpr, lit ast.Expression) ast.Expression {
	switch v := lit.(type) {
	case *ast.IntLiteral:
		v.Loc = n.GetLoc()
	case *ast.FloatLiteral:
		v.Loc = n.GetLoc()
	case *ast.StringLiteral:
		v.Loc = n.GetLoc()
	case *ast.BoolLiteral:
		v.Loc = n.GetLoc()
	}
	lit.SetExprType(n.GetExprType())
	return lit
}

func (o *Optimizer) OptimizeUnaryExpr(n *ast.UnaryExpr) ast.Expression {
	n.Operand = n.Operand.Optimize(o)
	switch n.Op {
	case ast.OpNeg:
		switch v := n.Operand.(type) {
		case *ast.IntLiteral:
			lit := &ast.IntLiteral{Value: -v.Value}
			lit.Loc = n.GetLoc()
			lit.SetExprType(n.GetExprType())
			return lit
		case *ast.FloatLiteral:
			lit := &ast.FloatLiteral{Value: -v.Value}
			lit.Loc = n.GetLoc()
			lit.SetExprType(n.GetExprType())
			return lit
		}
	case ast.OpNot:
		if t := n.Operand.IsTrue(); t != ast.Unknown && !n.Operand.MayHaveSideEffects() {
			lit := &ast.BoolLiteral{Value: t == ast.False}
			lit.Loc = n.GetLoc()
			lit.SetExprType(n.GetExprType())
			return lit
		}
	case ast.OpBitNot:
		if v, ok := n.Operand.(*ast.IntLiteral); ok {
			lit := &ast.IntLiteral{Value: ^v.Value}
			lit.Loc = n.GetLoc()
			lit.SetExprType(n.GetExprType())
			return lit
		}
	}
	return n
}

func (o *Optimizer) OptimizeCallExpr(n *ast.CallExpr) ast.Expression {
	n.Callee = n.Callee.Optimize(o)
	for i := range n.Args {
		n.Args[i].Value = n.Args[i].Value.Optimize(o)
	}
	return n
}

func (o *Optimizer) OptimizeMemberExpr(n *ast.MemberExpr) ast.Expression {
	n.Object = n.Object.Optimize(o)
	return n
}

func (o *Optimizer) OptimizeArrayAccessExpr(n *ast.ArrayAccessExpr) ast.Expression {
	n.Array = n.Array.Optimize(o)
	n.Index = n.Index.Optimize(o)
	return n
}

func (o *Optimizer) OptimizeArrayLiteral(n *ast.ArrayLiteral) ast.Expression {
	for i := range n.Elements {
		n.Elements[i] = n.Elements[i].Optimize(o)
	}
	return n
}

func (o *Optimizer) OptimizeTupleLiteral(n *ast.TupleLiteral) ast.Expression {
	for i := range n.Elements {
		n.Elements[i] = n.Elements[i].Optimize(o)
	}
	return n
}

func (o *Optimizer) OptimizeObjectLiteral(n *ast.ObjectLiteral) ast.Expression {
	for i := range n.Fields {
		n.Fields[i].Value = n.Fields[i].Value.Optimize(o)
	}
	return n
}

func (o *Optimizer) OptimizeFunctionExpr(n *ast.FunctionExpr) ast.Expression {
	for i := range n.Params {
		if n.Params[i].Default != nil {
			n.Params[i].Default = n.Params[i].Default.Optimize(o)
		}
	}
	if n.Body != nil {
		n.Body.Statements = o.optimizeStatements(n.Body.Statements)
	}
	return n
}

func (o *Optimizer) OptimizeAssignExpr(n *ast.AssignExpr) ast.Expression {
	n.Target = n.Target.Optimize(o)
	n.Value = n.Value.Optimize(o)
	return n
}

func (o *Optimizer) OptimizeNewExpr(n *ast.NewExpr) ast.Expression {
	for i := range n.Args {
		n.Args[i].Value = n.Args[i].Value.Optimize(o)
	}
	return n
}

func (o *Optimizer) OptimizeHasExpr(n *ast.HasExpr) ast.Expression {
	n.Object = n.Object.Optimize(o)
	return n
}
