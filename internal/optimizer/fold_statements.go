package optimizer

import "github.com/ajmd17/ace-lang-sub001/internal/ast"

func (o *Optimizer) OptimizeExpressionStatement(n *ast.ExpressionStatement) ast.Statement {
	n.Expr = n.Expr.Optimize(o)
	if !n.Expr.MayHaveSideEffects() {
		return nil
	}
	return n
}

func (o *Optimizer) OptimizeVariableDeclaration(n *ast.VariableDeclaration) ast.Statement {
	if n.Value != nil {
		n.Value = n.Value.Optimize(o)
	}
	return n
}

func (o *Optimizer) OptimizePrototypeDeclaration(n *ast.PrototypeDeclaration) ast.Statement {
	for i := range n.Members {
		if n.Members[i].Default != nil {
			n.Members[i].Default = n.Members[i].Default.Optimize(o)
		}
	}
	return n
}

func (o *Optimizer) OptimizeModuleDeclaration(n *ast.ModuleDeclaration) ast.Statement {
	n.Body = o.optimizeStatements(n.Body)
	return n
}

func (o *Optimizer) OptimizeBlockStatement(n *ast.BlockStatement) ast.Statement {
	n.Statements = o.optimizeStatements(n.Statements)
	return n
}

// OptimizeIfStatement drops to whichever branch is statically known once
// Cond folds to a literal boolean outcome with no side effects of its own
// (a side-effecting condition must still run, even if its value is known).
func (o *Optimizer) OptimizeIfStatement(n *ast.IfStatement) ast.Statement {
	n.Cond = n.Cond.Optimize(o)
	n.Then = n.Then.Optimize(o).(*ast.BlockStatement)
	if n.Else != nil {
		n.Else = n.Else.Optimize(o)
	}

	if !n.Cond.MayHaveSideEffects() {
		switch n.Cond.IsTrue() {
		case ast.True:
			return n.Then
		case ast.False:
			if n.Else != nil {
				return n.Else
			}
			return nil
		}
	}
	return n
}

// OptimizeWhileStatement drops a loop whose condition is statically known
// false on entry and carries no side effects; a statically-true condition
// is left alone, since this pass does not unroll loops.
func (o *Optimizer) OptimizeWhileStatement(n *ast.WhileStatement) ast.Statement {
	n.Cond = n.Cond.Optimize(o)
	n.Body = n.Body.Optimize(o).(*ast.BlockStatement)
	if n.Cond.IsTrue() == ast.False && !n.Cond.MayHaveSideEffects() {
		return nil
	}
	return n
}

func (o *Optimizer) OptimizeTryCatchStatement(n *ast.TryCatchStatement) ast.Statement {
	n.Try = n.Try.Optimize(o).(*ast.BlockStatement)
	n.Catch = n.Catch.Optimize(o).(*ast.BlockStatement)
	return n
}

func (o *Optimizer) OptimizeReturnStatement(n *ast.ReturnStatement) ast.Statement {
	if n.Value != nil {
		n.Value = n.Value.Optimize(o)
	}
	return n
}

func (o *Optimizer) OptimizeYieldStatement(n *ast.YieldStatement) ast.Statement {
	n.Value = n.Value.Optimize(o)
	return n
}

// OptimizeLocalImportStatement and OptimizeModuleImportStatement are
// passthroughs: an import names a file/module by path, nothing in it can
// fold at this file's optimize pass.
func (o *Optimizer) OptimizeLocalImportStatement(n *ast.LocalImportStatement) ast.Statement {
	return n
}

func (o *Optimizer) OptimizeModuleImportStatement(n *ast.ModuleImportStatement) ast.Statement {
	return n
}

func (o *Optimizer) OptimizeMetaBlockStatement(n *ast.MetaBlockStatement) ast.Statement {
	n.Body = o.optimizeStatements(n.Body)
	return n
}
