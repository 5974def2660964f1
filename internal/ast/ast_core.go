// Package ast defines the Ace abstract syntax tree: a tagged sum of
// statement and expression node kinds, each supporting the three
// traversals spec.md §2/§3.7 name (Visit, Build, Optimize) via the visitor
// trait described in spec.md §9 design note 2, plus Clone/IsTrue/
// MayHaveSideEffects/GetExprType on every expression.
//
// Grounded on the teacher's internal/ast/ast_core.go, ast_expressions.go,
// ast_types.go: the Node/Statement/Expression interface trio and the
// Accept(Visitor) dispatch idiom are kept, but the visitor surface is
// tripled (Visitor / Builder / Optimizer) instead of the teacher's single
// analysis-only Visitor, and node fields follow spec.md §3.7's variant
// list rather than the teacher's language's.
package ast

import (
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

// TriState is the tri-valued result of Expression.IsTrue (spec.md §3.7).
type TriState int

const (
	Unknown TriState = iota
	True
	False
)

// Node is the base interface for every AST node.
type Node interface {
	GetLoc() diagnostics.Location
}

// Statement is a Node representing a statement.
type Statement interface {
	Node
	statementNode()
	Accept(v Visitor)
	Build(b Builder)
	Optimize(o Optimizer) Statement
	Clone() Statement
	MayHaveSideEffects() bool
}

// Expression is a Node representing an expression.
type Expression interface {
	Node
	expressionNode()
	Accept(v Visitor)
	Build(b Builder)
	Optimize(o Optimizer) Expression
	Clone() Expression
	IsTrue() TriState
	MayHaveSideEffects() bool
	GetExprType() typesystem.ID
	SetExprType(typesystem.ID)
}

// exprBase factors the GetExprType/SetExprType bookkeeping every concrete
// Expression embeds.
type exprBase struct {
	Loc      diagnostics.Location
	ExprType typesystem.ID
}

func (e *exprBase) GetLoc() diagnostics.Location      { return e.Loc }
func (e *exprBase) GetExprType() typesystem.ID        { return e.ExprType }
func (e *exprBase) SetExprType(t typesystem.ID)       { e.ExprType = t }
func (e *exprBase) expressionNode()                   {}

type stmtBase struct {
	Loc diagnostics.Location
}

func (s *stmtBase) GetLoc() diagnostics.Location { return s.Loc }
func (s *stmtBase) statementNode()               {}

// Program is the root node of every AST the parser produces: an ordered
// sequence of top-level statements (spec.md §2 item 2).
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) GetLoc() diagnostics.Location {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetLoc()
	}
	return diagnostics.Location{File: p.File, Line: 1, Column: 1}
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// Visitor is the semantic-analysis traversal (spec.md §2 item 5): one
// method per node kind, implemented by internal/analyzer.Analyzer.
type Visitor interface {
	VisitProgram(*Program)

	VisitIntLiteral(*IntLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitBoolLiteral(*BoolLiteral)
	VisitNullLiteral(*NullLiteral)
	VisitIdentifier(*Identifier)
	VisitBinaryExpr(*BinaryExpr)
	VisitUnaryExpr(*UnaryExpr)
	VisitCallExpr(*CallExpr)
	VisitMemberExpr(*MemberExpr)
	VisitArrayAccessExpr(*ArrayAccessExpr)
	VisitArrayLiteral(*ArrayLiteral)
	VisitTupleLiteral(*TupleLiteral)
	VisitObjectLiteral(*ObjectLiteral)
	VisitFunctionExpr(*FunctionExpr)
	VisitAssignExpr(*AssignExpr)
	VisitNewExpr(*NewExpr)
	VisitHasExpr(*HasExpr)

	VisitExpressionStatement(*ExpressionStatement)
	VisitVariableDeclaration(*VariableDeclaration)
	VisitPrototypeDeclaration(*PrototypeDeclaration)
	VisitModuleDeclaration(*ModuleDeclaration)
	VisitBlockStatement(*BlockStatement)
	VisitIfStatement(*IfStatement)
	VisitWhileStatement(*WhileStatement)
	VisitTryCatchStatement(*TryCatchStatement)
	VisitReturnStatement(*ReturnStatement)
	VisitYieldStatement(*YieldStatement)
	VisitLocalImportStatement(*LocalImportStatement)
	VisitModuleImportStatement(*ModuleImportStatement)
	VisitMetaBlockStatement(*MetaBlockStatement)
}

// Builder is the emission traversal (spec.md §2 item 7), implemented by
// internal/emit.Compiler.
type Builder interface {
	BuildIntLiteral(*IntLiteral)
	BuildFloatLiteral(*FloatLiteral)
	BuildStringLiteral(*StringLiteral)
	BuildBoolLiteral(*BoolLiteral)
	BuildNullLiteral(*NullLiteral)
	BuildIdentifier(*Identifier)
	BuildBinaryExpr(*BinaryExpr)
	BuildUnaryExpr(*UnaryExpr)
	BuildCallExpr(*CallExpr)
	BuildMemberExpr(*MemberExpr)
	BuildArrayAccessExpr(*ArrayAccessExpr)
	BuildArrayLiteral(*ArrayLiteral)
	BuildTupleLiteral(*TupleLiteral)
	BuildObjectLiteral(*ObjectLiteral)
	BuildFunctionExpr(*FunctionExpr)
	BuildAssignExpr(*AssignExpr)
	BuildNewExpr(*NewExpr)
	BuildHasExpr(*HasExpr)

	BuildExpressionStatement(*ExpressionStatement)
	BuildVariableDeclaration(*VariableDeclaration)
	BuildPrototypeDeclaration(*PrototypeDeclaration)
	BuildModuleDeclaration(*ModuleDeclaration)
	BuildBlockStatement(*BlockStatement)
	BuildIfStatement(*IfStatement)
	BuildWhileStatement(*WhileStatement)
	BuildTryCatchStatement(*TryCatchStatement)
	BuildReturnStatement(*ReturnStatement)
	BuildYieldStatement(*YieldStatement)
	BuildLocalImportStatement(*LocalImportStatement)
	BuildModuleImportStatement(*ModuleImportStatement)
	BuildMetaBlockStatement(*MetaBlockStatement)
}

// Optimizer is the constant-folding / dead-code traversal (spec.md §2 item
// 6), implemented by internal/optimizer.Optimizer. Each method returns the
// (possibly replaced) node so folding can splice a literal in place of a
// whole subtree.
type Optimizer interface {
	OptimizeIntLiteral(*IntLiteral) Expression
	OptimizeFloatLiteral(*FloatLiteral) Expression
	OptimizeStringLiteral(*StringLiteral) Expression
	OptimizeBoolLiteral(*BoolLiteral) Expression
	OptimizeNullLiteral(*NullLiteral) Expression
	OptimizeIdentifier(*Identifier) Expression
	OptimizeBinaryExpr(*BinaryExpr) Expression
	OptimizeUnaryExpr(*UnaryExpr) Expression
	OptimizeCallExpr(*CallExpr) Expression
	OptimizeMemberExpr(*MemberExpr) Expression
	OptimizeArrayAccessExpr(*ArrayAccessExpr) Expression
	OptimizeArrayLiteral(*ArrayLiteral) Expression
	OptimizeTupleLiteral(*TupleLiteral) Expression
	OptimizeObjectLiteral(*ObjectLiteral) Expression
	OptimizeFunctionExpr(*FunctionExpr) Expression
	OptimizeAssignExpr(*AssignExpr) Expression
	OptimizeNewExpr(*NewExpr) Expression
	OptimizeHasExpr(*HasExpr) Expression

	OptimizeExpressionStatement(*ExpressionStatement) Statement
	OptimizeVariableDeclaration(*VariableDeclaration) Statement
	OptimizePrototypeDeclaration(*PrototypeDeclaration) Statement
	OptimizeModuleDeclaration(*ModuleDeclaration) Statement
	OptimizeBlockStatement(*BlockStatement) Statement
	OptimizeIfStatement(*IfStatement) Statement
	OptimizeWhileStatement(*WhileStatement) Statement
	OptimizeTryCatchStatement(*TryCatchStatement) Statement
	OptimizeReturnStatement(*ReturnStatement) Statement
	OptimizeYieldStatement(*YieldStatement) Statement
	OptimizeLocalImportStatement(*LocalImportStatement) Statement
	OptimizeModuleImportStatement(*ModuleImportStatement) Statement
	OptimizeMetaBlockStatement(*MetaBlockStatement) Statement
}
