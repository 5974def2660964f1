package ast

import "github.com/ajmd17/ace-lang-sub001/internal/diagnostics"

// TypeExpr is a type annotation as written in source (`Int`, `Array(Int)`,
// a bare generic-parameter name like `T`). The analyzer resolves a TypeExpr
// to a typesystem.ID; TypeExpr itself carries no resolved type.
type TypeExpr interface {
	GetLoc() diagnostics.Location
	typeExprNode()
}

// NamedTypeExpr is `Name` or `Name(Arg1, Arg2, ...)`.
type NamedTypeExpr struct {
	Loc  diagnostics.Location
	Name string
	Args []TypeExpr
}

func (t *NamedTypeExpr) GetLoc() diagnostics.Location { return t.Loc }
func (t *NamedTypeExpr) typeExprNode()                {}
