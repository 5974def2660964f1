package ast

// IntLiteral is an integer literal (spec.md §3.7).
type IntLiteral struct {
	exprBase
	Value int64
}

func (n *IntLiteral) Accept(v Visitor)          { v.VisitIntLiteral(n) }
func (n *IntLiteral) Build(b Builder)           { b.BuildIntLiteral(n) }
func (n *IntLiteral) Optimize(o Optimizer) Expression { return o.OptimizeIntLiteral(n) }
func (n *IntLiteral) Clone() Expression         { c := *n; return &c }
func (n *IntLiteral) IsTrue() TriState {
	if n.Value != 0 {
		return True
	}
	return False
}
func (n *IntLiteral) MayHaveSideEffects() bool { return false }

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	exprBase
	Value float64
}

func (n *FloatLiteral) Accept(v Visitor)          { v.VisitFloatLiteral(n) }
func (n *FloatLiteral) Build(b Builder)           { b.BuildFloatLiteral(n) }
func (n *FloatLiteral) Optimize(o Optimizer) Expression { return o.OptimizeFloatLiteral(n) }
func (n *FloatLiteral) Clone() Expression         { c := *n; return &c }
func (n *FloatLiteral) IsTrue() TriState {
	if n.Value != 0 {
		return True
	}
	return False
}
func (n *FloatLiteral) MayHaveSideEffects() bool { return false }

// StringLiteral is a string literal.
type StringLiteral struct {
	exprBase
	Value string
}

func (n *StringLiteral) Accept(v Visitor)          { v.VisitStringLiteral(n) }
func (n *StringLiteral) Build(b Builder)           { b.BuildStringLiteral(n) }
func (n *StringLiteral) Optimize(o Optimizer) Expression { return o.OptimizeStringLiteral(n) }
func (n *StringLiteral) Clone() Expression         { c := *n; return &c }
func (n *StringLiteral) IsTrue() TriState          { return True }
func (n *StringLiteral) MayHaveSideEffects() bool  { return false }

// BoolLiteral is a boolean literal.
type BoolLiteral struct {
	exprBase
	Value bool
}

func (n *BoolLiteral) Accept(v Visitor)          { v.VisitBoolLiteral(n) }
func (n *BoolLiteral) Build(b Builder)           { b.BuildBoolLiteral(n) }
func (n *BoolLiteral) Optimize(o Optimizer) Expression { return o.OptimizeBoolLiteral(n) }
func (n *BoolLiteral) Clone() Expression         { c := *n; return &c }
func (n *BoolLiteral) IsTrue() TriState {
	if n.Value {
		return True
	}
	return False
}
func (n *BoolLiteral) MayHaveSideEffects() bool { return false }

// NullLiteral is the nil/null literal.
type NullLiteral struct {
	exprBase
}

func (n *NullLiteral) Accept(v Visitor)          { v.VisitNullLiteral(n) }
func (n *NullLiteral) Build(b Builder)           { b.BuildNullLiteral(n) }
func (n *NullLiteral) Optimize(o Optimizer) Expression { return o.OptimizeNullLiteral(n) }
func (n *NullLiteral) Clone() Expression         { c := *n; return &c }
func (n *NullLiteral) IsTrue() TriState          { return False }
func (n *NullLiteral) MayHaveSideEffects() bool  { return false }

// Identifier is a reference to a named binding.
type Identifier struct {
	exprBase
	Name string

	// Resolved identifies whether semantic analysis matched this reference
	// to a scope-level Identifier (and, if so, which). Left generic
	// (interface{}) to avoid an ast<->symbols import cycle; the analyzer
	// stores a *symbols.Identifier here.
	Resolved interface{}
	// IsCapture is set by the closure-capture rule when this reference
	// resolves to a free variable of an enclosing function (spec.md §4.2).
	IsCapture bool
}

func (n *Identifier) Accept(v Visitor)          { v.VisitIdentifier(n) }
func (n *Identifier) Build(b Builder)           { b.BuildIdentifier(n) }
func (n *Identifier) Optimize(o Optimizer) Expression { return o.OptimizeIdentifier(n) }
func (n *Identifier) Clone() Expression         { c := *n; return &c }
func (n *Identifier) IsTrue() TriState          { return Unknown }
func (n *Identifier) MayHaveSideEffects() bool  { return false }

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
	OpAnd
	OpOr
)

// BinaryExpr is a binary operator expression.
type BinaryExpr struct {
	exprBase
	Op          BinaryOp
	Left, Right Expression
}

func (n *BinaryExpr) Accept(v Visitor)          { v.VisitBinaryExpr(n) }
func (n *BinaryExpr) Build(b Builder)           { b.BuildBinaryExpr(n) }
func (n *BinaryExpr) Optimize(o Optimizer) Expression { return o.OptimizeBinaryExpr(n) }
func (n *BinaryExpr) Clone() Expression {
	c := *n
	c.Left = n.Left.Clone()
	c.Right = n.Right.Clone()
	return &c
}
func (n *BinaryExpr) IsTrue() TriState { return Unknown }
func (n *BinaryExpr) MayHaveSideEffects() bool {
	return n.Left.MayHaveSideEffects() || n.Right.MayHaveSideEffects()
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
)

// UnaryExpr is a unary operator expression.
type UnaryExpr struct {
	exprBase
	Op      UnaryOp
	Operand Expression
}

func (n *UnaryExpr) Accept(v Visitor)          { v.VisitUnaryExpr(n) }
func (n *UnaryExpr) Build(b Builder)           { b.BuildUnaryExpr(n) }
func (n *UnaryExpr) Optimize(o Optimizer) Expression { return o.OptimizeUnaryExpr(n) }
func (n *UnaryExpr) Clone() Expression {
	c := *n
	c.Operand = n.Operand.Clone()
	return &c
}
func (n *UnaryExpr) IsTrue() TriState             { return Unknown }
func (n *UnaryExpr) MayHaveSideEffects() bool     { return n.Operand.MayHaveSideEffects() }

// Arg is a single call argument, optionally named (spec.md §4.2).
type Arg struct {
	Name  string // empty if positional
	Value Expression
}

// CallExpr is a function call, `callee(args...)`.
type CallExpr struct {
	exprBase
	Callee Expression
	Args   []Arg
}

func (n *CallExpr) Accept(v Visitor)          { v.VisitCallExpr(n) }
func (n *CallExpr) Build(b Builder)           { b.BuildCallExpr(n) }
func (n *CallExpr) Optimize(o Optimizer) Expression { return o.OptimizeCallExpr(n) }
func (n *CallExpr) Clone() Expression {
	c := *n
	c.Callee = n.Callee.Clone()
	c.Args = make([]Arg, len(n.Args))
	for i, a := range n.Args {
		c.Args[i] = Arg{Name: a.Name, Value: a.Value.Clone()}
	}
	return &c
}
func (n *CallExpr) IsTrue() TriState         { return Unknown }
func (n *CallExpr) MayHaveSideEffects() bool { return true }

// AccessStrategy mirrors spec.md §3.9's storage-operation strategy choice,
// recorded on member/array accesses during analysis so the emitter can
// pick the right storage opcode without re-deriving it.
type AccessStrategy int

const (
	AccessUnresolved AccessStrategy = iota
	AccessByIndex                  // static type known: compiles to by-index
	AccessByHash                   // Any-typed or `has`-probed: compiles to by-hash
)

// MemberExpr is `object.name` member access (spec.md §4.5).
type MemberExpr struct {
	exprBase
	Object   Expression
	Name     string
	Strategy AccessStrategy
}

func (n *MemberExpr) Accept(v Visitor)          { v.VisitMemberExpr(n) }
func (n *MemberExpr) Build(b Builder)           { b.BuildMemberExpr(n) }
func (n *MemberExpr) Optimize(o Optimizer) Expression { return o.OptimizeMemberExpr(n) }
func (n *MemberExpr) Clone() Expression {
	c := *n
	c.Object = n.Object.Clone()
	return &c
}
func (n *MemberExpr) IsTrue() TriState         { return Unknown }
func (n *MemberExpr) MayHaveSideEffects() bool { return n.Object.MayHaveSideEffects() }

// ArrayAccessExpr is `array[index]` element access.
type ArrayAccessExpr struct {
	exprBase
	Array Expression
	Index Expression
}

func (n *ArrayAccessExpr) Accept(v Visitor)          { v.VisitArrayAccessExpr(n) }
func (n *ArrayAccessExpr) Build(b Builder)           { b.BuildArrayAccessExpr(n) }
func (n *ArrayAccessExpr) Optimize(o Optimizer) Expression { return o.OptimizeArrayAccessExpr(n) }
func (n *ArrayAccessExpr) Clone() Expression {
	c := *n
	c.Array = n.Array.Clone()
	c.Index = n.Index.Clone()
	return &c
}
func (n *ArrayAccessExpr) IsTrue() TriState { return Unknown }
func (n *ArrayAccessExpr) MayHaveSideEffects() bool {
	return n.Array.MayHaveSideEffects() || n.Index.MayHaveSideEffects()
}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	exprBase
	Elements []Expression
}

func (n *ArrayLiteral) Accept(v Visitor)          { v.VisitArrayLiteral(n) }
func (n *ArrayLiteral) Build(b Builder)           { b.BuildArrayLiteral(n) }
func (n *ArrayLiteral) Optimize(o Optimizer) Expression { return o.OptimizeArrayLiteral(n) }
func (n *ArrayLiteral) Clone() Expression {
	c := *n
	c.Elements = cloneExprs(n.Elements)
	return &c
}
func (n *ArrayLiteral) IsTrue() TriState { return True }
func (n *ArrayLiteral) MayHaveSideEffects() bool {
	return anySideEffects(n.Elements)
}

// TupleLiteral is `(e1, e2, ...)` with two or more elements, or `()` for
// the empty tuple.
type TupleLiteral struct {
	exprBase
	Elements []Expression
}

func (n *TupleLiteral) Accept(v Visitor)          { v.VisitTupleLiteral(n) }
func (n *TupleLiteral) Build(b Builder)           { b.BuildTupleLiteral(n) }
func (n *TupleLiteral) Optimize(o Optimizer) Expression { return o.OptimizeTupleLiteral(n) }
func (n *TupleLiteral) Clone() Expression {
	c := *n
	c.Elements = cloneExprs(n.Elements)
	return &c
}
func (n *TupleLiteral) IsTrue() TriState         { return True }
func (n *TupleLiteral) MayHaveSideEffects() bool { return anySideEffects(n.Elements) }

// ObjectField is one `name: value` pair of an ObjectLiteral.
type ObjectField struct {
	Name  string
	Value Expression
}

// ObjectLiteral is `{ name: value, ... }`.
type ObjectLiteral struct {
	exprBase
	TypeName string // the prototype/user-defined type being constructed, if named
	Fields   []ObjectField
}

func (n *ObjectLiteral) Accept(v Visitor)          { v.VisitObjectLiteral(n) }
func (n *ObjectLiteral) Build(b Builder)           { b.BuildObjectLiteral(n) }
func (n *ObjectLiteral) Optimize(o Optimizer) Expression { return o.OptimizeObjectLiteral(n) }
func (n *ObjectLiteral) Clone() Expression {
	c := *n
	c.Fields = make([]ObjectField, len(n.Fields))
	for i, f := range n.Fields {
		c.Fields[i] = ObjectField{Name: f.Name, Value: f.Value.Clone()}
	}
	return &c
}
func (n *ObjectLiteral) IsTrue() TriState { return True }
func (n *ObjectLiteral) MayHaveSideEffects() bool {
	for _, f := range n.Fields {
		if f.Value.MayHaveSideEffects() {
			return true
		}
	}
	return false
}

// Param is one formal parameter of a FunctionExpr.
type Param struct {
	Name     string
	Type     TypeExpr // optional
	Default  Expression // optional
	Variadic bool       // true only for the trailing Args(T) parameter

	// Resolved is the *symbols.Identifier the analyzer declares for this
	// parameter in the function's own scope (same interface{} escape as
	// Identifier.Resolved, to avoid an ast<->symbols import cycle). The
	// emitter assigns Identifier.Slot here once it knows the function's
	// calling convention (closures reserve slot 0 for the captured-
	// environment object).
	Resolved interface{}
}

// FunctionExpr is a function literal/expression: `func(params) -> ret { body }`.
type FunctionExpr struct {
	exprBase
	Name       string // empty for anonymous functions
	Params     []Param
	ReturnType TypeExpr // optional annotation
	Body       *BlockStatement
	IsGenerator bool

	// FreeVars is populated by the analyzer's closure-capture rule
	// (spec.md §4.2) once Visit has completed for this function's scope.
	FreeVars []string
	// FreeVarSources parallels FreeVars: the *symbols.Identifier each name
	// was captured from in the enclosing scope, so the emitter can load
	// each free variable's current value at the closure's creation site
	// without re-resolving the name. interface{} for the same ast<->symbols
	// cycle reason as Resolved.
	FreeVarSources []interface{}

	// Resolved is the *symbols.Identifier the analyzer binds Name into the
	// enclosing scope under, for a named function expression (nil for an
	// anonymous one). Lets the emitter store the compiled function/closure
	// value back into that binding's slot once built, the same way
	// VariableDeclaration.Resolved does for `let`.
	Resolved interface{}
}

func (n *FunctionExpr) Accept(v Visitor)          { v.VisitFunctionExpr(n) }
func (n *FunctionExpr) Build(b Builder)           { b.BuildFunctionExpr(n) }
func (n *FunctionExpr) Optimize(o Optimizer) Expression { return o.OptimizeFunctionExpr(n) }
func (n *FunctionExpr) Clone() Expression {
	c := *n
	c.Params = append([]Param(nil), n.Params...)
	if n.Body != nil {
		c.Body = n.Body.Clone().(*BlockStatement)
	}
	return &c
}
func (n *FunctionExpr) IsTrue() TriState         { return True }
func (n *FunctionExpr) MayHaveSideEffects() bool { return false }

// AssignExpr is `target = value` (plain `=` only; the lexer has no
// compound-assignment tokens such as `+=`).
type AssignExpr struct {
	exprBase
	Target Expression // Identifier, MemberExpr, or ArrayAccessExpr
	Value  Expression
}

func (n *AssignExpr) Accept(v Visitor)          { v.VisitAssignExpr(n) }
func (n *AssignExpr) Build(b Builder)           { b.BuildAssignExpr(n) }
func (n *AssignExpr) Optimize(o Optimizer) Expression { return o.OptimizeAssignExpr(n) }
func (n *AssignExpr) Clone() Expression {
	c := *n
	c.Target = n.Target.Clone()
	c.Value = n.Value.Clone()
	return &c
}
func (n *AssignExpr) IsTrue() TriState         { return Unknown }
func (n *AssignExpr) MayHaveSideEffects() bool { return true }

// NewExpr is `new TypeName(args...)`, instantiating from a prototype.
type NewExpr struct {
	exprBase
	TypeName string
	Args     []Arg
}

func (n *NewExpr) Accept(v Visitor)          { v.VisitNewExpr(n) }
func (n *NewExpr) Build(b Builder)           { b.BuildNewExpr(n) }
func (n *NewExpr) Optimize(o Optimizer) Expression { return o.OptimizeNewExpr(n) }
func (n *NewExpr) Clone() Expression {
	c := *n
	c.Args = make([]Arg, len(n.Args))
	for i, a := range n.Args {
		c.Args[i] = Arg{Name: a.Name, Value: a.Value.Clone()}
	}
	return &c
}
func (n *NewExpr) IsTrue() TriState         { return True }
func (n *NewExpr) MayHaveSideEffects() bool { return true }

// HasExpr is `object has "name"`: a runtime duck-typing probe that always
// compiles (as by-hash) and never raises on a missing member (spec.md §4.5,
// §8 "Access of a member on Any always compiles ... and may throw at
// runtime" is refined by `has` being the no-throw probe form).
type HasExpr struct {
	exprBase
	Object Expression
	Name   string
}

func (n *HasExpr) Accept(v Visitor)          { v.VisitHasExpr(n) }
func (n *HasExpr) Build(b Builder)           { b.BuildHasExpr(n) }
func (n *HasExpr) Optimize(o Optimizer) Expression { return o.OptimizeHasExpr(n) }
func (n *HasExpr) Clone() Expression {
	c := *n
	c.Object = n.Object.Clone()
	return &c
}
func (n *HasExpr) IsTrue() TriState         { return Unknown }
func (n *HasExpr) MayHaveSideEffects() bool { return n.Object.MayHaveSideEffects() }

func cloneExprs(exprs []Expression) []Expression {
	out := make([]Expression, len(exprs))
	for i, e := range exprs {
		out[i] = e.Clone()
	}
	return out
}

func anySideEffects(exprs []Expression) bool {
	for _, e := range exprs {
		if e.MayHaveSideEffects() {
			return true
		}
	}
	return false
}
