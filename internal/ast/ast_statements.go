package ast

// BlockStatement is `{ stmt; stmt; ... }`, a compound statement used as a
// function body and as the body of if/while/try/catch.
type BlockStatement struct {
	stmtBase
	Statements []Statement
}

func (n *BlockStatement) Accept(v Visitor)          { v.VisitBlockStatement(n) }
func (n *BlockStatement) Build(b Builder)           { b.BuildBlockStatement(n) }
func (n *BlockStatement) Optimize(o Optimizer) Statement { return o.OptimizeBlockStatement(n) }
func (n *BlockStatement) Clone() Statement {
	c := *n
	c.Statements = make([]Statement, len(n.Statements))
	for i, s := range n.Statements {
		c.Statements[i] = s.Clone()
	}
	return &c
}
func (n *BlockStatement) MayHaveSideEffects() bool {
	for _, s := range n.Statements {
		if s.MayHaveSideEffects() {
			return true
		}
	}
	return false
}

// ExpressionStatement wraps an expression evaluated for its side effects.
type ExpressionStatement struct {
	stmtBase
	Expr Expression
}

func (n *ExpressionStatement) Accept(v Visitor)          { v.VisitExpressionStatement(n) }
func (n *ExpressionStatement) Build(b Builder)           { b.BuildExpressionStatement(n) }
func (n *ExpressionStatement) Optimize(o Optimizer) Statement {
	return o.OptimizeExpressionStatement(n)
}
func (n *ExpressionStatement) Clone() Statement {
	c := *n
	c.Expr = n.Expr.Clone()
	return &c
}
func (n *ExpressionStatement) MayHaveSideEffects() bool { return n.Expr.MayHaveSideEffects() }

// VariableDeclaration is `let name [: Type] [= value];` or the `const`
// form. Per spec.md §8, a declaration with neither Type nor Value is a
// fatal error, and `const` without Value is a fatal error — both checked
// by the analyzer, not represented as distinct node shapes here.
type VariableDeclaration struct {
	stmtBase
	Name    string
	Type    TypeExpr   // optional
	Value   Expression // optional
	IsConst bool

	// Resolved is the *symbols.Identifier the analyzer declares for this
	// binding (interface{} to avoid an ast<->symbols import cycle, same
	// escape as Identifier.Resolved). The emitter assigns Identifier.Slot
	// or a static-table index here, depending on whether the declaration
	// is local to a function body or lives at module scope.
	Resolved interface{}
}

func (n *VariableDeclaration) Accept(v Visitor)          { v.VisitVariableDeclaration(n) }
func (n *VariableDeclaration) Build(b Builder)           { b.BuildVariableDeclaration(n) }
func (n *VariableDeclaration) Optimize(o Optimizer) Statement {
	return o.OptimizeVariableDeclaration(n)
}
func (n *VariableDeclaration) Clone() Statement {
	c := *n
	if n.Value != nil {
		c.Value = n.Value.Clone()
	}
	return &c
}
func (n *VariableDeclaration) MayHaveSideEffects() bool {
	return n.Value != nil && n.Value.MayHaveSideEffects()
}

// PrototypeMember is one member of a PrototypeDeclaration: name, type
// annotation, and optional default-value expression (spec.md §3.3).
type PrototypeMember struct {
	Name    string
	Type    TypeExpr
	Default Expression
}

// PrototypeDeclaration declares a user-defined type (spec glossary:
// "Prototype" — the shared method/field template backing every instance).
type PrototypeDeclaration struct {
	stmtBase
	Name            string
	GenericParams   []string // empty unless this declares a generic template
	Members         []PrototypeMember
	BaseTypeName    string // optional; weak back-reference once resolved
}

func (n *PrototypeDeclaration) Accept(v Visitor)          { v.VisitPrototypeDeclaration(n) }
func (n *PrototypeDeclaration) Build(b Builder)           { b.BuildPrototypeDeclaration(n) }
func (n *PrototypeDeclaration) Optimize(o Optimizer) Statement {
	return o.OptimizePrototypeDeclaration(n)
}
func (n *PrototypeDeclaration) Clone() Statement { c := *n; return &c }
func (n *PrototypeDeclaration) MayHaveSideEffects() bool { return false }

// ModuleDeclaration opens a nested module: `module name { ... }`.
type ModuleDeclaration struct {
	stmtBase
	Name string
	Body []Statement
}

func (n *ModuleDeclaration) Accept(v Visitor)          { v.VisitModuleDeclaration(n) }
func (n *ModuleDeclaration) Build(b Builder)           { b.BuildModuleDeclaration(n) }
func (n *ModuleDeclaration) Optimize(o Optimizer) Statement {
	return o.OptimizeModuleDeclaration(n)
}
func (n *ModuleDeclaration) Clone() Statement {
	c := *n
	c.Body = make([]Statement, len(n.Body))
	for i, s := range n.Body {
		c.Body[i] = s.Clone()
	}
	return &c
}
func (n *ModuleDeclaration) MayHaveSideEffects() bool { return false }

// IfStatement is `if (cond) { then } [else { alt }]`. spec.md §7 names
// "else outside if" as a semantics error, which is a parser/analyzer
// concern, not a distinct node shape.
type IfStatement struct {
	stmtBase
	Cond Expression
	Then *BlockStatement
	Else Statement // *BlockStatement or *IfStatement (else-if chain), or nil
}

func (n *IfStatement) Accept(v Visitor)          { v.VisitIfStatement(n) }
func (n *IfStatement) Build(b Builder)           { b.BuildIfStatement(n) }
func (n *IfStatement) Optimize(o Optimizer) Statement { return o.OptimizeIfStatement(n) }
func (n *IfStatement) Clone() Statement {
	c := *n
	c.Cond = n.Cond.Clone()
	c.Then = n.Then.Clone().(*BlockStatement)
	if n.Else != nil {
		c.Else = n.Else.Clone()
	}
	return &c
}
func (n *IfStatement) MayHaveSideEffects() bool {
	if n.Cond.MayHaveSideEffects() || n.Then.MayHaveSideEffects() {
		return true
	}
	return n.Else != nil && n.Else.MayHaveSideEffects()
}

// WhileStatement is `while (cond) { body }`.
type WhileStatement struct {
	stmtBase
	Cond Expression
	Body *BlockStatement
}

func (n *WhileStatement) Accept(v Visitor)          { v.VisitWhileStatement(n) }
func (n *WhileStatement) Build(b Builder)           { b.BuildWhileStatement(n) }
func (n *WhileStatement) Optimize(o Optimizer) Statement { return o.OptimizeWhileStatement(n) }
func (n *WhileStatement) Clone() Statement {
	c := *n
	c.Cond = n.Cond.Clone()
	c.Body = n.Body.Clone().(*BlockStatement)
	return &c
}
func (n *WhileStatement) MayHaveSideEffects() bool { return true }

// TryCatchStatement is `try { body } catch [(name)] { handler }`
// (spec.md §8 scenario 3; the catch variable name is optional).
type TryCatchStatement struct {
	stmtBase
	Try       *BlockStatement
	CatchName string // optional
	Catch     *BlockStatement

	// CatchResolved is the *symbols.Identifier the analyzer declares for
	// CatchName (nil if CatchName is empty), mirroring
	// VariableDeclaration.Resolved so the emitter can store the caught
	// value into its slot.
	CatchResolved interface{}
}

func (n *TryCatchStatement) Accept(v Visitor)          { v.VisitTryCatchStatement(n) }
func (n *TryCatchStatement) Build(b Builder)           { b.BuildTryCatchStatement(n) }
func (n *TryCatchStatement) Optimize(o Optimizer) Statement {
	return o.OptimizeTryCatchStatement(n)
}
func (n *TryCatchStatement) Clone() Statement {
	c := *n
	c.Try = n.Try.Clone().(*BlockStatement)
	c.Catch = n.Catch.Clone().(*BlockStatement)
	return &c
}
func (n *TryCatchStatement) MayHaveSideEffects() bool { return true }

// ReturnStatement is `return [value];` (spec.md §8: "empty function body
// returns null with type Any" is the zero-Value case).
type ReturnStatement struct {
	stmtBase
	Value Expression // optional
}

func (n *ReturnStatement) Accept(v Visitor)          { v.VisitReturnStatement(n) }
func (n *ReturnStatement) Build(b Builder)           { b.BuildReturnStatement(n) }
func (n *ReturnStatement) Optimize(o Optimizer) Statement { return o.OptimizeReturnStatement(n) }
func (n *ReturnStatement) Clone() Statement {
	c := *n
	if n.Value != nil {
		c.Value = n.Value.Clone()
	}
	return &c
}
func (n *ReturnStatement) MayHaveSideEffects() bool { return true }

// YieldStatement is `yield value;` — only the generator-flag hook named by
// spec.md §9 is implemented; no resumption protocol.
type YieldStatement struct {
	stmtBase
	Value Expression
}

func (n *YieldStatement) Accept(v Visitor)          { v.VisitYieldStatement(n) }
func (n *YieldStatement) Build(b Builder)           { b.BuildYieldStatement(n) }
func (n *YieldStatement) Optimize(o Optimizer) Statement { return o.OptimizeYieldStatement(n) }
func (n *YieldStatement) Clone() Statement {
	c := *n
	c.Value = n.Value.Clone()
	return &c
}
func (n *YieldStatement) MayHaveSideEffects() bool { return true }

// LocalImportStatement is `local_import "path";`: splices a sibling file's
// statements into the importing module without registering a named module
// (SPEC_FULL.md supplemented feature, from original_source's AstLocalImport).
type LocalImportStatement struct {
	stmtBase
	Path string
}

func (n *LocalImportStatement) Accept(v Visitor)          { v.VisitLocalImportStatement(n) }
func (n *LocalImportStatement) Build(b Builder)           { b.BuildLocalImportStatement(n) }
func (n *LocalImportStatement) Optimize(o Optimizer) Statement {
	return o.OptimizeLocalImportStatement(n)
}
func (n *LocalImportStatement) Clone() Statement { c := *n; return &c }
func (n *LocalImportStatement) MayHaveSideEffects() bool { return false }

// ModuleImportStatement is `import module [as alias];`: registers an
// imported module's tree into the importing compilation unit, globally
// visible by name (spec.md §3.5).
type ModuleImportStatement struct {
	stmtBase
	Path  string
	Alias string // optional
}

func (n *ModuleImportStatement) Accept(v Visitor)          { v.VisitModuleImportStatement(n) }
func (n *ModuleImportStatement) Build(b Builder)           { b.BuildModuleImportStatement(n) }
func (n *ModuleImportStatement) Optimize(o Optimizer) Statement {
	return o.OptimizeModuleImportStatement(n)
}
func (n *ModuleImportStatement) Clone() Statement { c := *n; return &c }
func (n *ModuleImportStatement) MayHaveSideEffects() bool { return false }

// MetaBlockStatement is `meta { ... }` (SPEC_FULL.md supplemented
// feature). The analyzer checks its statements in a scope of their own;
// nothing executes them at compile time, and Build emits no code for
// them, so a meta block has no effect on the compiled program.
type MetaBlockStatement struct {
	stmtBase
	Body []Statement
}

func (n *MetaBlockStatement) Accept(v Visitor)          { v.VisitMetaBlockStatement(n) }
func (n *MetaBlockStatement) Build(b Builder)           { b.BuildMetaBlockStatement(n) }
func (n *MetaBlockStatement) Optimize(o Optimizer) Statement {
	return o.OptimizeMetaBlockStatement(n)
}
func (n *MetaBlockStatement) Clone() Statement {
	c := *n
	c.Body = make([]Statement, len(n.Body))
	for i, s := range n.Body {
		c.Body[i] = s.Clone()
	}
	return &c
}
func (n *MetaBlockStatement) MayHaveSideEffects() bool { return false }
