// Package optimizer implements the constant-folding and dead-code-
// elimination pass over an already-analyzed Ace AST: literal arithmetic is
// evaluated at compile time, constant identifiers are substituted with the
// literal they were bound to, and branches/statements whose outcome is
// already known are dropped.
//
// The teacher has no standalone optimizer package to ground this on —
// funxy folds nothing ahead of time and leaves constant propagation to its
// Hindley-Milner inference pass instead. This package is therefore built
// fresh as its own ast.Optimizer implementation, following the same
// single-walker-type shape as internal/analyzer.Analyzer (one struct
// driving a big per-node-kind dispatch, diagnostics threaded through a
// shared Bag), and borrowing the teacher's own "unreachable code" framing
// from internal/vm/compiler_loops.go's break/continue compilation, which
// already tracks when code after a jump can never run.
package optimizer

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
)

var _ ast.Optimizer = (*Optimizer)(nil)

// Optimizer drives ast.Optimizer over a single compilation unit, in place.
type Optimizer struct {
	Errors *diagnostics.Bag
}

// New builds an Optimizer reporting unreachable-code warnings into errs.
func New(errs *diagnostics.Bag) *Optimizer {
	return &Optimizer{Errors: errs}
}

// Run optimizes prog's top-level statements in place.
func (o *Optimizer) Run(prog *ast.Program) {
	prog.Statements = o.optimizeStatements(prog.Statements)
}

// optimizeStatements folds and filters a statement list, reusing its
// backing array (the standard in-place filter idiom: the write cursor
// never runs ahead of the read cursor). A statement that folds away
// entirely (dead branch, no-op expression statement) is dropped; anything
// appearing after a return is reported and dropped too.
func (o *Optimizer) optimizeStatements(stmts []ast.Statement) []ast.Statement {
	out := stmts[:0]
	reachable := true
	for _, stmt := range stmts {
		if !reachable {
			o.Errors.Warn(diagnostics.KindUnreachableCode, stmt.GetLoc(), "unreachable code")
			continue
		}
		folded := stmt.Optimize(o)
		if folded == nil {
			continue
		}
		out = append(out, folded)
		if _, isReturn := folded.(*ast.ReturnStatement); isReturn {
			reachable = false
		}
	}
	return out
}
